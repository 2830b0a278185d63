package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendAssistantReady(toEmail, assistantName string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

// SendAssistantReady notifies a user the first time their assistant
// finishes provisioning. Callers treat failures as soft; provisioning
// never blocks on SMTP.
func (s *emailService) SendAssistantReady(toEmail, assistantName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your assistant is ready")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>%s is ready to help</h2>
			<p>Your personal assistant has been set up and its knowledge base is indexed.</p>
			<p>Open the app and say hello - it already knows its way around.</p>
		</div>
	`, assistantName)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send ready notice to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Ready notice sent to %s\n", toEmail)
	return nil
}

package websocket

import (
	"context"
	"encoding/json"

	"concierge-be/internal/constant"
	"concierge-be/internal/dto"
	"concierge-be/internal/pkg/logger"
	"concierge-be/internal/pkg/mailer"
	"concierge-be/internal/service"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ChatHandler drives one websocket chat session: eager assistant
// provisioning with progress frames on connect, then a relay loop for
// text turns and thread commands.
type ChatHandler struct {
	hub        *Hub
	relay      service.IRelayService
	threads    service.IThreadService
	assistants service.IAssistantService
	mailer     mailer.IEmailService
	logger     logger.ILogger
}

func NewChatHandler(
	hub *Hub,
	relay service.IRelayService,
	threads service.IThreadService,
	assistants service.IAssistantService,
	emailService mailer.IEmailService,
	log logger.ILogger,
) *ChatHandler {
	return &ChatHandler{
		hub:        hub,
		relay:      relay,
		threads:    threads,
		assistants: assistants,
		mailer:     emailService,
		logger:     log,
	}
}

// ServeWs handles a websocket connection for an authenticated user.
// Runs on the fiber websocket handler goroutine until the peer hangs up.
func (h *ChatHandler) ServeWs(c *websocket.Conn, userID uuid.UUID, email string) {
	client := &Client{Hub: h.hub, Conn: c, UserID: userID, Send: make(chan []byte, 256)}
	client.OnMessage = func(data []byte) {
		h.handleInbound(client, data)
	}
	client.Hub.register <- client

	go client.writePump()

	client.SendFrame(dto.WSOutbound{Type: constant.WSTypeStatus, Status: constant.WSStatusConnected})

	// Provision eagerly so setup cost is paid on connect, not on the
	// first message. Runs aside the read pump; progress streams to the
	// client as frames.
	go h.provisionOnConnect(client, email)

	client.readPump() // Run readPump in current goroutine (handler)
}

func (h *ChatHandler) provisionOnConnect(client *Client, email string) {
	ctx := context.Background()
	sink := h.progressSink(client)

	assistant, created, err := h.assistants.EnsureAssistant(ctx, client.UserID, service.DisplayNameFromEmail(email), sink)
	if err != nil {
		h.logger.Error("ChatHandler", "Provisioning on connect failed", map[string]interface{}{
			"user_id": client.UserID.String(),
			"error":   err.Error(),
		})
		client.SendFrame(dto.WSOutbound{Type: constant.WSTypeError, Message: "assistant setup failed, please reconnect"})
		return
	}

	if created && email != "" && h.mailer != nil {
		go func() {
			// Soft failure: the session works whether or not SMTP does.
			_ = h.mailer.SendAssistantReady(email, assistant.AssistantName)
		}()
	}

	current, err := h.threads.Current(ctx, client.UserID)
	if err != nil {
		h.logger.Error("ChatHandler", "Thread lookup failed", map[string]interface{}{
			"user_id": client.UserID.String(),
			"error":   err.Error(),
		})
		return
	}
	if current == "" {
		sink(service.ProgressEvent{Step: constant.StepCreatingThread, Message: "Starting your conversation..."})
		if _, _, err := h.threads.Resolve(ctx, client.UserID, nil); err != nil {
			client.SendFrame(dto.WSOutbound{Type: constant.WSTypeError, Message: "could not open a conversation thread"})
			return
		}
		sink(service.ProgressEvent{Step: constant.StepComplete, Message: "Ready!"})
	}
}

func (h *ChatHandler) handleInbound(client *Client, data []byte) {
	var in dto.WSInbound
	if err := json.Unmarshal(data, &in); err != nil {
		client.SendFrame(dto.WSOutbound{Type: constant.WSTypeError, Message: "malformed message"})
		return
	}

	switch in.Type {
	case constant.WSTypeTextIn:
		if in.Content == "" {
			client.SendFrame(dto.WSOutbound{Type: constant.WSTypeError, Message: "empty message"})
			return
		}
		// Generation can outlive the ping window; never block the read pump.
		go h.handleText(client, in)

	case constant.WSTypeSwitchThread:
		go h.handleSwitch(client, in.ThreadId)

	case constant.WSTypeNewThread:
		go h.handleNewThread(client)

	default:
		client.SendFrame(dto.WSOutbound{Type: constant.WSTypeError, Message: "unknown message type"})
	}
}

func (h *ChatHandler) handleText(client *Client, in dto.WSInbound) {
	// Detached from the connection: a mid-generation disconnect must not
	// abort provisioning or leave the provider stream dangling.
	ctx := context.Background()

	client.SendFrame(dto.WSOutbound{Type: constant.WSTypeStatus, Status: constant.WSStatusThinking})

	reply, err := h.relay.RelayChat(ctx, client.UserID, in.Content, in.ModelId, h.progressSink(client), func(delta string) {
		client.SendFrame(dto.WSOutbound{Type: constant.WSTypeResponseDelta, Content: delta})
	})
	if err != nil {
		h.logger.Error("ChatHandler", "Relay failed", map[string]interface{}{
			"user_id": client.UserID.String(),
			"error":   err.Error(),
		})
		client.SendFrame(dto.WSOutbound{Type: constant.WSTypeError, Message: "the assistant could not answer, try again"})
		return
	}

	client.SendFrame(dto.WSOutbound{Type: constant.WSTypeResponseEnd, Content: reply})
}

func (h *ChatHandler) handleSwitch(client *Client, threadId string) {
	if err := h.threads.SwitchTo(context.Background(), client.UserID, threadId); err != nil {
		client.SendFrame(dto.WSOutbound{Type: constant.WSTypeError, Message: "could not switch thread"})
		return
	}
	// Every device this user has connected, on every instance, follows
	// the pointer move.
	h.hub.SendToUser(client.UserID, dto.WSOutbound{Type: constant.WSTypeThreadSwitched, ThreadId: threadId})
}

func (h *ChatHandler) handleNewThread(client *Client) {
	threadId, err := h.threads.CreateNew(context.Background(), client.UserID)
	if err != nil {
		client.SendFrame(dto.WSOutbound{Type: constant.WSTypeError, Message: "could not create thread"})
		return
	}
	h.hub.SendToUser(client.UserID, dto.WSOutbound{Type: constant.WSTypeThreadCreated, ThreadId: threadId})
}

// progressSink converts provisioning progress into websocket frames for
// one client.
func (h *ChatHandler) progressSink(client *Client) service.ProgressFunc {
	return func(ev service.ProgressEvent) {
		client.SendFrame(dto.WSOutbound{
			Type:    constant.WSTypeProvisioning,
			Step:    ev.Step,
			Message: ev.Message,
			Current: ev.Current,
			Total:   ev.Total,
		})
	}
}

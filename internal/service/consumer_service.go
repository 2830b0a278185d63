package service

import (
	"context"
	"encoding/json"

	"concierge-be/internal/constant"
	"concierge-be/internal/dto"
	"concierge-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Delivery pushes frames to connected WebSocket clients. Implemented by
// the websocket hub.
type Delivery interface {
	Broadcast(frame dto.WSOutbound)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process activity bus and fans items out
// to every connected client as a proactive notification.
type consumerService struct {
	pubSub   *gochannel.GoChannel
	delivery Delivery
	logger   logger.ILogger
}

func NewConsumerService(pubSub *gochannel.GoChannel, delivery Delivery, log logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub:   pubSub,
		delivery: delivery,
		logger:   log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, ActivityTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var item dto.ActivityItem
	if err := json.Unmarshal(msg.Payload, &item); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal activity message", map[string]interface{}{"error": err})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.delivery.Broadcast(dto.WSOutbound{
		Type:    constant.WSTypeNotification,
		Title:   item.Title,
		Message: item.Body,
	})

	cs.logger.Info("ConsumerService", "Activity broadcast", map[string]interface{}{
		"activity_id": item.Id,
	})
	msg.Ack()
}

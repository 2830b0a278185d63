package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"concierge-be/internal/dto"
	"concierge-be/internal/pkg/logger"
	"concierge-be/internal/repository/memory"
	"concierge-be/internal/service"
	"concierge-be/pkg/events"
	pktNats "concierge-be/pkg/nats"

	"github.com/google/uuid"
)

// Worker is the voice-side process. It consumes utterance transcripts
// from room bridges, relays them through the same thread routing the
// chat backend uses, and publishes replies for speech synthesis.
type Worker struct {
	relay      service.IRelayService
	threads    service.IThreadService
	cache      *memory.ThreadCache
	subscriber *pktNats.Subscriber
	publisher  *pktNats.Publisher
	logger     logger.ILogger
}

func NewWorker(
	relay service.IRelayService,
	threads service.IThreadService,
	cache *memory.ThreadCache,
	subscriber *pktNats.Subscriber,
	publisher *pktNats.Publisher,
	log logger.ILogger,
) *Worker {
	return &Worker{
		relay:      relay,
		threads:    threads,
		cache:      cache,
		subscriber: subscriber,
		publisher:  publisher,
		logger:     log,
	}
}

// Start wires the subscriptions and returns; consumption happens on
// NATS callback goroutines.
func (w *Worker) Start(ctx context.Context) error {
	// Pointer moves made by the chat backend must reach the next voice
	// turn promptly; drop the cached pointer as soon as we hear of one.
	if err := w.subscriber.Subscribe(events.Subject(events.TypeThreadSwitched), "voice-thread-switched", w.handleThreadEvent); err != nil {
		return fmt.Errorf("subscribe thread switches: %w", err)
	}
	if err := w.subscriber.Subscribe(events.Subject(events.TypeThreadCreated), "voice-thread-created", w.handleThreadEvent); err != nil {
		return fmt.Errorf("subscribe thread creates: %w", err)
	}

	if err := w.subscriber.Subscribe(events.Subject(events.TypeVoiceDispatch), "voice-dispatch", w.handleDispatch); err != nil {
		return fmt.Errorf("subscribe voice dispatch: %w", err)
	}

	if _, err := w.subscriber.SubscribeRaw("voice.*.transcript", w.handleTranscript); err != nil {
		return fmt.Errorf("subscribe transcripts: %w", err)
	}

	w.logger.Info("VoiceWorker", "Voice worker started", nil)
	return nil
}

func (w *Worker) handleThreadEvent(ctx context.Context, event events.Event) error {
	uidStr, _ := event.Payload()["user_id"].(string)
	uid, err := uuid.Parse(uidStr)
	if err != nil {
		// Malformed events are dropped, retrying cannot fix them.
		return nil
	}
	w.cache.Invalidate(uid)
	w.logger.Info("VoiceWorker", "Thread pointer invalidated", map[string]interface{}{
		"user_id": uidStr,
		"event":   event.EventType(),
	})
	return nil
}

func (w *Worker) handleDispatch(ctx context.Context, event events.Event) error {
	room, _ := event.Payload()["room"].(string)
	userId, _ := event.Payload()["user_id"].(string)

	uid, err := uuid.Parse(userId)
	if err != nil {
		return nil
	}

	// Resolve the assistant and thread now so the first utterance in
	// the room does not pay provisioning latency.
	threadId, _, err := w.threads.Resolve(ctx, uid, nil)
	if err != nil {
		// Best effort; the first transcript retries the resolve.
		w.logger.Warn("VoiceWorker", "Dispatch warm-up failed", map[string]interface{}{
			"room":    room,
			"user_id": userId,
			"error":   err.Error(),
		})
		return nil
	}

	w.logger.Info("VoiceWorker", "Voice session dispatched", map[string]interface{}{
		"room":      room,
		"user_id":   userId,
		"thread_id": threadId,
	})
	return nil
}

func (w *Worker) handleTranscript(subject string, data []byte) {
	var transcript dto.VoiceTranscript
	if err := json.Unmarshal(data, &transcript); err != nil {
		w.logger.Warn("VoiceWorker", "Malformed transcript", map[string]interface{}{
			"subject": subject,
			"error":   err.Error(),
		})
		return
	}
	if transcript.Text == "" {
		return
	}

	userId, err := uuid.Parse(transcript.UserId)
	if err != nil {
		w.logger.Warn("VoiceWorker", "Transcript with invalid user id", map[string]interface{}{
			"subject": subject,
		})
		return
	}

	reply, err := w.relay.RelayVoice(context.Background(), userId, transcript.Text)
	if err != nil {
		w.logger.Error("VoiceWorker", "Voice relay failed", map[string]interface{}{
			"user_id": transcript.UserId,
			"error":   err.Error(),
		})
		return
	}

	out := dto.VoiceReply{Room: transcript.Room, Text: reply}
	if err := w.publisher.PublishRaw(fmt.Sprintf("voice.%s.reply", transcript.Room), out); err != nil {
		w.logger.Error("VoiceWorker", "Failed to publish voice reply", map[string]interface{}{
			"room":  transcript.Room,
			"error": err.Error(),
		})
	}
}

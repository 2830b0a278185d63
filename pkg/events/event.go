package events

import (
	"fmt"
	"time"
)

// Event type codes shared by the chat backend and the voice agent.
const (
	TypeThreadSwitched = "THREAD_SWITCHED"
	TypeThreadCreated  = "THREAD_CREATED"
	TypeVoiceDispatch  = "VOICE_DISPATCH"
)

// Subject maps an event type to its NATS subject on the EVENTS stream.
func Subject(eventType string) string {
	return fmt.Sprintf("events.%s", eventType)
}

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "THREAD_SWITCHED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewThreadSwitched announces that a user's active thread pointer moved.
// The voice worker invalidates its cache on this so the next utterance
// lands in the new thread.
func NewThreadSwitched(userId, threadId string) BaseEvent {
	return BaseEvent{
		Type: TypeThreadSwitched,
		Data: map[string]interface{}{
			"user_id":   userId,
			"thread_id": threadId,
		},
		OccurredAt: time.Now(),
	}
}

func NewThreadCreated(userId, threadId string) BaseEvent {
	return BaseEvent{
		Type: TypeThreadCreated,
		Data: map[string]interface{}{
			"user_id":   userId,
			"thread_id": threadId,
		},
		OccurredAt: time.Now(),
	}
}

// NewVoiceDispatch asks the voice worker to attach to a room that a
// user just requested a token for.
func NewVoiceDispatch(userId, room string) BaseEvent {
	return BaseEvent{
		Type: TypeVoiceDispatch,
		Data: map[string]interface{}{
			"user_id": userId,
			"room":    room,
		},
		OccurredAt: time.Now(),
	}
}

package agent

import (
	"context"
	"errors"
	"sync"
	"testing"

	"concierge-be/internal/service"
	"concierge-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// warmupThreads records Resolve calls; the embedded interface panics on
// anything else the worker should not touch during dispatch.
type warmupThreads struct {
	service.IThreadService
	mu       sync.Mutex
	resolved []uuid.UUID
	err      error
}

func (s *warmupThreads) Resolve(_ context.Context, userId uuid.UUID, _ service.ProgressFunc) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolved = append(s.resolved, userId)
	if s.err != nil {
		return "", false, s.err
	}
	return "thr_warm", false, nil
}

func TestDispatchWarmsThreadResolution(t *testing.T) {
	threads := &warmupThreads{}
	worker := &Worker{threads: threads, logger: noopLogger{}}
	userId := uuid.New()

	err := worker.handleDispatch(context.Background(), events.NewVoiceDispatch(userId.String(), "room-1"))
	require.NoError(t, err)

	require.Len(t, threads.resolved, 1)
	assert.Equal(t, userId, threads.resolved[0], "dispatch resolves the dispatched user's thread")
}

func TestDispatchWarmupFailureIsSoft(t *testing.T) {
	threads := &warmupThreads{err: errors.New("provider unavailable")}
	worker := &Worker{threads: threads, logger: noopLogger{}}

	err := worker.handleDispatch(context.Background(), events.NewVoiceDispatch(uuid.New().String(), "room-1"))
	assert.NoError(t, err, "the first transcript retries the resolve")
}

func TestDispatchWithInvalidUserIdIsDropped(t *testing.T) {
	worker := &Worker{logger: noopLogger{}}

	event := events.BaseEvent{
		Type: events.TypeVoiceDispatch,
		Data: map[string]interface{}{"user_id": "garbage", "room": "room-1"},
	}
	assert.NoError(t, worker.handleDispatch(context.Background(), event))
}

package service

import (
	"context"
	"fmt"
	"time"

	"concierge-be/internal/dto"
	"concierge-be/internal/entity"
	"concierge-be/internal/pkg/logger"
	"concierge-be/internal/repository/contract"
	"concierge-be/pkg/backboard"
	"concierge-be/pkg/events"

	"github.com/google/uuid"
)

// ThreadAPI is the slice of the provider client thread routing needs.
type ThreadAPI interface {
	CreateThread(ctx context.Context, assistantID string) (*backboard.Thread, error)
	GetThread(ctx context.Context, threadID string) (*backboard.Thread, error)
	ListThreads(ctx context.Context, assistantID string) ([]backboard.Thread, error)
	DeleteThread(ctx context.Context, threadID string) error
}

// EventPublisher announces thread pointer changes on the bus so the
// voice worker drops its cached pointer. Satisfied by *nats.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// IThreadService owns the single active-thread pointer per user. Both
// the chat backend and the voice worker route turns through Resolve, so
// a thread switched in chat is immediately where voice turns land.
type IThreadService interface {
	// Resolve returns the user's active thread, creating one (and the
	// assistant, if needed) on first contact. Trusts the persisted
	// pointer without verifying it against the provider.
	Resolve(ctx context.Context, userId uuid.UUID, progress ProgressFunc) (string, bool, error)
	// Current returns "" when the user has no active thread.
	Current(ctx context.Context, userId uuid.UUID) (string, error)
	SwitchTo(ctx context.Context, userId uuid.UUID, threadId string) error
	CreateNew(ctx context.Context, userId uuid.UUID) (string, error)
	ClearSession(ctx context.Context, userId uuid.UUID) error

	List(ctx context.Context, userId uuid.UUID) ([]*dto.ThreadResponse, error)
	History(ctx context.Context, userId uuid.UUID, threadId string) (*dto.ThreadHistoryResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, threadId string) error
}

type threadService struct {
	api        ThreadAPI
	repo       contract.UserThreadRepository
	assistants IAssistantService
	publisher  EventPublisher
	logger     logger.ILogger
}

func NewThreadService(
	api ThreadAPI,
	repo contract.UserThreadRepository,
	assistants IAssistantService,
	publisher EventPublisher,
	log logger.ILogger,
) IThreadService {
	return &threadService{
		api:        api,
		repo:       repo,
		assistants: assistants,
		publisher:  publisher,
		logger:     log,
	}
}

func (s *threadService) Resolve(ctx context.Context, userId uuid.UUID, progress ProgressFunc) (string, bool, error) {
	row, err := s.repo.FindByUserId(ctx, userId)
	if err != nil {
		return "", false, fmt.Errorf("thread lookup for user %s: %w", userId, err)
	}
	if row != nil && row.ThreadId != "" {
		return row.ThreadId, false, nil
	}

	// First contact on this route: make sure the assistant exists, then
	// open a thread under it. No profile is available here, so a newly
	// created assistant gets the default name.
	assistant, _, err := s.assistants.EnsureAssistant(ctx, userId, "", progress)
	if err != nil {
		return "", false, err
	}

	threadId, err := s.openAndPoint(ctx, userId, assistant.AssistantId)
	if err != nil {
		return "", false, err
	}
	return threadId, true, nil
}

func (s *threadService) Current(ctx context.Context, userId uuid.UUID) (string, error) {
	row, err := s.repo.FindByUserId(ctx, userId)
	if err != nil {
		return "", err
	}
	if row == nil {
		return "", nil
	}
	return row.ThreadId, nil
}

func (s *threadService) SwitchTo(ctx context.Context, userId uuid.UUID, threadId string) error {
	if threadId == "" {
		return fmt.Errorf("thread id is required")
	}

	pointer := &entity.UserThread{
		UserId:    userId,
		ThreadId:  threadId,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Upsert(ctx, pointer); err != nil {
		return fmt.Errorf("switch thread for user %s: %w", userId, err)
	}

	s.announce(ctx, events.NewThreadSwitched(userId.String(), threadId))
	return nil
}

func (s *threadService) CreateNew(ctx context.Context, userId uuid.UUID) (string, error) {
	assistant, _, err := s.assistants.EnsureAssistant(ctx, userId, "", nil)
	if err != nil {
		return "", err
	}
	return s.openAndPoint(ctx, userId, assistant.AssistantId)
}

func (s *threadService) ClearSession(ctx context.Context, userId uuid.UUID) error {
	return s.repo.Delete(ctx, userId)
}

func (s *threadService) List(ctx context.Context, userId uuid.UUID) ([]*dto.ThreadResponse, error) {
	assistant, err := s.assistants.GetAssistant(ctx, userId)
	if err != nil {
		return nil, err
	}
	if assistant == nil {
		return []*dto.ThreadResponse{}, nil
	}

	active, err := s.Current(ctx, userId)
	if err != nil {
		return nil, err
	}

	threads, err := s.api.ListThreads(ctx, assistant.AssistantId)
	if err != nil {
		return nil, fmt.Errorf("list threads for user %s: %w", userId, err)
	}

	responses := make([]*dto.ThreadResponse, 0, len(threads))
	for _, t := range threads {
		res := &dto.ThreadResponse{
			ThreadId: t.ThreadID,
			Active:   t.ThreadID == active,
		}
		if created, err := time.Parse(time.RFC3339, t.CreatedAt); err == nil {
			res.CreatedAt = created
		}
		responses = append(responses, res)
	}
	return responses, nil
}

func (s *threadService) History(ctx context.Context, userId uuid.UUID, threadId string) (*dto.ThreadHistoryResponse, error) {
	if err := s.authorizeThread(ctx, userId, threadId); err != nil {
		return nil, err
	}

	thread, err := s.api.GetThread(ctx, threadId)
	if err != nil {
		return nil, fmt.Errorf("thread history %s: %w", threadId, err)
	}

	messages := make([]dto.ThreadMessageResponse, 0, len(thread.Messages))
	for _, m := range thread.Messages {
		messages = append(messages, dto.ThreadMessageResponse{
			MessageId: m.MessageID,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return &dto.ThreadHistoryResponse{ThreadId: thread.ThreadID, Messages: messages}, nil
}

func (s *threadService) Delete(ctx context.Context, userId uuid.UUID, threadId string) error {
	if err := s.authorizeThread(ctx, userId, threadId); err != nil {
		return err
	}

	if err := s.api.DeleteThread(ctx, threadId); err != nil {
		return fmt.Errorf("delete thread %s: %w", threadId, err)
	}

	// Deleting the active thread leaves the pointer dangling; clear it
	// so the next turn opens a fresh thread.
	active, err := s.Current(ctx, userId)
	if err != nil {
		return err
	}
	if active == threadId {
		return s.repo.Delete(ctx, userId)
	}
	return nil
}

// authorizeThread checks the thread belongs to the user's assistant.
// The provider has no per-user scoping of its own.
func (s *threadService) authorizeThread(ctx context.Context, userId uuid.UUID, threadId string) error {
	assistant, err := s.assistants.GetAssistant(ctx, userId)
	if err != nil {
		return err
	}
	if assistant == nil {
		return fmt.Errorf("user %s has no assistant", userId)
	}

	threads, err := s.api.ListThreads(ctx, assistant.AssistantId)
	if err != nil {
		return fmt.Errorf("authorize thread %s: %w", threadId, err)
	}
	for _, t := range threads {
		if t.ThreadID == threadId {
			return nil
		}
	}
	return fmt.Errorf("thread %s does not belong to user %s", threadId, userId)
}

func (s *threadService) openAndPoint(ctx context.Context, userId uuid.UUID, assistantId string) (string, error) {
	thread, err := s.api.CreateThread(ctx, assistantId)
	if err != nil {
		return "", fmt.Errorf("create thread for user %s: %w", userId, err)
	}

	pointer := &entity.UserThread{
		UserId:    userId,
		ThreadId:  thread.ThreadID,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Upsert(ctx, pointer); err != nil {
		return "", fmt.Errorf("persist thread pointer for user %s: %w", userId, err)
	}

	s.announce(ctx, events.NewThreadCreated(userId.String(), thread.ThreadID))
	return thread.ThreadID, nil
}

// announce publishes best-effort: a missed event means the voice worker
// serves one stale cached pointer until its TTL expires, not data loss.
func (s *threadService) announce(ctx context.Context, event events.BaseEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("ThreadService", "Failed to publish thread event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"concierge-be/internal/config"
	"concierge-be/internal/constant"
	"concierge-be/internal/dto"
	"concierge-be/internal/entity"
	"concierge-be/internal/pkg/logger"
	"concierge-be/internal/repository/contract"
	"concierge-be/pkg/backboard"

	"github.com/google/uuid"
)

// AssistantAPI is the slice of the provider client that provisioning
// needs. Satisfied by *backboard.Client; tests substitute fakes.
type AssistantAPI interface {
	CreateAssistant(ctx context.Context, req backboard.CreateAssistantRequest) (*backboard.Assistant, error)
	DeleteAssistant(ctx context.Context, assistantID string) error
	UploadDocument(ctx context.Context, assistantID, filePath string) (*backboard.Document, error)
	ListDocuments(ctx context.Context, assistantID string) ([]backboard.Document, error)
	ListMemories(ctx context.Context, assistantID string) ([]backboard.Memory, error)
	AddMemory(ctx context.Context, assistantID, content string) (*backboard.Memory, error)
	DeleteMemory(ctx context.Context, assistantID, memoryID string) error
}

// IAssistantService provisions and looks up per-user assistants.
type IAssistantService interface {
	// EnsureAssistant returns the user's assistant mapping, creating
	// and seeding a new assistant on first call. displayName
	// personalizes the assistant's name when non-empty. The bool
	// reports whether this call created it. Safe for concurrent
	// callers; at most one assistant is created per user per process.
	EnsureAssistant(ctx context.Context, userId uuid.UUID, displayName string, progress ProgressFunc) (*entity.UserAssistant, bool, error)
	// GetAssistant returns nil, nil when the user has no assistant yet.
	GetAssistant(ctx context.Context, userId uuid.UUID) (*entity.UserAssistant, error)
	// Deprovision removes the upstream assistant and the mapping row.
	Deprovision(ctx context.Context, userId uuid.UUID) error

	UploadDocument(ctx context.Context, userId uuid.UUID, filePath string) (*dto.DocumentResponse, error)
	ListDocuments(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentResponse, error)
	ListMemories(ctx context.Context, userId uuid.UUID) ([]*dto.MemoryResponse, error)
	AddMemory(ctx context.Context, userId uuid.UUID, content string) (*dto.MemoryResponse, error)
	DeleteMemory(ctx context.Context, userId uuid.UUID, memoryId string) error
}

type assistantService struct {
	api    AssistantAPI
	repo   contract.UserAssistantRepository
	poller *IndexPoller
	clock  Clock
	cfg    config.BackboardConfig
	logger logger.ILogger

	// Per-user provisioning locks. Serializes creation within this
	// process only; across processes the mapping upsert is
	// last-write-wins.
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewAssistantService(
	api AssistantAPI,
	repo contract.UserAssistantRepository,
	clock Clock,
	cfg config.BackboardConfig,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		api:    api,
		repo:   repo,
		poller: NewIndexPoller(api, clock, cfg.PollInterval, cfg.PollMaxAttempts, log),
		clock:  clock,
		cfg:    cfg,
		logger: log,
		locks:  make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *assistantService) GetAssistant(ctx context.Context, userId uuid.UUID) (*entity.UserAssistant, error) {
	return s.repo.FindByUserId(ctx, userId)
}

func (s *assistantService) userLock(userId uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userId]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userId] = lock
	}
	return lock
}

func (s *assistantService) EnsureAssistant(ctx context.Context, userId uuid.UUID, displayName string, progress ProgressFunc) (*entity.UserAssistant, bool, error) {
	// Fast path: no lock when the mapping already exists.
	existing, err := s.repo.FindByUserId(ctx, userId)
	if err != nil {
		return nil, false, fmt.Errorf("assistant lookup for user %s: %w", userId, err)
	}
	if existing != nil {
		return existing, false, nil
	}

	lock := s.userLock(userId)
	lock.Lock()
	defer lock.Unlock()

	// Double-check under the lock; a concurrent caller may have just
	// finished provisioning.
	existing, err = s.repo.FindByUserId(ctx, userId)
	if err != nil {
		return nil, false, fmt.Errorf("assistant lookup for user %s: %w", userId, err)
	}
	if existing != nil {
		return existing, false, nil
	}

	// Provisioning must survive the client disconnecting mid-setup,
	// otherwise a dropped WebSocket leaves a half-seeded assistant
	// with no mapping row.
	ctx = context.WithoutCancel(ctx)

	assistant, err := s.provision(ctx, userId, displayName, progress)
	if err != nil {
		return nil, false, err
	}
	return assistant, true, nil
}

func (s *assistantService) provision(ctx context.Context, userId uuid.UUID, displayName string, progress ProgressFunc) (*entity.UserAssistant, error) {
	start := s.clock.Now()
	name := constant.DefaultAssistantName
	if displayName != "" {
		name = fmt.Sprintf("%s - %s", constant.AssistantNamePrefix, displayName)
	}

	progress.emit(ProgressEvent{Step: constant.StepCreatingAssistant, Message: "Setting up your personal AI assistant..."})

	created, err := s.api.CreateAssistant(ctx, backboard.CreateAssistantRequest{
		Name:               name,
		Description:        constant.AssistantDescription,
		SystemPrompt:       constant.AssistantSystemPrompt,
		EmbeddingProvider:  constant.EmbeddingProvider,
		EmbeddingModelName: constant.EmbeddingModel,
		EmbeddingDims:      constant.EmbeddingDims,
	})
	if err != nil {
		return nil, fmt.Errorf("create assistant for user %s: %w", userId, err)
	}

	s.logger.Info("AssistantService", "Assistant created", map[string]interface{}{
		"user_id":      userId.String(),
		"assistant_id": created.AssistantID,
	})

	uploaded := s.uploadSharedDocuments(ctx, created.AssistantID, progress)

	if uploaded > 0 {
		result := s.poller.Wait(ctx, created.AssistantID, uploaded, func(indexed, total int) {
			progress.emit(ProgressEvent{
				Step:    constant.StepVerifying,
				Message: fmt.Sprintf("Indexing documents (%d/%d)...", indexed, total),
				Current: indexed,
				Total:   total,
			})
		})
		if result.State == PollStateTimedOut {
			// Usable immediately, indexing finishes in the background.
			s.logger.Warn("AssistantService", "Indexing did not converge in time", map[string]interface{}{
				"assistant_id": created.AssistantID,
				"indexed":      result.Indexed,
				"total":        result.Total,
				"attempts":     result.Attempts,
			})
		}
	}

	mapping := &entity.UserAssistant{
		UserId:        userId,
		AssistantId:   created.AssistantID,
		AssistantName: name,
		Embedding: entity.EmbeddingConfig{
			Provider: constant.EmbeddingProvider,
			Model:    constant.EmbeddingModel,
			Dims:     constant.EmbeddingDims,
		},
		CreatedAt: s.clock.Now(),
	}

	// Losing the mapping row orphans the assistant: the next call
	// would provision a duplicate. This failure is fatal.
	if err := s.repo.Upsert(ctx, mapping); err != nil {
		return nil, fmt.Errorf("persist assistant mapping for user %s: %w", userId, err)
	}

	progress.emit(ProgressEvent{Step: constant.StepComplete, Message: "Ready!"})

	s.logger.Info("AssistantService", "Provisioning complete", map[string]interface{}{
		"user_id":      userId.String(),
		"assistant_id": created.AssistantID,
		"docs":         uploaded,
		"elapsed":      s.clock.Now().Sub(start).String(),
	})
	return mapping, nil
}

// uploadSharedDocuments seeds the assistant's knowledge base one file
// at a time with a fixed pause between uploads so the provider's
// ingestion queue is not slammed. Missing or failing files are skipped;
// a thinner knowledge base beats failed provisioning.
func (s *assistantService) uploadSharedDocuments(ctx context.Context, assistantID string, progress ProgressFunc) int {
	total := len(constant.SharedDocuments)
	uploaded := 0

	for i, filename := range constant.SharedDocuments {
		progress.emit(ProgressEvent{
			Step:    constant.StepUploadingDocs,
			Message: fmt.Sprintf("Loading knowledge base... (%d/%d)", i+1, total),
			Current: i + 1,
			Total:   total,
		})

		path := filepath.Join(s.cfg.SharedDocsDir, filename)
		if _, err := os.Stat(path); err != nil {
			s.logger.Warn("AssistantService", "Shared document missing, skipping", map[string]interface{}{
				"file": filename,
			})
			continue
		}

		if _, err := s.api.UploadDocument(ctx, assistantID, path); err != nil {
			s.logger.Warn("AssistantService", "Document upload failed, skipping", map[string]interface{}{
				"file":  filename,
				"error": err.Error(),
			})
			continue
		}
		uploaded++

		if i < total-1 {
			s.clock.Sleep(ctx, s.cfg.UploadDelay)
		}
	}
	return uploaded
}

// Deprovision deletes the upstream assistant before the mapping row.
// An upstream failure aborts so the row keeps pointing at the assistant
// that still exists; retrying is always safe.
func (s *assistantService) Deprovision(ctx context.Context, userId uuid.UUID) error {
	assistant, err := s.repo.FindByUserId(ctx, userId)
	if err != nil {
		return err
	}
	if assistant == nil {
		return nil
	}

	if err := s.api.DeleteAssistant(ctx, assistant.AssistantId); err != nil {
		return fmt.Errorf("delete assistant %s for user %s: %w", assistant.AssistantId, userId, err)
	}
	if err := s.repo.Delete(ctx, userId); err != nil {
		return fmt.Errorf("delete assistant mapping for user %s: %w", userId, err)
	}

	s.logger.Info("AssistantService", "Assistant deprovisioned", map[string]interface{}{
		"user_id":      userId.String(),
		"assistant_id": assistant.AssistantId,
	})
	return nil
}

func (s *assistantService) UploadDocument(ctx context.Context, userId uuid.UUID, filePath string) (*dto.DocumentResponse, error) {
	assistant, err := s.requireAssistant(ctx, userId)
	if err != nil {
		return nil, err
	}

	doc, err := s.api.UploadDocument(ctx, assistant.AssistantId, filePath)
	if err != nil {
		return nil, fmt.Errorf("upload document for user %s: %w", userId, err)
	}
	return &dto.DocumentResponse{
		DocumentId: doc.DocumentID,
		Filename:   doc.Filename,
		Status:     doc.Status,
	}, nil
}

func (s *assistantService) ListDocuments(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentResponse, error) {
	assistant, err := s.requireAssistant(ctx, userId)
	if err != nil {
		return nil, err
	}

	docs, err := s.api.ListDocuments(ctx, assistant.AssistantId)
	if err != nil {
		return nil, fmt.Errorf("list documents for user %s: %w", userId, err)
	}

	responses := make([]*dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		responses = append(responses, &dto.DocumentResponse{
			DocumentId: d.DocumentID,
			Filename:   d.Filename,
			Status:     d.Status,
		})
	}
	return responses, nil
}

func (s *assistantService) ListMemories(ctx context.Context, userId uuid.UUID) ([]*dto.MemoryResponse, error) {
	assistant, err := s.requireAssistant(ctx, userId)
	if err != nil {
		return nil, err
	}

	memories, err := s.api.ListMemories(ctx, assistant.AssistantId)
	if err != nil {
		return nil, fmt.Errorf("list memories for user %s: %w", userId, err)
	}

	responses := make([]*dto.MemoryResponse, 0, len(memories))
	for _, m := range memories {
		responses = append(responses, &dto.MemoryResponse{
			MemoryId: m.MemoryID,
			Content:  m.Content,
			Metadata: m.Metadata,
		})
	}
	return responses, nil
}

func (s *assistantService) AddMemory(ctx context.Context, userId uuid.UUID, content string) (*dto.MemoryResponse, error) {
	assistant, err := s.requireAssistant(ctx, userId)
	if err != nil {
		return nil, err
	}

	memory, err := s.api.AddMemory(ctx, assistant.AssistantId, content)
	if err != nil {
		return nil, fmt.Errorf("add memory for user %s: %w", userId, err)
	}
	return &dto.MemoryResponse{
		MemoryId: memory.MemoryID,
		Content:  memory.Content,
		Metadata: memory.Metadata,
	}, nil
}

func (s *assistantService) DeleteMemory(ctx context.Context, userId uuid.UUID, memoryId string) error {
	assistant, err := s.requireAssistant(ctx, userId)
	if err != nil {
		return err
	}
	if err := s.api.DeleteMemory(ctx, assistant.AssistantId, memoryId); err != nil {
		return fmt.Errorf("delete memory %s for user %s: %w", memoryId, userId, err)
	}
	return nil
}

func (s *assistantService) requireAssistant(ctx context.Context, userId uuid.UUID) (*entity.UserAssistant, error) {
	assistant, err := s.repo.FindByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if assistant == nil {
		return nil, fmt.Errorf("user %s has no assistant", userId)
	}
	return assistant, nil
}

// DisplayNameFromEmail derives a short display name from an email
// address. Empty input yields "" so provisioning falls back to the
// default assistant name.
func DisplayNameFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found {
		return email
	}
	return local
}

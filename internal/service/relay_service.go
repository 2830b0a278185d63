package service

import (
	"context"
	"fmt"

	"concierge-be/internal/config"
	"concierge-be/internal/constant"
	"concierge-be/internal/pkg/logger"
	"concierge-be/pkg/backboard"

	"github.com/google/uuid"
)

// MessageAPI is the slice of the provider client used to relay turns.
type MessageAPI interface {
	SendMessage(ctx context.Context, threadID string, opts backboard.MessageOptions, onToken func(delta string)) (string, error)
}

// IRelayService routes user turns into the user's active thread. The
// provider carries conversation history and memory, so relaying is
// stateless here: resolve the thread, forward the turn, stream back.
type IRelayService interface {
	// RelayChat streams the reply token by token through onToken and
	// returns the full text. modelId selects from the chat model
	// catalog; empty picks the default.
	RelayChat(ctx context.Context, userId uuid.UUID, content, modelId string, progress ProgressFunc, onToken func(delta string)) (string, error)
	// RelayVoice returns the complete reply for speech synthesis using
	// the low-latency voice model.
	RelayVoice(ctx context.Context, userId uuid.UUID, content string) (string, error)
}

type relayService struct {
	api     MessageAPI
	threads IThreadService
	cfg     config.BackboardConfig
	logger  logger.ILogger
}

func NewRelayService(api MessageAPI, threads IThreadService, cfg config.BackboardConfig, log logger.ILogger) IRelayService {
	return &relayService{
		api:     api,
		threads: threads,
		cfg:     cfg,
		logger:  log,
	}
}

func (s *relayService) RelayChat(ctx context.Context, userId uuid.UUID, content, modelId string, progress ProgressFunc, onToken func(delta string)) (string, error) {
	threadId, _, err := s.threads.Resolve(ctx, userId, progress)
	if err != nil {
		return "", err
	}

	provider, model := s.chatModel(modelId)
	reply, err := s.api.SendMessage(ctx, threadId, backboard.MessageOptions{
		Content:  content,
		Provider: provider,
		Model:    model,
	}, onToken)
	if err != nil {
		return "", fmt.Errorf("relay chat turn for user %s: %w", userId, err)
	}
	return reply, nil
}

func (s *relayService) RelayVoice(ctx context.Context, userId uuid.UUID, content string) (string, error) {
	// Voice provisions silently; there is no UI to render progress into.
	threadId, _, err := s.threads.Resolve(ctx, userId, nil)
	if err != nil {
		return "", err
	}

	// The assistant's stored prompt is shared with chat, so the
	// spoken-answer guidelines ride along with each voice turn.
	reply, err := s.api.SendMessage(ctx, threadId, backboard.MessageOptions{
		Content:  constant.VoicePromptSuffix + "\n" + content,
		Provider: s.cfg.VoiceProvider,
		Model:    s.cfg.VoiceModel,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("relay voice turn for user %s: %w", userId, err)
	}
	return reply, nil
}

// chatModel maps a catalog id to provider/model, falling back to the
// configured default for unknown or empty ids.
func (s *relayService) chatModel(modelId string) (string, string) {
	if modelId != "" {
		if m, ok := constant.ChatModelByID(modelId); ok {
			return m.Provider, m.Model
		}
		s.logger.Warn("RelayService", "Unknown model id, using default", map[string]interface{}{
			"model_id": modelId,
		})
	}
	return s.cfg.ChatProvider, s.cfg.ChatModel
}

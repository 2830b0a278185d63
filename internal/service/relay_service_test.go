package service

import (
	"context"
	"strings"
	"testing"

	"concierge-be/internal/config"
	"concierge-be/pkg/backboard"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedSend struct {
	threadID string
	opts     backboard.MessageOptions
	streamed bool
}

type fakeMessageAPI struct {
	sends []capturedSend
	reply string
}

func (f *fakeMessageAPI) SendMessage(_ context.Context, threadID string, opts backboard.MessageOptions, onToken func(delta string)) (string, error) {
	f.sends = append(f.sends, capturedSend{threadID: threadID, opts: opts, streamed: onToken != nil})
	if onToken != nil {
		onToken(f.reply)
	}
	return f.reply, nil
}

// stubThreads always resolves to a fixed thread.
type stubThreads struct {
	IThreadService
	threadId string
}

func (s *stubThreads) Resolve(_ context.Context, _ uuid.UUID, _ ProgressFunc) (string, bool, error) {
	return s.threadId, false, nil
}

func relayFixture() (*fakeMessageAPI, IRelayService) {
	api := &fakeMessageAPI{reply: "hello there"}
	cfg := config.BackboardConfig{
		ChatProvider:  "anthropic",
		ChatModel:     "claude-sonnet-4-5-20250929",
		VoiceProvider: "groq",
		VoiceModel:    "llama-3.3-70b-versatile",
	}
	svc := NewRelayService(api, &stubThreads{threadId: "thr_active"}, cfg, noopLogger{})
	return api, svc
}

func TestRelayChatUsesCatalogModel(t *testing.T) {
	api, svc := relayFixture()

	var deltas []string
	reply, err := svc.RelayChat(context.Background(), uuid.New(), "hi", "gpt-4o", nil, func(delta string) {
		deltas = append(deltas, delta)
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", reply)
	assert.Equal(t, []string{"hello there"}, deltas)

	require.Len(t, api.sends, 1)
	send := api.sends[0]
	assert.Equal(t, "thr_active", send.threadID)
	assert.Equal(t, "openai", send.opts.Provider)
	assert.Equal(t, "gpt-4o", send.opts.Model)
	assert.True(t, send.streamed)
}

func TestRelayChatUnknownModelFallsBack(t *testing.T) {
	api, svc := relayFixture()

	_, err := svc.RelayChat(context.Background(), uuid.New(), "hi", "no-such-model", nil, nil)
	require.NoError(t, err)

	require.Len(t, api.sends, 1)
	assert.Equal(t, "anthropic", api.sends[0].opts.Provider)
	assert.Equal(t, "claude-sonnet-4-5-20250929", api.sends[0].opts.Model)
}

func TestRelayVoiceUsesVoiceModel(t *testing.T) {
	api, svc := relayFixture()

	reply, err := svc.RelayVoice(context.Background(), uuid.New(), "what's on today")
	require.NoError(t, err)
	assert.Equal(t, "hello there", reply)

	require.Len(t, api.sends, 1)
	send := api.sends[0]
	assert.Equal(t, "thr_active", send.threadID)
	assert.Equal(t, "groq", send.opts.Provider)
	assert.Equal(t, "llama-3.3-70b-versatile", send.opts.Model)
	assert.False(t, send.streamed, "voice turns are not streamed")

	// Spoken-answer guidelines travel with the turn; the transcript
	// itself must survive unmodified at the end.
	assert.Contains(t, send.opts.Content, "Voice Mode Guidelines")
	assert.True(t, strings.HasSuffix(send.opts.Content, "what's on today"))
}

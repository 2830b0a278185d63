package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"concierge-be/internal/dto"
	"concierge-be/internal/entity"
	"concierge-be/pkg/backboard"
	"concierge-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeThreadAPI struct {
	mu        sync.Mutex
	created   int
	threads   map[string][]backboard.Thread // assistantID -> threads
	deleted   []string
	createErr error
}

func newFakeThreadAPI() *fakeThreadAPI {
	return &fakeThreadAPI{threads: make(map[string][]backboard.Thread)}
}

func (f *fakeThreadAPI) CreateThread(_ context.Context, assistantID string) (*backboard.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created++
	thread := backboard.Thread{ThreadID: fmt.Sprintf("thr_%d", f.created)}
	f.threads[assistantID] = append(f.threads[assistantID], thread)
	return &thread, nil
}

func (f *fakeThreadAPI) GetThread(_ context.Context, threadID string) (*backboard.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, threads := range f.threads {
		for _, t := range threads {
			if t.ThreadID == threadID {
				return &t, nil
			}
		}
	}
	return nil, fmt.Errorf("thread %s not found", threadID)
}

func (f *fakeThreadAPI) ListThreads(_ context.Context, assistantID string) ([]backboard.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.threads[assistantID], nil
}

func (f *fakeThreadAPI) DeleteThread(_ context.Context, threadID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, threadID)
	return nil
}

type fakeThreadRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]entity.UserThread
}

func newFakeThreadRepo() *fakeThreadRepo {
	return &fakeThreadRepo{rows: make(map[uuid.UUID]entity.UserThread)}
}

func (r *fakeThreadRepo) Upsert(_ context.Context, t *entity.UserThread) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[t.UserId] = *t
	return nil
}

func (r *fakeThreadRepo) FindByUserId(_ context.Context, userId uuid.UUID) (*entity.UserThread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[userId]; ok {
		copied := row
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeThreadRepo) Delete(_ context.Context, userId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, userId)
	return nil
}

// stubAssistants hands back a fixed mapping without provisioning.
type stubAssistants struct {
	assistant *entity.UserAssistant
	ensures   int
}

func (s *stubAssistants) EnsureAssistant(_ context.Context, _ uuid.UUID, _ string, _ ProgressFunc) (*entity.UserAssistant, bool, error) {
	s.ensures++
	return s.assistant, false, nil
}

func (s *stubAssistants) GetAssistant(_ context.Context, _ uuid.UUID) (*entity.UserAssistant, error) {
	return s.assistant, nil
}

func (s *stubAssistants) Deprovision(_ context.Context, _ uuid.UUID) error {
	return nil
}

func (s *stubAssistants) UploadDocument(_ context.Context, _ uuid.UUID, _ string) (*dto.DocumentResponse, error) {
	return nil, nil
}

func (s *stubAssistants) ListDocuments(_ context.Context, _ uuid.UUID) ([]*dto.DocumentResponse, error) {
	return nil, nil
}

func (s *stubAssistants) ListMemories(_ context.Context, _ uuid.UUID) ([]*dto.MemoryResponse, error) {
	return nil, nil
}

func (s *stubAssistants) AddMemory(_ context.Context, _ uuid.UUID, _ string) (*dto.MemoryResponse, error) {
	return nil, nil
}

func (s *stubAssistants) DeleteMemory(_ context.Context, _ uuid.UUID, _ string) error {
	return nil
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

func newThreadFixture(userId uuid.UUID) (*fakeThreadAPI, *fakeThreadRepo, *stubAssistants, *capturingPublisher, IThreadService) {
	api := newFakeThreadAPI()
	repo := newFakeThreadRepo()
	assistants := &stubAssistants{assistant: &entity.UserAssistant{UserId: userId, AssistantId: "asst_1"}}
	publisher := &capturingPublisher{}
	svc := NewThreadService(api, repo, assistants, publisher, noopLogger{})
	return api, repo, assistants, publisher, svc
}

func TestResolveTrustsPersistedPointer(t *testing.T) {
	userId := uuid.New()
	api, repo, assistants, _, svc := newThreadFixture(userId)
	repo.rows[userId] = entity.UserThread{UserId: userId, ThreadId: "thr_persisted"}

	threadId, created, err := svc.Resolve(context.Background(), userId, nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "thr_persisted", threadId)
	assert.Equal(t, 0, api.created, "no provider call when the pointer exists")
	assert.Equal(t, 0, assistants.ensures)
}

func TestResolveCreatesAndAnnounces(t *testing.T) {
	userId := uuid.New()
	api, repo, assistants, publisher, svc := newThreadFixture(userId)

	threadId, created, err := svc.Resolve(context.Background(), userId, nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "thr_1", threadId)
	assert.Equal(t, 1, api.created)
	assert.Equal(t, 1, assistants.ensures)
	assert.Equal(t, []string{"THREAD_CREATED"}, publisher.types())

	row, err := repo.FindByUserId(context.Background(), userId)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "thr_1", row.ThreadId)
}

func TestSwitchToUpsertsAndAnnounces(t *testing.T) {
	userId := uuid.New()
	_, repo, _, publisher, svc := newThreadFixture(userId)
	repo.rows[userId] = entity.UserThread{UserId: userId, ThreadId: "thr_old"}

	err := svc.SwitchTo(context.Background(), userId, "thr_new")
	require.NoError(t, err)

	current, err := svc.Current(context.Background(), userId)
	require.NoError(t, err)
	assert.Equal(t, "thr_new", current)
	assert.Equal(t, []string{"THREAD_SWITCHED"}, publisher.types())
}

func TestSwitchToRejectsEmptyThreadId(t *testing.T) {
	userId := uuid.New()
	_, _, _, publisher, svc := newThreadFixture(userId)

	err := svc.SwitchTo(context.Background(), userId, "")
	require.Error(t, err)
	assert.Empty(t, publisher.types())
}

func TestCreateNewOverwritesPointer(t *testing.T) {
	userId := uuid.New()
	_, repo, _, publisher, svc := newThreadFixture(userId)
	repo.rows[userId] = entity.UserThread{UserId: userId, ThreadId: "thr_old"}

	threadId, err := svc.CreateNew(context.Background(), userId)
	require.NoError(t, err)
	assert.Equal(t, "thr_1", threadId)

	current, err := svc.Current(context.Background(), userId)
	require.NoError(t, err)
	assert.Equal(t, "thr_1", current)
	assert.Equal(t, []string{"THREAD_CREATED"}, publisher.types())
}

func TestDeleteActiveThreadClearsPointer(t *testing.T) {
	userId := uuid.New()
	api, _, _, _, svc := newThreadFixture(userId)

	threadId, err := svc.CreateNew(context.Background(), userId)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), userId, threadId)
	require.NoError(t, err)
	assert.Equal(t, []string{threadId}, api.deleted)

	current, err := svc.Current(context.Background(), userId)
	require.NoError(t, err)
	assert.Empty(t, current, "pointer is cleared so the next turn opens a fresh thread")
}

func TestDeleteForeignThreadIsRejected(t *testing.T) {
	userId := uuid.New()
	api, _, _, _, svc := newThreadFixture(userId)

	err := svc.Delete(context.Background(), userId, "thr_other_users")
	require.Error(t, err)
	assert.Empty(t, api.deleted)
}

func TestListMarksActiveThread(t *testing.T) {
	userId := uuid.New()
	_, _, _, _, svc := newThreadFixture(userId)

	first, err := svc.CreateNew(context.Background(), userId)
	require.NoError(t, err)
	second, err := svc.CreateNew(context.Background(), userId)
	require.NoError(t, err)

	threads, err := svc.List(context.Background(), userId)
	require.NoError(t, err)
	require.Len(t, threads, 2)
	for _, thread := range threads {
		switch thread.ThreadId {
		case first:
			assert.False(t, thread.Active)
		case second:
			assert.True(t, thread.Active)
		default:
			t.Fatalf("unexpected thread %s", thread.ThreadId)
		}
	}
}

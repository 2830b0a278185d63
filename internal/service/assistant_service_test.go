package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"concierge-be/internal/config"
	"concierge-be/internal/constant"
	"concierge-be/internal/entity"
	"concierge-be/pkg/backboard"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Shared fakes for the service package tests.

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

// fakeClock never sleeps; it records requested delays and advances a
// synthetic now.
type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	slept []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
}

type fakeAssistantAPI struct {
	mu             sync.Mutex
	createCalls    int
	createdNames   []string
	uploadCalls    []string
	indexedPerList []int // indexed count returned per ListDocuments call
	listCalls      int
	uploadErr      error
	createErr      error
}

func (f *fakeAssistantAPI) CreateAssistant(_ context.Context, req backboard.CreateAssistantRequest) (*backboard.Assistant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createCalls++
	f.createdNames = append(f.createdNames, req.Name)
	return &backboard.Assistant{AssistantID: fmt.Sprintf("asst_%d", f.createCalls), Name: req.Name}, nil
}

func (f *fakeAssistantAPI) UploadDocument(_ context.Context, _, filePath string) (*backboard.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploadCalls = append(f.uploadCalls, filepath.Base(filePath))
	return &backboard.Document{DocumentID: fmt.Sprintf("doc_%d", len(f.uploadCalls)), Status: backboard.StatusPending}, nil
}

func (f *fakeAssistantAPI) ListDocuments(_ context.Context, _ string) ([]backboard.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	indexed := len(f.uploadCalls)
	if f.listCalls < len(f.indexedPerList) {
		indexed = f.indexedPerList[f.listCalls]
	}
	f.listCalls++

	docs := make([]backboard.Document, 0, len(f.uploadCalls))
	for i := range f.uploadCalls {
		status := backboard.StatusPending
		if i < indexed {
			status = backboard.StatusIndexed
		}
		docs = append(docs, backboard.Document{DocumentID: fmt.Sprintf("doc_%d", i+1), Status: status})
	}
	return docs, nil
}

func (f *fakeAssistantAPI) DeleteAssistant(_ context.Context, _ string) error {
	return nil
}

func (f *fakeAssistantAPI) ListMemories(_ context.Context, _ string) ([]backboard.Memory, error) {
	return nil, nil
}

func (f *fakeAssistantAPI) AddMemory(_ context.Context, _, content string) (*backboard.Memory, error) {
	return &backboard.Memory{MemoryID: "mem_1", Content: content}, nil
}

func (f *fakeAssistantAPI) DeleteMemory(_ context.Context, _, _ string) error {
	return nil
}

type fakeAssistantRepo struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]entity.UserAssistant
	upsertErr error
	finds     int
}

func newFakeAssistantRepo() *fakeAssistantRepo {
	return &fakeAssistantRepo{rows: make(map[uuid.UUID]entity.UserAssistant)}
}

func (r *fakeAssistantRepo) Upsert(_ context.Context, a *entity.UserAssistant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.rows[a.UserId] = *a
	return nil
}

func (r *fakeAssistantRepo) FindByUserId(_ context.Context, userId uuid.UUID) (*entity.UserAssistant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	if row, ok := r.rows[userId]; ok {
		copied := row
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeAssistantRepo) Delete(_ context.Context, userId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, userId)
	return nil
}

// writeSharedDocs materializes n of the shared documents in a temp dir.
func writeSharedDocs(t *testing.T, n int) string {
	t.Helper()
	dir := t.TempDir()
	for i, name := range constant.SharedDocuments {
		if i >= n {
			break
		}
		err := os.WriteFile(filepath.Join(dir, name), []byte("content"), 0o644)
		require.NoError(t, err)
	}
	return dir
}

func testBackboardConfig(docsDir string) config.BackboardConfig {
	return config.BackboardConfig{
		SharedDocsDir:   docsDir,
		UploadDelay:     300 * time.Millisecond,
		PollInterval:    5 * time.Second,
		PollMaxAttempts: 18,
	}
}

func TestEnsureAssistantFastPath(t *testing.T) {
	userId := uuid.New()
	repo := newFakeAssistantRepo()
	repo.rows[userId] = entity.UserAssistant{UserId: userId, AssistantId: "asst_existing"}
	api := &fakeAssistantAPI{}

	svc := NewAssistantService(api, repo, newFakeClock(), testBackboardConfig(t.TempDir()), noopLogger{})

	assistant, created, err := svc.EnsureAssistant(context.Background(), userId, "", nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "asst_existing", assistant.AssistantId)
	assert.Equal(t, 0, api.createCalls)
}

func TestEnsureAssistantProvisionsOnce(t *testing.T) {
	userId := uuid.New()
	repo := newFakeAssistantRepo()
	api := &fakeAssistantAPI{}
	docsDir := writeSharedDocs(t, len(constant.SharedDocuments))

	svc := NewAssistantService(api, repo, newFakeClock(), testBackboardConfig(docsDir), noopLogger{})

	const callers = 10
	var wg sync.WaitGroup
	createdCount := make(chan bool, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assistant, created, err := svc.EnsureAssistant(context.Background(), userId, "", nil)
			assert.NoError(t, err)
			assert.NotNil(t, assistant)
			createdCount <- created
		}()
	}
	wg.Wait()
	close(createdCount)

	creators := 0
	for created := range createdCount {
		if created {
			creators++
		}
	}
	assert.Equal(t, 1, creators, "exactly one caller should have created the assistant")
	assert.Equal(t, 1, api.createCalls)
	assert.Len(t, api.uploadCalls, len(constant.SharedDocuments))
}

func TestEnsureAssistantProgressOrder(t *testing.T) {
	userId := uuid.New()
	repo := newFakeAssistantRepo()
	api := &fakeAssistantAPI{}
	docsDir := writeSharedDocs(t, 3)

	svc := NewAssistantService(api, repo, newFakeClock(), testBackboardConfig(docsDir), noopLogger{})

	var events []ProgressEvent
	_, created, err := svc.EnsureAssistant(context.Background(), userId, "", func(ev ProgressEvent) {
		events = append(events, ev)
	})
	require.NoError(t, err)
	assert.True(t, created)

	require.NotEmpty(t, events)
	steps := make([]string, 0, len(events))
	for _, ev := range events {
		steps = append(steps, ev.Step)
		assert.NotEmpty(t, ev.Message, "step %s carries no message", ev.Step)
	}
	assert.Equal(t, constant.StepCreatingAssistant, steps[0])
	assert.Equal(t, constant.StepComplete, steps[len(steps)-1])

	// uploading_docs must come before verifying, verifying before complete.
	lastUpload, firstVerify := -1, -1
	for i, step := range steps {
		switch step {
		case constant.StepUploadingDocs:
			lastUpload = i
		case constant.StepVerifying:
			if firstVerify == -1 {
				firstVerify = i
			}
		}
	}
	require.NotEqual(t, -1, lastUpload)
	require.NotEqual(t, -1, firstVerify)
	assert.Less(t, lastUpload, firstVerify)
}

func TestEnsureAssistantSkipsMissingDocuments(t *testing.T) {
	userId := uuid.New()
	repo := newFakeAssistantRepo()
	api := &fakeAssistantAPI{}
	// Only 2 of the shared documents exist on disk.
	docsDir := writeSharedDocs(t, 2)

	svc := NewAssistantService(api, repo, newFakeClock(), testBackboardConfig(docsDir), noopLogger{})

	_, created, err := svc.EnsureAssistant(context.Background(), userId, "", nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Len(t, api.uploadCalls, 2)

	// Provisioning still completes and persists the mapping.
	row, err := repo.FindByUserId(context.Background(), userId)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.NotEmpty(t, row.AssistantId)
}

func TestEnsureAssistantUploadFailureIsSoft(t *testing.T) {
	userId := uuid.New()
	repo := newFakeAssistantRepo()
	api := &fakeAssistantAPI{uploadErr: fmt.Errorf("ingestion unavailable")}
	docsDir := writeSharedDocs(t, len(constant.SharedDocuments))

	svc := NewAssistantService(api, repo, newFakeClock(), testBackboardConfig(docsDir), noopLogger{})

	assistant, created, err := svc.EnsureAssistant(context.Background(), userId, "", nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotNil(t, assistant)
	assert.Empty(t, api.uploadCalls)
}

func TestEnsureAssistantMappingWriteIsFatal(t *testing.T) {
	userId := uuid.New()
	repo := newFakeAssistantRepo()
	repo.upsertErr = fmt.Errorf("connection reset")
	api := &fakeAssistantAPI{}
	docsDir := writeSharedDocs(t, 1)

	svc := NewAssistantService(api, repo, newFakeClock(), testBackboardConfig(docsDir), noopLogger{})

	_, _, err := svc.EnsureAssistant(context.Background(), userId, "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist assistant mapping")

	// No row was written, so a retry provisions again rather than
	// silently reusing a mapping that was never stored.
	repo.upsertErr = nil
	_, created, err := svc.EnsureAssistant(context.Background(), userId, "", nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 2, api.createCalls)
}

func TestEnsureAssistantPacesUploads(t *testing.T) {
	userId := uuid.New()
	repo := newFakeAssistantRepo()
	api := &fakeAssistantAPI{}
	clock := newFakeClock()
	docsDir := writeSharedDocs(t, len(constant.SharedDocuments))
	cfg := testBackboardConfig(docsDir)

	svc := NewAssistantService(api, repo, clock, cfg, noopLogger{})

	_, _, err := svc.EnsureAssistant(context.Background(), userId, "", nil)
	require.NoError(t, err)

	paced := 0
	for _, d := range clock.slept {
		if d == cfg.UploadDelay {
			paced++
		}
	}
	// A pause follows every upload except the final one.
	assert.Equal(t, len(constant.SharedDocuments)-1, paced)
}

func TestEnsureAssistantPersonalizesName(t *testing.T) {
	repo := newFakeAssistantRepo()
	api := &fakeAssistantAPI{}
	docsDir := writeSharedDocs(t, 2)

	svc := NewAssistantService(api, repo, newFakeClock(), testBackboardConfig(docsDir), noopLogger{})

	assistant, created, err := svc.EnsureAssistant(context.Background(), uuid.New(), "alice", nil)
	require.NoError(t, err)
	require.True(t, created)

	assert.Equal(t, "AURA - alice", assistant.AssistantName)
	require.Len(t, api.createdNames, 1)
	assert.Equal(t, "AURA - alice", api.createdNames[0])
}

func TestEnsureAssistantDefaultNameWithoutProfile(t *testing.T) {
	repo := newFakeAssistantRepo()
	api := &fakeAssistantAPI{}
	docsDir := writeSharedDocs(t, 2)

	svc := NewAssistantService(api, repo, newFakeClock(), testBackboardConfig(docsDir), noopLogger{})

	assistant, _, err := svc.EnsureAssistant(context.Background(), uuid.New(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, constant.DefaultAssistantName, assistant.AssistantName)
}

func TestDisplayNameFromEmail(t *testing.T) {
	assert.Equal(t, "alice", DisplayNameFromEmail("alice@example.com"))
	assert.Equal(t, "bob.builder", DisplayNameFromEmail("bob.builder@team.dev"))
	assert.Equal(t, "", DisplayNameFromEmail(""))
	assert.Equal(t, "", DisplayNameFromEmail("@example.com"))
}

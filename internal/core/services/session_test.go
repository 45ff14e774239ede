package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiserse/toolbox/internal/domain"
)

type fakeCheckRepo struct {
	mu            sync.Mutex
	saved         []domain.DomainCheck
	saveID        string
	cached        map[string]*domain.DomainCheck
	updateResults []string
	recent        []domain.DomainCheck
	fetchRows     []domain.DomainCheck
}

func (f *fakeCheckRepo) FetchByDomains(_ context.Context, _ []string) ([]domain.DomainCheck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchRows, nil
}

func (f *fakeCheckRepo) Save(_ context.Context, check *domain.DomainCheck) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, *check)
	return f.saveID
}

func (f *fakeCheckRepo) UpdateResult(_ context.Context, id string, _ domain.CheckStatus, _ domain.RawResults) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateResults = append(f.updateResults, id)
	return true
}

func (f *fakeCheckRepo) GetCached(_ context.Context, d string, _ time.Duration) (*domain.DomainCheck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cached[d], nil
}

func (f *fakeCheckRepo) ListRecent(_ context.Context, _ int) ([]domain.DomainCheck, error) {
	return f.recent, nil
}

type fakeBatchRepo struct {
	mu         sync.Mutex
	created    []domain.DomainBatch
	createErr  error
	increments []string
}

func (f *fakeBatchRepo) Create(_ context.Context, batch *domain.DomainBatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	batch.ID = "batch-1"
	f.created = append(f.created, *batch)
	return nil
}

func (f *fakeBatchRepo) GetByID(_ context.Context, _ string) (*domain.DomainBatch, error) {
	return nil, nil
}

func (f *fakeBatchRepo) GetByCreator(_ context.Context, _ string) ([]domain.DomainBatch, error) {
	return nil, nil
}

func (f *fakeBatchRepo) UpdateStatus(_ context.Context, _ string, _ domain.BatchStatus, _ *int) error {
	return nil
}

func (f *fakeBatchRepo) IncrementProgress(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.increments = append(f.increments, id)
	return nil
}

func (f *fakeBatchRepo) Delete(_ context.Context, _ string) error { return nil }

func (f *fakeBatchRepo) incrementCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.increments)
}

func newTestSession(domains []string, batchID string, checks *fakeCheckRepo, batches *fakeBatchRepo) *CheckSession {
	return newCheckSession("session-1", batchID, domains, checks, NewBatchService(batches, testLogger()), testLogger())
}

func TestSessionMergesUpdatesAdditively(t *testing.T) {
	checks := &fakeCheckRepo{}
	batches := &fakeBatchRepo{}
	session := newTestSession([]string{"example.com"}, "batch-1", checks, batches)
	session.MarkSubmitted("example.com", "task-1", "rec-1")

	session.HandleUpdate(domain.TaskUpdate{
		TaskID: "task-1",
		Domain: "example.com",
		Status: domain.CheckStatusInProgress,
		Results: domain.CheckResults{
			domain.CheckBotBlockers: domain.BotBlockersResult{Status: domain.CheckStatusCompleted},
		},
		Timestamp: time.Now(),
	})

	// A later partial payload without the first check must not erase it.
	session.HandleUpdate(domain.TaskUpdate{
		TaskID: "task-1",
		Domain: "example.com",
		Status: domain.CheckStatusInProgress,
		Results: domain.CheckResults{
			domain.CheckCrawlStatus: domain.CrawlStatusResult{Status: domain.CheckStatusInProgress},
		},
		Timestamp: time.Now(),
	})

	entries := session.Snapshot()
	require.Len(t, entries, 1)
	assert.Len(t, entries[0].Results, 2)
	assert.Equal(t, 50, entries[0].Progress)
	assert.False(t, session.Done())
}

func TestSessionIncrementsBatchOncePerDomain(t *testing.T) {
	checks := &fakeCheckRepo{}
	batches := &fakeBatchRepo{}
	session := newTestSession([]string{"example.com"}, "batch-1", checks, batches)
	session.MarkSubmitted("example.com", "task-1", "rec-1")

	completed := domain.TaskUpdate{
		TaskID: "task-1",
		Domain: "example.com",
		Status: domain.CheckStatusCompleted,
		Results: domain.CheckResults{
			domain.CheckBotBlockers: domain.BotBlockersResult{Status: domain.CheckStatusCompleted},
		},
		Timestamp: time.Now(),
	}

	// The poll loop redelivers terminal state until eviction; the counter must
	// move only on the first completed transition.
	session.HandleUpdate(completed)
	session.HandleUpdate(completed)
	session.HandleUpdate(completed)

	assert.Equal(t, 1, batches.incrementCount())
	assert.Equal(t, []string{"rec-1"}, checks.updateResults)

	entries := session.Snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.CheckStatusCompleted, entries[0].Status)
	assert.NotNil(t, entries[0].EndTime)
	assert.True(t, session.Done())
}

func TestSessionIgnoresForeignTaskUpdates(t *testing.T) {
	session := newTestSession([]string{"example.com"}, "", &fakeCheckRepo{}, &fakeBatchRepo{})
	session.MarkSubmitted("example.com", "task-1", "")

	session.HandleUpdate(domain.TaskUpdate{
		TaskID: "task-from-older-run",
		Domain: "example.com",
		Status: domain.CheckStatusCompleted,
	})

	entries := session.Snapshot()
	assert.Equal(t, domain.CheckStatusInProgress, entries[0].Status)

	session.HandleUpdate(domain.TaskUpdate{
		TaskID: "task-1",
		Domain: "unknown-domain.com",
		Status: domain.CheckStatusCompleted,
	})
	assert.Equal(t, domain.CheckStatusInProgress, session.Snapshot()[0].Status)
}

func TestSessionMarkFailed(t *testing.T) {
	session := newTestSession([]string{"example.com"}, "", &fakeCheckRepo{}, &fakeBatchRepo{})
	session.MarkFailed("example.com", assert.AnError)

	entries := session.Snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.CheckStatusError, entries[0].Status)
	assert.Equal(t, assert.AnError.Error(), entries[0].Error)
	assert.NotNil(t, entries[0].EndTime)
	assert.True(t, session.Done())
}

func TestSessionMarkCached(t *testing.T) {
	session := newTestSession([]string{"example.com"}, "", &fakeCheckRepo{}, &fakeBatchRepo{})

	row := &domain.DomainCheck{
		ID:     "rec-cached",
		Domain: "example.com",
		Status: domain.CheckStatusCompleted,
		Results: domain.CheckResults{
			domain.CheckBotBlockers: domain.BotBlockersResult{Status: domain.CheckStatusCompleted},
		}.Encode(),
		UpdatedAt: time.Now().Add(-time.Hour),
	}
	session.MarkCached("example.com", row)

	entries := session.Snapshot()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].FromCache)
	assert.Equal(t, domain.CheckStatusCompleted, entries[0].Status)
	assert.Equal(t, 100, entries[0].Progress)
	assert.Equal(t, "rec-cached", entries[0].DBRecordID)
}

func TestSessionSnapshotKeepsSubmissionOrder(t *testing.T) {
	domains := []string{"c.com", "a.com", "b.com", "a.com"}
	session := newTestSession(domains, "", &fakeCheckRepo{}, &fakeBatchRepo{})

	entries := session.Snapshot()
	require.Len(t, entries, 3) // duplicate collapsed
	assert.Equal(t, "c.com", entries[0].Domain)
	assert.Equal(t, "a.com", entries[1].Domain)
	assert.Equal(t, "b.com", entries[2].Domain)
}

func TestCheckRunProgressesToCompletion(t *testing.T) {
	checks := &fakeCheckRepo{}
	batches := &fakeBatchRepo{}
	session := newTestSession([]string{"example.com"}, "batch-1", checks, batches)

	store := &fakeResultSource{}
	agg := NewAggregator(AggregatorConfig{
		Store:         store,
		Logger:        testLogger(),
		Interval:      5 * time.Millisecond,
		EvictionDelay: 50 * time.Millisecond,
	})
	session.unsubscribe = agg.Subscribe(session.HandleUpdate)
	defer session.Close()

	taskID := agg.StartCheck("example.com", []string{domain.CheckBotBlockers, domain.CheckCrawlStatus}, "")
	session.MarkSubmitted("example.com", taskID, "rec-1")

	// First write from the engine: one of two checks done.
	store.setRows([]domain.DomainCheck{{
		ID:     "rec-1",
		Domain: "example.com",
		Status: domain.CheckStatusInProgress,
		Results: domain.CheckResults{
			domain.CheckBotBlockers: domain.BotBlockersResult{Status: domain.CheckStatusCompleted},
			domain.CheckCrawlStatus: domain.CrawlStatusResult{Status: domain.CheckStatusInProgress},
		}.Encode(),
		UpdatedAt: time.Now(),
	}})

	require.Eventually(t, func() bool {
		return session.Snapshot()[0].Progress == 50
	}, time.Second, 2*time.Millisecond)
	assert.Equal(t, domain.CheckStatusInProgress, session.Snapshot()[0].Status)
	assert.Zero(t, batches.incrementCount())

	// Second write: everything done.
	store.setRows([]domain.DomainCheck{{
		ID:     "rec-1",
		Domain: "example.com",
		Status: domain.CheckStatusCompleted,
		Results: domain.CheckResults{
			domain.CheckBotBlockers: domain.BotBlockersResult{Status: domain.CheckStatusCompleted},
			domain.CheckCrawlStatus: domain.CrawlStatusResult{Status: domain.CheckStatusCompleted},
		}.Encode(),
		UpdatedAt: time.Now(),
	}})

	require.Eventually(t, func() bool { return session.Done() }, time.Second, 2*time.Millisecond)
	entry := session.Snapshot()[0]
	assert.Equal(t, domain.CheckStatusCompleted, entry.Status)
	assert.Equal(t, 100, entry.Progress)
	assert.Equal(t, 1, batches.incrementCount())

	// The drained run stops the loop by itself.
	require.Eventually(t, func() bool { return !agg.Polling() }, time.Second, 2*time.Millisecond)
}

func TestSessionCloseStopsUpdates(t *testing.T) {
	batches := &fakeBatchRepo{}
	session := newTestSession([]string{"example.com"}, "batch-1", &fakeCheckRepo{}, batches)
	session.MarkSubmitted("example.com", "task-1", "")

	closed := false
	session.unsubscribe = func() { closed = true }
	session.Close()
	session.Close() // idempotent
	assert.True(t, closed)

	session.HandleUpdate(domain.TaskUpdate{
		TaskID: "task-1",
		Domain: "example.com",
		Status: domain.CheckStatusCompleted,
	})
	assert.Zero(t, batches.incrementCount())
}

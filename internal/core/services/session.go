package services

import (
	"context"
	"sync"
	"time"

	"github.com/wiserse/toolbox/internal/core/ports"
	"github.com/wiserse/toolbox/internal/domain"
	"github.com/wiserse/toolbox/internal/infrastructure/logger"
)

// SessionEntry is the merged, UI-facing view of one domain within a check
// session.
type SessionEntry struct {
	Domain     string              `json:"domain"`
	TaskID     string              `json:"taskId,omitempty"`
	Status     domain.CheckStatus  `json:"status"`
	Progress   int                 `json:"progress"`
	Results    domain.CheckResults `json:"results"`
	Error      string              `json:"error,omitempty"`
	DBRecordID string              `json:"dbRecordId,omitempty"`
	StartTime  time.Time           `json:"startTime"`
	EndTime    *time.Time          `json:"endTime,omitempty"`
	FromCache  bool                `json:"fromCache,omitempty"`
}

// CheckSession consumes aggregator updates for one submitted group of
// domains. It merges partial results additively, keeps the batch counter
// moving, and mirrors final states back to the store as an audit trail.
type CheckSession struct {
	ID      string
	BatchID string

	checks  ports.CheckRepository
	batches *BatchService
	log     *logger.Logger

	mu          sync.RWMutex
	entries     map[string]*SessionEntry
	order       []string
	unsubscribe func()
	closed      bool
}

func newCheckSession(id, batchID string, domains []string, checks ports.CheckRepository, batches *BatchService, log *logger.Logger) *CheckSession {
	session := &CheckSession{
		ID:      id,
		BatchID: batchID,
		checks:  checks,
		batches: batches,
		log:     log,
		entries: make(map[string]*SessionEntry, len(domains)),
		order:   make([]string, 0, len(domains)),
	}
	for _, d := range domains {
		if _, ok := session.entries[d]; ok {
			continue
		}
		session.entries[d] = &SessionEntry{
			Domain:    d,
			Status:    domain.CheckStatusPending,
			Results:   domain.CheckResults{},
			StartTime: time.Now(),
		}
		session.order = append(session.order, d)
	}
	return session
}

// HandleUpdate is the session's aggregator subscription. It merges the
// incoming partial results into the entry for the update's domain and
// increments the batch counter exactly once per domain, judged on the
// entry's status before this update so duplicate completed events are
// harmless.
func (s *CheckSession) HandleUpdate(update domain.TaskUpdate) {
	s.mu.Lock()
	entry, ok := s.entries[update.Domain]
	if !ok || s.closed {
		s.mu.Unlock()
		return
	}
	if entry.TaskID != "" && update.TaskID != entry.TaskID {
		// Update for an older or foreign submission of the same domain.
		s.mu.Unlock()
		return
	}

	prior := entry.Status
	entry.Results = entry.Results.Merge(update.Results)
	entry.Status = update.Status
	entry.Progress = entry.Results.Progress()
	if update.Status.Terminal() && entry.EndTime == nil {
		endTime := update.Timestamp
		entry.EndTime = &endTime
	}

	completedNow := update.Status == domain.CheckStatusCompleted && prior != domain.CheckStatusCompleted
	recordID := entry.DBRecordID
	finalResults := entry.Results
	finalStatus := entry.Status
	s.mu.Unlock()

	if completedNow {
		s.log.Infow("session_domain_completed", "session_id", s.ID, "domain", update.Domain)
		s.batches.IncrementProgress(context.Background(), s.BatchID)
		// Advisory mirror of the merged final state; failures are swallowed
		// inside the repository.
		s.checks.UpdateResult(context.Background(), recordID, finalStatus, finalResults.Encode())
	}
}

// MarkSubmitted records the submission outcome for a domain.
func (s *CheckSession) MarkSubmitted(d, taskID, dbRecordID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[d]; ok {
		entry.TaskID = taskID
		entry.DBRecordID = dbRecordID
		entry.Status = domain.CheckStatusInProgress
		entry.StartTime = time.Now()
	}
}

// MarkFailed flags a domain whose submission was rejected. Terminal until the
// user re-triggers the check.
func (s *CheckSession) MarkFailed(d string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[d]; ok {
		now := time.Now()
		entry.Status = domain.CheckStatusError
		entry.Error = err.Error()
		entry.EndTime = &now
	}
}

// MarkCached fills a domain entry from a recent stored row, skipping
// submission entirely.
func (s *CheckSession) MarkCached(d string, row *domain.DomainCheck) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[d]; ok {
		results := domain.DecodeResults(row.Results)
		endTime := row.UpdatedAt
		entry.Status = row.Status
		entry.Results = results
		entry.Progress = results.Progress()
		entry.DBRecordID = row.ID
		entry.EndTime = &endTime
		entry.FromCache = true
	}
}

// MarkCancelled mirrors a task-level cancel into the session view.
func (s *CheckSession) MarkCancelled(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.entries {
		if entry.TaskID == taskID {
			now := time.Now()
			entry.Status = domain.CheckStatusError
			entry.Error = "cancelled"
			entry.EndTime = &now
			return
		}
	}
}

// Snapshot returns the entries in submission order.
func (s *CheckSession) Snapshot() []SessionEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]SessionEntry, 0, len(s.order))
	for _, d := range s.order {
		entries = append(entries, *s.entries[d])
	}
	return entries
}

// Done reports whether every entry reached a terminal status.
func (s *CheckSession) Done() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, entry := range s.entries {
		if !entry.Status.Terminal() {
			return false
		}
	}
	return true
}

// Close drops the aggregator subscription. Idempotent.
func (s *CheckSession) Close() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.closed = true
	s.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

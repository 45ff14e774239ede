package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wiserse/toolbox/internal/core/ports"
	"github.com/wiserse/toolbox/internal/domain"
	"github.com/wiserse/toolbox/internal/infrastructure/logger"
	"github.com/wiserse/toolbox/internal/infrastructure/webhook"
)

// JobSubmitter dispatches a domain-check job to the workflow engine.
type JobSubmitter interface {
	SubmitDomainCheck(ctx context.Context, req webhook.DomainCheckRequest) error
}

var ErrSessionNotFound = errors.New("check session not found")

// CheckService orchestrates a check run: advisory store writes, optional
// batch creation, job submission and task registration, and the session that
// consumes the resulting updates.
type CheckService struct {
	checks     ports.CheckRepository
	batches    *BatchService
	aggregator *Aggregator
	submitter  JobSubmitter
	log        *logger.Logger

	cacheMaxAge time.Duration

	sessions sessionRegistry
}

type CheckServiceConfig struct {
	Checks      ports.CheckRepository
	Batches     *BatchService
	Aggregator  *Aggregator
	Submitter   JobSubmitter
	Logger      *logger.Logger
	CacheMaxAge time.Duration
}

func NewCheckService(cfg CheckServiceConfig) *CheckService {
	cacheMaxAge := cfg.CacheMaxAge
	if cacheMaxAge <= 0 {
		cacheMaxAge = 7 * 24 * time.Hour
	}
	return &CheckService{
		checks:      cfg.Checks,
		batches:     cfg.Batches,
		aggregator:  cfg.Aggregator,
		submitter:   cfg.Submitter,
		log:         cfg.Logger,
		cacheMaxAge: cacheMaxAge,
		sessions:    sessionRegistry{byID: make(map[string]*CheckSession)},
	}
}

type SubmitChecksInput struct {
	Domains          []string
	Checks           []string
	BatchName        string
	BatchDescription string
	User             string
	UseCache         bool
}

// SubmitChecks starts a check run for the given domains and returns its
// session. Per-domain submission failures are recorded on the session entry
// and do not abort the rest of the run. Batch creation failure is tolerated:
// the run proceeds untracked.
func (s *CheckService) SubmitChecks(ctx context.Context, input SubmitChecksInput) (*CheckSession, error) {
	if len(input.Domains) == 0 {
		return nil, ErrCheckNoDomains
	}
	checks := input.Checks
	if len(checks) == 0 {
		checks = domain.AllChecks()
	}

	batchID := ""
	if input.BatchName != "" {
		batchID = s.batches.Create(ctx, input.BatchName, input.BatchDescription, len(input.Domains), input.User)
	}

	session := newCheckSession(uuid.New().String(), batchID, input.Domains, s.checks, s.batches, s.log)
	session.unsubscribe = s.aggregator.Subscribe(session.HandleUpdate)
	s.sessions.add(session)

	s.log.Infow("check_run_started",
		"session_id", session.ID,
		"batch_id", batchID,
		"domains", len(input.Domains),
		"checks", len(checks),
	)

	for _, d := range input.Domains {
		s.submitDomain(ctx, session, d, checks, batchID, input)
	}
	return session, nil
}

func (s *CheckService) submitDomain(ctx context.Context, session *CheckSession, d string, checks []string, batchID string, input SubmitChecksInput) {
	if input.UseCache {
		cached, err := s.checks.GetCached(ctx, d, s.cacheMaxAge)
		if err == nil && cached != nil && cached.Status == domain.CheckStatusCompleted {
			s.log.Infow("check_cache_hit", "session_id", session.ID, "domain", d, "record_id", cached.ID)
			session.MarkCached(d, cached)
			return
		}
	}

	taskID := NewTaskID()

	// Advisory placeholder row; the workflow engine writes the authoritative
	// updates. A failed insert leaves dbRecordID empty and changes nothing.
	row := &domain.DomainCheck{Domain: d, Status: domain.CheckStatusPending}
	if batchID != "" {
		row.BatchID = &batchID
	}
	dbRecordID := s.checks.Save(ctx, row)

	req := webhook.DomainCheckRequest{
		TaskID: taskID,
		Domain: d,
		Checks: checks,
		User:   input.User,
	}
	if dbRecordID != "" {
		req.DBRecordID = &dbRecordID
	}
	if batchID != "" {
		req.BatchID = &batchID
	}

	if err := s.submitter.SubmitDomainCheck(ctx, req); err != nil {
		// Terminal until the user re-triggers; the task never enters polling.
		session.MarkFailed(d, err)
		return
	}

	session.MarkSubmitted(d, taskID, dbRecordID)
	s.aggregator.StartCheck(d, checks, taskID)
}

func (s *CheckService) GetSession(id string) (*CheckSession, error) {
	session := s.sessions.get(id)
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// CancelTask cancels one task within a session: the aggregator flips the task
// to error locally and the session mirrors it. The remote job keeps running;
// its writes are ignored.
func (s *CheckService) CancelTask(sessionID, taskID string) error {
	session := s.sessions.get(sessionID)
	if session == nil {
		return ErrSessionNotFound
	}
	s.aggregator.CancelTask(taskID)
	session.MarkCancelled(taskID)
	return nil
}

// CloseSession drops the session's subscription and forgets it.
func (s *CheckService) CloseSession(id string) error {
	session := s.sessions.remove(id)
	if session == nil {
		return ErrSessionNotFound
	}
	session.Close()
	return nil
}

func (s *CheckService) GetTaskStatus(taskID string) (domain.Task, bool) {
	return s.aggregator.GetTaskStatus(taskID)
}

func (s *CheckService) GetCached(ctx context.Context, d string) (*domain.DomainCheck, error) {
	return s.checks.GetCached(ctx, d, s.cacheMaxAge)
}

func (s *CheckService) ListRecent(ctx context.Context, limit int) ([]domain.DomainCheck, error) {
	return s.checks.ListRecent(ctx, limit)
}

type sessionRegistry struct {
	mu   sync.RWMutex
	byID map[string]*CheckSession
}

func (r *sessionRegistry) add(session *CheckSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[session.ID] = session
}

func (r *sessionRegistry) get(id string) *CheckSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id]
}

func (r *sessionRegistry) remove(id string) *CheckSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	session := r.byID[id]
	delete(r.byID, id)
	return session
}

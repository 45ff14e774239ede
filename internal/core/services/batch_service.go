package services

import (
	"context"

	"github.com/wiserse/toolbox/internal/core/ports"
	"github.com/wiserse/toolbox/internal/domain"
	"github.com/wiserse/toolbox/internal/infrastructure/logger"
)

// BatchService tracks named groups of domain checks for reporting. Batch
// bookkeeping is best-effort throughout: a check run proceeds normally when
// its batch cannot be created or updated.
type BatchService struct {
	repo ports.BatchRepository
	log  *logger.Logger
}

func NewBatchService(repo ports.BatchRepository, log *logger.Logger) *BatchService {
	return &BatchService{repo: repo, log: log}
}

// Create records a new batch and returns its id, or "" when persistence
// failed (the caller continues without batch tracking).
func (s *BatchService) Create(ctx context.Context, name, description string, totalDomains int, createdBy string) string {
	batch := &domain.DomainBatch{
		Name:             name,
		Description:      description,
		Status:           domain.BatchStatusPending,
		TotalDomains:     totalDomains,
		CompletedDomains: 0,
		CreatedBy:        createdBy,
	}
	if err := s.repo.Create(ctx, batch); err != nil {
		s.log.Warnw("batch_create_failed_continuing", "name", name, "error", err)
		return ""
	}
	return batch.ID
}

func (s *BatchService) Get(ctx context.Context, id string) (*domain.DomainBatch, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *BatchService) List(ctx context.Context, createdBy string) ([]domain.DomainBatch, error) {
	return s.repo.GetByCreator(ctx, createdBy)
}

func (s *BatchService) SetStatus(ctx context.Context, id string, status domain.BatchStatus, completedDomains *int) error {
	return s.repo.UpdateStatus(ctx, id, status, completedDomains)
}

// IncrementProgress bumps the completed counter by one. The repository does
// the increment and the completed/in_progress status derivation in a single
// statement, so overlapping completions from one poll tick cannot clobber
// each other.
func (s *BatchService) IncrementProgress(ctx context.Context, id string) {
	if id == "" {
		return
	}
	if err := s.repo.IncrementProgress(ctx, id); err != nil {
		s.log.Warnw("batch_increment_failed_continuing", "id", id, "error", err)
	}
}

func (s *BatchService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

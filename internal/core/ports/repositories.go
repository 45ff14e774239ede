package ports

import (
	"context"
	"time"

	"github.com/wiserse/toolbox/internal/domain"
)

// CheckRepository reads and writes the shared result store. The external
// workflow engine is the authoritative writer; Save and UpdateResult are an
// advisory audit trail, so both swallow persistence failures (they log and
// report, never propagate).
type CheckRepository interface {
	// FetchByDomains returns every row whose domain is in the set, most
	// recently updated first.
	FetchByDomains(ctx context.Context, domains []string) ([]domain.DomainCheck, error)
	// Save inserts a row best-effort and returns its id, or "" on failure.
	Save(ctx context.Context, check *domain.DomainCheck) string
	// UpdateResult updates status/results of an existing row best-effort.
	UpdateResult(ctx context.Context, id string, status domain.CheckStatus, results domain.RawResults) bool
	// GetCached returns the newest row for the domain not older than maxAge.
	GetCached(ctx context.Context, d string, maxAge time.Duration) (*domain.DomainCheck, error)
	ListRecent(ctx context.Context, limit int) ([]domain.DomainCheck, error)
}

type BatchRepository interface {
	Create(ctx context.Context, batch *domain.DomainBatch) error
	GetByID(ctx context.Context, id string) (*domain.DomainBatch, error)
	GetByCreator(ctx context.Context, createdBy string) ([]domain.DomainBatch, error)
	UpdateStatus(ctx context.Context, id string, status domain.BatchStatus, completedDomains *int) error
	// IncrementProgress bumps completed_domains by one and derives the new
	// status in a single statement, so concurrent completions cannot lose
	// increments.
	IncrementProgress(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	GetAll(ctx context.Context) ([]domain.AdminUserView, error)
	GetRoles(ctx context.Context) ([]domain.UserRole, error)
	AssignRole(ctx context.Context, userID, roleName string) error
	ActivateUser(ctx context.Context, userID string) error
	DeactivateUser(ctx context.Context, userID string) error
	DeleteUser(ctx context.Context, userID string) error
	UpdateProfile(ctx context.Context, userID string, updates map[string]interface{}) error
}

type StudyRepository interface {
	GetTeamMembers(ctx context.Context, roleName string) ([]domain.AdminUserView, error)
	GetStudies(ctx context.Context, start, end *time.Time) ([]domain.APStudy, error)
}

package db

import (
	"context"
	"time"

	"github.com/wiserse/toolbox/internal/core/ports"
	"github.com/wiserse/toolbox/internal/domain"
	"github.com/wiserse/toolbox/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type checkRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCheckRepository(db *gorm.DB, log *logger.Logger) ports.CheckRepository {
	return &checkRepository{db: db, log: log}
}

func (r *checkRepository) FetchByDomains(ctx context.Context, domains []string) ([]domain.DomainCheck, error) {
	var checks []domain.DomainCheck
	err := r.db.WithContext(ctx).
		Where("domain IN ?", domains).
		Order("updated_at DESC").
		Find(&checks).Error
	if err != nil {
		r.log.Errorw("check_repo_fetch_failed", "domains", len(domains), "error", err)
		return nil, err
	}
	return checks, nil
}

func (r *checkRepository) Save(ctx context.Context, check *domain.DomainCheck) string {
	if err := r.db.WithContext(ctx).Create(check).Error; err != nil {
		// The workflow engine writes the authoritative rows; a failed local
		// insert must not interrupt the check flow.
		r.log.Warnw("check_repo_save_failed", "domain", check.Domain, "error", err)
		return ""
	}
	r.log.Infow("check_repo_save_ok", "id", check.ID, "domain", check.Domain)
	return check.ID
}

func (r *checkRepository) UpdateResult(ctx context.Context, id string, status domain.CheckStatus, results domain.RawResults) bool {
	if id == "" {
		r.log.Warnw("check_repo_update_skipped_no_id")
		return false
	}
	err := r.db.WithContext(ctx).Model(&domain.DomainCheck{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"results":    results,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		r.log.Warnw("check_repo_update_failed", "id", id, "error", err)
		return false
	}
	return true
}

func (r *checkRepository) GetCached(ctx context.Context, d string, maxAge time.Duration) (*domain.DomainCheck, error) {
	var check domain.DomainCheck
	err := r.db.WithContext(ctx).
		Where("domain = ? AND created_at >= ?", d, time.Now().Add(-maxAge)).
		Order("created_at DESC").
		First(&check).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.log.Errorw("check_repo_get_cached_failed", "domain", d, "error", err)
		return nil, err
	}
	return &check, nil
}

func (r *checkRepository) ListRecent(ctx context.Context, limit int) ([]domain.DomainCheck, error) {
	var checks []domain.DomainCheck
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&checks).Error
	if err != nil {
		r.log.Errorw("check_repo_list_failed", "error", err)
		return nil, err
	}
	return checks, nil
}

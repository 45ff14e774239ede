package db

import (
	"context"

	"github.com/wiserse/toolbox/internal/core/ports"
	"github.com/wiserse/toolbox/internal/domain"
	"github.com/wiserse/toolbox/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type batchRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBatchRepository(db *gorm.DB, log *logger.Logger) ports.BatchRepository {
	return &batchRepository{db: db, log: log}
}

func (r *batchRepository) Create(ctx context.Context, batch *domain.DomainBatch) error {
	if err := r.db.WithContext(ctx).Create(batch).Error; err != nil {
		r.log.Errorw("batch_repo_create_failed", "name", batch.Name, "error", err)
		return err
	}
	r.log.Infow("batch_repo_create_ok", "id", batch.ID, "name", batch.Name, "total", batch.TotalDomains)
	return nil
}

func (r *batchRepository) GetByID(ctx context.Context, id string) (*domain.DomainBatch, error) {
	var batch domain.DomainBatch
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&batch).Error; err != nil {
		r.log.Errorw("batch_repo_get_failed", "id", id, "error", err)
		return nil, err
	}
	return &batch, nil
}

func (r *batchRepository) GetByCreator(ctx context.Context, createdBy string) ([]domain.DomainBatch, error) {
	var batches []domain.DomainBatch
	err := r.db.WithContext(ctx).
		Where("created_by = ?", createdBy).
		Order("created_at DESC").
		Find(&batches).Error
	if err != nil {
		r.log.Errorw("batch_repo_list_failed", "created_by", createdBy, "error", err)
		return nil, err
	}
	return batches, nil
}

func (r *batchRepository) UpdateStatus(ctx context.Context, id string, status domain.BatchStatus, completedDomains *int) error {
	updates := map[string]interface{}{"status": status}
	if completedDomains != nil {
		updates["completed_domains"] = *completedDomains
	}
	err := r.db.WithContext(ctx).Model(&domain.DomainBatch{}).
		Where("id = ?", id).
		Updates(updates).Error
	if err != nil {
		r.log.Errorw("batch_repo_update_status_failed", "id", id, "status", status, "error", err)
		return err
	}
	r.log.Infow("batch_repo_update_status_ok", "id", id, "status", status)
	return nil
}

func (r *batchRepository) IncrementProgress(ctx context.Context, id string) error {
	// Single-statement increment: two domains completing in the same poll
	// tick must both land, so the counter and the derived status move
	// together on the database side.
	err := r.db.WithContext(ctx).Exec(`
		UPDATE domain_batches
		SET completed_domains = LEAST(completed_domains + 1, total_domains),
		    status = CASE
		        WHEN completed_domains + 1 >= total_domains THEN 'completed'
		        ELSE 'in_progress'
		    END,
		    updated_at = NOW()
		WHERE id = ?
	`, id).Error
	if err != nil {
		r.log.Errorw("batch_repo_increment_failed", "id", id, "error", err)
		return err
	}
	r.log.Infow("batch_repo_increment_ok", "id", id)
	return nil
}

func (r *batchRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.DomainBatch{}).Error; err != nil {
		r.log.Errorw("batch_repo_delete_failed", "id", id, "error", err)
		return err
	}
	r.log.Infow("batch_repo_delete_ok", "id", id)
	return nil
}

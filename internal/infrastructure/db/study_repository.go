package db

import (
	"context"
	"time"

	"github.com/wiserse/toolbox/internal/core/ports"
	"github.com/wiserse/toolbox/internal/domain"
	"github.com/wiserse/toolbox/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type studyRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudyRepository(db *gorm.DB, log *logger.Logger) ports.StudyRepository {
	return &studyRepository{db: db, log: log}
}

func (r *studyRepository) GetTeamMembers(ctx context.Context, roleName string) ([]domain.AdminUserView, error) {
	var members []domain.AdminUserView
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND role_name = ?", true, roleName).
		Order("full_name").
		Find(&members).Error
	if err != nil {
		r.log.Errorw("study_repo_members_failed", "role", roleName, "error", err)
		return nil, err
	}
	return members, nil
}

func (r *studyRepository) GetStudies(ctx context.Context, start, end *time.Time) ([]domain.APStudy, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if start != nil {
		query = query.Where("start_date >= ?", *start)
	}
	if end != nil {
		query = query.Where("start_date <= ?", *end)
	}

	var studies []domain.APStudy
	if err := query.Find(&studies).Error; err != nil {
		r.log.Errorw("study_repo_list_failed", "error", err)
		return nil, err
	}
	return studies, nil
}

package db

import (
	"context"
	"time"

	"github.com/wiserse/toolbox/internal/core/ports"
	"github.com/wiserse/toolbox/internal/domain"
	"github.com/wiserse/toolbox/internal/infrastructure/logger"
	"gorm.io/gorm"
)

// userRepository fronts the managed database's user-administration stored
// procedures. Authorization lives inside the procedures themselves; this
// layer only dispatches calls and reads the admin view.
type userRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepository(db *gorm.DB, log *logger.Logger) ports.UserRepository {
	return &userRepository{db: db, log: log}
}

func (r *userRepository) GetAll(ctx context.Context) ([]domain.AdminUserView, error) {
	var users []domain.AdminUserView
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		r.log.Errorw("user_repo_list_failed", "error", err)
		return nil, err
	}
	return users, nil
}

func (r *userRepository) GetRoles(ctx context.Context) ([]domain.UserRole, error) {
	var roles []domain.UserRole
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name").
		Find(&roles).Error
	if err != nil {
		r.log.Errorw("user_repo_roles_failed", "error", err)
		return nil, err
	}
	return roles, nil
}

func (r *userRepository) AssignRole(ctx context.Context, userID, roleName string) error {
	if err := r.db.WithContext(ctx).Exec(`SELECT admin_assign_role(?, ?)`, userID, roleName).Error; err != nil {
		r.log.Errorw("user_repo_assign_role_failed", "user_id", userID, "role", roleName, "error", err)
		return err
	}
	r.log.Infow("user_repo_assign_role_ok", "user_id", userID, "role", roleName)
	return nil
}

func (r *userRepository) ActivateUser(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Exec(`SELECT admin_activate_user(?)`, userID).Error; err != nil {
		r.log.Errorw("user_repo_activate_failed", "user_id", userID, "error", err)
		return err
	}
	r.log.Infow("user_repo_activate_ok", "user_id", userID)
	return nil
}

func (r *userRepository) DeactivateUser(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Exec(`SELECT admin_deactivate_user(?)`, userID).Error; err != nil {
		r.log.Errorw("user_repo_deactivate_failed", "user_id", userID, "error", err)
		return err
	}
	r.log.Infow("user_repo_deactivate_ok", "user_id", userID)
	return nil
}

func (r *userRepository) DeleteUser(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Exec(`SELECT admin_delete_user(?)`, userID).Error; err != nil {
		r.log.Errorw("user_repo_delete_failed", "user_id", userID, "error", err)
		return err
	}
	r.log.Infow("user_repo_delete_ok", "user_id", userID)
	return nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, userID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	err := r.db.WithContext(ctx).Model(&domain.AppUser{}).
		Where("id = ?", userID).
		Updates(updates).Error
	if err != nil {
		r.log.Errorw("user_repo_update_profile_failed", "user_id", userID, "error", err)
		return err
	}
	r.log.Infow("user_repo_update_profile_ok", "user_id", userID)
	return nil
}

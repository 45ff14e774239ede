package services

import (
	"context"

	"github.com/wiserse/toolbox/internal/core/ports"
	"github.com/wiserse/toolbox/internal/domain"
	"github.com/wiserse/toolbox/internal/infrastructure/logger"
)

// UserService fronts the admin user-management stored procedures. Permission
// checks happen inside the database; failures surface verbatim.
type UserService struct {
	repo ports.UserRepository
	log  *logger.Logger
}

func NewUserService(repo ports.UserRepository, log *logger.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

func (s *UserService) GetUsers(ctx context.Context) ([]domain.AdminUserView, error) {
	return s.repo.GetAll(ctx)
}

func (s *UserService) GetRoles(ctx context.Context) ([]domain.UserRole, error) {
	return s.repo.GetRoles(ctx)
}

func (s *UserService) AssignRole(ctx context.Context, userID, roleName string) error {
	return s.repo.AssignRole(ctx, userID, roleName)
}

func (s *UserService) ActivateUser(ctx context.Context, userID string) error {
	return s.repo.ActivateUser(ctx, userID)
}

func (s *UserService) DeactivateUser(ctx context.Context, userID string) error {
	return s.repo.DeactivateUser(ctx, userID)
}

func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	return s.repo.DeleteUser(ctx, userID)
}

type UpdateProfileInput struct {
	Username *string `json:"username"`
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) error {
	updates := make(map[string]interface{})
	if input.Username != nil {
		updates["username"] = *input.Username
	}
	if input.FullName != nil {
		updates["full_name"] = *input.FullName
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if len(updates) == 0 {
		return nil
	}
	return s.repo.UpdateProfile(ctx, userID, updates)
}

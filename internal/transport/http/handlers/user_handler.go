package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wiserse/toolbox/internal/core/services"
	"github.com/wiserse/toolbox/internal/infrastructure/logger"
	"github.com/wiserse/toolbox/internal/transport/http/dto"
)

type UserHandler struct {
	service *services.UserService
	logger  *logger.Logger
}

func NewUserHandler(service *services.UserService, logger *logger.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.service.GetUsers(c.Context())
	if err != nil {
		h.logger.Errorw("user_list_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(users)
}

func (h *UserHandler) GetRoles(c *fiber.Ctx) error {
	roles, err := h.service.GetRoles(c.Context())
	if err != nil {
		h.logger.Errorw("user_roles_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(roles)
}

func (h *UserHandler) AssignRole(c *fiber.Ctx) error {
	var input dto.AssignRoleRequest
	if err := c.BodyParser(&input); err != nil || input.RoleName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "role_name is required"})
	}

	userID := c.Params("id")
	h.logger.Infow("user_assign_role_request", "user_id", userID, "role", input.RoleName)
	if err := h.service.AssignRole(c.Context(), userID, input.RoleName); err != nil {
		h.logger.Errorw("user_assign_role_failed", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *UserHandler) ActivateUser(c *fiber.Ctx) error {
	userID := c.Params("id")
	if err := h.service.ActivateUser(c.Context(), userID); err != nil {
		h.logger.Errorw("user_activate_failed", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *UserHandler) DeactivateUser(c *fiber.Ctx) error {
	userID := c.Params("id")
	if err := h.service.DeactivateUser(c.Context(), userID); err != nil {
		h.logger.Errorw("user_deactivate_failed", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var input services.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	userID := c.Params("id")
	if err := h.service.UpdateProfile(c.Context(), userID, input); err != nil {
		h.logger.Errorw("user_update_profile_failed", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	userID := c.Params("id")
	h.logger.Infow("user_delete_request", "user_id", userID)
	if err := h.service.DeleteUser(c.Context(), userID); err != nil {
		h.logger.Errorw("user_delete_failed", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

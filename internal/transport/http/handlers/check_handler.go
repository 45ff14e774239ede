package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/wiserse/toolbox/internal/core/services"
	"github.com/wiserse/toolbox/internal/infrastructure/logger"
	"github.com/wiserse/toolbox/internal/infrastructure/webhook"
	"github.com/wiserse/toolbox/internal/transport/http/dto"
)

type CheckHandler struct {
	service *services.CheckService
	logger  *logger.Logger
}

func NewCheckHandler(service *services.CheckService, logger *logger.Logger) *CheckHandler {
	return &CheckHandler{service: service, logger: logger}
}

func (h *CheckHandler) SubmitChecks(c *fiber.Ctx) error {
	var input dto.SubmitChecksRequest
	if err := c.BodyParser(&input); err != nil {
		h.logger.Warnw("check_submit_body_parse_failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	if len(input.Domains) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No domains provided"})
	}

	h.logger.Infow("check_submit_request", "domains", len(input.Domains), "batch", input.BatchName)
	session, err := h.service.SubmitChecks(c.Context(), services.SubmitChecksInput{
		Domains:          input.Domains,
		Checks:           input.Checks,
		BatchName:        input.BatchName,
		BatchDescription: input.BatchDescription,
		User:             input.User,
		UseCache:         input.UseCache,
	})
	if err != nil {
		h.logger.Errorw("check_submit_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SubmitChecksResponse{
		SessionID: session.ID,
		BatchID:   session.BatchID,
	})
}

func (h *CheckHandler) GetSession(c *fiber.Ctx) error {
	session, err := h.service.GetSession(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}
	return c.JSON(fiber.Map{
		"session_id": session.ID,
		"batch_id":   session.BatchID,
		"done":       session.Done(),
		"results":    session.Snapshot(),
	})
}

func (h *CheckHandler) CancelTask(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	taskID := c.Params("taskId")
	if err := h.service.CancelTask(sessionID, taskID); err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	h.logger.Infow("check_task_cancelled", "session_id", sessionID, "task_id", taskID)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CheckHandler) CloseSession(c *fiber.Ctx) error {
	if err := h.service.CloseSession(c.Params("id")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CheckHandler) GetTaskStatus(c *fiber.Ctx) error {
	task, ok := h.service.GetTaskStatus(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}
	return c.JSON(task)
}

func (h *CheckHandler) ListRecent(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "100"))
	if err != nil || limit <= 0 {
		limit = 100
	}
	checks, err := h.service.ListRecent(c.Context(), limit)
	if err != nil {
		h.logger.Errorw("check_list_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(checks)
}

func (h *CheckHandler) GetCached(c *fiber.Ctx) error {
	cached, err := h.service.GetCached(c.Context(), c.Params("domain"))
	if err != nil {
		h.logger.Errorw("check_cache_lookup_failed", "domain", c.Params("domain"), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if cached == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No cached result"})
	}
	return c.JSON(cached)
}

// submissionStatus maps a webhook failure to the HTTP status surfaced to the
// UI. Submission errors are user-visible and terminal (no automatic retry).
func submissionStatus(err error) int {
	var submissionErr *webhook.SubmissionError
	if errors.As(err, &submissionErr) {
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

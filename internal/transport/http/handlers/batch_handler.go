package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wiserse/toolbox/internal/core/services"
	"github.com/wiserse/toolbox/internal/domain"
	"github.com/wiserse/toolbox/internal/infrastructure/logger"
	"github.com/wiserse/toolbox/internal/transport/http/dto"
)

type BatchHandler struct {
	service *services.BatchService
	logger  *logger.Logger
}

func NewBatchHandler(service *services.BatchService, logger *logger.Logger) *BatchHandler {
	return &BatchHandler{service: service, logger: logger}
}

func (h *BatchHandler) CreateBatch(c *fiber.Ctx) error {
	var input dto.CreateBatchRequest
	if err := c.BodyParser(&input); err != nil {
		h.logger.Warnw("batch_create_body_parse_failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	if input.Name == "" || input.TotalDomains <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name and total_domains are required"})
	}

	batchID := h.service.Create(c.Context(), input.Name, input.Description, input.TotalDomains, input.CreatedBy)
	if batchID == "" {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create batch"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": batchID})
}

func (h *BatchHandler) GetBatches(c *fiber.Ctx) error {
	createdBy := c.Query("created_by")
	if createdBy == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "created_by is required"})
	}
	batches, err := h.service.List(c.Context(), createdBy)
	if err != nil {
		h.logger.Errorw("batch_list_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(batches)
}

func (h *BatchHandler) GetBatch(c *fiber.Ctx) error {
	batch, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Batch not found"})
	}
	return c.JSON(batch)
}

func (h *BatchHandler) UpdateStatus(c *fiber.Ctx) error {
	var input dto.UpdateBatchStatusRequest
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	err := h.service.SetStatus(c.Context(), c.Params("id"), domain.BatchStatus(input.Status), input.CompletedDomains)
	if err != nil {
		h.logger.Errorw("batch_update_status_failed", "id", c.Params("id"), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *BatchHandler) DeleteBatch(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		h.logger.Errorw("batch_delete_failed", "id", c.Params("id"), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/wiserse/toolbox/internal/core/services"
	"github.com/wiserse/toolbox/internal/infrastructure/logger"
)

type PerformanceHandler struct {
	service *services.PerformanceService
	logger  *logger.Logger
}

func NewPerformanceHandler(service *services.PerformanceService, logger *logger.Logger) *PerformanceHandler {
	return &PerformanceHandler{service: service, logger: logger}
}

// GetReport serves the team dashboard. Optional start/end query parameters
// (YYYY-MM-DD) bound the studies by their start date.
func (h *PerformanceHandler) GetReport(c *fiber.Ctx) error {
	start, err := parseDateQuery(c.Query("start"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start date"})
	}
	end, err := parseDateQuery(c.Query("end"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid end date"})
	}

	report, err := h.service.GetReport(c.Context(), start, end)
	if err != nil {
		h.logger.Errorw("performance_report_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

func parseDateQuery(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

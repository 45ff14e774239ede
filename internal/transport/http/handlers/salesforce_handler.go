package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wiserse/toolbox/internal/core/services"
	"github.com/wiserse/toolbox/internal/infrastructure/logger"
	"github.com/wiserse/toolbox/internal/transport/http/dto"
)

type SalesforceHandler struct {
	service *services.SalesforceService
	logger  *logger.Logger
}

func NewSalesforceHandler(service *services.SalesforceService, logger *logger.Logger) *SalesforceHandler {
	return &SalesforceHandler{service: service, logger: logger}
}

func (h *SalesforceHandler) LookupAccounts(c *fiber.Ctx) error {
	var input dto.SalesforceLookupRequest
	if err := c.BodyParser(&input); err != nil {
		h.logger.Warnw("salesforce_lookup_body_parse_failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	h.logger.Infow("salesforce_lookup_request", "domains", len(input.Domains))
	accounts, err := h.service.LookupAccounts(c.Context(), input.Domains, input.User)
	if err != nil {
		if errors.Is(err, services.ErrLookupNoDomains) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.Errorw("salesforce_lookup_failed", "error", err)
		return c.Status(submissionStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"accounts": accounts})
}

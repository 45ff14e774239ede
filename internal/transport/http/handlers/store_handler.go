package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wiserse/toolbox/internal/core/services"
	"github.com/wiserse/toolbox/internal/infrastructure/logger"
	"github.com/wiserse/toolbox/internal/infrastructure/webhook"
	"github.com/wiserse/toolbox/internal/transport/http/dto"
)

type StoreHandler struct {
	service *services.StoreService
	logger  *logger.Logger
}

func NewStoreHandler(service *services.StoreService, logger *logger.Logger) *StoreHandler {
	return &StoreHandler{service: service, logger: logger}
}

func (h *StoreHandler) StartCollection(c *fiber.Ctx) error {
	var input dto.StoreCollectionRequest
	if err := c.BodyParser(&input); err != nil {
		h.logger.Warnw("store_collection_body_parse_failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	req := webhook.StoreCollectionRequest{
		Method: input.Method,
		User:   input.User,
		Data: webhook.StoreCollectionData{
			WebsiteURL:   input.Data.WebsiteURL,
			BrandName:    input.Data.BrandName,
			BrandCountry: input.Data.BrandCountry,
		},
	}
	for _, retailer := range input.Data.Retailers {
		req.Data.Retailers = append(req.Data.Retailers, webhook.Retailer{
			Name:    retailer.Name,
			Country: retailer.Country,
			Domain:  retailer.Domain,
		})
	}

	h.logger.Infow("store_collection_request", "method", input.Method)
	resp, err := h.service.StartCollection(c.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrStoreInvalidMethod) || errors.Is(err, services.ErrStoreEmptyInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.Errorw("store_collection_failed", "error", err)
		return c.Status(submissionStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusAccepted).JSON(resp)
}

package handlers

import (
	"errors"

	"github.com/cerrolargo/camineria-backend/internal/dto"
	"github.com/cerrolargo/camineria-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type NotifyHandler struct {
	notifyService *services.NotifyService
}

func NewNotifyHandler(notifyService *services.NotifyService) *NotifyHandler {
	return &NotifyHandler{notifyService: notifyService}
}

func (h *NotifyHandler) Subscribe(c *fiber.Ctx) error {
	var req dto.SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.notifyService.Subscribe(&req); err != nil {
		if errors.Is(err, services.ErrInvalidPhone) ||
			errors.Is(err, services.ErrZonesRequired) ||
			errors.Is(err, services.ErrConsentRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SubscribeResponse{
		Success: true,
		Message: "Suscripción registrada correctamente",
	})
}

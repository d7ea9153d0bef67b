package handlers

import (
	"errors"

	"github.com/cerrolargo/camineria-backend/internal/dto"
	"github.com/cerrolargo/camineria-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AlertHandler struct {
	alertService *services.AlertService
}

func NewAlertHandler(alertService *services.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// CerroLargo serves the department-filtered weather alerts. ?debug=1
// includes the raw matching diagnostics.
func (h *AlertHandler) CerroLargo(c *fiber.Ctx) error {
	debug := c.Query("debug") == "1"

	result, err := h.alertService.CerroLargoAlerts(c.UserContext(), debug)
	if err != nil {
		return alertFeedError(c, err)
	}
	return c.JSON(result)
}

// Raw proxies the unfiltered upstream feed for troubleshooting.
func (h *AlertHandler) Raw(c *fiber.Ctx) error {
	result, err := h.alertService.Raw(c.UserContext())
	if err != nil {
		return alertFeedError(c, err)
	}
	return c.JSON(result)
}

func alertFeedError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrFeedTimeout) {
		return c.Status(fiber.StatusGatewayTimeout).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	if errors.Is(err, services.ErrFeedHTTP) {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}

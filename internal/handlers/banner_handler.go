package handlers

import (
	"errors"

	"github.com/cerrolargo/camineria-backend/internal/dto"
	"github.com/cerrolargo/camineria-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type BannerHandler struct {
	bannerService *services.BannerService
}

func NewBannerHandler(bannerService *services.BannerService) *BannerHandler {
	return &BannerHandler{bannerService: bannerService}
}

func (h *BannerHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.bannerService.Get())
}

func (h *BannerHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateBannerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	banner, err := h.bannerService.Update(&req)
	if err != nil {
		if errors.Is(err, services.ErrBannerTextRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(banner)
}

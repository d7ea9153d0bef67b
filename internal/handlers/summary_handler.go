package handlers

import (
	"github.com/cerrolargo/camineria-backend/internal/dto"
	"github.com/cerrolargo/camineria-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SummaryHandler struct {
	summaryService *services.SummaryService
}

func NewSummaryHandler(summaryService *services.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

func (h *SummaryHandler) Data(c *fiber.Ctx) error {
	data, err := h.summaryService.Data()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(data)
}

// Download serves the report as PDF by default, or plain text with
// ?format=text. A failed PDF render falls back to the text form.
func (h *SummaryHandler) Download(c *fiber.Ctx) error {
	asText := c.Query("format") == "text"

	var (
		data []byte
		name string
		err  error
	)
	if !asText {
		data, name, err = h.summaryService.PDF()
		if err == nil {
			c.Set(fiber.HeaderContentType, "application/pdf")
			c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
			return c.Send(data)
		}
	}

	data, name, err = h.summaryService.Text()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(data)
}

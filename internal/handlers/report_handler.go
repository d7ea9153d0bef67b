package handlers

import (
	"errors"
	"io"
	"strconv"

	"github.com/cerrolargo/camineria-backend/internal/dto"
	"github.com/cerrolargo/camineria-backend/internal/middleware"
	"github.com/cerrolargo/camineria-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Create accepts the multipart citizen report form: descripcion,
// nombre_lugar, latitud, longitud and fotos[].
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	description := c.FormValue("descripcion")
	if description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "La descripción es obligatoria",
		})
	}

	// Malformed coordinates degrade to no-location, matching the form's
	// tolerant handling of optional fields.
	var lat, lon *float64
	if v := c.FormValue("latitud"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			lat = &f
		}
	}
	if v := c.FormValue("longitud"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			lon = &f
		}
	}
	if lat == nil || lon == nil {
		lat, lon = nil, nil
	}

	var photos []services.PhotoUpload
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fh := range form.File["fotos"] {
			f, err := fh.Open()
			if err != nil {
				continue
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				continue
			}
			photos = append(photos, services.PhotoUpload{Filename: fh.Filename, Data: data})
		}
	}

	report, rejected, err := h.reportService.Create(description, c.FormValue("nombre_lugar"), lat, lon, photos)
	if err != nil {
		if errors.Is(err, services.ErrDescriptionRequired) || errors.Is(err, services.ErrDescriptionTooLong) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	resp := dto.CreateReportResponse{
		Message:        "Reporte creado exitosamente",
		Report:         report,
		RejectedPhotos: rejected,
	}
	if len(rejected) > 0 {
		resp.Message = resp.Message + " (Se rechazaron " + strconv.Itoa(len(rejected)) + " fotos)"
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// adminCaller reports whether the request carries a verified admin
// token. Anonymous and restricted-role callers get the public view.
func adminCaller(c *fiber.Ctx) bool {
	actor, err := middleware.ActorFromContext(c)
	return err == nil && actor.Scope.All()
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	perPage := c.QueryInt("per_page", 10)

	resp, err := h.reportService.List(page, perPage, !adminCaller(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(resp)
}

func (h *ReportHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report id",
		})
	}

	report, err := h.reportService.Get(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Reporte no encontrado",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	// Unpublished reports do not exist for the public.
	if !report.Visible && !adminCaller(c) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Reporte no encontrado",
		})
	}
	return c.JSON(fiber.Map{"reporte": report})
}

func (h *ReportHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report id",
		})
	}

	if err := h.reportService.Delete(uint(id)); err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Reporte no encontrado",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(fiber.Map{"mensaje": "Reporte eliminado exitosamente"})
}

func (h *ReportHandler) SetVisible(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report id",
		})
	}

	var req dto.SetVisibilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	report, err := h.reportService.SetVisible(uint(id), req.Visible)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Reporte no encontrado",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(fiber.Map{"reporte": report})
}

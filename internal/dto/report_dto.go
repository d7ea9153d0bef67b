package dto

import "github.com/cerrolargo/camineria-backend/internal/models"

// RejectedPhoto reports a per-file upload failure. Rejections ride along
// with the 201 response; they never fail the report itself.
type RejectedPhoto struct {
	Name   string `json:"nombre"`
	Reason string `json:"razon"`
}

type CreateReportResponse struct {
	Message        string          `json:"mensaje"`
	Report         *models.Report  `json:"reporte"`
	RejectedPhotos []RejectedPhoto `json:"fotos_rechazadas,omitempty"`
}

type ReportListResponse struct {
	Reports     []models.Report `json:"reportes"`
	Total       int64           `json:"total"`
	Pages       int             `json:"pages"`
	CurrentPage int             `json:"current_page"`
	PerPage     int             `json:"per_page"`
}

type SetVisibilityRequest struct {
	Visible bool `json:"visible"`
}

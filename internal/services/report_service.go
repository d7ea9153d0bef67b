package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cerrolargo/camineria-backend/internal/dto"
	"github.com/cerrolargo/camineria-backend/internal/models"
	"github.com/cerrolargo/camineria-backend/internal/uploads"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound      = errors.New("report not found")
	ErrDescriptionRequired = errors.New("la descripción es obligatoria")
	ErrDescriptionTooLong  = errors.New("la descripción supera los 500 caracteres")
)

// PhotoUpload is one multipart file already read into memory.
type PhotoUpload struct {
	Filename string
	Data     []byte
}

type ReportService struct {
	db    *gorm.DB
	store *uploads.Store
	email *EmailService
}

func NewReportService(db *gorm.DB, store *uploads.Store, email *EmailService) *ReportService {
	return &ReportService{db: db, store: store, email: email}
}

// Create stores the report, persists what photos pass validation and
// relays the report by email. Photo rejections and email failures never
// fail the creation.
func (s *ReportService) Create(description, placeName string, lat, lon *float64, photos []PhotoUpload) (*models.Report, []dto.RejectedPhoto, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, nil, ErrDescriptionRequired
	}
	if len(description) > 500 {
		return nil, nil, ErrDescriptionTooLong
	}

	report := models.Report{
		Description: description,
		Latitude:    lat,
		Longitude:   lon,
		CreatedAt:   time.Now().UTC(),
	}
	if placeName = strings.TrimSpace(placeName); placeName != "" {
		report.PlaceName = &placeName
	}
	if err := s.db.Create(&report).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create report: %w", err)
	}

	var rejected []dto.RejectedPhoto
	for _, photo := range photos {
		if photo.Filename == "" || len(photo.Data) == 0 {
			continue
		}
		path, err := s.store.Save(photo.Filename, photo.Data)
		if err != nil {
			rejected = append(rejected, dto.RejectedPhoto{Name: photo.Filename, Reason: rejectionReason(err)})
			continue
		}
		row := models.ReportPhoto{
			ReportID:   report.ID,
			Filename:   photo.Filename,
			StoredPath: path,
			UploadedAt: time.Now().UTC(),
		}
		if err := s.db.Create(&row).Error; err != nil {
			// Row failed: drop the orphan file so disk and DB stay in sync.
			_ = s.store.Remove(path)
			rejected = append(rejected, dto.RejectedPhoto{Name: photo.Filename, Reason: "error al guardar el archivo en el servidor"})
			continue
		}
		report.Photos = append(report.Photos, row)
	}

	if s.email != nil {
		attachments := make([]string, 0, len(report.Photos))
		for _, p := range report.Photos {
			attachments = append(attachments, s.store.Abs(p.StoredPath))
		}
		if err := s.email.SendReport(&report, attachments); err != nil {
			slog.Error("report email failed", "report_id", report.ID, "error", err)
		}
	}

	return &report, rejected, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, uploads.ErrTooLarge):
		return fmt.Sprintf("archivo demasiado grande: %v", err)
	case errors.Is(err, uploads.ErrBadExtension):
		return fmt.Sprintf("tipo de archivo no permitido; permitidos: %s",
			strings.Join(uploads.AllowedExtensions(), ", "))
	default:
		return "error al procesar el archivo"
	}
}

// List pages reports newest first. visibleOnly hides unpublished reports
// from the public listing.
func (s *ReportService) List(page, perPage int, visibleOnly bool) (*dto.ReportListResponse, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	query := s.db.Model(&models.Report{})
	if visibleOnly {
		query = query.Where("visible = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var reports []models.Report
	err := query.Preload("Photos").
		Order("created_at DESC").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&reports).Error
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(perPage) - 1) / int64(perPage))
	return &dto.ReportListResponse{
		Reports:     reports,
		Total:       total,
		Pages:       pages,
		CurrentPage: page,
		PerPage:     perPage,
	}, nil
}

func (s *ReportService) Get(id uint) (*models.Report, error) {
	var report models.Report
	if err := s.db.Preload("Photos").First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

// Delete removes the report, its photo rows and their files. File
// deletion is best-effort; a missing file does not block the delete.
func (s *ReportService) Delete(id uint) error {
	report, err := s.Get(id)
	if err != nil {
		return err
	}

	for _, photo := range report.Photos {
		if err := s.store.Remove(photo.StoredPath); err != nil {
			slog.Warn("could not remove photo file", "path", photo.StoredPath, "error", err)
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("report_id = ?", id).Delete(&models.ReportPhoto{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Report{}, id).Error
	})
}

func (s *ReportService) SetVisible(id uint, visible bool) (*models.Report, error) {
	result := s.db.Model(&models.Report{}).Where("id = ?", id).Update("visible", visible)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrReportNotFound
	}
	return s.Get(id)
}

package services

import (
	"errors"
	"strings"
	"time"

	"github.com/cerrolargo/camineria-backend/internal/dto"
	"github.com/cerrolargo/camineria-backend/internal/models"
	"gorm.io/gorm"
)

var ErrBannerTextRequired = errors.New("el texto es requerido cuando enabled=true")

type BannerService struct {
	db *gorm.DB
}

func NewBannerService(db *gorm.DB) *BannerService {
	return &BannerService{db: db}
}

// Get returns the singleton row, or a disabled default when it was never
// written.
func (s *BannerService) Get() *dto.BannerResponse {
	var banner models.BannerConfig
	if err := s.db.First(&banner, models.BannerSingletonID).Error; err != nil {
		return &dto.BannerResponse{ID: "1", Variant: "info"}
	}
	return bannerToResponse(&banner)
}

// Update patches the singleton, creating it on first write. Enabling the
// banner requires non-blank text.
func (s *BannerService) Update(req *dto.UpdateBannerRequest) (*dto.BannerResponse, error) {
	var banner models.BannerConfig
	err := s.db.First(&banner, models.BannerSingletonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		banner = models.BannerConfig{ID: models.BannerSingletonID, Variant: "info"}
	} else if err != nil {
		return nil, err
	}

	if req.Enabled != nil {
		banner.Enabled = *req.Enabled
	}
	if req.Text != nil {
		banner.Text = *req.Text
	}
	if req.Variant != nil {
		banner.Variant = *req.Variant
	}
	if req.LinkText != nil {
		banner.LinkText = *req.LinkText
	}
	if req.LinkHref != nil {
		banner.LinkHref = *req.LinkHref
	}

	if banner.Enabled && strings.TrimSpace(banner.Text) == "" {
		return nil, ErrBannerTextRequired
	}

	banner.UpdatedAt = time.Now().UTC()
	if err := s.db.Save(&banner).Error; err != nil {
		return nil, err
	}
	return bannerToResponse(&banner), nil
}

func bannerToResponse(b *models.BannerConfig) *dto.BannerResponse {
	updated := b.UpdatedAt.UTC().Format(time.RFC3339)
	resp := &dto.BannerResponse{
		ID:       "1",
		Enabled:  b.Enabled,
		Text:     b.Text,
		Variant:  b.Variant,
		LinkText: b.LinkText,
		LinkHref: b.LinkHref,
	}
	if !b.UpdatedAt.IsZero() {
		resp.UpdatedAt = &updated
	}
	return resp
}

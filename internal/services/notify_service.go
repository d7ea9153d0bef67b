package services

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/cerrolargo/camineria-backend/internal/dto"
	"github.com/cerrolargo/camineria-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var e164Pattern = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)

var (
	ErrInvalidPhone    = errors.New("teléfono inválido, formato E.164 (+598...)")
	ErrZonesRequired   = errors.New("debe seleccionar al menos una zona")
	ErrConsentRequired = errors.New("debe aceptar el consentimiento")
)

type NotifyService struct {
	db *gorm.DB
}

func NewNotifyService(db *gorm.DB) *NotifyService {
	return &NotifyService{db: db}
}

// Subscribe validates and upserts a pre-registration keyed by phone.
// Re-subscribing replaces the zone selection but keeps the original
// creation time.
func (s *NotifyService) Subscribe(req *dto.SubscribeRequest) error {
	phone := strings.TrimSpace(req.Phone)
	if phone == "" || !e164Pattern.MatchString(phone) {
		return ErrInvalidPhone
	}

	selected := make([]string, 0, len(req.Zones))
	for _, z := range req.Zones {
		if z = strings.TrimSpace(z); z != "" {
			selected = append(selected, z)
		}
	}
	if len(selected) == 0 {
		return ErrZonesRequired
	}

	if !req.Consent {
		return ErrConsentRequired
	}

	zonesJSON, err := json.Marshal(selected)
	if err != nil {
		return err
	}

	var existing models.Subscriber
	err = s.db.Where("phone = ?", phone).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.Create(&models.Subscriber{
			Phone:     phone,
			Zones:     datatypes.JSON(zonesJSON),
			Consent:   true,
			Active:    true,
			CreatedAt: time.Now().UTC(),
		}).Error
	}
	if err != nil {
		return err
	}

	return s.db.Model(&existing).Updates(map[string]interface{}{
		"zones":   datatypes.JSON(zonesJSON),
		"consent": true,
		"active":  true,
	}).Error
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an administrative account. ALCALDE and OPERADOR accounts carry
// the canonical key of their single assigned zone; ADMIN carries none.
type User struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email              string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Name               string         `gorm:"size:255" json:"nombre"`
	Password           string         `gorm:"not null" json:"-"`
	Role               string         `gorm:"size:20;not null" json:"role"`
	ZoneKey            *string        `gorm:"size:100;index" json:"municipio_id"`
	Active             bool           `gorm:"default:true" json:"is_active"`
	ForcePasswordReset bool           `gorm:"default:false" json:"force_password_reset"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

// Subscriber is a pre-registration for WhatsApp zone notifications.
// Zones holds a JSON array of zone names; re-subscribing with the same
// phone replaces the selection but keeps the original CreatedAt.
type Subscriber struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Phone      string         `gorm:"size:20;not null;uniqueIndex" json:"phone_e164"`
	Zones      datatypes.JSON `json:"zones"`
	Consent    bool           `gorm:"not null" json:"consent"`
	Active     bool           `gorm:"default:true" json:"active"`
	CreatedAt  time.Time      `json:"created_at"`
	VerifiedAt *time.Time     `json:"verified_at"`
}

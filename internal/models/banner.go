package models

import "time"

// BannerConfig is the site-wide announcement banner. A single row with
// ID 1 holds the live configuration.
type BannerConfig struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Enabled   bool      `gorm:"default:false" json:"enabled"`
	Text      string    `gorm:"type:text" json:"text"`
	Variant   string    `gorm:"size:20;default:'info'" json:"variant"`
	LinkText  string    `gorm:"size:255" json:"link_text"`
	LinkHref  string    `gorm:"size:500" json:"link_href"`
	UpdatedAt time.Time `json:"updated_at"`
}

const BannerSingletonID uint = 1

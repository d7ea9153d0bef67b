package models

import "time"

// Zone states, as shown on the public map.
const (
	StateGreen  = "green"
	StateYellow = "yellow"
	StateRed    = "red"
)

// ValidState reports whether s is one of the three state literals.
func ValidState(s string) bool {
	return s == StateGreen || s == StateYellow || s == StateRed
}

// ZoneState holds the traffic-light status of one municipality. ZoneKey is
// the canonical (accent-stripped, casefolded) form and is the upsert key;
// ZoneName keeps the official spelling for display. Rows are seeded for
// the fixed municipality list and never deleted.
type ZoneState struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ZoneKey   string    `gorm:"size:100;not null;uniqueIndex" json:"-"`
	ZoneName  string    `gorm:"size:100;not null" json:"zone_name"`
	State     string    `gorm:"size:20;not null;default:'green'" json:"state"`
	UpdatedBy string    `gorm:"size:100" json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
	Notes     string    `gorm:"type:text" json:"notes"`
}

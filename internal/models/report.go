package models

import "time"

// Report is a citizen-submitted incident. Reports start hidden and are
// published by an admin through the visibility toggle.
type Report struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Description string        `gorm:"size:500;not null" json:"descripcion"`
	PlaceName   *string       `gorm:"size:255" json:"nombre_lugar"`
	Latitude    *float64      `json:"latitud"`
	Longitude   *float64      `json:"longitud"`
	CreatedAt   time.Time     `gorm:"index" json:"fecha_creacion"`
	Visible     bool          `gorm:"not null;default:false;index" json:"visible"`
	Photos      []ReportPhoto `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"fotos"`
}

// ReportPhoto tracks one stored upload. StoredPath is the public path
// relative to the static root ("/uploads/reportes/<uuid>.<ext>"); the
// file on disk is removed together with the row when the report goes.
type ReportPhoto struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ReportID   uint      `gorm:"not null;index" json:"reporte_id"`
	Filename   string    `gorm:"size:255;not null" json:"nombre_archivo"`
	StoredPath string    `gorm:"size:500;not null" json:"ruta_archivo"`
	UploadedAt time.Time `json:"fecha_subida"`
}

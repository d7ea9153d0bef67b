package services

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cerrolargo/camineria-backend/internal/config"
	"github.com/cerrolargo/camineria-backend/internal/models"
	"gopkg.in/gomail.v2"
)

// EmailService relays citizen reports over SMTP. A nil receiver or an
// unconfigured account disables sending without failing callers.
type EmailService struct {
	cfg    *config.Config
	sender gomail.Sender
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled reports whether SMTP credentials are configured.
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg.EmailUser != "" && s.cfg.EmailPassword != ""
}

// SendReport mails the new report to the municipal inbox, attaching the
// stored photos that still exist on disk.
func (s *EmailService) SendReport(report *models.Report, photoPaths []string) error {
	if !s.Enabled() {
		return errors.New("email relay not configured")
	}

	to := s.cfg.EmailDefaultTo
	if to == "" {
		to = s.cfg.EmailUser
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.EmailUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Nuevo reporte ciudadano #%d", report.ID))
	m.SetBody("text/plain", reportBody(report))

	for _, p := range photoPaths {
		if _, err := os.Stat(p); err == nil {
			m.Attach(p)
		}
	}

	if s.sender != nil {
		return gomail.Send(s.sender, m)
	}
	d := gomail.NewDialer(s.cfg.SMTPServer, s.cfg.SMTPPort, s.cfg.EmailUser, s.cfg.EmailPassword)
	return d.DialAndSend(m)
}

func reportBody(report *models.Report) string {
	place := "(sin especificar)"
	if report.PlaceName != nil {
		place = *report.PlaceName
	}
	coords := "(sin coordenadas)"
	if report.Latitude != nil && report.Longitude != nil {
		coords = fmt.Sprintf("%.6f, %.6f", *report.Latitude, *report.Longitude)
	}
	return fmt.Sprintf(
		"Se recibió un nuevo reporte ciudadano.\n\n"+
			"Descripción: %s\nLugar: %s\nCoordenadas: %s\nFecha: %s\nFotos adjuntas: %d\n",
		report.Description, place, coords,
		report.CreatedAt.Format(time.RFC3339), len(report.Photos))
}

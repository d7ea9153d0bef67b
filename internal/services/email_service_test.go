package services

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cerrolargo/camineria-backend/internal/models"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	from string
	to   []string
	body string
}

func (s *captureSender) Send(from string, to []string, msg io.WriterTo) error {
	s.from = from
	s.to = to
	var b strings.Builder
	if _, err := msg.WriteTo(&b); err != nil {
		return err
	}
	s.body = b.String()
	return nil
}

func TestSendReport(t *testing.T) {
	cfg := testConfig(t)
	cfg.EmailUser = "camineria@cerrolargo.gub.uy"
	cfg.EmailPassword = "secreto"
	cfg.EmailDefaultTo = "mesa@cerrolargo.gub.uy"

	sender := &captureSender{}
	svc := &EmailService{cfg: cfg, sender: sender}
	require.True(t, svc.Enabled())

	place := "Paso del Dragón"
	lat, lon := -32.3667, -54.1833
	report := &models.Report{
		ID:          7,
		Description: "Camino cortado por crecida",
		PlaceName:   &place,
		Latitude:    &lat,
		Longitude:   &lon,
		CreatedAt:   time.Now().UTC(),
	}

	require.NoError(t, svc.SendReport(report, nil))
	require.Equal(t, "camineria@cerrolargo.gub.uy", sender.from)
	require.Equal(t, []string{"mesa@cerrolargo.gub.uy"}, sender.to)
	require.Contains(t, sender.body, "Nuevo reporte ciudadano #7")
	require.Contains(t, sender.body, "Paso del Drag")
}

func TestSendReportDisabledWithoutCredentials(t *testing.T) {
	svc := NewEmailService(testConfig(t))
	require.False(t, svc.Enabled())
	require.Error(t, svc.SendReport(&models.Report{ID: 1, Description: "x"}, nil))
}

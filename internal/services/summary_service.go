package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cerrolargo/camineria-backend/internal/models"
	"github.com/cerrolargo/camineria-backend/internal/pdfgen"
	"gorm.io/gorm"
)

// Human-readable mappings for the tri-state, as printed on reports.
var (
	statusLabel = map[string]string{
		models.StateGreen:  "Habilitado",
		models.StateYellow: "Precaución",
		models.StateRed:    "Suspendido",
	}
	colorLabel = map[string]string{
		models.StateGreen:  "Verde",
		models.StateYellow: "Amarillo",
		models.StateRed:    "Rojo",
	}
	alertLabel = map[string]string{
		models.StateGreen:  "Sin restricciones",
		models.StateYellow: "Posible cierre de caminería",
		models.StateRed:    "Prohibido el tránsito pesado por lluvias",
	}
)

// SummaryData is the machine-readable form served to the frontend.
type SummaryData struct {
	GeneratedAt  string                    `json:"generated_at"`
	TotalZones   int                       `json:"total_zones"`
	StateSummary map[string]int            `json:"state_summary"`
	Zones        map[string]map[string]any `json:"zones"`
}

type SummaryService struct {
	db *gorm.DB
}

func NewSummaryService(db *gorm.DB) *SummaryService {
	return &SummaryService{db: db}
}

func (s *SummaryService) zones() ([]models.ZoneState, error) {
	var rows []models.ZoneState
	err := s.db.Order("zone_name").Find(&rows).Error
	return rows, err
}

// Data builds the JSON report payload.
func (s *SummaryService) Data() (*SummaryData, error) {
	rows, err := s.zones()
	if err != nil {
		return nil, err
	}

	counts := map[string]int{models.StateGreen: 0, models.StateYellow: 0, models.StateRed: 0}
	zoneMap := make(map[string]map[string]any, len(rows))
	for _, z := range rows {
		counts[z.State]++
		zoneMap[z.ZoneName] = map[string]any{
			"state":      z.State,
			"updated_by": z.UpdatedBy,
			"updated_at": z.UpdatedAt.UTC().Format(time.RFC3339),
			"notes":      z.Notes,
		}
	}

	return &SummaryData{
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
		TotalZones:   len(rows),
		StateSummary: counts,
		Zones:        zoneMap,
	}, nil
}

// PDF renders the downloadable report.
func (s *SummaryService) PDF() ([]byte, string, error) {
	rows, err := s.zones()
	if err != nil {
		return nil, "", err
	}

	summary := pdfgen.Summary{Total: len(rows)}
	table := make([]pdfgen.Row, 0, len(rows))
	for _, z := range rows {
		switch z.State {
		case models.StateGreen:
			summary.Green++
		case models.StateYellow:
			summary.Yellow++
		case models.StateRed:
			summary.Red++
		}
		table = append(table, pdfgen.Row{
			Name:   z.ZoneName,
			Status: statusLabel[z.State],
			Color:  colorLabel[z.State],
			Alert:  alertLabel[z.State],
		})
	}

	now := time.Now()
	data, err := pdfgen.Render(now, summary, table)
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("reporte_camineria_cerro_largo_%s.pdf", now.Format("20060102_150405"))
	return data, name, nil
}

// Text renders the plain-text fallback report.
func (s *SummaryService) Text() ([]byte, string, error) {
	rows, err := s.zones()
	if err != nil {
		return nil, "", err
	}

	counts := map[string]int{}
	for _, z := range rows {
		counts[z.State]++
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].ZoneName < rows[j].ZoneName })

	now := time.Now()
	var b strings.Builder
	b.WriteString("REPORTE DE ESTADOS DE CAMINERÍA - CERRO LARGO\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	fmt.Fprintf(&b, "Generado el: %s\n\n", now.Format("02/01/2006 15:04:05"))

	b.WriteString("RESUMEN GENERAL\n")
	b.WriteString(strings.Repeat("-", 20) + "\n")
	fmt.Fprintf(&b, "Total de Zonas: %d\n", len(rows))
	fmt.Fprintf(&b, "Habilitadas: %d\n", counts[models.StateGreen])
	fmt.Fprintf(&b, "En Alerta: %d\n", counts[models.StateYellow])
	fmt.Fprintf(&b, "Suspendidas: %d\n\n", counts[models.StateRed])

	b.WriteString("DETALLE POR ZONA/MUNICIPIO\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	for _, z := range rows {
		fmt.Fprintf(&b, "\nZona: %s\n", z.ZoneName)
		fmt.Fprintf(&b, "Estado: %s\n", statusLabel[z.State])
		fmt.Fprintf(&b, "Última Actualización: %s\n", z.UpdatedAt.Format("02/01/2006 15:04"))
		fmt.Fprintf(&b, "Actualizado Por: %s\n", z.UpdatedBy)
		b.WriteString(strings.Repeat("-", 40) + "\n")
	}
	b.WriteString("\n\nSistema de Gestión de Caminería - Cerro Largo\n")
	b.WriteString("Departamento de Cerro Largo - Uruguay\n")

	name := fmt.Sprintf("reporte_camineria_cerro_largo_%s.txt", now.Format("20060102_150405"))
	return []byte(b.String()), name, nil
}

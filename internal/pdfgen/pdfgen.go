// Package pdfgen renders the municipality status report as a PDF.
package pdfgen

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Row is one municipality line in the status table.
type Row struct {
	Name   string
	Status string
	Color  string
	Alert  string
}

// Summary carries the counts shown above the table.
type Summary struct {
	Total  int
	Green  int
	Yellow int
	Red    int
}

// Render produces the full report PDF.
func Render(generatedAt time.Time, summary Summary, rows []Row) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Reporte de Estado de Caminería - Cerro Largo"), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(31, 78, 121)
	pdf.CellFormat(0, 12, tr("Reporte de Estado de Caminería"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, tr("Departamento de Cerro Largo - Uruguay"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 8, tr("Generado el: "+generatedAt.Format("02/01/2006 15:04:05")), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(46, 117, 182)
	pdf.CellFormat(0, 8, tr("Resumen General"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Total de zonas: %d", summary.Total)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Habilitadas: %d   En alerta: %d   Suspendidas: %d",
		summary.Green, summary.Yellow, summary.Red)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	widths := []float64{45, 35, 25, 85}
	headers := []string{"Municipio", "Estado", "Color", "Alerta"}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(31, 78, 121)
	pdf.SetTextColor(245, 245, 245)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	fill := false
	for _, row := range rows {
		if fill {
			pdf.SetFillColor(235, 235, 225)
		} else {
			pdf.SetFillColor(245, 245, 220)
		}
		pdf.CellFormat(widths[0], 7, tr(row.Name), "1", 0, "L", true, 0, "")
		pdf.CellFormat(widths[1], 7, tr(row.Status), "1", 0, "C", true, 0, "")
		pdf.CellFormat(widths[2], 7, tr(row.Color), "1", 0, "C", true, 0, "")
		pdf.CellFormat(widths[3], 7, tr(row.Alert), "1", 0, "L", true, 0, "")
		pdf.Ln(-1)
		fill = !fill
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 5, tr("Sistema de Gestión de Caminería - Cerro Largo"), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

package certificate

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"

	"sistema-gth/internal/database/models"
	"sistema-gth/internal/vacation"
)

// Line is one row of the certificate's contract table.
type Line struct {
	Cargo   string     `json:"cargo"`
	FInicio time.Time  `json:"f_inicio"`
	FFin    *time.Time `json:"f_fin,omitempty"`
}

// Data carries everything the document depends on. Render is a pure
// function of this struct plus the two optional letterhead files.
type Data struct {
	Nombres     string
	DNI         string
	Lines       []Line
	Office      string
	City        string
	SignerName  string
	SignerTitle string
	HeaderImage string
	FooterImage string
	IssuedAt    time.Time
}

// FormatDate renders a contract date as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

var meses = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatLongDate renders the issuing date line, e.g. "29 de agosto de 2026".
func FormatLongDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), meses[t.Month()-1], t.Year())
}

// BuildLines orders contract rows by start date. With consolidate, rows
// whose intervals overlap or touch (gap of at most one day) collapse into
// a single row carrying the most recent cargo, so administrative renewals
// do not print as artificial breaks.
func BuildLines(contracts []models.Contract, consolidate bool) []Line {
	var lines []Line
	for _, c := range contracts {
		if c.FInicio == nil {
			continue
		}
		lines = append(lines, Line{Cargo: c.Cargo, FInicio: *c.FInicio, FFin: c.FFin})
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].FInicio.Before(lines[j].FInicio)
	})

	if !consolidate || len(lines) < 2 {
		return lines
	}

	merged := []Line{lines[0]}
	for _, l := range lines[1:] {
		last := &merged[len(merged)-1]
		if last.FFin != nil && !l.FInicio.After(last.FFin.AddDate(0, 0, 1)) {
			last.Cargo = l.Cargo
			if l.FFin == nil || l.FFin.After(*last.FFin) {
				last.FFin = l.FFin
			}
			continue
		}
		if last.FFin == nil {
			// open-ended row swallows anything that starts inside it
			last.Cargo = l.Cargo
			continue
		}
		merged = append(merged, l)
	}
	return merged
}

// LinesFromIntervals is a convenience for callers that already merged
// tenure with the vacation package and only need printable rows.
func LinesFromIntervals(cargo string, intervals []vacation.Interval) []Line {
	var lines []Line
	for _, iv := range intervals {
		end := iv.End
		lines = append(lines, Line{Cargo: cargo, FInicio: iv.Start, FFin: &end})
	}
	return lines
}

// Render writes the employment certificate PDF.
func Render(data Data, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(20, 15, 20)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	contentW := pageW - 40

	if fileExists(data.HeaderImage) {
		pdf.ImageOptions(data.HeaderImage, 10, 8, pageW-20, 0, false,
			gofpdf.ImageOptions{ReadDpi: true}, 0, "")
		pdf.SetY(45)
	} else {
		pdf.SetY(35)
	}

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(contentW, 10, tr("CONSTANCIA DE TRABAJO"), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(contentW, 6, tr(fmt.Sprintf(
		"El que suscribe, responsable de la %s, deja constancia de lo siguiente:",
		data.Office)), "", "J", false)
	pdf.Ln(4)

	pdf.MultiCell(contentW, 6, tr(fmt.Sprintf(
		"Que, el(la) trabajador(a) %s, identificado(a) con DNI N° %s, ha prestado "+
			"servicios en esta institución conforme al siguiente detalle:",
		data.Nombres, data.DNI)), "", "J", false)
	pdf.Ln(6)

	// contract table
	colCargo := contentW * 0.5
	colDate := contentW * 0.25

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(colCargo, 8, tr("CARGO"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(colDate, 8, tr("FECHA INICIO"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(colDate, 8, tr("FECHA FIN"), "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, line := range data.Lines {
		fin := "ACTUALIDAD"
		if line.FFin != nil {
			fin = FormatDate(*line.FFin)
		}
		pdf.CellFormat(colCargo, 7, tr(line.Cargo), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colDate, 7, FormatDate(line.FInicio), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colDate, 7, tr(fin), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(10)

	pdf.MultiCell(contentW, 6, tr(
		"Se expide la presente constancia a solicitud del(de la) interesado(a), "+
			"para los fines que estime conveniente."), "", "J", false)
	pdf.Ln(8)

	pdf.CellFormat(contentW, 6, tr(fmt.Sprintf("%s, %s", data.City, FormatLongDate(data.IssuedAt))),
		"", 1, "R", false, 0, "")
	pdf.Ln(18)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(contentW, 5, "________________________________", "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 5, tr(data.SignerName), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(contentW, 5, tr(data.SignerTitle), "", 1, "C", false, 0, "")

	if fileExists(data.FooterImage) {
		pdf.ImageOptions(data.FooterImage, 10, pageH-25, pageW-20, 0, false,
			gofpdf.ImageOptions{ReadDpi: true}, 0, "")
	}

	return pdf.Output(w)
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

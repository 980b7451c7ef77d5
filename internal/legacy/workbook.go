package legacy

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the legacy DB_SISTEMA_GTH.xlsx workbook.
const (
	SheetPersonal        = "PERSONAL"
	SheetFamilia         = "FAMILIA"
	SheetFormAcad        = "FORM_ACAD"
	SheetExpLaboral      = "EXP_LABORAL"
	SheetInvestigaciones = "INVESTIGACIONES"
	SheetContratos       = "CONTRATOS"
	SheetVacaciones      = "VACACIONES"
	SheetBeneficios      = "BENEFICIOS"
	SheetMeritos         = "MERITOS"
	SheetEvaluaciones    = "EVALUACIONES"
	SheetLiquidaciones   = "LIQUIDACIONES"
)

var Sheets = []string{
	SheetPersonal, SheetFamilia, SheetFormAcad, SheetExpLaboral,
	SheetInvestigaciones, SheetContratos, SheetVacaciones,
	SheetBeneficios, SheetMeritos, SheetEvaluaciones, SheetLiquidaciones,
}

// manifest lists the minimum columns each sheet must expose after load.
// Columns are internal (normalized, lowercase) names.
var manifest = map[string][]string{
	SheetPersonal:        {"dni", "nombres", "telefono", "correo", "direccion", "link"},
	SheetFamilia:         {"dni", "parentesco", "nombres", "dni_familiar", "fecha_nacimiento", "observacion"},
	SheetFormAcad:        {"dni", "grado", "institucion", "carrera", "fecha_egreso", "link"},
	SheetExpLaboral:      {"dni", "institucion", "cargo", "f_inicio", "f_fin", "observacion"},
	SheetInvestigaciones: {"dni", "titulo", "revista", "fecha", "link"},
	SheetContratos:       {"id", "dni", "cargo", "sueldo", "f_inicio", "f_fin", "tipo", "temporalidad", "categoria", "planilla", "estado", "motivo_cese", "link"},
	SheetVacaciones:      {"dni", "periodo", "f_inicio", "f_fin", "dias_generados", "dias_usados", "saldo"},
	SheetBeneficios:      {"dni", "tipo", "descripcion", "fecha", "monto"},
	SheetMeritos:         {"dni", "tipo", "motivo", "fecha", "documento"},
	SheetEvaluaciones:    {"dni", "periodo", "puntaje", "calificacion", "fecha"},
	SheetLiquidaciones:   {"dni", "motivo", "monto", "fecha_pago", "observacion"},
}

// columnAliases reconciles legacy header spellings that drifted across
// workbook generations onto one internal name.
var columnAliases = map[string]string{
	"apellidos y nombres":  "nombres",
	"remuneración básica":  "sueldo",
	"remuneracion basica":  "sueldo",
	"fecha inicio":         "f_inicio",
	"fecha fin":            "f_fin",
	"fecha de nacimiento":  "fecha_nacimiento",
	"motivo de cese":       "motivo_cese",
	"días generados":       "dias_generados",
	"días usados":          "dias_usados",
}

// NormalizeDNI trims whitespace and strips the trailing ".0" that numeric
// auto-formatting leaves on identity numbers round-tripped through Excel.
func NormalizeDNI(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".0")
	return s
}

// NormalizeHeader maps a raw header cell onto its internal column name.
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	if alias, ok := columnAliases[h]; ok {
		return alias
	}
	return strings.ReplaceAll(h, " ", "_")
}

// Table is one loaded sheet: normalized column names and one string map
// per data row.
type Table struct {
	Sheet   string
	Columns []string
	Rows    []map[string]string
}

func (t *Table) hasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

type Workbook struct {
	Tables map[string]*Table
}

// Warning is a non-fatal schema finding surfaced to the operator instead
// of being patched silently.
type Warning struct {
	Sheet   string `json:"sheet"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Sheet, w.Message)
}

// Load reads the legacy workbook. A missing sheet yields an empty table;
// manifest columns absent from a sheet are synthesized empty and reported
// as warnings. DNI cells are normalized on the way in.
func Load(path string) (*Workbook, []Warning, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	present := make(map[string]bool)
	for _, s := range f.GetSheetList() {
		present[s] = true
	}

	wb := &Workbook{Tables: make(map[string]*Table)}
	var warnings []Warning

	for _, sheet := range Sheets {
		table := &Table{Sheet: sheet}

		if !present[sheet] {
			table.Columns = append(table.Columns, manifest[sheet]...)
			warnings = append(warnings, Warning{Sheet: sheet, Message: "sheet missing, initialized empty"})
			wb.Tables[sheet] = table
			continue
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}

		if len(rows) > 0 {
			for _, h := range rows[0] {
				table.Columns = append(table.Columns, NormalizeHeader(h))
			}
		}
		for _, col := range manifest[sheet] {
			if !table.hasColumn(col) {
				table.Columns = append(table.Columns, col)
				warnings = append(warnings, Warning{Sheet: sheet, Message: fmt.Sprintf("expected column %q missing, synthesized empty", col)})
			}
		}

		for i, row := range rows {
			if i == 0 {
				continue
			}
			record := make(map[string]string, len(table.Columns))
			for j, col := range table.Columns {
				val := ""
				if j < len(row) {
					val = strings.TrimSpace(row[j])
				}
				if col == "dni" || col == "dni_familiar" {
					val = NormalizeDNI(val)
				}
				record[col] = val
			}
			if empty(record) {
				continue
			}
			table.Rows = append(table.Rows, record)
		}

		wb.Tables[sheet] = table
	}

	return wb, warnings, nil
}

func empty(record map[string]string) bool {
	for _, v := range record {
		if v != "" {
			return false
		}
	}
	return true
}

// Save writes the workbook back in the legacy layout, headers upper-cased.
func Save(wb *Workbook, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return Write(wb, out)
}

func Write(wb *Workbook, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range Sheets {
		table := wb.Tables[sheet]
		if table == nil {
			table = &Table{Sheet: sheet, Columns: manifest[sheet]}
		}

		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return err
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return err
			}
		}

		for j, col := range table.Columns {
			cell, err := excelize.CoordinatesToCellName(j+1, 1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, strings.ToUpper(col)); err != nil {
				return err
			}
		}
		for r, row := range table.Rows {
			for j, col := range table.Columns {
				cell, err := excelize.CoordinatesToCellName(j+1, r+2)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(sheet, cell, row[col]); err != nil {
					return err
				}
			}
		}
	}

	return f.Write(w)
}

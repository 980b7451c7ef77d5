package legacy

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"sistema-gth/internal/database/models"
)

// RowError is a fatal finding on one workbook row. Malformed values are
// rejected and reported, never defaulted: substituting "today" for an
// unparseable date corrupts history.
type RowError struct {
	Sheet   string `json:"sheet"`
	Row     int    `json:"row"` // 1-based workbook row, header included
	Column  string `json:"column"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s row %d, column %s: %s", e.Sheet, e.Row, e.Column, e.Message)
}

type ImportSummary struct {
	Imported map[string]int `json:"imported"`
	Warnings []Warning      `json:"warnings"`
	Errors   []RowError     `json:"errors"`
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"02-01-2006",
	"2/1/2006",
	"1/2/06 15:04",
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q", s)
}

func parseAmount(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "0", nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", fmt.Errorf("unrecognized amount %q", s)
	}
	return d.String(), nil
}

func parseBool(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "SI", "SÍ", "TRUE", "1", "X":
		return true
	default:
		return false
	}
}

// rowReader accumulates per-cell findings for one workbook row.
type rowReader struct {
	sheet  string
	rowNum int
	row    map[string]string
	errs   *[]RowError
	warns  *[]Warning
	failed bool
}

func (r *rowReader) str(col string) string { return r.row[col] }

func (r *rowReader) reject(col, message string) {
	*r.errs = append(*r.errs, RowError{Sheet: r.sheet, Row: r.rowNum, Column: col, Message: message})
	r.failed = true
}

func (r *rowReader) warn(message string) {
	*r.warns = append(*r.warns, Warning{Sheet: r.sheet, Message: fmt.Sprintf("row %d: %s", r.rowNum, message)})
}

func (r *rowReader) date(col string) *time.Time {
	t, err := parseDate(r.row[col])
	if err != nil {
		r.reject(col, err.Error())
		return nil
	}
	return t
}

// requiredDate rejects empty cells as well as malformed ones. A nil
// value here would otherwise surface as a constraint failure inside the
// insert and abort the whole import.
func (r *rowReader) requiredDate(col string) *time.Time {
	t, err := parseDate(r.row[col])
	if err != nil {
		r.reject(col, err.Error())
		return nil
	}
	if t == nil {
		r.reject(col, "required date is empty")
		return nil
	}
	return t
}

func (r *rowReader) amount(col string) string {
	v, err := parseAmount(r.row[col])
	if err != nil {
		r.reject(col, err.Error())
		return "0"
	}
	return v
}

// Import loads every category of the legacy workbook into the datastore
// in one transaction. Rows with malformed values are skipped and reported;
// a workbook that cannot be opened fails outright.
func Import(db *gorm.DB, path string) (*ImportSummary, error) {
	wb, warnings, err := Load(path)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{
		Imported: make(map[string]int),
		Warnings: warnings,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, sheet := range Sheets {
			table := wb.Tables[sheet]
			for i, row := range table.Rows {
				r := &rowReader{sheet: sheet, rowNum: i + 2, row: row, errs: &summary.Errors, warns: &summary.Warnings}
				record := buildRecord(sheet, r)
				if r.failed || record == nil {
					continue
				}
				if err := tx.Create(record).Error; err != nil {
					return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
				}
				summary.Imported[sheet]++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return summary, nil
}

func buildRecord(sheet string, r *rowReader) interface{} {
	switch sheet {
	case SheetPersonal:
		return &models.Employee{
			DNI:       r.str("dni"),
			Nombres:   r.str("nombres"),
			Telefono:  r.str("telefono"),
			Correo:    r.str("correo"),
			Direccion: r.str("direccion"),
			Link:      r.str("link"),
		}
	case SheetFamilia:
		return &models.FamilyMember{
			DNI:             r.str("dni"),
			Parentesco:      r.str("parentesco"),
			Nombres:         r.str("nombres"),
			DNIFamiliar:     r.str("dni_familiar"),
			FechaNacimiento: r.date("fecha_nacimiento"),
			Observacion:     r.str("observacion"),
		}
	case SheetFormAcad:
		return &models.AcademicRecord{
			DNI:         r.str("dni"),
			Grado:       r.str("grado"),
			Institucion: r.str("institucion"),
			Carrera:     r.str("carrera"),
			FechaEgreso: r.date("fecha_egreso"),
			Link:        r.str("link"),
		}
	case SheetExpLaboral:
		return &models.WorkExperience{
			DNI:         r.str("dni"),
			Institucion: r.str("institucion"),
			Cargo:       r.str("cargo"),
			FInicio:     r.date("f_inicio"),
			FFin:        r.date("f_fin"),
			Observacion: r.str("observacion"),
		}
	case SheetInvestigaciones:
		return &models.Publication{
			DNI:     r.str("dni"),
			Titulo:  r.str("titulo"),
			Revista: r.str("revista"),
			Fecha:   r.date("fecha"),
			Link:    r.str("link"),
		}
	case SheetContratos:
		estado := strings.ToUpper(strings.TrimSpace(r.str("estado")))
		if estado == "" || estado == "ACTIVO" {
			estado = models.ContractActivo
		} else {
			// legacy spellings: CESADO, TERMINADO, INACTIVO
			estado = models.ContractCesado
		}
		motivo := strings.TrimSpace(r.str("motivo_cese"))
		switch estado {
		case models.ContractActivo:
			if motivo != "" {
				r.warn(fmt.Sprintf("motivo_cese %q dropped, contract is ACTIVO", motivo))
				motivo = ""
			}
		case models.ContractCesado:
			if !models.ValidMotivoCese(motivo) {
				r.warn(fmt.Sprintf("motivo_cese %q mapped to Otros", motivo))
				motivo = "Otros"
			}
		}
		return &models.Contract{
			DNI:          r.str("dni"),
			Cargo:        r.str("cargo"),
			Sueldo:       r.amount("sueldo"),
			FInicio:      r.requiredDate("f_inicio"),
			FFin:         r.date("f_fin"),
			Tipo:         r.str("tipo"),
			Temporalidad: r.str("temporalidad"),
			Categoria:    r.str("categoria"),
			Planilla:     parseBool(r.str("planilla")),
			Estado:       estado,
			MotivoCese:   motivo,
			Link:         r.str("link"),
		}
	case SheetVacaciones:
		return &models.VacationPeriod{
			DNI:           r.str("dni"),
			Periodo:       r.str("periodo"),
			FInicio:       r.date("f_inicio"),
			FFin:          r.date("f_fin"),
			DiasGenerados: r.amount("dias_generados"),
			DiasUsados:    r.amount("dias_usados"),
			Saldo:         r.amount("saldo"),
		}
	case SheetBeneficios:
		return &models.Benefit{
			DNI:         r.str("dni"),
			Tipo:        r.str("tipo"),
			Descripcion: r.str("descripcion"),
			Fecha:       r.date("fecha"),
			Monto:       r.amount("monto"),
		}
	case SheetMeritos:
		tipo := strings.ToUpper(strings.TrimSpace(r.str("tipo")))
		if tipo != models.MeritoTipoDemerito {
			tipo = models.MeritoTipoMerito
		}
		return &models.MeritEntry{
			DNI:       r.str("dni"),
			Tipo:      tipo,
			Motivo:    r.str("motivo"),
			Fecha:     r.date("fecha"),
			Documento: r.str("documento"),
		}
	case SheetEvaluaciones:
		return &models.Evaluation{
			DNI:          r.str("dni"),
			Periodo:      r.str("periodo"),
			Puntaje:      r.str("puntaje"),
			Calificacion: r.str("calificacion"),
			Fecha:        r.date("fecha"),
		}
	case SheetLiquidaciones:
		return &models.Settlement{
			DNI:         r.str("dni"),
			Motivo:      r.str("motivo"),
			Monto:       r.amount("monto"),
			FechaPago:   r.date("fecha_pago"),
			Observacion: r.str("observacion"),
		}
	}
	return nil
}

// Export dumps the datastore back to the legacy workbook layout.
func Export(db *gorm.DB, path string) error {
	wb := &Workbook{Tables: make(map[string]*Table)}

	var employees []models.Employee
	if err := db.Order("id").Find(&employees).Error; err != nil {
		return err
	}
	personal := &Table{Sheet: SheetPersonal, Columns: manifest[SheetPersonal]}
	for _, e := range employees {
		personal.Rows = append(personal.Rows, map[string]string{
			"dni": e.DNI, "nombres": e.Nombres, "telefono": e.Telefono,
			"correo": e.Correo, "direccion": e.Direccion, "link": e.Link,
		})
	}
	wb.Tables[SheetPersonal] = personal

	var contracts []models.Contract
	if err := db.Order("id").Find(&contracts).Error; err != nil {
		return err
	}
	contratos := &Table{Sheet: SheetContratos, Columns: manifest[SheetContratos]}
	for _, c := range contracts {
		contratos.Rows = append(contratos.Rows, map[string]string{
			"id": strconv.FormatInt(c.ID, 10), "dni": c.DNI, "cargo": c.Cargo,
			"sueldo": c.Sueldo, "f_inicio": formatDate(c.FInicio), "f_fin": formatDate(c.FFin),
			"tipo": c.Tipo, "temporalidad": c.Temporalidad, "categoria": c.Categoria,
			"planilla": boolCell(c.Planilla), "estado": c.Estado,
			"motivo_cese": c.MotivoCese, "link": c.Link,
		})
	}
	wb.Tables[SheetContratos] = contratos

	var family []models.FamilyMember
	if err := db.Order("id").Find(&family).Error; err != nil {
		return err
	}
	familia := &Table{Sheet: SheetFamilia, Columns: manifest[SheetFamilia]}
	for _, m := range family {
		familia.Rows = append(familia.Rows, map[string]string{
			"dni": m.DNI, "parentesco": m.Parentesco, "nombres": m.Nombres,
			"dni_familiar": m.DNIFamiliar, "fecha_nacimiento": formatDate(m.FechaNacimiento),
			"observacion": m.Observacion,
		})
	}
	wb.Tables[SheetFamilia] = familia

	var academics []models.AcademicRecord
	if err := db.Order("id").Find(&academics).Error; err != nil {
		return err
	}
	formAcad := &Table{Sheet: SheetFormAcad, Columns: manifest[SheetFormAcad]}
	for _, a := range academics {
		formAcad.Rows = append(formAcad.Rows, map[string]string{
			"dni": a.DNI, "grado": a.Grado, "institucion": a.Institucion,
			"carrera": a.Carrera, "fecha_egreso": formatDate(a.FechaEgreso), "link": a.Link,
		})
	}
	wb.Tables[SheetFormAcad] = formAcad

	var experience []models.WorkExperience
	if err := db.Order("id").Find(&experience).Error; err != nil {
		return err
	}
	expLaboral := &Table{Sheet: SheetExpLaboral, Columns: manifest[SheetExpLaboral]}
	for _, x := range experience {
		expLaboral.Rows = append(expLaboral.Rows, map[string]string{
			"dni": x.DNI, "institucion": x.Institucion, "cargo": x.Cargo,
			"f_inicio": formatDate(x.FInicio), "f_fin": formatDate(x.FFin),
			"observacion": x.Observacion,
		})
	}
	wb.Tables[SheetExpLaboral] = expLaboral

	var publications []models.Publication
	if err := db.Order("id").Find(&publications).Error; err != nil {
		return err
	}
	investigaciones := &Table{Sheet: SheetInvestigaciones, Columns: manifest[SheetInvestigaciones]}
	for _, p := range publications {
		investigaciones.Rows = append(investigaciones.Rows, map[string]string{
			"dni": p.DNI, "titulo": p.Titulo, "revista": p.Revista,
			"fecha": formatDate(p.Fecha), "link": p.Link,
		})
	}
	wb.Tables[SheetInvestigaciones] = investigaciones

	var vacations []models.VacationPeriod
	if err := db.Order("id").Find(&vacations).Error; err != nil {
		return err
	}
	vacaciones := &Table{Sheet: SheetVacaciones, Columns: manifest[SheetVacaciones]}
	for _, v := range vacations {
		vacaciones.Rows = append(vacaciones.Rows, map[string]string{
			"dni": v.DNI, "periodo": v.Periodo,
			"f_inicio": formatDate(v.FInicio), "f_fin": formatDate(v.FFin),
			"dias_generados": v.DiasGenerados, "dias_usados": v.DiasUsados, "saldo": v.Saldo,
		})
	}
	wb.Tables[SheetVacaciones] = vacaciones

	var benefits []models.Benefit
	if err := db.Order("id").Find(&benefits).Error; err != nil {
		return err
	}
	beneficios := &Table{Sheet: SheetBeneficios, Columns: manifest[SheetBeneficios]}
	for _, b := range benefits {
		beneficios.Rows = append(beneficios.Rows, map[string]string{
			"dni": b.DNI, "tipo": b.Tipo, "descripcion": b.Descripcion,
			"fecha": formatDate(b.Fecha), "monto": b.Monto,
		})
	}
	wb.Tables[SheetBeneficios] = beneficios

	var merits []models.MeritEntry
	if err := db.Order("id").Find(&merits).Error; err != nil {
		return err
	}
	meritos := &Table{Sheet: SheetMeritos, Columns: manifest[SheetMeritos]}
	for _, m := range merits {
		meritos.Rows = append(meritos.Rows, map[string]string{
			"dni": m.DNI, "tipo": m.Tipo, "motivo": m.Motivo,
			"fecha": formatDate(m.Fecha), "documento": m.Documento,
		})
	}
	wb.Tables[SheetMeritos] = meritos

	var evaluations []models.Evaluation
	if err := db.Order("id").Find(&evaluations).Error; err != nil {
		return err
	}
	evaluaciones := &Table{Sheet: SheetEvaluaciones, Columns: manifest[SheetEvaluaciones]}
	for _, e := range evaluations {
		evaluaciones.Rows = append(evaluaciones.Rows, map[string]string{
			"dni": e.DNI, "periodo": e.Periodo, "puntaje": e.Puntaje,
			"calificacion": e.Calificacion, "fecha": formatDate(e.Fecha),
		})
	}
	wb.Tables[SheetEvaluaciones] = evaluaciones

	var settlements []models.Settlement
	if err := db.Order("id").Find(&settlements).Error; err != nil {
		return err
	}
	liquidaciones := &Table{Sheet: SheetLiquidaciones, Columns: manifest[SheetLiquidaciones]}
	for _, s := range settlements {
		liquidaciones.Rows = append(liquidaciones.Rows, map[string]string{
			"dni": s.DNI, "motivo": s.Motivo, "monto": s.Monto,
			"fecha_pago": formatDate(s.FechaPago), "observacion": s.Observacion,
		})
	}
	wb.Tables[SheetLiquidaciones] = liquidaciones

	return Save(wb, path)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func boolCell(b bool) string {
	if b {
		return "SI"
	}
	return "NO"
}

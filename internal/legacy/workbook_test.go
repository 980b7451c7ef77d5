package legacy

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sistema-gth/internal/database"
	"sistema-gth/internal/database/models"
)

func TestNormalizeDNI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12345678", "12345678"},
		{" 12345678 ", "12345678"},
		{"12345678.0", "12345678"},
		{" 12345678.0 ", "12345678"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeDNI(tt.in))
	}
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "dni", NormalizeHeader("  DNI "))
	assert.Equal(t, "nombres", NormalizeHeader("Apellidos y Nombres"))
	assert.Equal(t, "sueldo", NormalizeHeader("Remuneración Básica"))
	assert.Equal(t, "f_inicio", NormalizeHeader("FECHA INICIO"))
	assert.Equal(t, "motivo_cese", NormalizeHeader("Motivo de Cese"))
	assert.Equal(t, "alguna_columna", NormalizeHeader("Alguna Columna"))
}

// writeFixture builds a small legacy workbook on disk.
func writeFixture(t *testing.T, contractDate string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName(f.GetSheetName(0), SheetPersonal))

	path := filepath.Join(t.TempDir(), "DB_SISTEMA_GTH.xlsx")

	setRow := func(sheet string, row int, values ...string) {
		for i, v := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	setRow(SheetPersonal, 1, "DNI", "Apellidos y Nombres", "Telefono")
	setRow(SheetPersonal, 2, "12345678.0", "JUAN PEREZ", "999888777")
	setRow(SheetPersonal, 3, " 87654321 ", "MARIA QUISPE", "")

	_, err := f.NewSheet(SheetContratos)
	require.NoError(t, err)
	setRow(SheetContratos, 1, "DNI", "Cargo", "Remuneración Básica", "F_INICIO", "F_FIN", "Estado")
	setRow(SheetContratos, 2, "12345678", "Docente", "2500.50", "2022-01-01", contractDate, "ACTIVO")

	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadNormalizesHeadersAndDNI(t *testing.T) {
	path := writeFixture(t, "2022-12-31")

	wb, warnings, err := Load(path)
	require.NoError(t, err)

	personal := wb.Tables[SheetPersonal]
	require.Len(t, personal.Rows, 2)
	assert.Equal(t, "12345678", personal.Rows[0]["dni"])
	assert.Equal(t, "87654321", personal.Rows[1]["dni"])
	assert.Equal(t, "JUAN PEREZ", personal.Rows[0]["nombres"])

	contratos := wb.Tables[SheetContratos]
	require.Len(t, contratos.Rows, 1)
	assert.Equal(t, "2500.50", contratos.Rows[0]["sueldo"])

	// sheets absent from the fixture come back empty with a warning
	assert.NotNil(t, wb.Tables[SheetVacaciones])
	assert.Empty(t, wb.Tables[SheetVacaciones].Rows)

	var missingSheet, missingColumn bool
	for _, w := range warnings {
		if w.Sheet == SheetVacaciones {
			missingSheet = true
		}
		if w.Sheet == SheetPersonal {
			missingColumn = true
		}
	}
	assert.True(t, missingSheet, "expected a missing-sheet warning")
	assert.True(t, missingColumn, "expected a synthesized-column warning for PERSONAL")
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}

func TestRoundTripReproducesRows(t *testing.T) {
	path := writeFixture(t, "2022-12-31")

	wb, _, err := Load(path)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, Save(wb, out))

	wb2, _, err := Load(out)
	require.NoError(t, err)

	for _, sheet := range Sheets {
		require.Equal(t, len(wb.Tables[sheet].Rows), len(wb2.Tables[sheet].Rows), sheet)
		for i, row := range wb.Tables[sheet].Rows {
			for _, col := range wb.Tables[sheet].Columns {
				assert.Equal(t, row[col], wb2.Tables[sheet].Rows[i][col], "%s row %d col %s", sheet, i, col)
			}
		}
	}
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "gth.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestImportLoadsRecords(t *testing.T) {
	path := writeFixture(t, "2022-12-31")
	db := testDB(t)

	summary, err := Import(db, path)
	require.NoError(t, err)
	assert.Empty(t, summary.Errors)
	assert.Equal(t, 2, summary.Imported[SheetPersonal])
	assert.Equal(t, 1, summary.Imported[SheetContratos])

	var c models.Contract
	require.NoError(t, db.Where("dni = ?", "12345678").First(&c).Error)
	assert.Equal(t, "Docente", c.Cargo)
	assert.Equal(t, "2500.5", c.Sueldo)
	require.NotNil(t, c.FInicio)
	assert.Equal(t, "2022-01-01", c.FInicio.Format("2006-01-02"))
}

// writeSheets builds a workbook from explicit rows, first row per sheet
// being the header.
func writeSheets(t *testing.T, sheets []struct {
	name string
	rows [][]string
}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet.name))
		} else {
			_, err := f.NewSheet(sheet.name)
			require.NoError(t, err)
		}
		for rowIdx, row := range sheet.rows {
			for colIdx, v := range row {
				cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(sheet.name, cell, v))
			}
		}
	}

	path := filepath.Join(t.TempDir(), "DB_SISTEMA_GTH.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestImportRejectsContractWithoutStartDate(t *testing.T) {
	// The CONTRATOS sheet has no F_INICIO column at all; Load synthesizes
	// it empty. The rows must come back as row errors while every other
	// sheet still imports.
	path := writeSheets(t, []struct {
		name string
		rows [][]string
	}{
		{SheetPersonal, [][]string{
			{"DNI", "Apellidos y Nombres"},
			{"12345678", "JUAN PEREZ"},
		}},
		{SheetContratos, [][]string{
			{"DNI", "Cargo", "Sueldo"},
			{"12345678", "Docente", "2500"},
		}},
	})
	db := testDB(t)

	summary, err := Import(db, path)
	require.NoError(t, err)

	require.NotEmpty(t, summary.Errors)
	assert.Equal(t, SheetContratos, summary.Errors[0].Sheet)
	assert.Equal(t, "f_inicio", summary.Errors[0].Column)

	assert.Equal(t, 1, summary.Imported[SheetPersonal])
	assert.Equal(t, 0, summary.Imported[SheetContratos])
	var count int64
	db.Model(&models.Contract{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestImportNormalizesMotivoCese(t *testing.T) {
	path := writeSheets(t, []struct {
		name string
		rows [][]string
	}{
		{SheetContratos, [][]string{
			{"DNI", "Cargo", "Sueldo", "F_INICIO", "Estado", "Motivo de Cese"},
			{"11111111", "Docente", "2500", "2022-01-01", "CESADO", "Renuncia"},
			{"22222222", "Docente", "2500", "2022-01-01", "TERMINADO", "Se fue a otro sitio"},
			{"33333333", "Docente", "2500", "2022-01-01", "ACTIVO", "Renuncia"},
		}},
	})
	db := testDB(t)

	summary, err := Import(db, path)
	require.NoError(t, err)
	assert.Empty(t, summary.Errors)
	assert.Equal(t, 3, summary.Imported[SheetContratos])

	byDNI := func(dni string) models.Contract {
		var c models.Contract
		require.NoError(t, db.Where("dni = ?", dni).First(&c).Error)
		return c
	}

	kept := byDNI("11111111")
	assert.Equal(t, models.ContractCesado, kept.Estado)
	assert.Equal(t, "Renuncia", kept.MotivoCese)

	mapped := byDNI("22222222")
	assert.Equal(t, models.ContractCesado, mapped.Estado)
	assert.Equal(t, "Otros", mapped.MotivoCese)

	dropped := byDNI("33333333")
	assert.Equal(t, models.ContractActivo, dropped.Estado)
	assert.Empty(t, dropped.MotivoCese)

	var mappedWarn, droppedWarn bool
	for _, w := range summary.Warnings {
		if w.Sheet != SheetContratos {
			continue
		}
		if strings.Contains(w.Message, "mapped to Otros") {
			mappedWarn = true
		}
		if strings.Contains(w.Message, "dropped") {
			droppedWarn = true
		}
	}
	assert.True(t, mappedWarn, "expected a mapped-motivo warning")
	assert.True(t, droppedWarn, "expected a dropped-motivo warning")
}

func TestImportRejectsMalformedDate(t *testing.T) {
	path := writeFixture(t, "no es fecha")
	db := testDB(t)

	summary, err := Import(db, path)
	require.NoError(t, err)

	require.NotEmpty(t, summary.Errors)
	assert.Equal(t, SheetContratos, summary.Errors[0].Sheet)
	assert.Equal(t, "f_fin", summary.Errors[0].Column)

	// the bad row is skipped, not silently defaulted to today
	assert.Equal(t, 0, summary.Imported[SheetContratos])
	var count int64
	db.Model(&models.Contract{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

package certificate

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sistema-gth/internal/database/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestBuildLinesOrdersAndFormats(t *testing.T) {
	contracts := []models.Contract{
		{Cargo: "Coordinador", FInicio: datePtr(2023, 1, 1), FFin: datePtr(2023, 6, 30)},
		{Cargo: "Docente", FInicio: datePtr(2022, 1, 1), FFin: datePtr(2022, 12, 31)},
	}

	lines := BuildLines(contracts, false)
	require.Len(t, lines, 2)

	assert.Equal(t, "Docente", lines[0].Cargo)
	assert.Equal(t, "01/01/2022", FormatDate(lines[0].FInicio))
	assert.Equal(t, "31/12/2022", FormatDate(*lines[0].FFin))

	assert.Equal(t, "Coordinador", lines[1].Cargo)
	assert.Equal(t, "01/01/2023", FormatDate(lines[1].FInicio))
	assert.Equal(t, "30/06/2023", FormatDate(*lines[1].FFin))
}

func TestBuildLinesConsolidatesBackToBack(t *testing.T) {
	contracts := []models.Contract{
		{Cargo: "Docente", FInicio: datePtr(2022, 1, 1), FFin: datePtr(2022, 12, 31)},
		{Cargo: "Coordinador", FInicio: datePtr(2023, 1, 1), FFin: datePtr(2023, 6, 30)},
	}

	lines := BuildLines(contracts, true)
	require.Len(t, lines, 1)
	assert.Equal(t, "Coordinador", lines[0].Cargo)
	assert.Equal(t, "01/01/2022", FormatDate(lines[0].FInicio))
	assert.Equal(t, "30/06/2023", FormatDate(*lines[0].FFin))
}

func TestBuildLinesKeepsRealGaps(t *testing.T) {
	contracts := []models.Contract{
		{Cargo: "Docente", FInicio: datePtr(2022, 1, 1), FFin: datePtr(2022, 6, 30)},
		{Cargo: "Docente", FInicio: datePtr(2022, 9, 1), FFin: datePtr(2022, 12, 31)},
	}
	lines := BuildLines(contracts, true)
	assert.Len(t, lines, 2)
}

func TestBuildLinesSkipsRowsWithoutStartDate(t *testing.T) {
	contracts := []models.Contract{
		{Cargo: "Docente"},
		{Cargo: "Coordinador", FInicio: datePtr(2023, 1, 1)},
	}
	lines := BuildLines(contracts, false)
	require.Len(t, lines, 1)
	assert.Equal(t, "Coordinador", lines[0].Cargo)
}

func TestFormatLongDate(t *testing.T) {
	assert.Equal(t, "29 de agosto de 2026", FormatLongDate(date(2026, 8, 29)))
	assert.Equal(t, "1 de enero de 2023", FormatLongDate(date(2023, 1, 1)))
}

func TestRenderProducesPDF(t *testing.T) {
	data := Data{
		Nombres: "JUAN PEREZ",
		DNI:     "12345678",
		Lines: BuildLines([]models.Contract{
			{Cargo: "Docente", FInicio: datePtr(2022, 1, 1), FFin: datePtr(2022, 12, 31)},
			{Cargo: "Coordinador", FInicio: datePtr(2023, 1, 1), FFin: datePtr(2023, 6, 30)},
		}, false),
		Office:      "Oficina de Gestión de Talento Humano",
		City:        "Lima",
		SignerName:  "MG. ARTURO J. GALINDO MARTINEZ",
		SignerTitle: "JEFE DE GESTIÓN DE TALENTO HUMANO",
		IssuedAt:    date(2026, 8, 29),
	}

	var buf bytes.Buffer
	require.NoError(t, Render(data, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestRenderOpenEndedContract(t *testing.T) {
	data := Data{
		Nombres:     "MARIA QUISPE",
		DNI:         "87654321",
		Lines:       BuildLines([]models.Contract{{Cargo: "Asistente", FInicio: datePtr(2024, 3, 1)}}, false),
		Office:      "Oficina de Gestión de Talento Humano",
		City:        "Lima",
		SignerName:  "MG. ARTURO J. GALINDO MARTINEZ",
		SignerTitle: "JEFE DE GESTIÓN DE TALENTO HUMANO",
		IssuedAt:    date(2026, 8, 29),
	}

	var buf bytes.Buffer
	require.NoError(t, Render(data, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

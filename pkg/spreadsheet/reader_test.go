package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadRowsCSV(t *testing.T) {
	input := "Nombre,Curso\nAna Pérez,601\nPedro Díaz,902\n"

	rows, err := ReadRows("roster.csv", strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Nombre", "Curso"}, rows[0])
	assert.Equal(t, []string{"Ana Pérez", "601"}, rows[1])
}

func TestReadRowsCSVRaggedRows(t *testing.T) {
	input := "Ana Pérez,601\nPedro Díaz\n"

	rows, err := ReadRows("ROSTER.CSV", strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Pedro Díaz"}, rows[1])
}

func TestReadRowsWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Nombre", "Curso"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Ana Pérez", "601"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := ReadRows("roster.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Ana Pérez", "601"}, rows[1])
}

func TestReadRowsBadWorkbook(t *testing.T) {
	_, err := ReadRows("roster.xlsx", strings.NewReader("not a workbook"))
	require.Error(t, err)
}

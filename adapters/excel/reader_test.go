package excel

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"fleetops/domain/core"
	"fleetops/domain/firstmile"
	"fleetops/internal"
	"fleetops/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestReader() *DataReader {
	return NewDataReader(DefaultExcelConfig(), internal.NewNopLogger())
}

func workbook(t *testing.T, sheet string, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &values))
	}
	buf := new(bytes.Buffer)
	_, err := f.WriteTo(buf)
	require.NoError(t, err)
	return buf
}

func TestReadExcelKeepsCellTypes(t *testing.T) {
	src := workbook(t, "Sheet1", [][]interface{}{
		{"Date", "Source Hub", "Destination", "Time", "Driver Phone"},
		{time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC), "HUB01", "SOC EAST", 0.625, "0812345678"},
	})

	data, err := newTestReader().Read("tasks.xlsx", src)
	require.NoError(t, err)

	assert.Equal(t, "tasks.xlsx", data.Filename)
	assert.Equal(t, []string{"Date", "Source Hub", "Destination", "Time", "Driver Phone"}, data.Header())
	require.Len(t, data.DataRows(), 1)

	row := data.DataRows()[0]
	serial, ok := row[0].(float64)
	require.True(t, ok, "date cell should be a numeric serial, got %T", row[0])
	assert.Equal(t, float64(46058), serial)
	assert.Equal(t, "HUB01", row[1])
	assert.Equal(t, 0.625, row[3])
	assert.Equal(t, "0812345678", row[4], "text phone keeps its leading zero")
}

func TestReadExcelPrefersConfiguredSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "Notes"))
	_, err := f.NewSheet("Import")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Notes", "A1", &[]interface{}{"ignore me"}))
	require.NoError(t, f.SetSheetRow("Import", "A1", &[]interface{}{"Source Hub", "Destination"}))
	require.NoError(t, f.SetSheetRow("Import", "A2", &[]interface{}{"HUB01", "SOC-N"}))
	buf := new(bytes.Buffer)
	_, err = f.WriteTo(buf)
	require.NoError(t, err)

	config := DefaultExcelConfig()
	config.SheetName = "Import"
	data, err := NewDataReader(config, internal.NewNopLogger()).Read("tasks.xlsx", buf)
	require.NoError(t, err)
	assert.Equal(t, "Import", data.SheetName)
	assert.Equal(t, firstmile.RawRow{"HUB01", "SOC-N"}, data.DataRows()[0])
}

func TestReadExcelFallsBackToFirstSheet(t *testing.T) {
	src := workbook(t, "งาน", [][]interface{}{
		{"Source Hub"},
		{"HUB01"},
	})

	data, err := newTestReader().Read("tasks.xlsx", src)
	require.NoError(t, err)
	assert.Equal(t, "งาน", data.SheetName)
}

func TestReadCSV(t *testing.T) {
	src := strings.NewReader("\ufeffDate,Source Hub,Destination\n5-Feb-2026,HUB01,SOC EAST\n,,\nshort\n")

	data, err := newTestReader().Read("tasks.CSV", src)
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Source Hub", "Destination"}, data.Header())
	rows := data.DataRows()
	require.Len(t, rows, 3)
	assert.Equal(t, firstmile.RawRow{"5-Feb-2026", "HUB01", "SOC EAST"}, rows[0])
	assert.Equal(t, firstmile.RawRow{nil, nil, nil}, rows[1])
	assert.Equal(t, firstmile.RawRow{"short"}, rows[2])
}

func TestReadRejectsNonSpreadsheet(t *testing.T) {
	_, err := newTestReader().Read("tasks.xlsx", strings.NewReader("this is not a zip archive"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeParseFailed, errors.GetCode(err))
}

func TestReadRejectsHeaderOnly(t *testing.T) {
	_, err := newTestReader().Read("tasks.csv", strings.NewReader("Date,Source Hub\n"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeParseFailed, errors.GetCode(err))
	assert.ErrorIs(t, err, core.ErrNoDataRows)

	_, err = newTestReader().Read("tasks.csv", strings.NewReader(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrEmptyFile)
}

func TestReadEnforcesMaxRows(t *testing.T) {
	config := DefaultExcelConfig()
	config.MaxRows = 1
	_, err := NewDataReader(config, internal.NewNopLogger()).Read("tasks.csv", strings.NewReader("h\na\nb\n"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeParseFailed, errors.GetCode(err))
}

func TestReadFileMissing(t *testing.T) {
	_, err := newTestReader().ReadFile("/nonexistent/tasks.xlsx")
	require.Error(t, err)
	assert.Equal(t, errors.CodeParseFailed, errors.GetCode(err))
}

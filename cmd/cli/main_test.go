package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"fleetops/adapters/excel"
	"fleetops/domain/core"
	"fleetops/domain/firstmile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const reviewCSV = `Date,Source Hub,Destination,Time
2026-02-05,HUB01,SOC EAST,15:00
2026-02-05,HUB02,,16:00
`

func TestTemplateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.xlsx")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"template", path})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(excel.TemplateSheet)
	require.NoError(t, err)
	assert.Equal(t, excel.TemplateHeaders, rows[0])
}

func TestTemplateCommandRequiresXLSX(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"template", filepath.Join(t.TempDir(), "template.csv")})
	cmd.SetOut(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}

func TestImportDryRun(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	path := filepath.Join(t.TempDir(), "tasks.csv")
	require.NoError(t, os.WriteFile(path, []byte(reviewCSV), 0o644))

	var out, errOut bytes.Buffer
	err := runImport(context.Background(), &out, &errOut, path, true, false)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Rows: 2  Valid: 1  Invalid: 1")
	assert.Contains(t, out.String(), "HUB02")
	assert.NotContains(t, out.String(), "HUB01")
	assert.Contains(t, out.String(), "Dry run")
	assert.Empty(t, errOut.String())
}

func TestImportUnreadableFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	path := filepath.Join(t.TempDir(), "tasks.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0o644))

	var out, errOut bytes.Buffer
	err := runImport(context.Background(), &out, &errOut, path, true, false)

	require.Error(t, err)
	assert.Contains(t, errOut.String(), parseFailedMessage)
}

func TestImportRequiresDatabaseWhenSaving(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	path := filepath.Join(t.TempDir(), "tasks.csv")
	require.NoError(t, os.WriteFile(path, []byte(reviewCSV), 0o644))

	var out, errOut bytes.Buffer
	err := runImport(context.Background(), &out, &errOut, path, false, false)

	require.Error(t, err)
	assert.Contains(t, errOut.String(), "Invalid configuration")
}

func TestBuildTaskFilter(t *testing.T) {
	filter, err := buildTaskFilter("SOC-N", "", "Pending", "2026-02-01", "2026-02-28", 50)
	require.NoError(t, err)
	assert.Equal(t, firstmile.TaskFilter{
		Destination: "SOC-N",
		Status:      firstmile.StatusPending,
		From:        core.NewDate(2026, 2, 1),
		To:          core.NewDate(2026, 2, 28),
		Limit:       50,
	}, filter)

	_, err = buildTaskFilter("", "", "", "02/01/2026", "", 10)
	assert.Error(t, err)
	_, err = buildTaskFilter("", "", "", "", "", -1)
	assert.Error(t, err)
}

func TestMissingFields(t *testing.T) {
	missing := missingFields([]firstmile.Field{firstmile.FieldDate, firstmile.FieldSourceHub})
	assert.Len(t, missing, len(firstmile.Fields)-2)
	assert.NotContains(t, missing, firstmile.FieldDate)
}

func TestSampleThenDryRunImport(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	path := filepath.Join(t.TempDir(), "sample.xlsx")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"sample", path, "--rows", "40", "--invalid-rate", "0"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Wrote 40 rows (40 valid, 0 invalid)")

	out.Reset()
	var errOut bytes.Buffer
	require.NoError(t, runImport(context.Background(), &out, &errOut, path, true, false))
	assert.Contains(t, out.String(), "Rows: 40  Valid: 40  Invalid: 0")
}

func TestSampleRejectsBadFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.xlsx")

	for _, args := range [][]string{
		{"sample", path, "--rows", "0"},
		{"sample", path, "--invalid-rate", "1.5"},
		{"sample", filepath.Join(t.TempDir(), "sample.csv")},
	} {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs(args)
		assert.Error(t, cmd.Execute(), "%v", args)
	}
}

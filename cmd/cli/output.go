package main

import (
	"fmt"
	"io"
	"strconv"

	"fleetops/app"
	"fleetops/domain/firstmile"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB74D"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true)
)

var reviewHeaders = []string{
	"Row", "Date", "Source Hub", "Destination", "Time", "Truck", "Shipment", "Plate", "Driver", "Phone", "Status",
}

var taskHeaders = []string{
	"Date", "Time", "Source Hub", "Destination", "Truck", "Shipment", "Plate", "Driver", "Status",
}

// reportError prints the operator-facing message and returns err so the
// command exits non-zero
func reportError(w io.Writer, message string, err error) error {
	fmt.Fprintln(w, errorStyle.Render("✗ "+message))
	fmt.Fprintln(w, mutedStyle.Render("Details: "+err.Error()))
	return err
}

func printParseResult(w io.Writer, parsed *app.ParseResult, showAll bool) {
	summary := parsed.Summary

	fmt.Fprintln(w, headingStyle.Render("📊 "+parsed.Batch.Filename))
	fmt.Fprintf(w, "Rows: %d  Valid: %d  Invalid: %d\n", summary.Total, summary.Valid, summary.Invalid)
	if summary.DateFallbacks > 0 {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%d rows had unreadable dates and were given today's date", summary.DateFallbacks)))
	}
	if summary.UnknownDestinations > 0 {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%d rows have a destination outside SOC-W/SOC-N/SOC-E", summary.UnknownDestinations)))
	}
	if missing := missingFields(parsed.BoundFields); len(missing) > 0 {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("No column found for: %v", missing)))
	}

	rows := make([][]string, 0, len(parsed.Batch.Tasks))
	for _, task := range parsed.Batch.Tasks {
		if !showAll && task.Valid {
			continue
		}
		rows = append(rows, reviewRow(task))
	}
	if len(rows) == 0 {
		return
	}

	if !showAll {
		fmt.Fprintln(w, headingStyle.Render("Invalid rows (will not be saved)"))
	}
	fmt.Fprintln(w, table.New().
		Border(lipgloss.NormalBorder()).
		Headers(reviewHeaders...).
		Rows(rows...).
		String())
}

func reviewRow(task firstmile.NormalizedTask) []string {
	status := "ok"
	if !task.Valid {
		status = "invalid"
	}
	return []string{
		strconv.Itoa(task.RowNumber),
		task.Date.String(),
		task.SourceHub,
		task.Destination,
		task.Time,
		task.PlateType,
		task.ShipmentID,
		task.LicensePlate,
		task.DriverName,
		task.DriverPhone,
		status,
	}
}

func missingFields(bound []firstmile.Field) []firstmile.Field {
	seen := make(map[firstmile.Field]bool, len(bound))
	for _, field := range bound {
		seen[field] = true
	}
	var missing []firstmile.Field
	for _, field := range firstmile.Fields {
		if !seen[field] {
			missing = append(missing, field)
		}
	}
	return missing
}

func printCommitResult(w io.Writer, result *app.CommitResult) {
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("✓ Saved %d tasks in batch %s", result.TasksCommitted, result.BatchID)))
	if result.InvalidSkipped > 0 {
		fmt.Fprintf(w, "%d invalid rows were skipped\n", result.InvalidSkipped)
	}
}

func printTasks(w io.Writer, tasks []firstmile.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No tasks found."))
		return
	}

	rows := make([][]string, len(tasks))
	for i, task := range tasks {
		rows[i] = []string{
			task.Date.String(),
			task.Time,
			task.SourceHub,
			task.Destination,
			task.PlateType,
			task.ShipmentID,
			task.LicensePlate,
			task.DriverName,
			string(task.Status),
		}
	}

	fmt.Fprintln(w, table.New().
		Border(lipgloss.NormalBorder()).
		Headers(taskHeaders...).
		Rows(rows...).
		String())
	fmt.Fprintf(w, "%d tasks\n", len(tasks))
}

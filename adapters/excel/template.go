package excel

import (
	"fmt"
	"io"

	"fleetops/domain/firstmile"

	"github.com/xuri/excelize/v2"
)

const (
	TemplateSheet = "Tasks"
	LegendSheet   = "Destinations"
)

// TemplateHeaders is the header row offered to operators for download
var TemplateHeaders = []string{
	"Date",
	"Source Hub",
	"Destination",
	"Time",
	"Truck Type",
	"Shipment ID",
	"License Plate",
	"Driver Name",
	"Driver Phone",
}

// WriteTemplate writes the first-mile import template workbook to w: a
// header-only task sheet plus a legend of destination codes.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TemplateSheet); err != nil {
		return fmt.Errorf("failed to rename template sheet: %w", err)
	}

	header := make([]interface{}, len(TemplateHeaders))
	for i, h := range TemplateHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(TemplateSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write template header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(TemplateHeaders))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(TemplateSheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("failed to style template header: %w", err)
	}
	if err := f.SetColWidth(TemplateSheet, "A", lastCol, 16); err != nil {
		return fmt.Errorf("failed to size template columns: %w", err)
	}

	if _, err := f.NewSheet(LegendSheet); err != nil {
		return fmt.Errorf("failed to add legend sheet: %w", err)
	}
	if err := f.SetSheetRow(LegendSheet, "A1", &[]interface{}{"Code", "Label"}); err != nil {
		return err
	}
	for i, dest := range firstmile.Destinations {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(LegendSheet, cell, &[]interface{}{dest.Code, dest.Label}); err != nil {
			return fmt.Errorf("failed to write legend row: %w", err)
		}
	}
	if err := f.SetCellStyle(LegendSheet, "A1", "B1", bold); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}
	return nil
}

package testkit

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"fleetops/adapters/excel"

	"github.com/xuri/excelize/v2"
)

// TaskGeneratorConfig configures the first-mile sheet generator
type TaskGeneratorConfig struct {
	Rows        int       `json:"rows"`
	InvalidRate float64   `json:"invalid_rate"` // share of rows missing a hub or destination
	HubCount    int       `json:"hub_count"`
	StartDate   time.Time `json:"start_date"`
	Days        int       `json:"days"`
	Seed        int64     `json:"seed"`
}

// DefaultTaskGeneratorConfig returns sensible defaults for sheet generation
func DefaultTaskGeneratorConfig() TaskGeneratorConfig {
	return TaskGeneratorConfig{
		Rows:        1200,
		InvalidRate: 0.05,
		HubCount:    12,
		StartDate:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Days:        14,
		Seed:        42,
	}
}

// GeneratedSheet is a header row plus data rows, with the number of rows
// that should normalize as valid
type GeneratedSheet struct {
	Rows    [][]interface{}
	Valid   int
	Invalid int
}

// DataRows returns the rows after the header
func (s *GeneratedSheet) DataRows() [][]interface{} {
	return s.Rows[1:]
}

// TaskDataGenerator produces realistic, loosely formatted first-mile sheets
// the way operators fill them in
type TaskDataGenerator struct {
	config TaskGeneratorConfig
	rng    *rand.Rand
}

// NewTaskDataGenerator creates a generator; equal seeds give equal sheets
func NewTaskDataGenerator(config TaskGeneratorConfig) *TaskDataGenerator {
	if config.HubCount <= 0 {
		config.HubCount = 1
	}
	if config.Days <= 0 {
		config.Days = 1
	}
	return &TaskDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// destinationSpellings are the ways operators write each SOC. The last
// entries map to no known code and stay as custom destinations.
var destinationSpellings = []string{
	"SOC-W", "SOC West", "soc w", "West", "ปลายทาง ตะวันตก",
	"SOC-N", "SOC North", "socn", "North gate", "เหนือ",
	"SOC-E", "SOC EAST", "soc-e", "East", "ตะวันออก",
	"Central DC",
}

var driverNames = []string{"Somchai", "Suda", "Anan", "Malee", "Prasert", "Nok", "Wichai", "Ploy"}

// Generate builds the sheet; the header row is the import template's
func (g *TaskDataGenerator) Generate() *GeneratedSheet {
	header := make([]interface{}, len(excel.TemplateHeaders))
	for i, h := range excel.TemplateHeaders {
		header[i] = h
	}

	sheet := &GeneratedSheet{Rows: make([][]interface{}, 0, g.config.Rows+1)}
	sheet.Rows = append(sheet.Rows, header)

	for i := 0; i < g.config.Rows; i++ {
		invalid := g.rng.Float64() < g.config.InvalidRate
		sheet.Rows = append(sheet.Rows, g.row(i, invalid))
		if invalid {
			sheet.Invalid++
		} else {
			sheet.Valid++
		}
	}
	return sheet
}

func (g *TaskDataGenerator) row(i int, invalid bool) []interface{} {
	date := g.config.StartDate.AddDate(0, 0, g.rng.Intn(g.config.Days))
	hub := fmt.Sprintf("HUB%02d", g.rng.Intn(g.config.HubCount)+1)
	destination := destinationSpellings[g.rng.Intn(len(destinationSpellings))]

	if invalid {
		if g.rng.Intn(2) == 0 {
			hub = ""
		} else {
			destination = ""
		}
	}

	return []interface{}{
		date,
		hub,
		destination,
		fmt.Sprintf("%02d:%02d", 6+g.rng.Intn(14), 15*g.rng.Intn(4)),
		g.plateType(),
		fmt.Sprintf("SHP%06d", i+1),
		fmt.Sprintf("%d%s-%04d", 1+g.rng.Intn(9), "กข", g.rng.Intn(10000)),
		driverNames[g.rng.Intn(len(driverNames))],
		fmt.Sprintf("08%08d", g.rng.Intn(100000000)),
	}
}

func (g *TaskDataGenerator) plateType() string {
	types := []string{"", "4W", "4WJ", "6W", "10W"}
	weights := []float64{0.2, 0.4, 0.15, 0.15, 0.1}

	r := g.rng.Float64()
	cumulative := 0.0
	for i, weight := range weights {
		cumulative += weight
		if r <= cumulative {
			return types[i]
		}
	}
	return types[0]
}

// WriteWorkbook writes rows to w as an xlsx workbook with a single sheet.
// Strings are written as text cells so phone numbers keep leading zeros.
func WriteWorkbook(w io.Writer, sheet string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "" && sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	} else {
		sheet = "Sheet1"
	}

	stream, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return err
	}

	for i, row := range rows {
		values := make([]interface{}, len(row))
		for j, value := range row {
			if t, ok := value.(time.Time); ok {
				values[j] = excelize.Cell{StyleID: dateStyle, Value: t}
				continue
			}
			values[j] = value
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := stream.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	if err := stream.Flush(); err != nil {
		return fmt.Errorf("failed to flush workbook: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fleetops/domain/core"
	"fleetops/domain/firstmile"
	"fleetops/internal"
	"fleetops/internal/errors"

	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

// DataReader reads Excel and CSV files into raw rows
type DataReader struct {
	config ExcelConfig
	logger *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(config ExcelConfig, logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{config: config, logger: logger}
}

// ReadFile opens path and reads it as a spreadsheet
func (r *DataReader) ReadFile(path string) (*SheetData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.ParseFailed(filepath.Base(path), err)
	}
	defer file.Close()

	return r.Read(filepath.Base(path), file)
}

// Read reads src as a spreadsheet. The format is chosen by filename
// extension: .csv is read as CSV, everything else as an xlsx workbook.
// Any failure is a PARSE_FAILED error and no rows are returned.
func (r *DataReader) Read(filename string, src io.Reader) (*SheetData, error) {
	start := time.Now()

	var (
		data *SheetData
		err  error
	)
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		data, err = r.readCSV(src)
	} else {
		data, err = r.readExcel(src)
	}
	if err != nil {
		r.logger.Warn("[DataReader] Failed to read %s: %v", filename, err)
		return nil, errors.ParseFailed(filename, err)
	}

	if len(data.Rows) == 0 {
		return nil, errors.ParseFailed(filename, core.ErrEmptyFile)
	}
	if len(data.Rows) < 2 {
		return nil, errors.ParseFailed(filename, core.ErrNoDataRows)
	}
	if r.config.MaxRows > 0 && len(data.Rows)-1 > r.config.MaxRows {
		return nil, errors.ParseFailed(filename,
			fmt.Errorf("file has %d data rows, limit is %d", len(data.Rows)-1, r.config.MaxRows))
	}

	data.Filename = filename
	r.logger.Debug("[DataReader] Read %s sheet %q (%d rows) in %.2fms",
		filename, data.SheetName, len(data.Rows), float64(time.Since(start).Nanoseconds())/1e6)
	return data, nil
}

// readExcel reads raw cell values so date cells arrive as serials and
// time cells as day fractions. Numeric cells become float64; cells typed
// as text stay strings, which keeps leading zeros on phone numbers.
func (r *DataReader) readExcel(src io.Reader) (*SheetData, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel workbook: %w", err)
	}
	defer f.Close()

	sheet, err := r.pickSheet(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	out := make([]firstmile.RawRow, len(rows))
	for i, row := range rows {
		raw := make(firstmile.RawRow, len(row))
		for j, value := range row {
			if value == "" {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			cellType, err := f.GetCellType(sheet, cellName)
			if err != nil {
				raw[j] = value
				continue
			}
			raw[j] = typedCell(value, cellType)
		}
		out[i] = raw
	}

	return &SheetData{SheetName: sheet, Rows: out}, nil
}

func (r *DataReader) pickSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if r.config.SheetName != "" {
		for _, name := range sheets {
			if name == r.config.SheetName {
				return name, nil
			}
		}
	}
	return sheets[0], nil
}

func typedCell(value string, cellType excelize.CellType) interface{} {
	switch cellType {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			return n
		}
		return value
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return t
		}
		return value
	default:
		return value
	}
}

// readCSV reads a ragged CSV; every non-empty cell is a string
func (r *DataReader) readCSV(src io.Reader) (*SheetData, error) {
	content, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	content = bytes.TrimPrefix(content, []byte(utf8BOM))

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	out := make([]firstmile.RawRow, len(records))
	for i, record := range records {
		raw := make(firstmile.RawRow, len(record))
		for j, value := range record {
			if value != "" {
				raw[j] = value
			}
		}
		out[i] = raw
	}

	return &SheetData{SheetName: "csv", Rows: out}, nil
}

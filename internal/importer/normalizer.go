package importer

import (
	"fleetops/adapters/coercer"
	"fleetops/domain/firstmile"
)

// firstDataRow is the 1-based spreadsheet row of the first data row
const firstDataRow = 2

// Summary counts the rows of one normalized batch
type Summary struct {
	Total               int `json:"total"`
	Valid               int `json:"valid"`
	Invalid             int `json:"invalid"`
	DateFallbacks       int `json:"date_fallbacks"`
	UnknownDestinations int `json:"unknown_destinations"`
}

// Normalizer turns raw rows into NormalizedTasks
type Normalizer struct {
	coercer          *coercer.TypeCoercer
	rules            []HeaderRule
	defaultPlateType string
}

// NewNormalizer creates a normalizer. An empty defaultPlateType means "4W".
func NewNormalizer(c *coercer.TypeCoercer, rules []HeaderRule, defaultPlateType string) *Normalizer {
	if rules == nil {
		rules = DefaultHeaderRules
	}
	if defaultPlateType == "" {
		defaultPlateType = "4W"
	}
	return &Normalizer{coercer: c, rules: rules, defaultPlateType: defaultPlateType}
}

// Normalize resolves the header row and normalizes every non-blank data
// row. Blank rows are dropped without being counted. Invalid rows stay in
// the result with Valid=false.
func (n *Normalizer) Normalize(header []string, rows []firstmile.RawRow) (firstmile.HeaderIndex, []firstmile.NormalizedTask, Summary) {
	index := ResolveHeaders(header, n.rules)

	tasks := make([]firstmile.NormalizedTask, 0, len(rows))
	var summary Summary
	for i, row := range rows {
		if n.isBlankRow(row) {
			continue
		}
		task, dateParsed := n.NormalizeRow(i+firstDataRow, row, index)
		tasks = append(tasks, task)

		summary.Total++
		if task.Valid {
			summary.Valid++
		} else {
			summary.Invalid++
		}
		if !dateParsed {
			summary.DateFallbacks++
		}
		if task.Destination != "" && !firstmile.IsKnownDestination(task.Destination) {
			summary.UnknownDestinations++
		}
	}
	return index, tasks, summary
}

// NormalizeRow builds one task. dateParsed is false when the date cell
// could not be read and the processing date was used instead.
func (n *Normalizer) NormalizeRow(rowNumber int, row firstmile.RawRow, index firstmile.HeaderIndex) (task firstmile.NormalizedTask, dateParsed bool) {
	text := func(field firstmile.Field) string {
		return n.coercer.CoerceString(index.Cell(row, field))
	}

	date, dateParsed := n.coercer.CoerceDate(index.Cell(row, firstmile.FieldDate))
	sourceHub := text(firstmile.FieldSourceHub)
	destination := firstmile.ResolveDestination(text(firstmile.FieldDestination))

	plateType := text(firstmile.FieldPlateType)
	if plateType == "" {
		plateType = n.defaultPlateType
	}

	return firstmile.NormalizedTask{
		RowNumber:    rowNumber,
		Date:         date,
		SourceHub:    sourceHub,
		Destination:  destination,
		Time:         n.coercer.CoerceTime(index.Cell(row, firstmile.FieldTime)),
		PlateType:    plateType,
		ShipmentID:   text(firstmile.FieldShipmentID),
		LicensePlate: text(firstmile.FieldLicensePlate),
		DriverName:   text(firstmile.FieldDriverName),
		DriverPhone:  text(firstmile.FieldDriverPhone),
		Valid:        destination != "" && sourceHub != "",
	}, dateParsed
}

func (n *Normalizer) isBlankRow(row firstmile.RawRow) bool {
	for _, cell := range row {
		if !n.coercer.IsBlank(cell) {
			return false
		}
	}
	return true
}

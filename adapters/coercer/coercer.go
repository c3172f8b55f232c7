package coercer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"fleetops/domain/core"

	"github.com/xuri/excelize/v2"
)

// lotusLeapDay is the first serial after Excel's phantom 1900-02-29.
// Serials at or below it decode through excelize's Julian path and do not
// round-trip through DateToSerial.
const lotusLeapDay = 61

const secondsPerDay = 24 * 60 * 60

var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// CoercionConfig defines how loose cell values become typed values
type CoercionConfig struct {
	DateLayouts []string       `json:"date_layouts"` // tried in order for textual dates
	Location    *time.Location `json:"-"`            // zone used for the "today" fallback
	Now         func() time.Time
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		DateLayouts: []string{
			time.RFC3339,
			"2006-01-02T15:04:05",
			"2006-01-02 15:04:05",
			"2006-01-02",
			"2006/1/2",
			"1/2/2006",
			"1/2/06",
			"2-Jan-2006",
			"2-Jan-06",
			"2 Jan 2006",
			"2 January 2006",
			"Jan 2, 2006",
			"January 2, 2006",
			"2.1.2006",
		},
		Location: time.Local,
		Now:      time.Now,
	}
}

// TypeCoercer handles deterministic coercion of spreadsheet cells
type TypeCoercer struct {
	config CoercionConfig
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if len(config.DateLayouts) == 0 {
		config.DateLayouts = DefaultCoercionConfig().DateLayouts
	}
	return &TypeCoercer{config: config}
}

// Today returns the processing date in the configured zone
func (c *TypeCoercer) Today() core.Date {
	return core.DateOf(c.config.Now().In(c.config.Location))
}

// CoerceDate converts a date cell to a calendar day. Numeric cells are
// spreadsheet date-serials; text is tried against the configured layouts.
// Anything unparseable (including blank) silently becomes today, and ok
// reports false so callers can count the fallback.
func (c *TypeCoercer) CoerceDate(cell interface{}) (date core.Date, ok bool) {
	switch v := cell.(type) {
	case float64:
		if d, err := SerialToDate(v); err == nil {
			return d, true
		}
	case int:
		if d, err := SerialToDate(float64(v)); err == nil {
			return d, true
		}
	case time.Time:
		return core.DateOf(v), true
	case string:
		if d, parsed := c.parseDateText(strings.TrimSpace(v)); parsed {
			return d, true
		}
	}
	return c.Today(), false
}

func (c *TypeCoercer) parseDateText(s string) (core.Date, bool) {
	if s == "" {
		return core.Date{}, false
	}
	for _, layout := range c.config.DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return core.DateOf(t), true
		}
	}
	// CSV exports sometimes carry the serial as text
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if d, err := SerialToDate(serial); err == nil {
			return d, true
		}
	}
	return core.Date{}, false
}

// SerialToDate decodes the integral part of a 1900-system date-serial
func SerialToDate(serial float64) (core.Date, error) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 1 {
		return core.Date{}, fmt.Errorf("invalid date serial %v", serial)
	}
	t, err := excelize.ExcelDateToTime(math.Floor(serial), false)
	if err != nil {
		return core.Date{}, err
	}
	return core.DateOf(t.UTC()), nil
}

// DateToSerial encodes a calendar day as a 1900-system date-serial
func DateToSerial(d core.Date) int {
	days := int((d.Time().Unix() - serialEpoch.Unix()) / secondsPerDay)
	if days < lotusLeapDay {
		// dates before 1900-03-01 sit one below the epoch offset
		days--
	}
	return days
}

// CoerceTime renders a time-of-day cell as HH:MM. Numeric cells are day
// fractions; text is kept as typed.
func (c *TypeCoercer) CoerceTime(cell interface{}) string {
	switch v := cell.(type) {
	case float64:
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return ""
		}
		_, frac := math.Modf(v)
		minutes := int(math.Round(frac * 24 * 60))
		if minutes == 24*60 {
			minutes = 0
		}
		return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
	case time.Time:
		return v.Format("15:04")
	default:
		return c.CoerceString(cell)
	}
}

// CoerceString converts any cell to trimmed text. Integral floats print
// without a decimal point.
func (c *TypeCoercer) CoerceString(cell interface{}) string {
	if cell == nil {
		return ""
	}
	switch v := cell.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(core.DateLayout)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// IsBlank reports whether a cell carries no value
func (c *TypeCoercer) IsBlank(cell interface{}) bool {
	if cell == nil {
		return true
	}
	if s, ok := cell.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

package importer

import (
	"strings"

	"fleetops/domain/firstmile"
)

// HeaderRule lists the lower-case substrings that identify a field's column
type HeaderRule struct {
	Field  firstmile.Field
	Tokens []string
}

// DefaultHeaderRules is declared in firstmile.Fields order; resolution
// depends on that order when two fields could claim the same column.
var DefaultHeaderRules = []HeaderRule{
	{Field: firstmile.FieldDate, Tokens: []string{"date", "วันที่"}},
	{Field: firstmile.FieldSourceHub, Tokens: []string{"source", "hub", "origin", "pickup", "ต้นทาง", "ฮับ"}},
	{Field: firstmile.FieldDestination, Tokens: []string{"destination", "soc", "dest", "ปลายทาง"}},
	{Field: firstmile.FieldTime, Tokens: []string{"time", "เวลา"}},
	{Field: firstmile.FieldPlateType, Tokens: []string{"truck type", "vehicle type", "plate type", "type", "ประเภท"}},
	{Field: firstmile.FieldShipmentID, Tokens: []string{"shipment", "tracking", "ship id", "เลขที่งาน"}},
	{Field: firstmile.FieldLicensePlate, Tokens: []string{"license", "plate", "ทะเบียน"}},
	{Field: firstmile.FieldDriverName, Tokens: []string{"driver name", "name", "ชื่อ"}},
	{Field: firstmile.FieldDriverPhone, Tokens: []string{"phone", "tel", "mobile", "เบอร์", "โทร"}},
}

// ResolveHeaders binds each rule's field to the first unclaimed column
// whose trimmed, lower-cased header contains any of the rule's tokens.
// Rules are applied in order, so an earlier field keeps a contested
// column and the later one looks further right. Fields with no match are
// left out of the index.
func ResolveHeaders(header []string, rules []HeaderRule) firstmile.HeaderIndex {
	normalized := make([]string, len(header))
	for i, cell := range header {
		normalized[i] = strings.ToLower(strings.TrimSpace(cell))
	}

	claimed := make([]bool, len(header))
	columns := make(map[firstmile.Field]int, len(rules))

	for _, rule := range rules {
		if _, done := columns[rule.Field]; done {
			continue
		}
		for col, text := range normalized {
			if claimed[col] || text == "" {
				continue
			}
			if containsAny(text, rule.Tokens) {
				columns[rule.Field] = col
				claimed[col] = true
				break
			}
		}
	}

	return firstmile.NewHeaderIndex(columns)
}

func containsAny(text string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(text, token) {
			return true
		}
	}
	return false
}

package excel

import "fleetops/domain/firstmile"

// SheetData is one worksheet read header-first: Rows[0] is the header row
type SheetData struct {
	Filename  string
	SheetName string
	Rows      []firstmile.RawRow
}

// Header returns the header row as text; non-string cells become empty
func (s *SheetData) Header() []string {
	if len(s.Rows) == 0 {
		return nil
	}
	header := make([]string, len(s.Rows[0]))
	for i, cell := range s.Rows[0] {
		if text, ok := cell.(string); ok {
			header[i] = text
		}
	}
	return header
}

// DataRows returns every row after the header
func (s *SheetData) DataRows() []firstmile.RawRow {
	if len(s.Rows) < 2 {
		return nil
	}
	return s.Rows[1:]
}

package excel

// ExcelConfig holds configuration for spreadsheet reading
type ExcelConfig struct {
	SheetName string `json:"sheet_name"` // preferred sheet; first sheet when absent
	MaxRows   int    `json:"max_rows"`   // 0 means unlimited
}

// DefaultExcelConfig returns sensible defaults for Excel processing
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		SheetName: TemplateSheet,
		MaxRows:   0,
	}
}

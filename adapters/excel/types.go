package excel

// RawRowData represents a row of raw spreadsheet data keyed by header
type RawRowData map[string]string

// ExcelData represents the complete sheet as read from disk
type ExcelData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
	Lines   []int        // 1-based source line of each data row
}

// HasColumn reports whether the header row contains name
func (d *ExcelData) HasColumn(name string) bool {
	for _, h := range d.Headers {
		if h == name {
			return true
		}
	}
	return false
}

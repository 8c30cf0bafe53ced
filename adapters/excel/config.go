package excel

// ExcelConfig holds configuration for the dataset source
type ExcelConfig struct {
	FilePath string `json:"file_path"`
	// Sheet is the worksheet to read; empty means the first sheet of the workbook.
	Sheet string `json:"sheet"`
}

// DefaultExcelConfig returns the defaults for a dataset path
func DefaultExcelConfig(path string) ExcelConfig {
	return ExcelConfig{FilePath: path}
}

package excel

// DefaultSheet is the sheet read when none is configured
const DefaultSheet = "Sheet1"

// ExcelConfig holds configuration for the spreadsheet data source
type ExcelConfig struct {
	FilePath string `json:"file_path"`
	Sheet    string `json:"sheet"`
}

// DefaultExcelConfig returns the fixed source the yield charts are drawn from
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		FilePath: "Mombasa_Week.xlsx",
		Sheet:    DefaultSheet,
	}
}

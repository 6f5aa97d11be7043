package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"yieldplot/domain/core"
	"yieldplot/domain/dataset"
	"yieldplot/internal"
	"yieldplot/ports"

	"github.com/xuri/excelize/v2"
)

var _ ports.DatasetLoaderPort = (*DataReader)(nil)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	sheet    string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader creates a reader for the configured file. The file type is
// taken from the extension; a CSV file has no sheets and ignores Sheet.
func NewDataReader(config ExcelConfig, logger *internal.Logger) *DataReader {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	sheet := config.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &DataReader{
		filePath: config.FilePath,
		sheet:    sheet,
		fileType: fileType,
		logger:   logger.Named("excel"),
	}
}

// Load reads the configured sheet into an immutable Dataset
func (r *DataReader) Load(ctx context.Context) (*dataset.Dataset, error) {
	data, err := r.ReadData(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]dataset.Row, len(data.Rows))
	for i, row := range data.Rows {
		rows[i] = dataset.Row(row)
	}
	return dataset.New(r.filePath, r.sheet, data.Headers, rows), nil
}

// ReadData reads data from Excel or CSV files into structured format
func (r *DataReader) ReadData(ctx context.Context) (*ExcelData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.logger.Debug("reading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", core.ErrFileNotFound, r.filePath)
		}
		return nil, fmt.Errorf("stat %s: %w", r.filePath, err)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	default:
		return r.readExcelData()
	}
}

// readExcelData reads raw cell values from the configured sheet. Raw values
// keep percentage-formatted cells numeric ("0.85" rather than "85%").
func (r *DataReader) readExcelData() (*ExcelData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, core.NewParseError(r.filePath, err.Error())
	}
	defer f.Close()
	r.logger.Debug("workbook opened in %.2fms", float64(time.Since(startTime).Nanoseconds())/1e6)

	idx, err := f.GetSheetIndex(r.sheet)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q in %s (have %v)", core.ErrSheetNotFound, r.sheet, r.filePath, f.GetSheetList())
	}

	readStart := time.Now()
	rows, err := f.GetRows(r.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, core.NewParseError(r.filePath, fmt.Sprintf("read %s: %v", r.sheet, err))
	}
	r.logger.Debug("%s read in %.2fms (%d rows)", r.sheet, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData() (*ExcelData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, core.NewParseError(r.filePath, err.Error())
	}

	return r.processRows(rows)
}

// processRows converts raw string rows into ExcelData format. The first row
// is the header; its names must be non-blank and unique.
func (r *DataReader) processRows(rows [][]string) (*ExcelData, error) {
	if len(rows) == 0 {
		return nil, core.NewParseError(r.filePath, "no header row")
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	seen := make(map[string]bool, len(headerRow))
	for i, header := range headerRow {
		name := strings.TrimSpace(header)
		if name == "" {
			return nil, core.NewParseError(r.filePath, fmt.Sprintf("blank header in column %d", i+1))
		}
		if seen[name] {
			return nil, core.NewParseError(r.filePath, fmt.Sprintf("duplicate header %q", name))
		}
		seen[name] = true
		headers[i] = name
	}
	if len(headers) == 0 {
		return nil, core.NewParseError(r.filePath, "no header row")
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rowData := make(RawRowData, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	r.logger.Info("loaded %s (%d columns, %d rows)", r.filePath, len(headers), len(dataRows))

	return &ExcelData{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}

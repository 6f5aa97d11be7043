package dataset

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"yieldplot/domain/core"
)

// Row holds the raw cell text of one spreadsheet row keyed by header name.
type Row map[string]string

// Dataset is an immutable table loaded from a single sheet.
type Dataset struct {
	Source string
	Sheet  string

	headers []string
	rows    []Row
}

// New copies headers and rows so later mutation by the caller has no effect.
func New(source, sheet string, headers []string, rows []Row) *Dataset {
	copied := make([]Row, len(rows))
	for i, row := range rows {
		r := make(Row, len(row))
		for k, v := range row {
			r[k] = v
		}
		copied[i] = r
	}
	return &Dataset{
		Source:  source,
		Sheet:   sheet,
		headers: slices.Clone(headers),
		rows:    copied,
	}
}

// Headers returns the column names in file order.
func (d *Dataset) Headers() []string {
	return slices.Clone(d.headers)
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// HasColumn reports whether the header row contains name.
func (d *Dataset) HasColumn(name string) bool {
	return slices.Contains(d.headers, name)
}

// missingMarkers are cell texts read as missing values, the same set
// spreadsheet-reading tools treat as NA by default. Matching is case-sensitive.
var missingMarkers = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {},
	"nan": {}, "null": {},
}

// IsMissing reports whether a cell holds no value: blank, or one of the
// usual NA markers.
func IsMissing(cell string) bool {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return true
	}
	_, ok := missingMarkers[cell]
	return ok
}

// Float64s returns the named column as numbers. Missing cells become NaN so
// that callers can drop incomplete observations; any other text that does not
// parse to a finite number is a schema error.
func (d *Dataset) Float64s(column string) ([]float64, error) {
	if !d.HasColumn(column) {
		return nil, core.NewColumnNotFoundError(column, d.headers)
	}

	values := make([]float64, len(d.rows))
	for i, row := range d.rows {
		cell := strings.TrimSpace(row[column])
		if IsMissing(cell) {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			// +2: one for the header row, one for 1-based sheet rows
			return nil, core.NewNonNumericError(column, i+2, cell)
		}
		values[i] = v
	}
	return values, nil
}

// Pairs returns the x and y columns with every row dropped where either value
// is missing.
func (d *Dataset) Pairs(xColumn, yColumn string) (xs, ys []float64, err error) {
	xAll, err := d.Float64s(xColumn)
	if err != nil {
		return nil, nil, err
	}
	yAll, err := d.Float64s(yColumn)
	if err != nil {
		return nil, nil, err
	}

	xs = make([]float64, 0, len(xAll))
	ys = make([]float64, 0, len(yAll))
	for i := range xAll {
		if math.IsNaN(xAll[i]) || math.IsNaN(yAll[i]) {
			continue
		}
		xs = append(xs, xAll[i])
		ys = append(ys, yAll[i])
	}
	return xs, ys, nil
}

package dataset

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Column headers required in the raw table, in any order.
var requiredColumns = []string{"Country", "Indicator", "Source", "Unit", "Frequency", "Time", "Amount"}

// LoadWorkbook reads raw observations from the named sheet of an Excel
// workbook. Rows that fail to parse a timestamp or an amount are retained
// with the corresponding field zeroed/nil; they are never dropped here.
func LoadWorkbook(path, sheet string) ([]Observation, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	return observationsFromRows(rows, filepath.Base(path))
}

// LoadCSV reads raw observations from a CSV export with the same schema as
// the workbook sheet.
func LoadCSV(path string) ([]Observation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV records: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("CSV file %s has no data rows", path)
	}

	return observationsFromRows(records, filepath.Base(path))
}

// observationsFromRows maps a header row plus data rows onto observations.
func observationsFromRows(rows [][]string, source string) ([]Observation, error) {
	index, err := columnIndex(rows[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	observations := make([]Observation, 0, len(rows)-1)
	for i, row := range rows[1:] {
		obs := Observation{
			RowID:     i,
			Country:   cell(row, index["Country"]),
			Indicator: cell(row, index["Indicator"]),
			Source:    cell(row, index["Source"]),
			Unit:      cell(row, index["Unit"]),
			Frequency: cell(row, index["Frequency"]),
			Amount:    cell(row, index["Amount"]),
		}

		rawTime := cell(row, index["Time"])
		if t, err := ParseTime(rawTime); err == nil {
			obs.Time = t
		} else if rawTime != "" {
			slog.Warn("unparseable timestamp retained as missing",
				"source", source,
				"line", i+2,
				"time", rawTime,
			)
		}

		observations = append(observations, obs)
	}

	return observations, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}
	return index, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ParseAmount converts a possibly string-formatted amount into a float.
// Thousands separators and stray annotations are stripped; only digits,
// a leading sign, and a decimal point survive. Returns nil when nothing
// numeric remains.
func ParseAmount(raw string) *float64 {
	cleanStr := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")

	var b strings.Builder
	for _, r := range cleanStr {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	value, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return nil
	}
	return &value
}

var timeFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
	"1/2/06",
	"Jan 2, 2006",
	"2006",
}

// ParseTime attempts the date layouts seen across the upstream exports.
func ParseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	// Excel serial dates arrive as plain numbers.
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", raw)
}

package worldbank

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

var cacheHeaders = []string{"country_code", "country_name", "year", "indicator_code", "indicator_name", "value"}

// WriteCache persists fetched data points as CSV so repeated runs can
// skip the network.
func WriteCache(path string, points []DataPoint) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(cacheHeaders); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	for _, p := range points {
		record := []string{
			p.CountryCode,
			p.CountryName,
			strconv.Itoa(p.Year),
			p.IndicatorCode,
			p.IndicatorName,
			strconv.FormatFloat(p.Value, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	return writer.Error()
}

// ReadCache loads previously cached data points.
func ReadCache(path string) ([]DataPoint, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cache file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read cache file: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	points := make([]DataPoint, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < len(cacheHeaders) {
			continue
		}
		year, err := strconv.Atoi(row[2])
		if err != nil {
			continue
		}
		value, err := strconv.ParseFloat(row[5], 64)
		if err != nil {
			continue
		}
		points = append(points, DataPoint{
			CountryCode:   row[0],
			CountryName:   row[1],
			Year:          year,
			IndicatorCode: row[3],
			IndicatorName: row[4],
			Value:         value,
		})
	}
	return points, nil
}

package anomaly

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"fiscalcli/internal/features"
)

// Metrics scanned for outliers.
const (
	MetricDebtPctGDP    = "debt_pct_gdp"
	MetricDeficitPctGDP = "deficit_pct_gdp"
)

// Severity buckets for presentation.
const (
	SeverityHigh   = "High"
	SeverityMedium = "Medium"
	SeverityLow    = "Low"
)

// Detection thresholds. The flag threshold is inclusive: a value exactly
// two standard deviations out is an anomaly.
const (
	flagThreshold   = 2.0
	highThreshold   = 3.0
	minObservations = 3
)

// Record is one flagged observation: a country-year metric value at least
// two standard deviations from that country's own historical mean.
type Record struct {
	Country  string
	Year     int
	Metric   string
	Value    float64
	ZScore   float64
	Severity string
}

// Detect scans each (country, metric) series with at least three
// observations and non-zero variance, computing population z-scores and
// flagging |z| >= 2. Output is sorted by metric, country, then year.
func Detect(ctx context.Context, rows []features.Row) []Record {
	var records []Record

	for _, metric := range []string{MetricDebtPctGDP, MetricDeficitPctGDP} {
		byCountry := make(map[string][]features.Row)
		var countries []string
		for _, row := range rows {
			if metricValue(row, metric) == nil {
				continue
			}
			if _, seen := byCountry[row.Country]; !seen {
				countries = append(countries, row.Country)
			}
			byCountry[row.Country] = append(byCountry[row.Country], row)
		}
		sort.Strings(countries)

		for _, country := range countries {
			group := byCountry[country]
			if len(group) < minObservations {
				continue
			}

			values := make([]float64, len(group))
			for i, row := range group {
				values[i] = *metricValue(row, metric)
			}
			mean, std := populationMoments(values)
			if std == 0 {
				continue
			}

			for i, row := range group {
				z := (values[i] - mean) / std
				if math.Abs(z) < flagThreshold {
					continue
				}
				records = append(records, Record{
					Country:  country,
					Year:     row.Year,
					Metric:   metric,
					Value:    values[i],
					ZScore:   z,
					Severity: severity(z),
				})
			}
		}
	}

	slog.Default().InfoContext(ctx, "anomaly scan completed",
		"rows", len(rows),
		"anomalies", len(records),
	)
	return records
}

func severity(z float64) string {
	switch {
	case math.Abs(z) >= highThreshold:
		return SeverityHigh
	case math.Abs(z) >= flagThreshold:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func metricValue(row features.Row, metric string) *float64 {
	switch metric {
	case MetricDebtPctGDP:
		return row.DebtPctGDP
	case MetricDeficitPctGDP:
		return row.DeficitPctGDP
	default:
		return nil
	}
}

// populationMoments returns mean and population (ddof=0) standard deviation.
func populationMoments(values []float64) (mean, std float64) {
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	ss := 0.0
	for _, v := range values {
		ss += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(ss / float64(len(values)))
}

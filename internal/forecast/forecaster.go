package forecast

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"fiscalcli/internal/dataset"
	"fiscalcli/internal/features"
)

// Horizon is the number of years forecast beyond the last observed year.
const Horizon = 3

// minHistory is the minimum yearly observations required to fit a series.
const minHistory = 6

// Metrics forecast per country.
var metrics = []string{"deficit_pct_gdp", "debt_pct_gdp"}

// Record is one forecast year for a (country, metric) series.
type Record struct {
	Country  string
	Metric   string
	Year     int
	Forecast float64
	LowerCI  float64
	UpperCI  float64
}

// Run fits an ARIMA(1,1,1) per focus-country metric series with enough
// history and forecasts three years ahead. Series fits are independent and
// run concurrently; a failed fit is logged and skipped so one bad series
// never aborts the batch. Output is sorted by country, metric, year.
func Run(ctx context.Context, rows []features.Row) []Record {
	logger := slog.Default()

	type job struct {
		country string
		metric  string
		years   []int
		values  []float64
	}
	var jobs []job

	for _, country := range dataset.FocusCountries {
		var subset []features.Row
		for _, row := range rows {
			if row.Country == country {
				subset = append(subset, row)
			}
		}
		sort.Slice(subset, func(i, j int) bool { return subset[i].Year < subset[j].Year })

		for _, metric := range metrics {
			var years []int
			var values []float64
			for _, row := range subset {
				v := metricValue(row, metric)
				if v == nil {
					continue
				}
				years = append(years, row.Year)
				values = append(values, *v)
			}
			if len(values) < minHistory {
				continue
			}
			jobs = append(jobs, job{country, metric, years, values})
		}
	}

	var mu sync.Mutex
	var records []Record

	g, gctx := errgroup.WithContext(ctx)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			model, err := fitARIMA(j.values)
			if err != nil {
				logger.WarnContext(gctx, "forecast fit failed",
					"country", j.country,
					"metric", j.metric,
					"error", err,
				)
				return nil
			}

			startYear := j.years[len(j.years)-1] + 1
			var fitted []Record
			for step, p := range model.Forecast(Horizon) {
				if math.IsNaN(p.Forecast) {
					logger.WarnContext(gctx, "forecast produced non-finite values",
						"country", j.country,
						"metric", j.metric,
					)
					return nil
				}
				fitted = append(fitted, Record{
					Country:  j.country,
					Metric:   j.metric,
					Year:     startYear + step,
					Forecast: p.Forecast,
					LowerCI:  p.Lower,
					UpperCI:  p.Upper,
				})
			}

			mu.Lock()
			records = append(records, fitted...)
			mu.Unlock()
			return nil
		})
	}
	// Worker funcs only ever return nil; Wait is for completion.
	_ = g.Wait()

	sort.Slice(records, func(i, j int) bool {
		if records[i].Country != records[j].Country {
			return records[i].Country < records[j].Country
		}
		if records[i].Metric != records[j].Metric {
			return records[i].Metric < records[j].Metric
		}
		return records[i].Year < records[j].Year
	})

	logger.InfoContext(ctx, "forecasting completed",
		"series_fitted", len(jobs),
		"records", len(records),
	)
	return records
}

func metricValue(row features.Row, metric string) *float64 {
	switch metric {
	case "debt_pct_gdp":
		return row.DebtPctGDP
	case "deficit_pct_gdp":
		return row.DeficitPctGDP
	default:
		return nil
	}
}

package drivers

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

// PooledLabel names the all-countries fit.
const PooledLabel = "Pan-Africa"

// minCountryObservations is the floor for fitting an individual country.
const minCountryObservations = 5

// Coefficient names, in design-matrix column order after the intercept.
var coefficientNames = []string{
	"revenue_volatility",
	"wage_proxy_pct_gdp",
	"fiscal_burden",
	"gdp_growth",
}

// Result is one (country, coefficient) record from a deficit driver fit.
type Result struct {
	Country     string
	Coefficient string
	Beta        float64
	PValue      float64
	RSquared    float64
	NObs        int
}

// Run fits the deficit driver regression for the pooled set and for each
// focus country with enough complete observations. Fits are independent and
// run concurrently; the merged output is sorted by country then descending
// absolute beta, so the first record per country is always its dominant
// driver. A singular or failed fit is logged and skipped.
func Run(ctx context.Context, rows []features.Row) ([]Result, error) {
	logger := slog.Default()

	jobs := []struct {
		label  string
		subset []features.Row
	}{
		{PooledLabel, rows},
	}
	for _, country := range dataset.FocusCountries {
		var subset []features.Row
		for _, row := range rows {
			if row.Country == country {
				subset = append(subset, row)
			}
		}
		if len(subset) >= minCountryObservations {
			jobs = append(jobs, struct {
				label  string
				subset []features.Row
			}{country, subset})
		} else {
			logger.InfoContext(ctx, "skipping country regression, too few observations",
				"country", country,
				"observations", len(subset),
				"required", minCountryObservations,
			)
		}
	}

	var mu sync.Mutex
	var results []Result

	g, gctx := errgroup.WithContext(ctx)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			fitted, err := fitSubset(job.label, job.subset)
			if err != nil {
				logger.WarnContext(gctx, "regression fit failed",
					"country", job.label,
					"error", err,
				)
				return nil
			}
			mu.Lock()
			results = append(results, fitted...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Deterministic ordering regardless of goroutine schedule. Descending
	// absolute beta within a country is load-bearing: downstream
	// recommendation logic reads the first record as the dominant driver.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Country != results[j].Country {
			return results[i].Country < results[j].Country
		}
		return math.Abs(results[i].Beta) > math.Abs(results[j].Beta)
	})
	return results, nil
}

// fitSubset builds the design matrix for one label and runs the OLS fit.
// GDP growth enters as a fraction so its coefficient stays on a scale
// comparable with the other ratio regressors.
func fitSubset(label string, subset []features.Row) ([]Result, error) {
	y := make([]float64, 0, len(subset))
	x := make([][]float64, 0, len(subset))
	for _, row := range subset {
		if !row.Complete() {
			continue
		}
		y = append(y, *row.DeficitPctGDP)
		x = append(x, []float64{
			1,
			*row.RevenueVolatility,
			*row.WageProxyPctGDP,
			*row.FiscalBurden,
			*row.GDPGrowth / 100,
		})
	}

	fit, err := fitOLS(y, x)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(coefficientNames))
	for i, name := range coefficientNames {
		results = append(results, Result{
			Country:     label,
			Coefficient: name,
			Beta:        fit.Coefficients[i+1],
			PValue:      fit.PValues[i+1],
			RSquared:    fit.RSquared,
			NObs:        fit.NObs,
		})
	}
	return results, nil
}

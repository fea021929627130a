package features

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"fiscalcli/internal/dataset"
)

// Row is one (country, year) record of derived fiscal stress features.
// Pointer fields stay nil when a required input is missing or a denominator
// is zero; missingness is never coerced to zero.
type Row struct {
	Country string
	Year    int

	// Averaged standardised amounts from the pivot.
	Deficit     *float64
	Revenue     *float64
	TaxRevenue  *float64
	Expenditure *float64
	Capex       *float64
	GDPNominal  *float64
	GovDebt     *float64
	GDPGrowth   *float64

	// Derived ratios.
	DeficitPctGDP     *float64
	RevenuePctGDP     *float64
	TaxPctGDP         *float64
	DebtPctGDP        *float64
	FiscalBurden      *float64
	WageProxyPctGDP   *float64
	RevenueVolatility *float64
	StructuralDeficit *float64
}

// Complete reports whether the row carries every feature the driver
// regression needs. Incomplete rows are dropped from the matrix, not imputed.
func (r Row) Complete() bool {
	return r.DeficitPctGDP != nil &&
		r.RevenueVolatility != nil &&
		r.WageProxyPctGDP != nil &&
		r.FiscalBurden != nil &&
		r.GDPGrowth != nil &&
		r.DebtPctGDP != nil
}

// volatilityWindow is the trailing window, in observations, for the rolling
// revenue volatility; at least two observations are required.
const (
	volatilityWindow      = 3
	volatilityMinObs      = 2
	structuralDeficitBeta = 0.3
)

// Build pivots cleaned long-format observations into the per-country-year
// feature matrix. Only whitelisted indicators pivot; duplicates that slipped
// through resolution are averaged. Rows missing any regression feature are
// dropped. Output is sorted by country then year.
func Build(ctx context.Context, observations []dataset.Observation) []Row {
	logger := slog.Default()

	type cellKey struct {
		country string
		year    int
		column  string
	}
	sums := make(map[cellKey]float64)
	counts := make(map[cellKey]int)
	unknownIndicators := make(map[string]int)

	type rowKey struct {
		country string
		year    int
	}
	seen := make(map[rowKey]bool)
	var keys []rowKey

	for _, obs := range observations {
		column, whitelisted := dataset.FeatureIndicators[obs.Indicator]
		if !whitelisted {
			unknownIndicators[obs.Indicator]++
			continue
		}
		if obs.AmountStandardised == nil || obs.Year == 0 {
			continue
		}
		sums[cellKey{obs.Country, obs.Year, column}] += *obs.AmountStandardised
		counts[cellKey{obs.Country, obs.Year, column}]++

		rk := rowKey{obs.Country, obs.Year}
		if !seen[rk] {
			seen[rk] = true
			keys = append(keys, rk)
		}
	}

	for indicator, n := range unknownIndicators {
		logger.DebugContext(ctx, "indicator outside pivot whitelist",
			"indicator", indicator,
			"rows", n,
		)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].country != keys[j].country {
			return keys[i].country < keys[j].country
		}
		return keys[i].year < keys[j].year
	})

	avg := func(country string, year int, column string) *float64 {
		key := cellKey{country, year, column}
		if counts[key] == 0 {
			return nil
		}
		v := sums[key] / float64(counts[key])
		return &v
	}

	rows := make([]Row, 0, len(keys))
	for _, rk := range keys {
		row := Row{
			Country:     rk.country,
			Year:        rk.year,
			Deficit:     avg(rk.country, rk.year, "deficit"),
			Revenue:     avg(rk.country, rk.year, "revenue"),
			TaxRevenue:  avg(rk.country, rk.year, "tax_revenue"),
			Expenditure: avg(rk.country, rk.year, "expenditure"),
			Capex:       avg(rk.country, rk.year, "capex"),
			GDPNominal:  avg(rk.country, rk.year, "gdp_nominal"),
			GovDebt:     avg(rk.country, rk.year, "gov_debt"),
			GDPGrowth:   avg(rk.country, rk.year, "gdp_growth"),
		}

		row.DeficitPctGDP = ratio(row.Deficit, row.GDPNominal)
		row.RevenuePctGDP = ratio(row.Revenue, row.GDPNominal)
		row.TaxPctGDP = ratio(row.TaxRevenue, row.GDPNominal)
		row.DebtPctGDP = ratio(row.GovDebt, row.GDPNominal)
		row.FiscalBurden = ratio(row.GovDebt, row.Revenue)

		// Recurrent spending proxies the wage bill; missing capex counts as 0.
		if row.Expenditure != nil {
			recurrent := *row.Expenditure
			if row.Capex != nil {
				recurrent -= *row.Capex
			}
			row.WageProxyPctGDP = ratio(&recurrent, row.GDPNominal)
		}

		if row.DeficitPctGDP != nil && row.GDPGrowth != nil {
			structural := *row.DeficitPctGDP - structuralDeficitBeta*(*row.GDPGrowth/100)
			row.StructuralDeficit = &structural
		}

		rows = append(rows, row)
	}

	fillRevenueVolatility(rows)

	complete := rows[:0:0]
	for _, row := range rows {
		if row.Complete() {
			complete = append(complete, row)
		}
	}

	logger.InfoContext(ctx, "feature matrix built",
		"candidate_rows", len(rows),
		"complete_rows", len(complete),
	)
	return complete
}

// fillRevenueVolatility computes, per country over year-sorted rows, the
// trailing 3-observation sample standard deviation of revenue_pct_gdp.
func fillRevenueVolatility(rows []Row) {
	byCountry := make(map[string][]int)
	for i, row := range rows {
		byCountry[row.Country] = append(byCountry[row.Country], i)
	}

	for _, indices := range byCountry {
		for pos, idx := range indices {
			start := pos - volatilityWindow + 1
			if start < 0 {
				start = 0
			}
			var window []float64
			for _, j := range indices[start : pos+1] {
				if rows[j].RevenuePctGDP != nil {
					window = append(window, *rows[j].RevenuePctGDP)
				}
			}
			if len(window) < volatilityMinObs {
				continue
			}
			sd := sampleStd(window)
			rows[idx].RevenueVolatility = &sd
		}
	}
}

func sampleStd(values []float64) float64 {
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	ss := 0.0
	for _, v := range values {
		ss += (v - mean) * (v - mean)
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// ratio divides numerator by denominator, propagating missing values: a nil
// or zero denominator yields nil, never zero.
func ratio(num, den *float64) *float64 {
	if num == nil || den == nil || *den == 0 {
		return nil
	}
	v := *num / *den
	return &v
}

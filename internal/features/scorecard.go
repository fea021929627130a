package features

import (
	"sort"

	"fiscalcli/internal/dataset"
)

// Stress thresholds for the country scorecard.
const (
	stressDebtPctGDP    = 90.0 // debt above 90% of GDP
	stressRevenuePctGDP = 18.0 // revenue mobilization below 18% of GDP
	stressDeficitPctRev = 60.0 // deficit above 60% of revenue
	stressInflationPct  = 10.0 // inflation above 10%
)

// ScorecardRow is a country's latest-year fiscal snapshot with its stress
// signals.
type ScorecardRow struct {
	Country          string
	Year             int
	DebtToGDP        *float64 // fraction, not percent
	RevenueToGDP     *float64
	DeficitToRevenue *float64
	Inflation        *float64 // percent
	StressSignals    []string
}

// BuildScorecard condenses the feature matrix plus inflation observations
// into one latest-year row per country with stress signals attached.
func BuildScorecard(rows []Row, observations []dataset.Observation) []ScorecardRow {
	latest := make(map[string]Row)
	for _, row := range rows {
		if existing, ok := latest[row.Country]; !ok || row.Year > existing.Year {
			latest[row.Country] = row
		}
	}

	inflation := latestInflation(observations)

	countries := make([]string, 0, len(latest))
	for country := range latest {
		countries = append(countries, country)
	}
	sort.Strings(countries)

	scorecard := make([]ScorecardRow, 0, len(countries))
	for _, country := range countries {
		row := latest[country]
		sc := ScorecardRow{
			Country:      country,
			Year:         row.Year,
			DebtToGDP:    row.DebtPctGDP,
			RevenueToGDP: row.RevenuePctGDP,
			Inflation:    inflation[country],
		}
		if row.Deficit != nil && row.Revenue != nil && *row.Revenue != 0 {
			dr := *row.Deficit / *row.Revenue
			sc.DeficitToRevenue = &dr
		}
		sc.StressSignals = stressSignals(sc)
		scorecard = append(scorecard, sc)
	}
	return scorecard
}

func latestInflation(observations []dataset.Observation) map[string]*float64 {
	latestYear := make(map[string]int)
	values := make(map[string]*float64)
	for _, obs := range observations {
		if obs.Indicator != dataset.IndicatorInflation || obs.AmountNumeric == nil || obs.Year == 0 {
			continue
		}
		if obs.Year >= latestYear[obs.Country] {
			latestYear[obs.Country] = obs.Year
			v := *obs.AmountNumeric
			values[obs.Country] = &v
		}
	}
	return values
}

func stressSignals(sc ScorecardRow) []string {
	var signals []string
	if sc.DebtToGDP != nil && *sc.DebtToGDP*100 > stressDebtPctGDP {
		signals = append(signals, "High debt burden (>90% GDP)")
	}
	if sc.RevenueToGDP != nil && *sc.RevenueToGDP*100 < stressRevenuePctGDP {
		signals = append(signals, "Weak revenue mobilization (<18% GDP)")
	}
	if sc.DeficitToRevenue != nil && *sc.DeficitToRevenue*100 > stressDeficitPctRev {
		signals = append(signals, "Deficit overshoot (>60% revenue)")
	}
	if sc.Inflation != nil && *sc.Inflation > stressInflationPct {
		signals = append(signals, "Elevated inflation (>10%)")
	}
	return signals
}

package validation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"fiscalcli/internal/dataset"
)

// Issue types emitted by the engine.
const (
	IssueUnknownUnit    = "unknown_unit"
	IssueRangeViolation = "range_violation"
	IssueDebtGDPOutlier = "debt_to_gdp_outlier"
	IssueMissingSeries  = "missing_series"
	IssueStaleSeries    = "stale_series"
)

// Issue is one advisory finding over the cleaned table. Issues are reported,
// never auto-corrected; they feed the human review queue.
type Issue struct {
	IssueType string
	Country   string
	Indicator string
	Frequency string
	Time      time.Time
	Details   string
}

// percentageRanges holds the plausible bounds for percentage indicators.
// Values outside the range are flagged, not removed.
var percentageRanges = map[string][2]float64{
	dataset.IndicatorInflation:     {-10, 200},
	dataset.IndicatorFoodInflation: {-20, 200},
	"Food Inflation YoY":           {-50, 200},
	dataset.IndicatorInterestRate:  {0, 100},
	dataset.IndicatorUnemployment:  {0, 70},
	dataset.IndicatorGDPGrowth:     {-20, 50},
}

// debtGDPThreshold flags debt stocks above this multiple of annual GDP,
// which almost always means a unit error upstream.
const debtGDPThreshold = 4.0

// Staleness thresholds by reporting cadence.
const (
	staleDaysSubAnnual = 180
	staleDaysYearly    = 730
)

// Run applies every rule check over the cleaned table and returns the
// collected issues in a deterministic order.
func Run(ctx context.Context, observations []dataset.Observation) []Issue {
	var issues []Issue
	issues = append(issues, checkUnknownUnits(observations)...)
	issues = append(issues, checkRanges(observations)...)
	issues = append(issues, checkDebtToGDP(observations)...)
	issues = append(issues, checkCoverage(observations)...)

	slog.Default().InfoContext(ctx, "validation checks completed",
		"rows", len(observations),
		"issues", len(issues),
	)
	return issues
}

func checkUnknownUnits(observations []dataset.Observation) []Issue {
	var issues []Issue
	for _, obs := range observations {
		if obs.UnitCategory != dataset.UnitUnknown {
			continue
		}
		issues = append(issues, Issue{
			IssueType: IssueUnknownUnit,
			Country:   obs.Country,
			Indicator: obs.Indicator,
			Frequency: obs.Frequency,
			Time:      obs.TimeAligned,
			Details:   fmt.Sprintf("Unit %q not mapped", obs.Unit),
		})
	}
	return issues
}

func checkRanges(observations []dataset.Observation) []Issue {
	var issues []Issue
	for _, obs := range observations {
		bounds, watched := percentageRanges[obs.Indicator]
		if !watched || obs.AmountNumeric == nil {
			continue
		}
		v := *obs.AmountNumeric
		if v < bounds[0] || v > bounds[1] {
			issues = append(issues, Issue{
				IssueType: IssueRangeViolation,
				Country:   obs.Country,
				Indicator: obs.Indicator,
				Frequency: obs.Frequency,
				Time:      obs.TimeAligned,
				Details:   fmt.Sprintf("Value %g outside [%g, %g]", v, bounds[0], bounds[1]),
			})
		}
	}
	return issues
}

// checkDebtToGDP joins Government Debt and Nominal GDP by (country, aligned
// time) and flags implausible ratios. Zero or missing GDP never produces a
// ratio; unknown stays unknown.
func checkDebtToGDP(observations []dataset.Observation) []Issue {
	type joinKey struct {
		country string
		time    time.Time
	}

	debt := make(map[joinKey]float64)
	gdp := make(map[joinKey]float64)
	for _, obs := range observations {
		if obs.AmountStandardised == nil {
			continue
		}
		key := joinKey{obs.Country, obs.TimeAligned}
		switch obs.Indicator {
		case dataset.IndicatorGovDebt:
			debt[key] = *obs.AmountStandardised
		case dataset.IndicatorNominalGDP:
			gdp[key] = *obs.AmountStandardised
		}
	}

	var keys []joinKey
	for key := range debt {
		if g, ok := gdp[key]; ok && g > 0 {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].country != keys[j].country {
			return keys[i].country < keys[j].country
		}
		return keys[i].time.Before(keys[j].time)
	})

	var issues []Issue
	for _, key := range keys {
		ratio := debt[key] / gdp[key]
		if ratio > debtGDPThreshold {
			issues = append(issues, Issue{
				IssueType: IssueDebtGDPOutlier,
				Country:   key.country,
				Indicator: dataset.IndicatorGovDebt,
				Frequency: "Derived",
				Time:      key.time,
				Details:   fmt.Sprintf("Debt-to-GDP ratio %.2f exceeds threshold %.1f", ratio, debtGDPThreshold),
			})
		}
	}
	return issues
}

// checkCoverage flags priority countries with no records for a priority
// indicator that has data elsewhere, or whose latest observation lags the
// dataset-wide maximum by more than the cadence-dependent threshold.
func checkCoverage(observations []dataset.Observation) []Issue {
	var issues []Issue

	for _, indicator := range dataset.PriorityIndicators {
		var datasetMax time.Time
		type countryState struct {
			latest     time.Time
			latestFreq string
			bestRank   int
			seen       bool
		}
		states := make(map[string]*countryState)
		for _, country := range dataset.PriorityCountries {
			states[country] = &countryState{bestRank: 4}
		}

		for _, obs := range observations {
			if obs.Indicator != indicator || obs.TimeAligned.IsZero() {
				continue
			}
			if obs.TimeAligned.After(datasetMax) {
				datasetMax = obs.TimeAligned
			}
			state, watched := states[obs.Country]
			if !watched {
				continue
			}
			state.seen = true
			if obs.TimeAligned.After(state.latest) {
				state.latest = obs.TimeAligned
				state.latestFreq = obs.Frequency
			}
			if rank := dataset.FrequencyRank(obs.Frequency); rank < state.bestRank {
				state.bestRank = rank
			}
		}

		if datasetMax.IsZero() {
			continue
		}

		for _, country := range dataset.PriorityCountries {
			state := states[country]
			if !state.seen {
				issues = append(issues, Issue{
					IssueType: IssueMissingSeries,
					Country:   country,
					Indicator: indicator,
					Details:   "No records available",
				})
				continue
			}

			threshold := staleDaysYearly
			// Monthly and quarterly reporters are expected to stay current.
			if state.bestRank <= 1 {
				threshold = staleDaysSubAnnual
			}
			lagDays := int(datasetMax.Sub(state.latest).Hours() / 24)
			if lagDays > threshold {
				issues = append(issues, Issue{
					IssueType: IssueStaleSeries,
					Country:   country,
					Indicator: indicator,
					Frequency: state.latestFreq,
					Time:      state.latest,
					Details: fmt.Sprintf("Latest observation lags %d days behind dataset maximum %s",
						lagDays, datasetMax.Format("2006-01-02")),
				})
			}
		}
	}
	return issues
}

package validation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiscalcli/internal/dataset"
)

func floatPtr(v float64) *float64 { return &v }

func TestCheckUnknownUnits(t *testing.T) {
	observations := []dataset.Observation{
		{Country: "Nigeria", Indicator: "Government Debt", Unit: "widgets", UnitCategory: dataset.UnitUnknown},
		{Country: "Ghana", Indicator: "Revenue", Unit: "billion", UnitCategory: dataset.UnitCurrencyBillions},
	}

	issues := checkUnknownUnits(observations)
	require.Len(t, issues, 1)
	assert.Equal(t, IssueUnknownUnit, issues[0].IssueType)
	assert.Equal(t, "Nigeria", issues[0].Country)
	assert.Contains(t, issues[0].Details, "widgets")
}

func TestCheckRanges(t *testing.T) {
	tests := []struct {
		name      string
		indicator string
		amount    *float64
		flagged   bool
	}{
		{"inflation inside range", dataset.IndicatorInflation, floatPtr(12.5), false},
		{"inflation at upper bound", dataset.IndicatorInflation, floatPtr(200), false},
		{"inflation above bound", dataset.IndicatorInflation, floatPtr(250), true},
		{"inflation deep deflation", dataset.IndicatorInflation, floatPtr(-15), true},
		{"negative interest rate", dataset.IndicatorInterestRate, floatPtr(-0.5), true},
		{"unemployment plausible", dataset.IndicatorUnemployment, floatPtr(33), false},
		{"growth collapse", dataset.IndicatorGDPGrowth, floatPtr(-35), true},
		{"missing amount skipped", dataset.IndicatorInflation, nil, false},
		{"unwatched indicator skipped", dataset.IndicatorGovDebt, floatPtr(1e9), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := checkRanges([]dataset.Observation{{
				Country:       "Kenya",
				Indicator:     tt.indicator,
				AmountNumeric: tt.amount,
			}})
			if tt.flagged {
				require.Len(t, issues, 1)
				assert.Equal(t, IssueRangeViolation, issues[0].IssueType)
			} else {
				assert.Empty(t, issues)
			}
		})
	}
}

func TestCheckDebtToGDP(t *testing.T) {
	at := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)

	t.Run("ratio above threshold flagged", func(t *testing.T) {
		observations := []dataset.Observation{
			{Country: "Ghana", Indicator: dataset.IndicatorGovDebt, TimeAligned: at, AmountStandardised: floatPtr(500)},
			{Country: "Ghana", Indicator: dataset.IndicatorNominalGDP, TimeAligned: at, AmountStandardised: floatPtr(100)},
		}
		issues := checkDebtToGDP(observations)
		require.Len(t, issues, 1)
		assert.Equal(t, IssueDebtGDPOutlier, issues[0].IssueType)
		assert.Contains(t, issues[0].Details, "5.00")
	})

	t.Run("plausible ratio passes", func(t *testing.T) {
		observations := []dataset.Observation{
			{Country: "Kenya", Indicator: dataset.IndicatorGovDebt, TimeAligned: at, AmountStandardised: floatPtr(70)},
			{Country: "Kenya", Indicator: dataset.IndicatorNominalGDP, TimeAligned: at, AmountStandardised: floatPtr(100)},
		}
		assert.Empty(t, checkDebtToGDP(observations))
	})

	t.Run("zero gdp never produces a ratio", func(t *testing.T) {
		observations := []dataset.Observation{
			{Country: "Egypt", Indicator: dataset.IndicatorGovDebt, TimeAligned: at, AmountStandardised: floatPtr(500)},
			{Country: "Egypt", Indicator: dataset.IndicatorNominalGDP, TimeAligned: at, AmountStandardised: floatPtr(0)},
		}
		assert.Empty(t, checkDebtToGDP(observations))
	})

	t.Run("unmatched timestamps never join", func(t *testing.T) {
		observations := []dataset.Observation{
			{Country: "Egypt", Indicator: dataset.IndicatorGovDebt, TimeAligned: at, AmountStandardised: floatPtr(500)},
			{Country: "Egypt", Indicator: dataset.IndicatorNominalGDP, TimeAligned: at.AddDate(-1, 0, 0), AmountStandardised: floatPtr(100)},
		}
		assert.Empty(t, checkDebtToGDP(observations))
	})
}

func TestCheckCoverage(t *testing.T) {
	latest := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	// Revenue data exists for every priority country except Ghana, whose
	// absence should be flagged as a missing series. Kenya reports monthly
	// but stopped a year before the dataset maximum, which breaches the
	// sub-annual staleness threshold.
	var observations []dataset.Observation
	for _, country := range []string{"Nigeria", "South Africa", "Egypt"} {
		observations = append(observations, dataset.Observation{
			Country: country, Indicator: dataset.IndicatorRevenue,
			Frequency: dataset.FreqYearly, TimeAligned: latest,
		})
	}
	observations = append(observations, dataset.Observation{
		Country: "Kenya", Indicator: dataset.IndicatorRevenue,
		Frequency: dataset.FreqMonthly, TimeAligned: latest.AddDate(-1, 0, 0),
	})
	// All other priority indicators need data somewhere to avoid drowning
	// the assertions in unrelated findings; give them full current coverage.
	for _, indicator := range []string{dataset.IndicatorDeficit, dataset.IndicatorInflation} {
		for _, country := range dataset.PriorityCountries {
			observations = append(observations, dataset.Observation{
				Country: country, Indicator: indicator,
				Frequency: dataset.FreqYearly, TimeAligned: latest,
			})
		}
	}

	issues := checkCoverage(observations)

	var missing, stale []Issue
	for _, issue := range issues {
		switch issue.IssueType {
		case IssueMissingSeries:
			missing = append(missing, issue)
		case IssueStaleSeries:
			stale = append(stale, issue)
		}
	}

	require.Len(t, missing, 1)
	assert.Equal(t, "Ghana", missing[0].Country)
	assert.Equal(t, dataset.IndicatorRevenue, missing[0].Indicator)

	require.Len(t, stale, 1)
	assert.Equal(t, "Kenya", stale[0].Country)
}

func TestRunCollectsAllChecks(t *testing.T) {
	at := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	observations := []dataset.Observation{
		{Country: "Nigeria", Indicator: dataset.IndicatorInflation, UnitCategory: dataset.UnitPercentage,
			Frequency: dataset.FreqMonthly, TimeAligned: at, AmountNumeric: floatPtr(300)},
		{Country: "Nigeria", Indicator: "Mystery", Unit: "unknowable", UnitCategory: dataset.UnitUnknown},
	}

	issues := Run(context.Background(), observations)

	types := make(map[string]int)
	for _, issue := range issues {
		types[issue.IssueType]++
	}
	assert.Equal(t, 1, types[IssueUnknownUnit])
	assert.Equal(t, 1, types[IssueRangeViolation])
}

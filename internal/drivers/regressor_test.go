package drivers

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiscalcli/internal/features"
)

func floatPtr(v float64) *float64 { return &v }

// syntheticRows generates complete feature rows for a country where the
// deficit responds to revenue volatility with coefficient 2 and weakly to
// everything else, plus a small deterministic residual.
func syntheticRows(country string, n int, seed float64) []features.Row {
	rows := make([]features.Row, 0, n)
	for i := 0; i < n; i++ {
		fi := float64(i)
		revVol := 0.01 + 0.005*fi + 0.001*math.Sin(seed+fi)
		wage := 0.10 + 0.002*fi + 0.001*math.Cos(seed+2*fi)
		burden := 2.0 + 0.1*fi + 0.02*math.Sin(seed+3*fi)
		growth := 3.0 - 0.2*fi
		noise := 0.001 * math.Sin(seed*7+fi*1.3)
		deficit := -0.02 + 2.0*revVol + 0.1*wage + 0.01*burden + 0.05*(growth/100) + noise

		rows = append(rows, features.Row{
			Country:           country,
			Year:              2014 + i,
			DeficitPctGDP:     floatPtr(deficit),
			RevenueVolatility: floatPtr(revVol),
			WageProxyPctGDP:   floatPtr(wage),
			FiscalBurden:      floatPtr(burden),
			GDPGrowth:         floatPtr(growth),
			DebtPctGDP:        floatPtr(0.5 + 0.01*fi),
		})
	}
	return rows
}

func TestRunFitsPooledAndFocusCountries(t *testing.T) {
	rows := append(syntheticRows("Nigeria", 9, 0.3), syntheticRows("Ghana", 8, 1.7)...)
	// A non-focus country only contributes to the pooled fit.
	rows = append(rows, syntheticRows("Senegal", 7, 2.9)...)

	results, err := Run(context.Background(), rows)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	countries := make(map[string]int)
	for _, res := range results {
		countries[res.Country]++
	}
	assert.Equal(t, len(coefficientNames), countries[PooledLabel])
	assert.Equal(t, len(coefficientNames), countries["Nigeria"])
	assert.Equal(t, len(coefficientNames), countries["Ghana"])
	assert.Zero(t, countries["Senegal"], "non-focus countries get no individual fit")
}

func TestRunOrdersByDominance(t *testing.T) {
	rows := append(syntheticRows("Nigeria", 10, 0.5), syntheticRows("Ghana", 10, 1.1)...)

	results, err := Run(context.Background(), rows)
	require.NoError(t, err)

	// Within each country block, records are sorted by descending |beta|
	// and the country blocks are alphabetical.
	prevCountry := ""
	prevAbs := math.Inf(1)
	for _, res := range results {
		if res.Country != prevCountry {
			assert.Greater(t, res.Country, prevCountry)
			prevCountry = res.Country
			prevAbs = math.Inf(1)
		}
		abs := math.Abs(res.Beta)
		assert.LessOrEqual(t, abs, prevAbs)
		prevAbs = abs
	}
}

func TestRunSkipsCountriesWithTooFewObservations(t *testing.T) {
	rows := append(syntheticRows("Nigeria", 10, 0.5), syntheticRows("Kenya", 3, 2.2)...)

	results, err := Run(context.Background(), rows)
	require.NoError(t, err)

	for _, res := range results {
		assert.NotEqual(t, "Kenya", res.Country)
	}
}

func TestTopDriver(t *testing.T) {
	results := []Result{
		{Country: "Ghana", Coefficient: "revenue_volatility", Beta: 2.1},
		{Country: "Ghana", Coefficient: "fiscal_burden", Beta: 0.4},
		{Country: "Nigeria", Coefficient: "wage_proxy_pct_gdp", Beta: -1.8},
	}

	top, ok := TopDriver(results, "Ghana")
	require.True(t, ok)
	assert.Equal(t, "revenue_volatility", top.Coefficient)
	assert.Contains(t, Recommendations[top.Coefficient], "volatile receipts")

	_, ok = TopDriver(results, "Egypt")
	assert.False(t, ok)
}

func TestFitSubsetRecoversDominantDriver(t *testing.T) {
	rows := syntheticRows("Nigeria", 12, 0.9)

	results, err := fitSubset("Nigeria", rows)
	require.NoError(t, err)
	require.Len(t, results, len(coefficientNames))

	byName := make(map[string]Result)
	for _, res := range results {
		byName[res.Coefficient] = res
	}
	assert.InDelta(t, 2.0, byName["revenue_volatility"].Beta, 0.3)
	assert.Equal(t, 12, byName["revenue_volatility"].NObs)
}

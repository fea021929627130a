package forecast

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiscalcli/internal/features"
)

func floatPtr(v float64) *float64 { return &v }

func TestFitARIMARejectsBadSeries(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		_, err := fitARIMA([]float64{1, 2, 3})
		assert.Error(t, err)
	})

	t.Run("non-finite values", func(t *testing.T) {
		_, err := fitARIMA([]float64{1, 2, math.NaN(), 4, 5})
		assert.Error(t, err)
	})
}

func TestFitARIMAOnTrend(t *testing.T) {
	// A noisy upward trend: differencing makes it near-stationary, so the
	// level forecasts should keep climbing.
	series := []float64{50.0, 52.1, 53.9, 56.2, 57.8, 60.1, 61.9, 64.2, 65.8, 68.1}

	model, err := fitARIMA(series)
	require.NoError(t, err)

	assert.LessOrEqual(t, math.Abs(model.phi), coefBound)
	assert.LessOrEqual(t, math.Abs(model.theta), coefBound)
	assert.Greater(t, model.sigma2, 0.0)

	points := model.Forecast(3)
	require.Len(t, points, 3)

	last := series[len(series)-1]
	for _, p := range points {
		assert.Greater(t, p.Forecast, last, "trend should continue upward")
		assert.Less(t, p.Lower, p.Forecast)
		assert.Greater(t, p.Upper, p.Forecast)
	}

	// Interval width grows with horizon.
	w1 := points[0].Upper - points[0].Lower
	w2 := points[1].Upper - points[1].Lower
	w3 := points[2].Upper - points[2].Lower
	assert.Less(t, w1, w2)
	assert.Less(t, w2, w3)
}

func TestForecastIntervalSymmetry(t *testing.T) {
	series := []float64{10, 11, 10.5, 11.5, 11, 12, 11.5, 12.5}
	model, err := fitARIMA(series)
	require.NoError(t, err)

	for _, p := range model.Forecast(3) {
		assert.InDelta(t, p.Forecast-p.Lower, p.Upper-p.Forecast, 1e-9)
	}
}

func TestRunForecastsFocusCountries(t *testing.T) {
	var rows []features.Row
	// Eight years of history for Nigeria on both metrics; Ghana has too
	// little history and must be skipped.
	debt := []float64{0.50, 0.52, 0.55, 0.58, 0.60, 0.63, 0.65, 0.68}
	deficit := []float64{-0.03, -0.035, -0.032, -0.04, -0.045, -0.042, -0.05, -0.048}
	for i := 0; i < 8; i++ {
		rows = append(rows, features.Row{
			Country:       "Nigeria",
			Year:          2016 + i,
			DebtPctGDP:    floatPtr(debt[i]),
			DeficitPctGDP: floatPtr(deficit[i]),
		})
	}
	for i := 0; i < 3; i++ {
		rows = append(rows, features.Row{
			Country:       "Ghana",
			Year:          2021 + i,
			DebtPctGDP:    floatPtr(0.6 + 0.01*float64(i)),
			DeficitPctGDP: floatPtr(-0.04),
		})
	}

	records := Run(context.Background(), rows)

	// Two metrics, three years each, Nigeria only.
	require.Len(t, records, 2*Horizon)
	for _, rec := range records {
		assert.Equal(t, "Nigeria", rec.Country)
		assert.False(t, math.IsNaN(rec.Forecast))
		assert.Less(t, rec.LowerCI, rec.UpperCI)
	}

	// Sorted by country, metric, year; forecast years follow the history.
	assert.Equal(t, "debt_pct_gdp", records[0].Metric)
	assert.Equal(t, 2024, records[0].Year)
	assert.Equal(t, 2025, records[1].Year)
	assert.Equal(t, 2026, records[2].Year)
	assert.Equal(t, "deficit_pct_gdp", records[3].Metric)
}

func TestRunIgnoresNonFocusCountries(t *testing.T) {
	var rows []features.Row
	for i := 0; i < 10; i++ {
		rows = append(rows, features.Row{
			Country:    "Togo",
			Year:       2014 + i,
			DebtPctGDP: floatPtr(0.4 + 0.02*float64(i)),
		})
	}
	assert.Empty(t, Run(context.Background(), rows))
}

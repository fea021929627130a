package anomaly

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiscalcli/internal/features"
)

func floatPtr(v float64) *float64 { return &v }

func debtRows(country string, values ...float64) []features.Row {
	rows := make([]features.Row, 0, len(values))
	for i, v := range values {
		rows = append(rows, features.Row{
			Country:    country,
			Year:       2019 + i,
			DebtPctGDP: floatPtr(v),
		})
	}
	return rows
}

func TestDetectFlagsExactThreshold(t *testing.T) {
	// Four identical values and one outlier give the outlier a population
	// z-score of exactly 2.0; the threshold is inclusive.
	rows := debtRows("Nigeria", 0.10, 0.10, 0.10, 0.10, 0.30)

	records := Detect(context.Background(), rows)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Nigeria", rec.Country)
	assert.Equal(t, 2023, rec.Year)
	assert.Equal(t, MetricDebtPctGDP, rec.Metric)
	assert.InDelta(t, 2.0, rec.ZScore, 1e-9)
	assert.Equal(t, SeverityMedium, rec.Severity)
}

func TestDetectBelowThresholdNotFlagged(t *testing.T) {
	// Three identical values and one outlier cap |z| at about 1.73.
	rows := debtRows("Ghana", 0.10, 0.10, 0.10, 0.30)
	assert.Empty(t, Detect(context.Background(), rows))
}

func TestDetectHighSeverity(t *testing.T) {
	// Nine identical values and one outlier give exactly z = 3.0.
	values := []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 1.5}
	rows := debtRows("Egypt", values...)

	records := Detect(context.Background(), rows)
	require.Len(t, records, 1)
	assert.InDelta(t, 3.0, records[0].ZScore, 1e-9)
	assert.Equal(t, SeverityHigh, records[0].Severity)
}

func TestDetectSkipsShortAndFlatSeries(t *testing.T) {
	t.Run("too few observations", func(t *testing.T) {
		rows := debtRows("Kenya", 0.1, 0.9)
		assert.Empty(t, Detect(context.Background(), rows))
	})

	t.Run("zero variance", func(t *testing.T) {
		rows := debtRows("Kenya", 0.5, 0.5, 0.5, 0.5)
		assert.Empty(t, Detect(context.Background(), rows))
	})

	t.Run("missing metric values", func(t *testing.T) {
		rows := []features.Row{
			{Country: "Kenya", Year: 2020},
			{Country: "Kenya", Year: 2021},
			{Country: "Kenya", Year: 2022},
		}
		assert.Empty(t, Detect(context.Background(), rows))
	})
}

func TestDetectScansBothMetricsAndSorts(t *testing.T) {
	rows := debtRows("Zambia", 0.10, 0.10, 0.10, 0.10, 0.30)
	rows = append(rows, debtRows("Angola", 0.20, 0.20, 0.20, 0.20, 0.60)...)
	// Give Angola a deficit outlier too.
	for i := range rows {
		if rows[i].Country == "Angola" {
			v := 0.05
			if rows[i].Year == 2023 {
				v = 0.25
			}
			rows[i].DeficitPctGDP = floatPtr(v)
		}
	}

	records := Detect(context.Background(), rows)
	require.Len(t, records, 3)

	// Sorted by metric then country: debt/Angola, debt/Zambia, deficit/Angola.
	assert.Equal(t, MetricDebtPctGDP, records[0].Metric)
	assert.Equal(t, "Angola", records[0].Country)
	assert.Equal(t, MetricDebtPctGDP, records[1].Metric)
	assert.Equal(t, "Zambia", records[1].Country)
	assert.Equal(t, MetricDeficitPctGDP, records[2].Metric)
	assert.Equal(t, "Angola", records[2].Country)
}

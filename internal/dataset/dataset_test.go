package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *float64
	}{
		{"plain number", "42.5", floatPtr(42.5)},
		{"thousands separators", "1,234,567.89", floatPtr(1234567.89)},
		{"negative", "-3.2", floatPtr(-3.2)},
		{"stray annotation", "12.5 (est)", floatPtr(12.5)},
		{"whitespace", "  7 ", floatPtr(7)},
		{"empty", "", nil},
		{"not a number", "n/a", nil},
		{"only punctuation", "--", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{"iso date", "2023-06-30", time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC), false},
		{"slash date", "2023/06/30", time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC), false},
		{"year only", "2023", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"excel serial", "45107", time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC), false},
		{"empty", "", time.Time{}, true},
		{"gibberish", "sometime", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTime(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v got %v", tt.want, got)
		})
	}
}

func TestNormalizeFrequency(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Yearly", FreqYearly},
		{"annual", FreqYearly},
		{"Annually", FreqYearly},
		{"monthly", FreqMonthly},
		{"QUARTERLY", FreqQuarterly},
		{"semi-annual", FreqBiannual},
		{"Biannual", FreqBiannual},
		{"half-yearly", FreqBiannual},
		{"  yearly  ", FreqYearly},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeFrequency(tt.raw))
		})
	}
}

func TestFrequencyRank(t *testing.T) {
	assert.Equal(t, 0, FrequencyRank("Monthly"))
	assert.Equal(t, 1, FrequencyRank("Quarterly"))
	assert.Equal(t, 2, FrequencyRank("Yearly"))
	assert.Equal(t, 2, FrequencyRank("annual"))
	assert.Equal(t, 3, FrequencyRank("Biannual"))
	assert.Equal(t, 3, FrequencyRank("whenever"))

	assert.Less(t, FrequencyRank("Monthly"), FrequencyRank("Quarterly"))
	assert.Less(t, FrequencyRank("Quarterly"), FrequencyRank("Yearly"))
}

func TestObservationKey(t *testing.T) {
	raw := time.Date(2023, 4, 12, 0, 0, 0, 0, time.UTC)
	aligned := time.Date(2023, 4, 30, 0, 0, 0, 0, time.UTC)

	t.Run("aligned time preferred", func(t *testing.T) {
		obs := Observation{Country: "Nigeria", Indicator: "Revenue", Time: raw, TimeAligned: aligned}
		assert.Equal(t, DuplicateKey{"Nigeria", "Revenue", aligned}, obs.Key())
	})

	t.Run("falls back to raw time", func(t *testing.T) {
		obs := Observation{Country: "Nigeria", Indicator: "Revenue", Time: raw}
		assert.Equal(t, DuplicateKey{"Nigeria", "Revenue", raw}, obs.Key())
	})
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fiscal.csv")
	content := "Country,Indicator,Source,Unit,Frequency,Time,Amount\n" +
		"Nigeria,Government Debt,CBN,Trillion,Yearly,2023-01-01,87.4\n" +
		"Ghana,Inflation Rate,GSS,percent,Monthly,2023-04-01,\"41,200\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	observations, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, observations, 2)

	first := observations[0]
	assert.Equal(t, 0, first.RowID)
	assert.Equal(t, 1, observations[1].RowID)
	assert.Equal(t, "Nigeria", first.Country)
	assert.Equal(t, "Government Debt", first.Indicator)
	assert.Equal(t, "Trillion", first.Unit)
	assert.Equal(t, "87.4", first.Amount)
	assert.True(t, first.HasTime())

	second := observations[1]
	assert.Equal(t, "41,200", second.Amount)
}

func TestLoadCSVMissingColumns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("Country,Value\nNigeria,1\n"), 0o644))

	_, err := LoadCSV(path)
	assert.Error(t, err)
}

func TestRegionForCountry(t *testing.T) {
	assert.Equal(t, "West Africa", RegionForCountry("NGA"))
	assert.Equal(t, "East Africa", RegionForCountry("KEN"))
	assert.Equal(t, "Unknown", RegionForCountry("ATL"))
}

func TestAfricanCountries(t *testing.T) {
	assert.Equal(t, "Nigeria", AfricanCountries["NGA"])
	assert.Equal(t, "South Africa", AfricanCountries["ZAF"])
	assert.GreaterOrEqual(t, len(AfricanCountries), 50)
}

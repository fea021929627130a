package cleaning

import (
	"context"
	"log/slog"
	"time"

	"fiscalcli/internal/dataset"
)

// Clean applies the full standardisation pass over raw observations: field
// trimming, amount parsing, frequency correction, temporal alignment, unit
// normalisation, and duplicate flagging. The pass is a pure function of the
// raw fields, so running it again over its own output changes nothing.
func Clean(ctx context.Context, observations []dataset.Observation) []dataset.Observation {
	logger := slog.Default()

	cleaned := make([]dataset.Observation, len(observations))
	copy(cleaned, observations)

	for i := range cleaned {
		cleaned[i].Frequency = dataset.NormalizeFrequency(cleaned[i].Frequency)
		cleaned[i].AmountNumeric = dataset.ParseAmount(cleaned[i].Amount)
	}

	corrected := correctYearlyLabels(cleaned)
	if corrected > 0 {
		logger.InfoContext(ctx, "relabeled mislabeled yearly series",
			"rows_corrected", corrected,
		)
	}

	for i := range cleaned {
		obs := &cleaned[i]

		obs.TimeAligned = AlignTime(obs.Time, obs.Frequency)
		if !obs.TimeAligned.IsZero() {
			obs.Year = obs.TimeAligned.Year()
		}

		spec := NormalizeUnit(obs.Unit)
		obs.UnitCategory = spec.Category
		obs.UnitMultiplier = spec.Multiplier

		obs.AmountStandardised = nil
		obs.AmountFraction = nil
		if obs.AmountNumeric != nil {
			standardised := *obs.AmountNumeric * spec.Multiplier
			obs.AmountStandardised = &standardised
			if spec.Category == dataset.UnitPercentage {
				fraction := *obs.AmountNumeric / 100
				obs.AmountFraction = &fraction
			}
		}
	}

	FlagDuplicates(cleaned)

	logger.InfoContext(ctx, "cleaning pass completed",
		"rows", len(cleaned),
	)

	return cleaned
}

// correctYearlyLabels relabels (country, indicator, year) groups marked
// Yearly whose month pattern reveals sub-annual reporting. Runs before
// alignment since the corrected frequency changes the alignment rule.
// Returns the number of rows relabeled.
func correctYearlyLabels(observations []dataset.Observation) int {
	type groupKey struct {
		country   string
		indicator string
		year      int
	}

	months := make(map[groupKey]map[time.Month]bool)
	for _, obs := range observations {
		if obs.Frequency != dataset.FreqYearly || !obs.HasTime() {
			continue
		}
		key := groupKey{obs.Country, obs.Indicator, obs.Time.Year()}
		if months[key] == nil {
			months[key] = make(map[time.Month]bool)
		}
		months[key][obs.Time.Month()] = true
	}

	corrected := 0
	for i := range observations {
		obs := &observations[i]
		if obs.Frequency != dataset.FreqYearly || !obs.HasTime() {
			continue
		}
		key := groupKey{obs.Country, obs.Indicator, obs.Time.Year()}
		if inferred := InferFrequency(months[key]); inferred != dataset.FreqYearly {
			obs.Frequency = inferred
			corrected++
		}
	}
	return corrected
}

// FlagDuplicates marks every observation sharing its
// (country, indicator, frequency, aligned time) key with another row.
func FlagDuplicates(observations []dataset.Observation) {
	type fullKey struct {
		country   string
		indicator string
		frequency string
		time      time.Time
	}

	counts := make(map[fullKey]int)
	for _, obs := range observations {
		counts[fullKey{obs.Country, obs.Indicator, obs.Frequency, obs.TimeAligned}]++
	}
	for i := range observations {
		obs := &observations[i]
		key := fullKey{obs.Country, obs.Indicator, obs.Frequency, obs.TimeAligned}
		obs.IsDuplicate = counts[key] > 1
	}
}

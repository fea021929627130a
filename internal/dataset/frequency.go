package dataset

import "strings"

// NormalizeFrequency folds the spellings seen across sources onto the
// canonical labels. Unrecognized labels are returned trimmed but otherwise
// untouched so they stay visible downstream.
func NormalizeFrequency(raw string) string {
	trimmed := strings.TrimSpace(raw)
	switch strings.ToLower(trimmed) {
	case "monthly":
		return FreqMonthly
	case "quarterly":
		return FreqQuarterly
	case "yearly", "annual", "annually":
		return FreqYearly
	case "biannual", "semi-annual", "semiannual", "half-yearly":
		return FreqBiannual
	default:
		return trimmed
	}
}

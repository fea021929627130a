package cleaning

import (
	"time"

	"fiscalcli/internal/dataset"
)

// AlignTime snaps a raw timestamp to the end of its reporting period based
// on the stated frequency. Unknown or missing frequencies return the raw
// timestamp unchanged so nothing is invented.
func AlignTime(t time.Time, frequency string) time.Time {
	if t.IsZero() {
		return t
	}

	switch dataset.NormalizeFrequency(frequency) {
	case dataset.FreqMonthly:
		return endOfMonth(t)
	case dataset.FreqQuarterly:
		return endOfQuarter(t)
	case dataset.FreqYearly:
		return time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, t.Location())
	case dataset.FreqBiannual:
		if t.Month() <= time.June {
			return time.Date(t.Year(), time.June, 30, 0, 0, 0, 0, t.Location())
		}
		return time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, t.Location())
	default:
		return t
	}
}

func endOfMonth(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}

func endOfQuarter(t time.Time) time.Time {
	quarterEndMonth := time.Month(((int(t.Month())-1)/3)*3 + 3)
	return endOfMonth(time.Date(t.Year(), quarterEndMonth, 1, 0, 0, 0, 0, t.Location()))
}

// InferFrequency corrects a "Yearly" label from the calendar months actually
// present in a (country, indicator, year) group. The month pattern tells the
// real cadence: semiannual files report in January and July, quarterly files
// on quarter starts, and six or more distinct months means monthly data was
// stacked under a yearly label.
func InferFrequency(months map[time.Month]bool) string {
	if len(months) == 0 {
		return dataset.FreqYearly
	}
	if subsetOf(months, time.January) {
		return dataset.FreqYearly
	}
	if subsetOf(months, time.January, time.July) {
		return dataset.FreqBiannual
	}
	if subsetOf(months, time.January, time.April, time.July, time.October) {
		return dataset.FreqQuarterly
	}
	if len(months) >= 6 {
		return dataset.FreqMonthly
	}
	return dataset.FreqYearly
}

func subsetOf(months map[time.Month]bool, allowed ...time.Month) bool {
	for m := range months {
		found := false
		for _, a := range allowed {
			if m == a {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

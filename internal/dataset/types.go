package dataset

import (
	"time"
)

// UnitCategory classifies the canonical scale of an observation's unit.
type UnitCategory int

const (
	// UnitUnknown marks units that could not be mapped; validation surfaces these.
	UnitUnknown UnitCategory = iota
	// UnitCurrencyBillions marks monetary amounts normalised to billions of local currency.
	UnitCurrencyBillions
	// UnitPercentage marks percentage-valued indicators.
	UnitPercentage
	// UnitIndexPoints marks index-point series.
	UnitIndexPoints
	// UnitPopulationCount marks headcount series.
	UnitPopulationCount
	// UnitCurrencyUSD marks amounts already expressed in US dollars.
	UnitCurrencyUSD
)

// String returns the canonical category label used in artifacts.
func (c UnitCategory) String() string {
	switch c {
	case UnitCurrencyBillions:
		return "currency_billions"
	case UnitPercentage:
		return "percentage"
	case UnitIndexPoints:
		return "index_points"
	case UnitPopulationCount:
		return "population_count"
	case UnitCurrencyUSD:
		return "currency_usd"
	default:
		return "unknown"
	}
}

// Frequency labels as they appear after cleaning. Raw labels are free-form
// strings; NormalizeFrequency folds the known spellings onto these.
const (
	FreqMonthly   = "Monthly"
	FreqQuarterly = "Quarterly"
	FreqBiannual  = "Biannual"
	FreqYearly    = "Yearly"
)

// FrequencyRank orders frequencies for duplicate arbitration.
// Lower rank wins: Monthly beats Quarterly beats Yearly; anything
// unrecognized ranks last.
func FrequencyRank(frequency string) int {
	switch NormalizeFrequency(frequency) {
	case FreqMonthly:
		return 0
	case FreqQuarterly:
		return 1
	case FreqYearly:
		return 2
	default:
		return 3
	}
}

// Observation is one reported fiscal value plus the fields derived during
// cleaning. Raw fields are never mutated after ingestion; derived fields are
// filled exactly once by the cleaning pass. Pointer-typed fields stay nil when
// the underlying value could not be parsed, so "unknown" never collapses to
// zero.
type Observation struct {
	// Row identity, stable across the pipeline. Used by the duplicate
	// resolution audit trail.
	RowID int

	// Raw fields as ingested.
	Country   string
	Indicator string
	Source    string
	Unit      string
	Frequency string
	Time      time.Time
	Amount    string

	// Derived during cleaning.
	AmountNumeric      *float64
	UnitCategory       UnitCategory
	UnitMultiplier     float64
	AmountStandardised *float64
	AmountFraction     *float64
	TimeAligned        time.Time
	Year               int

	// Duplicate marker: true while the row shares its
	// (country, indicator, frequency, aligned time) key with another row.
	IsDuplicate bool
}

// HasTime reports whether the raw timestamp parsed successfully.
func (o Observation) HasTime() bool {
	return !o.Time.IsZero()
}

// DuplicateKey identifies a group of observations reporting the same thing
// for the same instant. Frequency is deliberately absent: the resolver
// arbitrates across frequencies first.
type DuplicateKey struct {
	Country   string
	Indicator string
	Time      time.Time
}

// Key returns the duplicate grouping key for the observation, built on the
// aligned timestamp when alignment succeeded.
func (o Observation) Key() DuplicateKey {
	t := o.TimeAligned
	if t.IsZero() {
		t = o.Time
	}
	return DuplicateKey{Country: o.Country, Indicator: o.Indicator, Time: t}
}

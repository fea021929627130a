package cleaning

import (
	"strings"

	"fiscalcli/internal/dataset"
)

// UnitSpec is the canonical scale a raw unit string maps onto.
type UnitSpec struct {
	Category   dataset.UnitCategory
	Multiplier float64
}

// unitMap is the exact-match lookup over normalised (lowercased, trimmed)
// unit strings. Currency multipliers convert into billions of local
// currency so amounts of the same category compare directly.
var unitMap = map[string]UnitSpec{
	"billion":    {dataset.UnitCurrencyBillions, 1.0},
	"billions":   {dataset.UnitCurrencyBillions, 1.0},
	"million":    {dataset.UnitCurrencyBillions, 1e-3},
	"millions":   {dataset.UnitCurrencyBillions, 1e-3},
	"trillion":   {dataset.UnitCurrencyBillions, 1e3},
	"percent":    {dataset.UnitPercentage, 1.0},
	"%":          {dataset.UnitPercentage, 1.0},
	"percentage": {dataset.UnitPercentage, 1.0},
	"points":     {dataset.UnitIndexPoints, 1.0},
	"point":      {dataset.UnitIndexPoints, 1.0},
	"persons":    {dataset.UnitPopulationCount, 1.0},
	"people":     {dataset.UnitPopulationCount, 1.0},
	"usd":        {dataset.UnitCurrencyUSD, 1.0},
}

// NormalizeUnit maps a raw unit string to its category and multiplier.
// Unrecognized units map to (unknown, 1.0); the validation engine flags
// them, they are never silently discarded.
func NormalizeUnit(raw string) UnitSpec {
	key := strings.ToLower(strings.TrimSpace(raw))
	if spec, ok := unitMap[key]; ok {
		return spec
	}
	return UnitSpec{Category: dataset.UnitUnknown, Multiplier: 1.0}
}

package restructuring

import (
	"fmt"
	"math"
)

// Unit costs in USD for the opportunity-cost conversion.
var unitCosts = map[string]float64{
	"school":       875_000,    // primary school construction
	"hospital":     11_600_000, // district hospital
	"vaccine_dose": 50,
	"teacher":      8_000, // annual teacher salary
}

// OpportunityCost converts a dollar amount into the number of social
// spending units it could fund instead. Unknown unit types are an error,
// never a silent zero.
func OpportunityCost(amountUSD float64, unitType string) (int, error) {
	cost, ok := unitCosts[unitType]
	if !ok {
		return 0, fmt.Errorf("unknown opportunity cost unit %q", unitType)
	}
	return int(math.Floor(amountUSD / cost)), nil
}

// OpportunityCostUnits lists the supported unit types.
func OpportunityCostUnits() []string {
	return []string{"school", "hospital", "vaccine_dose", "teacher"}
}

// UnitCost returns the USD cost of one unit, and ok=false for unknown types.
func UnitCost(unitType string) (float64, bool) {
	cost, ok := unitCosts[unitType]
	return cost, ok
}

package restructuring

// Scenario holds the inputs of a debt restructuring what-if: the current
// terms, the proposed terms, and optionally GDP for the ratio impact and an
// observed debt-service figure for the baseline.
type Scenario struct {
	CurrentDebt       float64 `json:"current_debt" validate:"required,gt=0"`
	CurrentRate       float64 `json:"current_rate" validate:"gte=0,lte=1"`
	CurrentMaturity   int     `json:"current_maturity" validate:"gte=0"`
	NewRate           float64 `json:"new_rate" validate:"gte=0,lte=1"`
	MaturityExtension int     `json:"maturity_extension" validate:"gte=0"`
	HaircutPct        float64 `json:"haircut_pct" validate:"gte=0,lte=100"`

	// Optional context.
	GDPUSD              float64 `json:"gdp_usd" validate:"gte=0"`
	ObservedDebtService float64 `json:"observed_debt_service" validate:"gte=0"`
}

// Impact is the computed effect of a restructuring scenario.
type Impact struct {
	CurrentAnnualPayment float64  `json:"current_annual_payment"`
	NewAnnualPayment     float64  `json:"new_annual_payment"`
	FiscalSpaceFreed     float64  `json:"fiscal_space_freed"`
	NewDebtToGDP         *float64 `json:"new_debt_to_gdp,omitempty"`
}

// Evaluate computes the restructuring impact. When an observed debt-service
// figure is available it replaces the annuity-derived baseline payment, and
// the freed fiscal space is recomputed against it; actual payments beat a
// modeled annuity.
func Evaluate(s Scenario) Impact {
	currentPayment := AnnuityPayment(s.CurrentDebt, s.CurrentRate, s.CurrentMaturity)
	if s.ObservedDebtService > 0 {
		currentPayment = s.ObservedDebtService
	}

	newPrincipal := s.CurrentDebt * (1 - s.HaircutPct/100)
	newMaturity := s.CurrentMaturity + s.MaturityExtension
	newPayment := AnnuityPayment(newPrincipal, s.NewRate, newMaturity)

	impact := Impact{
		CurrentAnnualPayment: currentPayment,
		NewAnnualPayment:     newPayment,
		FiscalSpaceFreed:     currentPayment - newPayment,
	}
	if s.GDPUSD > 0 {
		ratio := newPrincipal / s.GDPUSD * 100
		impact.NewDebtToGDP = &ratio
	}
	return impact
}

// DebtServicePressure returns debt service as a percentage of government
// revenue, the coverage stress metric shown on the dashboard. Returns nil
// when the implied revenue is zero or an input is missing, because an
// unknown burden is not a zero burden.
func DebtServicePressure(debtServiceUSD, gdpUSD, revenuePctGDP float64) *float64 {
	revenueUSD := gdpUSD * revenuePctGDP / 100
	if revenueUSD == 0 {
		return nil
	}
	pressure := debtServiceUSD / revenueUSD * 100
	return &pressure
}

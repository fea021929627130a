package dataset

// Indicator names as they appear in the source workbook. The feature builder
// only pivots this enumerated set; anything else is logged and left in the
// long table rather than silently becoming an ad hoc column.
const (
	IndicatorDeficit       = "Budget Deficit/Surplus"
	IndicatorRevenue       = "Revenue"
	IndicatorTaxRevenue    = "Tax Revenue"
	IndicatorExpenditure   = "Expenditure"
	IndicatorCapex         = "Capital Expenditure"
	IndicatorNominalGDP    = "Nominal GDP"
	IndicatorGovDebt       = "Government Debt"
	IndicatorGDPGrowth     = "GDP Growth Rate"
	IndicatorInflation     = "Inflation Rate"
	IndicatorInterestRate  = "Interest Rate"
	IndicatorUnemployment  = "Unemployment Rate"
	IndicatorFoodInflation = "Food Inflation"
)

// FeatureIndicators is the pivot whitelist for the feature matrix, mapped to
// the canonical column name each indicator becomes.
var FeatureIndicators = map[string]string{
	IndicatorDeficit:     "deficit",
	IndicatorRevenue:     "revenue",
	IndicatorTaxRevenue:  "tax_revenue",
	IndicatorExpenditure: "expenditure",
	IndicatorCapex:       "capex",
	IndicatorNominalGDP:  "gdp_nominal",
	IndicatorGovDebt:     "gov_debt",
	IndicatorGDPGrowth:   "gdp_growth",
}

// PriorityIndicators are the series whose coverage and freshness the
// validation engine watches for the priority countries.
var PriorityIndicators = []string{
	IndicatorRevenue,
	IndicatorDeficit,
	IndicatorInflation,
}

// FocusCountries are the economies fitted individually by the driver
// regressions and forecasts; everything else contributes to the pooled fit.
var FocusCountries = []string{"Nigeria", "Ghana", "Kenya", "South Africa", "Egypt"}

// PriorityCountries are watched by the staleness and coverage checks.
var PriorityCountries = []string{"Nigeria", "South Africa", "Egypt", "Kenya", "Ghana"}

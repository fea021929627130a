package drivers

// Recommendations maps a dominant driver coefficient to the policy lever an
// analyst should look at first. Presentation-side lookup, deliberately kept
// outside the regression itself.
var Recommendations = map[string]string{
	"revenue_volatility": "Stabilize revenue through base broadening and commodity hedging; volatile receipts are the dominant deficit driver.",
	"wage_proxy_pct_gdp": "Contain the recurrent wage bill; payroll growth is the dominant deficit driver.",
	"fiscal_burden":      "Prioritize debt reprofiling; the debt stock relative to revenue is the dominant deficit driver.",
	"gdp_growth":         "Growth swings dominate the deficit; countercyclical buffers matter more than expenditure cuts.",
}

// TopDriver returns the dominant driver record for a country from a result
// set already sorted by Run, along with ok=false when the country has no
// records.
func TopDriver(results []Result, country string) (Result, bool) {
	for _, r := range results {
		if r.Country == country {
			return r, true
		}
	}
	return Result{}, false
}

// Package features pivots the cleaned long-format fiscal table into a
// per-country-year feature matrix of stress ratios (deficit, revenue, debt
// as shares of GDP, fiscal burden, wage proxy, rolling revenue volatility,
// structural deficit) and condenses it into a latest-year country
// scorecard.
package features

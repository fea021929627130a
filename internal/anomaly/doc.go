// Package anomaly flags statistical outliers in debt and deficit ratios
// using per-country z-scores against each country's own history.
package anomaly

// Package forecast produces three-year-ahead projections of debt and
// deficit ratios per focus country, fitting a fixed-order ARIMA(1,1,1) by
// conditional sum of squares and attaching 95% confidence intervals.
package forecast

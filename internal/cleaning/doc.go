// Package cleaning standardises raw fiscal observations: unit normalisation
// into canonical categories and multipliers, frequency correction for
// mislabeled yearly series, and period-end temporal alignment.
package cleaning

// Package restructuring models debt restructuring scenarios with the
// standard annuity formula, derives the fiscal space a reform frees, and
// converts dollar amounts into social-spending-unit equivalents.
package restructuring

// Package validation runs advisory rule checks over the cleaned fiscal
// table: unit coverage, plausible percentage ranges, debt-to-GDP sanity,
// and series coverage/staleness for priority countries. Findings are
// reported as structured issues and never auto-corrected.
package validation

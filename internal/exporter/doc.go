// Package exporter writes pipeline artifacts (CSV and JSON) to the
// processed data directory.
package exporter

// Package dataset defines the fiscal observation model shared by every
// pipeline stage, the enumerated unit categories and indicator whitelist,
// and the loaders that read raw observations from the source workbook or
// CSV exports.
package dataset

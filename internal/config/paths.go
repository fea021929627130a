package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Pipeline artifact filenames under the processed directory.
const (
	FileCleanData        = "fiscal_data_clean.csv"
	FileDuplicates       = "fiscal_data_duplicates.csv"
	FileResolutionLog    = "fiscal_duplicate_resolution_log.csv"
	FileManualReview     = "fiscal_duplicate_manual_review.csv"
	FileValidationIssues = "fiscal_data_validation_issues.csv"
	FileQualityReport    = "fiscal_data_quality_report.json"
	FileFeatureMatrix    = "fiscal_feature_matrix.csv"
	FileScorecard        = "fiscal_scorecard.csv"
	FileDriverAnalysis   = "fiscal_driver_analysis.csv"
	FileAnomalies        = "fiscal_anomalies.csv"
	FileForecasts        = "fiscal_forecasts.csv"
)

// ArtifactFiles lists every artifact the pipeline produces, in the order
// the pipeline writes them.
var ArtifactFiles = []string{
	FileCleanData,
	FileDuplicates,
	FileResolutionLog,
	FileManualReview,
	FileValidationIssues,
	FileQualityReport,
	FileFeatureMatrix,
	FileScorecard,
	FileDriverAnalysis,
	FileAnomalies,
	FileForecasts,
}

// ArtifactPath returns the absolute-or-relative path of a named artifact
// under the processed directory.
func (p PathsConfig) ArtifactPath(name string) string {
	return filepath.Join(p.ProcessedDir, name)
}

// IsArtifact reports whether name is a known pipeline artifact.
func IsArtifact(name string) bool {
	for _, f := range ArtifactFiles {
		if f == name {
			return true
		}
	}
	return false
}

// EnsureDirectories creates the data, processed, cache and logs
// directories when missing.
func (p PathsConfig) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ProcessedDir, p.CacheDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

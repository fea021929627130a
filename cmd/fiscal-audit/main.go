// Command fiscal-audit runs the data quality pipeline: it loads the raw
// fiscal dataset, cleans and standardises it, resolves duplicate
// observations with a full audit trail, validates the result, and
// writes the cleaned export plus quality artifacts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fiscalcli/internal/cleaning"
	"fiscalcli/internal/config"
	"fiscalcli/internal/dataset"
	"fiscalcli/internal/dedup"
	"fiscalcli/internal/exporter"
	"fiscalcli/internal/infrastructure"
	"fiscalcli/internal/report"
	"fiscalcli/internal/validation"
)

func main() {
	input := flag.String("input", "", "raw dataset path, .xlsx or .csv (defaults to configured workbook)")
	sheet := flag.String("sheet", "", "workbook sheet name (defaults to configured sheet)")
	tolerance := flag.Float64("tolerance", 0, "duplicate merge tolerance as relative spread (defaults to configured value)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := cfg.Paths.EnsureDirectories(); err != nil {
		slog.Error("failed to create directories", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	if *input == "" {
		*input = cfg.Paths.RawWorkbook
	}
	if *sheet == "" {
		*sheet = cfg.Paths.RawSheet
	}
	if *tolerance <= 0 {
		*tolerance = cfg.Pipeline.DuplicateTolerance
	}

	ctx := context.Background()
	logger.InfoContext(ctx, "starting fiscal data audit",
		slog.String("input", *input),
		slog.String("sheet", *sheet),
		slog.Float64("tolerance", *tolerance))

	if err := run(ctx, cfg, logger, *input, *sheet, *tolerance); err != nil {
		logger.ErrorContext(ctx, "audit pipeline failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, input, sheet string, tolerance float64) error {
	var observations []dataset.Observation
	var err error
	if strings.EqualFold(filepath.Ext(input), ".csv") {
		observations, err = dataset.LoadCSV(input)
	} else {
		observations, err = dataset.LoadWorkbook(input, sheet)
	}
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	logger.InfoContext(ctx, "dataset loaded", slog.Int("rows", len(observations)))

	cleaned := cleaning.Clean(ctx, observations)

	resolver := dedup.NewResolver(tolerance)
	result := resolver.Resolve(ctx, cleaned)
	logger.InfoContext(ctx, "duplicates resolved",
		slog.Int("rows_kept", len(result.Observations)),
		slog.Int("audit_entries", len(result.Audit)),
		slog.Int("manual_review", len(result.ManualReview)))

	issues := validation.Run(ctx, result.Observations)
	logger.InfoContext(ctx, "validation complete", slog.Int("issues", len(issues)))

	quality := report.Build(result.Observations)
	quality.DuplicateGroupsResolved = len(result.Audit)
	quality.DuplicateGroupsEscalated = len(result.ManualReview)
	quality.ValidationIssueCount = len(issues)

	writer := exporter.NewCSVWriter(cfg.Paths)
	if err := writeArtifacts(writer, cleaned, result, issues, quality); err != nil {
		return err
	}

	logger.InfoContext(ctx, "audit artifacts written",
		slog.String("dir", cfg.Paths.ProcessedDir),
		slog.Int("clean_rows", len(result.Observations)))
	if len(result.ManualReview) > 0 {
		logger.WarnContext(ctx, "duplicate groups escalated for manual review",
			slog.Int("groups", len(result.ManualReview)))
	}
	return nil
}

func writeArtifacts(writer *exporter.CSVWriter, cleaned []dataset.Observation, result dedup.Result, issues []validation.Issue, quality report.QualityReport) error {
	if err := writer.WriteArtifact(config.FileCleanData, observationHeaders, observationRecords(result.Observations)); err != nil {
		return fmt.Errorf("write clean data: %w", err)
	}

	var duplicates []dataset.Observation
	for _, obs := range cleaned {
		if obs.IsDuplicate {
			duplicates = append(duplicates, obs)
		}
	}
	if err := writer.WriteArtifact(config.FileDuplicates, observationHeaders, observationRecords(duplicates)); err != nil {
		return fmt.Errorf("write duplicates: %w", err)
	}

	if err := writer.WriteArtifact(config.FileResolutionLog, auditHeaders, auditRecords(result.Audit)); err != nil {
		return fmt.Errorf("write resolution log: %w", err)
	}
	if err := writer.WriteArtifact(config.FileManualReview, reviewHeaders, reviewRecords(result.ManualReview)); err != nil {
		return fmt.Errorf("write manual review: %w", err)
	}
	if err := writer.WriteArtifact(config.FileValidationIssues, issueHeaders, issueRecords(issues)); err != nil {
		return fmt.Errorf("write validation issues: %w", err)
	}

	data, err := quality.Marshal()
	if err != nil {
		return fmt.Errorf("marshal quality report: %w", err)
	}
	if err := writer.WriteJSON(config.FileQualityReport, data); err != nil {
		return fmt.Errorf("write quality report: %w", err)
	}
	return nil
}

const dateLayout = "2006-01-02"

var observationHeaders = []string{
	"Country", "Indicator", "Source", "Unit", "Frequency", "Time", "Amount",
	"Amount_numeric", "Amount_standardised", "Amount_fraction",
	"Unit_category", "Unit_multiplier", "Time_aligned", "Year", "is_duplicate",
}

func observationRecords(observations []dataset.Observation) [][]string {
	records := make([][]string, 0, len(observations))
	for _, obs := range observations {
		timeRaw := ""
		if obs.HasTime() {
			timeRaw = obs.Time.Format(dateLayout)
		}
		timeAligned := ""
		if !obs.TimeAligned.IsZero() {
			timeAligned = obs.TimeAligned.Format(dateLayout)
		}
		year := ""
		if obs.Year != 0 {
			year = strconv.Itoa(obs.Year)
		}
		records = append(records, []string{
			obs.Country,
			obs.Indicator,
			obs.Source,
			obs.Unit,
			obs.Frequency,
			timeRaw,
			obs.Amount,
			exporter.FormatFloat(obs.AmountNumeric),
			exporter.FormatFloat(obs.AmountStandardised),
			exporter.FormatFloat(obs.AmountFraction),
			obs.UnitCategory.String(),
			strconv.FormatFloat(obs.UnitMultiplier, 'f', -1, 64),
			timeAligned,
			year,
			exporter.FormatBool(obs.IsDuplicate),
		})
	}
	return records
}

var auditHeaders = []string{
	"id", "date", "country", "indicator", "time", "issue_type", "action",
	"kept_row_id", "kept_amount", "dropped_rows", "relative_diff", "notes",
}

func auditRecords(entries []dedup.AuditEntry) [][]string {
	records := make([][]string, 0, len(entries))
	for _, e := range entries {
		records = append(records, []string{
			e.ID,
			e.Date.Format(dateLayout),
			e.Country,
			e.Indicator,
			e.Time.Format(dateLayout),
			e.IssueType,
			e.Action,
			strconv.Itoa(e.KeptRowID),
			exporter.FormatFloat(e.KeptAmount),
			strconv.Itoa(e.DroppedRows),
			strconv.FormatFloat(e.RelativeDiff, 'f', 6, 64),
			e.Notes,
		})
	}
	return records
}

var reviewHeaders = []string{
	"country", "indicator", "frequency", "time", "issue",
	"relative_diff", "values", "row_ids", "kept_row_id",
}

func reviewRecords(reviews []dedup.ManualReview) [][]string {
	records := make([][]string, 0, len(reviews))
	for _, rv := range reviews {
		values := make([]string, 0, len(rv.Values))
		for _, v := range rv.Values {
			values = append(values, strconv.FormatFloat(v, 'f', -1, 64))
		}
		ids := make([]string, 0, len(rv.RowIDs))
		for _, id := range rv.RowIDs {
			ids = append(ids, strconv.Itoa(id))
		}
		records = append(records, []string{
			rv.Country,
			rv.Indicator,
			rv.Frequency,
			rv.Time.Format(dateLayout),
			rv.Issue,
			strconv.FormatFloat(rv.RelativeDiff, 'f', 6, 64),
			strings.Join(values, "|"),
			strings.Join(ids, "|"),
			strconv.Itoa(rv.KeptRowID),
		})
	}
	return records
}

var issueHeaders = []string{"issue_type", "country", "indicator", "frequency", "time", "details"}

func issueRecords(issues []validation.Issue) [][]string {
	records := make([][]string, 0, len(issues))
	for _, issue := range issues {
		t := ""
		if !issue.Time.IsZero() {
			t = issue.Time.Format(dateLayout)
		}
		records = append(records, []string{
			issue.IssueType,
			issue.Country,
			issue.Indicator,
			issue.Frequency,
			t,
			issue.Details,
		})
	}
	return records
}

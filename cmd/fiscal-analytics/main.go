// Command fiscal-analytics runs the analytical pipeline over the
// cleaned dataset: it builds the per-country-year feature matrix and
// scorecard, fits the deficit driver regressions, flags anomalies, and
// forecasts the fiscal trajectory of the focus countries.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"fiscalcli/internal/anomaly"
	"fiscalcli/internal/cleaning"
	"fiscalcli/internal/config"
	"fiscalcli/internal/dataset"
	"fiscalcli/internal/drivers"
	"fiscalcli/internal/exporter"
	"fiscalcli/internal/features"
	"fiscalcli/internal/forecast"
	"fiscalcli/internal/infrastructure"
)

func main() {
	input := flag.String("input", "", "cleaned dataset CSV (defaults to the audit pipeline output)")
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
		*input = cfg.Paths.ArtifactPath(config.FileCleanData)
	}

	ctx := context.Background()
	logger.InfoContext(ctx, "starting fiscal analytics", slog.String("input", *input))

	if err := run(ctx, cfg, logger, *input); err != nil {
		logger.ErrorContext(ctx, "analytics pipeline failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, input string) error {
	observations, err := dataset.LoadCSV(input)
	if err != nil {
		return fmt.Errorf("load cleaned dataset: %w", err)
	}

	// Derived columns are recomputed from the raw fields; cleaning is
	// idempotent, so rerunning it over its own output changes nothing.
	observations = cleaning.Clean(ctx, observations)

	rows := features.Build(ctx, observations)
	logger.InfoContext(ctx, "feature matrix built", slog.Int("rows", len(rows)))

	scorecard := features.BuildScorecard(rows, observations)

	driverResults, err := drivers.Run(ctx, rows)
	if err != nil {
		return fmt.Errorf("driver regression: %w", err)
	}
	logger.InfoContext(ctx, "driver regressions fitted", slog.Int("records", len(driverResults)))

	anomalies := anomaly.Detect(ctx, rows)
	logger.InfoContext(ctx, "anomaly scan complete", slog.Int("flagged", len(anomalies)))

	forecasts := forecast.Run(ctx, rows)
	logger.InfoContext(ctx, "forecasts generated", slog.Int("records", len(forecasts)))

	writer := exporter.NewCSVWriter(cfg.Paths)
	if err := writer.WriteArtifact(config.FileFeatureMatrix, featureHeaders, featureRecords(rows)); err != nil {
		return fmt.Errorf("write feature matrix: %w", err)
	}
	if err := writer.WriteArtifact(config.FileScorecard, scorecardHeaders, scorecardRecords(scorecard)); err != nil {
		return fmt.Errorf("write scorecard: %w", err)
	}
	if err := writer.WriteArtifact(config.FileDriverAnalysis, driverHeaders, driverRecords(driverResults)); err != nil {
		return fmt.Errorf("write driver analysis: %w", err)
	}
	if err := writer.WriteArtifact(config.FileAnomalies, anomalyHeaders, anomalyRecords(anomalies)); err != nil {
		return fmt.Errorf("write anomalies: %w", err)
	}
	if err := writer.WriteArtifact(config.FileForecasts, forecastHeaders, forecastRecords(forecasts)); err != nil {
		return fmt.Errorf("write forecasts: %w", err)
	}

	logger.InfoContext(ctx, "analytics artifacts written", slog.String("dir", cfg.Paths.ProcessedDir))
	return nil
}

var featureHeaders = []string{
	"country", "year",
	"deficit", "revenue", "tax_revenue", "expenditure", "capex", "gdp_nominal", "gov_debt", "gdp_growth",
	"deficit_pct_gdp", "revenue_pct_gdp", "tax_pct_gdp", "debt_pct_gdp",
	"fiscal_burden", "wage_proxy_pct_gdp", "revenue_volatility", "structural_deficit",
}

func featureRecords(rows []features.Row) [][]string {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.Country,
			strconv.Itoa(row.Year),
			exporter.FormatFloat(row.Deficit),
			exporter.FormatFloat(row.Revenue),
			exporter.FormatFloat(row.TaxRevenue),
			exporter.FormatFloat(row.Expenditure),
			exporter.FormatFloat(row.Capex),
			exporter.FormatFloat(row.GDPNominal),
			exporter.FormatFloat(row.GovDebt),
			exporter.FormatFloat(row.GDPGrowth),
			exporter.FormatFloat(row.DeficitPctGDP),
			exporter.FormatFloat(row.RevenuePctGDP),
			exporter.FormatFloat(row.TaxPctGDP),
			exporter.FormatFloat(row.DebtPctGDP),
			exporter.FormatFloat(row.FiscalBurden),
			exporter.FormatFloat(row.WageProxyPctGDP),
			exporter.FormatFloat(row.RevenueVolatility),
			exporter.FormatFloat(row.StructuralDeficit),
		})
	}
	return records
}

var scorecardHeaders = []string{
	"country", "year", "debt_to_gdp", "revenue_to_gdp", "deficit_to_revenue", "inflation", "stress_signals",
}

func scorecardRecords(rows []features.ScorecardRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		signals := ""
		for i, s := range row.StressSignals {
			if i > 0 {
				signals += "|"
			}
			signals += s
		}
		records = append(records, []string{
			row.Country,
			strconv.Itoa(row.Year),
			exporter.FormatFloatPrec(row.DebtToGDP, 4),
			exporter.FormatFloatPrec(row.RevenueToGDP, 4),
			exporter.FormatFloatPrec(row.DeficitToRevenue, 4),
			exporter.FormatFloatPrec(row.Inflation, 2),
			signals,
		})
	}
	return records
}

var driverHeaders = []string{"country", "coefficient", "beta", "p_value", "r_squared", "n_obs"}

func driverRecords(results []drivers.Result) [][]string {
	records := make([][]string, 0, len(results))
	for _, res := range results {
		records = append(records, []string{
			res.Country,
			res.Coefficient,
			strconv.FormatFloat(res.Beta, 'f', 6, 64),
			strconv.FormatFloat(res.PValue, 'f', 6, 64),
			strconv.FormatFloat(res.RSquared, 'f', 6, 64),
			strconv.Itoa(res.NObs),
		})
	}
	return records
}

var anomalyHeaders = []string{"country", "year", "metric", "value", "z_score", "severity"}

func anomalyRecords(anomalies []anomaly.Record) [][]string {
	records := make([][]string, 0, len(anomalies))
	for _, rec := range anomalies {
		records = append(records, []string{
			rec.Country,
			strconv.Itoa(rec.Year),
			rec.Metric,
			strconv.FormatFloat(rec.Value, 'f', 6, 64),
			strconv.FormatFloat(rec.ZScore, 'f', 6, 64),
			rec.Severity,
		})
	}
	return records
}

var forecastHeaders = []string{"country", "metric", "year", "forecast", "lower_ci", "upper_ci"}

func forecastRecords(forecasts []forecast.Record) [][]string {
	records := make([][]string, 0, len(forecasts))
	for _, rec := range forecasts {
		records = append(records, []string{
			rec.Country,
			rec.Metric,
			strconv.Itoa(rec.Year),
			strconv.FormatFloat(rec.Forecast, 'f', 6, 64),
			strconv.FormatFloat(rec.LowerCI, 'f', 6, 64),
			strconv.FormatFloat(rec.UpperCI, 'f', 6, 64),
		})
	}
	return records
}

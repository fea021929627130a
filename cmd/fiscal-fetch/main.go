// Command fiscal-fetch pulls macro-fiscal indicators from the World
// Bank and IMF open data APIs and caches them locally as CSV.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"fiscalcli/internal/config"
	"fiscalcli/internal/infrastructure"
	"fiscalcli/internal/worldbank"
)

func main() {
	source := flag.String("source", "both", "data source: wb | imf | both")
	countries := flag.String("countries", "", "comma-separated ISO3 country codes (defaults to all African countries)")
	indicators := flag.String("indicators", "", "comma-separated indicator codes (defaults to the full indicator set)")
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	countryList := splitList(*countries)
	indicatorList := splitList(*indicators)

	client := worldbank.NewClient(cfg.Upstream, logger)

	logger.InfoContext(ctx, "starting indicator fetch",
		slog.String("source", *source),
		slog.Int("countries", len(countryList)),
		slog.Int("year_start", cfg.Upstream.YearStart),
		slog.Int("year_end", cfg.Upstream.YearEnd))

	if *source == "wb" || *source == "both" {
		points, err := client.FetchWorldBank(ctx, countryList, indicatorList, cfg.Upstream.YearStart, cfg.Upstream.YearEnd)
		if err != nil {
			logger.ErrorContext(ctx, "fetch failed", "source", "worldbank", "error", err)
			os.Exit(1)
		}
		path := filepath.Join(cfg.Paths.CacheDir, "worldbank_indicators.csv")
		if err := worldbank.WriteCache(path, points); err != nil {
			logger.ErrorContext(ctx, "cache write failed", "path", path, "error", err)
			os.Exit(1)
		}
		logger.InfoContext(ctx, "cache written",
			slog.String("source", "worldbank"),
			slog.String("path", path),
			slog.Int("points", len(points)))
	}

	if *source == "imf" || *source == "both" {
		points, err := client.FetchIMF(ctx, countryList, indicatorList, cfg.Upstream.YearStart, cfg.Upstream.YearEnd)
		if err != nil {
			logger.ErrorContext(ctx, "fetch failed", "source", "imf", "error", err)
			os.Exit(1)
		}
		path := filepath.Join(cfg.Paths.CacheDir, "imf_indicators.csv")
		if err := worldbank.WriteCache(path, points); err != nil {
			logger.ErrorContext(ctx, "cache write failed", "path", path, "error", err)
			os.Exit(1)
		}
		logger.InfoContext(ctx, "cache written",
			slog.String("source", "imf"),
			slog.String("path", path),
			slog.Int("points", len(points)))
	}
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

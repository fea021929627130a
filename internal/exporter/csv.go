package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fiscalcli/internal/config"
)

// CSVWriter writes pipeline artifacts under the processed directory.
type CSVWriter struct {
	paths config.PathsConfig
}

// NewCSVWriter creates a new CSV writer rooted at the configured paths.
func NewCSVWriter(paths config.PathsConfig) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// WriteOptions configures CSV writing behavior.
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool // UTF-8 BOM for Excel compatibility
}

// WriteArtifact writes a named pipeline artifact to the processed
// directory, replacing any previous version.
func (w *CSVWriter) WriteArtifact(name string, headers []string, records [][]string) error {
	return w.WriteCSV(w.paths.ArtifactPath(name), WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteCSV writes data to a CSV file at the given path.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	slog.Info("writing CSV file",
		slog.String("path", filePath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(filePath, flags, 0o644)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix && !options.Append {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// WriteJSON writes an already-marshaled JSON artifact.
func (w *CSVWriter) WriteJSON(name string, data []byte) error {
	path := w.paths.ArtifactPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	slog.Info("writing JSON file", slog.String("path", path), slog.Int("bytes", len(data)))
	return nil
}

package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiscalcli/internal/config"
)

func testWriter(t *testing.T) (*CSVWriter, string) {
	t.Helper()
	dir := t.TempDir()
	paths := config.PathsConfig{
		DataDir:      dir,
		ProcessedDir: filepath.Join(dir, "processed"),
	}
	return NewCSVWriter(paths), paths.ProcessedDir
}

func TestWriteArtifact(t *testing.T) {
	w, processed := testWriter(t)

	headers := []string{"Country", "Year", "Amount"}
	records := [][]string{
		{"Nigeria", "2023", "3500"},
		{"Kenya", "2022", ""},
	}
	require.NoError(t, w.WriteArtifact(config.FileCleanData, headers, records))

	data, err := os.ReadFile(filepath.Join(processed, config.FileCleanData))
	require.NoError(t, err)

	// BOM prefix for Excel, then headers and rows.
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
	assert.Equal(t, "Country,Year,Amount\nNigeria,2023,3500\nKenya,2022,\n", string(data[3:]))
}

func TestWriteArtifactReplacesPrevious(t *testing.T) {
	w, processed := testWriter(t)

	require.NoError(t, w.WriteArtifact(config.FileScorecard, []string{"a"}, [][]string{{"1"}, {"2"}}))
	require.NoError(t, w.WriteArtifact(config.FileScorecard, []string{"a"}, [][]string{{"3"}}))

	data, err := os.ReadFile(filepath.Join(processed, config.FileScorecard))
	require.NoError(t, err)
	assert.Equal(t, "a\n3\n", string(data[3:]))
}

func TestWriteCSVAppend(t *testing.T) {
	w, _ := testWriter(t)
	path := filepath.Join(t.TempDir(), "log.csv")

	require.NoError(t, w.WriteCSV(path, WriteOptions{
		Headers: []string{"event"},
		Records: [][]string{{"first"}},
	}))
	require.NoError(t, w.WriteCSV(path, WriteOptions{
		Headers: []string{"event"},
		Records: [][]string{{"second"}},
		Append:  true,
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// Append mode skips headers and BOM.
	assert.Equal(t, "event\nfirst\nsecond\n", string(data))
}

func TestWriteCSVQuotesEmbeddedCommas(t *testing.T) {
	w, _ := testWriter(t)
	path := filepath.Join(t.TempDir(), "q.csv")

	require.NoError(t, w.WriteCSV(path, WriteOptions{
		Headers: []string{"Country", "Amount"},
		Records: [][]string{{"Nigeria", "41,200"}},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"41,200"`)
}

func TestWriteJSON(t *testing.T) {
	w, processed := testWriter(t)

	payload := []byte(`{"rows": 4}`)
	require.NoError(t, w.WriteJSON(config.FileQualityReport, payload))

	data, err := os.ReadFile(filepath.Join(processed, config.FileQualityReport))
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

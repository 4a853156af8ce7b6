package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"FinAdventure/internal/config"
	"FinAdventure/internal/datastore"
	"FinAdventure/internal/devapi"
)

// setup points the globals at a dev API backed by an in-memory store.
func setup(t *testing.T) {
	t.Helper()
	srv := httptest.NewServer(devapi.Routes(devapi.NewHandler(datastore.NewMemoryStore(), zap.NewNop())))
	t.Cleanup(srv.Close)

	t.Setenv("FINADV_BASE_URL", srv.URL)
	var err error
	cfg, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	logger = zap.NewNop()

	t.Cleanup(func() {
		dateColumn, valueColumn, descriptionColumn = "", "", ""
		uploadSymbol, uploadCategory = "", ""
		chartDataType, chartRange, chartOutput, chartFormat = "", "all", "", ""
		zoomIn, zoomOut = 0, 0
	})
	chartRange = "all"
}

func testCmd() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetContext(context.Background())
	return cmd, &buf
}

func writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prices.csv")
	csv := "Date,Close,Note\n2024-01-02,185.64,\n2024-01-03,184.25,dip\n2024-01-04,181.91,\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))
	return path
}

func TestPreview_AutoDetectsColumns(t *testing.T) {
	setup(t)
	cmd, buf := testCmd()

	require.NoError(t, runPreview(cmd, []string{writeCSV(t)}))
	out := buf.String()
	assert.Contains(t, out, "Showing first 3 of 3 rows")
	assert.Contains(t, out, "Date Column: Date")
	assert.Contains(t, out, "Value Column: Close")
}

func TestPreview_UnknownColumnFails(t *testing.T) {
	setup(t)
	cmd, _ := testCmd()
	dateColumn = "When"

	assert.ErrorIs(t, runPreview(cmd, []string{writeCSV(t)}), errReported)
}

func TestPreview_UnsupportedFormat(t *testing.T) {
	setup(t)
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("binary"), 0o644))
	cmd, buf := testCmd()

	assert.ErrorIs(t, runPreview(cmd, []string{path}), errReported)
	assert.Contains(t, buf.String(), "not implemented")
}

func TestUploadThenChart(t *testing.T) {
	setup(t)
	cmd, buf := testCmd()
	uploadSymbol = "aapl"
	descriptionColumn = "Note"

	require.NoError(t, runUpload(cmd, []string{writeCSV(t)}))
	assert.Contains(t, buf.String(), "Processed 3 records for AAPL (Historical Prices)")

	cmd, buf = testCmd()
	chartOutput = filepath.Join(t.TempDir(), "aapl.png")
	require.NoError(t, runChart(cmd, []string{"aapl"}))
	out := buf.String()
	assert.Contains(t, out, "Showing 3 data points")
	assert.Contains(t, out, "Chart written to "+chartOutput)

	info, err := os.Stat(chartOutput)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestChart_NoDataIsNotAnError(t *testing.T) {
	setup(t)
	cmd, buf := testCmd()
	chartOutput = filepath.Join(t.TempDir(), "none.png")

	require.NoError(t, runChart(cmd, []string{"MSFT"}))
	assert.Contains(t, buf.String(), "No Historical Prices data available for MSFT")
	_, err := os.Stat(chartOutput)
	assert.True(t, os.IsNotExist(err))
}

func TestChart_BadRange(t *testing.T) {
	setup(t)
	cmd, _ := testCmd()
	chartRange = "2w"

	assert.ErrorIs(t, runChart(cmd, []string{"AAPL"}), errReported)
}

func TestTypes(t *testing.T) {
	setup(t)
	cmd, buf := testCmd()

	require.NoError(t, runTypes(cmd, nil))
	assert.Contains(t, buf.String(), "Historical Prices")
}

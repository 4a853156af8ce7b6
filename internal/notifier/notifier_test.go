package notifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinAdventure/internal/ingest"
	"FinAdventure/internal/model"
	"FinAdventure/internal/series"
	"FinAdventure/internal/uploader"
	"FinAdventure/internal/viewer"
)

func TestFromError_Taxonomy(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		level  Level
		title  string
		action Action
	}{
		{"no data", fmt.Errorf("load: %w", model.ErrNoData), LevelWarning, "No data available", ActionOpenUpload},
		{"parse", &model.ParseError{Format: "json", Err: errors.New("unexpected EOF")}, LevelError, "Could not parse file", ActionNone},
		{"unsupported", &model.UnsupportedFormatError{Format: "xlsx"}, LevelWarning, "Unsupported file format", ActionNone},
		{"validation", &model.ValidationError{Field: "date_column", Message: "please select a date column"}, LevelWarning, "Check your input", ActionNone},
		{"transport", &model.TransportError{Op: "fetch series", StatusCode: 502, Err: errors.New("bad gateway")}, LevelError, "Request failed", ActionNone},
		{"cancelled", context.Canceled, LevelInfo, "Cancelled", ActionNone},
		{"other", errors.New("weird"), LevelError, "Error", ActionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := FromError(tt.err, "AAPL", "Historical Prices")
			require.True(t, ok)
			assert.Equal(t, tt.level, n.Level)
			assert.Equal(t, tt.title, n.Title)
			assert.Equal(t, tt.action, n.Action)
		})
	}
}

func TestFromError_Silent(t *testing.T) {
	_, ok := FromError(nil, "", "")
	assert.False(t, ok)
	_, ok = FromError(series.ErrStaleResponse, "", "")
	assert.False(t, ok)
}

func TestNoDataPanelDiffersFromErrorPanel(t *testing.T) {
	noData := FormatViewState(viewer.ViewState{Status: viewer.StatusNoData, Symbol: "AAPL", DataType: "Income Statement", Err: model.ErrNoData})
	assert.Contains(t, noData, "No Income Statement data available for AAPL")
	assert.Contains(t, noData, "finadventure upload")

	failed := FormatViewState(viewer.ViewState{Status: viewer.StatusError, Symbol: "AAPL", Err: &model.TransportError{Op: "fetch series", Err: errors.New("connection refused")}})
	assert.Contains(t, failed, "Request failed")
	assert.NotContains(t, failed, "run the pipeline")
}

func TestFormatPreview(t *testing.T) {
	ds, err := ingest.NewParser().ParseCSV("date,price\n2024-01-01,100\n2024-01-02,110\n")
	require.NoError(t, err)
	out := FormatPreview(ingest.RenderPreview(ds, ingest.DefaultPreviewRows), []ingest.MappingLine{{Label: "Date Column", Column: "date"}})
	assert.Contains(t, out, "price")
	assert.Contains(t, out, "2024-01-02")
	assert.Contains(t, out, "Showing first 2 of 2 rows")
	assert.Contains(t, out, "Date Column: date")

	assert.Contains(t, FormatPreview(ingest.PreviewTable{}, nil), "No data to preview")
}

func TestFormatSubmitResult(t *testing.T) {
	out := FormatSubmitResult(&uploader.Result{Status: "success", RecordsProcessed: 2, TotalRecords: 10, Symbol: "AAPL", Category: "Historical Prices"})
	assert.Contains(t, out, "Processed 2 records for AAPL (Historical Prices)")
	assert.Contains(t, out, "Total records stored: 10")
}

func TestFormatInsight(t *testing.T) {
	out := FormatInsight(&model.SeriesInsight{
		Symbol: "AAPL", DataType: "Historical Prices", Count: 3,
		FirstDate: "2024-01-01", LastDate: "2024-01-03",
		Last: 1234.5, Min: 1000, Max: 1300, Avg: 1100, ChangePct: 12.5, Trend: "strong uptrend",
	})
	assert.Contains(t, out, "$1,234.5")
	assert.Contains(t, out, "+12.50%")
	assert.Contains(t, out, "Trend: strong uptrend")
}

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewWriterNotifier(&buf)
	require.NoError(t, n.Send("hello\n"))
	require.NoError(t, SendNotice(n, Notice{Level: LevelInfo, Title: "Heads up"}))
	assert.Contains(t, buf.String(), "hello\n")
	assert.Contains(t, buf.String(), "Heads up")
	assert.NoError(t, NoopNotifier{}.Send("x"))
}

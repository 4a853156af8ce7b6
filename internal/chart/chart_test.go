package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinAdventure/internal/model"
)

func TestPointRadius(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 3}, {1, 3}, {50, 3},
		{51, 2}, {100, 2},
		{101, 1}, {200, 1},
		{201, 0}, {5000, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PointRadius(tt.n), "n=%d", tt.n)
	}
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$1,234.5", FormatCurrency(1234.5))
	assert.Equal(t, "$1,000,000", FormatCurrency(1e6))
	assert.Equal(t, "$0.123", FormatCurrency(0.123))
	assert.Equal(t, "$0.123", FormatCurrency(0.1234))
	assert.Equal(t, "-$42", FormatCurrency(-42))
}

func TestRenderer_UpdateReplacesInPlace(t *testing.T) {
	r := NewRenderer(640, 320, FormatPNG)
	meta := Meta{Symbol: "AAPL", DataType: "Historical Prices"}

	c := r.Update(nil, []string{"2024-01-01", "2024-01-02"}, []float64{1, 2}, meta)
	require.NotNil(t, c)
	assert.Equal(t, 1, r.Created())
	assert.Equal(t, 3, c.Radius)

	labels := make([]string, 150)
	values := make([]float64, 150)
	for i := range labels {
		labels[i] = "d"
		values[i] = float64(i)
	}
	same := r.Update(c, labels, values, meta)
	assert.Same(t, c, same)
	assert.Equal(t, 1, r.Created(), "update must not create a new handle")
	assert.Equal(t, 2, c.Revision)
	assert.Equal(t, 150, c.Points())
	assert.Equal(t, 1, c.Radius)
}

func TestChart_Render(t *testing.T) {
	r := NewRenderer(640, 320, FormatSVG)
	meta := Meta{Symbol: "AAPL", DataType: "Historical Prices"}

	t.Run("svg", func(t *testing.T) {
		c := r.Update(nil, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, []float64{100, 110, 105}, meta)
		var buf bytes.Buffer
		require.NoError(t, r.Render(c, &buf))
		assert.Contains(t, buf.String(), "<svg")
		assert.Contains(t, buf.String(), "AAPL - Historical Prices")
	})

	t.Run("png single point", func(t *testing.T) {
		c := r.Update(nil, []string{"2024-01-01"}, []float64{7}, meta)
		var buf bytes.Buffer
		require.NoError(t, c.Render(&buf, FormatPNG))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
	})

	t.Run("empty", func(t *testing.T) {
		c := r.Update(nil, nil, nil, meta)
		assert.ErrorIs(t, c.Render(&bytes.Buffer{}, FormatPNG), model.ErrNoData)
	})

	t.Run("unknown format", func(t *testing.T) {
		c := r.Update(nil, []string{"a"}, []float64{1}, meta)
		assert.Error(t, c.Render(&bytes.Buffer{}, Format("gif")))
	})
}

func TestRenderer_WriteFile(t *testing.T) {
	r := NewRenderer(320, 200, FormatSVG)
	c := r.Update(nil, []string{"2024-01-01", "2024-01-02"}, []float64{1, 2}, Meta{Symbol: "AAPL", DataType: "Historical Prices"})
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "chart.svg")

	require.NoError(t, r.WriteFile(c, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be renamed away")

	assert.Error(t, r.WriteFile(nil, path))
	empty := r.Update(nil, nil, nil, Meta{})
	assert.ErrorIs(t, r.WriteFile(empty, filepath.Join(dir, "empty.svg")), model.ErrNoData)
}

func TestXTicks_Capped(t *testing.T) {
	labels := make([]string, 300)
	for i := range labels {
		labels[i] = strings.Repeat("x", 3)
	}
	ticks := xTicks(labels)
	assert.LessOrEqual(t, len(ticks), MaxXLabels)
	assert.Equal(t, 0.0, ticks[0].Value)
	assert.Len(t, xTicks(labels[:4]), 4)
}

func TestSparkline(t *testing.T) {
	s := Sparkline([]float64{1, 2, 3, 4, 5, 6, 7, 8}, 40)
	assert.Equal(t, "▁▂▃▄▅▆▇█", s)

	long := make([]float64, 1000)
	for i := range long {
		long[i] = float64(i)
	}
	assert.Equal(t, 20, utf8.RuneCountInString(Sparkline(long, 20)))
	assert.Empty(t, Sparkline(nil, 10))
	assert.Equal(t, "▄▄", Sparkline([]float64{3, 3}, 10))
}

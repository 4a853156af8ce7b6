package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinAdventure/internal/model"
)

func TestBuild(t *testing.T) {
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"}
	values := []float64{100, 90, 120, 110}

	in, err := Build("AAPL", "Historical Prices", dates, values)
	require.NoError(t, err)
	assert.Equal(t, 4, in.Count)
	assert.Equal(t, "2024-01-01", in.FirstDate)
	assert.Equal(t, "2024-01-04", in.LastDate)
	assert.Equal(t, 90.0, in.Min)
	assert.Equal(t, 120.0, in.Max)
	assert.Equal(t, 105.0, in.Avg)
	assert.InDelta(t, 10.0, in.ChangePct, 1e-9)
	assert.InDelta(t, 2.0/3.0, in.Position, 1e-9)
	assert.Zero(t, in.SMA20)
	assert.Equal(t, 50.0, in.RSI14)
	assert.Equal(t, "strong uptrend", in.Trend)
}

func TestBuild_Empty(t *testing.T) {
	_, err := Build("AAPL", "x", nil, nil)
	assert.ErrorIs(t, err, model.ErrNoData)
}

func TestMapTrend(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{25, "strong uptrend"},
		{10, "strong uptrend"},
		{3, "uptrend"},
		{0, "sideways"},
		{-2, "sideways"},
		{-5, "downtrend"},
		{-30, "strong downtrend"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mapTrend(tt.pct), "pct=%v", tt.pct)
	}
}

func TestCommentary(t *testing.T) {
	values := make([]float64, 30)
	dates := make([]string, 30)
	for i := range values {
		values[i] = float64(100 + i)
		dates[i] = "d"
	}
	in, err := Build("X", "y", dates, values)
	require.NoError(t, err)
	notes := Commentary(in)
	assert.Equal(t, "Trend: strong uptrend", notes[0])
	assert.Contains(t, notes, "Trading near the top of the visible range")
	assert.Contains(t, notes, "RSI above 70: overbought")
	assert.Contains(t, notes, "Above the 20-point moving average")
}

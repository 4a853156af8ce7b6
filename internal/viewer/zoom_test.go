package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"FinAdventure/internal/model"
)

func TestZoomIn_ShrinksAndRecentres(t *testing.T) {
	got := ZoomIn(model.VisibleRange{Start: 0, Count: 100}, 100)
	assert.Equal(t, model.VisibleRange{Start: 12, Count: 75}, got)

	got = ZoomIn(model.VisibleRange{Start: 20, Count: 40}, 100)
	assert.Equal(t, model.VisibleRange{Start: 25, Count: 30}, got)
}

func TestZoomIn_Floor(t *testing.T) {
	cur := model.VisibleRange{Start: 0, Count: 100}
	for i := 0; i < 50; i++ {
		cur = ZoomIn(cur, 100)
	}
	assert.Equal(t, MinZoomPoints, cur.Count)

	short := ZoomIn(model.VisibleRange{Start: 0, Count: 6}, 6)
	assert.Equal(t, model.VisibleRange{Start: 0, Count: 6}, short)
}

func TestZoomOut_GrowsCentredInFull(t *testing.T) {
	got := ZoomOut(model.VisibleRange{Start: 70, Count: 20}, 100)
	assert.Equal(t, model.VisibleRange{Start: 37, Count: 25}, got)

	got = ZoomOut(model.VisibleRange{Start: 5, Count: 90}, 100)
	assert.Equal(t, model.VisibleRange{Start: 0, Count: 100}, got)

	full := model.VisibleRange{Start: 0, Count: 100}
	assert.Equal(t, full, ZoomOut(full, 100))
}

func TestZoom_DegenerateRangeIsNormalized(t *testing.T) {
	assert.Equal(t, model.VisibleRange{Start: 0, Count: 50}, ZoomOut(model.VisibleRange{Start: 50, Count: 0}, 50))
	assert.Equal(t, model.VisibleRange{Start: 6, Count: 37}, ZoomIn(model.VisibleRange{Start: 50, Count: 0}, 50))
	assert.Equal(t, model.VisibleRange{}, ZoomIn(model.VisibleRange{}, 0))
}

func TestZoom_Properties(t *testing.T) {
	for full := 1; full <= 400; full++ {
		start := model.VisibleRange{Start: 0, Count: full}
		in := ZoomIn(start, full)
		out := ZoomOut(in, full)

		assert.GreaterOrEqual(t, out.Count, in.Count, "full=%d", full)
		assert.LessOrEqual(t, out.Count, full, "full=%d", full)
		assert.GreaterOrEqual(t, in.Count, min(MinZoomPoints, full), "full=%d", full)

		cur := start
		for i := 0; i < 30; i++ {
			if i%3 == 2 {
				cur = ZoomOut(cur, full)
			} else {
				cur = ZoomIn(cur, full)
			}
			assert.Positive(t, cur.Count)
			assert.GreaterOrEqual(t, cur.Start, 0)
			assert.LessOrEqual(t, cur.End(), full)
		}
	}
}

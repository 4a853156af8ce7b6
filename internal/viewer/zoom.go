package viewer

import (
	"math"

	"FinAdventure/internal/model"
)

// MinZoomPoints is the smallest window ZoomIn produces, unless the series
// itself is shorter.
const MinZoomPoints = 10

const (
	zoomInFactor  = 0.75
	zoomOutFactor = 1.25
)

// normalize maps an empty or out-of-bounds range onto the full series.
func normalize(cur model.VisibleRange, full int) model.VisibleRange {
	if cur.Count <= 0 || cur.Start < 0 || cur.End() > full {
		return model.VisibleRange{Start: 0, Count: full}
	}
	return cur
}

// ZoomIn shrinks cur by 25%, never below MinZoomPoints (or full when the
// series is shorter), keeping it centred on the current window.
func ZoomIn(cur model.VisibleRange, full int) model.VisibleRange {
	if full <= 0 {
		return model.VisibleRange{}
	}
	cur = normalize(cur, full)
	floor := min(MinZoomPoints, full)
	newLen := max(floor, int(math.Floor(float64(cur.Count)*zoomInFactor)))
	if newLen >= cur.Count {
		return cur
	}
	return model.VisibleRange{Start: cur.Start + (cur.Count-newLen)/2, Count: newLen}
}

// ZoomOut grows cur by 25%, capped at the full length and centred within the
// full series. Showing everything already is a no-op.
func ZoomOut(cur model.VisibleRange, full int) model.VisibleRange {
	if full <= 0 {
		return model.VisibleRange{}
	}
	cur = normalize(cur, full)
	if cur.Start == 0 && cur.Count == full {
		return cur
	}
	newLen := min(full, int(math.Ceil(float64(cur.Count)*zoomOutFactor)))
	return model.VisibleRange{Start: max(0, (full-newLen)/2), Count: newLen}
}

// Package viewer owns a visualization session: the full series, the visible
// range derived from it by range filters and zoom, and the chart handle that
// shows that range.
package viewer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"FinAdventure/internal/model"
)

// Window is a relative date-range keyword.
type Window string

const (
	Window1M  Window = "1m"
	Window3M  Window = "3m"
	Window6M  Window = "6m"
	Window1Y  Window = "1y"
	WindowAll Window = "all"
)

// Windows lists every window in display order.
var Windows = []Window{Window1M, Window3M, Window6M, Window1Y, WindowAll}

// ParseWindow accepts a window keyword, case-insensitively.
func ParseWindow(s string) (Window, error) {
	w := Window(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Windows {
		if w == known {
			return w, nil
		}
	}
	return "", &model.ValidationError{Field: "window", Message: fmt.Sprintf("unknown range %q (want 1m, 3m, 6m, 1y or all)", s)}
}

// Cutoff returns the earliest date kept by w, as "YYYY-MM-DD", computed from
// now in UTC. WindowAll has no cutoff and returns "".
func Cutoff(w Window, now time.Time) string {
	now = now.UTC()
	var c time.Time
	switch w {
	case Window1M:
		c = now.AddDate(0, -1, 0)
	case Window3M:
		c = now.AddDate(0, -3, 0)
	case Window6M:
		c = now.AddDate(0, -6, 0)
	case Window1Y:
		c = now.AddDate(-1, 0, 0)
	default:
		return ""
	}
	return c.Format(time.DateOnly)
}

// FilterRange returns the range of s whose dates are on or after the cutoff
// for w. s must be in chronological order, so the result is a suffix.
func FilterRange(s *model.TimeSeries, w Window, now time.Time) model.VisibleRange {
	cutoff := Cutoff(w, now)
	if cutoff == "" {
		return model.FullRange(s)
	}
	n := s.Len()
	start := sort.Search(n, func(i int) bool { return s.Dates[i] >= cutoff })
	return model.VisibleRange{Start: start, Count: n - start}
}

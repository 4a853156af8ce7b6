package model

import (
	"fmt"
	"sort"
	"time"
)

// TimeSeries holds one named series as returned by the series endpoint.
// Dates are ISO 8601 "YYYY-MM-DD" strings and compare lexicographically.
type TimeSeries struct {
	Symbol    string
	DataType  string
	Dates     []string
	Values    []float64
	FetchedAt time.Time
}

// Len returns the number of points.
func (s *TimeSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Dates)
}

// Empty reports whether the series has no points.
func (s *TimeSeries) Empty() bool {
	return s.Len() == 0 || len(s.Values) == 0
}

// Validate checks that dates and values have the same length.
func (s *TimeSeries) Validate() error {
	if len(s.Dates) != len(s.Values) {
		return fmt.Errorf("series %s: %d dates but %d values", s.Symbol, len(s.Dates), len(s.Values))
	}
	return nil
}

// Sort orders the points by date, keeping the original order of equal dates.
func (s *TimeSeries) Sort() {
	if sort.StringsAreSorted(s.Dates) {
		return
	}
	idx := make([]int, len(s.Dates))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return s.Dates[idx[a]] < s.Dates[idx[b]] })
	dates := make([]string, len(idx))
	values := make([]float64, len(idx))
	for i, j := range idx {
		dates[i] = s.Dates[j]
		values[i] = s.Values[j]
	}
	s.Dates = dates
	s.Values = values
}

// VisibleRange is a contiguous index window [Start, Start+Count) into a
// TimeSeries. It never owns data.
type VisibleRange struct {
	Start int
	Count int
}

// End returns the exclusive end index.
func (r VisibleRange) End() int { return r.Start + r.Count }

// FullRange covers every point of s.
func FullRange(s *TimeSeries) VisibleRange {
	return VisibleRange{Start: 0, Count: s.Len()}
}

// Slice returns the dates and values inside r, clamped to the series bounds.
func (r VisibleRange) Slice(s *TimeSeries) ([]string, []float64) {
	n := s.Len()
	start, end := r.Start, r.End()
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start >= end {
		return []string{}, []float64{}
	}
	return s.Dates[start:end], s.Values[start:end]
}

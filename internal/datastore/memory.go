package datastore

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is a Store that lives only as long as the process.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	index   map[string]int
	runs    []PipelineRun
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{index: make(map[string]int)}
}

func (m *MemoryStore) SaveRecords(_ context.Context, records []Record) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		if i, ok := m.index[r.ID]; ok {
			m.records[i] = r
			continue
		}
		m.index[r.ID] = len(m.records)
		m.records = append(m.records, r)
	}
	return len(m.records), nil
}

func (m *MemoryStore) QuerySeries(_ context.Context, q SeriesQuery) ([]Point, Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stages := []struct {
		match Match
		keep  func(Record) bool
	}{
		{MatchExact, func(r Record) bool { return r.Description == q.Symbol && r.DataType == q.DataType }},
		{MatchSymbol, func(r Record) bool { return r.Description == q.Symbol }},
		{MatchPartial, func(r Record) bool {
			return strings.Contains(strings.ToLower(r.Description), strings.ToLower(q.Symbol))
		}},
	}
	for _, st := range stages {
		if pts := m.collect(q, st.keep); len(pts) > 0 {
			return pts, st.match, nil
		}
	}
	return []Point{}, MatchNone, nil
}

func (m *MemoryStore) collect(q SeriesQuery, keep func(Record) bool) []Point {
	var pts []Point
	for _, r := range m.records {
		if !keep(r) {
			continue
		}
		if q.StartDate != "" && r.Date < q.StartDate {
			continue
		}
		if q.EndDate != "" && r.Date > q.EndDate {
			continue
		}
		pts = append(pts, Point{Date: r.Date, Value: r.Value, DataType: r.DataType})
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Date < pts[j].Date })
	if q.Limit > 0 && len(pts) > q.Limit {
		pts = pts[:q.Limit]
	}
	return pts
}

func (m *MemoryStore) DataTypes(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, r := range m.records {
		if !seen[r.DataType] {
			seen[r.DataType] = true
			out = append(out, r.DataType)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryStore) RecordRun(_ context.Context, run PipelineRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run.RunID = int64(len(m.runs) + 1)
	m.runs = append(m.runs, run)
	return nil
}

func (m *MemoryStore) RecentRuns(_ context.Context, limit int) ([]PipelineRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]PipelineRun, 0, len(m.runs))
	for i := len(m.runs) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, m.runs[i])
	}
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }

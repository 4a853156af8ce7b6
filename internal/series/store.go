package series

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"FinAdventure/internal/model"
)

// ErrStaleResponse is returned when a newer fetch started while this one was
// in flight. Its result has been discarded.
var ErrStaleResponse = errors.New("stale series response discarded")

// Store holds the latest fetched series for one chart. Each fetch takes a
// generation number; only the newest generation may commit its result.
type Store struct {
	fetcher Fetcher
	logger  *zap.Logger

	mu      sync.Mutex
	gen     uint64
	current *model.TimeSeries
	key     Query
}

// NewStore creates a store backed by fetcher.
func NewStore(fetcher Fetcher, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{fetcher: fetcher, logger: logger}
}

// Begin starts a new request generation, superseding any fetch in flight.
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

// Fetch requests a series and replaces the held one in full. An empty series
// is committed too and reported as model.ErrNoData.
func (s *Store) Fetch(ctx context.Context, q Query) (*model.TimeSeries, error) {
	return s.FetchGen(ctx, s.Begin(), q)
}

// FetchGen is Fetch for a generation obtained earlier from Begin. It lets a
// caller mark the request as started before the network call runs.
func (s *Store) FetchGen(ctx context.Context, gen uint64, q Query) (*model.TimeSeries, error) {
	ts, err := s.fetcher.FetchSeries(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.logger.Debug("dropping stale series response",
			zap.String("symbol", q.Symbol),
			zap.Uint64("generation", gen),
			zap.Uint64("latest", s.gen),
		)
		return nil, ErrStaleResponse
	}
	if err != nil {
		return nil, err
	}
	s.current = ts
	s.key = q
	if ts.Empty() {
		return ts, model.ErrNoData
	}
	s.logger.Info("series loaded",
		zap.String("symbol", ts.Symbol),
		zap.String("data_type", ts.DataType),
		zap.Int("points", ts.Len()),
	)
	return ts, nil
}

// Current returns the held series and the query that produced it.
func (s *Store) Current() (*model.TimeSeries, Query) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.key
}

// Generation returns the newest request generation.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Fetcher returns the underlying fetcher.
func (s *Store) Fetcher() Fetcher { return s.fetcher }

package viewer

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"FinAdventure/internal/chart"
	"FinAdventure/internal/model"
	"FinAdventure/internal/series"
)

// Status is the session's display state.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusNoData
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusNoData:
		return "no_data"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// ViewState is the view-model a front end renders.
type ViewState struct {
	Status   Status
	Symbol   string
	DataType string
	Window   Window
	Range    model.VisibleRange
	Total    int
	Message  string
	Chart    *chart.Chart
	Err      error
}

// PointsLine returns "Showing N data points" for the visible range.
func (v ViewState) PointsLine() string {
	return fmt.Sprintf("Showing %d data points", v.Range.Count)
}

// Session is one visualization session. It owns the full series, the visible
// range and the chart handle; Close releases them.
type Session struct {
	renderer *chart.Renderer
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	symbol   string
	dataType string
	full     *model.TimeSeries
	visible  model.VisibleRange
	window   Window
	status   Status
	err      error
	handle   *chart.Chart
	closed   bool
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the clock used by range filters.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// NewSession creates an idle session drawing through renderer.
func NewSession(renderer *chart.Renderer, opts ...Option) *Session {
	s := &Session{
		renderer: renderer,
		logger:   zap.NewNop(),
		now:      time.Now,
		window:   WindowAll,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.renderer == nil {
		s.renderer = chart.NewRenderer(0, 0, chart.FormatPNG)
	}
	return s
}

// BeginLoad marks a fetch for symbol/dataType as in flight.
func (s *Session) BeginLoad(symbol, dataType string) ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.stateLocked()
	}
	s.symbol, s.dataType = symbol, dataType
	s.status = StatusLoading
	s.err = nil
	return s.stateLocked()
}

// Settle applies the outcome of a fetch. Stale responses are ignored, an
// empty series shows the no-data panel, any other error shows the error
// panel, and a series is loaded.
func (s *Session) Settle(ts *model.TimeSeries, err error) ViewState {
	switch {
	case errors.Is(err, series.ErrStaleResponse):
		return s.State()
	case errors.Is(err, model.ErrNoData), err == nil && ts.Empty():
		return s.setNoData(ts)
	case err != nil:
		return s.fail(err)
	}
	return s.Load(ts)
}

// Load replaces the held series wholesale and re-applies the active window.
// A series whose dates and values differ in length shows the error panel.
func (s *Session) Load(ts *model.TimeSeries) ViewState {
	if ts.Empty() {
		return s.setNoData(ts)
	}
	if err := ts.Validate(); err != nil {
		return s.fail(&model.TransportError{Op: "load series", Err: err})
	}
	if !sort.StringsAreSorted(ts.Dates) {
		cp := *ts
		cp.Sort()
		ts = &cp
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.stateLocked()
	}
	s.full = ts
	s.symbol, s.dataType = ts.Symbol, ts.DataType
	s.status = StatusReady
	s.err = nil
	s.visible = FilterRange(ts, s.window, s.now())
	s.renderLocked()
	s.logger.Debug("series loaded into session",
		zap.String("symbol", ts.Symbol),
		zap.Int("points", ts.Len()),
		zap.String("window", string(s.window)),
	)
	return s.stateLocked()
}

func (s *Session) setNoData(ts *model.TimeSeries) ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.stateLocked()
	}
	if ts != nil {
		if ts.Symbol != "" {
			s.symbol = ts.Symbol
		}
		if ts.DataType != "" {
			s.dataType = ts.DataType
		}
	}
	s.full = ts
	s.visible = model.VisibleRange{}
	s.status = StatusNoData
	s.err = model.ErrNoData
	return s.stateLocked()
}

func (s *Session) fail(err error) ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.stateLocked()
	}
	s.status = StatusError
	s.err = err
	s.logger.Warn("series load failed", zap.String("symbol", s.symbol), zap.Error(err))
	return s.stateLocked()
}

// ApplyWindow filters the full series to w.
func (s *Session) ApplyWindow(w Window) ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.readyLocked() {
		return s.stateLocked()
	}
	s.window = w
	s.visible = FilterRange(s.full, w, s.now())
	s.renderLocked()
	return s.stateLocked()
}

// ZoomIn narrows the visible range.
func (s *Session) ZoomIn() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.readyLocked() {
		return s.stateLocked()
	}
	s.visible = ZoomIn(s.visible, s.full.Len())
	s.renderLocked()
	return s.stateLocked()
}

// ZoomOut widens the visible range.
func (s *Session) ZoomOut() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.readyLocked() {
		return s.stateLocked()
	}
	s.visible = ZoomOut(s.visible, s.full.Len())
	s.renderLocked()
	return s.stateLocked()
}

// ResetZoom shows the full series and clears the range filter to all.
func (s *Session) ResetZoom() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.readyLocked() {
		return s.stateLocked()
	}
	s.window = WindowAll
	s.visible = model.FullRange(s.full)
	s.renderLocked()
	return s.stateLocked()
}

// Visible returns the dates and values currently shown.
func (s *Session) Visible() ([]string, []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.full == nil {
		return []string{}, []float64{}
	}
	return s.visible.Slice(s.full)
}

// Full returns the retained full series.
func (s *Session) Full() *model.TimeSeries {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.full
}

// State returns the current view-model.
func (s *Session) State() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Close releases the series and the chart handle. A closed session ignores
// further events.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.full = nil
	s.handle = nil
	s.visible = model.VisibleRange{}
	s.status = StatusIdle
	s.err = nil
}

func (s *Session) readyLocked() bool {
	return !s.closed && s.status == StatusReady && !s.full.Empty()
}

func (s *Session) renderLocked() {
	dates, values := s.visible.Slice(s.full)
	s.handle = s.renderer.Update(s.handle, dates, values, chart.Meta{Symbol: s.symbol, DataType: s.dataType})
}

func (s *Session) stateLocked() ViewState {
	v := ViewState{
		Status:   s.status,
		Symbol:   s.symbol,
		DataType: s.dataType,
		Window:   s.window,
		Range:    s.visible,
		Total:    s.full.Len(),
		Err:      s.err,
	}
	switch s.status {
	case StatusLoading:
		v.Message = "Loading chart data..."
	case StatusReady:
		v.Chart = s.handle
		v.Message = v.PointsLine()
	case StatusNoData:
		v.Message = NoDataMessage(s.symbol, s.dataType)
	case StatusError:
		v.Message = fmt.Sprintf("Error loading chart data: %v", s.err)
	}
	return v
}

// NoDataMessage is the text of the no-data panel.
func NoDataMessage(symbol, dataType string) string {
	return fmt.Sprintf("No %s data available for %s. Please run the pipeline first to fetch data.", dataType, symbol)
}

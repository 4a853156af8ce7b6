package viewer

import "FinAdventure/internal/model"

// EventKind identifies a user or network event.
type EventKind int

const (
	EventLoadStarted EventKind = iota
	EventLoaded
	EventRange
	EventZoomIn
	EventZoomOut
	EventReset
	EventClose
)

// Event is one input to Handle. Only the fields for its Kind are read.
type Event struct {
	Kind     EventKind
	Symbol   string
	DataType string
	Series   *model.TimeSeries
	Err      error
	Window   Window
}

// Handle applies ev to s and returns the resulting view state.
func Handle(s *Session, ev Event) ViewState {
	switch ev.Kind {
	case EventLoadStarted:
		return s.BeginLoad(ev.Symbol, ev.DataType)
	case EventLoaded:
		return s.Settle(ev.Series, ev.Err)
	case EventRange:
		return s.ApplyWindow(ev.Window)
	case EventZoomIn:
		return s.ZoomIn()
	case EventZoomOut:
		return s.ZoomOut()
	case EventReset:
		return s.ResetZoom()
	case EventClose:
		s.Close()
	}
	return s.State()
}

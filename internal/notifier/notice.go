package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"FinAdventure/internal/model"
	"FinAdventure/internal/series"
	"FinAdventure/internal/viewer"
)

// Level is a notice severity.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Action is an affordance offered next to a notice.
type Action string

const (
	ActionNone       Action = ""
	ActionOpenUpload Action = "open_upload"
)

// Notice is a user-visible message.
type Notice struct {
	Level   Level
	Title   string
	Message string
	Action  Action
}

// Hint returns the call to action for n.Action, or "".
func (n Notice) Hint() string {
	switch n.Action {
	case ActionOpenUpload:
		return "Upload data with: finadventure upload <file> --symbol <SYMBOL> --category <CATEGORY>"
	default:
		return ""
	}
}

// NoDataNotice is the no-data panel for symbol/dataType.
func NoDataNotice(symbol, dataType string) Notice {
	return Notice{
		Level:   LevelWarning,
		Title:   "No data available",
		Message: viewer.NoDataMessage(symbol, dataType),
		Action:  ActionOpenUpload,
	}
}

// FromError maps an error onto a notice. It reports false for nil and for
// stale responses, which are never shown.
func FromError(err error, symbol, dataType string) (Notice, bool) {
	if err == nil || errors.Is(err, series.ErrStaleResponse) {
		return Notice{}, false
	}

	var (
		pe *model.ParseError
		ue *model.UnsupportedFormatError
		ve *model.ValidationError
		te *model.TransportError
	)
	switch {
	case errors.Is(err, model.ErrNoData):
		return NoDataNotice(symbol, dataType), true
	case errors.Is(err, context.Canceled):
		return Notice{Level: LevelInfo, Title: "Cancelled", Message: "The operation was cancelled."}, true
	case errors.As(err, &ue):
		return Notice{
			Level:   LevelWarning,
			Title:   "Unsupported file format",
			Message: fmt.Sprintf("%s files are not supported yet. Please convert the file to CSV or JSON.", strings.ToUpper(ue.Format)),
		}, true
	case errors.As(err, &pe):
		return Notice{Level: LevelError, Title: "Could not parse file", Message: pe.Error()}, true
	case errors.As(err, &ve):
		return Notice{Level: LevelWarning, Title: "Check your input", Message: ve.Message}, true
	case errors.As(err, &te):
		return Notice{Level: LevelError, Title: "Request failed", Message: te.Error()}, true
	}
	return Notice{Level: LevelError, Title: "Error", Message: err.Error()}, true
}

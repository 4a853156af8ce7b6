// Package series fetches named time series from the series endpoint and
// keeps the latest one for a visualization session.
package series

import (
	"context"

	"FinAdventure/internal/model"
)

// Query selects one series. StartDate, EndDate and Limit are optional
// server-side filters.
type Query struct {
	Symbol    string
	DataType  string
	StartDate string
	EndDate   string
	Limit     int
}

// Fetcher defines the interface for fetching series data.
type Fetcher interface {
	FetchSeries(ctx context.Context, q Query) (*model.TimeSeries, error)
	DataTypes(ctx context.Context) ([]string, error)
	Name() string
}

// DefaultDataTypes is what a backend with no stored data offers.
var DefaultDataTypes = []string{"Historical Prices", "Income Statement"}

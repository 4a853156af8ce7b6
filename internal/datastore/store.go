// Package datastore keeps standardized records for the development API.
package datastore

import (
	"context"
	"time"
)

// Record is one standardized data point.
type Record struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
	DataType    string  `json:"data_type"`
}

// SeriesQuery selects points for a chart. Empty fields do not filter; Limit
// <= 0 means no limit.
type SeriesQuery struct {
	Symbol    string
	DataType  string
	StartDate string
	EndDate   string
	Limit     int
}

// Point is one row of a series query result.
type Point struct {
	Date     string
	Value    float64
	DataType string
}

// PipelineRun records one ingestion.
type PipelineRun struct {
	RunID            int64     `json:"run_id"`
	Timestamp        time.Time `json:"timestamp"`
	Status           string    `json:"status"`
	RecordsProcessed int       `json:"records_processed"`
}

// Match is the stage of the series lookup that produced a result.
type Match int

const (
	MatchNone    Match = iota
	MatchExact         // description and data type
	MatchSymbol        // description only
	MatchPartial       // description contains symbol
)

// Store persists records and answers series queries.
type Store interface {
	// SaveRecords stores records and returns the total record count.
	SaveRecords(ctx context.Context, records []Record) (int, error)
	// QuerySeries returns points ordered by date, trying an exact match
	// first, then the symbol alone, then a partial symbol match.
	QuerySeries(ctx context.Context, q SeriesQuery) ([]Point, Match, error)
	// DataTypes returns the distinct data types in name order.
	DataTypes(ctx context.Context) ([]string, error)
	RecordRun(ctx context.Context, run PipelineRun) error
	RecentRuns(ctx context.Context, limit int) ([]PipelineRun, error)
	Close() error
}

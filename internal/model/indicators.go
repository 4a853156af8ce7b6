package model

// SeriesInsight holds statistics computed over the visible part of a series.
type SeriesInsight struct {
	Symbol    string
	DataType  string
	Count     int
	FirstDate string
	LastDate  string
	First     float64
	Last      float64
	Min       float64
	Max       float64
	Avg       float64
	ChangePct float64
	SMA20     float64
	RSI14     float64
	Position  float64 // 0.0 ~ 1.0 within [Min, Max]
	Trend     string
}

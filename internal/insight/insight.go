// Package insight computes summary statistics and a short trend commentary
// for the visible part of a series.
package insight

import (
	"FinAdventure/internal/calculator"
	"FinAdventure/internal/model"
)

// Trend labels, strongest first.
var trendSteps = []struct {
	MinChangePct float64
	Label        string
}{
	{10, "strong uptrend"},
	{2, "uptrend"},
	{-2, "sideways"},
	{-10, "downtrend"},
}

// DefaultTrend is used for changes below -10%.
const DefaultTrend = "strong downtrend"

// mapTrend maps a percentage change to a trend label.
func mapTrend(changePct float64) string {
	for _, s := range trendSteps {
		if changePct >= s.MinChangePct {
			return s.Label
		}
	}
	return DefaultTrend
}

// Build computes statistics over the given dates and values. An empty input
// returns model.ErrNoData.
func Build(symbol, dataType string, dates []string, values []float64) (*model.SeriesInsight, error) {
	if len(values) == 0 || len(dates) != len(values) {
		return nil, model.ErrNoData
	}
	n := len(values)
	in := &model.SeriesInsight{
		Symbol:    symbol,
		DataType:  dataType,
		Count:     n,
		FirstDate: dates[0],
		LastDate:  dates[n-1],
		First:     values[0],
		Last:      values[n-1],
	}

	var err error
	if in.Max, in.Min, err = calculator.CalculateRange(values, 0); err != nil {
		return nil, err
	}
	if in.Avg, err = calculator.CalculateMean(values); err != nil {
		return nil, err
	}
	if in.ChangePct, err = calculator.CalculateChangePct(values); err != nil {
		return nil, err
	}
	if in.Position, err = calculator.CalculatePosition(in.Last, in.Max, in.Min); err != nil {
		return nil, err
	}
	// SMA20 stays 0 when there are fewer than 20 points.
	if sma, err := calculator.CalculateSMA(values, 20); err == nil {
		in.SMA20 = sma
	}
	if in.RSI14, err = calculator.CalculateRSI(values, 14); err != nil {
		return nil, err
	}
	in.Trend = mapTrend(in.ChangePct)
	return in, nil
}

// Commentary returns short observations about an insight, most important
// first.
func Commentary(in *model.SeriesInsight) []string {
	if in == nil {
		return nil
	}
	notes := []string{"Trend: " + in.Trend}
	switch {
	case in.Position >= 0.9:
		notes = append(notes, "Trading near the top of the visible range")
	case in.Position <= 0.1:
		notes = append(notes, "Trading near the bottom of the visible range")
	}
	if in.Count > 14 {
		switch {
		case in.RSI14 > 70:
			notes = append(notes, "RSI above 70: overbought")
		case in.RSI14 < 30:
			notes = append(notes, "RSI below 30: oversold")
		}
	}
	if in.SMA20 > 0 {
		if in.Last >= in.SMA20 {
			notes = append(notes, "Above the 20-point moving average")
		} else {
			notes = append(notes, "Below the 20-point moving average")
		}
	}
	return notes
}

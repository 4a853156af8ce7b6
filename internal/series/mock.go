package series

import (
	"context"
	"time"

	"FinAdventure/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	BasePrice float64
	Points    int
	Series    *model.TimeSeries // returned as-is when set
	Err       error
	End       time.Time // last generated date; zero means today
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchSeries(_ context.Context, q Query) (*model.TimeSeries, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Series != nil {
		s := *m.Series
		s.Dates = append([]string{}, m.Series.Dates...)
		s.Values = append([]float64{}, m.Series.Values...)
		s.FetchedAt = time.Now()
		return &s, nil
	}
	end := m.End
	if end.IsZero() {
		end = time.Now()
	}
	s := GenerateMockSeries(q.Symbol, q.DataType, m.BasePrice, m.Points, end)
	return s, nil
}

func (m *MockFetcher) DataTypes(_ context.Context) ([]string, error) {
	return append([]string{}, DefaultDataTypes...), nil
}

// GenerateMockSeries builds count daily points ending at end with a gentle
// upward drift around basePrice.
func GenerateMockSeries(symbol, dataType string, basePrice float64, count int, end time.Time) *model.TimeSeries {
	if basePrice == 0 {
		basePrice = 100
	}
	s := &model.TimeSeries{
		Symbol:    symbol,
		DataType:  dataType,
		Dates:     make([]string, count),
		Values:    make([]float64, count),
		FetchedAt: time.Now(),
	}
	for i := 0; i < count; i++ {
		s.Dates[i] = end.AddDate(0, 0, -(count - 1 - i)).Format(time.DateOnly)
		s.Values[i] = basePrice * (1 + float64(i-count/2)*0.001)
	}
	return s
}

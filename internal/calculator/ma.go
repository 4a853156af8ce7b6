// Package calculator computes statistics over series values.
package calculator

import (
	"errors"
)

// CalculateSMA computes the simple moving average of the last period values.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// CalculateMean returns the arithmetic mean of values.
func CalculateMean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New("no values provided")
	}
	return CalculateSMA(values, len(values))
}

// CalculateChangePct returns the percentage change from the first to the last
// value. A zero first value yields 0.
func CalculateChangePct(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New("no values provided")
	}
	first, last := values[0], values[len(values)-1]
	if first == 0 {
		return 0, nil
	}
	return (last - first) / first * 100, nil
}

package chart

import (
	"math"
	"strings"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws values as a one-line block chart of at most width cells.
// When there are more values than cells, each cell shows the mean of its
// bucket.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	cells := bucket(values, width)
	minV, maxV := cells[0], cells[0]
	for _, v := range cells {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	var sb strings.Builder
	top := len(sparkRunes) - 1
	for _, v := range cells {
		idx := top / 2
		if maxV > minV {
			idx = int(math.Round((v - minV) / (maxV - minV) * float64(top)))
		}
		sb.WriteRune(sparkRunes[idx])
	}
	return sb.String()
}

func bucket(values []float64, width int) []float64 {
	if len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := range out {
		lo := i * len(values) / width
		hi := (i + 1) * len(values) / width
		sum := 0.0
		for _, v := range values[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

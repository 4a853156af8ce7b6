package chart

import "github.com/dustin/go-humanize"

// radiusSteps maps point counts to marker radius. Denser charts get smaller
// markers.
var radiusSteps = []struct {
	MinPoints int
	Radius    int
}{
	{201, 0},
	{101, 1},
	{51, 2},
}

// DefaultRadius is used for 50 points or fewer.
const DefaultRadius = 3

// PointRadius returns the marker radius for a chart of n points.
func PointRadius(n int) int {
	for _, s := range radiusSteps {
		if n >= s.MinPoints {
			return s.Radius
		}
	}
	return DefaultRadius
}

// currencyDigits is the most fractional digits FormatCurrency keeps.
const currencyDigits = 3

// FormatCurrency renders v as a dollar amount with thousands separators and
// at most three decimals, e.g. 1234.5 -> "$1,234.5", 0.1234 -> "$0.123".
func FormatCurrency(v float64) string {
	if v < 0 {
		return "-$" + humanize.CommafWithDigits(-v, currencyDigits)
	}
	return "$" + humanize.CommafWithDigits(v, currencyDigits)
}

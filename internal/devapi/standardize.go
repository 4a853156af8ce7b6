package devapi

import (
	"strconv"
	"strings"
	"time"

	"FinAdventure/internal/datastore"
)

// FallbackDate is stored when a date matches none of the accepted layouts.
const FallbackDate = "1900-01-01"

// dateLayouts are tried in order. Single-digit fields parse with or without
// a leading zero.
var dateLayouts = []string{
	"2006-1-2",
	"1/2/2006",
	"2-Jan-2006",
	"Jan 2, 2006",
}

// StandardizeDate converts s to "YYYY-MM-DD", or FallbackDate when no layout
// matches.
func StandardizeDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	return FallbackDate
}

// CleanValue converts a submitted value to a number. Strings keep only
// digits, '.' and '-' before parsing ("$1,200.50" -> 1200.5); anything
// unparseable becomes 0.
func CleanValue(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				return r
			}
			return -1
		}, x)
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if x {
			return 1
		}
	}
	return 0
}

// Standardize turns submitted items into records for symbol and category.
// A missing or empty description falls back to symbol.
func Standardize(items []map[string]any, symbol, category string, newID func() string) []datastore.Record {
	out := make([]datastore.Record, 0, len(items))
	for _, item := range items {
		date, _ := item["date"].(string)
		desc, _ := item["description"].(string)
		if desc == "" {
			desc = symbol
		}
		out = append(out, datastore.Record{
			ID:          newID(),
			Date:        StandardizeDate(date),
			Value:       CleanValue(item["value"]),
			Description: desc,
			DataType:    category,
		})
	}
	return out
}

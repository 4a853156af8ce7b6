package ingest

import (
	"fmt"

	"FinAdventure/internal/model"
)

// DefaultPreviewRows caps the preview table.
const DefaultPreviewRows = 10

// PreviewTable is the view-model for the data preview: every discovered
// header as a column and at most the capped number of rows.
type PreviewTable struct {
	Headers []string
	Rows    [][]string
	Shown   int
	Total   int
}

// Empty reports whether there is nothing to show.
func (t PreviewTable) Empty() bool { return t.Total == 0 }

// CountLine is the caption under the table.
func (t PreviewTable) CountLine() string {
	return fmt.Sprintf("Showing first %d of %d rows", t.Shown, t.Total)
}

// RenderPreview builds the preview for ds. A non-positive limit falls back to
// DefaultPreviewRows.
func RenderPreview(ds *model.Dataset, limit int) PreviewTable {
	if limit <= 0 {
		limit = DefaultPreviewRows
	}
	if ds == nil {
		return PreviewTable{Headers: []string{}, Rows: [][]string{}}
	}
	shown := min(limit, len(ds.Rows))
	t := PreviewTable{
		Headers: append([]string{}, ds.Headers...),
		Rows:    make([][]string, 0, shown),
		Shown:   shown,
		Total:   len(ds.Rows),
	}
	for _, row := range ds.Rows[:shown] {
		cells := make([]string, len(ds.Headers))
		for j, h := range ds.Headers {
			cells[j] = row[h]
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

package ingest

import (
	"fmt"
	"testing"

	"FinAdventure/internal/model"
)

func datasetWithRows(n int) *model.Dataset {
	ds := &model.Dataset{Headers: []string{"date", "value"}}
	for i := 0; i < n; i++ {
		ds.Rows = append(ds.Rows, model.RawRow{
			"date":  fmt.Sprintf("2024-01-%02d", i+1),
			"value": fmt.Sprintf("%d", 100+i),
		})
	}
	return ds
}

func TestRenderPreview_CapsRows(t *testing.T) {
	tbl := RenderPreview(datasetWithRows(25), DefaultPreviewRows)
	if tbl.Shown != 10 || len(tbl.Rows) != 10 {
		t.Fatalf("expected 10 rows shown, got shown=%d rows=%d", tbl.Shown, len(tbl.Rows))
	}
	if tbl.Total != 25 {
		t.Errorf("expected total 25, got %d", tbl.Total)
	}
	if got := tbl.CountLine(); got != "Showing first 10 of 25 rows" {
		t.Errorf("unexpected count line %q", got)
	}
	if tbl.Rows[9][0] != "2024-01-10" || tbl.Rows[9][1] != "109" {
		t.Errorf("unexpected last row %v", tbl.Rows[9])
	}
}

func TestRenderPreview_FewerThanCap(t *testing.T) {
	tbl := RenderPreview(datasetWithRows(3), 0)
	if tbl.Shown != 3 || tbl.Total != 3 {
		t.Fatalf("expected 3 of 3, got %d of %d", tbl.Shown, tbl.Total)
	}
	if got := tbl.CountLine(); got != "Showing first 3 of 3 rows" {
		t.Errorf("unexpected count line %q", got)
	}
}

func TestRenderPreview_Empty(t *testing.T) {
	if !RenderPreview(nil, 10).Empty() {
		t.Error("nil dataset should render empty")
	}
	tbl := RenderPreview(&model.Dataset{Headers: []string{"a"}}, 10)
	if !tbl.Empty() || len(tbl.Headers) != 1 {
		t.Errorf("expected empty table with headers, got %+v", tbl)
	}
}

// Package notifier renders notices, previews, results and insights for the
// terminal and delivers them to an output.
package notifier

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"FinAdventure/internal/chart"
	"FinAdventure/internal/ingest"
	"FinAdventure/internal/insight"
	"FinAdventure/internal/model"
	"FinAdventure/internal/uploader"
	"FinAdventure/internal/viewer"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	levelColors = map[Level]lipgloss.Color{
		LevelInfo:    lipgloss.Color("39"),
		LevelSuccess: lipgloss.Color("42"),
		LevelWarning: lipgloss.Color("214"),
		LevelError:   lipgloss.Color("196"),
	}
)

// FormatNotice renders a notice as a bordered panel.
func FormatNotice(n Notice) string {
	color := levelColors[n.Level]
	var b strings.Builder
	b.WriteString(titleStyle.Foreground(color).Render(n.Title))
	if n.Message != "" {
		b.WriteString("\n")
		b.WriteString(n.Message)
	}
	if hint := n.Hint(); hint != "" {
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render(hint))
	}
	return panelStyle.BorderForeground(color).Render(b.String())
}

// FormatPreview renders the preview table, its count line and the current
// mapping lines.
func FormatPreview(p ingest.PreviewTable, mapping []ingest.MappingLine) string {
	var b strings.Builder
	if len(p.Headers) == 0 {
		b.WriteString(mutedStyle.Render("No data to preview"))
		return b.String()
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(p.Headers...).
		Rows(p.Rows...)
	b.WriteString(t.String())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(p.CountLine()))
	if len(mapping) > 0 {
		b.WriteString("\n\n")
		b.WriteString(titleStyle.Render("Column mapping"))
		for _, line := range mapping {
			b.WriteString("\n  ")
			b.WriteString(line.String())
		}
	}
	return b.String()
}

// FormatSubmitResult renders a successful submit.
func FormatSubmitResult(res *uploader.Result) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Processed %d records for %s (%s)", res.RecordsProcessed, res.Symbol, res.Category))
	if res.TotalRecords > 0 {
		b.WriteString(fmt.Sprintf("\nTotal records stored: %d", res.TotalRecords))
	}
	if res.Message != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(res.Message))
	}
	return FormatNotice(Notice{Level: LevelSuccess, Title: "Upload complete", Message: b.String()})
}

// FormatInsight renders statistics over the visible range.
func FormatInsight(in *model.SeriesInsight) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %s", in.Symbol, in.DataType)))
	b.WriteString(fmt.Sprintf("\n%s to %s (%d points)\n", in.FirstDate, in.LastDate, in.Count))
	b.WriteString(fmt.Sprintf("Last: %s  Change: %+.2f%%\n", chart.FormatCurrency(in.Last), in.ChangePct))
	b.WriteString(fmt.Sprintf("Min: %s  Max: %s  Avg: %s\n",
		chart.FormatCurrency(in.Min), chart.FormatCurrency(in.Max), chart.FormatCurrency(in.Avg)))
	if in.SMA20 > 0 {
		b.WriteString(fmt.Sprintf("SMA20: %s  ", chart.FormatCurrency(in.SMA20)))
	}
	b.WriteString(fmt.Sprintf("RSI14: %.1f  Position: %.0f%%", in.RSI14, in.Position*100))
	for _, note := range insight.Commentary(in) {
		b.WriteString("\n- ")
		b.WriteString(note)
	}
	return b.String()
}

// FormatViewState renders a session view state without the chart image.
func FormatViewState(v viewer.ViewState) string {
	switch v.Status {
	case viewer.StatusNoData:
		return FormatNotice(NoDataNotice(v.Symbol, v.DataType))
	case viewer.StatusError:
		n, ok := FromError(v.Err, v.Symbol, v.DataType)
		if !ok {
			return ""
		}
		return FormatNotice(n)
	case viewer.StatusReady:
		return fmt.Sprintf("%s  [%s]  %s", titleStyle.Render(fmt.Sprintf("%s - %s", v.Symbol, v.DataType)), v.Window, mutedStyle.Render(v.PointsLine()))
	default:
		return mutedStyle.Render(v.Message)
	}
}

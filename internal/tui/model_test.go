package tui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinAdventure/internal/chart"
	"FinAdventure/internal/model"
	"FinAdventure/internal/series"
	"FinAdventure/internal/viewer"
)

var testNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, f series.Fetcher) Model {
	t.Helper()
	r := chart.NewRenderer(320, 200, chart.FormatPNG)
	sess := viewer.NewSession(r, viewer.WithClock(func() time.Time { return testNow }))
	q := series.Query{Symbol: "AAPL", DataType: "Historical Prices"}
	return New(context.Background(), series.NewStore(f, nil), sess, r, q, filepath.Join(t.TempDir(), "out.png"), nil)
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm
}

func loaded(t *testing.T, f series.Fetcher) Model {
	t.Helper()
	m := newTestModel(t, f)
	require.True(t, m.Loading())
	assert.Equal(t, viewer.StatusLoading, m.State().Status)
	return update(t, m, m.fetchCmd()())
}

func TestModel_LoadShowsChart(t *testing.T) {
	m := loaded(t, &series.MockFetcher{BasePrice: 150, Points: 120, End: testNow})

	assert.False(t, m.Loading())
	assert.Equal(t, viewer.StatusReady, m.State().Status)
	assert.Equal(t, 120, m.State().Range.Count)
	view := m.View()
	assert.Contains(t, view, "Showing 120 data points")
	assert.Contains(t, view, "AAPL - Historical Prices")
}

func TestModel_Keys(t *testing.T) {
	m := loaded(t, &series.MockFetcher{BasePrice: 150, Points: 120, End: testNow})

	m = update(t, m, keyMsg("+"))
	assert.Equal(t, 90, m.State().Range.Count)

	m = update(t, m, keyMsg("r"))
	assert.Equal(t, 120, m.State().Range.Count)

	m = update(t, m, keyMsg("1"))
	assert.Equal(t, viewer.Window1M, m.State().Window)
	assert.Equal(t, 32, m.State().Range.Count)

	m = update(t, m, keyMsg("-"))
	assert.Equal(t, 40, m.State().Range.Count)

	m = update(t, m, keyMsg("5"))
	assert.Equal(t, 120, m.State().Range.Count)
}

func TestModel_StaleFetchDropped(t *testing.T) {
	m := newTestModel(t, &series.MockFetcher{BasePrice: 150, Points: 50, End: testNow})

	older := m.fetchCmd()
	newer := m.fetchCmd()
	newMsg := newer()
	oldMsg := older()

	fm, ok := oldMsg.(fetchedMsg)
	require.True(t, ok)
	assert.ErrorIs(t, fm.err, series.ErrStaleResponse)

	m = update(t, m, oldMsg)
	assert.True(t, m.Loading(), "stale result must not settle the view")

	m = update(t, m, newMsg)
	assert.False(t, m.Loading())
	assert.Equal(t, viewer.StatusReady, m.State().Status)
}

func TestModel_RefetchWhileLoadingKeepsOneSpinner(t *testing.T) {
	m := newTestModel(t, &series.MockFetcher{BasePrice: 150, Points: 30, End: testNow})
	require.True(t, m.Loading())

	_, cmd := m.Update(keyMsg("f"))
	require.NotNil(t, cmd)
	_, isFetch := cmd().(fetchedMsg)
	assert.True(t, isFetch, "no extra spinner tick while a fetch is in flight")

	m = update(t, m, m.fetchCmd()())
	require.False(t, m.Loading())
	_, cmd = m.Update(keyMsg("f"))
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok, "fetch from idle starts the spinner")
	assert.Len(t, batch, 2)
}

func TestModel_NoDataAndError(t *testing.T) {
	m := loaded(t, &series.MockFetcher{Series: &model.TimeSeries{Symbol: "AAPL", DataType: "Historical Prices"}})
	assert.Equal(t, viewer.StatusNoData, m.State().Status)
	assert.Contains(t, m.View(), "No Historical Prices data available for AAPL")

	m = loaded(t, &series.MockFetcher{Err: &model.TransportError{Op: "fetch series", StatusCode: 500, Err: errors.New("boom")}})
	assert.Equal(t, viewer.StatusError, m.State().Status)
	assert.Contains(t, m.View(), "Request failed")
	assert.Contains(t, m.State().Message, "Error loading chart data")
}

func TestModel_SaveAndQuit(t *testing.T) {
	m := newTestModel(t, &series.MockFetcher{BasePrice: 150, Points: 30, End: testNow})
	m = update(t, m, keyMsg("s"))
	assert.Contains(t, m.View(), "Nothing to save yet")

	m = update(t, m, m.fetchCmd()())
	m = update(t, m, keyMsg("s"))
	assert.Contains(t, m.View(), "Saved chart to")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

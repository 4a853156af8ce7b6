package devapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"FinAdventure/internal/datastore"
	"FinAdventure/internal/ingest"
	"FinAdventure/internal/model"
	"FinAdventure/internal/series"
	"FinAdventure/internal/uploader"
)

func newTestServer(t *testing.T) (*httptest.Server, datastore.Store) {
	t.Helper()
	store := datastore.NewMemoryStore()
	srv := httptest.NewServer(Routes(NewHandler(store, zap.NewNop())))
	t.Cleanup(srv.Close)
	return srv, store
}

func TestRoundTrip_UploadThenFetch(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	ds, err := ingest.NewParser().ParseCSV("Date,Close\n01/03/2024,\"$1,030\"\n2024-01-01,1000\n\"Jan 2, 2024\",1010\n")
	require.NoError(t, err)

	sub := uploader.NewSubmitter(srv.URL+"/process_uploaded_data", "", zap.NewNop())
	res, err := sub.Submit(ctx, uploader.Batch{
		Rows:     ds.Rows,
		Mapping:  model.ColumnMapping{DateColumn: "Date", ValueColumn: "Close"},
		Symbol:   "aapl",
		Category: "Historical Prices",
	})
	require.NoError(t, err)
	assert.Equal(t, "success", res.Status)
	assert.Equal(t, 3, res.RecordsProcessed)
	assert.Equal(t, 3, res.TotalRecords)
	assert.Equal(t, "AAPL", res.Symbol)

	f := series.NewHTTPFetcher(srv.URL, "/api/historical_chart_data", "/api/data_types", "", zap.NewNop())
	s, err := f.FetchSeries(ctx, series.Query{Symbol: "AAPL", DataType: "Historical Prices"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, s.Dates)
	assert.Equal(t, []float64{1000, 1010, 1030}, s.Values)

	types, err := f.DataTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Historical Prices"}, types)
}

func TestHistoricalChartData_EmptyIsWellFormed(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/historical_chart_data/TSLA?data_type=" + url.QueryEscape("Income Statement"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []any{}, body["dates"])
	assert.Equal(t, []any{}, body["values"])
	assert.NotContains(t, body, "error")

	f := series.NewHTTPFetcher(srv.URL, "/api/historical_chart_data", "/api/data_types", "", nil)
	st := series.NewStore(f, nil)
	_, err = st.Fetch(context.Background(), series.Query{Symbol: "TSLA", DataType: "Income Statement"})
	assert.ErrorIs(t, err, model.ErrNoData)
}

func TestHistoricalChartData_StatsAndFilters(t *testing.T) {
	srv, store := newTestServer(t)
	_, err := store.SaveRecords(context.Background(), []datastore.Record{
		{ID: "a", Date: "2024-01-01", Value: 10, Description: "AAPL", DataType: "Historical Prices"},
		{ID: "b", Date: "2024-01-02", Value: 20, Description: "AAPL", DataType: "Historical Prices"},
		{ID: "c", Date: "2024-01-03", Value: 30, Description: "AAPL", DataType: "Historical Prices"},
	})
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/api/historical_chart_data/AAPL?data_type=Historical+Prices&start_date=2024-01-02&limit=5")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body seriesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"2024-01-02", "2024-01-03"}, body.Dates)
	require.NotNil(t, body.Stats)
	assert.Equal(t, 2, body.Stats.Count)
	assert.Equal(t, 25.0, body.Stats.Avg)
	assert.Equal(t, "2024-01-03", body.Stats.LastDate)
	assert.Equal(t, 2, body.DataPoints)

	bad, err := http.Get(srv.URL + "/api/historical_chart_data/AAPL?limit=abc")
	require.NoError(t, err)
	bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestProcessUpload_Rejections(t *testing.T) {
	h := NewHandler(datastore.NewMemoryStore(), zap.NewNop())
	tests := []struct {
		name string
		form url.Values
		msg  string
	}{
		{"missing symbol", url.Values{"data": {`[{"date":"2024-01-01","value":"1"}]`}}, "Missing required data"},
		{"missing data", url.Values{"symbol": {"AAPL"}}, "Missing required data"},
		{"empty data", url.Values{"symbol": {"AAPL"}, "data": {"[]"}}, "No data to process"},
		{"bad json", url.Values{"symbol": {"AAPL"}, "data": {"[{"}}, "Error processing data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/process_uploaded_data", strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			h.ProcessUpload(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, "error", body["status"])
			assert.Contains(t, body["message"], tt.msg)
		})
	}
}

func TestDataTypes_Defaults(t *testing.T) {
	srv, _ := newTestServer(t)
	f := series.NewHTTPFetcher(srv.URL, "/api/historical_chart_data", "/api/data_types", "", nil)
	types, err := f.DataTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, series.DefaultDataTypes, types)
}

func TestPipelineRuns(t *testing.T) {
	srv, _ := newTestServer(t)
	form := url.Values{"symbol": {"msft"}, "category": {"Income Statement"}, "data": {`[{"date":"2024-01-01","value":"5"}]`}}
	resp, err := http.PostForm(srv.URL+"/process_uploaded_data", form)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/pipeline_runs")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body struct {
		Runs []datastore.PipelineRun `json:"runs"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Runs, 1)
	assert.Equal(t, 1, body.Runs[0].RecordsProcessed)
	assert.Equal(t, "SUCCESS", body.Runs[0].Status)
}

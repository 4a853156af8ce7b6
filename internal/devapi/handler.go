// Package devapi serves a local stand-in for the ingestion and series
// endpoints:
//   - POST /process_uploaded_data            multipart form: data, symbol, category
//   - GET  /api/historical_chart_data/{symbol} ?data_type=&start_date=&end_date=&limit=
//   - GET  /api/data_types
//   - GET  /api/pipeline_runs                 ?limit=
package devapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"FinAdventure/internal/datastore"
	"FinAdventure/internal/series"
)

const (
	defaultCategory  = "Custom Data"
	defaultDataType  = "Historical Prices"
	defaultLimit     = 500
	maxUploadMemory  = 32 << 20
	defaultRunsLimit = 10
)

// Handler serves the development API from a datastore.
type Handler struct {
	store  datastore.Store
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewHandler creates a new devapi handler.
func NewHandler(store datastore.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// uploadResponse mirrors what the submitter decodes.
type uploadResponse struct {
	Status           string `json:"status"`
	Message          string `json:"message"`
	RecordsProcessed int    `json:"records_processed"`
	TotalRecords     int    `json:"total_records"`
	Symbol           string `json:"symbol"`
	Category         string `json:"category"`
}

// Stats summarizes a series response.
type Stats struct {
	Count     int     `json:"count"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Avg       float64 `json:"avg"`
	FirstDate string  `json:"first_date"`
	LastDate  string  `json:"last_date"`
}

type seriesResponse struct {
	Symbol     string    `json:"symbol"`
	Dates      []string  `json:"dates"`
	Values     []float64 `json:"values"`
	DataType   string    `json:"data_type"`
	Stats      *Stats    `json:"stats,omitempty"`
	DataPoints int       `json:"data_points"`
}

// ProcessUpload handles POST /process_uploaded_data.
func (h *Handler) ProcessUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil && err != http.ErrNotMultipart {
		writeStatusError(w, "Invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}
	data := r.FormValue("data")
	symbol := strings.ToUpper(strings.TrimSpace(r.FormValue("symbol")))
	category := strings.TrimSpace(r.FormValue("category"))
	if category == "" {
		category = defaultCategory
	}
	if data == "" || symbol == "" {
		writeStatusError(w, "Missing required data", http.StatusBadRequest)
		return
	}

	var items []map[string]any
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		writeStatusError(w, "Error processing data: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(items) == 0 {
		writeStatusError(w, "No data to process", http.StatusBadRequest)
		return
	}

	records := Standardize(items, symbol, category, h.newID)
	total, err := h.store.SaveRecords(r.Context(), records)
	if err != nil {
		h.logger.Error("failed to save records", zap.String("symbol", symbol), zap.Error(err))
		writeStatusError(w, "Error processing data: "+err.Error(), http.StatusInternalServerError)
		return
	}
	run := datastore.PipelineRun{Timestamp: h.now(), Status: "SUCCESS", RecordsProcessed: len(records)}
	if err := h.store.RecordRun(r.Context(), run); err != nil {
		h.logger.Warn("failed to record pipeline run", zap.Error(err))
	}

	h.logger.Info("records stored",
		zap.String("symbol", symbol),
		zap.String("category", category),
		zap.Int("records", len(records)),
		zap.Int("total", total),
		zap.String("request_id", r.Header.Get("X-Request-ID")),
	)
	writeJSON(w, http.StatusOK, uploadResponse{
		Status:           "success",
		Message:          fmt.Sprintf("Successfully processed %d records", len(records)),
		RecordsProcessed: len(records),
		TotalRecords:     total,
		Symbol:           symbol,
		Category:         category,
	})
}

// HistoricalChartData handles GET /api/historical_chart_data/{symbol}. A
// symbol with no data gets a well-formed response with empty arrays.
func (h *Handler) HistoricalChartData(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	qs := r.URL.Query()
	dataType := qs.Get("data_type")
	if dataType == "" {
		dataType = defaultDataType
	}
	limit := defaultLimit
	if raw := qs.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSONError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	pts, match, err := h.store.QuerySeries(r.Context(), datastore.SeriesQuery{
		Symbol:    symbol,
		DataType:  dataType,
		StartDate: qs.Get("start_date"),
		EndDate:   qs.Get("end_date"),
		Limit:     limit,
	})
	if err != nil {
		h.logger.Error("series query failed", zap.String("symbol", symbol), zap.Error(err))
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := seriesResponse{
		Symbol:   symbol,
		Dates:    make([]string, len(pts)),
		Values:   make([]float64, len(pts)),
		DataType: dataType,
	}
	for i, p := range pts {
		resp.Dates[i] = p.Date
		resp.Values[i] = p.Value
		resp.DataType = p.DataType
	}
	resp.DataPoints = len(pts)
	resp.Stats = computeStats(resp.Dates, resp.Values)

	h.logger.Debug("series served",
		zap.String("symbol", symbol),
		zap.String("data_type", dataType),
		zap.Int("match", int(match)),
		zap.Int("points", len(pts)),
	)
	writeJSON(w, http.StatusOK, resp)
}

// DataTypes handles GET /api/data_types.
func (h *Handler) DataTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.store.DataTypes(r.Context())
	if err != nil {
		h.logger.Error("data types query failed", zap.Error(err))
		writeJSON(w, http.StatusOK, map[string]any{"error": err.Error(), "data_types": series.DefaultDataTypes})
		return
	}
	if len(types) == 0 {
		types = series.DefaultDataTypes
	}
	writeJSON(w, http.StatusOK, map[string]any{"data_types": types})
}

// PipelineRuns handles GET /api/pipeline_runs.
func (h *Handler) PipelineRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	runs, err := h.store.RecentRuns(r.Context(), limit)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []datastore.PipelineRun{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func computeStats(dates []string, values []float64) *Stats {
	if len(values) == 0 {
		return nil
	}
	st := &Stats{Count: len(values), Min: values[0], Max: values[0], FirstDate: dates[0], LastDate: dates[len(dates)-1]}
	sum := 0.0
	for _, v := range values {
		st.Min = min(st.Min, v)
		st.Max = max(st.Max, v)
		sum += v
	}
	st.Avg = sum / float64(len(values))
	return st
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeJSONError writes {"error": msg}.
func writeJSONError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeStatusError writes {"status": "error", "message": msg}, the shape the
// upload endpoint uses.
func writeStatusError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"status": "error", "message": msg})
}

package series

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"FinAdventure/internal/model"
)

// HTTPFetcher implements Fetcher against the historical chart data API.
type HTTPFetcher struct {
	BaseURL       string
	SeriesPath    string
	DataTypesPath string
	Client        *http.Client
	logger        *zap.Logger
}

// NewHTTPFetcher creates a new fetcher with optional proxy support. No client
// timeout is set; callers cancel through the context.
func NewHTTPFetcher(baseURL, seriesPath, dataTypesPath, proxyURL string, logger *zap.Logger) *HTTPFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPFetcher{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		SeriesPath:    seriesPath,
		DataTypesPath: dataTypesPath,
		Client:        &http.Client{Transport: transport},
		logger:        logger,
	}
}

func (f *HTTPFetcher) Name() string { return "http" }

// seriesResponse is the expected JSON shape from the series endpoint.
type seriesResponse struct {
	Dates    []string  `json:"dates"`
	Values   []float64 `json:"values"`
	Symbol   string    `json:"symbol"`
	DataType string    `json:"data_type"`
	Error    string    `json:"error"`
}

// SeriesURL builds <base><series_path>/<symbol>?data_type=... plus the
// optional filters.
func (f *HTTPFetcher) SeriesURL(q Query) string {
	params := url.Values{}
	params.Set("data_type", q.DataType)
	if q.StartDate != "" {
		params.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		params.Set("end_date", q.EndDate)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	return fmt.Sprintf("%s%s/%s?%s", f.BaseURL, strings.TrimRight(f.SeriesPath, "/"), url.PathEscape(q.Symbol), params.Encode())
}

func (f *HTTPFetcher) FetchSeries(ctx context.Context, q Query) (*model.TimeSeries, error) {
	if strings.TrimSpace(q.Symbol) == "" {
		return nil, &model.ValidationError{Field: "symbol", Message: "symbol is required"}
	}
	endpoint := f.SeriesURL(q)
	f.logger.Debug("fetching series", zap.String("url", endpoint))

	var payload seriesResponse
	status, err := f.getJSON(ctx, endpoint, &payload)
	if err != nil {
		return nil, &model.TransportError{Op: "fetch series", StatusCode: status, Err: err}
	}
	if payload.Error != "" {
		return nil, &model.TransportError{Op: "fetch series", StatusCode: status, Err: errors.New(payload.Error)}
	}

	s := &model.TimeSeries{
		Symbol:    payload.Symbol,
		DataType:  payload.DataType,
		Dates:     payload.Dates,
		Values:    payload.Values,
		FetchedAt: time.Now(),
	}
	if s.Symbol == "" {
		s.Symbol = q.Symbol
	}
	if s.DataType == "" {
		s.DataType = q.DataType
	}
	if err := s.Validate(); err != nil {
		return nil, &model.TransportError{Op: "fetch series", StatusCode: status, Err: err}
	}
	// Ensure chronological order.
	s.Sort()
	return s, nil
}

// DataTypes lists the categories the backend holds data for.
func (f *HTTPFetcher) DataTypes(ctx context.Context) ([]string, error) {
	var payload struct {
		DataTypes []string `json:"data_types"`
	}
	status, err := f.getJSON(ctx, f.BaseURL+f.DataTypesPath, &payload)
	if err != nil {
		return nil, &model.TransportError{Op: "fetch data types", StatusCode: status, Err: err}
	}
	if len(payload.DataTypes) == 0 {
		return append([]string{}, DefaultDataTypes...), nil
	}
	return payload.DataTypes, nil
}

func (f *HTTPFetcher) getJSON(ctx context.Context, endpoint string, v any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := f.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return resp.StatusCode, errors.New(e.Error)
		}
		return resp.StatusCode, fmt.Errorf("body: %s", strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return resp.StatusCode, fmt.Errorf("decode: %w", err)
	}
	return resp.StatusCode, nil
}

// Package uploader maps parsed rows onto normalized records and submits the
// batch to the ingestion endpoint.
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"FinAdventure/internal/ingest"
	"FinAdventure/internal/model"
)

// Batch is everything one submit sends.
type Batch struct {
	Rows     []model.RawRow
	Mapping  model.ColumnMapping
	Symbol   string
	Category string
}

// Result is the ingestion endpoint's reply.
type Result struct {
	Status           string `json:"status"`
	Message          string `json:"message"`
	RecordsProcessed int    `json:"records_processed"`
	TotalRecords     int    `json:"total_records"`
	Symbol           string `json:"symbol"`
	Category         string `json:"category"`
	RequestID        string `json:"-"`
}

// Submitter posts normalized batches to the ingestion endpoint. It never
// retries; a failure is reported once.
type Submitter struct {
	Endpoint string
	Client   *http.Client
	logger   *zap.Logger
}

// NewSubmitter creates a submitter with optional proxy support.
func NewSubmitter(endpoint, proxyURL string, logger *zap.Logger) *Submitter {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Submitter{
		Endpoint: endpoint,
		Client:   &http.Client{Transport: transport},
		logger:   logger,
	}
}

// NormalizeSymbol trims and upper-cases a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Normalize maps each row through the column mapping. Date and value are
// copied verbatim. The description falls back to symbol when no description
// column is mapped or the row's cell is empty.
func Normalize(rows []model.RawRow, mapping model.ColumnMapping, symbol string) ([]model.NormalizedRecord, error) {
	if err := ingest.ValidateMapping(mapping); err != nil {
		return nil, err
	}
	out := make([]model.NormalizedRecord, len(rows))
	for i, row := range rows {
		desc := symbol
		if mapping.DescriptionColumn != "" && row[mapping.DescriptionColumn] != "" {
			desc = row[mapping.DescriptionColumn]
		}
		out[i] = model.NormalizedRecord{
			Date:        row[mapping.DateColumn],
			Value:       row[mapping.ValueColumn],
			Description: desc,
		}
	}
	return out, nil
}

// Validate checks the batch before anything is sent.
func (b Batch) Validate() error {
	if NormalizeSymbol(b.Symbol) == "" {
		return &model.ValidationError{Field: "symbol", Message: "symbol is required"}
	}
	if strings.TrimSpace(b.Category) == "" {
		return &model.ValidationError{Field: "category", Message: "please enter a category name"}
	}
	if len(b.Rows) == 0 {
		return &model.ValidationError{Field: "data", Message: "no data to submit"}
	}
	return ingest.ValidateMapping(b.Mapping)
}

// Submit validates and sends the batch as a multipart form with fields
// data (JSON array of records), symbol and category.
func (s *Submitter) Submit(ctx context.Context, b Batch) (*Result, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	symbol := NormalizeSymbol(b.Symbol)
	category := strings.TrimSpace(b.Category)
	records, err := Normalize(b.Rows, b.Mapping, symbol)
	if err != nil {
		return nil, err
	}

	body, contentType, err := encodeForm(records, symbol, category)
	if err != nil {
		return nil, fmt.Errorf("encode submit form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build submit request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	s.logger.Info("submitting records",
		zap.String("symbol", symbol),
		zap.String("category", category),
		zap.Int("records", len(records)),
		zap.String("request_id", requestID),
	)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, &model.TransportError{Op: "submit records", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.TransportError{Op: "submit records", StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.TransportError{Op: "submit records", StatusCode: resp.StatusCode, Err: errors.New(errorMessage(respBody))}
	}

	var result Result
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &model.TransportError{Op: "submit records", StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if result.RecordsProcessed == 0 {
		result.RecordsProcessed = len(records)
	}
	result.RequestID = requestID

	s.logger.Info("records submitted",
		zap.String("symbol", symbol),
		zap.Int("processed", result.RecordsProcessed),
		zap.Int("total", result.TotalRecords),
	)
	return &result, nil
}

func encodeForm(records []model.NormalizedRecord, symbol, category string) (io.Reader, string, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := []struct{ name, value string }{
		{"data", string(data)},
		{"symbol", symbol},
		{"category", category},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// errorMessage pulls "message" or "error" out of a JSON error body, falling
// back to the raw text.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return "empty response"
	}
	return text
}

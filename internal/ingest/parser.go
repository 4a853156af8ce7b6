// Package ingest turns uploaded file text into rows, lets the user map raw
// columns onto date/value/description, and builds the preview table shown
// before submitting.
package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"FinAdventure/internal/model"
)

// Format is the declared type of an uploaded file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// PlaceholderColumn is the single column of the dataset returned alongside
// an UnsupportedFormatError.
const PlaceholderColumn = "message"

// DetectFormat maps a file name to its declared format by extension.
func DetectFormat(filename string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch Format(ext) {
	case FormatCSV, FormatJSON, FormatXLSX:
		return Format(ext), nil
	}
	if ext == "" {
		ext = filename
	}
	return "", &model.UnsupportedFormatError{Format: ext}
}

// Parser parses raw file text into a Dataset.
type Parser struct {
	Delimiter rune
}

// NewParser returns a comma-delimited parser.
func NewParser() *Parser {
	return &Parser{Delimiter: ','}
}

// Parse dispatches on the declared format. For formats that are recognised
// but not implemented it returns a one-row placeholder dataset together with
// an *model.UnsupportedFormatError, so callers can show something instead of
// silently succeeding.
func (p *Parser) Parse(text string, format Format) (*model.Dataset, error) {
	switch format {
	case FormatCSV:
		return p.ParseCSV(text)
	case FormatJSON:
		return ParseJSON(text)
	default:
		return placeholder(format), &model.UnsupportedFormatError{Format: string(format)}
	}
}

func placeholder(format Format) *model.Dataset {
	return &model.Dataset{
		Headers: []string{PlaceholderColumn},
		Rows: []model.RawRow{{
			PlaceholderColumn: fmt.Sprintf("%s parsing is not implemented; export the sheet as CSV", format),
		}},
	}
}

// ParseCSV reads a header line followed by data lines. Each line is split on
// its own, so a stray quote never swallows the lines after it. Headers and
// values are trimmed, blank lines are skipped, and a row with fewer fields
// than the header gets "" for the missing columns. Extra fields are ignored.
// Header names must be unique, since rows are keyed by header.
func (p *Parser) ParseCSV(text string) (*model.Dataset, error) {
	var (
		ds      *model.Dataset
		headers []string
	)
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		record, err := p.splitLine(line)
		if err != nil {
			return nil, csvError(err, i+1)
		}
		if headers == nil {
			headers, err = uniqueHeaders(record, i+1)
			if err != nil {
				return nil, err
			}
			ds = &model.Dataset{Headers: headers, Rows: []model.RawRow{}}
			continue
		}
		row := make(model.RawRow, len(headers))
		for j, h := range headers {
			if j < len(record) {
				row[h] = strings.TrimSpace(record[j])
			} else {
				row[h] = ""
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	if ds == nil {
		return nil, &model.ParseError{Format: string(FormatCSV), Err: errors.New("no header row")}
	}
	return ds, nil
}

// splitLine splits one line on the delimiter with a reader scoped to that
// line.
func (p *Parser) splitLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true
	if p.Delimiter != 0 {
		r.Comma = p.Delimiter
	}
	record, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []string{""}, nil
	}
	return record, err
}

func uniqueHeaders(record []string, line int) ([]string, error) {
	headers := make([]string, len(record))
	seen := make(map[string]bool, len(record))
	for i, h := range record {
		h = strings.TrimSpace(h)
		if seen[h] {
			return nil, &model.ParseError{Format: string(FormatCSV), Line: line, Err: fmt.Errorf("duplicate column %q", h)}
		}
		seen[h] = true
		headers[i] = h
	}
	return headers, nil
}

func csvError(err error, line int) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		err = pe.Err
	}
	return &model.ParseError{Format: string(FormatCSV), Line: line, Err: err}
}

// ParseJSON accepts either an array of objects or a single object. Keys keep
// their first-seen order; every row gets every key. Strings are taken
// verbatim, numbers keep their literal text, null becomes "" and nested
// values are kept as compact JSON.
func ParseJSON(text string) (*model.Dataset, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, jsonError(err)
	}

	var objects []orderedObject
	switch tok {
	case json.Delim('['):
		for i := 0; dec.More(); i++ {
			obj, err := readObject(dec)
			if err != nil {
				return nil, jsonError(fmt.Errorf("element %d: %w", i, err))
			}
			objects = append(objects, obj)
		}
		if _, err := dec.Token(); err != nil {
			return nil, jsonError(err)
		}
	case json.Delim('{'):
		obj, err := readFields(dec)
		if err != nil {
			return nil, jsonError(err)
		}
		objects = append(objects, obj)
	default:
		return nil, jsonError(fmt.Errorf("expected an object or an array of objects, got %v", tok))
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, jsonError(errors.New("unexpected data after top-level value"))
	}

	ds := &model.Dataset{Headers: []string{}, Rows: make([]model.RawRow, 0, len(objects))}
	seen := map[string]bool{}
	for _, obj := range objects {
		for _, f := range obj {
			if !seen[f.key] {
				seen[f.key] = true
				ds.Headers = append(ds.Headers, f.key)
			}
		}
	}
	for _, obj := range objects {
		row := make(model.RawRow, len(ds.Headers))
		for _, h := range ds.Headers {
			row[h] = ""
		}
		for _, f := range obj {
			row[f.key] = f.value
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

type field struct {
	key   string
	value string
}

type orderedObject []field

func readObject(dec *json.Decoder) (orderedObject, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok != json.Delim('{') {
		return nil, fmt.Errorf("expected an object, got %v", tok)
	}
	return readFields(dec)
}

// readFields consumes the members of an object whose opening brace has
// already been read, including the closing brace.
func readFields(dec *json.Decoder) (orderedObject, error) {
	var obj orderedObject
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		value, err := stringify(raw)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		obj = append(obj, field{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func stringify(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0:
		return "", nil
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case bytes.Equal(trimmed, []byte("null")):
		return "", nil
	case trimmed[0] == '{' || trimmed[0] == '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return string(trimmed), nil
	}
}

func jsonError(err error) error {
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return &model.ParseError{Format: string(FormatJSON), Err: fmt.Errorf("offset %d: %w", se.Offset, err)}
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &model.ParseError{Format: string(FormatJSON), Err: errors.New("unexpected end of input")}
	}
	return &model.ParseError{Format: string(FormatJSON), Err: err}
}

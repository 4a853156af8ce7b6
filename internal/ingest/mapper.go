package ingest

import (
	"fmt"
	"strings"

	"FinAdventure/internal/model"
)

// Field is a semantic target a raw column can be mapped onto.
type Field string

const (
	FieldDate        Field = "date"
	FieldValue       Field = "value"
	FieldDescription Field = "description"
)

// MappingLine is one entry of the human-readable mapping preview.
type MappingLine struct {
	Label  string
	Column string
}

func (l MappingLine) String() string {
	return fmt.Sprintf("%s: %s", l.Label, l.Column)
}

// ColumnMapper tracks the headers of the last successful parse and the
// user's column selections.
type ColumnMapper struct {
	headers []string
	mapping model.ColumnMapping
}

// NewColumnMapper returns a mapper with no headers and no selections.
func NewColumnMapper() *ColumnMapper {
	return &ColumnMapper{headers: []string{}}
}

// SetHeaders replaces the selectable headers. Selections that no longer
// name an existing header are cleared. A nil slice resets the mapper, as
// after a failed parse.
func (m *ColumnMapper) SetHeaders(headers []string) {
	m.headers = append([]string{}, headers...)
	if !m.has(m.mapping.DateColumn) {
		m.mapping.DateColumn = ""
	}
	if !m.has(m.mapping.ValueColumn) {
		m.mapping.ValueColumn = ""
	}
	if !m.has(m.mapping.DescriptionColumn) {
		m.mapping.DescriptionColumn = ""
	}
}

// Headers returns a copy of the selectable headers; empty before any
// successful parse.
func (m *ColumnMapper) Headers() []string {
	return append([]string{}, m.headers...)
}

// Select sets (or with an empty column, clears) the column for a field and
// returns the recomputed mapping and preview.
func (m *ColumnMapper) Select(f Field, column string) (model.ColumnMapping, []MappingLine, error) {
	column = strings.TrimSpace(column)
	if column != "" && !m.has(column) {
		return m.mapping, m.PreviewLines(), &model.ValidationError{
			Field:   string(f) + "_column",
			Message: fmt.Sprintf("column %q is not in the uploaded file", column),
		}
	}
	switch f {
	case FieldDate:
		m.mapping.DateColumn = column
	case FieldValue:
		m.mapping.ValueColumn = column
	case FieldDescription:
		m.mapping.DescriptionColumn = column
	default:
		return m.mapping, m.PreviewLines(), &model.ValidationError{Field: string(f), Message: "unknown field"}
	}
	return m.mapping, m.PreviewLines(), nil
}

// Mapping returns the current selections.
func (m *ColumnMapper) Mapping() model.ColumnMapping {
	return m.mapping
}

// PreviewLines lists the selected columns in date, value, description order.
// Unset fields are omitted, so an empty result means nothing is selected.
func (m *ColumnMapper) PreviewLines() []MappingLine {
	var lines []MappingLine
	if m.mapping.DateColumn != "" {
		lines = append(lines, MappingLine{Label: "Date Column", Column: m.mapping.DateColumn})
	}
	if m.mapping.ValueColumn != "" {
		lines = append(lines, MappingLine{Label: "Value Column", Column: m.mapping.ValueColumn})
	}
	if m.mapping.DescriptionColumn != "" {
		lines = append(lines, MappingLine{Label: "Description Column", Column: m.mapping.DescriptionColumn})
	}
	return lines
}

// Validate fails closed when a required column is unset.
func (m *ColumnMapper) Validate() error {
	return ValidateMapping(m.mapping)
}

// ValidateMapping returns a *model.ValidationError when the date or value
// column is missing.
func ValidateMapping(mapping model.ColumnMapping) error {
	if mapping.DateColumn == "" && mapping.ValueColumn == "" {
		return &model.ValidationError{Field: "mapping", Message: "please specify date and value column names"}
	}
	if mapping.DateColumn == "" {
		return &model.ValidationError{Field: "date_column", Message: "date column is required"}
	}
	if mapping.ValueColumn == "" {
		return &model.ValidationError{Field: "value_column", Message: "value column is required"}
	}
	return nil
}

var (
	dateHints  = []string{"date", "day", "timestamp", "time", "period"}
	valueHints = []string{"value", "close", "price", "amount", "adj close", "revenue"}
)

// AutoDetect fills unset date and value selections from common header names.
// Existing selections are left alone. It returns the resulting mapping.
func (m *ColumnMapper) AutoDetect() model.ColumnMapping {
	if m.mapping.DateColumn == "" {
		m.mapping.DateColumn = m.match(dateHints, "")
	}
	if m.mapping.ValueColumn == "" {
		m.mapping.ValueColumn = m.match(valueHints, m.mapping.DateColumn)
	}
	return m.mapping
}

// match returns the first header equal to a hint, trying hints in priority
// order, and skipping the excluded column.
func (m *ColumnMapper) match(hints []string, exclude string) string {
	for _, hint := range hints {
		for _, h := range m.headers {
			if h != exclude && strings.EqualFold(h, hint) {
				return h
			}
		}
	}
	return ""
}

func (m *ColumnMapper) has(column string) bool {
	for _, h := range m.headers {
		if h == column {
			return true
		}
	}
	return false
}

package model

// RawRow is one parsed record from an uploaded file, keyed by the original
// column header. It is never modified after parsing.
type RawRow map[string]string

// Dataset is the result of parsing one file: the discovered headers in file
// order and one RawRow per data line.
type Dataset struct {
	Headers []string
	Rows    []RawRow
}

// Len returns the number of parsed rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// ColumnMapping is the user-chosen correspondence between raw headers and
// the semantic fields of a NormalizedRecord. Empty string means unset.
type ColumnMapping struct {
	DateColumn        string `json:"date_column" yaml:"date_column"`
	ValueColumn       string `json:"value_column" yaml:"value_column"`
	DescriptionColumn string `json:"description_column,omitempty" yaml:"description_column"`
}

// Complete reports whether both required columns are set.
func (m ColumnMapping) Complete() bool {
	return m.DateColumn != "" && m.ValueColumn != ""
}

// NormalizedRecord is what gets submitted for one RawRow. Date and value
// are carried verbatim as strings.
type NormalizedRecord struct {
	Date        string `json:"date"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

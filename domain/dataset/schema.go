package dataset

import (
	"fmt"
)

// ColumnType is the semantic type of a column
type ColumnType string

const (
	ColumnNumeric     ColumnType = "numeric"
	ColumnCategorical ColumnType = "categorical"
	ColumnOrdinal     ColumnType = "ordinal"
	ColumnBoolean     ColumnType = "boolean"
)

// Valid reports whether t is one of the known column types.
func (t ColumnType) Valid() bool {
	switch t {
	case ColumnNumeric, ColumnCategorical, ColumnOrdinal, ColumnBoolean:
		return true
	}
	return false
}

// IsQuantitative reports whether values of the column read as numbers.
func (t ColumnType) IsQuantitative() bool {
	return t == ColumnNumeric || t == ColumnOrdinal || t == ColumnBoolean
}

// Column describes one schema entry
type Column struct {
	Name    string     `json:"name"`
	Type    ColumnType `json:"type"`
	Derived bool       `json:"derived,omitempty"` // computed at load time, not present in the source
}

// Schema is the ordered, immutable set of columns shared by every record.
type Schema struct {
	columns []Column
	index   map[string]int
}

// NewSchema builds a schema; column names must be unique and non-empty.
func NewSchema(columns []Column) (*Schema, error) {
	s := &Schema{
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if c.Name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, dup := s.index[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", c.Name)
		}
		if !c.Type.Valid() {
			return nil, fmt.Errorf("column %q has unknown type %q", c.Name, c.Type)
		}
		s.columns[i] = c
		s.index[c.Name] = i
	}
	return s, nil
}

// Len returns the number of columns
func (s *Schema) Len() int { return len(s.columns) }

// Column returns the i-th column
func (s *Schema) Column(i int) Column { return s.columns[i] }

// Columns returns a copy of the ordered columns
func (s *Schema) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Names returns the column names in schema order
func (s *Schema) Names() []string {
	out := make([]string, len(s.columns))
	for i, c := range s.columns {
		out[i] = c.Name
	}
	return out
}

// Index returns the position of the named column
func (s *Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Lookup returns the named column
func (s *Schema) Lookup(name string) (Column, bool) {
	i, ok := s.index[name]
	if !ok {
		return Column{}, false
	}
	return s.columns[i], true
}

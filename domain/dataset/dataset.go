package dataset

import (
	"titanicdash/domain/core"
)

// Record is one immutable row. Values are in schema order.
type Record struct {
	values []Value
}

// NewRecord creates a record; the slice is owned by the record afterwards.
func NewRecord(values []Value) Record {
	return Record{values: values}
}

// Len returns the number of cells
func (r Record) Len() int { return len(r.values) }

// Value returns the i-th cell, or a missing value when out of range.
func (r Record) Value(i int) Value {
	if i < 0 || i >= len(r.values) {
		return NewMissingValue()
	}
	return r.values[i]
}

// Values returns a copy of the cells
func (r Record) Values() []Value {
	out := make([]Value, len(r.values))
	copy(out, r.values)
	return out
}

// Table is anything the pipeline can query: a full Dataset or a View of one.
type Table interface {
	Schema() *Schema
	Len() int
	Record(i int) Record
	// RowID returns the position of the i-th record in the root dataset.
	RowID(i int) int
	Root() *Dataset
}

// Dataset is the full table loaded from one source. It is never mutated
// after construction.
type Dataset struct {
	source   string
	checksum core.Hash
	loadedAt core.Timestamp
	schema   *Schema
	records  []Record
}

// NewDataset assembles a dataset. Callers hand over ownership of records.
func NewDataset(source string, checksum core.Hash, schema *Schema, records []Record) *Dataset {
	return &Dataset{
		source:   source,
		checksum: checksum,
		loadedAt: core.Now(),
		schema:   schema,
		records:  records,
	}
}

func (d *Dataset) Source() string           { return d.source }
func (d *Dataset) Checksum() core.Hash      { return d.checksum }
func (d *Dataset) LoadedAt() core.Timestamp { return d.loadedAt }
func (d *Dataset) Schema() *Schema          { return d.schema }
func (d *Dataset) Len() int                 { return len(d.records) }
func (d *Dataset) Record(i int) Record      { return d.records[i] }
func (d *Dataset) RowID(i int) int          { return i }
func (d *Dataset) Root() *Dataset           { return d }

// View is a zero-copy subset of a Dataset, addressed by root row positions.
type View struct {
	root *Dataset
	rows []int
}

// NewView selects positions (relative to t) from t. Positions of a view are
// translated so the result always points straight into the root dataset.
func NewView(t Table, positions []int) *View {
	rows := make([]int, len(positions))
	for i, p := range positions {
		rows[i] = t.RowID(p)
	}
	return &View{root: t.Root(), rows: rows}
}

func (v *View) Schema() *Schema     { return v.root.schema }
func (v *View) Len() int            { return len(v.rows) }
func (v *View) Record(i int) Record { return v.root.records[v.rows[i]] }
func (v *View) RowID(i int) int     { return v.rows[i] }
func (v *View) Root() *Dataset      { return v.root }

// RowIDs returns a copy of the root positions selected by the view.
func (v *View) RowIDs() []int {
	out := make([]int, len(v.rows))
	copy(out, v.rows)
	return out
}

// ColumnValues returns the cells of one column across t, in row order.
func ColumnValues(t Table, name string) ([]Value, error) {
	idx, ok := t.Schema().Index(name)
	if !ok {
		return nil, core.NewUnknownColumnError(name)
	}
	out := make([]Value, t.Len())
	for i := 0; i < t.Len(); i++ {
		out[i] = t.Record(i).Value(idx)
	}
	return out, nil
}

package pipeline

import (
	"math"

	"github.com/montanaflynn/stats"

	"titanicdash/domain/core"
	"titanicdash/domain/dataset"
)

// FilterByCategory keeps the records whose column equals value exactly.
// Values are compared with their types, so a numeric 2 never matches "2".
func FilterByCategory(t dataset.Table, column string, value dataset.Value) (*dataset.View, error) {
	idx, ok := t.Schema().Index(column)
	if !ok {
		return nil, core.NewUnknownColumnError(column)
	}

	var positions []int
	for i := 0; i < t.Len(); i++ {
		if t.Record(i).Value(idx).Equal(value) {
			positions = append(positions, i)
		}
	}
	return dataset.NewView(t, positions), nil
}

// FilterByRange keeps the records whose numeric value lies in [low, high].
// Missing values never match. low > high is rejected before any scan.
func FilterByRange(t dataset.Table, column string, low, high float64) (*dataset.View, error) {
	if math.IsNaN(low) || math.IsNaN(high) || low > high {
		return nil, core.NewInvalidRangeError(column, low, high)
	}
	col, ok := t.Schema().Lookup(column)
	if !ok {
		return nil, core.NewUnknownColumnError(column)
	}
	if !col.Type.IsQuantitative() {
		return nil, core.NewColumnTypeError(column, string(dataset.ColumnNumeric), string(col.Type))
	}
	idx, _ := t.Schema().Index(column)

	var positions []int
	for i := 0; i < t.Len(); i++ {
		v, ok := t.Record(i).Value(idx).Float()
		if ok && v >= low && v <= high {
			positions = append(positions, i)
		}
	}
	return dataset.NewView(t, positions), nil
}

// Head returns the first n records in stored order. n is clamped to
// [1, t.Len()], so it never fails.
func Head(t dataset.Table, n int) []dataset.Record {
	n = ClampRows(n, t.Len())
	out := make([]dataset.Record, n)
	for i := 0; i < n; i++ {
		out[i] = t.Record(i)
	}
	return out
}

// ClampRows bounds a requested row count to [1, total]; an empty table yields 0.
func ClampRows(n, total int) int {
	if total <= 0 {
		return 0
	}
	if n < 1 {
		return 1
	}
	if n > total {
		return total
	}
	return n
}

// NumericRange returns the min and max of a quantitative column, NoData
// when it has no values.
func NumericRange(t dataset.Table, column string) (dataset.NumericRange, error) {
	idx, ok := t.Schema().Index(column)
	if !ok {
		return dataset.NumericRange{}, core.NewUnknownColumnError(column)
	}
	data := numericCells(t, idx)
	r := dataset.NumericRange{Column: column, Min: dataset.NoData(), Max: dataset.NoData()}
	if len(data) == 0 {
		return r, nil
	}
	r.Min = measure(stats.Min(data))
	r.Max = measure(stats.Max(data))
	return r, nil
}

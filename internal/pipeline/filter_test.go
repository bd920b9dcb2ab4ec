package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titanicdash/domain/core"
	"titanicdash/domain/dataset"
)

func TestFilterByCategoryExactMatch(t *testing.T) {
	ds := fixtureDataset(t)

	view, err := FilterByCategory(ds, "Pclass", dataset.NewNumericValue(2))
	require.NoError(t, err)
	assert.Equal(t, []int{2}, view.RowIDs())

	idx, _ := ds.Schema().Index("Pclass")
	for i := 0; i < view.Len(); i++ {
		assert.True(t, view.Record(i).Value(idx).Equal(dataset.NewNumericValue(2)))
	}

	// Types are compared too.
	asText, err := FilterByCategory(ds, "Pclass", dataset.NewStringValue("2"))
	require.NoError(t, err)
	assert.Equal(t, 0, asText.Len())
}

func TestFilterByCategoryPartitionsClasses(t *testing.T) {
	ds := fixtureDataset(t)

	seen := map[int]int{}
	total := 0
	for _, class := range []float64{1, 2, 3} {
		view, err := FilterByCategory(ds, "Pclass", dataset.NewNumericValue(class))
		require.NoError(t, err)
		for _, id := range view.RowIDs() {
			seen[id]++
		}
		total += view.Len()
	}

	assert.Equal(t, ds.Len(), total)
	for i := 0; i < ds.Len(); i++ {
		assert.Equal(t, 1, seen[i], "row %d", i)
	}
}

func TestFilterByCategoryMissingNeverMatches(t *testing.T) {
	view, err := FilterByCategory(fixtureDataset(t), "Age", dataset.NewMissingValue())
	require.NoError(t, err)
	assert.Equal(t, 0, view.Len())
}

func TestFilterByCategoryUnknownColumn(t *testing.T) {
	_, err := FilterByCategory(fixtureDataset(t), "Deck", dataset.NewStringValue("C"))
	assert.True(t, core.IsUnknownColumnError(err))
}

func TestFilterByRangeIsIdempotent(t *testing.T) {
	ds := fixtureDataset(t)

	once, err := FilterByRange(ds, "Age", 0, 80)
	require.NoError(t, err)
	twice, err := FilterByRange(once, "Age", 0, 80)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2, 3}, once.RowIDs())
	assert.Equal(t, once.RowIDs(), twice.RowIDs())
}

func TestFilterByRangeBoundsAreInclusive(t *testing.T) {
	view, err := FilterByRange(fixtureDataset(t), "Age", 10, 45)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, view.RowIDs())

	point, err := FilterByRange(fixtureDataset(t), "Age", 65, 65)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, point.RowIDs())
}

func TestFilterByRangeRejectsInvertedRange(t *testing.T) {
	ds := fixtureDataset(t)

	_, err := FilterByRange(ds, "Age", 50, 10)
	require.Error(t, err)
	assert.True(t, core.IsInvalidRangeError(err))
	assert.Equal(t, "invalid range for Age: low 50 > high 10", err.Error())

	// Checked before the column is looked up.
	_, err = FilterByRange(ds, "Deck", 50, 10)
	assert.True(t, core.IsInvalidRangeError(err))

	_, err = FilterByRange(ds, "Age", math.NaN(), 10)
	assert.True(t, core.IsInvalidRangeError(err))
}

func TestFilterByRangeColumnErrors(t *testing.T) {
	ds := fixtureDataset(t)

	_, err := FilterByRange(ds, "Deck", 0, 10)
	assert.True(t, core.IsUnknownColumnError(err))

	_, err = FilterByRange(ds, "Sex", 0, 10)
	assert.True(t, errors.Is(err, core.ErrColumnType))
}

func TestHead(t *testing.T) {
	ds := fixtureDataset(t)

	assert.Len(t, Head(ds, 10), ds.Len())
	assert.Len(t, Head(ds, 0), 1)
	assert.Len(t, Head(ds, -3), 1)

	two := Head(ds, 2)
	require.Len(t, two, 2)
	assert.Equal(t, "Allen", two[0].Value(3).AsString())
	assert.Equal(t, "Brown", two[1].Value(3).AsString())

	view, err := FilterByCategory(ds, "Sex", dataset.NewStringValue("female"))
	require.NoError(t, err)
	rows := Head(view, 50)
	require.Len(t, rows, 2)
	assert.Equal(t, "Carter", rows[1].Value(3).AsString())

	empty, err := FilterByCategory(ds, "Sex", dataset.NewStringValue("other"))
	require.NoError(t, err)
	assert.Empty(t, Head(empty, 5))
}

func TestClampRows(t *testing.T) {
	assert.Equal(t, 10, ClampRows(10, 891))
	assert.Equal(t, 1, ClampRows(0, 891))
	assert.Equal(t, 891, ClampRows(5000, 891))
	assert.Equal(t, 0, ClampRows(5, 0))
}

func TestNumericRange(t *testing.T) {
	ds := fixtureDataset(t)

	r, err := NumericRange(ds, "Age")
	require.NoError(t, err)
	assert.Equal(t, 10.0, r.Min.Value)
	assert.Equal(t, 65.0, r.Max.Value)

	empty, err := FilterByCategory(ds, "Sex", dataset.NewStringValue("other"))
	require.NoError(t, err)
	r, err = NumericRange(empty, "Age")
	require.NoError(t, err)
	assert.False(t, r.Min.Valid)
	assert.False(t, r.Max.Valid)

	_, err = NumericRange(ds, "Deck")
	assert.True(t, core.IsUnknownColumnError(err))
}

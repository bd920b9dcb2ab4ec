package coercer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"titanicdash/domain/dataset"
)

func TestInferColumnType(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	tests := []struct {
		name     string
		values   []string
		expected dataset.ColumnType
	}{
		{"ages with gaps stay numeric", []string{"22", "", "38", "NaN", "0.42"}, dataset.ColumnNumeric},
		{"sex is categorical", []string{"male", "female", "male"}, dataset.ColumnCategorical},
		{"mixed text is categorical", []string{"1", "2", "C85"}, dataset.ColumnCategorical},
		{"textual booleans", []string{"True", "false", "", "yes"}, dataset.ColumnBoolean},
		{"0/1 flags read as numbers without a hint", []string{"0", "1", "1"}, dataset.ColumnNumeric},
		{"all missing", []string{"", "", "NA"}, dataset.ColumnNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.InferColumnType(tt.values))
		})
	}
}

func TestCoerceValue(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	age := c.CoerceValue(" 22.5 ", dataset.ColumnNumeric)
	n, ok := age.Float()
	assert.True(t, ok)
	assert.Equal(t, 22.5, n)

	assert.True(t, c.CoerceValue("", dataset.ColumnNumeric).Missing())
	assert.True(t, c.CoerceValue("n/a", dataset.ColumnCategorical).Missing())
	assert.True(t, c.CoerceValue("abc", dataset.ColumnNumeric).Missing())

	survived := c.CoerceValue("1", dataset.ColumnBoolean)
	assert.True(t, survived.IsBoolean())
	assert.True(t, survived.AsBoolean())
	assert.False(t, c.CoerceValue("0", dataset.ColumnBoolean).AsBoolean())
	assert.True(t, c.CoerceValue("maybe", dataset.ColumnBoolean).Missing())

	class := c.CoerceValue("2", dataset.ColumnOrdinal)
	assert.True(t, class.Equal(dataset.NewNumericValue(2)))
	assert.True(t, c.CoerceValue("upper", dataset.ColumnOrdinal).IsString())

	sex := c.CoerceValue("male", dataset.ColumnCategorical)
	assert.Equal(t, "male", sex.AsString(), "categorical values keep their case")
}

func TestAnalyzeTypeDistribution(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	analysis := c.AnalyzeTypeDistribution([]string{"1", "2", "x", ""})

	assert.Equal(t, 4, analysis.TotalCount)
	assert.Equal(t, 3, analysis.ValidCount)
	assert.Equal(t, 2, analysis.NumericCount)
	assert.InDelta(t, 2.0/3.0, analysis.NumericRatio, 1e-9)
}

package charts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"titanicdash/domain/dataset"
)

func TestHistogram(t *testing.T) {
	h := dataset.Histogram{
		Column: "Age",
		Total:  3,
		Bins: []dataset.HistogramBin{
			{Low: 10, High: 37.5, Count: 1},
			{Low: 37.5, High: 65, Count: 2},
		},
		Missing: 1,
	}

	c := AgeDistribution(h)
	assert.Equal(t, TypeHistogram, c.ChartType)
	assert.Equal(t, "Age distribution", c.Title)
	require.Len(t, c.Series, 1)
	assert.Equal(t, []ChartPoint{
		{Label: "10-37.5", Value: 1},
		{Label: "37.5-65", Value: 2},
	}, c.Series[0].Data)
	assert.Equal(t, "1 records without Age not shown", c.Note)

	assert.Equal(t, "Age distribution in class 2", ClassAgeDistribution(h, 2).Title)
}

func TestHistogramDensitySeries(t *testing.T) {
	// 100 values binned 10 wide, density of N(50, 10) on a fine grid.
	normal := distuv.Normal{Mu: 50, Sigma: 10}
	h := dataset.Histogram{Column: "Age", Total: 100}
	for lo := 0.0; lo < 100; lo += 10 {
		h.Bins = append(h.Bins, dataset.HistogramBin{Low: lo, High: lo + 10})
	}
	for x := 0.0; x <= 100; x += 0.5 {
		h.Density = append(h.Density, dataset.DensityPoint{X: x, Density: normal.Prob(x)})
	}

	c := Histogram(h, "Age distribution")
	require.Len(t, c.Series, 2)
	assert.Len(t, c.Colors, 2)
	line := c.Series[1]
	assert.Equal(t, SeriesLine, line.Type)
	require.Len(t, line.Data, len(h.Density))
	require.NotNil(t, line.Data[0].X)
	assert.Equal(t, "0", line.Data[0].Label)
	assert.Equal(t, []float64{0, 100}, c.XRange)

	// Counts per bin width integrate back to the number of values.
	var area float64
	for i := 1; i < len(line.Data); i++ {
		dx := *line.Data[i].X - *line.Data[i-1].X
		area += dx * (line.Data[i].Value + line.Data[i-1].Value) / 2
	}
	assert.InDelta(t, float64(h.Total), area/h.BinWidth(), 1)
}

func TestHistogramEmpty(t *testing.T) {
	c := Histogram(dataset.Histogram{Column: "Age"}, "Empty")
	assert.Equal(t, dataset.NoDataLabel, c.Note)
	assert.Empty(t, c.Series[0].Data)
}

func TestSurvivalBySex(t *testing.T) {
	c := SurvivalBySex([]dataset.CountGroup{
		{X: "male", Hue: "false", Count: 468},
		{X: "male", Hue: "true", Count: 109},
		{X: "female", Hue: "false", Count: 81},
		{X: "female", Hue: "true", Count: 233},
	})

	assert.Equal(t, TypeBar, c.ChartType)
	assert.True(t, c.ShowLegend)
	require.Len(t, c.Series, 2)
	assert.Equal(t, "did not survive", c.Series[0].Name)
	assert.Equal(t, "survived", c.Series[1].Name)
	assert.Equal(t, []ChartPoint{{Label: "male", Value: 109}, {Label: "female", Value: 233}}, c.Series[1].Data)
	assert.Len(t, c.Colors, 2)
}

func TestAgeGroupCounts(t *testing.T) {
	c := AgeGroupCounts([]dataset.CountGroup{
		{X: string(dataset.AgeGroupChildren), Count: 3},
		{X: string(dataset.AgeGroupUnknown), Count: 0},
	}, 0, 80)

	assert.Equal(t, "Age groups for ages 0 to 80", c.Title)
	assert.Equal(t, 3.0, c.Series[0].Data[0].Value)
	assert.Equal(t, 0.0, c.Series[0].Data[1].Value)
}

func TestFareByClassSkipsEmptyGroups(t *testing.T) {
	c := FareByClass([]dataset.BoxSummary{
		{
			Group:        "1",
			Count:        3,
			Q1:           dataset.Measured(30.5),
			Median:       dataset.Measured(60.3),
			Q3:           dataset.Measured(93.5),
			LowerWhisker: dataset.Measured(0),
			UpperWhisker: dataset.Measured(164.8667),
			Outliers:     []float64{512.3292},
		},
		{Group: "2"},
	})

	require.Len(t, c.Series[0].Data, 1)
	p := c.Series[0].Data[0]
	assert.Equal(t, "1", p.Label)
	assert.Equal(t, 60.3, p.Value)
	require.NotNil(t, p.Box)
	assert.Equal(t, 164.87, p.Box.UpperWhisker)
	assert.Equal(t, []float64{512.3292}, p.Box.Outliers)
}

func TestChartConfigJSONShape(t *testing.T) {
	raw, err := json.Marshal(AgeGroupCounts(nil, 1, 2))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "bar", decoded["chartType"])
	assert.Contains(t, decoded, "series")
	assert.NotContains(t, decoded, "note")
}

// Package charts turns pipeline results into render-ready chart specs. The
// shapes are plain JSON so the dashboard front end can draw them directly.
package charts

import (
	"fmt"
	"math"
	"strconv"

	"titanicdash/domain/dataset"
)

// Chart types understood by the front end
const (
	TypeBar       = "bar"
	TypeHistogram = "histogram"
	TypeBox       = "box"

	// SeriesLine marks a series drawn as a line over the chart, positioned
	// by each point's X.
	SeriesLine = "line"
)

// ChartConfig defines how to render one chart
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
	Note       string        `json:"note,omitempty"`
	XRange     []float64     `json:"xRange,omitempty"` // numeric extent of the bars, for line series
}

// ChartSeries is one named data series
type ChartSeries struct {
	Name  string       `json:"name"`
	Type  string       `json:"type,omitempty"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint is a single labelled value. Box charts also carry the five
// number summary.
type ChartPoint struct {
	Label string    `json:"label"`
	X     *float64  `json:"x,omitempty"`
	Value float64   `json:"value"`
	Box   *BoxPoint `json:"box,omitempty"`
}

// BoxPoint is the drawable part of a box plot for one group
type BoxPoint struct {
	LowerWhisker float64   `json:"lowerWhisker"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	UpperWhisker float64   `json:"upperWhisker"`
	Outliers     []float64 `json:"outliers"`
}

var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// Histogram renders binned values as touching bars, with the density
// estimate as a line scaled to counts per bin.
func Histogram(h dataset.Histogram, title string) *ChartConfig {
	points := make([]ChartPoint, 0, len(h.Bins))
	for _, b := range h.Bins {
		points = append(points, ChartPoint{Label: binLabel(b), Value: float64(b.Count)})
	}

	config := &ChartConfig{
		ChartType: TypeHistogram,
		Title:     title,
		XAxis:     h.Column,
		YAxis:     "Count",
		Series:    []ChartSeries{{Name: h.Column, Data: points}},
		ShowGrid:  true,
	}
	if len(h.Density) > 0 && len(h.Bins) > 0 {
		config.Series = append(config.Series, densitySeries(h))
		config.XRange = []float64{h.Bins[0].Low, h.Bins[len(h.Bins)-1].High}
	}
	if h.Missing > 0 {
		config.Note = fmt.Sprintf("%d records without %s not shown", h.Missing, h.Column)
	}
	if h.Total == 0 {
		config.Note = dataset.NoDataLabel
	}
	config.Colors = assignColors(len(config.Series))
	return config
}

func densitySeries(h dataset.Histogram) ChartSeries {
	scale := float64(h.Total) * h.BinWidth()
	points := make([]ChartPoint, len(h.Density))
	for i, d := range h.Density {
		x := d.X
		points[i] = ChartPoint{
			Label: formatNumber(x),
			X:     &x,
			Value: d.Density * scale,
		}
	}
	return ChartSeries{Name: "Density", Type: SeriesLine, Data: points}
}

// AgeDistribution is the histogram of every passenger's age.
func AgeDistribution(h dataset.Histogram) *ChartConfig {
	return Histogram(h, "Age distribution")
}

// ClassAgeDistribution is the age histogram for one passenger class.
func ClassAgeDistribution(h dataset.Histogram, class int) *ChartConfig {
	return Histogram(h, fmt.Sprintf("Age distribution in class %d", class))
}

// GroupedCounts renders x/hue counts as one series per hue value, in the
// order the hues first appear. names relabels hue values for the legend.
func GroupedCounts(groups []dataset.CountGroup, title, xAxis string, names map[string]string) *ChartConfig {
	var hues, xs []string
	seenHue := map[string]bool{}
	seenX := map[string]bool{}
	values := map[[2]string]float64{}
	for _, g := range groups {
		if !seenHue[g.Hue] {
			seenHue[g.Hue] = true
			hues = append(hues, g.Hue)
		}
		if !seenX[g.X] {
			seenX[g.X] = true
			xs = append(xs, g.X)
		}
		values[[2]string{g.X, g.Hue}] += float64(g.Count)
	}

	series := make([]ChartSeries, 0, len(hues))
	for i, hue := range hues {
		points := make([]ChartPoint, 0, len(xs))
		for _, x := range xs {
			points = append(points, ChartPoint{Label: x, Value: values[[2]string{x, hue}]})
		}
		name := hue
		if n, ok := names[hue]; ok {
			name = n
		}
		series = append(series, ChartSeries{
			Name:  name,
			Data:  points,
			Color: defaultColors[i%len(defaultColors)],
		})
	}

	return &ChartConfig{
		ChartType:  TypeBar,
		Title:      title,
		XAxis:      xAxis,
		YAxis:      "Count",
		Series:     series,
		Colors:     assignColors(len(series)),
		ShowLegend: len(series) > 1,
		ShowGrid:   true,
	}
}

// SurvivalBySex is the count plot of passengers by sex, split by outcome.
func SurvivalBySex(groups []dataset.CountGroup) *ChartConfig {
	return GroupedCounts(groups, "Survival by sex", "Sex", map[string]string{
		"false": string(dataset.OutcomeDidNotSurvive),
		"true":  string(dataset.OutcomeSurvived),
		"0":     string(dataset.OutcomeDidNotSurvive),
		"1":     string(dataset.OutcomeSurvived),
	})
}

// AgeGroupCounts is a bar chart of passengers per age bucket for the
// selected age range.
func AgeGroupCounts(counts []dataset.CountGroup, low, high float64) *ChartConfig {
	points := make([]ChartPoint, 0, len(counts))
	for _, c := range counts {
		points = append(points, ChartPoint{Label: c.X, Value: float64(c.Count)})
	}
	return &ChartConfig{
		ChartType: TypeBar,
		Title:     fmt.Sprintf("Age groups for ages %s to %s", formatNumber(low), formatNumber(high)),
		XAxis:     "Age group",
		YAxis:     "Count",
		Series:    []ChartSeries{{Name: "Passengers", Data: points}},
		Colors:    assignColors(1),
		ShowGrid:  true,
	}
}

// FareByClass is the box plot of fares per passenger class.
func FareByClass(boxes []dataset.BoxSummary) *ChartConfig {
	points := make([]ChartPoint, 0, len(boxes))
	for _, b := range boxes {
		box, ok := boxPoint(b)
		if !ok {
			continue
		}
		points = append(points, ChartPoint{Label: b.Group, Value: box.Median, Box: box})
	}
	return &ChartConfig{
		ChartType: TypeBox,
		Title:     "Fare by class",
		XAxis:     "Pclass",
		YAxis:     "Fare",
		Series:    []ChartSeries{{Name: "Fare", Data: points}},
		Colors:    assignColors(1),
		ShowGrid:  true,
	}
}

func boxPoint(b dataset.BoxSummary) (*BoxPoint, bool) {
	parts := []dataset.Measurement{b.LowerWhisker, b.Q1, b.Median, b.Q3, b.UpperWhisker}
	for _, m := range parts {
		if !m.Valid {
			return nil, false
		}
	}
	return &BoxPoint{
		LowerWhisker: RoundTo2(b.LowerWhisker.Value),
		Q1:           RoundTo2(b.Q1.Value),
		Median:       RoundTo2(b.Median.Value),
		Q3:           RoundTo2(b.Q3.Value),
		UpperWhisker: RoundTo2(b.UpperWhisker.Value),
		Outliers:     b.Outliers,
	}, true
}

func binLabel(b dataset.HistogramBin) string {
	return formatNumber(b.Low) + "-" + formatNumber(b.High)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(RoundTo2(v), 'f', -1, 64)
}

// RoundTo2 rounds to two decimals for display
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

func assignColors(n int) []string {
	colors := make([]string, n)
	for i := range colors {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}

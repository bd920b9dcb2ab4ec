package pipeline

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"titanicdash/domain/core"
	"titanicdash/domain/dataset"
)

// SummarizeColumns reports type, distinct count and missing share for every
// column in schema order.
func SummarizeColumns(t dataset.Table) []dataset.ColumnSummary {
	schema := t.Schema()
	rows := t.Len()
	out := make([]dataset.ColumnSummary, schema.Len())

	for c := 0; c < schema.Len(); c++ {
		col := schema.Column(c)
		seen := make(map[string]struct{})
		missing := 0
		for i := 0; i < rows; i++ {
			v := t.Record(i).Value(c)
			if v.Missing() {
				missing++
				continue
			}
			seen[v.Key()] = struct{}{}
		}
		out[c] = dataset.ColumnSummary{
			Column:     col.Name,
			Type:       col.Type,
			Distinct:   len(seen),
			Missing:    missing,
			MissingPct: missingPercent(missing, rows),
		}
	}
	return out
}

// missingPercent is 100*missing/rows rounded half-up to two decimals, in
// integer arithmetic so 1/8 = 12.5% does not drift below the half.
func missingPercent(missing, rows int) float64 {
	if rows == 0 {
		return 0
	}
	hundredths := (int64(missing)*20000 + int64(rows)) / (2 * int64(rows))
	return float64(hundredths) / 100
}

// SummarizeCategorical reports the mode and distinct count of each named
// column. Ties for the highest frequency go to the value seen first in row
// order. A column with no values has a missing mode.
func SummarizeCategorical(t dataset.Table, columns []string) ([]dataset.CategoricalSummary, error) {
	out := make([]dataset.CategoricalSummary, 0, len(columns))
	for _, name := range columns {
		idx, ok := t.Schema().Index(name)
		if !ok {
			return nil, core.NewUnknownColumnError(name)
		}

		counts := make(map[string]int)
		firstSeen := make([]dataset.Value, 0)
		for i := 0; i < t.Len(); i++ {
			v := t.Record(i).Value(idx)
			if v.Missing() {
				continue
			}
			k := v.Key()
			if _, ok := counts[k]; !ok {
				firstSeen = append(firstSeen, v)
			}
			counts[k]++
		}

		summary := dataset.CategoricalSummary{
			Column:        name,
			Mode:          dataset.NewMissingValue(),
			DistinctCount: len(firstSeen),
		}
		for _, v := range firstSeen {
			if n := counts[v.Key()]; n > summary.ModeCount {
				summary.Mode = v
				summary.ModeCount = n
			}
		}
		out = append(out, summary)
	}
	return out, nil
}

// CategoricalColumns lists the categorical columns of the schema
func CategoricalColumns(schema *dataset.Schema) []string {
	var out []string
	for _, c := range schema.Columns() {
		if c.Type == dataset.ColumnCategorical {
			out = append(out, c.Name)
		}
	}
	return out
}

// SummarizeSurvival splits records by the survival flag and reports count,
// mean age and mean fare for each side, did-not-survive first. Both groups
// are always present; a mean over no values is NoData. Records without a
// flag belong to neither group.
func SummarizeSurvival(t dataset.Table, roles Roles) ([]dataset.SurvivalGroup, error) {
	flagIdx, ok := t.Schema().Index(roles.Survival)
	if !ok {
		return nil, core.NewUnknownColumnError(roles.Survival)
	}
	ageIdx, hasAge := t.Schema().Index(roles.Age)
	fareIdx, hasFare := t.Schema().Index(roles.Fare)

	type acc struct {
		count int
		ages  []float64
		fares []float64
	}
	var groups [2]acc

	for i := 0; i < t.Len(); i++ {
		r := t.Record(i)
		flag, ok := r.Value(flagIdx).Float()
		if !ok {
			continue
		}
		g := &groups[0]
		if flag != 0 {
			g = &groups[1]
		}
		g.count++
		if hasAge {
			if a, ok := r.Value(ageIdx).Float(); ok {
				g.ages = append(g.ages, a)
			}
		}
		if hasFare {
			if f, ok := r.Value(fareIdx).Float(); ok {
				g.fares = append(g.fares, f)
			}
		}
	}

	outcomes := [2]dataset.SurvivalOutcome{dataset.OutcomeDidNotSurvive, dataset.OutcomeSurvived}
	out := make([]dataset.SurvivalGroup, 2)
	for i, g := range groups {
		out[i] = dataset.SurvivalGroup{
			Group:    outcomes[i],
			Count:    g.count,
			MeanAge:  mean(g.ages),
			MeanFare: mean(g.fares),
		}
	}
	return out, nil
}

// Info reports the table shape and non-null count of every column
func Info(t dataset.Table) dataset.TableInfo {
	summaries := SummarizeColumns(t)
	info := dataset.TableInfo{
		Source:   t.Root().Source(),
		LoadedAt: t.Root().LoadedAt(),
		Rows:     t.Len(),
		Columns:  t.Schema().Len(),
		Fields:   make([]dataset.FieldInfo, len(summaries)),
	}
	for i, s := range summaries {
		info.Fields[i] = dataset.FieldInfo{
			Column:  s.Column,
			NonNull: t.Len() - s.Missing,
			Type:    s.Type,
		}
	}
	return info
}

// Describe computes count, mean, sample standard deviation, min, quartiles
// and max for every quantitative column. Quartiles interpolate linearly
// between order statistics, as pandas describe() does.
func Describe(t dataset.Table) []dataset.NumericDescription {
	var out []dataset.NumericDescription
	for c, col := range t.Schema().Columns() {
		if !col.Type.IsQuantitative() {
			continue
		}
		data := numericCells(t, c)
		d := dataset.NumericDescription{
			Column: col.Name,
			Count:  len(data),
			Mean:   mean(data),
			Std:    dataset.NoData(),
			Min:    measure(stats.Min(data)),
			Max:    measure(stats.Max(data)),
		}
		if len(data) > 1 {
			d.Std = measure(stats.StandardDeviationSample(data))
		}
		d.Q25, d.Median, d.Q75 = quartiles(data)
		out = append(out, d)
	}
	return out
}

func numericCells(t dataset.Table, idx int) stats.Float64Data {
	data := make(stats.Float64Data, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		if f, ok := t.Record(i).Value(idx).Float(); ok {
			data = append(data, f)
		}
	}
	return data
}

func quartiles(data stats.Float64Data) (q1, q2, q3 dataset.Measurement) {
	if len(data) == 0 {
		return dataset.NoData(), dataset.NoData(), dataset.NoData()
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return percentile(sorted, 0.25), percentile(sorted, 0.5), percentile(sorted, 0.75)
}

// percentile interpolates linearly at rank (n-1)p of sorted, the default
// method of numpy and pandas.
func percentile(sorted []float64, p float64) dataset.Measurement {
	if len(sorted) == 0 {
		return dataset.NoData()
	}
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return dataset.Measured(sorted[len(sorted)-1])
	}
	frac := h - float64(lo)
	return measure(sorted[lo]+frac*(sorted[lo+1]-sorted[lo]), nil)
}

func mean(data []float64) dataset.Measurement {
	if len(data) == 0 {
		return dataset.NoData()
	}
	return measure(stats.Mean(data))
}

// measure turns a library result into a Measurement, mapping errors and NaN to NoData.
func measure(v float64, err error) dataset.Measurement {
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return dataset.NoData()
	}
	return dataset.Measured(v)
}

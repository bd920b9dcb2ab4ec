package pipeline

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"titanicdash/domain/core"
	"titanicdash/domain/dataset"
)

// DensityPoints is the number of grid points a density estimate is
// evaluated at.
const DensityPoints = 200

// densityCut is how many bandwidths the density grid extends past the data.
const densityCut = 3

// Histogram bins the non-missing values of a column into equal-width bins
// spanning the observed range. The last bin is closed on the right. The
// result also carries a kernel density estimate of the same values.
func Histogram(t dataset.Table, column string, bins int) (dataset.Histogram, error) {
	idx, ok := t.Schema().Index(column)
	if !ok {
		return dataset.Histogram{}, core.NewUnknownColumnError(column)
	}
	if bins < 1 {
		bins = 1
	}

	data := []float64(numericCells(t, idx))
	h := dataset.Histogram{Column: column, Total: len(data), Missing: t.Len() - len(data)}
	if len(data) == 0 {
		return h, nil
	}
	sort.Float64s(data)

	lo, hi := data[0], data[len(data)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	edges := floats.Span(make([]float64, bins+1), lo, hi)
	edges[bins] = hi

	// gonum counts dividers[j] <= x < dividers[j+1]; nudge the top edge so
	// the maximum lands in the last bin.
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, data, nil)

	h.Bins = make([]dataset.HistogramBin, bins)
	for j := 0; j < bins; j++ {
		h.Bins[j] = dataset.HistogramBin{Low: edges[j], High: edges[j+1], Count: int(counts[j])}
	}
	h.Density, h.Bandwidth = KernelDensity(data, DensityPoints)
	return h, nil
}

// KernelDensity estimates the density of data with Gaussian kernels and
// Scott's rule bandwidth, sigma * n^(-1/5). The grid spans the data plus
// three bandwidths on each side so the estimate integrates to about one.
// Fewer than two values or zero spread yield no estimate.
func KernelDensity(data []float64, points int) ([]dataset.DensityPoint, float64) {
	if len(data) < 2 || points < 2 {
		return nil, 0
	}
	sigma := stat.StdDev(data, nil)
	if sigma == 0 || math.IsNaN(sigma) {
		return nil, 0
	}
	bw := sigma * math.Pow(float64(len(data)), -0.2)

	lo, hi := floats.Min(data)-densityCut*bw, floats.Max(data)+densityCut*bw
	grid := floats.Span(make([]float64, points), lo, hi)

	kernels := make([]distuv.Normal, len(data))
	for i, v := range data {
		kernels[i] = distuv.Normal{Mu: v, Sigma: bw}
	}

	out := make([]dataset.DensityPoint, points)
	n := float64(len(data))
	for j, x := range grid {
		var sum float64
		for _, k := range kernels {
			sum += k.Prob(x)
		}
		out[j] = dataset.DensityPoint{X: x, Density: sum / n}
	}
	return out, bw
}

// CountBy counts records for every combination of x and hue values, the
// data behind a grouped count plot. Both axes are in first-seen order and
// empty combinations are reported with a zero count. Records missing either
// value are skipped.
func CountBy(t dataset.Table, xColumn, hueColumn string) ([]dataset.CountGroup, error) {
	xIdx, ok := t.Schema().Index(xColumn)
	if !ok {
		return nil, core.NewUnknownColumnError(xColumn)
	}
	hueIdx, ok := t.Schema().Index(hueColumn)
	if !ok {
		return nil, core.NewUnknownColumnError(hueColumn)
	}

	var xs, hues []string
	seenX := make(map[string]bool)
	seenHue := make(map[string]bool)
	counts := make(map[[2]string]int)

	for i := 0; i < t.Len(); i++ {
		r := t.Record(i)
		x, hue := r.Value(xIdx), r.Value(hueIdx)
		if x.Missing() || hue.Missing() {
			continue
		}
		xl, hl := x.String(), hue.String()
		if !seenX[xl] {
			seenX[xl] = true
			xs = append(xs, xl)
		}
		if !seenHue[hl] {
			seenHue[hl] = true
			hues = append(hues, hl)
		}
		counts[[2]string{xl, hl}]++
	}

	out := make([]dataset.CountGroup, 0, len(xs)*len(hues))
	for _, x := range xs {
		for _, h := range hues {
			out = append(out, dataset.CountGroup{X: x, Hue: h, Count: counts[[2]string{x, h}]})
		}
	}
	return out, nil
}

// BoxStats computes box plot statistics of valueColumn per group, groups
// ordered by value. Whiskers reach the furthest points within 1.5 IQR of the
// quartiles; points beyond are outliers.
func BoxStats(t dataset.Table, groupColumn, valueColumn string) ([]dataset.BoxSummary, error) {
	gIdx, ok := t.Schema().Index(groupColumn)
	if !ok {
		return nil, core.NewUnknownColumnError(groupColumn)
	}
	vIdx, ok := t.Schema().Index(valueColumn)
	if !ok {
		return nil, core.NewUnknownColumnError(valueColumn)
	}

	type bucket struct {
		key  dataset.Value
		data stats.Float64Data
	}
	buckets := make(map[string]*bucket)
	for i := 0; i < t.Len(); i++ {
		r := t.Record(i)
		g := r.Value(gIdx)
		v, ok := r.Value(vIdx).Float()
		if g.Missing() || !ok {
			continue
		}
		b, exists := buckets[g.Key()]
		if !exists {
			b = &bucket{key: g}
			buckets[g.Key()] = b
		}
		b.data = append(b.data, v)
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool { return valueLess(ordered[i].key, ordered[j].key) })

	out := make([]dataset.BoxSummary, 0, len(ordered))
	for _, b := range ordered {
		out = append(out, boxSummary(b.key.String(), b.data))
	}
	return out, nil
}

func boxSummary(group string, data stats.Float64Data) dataset.BoxSummary {
	sort.Float64s(data)
	s := dataset.BoxSummary{
		Group:    group,
		Count:    len(data),
		Min:      measure(stats.Min(data)),
		Max:      measure(stats.Max(data)),
		Outliers: []float64{},
	}
	s.Q1, s.Median, s.Q3 = quartiles(data)

	q1, ok1 := s.Q1.Float()
	q3, ok3 := s.Q3.Float()
	if !ok1 || !ok3 {
		s.LowerWhisker, s.UpperWhisker = dataset.NoData(), dataset.NoData()
		return s
	}

	iqr := q3 - q1
	lowFence, highFence := q1-1.5*iqr, q3+1.5*iqr
	lower, upper := math.Inf(1), math.Inf(-1)
	for _, v := range data {
		if v < lowFence || v > highFence {
			s.Outliers = append(s.Outliers, v)
			continue
		}
		lower = math.Min(lower, v)
		upper = math.Max(upper, v)
	}
	s.LowerWhisker = measure(lower, nil)
	s.UpperWhisker = measure(upper, nil)
	return s
}

// valueLess orders numbers before strings, numbers numerically.
func valueLess(a, b dataset.Value) bool {
	af, aNum := a.Float()
	bf, bNum := b.Float()
	switch {
	case aNum && bNum:
		return af < bf
	case aNum != bNum:
		return aNum
	}
	return a.String() < b.String()
}

// AgeHistogram bins the age column of t.
func AgeHistogram(t dataset.Table, roles Roles, bins int) (dataset.Histogram, error) {
	return Histogram(t, roles.Age, bins)
}

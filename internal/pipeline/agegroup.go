package pipeline

import (
	"titanicdash/domain/dataset"
)

// DeriveAgeGroup buckets an age. Boundaries are left-inclusive, so 18 is a
// young adult and 30 an adult. Missing or non-numeric ages are Unknown.
func DeriveAgeGroup(age dataset.Value) dataset.AgeGroup {
	a, ok := age.Float()
	if !ok || age.IsBoolean() {
		return dataset.AgeGroupUnknown
	}
	switch {
	case a < 18:
		return dataset.AgeGroupChildren
	case a < 30:
		return dataset.AgeGroupYoungAdults
	case a < 50:
		return dataset.AgeGroupAdults
	}
	return dataset.AgeGroupSeniors
}

// AgeGroups returns the derived bucket of every record in t, in row order.
func AgeGroups(t dataset.Table) ([]dataset.AgeGroup, error) {
	cells, err := dataset.ColumnValues(t, dataset.AgeGroupColumn)
	if err != nil {
		return nil, err
	}
	out := make([]dataset.AgeGroup, len(cells))
	for i, v := range cells {
		if v.Missing() {
			out[i] = dataset.AgeGroupUnknown
			continue
		}
		out[i] = dataset.AgeGroup(v.AsString())
	}
	return out, nil
}

// CountAgeGroups tallies records per bucket in display order, zeros included.
func CountAgeGroups(t dataset.Table) ([]dataset.CountGroup, error) {
	groups, err := AgeGroups(t)
	if err != nil {
		return nil, err
	}
	counts := make(map[dataset.AgeGroup]int, len(dataset.AgeGroups))
	for _, g := range groups {
		counts[g]++
	}
	out := make([]dataset.CountGroup, 0, len(dataset.AgeGroups))
	for _, g := range dataset.AgeGroups {
		out = append(out, dataset.CountGroup{X: string(g), Count: counts[g]})
	}
	return out, nil
}

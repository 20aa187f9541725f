// Package encoding maps categorical cell values to integer codes scoped to
// a single batch.
package encoding

import (
	"sort"
)

// MissingValue is the literal an empty cell is coerced to before encoding.
const MissingValue = "nan"

// Mapping assigns codes 0..k-1 to the distinct values of one field, in
// lexicographic order of the values. A Mapping is valid only for the batch
// it was fitted on.
type Mapping struct {
	values []string
	codes  map[string]int
}

// Normalize coerces a raw cell to the string form that gets encoded. Only
// an empty cell is missing; padding is part of the value.
func Normalize(v string) string {
	if v == "" {
		return MissingValue
	}
	return v
}

// Fit builds a mapping from every value observed in the batch.
func Fit(values []string) *Mapping {
	codes := make(map[string]int, len(values))
	distinct := make([]string, 0, len(values))
	for _, v := range values {
		v = Normalize(v)
		if _, ok := codes[v]; ok {
			continue
		}
		codes[v] = 0
		distinct = append(distinct, v)
	}
	sort.Strings(distinct)
	for i, v := range distinct {
		codes[v] = i
	}
	return &Mapping{values: distinct, codes: codes}
}

// Code returns the code of v and whether v was seen during Fit.
func (m *Mapping) Code(v string) (int, bool) {
	c, ok := m.codes[Normalize(v)]
	return c, ok
}

// Transform encodes values seen during Fit. Unseen values get -1.
func (m *Mapping) Transform(values []string) []int {
	out := make([]int, len(values))
	for i, v := range values {
		c, ok := m.Code(v)
		if !ok {
			c = -1
		}
		out[i] = c
	}
	return out
}

// FitTransform is Fit followed by Transform on the same values.
func FitTransform(values []string) ([]int, *Mapping) {
	m := Fit(values)
	return m.Transform(values), m
}

// Len returns the number of distinct values.
func (m *Mapping) Len() int { return len(m.values) }

// Values returns the distinct values in code order.
func (m *Mapping) Values() []string { return append([]string(nil), m.values...) }

// Package chart projects an analysis result into chart-ready data and
// renders it, either as terminal bars or as a PNG image.
package chart

import "github.com/chemviz/chemviz/internal/analysis"

// Series is a positional pairing of labels and values: Values[i] is the
// count for Labels[i].
type Series struct {
	Labels []string
	Values []int64
}

// Len returns the number of bars.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Labels)
}

// Max returns the largest value, or 0 for an empty series.
func (s *Series) Max() int64 {
	var m int64
	if s == nil {
		return 0
	}
	for _, v := range s.Values {
		if v > m {
			m = v
		}
	}
	return m
}

// Total returns the sum of all values.
func (s *Series) Total() int64 {
	var sum int64
	if s == nil {
		return 0
	}
	for _, v := range s.Values {
		sum += v
	}
	return sum
}

// Project derives a Series from r. It reports false when r is nil or has
// no type_distribution, in which case no chart should be drawn. Labels keep
// the order in which the service listed them.
func Project(r *analysis.Result) (*Series, bool) {
	if r == nil || !r.HasDistribution {
		return nil, false
	}

	s := &Series{
		Labels: make([]string, len(r.TypeDistribution)),
		Values: make([]int64, len(r.TypeDistribution)),
	}
	for i, tc := range r.TypeDistribution {
		s.Labels[i] = tc.Label
		s.Values[i] = tc.Count
	}
	return s, true
}

package analysis

import "strings"

// accumulator tracks running per-column state across one pass over the data
// rows: null count, the set of distinct trimmed non-null values, and, while
// the column is still a numeric candidate, its parsed numeric values.
type accumulator struct {
	name             string
	nullCount        int
	distinct         map[string]struct{}
	numericCandidate bool
	numeric          []float64
}

// newAccumulators builds one accumulator per header cell, in header order.
func newAccumulators(header []string) []*accumulator {
	accs := make([]*accumulator, len(header))
	for i, name := range header {
		accs[i] = &accumulator{
			name:             name,
			distinct:         make(map[string]struct{}),
			numericCandidate: true,
		}
	}
	return accs
}

// observe folds one cell into the column state. Uniqueness is computed over
// the trimmed representation, so "A" and " A " count as the same value. A
// single non-numeric value permanently disqualifies the column from numeric
// profiling, regardless of any values seen before or after.
func (a *accumulator) observe(cell string) {
	kind, v := classify(cell)
	if kind == valueNull {
		a.nullCount++
		return
	}
	a.distinct[strings.TrimSpace(cell)] = struct{}{}
	if !a.numericCandidate {
		return
	}
	if kind == valueNumeric {
		a.numeric = append(a.numeric, v)
	} else {
		a.numericCandidate = false
		a.numeric = nil
	}
}

// finalize produces the column's profile. A column counts as numeric only if
// it was never disqualified and at least one numeric value was observed; an
// all-null column is never numeric. Statistical fields stay nil for
// non-numeric columns so "no data" remains distinguishable from zero.
func (a *accumulator) finalize(breakpoints []float64) ColumnStatistics {
	col := ColumnStatistics{
		ColumnName:  a.name,
		NullCount:   a.nullCount,
		UniqueCount: len(a.distinct),
	}
	if !a.numericCandidate || len(a.numeric) == 0 {
		return col
	}

	s := summarize(a.numeric, breakpoints)
	col.IsNumeric = true
	col.MinValue = &s.Min
	col.MaxValue = &s.Max
	col.MeanValue = &s.Mean
	col.MedianValue = &s.Median
	col.StandardDeviation = &s.StdDev
	col.Percentiles = s.Percentiles
	return col
}

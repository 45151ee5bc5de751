package analysis

import (
	"math"
	"slices"
)

// summary holds the descriptive statistics of one numeric column.
type summary struct {
	Min         float64
	Max         float64
	Mean        float64
	Median      float64
	StdDev      float64
	Percentiles []float64
}

// summarize computes all statistics for a non-empty value list. The input is
// cloned and sorted once; every statistic below reuses the sorted copy.
func summarize(values []float64, breakpoints []float64) summary {
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	m := mean(sorted)
	s := summary{
		Min:         sorted[0],
		Max:         sorted[len(sorted)-1],
		Mean:        m,
		Median:      median(sorted),
		StdDev:      stdDev(sorted, m),
		Percentiles: make([]float64, len(breakpoints)),
	}
	for i, p := range breakpoints {
		s.Percentiles[i] = percentile(sorted, p)
	}
	return s
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median returns the middle element for an odd count, or the average of the
// two middle elements for an even count.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// stdDev computes the population standard deviation (dividing by n, not n-1).
func stdDev(values []float64, mean float64) float64 {
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// percentile estimates the p-th percentile of a sorted value list using
// linear interpolation between the two closest ranks:
//
//	index = (p/100) * (n-1)
//	result = sorted[floor] + (index-floor) * (sorted[ceil] - sorted[floor])
//
// For a single-element list every percentile equals that element.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	index := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	fraction := index - float64(lower)
	return sorted[lower] + fraction*(sorted[upper]-sorted[lower])
}

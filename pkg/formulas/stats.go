package formulas

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// StdDevAround calculates the population standard deviation of a sample
// around a supplied center (typically a benchmark mean rather than the
// sample's own mean).
func StdDevAround(data []float64, center float64) float64 {
	if len(data) == 0 {
		return 0
	}

	sumSq := 0.0
	for _, v := range data {
		d := v - center
		sumSq += d * d
	}

	return math.Sqrt(sumSq / float64(len(data)))
}

// ZScore calculates the signed distance of value from mean, expressed in
// standard deviations. A zero standard deviation degrades to a neutral 0
// instead of dividing.
func ZScore(value, mean, stdDev float64) float64 {
	if stdDev == 0 {
		return 0
	}
	return (value - mean) / stdDev
}

// PercentileRank calculates the fraction of peers strictly below value,
// expressed 0-100.
//
// This is not a classical interpolated percentile: peers are sorted
// ascending, the position of the first peer value >= value is the count
// of peers strictly below, and the rank is position/count*100. A value
// above every peer ranks 100. An empty sample ranks 50 (neutral).
func PercentileRank(value float64, peerValues []float64) float64 {
	if len(peerValues) == 0 {
		return 50
	}

	sorted := make([]float64, len(peerValues))
	copy(sorted, peerValues)
	sort.Float64s(sorted)

	position := len(sorted)
	for i, v := range sorted {
		if v >= value {
			position = i
			break
		}
	}

	return float64(position) / float64(len(sorted)) * 100
}

// Package mathutil holds the small statistics helpers shared by analytics.
package mathutil

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Mean returns 0 for an empty slice.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	m, err := stats.Mean(data)
	if err != nil {
		return 0
	}
	return m
}

// Variance is the sample variance (n-1 denominator); 0 for fewer than two values.
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	v, err := stats.SampleVariance(data)
	if err != nil {
		return 0
	}
	return v
}

// StdDev is the sample standard deviation.
func StdDev(data []float64) float64 {
	return math.Sqrt(Variance(data))
}

// PctChange is (current-previous)/previous in percent, 0 when previous is 0.
func PctChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

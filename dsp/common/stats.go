package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistical functions shared across the dsp packages, using gonum
// for robustness

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// WeightedMean calculates the weighted mean of data with the given weights.
// Returns 0 when the weights sum to zero.
func WeightedMean(data, weights []float64) float64 {
	if len(data) == 0 || len(data) != len(weights) {
		return 0.0
	}
	if floats.Sum(weights) <= 0 {
		return 0.0
	}
	return stat.Mean(data, weights)
}

// HarmonicMean calculates the harmonic mean of the positive finite entries.
// Entries that are zero, negative, NaN or Inf are skipped.
func HarmonicMean(data []float64) float64 {
	sum := 0.0
	count := 0
	for _, v := range data {
		if v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v) {
			sum += 1.0 / v
			count++
		}
	}
	if count == 0 || sum == 0 {
		return 0.0
	}
	return float64(count) / sum
}

// Variance calculates the population variance of a slice
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}
	mean := stat.Mean(data, nil)
	sum := 0.0
	for _, v := range data {
		diff := v - mean
		sum += diff * diff
	}
	return sum / float64(len(data))
}

// StandardDeviation calculates the population standard deviation
func StandardDeviation(data []float64) float64 {
	return math.Sqrt(Variance(data))
}

// RMS calculates root mean square
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}

	sumSquares := 0.0
	for _, val := range data {
		sumSquares += val * val
	}

	return math.Sqrt(sumSquares / float64(len(data)))
}

// MaxAbs returns the maximum absolute value in the slice
func MaxAbs(data []float64) float64 {
	max := 0.0
	for _, v := range data {
		abs := math.Abs(v)
		if abs > max {
			max = abs
		}
	}
	return max
}

// Clamp limits value to the [min, max] range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// NormalizeRange maps value from [min, max] to [0, 1], clamped
func NormalizeRange(value, min, max float64) float64 {
	if max <= min {
		return 0.0
	}
	return Clamp((value-min)/(max-min), 0.0, 1.0)
}

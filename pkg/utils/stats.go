package utils

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a set of episode returns.
type Summary struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// Summarize computes summary statistics over the given values. A zero
// Summary is returned for an empty slice.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	// StdDev is NaN for a single sample, which encoding/json rejects.
	var std float64
	if len(values) > 1 {
		std = stat.StdDev(values, nil)
	}
	return Summary{
		Mean: stat.Mean(values, nil),
		Std:  std,
		Min:  floats.Min(values),
		Max:  floats.Max(values),
	}
}

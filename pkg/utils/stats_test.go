package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{10, 20, 30})
	require.Equal(t, float64(20), s.Mean)
	require.Equal(t, float64(10), s.Std)
	require.Equal(t, float64(10), s.Min)
	require.Equal(t, float64(30), s.Max)
}

func TestSummarizeSingle(t *testing.T) {
	s := Summarize([]float64{5})
	require.Equal(t, Summary{Mean: 5, Std: 0, Min: 5, Max: 5}, s)
}

func TestSummarizeEmpty(t *testing.T) {
	require.Equal(t, Summary{}, Summarize(nil))
}

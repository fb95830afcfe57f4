package dqn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecaySchedule(t *testing.T) {
	s := NewDecaySchedule(1.0, 0.5, 0.1)
	require.Equal(t, float32(1.0), s.Initial())

	// Each value multiplies by the decay factor.
	require.Equal(t, float32(0.5), s.Value())
	require.Equal(t, float32(0.25), s.Value())
	require.Equal(t, float32(0.125), s.Value())

	// The floor holds once reached.
	require.Equal(t, float32(0.1), s.Value())
	require.Equal(t, float32(0.1), s.Value())
}

func TestDecayScheduleStaysWithinBounds(t *testing.T) {
	s := NewDecaySchedule(1.0, 0.995, 0.01)
	for i := 0; i < 2000; i++ {
		v := s.Value()
		require.LessOrEqual(t, v, s.Initial())
		require.GreaterOrEqual(t, v, float32(0.01))
	}
	require.Equal(t, float32(0.01), s.Value())
}

func TestConstantSchedule(t *testing.T) {
	s := NewConstantSchedule(0.3)
	require.Equal(t, float32(0.3), s.Initial())
	for i := 0; i < 5; i++ {
		require.Equal(t, float32(0.3), s.Value())
	}
}

package dqn

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"

	"github.com/deepqlab/cartpole-dqn/pkg/envs"
)

func newTestEvent(i int) *Event {
	state := tensor.New(tensor.WithShape(1, 4), tensor.WithBacking([]float32{float32(i), float32(i + 1), float32(i + 2), float32(i + 3)}))
	next := tensor.New(tensor.WithShape(1, 4), tensor.WithBacking([]float32{float32(i + 1), float32(i + 2), float32(i + 3), float32(i + 4)}))
	return NewEvent(state, i%2, &envs.Outcome{
		Observation: next,
		Reward:      1.0,
	})
}

func TestMemorySample(t *testing.T) {
	mem := NewMemory(100)

	for i := 0; i < 10; i++ {
		mem.Remember(newTestEvent(i))
	}

	sample, err := mem.Sample(5)
	require.NoError(t, err)
	require.Len(t, sample, 5)

	seen := map[*Event]bool{}
	for _, s := range sample {
		require.NotNil(t, s.State)
		require.NotNil(t, s.Observation)
		require.False(t, seen[s], "sampled the same event twice")
		seen[s] = true
	}
}

func TestMemorySampleTooLarge(t *testing.T) {
	mem := NewMemory(100)
	mem.Remember(newTestEvent(0))

	_, err := mem.Sample(2)
	require.Error(t, err)
}

func TestMemoryEvictsOldest(t *testing.T) {
	mem := NewMemory(5)

	var oldest *Event
	for i := 0; i < 8; i++ {
		ev := newTestEvent(i)
		if i == 0 {
			oldest = ev
		}
		mem.Remember(ev)
	}

	require.Equal(t, 5, mem.Len())
	for i := 0; i < mem.Len(); i++ {
		require.NotSame(t, oldest, mem.At(i))
	}
}

package envs

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestCartPoleReset(t *testing.T) {
	env := NewCartPole(&CartPoleConfig{Seed: 42})

	obs, err := env.Reset()
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{1, ObservationSize}, obs.Shape())

	for _, v := range obs.Data().([]float32) {
		require.GreaterOrEqual(t, v, -startBound)
		require.LessOrEqual(t, v, startBound)
	}
}

func TestCartPoleStepBeforeReset(t *testing.T) {
	env := NewCartPole(nil)

	_, err := env.Step(0)
	require.Error(t, err)
}

func TestCartPoleInvalidAction(t *testing.T) {
	env := NewCartPole(&CartPoleConfig{Seed: 42})

	_, err := env.Reset()
	require.NoError(t, err)

	_, err = env.Step(2)
	require.Error(t, err)
	_, err = env.Step(-1)
	require.Error(t, err)
}

func TestCartPoleFallsOverPushingOneWay(t *testing.T) {
	env := NewCartPole(&CartPoleConfig{Seed: 42})

	_, err := env.Reset()
	require.NoError(t, err)

	// Always pushing right topples the pole well before the step limit.
	var done bool
	for i := 0; i < env.MaxSteps; i++ {
		outcome, err := env.Step(1)
		require.NoError(t, err)
		require.Equal(t, float32(1.0), outcome.Reward)
		if outcome.Done {
			done = true
			break
		}
	}
	require.True(t, done)
	require.Less(t, env.Steps(), env.MaxSteps)

	// Done is sticky.
	_, err = env.Step(1)
	require.Error(t, err)

	// Reset starts a fresh episode.
	_, err = env.Reset()
	require.NoError(t, err)
	require.False(t, env.Done())
	require.Zero(t, env.Steps())
}

func TestCartPoleTruncatesAtMaxSteps(t *testing.T) {
	env := NewCartPole(&CartPoleConfig{MaxSteps: 25, Seed: 42})

	_, err := env.Reset()
	require.NoError(t, err)

	// Alternating pushes keeps the pole up long enough to hit the limit.
	for i := 0; i < env.MaxSteps; i++ {
		outcome, err := env.Step(i % 2)
		require.NoError(t, err)
		if outcome.Done {
			break
		}
	}
	require.True(t, env.Done())
}

func TestCartPoleSeededStartsRepeat(t *testing.T) {
	a := NewCartPole(&CartPoleConfig{Seed: 7})
	b := NewCartPole(&CartPoleConfig{Seed: 7})

	obsA, err := a.Reset()
	require.NoError(t, err)
	obsB, err := b.Reset()
	require.NoError(t, err)

	require.Equal(t, obsA.Data().([]float32), obsB.Data().([]float32))
}

package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsObserveEpisode(t *testing.T) {
	m := NewMetrics()

	m.ObserveEpisode(42, 42, 0.8)
	m.ObserveEpisode(100, 100, 0.5)

	require.Equal(t, float64(100), testutil.ToFloat64(m.episodeReturn))
	require.Equal(t, float64(0.5), testutil.ToFloat64(m.epsilon))
	require.Equal(t, float64(2), testutil.ToFloat64(m.episodesTotal))
	require.Equal(t, float64(142), testutil.ToFloat64(m.stepsTotal))
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.ObserveEpisode(13, 13, 1.0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), "dqn_episode_return 13")
	require.Contains(t, rec.Body.String(), "dqn_episodes_total 1")
}

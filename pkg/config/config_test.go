package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, ioutil.WriteFile(path, []byte(body), 0644))
	return path
}

func TestParseConfigDefaults(t *testing.T) {
	conf, err := ParseConfig(writeConfig(t, `{}`))
	require.NoError(t, err)
	require.Equal(t, Default(), conf)
}

func TestParseConfigOverrides(t *testing.T) {
	conf, err := ParseConfig(writeConfig(t, `{
		"env": {"max_steps": 500, "seed": 7},
		"agent": {"batch_size": 64},
		"training": {"episodes": 50},
		"metrics_addr": ":9100"
	}`))
	require.NoError(t, err)

	require.Equal(t, 500, conf.Env.MaxSteps)
	require.Equal(t, int64(7), conf.Env.Seed)
	require.Equal(t, 64, conf.Agent.BatchSize)
	require.Equal(t, 50, conf.Training.Episodes)
	require.Equal(t, ":9100", conf.MetricsAddr)
	// Untouched fields keep their defaults.
	require.Equal(t, float32(0.95), conf.Agent.Gamma)
	require.Equal(t, "info", conf.LogLevel)
}

func TestParseConfigInvalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad gamma", `{"agent": {"gamma": 1.5}}`},
		{"epsilon below min", `{"agent": {"epsilon_initial": 0.001}}`},
		{"zero batch", `{"agent": {"batch_size": -1}}`},
		{"buffer smaller than batch", `{"agent": {"batch_size": 64, "buffer_size": 32}}`},
		{"zero target update interval", `{"agent": {"update_target_steps": 0}}`},
		{"growing epsilon", `{"agent": {"epsilon_decay": 1.5}}`},
		{"zero epsilon decay", `{"agent": {"epsilon_decay": 0}}`},
		{"negative epsilon floor", `{"agent": {"epsilon_min": -0.1, "epsilon_initial": 1.0}}`},
		{"zero learning rate", `{"agent": {"learning_rate": 0}}`},
		{"no episodes", `{"training": {"episodes": -5}}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseConfig(writeConfig(t, c.body))
			require.Error(t, err)
		})
	}
}

func TestParseConfigMissingFile(t *testing.T) {
	_, err := ParseConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

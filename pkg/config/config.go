// Package config loads the trainer configuration.
package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
)

// Config stores the config for the trainer.
type Config struct {
	// Env configuration of the environment.
	Env EnvConfig `json:"env"`
	// Agent configuration of the dqn agent.
	Agent AgentConfig `json:"agent"`
	// Training configuration of the training run.
	Training TrainingConfig `json:"training"`
	// MetricsAddr address the Prometheus metrics listener binds to.
	// Empty disables the listener.
	MetricsAddr string `json:"metrics_addr"`
	// LogLevel one of debug|info|warning|error
	LogLevel string `json:"log_level"`
}

// EnvConfig stores the config for the environment.
type EnvConfig struct {
	// MaxSteps per episode before truncation.
	MaxSteps int `json:"max_steps"`
	// Seed for the starting-state generator. 0 seeds from the clock.
	Seed int64 `json:"seed"`
}

// AgentConfig stores the hyperparameters of the agent.
type AgentConfig struct {
	// Gamma discount factor.
	Gamma float32 `json:"gamma"`
	// EpsilonInitial starting exploration rate.
	EpsilonInitial float32 `json:"epsilon_initial"`
	// EpsilonDecay multiplicative decay applied per learn step.
	EpsilonDecay float32 `json:"epsilon_decay"`
	// EpsilonMin floor of the exploration rate.
	EpsilonMin float32 `json:"epsilon_min"`
	// BatchSize of the replay samples.
	BatchSize int `json:"batch_size"`
	// BufferSize capacity of the replay memory.
	BufferSize int `json:"buffer_size"`
	// UpdateTargetSteps interval of target network syncs.
	UpdateTargetSteps int `json:"update_target_steps"`
	// LearningRate of the Adam solver.
	LearningRate float64 `json:"learning_rate"`
}

// TrainingConfig stores the config for the training run.
type TrainingConfig struct {
	// Episodes to train for.
	Episodes int `json:"episodes"`
	// EvalEpisodes greedy episodes to run after training.
	EvalEpisodes int `json:"eval_episodes"`
	// ResultsPath the per-episode results are written to. Empty disables.
	ResultsPath string `json:"results_path"`
	// CheckpointPath the policy weights are saved to. Empty disables.
	CheckpointPath string `json:"checkpoint_path"`
}

// Default returns the config with all defaults applied.
func Default() *Config {
	return &Config{
		Env: EnvConfig{
			MaxSteps: 200,
		},
		Agent: AgentConfig{
			Gamma:             0.95,
			EpsilonInitial:    1.0,
			EpsilonDecay:      0.995,
			EpsilonMin:        0.01,
			BatchSize:         20,
			BufferSize:        10000,
			UpdateTargetSteps: 100,
			LearningRate:      0.0005,
		},
		Training: TrainingConfig{
			Episodes:     200,
			EvalEpisodes: 10,
			ResultsPath:  "results.json",
		},
		LogLevel: "info",
	}
}

// ParseConfig parses config from the specified file, applying defaults for
// any field the file leaves unset.
func ParseConfig(path string) (*Config, error) {
	bytes, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %s", err)
	}
	conf := Default()
	err = json.Unmarshal(bytes, conf)
	if err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %s", err)
	}
	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) validate() error {
	if c.Agent.Gamma < 0 || c.Agent.Gamma > 1 {
		return fmt.Errorf("gamma must be within [0,1], got %v", c.Agent.Gamma)
	}
	if c.Agent.EpsilonInitial < c.Agent.EpsilonMin {
		return fmt.Errorf("epsilon_initial %v is below epsilon_min %v", c.Agent.EpsilonInitial, c.Agent.EpsilonMin)
	}
	if c.Agent.EpsilonMin < 0 {
		return fmt.Errorf("epsilon_min must not be negative, got %v", c.Agent.EpsilonMin)
	}
	if c.Agent.EpsilonDecay <= 0 || c.Agent.EpsilonDecay > 1 {
		return fmt.Errorf("epsilon_decay must be within (0,1], got %v", c.Agent.EpsilonDecay)
	}
	if c.Agent.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.Agent.BatchSize)
	}
	if c.Agent.BufferSize < c.Agent.BatchSize {
		return fmt.Errorf("buffer_size %d is smaller than batch_size %d", c.Agent.BufferSize, c.Agent.BatchSize)
	}
	if c.Agent.UpdateTargetSteps <= 0 {
		return fmt.Errorf("update_target_steps must be positive, got %d", c.Agent.UpdateTargetSteps)
	}
	if c.Agent.LearningRate <= 0 {
		return fmt.Errorf("learning_rate must be positive, got %v", c.Agent.LearningRate)
	}
	if c.Training.Episodes <= 0 {
		return fmt.Errorf("episodes must be positive, got %d", c.Training.Episodes)
	}
	return nil
}

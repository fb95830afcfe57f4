package experiment

import (
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/deepqlab/cartpole-dqn/pkg/utils"
)

// EpisodeResult is the outcome of a single training episode.
type EpisodeResult struct {
	Episode int     `json:"episode"`
	Score   float64 `json:"score"`
	Steps   int     `json:"steps"`
	Epsilon float64 `json:"epsilon"`
}

// Results of a training run.
type Results struct {
	// MaxSteps the environment truncated episodes at.
	MaxSteps int `json:"max_steps"`

	// Episodes in training order.
	Episodes []EpisodeResult `json:"episodes"`

	// Eval summary of the greedy evaluation episodes, when run.
	Eval *utils.Summary `json:"eval,omitempty"`
}

// Save writes the results as JSON to path.
func (r *Results) Save(path string) error {
	bytes, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling results: %s", err)
	}
	if err := ioutil.WriteFile(path, bytes, 0644); err != nil {
		return fmt.Errorf("error writing results: %s", err)
	}
	return nil
}

package dqn

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/aunum/goro/pkg/v1/model"
	"github.com/aunum/log"
	"gorgonia.org/tensor"
)

func init() {
	gob.Register(&tensor.Dense{})
	gob.Register(map[string]*tensor.Dense{})
}

// Save writes the learnables of the online policy to path.
func (a *Agent) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file: %w", err)
	}
	defer f.Close()

	weights := map[string]*tensor.Dense{}
	for _, node := range a.Policy.(*model.Sequential).Learnables() {
		weights[node.Name()] = node.Value().(*tensor.Dense)
	}

	if err := gob.NewEncoder(f).Encode(weights); err != nil {
		return fmt.Errorf("failed to encode learnables: %w", err)
	}
	log.Infof("saved checkpoint to %s", path)
	return nil
}

// Load restores the online policy learnables from path and propagates them
// to the target and predict policies. A missing file is not an error; the
// agent simply starts fresh.
func (a *Agent) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open checkpoint file: %w", err)
	}
	defer f.Close()

	var weights map[string]*tensor.Dense
	if err := gob.NewDecoder(f).Decode(&weights); err != nil {
		return fmt.Errorf("failed to decode learnables: %w", err)
	}

	for _, node := range a.Policy.(*model.Sequential).Learnables() {
		saved, ok := weights[node.Name()]
		if !ok {
			return fmt.Errorf("checkpoint is missing learnable %q", node.Name())
		}
		if err := tensor.Copy(node.Value().(*tensor.Dense), saved); err != nil {
			return fmt.Errorf("failed to restore learnable %q: %w", node.Name(), err)
		}
	}

	if err := a.Policy.(*model.Sequential).CloneLearnablesTo(a.TargetPolicy.(*model.Sequential)); err != nil {
		return err
	}
	a.lock.Lock()
	defer a.lock.Unlock()
	if err := a.Policy.(*model.Sequential).CloneLearnablesTo(a.PredictPolicy.(*model.Sequential)); err != nil {
		return err
	}
	log.Infof("restored checkpoint from %s", path)
	return nil
}

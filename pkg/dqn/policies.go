package dqn

import (
	"github.com/aunum/goro/pkg/v1/layer"
	m "github.com/aunum/goro/pkg/v1/model"
	"github.com/aunum/log"
	"gorgonia.org/gorgonia"
)

// PolicyConfig are the hyperparameters for a policy.
type PolicyConfig struct {
	// Loss function to evaluate network performance.
	Loss m.Loss

	// Optimizer to optimize the weights with regards to the error.
	Optimizer gorgonia.Solver

	// LayerBuilder is a builder of layer.
	LayerBuilder LayerBuilder

	// BatchSize of the updates.
	BatchSize int
}

// DefaultPolicyConfig are the default hyperparameters for a policy.
var DefaultPolicyConfig = &PolicyConfig{
	Loss:         m.MSE,
	Optimizer:    gorgonia.NewAdamSolver(gorgonia.WithBatchSize(20), gorgonia.WithLearnRate(0.0005)),
	LayerBuilder: DefaultFCLayerBuilder,
	BatchSize:    20,
}

// LayerBuilder builds layers.
type LayerBuilder func(x, y *m.Input) []layer.Config

// DefaultFCLayerBuilder is a default fully connected layer builder.
var DefaultFCLayerBuilder = func(x, y *m.Input) []layer.Config {
	return []layer.Config{
		layer.FC{Input: x.Squeeze()[0], Output: 24},
		layer.FC{Input: 24, Output: 24},
		layer.FC{Input: 24, Output: y.Squeeze()[0], Activation: layer.Linear},
	}
}

// MakePolicy makes a policy model.
func MakePolicy(name string, config *PolicyConfig, stateShape, actionShape []int) (m.Model, error) {
	x := m.NewInput("state", stateShape)
	y := m.NewInput("actionValue", actionShape)

	log.Debugv("x shape", x.Shape())
	log.Debugv("y shape", y.Shape())

	model, err := m.NewSequential(name)
	if err != nil {
		return nil, err
	}
	model.AddLayers(config.LayerBuilder(x, y)...)

	err = model.Compile(x, y,
		m.WithOptimizer(config.Optimizer),
		m.WithLoss(config.Loss),
		m.WithBatchSize(config.BatchSize),
	)
	if err != nil {
		return nil, err
	}
	return model, nil
}

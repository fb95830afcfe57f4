// Package envs implements the classic control environments the agent trains on.
package envs

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"
	rng "github.com/leesper/go_rng"
	"gorgonia.org/tensor"
)

// Physics constants for the cart-pole system.
const (
	gravity    float32 = 9.8
	cartMass   float32 = 1.0
	poleMass   float32 = 0.1
	totalMass          = cartMass + poleMass
	poleLength float32 = 0.5 // half the pole length
	forceMag   float32 = 10.0
	timeStep   float32 = 0.02

	// Failure thresholds.
	xThreshold     float32 = 2.4
	thetaThreshold float32 = 12 * 2 * math32.Pi / 360

	// Starting states are drawn uniformly from [-startBound, startBound].
	startBound float32 = 0.05
)

// DefaultMaxSteps is the step limit after which an episode is truncated.
const DefaultMaxSteps = 200

// NumActions is the size of the action space: push left or push right.
const NumActions = 2

// ObservationSize is the length of the state vector (x, xDot, theta, thetaDot).
const ObservationSize = 4

// Outcome is the result of taking an action in an environment.
type Outcome struct {
	// Observation of the current state.
	Observation *tensor.Dense

	// Reward from the action.
	Reward float32

	// Done is whether the episode ended.
	Done bool
}

// CartPole is a pole balancing on a cart which can be pushed left or right.
// The goal is to keep the pole upright for as long as possible.
type CartPole struct {
	// MaxSteps before the episode is truncated.
	MaxSteps int

	x        float32
	xDot     float32
	theta    float32
	thetaDot float32

	steps int
	done  bool
	begun bool

	uniform *rng.UniformGenerator
}

// CartPoleConfig is the config for a cart-pole environment.
type CartPoleConfig struct {
	// MaxSteps before the episode is truncated. Defaults to DefaultMaxSteps.
	MaxSteps int

	// Seed for the starting-state generator. Defaults to the current time.
	Seed int64
}

// NewCartPole returns a new cart-pole environment.
func NewCartPole(c *CartPoleConfig) *CartPole {
	if c == nil {
		c = &CartPoleConfig{}
	}
	maxSteps := c.MaxSteps
	if maxSteps == 0 {
		maxSteps = DefaultMaxSteps
	}
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &CartPole{
		MaxSteps: maxSteps,
		uniform:  rng.NewUniformGenerator(seed),
	}
}

// Reset the environment, sampling a new starting state.
func (e *CartPole) Reset() (*tensor.Dense, error) {
	e.x = e.uniform.Float32Range(-startBound, startBound)
	e.xDot = e.uniform.Float32Range(-startBound, startBound)
	e.theta = e.uniform.Float32Range(-startBound, startBound)
	e.thetaDot = e.uniform.Float32Range(-startBound, startBound)
	e.steps = 0
	e.done = false
	e.begun = true
	return e.observe(), nil
}

// Step the environment with the given action. Action 0 pushes the cart left,
// action 1 pushes it right.
func (e *CartPole) Step(action int) (*Outcome, error) {
	if !e.begun {
		return nil, fmt.Errorf("environment must be reset before stepping")
	}
	if e.done {
		return nil, fmt.Errorf("episode is done; call Reset to start another")
	}
	if action < 0 || action >= NumActions {
		return nil, fmt.Errorf("invalid action %d: action space is {0,%d}", action, NumActions-1)
	}

	force := forceMag
	if action == 0 {
		force = -forceMag
	}

	cosTheta := math32.Cos(e.theta)
	sinTheta := math32.Sin(e.theta)

	temp := (force + poleMass*poleLength*e.thetaDot*e.thetaDot*sinTheta) / totalMass
	thetaAcc := (gravity*sinTheta - cosTheta*temp) /
		(poleLength * (4.0/3.0 - poleMass*cosTheta*cosTheta/totalMass))
	xAcc := temp - poleMass*poleLength*thetaAcc*cosTheta/totalMass

	// Euler integration.
	e.x += timeStep * e.xDot
	e.xDot += timeStep * xAcc
	e.theta += timeStep * e.thetaDot
	e.thetaDot += timeStep * thetaAcc

	e.steps++
	failed := e.x < -xThreshold || e.x > xThreshold ||
		e.theta < -thetaThreshold || e.theta > thetaThreshold
	e.done = failed || e.steps >= e.MaxSteps

	return &Outcome{
		Observation: e.observe(),
		Reward:      1.0,
		Done:        e.done,
	}, nil
}

// Steps taken in the current episode.
func (e *CartPole) Steps() int {
	return e.steps
}

// Done is whether the current episode has ended.
func (e *CartPole) Done() bool {
	return e.done
}

func (e *CartPole) observe() *tensor.Dense {
	return tensor.New(
		tensor.WithShape(1, ObservationSize),
		tensor.WithBacking([]float32{e.x, e.xDot, e.theta, e.thetaDot}),
	)
}

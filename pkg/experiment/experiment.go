// Package experiment runs episodic training of a dqn agent on an environment.
package experiment

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/deepqlab/cartpole-dqn/pkg/dqn"
	"github.com/deepqlab/cartpole-dqn/pkg/envs"
	"github.com/deepqlab/cartpole-dqn/pkg/utils"
)

// Experiment trains an agent on an environment for a number of episodes and
// then evaluates the learned policy greedily.
type Experiment struct {
	// Env the agent acts in.
	Env *envs.CartPole

	// Agent being trained.
	Agent *dqn.Agent

	// Episodes to train for.
	Episodes int

	// EvalEpisodes greedy episodes to run after training.
	EvalEpisodes int

	// Metrics to publish progress to. May be nil.
	Metrics *utils.Metrics
}

// Run the experiment. Training stops early, without error, when ctx is
// cancelled; evaluation is skipped in that case.
func (e *Experiment) Run(ctx context.Context) (*Results, error) {
	results := &Results{MaxSteps: e.Env.MaxSteps}
	for episode := 1; episode <= e.Episodes; episode++ {
		select {
		case <-ctx.Done():
			logrus.Warnf("training cancelled after %d episodes", episode-1)
			return results, nil
		default:
		}

		score, steps, err := e.runEpisode()
		if err != nil {
			return nil, fmt.Errorf("episode %d: %w", episode, err)
		}

		epsilon := e.Agent.CurrentEpsilon()
		results.Episodes = append(results.Episodes, EpisodeResult{
			Episode: episode,
			Score:   score,
			Steps:   steps,
			Epsilon: float64(epsilon),
		})
		if e.Metrics != nil {
			e.Metrics.ObserveEpisode(score, steps, epsilon)
		}
		logrus.WithFields(logrus.Fields{
			"episode": episode,
			"score":   score,
			"epsilon": epsilon,
		}).Info("episode finished")
	}

	if e.EvalEpisodes > 0 {
		summary, err := e.evaluate()
		if err != nil {
			return nil, err
		}
		results.Eval = &summary
		logrus.WithFields(logrus.Fields{
			"episodes": e.EvalEpisodes,
			"mean":     summary.Mean,
			"std":      summary.Std,
			"min":      summary.Min,
			"max":      summary.Max,
		}).Info("evaluation finished")
	}
	return results, nil
}

// runEpisode plays one episode, remembering every transition and learning
// after each step.
func (e *Experiment) runEpisode() (score float64, steps int, err error) {
	state, err := e.Env.Reset()
	if err != nil {
		return 0, 0, err
	}
	for !e.Env.Done() {
		action, err := e.Agent.Action(state)
		if err != nil {
			return 0, 0, err
		}
		outcome, err := e.Env.Step(action)
		if err != nil {
			return 0, 0, err
		}

		e.Agent.Remember(dqn.NewEvent(state, action, outcome))
		if err := e.Agent.Learn(); err != nil {
			return 0, 0, err
		}

		score += float64(outcome.Reward)
		state = outcome.Observation
	}
	return score, e.Env.Steps(), nil
}

// evaluate plays greedy episodes with the learned policy, no exploration
// and no learning.
func (e *Experiment) evaluate() (utils.Summary, error) {
	returns := make([]float64, 0, e.EvalEpisodes)
	for i := 0; i < e.EvalEpisodes; i++ {
		state, err := e.Env.Reset()
		if err != nil {
			return utils.Summary{}, err
		}
		var score float64
		for !e.Env.Done() {
			action, err := e.Agent.BestAction(state)
			if err != nil {
				return utils.Summary{}, err
			}
			outcome, err := e.Env.Step(action)
			if err != nil {
				return utils.Summary{}, err
			}
			score += float64(outcome.Reward)
			state = outcome.Observation
		}
		returns = append(returns, score)
	}
	return utils.Summarize(returns), nil
}

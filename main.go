package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	agentv1 "github.com/aunum/gold/pkg/v1/agent"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/thedevsaddam/gojsonq/v2"
	"gorgonia.org/gorgonia"

	"github.com/deepqlab/cartpole-dqn/pkg/config"
	"github.com/deepqlab/cartpole-dqn/pkg/dqn"
	"github.com/deepqlab/cartpole-dqn/pkg/envs"
	"github.com/deepqlab/cartpole-dqn/pkg/experiment"
	"github.com/deepqlab/cartpole-dqn/pkg/utils"
)

func main() {
	rand.Seed(time.Now().UnixNano())
	command := newRootCmd()
	if err := command.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cartpole-dqn",
		Short:         "Train a deep Q-network on the cart-pole balancing task",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newTrainCmd(), newReportCmd())
	return cmd
}

func newTrainCmd() *cobra.Command {
	var (
		configPath  string
		episodes    int
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Run the training experiment",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := config.Default()
			if configPath != "" {
				var err error
				conf, err = config.ParseConfig(configPath)
				if err != nil {
					return err
				}
			}
			if episodes > 0 {
				conf.Training.Episodes = episodes
			}
			if metricsAddr != "" {
				conf.MetricsAddr = metricsAddr
			}
			setLogLevel(conf.LogLevel)
			return train(conf)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the config file")
	cmd.Flags().IntVar(&episodes, "episodes", 0, "override the number of training episodes")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on")
	return cmd
}

func train(conf *config.Config) error {
	env := envs.NewCartPole(&envs.CartPoleConfig{
		MaxSteps: conf.Env.MaxSteps,
		Seed:     conf.Env.Seed,
	})

	agent, err := dqn.NewAgent(&dqn.AgentConfig{
		Base: agentv1.NewBase("DeepQ"),
		Hyperparameters: &dqn.Hyperparameters{
			Gamma:             conf.Agent.Gamma,
			Epsilon:           dqn.NewDecaySchedule(conf.Agent.EpsilonInitial, conf.Agent.EpsilonDecay, conf.Agent.EpsilonMin),
			UpdateTargetSteps: conf.Agent.UpdateTargetSteps,
			BufferSize:        conf.Agent.BufferSize,
		},
		PolicyConfig: &dqn.PolicyConfig{
			Loss:         dqn.DefaultPolicyConfig.Loss,
			Optimizer:    gorgonia.NewAdamSolver(gorgonia.WithBatchSize(float64(conf.Agent.BatchSize)), gorgonia.WithLearnRate(conf.Agent.LearningRate)),
			LayerBuilder: dqn.DefaultFCLayerBuilder,
			BatchSize:    conf.Agent.BatchSize,
		},
		StateShape:  []int{1, envs.ObservationSize},
		ActionShape: []int{1, envs.NumActions},
	})
	if err != nil {
		return err
	}

	if conf.Training.CheckpointPath != "" {
		if err := agent.Load(conf.Training.CheckpointPath); err != nil {
			return err
		}
	}

	var metrics *utils.Metrics
	if conf.MetricsAddr != "" {
		metrics = utils.NewMetrics()
		metrics.Serve(conf.MetricsAddr)
		defer metrics.Close()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	exp := &experiment.Experiment{
		Env:          env,
		Agent:        agent,
		Episodes:     conf.Training.Episodes,
		EvalEpisodes: conf.Training.EvalEpisodes,
		Metrics:      metrics,
	}
	results, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	if conf.Training.ResultsPath != "" {
		if err := results.Save(conf.Training.ResultsPath); err != nil {
			return err
		}
		logrus.Infof("wrote results to %s", conf.Training.ResultsPath)
	}
	if conf.Training.CheckpointPath != "" {
		if err := agent.Save(conf.Training.CheckpointPath); err != nil {
			return err
		}
	}
	return nil
}

func newReportCmd() *cobra.Command {
	var resultsPath string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarise a results file from a training run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return report(cmd, resultsPath)
		},
	}
	cmd.Flags().StringVarP(&resultsPath, "results", "r", "results.json", "path to the results file")
	return cmd
}

func report(cmd *cobra.Command, path string) error {
	episodes := func() *gojsonq.JSONQ {
		return gojsonq.New().File(path).From("episodes")
	}

	count := episodes().Count()
	if count == 0 {
		return fmt.Errorf("no episodes found in %s", path)
	}

	// Full episodes are counted against the step limit the run was
	// configured with; older results files fall back to the default.
	maxSteps := float64(envs.DefaultMaxSteps)
	if v, ok := gojsonq.New().File(path).Find("max_steps").(float64); ok && v > 0 {
		maxSteps = v
	}

	avg := episodes().Avg("score")
	max := episodes().Max("score")
	solved := episodes().Where("steps", ">=", maxSteps).Count()

	cmd.Printf("episodes:       %d\n", count)
	cmd.Printf("average score:  %.1f\n", avg)
	cmd.Printf("best score:     %v\n", max)
	cmd.Printf("full episodes:  %d\n", solved)
	return nil
}

func setLogLevel(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

package analyzer

import (
	"context"
	"time"

	"github.com/osc2cr/converter/commonroad"
	"github.com/osc2cr/converter/logging"
)

// STLRequest is what the STL watchdog subprocess receives: the handful of
// ego-trajectory facts an STL monitor needs, not the whole scenario.
type STLRequest struct {
	EgoTrajectory []commonroad.State `json:"egoTrajectory"`
}

// STLResult is what the watchdog subprocess reports back.
type STLResult struct {
	Satisfied bool     `json:"satisfied"`
	Violated  []string `json:"violated"`
}

// STLAnalyzer runs a signal-temporal-logic monitor over the ego's
// trajectory in an isolated subprocess, per §5/§9's analyzer-watchdog
// design note: a crash in the (third-party, native) STL monitor must not
// take down the conversion.
type STLAnalyzer struct {
	Command string
	// ExtraArgs is forwarded to Watchdog.ExtraArgs, letting the STL
	// subprocess be a hidden mode of the same binary (e.g.
	// "-analyzer-worker stl") rather than a separate executable.
	ExtraArgs []string
	Timeout   time.Duration
	Logger    logging.Logger
}

func (a STLAnalyzer) Name() string { return "stl" }

func (a STLAnalyzer) Analyze(scenario *commonroad.Scenario, problem commonroad.PlanningProblem) (any, error) {
	ego, ok := scenario.Obstacle(problem.ID)
	trajectory := []commonroad.State{problem.Initial}
	if ok {
		trajectory = ego.Prediction.StateList
	}

	watchdog := &Watchdog{Command: a.Command, ExtraArgs: a.ExtraArgs, Timeout: a.Timeout, Logger: a.Logger}
	var result STLResult
	if err := watchdog.Run(context.Background(), STLRequest{EgoTrajectory: trajectory}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

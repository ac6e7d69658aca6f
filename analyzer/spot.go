package analyzer

import "github.com/osc2cr/converter/commonroad"

// SpotPrediction lists, for one obstacle, the time steps of its trajectory.
// Computing the actual reachable-set prediction is out of scope (§1
// Non-goals), and nothing in this module persists these values as a side
// file.
type SpotPrediction struct {
	ObstacleID int
	TimeSteps  []int
}

// SpotAnalyzer is a stub: it reports which obstacles a real Spot occupancy
// predictor would need to process, without running one.
type SpotAnalyzer struct{}

func (SpotAnalyzer) Name() string { return "spot" }

func (SpotAnalyzer) Analyze(scenario *commonroad.Scenario, _ commonroad.PlanningProblem) (any, error) {
	predictions := make([]SpotPrediction, 0, len(scenario.Obstacles()))
	for _, o := range scenario.Obstacles() {
		steps := make([]int, 0, len(o.Prediction.StateList))
		for _, s := range o.Prediction.StateList {
			steps = append(steps, s.TimeStep)
		}
		predictions = append(predictions, SpotPrediction{ObstacleID: o.ID, TimeSteps: steps})
	}
	return predictions, nil
}

func init() {
	RegisterAnalyzer(SpotAnalyzer{})
}

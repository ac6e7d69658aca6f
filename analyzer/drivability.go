package analyzer

import "github.com/osc2cr/converter/commonroad"

// DrivabilityReport is the Drivability analyzer's typed result: the number
// of obstacles seen and whether every obstacle's trajectory has consecutive
// time steps. It does not check the dt grid, lanelet assignments or
// drivability itself -- a full drivability checker is third-party scope
// (§1 Non-goals).
type DrivabilityReport struct {
	ObstacleCount     int
	GapFreeTrajectory bool
}

// DrivabilityAnalyzer implements Analyzer by checking that every obstacle's
// trajectory time steps are consecutive (invariant §8.1).
type DrivabilityAnalyzer struct{}

func (DrivabilityAnalyzer) Name() string { return "drivability" }

func (DrivabilityAnalyzer) Analyze(scenario *commonroad.Scenario, _ commonroad.PlanningProblem) (any, error) {
	report := DrivabilityReport{GapFreeTrajectory: true}
	for _, o := range scenario.Obstacles() {
		report.ObstacleCount++
		prev := o.Prediction.InitialTimeStep - 1
		for _, s := range o.Prediction.StateList {
			if s.TimeStep != prev+1 {
				report.GapFreeTrajectory = false
			}
			prev = s.TimeStep
		}
	}
	return report, nil
}

func init() {
	RegisterAnalyzer(DrivabilityAnalyzer{})
}

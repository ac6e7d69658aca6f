package analyzer

import (
	"testing"

	"go.viam.com/test"

	"github.com/osc2cr/converter/commonroad"
)

type fixedAnalyzer struct {
	name  string
	value any
	err   error
}

func (f fixedAnalyzer) Name() string { return f.name }
func (f fixedAnalyzer) Analyze(*commonroad.Scenario, commonroad.PlanningProblem) (any, error) {
	return f.value, f.err
}

func TestRunAllMixesSuccessAndError(t *testing.T) {
	RegisterAnalyzer(fixedAnalyzer{name: "ok-test", value: 42})
	RegisterAnalyzer(fixedAnalyzer{name: "bad-test", err: &Error{Analyzer: "bad-test", Message: "boom"}})

	scenario := commonroad.NewScenario(0.1, commonroad.Metadata{})
	results := RunAll([]string{"ok-test", "bad-test", "missing-test"}, scenario, commonroad.PlanningProblem{})

	test.That(t, len(results), test.ShouldEqual, 3)
	test.That(t, results[0].Value, test.ShouldEqual, 42)
	test.That(t, results[0].Err, test.ShouldBeNil)
	test.That(t, results[1].Err, test.ShouldNotBeNil)
	test.That(t, results[2].Err, test.ShouldNotBeNil)
}

func TestRegisterAnalyzerPanicsOnDuplicate(t *testing.T) {
	RegisterAnalyzer(fixedAnalyzer{name: "dup-test"})
	defer func() {
		r := recover()
		test.That(t, r, test.ShouldNotBeNil)
	}()
	RegisterAnalyzer(fixedAnalyzer{name: "dup-test"})
}

func TestDrivabilityAnalyzerAcceptsConsecutiveSteps(t *testing.T) {
	scenario := commonroad.NewScenario(0.1, commonroad.Metadata{})
	_ = scenario.AddObstacle(&commonroad.DynamicObstacle{
		ID: 1,
		Prediction: commonroad.Trajectory{
			InitialTimeStep: 0,
			FinalTimeStep:   2,
			StateList: []commonroad.State{
				{TimeStep: 0}, {TimeStep: 1}, {TimeStep: 2},
			},
		},
	})
	result, err := DrivabilityAnalyzer{}.Analyze(scenario, commonroad.PlanningProblem{})
	test.That(t, err, test.ShouldBeNil)
	report := result.(DrivabilityReport)
	test.That(t, report.ObstacleCount, test.ShouldEqual, 1)
	test.That(t, report.GapFreeTrajectory, test.ShouldBeTrue)
}

func TestSpotAnalyzerReportsTimeSteps(t *testing.T) {
	scenario := commonroad.NewScenario(0.1, commonroad.Metadata{})
	_ = scenario.AddObstacle(&commonroad.DynamicObstacle{
		ID: 1,
		Prediction: commonroad.Trajectory{
			StateList: []commonroad.State{{TimeStep: 0}, {TimeStep: 1}},
		},
	})
	result, err := SpotAnalyzer{}.Analyze(scenario, commonroad.PlanningProblem{})
	test.That(t, err, test.ShouldBeNil)
	predictions := result.([]SpotPrediction)
	test.That(t, len(predictions), test.ShouldEqual, 1)
	test.That(t, predictions[0].TimeSteps, test.ShouldResemble, []int{0, 1})
}

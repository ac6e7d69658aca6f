package batch

import (
	"testing"

	"go.viam.com/test"

	"github.com/osc2cr/converter/commonroad"
)

func buildTestScenario() (*commonroad.Scenario, *commonroad.PlanningProblem) {
	scenario := commonroad.NewScenario(0.1, commonroad.Metadata{Author: "tester"})
	obstacle := &commonroad.DynamicObstacle{
		ID:           scenario.NextObstacleID(),
		ObstacleType: commonroad.ObstaclePedestrian,
		Shape:        commonroad.CircleShape{Radius: 0.4},
		InitialState: commonroad.State{TimeStep: 0, X: 1, Y: 2},
		Prediction: commonroad.Trajectory{
			InitialTimeStep: 0,
			FinalTimeStep:   1,
			StateList: []commonroad.State{
				{TimeStep: 0, X: 1, Y: 2},
				{TimeStep: 1, X: 1.1, Y: 2.1},
			},
		},
	}
	_ = scenario.AddObstacle(obstacle)
	problem := &commonroad.PlanningProblem{ID: obstacle.ID}
	return scenario, problem
}

func TestPersistThenLoadRoundTripsObstacles(t *testing.T) {
	store, err := NewResultStore(t.TempDir(), true)
	test.That(t, err, test.ShouldBeNil)

	scenario, problem := buildTestScenario()
	handle, err := store.Persist("scene.xosc", scenario, problem)
	test.That(t, err, test.ShouldBeNil)

	loaded, loadedProblem, err := handle.Load()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(loaded.Obstacles()), test.ShouldEqual, 1)
	test.That(t, loaded.Obstacles()[0].ObstacleType, test.ShouldEqual, commonroad.ObstaclePedestrian)
	_, isCircle := loaded.Obstacles()[0].Shape.(commonroad.CircleShape)
	test.That(t, isCircle, test.ShouldBeTrue)
	test.That(t, loadedProblem.ID, test.ShouldEqual, problem.ID)
}

func TestPersistAssignsMonotoneFilenames(t *testing.T) {
	store, err := NewResultStore(t.TempDir(), true)
	test.That(t, err, test.ShouldBeNil)

	scenario, problem := buildTestScenario()
	h1, err := store.Persist("scene.xosc", scenario, problem)
	test.That(t, err, test.ShouldBeNil)
	h2, err := store.Persist("scene.xosc", scenario, problem)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, h1.Path, test.ShouldNotEqual, h2.Path)
}

func TestNextScenarioPathSharesCounterWithPersist(t *testing.T) {
	store, err := NewResultStore(t.TempDir(), true)
	test.That(t, err, test.ShouldBeNil)

	scenario, problem := buildTestScenario()
	handle, err := store.Persist("scene.xosc", scenario, problem)
	test.That(t, err, test.ShouldBeNil)
	next := store.NextScenarioPath("scene.xosc")

	test.That(t, next, test.ShouldNotEqual, handle.Path)
}

func TestPersistStatisticsWritesWithoutError(t *testing.T) {
	dir := t.TempDir()
	entries := map[string]*BatchEntry{
		"a.xosc": {SourcePath: "a.xosc", Status: StatusSucceeded, ResultPath: "Res_a1.bson"},
		"b.xosc": {SourcePath: "b.xosc", Status: StatusFailed, Reason: "NoDynamicBehaviorFound"},
	}
	test.That(t, PersistStatistics(dir, entries), test.ShouldBeNil)
}

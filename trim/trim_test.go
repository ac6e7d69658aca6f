package trim

import (
	"testing"

	"go.viam.com/test"

	"github.com/osc2cr/converter/commonroad"
)

type fakeAssigner struct {
	assignment commonroad.ShapeLaneletAssignments
}

func (f *fakeAssigner) AssignObstaclesToLanelets(
	network *commonroad.LaneletNetwork,
	obstacles map[int]*commonroad.DynamicObstacle,
) commonroad.ShapeLaneletAssignments {
	filtered := commonroad.ShapeLaneletAssignments{}
	for obstacleID, perStep := range f.assignment {
		kept := map[int][]int{}
		for step, ids := range perStep {
			var survivors []int
			for _, id := range ids {
				if _, ok := network.Lanelets[id]; ok {
					survivors = append(survivors, id)
				}
			}
			kept[step] = survivors
		}
		filtered[obstacleID] = kept
	}
	return filtered
}

func buildScenario() *commonroad.Scenario {
	s := commonroad.NewScenario(0.1, commonroad.Metadata{})
	s.Lanelets.AddLanelet(&commonroad.Lanelet{ID: 1})
	s.Lanelets.AddLanelet(&commonroad.Lanelet{ID: 2})
	s.Lanelets.AddLanelet(&commonroad.Lanelet{ID: 3})
	_ = s.AddObstacle(&commonroad.DynamicObstacle{ID: 1})
	s.SetAssignment(commonroad.ShapeLaneletAssignments{
		1: {0: {1, 2}, 1: {2}},
	})
	return s
}

func TestTrimRemovesUnusedLanelets(t *testing.T) {
	s := buildScenario()
	assigner := &fakeAssigner{assignment: s.Assignment()}
	trimmed := Trim(s, assigner)

	test.That(t, len(trimmed.Lanelets.Lanelets), test.ShouldEqual, 2)
	_, hasOne := trimmed.Lanelets.Lanelets[1]
	_, hasTwo := trimmed.Lanelets.Lanelets[2]
	_, hasThree := trimmed.Lanelets.Lanelets[3]
	test.That(t, hasOne, test.ShouldBeTrue)
	test.That(t, hasTwo, test.ShouldBeTrue)
	test.That(t, hasThree, test.ShouldBeFalse)
}

func TestTrimIsIdempotent(t *testing.T) {
	s := buildScenario()
	assigner := &fakeAssigner{assignment: s.Assignment()}
	once := Trim(s, assigner)
	assigner2 := &fakeAssigner{assignment: once.Assignment()}
	twice := Trim(once, assigner2)
	test.That(t, len(twice.Lanelets.Lanelets), test.ShouldEqual, len(once.Lanelets.Lanelets))
}

func TestTrimOnEmptyNetworkIsNoOp(t *testing.T) {
	s := commonroad.NewScenario(0.1, commonroad.Metadata{})
	trimmed := Trim(s, &fakeAssigner{})
	test.That(t, trimmed, test.ShouldEqual, s)
}

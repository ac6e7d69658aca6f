package planning

import (
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/osc2cr/converter/commonroad"
)

func makeEgo() *commonroad.DynamicObstacle {
	return &commonroad.DynamicObstacle{
		ID:    1,
		Shape: commonroad.RectangleShape{Length: 4, Width: 2},
		Prediction: commonroad.Trajectory{
			InitialTimeStep: 0,
			FinalTimeStep:   2,
			StateList: []commonroad.State{
				{TimeStep: 0, X: 0, Y: 0, Orientation: 0, Velocity: 1, SlipAngle: 0.5},
				{TimeStep: 1, X: 1, Y: 0, Orientation: 0, Velocity: 1},
				{TimeStep: 2, X: 2, Y: 0, Orientation: 0, Velocity: 1},
			},
		},
	}
}

func unconstrainedGoalParams() GoalParams {
	return GoalParams{
		TimeInterval: IntervalParams{Start: AbsRel{Value: 0, Policy: RelAdd}, End: AbsRel{Value: 10, Policy: RelAdd}},
		PosLength:    AbsRel{Value: 2, Policy: RelMul},
		PosWidth:     AbsRel{Value: 2, Policy: RelMul},
		PosCenterX:   AbsRel{Value: 0, Policy: RelAdd},
		PosCenterY:   AbsRel{Value: 0, Policy: RelAdd},
		PosRotation:  AbsRel{Value: 0, Policy: RelAdd},
	}
}

func TestBuildDerivesGoalFromFinalState(t *testing.T) {
	ego := makeEgo()
	params := unconstrainedGoalParams()
	pp := Build(ego.ID, ego, params)

	test.That(t, pp.ID, test.ShouldEqual, 1)
	test.That(t, pp.Goal.TimeStep, test.ShouldResemble, commonroad.IntInterval{Start: 2, End: 12})
	test.That(t, pp.Goal.Position.Length, test.ShouldEqual, 8.0)
	test.That(t, pp.Goal.Position.Width, test.ShouldEqual, 4.0)
	test.That(t, pp.Goal.Position.Center.X, test.ShouldEqual, 2.0)
	test.That(t, pp.Goal.VelocityInterval, test.ShouldBeNil)
	test.That(t, pp.Goal.OrientationInterval, test.ShouldBeNil)
}

func TestBuildInitialStateHasZeroSlipAngle(t *testing.T) {
	ego := makeEgo()
	pp := Build(ego.ID, ego, unconstrainedGoalParams())
	test.That(t, pp.Initial.SlipAngle, test.ShouldEqual, 0.0)
	test.That(t, pp.Initial.TimeStep, test.ShouldEqual, 0)
}

func TestBuildWithVelocityAndOrientationIntervals(t *testing.T) {
	ego := makeEgo()
	params := unconstrainedGoalParams()
	velInterval := IntervalParams{Start: AbsRel{Value: 0.5, Policy: RelSub}, End: AbsRel{Value: 0.5, Policy: RelAdd}}
	orientInterval := IntervalParams{Start: AbsRel{Value: 0.1, Policy: RelSub}, End: AbsRel{Value: 0.1, Policy: RelAdd}}
	params.VelocityInterval = &velInterval
	params.OrientationInterval = &orientInterval

	pp := Build(ego.ID, ego, params)
	test.That(t, pp.Goal.VelocityInterval, test.ShouldNotBeNil)
	test.That(t, pp.Goal.VelocityInterval.Start, test.ShouldAlmostEqual, 0.5, 1e-9)
	test.That(t, pp.Goal.VelocityInterval.End, test.ShouldAlmostEqual, 1.5, 1e-9)
	test.That(t, pp.Goal.OrientationInterval, test.ShouldNotBeNil)
}

func TestBuildWrapsOrientationIntoPiRange(t *testing.T) {
	ego := makeEgo()
	ego.Prediction.StateList[2].Orientation = 2 * math.Pi
	params := unconstrainedGoalParams()
	pp := Build(ego.ID, ego, params)
	test.That(t, pp.Goal.Position.Orientation, test.ShouldBeLessThanOrEqualTo, math.Pi)
	test.That(t, pp.Goal.Position.Orientation, test.ShouldBeGreaterThan, -math.Pi)
}

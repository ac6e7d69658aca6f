package planning

import (
	"github.com/golang/geo/r3"

	"github.com/osc2cr/converter/commonroad"
	"github.com/osc2cr/converter/spatialmath"
)

// IntervalParams is a pair of AbsRel endpoints, transformed independently
// per §4.8: "for interval-typed parameters both endpoints are transformed
// independently."
type IntervalParams struct {
	Start AbsRel
	End   AbsRel
}

// ApplyInt resolves both endpoints against an integer reference.
func (p IntervalParams) ApplyInt(reference int) commonroad.IntInterval {
	return commonroad.IntInterval{Start: p.Start.ApplyInt(reference), End: p.End.ApplyInt(reference)}
}

// ApplyFloat resolves both endpoints against a float reference.
func (p IntervalParams) ApplyFloat(reference float64) commonroad.FloatInterval {
	return commonroad.FloatInterval{Start: p.Start.Apply(reference), End: p.End.Apply(reference)}
}

// GoalParams configures Build, one AbsRel (or AbsRel pair) per goal
// parameter named in §4.8.
type GoalParams struct {
	TimeInterval IntervalParams

	PosLength   AbsRel
	PosWidth    AbsRel
	PosCenterX  AbsRel
	PosCenterY  AbsRel
	PosRotation AbsRel

	// VelocityInterval and OrientationInterval are nil when unconstrained
	// (§4.8: "else unconstrained").
	VelocityInterval    *IntervalParams
	OrientationInterval *IntervalParams
}

// Build implements §4.8: derive a PlanningProblem from the ego obstacle's
// trajectory. id is the ego obstacle's id (the planning problem shares it,
// per S2's testable property).
func Build(id int, ego *commonroad.DynamicObstacle, params GoalParams) commonroad.PlanningProblem {
	final := ego.Prediction.StateList[len(ego.Prediction.StateList)-1]
	length, width := ego.Shape.Dimensions()

	goal := commonroad.GoalState{
		TimeStep: params.TimeInterval.ApplyInt(final.TimeStep),
		Position: commonroad.GoalPosition{
			Length: params.PosLength.Apply(length),
			Width:  params.PosWidth.Apply(width),
			Center: r3.Vector{
				X: params.PosCenterX.Apply(final.X),
				Y: params.PosCenterY.Apply(final.Y),
			},
			Orientation: spatialmath.WrapToPi(params.PosRotation.Apply(final.Orientation)),
		},
	}
	if params.VelocityInterval != nil {
		v := params.VelocityInterval.ApplyFloat(final.Velocity)
		goal.VelocityInterval = &v
	}
	if params.OrientationInterval != nil {
		o := params.OrientationInterval.ApplyFloat(final.Orientation)
		goal.OrientationInterval = &o
	}

	initial := ego.Prediction.StateList[0]
	initial.SlipAngle = 0

	return commonroad.PlanningProblem{
		ID:      id,
		Initial: initial,
		Goal:    goal,
	}
}

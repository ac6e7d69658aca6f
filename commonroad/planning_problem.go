package commonroad

import "github.com/golang/geo/r3"

// IntInterval is an inclusive [Start, End] integer interval, used for the
// goal region's time-step interval.
type IntInterval struct {
	Start int
	End   int
}

// Contains reports whether v falls in [Start, End].
func (i IntInterval) Contains(v int) bool { return v >= i.Start && v <= i.End }

// FloatInterval is an inclusive [Start, End] real interval, used for the
// optional velocity and orientation goal constraints.
type FloatInterval struct {
	Start float64
	End   float64
}

// Contains reports whether v falls in [Start, End].
func (i FloatInterval) Contains(v float64) bool { return v >= i.Start && v <= i.End }

// GoalPosition is the rectangular goal-position region from §4.8: a
// rectangle of the given (length, width) centred at Center and rotated by
// Orientation (already wrapped into (-pi, pi]).
type GoalPosition struct {
	Length      float64
	Width       float64
	Center      r3.Vector
	Orientation float64
}

// GoalState bundles every optional/required goal constraint §4.8 derives
// from the ego's final trajectory state.
type GoalState struct {
	TimeStep           IntInterval
	Position           GoalPosition
	VelocityInterval   *FloatInterval
	OrientationInterval *FloatInterval
}

// PlanningProblem is the §3 PlanningProblem entity.
type PlanningProblem struct {
	ID      int
	Initial State
	Goal    GoalState
}

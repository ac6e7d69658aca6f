// Package planning implements the AbsRel sum type and the
// PlanningProblemBuilder component (C9, §4.8, §9).
package planning

import "math"

// Policy is one of the five arithmetic operations AbsRel.Apply can perform
// against a reference value, per §9: "model as (value, policy) with a small
// sum type of five arithmetic operations; apply via a pure function."
type Policy int

const (
	Abs Policy = iota
	RelAdd
	RelSub
	RelMul
	RelDiv
)

// AbsRel is a goal-parameter value paired with the policy used to resolve
// it against a reference drawn from the ego's final trajectory state.
type AbsRel struct {
	Value  float64
	Policy Policy
}

// Apply implements §4.8's table: Abs->value, RelAdd->value+r,
// RelSub->r-value, RelMul->value*r, RelDiv->r/value.
func (a AbsRel) Apply(reference float64) float64 {
	switch a.Policy {
	case RelAdd:
		return a.Value + reference
	case RelSub:
		return reference - a.Value
	case RelMul:
		return a.Value * reference
	case RelDiv:
		return reference / a.Value
	default:
		return a.Value
	}
}

// ApplyInt applies the policy against an integer reference, rounding the
// result to the nearest integer per §4.8: "integer references produce
// integer results (rounded)."
func (a AbsRel) ApplyInt(reference int) int {
	return int(math.Round(a.Apply(float64(reference))))
}

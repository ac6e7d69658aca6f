package commonroad

import (
	"fmt"
	"math"
)

// ValidateObstacle checks invariant §8.1: the initial state equals the
// trajectory's first state, and time steps are consecutive integers with
// step 1.
func ValidateObstacle(o *DynamicObstacle) error {
	sl := o.Prediction.StateList
	if len(sl) == 0 {
		return fmt.Errorf("obstacle %d: empty trajectory", o.ID)
	}
	if sl[0] != o.InitialState {
		return fmt.Errorf("obstacle %d: initial state does not match trajectory.state_list[0]", o.ID)
	}
	for i := 1; i < len(sl); i++ {
		if sl[i].TimeStep != sl[i-1].TimeStep+1 {
			return fmt.Errorf("obstacle %d: non-consecutive time steps %d -> %d", o.ID, sl[i-1].TimeStep, sl[i].TimeStep)
		}
	}
	return nil
}

// ValidateDistinctIDsWithEgoMinimum checks invariant §8.2: obstacle ids are
// pairwise distinct and egoID is the minimum id among all present obstacles.
func ValidateDistinctIDsWithEgoMinimum(obstacles []*DynamicObstacle, egoID int) error {
	seen := map[int]struct{}{}
	minID := math.MaxInt
	for _, o := range obstacles {
		if _, dup := seen[o.ID]; dup {
			return fmt.Errorf("duplicate obstacle id %d", o.ID)
		}
		seen[o.ID] = struct{}{}
		if o.ID < minID {
			minID = o.ID
		}
	}
	if len(obstacles) > 0 && minID != egoID {
		return fmt.Errorf("ego id %d is not the minimum obstacle id (minimum is %d)", egoID, minID)
	}
	return nil
}

// ValidateOnGrid checks invariant §8.3: every state's time step lands on
// the uniform grid defined by dtCr (trivially true by construction since
// TimeStep is itself the grid index, but kept as an explicit, checkable
// round-trip as the spec phrases it).
func ValidateOnGrid(s State, dtCr float64) bool {
	t := float64(s.TimeStep) * dtCr
	return int(math.Round(t/dtCr)) == s.TimeStep
}

// ValidateShapeLaneletAssignment checks invariant §8.4: if the network is
// non-empty, every obstacle has a non-null assignment over its entire
// trajectory.
func ValidateShapeLaneletAssignment(s *Scenario) error {
	if s.Lanelets.IsEmpty() {
		return nil
	}
	if s.assignment == nil {
		return fmt.Errorf("non-empty lanelet network but no shape-lanelet assignment computed")
	}
	for _, o := range s.Obstacles() {
		perStep, ok := s.assignment[o.ID]
		if !ok {
			return fmt.Errorf("obstacle %d has no shape-lanelet assignment", o.ID)
		}
		for step := o.FirstTimeStep(); step <= o.LastTimeStep(); step++ {
			if lanelets, ok := perStep[step]; !ok || len(lanelets) == 0 {
				return fmt.Errorf("obstacle %d has no lanelet assignment at time step %d", o.ID, step)
			}
		}
	}
	return nil
}

// ValidateTrimComplete checks invariant §8.5: after trimming, every lanelet
// in the network is referenced by at least one obstacle's assignment.
func ValidateTrimComplete(s *Scenario) error {
	used := map[int]struct{}{}
	for _, perStep := range s.assignment {
		for _, lanelets := range perStep {
			for _, id := range lanelets {
				used[id] = struct{}{}
			}
		}
	}
	for id := range s.Lanelets.Lanelets {
		if _, ok := used[id]; !ok {
			return fmt.Errorf("lanelet %d survives trimming but is referenced by no obstacle", id)
		}
	}
	return nil
}

package commonroad

import (
	"fmt"
	"sort"

	"go.uber.org/atomic"
)

// Scenario is the §3 Scenario entity: a dt, a (possibly empty) lanelet
// network, a set of dynamic obstacles with pairwise-distinct ids, and
// metadata. It is mutable only during the build phase (§3's lifecycle
// note); ConversionCoordinator stops mutating it once the planning problem
// has been derived.
type Scenario struct {
	DtCr       float64
	Lanelets   *LaneletNetwork
	Metadata   Metadata
	obstacles  map[int]*DynamicObstacle
	assignment ShapeLaneletAssignments
	nextID     *atomic.Int64
}

// NewScenario constructs an empty scenario at the given time step, per
// §4.4's "start with an empty scenario of dt = dt_cr" fallback.
func NewScenario(dtCr float64, meta Metadata) *Scenario {
	return &Scenario{
		DtCr:      dtCr,
		Lanelets:  NewLaneletNetwork(),
		Metadata:  meta,
		obstacles: map[int]*DynamicObstacle{},
		nextID:    atomic.NewInt64(0),
	}
}

// NextObstacleID draws the next value from the scenario's monotone id
// generator (§4.5 step 7). IDs start at 1 so that 0 can be reserved as a
// sentinel "no id assigned yet" in tooling that inspects a BatchEntry.
func (s *Scenario) NextObstacleID() int {
	return int(s.nextID.Add(1))
}

// AddObstacle inserts o, enforcing the pairwise-distinct-ids invariant
// (§3, §8.2).
func (s *Scenario) AddObstacle(o *DynamicObstacle) error {
	if _, exists := s.obstacles[o.ID]; exists {
		return fmt.Errorf("obstacle id %d already present in scenario", o.ID)
	}
	s.obstacles[o.ID] = o
	return nil
}

// RemoveObstacle deletes an obstacle by id, used to honor keep_ego_vehicle
// = false in §4.10 step 7 after the obstacle has already been built (so it
// can still be handed to the planning-problem builder and analyzers).
func (s *Scenario) RemoveObstacle(id int) {
	delete(s.obstacles, id)
}

// Obstacle looks up an obstacle by id.
func (s *Scenario) Obstacle(id int) (*DynamicObstacle, bool) {
	o, ok := s.obstacles[id]
	return o, ok
}

// Obstacles returns every obstacle in the scenario, ordered by id for
// deterministic iteration (tests and serialization both depend on this).
func (s *Scenario) Obstacles() []*DynamicObstacle {
	ids := make([]int, 0, len(s.obstacles))
	for id := range s.obstacles {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]*DynamicObstacle, len(ids))
	for i, id := range ids {
		out[i] = s.obstacles[id]
	}
	return out
}

// AssignObstaclesToLanelets runs the external LaneletAssigner collaborator
// (§4.10 step 8) and stores the result for the trimmer and for invariant
// §8.4 checks. It is a no-op when the network is empty (§8.12).
func (s *Scenario) AssignObstaclesToLanelets(assigner LaneletAssigner) {
	if s.Lanelets.IsEmpty() {
		s.assignment = nil
		return
	}
	s.assignment = assigner.AssignObstaclesToLanelets(s.Lanelets, s.obstacles)
}

// Assignment returns the last computed shape-lanelet assignment, or nil if
// none has been computed (empty network, or not yet assigned).
func (s *Scenario) Assignment() ShapeLaneletAssignments { return s.assignment }

// SetAssignment installs a precomputed assignment directly; used by the
// trimmer after it re-runs assignment on the trimmed network.
func (s *Scenario) SetAssignment(a ShapeLaneletAssignments) { s.assignment = a }

// Clone returns a scenario with the same metadata, dt, and obstacle set
// (shared DynamicObstacle pointers -- obstacles are immutable after build
// per §3) but an independent lanelet network and id counter, for use by the
// trimmer and by per-analyzer working copies.
func (s *Scenario) Clone() *Scenario {
	clone := &Scenario{
		DtCr:      s.DtCr,
		Lanelets:  s.Lanelets.Clone(),
		Metadata:  s.Metadata,
		obstacles: make(map[int]*DynamicObstacle, len(s.obstacles)),
		nextID:    atomic.NewInt64(s.nextID.Load()),
	}
	for id, o := range s.obstacles {
		clone.obstacles[id] = o
	}
	if s.assignment != nil {
		cloneAssignment := make(ShapeLaneletAssignments, len(s.assignment))
		for obstacleID, perStep := range s.assignment {
			copied := make(map[int][]int, len(perStep))
			for step, lanelets := range perStep {
				copied[step] = append([]int(nil), lanelets...)
			}
			cloneAssignment[obstacleID] = copied
		}
		clone.assignment = cloneAssignment
	}
	return clone
}

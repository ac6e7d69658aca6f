package commonroad

import "github.com/golang/geo/r3"

// Lanelet is an atomic directed road segment, the unit the trimmer (§4.9)
// prunes and the unit shape-lanelet assignment (§8.4) maps obstacles onto.
// The real geometry (left/right boundary polylines) is owned by the
// OpenDRIVE->lanelet collaborator (§6); this struct is the subset this
// module needs to reason about connectivity and trimming.
type Lanelet struct {
	ID            int
	LeftBound     []r3.Vector
	RightBound    []r3.Vector
	Predecessors  []int
	Successors    []int
	AdjacentLeft  *int
	AdjacentRight *int
}

// LaneletNetwork is a set of lanelets keyed by id.
type LaneletNetwork struct {
	Lanelets map[int]*Lanelet
}

// NewLaneletNetwork returns an empty network.
func NewLaneletNetwork() *LaneletNetwork {
	return &LaneletNetwork{Lanelets: map[int]*Lanelet{}}
}

// IsEmpty reports whether the network has no lanelets, the condition §4.4,
// §4.9, and §8.12 all branch on.
func (n *LaneletNetwork) IsEmpty() bool {
	return n == nil || len(n.Lanelets) == 0
}

// AddLanelet inserts or replaces a lanelet.
func (n *LaneletNetwork) AddLanelet(l *Lanelet) {
	n.Lanelets[l.ID] = l
}

// Clone returns a deep-enough copy for the trimmer to mutate independently
// of the source network (§4.9: "clone the lanelet network").
func (n *LaneletNetwork) Clone() *LaneletNetwork {
	clone := NewLaneletNetwork()
	for id, l := range n.Lanelets {
		copied := *l
		copied.LeftBound = append([]r3.Vector(nil), l.LeftBound...)
		copied.RightBound = append([]r3.Vector(nil), l.RightBound...)
		copied.Predecessors = append([]int(nil), l.Predecessors...)
		copied.Successors = append([]int(nil), l.Successors...)
		clone.Lanelets[id] = &copied
	}
	return clone
}

// RemoveIDsNotIn deletes every lanelet whose id is not in keep.
func (n *LaneletNetwork) RemoveIDsNotIn(keep map[int]struct{}) {
	for id := range n.Lanelets {
		if _, ok := keep[id]; !ok {
			delete(n.Lanelets, id)
		}
	}
}

// ShapeLaneletAssignments is produced by an external collaborator (the
// CommonRoad I/O library, in the real system) after obstacles have been
// added to a scenario with a non-empty lanelet network: for every obstacle
// id and time step, the set of lanelet ids its shape overlaps.
type ShapeLaneletAssignments map[int]map[int][]int

// LaneletAssigner is the collaborator contract §4.10 step 8 relies on.
// A concrete binding (not part of this module's scope, per §1) computes
// geometric overlap between an obstacle's shape at each time step and the
// lanelets in network.
type LaneletAssigner interface {
	AssignObstaclesToLanelets(network *LaneletNetwork, obstacles map[int]*DynamicObstacle) ShapeLaneletAssignments
}

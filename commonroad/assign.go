package commonroad

import "github.com/golang/geo/r3"

// PolygonLaneletAssigner is the in-repo stand-in for the real CommonRoad
// I/O geometric assignment collaborator the LaneletAssigner interface
// names: it tests an obstacle's position, at each trajectory time step,
// against every lanelet's boundary quadrilaterals and assigns the
// obstacle to every lanelet whose surface contains that point. It is
// accurate enough to drive trimming and the CLI's default wiring; it is
// not a replacement for a real geometric library binding.
type PolygonLaneletAssigner struct{}

// AssignObstaclesToLanelets implements LaneletAssigner.
func (PolygonLaneletAssigner) AssignObstaclesToLanelets(
	network *LaneletNetwork,
	obstacles map[int]*DynamicObstacle,
) ShapeLaneletAssignments {
	out := make(ShapeLaneletAssignments, len(obstacles))
	for id, o := range obstacles {
		perStep := make(map[int][]int, len(o.Prediction.StateList))
		for _, st := range o.Prediction.StateList {
			perStep[st.TimeStep] = laneletsContaining(network, st.Position())
		}
		out[id] = perStep
	}
	return out
}

func laneletsContaining(network *LaneletNetwork, p r3.Vector) []int {
	var ids []int
	for id, lane := range network.Lanelets {
		if laneContains(lane, p) {
			ids = append(ids, id)
		}
	}
	return ids
}

func laneContains(l *Lanelet, p r3.Vector) bool {
	n := len(l.LeftBound)
	if n < 2 || len(l.RightBound) != n {
		return false
	}
	for i := 0; i+1 < n; i++ {
		quad := [4]r3.Vector{l.LeftBound[i], l.LeftBound[i+1], l.RightBound[i+1], l.RightBound[i]}
		if pointInQuad(p, quad) {
			return true
		}
	}
	return false
}

// pointInQuad is a standard even-odd ray-casting test over the quad's
// (x, y) projection; obstacle shapes and lanelet boundaries are both
// ground-plane features, so z is ignored.
func pointInQuad(p r3.Vector, quad [4]r3.Vector) bool {
	inside := false
	j := len(quad) - 1
	for i := 0; i < len(quad); i++ {
		pi, pj := quad[i], quad[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			xCross := (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if p.X < xCross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

package spatialmath

import "github.com/golang/geo/r3"

// Pose is a position plus an orientation, the representation every
// resampled simulator state and every CommonRoad obstacle position is
// expressed in before being split into the flatter ResampledState / State
// structs those packages actually carry around.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

type pose struct {
	point       r3.Vector
	orientation Orientation
}

// NewPoseFromOrientation builds a Pose from a point and an orientation.
func NewPoseFromOrientation(point r3.Vector, o Orientation) Pose {
	if o == nil {
		o = NewZeroOrientation()
	}
	return &pose{point: point, orientation: o}
}

// NewPose is an alias for NewPoseFromOrientation kept for readability at
// call sites that already have both arguments in hand.
func NewPose(point r3.Vector, o Orientation) Pose {
	return NewPoseFromOrientation(point, o)
}

// NewPoseFromPoint builds a Pose with zero orientation.
func NewPoseFromPoint(point r3.Vector) Pose {
	return NewPoseFromOrientation(point, NewZeroOrientation())
}

func (p *pose) Point() r3.Vector        { return p.point }
func (p *pose) Orientation() Orientation { return p.orientation }

// Compose returns the pose obtained by applying delta in the frame of base:
// base.Point() + base.Orientation().RotationMatrix() * delta. This
// is exactly the vehicle-origin -> geometric-centre transform in §4.6.
func Compose(base Pose, delta r3.Vector) r3.Vector {
	rm := base.Orientation().RotationMatrix()
	dx, dy, dz := rm.Apply(delta.X, delta.Y, delta.Z)
	return r3.Vector{X: base.Point().X + dx, Y: base.Point().Y + dy, Z: base.Point().Z + dz}
}

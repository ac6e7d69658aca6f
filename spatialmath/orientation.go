// Package spatialmath provides the pose and orientation vocabulary shared by
// the resampler, obstacle builder, and planning-problem builder: a single
// place that knows how to go from an OpenSCENARIO euler-angle pose to a
// CommonRoad 2-D state.
package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Orientation is implemented by every representation of a 3-D rotation this
// module needs. EulerAngles is the only representation the simulator speaks
// (yaw/pitch/roll) and the only one the pipeline uses; OrientationVectorDegrees
// is provided alongside it, mirroring the teacher's referenceframe package.
type Orientation interface {
	EulerAngles() *EulerAngles
	RotationMatrix() *RotationMatrix
}

// EulerAngles is an intrinsic yaw-pitch-roll rotation, in radians, matching
// OpenSCENARIO's (h, p, r) pose fields.
type EulerAngles struct {
	Roll  float64
	Pitch float64
	Yaw   float64
}

// NewZeroOrientation returns the identity rotation.
func NewZeroOrientation() Orientation {
	return &EulerAngles{}
}

// EulerAngles implements Orientation.
func (e *EulerAngles) EulerAngles() *EulerAngles { return e }

// RotationMatrix builds R(h, p, r), the intrinsic yaw then pitch then roll
// rotation matrix used by the coordinate transform in the obstacle builder.
func (e *EulerAngles) RotationMatrix() *RotationMatrix {
	qYaw := mgl64.QuatRotate(e.Yaw, mgl64.Vec3{0, 0, 1})
	qPitch := mgl64.QuatRotate(e.Pitch, mgl64.Vec3{0, 1, 0})
	qRoll := mgl64.QuatRotate(e.Roll, mgl64.Vec3{1, 0, 0})
	q := qYaw.Mul(qPitch).Mul(qRoll)
	return &RotationMatrix{m: q.Mat4().Mat3()}
}

// RotationMatrix wraps a 3x3 rotation matrix and applies it to vectors
// expressed as [x, y, z].
type RotationMatrix struct {
	m mgl64.Mat3
}

// Apply rotates (x, y, z) by the matrix.
func (r *RotationMatrix) Apply(x, y, z float64) (float64, float64, float64) {
	v := r.m.Mul3x1(mgl64.Vec3{x, y, z})
	return v[0], v[1], v[2]
}

// OrientationVectorDegrees describes a rotation as a unit vector (OX, OY,
// OZ) the object's reference z-axis is rotated onto, plus a spin Theta
// (degrees) about that vector. It's the representation catalog/goal data
// uses, matching the teacher's IK-solver test fixtures.
type OrientationVectorDegrees struct {
	Theta float64
	OX    float64
	OY    float64
	OZ    float64
}

// EulerAngles converts to the yaw/pitch/roll representation: the vector's
// longitude and latitude plus the spin Theta form a ZYZ rotation, which is
// then decomposed.
func (o *OrientationVectorDegrees) EulerAngles() *EulerAngles {
	thetaRad := o.Theta * math.Pi / 180
	axis := mgl64.Vec3{o.OX, o.OY, o.OZ}
	if axis.Len() > 1e-12 {
		axis = axis.Normalize()
	}
	lat := math.Acos(clamp(axis[2], -1, 1))
	lon := 0.0
	if 1-math.Abs(axis[2]) > 1e-12 {
		lon = math.Atan2(axis[1], axis[0])
	}
	q := mgl64.AnglesToQuat(lon, lat, thetaRad, mgl64.ZYZ)
	m := q.Mat4()
	// Extract intrinsic yaw-pitch-roll from the rotation matrix (standard
	// ZYX Tait-Bryan decomposition).
	yaw := math.Atan2(m.At(1, 0), m.At(0, 0))
	pitch := math.Asin(-clamp(m.At(2, 0), -1, 1))
	roll := math.Atan2(m.At(2, 1), m.At(2, 2))
	return &EulerAngles{Roll: roll, Pitch: pitch, Yaw: yaw}
}

// RotationMatrix converts through EulerAngles.
func (o *OrientationVectorDegrees) RotationMatrix() *RotationMatrix {
	return o.EulerAngles().RotationMatrix()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WrapToPi wraps an angle (radians) into (-pi, pi], the convention §4.8 uses
// for the goal region's orientation.
func WrapToPi(angle float64) float64 {
	wrapped := math.Mod(angle+math.Pi, 2*math.Pi)
	if wrapped <= 0 {
		wrapped += 2 * math.Pi
	}
	return wrapped - math.Pi
}

package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestNewPoseFromPointHasZeroOrientation(t *testing.T) {
	p := NewPoseFromPoint(r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, p.Point(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})
	ea := p.Orientation().EulerAngles()
	test.That(t, ea.Roll, test.ShouldEqual, 0.0)
	test.That(t, ea.Pitch, test.ShouldEqual, 0.0)
	test.That(t, ea.Yaw, test.ShouldEqual, 0.0)
}

func TestComposeYawOnly(t *testing.T) {
	base := NewPoseFromOrientation(r3.Vector{X: 10, Y: 0, Z: 0}, &EulerAngles{Yaw: math.Pi / 2})
	centre := Compose(base, r3.Vector{X: 1, Y: 0, Z: 0})
	// A 90 degree yaw rotates the +X offset onto +Y.
	test.That(t, centre.X, test.ShouldAlmostEqual, 10.0, 1e-9)
	test.That(t, centre.Y, test.ShouldAlmostEqual, 1.0, 1e-9)
	test.That(t, centre.Z, test.ShouldAlmostEqual, 0.0, 1e-9)
}

func TestComposeZeroOffsetIsIdentity(t *testing.T) {
	base := NewPoseFromOrientation(r3.Vector{X: 5, Y: -2, Z: 1}, &EulerAngles{Yaw: 1.2, Pitch: 0.3, Roll: -0.4})
	centre := Compose(base, r3.Vector{})
	test.That(t, centre, test.ShouldResemble, base.Point())
}

func TestWrapToPi(t *testing.T) {
	test.That(t, WrapToPi(0), test.ShouldAlmostEqual, 0.0, 1e-12)
	test.That(t, WrapToPi(math.Pi), test.ShouldAlmostEqual, math.Pi, 1e-12)
	test.That(t, WrapToPi(3*math.Pi), test.ShouldAlmostEqual, math.Pi, 1e-9)
	test.That(t, WrapToPi(-3*math.Pi), test.ShouldAlmostEqual, math.Pi, 1e-9)
}

func TestPedestrianCircleRadius(t *testing.T) {
	c := NewPedestrianCircle(0.6, 0.4)
	test.That(t, c.Radius, test.ShouldEqual, 0.3)
	c = NewPedestrianCircle(0.2, 0.8)
	test.That(t, c.Radius, test.ShouldEqual, 0.4)
}

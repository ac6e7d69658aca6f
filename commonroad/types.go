// Package commonroad implements the CommonRoad-side data model from §3: a
// time-sampled scenario with a lanelet network and dynamic obstacles, plus
// the planning problem derived from one of them. It owns no parsing or
// simulation logic; those belong to xosc, esmini, resample, obstacle,
// planning, and trim.
package commonroad

import "github.com/golang/geo/r3"

// ObstacleType is the fixed (objectType, objectCategory) -> CommonRoad type
// mapping table from §4.6.
type ObstacleType string

// The obstacle types §4.6 names. Unknown is the catch-all for any
// out-of-table (objectType, objectCategory) pair.
const (
	ObstacleCar         ObstacleType = "car"
	ObstacleTruck       ObstacleType = "truck"
	ObstacleBus         ObstacleType = "bus"
	ObstacleMotorcycle  ObstacleType = "motorcycle"
	ObstacleBicycle     ObstacleType = "bicycle"
	ObstacleTrain       ObstacleType = "train"
	ObstaclePillar      ObstacleType = "pillar"
	ObstacleBuilding    ObstacleType = "building"
	ObstacleMedianStrip ObstacleType = "medianStrip"
	ObstaclePedestrian  ObstacleType = "pedestrian"
	ObstacleUnknown     ObstacleType = "unknown"
)

// State is one discrete-time sample of a dynamic obstacle's trajectory, or
// of the planning problem's initial state. Rate fields are zero when the
// resampler had only one raw sample to work from (§3's degenerate rule).
type State struct {
	TimeStep      int
	X             float64
	Y             float64
	PositionZ     float64
	Orientation   float64
	PitchAngle    float64
	RollAngle     float64
	Velocity      float64
	Acceleration  float64
	YawRate       float64
	PitchRate     float64
	RollRate      float64
	SteeringAngle float64
	SlipAngle     float64
}

// Position returns the (x, y) pair most CommonRoad consumers want, with
// PositionZ as the vector's Z.
func (s State) Position() r3.Vector {
	return r3.Vector{X: s.X, Y: s.Y, Z: s.PositionZ}
}

// Trajectory is the ordered, consecutive-time-step state list a dynamic
// obstacle carries, per invariant §8.1.
type Trajectory struct {
	InitialTimeStep int
	FinalTimeStep   int
	StateList       []State
}

// DynamicObstacle is built by package obstacle from one actor's resampled
// series; see §3 and §4.5.
type DynamicObstacle struct {
	ID           int
	ObstacleType ObstacleType
	Shape        Shape
	InitialState State
	Prediction   Trajectory
}

// FirstTimeStep and LastTimeStep expose the trajectory bounds used by the
// trimmer and by statistics reporting.
func (o *DynamicObstacle) FirstTimeStep() int { return o.Prediction.InitialTimeStep }
func (o *DynamicObstacle) LastTimeStep() int  { return o.Prediction.FinalTimeStep }

// Shape is implemented by RectangleShape and CircleShape below, this
// package's counterparts of spatialmath.Rectangle and spatialmath.Circle; it
// is declared here (rather than imported) so commonroad does not need to
// know about spatialmath.Shape's private marker method, keeping the
// two packages loosely coupled the way the teacher keeps referenceframe and
// spatialmath loosely coupled.
type Shape interface {
	Dimensions() (a, b float64)
}

// RectangleShape adapts a length/width pair to Shape.
type RectangleShape struct {
	Length float64
	Width  float64
}

// Dimensions returns (length, width).
func (r RectangleShape) Dimensions() (float64, float64) { return r.Length, r.Width }

// CircleShape adapts a radius to Shape.
type CircleShape struct {
	Radius float64
}

// Dimensions returns (radius, radius).
func (c CircleShape) Dimensions() (float64, float64) { return c.Radius, c.Radius }

// Metadata is attached to every converted scenario by the MapBuilder.
type Metadata struct {
	Author      string
	Affiliation string
	Source      string
	Tags        []string
}

// Package obstacle implements the ObstacleBuilder component (C7, §4.5) and
// the coordinate transform it depends on (§4.6): turning one actor's raw
// StateSeries into a CommonRoad DynamicObstacle on the uniform dt_cr grid.
package obstacle

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/osc2cr/converter/commonroad"
	"github.com/osc2cr/converter/resample"
	"github.com/osc2cr/converter/simstate"
	"github.com/osc2cr/converter/spatialmath"
)

// CatalogExtra is the subset of a resolved Vehicle catalog entry §4.5
// consumes; obstacle.Build does not need axle geometry, only whatever the
// scenario/catalog says about this object beyond what the simulator itself
// reports (currently nothing -- kept as a named type so a future catalog
// field lands here without reshaping Build's signature).
type CatalogExtra struct{}

// Build implements §4.5's ObstacleBuilder procedure for one actor.
func Build(name string, series simstate.StateSeries, dtCr float64, nextID func() int, _ CatalogExtra) (*commonroad.DynamicObstacle, error) {
	tFirstRaw, tLastRaw := seriesBounds(series)
	firstStep := roundToGridStep(tFirstRaw, dtCr)
	lastStep := roundToGridStep(tLastRaw, dtCr)

	targets := make([]float64, 0, lastStep-firstStep+1)
	for step := firstStep; step <= lastStep; step++ {
		targets = append(targets, float64(step)*dtCr)
	}

	resampled, err := resample.Resample(name, series, targets)
	if err != nil {
		return nil, err
	}

	states := make([]commonroad.State, len(resampled))
	for i, r := range resampled {
		states[i] = toCommonRoadState(firstStep+i, r, len(series) >= 2)
	}

	shape := buildShape(resampled[0].ObjectType, resampled[0].Length, resampled[0].Width)

	trajectory := commonroad.Trajectory{
		InitialTimeStep: firstStep,
		FinalTimeStep:   lastStep,
		StateList:       states,
	}

	return &commonroad.DynamicObstacle{
		ID:           nextID(),
		ObstacleType: mapObstacleType(resampled[0].ObjectType, resampled[0].ObjectCategory),
		Shape:        shape,
		InitialState: trajectory.StateList[0],
		Prediction:   trajectory,
	}, nil
}

// seriesBounds returns the min/max timestamps in series (§4.5 step 1).
func seriesBounds(series simstate.StateSeries) (first, last float64) {
	first, last = series[0].Timestamp, series[0].Timestamp
	for _, s := range series[1:] {
		if s.Timestamp < first {
			first = s.Timestamp
		}
		if s.Timestamp > last {
			last = s.Timestamp
		}
	}
	return first, last
}

// roundToGridStep implements §4.5 step 2 and Open Question (a): the nearest
// grid point's step index, with ties resolved by flooring rather than
// rounding to even or ceiling, per the spec's "floor recommended" guidance.
func roundToGridStep(t, dtCr float64) int {
	return int(math.Ceil(t/dtCr - 0.5))
}

// toCommonRoadState implements §4.6's coordinate transform: the reported
// position is the vehicle origin, and the CommonRoad position is the
// geometric centre obtained by rotating the center offset through the
// yaw-pitch-roll orientation and adding it to the origin. Rate fields and
// steering angle are only meaningful once the resampler had at least two
// raw samples to differentiate between (hasRates mirrors that condition).
func toCommonRoadState(timeStep int, r resample.ResampledState, hasRates bool) commonroad.State {
	euler := &spatialmath.EulerAngles{Yaw: r.H, Pitch: r.P, Roll: r.R}
	basePose := spatialmath.NewPoseFromOrientation(r3.Vector{X: r.X, Y: r.Y, Z: r.Z}, euler)
	centerOffset := r3.Vector{X: r.CenterOffsetX, Y: r.CenterOffsetY, Z: r.CenterOffsetZ}
	world := spatialmath.Compose(basePose, centerOffset)

	state := commonroad.State{
		TimeStep:    timeStep,
		X:           world.X,
		Y:           world.Y,
		PositionZ:   world.Z,
		Orientation: r.H,
		PitchAngle:  r.P,
		RollAngle:   r.R,
		Velocity:    r.Speed,
		SlipAngle:   r.SlipAngle,
	}
	if hasRates {
		state.Acceleration = r.Acceleration
		state.YawRate = r.YawRate
		state.PitchRate = r.PitchRate
		state.RollRate = r.RollRate
		state.SteeringAngle = r.WheelAngle
	}
	return state
}

// buildShape implements §4.5 step 5 and §8.11: a rectangle except for
// pedestrians, which get an over-approximating circle.
func buildShape(objType simstate.ObjectType, length, width float64) commonroad.Shape {
	if objType == simstate.ObjectTypePedestrian {
		r := spatialmath.NewPedestrianCircle(length, width)
		return commonroad.CircleShape{Radius: r.Radius}
	}
	return commonroad.RectangleShape{Length: length, Width: width}
}

// mapObstacleType implements §4.6's fixed (objectType, objectCategory)
// table. objectCategory subtypes follow esmini's OSCObjectCategory codes:
// vehicle subtypes 0..5 map to Car/Truck/Bus/Motorcycle/Bicycle/Train, misc
// subtypes 0..2 map to Pillar/Building/MedianStrip. Any other pair is
// Unknown.
func mapObstacleType(objType simstate.ObjectType, category int32) commonroad.ObstacleType {
	switch objType {
	case simstate.ObjectTypeVehicle:
		switch category {
		case 0:
			return commonroad.ObstacleCar
		case 1:
			return commonroad.ObstacleTruck
		case 2:
			return commonroad.ObstacleBus
		case 3:
			return commonroad.ObstacleMotorcycle
		case 4:
			return commonroad.ObstacleBicycle
		case 5:
			return commonroad.ObstacleTrain
		default:
			return commonroad.ObstacleUnknown
		}
	case simstate.ObjectTypePedestrian:
		return commonroad.ObstaclePedestrian
	case simstate.ObjectTypeMisc:
		switch category {
		case 0:
			return commonroad.ObstaclePillar
		case 1:
			return commonroad.ObstacleBuilding
		case 2:
			return commonroad.ObstacleMedianStrip
		default:
			return commonroad.ObstacleUnknown
		}
	default:
		return commonroad.ObstacleUnknown
	}
}

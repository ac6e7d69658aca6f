// Package resample implements the Resampler component (C4, §4.3): producing
// a state at an arbitrary target timestamp by linear interpolation between
// the two enclosing raw snapshots, plus numeric differentiation for the
// rates the simulator never reports directly.
package resample

import (
	"fmt"
	"math"
	"sort"

	"github.com/osc2cr/converter/simstate"
)

// rateEpsilon is the minimum time gap (seconds) below which rate fields
// default to 0 rather than divide, per §4.3.
const rateEpsilon = 1e-9

// ResampledState is derived from two enclosing RawStates at a target
// timestamp, per §3.
type ResampledState struct {
	ID        int32
	Name      string
	Timestamp float64

	X, Y, Z float64
	H, P, R float64
	Speed   float64

	CenterOffsetX, CenterOffsetY, CenterOffsetZ float64

	RoadID     int32
	JunctionID int32
	S          float64
	T          float64
	LaneID     int32
	LaneOffset float64

	Length, Width, Height float64

	ObjectType     simstate.ObjectType
	ObjectCategory int32

	WheelAngle    float64
	WheelRotation float64

	Acceleration float64
	YawRate      float64
	PitchRate    float64
	RollRate     float64

	SlipAngle float64
}

// InterpolationDomainError is returned when the two enclosing states
// disagree on an identity field that must not change within one object's
// series (§3).
type InterpolationDomainError struct {
	Name  string
	Field string
}

func (e *InterpolationDomainError) Error() string {
	return fmt.Sprintf("resample %q: %s differs between enclosing raw states", e.Name, e.Field)
}

// Resample implements §4.3's resample(series, target_timestamps) ->
// list<ResampledState>.
func Resample(name string, series simstate.StateSeries, targets []float64) ([]ResampledState, error) {
	out := make([]ResampledState, 0, len(targets))
	for _, t := range targets {
		s0, s1 := enclosing(series, t)
		r, err := resampleOne(name, s0, s1, t)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// enclosing picks the two series states bracketing t, per §4.3: s0.t <=
// s1.t. When the series has one element, or t falls outside the series'
// span, s0 = s1 = that boundary element (§3's degenerate rule, and §8.9's
// single-state boundary behavior).
func enclosing(series simstate.StateSeries, t float64) (simstate.RawState, simstate.RawState) {
	idx := sort.Search(len(series), func(i int) bool { return series[i].Timestamp >= t })
	switch {
	case len(series) == 0:
		return simstate.RawState{}, simstate.RawState{}
	case idx == 0:
		return series[0], series[0]
	case idx == len(series):
		return series[len(series)-1], series[len(series)-1]
	default:
		return series[idx-1], series[idx]
	}
}

func resampleOne(name string, s0, s1 simstate.RawState, t float64) (ResampledState, error) {
	if s0.ID != s1.ID {
		return ResampledState{}, &InterpolationDomainError{Name: name, Field: "id"}
	}
	if s0.ObjectType != s1.ObjectType {
		return ResampledState{}, &InterpolationDomainError{Name: name, Field: "objectType"}
	}
	if s0.ObjectCategory != s1.ObjectCategory {
		return ResampledState{}, &InterpolationDomainError{Name: name, Field: "objectCategory"}
	}

	dt := s1.Timestamp - s0.Timestamp
	degenerate := dt < rateEpsilon

	var w float64
	if !degenerate {
		w = (t - s0.Timestamp) / dt
	}

	lerp := func(a, b float64) float64 {
		if degenerate {
			return a
		}
		return a + w*(b-a)
	}
	rate := func(a, b float64) float64 {
		if degenerate {
			return 0
		}
		return (b - a) / dt
	}

	r := ResampledState{
		ID:             s0.ID,
		Name:           name,
		Timestamp:      t,
		X:              lerp(s0.X, s1.X),
		Y:              lerp(s0.Y, s1.Y),
		Z:              lerp(s0.Z, s1.Z),
		H:              lerp(s0.H, s1.H),
		P:              lerp(s0.P, s1.P),
		R:              lerp(s0.R, s1.R),
		Speed:          lerp(s0.Speed, s1.Speed),
		CenterOffsetX:  lerp(s0.CenterOffsetX, s1.CenterOffsetX),
		CenterOffsetY:  lerp(s0.CenterOffsetY, s1.CenterOffsetY),
		CenterOffsetZ:  lerp(s0.CenterOffsetZ, s1.CenterOffsetZ),
		RoadID:         s0.RoadID,
		JunctionID:     s0.JunctionID,
		S:              lerp(s0.S, s1.S),
		T:              lerp(s0.T, s1.T),
		LaneID:         s0.LaneID,
		LaneOffset:     lerp(s0.LaneOffset, s1.LaneOffset),
		Length:         lerp(s0.Length, s1.Length),
		Width:          lerp(s0.Width, s1.Width),
		Height:         lerp(s0.Height, s1.Height),
		ObjectType:     s0.ObjectType,
		ObjectCategory: s0.ObjectCategory,
		Acceleration:   rate(s0.Speed, s1.Speed),
		YawRate:        rate(s0.H, s1.H),
		PitchRate:      rate(s0.P, s1.P),
		RollRate:       rate(s0.R, s1.R),
	}
	if s0.WheelAngle != nil && s1.WheelAngle != nil {
		r.WheelAngle = lerp(*s0.WheelAngle, *s1.WheelAngle)
	}
	if s0.WheelRotation != nil && s1.WheelRotation != nil {
		r.WheelRotation = lerp(*s0.WheelRotation, *s1.WheelRotation)
	}
	r.SlipAngle = slipAngle(r.Speed, rate(s0.X, s1.X), rate(s0.Y, s1.Y), r.H, degenerate)
	return r, nil
}

// slipAngle implements §4.3's derived slip-angle formula: 0 when the object
// is effectively stationary, otherwise the average of the two single-axis
// estimates.
func slipAngle(speed, dxdt, dydt, heading float64, degenerate bool) float64 {
	if degenerate || math.Abs(speed) < 1e-6 {
		return 0
	}
	fromX := math.Acos(clampUnit(dxdt/speed)) - heading
	fromY := math.Asin(clampUnit(dydt/speed)) - heading
	return (fromX + fromY) / 2
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

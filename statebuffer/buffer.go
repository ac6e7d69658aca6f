// Package statebuffer implements the StateBuffer component (C3, §4.3): a
// per-object append-only series of raw simulator snapshots with monotone
// timestamps, collapsing sub-step updates that share (within tolerance) a
// timestamp.
package statebuffer

import (
	"math"

	"github.com/osc2cr/converter/simstate"
)

// Buffer holds one StateSeries per object name, keyed by the simulator's
// stable object name (§3: Actor.name).
type Buffer struct {
	series map[string]simstate.StateSeries
	dtSim  float64
}

// New constructs an empty Buffer. dtSim is the simulator's fixed step size,
// used to scale the "numerically close" tolerance in Push to one ULP of
// dtSim.
func New(dtSim float64) *Buffer {
	return &Buffer{series: map[string]simstate.StateSeries{}, dtSim: dtSim}
}

// tolerance returns the "numerically close" window used to detect a
// same-tick sub-step update: one ULP of dtSim, floored at 1e-9 s. Timestamps
// further apart than that, including float32 rounding differences from the
// FFI boundary, count as a new tick.
func (b *Buffer) tolerance() float64 {
	ulp := math.Nextafter(b.dtSim, math.Inf(1)) - b.dtSim
	if ulp < 1e-9 {
		ulp = 1e-9
	}
	return ulp
}

// Push implements §4.3's push(name, raw_state): if the last buffered state
// for this name has a timestamp numerically close to the new one, replace
// it (simulator sub-step update, §8.10); otherwise append. Monotone
// timestamps are a precondition -- Push panics if violated, since that can
// only mean the bridge's stepping loop is broken, not a recoverable input
// error.
func (b *Buffer) Push(name string, state simstate.RawState) {
	series := b.series[name]
	if len(series) > 0 {
		last := series[len(series)-1]
		if state.Timestamp < last.Timestamp {
			panic("statebuffer: non-monotone timestamp for " + name)
		}
		if math.Abs(state.Timestamp-last.Timestamp) <= b.tolerance() {
			series[len(series)-1] = state
			b.series[name] = series
			return
		}
	}
	b.series[name] = append(series, state)
}

// Series returns the accumulated StateSeries for name (nil if never
// pushed).
func (b *Buffer) Series(name string) simstate.StateSeries {
	return b.series[name]
}

// Names returns every object name that has at least one pushed state, the
// set simulate_scenario reports as map<actor_name, StateSeries>.
func (b *Buffer) Names() []string {
	names := make([]string, 0, len(b.series))
	for name := range b.series {
		names = append(names, name)
	}
	return names
}

// All returns a copy of the full name -> series map.
func (b *Buffer) All() map[string]simstate.StateSeries {
	out := make(map[string]simstate.StateSeries, len(b.series))
	for name, series := range b.series {
		out[name] = series
	}
	return out
}

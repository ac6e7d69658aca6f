package esmini

import (
	"math"

	"github.com/osc2cr/converter/logging"
	"github.com/osc2cr/converter/simstate"
	"github.com/osc2cr/converter/statebuffer"
)

// Params configures one simulate_scenario call, per §4.2.
type Params struct {
	ScenarioPath string
	DtSim        float64
	MaxTime      float64
	Seed         uint32
	Viewer       ViewerMode
	Threaded     bool
	LogToConsole bool
	LogFilePath  string

	// GraceTime is how long, in simulation seconds, the storyboard must
	// stay fully complete before ending_cause becomes EndDetected. Nil
	// means no grace: end immediately once complete.
	GraceTime *float64

	// IgnoredLevel excludes storyboard elements at or below this level
	// from the completeness check (§4.2).
	IgnoredLevel simstate.Level
}

// SimResult is the outcome of one simulate_scenario call, per §4.2.
type SimResult struct {
	States      map[string]simstate.StateSeries
	SimTime     float64
	EndingCause simstate.EndingCause
}

// Bridge is the simulate_scenario contract ConversionCoordinator depends
// on, narrowed to an interface so it can be driven by a deterministic stub
// in end-to-end tests (§8's S1-S7) without linking the native library.
type Bridge interface {
	Simulate(params Params) (SimResult, error)
}

// SimulatorBridge implements C1+C2: it serialises access to the one
// process-wide native simulator, drives its stepping loop, and decides the
// ending cause per the priority order in §4.2.
type SimulatorBridge struct {
	logger logging.Logger
	newSim func() simulator
}

// NewSimulatorBridge constructs a bridge that drives the real esmini
// library through cgo.
func NewSimulatorBridge(logger logging.Logger) *SimulatorBridge {
	return &SimulatorBridge{
		logger: logger,
		newSim: func() simulator { return newNativeSimulator() },
	}
}

// newTestBridge is used by tests to inject a fake simulator instead of
// linking the real native library.
func newTestBridge(logger logging.Logger, factory func() simulator) *SimulatorBridge {
	return &SimulatorBridge{logger: logger, newSim: factory}
}

// Simulate implements simulate_scenario(xosc_path, dt_sim) -> SimResult.
// The entire call is serialised by nativeMu: concurrent simulations in one
// process are forbidden because esmini has global state (§4.2).
func (b *SimulatorBridge) Simulate(params Params) (SimResult, error) {
	nativeMu.Lock()
	defer nativeMu.Unlock()

	sim := b.newSim()
	defer sim.close()

	if err := sim.init(params.ScenarioPath, params.Viewer, params.Threaded); err != nil {
		return SimResult{EndingCause: simstate.EndingFailure}, err
	}
	sim.setSeed(params.Seed)
	sim.logToConsole(params.LogToConsole)
	if params.LogFilePath != "" {
		sim.logToFilePath(params.LogFilePath)
	}

	monitor := NewStoryboardMonitor()
	sim.registerStoryboardCallback(monitor.Observe)

	buffer := statebuffer.New(params.DtSim)

	var completeSince *float64
	for {
		if err := sim.stepDt(float32(params.DtSim)); err != nil {
			return SimResult{EndingCause: simstate.EndingFailure}, err
		}
		simTime := float64(sim.simTime())

		n := sim.numObjects()
		for i := int32(0); i < n; i++ {
			id := sim.objectID(i)
			state := sim.objectState(id)
			state.Timestamp = simTime
			buffer.Push(state.Name, state)
		}

		cause, newSince := b.resolveEndingCause(sim, simTime, params, monitor, completeSince)
		completeSince = newSince
		if cause != simstate.EndingNone {
			return SimResult{
				States:      buffer.All(),
				SimTime:     simTime,
				EndingCause: cause,
			}, nil
		}
	}
}

// resolveEndingCause applies §4.2's priority order: SimulatorQuit,
// MaxTimeReached, then EndDetected once the storyboard has stayed complete
// for at least GraceTime. completeSince tracks the sim_time the storyboard
// first became fully complete (nil if it never has).
func (b *SimulatorBridge) resolveEndingCause(
	sim simulator,
	simTime float64,
	params Params,
	monitor *StoryboardMonitor,
	completeSince *float64,
) (simstate.EndingCause, *float64) {
	if sim.quitFlag() {
		return simstate.EndingSimulatorQuit, completeSince
	}
	if params.MaxTime > 0 && simTime >= params.MaxTime {
		return simstate.EndingMaxTimeReached, completeSince
	}

	if !monitor.IsComplete(params.IgnoredLevel) {
		return simstate.EndingNone, nil
	}
	if completeSince == nil {
		t := simTime
		completeSince = &t
	}
	if params.GraceTime == nil {
		return simstate.EndingEndDetected, completeSince
	}
	elapsed := simTime - *completeSince
	if elapsed >= *params.GraceTime || math.Abs(elapsed-*params.GraceTime) < 1e-9 {
		return simstate.EndingEndDetected, completeSince
	}
	return simstate.EndingNone, completeSince
}

package esmini

import (
	"testing"

	"go.viam.com/test"

	"github.com/osc2cr/converter/logging"
	"github.com/osc2cr/converter/simstate"
)

// fakeSimulator is a deterministic stand-in for the native esmini library,
// used to drive SimulatorBridge's stepping loop without cgo.
type fakeSimulator struct {
	dt           float64
	t            float64
	quitAtTime   float64 // 0 means never
	completeTime float64 // sim time at which the storyboard reports COMPLETE
	cb           storyboardCallback
	initErr      error
}

func (f *fakeSimulator) init(string, ViewerMode, bool) error { return f.initErr }
func (f *fakeSimulator) setSeed(uint32)                      {}
func (f *fakeSimulator) logToConsole(bool)                   {}
func (f *fakeSimulator) logToFilePath(string)                {}
func (f *fakeSimulator) registerStoryboardCallback(cb storyboardCallback) {
	f.cb = cb
}

func (f *fakeSimulator) stepDt(dt float32) error {
	f.t += float64(dt)
	if f.completeTime > 0 && f.t >= f.completeTime && f.cb != nil {
		f.cb("story1", simstate.LevelManeuverGroup, simstate.ElementComplete)
	}
	return nil
}

func (f *fakeSimulator) simTime() float32 { return float32(f.t) }
func (f *fakeSimulator) quitFlag() bool {
	return f.quitAtTime > 0 && f.t >= f.quitAtTime
}
func (f *fakeSimulator) numObjects() int32                    { return 1 }
func (f *fakeSimulator) objectID(int32) int32                 { return 1 }
func (f *fakeSimulator) objectName(int32) string              { return "ego" }
func (f *fakeSimulator) objectState(id int32) simstate.RawState {
	return simstate.RawState{ID: id, Name: "ego", ObjectType: simstate.ObjectTypeVehicle, Speed: 1}
}
func (f *fakeSimulator) close() {}

func TestSimulateEndDetectedWithGracePeriod(t *testing.T) {
	fake := &fakeSimulator{dt: 0.1, completeTime: 5.0}
	bridge := newTestBridge(logging.NewTestLogger(t), func() simulator { return fake })
	grace := 1.0
	result, err := bridge.Simulate(Params{
		ScenarioPath: "scenario.xosc",
		DtSim:        0.1,
		MaxTime:      60,
		GraceTime:    &grace,
		IgnoredLevel: simstate.LevelAct,
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.EndingCause, test.ShouldEqual, simstate.EndingEndDetected)
	test.That(t, result.SimTime, test.ShouldBeGreaterThanOrEqualTo, 6.0)
}

func TestSimulateEndDetectedNoGraceEndsImmediately(t *testing.T) {
	fake := &fakeSimulator{dt: 0.1, completeTime: 3.0}
	bridge := newTestBridge(logging.NewTestLogger(t), func() simulator { return fake })
	result, err := bridge.Simulate(Params{
		ScenarioPath: "scenario.xosc",
		DtSim:        0.1,
		MaxTime:      60,
		IgnoredLevel: simstate.LevelAct,
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.EndingCause, test.ShouldEqual, simstate.EndingEndDetected)
	test.That(t, result.SimTime, test.ShouldAlmostEqual, 3.0, 0.1)
}

func TestSimulateMaxTimeReached(t *testing.T) {
	fake := &fakeSimulator{dt: 0.1}
	bridge := newTestBridge(logging.NewTestLogger(t), func() simulator { return fake })
	result, err := bridge.Simulate(Params{
		ScenarioPath: "scenario.xosc",
		DtSim:        0.1,
		MaxTime:      2.0,
		IgnoredLevel: simstate.LevelAct,
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.EndingCause, test.ShouldEqual, simstate.EndingMaxTimeReached)
}

func TestSimulateSimulatorQuit(t *testing.T) {
	fake := &fakeSimulator{dt: 0.1, quitAtTime: 1.0}
	bridge := newTestBridge(logging.NewTestLogger(t), func() simulator { return fake })
	result, err := bridge.Simulate(Params{
		ScenarioPath: "scenario.xosc",
		DtSim:        0.1,
		MaxTime:      60,
		IgnoredLevel: simstate.LevelAct,
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.EndingCause, test.ShouldEqual, simstate.EndingSimulatorQuit)
}

func TestSimulateInitFailureReturnsFailure(t *testing.T) {
	fake := &fakeSimulator{dt: 0.1, initErr: errNativeInit("bad.xosc", "libesminiLib.so")}
	bridge := newTestBridge(logging.NewTestLogger(t), func() simulator { return fake })
	result, err := bridge.Simulate(Params{ScenarioPath: "bad.xosc", DtSim: 0.1, MaxTime: 10})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, result.EndingCause, test.ShouldEqual, simstate.EndingFailure)
}

func TestStoryboardMonitorIgnoresCoarseLevels(t *testing.T) {
	m := NewStoryboardMonitor()
	m.Observe("story", simstate.LevelStory, simstate.ElementRunning)
	m.Observe("act", simstate.LevelAct, simstate.ElementRunning)
	test.That(t, m.IsComplete(simstate.LevelAct), test.ShouldBeFalse)

	m.Observe("mg", simstate.LevelManeuverGroup, simstate.ElementComplete)
	test.That(t, m.IsComplete(simstate.LevelAct), test.ShouldBeTrue)
}

func TestStoryboardMonitorLastWriterWins(t *testing.T) {
	m := NewStoryboardMonitor()
	m.Observe("mg", simstate.LevelManeuverGroup, simstate.ElementComplete)
	m.Observe("mg", simstate.LevelManeuverGroup, simstate.ElementRunning)
	test.That(t, m.IsComplete(simstate.LevelAct), test.ShouldBeFalse)
}

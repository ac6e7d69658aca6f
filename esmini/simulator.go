package esmini

import "github.com/osc2cr/converter/simstate"

// ViewerMode selects esmini's rendering mode for init().
type ViewerMode int

const (
	ViewerHeadless ViewerMode = iota
	ViewerWindowed
	ViewerOffscreenCapture
)

// storyboardCallback is the Go-side shape of esmini's
// register_storyboard_callback(fn(name, level, state)) argument.
type storyboardCallback func(name string, level simstate.Level, state simstate.ElementState)

// simulator is the native ABI surface SimulatorBridge drives, per §4.2. It
// exists so the stepping loop in bridge.go can be exercised by tests
// against a fake, without linking the real esmini shared library.
type simulator interface {
	init(scenarioPath string, mode ViewerMode, threaded bool) error
	setSeed(seed uint32)
	logToConsole(enabled bool)
	logToFilePath(path string)
	registerStoryboardCallback(cb storyboardCallback)
	stepDt(dt float32) error
	simTime() float32
	quitFlag() bool
	numObjects() int32
	objectID(index int32) int32
	objectName(id int32) string
	objectState(id int32) simstate.RawState
	close()
}

//go:build !cgo

package esmini

import (
	"errors"
	"sync"

	"github.com/osc2cr/converter/simstate"
)

// nativeMu is the same process-wide lock native.go declares for cgo builds;
// SimulatorBridge.Simulate takes it in both build modes.
var nativeMu sync.Mutex

// nativeSimulator is a stand-in used when the build has cgo disabled. It
// fails every call immediately: there is no way to drive esmini without
// cgo, so SimulatorBridge.Simulate degrades to a Failure result rather than
// panicking or linking nothing at all.
type nativeSimulator struct{}

func newNativeSimulator() *nativeSimulator { return &nativeSimulator{} }

var errNoCgo = errors.New("esmini: built without cgo, cannot drive the native simulator")

func (s *nativeSimulator) init(string, ViewerMode, bool) error        { return errNoCgo }
func (s *nativeSimulator) setSeed(uint32)                             {}
func (s *nativeSimulator) logToConsole(bool)                          {}
func (s *nativeSimulator) logToFilePath(string)                       {}
func (s *nativeSimulator) registerStoryboardCallback(storyboardCallback) {}
func (s *nativeSimulator) stepDt(float32) error                       { return errNoCgo }
func (s *nativeSimulator) simTime() float32                           { return 0 }
func (s *nativeSimulator) quitFlag() bool                             { return true }
func (s *nativeSimulator) numObjects() int32                          { return 0 }
func (s *nativeSimulator) objectID(int32) int32                      { return 0 }
func (s *nativeSimulator) objectName(int32) string                   { return "" }
func (s *nativeSimulator) objectState(int32) simstate.RawState       { return simstate.RawState{} }
func (s *nativeSimulator) close()                                    {}

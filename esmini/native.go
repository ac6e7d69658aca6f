//go:build cgo

// Package esmini implements the SimulatorBridge (C1) and StoryboardMonitor
// (C2) components, §4.2: a thin cgo binding over esmini's shared-library
// ABI plus the stepping loop that turns repeated ticks into a SimResult.
package esmini

/*
#cgo linux LDFLAGS: -lesminiLib
#cgo darwin LDFLAGS: -lesminiLib

#include <stdlib.h>
#include <stdint.h>

typedef void (*storyboard_cb)(const char *name, int level, int state);

extern int SE_Init(const char *oscFilename, int disableCtrls, int useViewer, int threads, int record);
extern void SE_SetSeed(unsigned int seed);
extern void SE_SetWindowPosAndSize(int x, int y, int w, int h);
extern void SE_LogToConsole(int mode);
extern int SE_SetLogFilePath(const char *path);
extern int SE_Step(void);
extern int SE_StepDT(float dt);
extern float SE_GetSimulationTime(void);
extern int SE_GetQuitFlag(void);
extern int SE_GetNumberOfObjects(void);
extern int SE_GetId(int index);
extern const char* SE_GetObjectName(int id);
extern int SE_RegisterStoryBoardElementStateChangeCallback(storyboard_cb fn);
extern void SE_Close(void);

typedef struct {
	float x, y, z, h, p, r;
	float speed;
	float centerOffsetX, centerOffsetY, centerOffsetZ;
	int roadId, junctionId;
	float s, t;
	int laneId;
	float laneOffset;
	float length, width, height;
	int objectType, objectCategory;
	float wheelAngle, wheelRotation;
	int hasWheelData;
} se_object_state;

extern int SE_GetObjectStateStruct(int id, se_object_state *out);

extern void goStoryboardTrampoline(const char *name, int level, int state);

static storyboard_cb storyboardTrampolinePtr() {
	return (storyboard_cb)goStoryboardTrampoline;
}
*/
import "C"

import (
	"runtime"
	"runtime/cgo"
	"sync"
	"unsafe"

	"github.com/osc2cr/converter/simstate"
)

// nativeMu is the process-wide lock required by §4.2: esmini has global
// state, so concurrent simulations in one process are forbidden. Every
// native call, from init to close, happens while this is held.
var nativeMu sync.Mutex

// activeCallback holds the Go callback of the single live native simulation
// (there can only ever be one, per nativeMu) as a runtime/cgo.Handle; the C
// trampoline reads this package variable to recover the typed Go closure,
// since esmini's callback carries no context pointer.
var activeCallback cgo.Handle

//export goStoryboardTrampoline
func goStoryboardTrampoline(name *C.char, level, state C.int) {
	if activeCallback == 0 {
		return
	}
	cb, ok := activeCallback.Value().(storyboardCallback)
	if !ok {
		return
	}
	cb(C.GoString(name), simstate.Level(level), simstate.ElementState(state))
}

func libraryHint() string {
	switch runtime.GOOS {
	case "windows":
		return "esminiLib.dll"
	case "darwin":
		return "libesminiLib.dylib"
	default:
		return "libesminiLib.so"
	}
}

// nativeSimulator implements simulator directly against the esmini shared
// library. There is exactly one usable instance per process at a time,
// enforced by SimulatorBridge acquiring nativeMu before touching it.
type nativeSimulator struct{}

func newNativeSimulator() *nativeSimulator {
	return &nativeSimulator{}
}

func (s *nativeSimulator) init(scenarioPath string, mode ViewerMode, threaded bool) error {
	cPath := C.CString(scenarioPath)
	defer C.free(unsafe.Pointer(cPath))
	useViewer := C.int(0)
	if mode == ViewerWindowed || mode == ViewerOffscreenCapture {
		useViewer = 1
	}
	threadsFlag := C.int(0)
	if threaded {
		threadsFlag = 1
	}
	record := C.int(0)
	if int(C.SE_Init(cPath, 0, useViewer, threadsFlag, record)) != 0 {
		return errNativeInit(scenarioPath, libraryHint())
	}
	return nil
}

func (s *nativeSimulator) setSeed(seed uint32) {
	C.SE_SetSeed(C.uint(seed))
}

func (s *nativeSimulator) logToConsole(enabled bool) {
	mode := C.int(0)
	if enabled {
		mode = 1
	}
	C.SE_LogToConsole(mode)
}

func (s *nativeSimulator) logToFilePath(path string) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))
	C.SE_SetLogFilePath(cPath)
}

func (s *nativeSimulator) registerStoryboardCallback(cb storyboardCallback) {
	activeCallback = cgo.NewHandle(cb)
	C.SE_RegisterStoryBoardElementStateChangeCallback(C.storyboardTrampolinePtr())
}

func (s *nativeSimulator) stepDt(dt float32) error {
	if int(C.SE_StepDT(C.float(dt))) != 0 {
		return errNativeStep()
	}
	return nil
}

func (s *nativeSimulator) simTime() float32 {
	return float32(C.SE_GetSimulationTime())
}

func (s *nativeSimulator) quitFlag() bool {
	return int(C.SE_GetQuitFlag()) != 0
}

func (s *nativeSimulator) numObjects() int32 {
	return int32(C.SE_GetNumberOfObjects())
}

func (s *nativeSimulator) objectID(index int32) int32 {
	return int32(C.SE_GetId(C.int(index)))
}

func (s *nativeSimulator) objectName(id int32) string {
	return C.GoString(C.SE_GetObjectName(C.int(id)))
}

func (s *nativeSimulator) objectState(id int32) simstate.RawState {
	var raw C.se_object_state
	C.SE_GetObjectStateStruct(C.int(id), &raw)
	st := simstate.RawState{
		ID:             id,
		Name:           s.objectName(id),
		Timestamp:      float64(s.simTime()),
		X:              float64(raw.x),
		Y:              float64(raw.y),
		Z:              float64(raw.z),
		H:              float64(raw.h),
		P:              float64(raw.p),
		R:              float64(raw.r),
		Speed:          float64(raw.speed),
		CenterOffsetX:  float64(raw.centerOffsetX),
		CenterOffsetY:  float64(raw.centerOffsetY),
		CenterOffsetZ:  float64(raw.centerOffsetZ),
		RoadID:         int32(raw.roadId),
		JunctionID:     int32(raw.junctionId),
		S:              float64(raw.s),
		T:              float64(raw.t),
		LaneID:         int32(raw.laneId),
		LaneOffset:     float64(raw.laneOffset),
		Length:         float64(raw.length),
		Width:          float64(raw.width),
		Height:         float64(raw.height),
		ObjectType:     nativeObjectType(int(raw.objectType)),
		ObjectCategory: int32(raw.objectCategory),
	}
	if raw.hasWheelData != 0 {
		angle := float64(raw.wheelAngle)
		rotation := float64(raw.wheelRotation)
		st.WheelAngle = &angle
		st.WheelRotation = &rotation
	}
	return st
}

func (s *nativeSimulator) close() {
	C.SE_Close()
	if activeCallback != 0 {
		activeCallback.Delete()
		activeCallback = 0
	}
}

func nativeObjectType(raw int) simstate.ObjectType {
	switch raw {
	case 1:
		return simstate.ObjectTypeVehicle
	case 2:
		return simstate.ObjectTypePedestrian
	case 3:
		return simstate.ObjectTypeMisc
	default:
		return simstate.ObjectTypeOther
	}
}

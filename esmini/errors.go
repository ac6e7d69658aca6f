package esmini

import "fmt"

// NativeError wraps a failure reported by the native simulator ABI, per
// §4.2's "on any native error, the bridge returns Failure" rule.
type NativeError struct {
	Op  string
	Msg string
}

func (e *NativeError) Error() string {
	return fmt.Sprintf("esmini: %s: %s", e.Op, e.Msg)
}

func errNativeInit(scenarioPath, libHint string) error {
	return &NativeError{Op: "init", Msg: fmt.Sprintf("SE_Init failed for %q (library %s)", scenarioPath, libHint)}
}

func errNativeStep() error {
	return &NativeError{Op: "step", Msg: "SE_StepDT returned non-zero status"}
}

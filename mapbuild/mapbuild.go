// Package mapbuild implements the MapBuilder component (C6, §4.4): turning
// an optional OpenDRIVE file into a scenario shell, never letting the
// collaborator's failure become fatal to the overall conversion.
package mapbuild

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/osc2cr/converter/commonroad"
)

// OpenDriveConverter is the OpenDRIVE to lanelet-network collaborator from
// §6: "delegated to external converter (opendrive->lanelet network).
// Converter failures are captured, never propagated." Production code
// wires a real OpenDRIVE parser behind this; tests use a stub.
type OpenDriveConverter interface {
	Convert(xodrPath string) (*commonroad.LaneletNetwork, error)
}

// XodrConversionError captures the collaborator's failure, message plus a
// preserved stack trace, per §4.4: "capture the exception (message +
// traceback) as XodrConversionError and continue with an empty-map
// scenario; the error is included in the result but is non-fatal."
type XodrConversionError struct {
	XodrPath string
	cause    error
}

func newXodrConversionError(xodrPath string, cause error) *XodrConversionError {
	return &XodrConversionError{XodrPath: xodrPath, cause: errors.WithStack(cause)}
}

func (e *XodrConversionError) Error() string {
	return "xodr conversion failed for " + e.XodrPath + ": " + e.cause.Error()
}

// Message is the human-readable failure description.
func (e *XodrConversionError) Message() string {
	return e.cause.Error()
}

// Traceback renders the captured stack trace, preserved via
// github.com/pkg/errors.WithStack at the point of failure.
func (e *XodrConversionError) Traceback() string {
	return fmt.Sprintf("%+v", e.cause)
}

// Params configures Build, per §4.4.
type Params struct {
	// XodrPath is the chosen OpenDRIVE path: the caller has already
	// resolved override-vs-implicit precedence before calling Build.
	XodrPath string
	DtCr     float64
	Metadata commonroad.Metadata
}

// Build implements §4.4: if the chosen XODR path exists, delegate to the
// converter and return its network with dt overwritten to dt_cr; on
// failure, capture a non-fatal XodrConversionError and fall back to an
// empty-map scenario. If no path is given at all, start empty.
func Build(converter OpenDriveConverter, params Params) (*commonroad.Scenario, *XodrConversionError) {
	if params.XodrPath == "" {
		return emptyScenario(params), nil
	}
	if _, err := os.Stat(params.XodrPath); err != nil {
		return emptyScenario(params), newXodrConversionError(params.XodrPath, errors.Wrap(err, "xodr path does not exist"))
	}

	network, err := converter.Convert(params.XodrPath)
	if err != nil {
		return emptyScenario(params), newXodrConversionError(params.XodrPath, err)
	}
	scenario := commonroad.NewScenario(params.DtCr, params.Metadata)
	scenario.Lanelets = network
	return scenario, nil
}

func emptyScenario(params Params) *commonroad.Scenario {
	return commonroad.NewScenario(params.DtCr, params.Metadata)
}

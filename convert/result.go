// Package convert implements the ConversionCoordinator component (C11,
// §4.10): the twelve-step pipeline that turns one XOSC file into a
// CommonRoad scenario and planning problem, or a tagged failure.
package convert

import (
	"go.uber.org/multierr"

	"github.com/osc2cr/converter/analyzer"
	"github.com/osc2cr/converter/commonroad"
	"github.com/osc2cr/converter/mapbuild"
)

// FailureReason is the §7 conversion-failure taxonomy: "input is
// well-formed but unusable."
type FailureReason string

const (
	ScenarioFileInvalidPath                  FailureReason = "ScenarioFileInvalidPath"
	ScenarioFileIsCatalog                     FailureReason = "ScenarioFileIsCatalog"
	ScenarioFileIsParameterValueDistribution FailureReason = "ScenarioFileIsParameterValueDistribution"
	ScenarioFileContainsNoStoryboard          FailureReason = "ScenarioFileContainsNoStoryboard"
	SimulationFailedCreatingOutput            FailureReason = "SimulationFailedCreatingOutput"
	NoDynamicBehaviorFound                     FailureReason = "NoDynamicBehaviorFound"
)

// CatalogResolutionError is the non-fatal sub-error from §7 covering a
// failed resolve_actors call (§4.1): "Failures are wrapped and returned
// whole; the pipeline continues with all-None extras."
type CatalogResolutionError struct {
	Message string
}

func (e *CatalogResolutionError) Error() string { return e.Message }

// Result is the tagged outcome of Convert, per §4.10 and §9's "inline vs
// handle" ownership note -- this is the inline variant; ResultStore (C13)
// wraps it with a handle for persisted runs.
type Result struct {
	Success bool
	Reason  FailureReason

	Scenario        *commonroad.Scenario
	PlanningProblem *commonroad.PlanningProblem

	XodrError    *mapbuild.XodrConversionError
	CatalogError *CatalogResolutionError
	Analyzers    []analyzer.Result

	ReferencedFile string // set for ScenarioFileIsParameterValueDistribution warnings (S4)
}

func failure(reason FailureReason) Result {
	return Result{Success: false, Reason: reason}
}

// NonFatalErrors bundles whichever of XodrError/CatalogError accrued
// during a successful conversion into one error, per §7's "non-fatal
// sub-errors are wrapped and returned whole; the pipeline continues."
// Combine skips nils, so this is nil whenever neither accrued.
func (r Result) NonFatalErrors() error {
	var xodrErr, catalogErr error
	if r.XodrError != nil {
		xodrErr = r.XodrError
	}
	if r.CatalogError != nil {
		catalogErr = r.CatalogError
	}
	return multierr.Combine(xodrErr, catalogErr)
}

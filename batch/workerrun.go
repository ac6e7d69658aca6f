package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/osc2cr/converter/commonroad"
	"github.com/osc2cr/converter/convert"
)

// RunWorker executes one WorkerRequest against coordinator and writes its
// artifact to req.ResultPath directly (no ResultStore instance needed in
// the worker process -- the parent already reserved that path). It is the
// subprocess-side counterpart to Driver.runOneSubprocess.
func RunWorker(req WorkerRequest, coordinator *convert.Coordinator) WorkerResponse {
	var egoFilter *regexp.Regexp
	if req.Converter.EgoFilter != "" {
		compiled, err := regexp.Compile(req.Converter.EgoFilter)
		if err != nil {
			return WorkerResponse{Status: StatusErrored, Error: fmt.Sprintf("compiling ego_filter: %v", err)}
		}
		egoFilter = compiled
	}

	params := convert.Params{
		XoscPath:       req.XoscPath,
		XodrOverride:   req.Converter.XodrOverride,
		DtCr:           req.Converter.DtCr,
		DtSim:          req.Esmini.DtSim,
		MaxTime:        req.Esmini.MaxTime,
		GraceTime:      req.Esmini.GraceTime,
		IgnoredLevel:   req.Esmini.IgnoredLevel,
		Seed:           req.Esmini.Seed,
		Viewer:         req.Esmini.Viewer,
		EgoFilter:      egoFilter,
		KeepEgoVehicle: req.Converter.KeepEgoVehicle,
		TrimEnabled:    req.Converter.TrimEnabled,
		Metadata: commonroad.Metadata{
			Author:      req.Converter.Author,
			Affiliation: req.Converter.Affiliation,
			Source:      req.Converter.Source,
			Tags:        req.Converter.Tags,
		},
		Goal:          req.Goal.ToPlanningGoalParams(),
		AnalyzerNames: req.Converter.AnalyzerNames,
	}

	result := coordinator.Convert(params)
	if !result.Success {
		return WorkerResponse{Status: StatusFailed, Reason: string(result.Reason)}
	}

	if req.ResultPath != "" {
		if err := WriteArtifact(req.ResultPath, result.Scenario, result.PlanningProblem); err != nil {
			return WorkerResponse{Status: StatusErrored, Error: err.Error()}
		}
	}
	return WorkerResponse{Status: StatusSucceeded}
}

// ServeWorkerFiles reads a WorkerRequest from requestPath, runs it, and
// writes the WorkerResponse to responsePath -- the file-based IPC contract
// analyzer.Watchdog's Run expects on the other end.
func ServeWorkerFiles(requestPath, responsePath string, coordinator *convert.Coordinator) error {
	raw, err := os.ReadFile(requestPath)
	if err != nil {
		return fmt.Errorf("batch: reading worker request: %w", err)
	}
	var req WorkerRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("batch: unmarshaling worker request: %w", err)
	}

	resp := RunWorker(req, coordinator)

	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("batch: marshaling worker response: %w", err)
	}
	if err := os.WriteFile(responsePath, payload, 0o600); err != nil {
		return fmt.Errorf("batch: writing worker response: %w", err)
	}
	return nil
}

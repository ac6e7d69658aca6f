package convert

import (
	"regexp"
	"sort"

	"github.com/osc2cr/converter/analyzer"
	"github.com/osc2cr/converter/commonroad"
	"github.com/osc2cr/converter/ego"
	"github.com/osc2cr/converter/esmini"
	"github.com/osc2cr/converter/mapbuild"
	"github.com/osc2cr/converter/obstacle"
	"github.com/osc2cr/converter/planning"
	"github.com/osc2cr/converter/simstate"
	"github.com/osc2cr/converter/trim"
	"github.com/osc2cr/converter/xosc"
)

// ActorResolver is the xosc.ResolveActors contract, narrowed to an
// interface so tests can substitute a stub.
type ActorResolver func(path string, actorNames []string) (map[string]*xosc.Vehicle, error)

// Params configures one Convert call, the union of everything §4.10's
// twelve steps need.
type Params struct {
	XoscPath      string
	XodrOverride  string // wins over the pre-parse's implicit path, per §4.4
	DtCr          float64
	DtSim         float64
	MaxTime       float64
	GraceTime     *float64
	IgnoredLevel  simstate.Level
	Seed          uint32
	Viewer        esmini.ViewerMode

	EgoFilter      *regexp.Regexp
	KeepEgoVehicle bool
	TrimEnabled    bool

	Metadata commonroad.Metadata
	Goal     planning.GoalParams

	AnalyzerNames []string
}

// Coordinator wires C11's collaborators: the OpenDRIVE converter, the
// simulator bridge, the lanelet assigner, and the actor-catalog resolver.
type Coordinator struct {
	Converter     mapbuild.OpenDriveConverter
	Bridge        esmini.Bridge
	LaneletAssign commonroad.LaneletAssigner
	ResolveActors ActorResolver
}

// NewCoordinator wires the production collaborators; xosc.ResolveActors is
// used directly as the ActorResolver.
func NewCoordinator(converter mapbuild.OpenDriveConverter, bridge esmini.Bridge, assigner commonroad.LaneletAssigner) *Coordinator {
	return &Coordinator{
		Converter:     converter,
		Bridge:        bridge,
		LaneletAssign: assigner,
		ResolveActors: xosc.ResolveActors,
	}
}

// Convert implements §4.10's twelve-step sequence for one input file.
func (c *Coordinator) Convert(params Params) Result {
	preParse, err := xosc.Classify(params.XoscPath)
	if err != nil {
		return failure(ScenarioFileInvalidPath)
	}
	switch preParse.Kind {
	case xosc.KindCatalog:
		return failure(ScenarioFileIsCatalog)
	case xosc.KindParameterDistribution:
		r := failure(ScenarioFileIsParameterValueDistribution)
		r.ReferencedFile = preParse.ReferencedFile
		return r
	case xosc.KindNoStoryboard:
		return failure(ScenarioFileContainsNoStoryboard)
	}

	xodrPath := params.XodrOverride
	if xodrPath == "" {
		xodrPath = preParse.ImplicitXodrPath
	}
	scenario, xodrErr := mapbuild.Build(c.Converter, mapbuild.Params{
		XodrPath: xodrPath,
		DtCr:     params.DtCr,
		Metadata: params.Metadata,
	})

	simResult, err := c.Bridge.Simulate(esmini.Params{
		ScenarioPath: params.XoscPath,
		DtSim:        params.DtSim,
		MaxTime:      params.MaxTime,
		Seed:         params.Seed,
		Viewer:       params.Viewer,
		GraceTime:    params.GraceTime,
		IgnoredLevel: params.IgnoredLevel,
	})
	if err != nil {
		return failure(SimulationFailedCreatingOutput)
	}
	if len(simResult.States) == 0 {
		return failure(NoDynamicBehaviorFound)
	}

	actorNames := make([]string, 0, len(simResult.States))
	for name := range simResult.States {
		actorNames = append(actorNames, name)
	}

	var catalogErr *CatalogResolutionError
	if c.ResolveActors != nil {
		if _, err := c.ResolveActors(params.XoscPath, actorNames); err != nil {
			catalogErr = &CatalogResolutionError{Message: err.Error()}
		}
	}

	egoName, _ := ego.Select(actorNames, params.EgoFilter)

	orderedNames := orderWithEgoFirst(actorNames, egoName)

	var egoObstacle *commonroad.DynamicObstacle
	builtObstacles := make(map[string]*commonroad.DynamicObstacle, len(orderedNames))
	for _, name := range orderedNames {
		o, err := obstacle.Build(name, simResult.States[name], params.DtCr, scenario.NextObstacleID, obstacle.CatalogExtra{})
		if err != nil {
			continue
		}
		builtObstacles[name] = o
		if name == egoName {
			egoObstacle = o
		}
		if name != egoName || params.KeepEgoVehicle {
			_ = scenario.AddObstacle(o)
		}
	}

	if egoObstacle == nil {
		return failure(SimulationFailedCreatingOutput)
	}

	if !scenario.Lanelets.IsEmpty() {
		scenario.AssignObstaclesToLanelets(c.LaneletAssign)
	}

	if params.TrimEnabled {
		scenario = trim.Trim(scenario, c.LaneletAssign)
	}

	problem := planning.Build(egoObstacle.ID, egoObstacle, params.Goal)

	var analyzerResults []analyzer.Result
	if len(params.AnalyzerNames) > 0 {
		analysisScenario := scenario
		if !params.KeepEgoVehicle {
			analysisScenario = scenario.Clone()
			_ = analysisScenario.AddObstacle(egoObstacle)
		}
		analyzerResults = analyzer.RunAll(params.AnalyzerNames, analysisScenario, problem)
	}

	return Result{
		Success:         true,
		Scenario:        scenario,
		PlanningProblem: &problem,
		XodrError:       xodrErr,
		CatalogError:    catalogErr,
		Analyzers:       analyzerResults,
	}
}

// orderWithEgoFirst implements §4.10 step 6: ego first (so it receives the
// smallest id from the scenario's monotone generator), then the remaining
// actors in lexicographic order.
func orderWithEgoFirst(names []string, egoName string) []string {
	rest := make([]string, 0, len(names))
	for _, n := range names {
		if n != egoName {
			rest = append(rest, n)
		}
	}
	sort.Strings(rest)
	return append([]string{egoName}, rest...)
}

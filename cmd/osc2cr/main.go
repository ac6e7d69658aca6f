// Command osc2cr is the single-file CLI surface from §6: "<tool> <mode:
// import|merge> <SOURCE.xosc> <TARGET.xml> [-d|--opendrive PATH]
// [--cr-files FILE ...] [--non-interactive]". It also exposes two hidden
// subcommands, "-batch-worker" and "-analyzer-worker", which let the batch
// driver and the STL analyzer's watchdog dispatch work to a fresh
// subprocess of this same binary instead of a separate executable.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/osc2cr/converter/analyzer"
	"github.com/osc2cr/converter/batch"
	"github.com/osc2cr/converter/cliutil"
	"github.com/osc2cr/converter/commonroad"
	"github.com/osc2cr/converter/config"
	"github.com/osc2cr/converter/convert"
	"github.com/osc2cr/converter/crio"
	"github.com/osc2cr/converter/esmini"
	"github.com/osc2cr/converter/logging"
	"github.com/osc2cr/converter/mapbuild"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "-batch-worker":
			runBatchWorker(os.Args[2:])
			return
		case "-analyzer-worker":
			runAnalyzerWorker(os.Args[2:])
			return
		}
	}

	if err := buildApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildApp() *cli.App {
	opendriveFlag := &cli.StringFlag{Name: "opendrive", Aliases: []string{"d"}, Usage: "optional OpenDRIVE map file"}
	crFilesFlag := &cli.StringSliceFlag{Name: "cr-files", Usage: "existing CommonRoad files to merge with"}
	nonInteractiveFlag := &cli.BoolFlag{Name: "non-interactive", Usage: "never prompt before overwriting TARGET"}

	return &cli.App{
		Name:  "osc2cr",
		Usage: "convert an OpenSCENARIO file into a CommonRoad scenario",
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "convert SOURCE.xosc into a new TARGET.xml",
				ArgsUsage: "SOURCE.xosc TARGET.xml",
				Flags:     []cli.Flag{opendriveFlag, nonInteractiveFlag},
				Action:    runConvertCommand(false),
			},
			{
				Name:      "merge",
				Usage:     "convert SOURCE.xosc and merge it with --cr-files before writing TARGET.xml",
				ArgsUsage: "SOURCE.xosc TARGET.xml",
				Flags:     []cli.Flag{opendriveFlag, crFilesFlag, nonInteractiveFlag},
				Action:    runConvertCommand(true),
			},
		},
	}
}

// runConvertCommand builds the Action for "import" (merge=false) and
// "merge" (merge=true); the two modes share every step except whether
// --cr-files is required and applied.
func runConvertCommand(merge bool) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		source := ctx.Args().Get(0)
		target := ctx.Args().Get(1)
		if source == "" || target == "" {
			return cli.Exit("usage: osc2cr <import|merge> SOURCE.xosc TARGET.xml", 2)
		}

		crFiles := ctx.StringSlice("cr-files")
		if merge && len(crFiles) == 0 {
			return cli.Exit("merge mode requires --cr-files", 2)
		}

		if _, err := os.Stat(source); err != nil {
			return cli.Exit(fmt.Sprintf("source filepath %s does not exist", source), 1)
		}
		opendrivePath := ctx.String("opendrive")
		if opendrivePath != "" {
			if _, err := os.Stat(opendrivePath); err != nil {
				return cli.Exit(fmt.Sprintf("opendrive filepath %s does not exist", opendrivePath), 1)
			}
		}

		nonInteractive := ctx.Bool("non-interactive")
		if _, err := os.Stat(target); err == nil {
			if nonInteractive {
				return cli.Exit(fmt.Sprintf("target filepath %s already exists", target), 1)
			}
			overwrite, err := cliutil.ConfirmOverwrite(target, false, false)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if !overwrite {
				return nil
			}
		}

		logger := logging.NewLogger("osc2cr")
		cfg := config.Default()
		cfg.Converter.XodrOverride = opendrivePath

		coordinator := buildCoordinator(logger, cfg)
		result := coordinator.Convert(convertParams(cfg, source))
		if !result.Success {
			return cli.Exit(fmt.Sprintf("conversion failed: %s", result.Reason), 1)
		}
		if nonFatal := result.NonFatalErrors(); nonFatal != nil {
			logger.Warnf("conversion completed with non-fatal errors: %v", nonFatal)
		}

		scenario := result.Scenario
		if merge {
			for _, crPath := range crFiles {
				other, _, err := crio.Read(crPath)
				if err != nil {
					return cli.Exit(fmt.Sprintf("reading %s: %v", crPath, err), 1)
				}
				crio.Merge(scenario, other)
			}
		}

		if err := crio.Write(target, scenario, result.PlanningProblem); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		logger.Infof("wrote %s", target)
		return nil
	}
}

func convertParams(cfg config.Config, source string) convert.Params {
	var egoFilter *regexp.Regexp
	if cfg.Converter.EgoFilter != "" {
		egoFilter = regexp.MustCompile(cfg.Converter.EgoFilter)
	}
	return convert.Params{
		XoscPath:       source,
		XodrOverride:   cfg.Converter.XodrOverride,
		DtCr:           cfg.Converter.DtCr,
		DtSim:          cfg.Esmini.DtSim,
		MaxTime:        cfg.Esmini.MaxTime,
		GraceTime:      cfg.Esmini.GraceTime,
		IgnoredLevel:   cfg.Esmini.IgnoredLevel,
		Seed:           cfg.Esmini.Seed,
		Viewer:         cfg.Esmini.Viewer,
		EgoFilter:      egoFilter,
		KeepEgoVehicle: cfg.Converter.KeepEgoVehicle,
		TrimEnabled:    cfg.Converter.TrimEnabled,
		Metadata: commonroad.Metadata{
			Author:      cfg.Converter.Author,
			Affiliation: cfg.Converter.Affiliation,
			Source:      cfg.Converter.Source,
			Tags:        cfg.Converter.Tags,
		},
		Goal:          cfg.Goal.ToPlanningGoalParams(),
		AnalyzerNames: cfg.Converter.AnalyzerNames,
	}
}

// buildCoordinator wires the production collaborators: the simulator
// bridge is the only one backed by a real native library; the OpenDRIVE
// converter and lanelet assigner are the in-repo stand-ins described in
// SPEC_FULL.md, since both are out-of-scope external collaborators.
func buildCoordinator(logger logging.Logger, cfg config.Config) *convert.Coordinator {
	bridge := esmini.NewSimulatorBridge(logger.Sublogger("esmini"))
	converter := mapbuild.StubOpenDriveConverter{}
	assigner := commonroad.PolygonLaneletAssigner{}
	coordinator := convert.NewCoordinator(converter, bridge, assigner)

	self, err := os.Executable()
	if err == nil {
		analyzer.RegisterAnalyzer(analyzer.STLAnalyzer{
			Command:   self,
			ExtraArgs: []string{"-analyzer-worker", "stl"},
			Timeout:   30 * time.Second,
			Logger:    logger.Sublogger("analyzer.stl"),
		})
	}
	return coordinator
}

func runBatchWorker(args []string) {
	fs := flag.NewFlagSet("-batch-worker", flag.ExitOnError)
	requestPath := fs.String("request", "", "path to the JSON-encoded WorkerRequest")
	responsePath := fs.String("response", "", "path to write the JSON-encoded WorkerResponse")
	_ = fs.Parse(args)

	logger := logging.NewLogger("osc2cr-batch-worker")
	coordinator := buildCoordinator(logger, config.Default())
	if err := batch.ServeWorkerFiles(*requestPath, *responsePath, coordinator); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runAnalyzerWorker(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "-analyzer-worker requires an analyzer name")
		os.Exit(1)
	}
	name, rest := args[0], args[1:]
	switch name {
	case "stl":
		runSTLWorker(rest)
	default:
		fmt.Fprintf(os.Stderr, "-analyzer-worker: unknown analyzer %q\n", name)
		os.Exit(1)
	}
}

// maxSTLSpeed is the fixed bound of the STL worker's one predicate: every
// ego state's speed must stay at or below this bound for the monitor to be
// satisfied.
const maxSTLSpeed = 60.0

func runSTLWorker(args []string) {
	fs := flag.NewFlagSet("-analyzer-worker stl", flag.ExitOnError)
	requestPath := fs.String("request", "", "path to the JSON-encoded STLRequest")
	responsePath := fs.String("response", "", "path to write the JSON-encoded STLResult")
	_ = fs.Parse(args)

	raw, err := os.ReadFile(*requestPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	var req analyzer.STLRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	result := analyzer.STLResult{Satisfied: true}
	for _, s := range req.EgoTrajectory {
		if s.Velocity > maxSTLSpeed {
			result.Satisfied = false
			result.Violated = append(result.Violated, fmt.Sprintf("t=%d: speed %.2f exceeds %.2f", s.TimeStep, s.Velocity, maxSTLSpeed))
		}
	}

	payload, err := json.Marshal(result)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := os.WriteFile(*responsePath, payload, 0o600); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Command osc2cr-batch is the batch driver CLI from §4.11/§6: discover
// every XOSC file under a root directory and convert each one on a bounded
// worker pool, persisting per-file artifacts and aggregate statistics
// under a storage directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"regexp"

	"github.com/pterm/pterm"

	"github.com/osc2cr/converter/batch"
	"github.com/osc2cr/converter/commonroad"
	"github.com/osc2cr/converter/config"
	"github.com/osc2cr/converter/convert"
	"github.com/osc2cr/converter/esmini"
	"github.com/osc2cr/converter/logging"
	"github.com/osc2cr/converter/mapbuild"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "-batch-worker" {
		runWorkerMode(os.Args[2:])
		return
	}

	fs := flag.NewFlagSet("osc2cr-batch", flag.ExitOnError)
	rootDir := fs.String("root", "", "directory to search for .xosc files")
	pattern := fs.String("pattern", config.DefaultBatchParams().Pattern, "regexp matched against discovered filenames")
	recursive := fs.Bool("recursive", false, "search subdirectories too")
	storageDir := fs.String("storage", "", "directory to write per-file artifacts and statistics.bson into")
	workers := fs.Int("workers", 0, "bounded worker pool size (0 means runtime.NumCPU())")
	subprocess := fs.Bool("subprocess", true, "isolate each conversion in its own subprocess")
	_ = fs.Parse(os.Args[1:])

	if *rootDir == "" || *storageDir == "" {
		fmt.Fprintln(os.Stderr, "osc2cr-batch: -root and -storage are required")
		os.Exit(2)
	}

	re, err := regexp.Compile(*pattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "osc2cr-batch: invalid -pattern: %v\n", err)
		os.Exit(2)
	}

	logger := logging.NewLogger("osc2cr-batch")
	cfg := config.Default()
	cfg.Batch.WorkerCount = *workers

	store, err := batch.NewResultStore(*storageDir, cfg.Batch.LazyLoad)
	if err != nil {
		fmt.Fprintf(os.Stderr, "osc2cr-batch: %v\n", err)
		os.Exit(1)
	}

	driver := &batch.Driver{
		Coordinator: buildCoordinator(logger, cfg),
		Store:       store,
		Logger:      logger,
		ParamsFor: func(path string) convert.Params {
			return convertParamsFor(cfg, path)
		},
		WorkerCount: cfg.Batch.WorkerCount,
	}

	if *subprocess {
		self, err := os.Executable()
		if err != nil {
			fmt.Fprintf(os.Stderr, "osc2cr-batch: resolving self path: %v\n", err)
			os.Exit(1)
		}
		driver.WorkerCommand = self
		driver.WorkerTimeout = cfg.Batch.TaskTimeout
		driver.WorkerConverter = cfg.Converter
		driver.WorkerEsmini = cfg.Esmini
		driver.WorkerGoal = cfg.Goal
	}

	paths, err := batch.Discover(*rootDir, re, *recursive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "osc2cr-batch: %v\n", err)
		os.Exit(1)
	}

	bar, err := pterm.DefaultProgressbar.WithTotal(len(paths)).WithTitle("converting").Start()
	if err != nil {
		fmt.Fprintf(os.Stderr, "osc2cr-batch: %v\n", err)
		os.Exit(1)
	}
	driver.OnEntry = func(path string, entry *batch.BatchEntry) {
		bar.UpdateTitle(fmt.Sprintf("converted %s: %s", path, entry.Status))
		bar.Increment()
	}

	entries, err := driver.Run(context.Background(), *rootDir, re, *recursive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "osc2cr-batch: %v\n", err)
		os.Exit(1)
	}
	_, _ = bar.Stop()

	succeeded, failed, errored := summarize(entries)
	pterm.Success.Printfln("%d succeeded, %d failed, %d errored (statistics at %s)",
		succeeded, failed, errored, *storageDir)
}

func summarize(entries map[string]*batch.BatchEntry) (succeeded, failed, errored int) {
	for _, e := range entries {
		switch e.Status {
		case batch.StatusSucceeded:
			succeeded++
		case batch.StatusFailed:
			failed++
		case batch.StatusErrored:
			errored++
		}
	}
	return succeeded, failed, errored
}

func convertParamsFor(cfg config.Config, path string) convert.Params {
	var egoFilter *regexp.Regexp
	if cfg.Converter.EgoFilter != "" {
		egoFilter = regexp.MustCompile(cfg.Converter.EgoFilter)
	}
	return convert.Params{
		XoscPath:       path,
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

func buildCoordinator(logger logging.Logger, cfg config.Config) *convert.Coordinator {
	bridge := esmini.NewSimulatorBridge(logger.Sublogger("esmini"))
	converter := mapbuild.StubOpenDriveConverter{}
	assigner := commonroad.PolygonLaneletAssigner{}
	return convert.NewCoordinator(converter, bridge, assigner)
}

func runWorkerMode(args []string) {
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

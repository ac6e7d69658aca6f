package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/osc2cr/converter/analyzer"
	"github.com/osc2cr/converter/config"
	"github.com/osc2cr/converter/convert"
	"github.com/osc2cr/converter/logging"
)

// Driver implements C12 (§4.11): discover every matching input file, run
// one ConversionCoordinator.Convert per file on a bounded worker pool, and
// persist both the heavy per-file artifacts and the full run's statistics.
//
// Two dispatch modes share the same Run/runOne bookkeeping. With
// WorkerCommand unset, each task runs in-process (used by tests and by
// Convert calls cheap enough not to need process isolation). With
// WorkerCommand set to this binary's own path, each task is handed to a
// "-batch-worker" subprocess via the same Watchdog abstraction the
// analyzer package uses for its own sandboxed workers (§5: "each task runs
// in a fresh subprocess... one escalation after half the timeout").
type Driver struct {
	Coordinator *convert.Coordinator
	Store       *ResultStore
	Logger      logging.Logger

	// ParamsFor builds the per-file convert.Params for in-process
	// dispatch; unused when WorkerCommand is set.
	ParamsFor func(path string) convert.Params

	// WorkerCommand, when non-empty, switches dispatch to a subprocess
	// per task, invoked as `WorkerCommand -batch-worker --request ...
	// --response ...`.
	WorkerCommand   string
	WorkerTimeout   time.Duration
	WorkerConverter config.ConverterParams
	WorkerEsmini    config.EsminiParams
	WorkerGoal      config.GoalParams

	WorkerCount int // 0 means runtime.NumCPU()

	// OnEntry, if set, is called once per file immediately after its
	// entry is finalized (Succeeded, Failed, or Errored) -- cmd/osc2cr-batch
	// uses this to drive a live pterm progress bar without Driver itself
	// depending on any presentation library.
	OnEntry func(path string, entry *BatchEntry)
}

// Run implements §4.11's sequence: discover, dispatch, persist, summarize.
// It never returns early on a single file's failure -- every discovered
// file gets an entry in the returned map, whether Succeeded, Failed, or
// Errored -- and always attempts PersistStatistics before returning,
// including when ctx is canceled mid-run.
func (d *Driver) Run(ctx context.Context, rootDir string, pattern *regexp.Regexp, recursive bool) (map[string]*BatchEntry, error) {
	paths, err := Discover(rootDir, pattern, recursive)
	if err != nil {
		return nil, fmt.Errorf("batch: discovering inputs: %w", err)
	}

	entries := make(map[string]*BatchEntry, len(paths))
	var mu sync.Mutex
	for _, p := range paths {
		entries[p] = &BatchEntry{SourcePath: p, Status: StatusPending}
	}

	limit := d.WorkerCount
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(limit)

	for _, p := range paths {
		path := p
		group.Go(func() error {
			entry := d.runOne(groupCtx, path)
			mu.Lock()
			entries[path] = entry
			mu.Unlock()
			if d.OnEntry != nil {
				d.OnEntry(path, entry)
			}
			return nil // per-file failure never aborts the batch
		})
	}
	// group.Wait's error is always nil (runOne never returns one). A canceled
	// parent ctx does not stop dispatch: every task still starts, and only
	// the subprocess path passes the canceled ctx on to its worker.
	_ = group.Wait()

	if d.Store != nil {
		if err := PersistStatistics(d.Store.storageDir, entries); err != nil {
			d.logf("batch: persisting statistics: %v", err)
		}
	}

	return entries, nil
}

// runOne implements one file's Pending -> Running -> {Succeeded, Failed,
// Errored} transition, per §4.11 and §7's distinction between tagged
// FailureReason outcomes and unexpected exceptions.
func (d *Driver) runOne(ctx context.Context, path string) *BatchEntry {
	entry := &BatchEntry{SourcePath: path, Status: StatusRunning, StartedAt: time.Now()}

	if d.WorkerCommand != "" {
		d.runOneSubprocess(ctx, path, entry)
	} else {
		d.runOneInProcess(path, entry)
	}

	entry.FinishedAt = time.Now()
	return entry
}

func (d *Driver) runOneInProcess(path string, entry *BatchEntry) {
	result, panicked := d.convertSafely(path)
	if panicked != nil {
		entry.Status = StatusErrored
		entry.Exception = panicked
		return
	}

	if !result.Success {
		entry.Status = StatusFailed
		entry.Reason = string(result.Reason)
		return
	}

	if d.Store != nil {
		basename := filepath.Base(path)
		handle, err := d.Store.Persist(basename, result.Scenario, result.PlanningProblem)
		if err != nil {
			entry.Status = StatusErrored
			entry.Exception = &ExceptionRecord{Message: err.Error()}
			return
		}
		entry.ResultPath = handle.Path
	}
	entry.Status = StatusSucceeded
}

// runOneSubprocess implements the production dispatch path: the parent
// reserves the artifact's path (so the counter stays process-wide even
// though the write happens in a child), then delegates the actual
// conversion to a "-batch-worker" subprocess via Watchdog.
func (d *Driver) runOneSubprocess(ctx context.Context, path string, entry *BatchEntry) {
	resultPath := ""
	if d.Store != nil {
		resultPath = d.Store.reservePath(filepath.Base(path))
	}

	req := WorkerRequest{
		XoscPath:   path,
		ResultPath: resultPath,
		Converter:  d.WorkerConverter,
		Esmini:     d.WorkerEsmini,
		Goal:       d.WorkerGoal,
	}

	watchdog := &analyzer.Watchdog{
		Command:   d.WorkerCommand,
		ExtraArgs: []string{"-batch-worker"},
		Timeout:   d.WorkerTimeout,
		Logger:    d.Logger,
	}

	var resp WorkerResponse
	if err := watchdog.Run(ctx, req, &resp); err != nil {
		entry.Status = StatusErrored
		entry.Exception = &ExceptionRecord{Message: err.Error()}
		return
	}

	entry.Status = resp.Status
	entry.Reason = resp.Reason
	if resp.Error != "" {
		entry.Exception = &ExceptionRecord{Message: resp.Error}
	}
	if resp.Status == StatusSucceeded {
		entry.ResultPath = resultPath
	}
}

// convertSafely runs one Convert call, recovering a panic into an
// ExceptionRecord the way analyzer.RunAll contains a misbehaving analyzer:
// a single malformed input must not take down the whole batch.
func (d *Driver) convertSafely(path string) (result convert.Result, panicked *ExceptionRecord) {
	defer func() {
		if r := recover(); r != nil {
			panicked = &ExceptionRecord{Message: fmt.Sprintf("panic: %v", r)}
		}
	}()
	params := d.ParamsFor(path)
	params.XoscPath = path
	result = d.Coordinator.Convert(params)
	return result, nil
}

func (d *Driver) logf(format string, args ...any) {
	if d.Logger != nil {
		d.Logger.Errorf(format, args...)
	}
}

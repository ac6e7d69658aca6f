package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/utils/pexec"

	"github.com/osc2cr/converter/logging"
)

// Watchdog spawns one subprocess per invocation to contain crashes in
// third-party native analysis code, per §5 and §9: "each analyzer may
// itself spawn a watchdog subprocess with its own timeout... on timeout the
// analyzer's result becomes an AnalyzerError with text 'Timed out'/'Timed
// out -- NEEDED SIGKILL'." It communicates via a request/response pair of
// JSON files rather than stdio, so the child's own stdout/stderr stay free
// for its native library's diagnostic logging.
type Watchdog struct {
	Command string
	// ExtraArgs is prepended before --request/--response, letting one
	// binary expose several watchdog-style subcommands (the analyzer
	// worker mode and the batch worker mode both reuse this type).
	ExtraArgs []string
	Timeout   time.Duration
	Logger    logging.Logger

	// Clock drives the timeout timer; nil means clock.New() (real time).
	// Tests inject clock.NewMock() and call Add() to fire the timeout
	// deterministically, the way the teacher's data collectors do for
	// their own ticker logic.
	Clock clock.Clock
}

// Run writes request to a temp file, invokes Command with --request/--response
// flags pointing at temp files, and decodes the response into result. On
// timeout the child is stopped (pexec escalates to SIGKILL after half the
// timeout, per §5) and the error text follows the spec's two timeout
// messages.
func (w *Watchdog) Run(ctx context.Context, request any, result any) error {
	dir, err := os.MkdirTemp("", "analyzer-watchdog-*")
	if err != nil {
		return fmt.Errorf("watchdog: creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	requestPath := filepath.Join(dir, "request.json")
	responsePath := filepath.Join(dir, "response.json")

	payload, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("watchdog: marshaling request: %w", err)
	}
	if err := os.WriteFile(requestPath, payload, 0o600); err != nil {
		return fmt.Errorf("watchdog: writing request: %w", err)
	}

	args := append(append([]string{}, w.ExtraArgs...), "--request", requestPath, "--response", responsePath)
	proc := pexec.NewManagedProcess(pexec.ProcessConfig{
		Name:        w.Command,
		Args:        args,
		OneShot:     true,
		Log:         true,
		StopSignal:  syscall.SIGTERM,
		StopTimeout: w.Timeout / 2,
	}, w.Logger)

	clk := w.Clock
	if clk == nil {
		clk = clock.New()
	}
	timer := clk.Timer(w.Timeout)
	defer timer.Stop()

	done := make(chan error, 1)
	go func() { done <- proc.Start(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("watchdog: %s: %w", w.Command, err)
		}
	case <-timer.C:
		if stopErr := proc.Stop(); stopErr != nil {
			return fmt.Errorf("Timed out — NEEDED SIGKILL")
		}
		return fmt.Errorf("Timed out")
	case <-ctx.Done():
		_ = proc.Stop()
		return ctx.Err()
	}

	raw, err := os.ReadFile(responsePath)
	if err != nil {
		return fmt.Errorf("watchdog: reading response: %w", err)
	}
	return json.Unmarshal(raw, result)
}

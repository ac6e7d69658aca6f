// Package cliutil holds CLI-facing helpers: progress reporting and
// interactive confirmation. cmd/osc2cr uses the confirmation prompt;
// neither command currently drives a ProgressManager.
package cliutil

import (
	"fmt"
	"sync"
	"time"

	"github.com/pterm/pterm"
)

// StepStatus is one step's lifecycle state in a ProgressManager run.
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepCompleted
	StepFailed
)

// Step is one unit of reported progress, such as one file's conversion.
// IndentLevel lets a run nest a per-file step under an overall
// "discovering/converting" parent step.
type Step struct {
	ID          string
	Message     string
	IndentLevel int

	Status    StepStatus
	startTime time.Time
}

// progressSpinner is the subset of pterm's spinner printer ProgressManager
// drives; narrowed to an interface so tests can substitute a fake instead
// of rendering to a real terminal.
type progressSpinner interface {
	UpdateText(text string)
	Success(message ...any)
	Fail(message ...any)
	Stop() error
}

type progressSpinnerFactory func(text string) (progressSpinner, error)

func defaultSpinnerFactory(text string) (progressSpinner, error) {
	spinner, err := pterm.DefaultSpinner.Start(text)
	if err != nil {
		return nil, err
	}
	return spinner, nil
}

// ProgressManager sequences Step spinners for one CLI run: exactly one
// spinner is ever active, replaced each time Start is called for a
// different step.
type ProgressManager struct {
	mu      sync.Mutex
	steps   []*Step
	stepMap map[string]*Step

	currentSpinner progressSpinner
	spinnerFactory progressSpinnerFactory
	outputEnabled  bool
}

// ProgressManagerOption configures a ProgressManager at construction.
type ProgressManagerOption func(*ProgressManager)

// WithProgressOutput(false) disables spinner rendering entirely
// (non-interactive / piped output), while Start/Complete/Fail still track
// step state; true, the default, keeps it on.
func WithProgressOutput(enabled bool) ProgressManagerOption {
	return func(pm *ProgressManager) { pm.outputEnabled = enabled }
}

func withProgressSpinnerFactory(f progressSpinnerFactory) ProgressManagerOption {
	return func(pm *ProgressManager) { pm.spinnerFactory = f }
}

// NewProgressManager builds a manager over steps, all starting StepPending.
func NewProgressManager(steps []*Step, opts ...ProgressManagerOption) *ProgressManager {
	pm := &ProgressManager{
		steps:          steps,
		stepMap:        make(map[string]*Step, len(steps)),
		spinnerFactory: defaultSpinnerFactory,
		outputEnabled:  true,
	}
	for _, s := range steps {
		s.Status = StepPending
		pm.stepMap[s.ID] = s
	}
	for _, opt := range opts {
		opt(pm)
	}
	return pm
}

func getPrefix(step *Step) string {
	if step.IndentLevel == 0 {
		return ""
	}
	prefix := ""
	for i := 0; i < step.IndentLevel; i++ {
		prefix += "  "
	}
	return prefix + "→ "
}

// Start transitions id to StepRunning and, if output is enabled, replaces
// the current spinner with one for this step.
func (pm *ProgressManager) Start(id string) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	step, ok := pm.stepMap[id]
	if !ok {
		return fmt.Errorf("step %q not found", id)
	}
	pm.stopCurrentLocked()

	step.Status = StepRunning
	step.startTime = time.Now()

	if !pm.outputEnabled {
		return nil
	}
	spinner, err := pm.spinnerFactory(getPrefix(step) + step.Message)
	if err != nil {
		return err
	}
	pm.currentSpinner = spinner
	return nil
}

// Complete marks id StepCompleted and resolves the active spinner, if any,
// with a success message; it does not check that the spinner is id's.
func (pm *ProgressManager) Complete(id string) error {
	return pm.CompleteWithMessage(id, "")
}

// CompleteWithMessage is Complete with a custom terminal message.
func (pm *ProgressManager) CompleteWithMessage(id, message string) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	step, ok := pm.stepMap[id]
	if !ok {
		return fmt.Errorf("step %q not found", id)
	}
	step.Status = StepCompleted

	if pm.currentSpinner != nil {
		if message != "" {
			pm.currentSpinner.Success(message)
		} else {
			pm.currentSpinner.Success(getPrefix(step) + step.Message)
		}
		pm.currentSpinner = nil
	}
	return nil
}

// Fail marks id StepFailed and resolves the active spinner with err's text.
func (pm *ProgressManager) Fail(id string, err error) error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return pm.FailWithMessage(id, msg)
}

// FailWithMessage is Fail with a custom terminal message.
func (pm *ProgressManager) FailWithMessage(id, message string) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	step, ok := pm.stepMap[id]
	if !ok {
		return fmt.Errorf("step %q not found", id)
	}
	step.Status = StepFailed

	if pm.currentSpinner != nil {
		if message != "" {
			pm.currentSpinner.Fail(message)
		} else {
			pm.currentSpinner.Fail(getPrefix(step) + step.Message)
		}
		pm.currentSpinner = nil
	}
	return nil
}

// Stop halts whatever spinner is currently active, without marking its
// step complete or failed -- used to clean up on early exit.
func (pm *ProgressManager) Stop() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.stopCurrentLocked()
}

func (pm *ProgressManager) stopCurrentLocked() {
	if pm.currentSpinner != nil {
		_ = pm.currentSpinner.Stop()
		pm.currentSpinner = nil
	}
}

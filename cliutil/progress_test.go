package cliutil

import (
	"errors"
	"sync"
	"testing"

	"go.viam.com/test"
)

type fakeSpinner struct {
	mu        sync.Mutex
	text      string
	stopped   bool
	successes []string
	failures  []string
}

func (f *fakeSpinner) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	return nil
}

func (f *fakeSpinner) Success(message ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(message) > 0 {
		f.successes = append(f.successes, message[0].(string))
	}
}

func (f *fakeSpinner) Fail(message ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(message) > 0 {
		f.failures = append(f.failures, message[0].(string))
	}
}

func (f *fakeSpinner) UpdateText(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = text
}

func newTestProgressManager(steps []*Step, opts ...ProgressManagerOption) *ProgressManager {
	opts = append(opts, withProgressSpinnerFactory(func(text string) (progressSpinner, error) {
		return &fakeSpinner{text: text}, nil
	}))
	return NewProgressManager(steps, opts...)
}

func TestStartTransitionsStepToRunning(t *testing.T) {
	steps := []*Step{{ID: "a", Message: "Converting a.xosc"}}
	pm := newTestProgressManager(steps)
	defer pm.Stop()

	test.That(t, pm.Start("a"), test.ShouldBeNil)
	test.That(t, pm.stepMap["a"].Status, test.ShouldEqual, StepRunning)
	test.That(t, pm.currentSpinner, test.ShouldNotBeNil)
}

func TestStartUnknownStepErrors(t *testing.T) {
	pm := newTestProgressManager([]*Step{{ID: "a"}})
	err := pm.Start("missing")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldEqual, `step "missing" not found`)
}

func TestCompleteResolvesSpinnerAndStatus(t *testing.T) {
	steps := []*Step{{ID: "a", Message: "a"}}
	pm := newTestProgressManager(steps)
	defer pm.Stop()

	test.That(t, pm.Start("a"), test.ShouldBeNil)
	test.That(t, pm.Complete("a"), test.ShouldBeNil)
	test.That(t, pm.stepMap["a"].Status, test.ShouldEqual, StepCompleted)
	test.That(t, pm.currentSpinner, test.ShouldBeNil)
}

func TestFailResolvesSpinnerAndStatus(t *testing.T) {
	steps := []*Step{{ID: "a", Message: "a"}}
	pm := newTestProgressManager(steps)
	defer pm.Stop()

	test.That(t, pm.Start("a"), test.ShouldBeNil)
	test.That(t, pm.Fail("a", errors.New("boom")), test.ShouldBeNil)
	test.That(t, pm.stepMap["a"].Status, test.ShouldEqual, StepFailed)
}

func TestStartReplacesPreviousSpinner(t *testing.T) {
	steps := []*Step{{ID: "a", Message: "a"}, {ID: "b", Message: "b"}}
	pm := newTestProgressManager(steps)
	defer pm.Stop()

	test.That(t, pm.Start("a"), test.ShouldBeNil)
	first := pm.currentSpinner
	test.That(t, pm.Start("b"), test.ShouldBeNil)
	test.That(t, pm.currentSpinner, test.ShouldNotEqual, first)
	test.That(t, first.(*fakeSpinner).stopped, test.ShouldBeTrue)
}

func TestProgressOutputDisabledSkipsSpinners(t *testing.T) {
	steps := []*Step{{ID: "a", Message: "a"}}
	pm := newTestProgressManager(steps, WithProgressOutput(false))
	defer pm.Stop()

	test.That(t, pm.Start("a"), test.ShouldBeNil)
	test.That(t, pm.currentSpinner, test.ShouldBeNil)
	test.That(t, pm.Complete("a"), test.ShouldBeNil)
	test.That(t, pm.stepMap["a"].Status, test.ShouldEqual, StepCompleted)
}

func TestGetPrefixIndentsByLevel(t *testing.T) {
	test.That(t, getPrefix(&Step{IndentLevel: 0}), test.ShouldEqual, "")
	test.That(t, getPrefix(&Step{IndentLevel: 1}), test.ShouldEqual, "  → ")
	test.That(t, getPrefix(&Step{IndentLevel: 2}), test.ShouldEqual, "    → ")
}

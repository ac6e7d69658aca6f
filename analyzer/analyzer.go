// Package analyzer implements the pluggable post-conversion analysis step
// from §4.10 step 11 and §9's analyzer-timeout design note: each configured
// analyzer runs against a trimmed working copy that always contains the
// ego, and never fails the overall conversion -- a broken analyzer degrades
// to an AnalyzerError for that one analyzer.
package analyzer

import (
	"fmt"
	"sync"

	"github.com/osc2cr/converter/commonroad"
)

// Result is either a typed analyzer outcome or an AnalyzerError, per §7:
// "Analyzer errors never fail the conversion; each analyzer contributes
// either its typed result or an AnalyzerError."
type Result struct {
	Name  string
	Value any
	Err   *Error
}

// Error is a non-fatal per-analyzer failure, per §4.10/§7's AnalyzerError.
type Error struct {
	Analyzer string
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("analyzer %q: %s", e.Analyzer, e.Message)
}

// Analyzer is implemented by every pluggable scenario analysis.
type Analyzer interface {
	Name() string
	Analyze(scenario *commonroad.Scenario, problem commonroad.PlanningProblem) (any, error)
}

// registry holds every Analyzer registered via RegisterAnalyzer, following
// the teacher's registry pattern (register by name at init time, panic on a
// duplicate registration since that can only be a build-time mistake).
var (
	registryMu sync.Mutex
	registry   = map[string]Analyzer{}
)

// RegisterAnalyzer adds a, panicking if its name is already registered.
func RegisterAnalyzer(a Analyzer) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[a.Name()]; exists {
		panic("analyzer: duplicate registration for " + a.Name())
	}
	registry[a.Name()] = a
}

// Lookup returns the analyzer registered under name, if any.
func Lookup(name string) (Analyzer, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	a, ok := registry[name]
	return a, ok
}

// RunAll runs every analyzer in names against scenario/problem, converting
// a panic or error from any one of them into an Error for that analyzer
// alone so the rest still complete (§7: "one task's failure never affects
// others" applies at the analyzer level too).
func RunAll(names []string, scenario *commonroad.Scenario, problem commonroad.PlanningProblem) []Result {
	results := make([]Result, 0, len(names))
	for _, name := range names {
		results = append(results, runOne(name, scenario, problem))
	}
	return results
}

func runOne(name string, scenario *commonroad.Scenario, problem commonroad.PlanningProblem) (result Result) {
	result.Name = name
	a, ok := Lookup(name)
	if !ok {
		result.Err = &Error{Analyzer: name, Message: "not registered"}
		return result
	}
	defer func() {
		if r := recover(); r != nil {
			result.Err = &Error{Analyzer: name, Message: fmt.Sprintf("panic: %v", r)}
			result.Value = nil
		}
	}()
	value, err := a.Analyze(scenario, problem)
	if err != nil {
		result.Err = &Error{Analyzer: name, Message: err.Error()}
		return result
	}
	result.Value = value
	return result
}

package esmini

import (
	"sync"

	"github.com/osc2cr/converter/simstate"
)

// elementKey identifies one (name, level) storyboard element pair.
type elementKey struct {
	name  string
	level simstate.Level
}

// StoryboardMonitor implements C2 (§4.2): it tracks one state per (name,
// level) pair, last-writer-wins, and answers whether every tracked element
// above ignoredLevel has reached COMPLETE.
type StoryboardMonitor struct {
	mu     sync.Mutex
	states map[elementKey]simstate.ElementState
}

// NewStoryboardMonitor constructs an empty monitor.
func NewStoryboardMonitor() *StoryboardMonitor {
	return &StoryboardMonitor{states: map[elementKey]simstate.ElementState{}}
}

// Observe records a callback delivery from the simulator: last-writer-wins
// per (name, level).
func (m *StoryboardMonitor) Observe(name string, level simstate.Level, state simstate.ElementState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := elementKey{name: name, level: level}
	m.states[key] = state
}

// IsComplete implements §4.2's completeness check: every element whose
// level is above ignoredLevel (i.e. strictly finer-grained) must have been
// observed and must currently be COMPLETE. Elements at or below
// ignoredLevel are excluded entirely, per the spec's STORY/ACT-ignoring
// example. A storyboard that has not yet reported any element above
// ignoredLevel is not considered complete -- completeness requires having
// seen something finish, not merely the absence of in-flight elements.
func (m *StoryboardMonitor) IsComplete(ignoredLevel simstate.Level) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	tracked := 0
	for key, state := range m.states {
		if key.level <= ignoredLevel {
			continue
		}
		tracked++
		if state != simstate.ElementComplete {
			return false
		}
	}
	return tracked > 0
}

// Reset clears all tracked state, used between simulation runs sharing a
// process (the bridge itself still serializes runs with a mutex; this just
// keeps StoryboardMonitor instances reusable in tests).
func (m *StoryboardMonitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states = map[elementKey]simstate.ElementState{}
}

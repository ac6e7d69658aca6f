package logging

import (
	"testing"

	"go.uber.org/zap/zaptest"
)

// NewTestLogger returns a Logger that writes through t.Log, so failures
// show up attributed to the failing test instead of interleaved stdout.
func NewTestLogger(t *testing.T) Logger {
	t.Helper()
	al := NewAtomicLevelAt(DEBUG)
	zl := zaptest.NewLogger(t, zaptest.Level(al.az))
	return &impl{name: t.Name(), level: al, zl: zl.Sugar()}
}

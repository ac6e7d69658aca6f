package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger is the facade every package in this module takes instead of a bare
// *zap.Logger, so tests can swap in a buffering implementation and so
// sub-loggers can carry a stable dotted name (e.g. "convert.obstacle").
type Logger interface {
	Named() string
	Sublogger(name string) Logger

	GetLevel() Level
	SetLevel(level Level)

	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})

	// With returns a Logger that includes the given key/value pairs on
	// every subsequent message, e.g. logger.With("xosc", path).
	With(keysAndValues ...interface{}) Logger
}

type impl struct {
	name  string
	level *AtomicLevel
	zl    *zap.SugaredLogger
}

// NewLogger constructs a root logger writing to stderr at INFO level,
// mirroring the teacher's default console appender behavior.
func NewLogger(name string) Logger {
	al := NewAtomicLevelAt(INFO)
	cfg := zap.NewProductionConfig()
	cfg.Level = al.az
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = "ts"
	zl, err := cfg.Build()
	if err != nil {
		// zap's production config is self-consistent; this cannot happen
		// outside of a broken build, so fall back rather than panic.
		zl = zap.NewNop()
	}
	return &impl{name: name, level: al, zl: zl.Named(name).Sugar()}
}

// Named returns the dotted logger name, e.g. "convert.obstacle".
func (i *impl) Named() string { return i.name }

// Sublogger returns a new Logger whose name is "parent.child" and which
// starts at INFO regardless of the parent's current level (levels are not
// inherited, per the teacher's pattern-config semantics: a sublogger is only
// ever adjusted by its own explicit configuration).
func (i *impl) Sublogger(name string) Logger {
	childName := name
	if i.name != "" {
		childName = i.name + "." + name
	}
	child := NewLogger(childName)
	return child
}

func (i *impl) GetLevel() Level { return i.level.Get() }

func (i *impl) SetLevel(level Level) {
	i.level.Set(level)
}

func (i *impl) Debug(args ...interface{})                 { i.zl.Debug(args...) }
func (i *impl) Debugf(t string, args ...interface{})       { i.zl.Debugf(t, args...) }
func (i *impl) Info(args ...interface{})                  { i.zl.Info(args...) }
func (i *impl) Infof(t string, args ...interface{})        { i.zl.Infof(t, args...) }
func (i *impl) Warn(args ...interface{})                  { i.zl.Warn(args...) }
func (i *impl) Warnf(t string, args ...interface{})        { i.zl.Warnf(t, args...) }
func (i *impl) Error(args ...interface{})                 { i.zl.Error(args...) }
func (i *impl) Errorf(t string, args ...interface{})       { i.zl.Errorf(t, args...) }

func (i *impl) With(keysAndValues ...interface{}) Logger {
	return &impl{name: i.name, level: i.level, zl: i.zl.With(keysAndValues...)}
}

// AtomicLevel is a level that may be safely read and written concurrently;
// it is the level the logger's zap core filters on, so SetLevel on a live
// logger changes which messages it emits.
type AtomicLevel struct {
	az zap.AtomicLevel
}

// NewAtomicLevelAt constructs an AtomicLevel pinned to the given Level.
func NewAtomicLevelAt(l Level) *AtomicLevel {
	return &AtomicLevel{az: zap.NewAtomicLevelAt(l.zapLevel())}
}

// Get returns the current level.
func (a *AtomicLevel) Get() Level {
	switch a.az.Level() {
	case -1:
		return DEBUG
	case 1:
		return WARN
	case 2:
		return ERROR
	default:
		return INFO
	}
}

// Set updates the current level.
func (a *AtomicLevel) Set(l Level) { a.az.SetLevel(l.zapLevel()) }

var _ fmt.Stringer = Level(0)

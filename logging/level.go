// Package logging provides a small structured-logging facade on top of
// zap, matching the conventions the rest of this module's packages use for
// reporting stage progress and captured sub-errors.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Level is a logging severity. It round-trips through JSON as its string
// form so configuration files can name a level directly.
type Level int8

const (
	// DEBUG is verbose, stage-by-stage tracing (e.g. per-tick simulator state).
	DEBUG Level = iota
	// INFO is normal operational output.
	INFO
	// WARN marks a non-fatal sub-error (XodrConversionError, CatalogResolutionError, ...).
	WARN
	// ERROR marks a fatal conversion failure for the current task.
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "Debug"
	case INFO:
		return "Info"
	case WARN:
		return "Warn"
	case ERROR:
		return "Error"
	default:
		return fmt.Sprintf("Level(%d)", int8(l))
	}
}

// zapcore maps 1:1 onto our levels; no FATAL/PANIC here since a conversion
// task never terminates the process on error, it returns a tagged result.
func (l Level) zapLevel() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// LevelFromString parses the level names accepted in config files and CLI
// flags. "warning" is accepted as an alias for WARN.
func LevelFromString(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG, nil
	case "info":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("unknown log level %q", s)
	}
}

// MarshalJSON implements json.Marshaler.
func (l Level) MarshalJSON() ([]byte, error) {
	return []byte(`"` + l.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Level) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid level literal %q", s)
	}
	parsed, err := LevelFromString(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

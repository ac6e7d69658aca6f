// Package config implements §9's configuration design note: "an explicit
// record composed of sub-records (ConverterParams, EsminiParams,
// GoalParams, BatchParams) with documented defaults; no module-level
// globals."
package config

import (
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/osc2cr/converter/esmini"
	"github.com/osc2cr/converter/planning"
	"github.com/osc2cr/converter/simstate"
)

// ConverterParams configures one conversion, independent of how its input
// was discovered (single file vs. batch).
type ConverterParams struct {
	DtCr           float64 `mapstructure:"dt_cr"`
	XodrOverride   string  `mapstructure:"xodr_override"`
	EgoFilter      string  `mapstructure:"ego_filter"`
	KeepEgoVehicle bool    `mapstructure:"keep_ego_vehicle"`
	TrimEnabled    bool    `mapstructure:"trim_enabled"`
	AnalyzerNames  []string `mapstructure:"analyzers"`
	Author         string  `mapstructure:"author"`
	Affiliation    string  `mapstructure:"affiliation"`
	Source         string  `mapstructure:"source"`
	Tags           []string `mapstructure:"tags"`
}

// DefaultConverterParams matches the values implied by §4.4, §4.9, §4.10:
// dt_cr of 0.1s, no ego filter (lexicographic fallback), ego kept in the
// scenario, trimming on, no analyzers.
func DefaultConverterParams() ConverterParams {
	return ConverterParams{
		DtCr:           0.1,
		KeepEgoVehicle: true,
		TrimEnabled:    true,
	}
}

// EsminiParams configures the SimulatorBridge (§4.2).
type EsminiParams struct {
	DtSim        float64       `mapstructure:"dt_sim"`
	MaxTime      float64       `mapstructure:"max_time"`
	GraceTime    *float64      `mapstructure:"grace_time"`
	IgnoredLevel simstate.Level `mapstructure:"ignored_level"`
	Seed         uint32        `mapstructure:"seed"`
	Viewer       esmini.ViewerMode `mapstructure:"viewer"`
	LogToConsole bool          `mapstructure:"log_to_console"`
	LogFilePath  string        `mapstructure:"log_file_path"`
}

// DefaultEsminiParams: 20ms simulation step, 120s hard cap, no grace
// period (end immediately on detection), completeness evaluated at
// MANEUVER_GROUP and finer (ignoring STORY/ACT, per §4.2's own example),
// headless viewer.
func DefaultEsminiParams() EsminiParams {
	return EsminiParams{
		DtSim:        0.02,
		MaxTime:      120,
		IgnoredLevel: simstate.LevelAct,
		Viewer:       esmini.ViewerHeadless,
	}
}

// GoalParams is the serializable form of planning.GoalParams: every AbsRel
// value as (value, policy-name) so it can be decoded from a config file.
type GoalParams struct {
	TimeIntervalStart AbsRelParam `mapstructure:"time_interval_start"`
	TimeIntervalEnd   AbsRelParam `mapstructure:"time_interval_end"`
	PosLength         AbsRelParam `mapstructure:"pos_length"`
	PosWidth          AbsRelParam `mapstructure:"pos_width"`
	PosCenterX        AbsRelParam `mapstructure:"pos_center_x"`
	PosCenterY        AbsRelParam `mapstructure:"pos_center_y"`
	PosRotation       AbsRelParam `mapstructure:"pos_rotation"`

	VelocityIntervalStart *AbsRelParam `mapstructure:"velocity_interval_start"`
	VelocityIntervalEnd   *AbsRelParam `mapstructure:"velocity_interval_end"`
	OrientationIntervalStart *AbsRelParam `mapstructure:"orientation_interval_start"`
	OrientationIntervalEnd   *AbsRelParam `mapstructure:"orientation_interval_end"`
}

// AbsRelParam is the config-file-friendly form of planning.AbsRel.
type AbsRelParam struct {
	Value      float64 `mapstructure:"value"`
	PolicyName string  `mapstructure:"policy"`
}

func (p AbsRelParam) toAbsRel() planning.AbsRel {
	policy := planning.Abs
	switch p.PolicyName {
	case "rel_add":
		policy = planning.RelAdd
	case "rel_sub":
		policy = planning.RelSub
	case "rel_mul":
		policy = planning.RelMul
	case "rel_div":
		policy = planning.RelDiv
	}
	return planning.AbsRel{Value: p.Value, Policy: policy}
}

// ToPlanningGoalParams converts the decoded config into planning.GoalParams.
func (g GoalParams) ToPlanningGoalParams() planning.GoalParams {
	out := planning.GoalParams{
		TimeInterval: planning.IntervalParams{Start: g.TimeIntervalStart.toAbsRel(), End: g.TimeIntervalEnd.toAbsRel()},
		PosLength:    g.PosLength.toAbsRel(),
		PosWidth:     g.PosWidth.toAbsRel(),
		PosCenterX:   g.PosCenterX.toAbsRel(),
		PosCenterY:   g.PosCenterY.toAbsRel(),
		PosRotation:  g.PosRotation.toAbsRel(),
	}
	if g.VelocityIntervalStart != nil && g.VelocityIntervalEnd != nil {
		v := planning.IntervalParams{Start: g.VelocityIntervalStart.toAbsRel(), End: g.VelocityIntervalEnd.toAbsRel()}
		out.VelocityInterval = &v
	}
	if g.OrientationIntervalStart != nil && g.OrientationIntervalEnd != nil {
		v := planning.IntervalParams{Start: g.OrientationIntervalStart.toAbsRel(), End: g.OrientationIntervalEnd.toAbsRel()}
		out.OrientationInterval = &v
	}
	return out
}

// DefaultGoalParams: time_step and position goal are exactly the ego's
// final-state values (RelAdd 0 / RelMul 1), unconstrained velocity and
// orientation.
func DefaultGoalParams() GoalParams {
	identityAdd := AbsRelParam{Value: 0, PolicyName: "rel_add"}
	identityMul := AbsRelParam{Value: 1, PolicyName: "rel_mul"}
	return GoalParams{
		TimeIntervalStart: identityAdd,
		TimeIntervalEnd:   identityAdd,
		PosLength:         identityMul,
		PosWidth:          identityMul,
		PosCenterX:        identityAdd,
		PosCenterY:        identityAdd,
		PosRotation:       identityAdd,
	}
}

// BatchParams configures BatchDriver (C12, §4.11).
type BatchParams struct {
	RootDir       string        `mapstructure:"root_dir"`
	Pattern       string        `mapstructure:"pattern"`
	Recursive     bool          `mapstructure:"recursive"`
	StorageDir    string        `mapstructure:"storage_dir"`
	WorkerCount   int           `mapstructure:"worker_count"`
	TaskTimeout   time.Duration `mapstructure:"task_timeout"`
	LazyLoad      bool          `mapstructure:"lazy_load"`
}

// DefaultBatchParams: non-recursive, 0 workers meaning "use CPU count",
// a 5 minute per-task timeout, lazy loading on (handles, not inline
// scenarios, per §9's ownership note).
func DefaultBatchParams() BatchParams {
	return BatchParams{
		Pattern:     `.*\.xosc$`,
		WorkerCount: 0,
		TaskTimeout: 5 * time.Minute,
		LazyLoad:    true,
	}
}

// Config is the top-level record, composed of the four sub-records per
// §9 -- no module-level globals anywhere in this module.
type Config struct {
	Converter ConverterParams
	Esmini    EsminiParams
	Goal      GoalParams
	Batch     BatchParams
}

// Default returns a Config with every sub-record at its documented
// default.
func Default() Config {
	return Config{
		Converter: DefaultConverterParams(),
		Esmini:    DefaultEsminiParams(),
		Goal:      DefaultGoalParams(),
		Batch:     DefaultBatchParams(),
	}
}

// Decode overlays raw (typically parsed from YAML/JSON/TOML by the caller)
// onto a copy of Default(), using mapstructure the way the teacher's own
// config layer decodes loosely-typed maps into typed records.
func Decode(raw map[string]any) (Config, error) {
	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

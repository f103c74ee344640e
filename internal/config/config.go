// Package config loads and validates the terminal configuration.
//
// The config file is CUE; it is unified with the embedded schema so every
// field is type- and range-checked with a position-carrying error before
// the engine sees a single value. Defaults live in the schema, not in Go.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/token"

	"github.com/shiftwise/punchcard/internal/engine"
)

//go:embed schema.cue
var schemaCUE string

// Config is the decoded, schema-validated terminal configuration.
type Config struct {
	Device struct {
		UserID   string `json:"user_id"`
		SectorID string `json:"sector_id"`
		Timezone string `json:"timezone"`
	} `json:"device"`

	ContinuousShift bool `json:"continuous_shift"`

	Rules struct {
		EntryOpenHour       int    `json:"entry_open_hour"`
		ExitCloseHour       int    `json:"exit_close_hour"`
		BreakStartCloseHour int    `json:"break_start_close_hour"`
		MinBreakMinutes     int    `json:"min_break_minutes"`
		MaxBreakMinutes     int    `json:"max_break_minutes"`
		MinGapMinutes       int    `json:"min_gap_minutes"`
		MinShiftMinutes     int    `json:"min_shift_minutes"`
		MaxShiftMinutes     int    `json:"max_shift_minutes"`
		ShortShiftPolicy    string `json:"short_shift_policy"`
	} `json:"rules"`

	Endpoints struct {
		PunchURL        string `json:"punch_url"`
		GeofenceURL     string `json:"geofence_url"`
		BiometricURL    string `json:"biometric_url"`
		IrregularityURL string `json:"irregularity_url"`
		AlertURL        string `json:"alert_url"`
	} `json:"endpoints"`

	DBPath string `json:"db_path"`
}

// LoadError is a structured configuration error with a CUE position when
// one is available.
type LoadError struct {
	Path    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Load reads, schema-checks, and decodes the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("read config: %v", err)}
	}
	return Parse(path, data)
}

// Parse schema-checks and decodes raw CUE config bytes.
func Parse(path string, data []byte) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("internal schema error: %v", err)}
	}

	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("parse config: %v", err), Pos: value.Pos()}
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("validate config: %v", err)}
	}

	cfg := &Config{}
	if err := unified.Decode(cfg); err != nil {
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("decode config: %v", err)}
	}

	// Cross-field checks the schema cannot express.
	if _, err := time.LoadLocation(cfg.Device.Timezone); err != nil {
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("unknown timezone %q", cfg.Device.Timezone)}
	}
	if err := cfg.EngineRules().Validate(); err != nil {
		return nil, &LoadError{Path: path, Message: err.Error()}
	}

	return cfg, nil
}

// EngineRules converts the decoded rule section into the engine's type.
func (c *Config) EngineRules() engine.Rules {
	return engine.Rules{
		EntryOpenHour:       c.Rules.EntryOpenHour,
		ExitCloseHour:       c.Rules.ExitCloseHour,
		BreakStartCloseHour: c.Rules.BreakStartCloseHour,
		MinBreakMinutes:     c.Rules.MinBreakMinutes,
		MaxBreakMinutes:     c.Rules.MaxBreakMinutes,
		MinGapMinutes:       c.Rules.MinGapMinutes,
		MinShiftMinutes:     c.Rules.MinShiftMinutes,
		MaxShiftMinutes:     c.Rules.MaxShiftMinutes,
		ShortShiftPolicy:    engine.ShortShiftPolicy(c.Rules.ShortShiftPolicy),
	}
}

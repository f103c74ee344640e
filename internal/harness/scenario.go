package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shiftwise/punchcard/internal/punch"
)

// Geofence behavior for a scenario. The default (empty) runs without a
// geofence gate at all.
const (
	GeofenceOff   = "off"
	GeofenceAllow = "allow"
	GeofenceDeny  = "deny"
	GeofenceDown  = "down"
)

// Scenario is a conformance scenario: a day at the terminal described as a
// sequence of timed steps, replayed against a real store and queue.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario exercises.
	Description string `yaml:"description"`

	// ContinuousShift selects the no-break toggle cycle.
	ContinuousShift bool `yaml:"continuous_shift,omitempty"`

	// ShortShiftPolicy overrides the default "block" policy.
	ShortShiftPolicy string `yaml:"short_shift_policy,omitempty"`

	// Online is the terminal's initial connectivity.
	Online bool `yaml:"online"`

	// Geofence selects the geofence stub: off, allow, deny, or down.
	Geofence string `yaml:"geofence,omitempty"`

	// Steps run in order against a single terminal day.
	Steps []Step `yaml:"steps"`
}

// Step is one timed action. Exactly one of Punch, Flush, Online, or Server
// must be set.
type Step struct {
	// At moves the wall clock to "HH:MM:SS" before the action runs.
	// Required for punches; optional elsewhere.
	At string `yaml:"at,omitempty"`

	// Punch commits a punch attempt.
	Punch *PunchStep `yaml:"punch,omitempty"`

	// Flush runs one queue flush pass.
	Flush bool `yaml:"flush,omitempty"`

	// Online toggles terminal connectivity.
	Online *bool `yaml:"online,omitempty"`

	// Server toggles the submission endpoint's availability.
	Server *bool `yaml:"server,omitempty"`
}

// PunchStep describes a punch attempt.
type PunchStep struct {
	// Type forces the punch type by wire name ("clock_in" etc.). Empty
	// lets the sequencer supply the next expected type.
	Type string `yaml:"type,omitempty"`

	// Lat and Lon attach a location. Both must be set together.
	Lat *float64 `yaml:"lat,omitempty"`
	Lon *float64 `yaml:"lon,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so a typo fails loudly instead of silently skipping a step.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if err := validateScenario(&sc); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &sc, nil
}

func validateScenario(sc *Scenario) error {
	if sc.Name == "" {
		return fmt.Errorf("name is required")
	}
	if sc.Description == "" {
		return fmt.Errorf("description is required")
	}
	switch sc.Geofence {
	case "", GeofenceOff, GeofenceAllow, GeofenceDeny, GeofenceDown:
	default:
		return fmt.Errorf("geofence must be one of off, allow, deny, down; got %q", sc.Geofence)
	}
	switch sc.ShortShiftPolicy {
	case "", "block", "warn":
	default:
		return fmt.Errorf("short_shift_policy must be block or warn; got %q", sc.ShortShiftPolicy)
	}
	if len(sc.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range sc.Steps {
		actions := 0
		if step.Punch != nil {
			actions++
		}
		if step.Flush {
			actions++
		}
		if step.Online != nil {
			actions++
		}
		if step.Server != nil {
			actions++
		}
		if actions != 1 {
			return fmt.Errorf("steps[%d]: exactly one of punch, flush, online, server is required", i)
		}
		if step.At != "" {
			if _, err := punch.ParseTimeOfDay(step.At); err != nil {
				return fmt.Errorf("steps[%d]: %w", i, err)
			}
		}
		if step.Punch != nil {
			if step.At == "" {
				return fmt.Errorf("steps[%d]: punches require an at time", i)
			}
			if step.Punch.Type != "" {
				if _, err := punch.ParseType(step.Punch.Type); err != nil {
					return fmt.Errorf("steps[%d]: %w", i, err)
				}
			}
			if (step.Punch.Lat == nil) != (step.Punch.Lon == nil) {
				return fmt.Errorf("steps[%d]: lat and lon must be set together", i)
			}
		}
	}
	return nil
}

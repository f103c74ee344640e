package engine

import "fmt"

// ShortShiftPolicy decides what happens when a clock-out would end the
// shift under the configured minimum.
type ShortShiftPolicy string

const (
	// ShortShiftBlock rejects the clock-out (the original behavior).
	ShortShiftBlock ShortShiftPolicy = "block"
	// ShortShiftWarn accepts the clock-out and attaches a warning.
	ShortShiftWarn ShortShiftPolicy = "warn"
)

// Rules holds the time and sequence constraints the validator enforces.
// All hours and minutes are civil wall-clock values in the terminal zone.
type Rules struct {
	// EntryOpenHour: ClockIn is rejected before this hour.
	EntryOpenHour int
	// ExitCloseHour: ClockOut is rejected after this hour.
	ExitCloseHour int
	// BreakStartCloseHour: BreakStart is rejected at or after this hour.
	BreakStartCloseHour int
	// MinBreakMinutes and MaxBreakMinutes bound the break duration,
	// inclusive on both ends.
	MinBreakMinutes int
	MaxBreakMinutes int
	// MinGapMinutes is the minimum spacing between consecutive punches.
	MinGapMinutes int
	// MinShiftMinutes and MaxShiftMinutes bound the worked time between
	// the day's first ClockIn and a ClockOut, inclusive.
	MinShiftMinutes int
	MaxShiftMinutes int
	// ShortShiftPolicy governs sub-minimum shifts (block or warn).
	ShortShiftPolicy ShortShiftPolicy
}

// DefaultRules returns the standard terminal rule set:
// entry opens 06:00, exit closes 22:00, breaks start before 14:00 and last
// 30-120 minutes, punches are at least 5 minutes apart, and shifts run
// 8 to 10 hours.
func DefaultRules() Rules {
	return Rules{
		EntryOpenHour:       6,
		ExitCloseHour:       22,
		BreakStartCloseHour: 14,
		MinBreakMinutes:     30,
		MaxBreakMinutes:     120,
		MinGapMinutes:       5,
		MinShiftMinutes:     480,
		MaxShiftMinutes:     600,
		ShortShiftPolicy:    ShortShiftBlock,
	}
}

// Validate checks the rule values themselves (not a punch).
func (r Rules) Validate() error {
	if r.EntryOpenHour < 0 || r.EntryOpenHour > 23 {
		return fmt.Errorf("entry_open_hour %d out of range", r.EntryOpenHour)
	}
	if r.ExitCloseHour < 0 || r.ExitCloseHour > 23 {
		return fmt.Errorf("exit_close_hour %d out of range", r.ExitCloseHour)
	}
	if r.BreakStartCloseHour < 0 || r.BreakStartCloseHour > 23 {
		return fmt.Errorf("break_start_close_hour %d out of range", r.BreakStartCloseHour)
	}
	if r.MinBreakMinutes <= 0 || r.MaxBreakMinutes < r.MinBreakMinutes {
		return fmt.Errorf("break bounds [%d,%d] invalid", r.MinBreakMinutes, r.MaxBreakMinutes)
	}
	if r.MinGapMinutes < 0 {
		return fmt.Errorf("min_gap_minutes %d invalid", r.MinGapMinutes)
	}
	if r.MinShiftMinutes <= 0 || r.MaxShiftMinutes < r.MinShiftMinutes {
		return fmt.Errorf("shift bounds [%d,%d] invalid", r.MinShiftMinutes, r.MaxShiftMinutes)
	}
	switch r.ShortShiftPolicy {
	case ShortShiftBlock, ShortShiftWarn:
	default:
		return fmt.Errorf("short_shift_policy %q must be %q or %q", r.ShortShiftPolicy, ShortShiftBlock, ShortShiftWarn)
	}
	return nil
}

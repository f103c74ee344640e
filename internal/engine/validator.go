package engine

import (
	"fmt"

	"github.com/shiftwise/punchcard/internal/punch"
)

// Candidate is a punch awaiting validation: a type and the civil wall-clock
// instant it would be committed at.
type Candidate struct {
	Type punch.Type
	At   punch.TimeOfDay
}

// checkResult is the outcome of one rule: nil reject means pass.
// A pass may still carry a warning (short shift under the warn policy).
type checkResult struct {
	reject  *punch.Outcome
	warning string
}

var pass = checkResult{}

// check is a single named rule over a candidate and the current ledger.
type check struct {
	name string
	fn   func(v *Validator, c Candidate, l *punch.Ledger) checkResult
}

// Validator evaluates a candidate punch against the rule table.
//
// INVARIANT: the rule table order below NEVER changes. Rules short-circuit
// on the first violation, so the order is what makes a rejection reason
// deterministic and reproducible for a given (candidate, ledger) pair.
type Validator struct {
	rules  Rules
	checks []check
}

// NewValidator creates a Validator with the given rule constraints.
func NewValidator(rules Rules) *Validator {
	return &Validator{
		rules: rules,
		checks: []check{
			{"sequencing", (*Validator).checkSequencing},
			{"entry_window", (*Validator).checkEntryWindow},
			{"exit_window", (*Validator).checkExitWindow},
			{"break_start_window", (*Validator).checkBreakStartWindow},
			{"break_duration", (*Validator).checkBreakDuration},
			{"min_gap", (*Validator).checkMinGap},
			{"shift_length", (*Validator).checkShiftLength},
		},
	}
}

// Rules returns the constraint set the validator was built with.
func (v *Validator) Rules() Rules { return v.rules }

// Validate runs the rule table in declaration order and returns the first
// violation, or an accepted outcome (possibly with a warning) when every
// rule passes. Validate never mutates the ledger.
func (v *Validator) Validate(c Candidate, l *punch.Ledger) punch.Outcome {
	var warning string
	for _, chk := range v.checks {
		res := chk.fn(v, c, l)
		if res.reject != nil {
			return *res.reject
		}
		if res.warning != "" {
			warning = res.warning
		}
	}
	out := punch.Accept(fmt.Sprintf("%s registered at %s", c.Type.Label(), c.At))
	out.Warning = warning
	return out
}

func (v *Validator) checkSequencing(c Candidate, l *punch.Ledger) checkResult {
	next := NextType(l)
	if c.Type != next {
		return rejectf(punch.ReasonSequenceViolation,
			"next expected punch is %s, not %s", next.Label(), c.Type.Label())
	}
	return pass
}

func (v *Validator) checkEntryWindow(c Candidate, l *punch.Ledger) checkResult {
	if c.Type == punch.ClockIn && c.At.Hour() < v.rules.EntryOpenHour {
		return rejectf(punch.ReasonEntryWindow,
			"clock-in opens at %02d:00", v.rules.EntryOpenHour)
	}
	return pass
}

func (v *Validator) checkExitWindow(c Candidate, l *punch.Ledger) checkResult {
	if c.Type == punch.ClockOut && c.At.Hour() > v.rules.ExitCloseHour {
		return rejectf(punch.ReasonExitWindow,
			"clock-out closes after %02d:59", v.rules.ExitCloseHour)
	}
	return pass
}

func (v *Validator) checkBreakStartWindow(c Candidate, l *punch.Ledger) checkResult {
	if c.Type == punch.BreakStart && c.At.Hour() >= v.rules.BreakStartCloseHour {
		return rejectf(punch.ReasonBreakStartWindow,
			"breaks must start before %02d:00", v.rules.BreakStartCloseHour)
	}
	return pass
}

func (v *Validator) checkBreakDuration(c Candidate, l *punch.Ledger) checkResult {
	if c.Type != punch.BreakEnd {
		return pass
	}
	start, ok := l.LastOfType(punch.BreakStart)
	if !ok {
		// Sequencing already guarantees a BreakStart exists before a
		// BreakEnd candidate; this is unreachable on a well-formed ledger.
		return rejectf(punch.ReasonSequenceViolation, "no break in progress")
	}
	elapsed := c.At.MinutesSince(start.Timestamp)
	if elapsed < v.rules.MinBreakMinutes {
		return rejectf(punch.ReasonBreakTooShort,
			"break must last at least %d minutes (%d elapsed)", v.rules.MinBreakMinutes, elapsed)
	}
	if elapsed > v.rules.MaxBreakMinutes {
		return rejectf(punch.ReasonBreakTooLong,
			"break may last at most %d minutes (%d elapsed)", v.rules.MaxBreakMinutes, elapsed)
	}
	return pass
}

func (v *Validator) checkMinGap(c Candidate, l *punch.Ledger) checkResult {
	last, ok := l.Last()
	if !ok {
		return pass
	}
	if gap := c.At.MinutesSince(last.Timestamp); gap < v.rules.MinGapMinutes {
		return rejectf(punch.ReasonMinInterval,
			"wait at least %d minutes between punches", v.rules.MinGapMinutes)
	}
	return pass
}

// checkShiftLength only fires for a ClockOut with at least two prior
// punches: a bare ClockIn/ClockOut pair in continuous mode is a correction
// flow, not a shift to be measured.
func (v *Validator) checkShiftLength(c Candidate, l *punch.Ledger) checkResult {
	if c.Type != punch.ClockOut || l.Len() < 2 {
		return pass
	}
	first, ok := l.FirstOfType(punch.ClockIn)
	if !ok {
		return pass
	}
	total := c.At.MinutesSince(first.Timestamp)
	if !l.ContinuousShift {
		bs, okS := l.LastOfType(punch.BreakStart)
		be, okE := l.LastOfType(punch.BreakEnd)
		if okS && okE {
			total -= be.Timestamp.MinutesSince(bs.Timestamp)
		}
	}
	if total > v.rules.MaxShiftMinutes {
		return rejectf(punch.ReasonShiftTooLong,
			"shift of %d minutes exceeds the %d-minute maximum", total, v.rules.MaxShiftMinutes)
	}
	if total < v.rules.MinShiftMinutes {
		if v.rules.ShortShiftPolicy == ShortShiftWarn {
			return checkResult{warning: fmt.Sprintf(
				"shift of %d minutes is under the %d-minute minimum", total, v.rules.MinShiftMinutes)}
		}
		return rejectf(punch.ReasonShiftTooShort,
			"shift of %d minutes is under the %d-minute minimum", total, v.rules.MinShiftMinutes)
	}
	return pass
}

func rejectf(reason punch.ReasonCode, format string, args ...any) checkResult {
	out := punch.Reject(reason, fmt.Sprintf(format, args...))
	return checkResult{reject: &out}
}

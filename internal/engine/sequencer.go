package engine

import "github.com/shiftwise/punchcard/internal/punch"

// NextType returns the single legal next punch type for the ledger.
//
// Pure and total: callable before any punch exists (to drive the terminal's
// button hint) and again after every commit. A rejected candidate never
// advances the sequence because it never reaches the ledger.
//
// Continuous-shift mode toggles ClockIn and ClockOut indefinitely; a second
// ClockIn without an intervening ClockOut is illegal and caught by the
// sequencing rule. Split-shift mode (the default) cycles
// ClockIn → BreakStart → BreakEnd → ClockOut and wraps back to ClockIn,
// which is what enables a second shift or overtime on the same day.
func NextType(l *punch.Ledger) punch.Type {
	last, ok := l.Last()
	if !ok {
		return punch.ClockIn
	}

	if l.ContinuousShift {
		if last.Type == punch.ClockIn {
			return punch.ClockOut
		}
		return punch.ClockIn
	}

	switch last.Type {
	case punch.ClockIn:
		return punch.BreakStart
	case punch.BreakStart:
		return punch.BreakEnd
	case punch.BreakEnd:
		return punch.ClockOut
	case punch.ClockOut:
		return punch.ClockIn
	default:
		// Unreachable: ledgers only ever hold the four defined types.
		return punch.ClockIn
	}
}

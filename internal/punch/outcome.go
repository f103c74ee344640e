package punch

import "fmt"

// Verdict is the binary result of validating a candidate punch.
type Verdict int

const (
	// Accepted means the candidate passed every rule and was committed.
	Accepted Verdict = iota + 1
	// Rejected means a rule failed; the candidate was discarded and no
	// state changed. Rejections are never retried.
	Rejected
)

// String returns the wire name of the verdict.
func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
}

// ReasonCode identifies which rule rejected a candidate punch.
// Rules run in a fixed order and short-circuit, so the code is
// deterministic for a given (candidate, ledger) pair.
type ReasonCode string

const (
	// ReasonOK accompanies accepted outcomes.
	ReasonOK ReasonCode = "OK"

	// ReasonSequenceViolation: candidate type is not the next legal type.
	ReasonSequenceViolation ReasonCode = "SEQUENCE_VIOLATION"

	// ReasonEntryWindow: clock-in before the entry window opens.
	ReasonEntryWindow ReasonCode = "ENTRY_WINDOW"

	// ReasonExitWindow: clock-out after the exit window closes.
	ReasonExitWindow ReasonCode = "EXIT_WINDOW"

	// ReasonBreakStartWindow: break started at or after the cutoff hour.
	ReasonBreakStartWindow ReasonCode = "BREAK_START_WINDOW"

	// ReasonBreakTooShort: break shorter than the minimum duration.
	ReasonBreakTooShort ReasonCode = "BREAK_TOO_SHORT"

	// ReasonBreakTooLong: break longer than the maximum duration.
	ReasonBreakTooLong ReasonCode = "BREAK_TOO_LONG"

	// ReasonMinInterval: punch within the minimum gap of the previous one.
	ReasonMinInterval ReasonCode = "MIN_INTERVAL"

	// ReasonShiftTooShort: clock-out before the minimum shift length.
	ReasonShiftTooShort ReasonCode = "SHIFT_TOO_SHORT"

	// ReasonShiftTooLong: clock-out past the maximum shift length.
	ReasonShiftTooLong ReasonCode = "SHIFT_TOO_LONG"

	// ReasonGeofenceDenied: the geofence service denied the location.
	ReasonGeofenceDenied ReasonCode = "GEOFENCE_DENIED"
)

// Outcome is the user-facing result of a commit attempt. Every path through
// the commit pipeline resolves to exactly one Outcome.
type Outcome struct {
	Verdict Verdict    `json:"verdict"`
	Reason  ReasonCode `json:"reason"`
	Message string     `json:"message"`

	// Warning carries advisory text on accepted outcomes (e.g. a short
	// shift under the warn policy). Empty otherwise.
	Warning string `json:"warning,omitempty"`

	// Queued is true when the punch was accepted locally but routed to the
	// offline submission queue instead of being sent directly.
	Queued bool `json:"queued,omitempty"`
}

// Accept returns an accepted outcome.
func Accept(message string) Outcome {
	return Outcome{Verdict: Accepted, Reason: ReasonOK, Message: message}
}

// Reject returns a rejected outcome with the given reason.
func Reject(reason ReasonCode, message string) Outcome {
	return Outcome{Verdict: Rejected, Reason: reason, Message: message}
}

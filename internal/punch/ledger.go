package punch

import "fmt"

// Ledger is the append-only, strictly time-ordered list of one user's
// punches for one calendar day.
//
// INVARIANTS:
//   - Timestamps strictly increase within a ledger.
//   - Records are never mutated or removed after Append.
//   - A ledger belongs to exactly one (user, day) pair and has a single
//     writer: the commit pipeline.
type Ledger struct {
	// Date is the calendar day key, "YYYY-MM-DD" in the terminal zone.
	Date string

	// ContinuousShift selects the two-state punch cycle (no break).
	ContinuousShift bool

	records []Record
}

// NewLedger creates an empty ledger for the given day.
func NewLedger(date string, continuousShift bool) *Ledger {
	return &Ledger{Date: date, ContinuousShift: continuousShift}
}

// OrderError reports an out-of-order append. It is a programming error in
// the commit pipeline, not a user-facing validation outcome: the validator
// runs before Append and already enforces the minimum inter-punch gap.
type OrderError struct {
	Last      TimeOfDay
	Candidate TimeOfDay
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("punch at %s does not follow last punch at %s", e.Candidate, e.Last)
}

// Append adds a record to the ledger, enforcing the strictly-increasing
// timestamp invariant.
func (l *Ledger) Append(r Record) error {
	if last, ok := l.Last(); ok && !r.Timestamp.After(last.Timestamp) {
		return &OrderError{Last: last.Timestamp, Candidate: r.Timestamp}
	}
	l.records = append(l.records, r)
	return nil
}

// Last returns the most recent record, if any.
func (l *Ledger) Last() (Record, bool) {
	if len(l.records) == 0 {
		return Record{}, false
	}
	return l.records[len(l.records)-1], true
}

// Len returns the number of committed punches.
func (l *Ledger) Len() int { return len(l.records) }

// Records returns a copy of the committed punches in order.
// The copy prevents callers from violating append-only through aliasing.
func (l *Ledger) Records() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// At returns the i-th record (0-based, in commit order).
func (l *Ledger) At(i int) Record { return l.records[i] }

// LastOfType returns the most recent record of the given type, if any.
// Used to pair a candidate BreakEnd with its BreakStart.
func (l *Ledger) LastOfType(t Type) (Record, bool) {
	for i := len(l.records) - 1; i >= 0; i-- {
		if l.records[i].Type == t {
			return l.records[i], true
		}
	}
	return Record{}, false
}

// FirstOfType returns the earliest record of the given type, if any.
// Used to anchor the shift-length rule at the first ClockIn of the day.
func (l *Ledger) FirstOfType(t Type) (Record, bool) {
	for i := 0; i < len(l.records); i++ {
		if l.records[i].Type == t {
			return l.records[i], true
		}
	}
	return Record{}, false
}

// MarkSynced flips the sync status of the record with the given id.
// This is the one sanctioned mutation: sync status is bookkeeping about
// the record, not part of the punch itself.
func (l *Ledger) MarkSynced(id string) {
	for i := range l.records {
		if l.records[i].ID == id {
			l.records[i].SyncStatus = SyncSynced
			return
		}
	}
}

package engine

import (
	"context"
	"fmt"

	"github.com/shiftwise/punchcard/internal/punch"
)

// LedgerStore is the durable backing for day ledgers. Implemented by
// store.Store; tests may use a store opened on a throwaway file.
type LedgerStore interface {
	// WritePunch persists a committed punch. Idempotent by record ID.
	WritePunch(ctx context.Context, day string, rec punch.Record) error

	// PunchesForDay returns the day's punches in commit order.
	PunchesForDay(ctx context.Context, day string) ([]punch.Record, error)
}

// Ledgers manages the single live day ledger.
//
// Exactly one ledger is live per terminal session. Current lazily resets to
// an empty ledger the first time it is accessed after local midnight has
// passed; the previous day's rows stay in the store for external archival
// but are never loaded again.
//
// Ledgers is not itself locked: the Committer serializes all access. The
// display timer and other cosmetic readers must not call into Ledgers.
type Ledgers struct {
	clock      Clock
	store      LedgerStore
	continuous bool

	current *punch.Ledger
}

// NewLedgers creates a ledger manager. The current ledger is loaded lazily
// on first access so a restarted terminal resumes the day mid-sequence.
func NewLedgers(clock Clock, store LedgerStore, continuousShift bool) *Ledgers {
	return &Ledgers{clock: clock, store: store, continuous: continuousShift}
}

// Current returns today's ledger, rolling over and reloading from the
// store when the calendar day has changed since the last access.
func (d *Ledgers) Current(ctx context.Context) (*punch.Ledger, error) {
	today := DateKey(d.clock.Now())
	if d.current != nil && d.current.Date == today {
		return d.current, nil
	}

	ledger := punch.NewLedger(today, d.continuous)
	recs, err := d.store.PunchesForDay(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("load ledger for %s: %w", today, err)
	}
	for _, rec := range recs {
		if err := ledger.Append(rec); err != nil {
			return nil, fmt.Errorf("load ledger for %s: %w", today, err)
		}
	}
	d.current = ledger
	return d.current, nil
}

// Append durably persists rec and then appends it to the current ledger.
// This is the commit point: once Append returns nil the punch exists and
// cannot be rolled back.
func (d *Ledgers) Append(ctx context.Context, rec punch.Record) error {
	ledger, err := d.Current(ctx)
	if err != nil {
		return err
	}
	// Check the ordering invariant before the durable write so a violation
	// leaves no orphan row behind.
	if last, ok := ledger.Last(); ok && !rec.Timestamp.After(last.Timestamp) {
		return NewCommitError(ErrCodeLedgerOrder,
			fmt.Sprintf("punch at %s does not follow last punch at %s", rec.Timestamp, last.Timestamp), nil)
	}
	if err := d.store.WritePunch(ctx, ledger.Date, rec); err != nil {
		return NewCommitError(ErrCodeStoreWrite, "persist punch", err)
	}
	if err := ledger.Append(rec); err != nil {
		return NewCommitError(ErrCodeLedgerOrder, "append punch", err)
	}
	return nil
}

// LastPunch returns the most recent record of the current day, if any.
func (d *Ledgers) LastPunch(ctx context.Context) (punch.Record, bool, error) {
	ledger, err := d.Current(ctx)
	if err != nil {
		return punch.Record{}, false, err
	}
	rec, ok := ledger.Last()
	return rec, ok, nil
}

// MarkSynced updates the in-memory sync status after an acknowledgment.
func (d *Ledgers) MarkSynced(id string) {
	if d.current != nil {
		d.current.MarkSynced(id)
	}
}

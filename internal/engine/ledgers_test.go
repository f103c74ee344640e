package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwise/punchcard/internal/punch"
	"github.com/shiftwise/punchcard/internal/testutil"
)

// memLedgerStore is an in-memory LedgerStore for engine tests; the real
// SQLite implementation is exercised in the store package.
type memLedgerStore struct {
	mu     sync.Mutex
	byDay  map[string][]punch.Record
	synced map[string]bool
}

func newMemLedgerStore() *memLedgerStore {
	return &memLedgerStore{byDay: make(map[string][]punch.Record), synced: make(map[string]bool)}
}

func (m *memLedgerStore) WritePunch(_ context.Context, day string, rec punch.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byDay[day] {
		if existing.ID == rec.ID {
			return nil // idempotent, like the SQLite store
		}
	}
	m.byDay[day] = append(m.byDay[day], rec)
	return nil
}

func (m *memLedgerStore) PunchesForDay(_ context.Context, day string) ([]punch.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]punch.Record, len(m.byDay[day]))
	copy(out, m.byDay[day])
	return out, nil
}

func (m *memLedgerStore) MarkPunchSynced(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.synced[id] = true
	return nil
}

func TestLedgers_CurrentIsEmptyOnFreshDay(t *testing.T) {
	clock := testutil.At("08:00:00")
	d := NewLedgers(clock, newMemLedgerStore(), false)

	ledger, err := d.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, ledger.Len())
	assert.Equal(t, DateKey(clock.Now()), ledger.Date)
}

func TestLedgers_AppendThenLastPunch(t *testing.T) {
	clock := testutil.At("08:00:00")
	d := NewLedgers(clock, newMemLedgerStore(), false)
	ctx := context.Background()

	rec := punch.Record{
		ID: punch.NewRecordID(), Type: punch.ClockIn,
		Timestamp: punch.TimeOfDayFrom(clock.Now()),
		Source:    punch.SourceManual, SyncStatus: punch.SyncPending,
	}
	require.NoError(t, d.Append(ctx, rec))

	last, ok, err := d.LastPunch(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec.ID, last.ID)
}

func TestLedgers_AppendRejectsOutOfOrder(t *testing.T) {
	clock := testutil.At("08:00:00")
	st := newMemLedgerStore()
	d := NewLedgers(clock, st, false)
	ctx := context.Background()

	ts, _ := punch.ParseTimeOfDay("08:00:00")
	require.NoError(t, d.Append(ctx, punch.Record{
		ID: punch.NewRecordID(), Type: punch.ClockIn, Timestamp: ts, Source: punch.SourceManual,
	}))

	earlier, _ := punch.ParseTimeOfDay("07:00:00")
	err := d.Append(ctx, punch.Record{
		ID: punch.NewRecordID(), Type: punch.BreakStart, Timestamp: earlier, Source: punch.SourceManual,
	})
	var ce *CommitError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeLedgerOrder, ce.Code)

	// The failed append must not leave an orphan row behind.
	day := DateKey(clock.Now())
	rows, err := st.PunchesForDay(ctx, day)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestLedgers_MidnightRollover(t *testing.T) {
	clock := testutil.At("08:00:00")
	d := NewLedgers(clock, newMemLedgerStore(), false)
	ctx := context.Background()

	require.NoError(t, d.Append(ctx, punch.Record{
		ID: punch.NewRecordID(), Type: punch.ClockIn,
		Timestamp: punch.TimeOfDayFrom(clock.Now()), Source: punch.SourceManual,
	}))

	firstDay := DateKey(clock.Now())
	clock.NextDay()

	ledger, err := d.Current(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, firstDay, ledger.Date, "new day key after midnight")
	assert.Equal(t, 0, ledger.Len(), "ledger resets at local midnight")
}

func TestLedgers_ReloadsCurrentDayFromStore(t *testing.T) {
	clock := testutil.At("08:00:00")
	st := newMemLedgerStore()
	ctx := context.Background()

	d := NewLedgers(clock, st, false)
	require.NoError(t, d.Append(ctx, punch.Record{
		ID: punch.NewRecordID(), Type: punch.ClockIn,
		Timestamp: punch.TimeOfDayFrom(clock.Now()), Source: punch.SourceManual,
	}))

	// A fresh Ledgers over the same store simulates a process restart:
	// the day resumes mid-sequence.
	clock.Advance(4 * time.Hour)
	restarted := NewLedgers(clock, st, false)
	ledger, err := restarted.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, ledger.Len())
	assert.Equal(t, punch.BreakStart, NextType(ledger))
}

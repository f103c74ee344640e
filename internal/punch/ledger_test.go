package punch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(t *testing.T, typ Type, ts string) Record {
	t.Helper()
	tod, err := ParseTimeOfDay(ts)
	require.NoError(t, err)
	return Record{ID: NewRecordID(), Type: typ, Timestamp: tod, Source: SourceManual, SyncStatus: SyncPending}
}

func TestLedger_AppendKeepsOrder(t *testing.T) {
	l := NewLedger("2025-03-10", false)
	require.NoError(t, l.Append(rec(t, ClockIn, "08:00:00")))
	require.NoError(t, l.Append(rec(t, BreakStart, "12:00:00")))
	assert.Equal(t, 2, l.Len())

	last, ok := l.Last()
	require.True(t, ok)
	assert.Equal(t, BreakStart, last.Type)
}

func TestLedger_AppendRejectsOutOfOrder(t *testing.T) {
	l := NewLedger("2025-03-10", false)
	require.NoError(t, l.Append(rec(t, ClockIn, "08:00:00")))

	err := l.Append(rec(t, BreakStart, "07:59:59"))
	var orderErr *OrderError
	require.ErrorAs(t, err, &orderErr)

	// Equal timestamps violate strict ordering too.
	err = l.Append(rec(t, BreakStart, "08:00:00"))
	assert.Error(t, err)
	assert.Equal(t, 1, l.Len())
}

func TestLedger_LastOfType(t *testing.T) {
	l := NewLedger("2025-03-10", false)
	require.NoError(t, l.Append(rec(t, ClockIn, "08:00:00")))
	require.NoError(t, l.Append(rec(t, BreakStart, "12:00:00")))
	require.NoError(t, l.Append(rec(t, BreakEnd, "12:45:00")))

	bs, ok := l.LastOfType(BreakStart)
	require.True(t, ok)
	assert.Equal(t, "12:00:00", bs.Timestamp.String())

	_, ok = l.LastOfType(ClockOut)
	assert.False(t, ok)
}

func TestLedger_FirstOfType(t *testing.T) {
	l := NewLedger("2025-03-10", false)
	require.NoError(t, l.Append(rec(t, ClockIn, "06:30:00")))
	require.NoError(t, l.Append(rec(t, BreakStart, "12:00:00")))
	require.NoError(t, l.Append(rec(t, BreakEnd, "12:45:00")))
	require.NoError(t, l.Append(rec(t, ClockOut, "15:00:00")))
	require.NoError(t, l.Append(rec(t, ClockIn, "16:00:00")))

	first, ok := l.FirstOfType(ClockIn)
	require.True(t, ok)
	assert.Equal(t, "06:30:00", first.Timestamp.String())
}

func TestLedger_RecordsReturnsCopy(t *testing.T) {
	l := NewLedger("2025-03-10", false)
	require.NoError(t, l.Append(rec(t, ClockIn, "08:00:00")))

	records := l.Records()
	records[0].Type = ClockOut

	assert.Equal(t, ClockIn, l.At(0).Type, "mutating the copy must not touch the ledger")
}

func TestLedger_MarkSynced(t *testing.T) {
	l := NewLedger("2025-03-10", false)
	r := rec(t, ClockIn, "08:00:00")
	require.NoError(t, l.Append(r))

	l.MarkSynced(r.ID)
	assert.Equal(t, SyncSynced, l.At(0).SyncStatus)

	// Unknown id is a no-op.
	l.MarkSynced("nope")
}

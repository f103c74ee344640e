package punch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestType_WireNames_RoundTrip(t *testing.T) {
	for _, typ := range []Type{ClockIn, BreakStart, BreakEnd, ClockOut} {
		parsed, err := ParseType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, parsed)
	}
}

func TestType_Labels(t *testing.T) {
	assert.Equal(t, "Clock In", ClockIn.Label())
	assert.Equal(t, "Break Start", BreakStart.Label())
	assert.Equal(t, "Break End", BreakEnd.Label())
	assert.Equal(t, "Clock Out", ClockOut.Label())
}

func TestType_Valid(t *testing.T) {
	assert.True(t, ClockIn.Valid())
	assert.True(t, ClockOut.Valid())
	assert.False(t, Type(0).Valid())
	assert.False(t, Type(99).Valid())
}

func TestParseType_Unknown(t *testing.T) {
	_, err := ParseType("lunch")
	assert.Error(t, err)
}

func TestType_JSON(t *testing.T) {
	data, err := json.Marshal(BreakStart)
	require.NoError(t, err)
	assert.Equal(t, `"break_start"`, string(data))

	var typ Type
	require.NoError(t, json.Unmarshal([]byte(`"clock_out"`), &typ))
	assert.Equal(t, ClockOut, typ)

	assert.Error(t, json.Unmarshal([]byte(`42`), &typ))
}

func TestSourceAndSyncStatus_RoundTrip(t *testing.T) {
	for _, src := range []Source{SourceManual, SourceFacial, SourceBiometric} {
		parsed, err := ParseSource(src.String())
		require.NoError(t, err)
		assert.Equal(t, src, parsed)
	}
	for _, st := range []SyncStatus{SyncPending, SyncSynced, SyncFailed} {
		parsed, err := ParseSyncStatus(st.String())
		require.NoError(t, err)
		assert.Equal(t, st, parsed)
	}
}

package punch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("08:30:15")
	require.NoError(t, err)
	assert.Equal(t, "08:30:15", tod.String())
	assert.Equal(t, 8, tod.Hour())
}

func TestParseTimeOfDay_Bounds(t *testing.T) {
	_, err := ParseTimeOfDay("24:00:00")
	assert.Error(t, err)
	_, err = ParseTimeOfDay("12:60:00")
	assert.Error(t, err)
	_, err = ParseTimeOfDay("nonsense")
	assert.Error(t, err)

	tod, err := ParseTimeOfDay("23:59:59")
	require.NoError(t, err)
	assert.Equal(t, 23, tod.Hour())
}

func TestTimeOfDayFrom_UsesCivilClock(t *testing.T) {
	// 23:59 in Sao Paulo is 02:59 UTC the next day; the civil hour must
	// win.
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	local := time.Date(2025, 3, 10, 23, 59, 0, 0, loc)
	tod := TimeOfDayFrom(local)
	assert.Equal(t, 23, tod.Hour())
	assert.Equal(t, "23:59:00", tod.String())
}

func TestTimeOfDay_MinutesSince(t *testing.T) {
	a, _ := ParseTimeOfDay("12:00:00")
	b, _ := ParseTimeOfDay("12:30:00")
	assert.Equal(t, 30, b.MinutesSince(a))
	assert.Equal(t, -30, a.MinutesSince(b))

	// Partial minutes truncate: 29m59s elapsed is 29 minutes.
	c, _ := ParseTimeOfDay("12:29:59")
	assert.Equal(t, 29, c.MinutesSince(a))
}

func TestTimeOfDay_After(t *testing.T) {
	a, _ := ParseTimeOfDay("08:00:00")
	b, _ := ParseTimeOfDay("08:00:01")
	assert.True(t, b.After(a))
	assert.False(t, a.After(b))
	assert.False(t, a.After(a))
}

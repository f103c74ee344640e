package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwise/punchcard/internal/engine"
)

const minimalConfig = `
device: {
	user_id:   "user-42"
	sector_id: "sector-7"
}
`

func TestParse_DefaultsApply(t *testing.T) {
	cfg, err := Parse("punchcard.cue", []byte(minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "user-42", cfg.Device.UserID)
	assert.Equal(t, "America/Sao_Paulo", cfg.Device.Timezone)
	assert.False(t, cfg.ContinuousShift)
	assert.Equal(t, "punchcard.db", cfg.DBPath)

	rules := cfg.EngineRules()
	assert.Equal(t, 6, rules.EntryOpenHour)
	assert.Equal(t, 22, rules.ExitCloseHour)
	assert.Equal(t, 14, rules.BreakStartCloseHour)
	assert.Equal(t, 30, rules.MinBreakMinutes)
	assert.Equal(t, 120, rules.MaxBreakMinutes)
	assert.Equal(t, 5, rules.MinGapMinutes)
	assert.Equal(t, 480, rules.MinShiftMinutes)
	assert.Equal(t, 600, rules.MaxShiftMinutes)
	assert.Equal(t, engine.ShortShiftBlock, rules.ShortShiftPolicy)
}

func TestParse_OverridesWin(t *testing.T) {
	cfg, err := Parse("punchcard.cue", []byte(`
device: {
	user_id:   "user-42"
	sector_id: "sector-7"
	timezone:  "America/Manaus"
}
continuous_shift: true
rules: {
	entry_open_hour:    0
	short_shift_policy: "warn"
}
endpoints: punch_url: "https://punch.internal/api"
db_path: "/var/lib/punchcard/terminal.db"
`))
	require.NoError(t, err)

	assert.Equal(t, "America/Manaus", cfg.Device.Timezone)
	assert.True(t, cfg.ContinuousShift)
	assert.Equal(t, 0, cfg.Rules.EntryOpenHour)
	assert.Equal(t, engine.ShortShiftWarn, cfg.EngineRules().ShortShiftPolicy)
	assert.Equal(t, "https://punch.internal/api", cfg.Endpoints.PunchURL)
	assert.Equal(t, "/var/lib/punchcard/terminal.db", cfg.DBPath)
	// Unset rule fields still default.
	assert.Equal(t, 22, cfg.Rules.ExitCloseHour)
}

func TestParse_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		config string
		want   string
	}{
		{
			name:   "missing user_id",
			config: `device: sector_id: "sector-7"`,
			want:   "user_id",
		},
		{
			name: "empty user_id",
			config: `
device: {
	user_id:   ""
	sector_id: "sector-7"
}
`,
			want: "user_id",
		},
		{
			name: "unknown short shift policy",
			config: minimalConfig + `
rules: short_shift_policy: "ignore"
`,
			want: "short_shift_policy",
		},
		{
			name: "hour out of range",
			config: minimalConfig + `
rules: exit_close_hour: 24
`,
			want: "exit_close_hour",
		},
		{
			name: "wrong type",
			config: minimalConfig + `
continuous_shift: "yes"
`,
			want: "continuous_shift",
		},
		{
			name: "unknown timezone",
			config: `
device: {
	user_id:   "user-42"
	sector_id: "sector-7"
	timezone:  "Mars/Olympus_Mons"
}
`,
			want: "timezone",
		},
		{
			name: "inverted break bounds",
			config: minimalConfig + `
rules: {
	min_break_minutes: 120
	max_break_minutes: 30
}
`,
			want: "break",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("punchcard.cue", []byte(tt.config))
			require.Error(t, err)
			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Contains(t, loadErr.Error(), tt.want)
		})
	}
}

func TestParse_SyntaxErrorCarriesPosition(t *testing.T) {
	_, err := Parse("punchcard.cue", []byte("device: {"))
	require.Error(t, err)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Error(), "punchcard.cue")
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "punchcard.cue")
	require.NoError(t, os.WriteFile(path, []byte(minimalConfig), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "user-42", cfg.Device.UserID)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
	var loadErr *LoadError
	assert.ErrorAs(t, err, &loadErr)
}

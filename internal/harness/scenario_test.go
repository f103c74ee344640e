package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	path := writeScenario(t, `
name: simple
description: one accepted punch
online: true
steps:
  - at: "08:00:00"
    punch: {}
  - at: "08:10:00"
    flush: true
`)
	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "simple", sc.Name)
	assert.True(t, sc.Online)
	require.Len(t, sc.Steps, 2)
	assert.NotNil(t, sc.Steps[0].Punch)
	assert.True(t, sc.Steps[1].Flush)
}

func TestLoadScenario_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name: "unknown field",
			content: `
name: typo
description: misspelled key
online: true
stepz:
  - at: "08:00:00"
    punch: {}
`,
			want: "stepz",
		},
		{
			name: "missing name",
			content: `
description: nameless
online: true
steps:
  - at: "08:00:00"
    punch: {}
`,
			want: "name is required",
		},
		{
			name: "no steps",
			content: `
name: empty
description: no steps at all
online: true
steps: []
`,
			want: "steps",
		},
		{
			name: "two actions in one step",
			content: `
name: overloaded
description: punch and flush in the same step
online: true
steps:
  - at: "08:00:00"
    punch: {}
    flush: true
`,
			want: "exactly one",
		},
		{
			name: "punch without time",
			content: `
name: timeless
description: punch with no at
online: true
steps:
  - punch: {}
`,
			want: "at time",
		},
		{
			name: "bad punch type",
			content: `
name: badtype
description: unknown punch type
online: true
steps:
  - at: "08:00:00"
    punch:
      type: lunch
`,
			want: "unknown punch type",
		},
		{
			name: "lat without lon",
			content: `
name: halfloc
description: latitude with no longitude
online: true
steps:
  - at: "08:00:00"
    punch:
      lat: -23.5
`,
			want: "lat and lon",
		},
		{
			name: "bad geofence mode",
			content: `
name: badgeo
description: unknown geofence mode
online: true
geofence: maybe
steps:
  - at: "08:00:00"
    punch: {}
`,
			want: "geofence",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

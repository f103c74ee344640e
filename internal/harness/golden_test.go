package harness

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// TestScenarios replays every scenario under testdata/scenarios and
// compares the transcript against its golden file.
//
// To regenerate golden files after an intentional behavior change:
//
//	go test ./internal/harness -update
func TestScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no scenario files found")

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t *testing.T) {
			sc, err := LoadScenario(path)
			require.NoError(t, err)
			require.Equal(t, name, sc.Name, "scenario name must match its file name")

			tr, err := Run(context.Background(), sc, filepath.Join(t.TempDir(), "punchcard.db"))
			require.NoError(t, err)

			data, err := json.MarshalIndent(tr, "", "  ")
			require.NoError(t, err)
			data = append(data, '\n')

			g := goldie.New(t,
				goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
				goldie.WithNameSuffix(".golden"),
			)
			g.Assert(t, name, data)
		})
	}
}

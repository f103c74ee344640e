package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shiftwise/punchcard/internal/engine"
)

// NewLedgerCommand creates the ledger command.
func NewLedgerCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "ledger",
		Short:         "List today's punches",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			day := engine.DateKey(a.clock.Now())
			recs, err := a.store.PunchesForDay(cmd.Context(), day)
			if err != nil {
				return WrapExitError(ExitCommandError, "read ledger", err)
			}

			f := &OutputFormatter{Format: rootOpts.Format, Writer: os.Stdout, ErrWriter: os.Stderr, Verbose: rootOpts.Verbose}
			if rootOpts.Format == "json" {
				type row struct {
					ID        string `json:"id"`
					Type      string `json:"type"`
					Timestamp string `json:"timestamp"`
					Location  string `json:"location,omitempty"`
					Source    string `json:"source"`
					Sync      string `json:"sync_status"`
					Flagged   bool   `json:"flagged_for_audit,omitempty"`
				}
				rows := make([]row, 0, len(recs))
				for _, r := range recs {
					rows = append(rows, row{
						ID: r.ID, Type: r.Type.String(), Timestamp: r.Timestamp.String(),
						Location: r.Location, Source: r.Source.String(),
						Sync: r.SyncStatus.String(), Flagged: r.FlaggedForAudit,
					})
				}
				return f.Success(struct {
					Day     string `json:"day"`
					Punches []row  `json:"punches"`
				}{day, rows})
			}

			var b strings.Builder
			fmt.Fprintf(&b, "ledger %s (%d punches)\n", day, len(recs))
			for _, r := range recs {
				fmt.Fprintf(&b, "  %s  %-12s %-9s", r.Timestamp, r.Type.Label(), r.SyncStatus)
				if r.FlaggedForAudit {
					b.WriteString("  [audit]")
				}
				b.WriteString("\n")
			}
			_, err = fmt.Fprint(os.Stdout, b.String())
			return err
		},
	}
}

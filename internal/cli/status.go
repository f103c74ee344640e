package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "status",
		Short:         "Show the next expected punch and pending sync count",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			next, err := a.committer.NextExpected(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "read ledger", err)
			}
			pending, err := a.queue.PendingCount(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "read queue", err)
			}

			f := &OutputFormatter{Format: rootOpts.Format, Writer: os.Stdout, ErrWriter: os.Stderr, Verbose: rootOpts.Verbose}
			data := struct {
				Next    string `json:"next"`
				Pending int    `json:"pending"`
			}{next.String(), pending}
			return f.Successf(data, "next: %s\npending sync: %d", next.Label(), pending)
		},
	}
}

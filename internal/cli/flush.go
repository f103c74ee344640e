package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/shiftwise/punchcard/internal/queue"
)

// NewFlushCommand creates the flush command.
func NewFlushCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Replay queued punches against the server",
		Long: `Run one flush pass over the offline submission queue.

Queued punches are replayed strictly in enqueue order; the pass stops at
the first failure so the server never sees punches out of order. Exit code
1 means punches remain pending.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			f := &OutputFormatter{Format: rootOpts.Format, Writer: os.Stdout, ErrWriter: os.Stderr, Verbose: rootOpts.Verbose}

			before, err := a.queue.PendingCount(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "read queue", err)
			}
			f.VerboseLog("flushing %d pending punches", before)

			delivered, flushErr := a.queue.Flush(cmd.Context())
			if flushErr != nil && !errors.Is(flushErr, queue.ErrFlushInFlight) {
				_ = f.Error("SYNC_FAILURE", flushErr.Error())
				return WrapExitError(ExitFailure, "flush incomplete", flushErr)
			}

			pending, err := a.queue.PendingCount(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "read queue", err)
			}
			data := struct {
				Delivered int `json:"delivered"`
				Pending   int `json:"pending"`
			}{delivered, pending}
			return f.Successf(data, "delivered: %d, pending: %d", delivered, pending)
		},
	}
}

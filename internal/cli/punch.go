package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shiftwise/punchcard/internal/engine"
	"github.com/shiftwise/punchcard/internal/punch"
)

// PunchOptions holds flags for the punch command.
type PunchOptions struct {
	*RootOptions
	Type string
	Lat  float64
	Lon  float64
}

// NewPunchCommand creates the punch command.
func NewPunchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PunchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "punch",
		Short: "Register a punch",
		Long: `Register a punch against the daily ledger.

Without --type the sequencer supplies the next expected punch type.
Without --lat/--lon the punch proceeds with no location (geolocation
unavailable is not an error).

Example:
  punchcard punch
  punchcard punch --type clock_out --lat -23.55 --lon -46.63
  punchcard punch --offline`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPunch(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "", "force punch type (clock_in|break_start|break_end|clock_out)")
	cmd.Flags().Float64Var(&opts.Lat, "lat", 0, "latitude of the punch")
	cmd.Flags().Float64Var(&opts.Lon, "lon", 0, "longitude of the punch")

	return cmd
}

func runPunch(opts *PunchOptions, cmd *cobra.Command) error {
	a, err := newApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.Close()

	req := engine.CommitRequest{Source: punch.SourceManual}
	if opts.Type != "" {
		t, err := punch.ParseType(opts.Type)
		if err != nil {
			return WrapExitError(ExitCommandError, "parse --type", err)
		}
		req.ExplicitType = t
	}
	if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon") {
		req.HasLocation = true
		req.Lat = opts.Lat
		req.Lon = opts.Lon
	}

	f := &OutputFormatter{Format: opts.Format, Writer: os.Stdout, ErrWriter: os.Stderr, Verbose: opts.Verbose}
	if !req.HasLocation {
		f.VerboseLog("no location attached, punch proceeds without geofence check")
	}

	outcome, err := a.committer.Commit(cmd.Context(), req)
	if err != nil {
		return WrapExitError(ExitFailure, "commit punch", err)
	}
	if outcome.Verdict == punch.Rejected {
		if err := f.Error(string(outcome.Reason), outcome.Message); err != nil {
			return err
		}
		return NewExitError(ExitFailure, outcome.Message)
	}
	if err := f.Successf(outcome, "%s", outcome.Message); err != nil {
		return err
	}
	if outcome.Warning != "" {
		fmt.Fprintf(os.Stderr, "warning: %s\n", outcome.Warning)
	}
	return nil
}

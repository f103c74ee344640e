package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/shiftwise/punchcard/internal/config"
)

// NewCheckConfigCommand creates the check-config command.
func NewCheckConfigCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check-config [file]",
		Short: "Validate a terminal config file",
		Long: `Validate a terminal config file against the schema and print the
resolved values (schema defaults applied). Without an argument the
--config path is checked.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := rootOpts.Config
			if len(args) == 1 {
				path = args[0]
			}

			cfg, err := config.Load(path)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid config", err)
			}

			f := &OutputFormatter{Format: rootOpts.Format, Writer: os.Stdout, ErrWriter: os.Stderr, Verbose: rootOpts.Verbose}
			if rootOpts.Format == "json" {
				return f.Success(cfg)
			}
			mode := "split-shift"
			if cfg.ContinuousShift {
				mode = "continuous"
			}
			return f.Successf(cfg,
				"config ok\n  user: %s  sector: %s\n  timezone: %s  mode: %s\n  entry %02d:00  exit %02d:59  break before %02d:00 (%d-%d min)\n  gap %d min  shift %d-%d min (%s)",
				cfg.Device.UserID, cfg.Device.SectorID,
				cfg.Device.Timezone, mode,
				cfg.Rules.EntryOpenHour, cfg.Rules.ExitCloseHour,
				cfg.Rules.BreakStartCloseHour, cfg.Rules.MinBreakMinutes, cfg.Rules.MaxBreakMinutes,
				cfg.Rules.MinGapMinutes, cfg.Rules.MinShiftMinutes, cfg.Rules.MaxShiftMinutes,
				cfg.Rules.ShortShiftPolicy)
		},
	}
}

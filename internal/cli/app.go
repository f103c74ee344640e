package cli

import (
	"os"

	"github.com/shiftwise/punchcard/internal/config"
	"github.com/shiftwise/punchcard/internal/engine"
	"github.com/shiftwise/punchcard/internal/gateway"
	"github.com/shiftwise/punchcard/internal/queue"
	"github.com/shiftwise/punchcard/internal/store"
)

// app is the fully wired terminal core, shared by the commands.
type app struct {
	cfg       *config.Config
	clock     *engine.SystemClock
	store     *store.Store
	queue     *queue.Queue
	committer *engine.Committer
}

// newApp loads config, opens the database, and wires clock → ledgers →
// validator → committer → queue exactly the way a long-running terminal
// process would.
func newApp(opts *RootOptions) (*app, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	applyEnvOverrides(cfg)

	clock, err := engine.NewSystemClock(cfg.Device.Timezone)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load timezone", err)
	}

	dbPath := cfg.DBPath
	if opts.DB != "" {
		dbPath = opts.DB
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open database", err)
	}

	submitter := gateway.NewHTTPSubmitter(cfg.Endpoints.PunchURL, cfg.Device.UserID)
	q := queue.New(st, submitter, clock)
	ledgers := engine.NewLedgers(clock, st, cfg.ContinuousShift)
	validator := engine.NewValidator(cfg.EngineRules())

	online := engine.OnlineFunc(func() bool {
		return !opts.Offline && cfg.Endpoints.PunchURL != ""
	})

	committerOpts := []engine.CommitterOption{engine.WithSyncMarker(st)}
	if cfg.Endpoints.GeofenceURL != "" {
		committerOpts = append(committerOpts,
			engine.WithGeofence(gateway.NewHTTPGeofence(cfg.Endpoints.GeofenceURL)))
	}
	if cfg.Endpoints.BiometricURL != "" {
		committerOpts = append(committerOpts,
			engine.WithBiometric(gateway.NewHTTPBiometric(cfg.Endpoints.BiometricURL)))
	}
	if cfg.Endpoints.IrregularityURL != "" && cfg.Endpoints.AlertURL != "" {
		committerOpts = append(committerOpts,
			engine.WithAudit(gateway.NewHTTPAuditSink(cfg.Endpoints.IrregularityURL, cfg.Endpoints.AlertURL)))
	}

	committer := engine.NewCommitter(
		clock, ledgers, validator, q, submitter, online,
		cfg.Device.UserID, cfg.Device.SectorID,
		committerOpts...,
	)

	return &app{cfg: cfg, clock: clock, store: st, queue: q, committer: committer}, nil
}

// Close releases the database.
func (a *app) Close() error {
	return a.store.Close()
}

// applyEnvOverrides lets deployment env (or a .env file) override endpoint
// URLs without editing the config file.
func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("PUNCHCARD_PUNCH_URL"); v != "" {
		cfg.Endpoints.PunchURL = v
	}
	if v := os.Getenv("PUNCHCARD_GEOFENCE_URL"); v != "" {
		cfg.Endpoints.GeofenceURL = v
	}
	if v := os.Getenv("PUNCHCARD_BIOMETRIC_URL"); v != "" {
		cfg.Endpoints.BiometricURL = v
	}
	if v := os.Getenv("PUNCHCARD_IRREGULARITY_URL"); v != "" {
		cfg.Endpoints.IrregularityURL = v
	}
	if v := os.Getenv("PUNCHCARD_ALERT_URL"); v != "" {
		cfg.Endpoints.AlertURL = v
	}
}

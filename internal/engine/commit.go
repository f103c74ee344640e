package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shiftwise/punchcard/internal/gateway"
	"github.com/shiftwise/punchcard/internal/punch"
)

// Connectivity reports whether the terminal currently has network access.
type Connectivity interface {
	Online() bool
}

// OnlineFunc adapts a plain function to the Connectivity interface.
type OnlineFunc func() bool

// Online implements Connectivity.
func (f OnlineFunc) Online() bool { return f() }

// Enqueuer buffers an accepted punch for later submission.
// Implemented by queue.Queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, rec punch.Record) error
}

// SyncMarker records a direct-send acknowledgment. Implemented by
// store.Store.
type SyncMarker interface {
	MarkPunchSynced(ctx context.Context, id string) error
}

// CommitRequest describes one punch attempt.
type CommitRequest struct {
	// ExplicitType forces the punch type. Zero lets the sequencer supply
	// the next expected type.
	ExplicitType punch.Type

	// Source defaults to SourceManual.
	Source punch.Source

	// HasLocation is false when geolocation was unavailable; the punch
	// proceeds with an empty location rather than being blocked.
	HasLocation bool
	Lat, Lon    float64
}

// Committer runs the commit pipeline. See the package comment for the
// pipeline's phases and cancellation semantics.
type Committer struct {
	// mu serializes commits: no two may be in flight. The terminal UI
	// disables the punch button until Commit resolves.
	mu sync.Mutex

	clock     Clock
	ledgers   *Ledgers
	validator *Validator
	enqueuer  Enqueuer
	submitter gateway.Submitter
	online    Connectivity

	geofence  gateway.GeofenceChecker
	biometric gateway.BiometricMatcher
	audit     gateway.AuditSink
	syncMark  SyncMarker

	userID   string
	sectorID string
}

// CommitterOption configures optional collaborators.
type CommitterOption func(*Committer)

// WithGeofence enables the pre-commit geofence gate.
func WithGeofence(g gateway.GeofenceChecker) CommitterOption {
	return func(c *Committer) { c.geofence = g }
}

// WithBiometric enables punch-type suggestions from a biometric matcher.
func WithBiometric(b gateway.BiometricMatcher) CommitterOption {
	return func(c *Committer) { c.biometric = b }
}

// WithAudit sets the irregularity/alert side-channel used on geofence
// denials.
func WithAudit(a gateway.AuditSink) CommitterOption {
	return func(c *Committer) { c.audit = a }
}

// WithSyncMarker sets the store hook that records direct-send acks.
func WithSyncMarker(m SyncMarker) CommitterOption {
	return func(c *Committer) { c.syncMark = m }
}

// NewCommitter wires the commit pipeline. clock, ledgers, validator,
// enqueuer, submitter, and online are required; identity names the
// (user, sector) the terminal is bound to.
func NewCommitter(
	clock Clock,
	ledgers *Ledgers,
	validator *Validator,
	enqueuer Enqueuer,
	submitter gateway.Submitter,
	online Connectivity,
	userID, sectorID string,
	opts ...CommitterOption,
) *Committer {
	c := &Committer{
		clock:     clock,
		ledgers:   ledgers,
		validator: validator,
		enqueuer:  enqueuer,
		submitter: submitter,
		online:    online,
		userID:    userID,
		sectorID:  sectorID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NextExpected returns the punch type the sequencer would assign right
// now. Drives the terminal's button hint.
func (c *Committer) NextExpected(ctx context.Context) (punch.Type, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ledger, err := c.ledgers.Current(ctx)
	if err != nil {
		return 0, err
	}
	return NextType(ledger), nil
}

// Suggest asks the biometric matcher whether the descriptor belongs to the
// terminal's user and, if so, which punch type to present. The suggestion
// is advisory: the user confirms it and the punch then runs through the
// full rule table like any manual punch.
func (c *Committer) Suggest(ctx context.Context, descriptor []float64) (punch.Type, gateway.MatchResult, error) {
	if c.biometric == nil {
		return 0, gateway.MatchResult{}, fmt.Errorf("no biometric matcher configured")
	}
	res, err := c.biometric.Match(ctx, c.userID, descriptor)
	if err != nil {
		return 0, gateway.MatchResult{}, fmt.Errorf("biometric match: %w", err)
	}
	if !res.Matched {
		return 0, res, nil
	}
	next, err := c.NextExpected(ctx)
	if err != nil {
		return 0, res, err
	}
	return next, res, nil
}

// Commit runs one punch through the pipeline. Every path resolves to an
// Outcome, a queued state, or a synced state; a non-nil error means an
// internal fault (see CommitError), never a user-facing rejection.
func (c *Committer) Commit(ctx context.Context, req CommitRequest) (punch.Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	at := punch.TimeOfDayFrom(now)

	ledger, err := c.ledgers.Current(ctx)
	if err != nil {
		return punch.Outcome{}, err
	}

	typ := req.ExplicitType
	if typ == 0 {
		typ = NextType(ledger)
	} else if !typ.Valid() {
		return punch.Outcome{}, NewCommitError(ErrCodeInvalidType,
			fmt.Sprintf("punch type %d is not defined", int(typ)), nil)
	}

	outcome := c.validator.Validate(Candidate{Type: typ, At: at}, ledger)
	if outcome.Verdict == punch.Rejected {
		// Local, synchronous, non-retryable: the candidate is discarded
		// and never queued.
		return outcome, nil
	}

	// Last cancellation point. Past here the punch commits.
	if err := ctx.Err(); err != nil {
		return punch.Outcome{}, NewCommitError(ErrCodeCanceled, "commit canceled before append", err)
	}

	online := c.online.Online()

	flagged := false
	if online && c.geofence != nil && req.HasLocation {
		allowed, gfErr := c.geofence.Check(ctx, c.sectorID, req.Lat, req.Lon)
		switch {
		case gfErr != nil && ctx.Err() != nil:
			// The user dismissed the punch while the check was in flight.
			// That is a cancellation, not service unreachability: the
			// optimistic fallback must not commit a punch nobody wants.
			return punch.Outcome{}, NewCommitError(ErrCodeCanceled, "commit canceled during geofence check", gfErr)
		case gfErr != nil:
			// Optimistic fallback: the punch proceeds, flagged so the
			// irregularity is reviewable later.
			slog.Warn("geofence unreachable, accepting optimistically", "error", gfErr)
			flagged = true
		case !allowed:
			c.dispatchDenial(ctx, typ, at, req)
			return punch.Reject(punch.ReasonGeofenceDenied,
				"location is outside the authorized work zone"), nil
		}
	}

	source := req.Source
	if source == 0 {
		source = punch.SourceManual
	}
	rec := punch.Record{
		ID:              punch.NewRecordID(),
		Type:            typ,
		Timestamp:       at,
		Location:        formatLocation(req),
		Source:          source,
		SyncStatus:      punch.SyncPending,
		FlaggedForAudit: flagged,
	}

	// Commit point.
	if err := c.ledgers.Append(ctx, rec); err != nil {
		return punch.Outcome{}, err
	}

	if !online {
		if err := c.enqueuer.Enqueue(ctx, rec); err != nil {
			// The punch is committed locally; queue bookkeeping failing
			// on top of being offline leaves it for the next flush scan.
			return punch.Outcome{}, NewCommitError(ErrCodeStoreWrite, "enqueue offline punch", err)
		}
		outcome.Queued = true
		outcome.Message += " (offline, queued for sync)"
		return outcome, nil
	}

	if err := c.submitter.Submit(ctx, rec); err != nil {
		// Network failure of an accepted punch is not user-facing: route
		// it into the queue and report success with a notice.
		slog.Info("direct submit failed, queueing", "id", rec.ID, "error", err)
		if qErr := c.enqueuer.Enqueue(ctx, rec); qErr != nil {
			return punch.Outcome{}, NewCommitError(ErrCodeStoreWrite, "enqueue after failed submit", qErr)
		}
		outcome.Queued = true
		outcome.Message += " (server unavailable, queued for sync)"
		return outcome, nil
	}

	c.ledgers.MarkSynced(rec.ID)
	if c.syncMark != nil {
		if err := c.syncMark.MarkPunchSynced(ctx, rec.ID); err != nil {
			slog.Warn("record direct-send ack", "id", rec.ID, "error", err)
		}
	}
	return outcome, nil
}

// dispatchDenial sends the irregularity record and the manager alert.
// Both go out before the commit is blocked; dispatch failures are logged
// and do not change the denial.
func (c *Committer) dispatchDenial(ctx context.Context, typ punch.Type, at punch.TimeOfDay, req CommitRequest) {
	if c.audit == nil {
		return
	}
	ir := gateway.Irregularity{
		UserID:   c.userID,
		SectorID: c.sectorID,
		Lat:      req.Lat,
		Lon:      req.Lon,
		Action:   typ.String(),
		Reason:   "geofence denied",
	}
	if err := c.audit.ReportIrregularity(ctx, ir); err != nil {
		slog.Warn("report irregularity", "error", err)
	}
	alert := gateway.ManagerAlert{
		UserID:   c.userID,
		SectorID: c.sectorID,
		Message:  fmt.Sprintf("%s attempted outside the authorized zone", typ.Label()),
		Metadata: gateway.AlertMetadata{Tipo: typ.String(), Horario: at.String()},
	}
	if err := c.audit.AlertManager(ctx, alert); err != nil {
		slog.Warn("alert manager", "error", err)
	}
}

func formatLocation(req CommitRequest) string {
	if !req.HasLocation {
		return ""
	}
	return fmt.Sprintf("%.6f,%.6f", req.Lat, req.Lon)
}

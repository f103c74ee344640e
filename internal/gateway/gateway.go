package gateway

import (
	"context"

	"github.com/shiftwise/punchcard/internal/punch"
)

// GeofenceChecker decides whether a coordinate lies within the authorized
// work zone for a sector. Called synchronously before the ledger append,
// and only when the terminal is online.
type GeofenceChecker interface {
	// Check returns whether the punch location is allowed. A non-nil
	// error means the service could not be reached or answered garbage;
	// the commit pipeline then applies the optimistic fallback.
	Check(ctx context.Context, sectorID string, lat, lon float64) (bool, error)
}

// MatchResult is the biometric service's answer for one descriptor.
type MatchResult struct {
	Matched    bool    `json:"matched"`
	Confidence float64 `json:"confidence"`
}

// BiometricMatcher matches a face/fingerprint descriptor against the
// enrolled template for a user. The result is advisory only.
type BiometricMatcher interface {
	Match(ctx context.Context, userID string, descriptor []float64) (MatchResult, error)
}

// Irregularity is the audit record dispatched when a geofence denial
// blocks a commit.
type Irregularity struct {
	UserID   string  `json:"userId"`
	SectorID string  `json:"sectorId"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Action   string  `json:"action"`
	Reason   string  `json:"reason"`
}

// ManagerAlert is the notification dispatched alongside an Irregularity.
// Metadata keys mirror the server's expected payload.
type ManagerAlert struct {
	UserID   string        `json:"userId"`
	SectorID string        `json:"sectorId"`
	Message  string        `json:"message"`
	Metadata AlertMetadata `json:"metadata"`
}

// AlertMetadata carries the punch context of a manager alert.
type AlertMetadata struct {
	Tipo    string `json:"tipo"`
	Horario string `json:"horario"`
}

// AuditSink receives irregularity records and manager alerts. Both must be
// dispatched before a geofence denial blocks the commit.
type AuditSink interface {
	ReportIrregularity(ctx context.Context, ir Irregularity) error
	AlertManager(ctx context.Context, alert ManagerAlert) error
}

// Submitter delivers an accepted punch to the server. Implementations must
// treat the record ID as an idempotency key so a replay after a lost
// acknowledgment cannot create a duplicate server record.
type Submitter interface {
	Submit(ctx context.Context, rec punch.Record) error
}

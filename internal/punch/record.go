package punch

import (
	"time"

	"github.com/google/uuid"
)

// Record is a single committed punch. Records are immutable once appended
// to a ledger; only SyncStatus advances as the submission pipeline runs.
type Record struct {
	// ID is a UUIDv7, generated at commit time. It doubles as the
	// submission idempotency key: a retried flush cannot create a
	// duplicate server record.
	ID string `json:"id"`

	Type Type `json:"type"`

	// Timestamp is the civil wall-clock time of the punch ("HH:MM:SS").
	Timestamp TimeOfDay `json:"-"`

	// Location is an optional "lat,lon" pair. Empty when geolocation was
	// unavailable at commit time.
	Location string `json:"location,omitempty"`

	Source     Source     `json:"-"`
	SyncStatus SyncStatus `json:"-"`

	// FlaggedForAudit marks a punch that was accepted optimistically while
	// the geofence service was unreachable.
	FlaggedForAudit bool `json:"flagged_for_audit,omitempty"`
}

// NewRecordID returns a time-sortable UUIDv7 for a fresh punch record.
// Panics if UUID generation fails (should never happen in practice).
func NewRecordID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// QueuedSubmission wraps a Record awaiting server acknowledgment.
// Identity is Record.ID; enqueueing the same record twice is a no-op.
type QueuedSubmission struct {
	Record Record

	// Attempts counts failed submission attempts so far.
	Attempts int

	// LastError is the message of the most recent failed attempt.
	LastError string

	// EnqueuedAt orders the queue (FIFO). Wall clock in the terminal zone.
	EnqueuedAt time.Time
}

package punch

import "fmt"

// Type identifies the four punch events a worker can register.
type Type int

const (
	// ClockIn opens a work period.
	ClockIn Type = iota + 1
	// BreakStart opens the (single) break of a split shift.
	BreakStart
	// BreakEnd closes the break.
	BreakEnd
	// ClockOut closes a work period.
	ClockOut
)

// String returns the wire name of the punch type.
func (t Type) String() string {
	switch t {
	case ClockIn:
		return "clock_in"
	case BreakStart:
		return "break_start"
	case BreakEnd:
		return "break_end"
	case ClockOut:
		return "clock_out"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Label returns the human-readable label shown on the terminal.
func (t Type) Label() string {
	switch t {
	case ClockIn:
		return "Clock In"
	case BreakStart:
		return "Break Start"
	case BreakEnd:
		return "Break End"
	case ClockOut:
		return "Clock Out"
	default:
		return "Unknown"
	}
}

// Valid reports whether t is one of the four defined punch types.
func (t Type) Valid() bool {
	switch t {
	case ClockIn, BreakStart, BreakEnd, ClockOut:
		return true
	default:
		return false
	}
}

// ParseType converts a wire name back into a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "clock_in":
		return ClockIn, nil
	case "break_start":
		return BreakStart, nil
	case "break_end":
		return BreakEnd, nil
	case "clock_out":
		return ClockOut, nil
	default:
		return 0, fmt.Errorf("unknown punch type %q", s)
	}
}

// MarshalJSON serializes the type as its wire name.
func (t Type) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid punch type %d", int(t))
	}
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON deserializes the type from its wire name.
func (t *Type) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("punch type must be a JSON string: %s", data)
	}
	parsed, err := ParseType(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Source identifies how a punch was captured.
type Source int

const (
	// SourceManual is a punch confirmed by tapping the terminal button.
	SourceManual Source = iota + 1
	// SourceFacial is a punch suggested by the facial recognition service.
	SourceFacial
	// SourceBiometric is a punch suggested by a fingerprint reader.
	SourceBiometric
)

// String returns the wire name of the source.
func (s Source) String() string {
	switch s {
	case SourceManual:
		return "manual"
	case SourceFacial:
		return "facial"
	case SourceBiometric:
		return "biometric"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// ParseSource converts a wire name back into a Source.
func ParseSource(str string) (Source, error) {
	switch str {
	case "manual":
		return SourceManual, nil
	case "facial":
		return SourceFacial, nil
	case "biometric":
		return SourceBiometric, nil
	default:
		return 0, fmt.Errorf("unknown punch source %q", str)
	}
}

// SyncStatus tracks a record's progress toward server acknowledgment.
type SyncStatus int

const (
	// SyncPending means the record has not been acknowledged by the server.
	SyncPending SyncStatus = iota + 1
	// SyncSynced means the server acknowledged the record.
	SyncSynced
	// SyncFailed means the last submission attempt failed.
	// The record remains eligible for retry; Failed is informational.
	SyncFailed
)

// String returns the wire name of the sync status.
func (s SyncStatus) String() string {
	switch s {
	case SyncPending:
		return "pending"
	case SyncSynced:
		return "synced"
	case SyncFailed:
		return "failed"
	default:
		return fmt.Sprintf("SyncStatus(%d)", int(s))
	}
}

// ParseSyncStatus converts a wire name back into a SyncStatus.
func ParseSyncStatus(str string) (SyncStatus, error) {
	switch str {
	case "pending":
		return SyncPending, nil
	case "synced":
		return SyncSynced, nil
	case "failed":
		return SyncFailed, nil
	default:
		return 0, fmt.Errorf("unknown sync status %q", str)
	}
}

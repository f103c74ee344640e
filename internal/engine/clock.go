package engine

import "time"

// Clock supplies the terminal's civil wall-clock time.
//
// Every time the engine needs "now" it asks the Clock; nothing in the
// engine calls time.Now directly. Production uses SystemClock pinned to
// the configured timezone; tests use testutil.ManualClock.
type Clock interface {
	// Now returns the current time, already located in the terminal's
	// fixed civil timezone.
	Now() time.Time
}

// SystemClock reads the system time and converts it to a fixed location.
//
// The location is loaded once from configuration (e.g. "America/Sao_Paulo")
// so that rule evaluation sees local hours even when the host runs in UTC.
type SystemClock struct {
	Location *time.Location
}

// NewSystemClock creates a SystemClock for the named IANA timezone.
func NewSystemClock(tz string) (*SystemClock, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, err
	}
	return &SystemClock{Location: loc}, nil
}

// Now returns the current time in the clock's location.
func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.Location)
}

// DateKey formats t as the calendar-day ledger key.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

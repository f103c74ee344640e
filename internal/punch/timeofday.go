package punch

import (
	"fmt"
	"time"
)

// TimeOfDay is a civil wall-clock instant within one calendar day, stored
// as seconds since local midnight.
//
// All rule arithmetic (windows, gaps, durations) happens on TimeOfDay, not
// time.Time, so a punch made at 23:59 local time is evaluated against hour
// 23 regardless of the UTC offset in effect.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}
	return TimeOfDay(h*3600 + m*60 + sec), nil
}

// TimeOfDayFrom extracts the wall-clock component of t.
// Callers are responsible for passing a time already in the terminal's zone.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	return TimeOfDay(h*3600 + m*60 + s)
}

// String formats the instant as "HH:MM:SS".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(t)/3600, int(t)/60%60, int(t)%60)
}

// Hour returns the hour component (0-23).
func (t TimeOfDay) Hour() int { return int(t) / 3600 }

// MinutesSince returns the elapsed whole minutes from earlier to t.
// Negative if earlier is actually later within the same day.
func (t TimeOfDay) MinutesSince(earlier TimeOfDay) int {
	return (int(t) - int(earlier)) / 60
}

// After reports whether t is strictly later in the day than other.
func (t TimeOfDay) After(other TimeOfDay) bool { return t > other }

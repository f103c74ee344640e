package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/shiftwise/punchcard/internal/gateway"
	"github.com/shiftwise/punchcard/internal/punch"
)

// RecordingSubmitter accepts every submission and remembers it in order.
type RecordingSubmitter struct {
	mu        sync.Mutex
	submitted []punch.Record
}

// Submit implements gateway.Submitter.
func (s *RecordingSubmitter) Submit(_ context.Context, rec punch.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitted = append(s.submitted, rec)
	return nil
}

// Submitted returns a copy of everything submitted so far, in order.
func (s *RecordingSubmitter) Submitted() []punch.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]punch.Record, len(s.submitted))
	copy(out, s.submitted)
	return out
}

// Count returns how many submissions were accepted.
func (s *RecordingSubmitter) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.submitted)
}

// FlakySubmitter fails the first FailFirst submissions, then delegates to
// an embedded RecordingSubmitter. Duplicate IDs are rejected the way the
// real endpoint deduplicates: they are acknowledged without being recorded
// twice.
type FlakySubmitter struct {
	RecordingSubmitter

	mu        sync.Mutex
	FailFirst int
	attempts  int
	seen      map[string]bool
}

// Submit implements gateway.Submitter.
func (s *FlakySubmitter) Submit(ctx context.Context, rec punch.Record) error {
	s.mu.Lock()
	s.attempts++
	if s.attempts <= s.FailFirst {
		s.mu.Unlock()
		return errors.New("simulated network failure")
	}
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[rec.ID] {
		s.mu.Unlock()
		return nil // idempotent ack, no duplicate record
	}
	s.seen[rec.ID] = true
	s.mu.Unlock()
	return s.RecordingSubmitter.Submit(ctx, rec)
}

// Attempts returns the total number of Submit calls, including failures.
func (s *FlakySubmitter) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

// Switch is a toggleable connectivity probe.
type Switch struct {
	mu sync.Mutex
	on bool
}

// NewSwitch creates a Switch in the given state.
func NewSwitch(online bool) *Switch {
	return &Switch{on: online}
}

// Online implements engine.Connectivity.
func (s *Switch) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.on
}

// SetOnline flips the connectivity state.
func (s *Switch) SetOnline(online bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.on = online
}

// StubGeofence answers every check with a fixed decision, or fails when
// Err is set (simulating an unreachable service).
type StubGeofence struct {
	Allow bool
	Err   error

	mu    sync.Mutex
	calls int
}

// Check implements gateway.GeofenceChecker.
func (g *StubGeofence) Check(context.Context, string, float64, float64) (bool, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.Err != nil {
		return false, g.Err
	}
	return g.Allow, nil
}

// Calls returns how many checks were made.
func (g *StubGeofence) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// StubBiometric answers every match with a fixed result.
type StubBiometric struct {
	Result gateway.MatchResult
	Err    error
}

// Match implements gateway.BiometricMatcher.
func (b *StubBiometric) Match(context.Context, string, []float64) (gateway.MatchResult, error) {
	if b.Err != nil {
		return gateway.MatchResult{}, b.Err
	}
	return b.Result, nil
}

// MemoryAuditSink collects irregularities and alerts in memory.
type MemoryAuditSink struct {
	mu             sync.Mutex
	Irregularities []gateway.Irregularity
	Alerts         []gateway.ManagerAlert
}

// ReportIrregularity implements gateway.AuditSink.
func (s *MemoryAuditSink) ReportIrregularity(_ context.Context, ir gateway.Irregularity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Irregularities = append(s.Irregularities, ir)
	return nil
}

// AlertManager implements gateway.AuditSink.
func (s *MemoryAuditSink) AlertManager(_ context.Context, alert gateway.ManagerAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Alerts = append(s.Alerts, alert)
	return nil
}

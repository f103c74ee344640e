// Package harness replays YAML punch scenarios against a real SQLite store
// and queue, then snapshots the observable behavior (outcomes, queue
// movement, final ledger) for golden-file comparison.
//
// Scenarios exercise the full commit pipeline end to end with only the
// clock and the network collaborators faked, so a golden diff shows exactly
// how a rule or pipeline change alters terminal behavior.
package harness

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shiftwise/punchcard/internal/engine"
	"github.com/shiftwise/punchcard/internal/punch"
	"github.com/shiftwise/punchcard/internal/queue"
	"github.com/shiftwise/punchcard/internal/store"
	"github.com/shiftwise/punchcard/internal/testutil"
)

// Identity the harness terminal is bound to. Fixed so transcripts are
// stable across runs.
const (
	harnessUserID   = "user-1"
	harnessSectorID = "sector-1"
)

// Event is one step's observable result. Record IDs are deliberately
// absent: they are random and would break golden comparison.
type Event struct {
	At      string `json:"at,omitempty"`
	Action  string `json:"action"`
	Type    string `json:"type,omitempty"`
	Verdict string `json:"verdict,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
	Warning string `json:"warning,omitempty"`
	Queued  bool   `json:"queued,omitempty"`

	// Flush results.
	Delivered int  `json:"delivered,omitempty"`
	Failed    bool `json:"failed,omitempty"`
}

// Transcript is the full observable result of a scenario run.
type Transcript struct {
	Scenario string   `json:"scenario"`
	Events   []Event  `json:"events"`
	Pending  int      `json:"pending"`
	Ledger   []string `json:"ledger"`
}

// scriptedServer is the harness's submission endpoint: toggleable
// availability and idempotent acknowledgment by record ID.
type scriptedServer struct {
	mu   sync.Mutex
	down bool
	seen map[string]bool
}

func (s *scriptedServer) Submit(_ context.Context, rec punch.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return errors.New("server unavailable")
	}
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	s.seen[rec.ID] = true
	return nil
}

func (s *scriptedServer) setDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = down
}

// Run replays the scenario against a fresh store at dbPath and returns the
// transcript. A non-nil error means the harness itself broke, not that the
// scenario observed a rejection.
func Run(ctx context.Context, sc *Scenario, dbPath string) (*Transcript, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	clock := testutil.At("00:00:00")
	online := testutil.NewSwitch(sc.Online)
	server := &scriptedServer{}
	q := queue.New(st, server, clock)

	rules := engine.DefaultRules()
	if sc.ShortShiftPolicy != "" {
		rules.ShortShiftPolicy = engine.ShortShiftPolicy(sc.ShortShiftPolicy)
	}
	ledgers := engine.NewLedgers(clock, st, sc.ContinuousShift)

	opts := []engine.CommitterOption{engine.WithSyncMarker(st)}
	switch sc.Geofence {
	case GeofenceAllow:
		opts = append(opts, engine.WithGeofence(&testutil.StubGeofence{Allow: true}))
	case GeofenceDeny:
		opts = append(opts,
			engine.WithGeofence(&testutil.StubGeofence{}),
			engine.WithAudit(&testutil.MemoryAuditSink{}))
	case GeofenceDown:
		opts = append(opts, engine.WithGeofence(&testutil.StubGeofence{
			Err: errors.New("geofence unreachable"),
		}))
	}
	committer := engine.NewCommitter(clock, ledgers, engine.NewValidator(rules),
		q, server, online, harnessUserID, harnessSectorID, opts...)

	tr := &Transcript{Scenario: sc.Name, Events: []Event{}}
	for i, step := range sc.Steps {
		if step.At != "" {
			clock.SetTimeOfDay(step.At)
		}
		ev, err := runStep(ctx, step, committer, q, online, server)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		tr.Events = append(tr.Events, ev)
	}

	if tr.Pending, err = q.PendingCount(ctx); err != nil {
		return nil, err
	}
	recs, err := st.PunchesForDay(ctx, engine.DateKey(clock.Now()))
	if err != nil {
		return nil, err
	}
	tr.Ledger = make([]string, 0, len(recs))
	for _, rec := range recs {
		line := fmt.Sprintf("%s %s %s", rec.Timestamp, rec.Type, rec.SyncStatus)
		if rec.FlaggedForAudit {
			line += " flagged"
		}
		tr.Ledger = append(tr.Ledger, line)
	}
	return tr, nil
}

func runStep(
	ctx context.Context,
	step Step,
	committer *engine.Committer,
	q *queue.Queue,
	online *testutil.Switch,
	server *scriptedServer,
) (Event, error) {
	switch {
	case step.Punch != nil:
		return runPunch(ctx, step, committer)

	case step.Flush:
		n, err := q.Flush(ctx)
		return Event{At: step.At, Action: "flush", Delivered: n, Failed: err != nil}, nil

	case step.Online != nil:
		online.SetOnline(*step.Online)
		if *step.Online {
			q.NotifyOnline()
			return Event{At: step.At, Action: "set_online"}, nil
		}
		return Event{At: step.At, Action: "set_offline"}, nil

	case step.Server != nil:
		server.setDown(!*step.Server)
		if *step.Server {
			return Event{At: step.At, Action: "server_up"}, nil
		}
		return Event{At: step.At, Action: "server_down"}, nil
	}
	return Event{}, fmt.Errorf("empty step")
}

func runPunch(ctx context.Context, step Step, committer *engine.Committer) (Event, error) {
	req := engine.CommitRequest{}
	var typ punch.Type
	if step.Punch.Type != "" {
		parsed, err := punch.ParseType(step.Punch.Type)
		if err != nil {
			return Event{}, err
		}
		req.ExplicitType = parsed
		typ = parsed
	} else {
		next, err := committer.NextExpected(ctx)
		if err != nil {
			return Event{}, err
		}
		typ = next
	}
	if step.Punch.Lat != nil {
		req.HasLocation = true
		req.Lat = *step.Punch.Lat
		req.Lon = *step.Punch.Lon
	}

	out, err := committer.Commit(ctx, req)
	if err != nil {
		return Event{}, err
	}
	return Event{
		At:      step.At,
		Action:  "punch",
		Type:    typ.String(),
		Verdict: out.Verdict.String(),
		Reason:  string(out.Reason),
		Message: out.Message,
		Warning: out.Warning,
		Queued:  out.Queued,
	}, nil
}

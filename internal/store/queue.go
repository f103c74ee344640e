package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftwise/punchcard/internal/punch"
)

// EnqueueSubmission inserts a queue row for the punch.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - enqueueing the same
// record twice is a no-op, so a crash between append and enqueue can be
// retried safely.
//
// Note: The punch referenced by sub.Record.ID must exist (foreign key).
func (s *Store) EnqueueSubmission(ctx context.Context, sub punch.QueuedSubmission) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO queue (id, attempts, last_error, enqueued_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		sub.Record.ID,
		sub.Attempts,
		sub.LastError,
		sub.EnqueuedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("enqueue submission: %w", err)
	}
	return nil
}

// PendingSubmissions returns all queued submissions in strict FIFO order
// (enqueue time, then insertion order for identical times).
func (s *Store) PendingSubmissions(ctx context.Context) ([]punch.QueuedSubmission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT q.attempts, q.last_error, q.enqueued_at,
		       p.id, p.type, p.timestamp, p.location, p.source, p.sync_status, p.flagged_for_audit
		FROM queue q
		JOIN punches p ON p.id = q.id
		ORDER BY q.enqueued_at, q.rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("read pending submissions: %w", err)
	}
	defer rows.Close()

	var out []punch.QueuedSubmission
	for rows.Next() {
		var (
			sub     punch.QueuedSubmission
			atStr   string
			typeStr string
			tsStr   string
			srcStr  string
			syncStr string
			flagged int
		)
		if err := rows.Scan(
			&sub.Attempts, &sub.LastError, &atStr,
			&sub.Record.ID, &typeStr, &tsStr, &sub.Record.Location, &srcStr, &syncStr, &flagged,
		); err != nil {
			return nil, fmt.Errorf("read pending submissions: %w", err)
		}
		if sub.EnqueuedAt, err = time.Parse(time.RFC3339Nano, atStr); err != nil {
			return nil, fmt.Errorf("read pending submissions: %w", err)
		}
		if sub.Record.Type, err = punch.ParseType(typeStr); err != nil {
			return nil, fmt.Errorf("read pending submissions: %w", err)
		}
		if sub.Record.Timestamp, err = punch.ParseTimeOfDay(tsStr); err != nil {
			return nil, fmt.Errorf("read pending submissions: %w", err)
		}
		if sub.Record.Source, err = punch.ParseSource(srcStr); err != nil {
			return nil, fmt.Errorf("read pending submissions: %w", err)
		}
		if sub.Record.SyncStatus, err = punch.ParseSyncStatus(syncStr); err != nil {
			return nil, fmt.Errorf("read pending submissions: %w", err)
		}
		sub.Record.FlaggedForAudit = flagged != 0
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read pending submissions: %w", err)
	}
	return out, nil
}

// DequeueSubmission removes a queue row after a confirmed acknowledgment.
// The punch row itself stays for the rest of the day.
func (s *Store) DequeueSubmission(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM queue WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("dequeue submission: %w", err)
	}
	return nil
}

// MarkSubmissionFailed records a failed flush attempt: attempts+1 and the
// error message, leaving the row pending for the next pass.
func (s *Store) MarkSubmissionFailed(ctx context.Context, id, lastError string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE queue SET attempts = attempts + 1, last_error = ? WHERE id = ?
	`, lastError, id)
	if err != nil {
		return fmt.Errorf("mark submission failed: %w", err)
	}
	return nil
}

// PendingCount returns the number of queued submissions. This is the value
// behind the terminal's pending badge.
func (s *Store) PendingCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM queue`).Scan(&count); err != nil {
		return 0, fmt.Errorf("pending count: %w", err)
	}
	return count, nil
}

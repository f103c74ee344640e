package store

import (
	"context"
	"fmt"

	"github.com/shiftwise/punchcard/internal/punch"
)

// WritePunch inserts a committed punch row.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are
// silently ignored. Other constraint violations still return errors.
func (s *Store) WritePunch(ctx context.Context, day string, rec punch.Record) error {
	flagged := 0
	if rec.FlaggedForAudit {
		flagged = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO punches
		(id, day, type, timestamp, location, source, sync_status, flagged_for_audit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		day,
		rec.Type.String(),
		rec.Timestamp.String(),
		rec.Location,
		rec.Source.String(),
		rec.SyncStatus.String(),
		flagged,
	)
	if err != nil {
		return fmt.Errorf("write punch: %w", err)
	}
	return nil
}

// PunchesForDay returns the day's punches ordered by timestamp.
// Rows from other days are never touched; archival is external.
func (s *Store) PunchesForDay(ctx context.Context, day string) ([]punch.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, timestamp, location, source, sync_status, flagged_for_audit
		FROM punches
		WHERE day = ?
		ORDER BY timestamp, rowid
	`, day)
	if err != nil {
		return nil, fmt.Errorf("read punches for %s: %w", day, err)
	}
	defer rows.Close()

	var out []punch.Record
	for rows.Next() {
		rec, err := scanPunch(rows)
		if err != nil {
			return nil, fmt.Errorf("read punches for %s: %w", day, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read punches for %s: %w", day, err)
	}
	return out, nil
}

// MarkPunchSynced records a server acknowledgment for the punch.
func (s *Store) MarkPunchSynced(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE punches SET sync_status = 'synced' WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("mark punch synced: %w", err)
	}
	return nil
}

// MarkPunchFailed records a failed submission attempt for the punch.
// Informational: the punch stays eligible for retry through the queue.
func (s *Store) MarkPunchFailed(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE punches SET sync_status = 'failed' WHERE id = ? AND sync_status != 'synced'
	`, id)
	if err != nil {
		return fmt.Errorf("mark punch failed: %w", err)
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPunch(r rowScanner) (punch.Record, error) {
	var (
		rec     punch.Record
		typeStr string
		tsStr   string
		srcStr  string
		syncStr string
		flagged int
	)
	if err := r.Scan(&rec.ID, &typeStr, &tsStr, &rec.Location, &srcStr, &syncStr, &flagged); err != nil {
		return punch.Record{}, err
	}

	var err error
	if rec.Type, err = punch.ParseType(typeStr); err != nil {
		return punch.Record{}, err
	}
	if rec.Timestamp, err = punch.ParseTimeOfDay(tsStr); err != nil {
		return punch.Record{}, err
	}
	if rec.Source, err = punch.ParseSource(srcStr); err != nil {
		return punch.Record{}, err
	}
	if rec.SyncStatus, err = punch.ParseSyncStatus(syncStr); err != nil {
		return punch.Record{}, err
	}
	rec.FlaggedForAudit = flagged != 0
	return rec, nil
}

package store

import (
	"context"
	"fmt"
)

// InsertRecording records a DVR entry created for an airing. The insert is a
// no-op when an entry for the channel and start time already exists.
func (s *Store) InsertRecording(ctx context.Context, r *Recording) (inserted bool, err error) {
	res, err := s.execWithRetry(ctx,
		`INSERT OR IGNORE INTO recordings (channel_id, start_ts, stop_ts, title, reason, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		r.ChannelID, r.StartTS, r.StopTS, r.Title, r.Reason, timestamp(),
	)
	if err != nil {
		return false, fmt.Errorf("insert recording: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// RecentRecordings returns the most recently created recordings.
func (s *Store) RecentRecordings(ctx context.Context, limit int) ([]Recording, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, channel_id, start_ts, stop_ts, title, reason, created_at
         FROM recordings ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}
	defer rows.Close()

	var recordings []Recording
	for rows.Next() {
		var r Recording
		var created string
		if err := rows.Scan(&r.ID, &r.ChannelID, &r.StartTS, &r.StopTS, &r.Title, &r.Reason, &created); err != nil {
			return nil, fmt.Errorf("scan recording: %w", err)
		}
		r.CreatedAt = parseTimestamp(created)
		recordings = append(recordings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recordings: %w", err)
	}
	return recordings, nil
}

// Counts returns per-table row counts for status reporting.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var counts Counts
	queries := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(1) FROM channels", &counts.Channels},
		{"SELECT COUNT(1) FROM programs", &counts.Programs},
		{"SELECT COUNT(1) FROM schedules", &counts.Schedules},
		{"SELECT COUNT(1) FROM persons", &counts.Persons},
		{"SELECT COUNT(1) FROM recordings", &counts.Recordings},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return Counts{}, fmt.Errorf("count rows: %w", err)
		}
	}
	return counts, nil
}

package store

import (
	"context"
	"fmt"
)

// InsertChannel stores a station/channel-number pair. The insert is a no-op
// when the pair already exists; inserted reports whether a row was created.
func (s *Store) InsertChannel(ctx context.Context, stationID, channelNumber string) (id int64, inserted bool, err error) {
	res, err := s.execWithRetry(ctx,
		`INSERT OR IGNORE INTO channels (station_id, channel_number, created_at) VALUES (?, ?, ?)`,
		stationID, channelNumber, timestamp(),
	)
	if err != nil {
		return 0, false, fmt.Errorf("insert channel: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return 0, false, nil
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("last insert id: %w", err)
	}
	return id, true, nil
}

// StationChannels returns the current station-to-channel mapping. When a
// station appears with several channel numbers, the earliest row wins so the
// mapping is stable across runs.
func (s *Store) StationChannels(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT station_id, id FROM channels ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list station channels: %w", err)
	}
	defer rows.Close()

	stations := make(map[string]int64)
	for rows.Next() {
		var station string
		var id int64
		if err := rows.Scan(&station, &id); err != nil {
			return nil, fmt.Errorf("scan station channel: %w", err)
		}
		if _, ok := stations[station]; !ok {
			stations[station] = id
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate station channels: %w", err)
	}
	return stations, nil
}

// ListChannels returns all stored channels ordered by channel number.
func (s *Store) ListChannels(ctx context.Context) ([]Channel, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, station_id, channel_number, created_at FROM channels ORDER BY channel_number, id`)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	var channels []Channel
	for rows.Next() {
		var ch Channel
		var created string
		if err := rows.Scan(&ch.ID, &ch.StationID, &ch.ChannelNumber, &created); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		ch.CreatedAt = parseTimestamp(created)
		channels = append(channels, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channels: %w", err)
	}
	return channels, nil
}

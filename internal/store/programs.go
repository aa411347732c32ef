package store

import (
	"context"
	"database/sql"
	"fmt"
)

// InsertProgram stores program metadata keyed by the provider identifier.
// The insert is a no-op when the remote id already exists; attributes of an
// existing program are never updated.
func (s *Store) InsertProgram(ctx context.Context, p *Program) (id int64, inserted bool, err error) {
	res, err := s.execWithRetry(ctx,
		`INSERT OR IGNORE INTO programs (
            program_id, title, description, genres, original_air_date, season, episode, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.RemoteID,
		p.Title,
		p.Description,
		p.Genres,
		nullableString(p.OriginalAirDate),
		nullableInt(p.Season),
		nullableInt(p.Episode),
		timestamp(),
	)
	if err != nil {
		return 0, false, fmt.Errorf("insert program: %w", err)
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

// ProgramRemoteIDs returns the remote-id-to-local-id mapping for every stored
// program. The key set doubles as the dedup snapshot for reconciliation.
func (s *Store) ProgramRemoteIDs(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT program_id, id FROM programs`)
	if err != nil {
		return nil, fmt.Errorf("list program ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]int64)
	for rows.Next() {
		var remote string
		var id int64
		if err := rows.Scan(&remote, &id); err != nil {
			return nil, fmt.Errorf("scan program id: %w", err)
		}
		ids[remote] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate program ids: %w", err)
	}
	return ids, nil
}

// GetProgramByRemoteID fetches a program by the provider identifier.
func (s *Store) GetProgramByRemoteID(ctx context.Context, remoteID string) (*Program, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, program_id, title, description, genres, original_air_date, season, episode, created_at
         FROM programs WHERE program_id = ?`, remoteID)

	var p Program
	var airDate sql.NullString
	var season, episode sql.NullInt64
	var created string
	err := row.Scan(&p.ID, &p.RemoteID, &p.Title, &p.Description, &p.Genres, &airDate, &season, &episode, &created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get program: %w", err)
	}
	p.OriginalAirDate = airDate.String
	if season.Valid {
		v := int(season.Int64)
		p.Season = &v
	}
	if episode.Valid {
		v := int(episode.Int64)
		p.Episode = &v
	}
	p.CreatedAt = parseTimestamp(created)
	return &p, nil
}

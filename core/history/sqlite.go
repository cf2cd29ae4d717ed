package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS solves (
	id TEXT PRIMARY KEY,
	ts INTEGER NOT NULL,
	policy TEXT NOT NULL,
	solved INTEGER NOT NULL,
	record TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS solves_ts ON solves (ts);
CREATE TABLE IF NOT EXISTS solve_players (
	solve_id TEXT NOT NULL REFERENCES solves (id),
	player TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS solve_players_player ON solve_players (player);`

// NewSQLiteStore opens or creates the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Append stores the record and indexes its roster by player name.
func (s *SQLiteStore) Append(ctx context.Context, rec Record) (err error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO solves (id, ts, policy, solved, record) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Timestamp.UnixNano(), string(rec.Policy), rec.Solved, string(b)); err != nil {
		return fmt.Errorf("insert solve: %w", err)
	}
	for _, name := range rec.Team.Players.Names() {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO solve_players (solve_id, player) VALUES (?, ?)`, rec.ID, name); err != nil {
			return fmt.Errorf("insert player: %w", err)
		}
	}
	return tx.Commit()
}

// Query returns matching records oldest first.
func (s *SQLiteStore) Query(ctx context.Context, q Query) ([]Record, error) {
	var args []any
	query := `SELECT record FROM solves WHERE 1=1`
	if !q.Start.IsZero() {
		query += ` AND ts >= ?`
		args = append(args, q.Start.UnixNano())
	}
	if !q.End.IsZero() {
		query += ` AND ts <= ?`
		args = append(args, q.End.UnixNano())
	}
	if q.Policy != "" {
		query += ` AND policy = ?`
		args = append(args, string(q.Policy))
	}
	if q.Player != "" {
		query += ` AND id IN (SELECT solve_id FROM solve_players WHERE player = ?)`
		args = append(args, q.Player)
	}
	query += ` ORDER BY ts DESC`
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var r Record
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	slices.Reverse(res)
	return res, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

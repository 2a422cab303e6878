// Package stats keeps per-turn decision statistics in sqlite for post-match
// analysis.
package stats

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// TurnStat is one row of the turns table.
type TurnStat struct {
	Session      string
	Turn         int
	BaseHP       int
	BaseStatus   string
	Allied       int
	Enemy        int
	Roles        map[string]int // role name → units
	Actions      int
	Construction int
}

// Session describes one match.
type Session struct {
	ID        string
	Side      string
	StartedAt time.Time
	EndedAt   *time.Time
	Turns     int
	Winner    string
}

type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path. ":memory:" is accepted.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			side TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT,
			turns INTEGER NOT NULL DEFAULT 0,
			winner TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS turns (
			session TEXT NOT NULL,
			turn INTEGER NOT NULL,
			base_hp INTEGER NOT NULL,
			base_status TEXT NOT NULL,
			allied INTEGER NOT NULL,
			enemy INTEGER NOT NULL,
			defend INTEGER NOT NULL,
			combat INTEGER NOT NULL,
			conquer INTEGER NOT NULL,
			explore INTEGER NOT NULL,
			exterminate INTEGER NOT NULL,
			actions INTEGER NOT NULL,
			construction INTEGER NOT NULL,
			PRIMARY KEY (session, turn)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) StartSession(ctx context.Context, id, side string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sessions (id, side, started_at) VALUES (?, ?, ?)`,
		id, side, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("start session %s: %w", id, err)
	}
	return nil
}

// EndSession stamps the end time, turn count and winner ("" when unknown).
func (s *Store) EndSession(ctx context.Context, id string, turns int, winner string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET ended_at = ?, turns = ?, winner = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), turns, winner, id)
	if err != nil {
		return fmt.Errorf("end session %s: %w", id, err)
	}
	return nil
}

// Record upserts one turn.
func (s *Store) Record(ctx context.Context, t TurnStat) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO turns
			(session, turn, base_hp, base_status, allied, enemy,
			 defend, combat, conquer, explore, exterminate, actions, construction)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Session, t.Turn, t.BaseHP, t.BaseStatus, t.Allied, t.Enemy,
		t.Roles["defend"], t.Roles["combat"], t.Roles["conquer"], t.Roles["explore"], t.Roles["exterminate"],
		t.Actions, t.Construction)
	if err != nil {
		return fmt.Errorf("record turn %d: %w", t.Turn, err)
	}
	return nil
}

// Turns returns a session's rows in turn order.
func (s *Store) Turns(ctx context.Context, session string) ([]TurnStat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT turn, base_hp, base_status, allied, enemy,
			defend, combat, conquer, explore, exterminate, actions, construction
		 FROM turns WHERE session = ? ORDER BY turn`, session)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var out []TurnStat
	for rows.Next() {
		t := TurnStat{Session: session, Roles: make(map[string]int, 5)}
		var defend, combat, conquer, explore, exterminate int
		if err := rows.Scan(&t.Turn, &t.BaseHP, &t.BaseStatus, &t.Allied, &t.Enemy,
			&defend, &combat, &conquer, &explore, &exterminate, &t.Actions, &t.Construction); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		t.Roles["defend"] = defend
		t.Roles["combat"] = combat
		t.Roles["conquer"] = conquer
		t.Roles["explore"] = explore
		t.Roles["exterminate"] = exterminate
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) Session(ctx context.Context, id string) (Session, error) {
	var (
		sess    = Session{ID: id}
		started string
		ended   sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT side, started_at, ended_at, turns, winner FROM sessions WHERE id = ?`, id).
		Scan(&sess.Side, &started, &ended, &sess.Turns, &sess.Winner)
	if err != nil {
		return sess, fmt.Errorf("session %s: %w", id, err)
	}
	if sess.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return sess, err
	}
	if ended.Valid {
		t, err := time.Parse(time.RFC3339Nano, ended.String)
		if err != nil {
			return sess, err
		}
		sess.EndedAt = &t
	}
	return sess, nil
}

package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// RoundRow represents a finished or abandoned round
type RoundRow struct {
	ID            int64     `json:"id"`
	SessionID     string    `json:"sid"`
	Outcome       string    `json:"outcome"`
	Duration      float64   `json:"duration"` // seconds
	Ticks         uint64    `json:"ticks"`
	BrandonScore  int       `json:"brandon_score"`
	JJScore       int       `json:"jj_score"`
	BrandonHealth int       `json:"brandon_hp"`
	JJHealth      int       `json:"jj_hp"`
	BossHealth    int       `json:"boss_hp"`
	CreatedAt     time.Time `json:"created_at"`
}

// PlayerTotal aggregates one avatar over all recorded rounds
type PlayerTotal struct {
	Player string `json:"player"`
	Rounds int    `json:"rounds"`
	Score  int    `json:"score"`
	Best   int    `json:"best"`
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("db: open %s: %w", path, err)
	}

	// WAL lets the analytics writer and API readers run side by side
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db: enable wal: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rounds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		outcome TEXT NOT NULL,
		duration REAL NOT NULL DEFAULT 0,
		ticks INTEGER NOT NULL DEFAULT 0,
		brandon_score INTEGER NOT NULL DEFAULT 0,
		jj_score INTEGER NOT NULL DEFAULT 0,
		brandon_hp INTEGER NOT NULL DEFAULT 0,
		jj_hp INTEGER NOT NULL DEFAULT 0,
		boss_hp INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		player TEXT,
		session_id TEXT,
		data TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analytics_type ON analytics_events(event_type);
	CREATE INDEX IF NOT EXISTS idx_analytics_created ON analytics_events(created_at);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		log.Printf("DB migration error: %v", err)
		return fmt.Errorf("db: migrate: %w", err)
	}
	return nil
}

// GetSetting returns a stored setting, or "" if unset
func (db *DB) GetSetting(key string) string {
	var v string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v)
	if err != nil {
		return ""
	}
	return v
}

// SetSetting stores a setting, replacing any previous value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// RecordRound stores a round and returns its ID
func (db *DB) RecordRound(r RoundRow) (int64, error) {
	res, err := db.conn.Exec(
		`INSERT INTO rounds (session_id, outcome, duration, ticks, brandon_score, jj_score, brandon_hp, jj_hp, boss_hp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.Outcome, r.Duration, r.Ticks, r.BrandonScore, r.JJScore, r.BrandonHealth, r.JJHealth, r.BossHealth,
	)
	if err != nil {
		return 0, fmt.Errorf("db: record round: %w", err)
	}
	return res.LastInsertId()
}

// RecentRounds returns the latest rounds, newest first
func (db *DB) RecentRounds(limit int) ([]RoundRow, error) {
	rows, err := db.conn.Query(`
		SELECT id, session_id, outcome, duration, ticks, brandon_score, jj_score, brandon_hp, jj_hp, boss_hp, created_at
		FROM rounds
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]RoundRow, 0, limit)
	for rows.Next() {
		var r RoundRow
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Outcome, &r.Duration, &r.Ticks,
			&r.BrandonScore, &r.JJScore, &r.BrandonHealth, &r.JJHealth, &r.BossHealth, &r.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// PlayerTotals returns per-avatar score totals over all rounds
func (db *DB) PlayerTotals() ([]PlayerTotal, error) {
	rows, err := db.conn.Query(`
		SELECT 'Brandon', COUNT(*), COALESCE(SUM(brandon_score), 0), COALESCE(MAX(brandon_score), 0) FROM rounds
		UNION ALL
		SELECT 'JJ', COUNT(*), COALESCE(SUM(jj_score), 0), COALESCE(MAX(jj_score), 0) FROM rounds`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []PlayerTotal
	for rows.Next() {
		var pt PlayerTotal
		if err := rows.Scan(&pt.Player, &pt.Rounds, &pt.Score, &pt.Best); err != nil {
			return nil, err
		}
		result = append(result, pt)
	}
	return result, rows.Err()
}

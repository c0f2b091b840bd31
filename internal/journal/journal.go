// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package journal persists guardian events (a snap while motion is hectic)
// so they can be reviewed later.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

var schema = []string{`
CREATE TABLE IF NOT EXISTS guardian_events (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id   TEXT    NOT NULL,
	at_unix_ms   INTEGER NOT NULL,
	score        REAL    NOT NULL,
	activity     REAL    NOT NULL,
	gyro_energy  REAL    NOT NULL,
	accel_energy REAL    NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS guardian_events_at ON guardian_events (at_unix_ms)`,
}

// Entry is one recorded guardian event.
type Entry struct {
	ID          int64     `json:"id"`
	Session     string    `json:"session"`
	At          time.Time `json:"at"`
	Score       float64   `json:"score"`
	Activity    float64   `json:"activity"`
	GyroEnergy  float64   `json:"gyro_energy"`
	AccelEnergy float64   `json:"accel_energy"`
}

// Journal is a SQLite-backed event log.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal at path.
func Open(ctx context.Context, path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	// The monitor is the only writer.
	db.SetMaxOpenConns(1)

	stmts := append([]string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"}, schema...)
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("journal: init: %w", err)
		}
	}
	return &Journal{db: db}, nil
}

// Record inserts e and returns its row ID.
func (j *Journal) Record(ctx context.Context, e Entry) (int64, error) {
	res, err := j.db.ExecContext(ctx,
		`INSERT INTO guardian_events (session_id, at_unix_ms, score, activity, gyro_energy, accel_energy)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Session, e.At.UnixMilli(), e.Score, e.Activity, e.GyroEnergy, e.AccelEnergy)
	if err != nil {
		return 0, fmt.Errorf("journal: record: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, session_id, at_unix_ms, score, activity, gyro_energy, accel_energy
		 FROM guardian_events ORDER BY at_unix_ms DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: query: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e  Entry
			ms int64
		)
		if err := rows.Scan(&e.ID, &e.Session, &ms, &e.Score, &e.Activity, &e.GyroEnergy, &e.AccelEnergy); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		e.At = time.UnixMilli(ms).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (j *Journal) Close() error {
	return j.db.Close()
}

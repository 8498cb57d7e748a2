// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package tracedb implements a waveform sink that records trace samples in a
// SQLite database, and the queries to read them back.
//
// A database can hold any number of runs. Each run gets a random identifier;
// only value changes are recorded, plus the initial value of every signal at
// the time of the first dump.
package tracedb

import (
	"context"
	"database/sql"
	_ "embed"
	"strings"
	"time"

	"github.com/db47h/hwbench"
	"github.com/pkg/errors"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "connect to database")
	}
	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err = db.Exec(pragma); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "execute %q", pragma)
		}
	}
	if _, err = db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "apply schema")
	}
	return db, nil
}

// Run describes a recorded run.
type Run struct {
	ID        string
	Path      string
	CreatedAt time.Time
}

// Signal describes a recorded signal.
type Signal struct {
	ID    int64
	Scope string // dot separated
	Name  string
	Width int
}

// FullName returns the dot separated hierarchical name of the signal.
func (s Signal) FullName() string {
	if s.Scope == "" {
		return s.Name
	}
	return s.Scope + "." + s.Name
}

// Sample is a signal value change.
type Sample struct {
	Time  hwbench.Time
	Value uint64
}

// DB gives read access to recorded traces.
type DB struct {
	db *sql.DB
}

// OpenDB opens a trace database for reading.
func OpenDB(path string) (*DB, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Runs returns all recorded runs, oldest first.
func (d *DB) Runs(ctx context.Context) ([]Run, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT id, path, created_at FROM runs ORDER BY created_at, rowid")
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		if err = rows.Scan(&r.ID, &r.Path, &created); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, errors.Wrapf(err, "run %s", r.ID)
		}
		runs = append(runs, r)
	}
	return runs, errors.Wrap(rows.Err(), "query runs")
}

// Signals returns the signals recorded for the given run, in registration
// order.
func (d *DB) Signals(ctx context.Context, runID string) ([]Signal, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT id, scope, name, width FROM signals WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, errors.Wrap(err, "query signals")
	}
	defer rows.Close()

	var sigs []Signal
	for rows.Next() {
		var s Signal
		if err = rows.Scan(&s.ID, &s.Scope, &s.Name, &s.Width); err != nil {
			return nil, errors.Wrap(err, "scan signal")
		}
		sigs = append(sigs, s)
	}
	return sigs, errors.Wrap(rows.Err(), "query signals")
}

// Samples returns the value changes of a signal, in time order. The signal
// is looked up by full name first, then by its bare name.
func (d *DB) Samples(ctx context.Context, runID, signal string) ([]Sample, error) {
	sigs, err := d.Signals(ctx, runID)
	if err != nil {
		return nil, err
	}
	id := int64(-1)
	for _, s := range sigs {
		if s.FullName() == signal {
			id = s.ID
			break
		}
	}
	if id < 0 {
		for _, s := range sigs {
			if s.Name == signal {
				id = s.ID
				break
			}
		}
	}
	if id < 0 {
		return nil, errors.Errorf("run %s: no signal %q", runID, signal)
	}

	rows, err := d.db.QueryContext(ctx,
		"SELECT time, value FROM samples WHERE run_id = ? AND signal_id = ? ORDER BY time", runID, id)
	if err != nil {
		return nil, errors.Wrap(err, "query samples")
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var t, v int64
		if err = rows.Scan(&t, &v); err != nil {
			return nil, errors.Wrap(err, "scan sample")
		}
		samples = append(samples, Sample{Time: hwbench.Time(t), Value: uint64(v)})
	}
	return samples, errors.Wrap(rows.Err(), "query samples")
}

func joinScope(scope []string) string {
	return strings.Join(scope, ".")
}

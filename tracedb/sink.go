// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tracedb

import (
	"database/sql"
	"time"

	"github.com/db47h/hwbench"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type signal struct {
	id    int64
	scope []string
	name  string
	width int
	value func() uint64
	last  uint64
}

// Sink is a hwbench.Sink recording samples into a SQLite database.
//
// All samples of a run are written in a single transaction, committed by
// Close.
type Sink struct {
	// RunID identifies the run in the database. NewSink sets it to a random
	// UUID.
	RunID string

	sigs   []*signal
	db     *sql.DB
	tx     *sql.Tx
	ins    *sql.Stmt
	dumped bool
}

var _ hwbench.Sink = (*Sink)(nil)

// NewSink returns a new sink with a fresh run identifier.
func NewSink() *Sink {
	return &Sink{RunID: uuid.NewString()}
}

// Register implements hwbench.Registry.
func (s *Sink) Register(scope []string, name string, width int, value func() uint64) {
	if width <= 0 {
		width = 1
	}
	s.sigs = append(s.sigs, &signal{
		id:    int64(len(s.sigs)),
		scope: scope,
		name:  name,
		width: width,
		value: value,
	})
}

// Open opens or creates the database at path and records the run and its
// signals.
func (s *Sink) Open(path string) (err error) {
	if s.db != nil {
		return errors.New("tracedb: already open")
	}
	db, err := open(path)
	if err != nil {
		return err
	}
	tx, err := db.Begin()
	if err != nil {
		db.Close()
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if err != nil {
			tx.Rollback()
			db.Close()
		}
	}()

	created := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err = tx.Exec("INSERT INTO runs (id, path, created_at) VALUES (?, ?, ?)", s.RunID, path, created); err != nil {
		return errors.Wrapf(err, "record run %s", s.RunID)
	}
	for _, sig := range s.sigs {
		if _, err = tx.Exec("INSERT INTO signals (run_id, id, scope, name, width) VALUES (?, ?, ?, ?, ?)",
			s.RunID, sig.id, joinScope(sig.scope), sig.name, sig.width); err != nil {
			return errors.Wrapf(err, "record signal %s", sig.name)
		}
	}
	ins, err := tx.Prepare("INSERT INTO samples (run_id, signal_id, time, value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return errors.Wrap(err, "prepare sample insert")
	}
	s.db, s.tx, s.ins = db, tx, ins
	return nil
}

// Dump records the signals whose value changed since the last dump.
func (s *Sink) Dump(t hwbench.Time) error {
	if s.db == nil {
		return errors.New("tracedb: not open")
	}
	for _, sig := range s.sigs {
		v := hwbench.Mask(sig.value(), sig.width)
		if s.dumped && v == sig.last {
			continue
		}
		sig.last = v
		// SQLite integers are signed; values are stored bit for bit.
		if _, err := s.ins.Exec(s.RunID, sig.id, int64(t), int64(v)); err != nil {
			return errors.Wrapf(err, "record %s at time %d", sig.name, t)
		}
	}
	s.dumped = true
	return nil
}

// Close commits the recorded samples and closes the database.
func (s *Sink) Close() error {
	if s.db == nil {
		return errors.New("tracedb: not open")
	}
	db := s.db
	s.db = nil
	s.ins.Close()
	if err := s.tx.Commit(); err != nil {
		db.Close()
		return errors.Wrap(err, "commit samples")
	}
	return errors.Wrap(db.Close(), "close database")
}

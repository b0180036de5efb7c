// Package store persists extraction records in SQLite, with a roaring
// bitmap index from prop name to the records that carry it.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/agentic-research/jsxprops/api"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	seq INTEGER PRIMARY KEY,
	id TEXT NOT NULL UNIQUE,
	file TEXT NOT NULL,
	element TEXT,
	names JSON,
	props JSON,
	error TEXT
);

CREATE TABLE IF NOT EXISTS prop_index (
	name TEXT PRIMARY KEY,
	bitmap BLOB NOT NULL
) WITHOUT ROWID;
`

// Writer batches records into a SQLite database. Records are inserted in
// transactions of batchSize rows; the prop index is built in memory and
// written on Close.
type Writer struct {
	db        *sql.DB
	tx        *sql.Tx
	stmt      *sql.Stmt
	index     *Index
	logger    *slog.Logger
	batchSize int
	count     int
	next      uint32
	mu        sync.Mutex
	closed    bool
}

// NewWriter creates (or truncates) the database at dbPath.
func NewWriter(dbPath string, logger *slog.Logger) (*Writer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// Bulk insert tuning
	for _, pragma := range []string{"PRAGMA synchronous = OFF", "PRAGMA journal_mode = MEMORY"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	if _, err := db.Exec("DELETE FROM records; DELETE FROM prop_index;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("reset tables: %w", err)
	}

	w := &Writer{
		db:        db,
		index:     NewIndex(),
		logger:    logger,
		batchSize: 1000,
	}
	if err := w.beginTx(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

func (w *Writer) beginTx() error {
	var err error
	w.tx, err = w.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	w.stmt, err = w.tx.Prepare(`
		INSERT INTO records (seq, id, file, element, names, props, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	return nil
}

func (w *Writer) commitTx() error {
	if w.stmt != nil {
		_ = w.stmt.Close()
		w.stmt = nil
	}
	if err := w.tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Put inserts rec and indexes its prop names. It is safe for concurrent use.
func (w *Writer) Put(ctx context.Context, rec *api.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	var names, props, errText any
	if len(rec.Names) > 0 {
		b, err := json.Marshal(rec.Names)
		if err != nil {
			return fmt.Errorf("encode names of %s: %w", rec.ID, err)
		}
		names = string(b)
	}
	if len(rec.Props) > 0 {
		props = string(rec.Props)
	}
	if rec.Error != "" {
		errText = rec.Error
	}

	seq := w.next
	if _, err := w.stmt.ExecContext(ctx, seq, rec.ID, rec.File, rec.Element, names, props, errText); err != nil {
		return fmt.Errorf("insert %s: %w", rec.ID, err)
	}
	w.next++
	for _, name := range rec.Names {
		w.index.Add(name, seq)
	}

	w.count++
	if w.count >= w.batchSize {
		if err := w.commitTx(); err != nil {
			return w.fail(err)
		}
		if err := w.beginTx(); err != nil {
			return w.fail(err)
		}
		w.count = 0
	}
	return nil
}

// fail closes a writer that can no longer insert. Later calls return
// ErrClosed. Callers hold w.mu.
func (w *Writer) fail(err error) error {
	w.closed = true
	if w.stmt != nil {
		_ = w.stmt.Close()
		w.stmt = nil
	}
	if w.tx != nil {
		_ = w.tx.Rollback()
		w.tx = nil
	}
	_ = w.db.Close()
	w.logger.Error("store writer failed", "records", w.next, "error", err)
	return err
}

// Count returns the number of records written so far.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return int(w.next)
}

// Close commits pending rows, writes the prop index and closes the
// database.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.commitTx(); err != nil {
		_ = w.db.Close()
		return err
	}
	if err := w.index.Flush(w.db); err != nil {
		_ = w.db.Close()
		return err
	}
	w.logger.Debug("store closed", "records", w.next, "props", w.index.Len())
	return w.db.Close()
}

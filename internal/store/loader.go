package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agentic-research/jsxprops/api"
	_ "modernc.org/sqlite"
)

// Reader streams records back out of a database written by Writer.
type Reader struct {
	db *sql.DB
}

func Open(dbPath string) (*Reader, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	return &Reader{db: db}, nil
}

func (r *Reader) Close() error {
	return r.db.Close()
}

// Stream calls fn for every record in insertion order. Only one record is
// alive at a time.
func (r *Reader) Stream(ctx context.Context, fn func(*api.Record) error) error {
	rows, err := r.db.QueryContext(ctx, "SELECT id, file, element, names, props, error FROM records ORDER BY seq")
	if err != nil {
		return fmt.Errorf("query records: %w", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore
	return scanRecords(rows, fn)
}

// StreamProp calls fn for every record carrying prop name. It returns
// ErrNotFound when no record does.
func (r *Reader) StreamProp(ctx context.Context, name string, fn func(*api.Record) error) error {
	bm, err := lookup(r.db, name)
	if err != nil {
		return err
	}
	if bm.IsEmpty() {
		return nil
	}

	// Chunks are ascending, so records still arrive in seq order.
	seqs := bm.ToArray()
	for start := 0; start < len(seqs); start += maxQueryVars {
		end := min(start+maxQueryVars, len(seqs))
		if err := r.streamSeqs(ctx, name, seqs[start:end], fn); err != nil {
			return err
		}
	}
	return nil
}

// maxQueryVars stays under SQLite's historical default of 999 bound
// parameters per statement.
const maxQueryVars = 900

func (r *Reader) streamSeqs(ctx context.Context, name string, seqs []uint32, fn func(*api.Record) error) error {
	args := make([]any, len(seqs))
	placeholders := make([]string, len(seqs))
	for i, seq := range seqs {
		args[i] = seq
		placeholders[i] = "?"
	}

	query := fmt.Sprintf(
		"SELECT id, file, element, names, props, error FROM records WHERE seq IN (%s) ORDER BY seq",
		strings.Join(placeholders, ","),
	)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query records for %s: %w", name, err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore
	return scanRecords(rows, fn)
}

// Props returns every indexed prop name with the number of records
// carrying it.
func (r *Reader) Props(ctx context.Context) (map[string]uint64, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT name FROM prop_index")
	if err != nil {
		return nil, fmt.Errorf("query prop_index: %w", err)
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan prop name: %w", err)
		}
		names = append(names, name)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make(map[string]uint64, len(names))
	for _, name := range names {
		bm, err := lookup(r.db, name)
		if err != nil {
			return nil, err
		}
		out[name] = bm.GetCardinality()
	}
	return out, nil
}

func scanRecords(rows *sql.Rows, fn func(*api.Record) error) error {
	for rows.Next() {
		var rec api.Record
		var element, names, props, errMsg sql.NullString
		if err := rows.Scan(&rec.ID, &rec.File, &element, &names, &props, &errMsg); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
		rec.Element = element.String
		rec.Error = errMsg.String
		if names.Valid {
			if err := json.Unmarshal([]byte(names.String), &rec.Names); err != nil {
				return fmt.Errorf("parse names of %s: %w", rec.ID, err)
			}
		}
		if props.Valid {
			rec.Props = []byte(props.String)
		}
		if err := fn(&rec); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Load reads every record of the database at dbPath.
func Load(ctx context.Context, dbPath string) ([]*api.Record, error) {
	r, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }() // safe to ignore

	var out []*api.Record
	err = r.Stream(ctx, func(rec *api.Record) error {
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

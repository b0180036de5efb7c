package store

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring"
)

var (
	// ErrNotFound is returned when no record carries the requested prop.
	ErrNotFound = errors.New("prop not found")
	// ErrClosed is returned by Put after Close.
	ErrClosed = errors.New("store closed")
)

// Index maps prop names to the set of record sequence numbers carrying
// them. Mutations happen in memory; Flush writes every bitmap in one
// transaction.
type Index struct {
	bitmaps map[string]*roaring.Bitmap
}

func NewIndex() *Index {
	return &Index{bitmaps: make(map[string]*roaring.Bitmap)}
}

// Add records that record seq has prop name.
func (x *Index) Add(name string, seq uint32) {
	bm, ok := x.bitmaps[name]
	if !ok {
		bm = roaring.New()
		x.bitmaps[name] = bm
	}
	bm.Add(seq)
}

// Get returns the bitmap for name, or nil.
func (x *Index) Get(name string) *roaring.Bitmap {
	return x.bitmaps[name]
}

// Len returns the number of distinct prop names.
func (x *Index) Len() int { return len(x.bitmaps) }

// Names returns the indexed prop names, sorted.
func (x *Index) Names() []string {
	names := make([]string, 0, len(x.bitmaps))
	for name := range x.bitmaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Flush writes all bitmaps to the prop_index table.
func (x *Index) Flush(db *sql.DB) error {
	if len(x.bitmaps) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin index flush: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // safe to ignore

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO prop_index (name, bitmap) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare prop_index insert: %w", err)
	}
	defer func() { _ = stmt.Close() }() // safe to ignore

	var buf bytes.Buffer
	for name, bm := range x.bitmaps {
		buf.Reset()
		bm.RunOptimize()
		if _, err := bm.WriteTo(&buf); err != nil {
			return fmt.Errorf("serialize bitmap for %s: %w", name, err)
		}
		if _, err := stmt.Exec(name, buf.Bytes()); err != nil {
			return fmt.Errorf("insert prop %s: %w", name, err)
		}
	}
	return tx.Commit()
}

// lookup reads the bitmap stored for name.
func lookup(db *sql.DB, name string) (*roaring.Bitmap, error) {
	var blob []byte
	err := db.QueryRow("SELECT bitmap FROM prop_index WHERE name = ?", name).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query prop_index: %w", err)
	}

	rb := roaring.New()
	if err := rb.UnmarshalBinary(blob); err != nil {
		return nil, fmt.Errorf("unmarshal bitmap: %w", err)
	}
	return rb, nil
}

package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/agentic-research/jsxprops/api"
	"github.com/agentic-research/jsxprops/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestDB(t *testing.T, records ...*api.Record) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "props.db")

	w, err := NewWriter(dbPath, testutil.NewTestLogger(t))
	require.NoError(t, err)
	for _, rec := range records {
		require.NoError(t, w.Put(context.Background(), rec))
	}
	require.NoError(t, w.Close())
	return dbPath
}

var fixtures = []*api.Record{
	{
		ID: "a.jsx", File: "src/a.jsx", Element: "div",
		Names: []string{"name", "onClick"},
		Props: []byte(`{"name":"someone","onClick":"function anonymous(\n) {\n\n}"}`),
	},
	{
		ID: "b.jsx", File: "src/b.jsx", Element: "Card",
		Names: []string{"name", "age"},
		Props: []byte(`{"name":"other","age":3}`),
	},
	{ID: "broken.jsx", File: "src/broken.jsx", Error: "1:5: syntax error"},
}

func TestWriterRoundTrip(t *testing.T) {
	dbPath := writeTestDB(t, fixtures...)

	got, err := Load(context.Background(), dbPath)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "a.jsx", got[0].ID)
	assert.Equal(t, "div", got[0].Element)
	assert.Equal(t, []string{"name", "onClick"}, got[0].Names)
	assert.JSONEq(t, string(fixtures[0].Props), string(got[0].Props))

	props, err := got[1].Decode()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "other", "age": 3.0}, props)

	assert.False(t, got[2].OK())
	assert.Equal(t, "1:5: syntax error", got[2].Error)
	assert.Empty(t, got[2].Props)
	assert.Empty(t, got[2].Names)
}

func TestStreamProp(t *testing.T) {
	dbPath := writeTestDB(t, fixtures...)

	r, err := Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	var ids []string
	err = r.StreamProp(context.Background(), "name", func(rec *api.Record) error {
		ids = append(ids, rec.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jsx", "b.jsx"}, ids)

	ids = nil
	err = r.StreamProp(context.Background(), "age", func(rec *api.Record) error {
		ids = append(ids, rec.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b.jsx"}, ids)

	err = r.StreamProp(context.Background(), "missing", func(*api.Record) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStreamStopsOnCallbackError(t *testing.T) {
	dbPath := writeTestDB(t, fixtures...)

	r, err := Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	stop := errors.New("stop")
	seen := 0
	err = r.Stream(context.Background(), func(*api.Record) error {
		seen++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, seen)
}

func TestReaderProps(t *testing.T) {
	dbPath := writeTestDB(t, fixtures...)

	r, err := Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	counts, err := r.Props(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]uint64{"name": 2, "onClick": 1, "age": 1}, counts)
}

func TestWriterBatchesAndResets(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "props.db")

	w, err := NewWriter(dbPath, testutil.NewTestLogger(t))
	require.NoError(t, err)
	w.batchSize = 2
	for _, rec := range fixtures {
		require.NoError(t, w.Put(context.Background(), rec))
	}
	assert.Equal(t, 3, w.Count())
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Put(context.Background(), fixtures[0]), ErrClosed)

	// Reopening for write starts from an empty database.
	w, err = NewWriter(dbPath, testutil.NewTestLogger(t))
	require.NoError(t, err)
	require.NoError(t, w.Put(context.Background(), fixtures[1]))
	require.NoError(t, w.Close())

	got, err := Load(context.Background(), dbPath)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b.jsx", got[0].ID)
}

func TestDuplicateIDIsRejected(t *testing.T) {
	w, err := NewWriter(filepath.Join(t.TempDir(), "props.db"), testutil.NewTestLogger(t))
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	require.NoError(t, w.Put(context.Background(), fixtures[0]))
	assert.Error(t, w.Put(context.Background(), fixtures[0]))
}

func TestIndexNames(t *testing.T) {
	x := NewIndex()
	x.Add("b", 1)
	x.Add("a", 2)
	x.Add("b", 3)

	assert.Equal(t, []string{"a", "b"}, x.Names())
	assert.Equal(t, []uint32{1, 3}, x.Get("b").ToArray())
	assert.Nil(t, x.Get("c"))
}

func TestStreamPropAcrossManyRecords(t *testing.T) {
	const n = 2*maxQueryVars + 7
	records := make([]*api.Record, n)
	for i := range records {
		records[i] = &api.Record{
			ID: fmt.Sprintf("f%05d.jsx", i), File: "src", Element: "div",
			Names: []string{"className"},
			Props: []byte(`{"className":"x"}`),
		}
	}
	dbPath := writeTestDB(t, records...)

	r, err := Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	var ids []string
	require.NoError(t, r.StreamProp(context.Background(), "className", func(rec *api.Record) error {
		ids = append(ids, rec.ID)
		return nil
	}))
	require.Len(t, ids, n)
	assert.Equal(t, "f00000.jsx", ids[0])
	assert.Equal(t, records[n-1].ID, ids[n-1])
	assert.IsIncreasing(t, ids)
}

func TestWriterClosesWhenBatchRestartFails(t *testing.T) {
	w, err := NewWriter(filepath.Join(t.TempDir(), "props.db"), testutil.NewTestLogger(t))
	require.NoError(t, err)
	w.batchSize = 1

	// The open transaction keeps its connection; the next Begin fails.
	require.NoError(t, w.db.Close())

	assert.Error(t, w.Put(context.Background(), fixtures[0]))
	assert.NotPanics(t, func() {
		assert.ErrorIs(t, w.Put(context.Background(), fixtures[1]), ErrClosed)
	})
	assert.NoError(t, w.Close())
}

// Package ingest runs prop extraction over a tree of source files and
// delivers one record per file to a Sink.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/agentic-research/jsxprops/api"
	"github.com/agentic-research/jsxprops/internal/props"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"golang.org/x/sync/errgroup"
)

// DefaultExtensions are the file extensions extracted when none are
// configured.
var DefaultExtensions = []string{".jsx", ".js", ".tsx"}

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
}

// Sink receives records. Put is called from a single goroutine in walk
// order.
type Sink interface {
	Put(ctx context.Context, rec *api.Record) error
}

// Stats summarizes one run.
type Stats struct {
	Files   int // files extracted
	Failed  int // files that produced an error record
	Skipped int // matching files skipped as binary
}

// Engine drives batch extraction.
type Engine struct {
	FS         billy.Filesystem
	Extractor  *props.Extractor
	Extensions []string
	Workers    int
	Logger     *slog.Logger
}

func NewEngine(fs billy.Filesystem, extractor *props.Extractor) *Engine {
	return &Engine{
		FS:         fs,
		Extractor:  extractor,
		Extensions: DefaultExtensions,
		Workers:    runtime.GOMAXPROCS(0),
		Logger:     slog.Default(),
	}
}

// Run extracts every matching file under root and delivers the records to
// sink in lexical path order. Parse failures become records with Error
// set; only I/O, sink and context errors abort the run.
func (e *Engine) Run(ctx context.Context, root string, sink Sink) (Stats, error) {
	var stats Stats

	files, err := e.collect(root)
	if err != nil {
		return stats, err
	}
	e.Logger.Debug("ingest start", "root", root, "files", len(files), "workers", e.workers())

	records := make([]*api.Record, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())
	for i, path := range files {
		g.Go(func() error {
			rec, err := e.extractFile(gctx, root, path)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}

	for _, rec := range records {
		if rec == nil {
			stats.Skipped++
			continue
		}
		stats.Files++
		if !rec.OK() {
			stats.Failed++
		}
		if err := sink.Put(ctx, rec); err != nil {
			return stats, fmt.Errorf("sink %s: %w", rec.ID, err)
		}
	}

	e.Logger.Info("ingest done", "root", root, "files", stats.Files, "failed", stats.Failed, "skipped", stats.Skipped)
	return stats, nil
}

// collect lists the files under root whose extension is configured.
func (e *Engine) collect(root string) ([]string, error) {
	var files []string
	err := util.Walk(e.FS, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if e.matches(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	slices.Sort(files)
	return files, nil
}

func (e *Engine) matches(path string) bool {
	exts := e.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	return slices.Contains(exts, strings.ToLower(filepath.Ext(path)))
}

func (e *Engine) workers() int {
	if e.Workers < 1 {
		return 1
	}
	return e.Workers
}

// extractFile returns nil for binary files.
func (e *Engine) extractFile(ctx context.Context, root, path string) (*api.Record, error) {
	data, err := util.ReadFile(e.FS, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if isBinary(data) {
		e.Logger.Debug("skipping binary file", "path", path)
		return nil, nil
	}

	rec := &api.Record{ID: relPath(root, path), File: filepath.ToSlash(path)}
	el, err := e.Extractor.ExtractElement(ctx, data)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		e.Logger.Warn("extract failed", "path", path, "error", err)
		rec.Error = err.Error()
		return rec, nil
	}

	encoded, err := el.Props.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode props of %s: %w", path, err)
	}
	rec.Element = el.Name
	rec.Names = el.Props.Keys()
	rec.Props = encoded
	return rec, nil
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// isBinary reports whether data looks like a binary file: a NUL byte in
// the first 8000 bytes, the same heuristic git uses.
func isBinary(data []byte) bool {
	if len(data) > 8000 {
		data = data[:8000]
	}
	return bytes.IndexByte(data, 0) >= 0
}

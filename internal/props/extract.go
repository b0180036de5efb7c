package props

import (
	"context"
	"log/slog"
	"sync"

	"github.com/agentic-research/jsxprops/internal/jsrt"
	"github.com/agentic-research/jsxprops/internal/syntax"
)

// CompilerFactory creates the compiler used for the function props of one
// extraction.
type CompilerFactory func(logger *slog.Logger) jsrt.Compiler

// Element is the result of extracting a snippet: the element's tag name
// and its props.
type Element struct {
	Name  string
	Props *Props
}

// Extractor extracts props from JSX snippets. The zero value is not usable;
// create one with NewExtractor. An Extractor holds no per-call state and is
// safe for concurrent use.
type Extractor struct {
	logger      *slog.Logger
	newCompiler CompilerFactory
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger for diagnostics and for console calls made by
// compiled functions.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithCompiler replaces the goja-backed compiler.
func WithCompiler(f CompilerFactory) Option {
	return func(e *Extractor) {
		if f != nil {
			e.newCompiler = f
		}
	}
}

// NewExtractor creates an Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		logger: slog.Default(),
		newCompiler: func(logger *slog.Logger) jsrt.Compiler {
			return jsrt.New(logger)
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the props of the first top-level element in src. Parse
// failures are logged and produce empty Props; Extract never fails.
func Extract(src string) *Props {
	return NewExtractor().Extract(context.Background(), src)
}

// Extract returns the props of the first top-level element in src. Parse
// failures are logged and produce empty Props.
func (e *Extractor) Extract(ctx context.Context, src string) *Props {
	el, err := e.ExtractElement(ctx, []byte(src))
	if err != nil {
		e.logger.Error("error parsing code", "error", err)
		return New()
	}
	return el.Props
}

// ExtractElement is Extract with the parse error reported to the caller.
// The error is a *syntax.ParseError, syntax.ErrNoElement or a context
// error.
func (e *Extractor) ExtractElement(ctx context.Context, src []byte) (*Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	el, err := syntax.Parse(ctx, src)
	if err != nil {
		return nil, err
	}

	r := NewResolver(&lazyCompiler{factory: e.newCompiler, logger: e.logger}, e.logger)
	out := New()
	for _, attr := range el.Attributes {
		if attr.Name == "" {
			e.logger.Warn("skipping spread attribute", "source", attr.Text())
			continue
		}
		out.Set(attr.Name, r.Resolve(attr))
	}
	return &Element{Name: el.Name, Props: out}, nil
}

// lazyCompiler defers creating the runtime until the first function prop,
// so snippets without functions never start a VM.
type lazyCompiler struct {
	factory CompilerFactory
	logger  *slog.Logger

	once     sync.Once
	compiler jsrt.Compiler
}

func (l *lazyCompiler) Compile(params []string, body string) (*jsrt.Function, error) {
	l.once.Do(func() {
		l.compiler = l.factory(l.logger)
	})
	return l.compiler.Compile(params, body)
}

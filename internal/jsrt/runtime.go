// Package jsrt compiles reconstructed function bodies into callable
// JavaScript functions using an embedded goja runtime.
package jsrt

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/dop251/goja"
)

// Compiler turns a parameter list and body text into a callable, the way
// the JavaScript Function constructor does.
type Compiler interface {
	Compile(params []string, body string) (*Function, error)
}

// Runtime is a goja runtime with a console bound to a slog.Logger. A goja
// runtime is not goroutine safe; every entry into the VM holds mu.
type Runtime struct {
	mu     sync.Mutex
	vm     *goja.Runtime
	ctor   goja.Constructor
	logger *slog.Logger
}

// New creates a Runtime. A nil logger means slog.Default().
func New(logger *slog.Logger) *Runtime {
	if logger == nil {
		logger = slog.Default()
	}
	vm := goja.New()
	r := &Runtime{vm: vm, logger: logger}

	ctor, ok := goja.AssertConstructor(vm.Get("Function"))
	if !ok {
		// The global Function constructor is part of every goja runtime.
		panic("jsrt: Function is not a constructor")
	}
	r.ctor = ctor
	r.installConsole()
	return r
}

var _ Compiler = (*Runtime)(nil)

// Compile builds a function with the given formal parameters and body. On a
// compile error the returned Function is still usable for its source form
// and reports the error from Err and Call.
func (r *Runtime) Compile(params []string, body string) (*Function, error) {
	f := &Function{params: append([]string(nil), params...), body: body, rt: r}

	r.mu.Lock()
	defer r.mu.Unlock()

	args := make([]goja.Value, 0, len(params)+1)
	for _, p := range params {
		args = append(args, r.vm.ToValue(p))
	}
	args = append(args, r.vm.ToValue(body))

	obj, err := r.ctor(nil, args...)
	if err != nil {
		f.err = err
		f.source = Source(params, body)
		f.arity = len(params)
		return f, err
	}
	call, ok := goja.AssertFunction(obj)
	if !ok {
		f.err = errNotCallable
		f.source = Source(params, body)
		f.arity = len(params)
		return f, f.err
	}
	f.call = call
	f.source = obj.String()
	f.arity = int(obj.Get("length").ToInteger())
	return f, nil
}

// Source renders the canonical source text the Function constructor
// produces for params and body.
func Source(params []string, body string) string {
	var sb strings.Builder
	sb.WriteString("function anonymous(")
	sb.WriteString(strings.Join(params, ","))
	sb.WriteString("\n) {\n")
	sb.WriteString(body)
	sb.WriteString("\n}")
	return sb.String()
}

func (r *Runtime) installConsole() {
	console := r.vm.NewObject()
	levels := map[string]slog.Level{
		"log":   slog.LevelInfo,
		"info":  slog.LevelInfo,
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, level := range levels {
		_ = console.Set(name, func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				parts[i] = arg.String()
			}
			r.logger.Log(context.Background(), level, strings.Join(parts, " "), "source", "console."+name)
			return goja.Undefined()
		})
	}
	_ = r.vm.Set("console", console)
}

package jsrt

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/dop251/goja"
)

var errNotCallable = errors.New("jsrt: compiled value is not callable")

// Descriptor is a function under reconstruction: parameter names and the
// text of each body statement, in order.
type Descriptor struct {
	Params []string
	Body   []string
}

// BodyText joins the statements with ";\n".
func (d Descriptor) BodyText() string {
	return strings.Join(d.Body, ";\n")
}

// Compile hands the descriptor to c.
func (d Descriptor) Compile(c Compiler) (*Function, error) {
	return c.Compile(d.Params, d.BodyText())
}

// Function is a compiled JavaScript function.
type Function struct {
	params []string
	body   string
	source string
	arity  int
	err    error

	rt   *Runtime
	call goja.Callable
}

// Params returns the formal parameter names.
func (f *Function) Params() []string { return append([]string(nil), f.params...) }

// Body returns the body text the function was compiled from.
func (f *Function) Body() string { return f.body }

// Arity is the function's length property: the number of formal parameters
// before the first default or rest parameter.
func (f *Function) Arity() int { return f.arity }

// String returns the canonical source form, identical to
// Function.prototype.toString of the compiled function.
func (f *Function) String() string { return f.source }

// Err reports the compile error, if any.
func (f *Function) Err() error { return f.err }

// MarshalJSON renders the function as its source string.
func (f *Function) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.source)
}

// Call invokes the function with this = undefined.
func (f *Function) Call(args ...any) (any, error) {
	return f.CallContext(context.Background(), args...)
}

// CallContext invokes the function and interrupts it when ctx is done.
// Arguments are converted with goja's ToValue, the result is exported to a
// Go value.
func (f *Function) CallContext(ctx context.Context, args ...any) (any, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.call == nil {
		return nil, errNotCallable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.rt.mu.Lock()
	defer f.rt.mu.Unlock()
	vm := f.rt.vm

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()
	defer func() {
		close(done)
		wg.Wait()
		vm.ClearInterrupt()
	}()

	values := make([]goja.Value, len(args))
	for i, a := range args {
		values[i] = vm.ToValue(a)
	}
	ret, err := f.call(goja.Undefined(), values...)
	if err != nil {
		return nil, err
	}
	return ret.Export(), nil
}

// Uncompiled returns a function that was never compiled; it renders its
// canonical source and fails every call with err.
func Uncompiled(params []string, body string, err error) *Function {
	if err == nil {
		err = errNotCallable
	}
	return &Function{
		params: append([]string(nil), params...),
		body:   body,
		source: Source(params, body),
		arity:  len(params),
		err:    err,
	}
}

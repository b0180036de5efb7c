package jsrt

import (
	"context"
	"testing"
	"time"

	"github.com/agentic-research/jsxprops/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileSourceForm(t *testing.T) {
	rt := New(testutil.NewTestLogger(t))

	fn, err := rt.Compile([]string{"event", "index"}, `console.log("clicked")`)
	require.NoError(t, err)

	assert.Equal(t, 2, fn.Arity())
	assert.Equal(t, "function anonymous(event,index\n) {\nconsole.log(\"clicked\")\n}", fn.String())
	assert.Equal(t, Source([]string{"event", "index"}, `console.log("clicked")`), fn.String())
	assert.Equal(t, []string{"event", "index"}, fn.Params())
	assert.NoError(t, fn.Err())
}

func TestCompileAndCall(t *testing.T) {
	rt := New(testutil.NewTestLogger(t))

	fn, err := rt.Compile([]string{"a", "b"}, "return a + b")
	require.NoError(t, err)

	got, err := fn.Call(2, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 5, got)

	got, err = fn.Call("x", "y")
	require.NoError(t, err)
	assert.Equal(t, "xy", got)
}

func TestCallWithoutReturnIsNil(t *testing.T) {
	rt := New(testutil.NewTestLogger(t))
	fn, err := rt.Compile(nil, "var x = 1")
	require.NoError(t, err)

	got, err := fn.Call()
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 0, fn.Arity())
}

func TestCompileErrorKeepsSource(t *testing.T) {
	rt := New(testutil.NewTestLogger(t))

	fn, err := rt.Compile([]string{"a"}, "return )")
	require.Error(t, err)
	require.NotNil(t, fn)

	assert.Equal(t, Source([]string{"a"}, "return )"), fn.String())
	assert.Equal(t, 1, fn.Arity())
	assert.Error(t, fn.Err())

	_, callErr := fn.Call()
	assert.Error(t, callErr)
}

func TestRuntimeErrorIsReturned(t *testing.T) {
	rt := New(testutil.NewTestLogger(t))
	fn, err := rt.Compile(nil, `throw new Error("boom")`)
	require.NoError(t, err)

	_, err = fn.Call()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestConsoleIsBoundToLogger(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	rt := New(logger)

	fn, err := rt.Compile([]string{"index"}, `console.warn("clicked", index)`)
	require.NoError(t, err)
	_, err = fn.Call(7)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "clicked 7")
	assert.Contains(t, out, "source=console.warn")
}

func TestCallContextInterrupts(t *testing.T) {
	rt := New(testutil.NewTestLogger(t))
	fn, err := rt.Compile(nil, "for (;;) {}")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = fn.CallContext(ctx)
	require.Error(t, err)

	// The runtime is usable again after an interrupt.
	ok, err := rt.Compile(nil, "return 1")
	require.NoError(t, err)
	got, err := ok.Call()
	require.NoError(t, err)
	assert.EqualValues(t, 1, got)
}

func TestDescriptorBodyText(t *testing.T) {
	d := Descriptor{
		Params: []string{"event", "index"},
		Body:   []string{`console.log("clicked", 1, index)`, "return 2"},
	}
	assert.Equal(t, "console.log(\"clicked\", 1, index);\nreturn 2", d.BodyText())

	fn, err := d.Compile(New(testutil.NewTestLogger(t)))
	require.NoError(t, err)
	got, err := fn.Call(nil, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got)
}

func TestFunctionMarshalJSON(t *testing.T) {
	rt := New(testutil.NewTestLogger(t))
	fn, err := rt.Compile(nil, "return 1")
	require.NoError(t, err)

	b, err := fn.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"function anonymous(\n) {\nreturn 1\n}"`, string(b))
}

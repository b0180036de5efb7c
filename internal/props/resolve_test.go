package props

import (
	"encoding/json"
	"testing"

	"github.com/agentic-research/jsxprops/internal/jsrt"
	"github.com/agentic-research/jsxprops/internal/syntax"
	"github.com/agentic-research/jsxprops/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	logger := testutil.NewTestLogger(t)
	return NewResolver(jsrt.New(logger), logger)
}

func TestResolveLiterals(t *testing.T) {
	r := newTestResolver(t)

	assert.Equal(t, "someone", r.Resolve(syntax.NewString("someone")))
	assert.Equal(t, 570000.0, r.Resolve(syntax.NewNumber(570000)))
	assert.Equal(t, "x", r.Resolve(syntax.NewContainer(syntax.NewString("x"))))
	assert.Equal(t, "x", r.Resolve(syntax.NewAttribute("a", syntax.NewString("x"))))
}

func TestResolveUnwrapsValuedNodes(t *testing.T) {
	r := newTestResolver(t)

	prop := syntax.NewProperty("k", syntax.NewNumber(3))
	assert.Equal(t, 3.0, r.Resolve(prop))

	// A property with no value node falls through to its own arm.
	assert.Equal(t, "", r.Resolve(syntax.NewProperty("k", nil)))
}

func TestResolveFallbacks(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	r := NewResolver(jsrt.New(logger), logger)

	assert.Equal(t, "", r.Resolve(nil))
	assert.Equal(t, "", r.Resolve(syntax.NewIdentifier("foo")))
	assert.Equal(t, "", r.Resolve(syntax.NewOther("TemplateLiteral", nil)))
	assert.Equal(t, true, r.Resolve(syntax.NewOther("BooleanLiteral", true)))
	assert.Equal(t, false, r.Resolve(syntax.NewOther("false", false)))
	assert.Equal(t, -2.0, r.Resolve(syntax.NewOther("unary_expression", -2.0)))
	assert.Equal(t, "", r.Resolve(syntax.NewAttribute("disabled", nil)))

	out := buf.String()
	assert.Contains(t, out, "type=Identifier")
	assert.Contains(t, out, "type=TemplateLiteral")
	assert.Contains(t, out, "type=JSXAttribute")
}

func TestResolveComposites(t *testing.T) {
	r := newTestResolver(t)

	obj := syntax.NewObject(
		syntax.NewProperty("name", syntax.NewString("india")),
		syntax.NewProperty("tags", syntax.NewArray(syntax.NewString("a"), nil, syntax.NewNumber(2))),
		syntax.NewProperty("nested", syntax.NewObject(
			syntax.NewProperty("deep", syntax.NewObject(syntax.NewProperty("x", syntax.NewNumber(1)))),
		)),
		syntax.NewProperty("unknown", syntax.NewIdentifier("y")),
	)

	want := map[string]any{
		"name":    "india",
		"tags":    []any{"a", 2.0},
		"nested":  map[string]any{"deep": map[string]any{"x": 1.0}},
		"unknown": "",
	}
	assert.Equal(t, want, r.Resolve(obj))
	// Resolution builds fresh values and never mutates the tree.
	assert.Equal(t, want, r.Resolve(obj))

	assert.Equal(t, []any{}, r.Resolve(syntax.NewArray()))
	assert.Equal(t, map[string]any{}, r.Resolve(syntax.NewObject()))
}

func TestReconstructFunction(t *testing.T) {
	r := newTestResolver(t)

	fn := syntax.NewFunction([]string{"event", "index"},
		syntax.NewMethodCall("console", "log",
			syntax.NewString("clicked"), syntax.NewNumber(1), syntax.NewIdentifier("index")),
		syntax.NewReturn(syntax.NewNumber(2)),
	)

	got, ok := r.Resolve(fn).(*jsrt.Function)
	require.True(t, ok)
	assert.Equal(t, []string{"event", "index"}, got.Params())
	assert.Equal(t, "console.log(\"clicked\", 1, index);\nreturn 2", got.Body())
	assert.Equal(t, "function anonymous(event,index\n) {\nconsole.log(\"clicked\", 1, index);\nreturn 2\n}", got.String())

	v, err := got.Call(nil, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, v)
}

func TestReconstructPlaceholder(t *testing.T) {
	r := newTestResolver(t)

	fn := syntax.NewFunction([]string{"x"}, syntax.NewOther("IfStatement", nil))
	got, ok := r.Resolve(fn).(*jsrt.Function)
	require.True(t, ok)
	assert.Equal(t, `"Could not get string for this statement type: IfStatement"`, got.Body())
	assert.NoError(t, got.Err())

	v, err := got.Call(1)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestReconstructReturnOfComposite(t *testing.T) {
	r := newTestResolver(t)

	fn := syntax.NewFunction(nil, syntax.NewReturn(syntax.NewObject(
		syntax.NewProperty("b", syntax.NewArray(syntax.NewNumber(1.5), syntax.NewString("q"))),
		syntax.NewProperty("a", syntax.NewNumber(1e21)),
	)))
	got := r.Resolve(fn).(*jsrt.Function)
	assert.Equal(t, `return {"a":1e+21,"b":[1.5,"q"]}`, got.Body())

	v, err := got.Call()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1e21, "b": []any{1.5, "q"}}, v)
}

func TestReconstructNestedFunctionArgument(t *testing.T) {
	r := newTestResolver(t)

	inner := syntax.NewFunction([]string{"v"}, syntax.NewReturn(syntax.NewIdentifier("v")))
	fn := syntax.NewFunction([]string{"xs"},
		syntax.NewMethodCall("xs", "forEach", inner),
	)
	got := r.Resolve(fn).(*jsrt.Function)
	assert.Equal(t, "xs.forEach(function anonymous(v\n) {\nreturn v\n})", got.Body())
	assert.NoError(t, got.Err())
}

func TestReconstructCompileErrorIsKept(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	r := NewResolver(jsrt.New(logger), logger)

	fn := syntax.NewFunction([]string{"a"}, syntax.NewOther("Broken", nil))
	fn.Body[0] = &brokenStatement{text: "return )("}

	got := r.Resolve(fn).(*jsrt.Function)
	assert.Error(t, got.Err())
	assert.Equal(t, "return )(", got.Body())
	_, err := got.Call(1)
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "function compile failed")
}

type brokenStatement struct{ text string }

func (b *brokenStatement) Kind() syntax.Kind { return syntax.KindOther }
func (b *brokenStatement) Text() string      { return b.text }

func TestMemberPath(t *testing.T) {
	m := syntax.NewMethodCall("window", "location").Expression.(*syntax.CallExpression).Callee

	path, ok := memberPath(m)
	require.True(t, ok)
	assert.Equal(t, "window.location", path)

	_, ok = memberPath(syntax.NewIdentifier("x"))
	assert.False(t, ok)

	m.(*syntax.MemberExpression).Optional = true
	_, ok = memberPath(m)
	assert.False(t, ok)
}

func TestEncodeJSON(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{"clicked", `"clicked"`},
		{`say "hi"`, `"say \"hi\""`},
		{"a<b&c", `"a<b&c"`},
		{"line\nbreak", `"line\nbreak"`},
		{"a\u2028b\u2029", "\"a\u2028b\u2029\""},
		{"\u2028", "\"\u2028\""},
		{map[string]any{"k\u2029": "\\u2028"}, "{\"k\u2029\":\"\\\\u2028\"}"},
		{true, "true"},
		{1.0, "1"},
		{-2.5, "-2.5"},
		{570000.0, "570000"},
		{1e21, "1e+21"},
		{1e-7, "1e-7"},
		{0.000001, "0.000001"},
		{[]any{1.0, "a"}, `[1,"a"]`},
		{map[string]any{"z": 1.0, "a": []any{}}, `{"a":[],"z":1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, encodeJSON(tt.in))
	}
}

func TestPropsOrderAndJSON(t *testing.T) {
	p := New()
	p.Set("name", "someone")
	p.Set("age", 1.0)
	p.Set("address", map[string]any{"city": "bangalore"})
	p.Set("name", "other")

	assert.Equal(t, []string{"name", "age", "address"}, p.Keys())
	assert.Equal(t, 3, p.Len())

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"other","age":1,"address":{"city":"bangalore"}}`, string(data))
	assert.Regexp(t, `^\{"name":.*"age":.*"address":`, string(data))

	_, ok := p.Function("name")
	assert.False(t, ok)
	_, ok = p.Function("missing")
	assert.False(t, ok)
}

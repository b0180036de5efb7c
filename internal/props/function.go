package props

import (
	"fmt"
	"strings"

	"github.com/agentic-research/jsxprops/internal/jsrt"
	"github.com/agentic-research/jsxprops/internal/syntax"
)

const placeholderFormat = "Could not get string for this statement type: %s"

// reconstruct rebuilds fn's body as source text and compiles it. Compile
// errors are logged; the returned function then reports them from Call.
func (r *Resolver) reconstruct(fn *syntax.FunctionExpression) *jsrt.Function {
	var d jsrt.Descriptor
	for _, p := range fn.Params {
		d.Params = append(d.Params, p.Name)
	}
	for _, stmt := range fn.Body {
		d.Body = append(d.Body, r.statementText(stmt))
	}

	f, err := d.Compile(r.compiler)
	if err != nil {
		r.logger.Warn("function compile failed", "error", err, "body", d.BodyText())
	}
	if f == nil {
		f = jsrt.Uncompiled(d.Params, d.BodyText(), err)
	}
	return f
}

// statementText renders one body statement. Method calls and returns are
// rebuilt from their parts; other statements keep their source text, and
// statements with neither become an inert string expression.
func (r *Resolver) statementText(stmt syntax.Node) string {
	switch s := stmt.(type) {
	case *syntax.ExpressionStatement:
		if call, ok := s.Expression.(*syntax.CallExpression); ok && !call.Optional {
			if callee, ok := memberPath(call.Callee); ok {
				return callee + "(" + r.argumentList(call.Arguments) + ")"
			}
		}
	case *syntax.ReturnStatement:
		if s.Argument != nil {
			return "return " + r.argumentText(s.Argument)
		}
	}

	if stmt != nil {
		if text := trimStatement(stmt.Text()); text != "" {
			return text
		}
	}
	return encodeJSON(fmt.Sprintf(placeholderFormat, syntax.TypeName(stmt)))
}

func (r *Resolver) argumentList(args []syntax.Node) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = r.argumentText(arg)
	}
	return strings.Join(parts, ", ")
}

// argumentText emits identifiers as bare names so they keep referring to
// parameters. Expressions without a literal value keep their source text;
// everything else is resolved and written as JSON.
func (r *Resolver) argumentText(arg syntax.Node) string {
	switch a := arg.(type) {
	case *syntax.Identifier:
		return a.Name
	case *syntax.MemberExpression, *syntax.CallExpression, *syntax.Other:
		if text := arg.Text(); text != "" {
			return text
		}
	}
	return encodeJSON(r.Resolve(arg))
}

// memberPath renders `a.b.c` for a member expression rooted at an
// identifier. Optional links are not rendered; callers fall back to the
// source text.
func memberPath(n syntax.Node) (string, bool) {
	m, ok := n.(*syntax.MemberExpression)
	if !ok || m.Property == "" || m.Optional {
		return "", false
	}
	var receiver string
	switch obj := m.Object.(type) {
	case *syntax.Identifier:
		receiver = obj.Name
	case *syntax.MemberExpression:
		path, ok := memberPath(obj)
		if !ok {
			return "", false
		}
		receiver = path
	default:
		return "", false
	}
	return receiver + "." + m.Property, true
}

func trimStatement(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, ";")
	return strings.TrimSpace(text)
}

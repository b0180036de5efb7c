// Package props materializes the attribute values of a JSX element as Go
// values: strings, numbers, maps, slices and compiled functions.
package props

import (
	"log/slog"

	"github.com/agentic-research/jsxprops/internal/jsrt"
	"github.com/agentic-research/jsxprops/internal/syntax"
)

// Resolver converts syntax nodes into values. Function literals are
// compiled with Compiler.
type Resolver struct {
	compiler jsrt.Compiler
	logger   *slog.Logger
}

// NewResolver returns a Resolver. A nil logger means slog.Default().
func NewResolver(compiler jsrt.Compiler, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{compiler: compiler, logger: logger}
}

// Resolve returns the value of node. It never fails: nodes outside the
// handled set are logged and resolve to their literal value when they have
// one, "" otherwise.
func (r *Resolver) Resolve(node syntax.Node) any {
	if node == nil {
		r.logger.Warn("unhandled node type", "type", "empty expression")
		return ""
	}

	// Attributes and properties wrap a separate value node.
	if v, ok := node.(syntax.Valued); ok {
		if inner := v.ValueNode(); inner != nil {
			node = inner
		}
	}

	switch n := node.(type) {
	case *syntax.StringLiteral:
		return n.Value
	case *syntax.NumericLiteral:
		return n.Value
	case *syntax.ObjectExpression:
		return r.materializeObject(n)
	case *syntax.ArrayExpression:
		return r.materializeArray(n)
	case *syntax.ObjectProperty:
		// Only reached for a property without a value node.
		return ""
	case *syntax.FunctionExpression:
		return r.reconstruct(n)
	case *syntax.ExpressionContainer:
		return r.Resolve(n.Expression)
	default:
		r.logger.Warn("unhandled node type", "type", syntax.TypeName(node))
		if o, ok := node.(*syntax.Other); ok && o.Value != nil {
			return o.Value
		}
		return ""
	}
}

// materializeObject folds properties in tree order; the last duplicate key
// wins.
func (r *Resolver) materializeObject(n *syntax.ObjectExpression) map[string]any {
	out := make(map[string]any, len(n.Properties))
	for _, prop := range n.Properties {
		if prop == nil {
			continue
		}
		out[prop.Key] = r.Resolve(prop)
	}
	return out
}

func (r *Resolver) materializeArray(n *syntax.ArrayExpression) []any {
	out := make([]any, 0, len(n.Elements))
	for _, elem := range n.Elements {
		if elem == nil {
			continue
		}
		out = append(out, r.Resolve(elem))
	}
	return out
}

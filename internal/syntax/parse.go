package syntax

import (
	"bytes"
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// tree-sitter JavaScript node types used by the converter.
const (
	tsProgram             = "program"
	tsComment             = "comment"
	tsExpressionStatement = "expression_statement"
	tsReturnStatement     = "return_statement"
	tsParenthesized       = "parenthesized_expression"
	tsJSXElement          = "jsx_element"
	tsJSXSelfClosing      = "jsx_self_closing_element"
	tsJSXOpening          = "jsx_opening_element"
	tsJSXAttribute        = "jsx_attribute"
	tsJSXExpression       = "jsx_expression"
)

// Parse parses source as JavaScript with JSX and returns the first
// top-level element. A tree containing syntax errors yields a *ParseError; a
// valid program whose first statement is not an element yields ErrNoElement.
func Parse(ctx context.Context, source []byte) (*Element, error) {
	if len(bytes.TrimSpace(source)) == 0 {
		return nil, ErrNoElement
	}
	tree, err := parse(ctx, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("tree-sitter returned nil root")
	}
	if root.HasError() {
		return nil, newParseError(root)
	}

	el := firstElement(root)
	if el == nil {
		return nil, ErrNoElement
	}
	c := &converter{src: source}
	return c.element(el), nil
}

// Check returns every syntax error location in source. A nil slice means
// the source parsed cleanly.
func Check(ctx context.Context, source []byte) ([]ParseError, error) {
	tree, err := parse(ctx, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || !root.HasError() {
		return nil, nil
	}
	var errs []ParseError
	collectErrors(root, &errs)
	return errs, nil
}

func parse(ctx context.Context, source []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	return tree, nil
}

// firstElement returns the element node wrapped by the program's first
// statement, or nil.
func firstElement(root *sitter.Node) *sitter.Node {
	if root.Type() != tsProgram {
		return nil
	}
	stmt := firstNamed(root)
	if stmt == nil || stmt.Type() != tsExpressionStatement {
		return nil
	}
	expr := unparen(firstNamed(stmt))
	if expr == nil {
		return nil
	}
	switch expr.Type() {
	case tsJSXSelfClosing:
		return expr
	case tsJSXElement:
		if open := expr.ChildByFieldName("open_tag"); open != nil {
			return open
		}
		for i := 0; i < int(expr.NamedChildCount()); i++ {
			if child := expr.NamedChild(i); child.Type() == tsJSXOpening {
				return child
			}
		}
	}
	return nil
}

// firstNamed returns the first named child of n that is not a comment.
func firstNamed(n *sitter.Node) *sitter.Node {
	if children := namedChildren(n); len(children) > 0 {
		return children[0]
	}
	return nil
}

// namedChildren lists the named, non-comment children of n.
func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child == nil || child.Type() == tsComment {
			continue
		}
		out = append(out, child)
	}
	return out
}

func unparen(n *sitter.Node) *sitter.Node {
	for n != nil && n.Type() == tsParenthesized {
		n = firstNamed(n)
	}
	return n
}

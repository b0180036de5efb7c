package syntax

import (
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// ErrNoElement is returned when the snippet parses but its first statement
// is not a JSX element.
var ErrNoElement = errors.New("first statement is not a JSX element")

// ParseError contains structured information about a syntax error.
type ParseError struct {
	Line    uint32 // 0-indexed
	Column  uint32 // 0-indexed
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line+1, e.Column+1, e.Message)
}

// newParseError locates the first ERROR or MISSING node below root for a
// useful position.
func newParseError(root *sitter.Node) *ParseError {
	errNode := findFirstError(root)
	if errNode == nil {
		return &ParseError{Message: "AST contains errors"}
	}
	msg := "syntax error"
	if errNode.IsMissing() {
		msg = fmt.Sprintf("missing %s", errNode.Type())
	}
	return &ParseError{
		Line:    errNode.StartPoint().Row,
		Column:  errNode.StartPoint().Column,
		Message: msg,
	}
}

// findFirstError does a depth-first search for the first ERROR node.
func findFirstError(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if child.HasError() || child.IsError() || child.IsMissing() {
			if found := findFirstError(child); found != nil {
				return found
			}
		}
	}
	return nil
}

func collectErrors(node *sitter.Node, errs *[]ParseError) {
	if node.IsError() || node.IsMissing() {
		*errs = append(*errs, ParseError{
			Line:    node.StartPoint().Row,
			Column:  node.StartPoint().Column,
			Message: "syntax error",
		})
		return // don't recurse into error children
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if child.HasError() || child.IsError() || child.IsMissing() {
			collectErrors(child, errs)
		}
	}
}

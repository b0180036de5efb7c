// Package query applies JSONPath selectors to extracted props.
package query

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
)

// Selector is a compiled JSONPath expression.
type Selector struct {
	expr jp.Expr
	src  string
}

// Compile parses a JSONPath expression such as "$.address.city" or
// "$.repos[*].url".
func Compile(selector string) (*Selector, error) {
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}
	return &Selector{expr: x, src: selector}, nil
}

func (s *Selector) String() string { return s.src }

// Get returns every value the selector matches in root. root is expected to
// be a generic JSON value (map[string]any, []any and scalars).
func (s *Selector) Get(root any) []any {
	return s.expr.Get(root)
}

// First returns the first match, if any.
func (s *Selector) First(root any) (any, bool) {
	matches := s.expr.Get(root)
	if len(matches) == 0 {
		return nil, false
	}
	return matches[0], true
}

// Select is a one-shot Compile and Get.
func Select(root any, selector string) ([]any, error) {
	s, err := Compile(selector)
	if err != nil {
		return nil, err
	}
	return s.Get(root), nil
}

// Package syntax converts tree-sitter JavaScript (JSX) parse trees into a
// small, closed set of node variants that the prop materializer understands.
package syntax

// Kind identifies which grammatical construct a Node represents.
type Kind uint8

const (
	KindOther Kind = iota
	KindStringLiteral
	KindNumericLiteral
	KindObjectExpression
	KindArrayExpression
	KindObjectProperty
	KindFunctionExpression
	KindExpressionContainer
	KindIdentifier
	KindCallExpression
	KindMemberExpression
	KindReturnStatement
	KindExpressionStatement
	KindAttribute
)

var kindNames = [...]string{
	KindOther:               "Other",
	KindStringLiteral:       "StringLiteral",
	KindNumericLiteral:      "NumericLiteral",
	KindObjectExpression:    "ObjectExpression",
	KindArrayExpression:     "ArrayExpression",
	KindObjectProperty:      "ObjectProperty",
	KindFunctionExpression:  "FunctionExpression",
	KindExpressionContainer: "JSXExpressionContainer",
	KindIdentifier:          "Identifier",
	KindCallExpression:      "CallExpression",
	KindMemberExpression:    "MemberExpression",
	KindReturnStatement:     "ReturnStatement",
	KindExpressionStatement: "ExpressionStatement",
	KindAttribute:           "JSXAttribute",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Node is a converted syntax tree node. Nodes are never mutated after
// conversion.
type Node interface {
	Kind() Kind
	// Text is the original source text of the node, or "" for nodes built
	// without a source buffer.
	Text() string
}

// Valued is implemented by nodes that wrap a separate value payload
// (attributes and object properties).
type Valued interface {
	Node
	ValueNode() Node
}

// TypeName returns the name used in diagnostics for n: the raw tree-sitter
// type for Other nodes, the variant name otherwise.
func TypeName(n Node) string {
	if n == nil {
		return "nil"
	}
	if o, ok := n.(*Other); ok {
		return o.Type
	}
	return n.Kind().String()
}

// src is embedded by every variant to carry its source text.
type src struct {
	Source string
}

func (s src) Text() string { return s.Source }

type StringLiteral struct {
	src
	Value string
}

type NumericLiteral struct {
	src
	Value float64
}

type ObjectExpression struct {
	src
	Properties []*ObjectProperty
}

type ArrayExpression struct {
	src
	Elements []Node
}

// ObjectProperty is a `key: value` member of an object literal. Shorthand
// members (`{a}`) carry an Identifier value.
type ObjectProperty struct {
	src
	Key   string
	Value Node
}

type FunctionExpression struct {
	src
	Params []*Identifier
	Body   []Node
}

// ExpressionContainer is the JSX `{...}` wrapper around an embedded
// expression. Expression is nil for an empty container.
type ExpressionContainer struct {
	src
	Expression Node
}

type Identifier struct {
	src
	Name string
}

// CallExpression is a call. Optional marks `f?.()`.
type CallExpression struct {
	src
	Callee    Node
	Arguments []Node
	Optional  bool
}

// MemberExpression is a property access. Optional marks `a?.b`.
type MemberExpression struct {
	src
	Object   Node
	Property string
	Optional bool
}

// ReturnStatement has a nil Argument for a bare `return;`.
type ReturnStatement struct {
	src
	Argument Node
}

type ExpressionStatement struct {
	src
	Expression Node
}

// Attribute is one JSX attribute. Value is nil for a bare attribute such as
// `<input disabled />`.
type Attribute struct {
	src
	Name  string
	Value Node
}

// Other is any construct outside the handled variants. Type is the raw
// tree-sitter node type and Value, when non-nil, a literal value that could
// be read off the node (booleans, negative numbers).
type Other struct {
	src
	Type  string
	Value any
}

func (*StringLiteral) Kind() Kind       { return KindStringLiteral }
func (*NumericLiteral) Kind() Kind      { return KindNumericLiteral }
func (*ObjectExpression) Kind() Kind    { return KindObjectExpression }
func (*ArrayExpression) Kind() Kind     { return KindArrayExpression }
func (*ObjectProperty) Kind() Kind      { return KindObjectProperty }
func (*FunctionExpression) Kind() Kind  { return KindFunctionExpression }
func (*ExpressionContainer) Kind() Kind { return KindExpressionContainer }
func (*Identifier) Kind() Kind          { return KindIdentifier }
func (*CallExpression) Kind() Kind      { return KindCallExpression }
func (*MemberExpression) Kind() Kind    { return KindMemberExpression }
func (*ReturnStatement) Kind() Kind     { return KindReturnStatement }
func (*ExpressionStatement) Kind() Kind { return KindExpressionStatement }
func (*Attribute) Kind() Kind           { return KindAttribute }
func (*Other) Kind() Kind               { return KindOther }

func (p *ObjectProperty) ValueNode() Node { return p.Value }
func (a *Attribute) ValueNode() Node      { return a.Value }

// Element is the top-level JSX element of a snippet.
type Element struct {
	Name       string
	Attributes []*Attribute
}

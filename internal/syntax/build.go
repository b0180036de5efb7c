package syntax

// Constructors for building trees by hand, mostly from tests and from
// callers that synthesize nodes without a source buffer.

func NewString(v string) *StringLiteral { return &StringLiteral{Value: v} }

func NewNumber(v float64) *NumericLiteral { return &NumericLiteral{Value: v} }

func NewIdentifier(name string) *Identifier { return &Identifier{Name: name} }

func NewObject(props ...*ObjectProperty) *ObjectExpression {
	return &ObjectExpression{Properties: props}
}

func NewProperty(key string, value Node) *ObjectProperty {
	return &ObjectProperty{Key: key, Value: value}
}

func NewArray(elems ...Node) *ArrayExpression { return &ArrayExpression{Elements: elems} }

func NewContainer(expr Node) *ExpressionContainer { return &ExpressionContainer{Expression: expr} }

func NewAttribute(name string, value Node) *Attribute { return &Attribute{Name: name, Value: value} }

func NewFunction(params []string, body ...Node) *FunctionExpression {
	fn := &FunctionExpression{Body: body}
	for _, p := range params {
		fn.Params = append(fn.Params, NewIdentifier(p))
	}
	return fn
}

// NewMethodCall builds the statement `receiver.method(args...)`.
func NewMethodCall(receiver, method string, args ...Node) *ExpressionStatement {
	return &ExpressionStatement{Expression: &CallExpression{
		Callee:    &MemberExpression{Object: NewIdentifier(receiver), Property: method},
		Arguments: args,
	}}
}

func NewReturn(arg Node) *ReturnStatement { return &ReturnStatement{Argument: arg} }

// NewOther builds an unhandled node of the given tree-sitter type.
func NewOther(typ string, value any) *Other { return &Other{Type: typ, Value: value} }

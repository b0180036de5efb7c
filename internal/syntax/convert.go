package syntax

import (
	"html"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// converter turns tree-sitter nodes into Node values. It holds the source
// buffer the tree was parsed from.
type converter struct {
	src []byte
}

func (c *converter) text(n *sitter.Node) string {
	return n.Content(c.src)
}

func (c *converter) other(n *sitter.Node, value any) *Other {
	return &Other{src: src{c.text(n)}, Type: n.Type(), Value: value}
}

func (c *converter) element(n *sitter.Node) *Element {
	el := &Element{}
	if name := n.ChildByFieldName("name"); name != nil {
		el.Name = c.text(name)
	}
	for _, child := range namedChildren(n) {
		switch child.Type() {
		case tsJSXAttribute:
			el.Attributes = append(el.Attributes, c.attribute(child))
		case tsJSXExpression:
			// {...spread}: no name of its own.
			el.Attributes = append(el.Attributes, &Attribute{
				src:   src{c.text(child)},
				Value: c.container(child),
			})
		default:
			if el.Name == "" {
				el.Name = c.text(child)
			}
		}
	}
	return el
}

// attribute converts `name`, `name="v"` or `name={expr}`.
func (c *converter) attribute(n *sitter.Node) *Attribute {
	attr := &Attribute{src: src{c.text(n)}}
	children := namedChildren(n)
	if len(children) == 0 {
		return attr
	}
	attr.Name = c.text(children[0])
	if len(children) < 2 {
		return attr
	}
	value := children[1]
	switch value.Type() {
	case "string":
		attr.Value = c.expr(value)
	case tsJSXExpression:
		attr.Value = c.container(value)
	default:
		// Element-valued attributes.
		attr.Value = c.other(value, nil)
	}
	return attr
}

func (c *converter) container(n *sitter.Node) *ExpressionContainer {
	ec := &ExpressionContainer{src: src{c.text(n)}}
	if inner := firstNamed(n); inner != nil {
		ec.Expression = c.expr(inner)
	}
	return ec
}

func (c *converter) expr(n *sitter.Node) Node {
	switch n.Type() {
	case "string":
		return &StringLiteral{src: src{c.text(n)}, Value: c.stringValue(n)}
	case "number":
		if v, ok := parseNumber(c.text(n)); ok {
			return &NumericLiteral{src: src{c.text(n)}, Value: v}
		}
		return c.other(n, nil)
	case "object":
		return c.object(n)
	case "array":
		arr := &ArrayExpression{src: src{c.text(n)}}
		// Holes and trailing commas are anonymous tokens and never show up
		// as named children.
		for _, child := range namedChildren(n) {
			arr.Elements = append(arr.Elements, c.expr(child))
		}
		return arr
	case "function_expression", "function":
		return c.function(n, n.ChildByFieldName("parameters"), n.ChildByFieldName("body"))
	case "arrow_function":
		params := n.ChildByFieldName("parameters")
		if params == nil {
			params = n.ChildByFieldName("parameter")
		}
		return c.function(n, params, n.ChildByFieldName("body"))
	case "identifier":
		return &Identifier{src: src{c.text(n)}, Name: c.text(n)}
	case "true":
		return c.other(n, true)
	case "false":
		return c.other(n, false)
	case tsParenthesized:
		if inner := firstNamed(n); inner != nil {
			return c.expr(inner)
		}
		return c.other(n, nil)
	case "call_expression":
		call := &CallExpression{src: src{c.text(n)}, Optional: isOptional(n)}
		if fn := n.ChildByFieldName("function"); fn != nil {
			call.Callee = c.expr(fn)
		}
		for _, arg := range namedChildren(n.ChildByFieldName("arguments")) {
			call.Arguments = append(call.Arguments, c.expr(arg))
		}
		return call
	case "member_expression":
		m := &MemberExpression{src: src{c.text(n)}, Optional: isOptional(n)}
		if obj := n.ChildByFieldName("object"); obj != nil {
			m.Object = c.expr(obj)
		}
		if prop := n.ChildByFieldName("property"); prop != nil {
			m.Property = c.text(prop)
		}
		return m
	case "unary_expression":
		return c.unary(n)
	default:
		return c.other(n, nil)
	}
}

// isOptional reports whether a call or member node carries `?.`.
func isOptional(n *sitter.Node) bool {
	return n.ChildByFieldName("optional_chain") != nil
}

// unary reads `-1` and `+1` as literal values; the node itself stays
// unhandled.
func (c *converter) unary(n *sitter.Node) Node {
	op := n.ChildByFieldName("operator")
	arg := n.ChildByFieldName("argument")
	if op == nil || arg == nil || arg.Type() != "number" {
		return c.other(n, nil)
	}
	v, ok := parseNumber(c.text(arg))
	if !ok {
		return c.other(n, nil)
	}
	switch c.text(op) {
	case "-":
		return c.other(n, -v)
	case "+":
		return c.other(n, v)
	}
	return c.other(n, nil)
}

func (c *converter) object(n *sitter.Node) *ObjectExpression {
	obj := &ObjectExpression{src: src{c.text(n)}}
	for _, member := range namedChildren(n) {
		switch member.Type() {
		case "pair":
			prop := &ObjectProperty{src: src{c.text(member)}}
			if key := member.ChildByFieldName("key"); key != nil {
				prop.Key = c.propertyKey(key)
			}
			if value := member.ChildByFieldName("value"); value != nil {
				prop.Value = c.expr(value)
			}
			obj.Properties = append(obj.Properties, prop)
		case "shorthand_property_identifier":
			name := c.text(member)
			obj.Properties = append(obj.Properties, &ObjectProperty{
				src:   src{name},
				Key:   name,
				Value: &Identifier{src: src{name}, Name: name},
			})
		case "method_definition":
			prop := &ObjectProperty{src: src{c.text(member)}}
			if key := member.ChildByFieldName("name"); key != nil {
				prop.Key = c.propertyKey(key)
			}
			prop.Value = c.function(member, member.ChildByFieldName("parameters"), member.ChildByFieldName("body"))
			obj.Properties = append(obj.Properties, prop)
		}
		// Spread members have no key and are dropped.
	}
	return obj
}

func (c *converter) propertyKey(n *sitter.Node) string {
	if n.Type() == "string" {
		return c.stringValue(n)
	}
	return c.text(n)
}

func (c *converter) function(n, params, body *sitter.Node) *FunctionExpression {
	fn := &FunctionExpression{src: src{c.text(n)}}
	if params != nil {
		if params.Type() == "identifier" {
			fn.Params = append(fn.Params, &Identifier{src: src{c.text(params)}, Name: c.text(params)})
		} else {
			// Patterns and defaults keep their source text, which the
			// Function constructor accepts as a parameter.
			for _, p := range namedChildren(params) {
				fn.Params = append(fn.Params, &Identifier{src: src{c.text(p)}, Name: c.text(p)})
			}
		}
	}
	if body == nil {
		return fn
	}
	if body.Type() != "statement_block" {
		// Concise arrow body.
		fn.Body = append(fn.Body, &ReturnStatement{
			src:      src{"return " + c.text(body)},
			Argument: c.expr(body),
		})
		return fn
	}
	for _, stmt := range namedChildren(body) {
		fn.Body = append(fn.Body, c.statement(stmt))
	}
	return fn
}

func (c *converter) statement(n *sitter.Node) Node {
	switch n.Type() {
	case tsExpressionStatement:
		st := &ExpressionStatement{src: src{c.text(n)}}
		if inner := firstNamed(n); inner != nil {
			st.Expression = c.expr(inner)
		}
		return st
	case tsReturnStatement:
		st := &ReturnStatement{src: src{c.text(n)}}
		if inner := firstNamed(n); inner != nil {
			st.Argument = c.expr(inner)
		}
		return st
	default:
		return c.other(n, nil)
	}
}

// stringValue decodes a string node from its fragments. JSX attribute
// strings carry html_character_reference children instead of escapes.
func (c *converter) stringValue(n *sitter.Node) string {
	count := int(n.NamedChildCount())
	if count == 0 {
		raw := c.text(n)
		if len(raw) >= 2 {
			return raw[1 : len(raw)-1]
		}
		return ""
	}
	var sb strings.Builder
	for i := 0; i < count; i++ {
		part := n.NamedChild(i)
		switch part.Type() {
		case "escape_sequence":
			sb.WriteString(unescape(c.text(part)))
		case "html_character_reference":
			sb.WriteString(html.UnescapeString(c.text(part)))
		default:
			sb.WriteString(c.text(part))
		}
	}
	return sb.String()
}

// unescape decodes a single JavaScript escape sequence such as `\n`,
// `\x41`, `\u0041` or `\u{1F600}`. Unknown escapes decode to the escaped
// character itself.
func unescape(seq string) string {
	if len(seq) < 2 || seq[0] != '\\' {
		return seq
	}
	body := seq[1:]
	switch body[0] {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case 'b':
		return "\b"
	case 'f':
		return "\f"
	case 'v':
		return "\v"
	case '0':
		if len(body) == 1 {
			return "\x00"
		}
	case '\n', '\r':
		// Line continuation.
		return ""
	case 'x':
		if r, err := strconv.ParseUint(body[1:], 16, 8); err == nil {
			return string(rune(r))
		}
	case 'u':
		hex := strings.TrimSuffix(strings.TrimPrefix(body[1:], "{"), "}")
		if r, err := strconv.ParseUint(hex, 16, 32); err == nil && utf8.ValidRune(rune(r)) {
			return string(rune(r))
		}
	}
	return body
}

// parseNumber reads a JavaScript numeric literal: decimal, exponent, hex,
// octal and binary forms, numeric separators and the BigInt suffix.
func parseNumber(raw string) (float64, bool) {
	s := strings.ReplaceAll(raw, "_", "")
	s = strings.TrimSuffix(s, "n")
	if s == "" {
		return 0, false
	}
	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			v, err := strconv.ParseUint(s, 0, 64)
			if err != nil {
				return 0, false
			}
			return float64(v), true
		}
	}
	if legacyOctal(s) {
		v, err := strconv.ParseUint(s[1:], 8, 64)
		if err != nil {
			return 0, false
		}
		return float64(v), true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func legacyOctal(s string) bool {
	if len(s) < 2 || s[0] != '0' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '7' {
			return false
		}
	}
	return true
}

// Package gofixture renders extracted props as a gofumpt-formatted Go source
// file, for checking extraction results into Go test fixtures.
package gofixture

import (
	"bytes"
	"fmt"
	"go/token"
	"math"
	"sort"
	"strconv"

	"github.com/agentic-research/jsxprops/internal/jsrt"
	"github.com/agentic-research/jsxprops/internal/props"
	"mvdan.cc/gofumpt/format"
)

// Options names the generated package and variable.
type Options struct {
	Package string // default "fixtures"
	Var     string // default "Props"
	// Source is quoted into the header comment when set.
	Source string
}

// Render returns a Go file declaring p as a map[string]any. Props keep
// their source order; nested object keys are sorted. Functions are
// rendered as their source string.
func Render(p *props.Props, opts Options) ([]byte, error) {
	if opts.Package == "" {
		opts.Package = "fixtures"
	}
	if opts.Var == "" {
		opts.Var = "Props"
	}
	if !token.IsIdentifier(opts.Package) {
		return nil, fmt.Errorf("invalid package name %q", opts.Package)
	}
	if !token.IsIdentifier(opts.Var) {
		return nil, fmt.Errorf("invalid variable name %q", opts.Var)
	}

	var buf bytes.Buffer
	buf.WriteString("// Code generated by jsxprops. DO NOT EDIT.\n")
	if opts.Source != "" {
		fmt.Fprintf(&buf, "// Source: %s\n", strconv.Quote(opts.Source))
	}
	fmt.Fprintf(&buf, "\npackage %s\n\nvar %s = map[string]any{\n", opts.Package, opts.Var)
	for name, v := range p.All() {
		fmt.Fprintf(&buf, "%s: ", strconv.Quote(name))
		if err := writeValue(&buf, v); err != nil {
			return nil, fmt.Errorf("prop %s: %w", name, err)
		}
		buf.WriteString(",\n")
	}
	buf.WriteString("}\n")

	formatted, err := format.Source(buf.Bytes(), format.Options{})
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return formatted, nil
}

func writeValue(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("nil")
	case string:
		buf.WriteString(strconv.Quote(t))
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("non-finite number %v", t)
		}
		// A bare constant would default to int inside an any.
		fmt.Fprintf(buf, "float64(%s)", strconv.FormatFloat(t, 'g', -1, 64))
	case *jsrt.Function:
		buf.WriteString(strconv.Quote(t.String()))
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteString("map[string]any{\n")
		for _, k := range keys {
			fmt.Fprintf(buf, "%s: ", strconv.Quote(k))
			if err := writeValue(buf, t[k]); err != nil {
				return err
			}
			buf.WriteString(",\n")
		}
		buf.WriteString("}")
	case []any:
		buf.WriteString("[]any{")
		for i, elem := range t {
			if i > 0 {
				buf.WriteString(", ")
			}
			if err := writeValue(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteString("}")
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
	return nil
}

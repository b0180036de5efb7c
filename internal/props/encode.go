package props

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/agentic-research/jsxprops/internal/jsrt"
	"github.com/ohler55/ojg/oj"
)

// encodeJSON writes v the way JSON.stringify would, so literal values are
// reproduced as literal source text. Functions are not JSON values and are
// written as their source.
func encodeJSON(v any) string {
	var sb strings.Builder
	writeJSON(&sb, v)
	return sb.String()
}

func writeJSON(sb *strings.Builder, v any) {
	switch t := v.(type) {
	case nil:
		sb.WriteString("null")
	case *jsrt.Function:
		sb.WriteString(t.String())
	case string:
		writeString(sb, t)
	case float64:
		sb.WriteString(formatNumber(t))
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeString(sb, k)
			sb.WriteByte(':')
			writeJSON(sb, t[k])
		}
		sb.WriteByte('}')
	case []any:
		sb.WriteByte('[')
		for i, elem := range t {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeJSON(sb, elem)
		}
		sb.WriteByte(']')
	default:
		sb.WriteString(oj.JSON(t))
	}
}

// writeString quotes s like JSON.stringify. oj escapes U+2028 and U+2029,
// which JSON.stringify writes raw, so those runes are copied around it.
func writeString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for {
		i := strings.IndexAny(s, "\u2028\u2029")
		if i < 0 {
			break
		}
		writeQuoted(sb, s[:i])
		r, size := utf8.DecodeRuneInString(s[i:])
		sb.WriteRune(r)
		s = s[i+size:]
	}
	writeQuoted(sb, s)
	sb.WriteByte('"')
}

// writeQuoted writes s escaped, without the surrounding quotes.
func writeQuoted(sb *strings.Builder, s string) {
	if s == "" {
		return
	}
	q := oj.JSON(s)
	sb.WriteString(q[1 : len(q)-1])
}

// formatNumber follows Number.prototype.toString: plain decimal notation
// for exponents in [-7, 21), exponent notation outside.
func formatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// Go writes e+06 style exponents; JavaScript drops the padding.
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		exp = strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + exp
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

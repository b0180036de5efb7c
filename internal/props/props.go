package props

import (
	"iter"

	"github.com/agentic-research/jsxprops/internal/jsrt"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Props maps attribute names to materialized values in source order. A
// value is a string, float64, map[string]any, []any or *jsrt.Function;
// degraded fallbacks may also produce a bool.
type Props struct {
	m *orderedmap.OrderedMap[string, any]
}

// New returns an empty Props.
func New() *Props {
	return &Props{m: orderedmap.New[string, any]()}
}

// Set stores v under name. A name that is already present keeps its
// position and takes the new value.
func (p *Props) Set(name string, v any) {
	p.m.Set(name, v)
}

func (p *Props) Get(name string) (any, bool) {
	return p.m.Get(name)
}

// Function returns the prop as a compiled function.
func (p *Props) Function(name string) (*jsrt.Function, bool) {
	v, ok := p.m.Get(name)
	if !ok {
		return nil, false
	}
	fn, ok := v.(*jsrt.Function)
	return fn, ok
}

func (p *Props) Len() int {
	return p.m.Len()
}

// Keys returns the attribute names in source order.
func (p *Props) Keys() []string {
	keys := make([]string, 0, p.m.Len())
	for pair := p.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// All iterates the props in source order.
func (p *Props) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for pair := p.m.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Map returns an unordered copy, suitable for JSONPath queries and
// comparisons.
func (p *Props) Map() map[string]any {
	out := make(map[string]any, p.m.Len())
	for k, v := range p.All() {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the props as a JSON object in source order. Functions
// are encoded as their source string.
func (p *Props) MarshalJSON() ([]byte, error) {
	return p.m.MarshalJSON()
}

package api

import "encoding/json"

// Record is the stored result of extracting props from one source file.
// Records are what the batch engine produces, the SQLite store persists and
// the query command streams back.
type Record struct {
	// ID is the slash-separated path of the file relative to the walk root.
	ID string `json:"id"`
	// File is the path the file was read from, including the walk root.
	File string `json:"file"`
	// Element is the tag name of the extracted element (e.g. "div", "Card").
	Element string `json:"element,omitempty"`
	// Names lists the prop names in source order.
	Names []string `json:"names,omitempty"`
	// Props is the JSON object of extracted props. Function props are
	// encoded as their source text.
	Props json.RawMessage `json:"props,omitempty"`
	// Error is set when the file could not be parsed; Props is empty then.
	Error string `json:"error,omitempty"`
}

// OK reports whether extraction succeeded.
func (r *Record) OK() bool { return r.Error == "" }

// Decode unmarshals Props into a generic JSON value (map[string]any).
func (r *Record) Decode() (map[string]any, error) {
	out := map[string]any{}
	if len(r.Props) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(r.Props, &out); err != nil {
		return nil, err
	}
	return out, nil
}

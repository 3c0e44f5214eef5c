// Package metadata implements the layered, case-insensitive key/value model
// shared by site configuration, area configuration and page front matter.
//
// Keys are colon-delimited paths ("section:key", "list:0"). A Config is an
// ordered stack of Layers, most general first; lookups scan from the most
// specific layer backwards and the first layer declaring a key wins.
package metadata

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// KeyDelimiter separates the segments of a flattened key.
const KeyDelimiter = ":"

// Value is a single flattened entry. Null distinguishes an explicit YAML null
// from an empty string.
type Value struct {
	Raw  string
	Null bool
}

// String returns the raw value, "" for null.
func (v Value) String() string {
	if v.Null {
		return ""
	}
	return v.Raw
}

type entry struct {
	key   string
	value Value
}

// Layer is one source of flattened keys, e.g. one file's front matter.
type Layer struct {
	name    string
	order   []string
	entries map[string]entry
}

// NewLayer creates an empty layer. The name is used in diagnostics only.
func NewLayer(name string) *Layer {
	return &Layer{name: name, entries: make(map[string]entry)}
}

// FromMap builds a layer from plain string pairs.
func FromMap(name string, values map[string]string) *Layer {
	l := NewLayer(name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		l.Set(k, values[k])
	}
	return l
}

// FoldKey returns the canonical case-insensitive form of key.
func FoldKey(key string) string {
	return cases.Fold().String(strings.TrimSpace(key))
}

// Name returns the layer's diagnostic name.
func (l *Layer) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}

// Set stores a string value, replacing any entry with an equal folded key.
func (l *Layer) Set(key, value string) {
	l.put(key, Value{Raw: value})
}

// SetNull stores an explicit null.
func (l *Layer) SetNull(key string) {
	l.put(key, Value{Null: true})
}

func (l *Layer) put(key string, v Value) {
	folded := FoldKey(key)
	if _, exists := l.entries[folded]; !exists {
		l.order = append(l.order, folded)
	}
	l.entries[folded] = entry{key: key, value: v}
}

// Lookup finds key in this layer only.
func (l *Layer) Lookup(key string) (Value, bool) {
	if l == nil {
		return Value{}, false
	}
	e, ok := l.entries[FoldKey(key)]
	return e.value, ok
}

// Has reports whether key is declared in this layer.
func (l *Layer) Has(key string) bool {
	_, ok := l.Lookup(key)
	return ok
}

// Keys returns the declared keys in their original spelling, in insertion order.
func (l *Layer) Keys() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l.order))
	for _, folded := range l.order {
		out = append(out, l.entries[folded].key)
	}
	return out
}

// Len returns the number of declared keys.
func (l *Layer) Len() int {
	if l == nil {
		return 0
	}
	return len(l.order)
}

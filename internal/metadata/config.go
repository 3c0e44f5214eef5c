package metadata

import (
	"slices"
	"strconv"
	"strings"
)

// Config is an ordered stack of layers. It is immutable once built; Merge and
// With return new values that share layers.
type Config struct {
	layers []*Layer
}

// New builds a Config from layers ordered most general first. Nil layers are skipped.
func New(layers ...*Layer) *Config {
	c := &Config{layers: make([]*Layer, 0, len(layers))}
	for _, l := range layers {
		if l != nil {
			c.layers = append(c.layers, l)
		}
	}
	return c
}

// Merge combines parent and child so that child keys win.
// Merge(nil, nil) is nil and a single nil side yields the other side unchanged.
// Layers are concatenated, which makes Merge associative.
func Merge(parent, child *Config) *Config {
	switch {
	case parent == nil && child == nil:
		return nil
	case parent == nil:
		return child
	case child == nil:
		return parent
	}
	layers := make([]*Layer, 0, len(parent.layers)+len(child.layers))
	layers = append(layers, parent.layers...)
	layers = append(layers, child.layers...)
	return &Config{layers: layers}
}

// With returns a new Config with layer stacked on top.
func (c *Config) With(layer *Layer) *Config {
	return Merge(c, New(layer))
}

// Layers returns the layers, most general first.
func (c *Config) Layers() []*Layer {
	if c == nil {
		return nil
	}
	return slices.Clone(c.layers)
}

// Lookup resolves key against the most specific declaring layer.
func (c *Config) Lookup(key string) (Value, bool) {
	if c == nil {
		return Value{}, false
	}
	folded := FoldKey(key)
	for i := len(c.layers) - 1; i >= 0; i-- {
		if e, ok := c.layers[i].entries[folded]; ok {
			return e.value, true
		}
	}
	return Value{}, false
}

// Get returns the resolved value or "" when absent or null.
func (c *Config) Get(key string) string {
	v, _ := c.Lookup(key)
	return v.String()
}

// GetOr returns the resolved value, or fallback when absent, null or empty.
func (c *Config) GetOr(key, fallback string) string {
	if v := c.Get(key); v != "" {
		return v
	}
	return fallback
}

// Has reports whether any layer declares key.
func (c *Config) Has(key string) bool {
	_, ok := c.Lookup(key)
	return ok
}

// IsNull reports whether the resolved value is an explicit null.
func (c *Config) IsNull(key string) bool {
	v, ok := c.Lookup(key)
	return ok && v.Null
}

// Bool parses the resolved value as a boolean; absent or malformed is false.
func (c *Config) Bool(key string) bool {
	b, err := strconv.ParseBool(c.Get(key))
	return err == nil && b
}

// Int parses the resolved value as an integer, returning fallback on failure.
func (c *Config) Int(key string, fallback int) int {
	n, err := strconv.Atoi(c.Get(key))
	if err != nil {
		return fallback
	}
	return n
}

// Keys returns every resolvable key in folded form, sorted.
func (c *Config) Keys() []string {
	if c == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, l := range c.layers {
		for _, k := range l.order {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Children returns the distinct immediate child segment names under prefix,
// e.g. Children("menu") for keys "menu:0:title" and "menu:1:title" is ["0","1"].
// Numeric segments sort numerically.
func (c *Config) Children(prefix string) []string {
	p := FoldKey(prefix)
	if p != "" {
		p += KeyDelimiter
	}
	seen := make(map[string]struct{})
	var out []string
	for _, k := range c.Keys() {
		if !strings.HasPrefix(k, p) {
			continue
		}
		rest := k[len(p):]
		if i := strings.Index(rest, KeyDelimiter); i >= 0 {
			rest = rest[:i]
		}
		if _, dup := seen[rest]; dup || rest == "" {
			continue
		}
		seen[rest] = struct{}{}
		out = append(out, rest)
	}
	slices.SortFunc(out, compareSegments)
	return out
}

func compareSegments(a, b string) int {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai - bi
	}
	return strings.Compare(a, b)
}

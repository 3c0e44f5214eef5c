// Package foundation holds small generic helpers shared across packages.
// Classified errors live in the errors subpackage.
package foundation

import (
	"strings"

	"git.home.luguber.info/inful/chloroplast/internal/foundation/errors"
)

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Normalizer maps case-insensitive, whitespace-tolerant names to values.
type Normalizer[T any] struct {
	values       map[string]T
	defaultValue T
}

// NewNormalizer creates a normalizer; unknown names map to defaultValue.
func NewNormalizer[T any](values map[string]T, defaultValue T) *Normalizer[T] {
	normalized := make(map[string]T, len(values))
	for k, v := range values {
		normalized[normalizeKey(k)] = v
	}
	return &Normalizer[T]{values: normalized, defaultValue: defaultValue}
}

// Normalize returns the value for raw, or the default.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.values[normalizeKey(raw)]; ok {
		return v
	}
	return n.defaultValue
}

// NormalizeWithError returns the value for raw. Empty input yields the
// default; unknown names are a validation error.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	key := normalizeKey(raw)
	if key == "" {
		return n.defaultValue, nil
	}
	if v, ok := n.values[key]; ok {
		return v, nil
	}
	var zero T
	return zero, errors.ValidationError("unrecognized value").WithContext("value", raw).Build()
}

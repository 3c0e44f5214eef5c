// Package sets provides a generic hash set.
package sets

// Set holds comparable keys.
type Set[T comparable] map[T]struct{}

// Add inserts v and reports whether it was absent.
func (s Set[T]) Add(v T) bool {
	if _, ok := s[v]; ok {
		return false
	}
	s[v] = struct{}{}
	return true
}

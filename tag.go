package scoped

// Tag is a type-safe key for scope metadata. Tags carry diagnostics and
// configuration about a scope itself (its name, environment, owner), never
// dependency values — those belong in entries under a Key.
type Tag[T any] struct {
	key string
}

// NewTag creates a new tag with the given key
func NewTag[T any](key string) Tag[T] {
	return Tag[T]{key: key}
}

// Key returns the tag's key (for debugging)
func (t Tag[T]) Key() string {
	return t.key
}

// Get retrieves the tag value from a scope
func (t Tag[T]) Get(s *Scope) (T, bool) {
	if s == nil {
		var zero T
		return zero, false
	}
	val, ok := s.GetTag(t)
	if !ok {
		var zero T
		return zero, false
	}
	return val.(T), true
}

// MustGet retrieves the tag value or panics if not found
func (t Tag[T]) MustGet(s *Scope) T {
	val, ok := t.Get(s)
	if !ok {
		panic("scoped: tag " + t.key + " not found")
	}
	return val
}

// GetOrDefault retrieves the tag value or returns a default
func (t Tag[T]) GetOrDefault(s *Scope, defaultVal T) T {
	if val, ok := t.Get(s); ok {
		return val
	}
	return defaultVal
}

// Set stores the tag value on a scope
func (t Tag[T]) Set(s *Scope, val T) {
	s.SetTag(t, val)
}

// ScopeName labels a scope for diagnostics. Lookup failures and the
// extensions in this module use it when rendering scope chains.
var ScopeName = NewTag[string]("scope.name")

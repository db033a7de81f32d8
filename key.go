package scoped

import "github.com/google/uuid"

// KeyID is the opaque identity of a declared key. Two Key values denote the
// same dependency iff their IDs are equal.
type KeyID = uuid.UUID

// Key declares a dependency: a unique identity, a value type, and an optional
// default factory invoked when no scope in the ancestor chain has a value.
//
// Keys are cheap value types; copying a Key preserves its identity. Declare
// them once at package level:
//
//	var dbKey = scoped.NewKey[*DB]("database", scoped.WithDefault(func() *DB {
//	    return OpenDB()
//	}))
type Key[T any] struct {
	id        KeyID
	name      string
	defaultFn func() T
}

// AnyKey is the type-erased view of a Key used by scopes and extensions. Only
// the Key[T] that produced an entry reads it back, so values recovered through
// AnyKey never need a failable downcast.
type AnyKey interface {
	ID() KeyID
	Name() string
	HasDefault() bool

	// makeDefault invokes the default factory. ok is false when the key
	// declares no default.
	makeDefault() (val any, ok bool)
}

// KeyOption is a modifier for key declarations
type KeyOption[T any] func(*Key[T])

// WithDefault declares the key's default factory. The factory is invoked
// lazily, at most once per scope that materializes it.
func WithDefault[T any](fn func() T) KeyOption[T] {
	return func(k *Key[T]) {
		k.defaultFn = fn
	}
}

// NewKey declares a new key. Every call mints a fresh identity: two keys with
// the same name are still distinct dependencies.
func NewKey[T any](name string, opts ...KeyOption[T]) Key[T] {
	k := Key[T]{
		id:   uuid.New(),
		name: name,
	}

	for _, opt := range opts {
		opt(&k)
	}

	return k
}

// ID returns the key's identity token.
func (k Key[T]) ID() KeyID {
	return k.id
}

// Name returns the human-readable name given at declaration (for diagnostics).
func (k Key[T]) Name() string {
	return k.name
}

// HasDefault reports whether the key declares a default factory.
func (k Key[T]) HasDefault() bool {
	return k.defaultFn != nil
}

func (k Key[T]) makeDefault() (any, bool) {
	if k.defaultFn == nil {
		return nil, false
	}
	return k.defaultFn(), true
}

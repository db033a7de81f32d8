package scoped

import "context"

// Ref is a lazy handle to one dependency: a key plus either an explicitly
// bound scope or "whatever scope is current at access time". A Ref never
// caches the resolved value — every Value call re-resolves — which is what
// lets two objects hold Refs to each other's keys without ever forming a live
// value-to-value cycle: the cycle exists only at the level of lookups, and
// each lookup terminates on its own.
type Ref[T any] struct {
	key   Key[T]
	bound *Scope
}

// NewRef creates an unbound reference: each Value call resolves against the
// scope current on the supplied context.
func NewRef[T any](key Key[T]) *Ref[T] {
	return &Ref[T]{key: key}
}

// BoundRef creates a reference pinned to scope regardless of context.
func BoundRef[T any](key Key[T], scope *Scope) *Ref[T] {
	return &Ref[T]{key: key, bound: scope}
}

// Value resolves the reference now: against the bound scope if one is set,
// otherwise against Current(ctx). Panics like Get when the key has neither a
// value in the chain nor a default.
func (r *Ref[T]) Value(ctx context.Context) T {
	return Get(r.resolutionScope(ctx), r.key)
}

// Key returns the key this reference resolves.
func (r *Ref[T]) Key() Key[T] {
	return r.key
}

// Binding returns the explicitly bound scope, or nil when the reference
// follows the current scope.
func (r *Ref[T]) Binding() *Scope {
	return r.bound
}

// Bind pins the reference to scope (nil reverts to following the current
// scope). Bind is a plain assignment and is not synchronized against
// concurrent Value calls; rebinding a graph that is being resolved from other
// goroutines is the caller's race to manage.
func (r *Ref[T]) Bind(scope *Scope) {
	r.bound = scope
}

func (r *Ref[T]) resolutionScope(ctx context.Context) *Scope {
	if r.bound != nil {
		return r.bound
	}
	return Current(ctx)
}

// RefKey returns the type-erased key (AnyRef surface).
func (r *Ref[T]) RefKey() AnyKey {
	return r.key
}

func (r *Ref[T]) resolveCurrent(ctx context.Context) any {
	return r.Value(ctx)
}

// AnyRef is the type-erased view of a Ref used by the rebind walker. Only
// Ref[T] implements it.
type AnyRef interface {
	RefKey() AnyKey
	Binding() *Scope
	Bind(*Scope)

	resolveCurrent(ctx context.Context) any
}

// RefLister exposes a type's dependency reference slots to the rebind walker.
// Implementations return the Refs that are direct structural members of the
// value; they do not recurse into resolved values themselves — the walker
// does that.
//
//	func (a *Account) DependencyRefs() []scoped.AnyRef {
//	    return []scoped.AnyRef{a.store, a.clock}
//	}
type RefLister interface {
	DependencyRefs() []AnyRef
}

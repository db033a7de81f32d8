package scoped

import "context"

type currentScopeKey struct{}

// With derives a context in which s is the current scope. Nested calls
// compose like a stack with the innermost scope winning, and the previous
// current scope is restored on every exit path simply because the caller's
// context is never mutated. Each goroutine sees only the chain of the context
// it was handed, so concurrent extents cannot contaminate one another.
func With(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, currentScopeKey{}, s)
}

// Current returns the innermost scope carried by ctx, or the global scope
// when ctx carries none (including ctx == nil).
func Current(ctx context.Context) *Scope {
	if ctx != nil {
		if s, ok := ctx.Value(currentScopeKey{}).(*Scope); ok {
			return s
		}
	}
	return Global()
}

// Do runs body with s current for its dynamic extent. The body receives the
// derived context and its error is returned unchanged; a panic inside body
// propagates and still leaves the caller's current scope untouched.
func Do(ctx context.Context, s *Scope, body func(ctx context.Context) error) error {
	return body(With(ctx, s))
}

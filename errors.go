package scoped

import "fmt"

// MissingValueError reports a lookup for a key that has no stored value
// anywhere in the ancestor chain and no default factory. This is a programming
// error by contract: Get panics with it after extensions have observed it
// through OnMissing.
type MissingValueError struct {
	Key   AnyKey
	Scope *Scope
}

func (e *MissingValueError) Error() string {
	if name, ok := ScopeName.Get(e.Scope); ok {
		return fmt.Sprintf("scoped: no value for key %q in scope %q or its ancestors and no default declared", e.Key.Name(), name)
	}
	return fmt.Sprintf("scoped: no value for key %q in scope chain and no default declared", e.Key.Name())
}

package scoped

import "sync"

// The global scope is the resolution target when no scope is current on a
// context. Its identity is process-wide mutable state; the lock below guards
// only the pointer swap and is never held across user code, so replacing the
// global scope from within code that is itself resolving against it cannot
// deadlock.
var (
	globalMu    sync.RWMutex
	globalScope = NewScope(WithName("global"))
)

// Global returns the current process-wide scope.
func Global() *Scope {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalScope
}

// SetGlobal replaces the process-wide scope wholesale and returns the
// previous one. Contents are not migrated; holders of the old scope keep a
// fully functional store.
func SetGlobal(s *Scope) *Scope {
	if s == nil {
		panic("scoped: global scope must not be nil")
	}
	globalMu.Lock()
	prev := globalScope
	globalScope = s
	globalMu.Unlock()
	return prev
}

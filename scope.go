package scoped

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// Scope is a node in a parent-linked tree of typed value stores. Lookups that
// miss fall through to the nearest ancestor holding a value, and finally to
// the key's default factory. All operations are safe for concurrent use; the
// scope's mutex guards its own entries and parent link, never an ancestor's.
//
// Parents are shared, not owned: many children may point at one parent, and a
// scope never mutates anything but its own entries. The parent chain must be
// acyclic — a cycle is not detected and makes lookups walk forever.
type Scope struct {
	mu       sync.Mutex
	parent   *Scope
	entries  map[KeyID]entry
	defaults map[KeyID]*defaultCell

	extensions []Extension
	tags       sync.Map

	initFns []func(*Scope)
}

// entry pairs a stored value with the key that declared it; the key is kept
// for diagnostics (scope-chain rendering names keys, not IDs).
type entry struct {
	key AnyKey
	val any
}

// defaultCell materializes a key's default at most once per scope. The factory
// runs outside the scope mutex so it may freely resolve other scopes.
type defaultCell struct {
	once sync.Once
	val  any
}

// ScopeOption is a modifier for scopes
type ScopeOption func(*Scope)

// WithParent links the new scope under parent. The parent is referenced, not
// copied; entries set on the parent later remain visible to the child.
func WithParent(parent *Scope) ScopeOption {
	return func(s *Scope) {
		s.parent = parent
	}
}

// WithInit registers a builder callback that receives the new scope for
// population before NewScope returns it. Callbacks run after every other
// option has been applied.
func WithInit(fn func(*Scope)) ScopeOption {
	return func(s *Scope) {
		s.initFns = append(s.initFns, fn)
	}
}

// WithName tags the scope with a diagnostic name (see ScopeName).
func WithName(name string) ScopeOption {
	return func(s *Scope) {
		ScopeName.Set(s, name)
	}
}

// WithScopeTag returns an option that sets a tag on a scope
func WithScopeTag[T any](tag Tag[T], val T) ScopeOption {
	return func(s *Scope) {
		tag.Set(s, val)
	}
}

// WithExtension returns an option that registers an extension to a scope
func WithExtension(ext Extension) ScopeOption {
	return func(s *Scope) {
		if err := s.UseExtension(ext); err != nil {
			panic(err)
		}
	}
}

// NewScope creates a new scope with optional configuration
func NewScope(opts ...ScopeOption) *Scope {
	s := &Scope{
		entries: make(map[KeyID]entry),
	}

	for _, opt := range opts {
		opt(s)
	}

	inits := s.initFns
	s.initFns = nil
	for _, fn := range inits {
		fn(s)
	}

	return s
}

// Parent returns the scope's current parent (nil for a root scope).
func (s *Scope) Parent() *Scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parent
}

// SetParent relinks the scope under a new parent. Passing nil detaches the
// scope into a root. Callers are responsible for keeping the chain acyclic.
func (s *Scope) SetParent(parent *Scope) {
	s.mu.Lock()
	s.parent = parent
	s.mu.Unlock()
}

// Get resolves key against the scope chain: this scope first, then each
// ancestor nearest-first, then the key's default factory. A materialized
// default is cached in s itself (never an ancestor), so the factory runs at
// most once per scope. Get panics with *MissingValueError when no value is
// stored anywhere and the key declares no default — by contract the caller
// either declares a default or guarantees population before first read.
func Get[T any](s *Scope, key Key[T]) T {
	val, err := s.resolveAny(key)
	if err != nil {
		panic(err)
	}
	return val.(T)
}

// Lookup is the non-panicking form of Get: it reports ok=false instead of
// panicking when the key has neither a stored value nor a default.
func Lookup[T any](s *Scope, key Key[T]) (T, bool) {
	val, err := s.resolveAny(key)
	if err != nil {
		var zero T
		return zero, false
	}
	return val.(T), true
}

// Set assigns the value directly into this scope's entries. No propagation:
// ancestors and descendants are untouched, and descendants observe the value
// only through chain lookups.
func Set[T any](s *Scope, key Key[T], val T) {
	exts := s.snapshotExtensions()
	op := &Operation{Kind: OpSet, Key: key, Scope: s}

	next := func() (any, error) {
		s.mu.Lock()
		s.entries[key.ID()] = entry{key: key, val: val}
		s.mu.Unlock()
		return nil, nil
	}

	runWrapped(context.Background(), exts, next, op)
}

// Remove deletes the key from this exact scope, returning the prior value if
// one was present here. Ancestors are not searched and not modified.
func Remove[T any](s *Scope, key Key[T]) (T, bool) {
	exts := s.snapshotExtensions()
	op := &Operation{Kind: OpRemove, Key: key, Scope: s}

	next := func() (any, error) {
		s.mu.Lock()
		prior, ok := s.entries[key.ID()]
		if ok {
			delete(s.entries, key.ID())
		}
		s.mu.Unlock()
		if !ok {
			return nil, errNotPresent
		}
		return prior.val, nil
	}

	val, err := runWrapped(context.Background(), exts, next, op)
	if err != nil {
		var zero T
		return zero, false
	}
	return val.(T), true
}

var errNotPresent = errors.New("scoped: key not present in this scope")

// resolveAny runs the chain lookup wrapped by the scope's extensions.
func (s *Scope) resolveAny(key AnyKey) (any, error) {
	exts := s.snapshotExtensions()
	op := &Operation{Kind: OpResolve, Key: key, Scope: s}

	next := func() (any, error) {
		return s.lookupChain(key)
	}

	val, err := runWrapped(context.Background(), exts, next, op)
	if err != nil {
		var miss *MissingValueError
		if errors.As(err, &miss) {
			for _, ext := range exts {
				ext.OnMissing(miss, op, s)
			}
		}
		return nil, err
	}
	return val, nil
}

// lookupChain walks the ancestor chain holding at most one scope lock at a
// time: the requesting scope's lock is released before any ancestor's is
// taken, so two scopes can never deadlock by locking in opposite orders.
func (s *Scope) lookupChain(key AnyKey) (any, error) {
	id := key.ID()

	s.mu.Lock()
	if e, ok := s.entries[id]; ok {
		s.mu.Unlock()
		return e.val, nil
	}
	ancestor := s.parent
	s.mu.Unlock()

	for ancestor != nil {
		ancestor.mu.Lock()
		if e, ok := ancestor.entries[id]; ok {
			ancestor.mu.Unlock()
			return e.val, nil
		}
		next := ancestor.parent
		ancestor.mu.Unlock()
		ancestor = next
	}

	return s.materializeDefault(key)
}

// materializeDefault invokes the key's default factory and caches the result
// in this scope's entries. The once cell guarantees a single invocation per
// scope even under concurrent readers, while keeping the factory itself
// outside the scope lock. An explicit Set racing with materialization wins.
func (s *Scope) materializeDefault(key AnyKey) (any, error) {
	id := key.ID()

	s.mu.Lock()
	if e, ok := s.entries[id]; ok {
		s.mu.Unlock()
		return e.val, nil
	}
	cell, ok := s.defaults[id]
	if !ok {
		if !key.HasDefault() {
			s.mu.Unlock()
			return nil, &MissingValueError{Key: key, Scope: s}
		}
		cell = &defaultCell{}
		if s.defaults == nil {
			s.defaults = make(map[KeyID]*defaultCell)
		}
		s.defaults[id] = cell
	}
	s.mu.Unlock()

	cell.once.Do(func() {
		cell.val, _ = key.makeDefault()
	})

	s.mu.Lock()
	if e, ok := s.entries[id]; ok {
		s.mu.Unlock()
		return e.val, nil
	}
	s.entries[id] = entry{key: key, val: cell.val}
	s.mu.Unlock()

	return cell.val, nil
}

// UseExtension registers an extension to the scope
func (s *Scope) UseExtension(ext Extension) error {
	s.mu.Lock()
	s.extensions = append(s.extensions, ext)
	sort.SliceStable(s.extensions, func(i, j int) bool {
		return s.extensions[i].Order() < s.extensions[j].Order()
	})
	s.mu.Unlock()

	return ext.Init(s)
}

func (s *Scope) snapshotExtensions() []Extension {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.extensions) == 0 {
		return nil
	}
	exts := make([]Extension, len(s.extensions))
	copy(exts, s.extensions)
	return exts
}

// runWrapped chains extensions around an operation in reverse registration
// order so the first registered extension is the outermost wrapper.
func runWrapped(ctx context.Context, exts []Extension, next func() (any, error), op *Operation) (any, error) {
	for i := len(exts) - 1; i >= 0; i-- {
		ext := exts[i]
		currentNext := next
		next = func() (any, error) {
			return ext.Wrap(ctx, currentNext, op)
		}
	}
	return next()
}

// GetTag retrieves a tag value from the scope
func (s *Scope) GetTag(tag any) (any, bool) {
	return s.tags.Load(tag)
}

// SetTag stores a tag value on the scope
func (s *Scope) SetTag(tag any, val any) {
	s.tags.Store(tag, val)
}

// Keys returns the keys stored directly in this scope, without consulting
// ancestors. Extensions use it when rendering scope chains.
func (s *Scope) Keys() []AnyKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]AnyKey, 0, len(s.entries))
	for _, e := range s.entries {
		keys = append(keys, e.key)
	}
	return keys
}

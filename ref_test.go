package scoped

import (
	"context"
	"testing"
)

func TestRef_UnboundFollowsCurrentScope(t *testing.T) {
	key := NewKey[string]("greeting")

	a := NewScope(WithInit(func(s *Scope) { Set(s, key, "from-a") }))
	b := NewScope(WithInit(func(s *Scope) { Set(s, key, "from-b") }))

	ref := NewRef(key)

	if got := ref.Value(With(context.Background(), a)); got != "from-a" {
		t.Errorf("Expected resolution against a, got %q", got)
	}
	if got := ref.Value(With(context.Background(), b)); got != "from-b" {
		t.Errorf("Expected resolution against b, got %q", got)
	}
	if ref.Binding() != nil {
		t.Error("Unbound ref must report a nil binding")
	}
}

func TestRef_BoundIgnoresCurrentScope(t *testing.T) {
	key := NewKey[string]("greeting")

	pinned := NewScope(WithInit(func(s *Scope) { Set(s, key, "pinned") }))
	other := NewScope(WithInit(func(s *Scope) { Set(s, key, "other") }))

	ref := BoundRef(key, pinned)

	if got := ref.Value(With(context.Background(), other)); got != "pinned" {
		t.Errorf("Bound ref must ignore the current scope, got %q", got)
	}
	if ref.Binding() != pinned {
		t.Error("Binding() should report the pinned scope")
	}

	// Unbinding reverts to current-scope resolution.
	ref.Bind(nil)
	if got := ref.Value(With(context.Background(), other)); got != "other" {
		t.Errorf("Unbound ref should follow current again, got %q", got)
	}
}

func TestRef_NeverCachesValues(t *testing.T) {
	key := NewKey[int]("version")

	scope := NewScope()
	Set(scope, key, 1)

	ref := BoundRef(key, scope)
	if got := ref.Value(context.Background()); got != 1 {
		t.Fatalf("Expected 1, got %d", got)
	}

	Set(scope, key, 2)
	if got := ref.Value(context.Background()); got != 2 {
		t.Errorf("Ref must re-resolve on every access, got stale %d", got)
	}
}

// twin holds a reference to its counterpart's key: resolving one yields the
// other, whose own reference points back. Lazy per-access resolution keeps
// the cycle from ever becoming a live value cycle.
type twin struct {
	name  string
	other *Ref[*twin]
}

func (tw *twin) DependencyRefs() []AnyRef {
	return []AnyRef{tw.other}
}

func TestRef_CyclicResolutionTerminates(t *testing.T) {
	keyA := NewKey[*twin]("twin.a")
	keyB := NewKey[*twin]("twin.b")

	a := &twin{name: "a", other: NewRef(keyB)}
	b := &twin{name: "b", other: NewRef(keyA)}

	scope := NewScope()
	Set(scope, keyA, a)
	Set(scope, keyB, b)

	ctx := With(context.Background(), scope)

	// Follow the cycle a few laps; every hop is an independent lookup.
	cur := a
	for i := 0; i < 6; i++ {
		cur = cur.other.Value(ctx)
	}
	if cur != a {
		t.Errorf("Expected to land back on a after an even number of hops, got %s", cur.name)
	}
}

func TestRef_MissingValuePanicsLikeGet(t *testing.T) {
	key := NewKey[string]("nowhere")
	ref := BoundRef(key, NewScope())

	defer func() {
		if _, ok := recover().(*MissingValueError); !ok {
			t.Error("Ref.Value must surface the fatal missing-value failure")
		}
	}()
	ref.Value(context.Background())
}

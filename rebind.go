package scoped

import "context"

// Rebind pins every dependency reference that is a direct member of each root
// to target. Roots may be AnyRef values or RefLister implementations; other
// values are ignored. References nested inside resolved values are not
// touched — use RebindRecursive for that.
func Rebind(ctx context.Context, target *Scope, roots ...any) {
	rebindGraph(ctx, target, false, roots)
}

// RebindRecursive rebinds the direct references of each root, then resolves
// each reference's current value (after rebinding, so defaults materialize in
// target) and walks into that value's own references, and so on. Every
// distinct reference is rebound at most once: a single visited set shared
// across all roots bounds the traversal, which is what makes cyclic object
// graphs (A holding a reference to B's key while B holds one to A's)
// terminate instead of recursing forever.
//
// Traversal is depth-first in slot order as reported by DependencyRefs;
// ordering across sibling slots is not part of the contract.
func RebindRecursive(ctx context.Context, target *Scope, roots ...any) {
	rebindGraph(ctx, target, true, roots)
}

// rebindGraph drives the walk with an explicit stack rather than recursion so
// that graph depth is bounded by the heap, not the goroutine stack.
func rebindGraph(ctx context.Context, target *Scope, recursive bool, roots []any) {
	if target == nil {
		panic("scoped: rebind target scope must not be nil")
	}

	exts := target.snapshotExtensions()
	visited := make(map[AnyRef]bool)

	stack := make([]any, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var refs []AnyRef
		switch n := node.(type) {
		case AnyRef:
			refs = []AnyRef{n}
		case RefLister:
			refs = n.DependencyRefs()
		default:
			continue
		}

		for _, ref := range refs {
			if ref == nil || visited[ref] {
				continue
			}
			visited[ref] = true

			rebindOne(ctx, target, ref, exts)

			if recursive {
				if lister, ok := ref.resolveCurrent(ctx).(RefLister); ok {
					stack = append(stack, lister)
				}
			}
		}
	}
}

func rebindOne(ctx context.Context, target *Scope, ref AnyRef, exts []Extension) {
	op := &Operation{Kind: OpRebind, Key: ref.RefKey(), Scope: target}

	next := func() (any, error) {
		ref.Bind(target)
		return nil, nil
	}

	runWrapped(ctx, exts, next, op)
}

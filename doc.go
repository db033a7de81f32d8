// Package scoped provides a hierarchical dependency-lookup container for Go.
//
// # Overview
//
// Scoped organizes code around three core concepts:
//
//  1. Keys: compile-time declarations of one dependency each, carrying a value
//     type and an optional default factory
//  2. Scopes: nodes in a parent-linked tree of typed value stores, where a
//     lookup miss falls through to the nearest ancestor and finally to the
//     key's default
//  3. Refs: lazy handles that re-resolve a key on every access, either against
//     an explicitly bound scope or against whatever scope is current
//
// # Declaring keys
//
// Declare keys once, at package level:
//
//	var portKey = scoped.NewKey[int]("http.port", scoped.WithDefault(func() int {
//	    return 8080
//	}))
//
//	var dbKey = scoped.NewKey[*sql.DB]("database")
//
// Every NewKey call mints a fresh identity; two keys with the same name are
// still distinct dependencies. A key without a default must have a value
// stored somewhere in the chain before its first read — reading it otherwise
// panics with *MissingValueError.
//
// # Scopes
//
// Scopes form a tree. The nearest ancestor holding a value wins:
//
//	base := scoped.NewScope(scoped.WithName("base"), scoped.WithInit(func(s *scoped.Scope) {
//	    scoped.Set(s, portKey, 9090)
//	}))
//
//	test := scoped.NewScope(scoped.WithParent(base))
//	scoped.Get(test, portKey) // 9090, from base
//	scoped.Set(test, portKey, 0)
//	scoped.Get(test, portKey) // 0, test shadows base
//
// Defaults materialize lazily and are cached in the scope the lookup started
// from, never in an ancestor, so the factory runs at most once per scope and
// ancestor stores stay exactly as their owners populated them.
//
// # The current scope
//
// The scope "in effect" travels on a context.Context. A process-wide global
// scope is the fallback when a context carries none:
//
//	ctx := scoped.With(context.Background(), test)
//	scoped.Current(ctx)                  // test
//	scoped.Current(context.Background()) // scoped.Global()
//
// Because With derives a new context instead of mutating anything, nested
// extents compose like a stack with the innermost scope winning, and the
// previous scope is "restored" on every exit path for free.
//
// # Refs
//
// A Ref resolves on every access and never caches:
//
//	type Server struct {
//	    port *scoped.Ref[int]
//	}
//
//	srv := &Server{port: scoped.NewRef(portKey)}
//	srv.port.Value(ctx) // resolves against Current(ctx)
//
// Two objects may hold Refs to each other's keys; since resolution is lazy
// and per-access, the cycle never becomes a live reference cycle between the
// resolved values.
//
// # Rebinding object graphs
//
// Types expose their reference slots by implementing RefLister:
//
//	func (s *Server) DependencyRefs() []scoped.AnyRef {
//	    return []scoped.AnyRef{s.port}
//	}
//
// Rebind pins the direct references of its roots to a new scope;
// RebindRecursive follows resolved values and rebinds everything reachable,
// visiting each distinct reference exactly once even when the object graph is
// cyclic:
//
//	scoped.RebindRecursive(ctx, testScope, srv)
//
// # Extensions
//
// Extensions hook scope operations (resolve, set, remove, rebind) through a
// middleware chain, mirroring the usual Wrap pattern:
//
//	type timing struct{ scoped.BaseExtension }
//
//	func (*timing) Wrap(ctx context.Context, next func() (any, error), op *scoped.Operation) (any, error) {
//	    start := time.Now()
//	    defer func() { log.Printf("%s %s took %v", op.Kind, op.Key.Name(), time.Since(start)) }()
//	    return next()
//	}
//
// The extensions subpackage ships logging (log/slog), scope-tree dumps on
// missing-value failures, and OpenTelemetry tracing.
//
// # Thread safety
//
// Scope operations are safe for concurrent use. Lookups hold at most one
// scope lock at a time while walking the chain, so sibling scopes can never
// deadlock each other. Ref.Bind and the rebind walker are plain assignments:
// rebinding a graph while other goroutines resolve through it is a
// caller-managed race. The parent chain must be acyclic; this is not checked.
package scoped

package scoped

import "context"

// Extension provides hooks into scope operations. Extensions registered on a
// scope wrap that scope's resolve, set and remove paths; the rebind walker
// additionally reports one rebind operation per reference against the target
// scope's extensions.
type Extension interface {
	// Name returns the extension's name
	Name() string

	// Order determines extension execution order (lower = earlier)
	Order() int

	// Init is called when the extension is registered to a scope
	Init(scope *Scope) error

	// Wrap intercepts an operation. Implementations must call next exactly
	// once unless they intend to short-circuit the operation.
	Wrap(ctx context.Context, next func() (any, error), op *Operation) (any, error)

	// OnMissing observes a missing-value lookup: the condition Get treats as
	// fatal (it panics right after the hooks run) and Lookup reports as !ok
	OnMissing(err *MissingValueError, op *Operation, scope *Scope)
}

// BaseExtension provides default implementations for Extension methods
type BaseExtension struct {
	name string
}

// NewBaseExtension creates a new base extension with the given name
func NewBaseExtension(name string) BaseExtension {
	return BaseExtension{name: name}
}

func (e *BaseExtension) Name() string {
	return e.name
}

func (e *BaseExtension) Order() int {
	return 100
}

func (e *BaseExtension) Init(scope *Scope) error {
	return nil
}

func (e *BaseExtension) Wrap(ctx context.Context, next func() (any, error), op *Operation) (any, error) {
	return next()
}

func (e *BaseExtension) OnMissing(err *MissingValueError, op *Operation, scope *Scope) {
}

// Operation describes what operation is happening
type Operation struct {
	Kind  OperationKind
	Key   AnyKey
	Scope *Scope
}

// OperationKind represents the type of operation
type OperationKind string

const (
	// OpResolve indicates a chain lookup through Get, Lookup or Ref.Value
	OpResolve OperationKind = "resolve"
	// OpSet indicates a direct assignment into one scope
	OpSet OperationKind = "set"
	// OpRemove indicates a direct removal from one scope
	OpRemove OperationKind = "remove"
	// OpRebind indicates a reference being rebound to a new scope
	OpRebind OperationKind = "rebind"
)

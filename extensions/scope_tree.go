package extensions

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/m1gwings/treedrawer/tree"
	scoped "github.com/pumped-fn/scoped-go"
)

// ScopeTreeExtension renders the ancestor chain when a lookup fails fatally:
// which scopes were searched, in order, and which keys each one actually
// holds. The chain is drawn with treedrawer and logged at ERROR, so the
// message that accompanies the MissingValueError panic shows exactly where
// the value was expected.
type ScopeTreeExtension struct {
	scoped.BaseExtension
	logger *slog.Logger
}

// NewScopeTreeExtension creates the extension backed by handler.
func NewScopeTreeExtension(handler slog.Handler) *ScopeTreeExtension {
	return &ScopeTreeExtension{
		BaseExtension: scoped.NewBaseExtension("scope-tree"),
		logger:        slog.New(handler),
	}
}

// OnMissing logs the searched chain, root first.
func (e *ScopeTreeExtension) OnMissing(err *scoped.MissingValueError, op *scoped.Operation, scope *scoped.Scope) {
	e.logger.Error("missing value with no default",
		"key", op.Key.Name(),
		"scope_chain", renderChain(scope),
	)
}

// renderChain draws the chain from root down to the requesting scope, one
// node per scope, labeled with the scope's name and its directly stored keys.
func renderChain(s *scoped.Scope) string {
	var chain []*scoped.Scope
	for cur := s; cur != nil; cur = cur.Parent() {
		chain = append(chain, cur)
	}

	// Root first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	root := tree.NewTree(tree.NodeString(describeScope(chain[0])))
	cur := root
	for _, s := range chain[1:] {
		cur.AddChild(tree.NodeString(describeScope(s)))
		child, err := cur.Child(0)
		if err != nil {
			break
		}
		cur = child
	}

	return "\n" + fmt.Sprint(root)
}

func describeScope(s *scoped.Scope) string {
	names := make([]string, 0, 4)
	for _, key := range s.Keys() {
		names = append(names, key.Name())
	}
	sort.Strings(names)

	label := scopeLabel(s)
	if len(names) == 0 {
		return label + " (empty)"
	}
	return label + " [" + strings.Join(names, " ") + "]"
}

package extensions

import (
	"context"
	"log/slog"
	"time"

	scoped "github.com/pumped-fn/scoped-go"
)

// LoggingExtension logs every scope operation with its duration through
// log/slog. Inject any handler; use SilentHandler in tests.
type LoggingExtension struct {
	scoped.BaseExtension
	logger *slog.Logger
}

// NewLoggingExtension creates a new logging extension backed by handler.
func NewLoggingExtension(handler slog.Handler) *LoggingExtension {
	return &LoggingExtension{
		BaseExtension: scoped.NewBaseExtension("logging"),
		logger:        slog.New(handler),
	}
}

func (e *LoggingExtension) Wrap(ctx context.Context, next func() (any, error), op *scoped.Operation) (any, error) {
	start := time.Now()
	result, err := next()
	duration := time.Since(start)

	attrs := []any{
		"operation", string(op.Kind),
		"key", op.Key.Name(),
		"scope", scopeLabel(op.Scope),
		"duration", duration,
	}

	if err != nil {
		e.logger.ErrorContext(ctx, "scope operation failed", append(attrs, "error", err)...)
	} else {
		e.logger.DebugContext(ctx, "scope operation", attrs...)
	}

	return result, err
}

// OnMissing logs the fatal lookup at ERROR before Get panics.
func (e *LoggingExtension) OnMissing(err *scoped.MissingValueError, op *scoped.Operation, scope *scoped.Scope) {
	e.logger.Error("missing value with no default",
		"key", op.Key.Name(),
		"scope", scopeLabel(scope),
	)
}

func scopeLabel(s *scoped.Scope) string {
	return scoped.ScopeName.GetOrDefault(s, "(unnamed)")
}

// SilentHandler is a slog.Handler that discards all log output
type SilentHandler struct{}

// NewSilentHandler creates a new silent log handler
func NewSilentHandler() *SilentHandler {
	return &SilentHandler{}
}

func (h *SilentHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return false
}

func (h *SilentHandler) Handle(ctx context.Context, record slog.Record) error {
	return nil
}

func (h *SilentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *SilentHandler) WithGroup(name string) slog.Handler {
	return h
}

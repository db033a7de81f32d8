package extensions

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	scoped "github.com/pumped-fn/scoped-go"
)

func TestLoggingExtension_RecordsOperations(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	key := scoped.NewKey[int]("port")
	scope := scoped.NewScope(
		scoped.WithName("app"),
		scoped.WithExtension(NewLoggingExtension(handler)),
	)

	scoped.Set(scope, key, 8080)
	if got := scoped.Get(scope, key); got != 8080 {
		t.Fatalf("Expected 8080, got %d", got)
	}

	output := buf.String()
	for _, want := range []string{"operation=set", "operation=resolve", "key=port", "scope=app"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected log output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestLoggingExtension_LogsMissingValue(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, nil)

	key := scoped.NewKey[string]("absent")
	scope := scoped.NewScope(
		scoped.WithName("bare"),
		scoped.WithExtension(NewLoggingExtension(handler)),
	)

	if _, ok := scoped.Lookup(scope, key); ok {
		t.Fatal("Lookup found a value that was never set")
	}

	output := buf.String()
	if !strings.Contains(output, "missing value") {
		t.Errorf("Expected a missing-value record, got:\n%s", output)
	}
	if !strings.Contains(output, "key=absent") {
		t.Errorf("Expected the key name in the record, got:\n%s", output)
	}
}

func TestSilentHandler_DiscardsEverything(t *testing.T) {
	key := scoped.NewKey[int]("quiet")
	scope := scoped.NewScope(
		scoped.WithExtension(NewLoggingExtension(NewSilentHandler())),
	)

	scoped.Set(scope, key, 1)
	if got := scoped.Get(scope, key); got != 1 {
		t.Fatalf("Silent logging must not alter behavior, got %d", got)
	}
}

package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Output: &buf}).WithComponent(ComponentWizard)

	l.Debug("step changed", FieldStep, "people_count")

	out := buf.String()
	if !strings.Contains(out, "component=wizard") || !strings.Contains(out, "step=people_count") {
		t.Fatalf("unexpected log line %q", out)
	}
	if strings.Count(out, "component=") != 1 {
		t.Fatalf("component logged more than once: %q", out)
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelWarn, Output: &buf})

	l.Info("hidden")
	l.Warn("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("level filter not applied: %q", buf.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	l := Discard().WithComponent(ComponentCLI)
	ctx := NewContext(context.Background(), l)

	if got := FromContext(ctx); got != l {
		t.Fatalf("expected the stored logger back")
	}
	if got := ComponentFromContext(ctx, ComponentShare).Component(); got != ComponentShare {
		t.Fatalf("component = %q", got)
	}
	if got := FromContext(context.Background()).Component(); got != ComponentApp {
		t.Fatalf("fallback component = %q", got)
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().WithOperation(OpCalculate).WithSession("Trip", 3, 2)
	if len(f.ToSlice()) != 8 {
		t.Fatalf("expected 4 key/value pairs, got %v", f.ToSlice())
	}
	if f[FieldPeople] != 3 || f[FieldOperation] != OpCalculate {
		t.Fatalf("unexpected fields %v", f)
	}
	if _, ok := NewFields().WithError(nil)[FieldError]; ok {
		t.Fatalf("nil error should not be recorded")
	}
}

package attr

import (
	"context"
	"errors"
	"testing"
)

func TestCorrelationID(t *testing.T) {
	ctx := context.Background()
	if got := CorrelationIDFromContext(ctx); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
	if WithCorrelationID(ctx, "") != ctx {
		t.Fatalf("empty id should not wrap the context")
	}

	ctx = WithCorrelationID(ctx, "abc-123")
	a := ExtractCorrelationID(ctx)
	if a.Key != "correlation_id" || a.Value.String() != "abc-123" {
		t.Fatalf("unexpected attribute %v", a)
	}
}

func TestError(t *testing.T) {
	if got := Error(errors.New("boom")).Value.String(); got != "boom" {
		t.Fatalf("expected boom, got %q", got)
	}
	if got := Error(nil).Value.String(); got != "" {
		t.Fatalf("expected empty string for nil error, got %q", got)
	}
}

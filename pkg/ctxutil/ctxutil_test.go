package ctxutil

import (
	"context"
	"testing"
)

func TestWithUsername_And_UsernameFromCtx(t *testing.T) {
	t.Parallel()

	ctx := WithUsername(context.Background(), "alice")

	got, ok := UsernameFromCtx(ctx)
	if !ok {
		t.Fatal("expected ok=true for stored username")
	}
	if got != "alice" {
		t.Fatalf("expected alice, got %s", got)
	}
}

func TestUsernameFromCtx_EmptyContext(t *testing.T) {
	t.Parallel()

	got, ok := UsernameFromCtx(context.Background())
	if ok {
		t.Fatal("expected ok=false for empty context")
	}
	if got != "" {
		t.Fatalf("expected empty string, got %s", got)
	}
}

func TestUsernameFromCtx_EmptyUsername(t *testing.T) {
	t.Parallel()

	ctx := WithUsername(context.Background(), "")

	_, ok := UsernameFromCtx(ctx)
	if ok {
		t.Fatal("expected ok=false for empty username")
	}
}

func TestUsernameFromCtx_WrongType(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), usernameKey, 42)

	_, ok := UsernameFromCtx(ctx)
	if ok {
		t.Fatal("expected ok=false for wrong type")
	}
}

func TestRequestID_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "req-123")
	if got := RequestIDFromCtx(ctx); got != "req-123" {
		t.Fatalf("expected req-123, got %s", got)
	}
	if got := RequestIDFromCtx(context.Background()); got != "" {
		t.Fatalf("expected empty string for empty context, got %s", got)
	}
}

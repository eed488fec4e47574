package services

import (
	"context"
	"testing"
)

func TestPostIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	if _, ok := PostIDFromContext(ctx); ok {
		t.Fatal("unexpected post id on empty context")
	}
	ctx = WithPostID(ctx, "2026-03-14_09-26-53_cloud")
	id, ok := PostIDFromContext(ctx)
	if !ok || id != "2026-03-14_09-26-53_cloud" {
		t.Fatalf("got %q ok=%v", id, ok)
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	id, ok := RequestIDFromContext(ctx)
	if !ok || id != "req-1" {
		t.Fatalf("got %q ok=%v", id, ok)
	}
}

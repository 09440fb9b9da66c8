package services_test

import (
	"context"
	"testing"

	"panchangreel/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithReelDate(ctx, "2025-07-06")
	ctx = services.WithStage(ctx, "compose")
	ctx = services.WithRequestID(ctx, "req-123")

	if date, ok := services.ReelDateFromContext(ctx); !ok || date != "2025-07-06" {
		t.Fatalf("unexpected reel date: %v %v", date, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "compose" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestStageBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
}

//go:build integration

package mongodb

import (
	"context"
	"os"
	"testing"
	"time"
)

// Requires a reachable MongoDB.
// Run with: MONGO_URI=mongodb://localhost:27017 go test -tags=integration ./internal/storage/mongodb

func TestIntegration_StoreGetSet(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := "rentabilidad_test_" + time.Now().Format("20060102150405")
	s, err := NewStore(ctx, uri, db)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer func() {
		_ = s.client.Database(db).Drop(ctx)
		_ = s.Close(ctx)
	}()

	if _, ok, err := s.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("expected absent key: ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "k", "one"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "k", "two"); err != nil {
		t.Fatal(err)
	}
	if v, ok, err := s.Get(ctx, "k"); err != nil || !ok || v != "two" {
		t.Fatalf("expected two, got %q ok=%v err=%v", v, ok, err)
	}
}

package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestStoreGetSet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	if _, ok, err := s.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "k", "v1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "k", "v2"); err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := s.Get(ctx, "k"); !ok || v != "v2" {
		t.Fatalf("expected v2, got %q ok=%v", v, ok)
	}
}

func TestNewStoreFromFile(t *testing.T) {
	dir := t.TempDir()

	s, err := NewStoreFromFile(filepath.Join(dir, "missing.json"))
	if err != nil {
		t.Fatalf("missing seed should be empty store: %v", err)
	}
	if _, ok, _ := s.Get(context.Background(), "x"); ok {
		t.Fatal("expected empty store")
	}

	path := filepath.Join(dir, "seed.json")
	if err := os.WriteFile(path, []byte(`{"profitability_calculator_current_business":"abc"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err = NewStoreFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := s.Get(context.Background(), "profitability_calculator_current_business"); !ok || v != "abc" {
		t.Fatalf("seed not loaded: %q %v", v, ok)
	}

	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(bad, []byte(`[1,2]`), 0o600)
	if _, err := NewStoreFromFile(bad); err == nil {
		t.Fatal("expected decode error")
	}
}

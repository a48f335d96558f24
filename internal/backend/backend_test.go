package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"rentabilidad/internal/config"
	"rentabilidad/internal/storage"
)

func TestOpenMemoryWithSeed(t *testing.T) {
	seed := filepath.Join(t.TempDir(), "seed.json")
	body := `{"` + storage.KeyBusinesses + `":"[{\"id\":\"b1\",\"name\":\"Tienda\"}]"}`
	if err := os.WriteFile(seed, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	b, err := Open(ctx, &config.Config{DataBackend: config.BackendMemory, DataSeedFile: seed})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close(ctx)

	if err := b.Ping(ctx); err != nil {
		t.Fatalf("memory ping: %v", err)
	}
	got, err := b.Repo.GetBusiness(ctx, "b1")
	if err != nil || got.Name != "Tienda" {
		t.Fatalf("seeded business not found: %+v %v", got, err)
	}
}

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "test.db")
	b, err := Open(ctx, &config.Config{DataBackend: config.BackendSQLite, SQLiteDBPath: path})
	if err != nil {
		t.Fatal(err)
	}
	if b.Name != config.BackendSQLite {
		t.Fatalf("unexpected backend %s", b.Name)
	}
	if err := b.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := b.Repo.SetCurrentBusinessID(ctx, "x"); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestOpenUnknown(t *testing.T) {
	if _, err := Open(context.Background(), &config.Config{DataBackend: "redis"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

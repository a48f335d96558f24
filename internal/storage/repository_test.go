package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"rentabilidad/internal/core"
	"rentabilidad/internal/storage/memory"
)

func sampleBusiness(t *testing.T, name string) core.Business {
	t.Helper()
	b, err := core.NewBusiness(name, "", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func exerciseRepository(t *testing.T, repo *Repository) {
	t.Helper()
	ctx := context.Background()

	list, err := repo.ListBusinesses(ctx)
	if err != nil || len(list) != 0 || list == nil {
		t.Fatalf("empty store should list []: %v %v", list, err)
	}
	if id, err := repo.CurrentBusinessID(ctx); err != nil || id != "" {
		t.Fatalf("expected no current business: %q %v", id, err)
	}

	a := sampleBusiness(t, "A")
	b := sampleBusiness(t, "B")
	p, _ := a.AddProduct(core.Product{Name: "Pan", SellingPrice: core.Money{Cents: 120}, Stock: 3})
	if _, err := a.RegisterSale(core.SaleInput{ProductID: p.ID, Quantity: 1, Date: core.NewDate(2025, 1, 2)}, time.Now()); err != nil {
		t.Fatal(err)
	}

	for _, biz := range []core.Business{a, b} {
		if err := repo.UpsertBusiness(ctx, biz); err != nil {
			t.Fatal(err)
		}
	}
	a.Name = "A renamed"
	if err := repo.UpsertBusiness(ctx, a); err != nil {
		t.Fatal(err)
	}

	list, _ = repo.ListBusinesses(ctx)
	if len(list) != 2 || list[0].Name != "A renamed" || list[1].ID != b.ID {
		t.Fatalf("unexpected list %+v", list)
	}
	got, err := repo.GetBusiness(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Sales) != 1 || got.Sales[0].TotalPrice.Cents != 120 || !got.Sales[0].Date.Equal(core.NewDate(2025, 1, 2)) {
		t.Fatalf("sale not round-tripped: %+v", got.Sales)
	}
	if got.Products[0].Stock != 2 {
		t.Fatalf("stock not persisted: %+v", got.Products)
	}

	if err := repo.SetCurrentBusinessID(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if err := repo.DeleteBusiness(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if id, _ := repo.CurrentBusinessID(ctx); id != "" {
		t.Fatalf("deleting the current business must clear selection, got %q", id)
	}
	if _, err := repo.GetBusiness(ctx, a.ID); !errors.Is(err, core.ErrBusinessNotFound) {
		t.Fatalf("expected ErrBusinessNotFound, got %v", err)
	}
	if err := repo.DeleteBusiness(ctx, "nope"); !errors.Is(err, core.ErrBusinessNotFound) {
		t.Fatalf("expected ErrBusinessNotFound, got %v", err)
	}
}

func TestRepositoryMemory(t *testing.T) {
	exerciseRepository(t, NewRepository(memory.NewStore()))
}

func TestRepositorySQLite(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()
	exerciseRepository(t, NewRepository(store))
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, KeyCurrentBusiness, "abc"); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen must tolerate applied migrations: %v", err)
	}
	defer store.Close()
	if v, ok, err := store.Get(ctx, KeyCurrentBusiness); err != nil || !ok || v != "abc" {
		t.Fatalf("expected persisted value, got %q ok=%v err=%v", v, ok, err)
	}
}

func TestListBusinessesNormalizesNullLists(t *testing.T) {
	kv := memory.NewStore()
	ctx := context.Background()
	_ = kv.Set(ctx, KeyBusinesses, `[{"id":"x","name":"Old","products":null}]`)
	list, err := NewRepository(kv).ListBusinesses(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if list[0].Products == nil || list[0].Sales == nil || list[0].Expenses == nil {
		t.Fatalf("lists must be non-nil: %+v", list[0])
	}
}

func TestListBusinessesCorruptValue(t *testing.T) {
	kv := memory.NewStore()
	_ = kv.Set(context.Background(), KeyBusinesses, "not json")
	if _, err := NewRepository(kv).ListBusinesses(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

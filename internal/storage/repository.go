package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"rentabilidad/internal/core"
)

// Repository exposes typed business operations on top of a KV backend.
// It is not safe for concurrent read-modify-write; callers serialize writes.
type Repository struct {
	kv KV
}

func NewRepository(kv KV) *Repository {
	return &Repository{kv: kv}
}

// ListBusinesses returns all businesses in insertion order, or an empty list
// when nothing was stored yet.
func (r *Repository) ListBusinesses(ctx context.Context) ([]core.Business, error) {
	raw, ok, err := r.kv.Get(ctx, KeyBusinesses)
	if err != nil {
		return nil, fmt.Errorf("read businesses: %w", err)
	}
	if !ok || raw == "" {
		return []core.Business{}, nil
	}
	var list []core.Business
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("decode businesses: %w", err)
	}
	for i := range list {
		normalize(&list[i])
	}
	return list, nil
}

func (r *Repository) GetBusiness(ctx context.Context, id string) (core.Business, error) {
	list, err := r.ListBusinesses(ctx)
	if err != nil {
		return core.Business{}, err
	}
	for _, b := range list {
		if b.ID == id {
			return b, nil
		}
	}
	return core.Business{}, fmt.Errorf("%w: %s", core.ErrBusinessNotFound, id)
}

// UpsertBusiness replaces the business with the same id or appends it.
func (r *Repository) UpsertBusiness(ctx context.Context, b core.Business) error {
	list, err := r.ListBusinesses(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range list {
		if list[i].ID == b.ID {
			list[i] = b
			replaced = true
			break
		}
	}
	if !replaced {
		list = append(list, b)
	}
	return r.save(ctx, list)
}

// DeleteBusiness removes the business and clears the current selection if it
// pointed to it.
func (r *Repository) DeleteBusiness(ctx context.Context, id string) error {
	list, err := r.ListBusinesses(ctx)
	if err != nil {
		return err
	}
	kept := list[:0]
	found := false
	for _, b := range list {
		if b.ID == id {
			found = true
			continue
		}
		kept = append(kept, b)
	}
	if !found {
		return fmt.Errorf("%w: %s", core.ErrBusinessNotFound, id)
	}
	if err := r.save(ctx, kept); err != nil {
		return err
	}
	current, err := r.CurrentBusinessID(ctx)
	if err != nil {
		return err
	}
	if current == id {
		return r.SetCurrentBusinessID(ctx, "")
	}
	return nil
}

// CurrentBusinessID returns the selected business id, empty when none.
func (r *Repository) CurrentBusinessID(ctx context.Context) (string, error) {
	id, _, err := r.kv.Get(ctx, KeyCurrentBusiness)
	if err != nil {
		return "", fmt.Errorf("read current business: %w", err)
	}
	return id, nil
}

func (r *Repository) SetCurrentBusinessID(ctx context.Context, id string) error {
	if err := r.kv.Set(ctx, KeyCurrentBusiness, id); err != nil {
		return fmt.Errorf("write current business: %w", err)
	}
	return nil
}

func (r *Repository) save(ctx context.Context, list []core.Business) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode businesses: %w", err)
	}
	if err := r.kv.Set(ctx, KeyBusinesses, string(raw)); err != nil {
		return fmt.Errorf("write businesses: %w", err)
	}
	return nil
}

// normalize turns null lists from older records into empty ones.
func normalize(b *core.Business) {
	if b.Products == nil {
		b.Products = []core.Product{}
	}
	if b.Sales == nil {
		b.Sales = []core.Sale{}
	}
	if b.Expenses == nil {
		b.Expenses = []core.Expense{}
	}
}

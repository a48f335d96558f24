// Package storage persists businesses as whole JSON values in a key-value
// store. Each backend only implements KV; Repository adds the typed contract.
package storage

import "context"

// Fixed keys under which all application state lives.
const (
	KeyBusinesses      = "profitability_calculator_businesses"
	KeyCurrentBusiness = "profitability_calculator_current_business"
)

// KV is a string key-value store with whole-value writes.
// Get reports ok=false when the key has never been written.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

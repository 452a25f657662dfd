// Package snapshot bridges the in-memory ledger to a key-value store.
// Kathas and entries are stored as two independent JSON documents.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Storage keys of the two collections.
const (
	KeyKathas  = "katha-manager:kathas"
	KeyEntries = "katha-manager:entries"
)

// Store is a string-keyed byte store. Put overwrites; Get reports whether
// the key exists.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Load decodes the value stored under key. A missing key, a read error or an
// undecodable value all yield def.
func Load[T any](ctx context.Context, store Store, key string, def T) T {
	v, ok, err := Read[T](ctx, store, key)
	if err != nil {
		slog.WarnContext(ctx, "Snapshot unreadable, using default", "key", key, "error", err)
		return def
	}
	if !ok {
		return def
	}
	return v
}

// Read decodes the value stored under key, reporting failures instead of
// falling back. ok is false when the key holds nothing.
func Read[T any](ctx context.Context, store Store, key string) (v T, ok bool, err error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return v, false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || len(raw) == 0 {
		return v, false, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, true, nil
}

// Validator is a stored record that can check its own invariants.
type Validator interface {
	Validate() error
}

// Valid returns items without the records that fail validation, so a
// hand-edited or corrupted snapshot cannot feed a zero amount or an unknown
// entry type into the aggregations. Dropped records are logged.
func Valid[T Validator](ctx context.Context, key string, items []T) []T {
	kept := make([]T, 0, len(items))
	for i, it := range items {
		if err := it.Validate(); err != nil {
			slog.WarnContext(ctx, "Dropping invalid stored record", "key", key, "index", i, "error", err)
			continue
		}
		kept = append(kept, it)
	}
	return kept
}

// Save encodes v under key. Failures are logged and otherwise ignored, and
// the return value only reports whether the write happened.
func Save[T any](ctx context.Context, store Store, key string, v T) bool {
	raw, err := json.Marshal(v)
	if err != nil {
		slog.ErrorContext(ctx, "Snapshot encode failed", "key", key, "error", err)
		return false
	}
	if err := store.Put(ctx, key, raw); err != nil {
		slog.ErrorContext(ctx, "Snapshot write failed", "key", key, "error", err)
		return false
	}
	return true
}

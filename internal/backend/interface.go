// Package backend builds the snapshot store selected by configuration.
package backend

import (
	"context"

	"katha/internal/snapshot"
	"katha/internal/worker"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// PingFunc reports whether the backend can serve requests.
type PingFunc func(ctx context.Context) error

// BackendResult bundles the store with its export bookkeeping and lifecycle
// hooks. Ping and Cleanup are never nil.
type BackendResult struct {
	Store   snapshot.Store
	Tracker worker.Tracker
	Ping    PingFunc
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds what a backend needs.
type Config struct {
	Type BackendType

	// file
	DataDirectory string

	// sqlite
	SQLiteDBPath string
}

// BackendType names a storage backend.
type BackendType string

const (
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case FileBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

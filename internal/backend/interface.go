// Package backend selects and constructs the persistence backend from
// configuration.
package backend

import (
	"context"

	"fiscal/internal/store"
)

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func(ctx context.Context) error

// Result holds the constructed repository and its optional cleanup.
type Result struct {
	Repository store.AccountRepository
	Cleanup    CleanupFunc
}

// Factory creates repositories based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type Type

	// Mongo specific
	MongoURI      string
	MongoDatabase string

	// SQLite specific
	SQLiteDBPath string
}

// Type represents the kind of persistence backend
type Type string

const (
	MemoryBackend Type = "memory"
	MongoBackend  Type = "mongo"
	SQLiteBackend Type = "sqlite"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, MongoBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

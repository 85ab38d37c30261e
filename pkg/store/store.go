// Package store persists completed scan results for later retrieval.
//
// A [ScanRecord] captures one enumeration of an environment: the scan
// identity, when it ran, which interpreter it targeted, and the full set of
// package records. Backends:
//   - file: JSON files in a directory, for CLI usage
//   - redis: Redis-backed storage with optional TTL
//   - mongo: MongoDB-backed storage for central collection
//   - null: no-op storage for tests and disabled persistence
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pipsleuth/pipsleuth/pkg/inspect"
)

// ScanRecord is one persisted scan run.
type ScanRecord struct {
	ID        string                 `json:"id"`
	CreatedAt time.Time              `json:"created_at"`
	Python    string                 `json:"python,omitempty"` // interpreter the scan targeted
	Source    string                 `json:"source"`           // license source preference used
	Packages  []*inspect.PackageInfo `json:"packages"`
}

// NewScanRecord assembles a record for the given packages with a fresh
// run identifier.
func NewScanRecord(python string, source inspect.Source, packages []*inspect.PackageInfo) *ScanRecord {
	return &ScanRecord{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Python:    python,
		Source:    source.String(),
		Packages:  packages,
	}
}

// Store persists and retrieves scan records.
//
// All implementations are safe for concurrent use.
type Store interface {
	// Put stores a record, replacing any record with the same ID.
	Put(ctx context.Context, rec *ScanRecord) error

	// Get retrieves a record by ID. Returns an error with code
	// SCAN_NOT_FOUND when no record exists.
	Get(ctx context.Context, id string) (*ScanRecord, error)

	// List returns the stored scan IDs, newest first.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

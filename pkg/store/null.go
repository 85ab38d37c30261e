package store

import (
	"context"

	"github.com/pipsleuth/pipsleuth/pkg/errors"
)

// NullStore is a no-op store that never persists anything.
// Useful for testing or when persistence should be disabled.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() Store {
	return &NullStore{}
}

// Put does nothing.
func (s *NullStore) Put(ctx context.Context, rec *ScanRecord) error { return nil }

// Get always reports the scan as missing.
func (s *NullStore) Get(ctx context.Context, id string) (*ScanRecord, error) {
	return nil, errors.New(errors.ErrCodeScanNotFound, "scan %s not found", id)
}

// List returns no IDs.
func (s *NullStore) List(ctx context.Context) ([]string, error) { return nil, nil }

// Close does nothing.
func (s *NullStore) Close(ctx context.Context) error { return nil }

// Ensure NullStore implements Store.
var _ Store = (*NullStore)(nil)

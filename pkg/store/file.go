package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pipsleuth/pipsleuth/pkg/errors"
)

// FileStore keeps scan records as JSON files in a directory, one file per
// record. Suitable for CLI usage without external services.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-based store in the given directory.
// The directory is created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "creating store directory %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Put writes the record to <dir>/<id>.json.
func (s *FileStore) Put(ctx context.Context, rec *ScanRecord) error {
	if rec.ID == "" {
		return errors.New(errors.ErrCodeInvalidRecord, "scan record has no ID")
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encoding scan %s", rec.ID)
	}
	if err := os.WriteFile(s.path(rec.ID), data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "writing scan %s", rec.ID)
	}
	return nil
}

// Get reads a record by ID.
func (s *FileStore) Get(ctx context.Context, id string) (*ScanRecord, error) {
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeScanNotFound, "scan %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "reading scan %s", id)
	}

	var rec ScanRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "decoding scan %s", id)
	}
	return &rec, nil
}

// List returns stored scan IDs, newest first by file modification time.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "listing store directory")
	}

	type scan struct {
		id  string
		mod int64
	}
	var scans []scan
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		scans = append(scans, scan{id: strings.TrimSuffix(name, ".json"), mod: info.ModTime().UnixNano()})
	}
	sort.Slice(scans, func(i, j int) bool { return scans[i].mod > scans[j].mod })

	ids := make([]string, len(scans))
	for i, sc := range scans {
		ids[i] = sc.id
	}
	return ids, nil
}

// Close does nothing for the file store.
func (s *FileStore) Close(ctx context.Context) error { return nil }

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pipsleuth/pipsleuth/pkg/errors"
	"github.com/pipsleuth/pipsleuth/pkg/inspect"
)

func sampleRecord() *ScanRecord {
	pkg := &inspect.PackageInfo{
		Name:         "demo",
		Version:      "1.0",
		License:      "MIT",
		LicenseNames: inspect.NewStringSet("MIT License"),
		Requirements: inspect.NewStringSet("requests (>=2.0)"),
	}
	return NewScanRecord("/usr/bin/python3", inspect.SourceMixed, []*inspect.PackageInfo{pkg})
}

func TestNewScanRecord(t *testing.T) {
	rec := sampleRecord()

	if rec.ID == "" {
		t.Error("expected non-empty scan ID")
	}
	if rec.Source != "mixed" {
		t.Errorf("Source = %q, want mixed", rec.Source)
	}
	if time.Since(rec.CreatedAt) > time.Minute {
		t.Errorf("CreatedAt = %v, want recent", rec.CreatedAt)
	}

	other := sampleRecord()
	if other.ID == rec.ID {
		t.Error("scan IDs must be unique per record")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	rec := sampleRecord()
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != rec.ID || got.Source != rec.Source {
		t.Errorf("round trip mismatch: got %+v", got)
	}
	if len(got.Packages) != 1 || got.Packages[0].Name != "demo" {
		t.Errorf("Packages = %v", got.Packages)
	}
	if !got.Packages[0].LicenseNames.Has("MIT License") {
		t.Errorf("LicenseNames lost in round trip: %v", got.Packages[0].LicenseNames.Sorted())
	}
}

func TestFileStoreGetMissing(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.Get(context.Background(), "nope")
	if !errors.Is(err, errors.ErrCodeScanNotFound) {
		t.Errorf("Get missing = %v, want SCAN_NOT_FOUND", err)
	}
}

func TestFileStorePutRequiresID(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	err = s.Put(context.Background(), &ScanRecord{})
	if !errors.Is(err, errors.ErrCodeInvalidRecord) {
		t.Errorf("Put without ID = %v, want INVALID_RECORD", err)
	}
}

func TestFileStoreList(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	first := sampleRecord()
	second := sampleRecord()
	if err := s.Put(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, second); err != nil {
		t.Fatal(err)
	}
	// Make the ordering unambiguous regardless of filesystem timestamp
	// resolution.
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(filepath.Join(dir, first.ID+".json"), old, old); err != nil {
		t.Fatal(err)
	}

	ids, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 {
		t.Fatalf("List returned %d IDs, want 2", len(ids))
	}
	if ids[0] != second.ID || ids[1] != first.ID {
		t.Errorf("List order = %v, want newest first", ids)
	}
}

func TestNullStore(t *testing.T) {
	ctx := context.Background()
	s := NewNullStore()

	if err := s.Put(ctx, sampleRecord()); err != nil {
		t.Errorf("Put = %v, want nil", err)
	}
	if _, err := s.Get(ctx, "anything"); !errors.Is(err, errors.ErrCodeScanNotFound) {
		t.Errorf("Get = %v, want SCAN_NOT_FOUND", err)
	}
	ids, err := s.List(ctx)
	if err != nil || ids != nil {
		t.Errorf("List = %v, %v, want nil, nil", ids, err)
	}
}

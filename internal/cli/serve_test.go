package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pipsleuth/pipsleuth/pkg/inspect"
	"github.com/pipsleuth/pipsleuth/pkg/store"
)

func testServer(t *testing.T, pkgs []*inspect.PackageInfo) *server {
	t.Helper()
	s, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return &server{
		store:   s,
		backend: "file",
		python:  "/usr/bin/python3",
		source:  inspect.SourceMixed,
		scan: func(ctx context.Context) ([]*inspect.PackageInfo, error) {
			return pkgs, nil
		},
	}
}

func doRequest(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServeHealth(t *testing.T) {
	srv := testServer(t, nil)
	rec := doRequest(t, srv.routes(), http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestServeListPackages(t *testing.T) {
	srv := testServer(t, []*inspect.PackageInfo{
		samplePackage("requests", "2.31.0", "Apache Software License"),
	})

	rec := doRequest(t, srv.routes(), http.MethodGet, "/api/packages")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 1 || got[0]["name"] != "requests" {
		t.Errorf("body = %v", got)
	}
}

func TestServeGetPackage(t *testing.T) {
	srv := testServer(t, []*inspect.PackageInfo{
		samplePackage("pip-licenses", "5.0.0", "MIT License"),
	})
	routes := srv.routes()

	// Lookup is PEP 503 normalized on both sides.
	rec := doRequest(t, routes, http.MethodGet, "/api/packages/Pip_Licenses")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	rec = doRequest(t, routes, http.MethodGet, "/api/packages/absent")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["code"] != "PACKAGE_NOT_FOUND" {
		t.Errorf("code = %q", body["code"])
	}
}

func TestServeScanLifecycle(t *testing.T) {
	srv := testServer(t, []*inspect.PackageInfo{
		samplePackage("flask", "3.0.0", "BSD License"),
	})
	routes := srv.routes()

	// Create
	rec := doRequest(t, routes, http.MethodPost, "/api/scans")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", rec.Code)
	}
	var created struct {
		ID       string `json:"id"`
		Packages int    `json:"packages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.Packages != 1 {
		t.Fatalf("created = %+v", created)
	}

	// List
	rec = doRequest(t, routes, http.MethodGet, "/api/scans")
	var ids []string
	if err := json.Unmarshal(rec.Body.Bytes(), &ids); err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != created.ID {
		t.Errorf("ids = %v", ids)
	}

	// Get
	rec = doRequest(t, routes, http.MethodGet, "/api/scans/"+created.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	var record store.ScanRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &record); err != nil {
		t.Fatal(err)
	}
	if record.ID != created.ID || len(record.Packages) != 1 {
		t.Errorf("record = %+v", record)
	}

	// Missing scan
	rec = doRequest(t, routes, http.MethodGet, "/api/scans/missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing scan status = %d, want 404", rec.Code)
	}
}

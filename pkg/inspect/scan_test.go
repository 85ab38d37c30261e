package inspect

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
)

// sitePackages builds a search path directory holding one dist-info per
// entry in dists (name -> metadata document).
func sitePackages(t *testing.T, dists map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for dirName, metadata := range dists {
		dir := filepath.Join(root, dirName)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "METADATA"), []byte(metadata), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func scanNames(t *testing.T, opts ScanOptions) []string {
	t.Helper()
	var names []string
	for info, err := range Packages(context.Background(), opts) {
		if err != nil {
			t.Fatalf("Packages failed: %v", err)
		}
		names = append(names, info.Name)
	}
	return names
}

func TestPackages(t *testing.T) {
	root := sitePackages(t, map[string]string{
		"Alpha_Pkg-1.0.dist-info": "Name: Alpha_Pkg\nVersion: 1.0\nLicense: MIT\nClassifier: License :: OSI Approved :: MIT License\n",
		"beta-2.0.dist-info":      "Name: beta\nVersion: 2.0\nLicense: Apache-2.0\n",
	})

	opts := DefaultScanOptions()
	opts.SearchPath = []string{root}

	var infos []*PackageInfo
	for info, err := range Packages(context.Background(), opts) {
		if err != nil {
			t.Fatalf("Packages failed: %v", err)
		}
		infos = append(infos, info)
	}

	if len(infos) != 2 {
		t.Fatalf("got %d packages, want 2", len(infos))
	}

	alpha := infos[0]
	if alpha.Name != "alpha-pkg" {
		t.Errorf("first package = %q, want normalized alpha-pkg", alpha.Name)
	}
	if !alpha.LicenseNames.Has("MIT License") {
		t.Errorf("alpha LicenseNames = %v, want classifier name under mixed source", alpha.LicenseNames.Sorted())
	}

	beta := infos[1]
	if !beta.LicenseNames.Has("Apache-2.0") {
		t.Errorf("beta LicenseNames = %v, want metadata fallback under mixed source", beta.LicenseNames.Sorted())
	}
}

func TestPackagesRawNames(t *testing.T) {
	root := sitePackages(t, map[string]string{
		"Alpha_Pkg-1.0.dist-info": "Name: Alpha_Pkg\nVersion: 1.0\n",
	})

	opts := DefaultScanOptions()
	opts.SearchPath = []string{root}
	opts.NormalizeNames = false

	names := scanNames(t, opts)
	if !slices.Equal(names, []string{"Alpha_Pkg"}) {
		t.Errorf("names = %v, want raw Alpha_Pkg", names)
	}
}

func TestPackagesDeterministic(t *testing.T) {
	root := sitePackages(t, map[string]string{
		"alpha-1.0.dist-info": "Name: alpha\nVersion: 1.0\n",
		"beta-2.0.dist-info":  "Name: beta\nVersion: 2.0\n",
	})

	opts := DefaultScanOptions()
	opts.SearchPath = []string{root}

	first := scanNames(t, opts)
	second := scanNames(t, opts)
	if !slices.Equal(first, second) {
		t.Errorf("repeated scans differ: %v vs %v", first, second)
	}
}

func TestPackagesDeduplicatesSearchPath(t *testing.T) {
	root := sitePackages(t, map[string]string{
		"alpha-1.0.dist-info": "Name: alpha\nVersion: 1.0\n",
	})

	opts := DefaultScanOptions()
	opts.SearchPath = []string{root, root}

	names := scanNames(t, opts)
	if len(names) != 1 {
		t.Errorf("duplicate textual path entries: got %v, want one package", names)
	}

	if runtime.GOOS != "windows" {
		link := filepath.Join(t.TempDir(), "link")
		if err := os.Symlink(root, link); err != nil {
			t.Fatal(err)
		}
		opts.SearchPath = []string{root, link}
		names = scanNames(t, opts)
		if len(names) != 1 {
			t.Errorf("symlinked duplicate path entries: got %v, want one package", names)
		}
	}
}

func TestPackagesPropagatesMalformed(t *testing.T) {
	root := sitePackages(t, map[string]string{
		"alpha-1.0.dist-info": "Name: alpha\nVersion: 1.0\n",
	})
	if err := os.MkdirAll(filepath.Join(root, "broken-1.0.dist-info"), 0755); err != nil {
		t.Fatal(err)
	}

	opts := DefaultScanOptions()
	opts.SearchPath = []string{root}

	var sawErr error
	for _, err := range Packages(context.Background(), opts) {
		if err != nil {
			sawErr = err
		}
	}
	if sawErr == nil {
		t.Error("expected malformed distribution to propagate")
	}
}

func TestPackagesLazy(t *testing.T) {
	root := sitePackages(t, map[string]string{
		"alpha-1.0.dist-info": "Name: alpha\nVersion: 1.0\n",
		"beta-2.0.dist-info":  "Name: beta\nVersion: 2.0\n",
	})

	opts := DefaultScanOptions()
	opts.SearchPath = []string{root}

	count := 0
	for _, err := range Packages(context.Background(), opts) {
		if err != nil {
			t.Fatal(err)
		}
		count++
		break
	}
	if count != 1 {
		t.Errorf("consumed %d records before break, want 1", count)
	}
}

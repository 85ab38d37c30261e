package inspect

import (
	"testing"
)

func TestAggregate(t *testing.T) {
	dist := diskDist(t, &fakeDist{
		md: md(
			"Name", "Demo_Package",
			"Summary", "A demo.",
			"Author", "Jane Doe",
			"License", "MIT",
			"Classifier", "License :: OSI Approved :: MIT License",
			"Classifier", "Programming Language :: Python :: 3",
		),
		version:  "1.2.3",
		requires: []string{"requests (>=2.0)", "idna", "requests (>=2.0)"},
	}, map[string]string{
		"LICENSE":   "license text",
		"NOTICE.md": "notice text",
	})

	info, err := Aggregate(dist, Options{IncludeFiles: true, NormalizeName: true})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if info.Name != "demo-package" {
		t.Errorf("Name = %q, want normalized demo-package", info.Name)
	}
	if info.Version != "1.2.3" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.NameVersion() != "demo-package 1.2.3" {
		t.Errorf("NameVersion = %q", info.NameVersion())
	}
	if info.Summary != "A demo." || info.Author != "Jane Doe" || info.License != "MIT" {
		t.Errorf("resolved fields = %q %q %q", info.Summary, info.Author, info.License)
	}
	if info.Homepage != Unknown || info.Maintainer != Unknown {
		t.Errorf("unresolved fields should be %q, got %q %q", Unknown, info.Homepage, info.Maintainer)
	}

	if len(info.LicenseFiles) != 1 || len(info.NoticeFiles) != 1 {
		t.Errorf("file classification: %d license, %d notice", len(info.LicenseFiles), len(info.NoticeFiles))
	}
	if len(info.LicenseClassifiers) != 1 || info.LicenseClassifiers[0] != "MIT License" {
		t.Errorf("LicenseClassifiers = %v", info.LicenseClassifiers)
	}
	if info.Requirements.Len() != 2 {
		t.Errorf("Requirements = %v, want duplicates collapsed", info.Requirements.Sorted())
	}
	if info.LicenseNames != nil {
		t.Error("LicenseNames must not be set by Aggregate")
	}
	if info.Distribution() != dist {
		t.Error("Distribution back-reference lost")
	}
}

func TestAggregateRawName(t *testing.T) {
	dist := &fakeDist{md: md("Name", "Demo_Package"), version: "1.0"}

	info, err := Aggregate(dist, Options{NormalizeName: false})
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "Demo_Package" {
		t.Errorf("Name = %q, want raw name", info.Name)
	}
}

func TestAggregateWithoutFiles(t *testing.T) {
	dist := diskDist(t, &fakeDist{
		md:      md("Name", "demo"),
		version: "1.0",
	}, map[string]string{
		"LICENSE": "license text",
	})

	info, err := Aggregate(dist, Options{IncludeFiles: false})
	if err != nil {
		t.Fatal(err)
	}

	for field, files := range map[string][]FileContent{
		"LicenseFiles": info.LicenseFiles,
		"NoticeFiles":  info.NoticeFiles,
		"OtherFiles":   info.OtherFiles,
		"SBOMFiles":    info.SBOMFiles,
	} {
		if files == nil {
			t.Errorf("%s is nil, want empty sequence", field)
		}
		if len(files) != 0 {
			t.Errorf("%s = %v, want empty with IncludeFiles disabled", field, files)
		}
	}
}

func TestAggregateNoMatchesStillEmptySequences(t *testing.T) {
	dist := diskDist(t, &fakeDist{
		md:      md("Name", "demo"),
		version: "1.0",
	}, map[string]string{
		"readme.md": "nothing to classify",
	})

	info, err := Aggregate(dist, Options{IncludeFiles: true})
	if err != nil {
		t.Fatal(err)
	}

	if info.LicenseFiles == nil || info.NoticeFiles == nil || info.OtherFiles == nil || info.SBOMFiles == nil {
		t.Error("file-bearing fields must be empty sequences, not nil")
	}
	if len(info.LicenseFiles)+len(info.NoticeFiles)+len(info.OtherFiles)+len(info.SBOMFiles) != 0 {
		t.Error("expected no classified files")
	}
}

func TestAggregateEmptyRequirements(t *testing.T) {
	dist := &fakeDist{md: md("Name", "demo"), version: "1.0"}

	info, err := Aggregate(dist, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if info.Requirements == nil || info.Requirements.Len() != 0 {
		t.Errorf("Requirements = %v, want empty set", info.Requirements)
	}
}

func TestClassifyFilesMutualExclusivity(t *testing.T) {
	// NOTICE.md matches the notice pattern only, but even a file matched by
	// both passes must land in exactly one category.
	dist := diskDist(t, &fakeDist{
		md:      md("Name", "demo"),
		version: "1.0",
	}, map[string]string{
		"LICENSE":   "license",
		"NOTICE.md": "notice",
	})

	info, err := Aggregate(dist, Options{IncludeFiles: true})
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[string]int)
	for _, fc := range info.LicenseFiles {
		seen[fc.Path]++
	}
	for _, fc := range info.NoticeFiles {
		seen[fc.Path]++
	}
	for _, fc := range info.OtherFiles {
		seen[fc.Path]++
	}
	for path, n := range seen {
		if n > 1 {
			t.Errorf("%s classified %d times, want exactly once", path, n)
		}
	}
}

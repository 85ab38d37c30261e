package inspect

import (
	"github.com/pipsleuth/pipsleuth/pkg/pep503"
	"github.com/pipsleuth/pipsleuth/pkg/pymeta"
)

// Options configures single-package aggregation.
type Options struct {
	// IncludeFiles enables the on-disk file classification passes. When
	// false, all four file-bearing fields stay empty and no disk I/O
	// happens for the package.
	IncludeFiles bool

	// NormalizeName applies PEP 503 normalization to the package name.
	NormalizeName bool
}

// PackageInfo is the aggregated licensing view of one installed
// distribution. It is fully populated by [Aggregate] (plus the license-name
// selection applied by [Packages]) and not mutated by the library
// afterwards.
type PackageInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`

	// Resolved metadata fields; each is a value or the Unknown sentinel.
	Homepage   string `json:"homepage"`
	Author     string `json:"author"`
	Maintainer string `json:"maintainer"`
	License    string `json:"license"`
	Summary    string `json:"summary"`

	// Classified on-disk files. Empty (not nil) when IncludeFiles was set
	// and nothing matched.
	LicenseFiles []FileContent `json:"license_files"`
	NoticeFiles  []FileContent `json:"notice_files"`
	OtherFiles   []FileContent `json:"other_files"`
	SBOMFiles    []FileContent `json:"sbom_files"`

	// LicenseClassifiers lists license names from trove classifiers in
	// declaration order.
	LicenseClassifiers []string `json:"license_classifiers"`

	// LicenseNames is the selected set of license names; populated by
	// [Packages] after aggregation, since the source preference is a
	// per-scan concern.
	LicenseNames StringSet `json:"license_names,omitempty"`

	// Requirements is the set of declared requirement specifications.
	Requirements StringSet `json:"requirements"`

	dist pymeta.Distribution
}

// NameVersion returns the "name version" display form.
func (p *PackageInfo) NameVersion() string {
	return p.Name + " " + p.Version
}

// Distribution returns the underlying distribution the record was built
// from. The reference is read-only; it is retained for identity checks and
// re-querying, never mutated.
func (p *PackageInfo) Distribution() pymeta.Distribution {
	return p.dist
}

// Aggregate builds the PackageInfo record for one distribution.
//
// The license-name selection is deliberately not applied here: the source
// preference belongs to the scan, not the package. Callers composing
// records manually should follow with [SelectLicenseNames].
func Aggregate(dist pymeta.Distribution, opts Options) (*PackageInfo, error) {
	md := dist.Metadata()

	name := pymeta.Name(dist)
	if opts.NormalizeName {
		name = pep503.Normalize(name)
	}

	info := &PackageInfo{
		Name:         name,
		Version:      dist.Version(),
		LicenseFiles: []FileContent{},
		NoticeFiles:  []FileContent{},
		OtherFiles:   []FileContent{},
		SBOMFiles:    []FileContent{},
		dist:         dist,
	}

	if opts.IncludeFiles {
		classifyFiles(dist, info)
	}

	fields, err := resolveFields(md)
	if err != nil {
		return nil, err
	}
	info.Homepage = fields.Homepage
	info.Author = fields.Author
	info.Maintainer = fields.Maintainer
	info.License = fields.License
	info.Summary = fields.Summary

	info.LicenseClassifiers = LicensesFromClassifiers(md.Values("Classifier"))
	info.Requirements = NewStringSet(dist.Requires()...)

	return info, nil
}

// classifyFiles runs the classification passes in order, each later pass
// excluding paths claimed by an earlier one so a file lands in exactly one
// category.
func classifyFiles(dist pymeta.Distribution, info *PackageInfo) {
	claimed := make(map[string]bool)

	for fc := range IncludedFiles(dist, licenseFileRE) {
		info.LicenseFiles = append(info.LicenseFiles, fc)
		claimed[fc.Path] = true
	}
	for fc := range IncludedFiles(dist, noticeFileRE) {
		if claimed[fc.Path] {
			continue
		}
		info.NoticeFiles = append(info.NoticeFiles, fc)
		claimed[fc.Path] = true
	}
	info.OtherFiles = append(info.OtherFiles, DeclaredLicenseFiles(dist, claimed)...)
	info.SBOMFiles = append(info.SBOMFiles, SBOMFiles(dist)...)
}

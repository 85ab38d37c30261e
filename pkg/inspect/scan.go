package inspect

import (
	"context"
	"iter"

	"github.com/pipsleuth/pipsleuth/pkg/pyenv"
	"github.com/pipsleuth/pipsleuth/pkg/pymeta"
)

// ScanOptions configures one enumeration of installed packages.
type ScanOptions struct {
	// Source selects which metadata stream license names are reported
	// from. The zero value is SourceMeta.
	Source Source

	// PythonPath names an alternate interpreter executable whose search
	// path should be scanned. Empty means the default interpreter on
	// PATH.
	PythonPath string

	// SearchPath overrides interpreter resolution entirely with an
	// explicit list of directories. Nil means "ask the interpreter".
	SearchPath []string

	// IncludeFiles enables the on-disk file classification passes.
	IncludeFiles bool

	// NormalizeNames applies PEP 503 normalization to package names.
	NormalizeNames bool
}

// DefaultScanOptions returns the options used by the CLI: mixed license
// source, file passes enabled, normalized names.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		Source:         SourceMixed,
		IncludeFiles:   true,
		NormalizeNames: true,
	}
}

// Packages enumerates every installed distribution on the target
// interpreter's search path and yields one fully populated [PackageInfo]
// per package.
//
// The sequence is lazy: each record's metadata resolution and file I/O
// happen when the caller requests it, so at most one package's file
// contents are in memory at a time. Every call performs a fresh scan.
//
// Search path entries are canonicalized and deduplicated preserving
// first-seen order, so the same directory reached through two names is
// scanned once. Any failure — interpreter query, unreadable search path,
// malformed distribution metadata — is yielded as the final element and
// terminates the sequence; there is no partial-result recovery here.
func Packages(ctx context.Context, opts ScanOptions) iter.Seq2[*PackageInfo, error] {
	return func(yield func(*PackageInfo, error) bool) {
		paths := opts.SearchPath
		if paths == nil {
			var err error
			paths, err = pyenv.SearchPath(ctx, opts.PythonPath)
			if err != nil {
				yield(nil, err)
				return
			}
		}
		paths = pyenv.Dedupe(paths)

		aggOpts := Options{IncludeFiles: opts.IncludeFiles, NormalizeName: opts.NormalizeNames}
		for dist, err := range pymeta.Distributions(paths) {
			if err != nil {
				yield(nil, err)
				return
			}

			info, err := Aggregate(dist, aggOpts)
			if err != nil {
				yield(nil, err)
				return
			}
			info.LicenseNames = SelectLicenseNames(opts.Source, info.LicenseClassifiers, info.License)

			if !yield(info, nil) {
				return
			}
		}
	}
}

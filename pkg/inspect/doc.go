// Package inspect extracts licensing-relevant metadata from installed
// Python distributions.
//
// For every distribution it produces one [PackageInfo] record: resolved
// metadata fields (homepage, author, maintainer, license, summary), license
// names derived from trove classifiers, bundled license/notice/SBOM file
// contents, and declared requirements. Records are built fresh on each
// scan; nothing is cached between calls.
//
// [Packages] is the main entry point and yields records lazily, one
// package's worth of file I/O at a time. [Aggregate] and the smaller
// helpers are usable independently for single-package inspection.
//
// The package only extracts and labels what a distribution declares; it
// never judges license compatibility.
package inspect

package inspect

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pipsleuth/pipsleuth/pkg/pymeta"
)

// FileContent pairs an absolute on-disk path with decoded text content.
type FileContent struct {
	Path string `json:"path"`
	Text string `json:"text"`
}

// Name patterns for the fixed classification passes, matched against the
// file name only.
var (
	licenseFileRE = regexp.MustCompile(`(?i)^(?:LICEN[CS]E.*|COPYING.*)$`)
	noticeFileRE  = regexp.MustCompile(`(?i)^NOTICE.*$`)
)

// Subdirectories of the metadata directory holding declared license files
// (PEP 639) and SBOM documents (PEP 770).
const (
	licensesSubdir = "licenses"
	sbomsSubdir    = "sboms"
)

// IncludedFiles lazily yields the distribution's files whose name matches
// namePattern, in the file list's original order.
//
// Only entries that resolve to an existing regular file are yielded; a
// match pointing at a directory, a missing path, or an unreadable file is
// silently skipped. Content is decoded with [ReadFileLossy], so malformed
// bytes never abort a scan.
func IncludedFiles(dist pymeta.Distribution, namePattern *regexp.Regexp) iter.Seq[FileContent] {
	return func(yield func(FileContent) bool) {
		for _, rel := range dist.Files() {
			if !namePattern.MatchString(filepath.Base(rel)) {
				continue
			}
			abs := dist.LocateFile(rel)
			text, ok := readRegular(abs)
			if !ok {
				continue
			}
			if !yield(FileContent{Path: abs, Text: text}) {
				return
			}
		}
	}
}

// DeclaredLicenseFiles resolves files declared via the repeated
// License-File metadata field, beneath the metadata directory's licenses/
// subdirectory.
//
// Files whose absolute path is already present in exclude (i.e., picked up
// by the name-pattern passes) are skipped; the remainder is the "other"
// category. Distributions without an on-disk metadata directory produce no
// results.
func DeclaredLicenseFiles(dist pymeta.Distribution, exclude map[string]bool) []FileContent {
	dir, ok := dist.Dir()
	if !ok {
		return nil
	}

	var files []FileContent
	for _, declared := range dist.Metadata().Values("License-File") {
		abs := filepath.Join(dir, licensesSubdir, declared)
		if exclude[abs] {
			continue
		}
		text, ok := readRegular(abs)
		if !ok {
			continue
		}
		files = append(files, FileContent{Path: abs, Text: text})
	}
	return files
}

// SBOMFiles lists every file beneath the metadata directory's sboms/
// subdirectory, sorted by path. Distributions without an on-disk metadata
// directory produce no results.
func SBOMFiles(dist pymeta.Distribution) []FileContent {
	dir, ok := dist.Dir()
	if !ok {
		return nil
	}

	root := filepath.Join(dir, sbomsSubdir)
	var files []FileContent
	// WalkDir visits entries in lexical order, which gives the sorted-by-path
	// guarantee directly.
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if text, ok := readRegular(path); ok {
			files = append(files, FileContent{Path: path, Text: text})
		}
		return nil
	})
	return files
}

// readRegular reads path as text if it is an existing regular file.
func readRegular(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	text, err := ReadFileLossy(path)
	if err != nil {
		return "", false
	}
	return text, true
}

// ReadFileLossy reads a file as UTF-8 text. Byte sequences that are not
// valid UTF-8 are replaced byte-by-byte with a backslash escape (\xNN)
// instead of failing, so malformed license files never abort a scan.
func ReadFileLossy(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return DecodeLossy(data), nil
}

// DecodeLossy converts raw bytes to a string, substituting \xNN escapes
// for bytes that do not form valid UTF-8.
func DecodeLossy(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	var b strings.Builder
	b.Grow(len(data))
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			fmt.Fprintf(&b, `\x%02x`, data[i])
			i++
			continue
		}
		b.WriteRune(r)
		i += size
	}
	return b.String()
}

package pymeta

import (
	"bufio"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/pipsleuth/pipsleuth/pkg/errors"
)

// InstalledDistribution reads one .dist-info or .egg-info directory.
//
// The metadata document, file listing, and requirement declarations are
// loaded once at construction; accessors afterwards are cheap and the value
// is safe for concurrent reads.
type InstalledDistribution struct {
	dir      string // absolute path of the metadata directory
	meta     *Metadata
	files    []string
	requires []string
}

// NewInstalled loads the distribution rooted at the given metadata
// directory. The directory must contain a METADATA (dist-info) or PKG-INFO
// (egg-info) document; a missing or malformed document is an error.
func NewInstalled(dir string) (*InstalledDistribution, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolving %s", dir)
	}

	meta, err := readMetadataFile(abs)
	if err != nil {
		return nil, err
	}

	d := &InstalledDistribution{dir: abs, meta: meta}
	d.files = readFileListing(abs)
	d.requires = readRequires(abs, meta)
	return d, nil
}

// Metadata returns the parsed core metadata document.
func (d *InstalledDistribution) Metadata() *Metadata { return d.meta }

// Version returns the declared package version.
func (d *InstalledDistribution) Version() string { return d.meta.Get("Version") }

// Files returns the installed file paths recorded by the installer,
// relative to the install root (the directory containing the metadata
// directory). Returns nil when the installer left no record.
func (d *InstalledDistribution) Files() []string { return d.files }

// LocateFile resolves a path from Files to its absolute on-disk location.
func (d *InstalledDistribution) LocateFile(rel string) string {
	return filepath.Join(filepath.Dir(d.dir), rel)
}

// Requires returns the declared requirement specifications.
func (d *InstalledDistribution) Requires() []string { return d.requires }

// Dir returns the absolute metadata directory path.
func (d *InstalledDistribution) Dir() (string, bool) { return d.dir, true }

// readMetadataFile parses METADATA, falling back to PKG-INFO for egg-info
// layouts.
func readMetadataFile(dir string) (*Metadata, error) {
	for _, name := range []string{"METADATA", "PKG-INFO"} {
		f, err := os.Open(filepath.Join(dir, name))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidMetadata, err, "opening %s in %s", name, dir)
		}
		defer f.Close()

		meta, err := ParseMetadata(f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidMetadata, err, "parsing %s in %s", name, dir)
		}
		return meta, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidMetadata, "no metadata document in %s", dir)
}

// readFileListing reads the installed-file record. dist-info layouts carry
// a RECORD file (CSV: path, hash, size); egg-info layouts may carry
// installed-files.txt with one path per line, relative to the metadata
// directory itself. An unreadable or absent record yields nil: the file
// listing is optional per the distribution contract.
func readFileListing(dir string) []string {
	if f, err := os.Open(filepath.Join(dir, "RECORD")); err == nil {
		defer f.Close()
		r := csv.NewReader(f)
		r.FieldsPerRecord = -1
		var files []string
		for {
			rec, err := r.Read()
			if err != nil {
				break
			}
			if len(rec) > 0 && rec[0] != "" {
				files = append(files, rec[0])
			}
		}
		return files
	}

	if data, err := os.ReadFile(filepath.Join(dir, "installed-files.txt")); err == nil {
		base := filepath.Base(dir)
		var files []string
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			// Entries are relative to the metadata directory; rebase onto
			// the install root.
			files = append(files, filepath.Join(base, line))
		}
		return files
	}

	return nil
}

// readRequires collects requirement specifications: Requires-Dist metadata
// fields when present, otherwise the egg-info requires.txt (main section
// only; extras sections start at the first bracketed header).
func readRequires(dir string, meta *Metadata) []string {
	if reqs := meta.Values("Requires-Dist"); len(reqs) > 0 {
		return reqs
	}

	f, err := os.Open(filepath.Join(dir, "requires.txt"))
	if err != nil {
		return nil
	}
	defer f.Close()

	var reqs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "[") {
			break
		}
		if line != "" {
			reqs = append(reqs, line)
		}
	}
	return reqs
}

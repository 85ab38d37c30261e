package pymeta

import (
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/pipsleuth/pipsleuth/pkg/errors"
)

// Distributions lazily enumerates every installed distribution discoverable
// on the given search path directories.
//
// Directories are visited in path order; within a directory, metadata
// directories are visited in lexical order. Search path entries that do not
// exist or are not directories are skipped, matching interpreter behavior
// for stale sys.path entries. Any other failure (unreadable directory,
// malformed metadata document) stops the sequence with an error.
func Distributions(paths []string) iter.Seq2[Distribution, error] {
	return func(yield func(Distribution, error) bool) {
		for _, path := range paths {
			entries, err := os.ReadDir(path)
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				yield(nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "reading search path entry %s", path))
				return
			}

			for _, entry := range entries {
				if !entry.IsDir() || !isMetadataDir(entry.Name()) {
					continue
				}
				dist, err := NewInstalled(filepath.Join(path, entry.Name()))
				if err != nil {
					yield(nil, err)
					return
				}
				if !yield(dist, nil) {
					return
				}
			}
		}
	}
}

func isMetadataDir(name string) bool {
	return strings.HasSuffix(name, ".dist-info") || strings.HasSuffix(name, ".egg-info")
}

package inspect

import (
	"path/filepath"

	"github.com/pipsleuth/pipsleuth/pkg/pymeta"
)

// fakeDist is an in-memory Distribution for testing the inspection layer
// without touching a real site-packages directory.
type fakeDist struct {
	md       *pymeta.Metadata
	version  string
	files    []string
	root     string // install root for LocateFile
	requires []string
	dir      string // metadata directory; "" means not on disk
}

func (d *fakeDist) Metadata() *pymeta.Metadata { return d.md }
func (d *fakeDist) Version() string            { return d.version }
func (d *fakeDist) Files() []string            { return d.files }
func (d *fakeDist) Requires() []string         { return d.requires }

func (d *fakeDist) LocateFile(rel string) string {
	return filepath.Join(d.root, rel)
}

func (d *fakeDist) Dir() (string, bool) {
	return d.dir, d.dir != ""
}

// md builds a metadata store from key/value pairs.
func md(pairs ...string) *pymeta.Metadata {
	m := &pymeta.Metadata{}
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Add(pairs[i], pairs[i+1])
	}
	return m
}

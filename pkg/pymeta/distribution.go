package pymeta

// Distribution is the contract the inspection layer consumes for one
// installed package.
//
// Implementations outside this package (e.g., test fakes or adapters over
// remote indexes) only need to satisfy this interface; the inspection layer
// never assumes an on-disk layout beyond what Dir exposes.
type Distribution interface {
	// Metadata returns the package's core metadata store.
	Metadata() *Metadata

	// Version returns the package version string.
	Version() string

	// Files returns the package's declared file paths, relative to the
	// install root. Returns nil when no file listing is available.
	Files() []string

	// LocateFile resolves a relative file path to an absolute on-disk
	// location.
	LocateFile(rel string) string

	// Requires returns the package's declared requirement specifications.
	// Returns nil when none are declared.
	Requires() []string

	// Dir returns the absolute path of the package's on-disk metadata
	// directory (the .dist-info/.egg-info directory). ok is false for
	// distributions that are not materialized on disk.
	Dir() (dir string, ok bool)
}

// Name returns the distribution's declared package name, or "" when the
// metadata carries none.
func Name(dist Distribution) string {
	return dist.Metadata().Get("Name")
}

// Package pymeta provides read access to installed Python distribution
// metadata, mirroring the behavior of importlib.metadata.
//
// A [Distribution] bundles the core metadata document of one installed
// package with its file listing and requirement declarations. The concrete
// [InstalledDistribution] reads .dist-info and .egg-info directories as
// produced by pip and other PEP 376 compliant installers; [Distributions]
// enumerates every distribution discoverable on a list of search path
// directories, lazily.
//
// Metadata documents follow the core metadata specification: RFC 822 style
// header fields, some of which may repeat (Classifier, Project-URL,
// Requires-Dist, License-File). Field name lookup is case-insensitive.
package pymeta

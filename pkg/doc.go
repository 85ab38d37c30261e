// Package pkg provides the core libraries for pipsleuth license inspection.
//
// # Overview
//
// Pipsleuth inspects the packages installed in a Python environment and
// aggregates their license metadata. The pkg directory is organized into
// focused areas:
//
//  1. [pyenv] - Locating interpreters and querying their module search path
//  2. [pymeta] - Reading installed distribution metadata (.dist-info/.egg-info)
//  3. [inspect] - Aggregating license information per package
//  4. [render] - Dependency graph output (DOT, SVG)
//  5. [store] - Scan record persistence (file, redis, mongo)
//
// # Architecture
//
// The typical data flow:
//
//	Python interpreter
//	         ↓
//	    [pyenv] package (resolve sys.path)
//	         ↓
//	    [pymeta] package (enumerate installed distributions)
//	         ↓
//	    [inspect] package (aggregate license metadata)
//	         ↓
//	    table/JSON report, [render] graph, or [store] record
//
// # Quick Start
//
//	for info, err := range inspect.Packages(ctx, inspect.DefaultScanOptions()) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(info.NameVersion(), info.LicenseNames.Sorted())
//	}
//
// Supporting packages: [pep503] (name normalization), [errors] (structured
// error codes), [observability] (instrumentation hooks).
package pkg

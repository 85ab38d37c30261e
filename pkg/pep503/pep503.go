// Package pep503 implements the package name normalization rules defined
// by PEP 503 and used across PyPI and installer tooling.
//
// Normalized names are the canonical comparison form: two names that
// normalize to the same string refer to the same project regardless of
// how a maintainer spelled them in metadata or on the command line.
package pep503

import (
	"regexp"
	"strings"
)

// delimiterRE matches any run of the characters PEP 503 treats as
// equivalent separators.
var delimiterRE = regexp.MustCompile(`[-_.]+`)

// Normalize returns the canonical form of a package name: every run of
// hyphens, underscores, and periods collapsed to a single hyphen, then
// lowercased.
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(name string) string {
	return strings.ToLower(delimiterRE.ReplaceAllString(name, "-"))
}

package inspect

import (
	"strings"

	"github.com/pipsleuth/pipsleuth/pkg/errors"
)

// Source selects which metadata stream license names are reported from.
type Source int

const (
	// SourceMeta reports the license metadata field.
	SourceMeta Source = iota

	// SourceClassifier reports names derived from trove classifiers.
	SourceClassifier

	// SourceMixed prefers classifiers and falls back to the metadata
	// field when no classifier data exists.
	SourceMixed

	// SourceAll is accepted for compatibility but has no combination
	// policy defined; it behaves like SourceMeta.
	SourceAll
)

// String returns the lowercase name of the source.
func (s Source) String() string {
	switch s {
	case SourceMeta:
		return "meta"
	case SourceClassifier:
		return "classifier"
	case SourceMixed:
		return "mixed"
	case SourceAll:
		return "all"
	default:
		return "unknown"
	}
}

// ParseSource converts a source name (case-insensitive) to its Source
// value.
func ParseSource(name string) (Source, error) {
	switch strings.ToLower(name) {
	case "meta":
		return SourceMeta, nil
	case "classifier":
		return SourceClassifier, nil
	case "mixed":
		return SourceMixed, nil
	case "all":
		return SourceAll, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidSource, "unknown license source %q (expected meta, classifier, mixed, or all)", name)
	}
}

// SelectLicenseNames picks the set of license names to report.
//
// SourceClassifier always reports the classifier-derived set, substituting
// {UNKNOWN} when no classifier data exists. SourceMixed reports the
// classifier set when it is non-empty and the metadata license otherwise.
// SourceMeta (and SourceAll, which has no distinct behavior) reports the
// metadata license as a single-element set.
func SelectLicenseNames(source Source, classifiers []string, licenseMeta string) StringSet {
	classifierSet := NewStringSet(classifiers...)
	if classifierSet.Len() == 0 {
		classifierSet = NewStringSet(Unknown)
	}

	if source == SourceClassifier || (source == SourceMixed && len(classifiers) > 0) {
		return classifierSet
	}
	return NewStringSet(licenseMeta)
}

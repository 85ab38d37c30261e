package inspect

import (
	"strings"
	"unicode"

	"github.com/pipsleuth/pipsleuth/pkg/errors"
	"github.com/pipsleuth/pipsleuth/pkg/pymeta"
)

// homepageLabels is the descending-priority list of well-known Project-URL
// labels consulted when neither a "homepage" label nor the legacy Home-page
// field is present.
var homepageLabels = []string{
	"source",
	"sourcecode",
	"repository",
	"github",
	"documentation",
	"docs",
	"bugtracker",
	"issues",
	"changelog",
	"changes",
	"whatsnew",
	"releasenotes",
}

// Homepage extracts the best homepage URL from the package metadata.
//
// Project-URL values have the shape "label, url"; the split happens on the
// first comma only, so commas inside the URL survive. Labels are compared
// after stripping punctuation and whitespace and lowercasing, and a label
// declared twice keeps its last value.
//
// Priority: a "homepage" Project-URL label, then the legacy Home-page
// field, then the first match from [homepageLabels]. Returns "" when
// nothing matches. A Project-URL entry without a comma is a fatal metadata
// error.
func Homepage(md *pymeta.Metadata) (string, error) {
	candidates := make(map[string]string)
	for _, entry := range md.Values("Project-URL") {
		label, value, found := strings.Cut(entry, ",")
		if !found {
			return "", errors.New(errors.ErrCodeInvalidMetadata, "malformed Project-URL entry: %q", entry)
		}
		candidates[normalizeLabel(label)] = strings.TrimSpace(value)
	}

	if url, ok := candidates["homepage"]; ok {
		return url, nil
	}
	if url := md.Get("Home-page"); url != "" {
		return url, nil
	}
	for _, label := range homepageLabels {
		if url, ok := candidates[label]; ok {
			return url, nil
		}
	}
	return "", nil
}

// normalizeLabel strips punctuation and whitespace from a Project-URL
// label and lowercases it, so "Bug Tracker", "Bug-Tracker", and
// "bugtracker" compare equal.
func normalizeLabel(label string) string {
	var b strings.Builder
	for _, r := range label {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

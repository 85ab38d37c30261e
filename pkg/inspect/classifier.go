package inspect

import "strings"

// classifierSeparator joins the segments of a trove classifier.
const classifierSeparator = " :: "

// LicensesFromClassifiers extracts license names from trove classifiers.
//
// Only classifiers starting with "License" are considered; each
// contributes its last segment. The bare "License :: OSI Approved"
// classifier carries no license name and its "OSI Approved" segment is
// dropped. Declaration order is preserved and duplicates are kept.
func LicensesFromClassifiers(classifiers []string) []string {
	var licenses []string
	for _, classifier := range classifiers {
		if !strings.HasPrefix(classifier, "License") {
			continue
		}
		segments := strings.Split(classifier, classifierSeparator)
		name := segments[len(segments)-1]
		if name == "OSI Approved" {
			continue
		}
		licenses = append(licenses, name)
	}
	return licenses
}

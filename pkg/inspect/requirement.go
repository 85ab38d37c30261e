package inspect

import (
	"regexp"

	"github.com/pipsleuth/pipsleuth/pkg/pep503"
)

// requirementNameRE matches the project name at the start of a PEP 508
// requirement specification, before any extras, specifier, or marker.
var requirementNameRE = regexp.MustCompile(`^([A-Za-z0-9][-A-Za-z0-9._]*)`)

// RequirementName extracts the normalized project name from a requirement
// specification like "requests (>=2.0) ; python_version >= '3.8'".
// Returns "" when the specification does not start with a project name.
func RequirementName(spec string) string {
	m := requirementNameRE.FindStringSubmatch(spec)
	if m == nil {
		return ""
	}
	return pep503.Normalize(m[1])
}

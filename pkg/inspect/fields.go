package inspect

import (
	"github.com/pipsleuth/pipsleuth/pkg/pymeta"
)

// Unknown is the sentinel substituted for any metadata field that cannot
// be resolved.
const Unknown = "UNKNOWN"

// fieldSelector extracts one candidate value from a metadata store.
// An empty result means "try the next selector in the chain".
type fieldSelector func(md *pymeta.Metadata) (string, error)

// direct returns a selector reading a single metadata field verbatim.
func direct(key string) fieldSelector {
	return func(md *pymeta.Metadata) (string, error) {
		return md.Get(key), nil
	}
}

// Selector chains per semantic field. The first selector producing a
// non-empty value wins. License-Expression outranks the legacy free-text
// License field per the core metadata specification's mutual-exclusivity
// rule.
var (
	homepageChain   = []fieldSelector{Homepage}
	authorChain     = []fieldSelector{direct("Author"), direct("Author-email")}
	maintainerChain = []fieldSelector{direct("Maintainer"), direct("Maintainer-email")}
	licenseChain    = []fieldSelector{direct("License-Expression"), direct("License")}
	summaryChain    = []fieldSelector{direct("Summary")}
)

// resolvedFields holds the outcome of the field-resolution pass. Every
// field is either a resolved value or [Unknown].
type resolvedFields struct {
	Homepage   string
	Author     string
	Maintainer string
	License    string
	Summary    string
}

// resolveField walks a selector chain and keeps the first non-empty value,
// falling back to the sentinel.
func resolveField(md *pymeta.Metadata, chain []fieldSelector) (string, error) {
	for _, sel := range chain {
		value, err := sel(md)
		if err != nil {
			return "", err
		}
		if value != "" {
			return value, nil
		}
	}
	return Unknown, nil
}

// resolveFields runs every selector chain against the metadata store. The
// pass is pure: it depends only on the store's contents.
func resolveFields(md *pymeta.Metadata) (resolvedFields, error) {
	var fields resolvedFields
	var err error

	if fields.Homepage, err = resolveField(md, homepageChain); err != nil {
		return fields, err
	}
	if fields.Author, err = resolveField(md, authorChain); err != nil {
		return fields, err
	}
	if fields.Maintainer, err = resolveField(md, maintainerChain); err != nil {
		return fields, err
	}
	if fields.License, err = resolveField(md, licenseChain); err != nil {
		return fields, err
	}
	if fields.Summary, err = resolveField(md, summaryChain); err != nil {
		return fields, err
	}
	return fields, nil
}

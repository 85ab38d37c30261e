package pymeta

import (
	"bufio"
	"io"
	"strings"

	"github.com/pipsleuth/pipsleuth/pkg/errors"
)

// Metadata is a case-insensitive metadata store supporting repeated keys,
// parsed from a core metadata document (METADATA or PKG-INFO).
//
// Entries preserve declaration order, which matters for repeated fields
// like Classifier and Project-URL. The zero value is an empty store ready
// for use.
type Metadata struct {
	entries []metadataEntry
}

type metadataEntry struct {
	key   string // canonical lowercase form
	value string
}

// Add appends a key/value pair to the store. The key is canonicalized to
// lowercase so later lookups are case-insensitive.
func (m *Metadata) Add(key, value string) {
	m.entries = append(m.entries, metadataEntry{key: strings.ToLower(key), value: value})
}

// Get returns the first value recorded for key, or "" if the key is absent.
func (m *Metadata) Get(key string) string {
	key = strings.ToLower(key)
	for _, e := range m.entries {
		if e.key == key {
			return e.value
		}
	}
	return ""
}

// Values returns every value recorded for key, in declaration order.
// Returns nil if the key is absent.
func (m *Metadata) Values(key string) []string {
	key = strings.ToLower(key)
	var values []string
	for _, e := range m.entries {
		if e.key == key {
			values = append(values, e.value)
		}
	}
	return values
}

// Has reports whether at least one value is recorded for key.
func (m *Metadata) Has(key string) bool {
	key = strings.ToLower(key)
	for _, e := range m.entries {
		if e.key == key {
			return true
		}
	}
	return false
}

// Len returns the number of recorded entries, counting repeats.
func (m *Metadata) Len() int {
	return len(m.entries)
}

// ParseMetadata reads a core metadata document.
//
// Header fields end at the first blank line; continuation lines (leading
// whitespace) extend the previous field's value. Any body after the blank
// line is recorded as the Description field when no Description header was
// present, matching the legacy PKG-INFO layout.
func ParseMetadata(r io.Reader) (*Metadata, error) {
	md := &Metadata{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	inBody := false
	var body strings.Builder

	for scanner.Scan() {
		line := scanner.Text()

		if inBody {
			if body.Len() > 0 {
				body.WriteByte('\n')
			}
			body.WriteString(line)
			continue
		}

		if line == "" {
			inBody = true
			continue
		}

		if line[0] == ' ' || line[0] == '\t' {
			// Continuation of the previous field.
			if len(md.entries) == 0 {
				return nil, errors.New(errors.ErrCodeInvalidMetadata, "continuation line before any field: %q", line)
			}
			last := &md.entries[len(md.entries)-1]
			last.value += "\n" + strings.TrimLeft(line, " \t")
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			return nil, errors.New(errors.ErrCodeInvalidMetadata, "malformed metadata line: %q", line)
		}
		md.Add(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMetadata, err, "reading metadata")
	}

	if text := strings.TrimSpace(body.String()); text != "" && !md.Has("description") {
		md.Add("Description", text)
	}

	return md, nil
}

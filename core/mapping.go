package core

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Mapping is a process-local shortname→URL bookmark table (spec.md §3),
// persisted as line-delimited "shortname=URL" text (spec.md §6). Shortnames
// must match the Slug regex.
type Mapping struct {
	entries map[string]string
	path    string
}

// NewMapping constructs an empty, unpersisted Mapping.
func NewMapping() *Mapping {
	return &Mapping{entries: make(map[string]string)}
}

// LoadMapping reads a mapping file from path. A missing file yields an
// empty Mapping bound to path (so a subsequent Save creates it).
func LoadMapping(path string) (*Mapping, error) {
	m := &Mapping{entries: make(map[string]string), path: path}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, &IOError{Op: "open mapping file", Err: err}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		shortname, url, ok := strings.Cut(line, "=")
		if !ok {
			return nil, &IOError{Op: "parse mapping file", Err: fmt.Errorf("malformed line: %q", line)}
		}
		m.entries[shortname] = url
	}
	if err := scanner.Err(); err != nil {
		return nil, &IOError{Op: "scan mapping file", Err: err}
	}
	return m, nil
}

// Set records a shortname→URL bookmark. Returns *InvalidValueError if
// shortname fails the Slug regex.
func (m *Mapping) Set(shortname, url string) error {
	if !slugRegexp.MatchString(shortname) {
		return &InvalidValueError{Datatype: DatatypeSlug, Text: shortname}
	}
	m.entries[shortname] = url
	return nil
}

// TryMappingOrURL resolves ref through the mapping table; if ref isn't a
// known shortname, it's returned unchanged (callers treat it as a raw URL).
func (m *Mapping) TryMappingOrURL(ref string) string {
	if m == nil {
		return ref
	}
	if url, ok := m.entries[ref]; ok {
		return url
	}
	return ref
}

// Get looks up shortname directly, without falling back to treating it as
// a raw URL.
func (m *Mapping) Get(shortname string) (string, bool) {
	if m == nil {
		return "", false
	}
	url, ok := m.entries[shortname]
	return url, ok
}

// Save persists the mapping to its bound path (or to path if given),
// overwriting any existing file. Entries are written in shortname order
// for a deterministic file.
func (m *Mapping) Save(path string) error {
	if path == "" {
		path = m.path
	}
	if path == "" {
		return &IOError{Op: "save mapping file", Err: fmt.Errorf("no path bound")}
	}
	shortnames := make([]string, 0, len(m.entries))
	for s := range m.entries {
		shortnames = append(shortnames, s)
	}
	sort.Strings(shortnames)

	var b strings.Builder
	for _, s := range shortnames {
		fmt.Fprintf(&b, "%s=%s\n", s, m.entries[s])
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return &IOError{Op: "write mapping file", Err: err}
	}
	m.path = path
	return nil
}

package wsc

import (
	"fmt"
	"strings"
)

// Name is the fully-qualified identity of a compiled module. Raw names
// join containers to their metadata and dependency nodes; the version
// participates in display and persistence but not in identity lookups.
type Name struct {
	Name    string
	Version string
}

// ParseName parses a module name in either bare ("App.Main") or
// fully-qualified ("App.Main, Version=1.2.3.4") form.
func ParseName(s string) (Name, error) {
	raw, rest, found := strings.Cut(s, ",")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Name{}, fmt.Errorf("empty module name %q", s)
	}
	n := Name{Name: raw}
	if !found {
		return n, nil
	}
	for _, part := range strings.Split(rest, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return Name{}, fmt.Errorf("malformed module name component %q in %q", part, s)
		}
		if strings.EqualFold(key, "Version") {
			n.Version = value
		}
	}
	return n, nil
}

// Raw returns the bare name, the key used for identity lookups.
func (n Name) Raw() string {
	return n.Name
}

// String returns the fully-qualified form.
func (n Name) String() string {
	if n.Version == "" {
		return n.Name
	}
	return n.Name + ", Version=" + n.Version
}

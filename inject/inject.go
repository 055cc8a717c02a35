// Package inject decides which import ids are host-injected. An injected id
// is never bundled: the build-time transform removes it from the module and
// the runtime resolver supplies it from the host's dependency map.
package inject

import "strings"

// Rules configures injection matching: exact ids and id prefixes.
type Rules struct {
	IDs      []string
	Prefixes []string
}

// Matcher is a pure predicate over import ids. It operates on the literal
// module specifier string; no resolution, no file-system access.
type Matcher struct {
	ids      map[string]struct{}
	idOrder  []string
	prefixes []string
}

// NewMatcher builds a matcher from rules. Empty rules match nothing.
func NewMatcher(rules Rules) *Matcher {
	m := &Matcher{
		ids:      make(map[string]struct{}, len(rules.IDs)),
		prefixes: make([]string, 0, len(rules.Prefixes)),
	}
	for _, id := range rules.IDs {
		if _, seen := m.ids[id]; id != "" && !seen {
			m.ids[id] = struct{}{}
			m.idOrder = append(m.idOrder, id)
		}
	}
	for _, p := range rules.Prefixes {
		if p != "" {
			m.prefixes = append(m.prefixes, p)
		}
	}
	return m
}

// Match reports whether id must be supplied by the host at runtime.
func (m *Matcher) Match(id string) bool {
	if _, ok := m.ids[id]; ok {
		return true
	}
	for _, p := range m.prefixes {
		if strings.HasPrefix(id, p) {
			return true
		}
	}
	return false
}

// IDs returns the exact-id set in input order suitable for marking externals.
func (m *Matcher) IDs() []string {
	out := make([]string, len(m.idOrder))
	copy(out, m.idOrder)
	return out
}

// Package stations holds the allow-list of station codes the service answers
// for, plus named groups expanding to multiple codes (for example the
// "atlanta" alias covering every station on the Atlanta sectional chart).
package stations

import "strings"

// Registry is the immutable station allow-list. It is built once at startup
// from configuration and never mutated afterwards, so reads need no locking.
type Registry struct {
	valid  map[string]struct{}
	groups map[string][]string
}

// New builds a Registry from the flat allow-list and the configured group
// expansions. Codes are uppercased and aliases lowercased on the way in;
// group member order is preserved.
func New(codes []string, groups map[string][]string) *Registry {
	r := &Registry{
		valid:  make(map[string]struct{}, len(codes)),
		groups: make(map[string][]string, len(groups)),
	}
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		r.valid[code] = struct{}{}
	}
	for alias, members := range groups {
		alias = strings.ToLower(strings.TrimSpace(alias))
		if alias == "" || len(members) == 0 {
			continue
		}
		normalized := make([]string, 0, len(members))
		for _, m := range members {
			m = strings.ToUpper(strings.TrimSpace(m))
			if m != "" {
				normalized = append(normalized, m)
			}
		}
		r.groups[alias] = normalized
	}
	return r
}

// IsValid reports whether the uppercased code is on the allow-list.
func (r *Registry) IsValid(code string) bool {
	_, ok := r.valid[strings.ToUpper(code)]
	return ok
}

// ResolveGroup returns a copy of the member codes for a group alias,
// matched case-insensitively.
func (r *Registry) ResolveGroup(alias string) ([]string, bool) {
	members, ok := r.groups[strings.ToLower(alias)]
	if !ok {
		return nil, false
	}
	out := make([]string, len(members))
	copy(out, members)
	return out, true
}

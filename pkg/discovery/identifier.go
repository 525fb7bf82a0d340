package discovery

import (
	"net/url"
	"path"
	"strings"
)

// IdentifierFromSource turns an image source URL into a card identifier:
// the last path segment with every ".png" occurrence removed. Query strings
// and fragments are ignored. An empty string means no identifier could be
// derived.
func IdentifierFromSource(src string) string {
	p := src
	if u, err := url.Parse(src); err == nil {
		p = u.Path
	}

	base := path.Base(p)
	if base == "." || base == "/" {
		return ""
	}
	return strings.ReplaceAll(base, ".png", "")
}

// IdentifierSet is an insertion-ordered set of identifiers
type IdentifierSet struct {
	items []string
	seen  map[string]struct{}
}

// NewIdentifierSet creates an empty set
func NewIdentifierSet() *IdentifierSet {
	return &IdentifierSet{seen: make(map[string]struct{})}
}

// Add appends id unless it is already present, reporting whether it was added
func (s *IdentifierSet) Add(id string) bool {
	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	s.items = append(s.items, id)
	return true
}

func (s *IdentifierSet) Contains(id string) bool {
	_, ok := s.seen[id]
	return ok
}

func (s *IdentifierSet) Len() int {
	return len(s.items)
}

// Items returns the identifiers in discovery order
func (s *IdentifierSet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

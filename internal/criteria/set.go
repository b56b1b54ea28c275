package criteria

import "sort"

// IDSet is an unordered set of criterion identifiers
type IDSet map[string]struct{}

// NewIDSet builds a set from ids, dropping duplicates
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id
func (s IDSet) Add(id string) {
	s[id] = struct{}{}
}

// Remove deletes id
func (s IDSet) Remove(id string) {
	delete(s, id)
}

// Sorted returns the members in lexical order
func (s IDSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

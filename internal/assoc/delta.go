package assoc

import "sort"

// Set is a membership set of member ids
type Set map[string]struct{}

// NewSet builds a set from ids, skipping empty ones
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		if id != "" {
			s[id] = struct{}{}
		}
	}
	return s
}

// Has reports membership
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Slice returns the members in sorted order
func (s Set) Slice() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Delta is the minimal change turning one membership into another
type Delta struct {
	ToAdd    Set
	ToRemove Set
}

// ComputeDelta derives the add/remove sets from prev to next.
// ToAdd never overlaps prev, ToRemove is a subset of prev, and the two
// never share an id.
func ComputeDelta(prev, next Set) Delta {
	d := Delta{ToAdd: Set{}, ToRemove: Set{}}
	for id := range next {
		if !prev.Has(id) {
			d.ToAdd[id] = struct{}{}
		}
	}
	for id := range prev {
		if !next.Has(id) {
			d.ToRemove[id] = struct{}{}
		}
	}
	return d
}

// Empty reports whether the delta requires no calls
func (d Delta) Empty() bool {
	return len(d.ToAdd) == 0 && len(d.ToRemove) == 0
}

// Size is the number of calls the delta requires
func (d Delta) Size() int {
	return len(d.ToAdd) + len(d.ToRemove)
}

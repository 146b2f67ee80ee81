package logic

import (
	"slices"
	"strings"
	"time"

	"liftdesk/internal/domain"
)

// KeyKind selects how a sort key compares field values
type KeyKind string

const (
	// KindRank orders by position in a caller-supplied rank table. Unknown values sort last.
	KindRank KeyKind = "rank"
	// KindTime orders by a parsed timestamp. Unparseable values sort last.
	KindTime KeyKind = "time"
	// KindText orders case-insensitively. Empty values sort last.
	KindText KeyKind = "text"
)

// SortKey is one level of a multi-key sort
type SortKey struct {
	Field      string   `toml:"field" json:"field"`
	Kind       KeyKind  `toml:"kind" json:"kind"`
	Ranks      []string `toml:"ranks,omitempty" json:"ranks,omitempty"`
	Descending bool     `toml:"descending,omitempty" json:"descending,omitempty"`

	// DirectionBy names a field whose value flips the direction of this key:
	// when the left-hand item's DirectionBy value is listed in FlipFor, the
	// key sorts opposite to Descending.
	DirectionBy string   `toml:"direction_by,omitempty" json:"direction_by,omitempty"`
	FlipFor     []string `toml:"flip_for,omitempty" json:"flip_for,omitempty"`
}

// Comparator is an ordered list of sort keys. The first key decides unless
// it ties, then the next one, and so on. Remaining ties keep input order.
type Comparator []SortKey

// Sort orders items in place with a stable sort
func (c Comparator) Sort(items []domain.Item) {
	if len(c) == 0 {
		return
	}
	slices.SortStableFunc(items, c.Compare)
}

// Compare returns -1, 0 or 1
func (c Comparator) Compare(a, b domain.Item) int {
	for _, key := range c {
		if r := key.compare(a, b); r != 0 {
			return r
		}
	}
	return 0
}

// Describe renders the comparator for status lines
func (c Comparator) Describe() string {
	if len(c) == 0 {
		return "unsorted"
	}
	parts := make([]string, 0, len(c))
	for _, k := range c {
		p := k.Field
		if k.Descending {
			p += " desc"
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, ", ")
}

// Rank returns the rank of value in the table and whether it was found
func (k SortKey) Rank(value string) (int, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	for i, r := range k.Ranks {
		if strings.ToLower(r) == v {
			return i, true
		}
	}
	return len(k.Ranks), false
}

func (k SortKey) descending(a domain.Item) bool {
	desc := k.Descending
	if k.DirectionBy == "" {
		return desc
	}
	v := strings.ToLower(a.String(k.DirectionBy))
	for _, f := range k.FlipFor {
		if strings.ToLower(f) == v {
			return !desc
		}
	}
	return desc
}

func (k SortKey) compare(a, b domain.Item) int {
	av, bv := a.String(k.Field), b.String(k.Field)

	switch k.Kind {
	case KindRank:
		ra, okA := k.Rank(av)
		rb, okB := k.Rank(bv)
		if r, decided := lastIfMissing(okA, okB); decided {
			return r
		}
		return k.direct(a, cmpInt(ra, rb))

	case KindTime:
		ta, okA := ParseTime(av)
		tb, okB := ParseTime(bv)
		if r, decided := lastIfMissing(okA, okB); decided {
			return r
		}
		return k.direct(a, ta.Compare(tb))

	default:
		la, lb := strings.ToLower(av), strings.ToLower(bv)
		if r, decided := lastIfMissing(la != "", lb != ""); decided {
			return r
		}
		return k.direct(a, strings.Compare(la, lb))
	}
}

func (k SortKey) direct(a domain.Item, r int) int {
	if k.descending(a) {
		return -r
	}
	return r
}

// lastIfMissing orders present values before missing ones, regardless of direction
func lastIfMissing(okA, okB bool) (int, bool) {
	switch {
	case okA && okB:
		return 0, false
	case okA:
		return -1, true
	case okB:
		return 1, true
	default:
		return 0, true
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime accepts the timestamp shapes the backend emits
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

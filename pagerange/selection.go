package pagerange

import (
	"strconv"
	"strings"
)

// Selection is the result of parsing a range expression. It is either the
// "all pages" selection or an ordered list of page numbers, which may be empty
// and may contain duplicates.
type Selection struct {
	all   bool
	pages []int
}

// All returns the selection that places no restriction on pages.
func All() Selection {
	return Selection{all: true}
}

// Of returns a selection of the given pages in order.
func Of(pages ...int) Selection {
	p := make([]int, len(pages))
	copy(p, pages)
	return Selection{pages: p}
}

// IsAll reports whether s selects every page.
func (s Selection) IsAll() bool { return s.all }

// Pages returns a copy of the selected pages. It is nil for the all selection.
func (s Selection) Pages() []int {
	if s.all {
		return nil
	}
	p := make([]int, len(s.pages))
	copy(p, s.pages)
	return p
}

// Len returns the number of listed pages, counting duplicates.
func (s Selection) Len() int { return len(s.pages) }

// Within reports whether every listed page lies in [lower, upper).
// The all selection is always within.
func (s Selection) Within(lower, upper int) bool {
	for _, p := range s.pages {
		if p < lower || p >= upper {
			return false
		}
	}
	return true
}

// Unique returns the listed pages without duplicates, in first-seen order.
func (s Selection) Unique() Selection {
	if s.all {
		return s
	}
	seen := make(map[int]struct{}, len(s.pages))
	out := make([]int, 0, len(s.pages))
	for _, p := range s.pages {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return Selection{pages: out}
}

// Indices converts the listed page numbers to storage indices by subtracting offset.
// It returns nil for the all selection.
func (s Selection) Indices(offset int) []int {
	if s.all {
		return nil
	}
	idx := make([]int, len(s.pages))
	for i, p := range s.pages {
		idx[i] = p - offset
	}
	return idx
}

// String formats the selection as "1, 2, 3", or "all".
func (s Selection) String() string {
	if s.all {
		return "all"
	}
	parts := make([]string, len(s.pages))
	for i, p := range s.pages {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ", ")
}

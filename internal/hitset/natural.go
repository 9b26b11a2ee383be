package hitset

import (
	"regexp"
	"sort"
	"strconv"
)

var idSuffixRe = regexp.MustCompile(`^(.*?)-(\d+)$`)

type naturalKey struct {
	name    string
	num     int
	literal bool // ID did not match <name>-<integer>
}

func keyOf(id string) naturalKey {
	if m := idSuffixRe.FindStringSubmatch(id); m != nil {
		if n, err := strconv.Atoi(m[2]); err == nil {
			return naturalKey{name: m[1], num: n}
		}
	}
	return naturalKey{name: id, literal: true}
}

func (a naturalKey) less(b naturalKey) bool {
	// IDs outside the <name>-<integer> convention sort after all
	// conventional ones, by their full text.
	if a.literal != b.literal {
		return !a.literal
	}
	if a.name != b.name {
		return a.name < b.name
	}
	return a.num < b.num
}

// SortNatural orders bug IDs so numeric suffixes compare as integers:
// proj-2 before proj-10, not after.
func SortNatural(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		return keyOf(ids[i]).less(keyOf(ids[j]))
	})
}

package hitset

import (
	"github.com/bugloc/bugloc/internal/pkg/errors"
)

// Combined holds the per-threshold union and intersection of several
// trials' hit-set tables, each column natural-sorted.
type Combined struct {
	Union        *Table
	Intersection *Table
}

// Combine computes the per-column union and intersection across exactly
// three trial tables. Each column is treated independently; the
// intersection is seeded from the first table's column and narrowed by the
// remaining two.
func Combine(tables []*Table, ks []int) (*Combined, error) {
	if len(tables) != 3 {
		return nil, errors.UsageError("exactly three trial tables required")
	}

	union := New(ks)
	intersection := New(ks)

	for _, k := range ks {
		unionSet := make(map[string]struct{})
		var interSet map[string]struct{}

		for i, t := range tables {
			col := toSet(t.Cols[k])
			for id := range col {
				unionSet[id] = struct{}{}
			}
			if i == 0 {
				interSet = col
				continue
			}
			for id := range interSet {
				if _, ok := col[id]; !ok {
					delete(interSet, id)
				}
			}
		}

		union.Cols[k] = sortedIDs(unionSet)
		intersection.Cols[k] = sortedIDs(interSet)
	}

	return &Combined{Union: union, Intersection: intersection}, nil
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func sortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	SortNatural(ids)
	return ids
}

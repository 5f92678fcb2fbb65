// Package rank defines rankings, the merged universe of items they cover, and
// the scaled footrule distance between an item's place in an input ranking and
// a candidate place in the consensus ranking.
//
// # Items and Rankings
//
// An item is an opaque string identifier such as a URL. Two items are equal
// when their strings are equal; the canonical order is byte-wise
// lexicographic. A [Ranking] is an ordered, duplicate-free list of items,
// best first. Rankings are supplied by callers and are never mutated here.
//
// # Universe
//
// [Merge] unions every input ranking into a [Universe]: the deduplicated,
// sorted item set that fixes the size n of the assignment problem and the row
// index of every item.
//
// # Scaled Footrule
//
// For an item at 1-indexed position q of a ranking of length m and a candidate
// 1-indexed output position p among n items, the penalty is |q/m − p/n|. An
// item missing from a ranking contributes nothing for that ranking: absence is
// neutral.
package rank

import (
	"slices"
)

// Ranking is an ordered list of item identifiers, best first.
type Ranking []string

// Len returns the number of items in the ranking.
func (r Ranking) Len() int { return len(r) }

// Position returns the 0-based index of item in r, or -1 if absent.
func (r Ranking) Position(item string) int {
	return slices.Index(r, item)
}

// Index returns a lookup from item to its 0-based position in r.
func (r Ranking) Index() map[string]int {
	idx := make(map[string]int, len(r))
	for i, item := range r {
		idx[item] = i
	}
	return idx
}

// Universe is the sorted, deduplicated union of all items across a set of
// rankings. The zero value is an empty universe.
type Universe struct {
	items []string
	index map[string]int
}

// Merge builds the universe of the given rankings.
func Merge(rankings ...Ranking) Universe {
	seen := make(map[string]struct{})
	var items []string
	for _, r := range rankings {
		for _, item := range r {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			items = append(items, item)
		}
	}
	slices.Sort(items)

	index := make(map[string]int, len(items))
	for i, item := range items {
		index[item] = i
	}
	return Universe{items: items, index: index}
}

// Len returns the number of distinct items.
func (u Universe) Len() int { return len(u.items) }

// Empty reports whether the universe has no items.
func (u Universe) Empty() bool { return len(u.items) == 0 }

// Item returns the item with index i.
func (u Universe) Item(i int) string { return u.items[i] }

// Items returns a copy of the items in canonical order.
func (u Universe) Items() Ranking { return slices.Clone(u.items) }

// IndexOf returns the index of item and whether it belongs to the universe.
func (u Universe) IndexOf(item string) (int, bool) {
	i, ok := u.index[item]
	return i, ok
}

// Package mathx holds the small generic numeric helpers the node split
// arithmetic needs.
package mathx

import "golang.org/x/exp/constraints"

// Min returns the smallest of the given values. Panics if numbers is
// empty, matching the original helper this is adapted from.
func Min[T constraints.Ordered](numbers ...T) T {
	min := numbers[0]
	for _, n := range numbers[1:] {
		if n < min {
			min = n
		}
	}
	return min
}

// SplitHalf computes the leaf/internal split boundary used by
// insertAndSplit: given the entry count before the split (always the
// node's max capacity) and the position the new entry would be
// inserted at, it reports how many entries the left (current) node
// keeps and whether the new entry lands in the left node.
//
// Mirrors the original engine's real-valued halfway-point arithmetic:
// halfway = (count-1)/2.0; the left always keeps floor(count/2) entries.
// pos < halfway sends the new entry to the left; otherwise it goes to
// the right sibling, which receives the other ceil(count/2) entries.
func SplitHalf(count, insertPos int) (leftKeep int, insertLeft bool) {
	halfway := float64(count-1) / 2.0
	if float64(insertPos) < halfway {
		return count / 2, true
	}
	return count / 2, false
}

package domain

import (
	"fmt"
	"sort"
)

// ordinal positions a rank in the active ordering. Inversion mirrors the
// scale so that 3 becomes the strongest regular rank and jokers land at
// the bottom. An invalid rank here is a programming error, not player
// input, so it panics.
func ordinal(r Rank, inverted bool) int {
	if !r.Valid() {
		panic(fmt.Sprintf("ordinal of invalid rank %d", int(r)))
	}
	if inverted {
		return int(Joker) - int(r)
	}
	return int(r)
}

// Compare returns -1, 0 or 1 as a sorts below, equal to or above b under
// the active ordering.
func Compare(a, b Rank, inverted bool) int {
	oa, ob := ordinal(a, inverted), ordinal(b, inverted)
	switch {
	case oa < ob:
		return -1
	case oa > ob:
		return 1
	default:
		return 0
	}
}

// IsHigher reports whether a strictly beats b. Equal ranks never beat
// each other.
func IsHigher(a, b Rank, inverted bool) bool {
	return Compare(a, b, inverted) > 0
}

// TopRank is the rank that wins a round outright when played: 2 under
// the normal ordering, 3 while inversion is active.
func TopRank(inverted bool) Rank {
	if inverted {
		return Three
	}
	return Two
}

// RankAbove returns the weakest rank that strictly beats r under the
// active ordering, or false when nothing does.
func RankAbove(r Rank, inverted bool) (Rank, bool) {
	next := ordinal(r, inverted) + 1
	if next > int(Joker) {
		return 0, false
	}
	if inverted {
		return Rank(int(Joker) - next), true
	}
	return Rank(next), true
}

// SortByRank returns a copy of the card ids ordered weakest first under
// the active ordering. Ties keep their input order.
func SortByRank(cardIDs []string, inverted bool) []string {
	out := append([]string(nil), cardIDs...)
	sort.SliceStable(out, func(i, j int) bool {
		return ordinal(mustRank(out[i]), inverted) < ordinal(mustRank(out[j]), inverted)
	})
	return out
}

// BestCards picks the n strongest cards of a hand under the normal
// ordering. Used for the automatic side of the rematch exchange.
func BestCards(hand []string, n int) []string {
	sorted := SortByRank(hand, false)
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[len(sorted)-n:]
}

// WorstCards picks the n weakest cards under the normal ordering.
func WorstCards(hand []string, n int) []string {
	sorted := SortByRank(hand, false)
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

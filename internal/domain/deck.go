package domain

import "math/rand"

// NewDeck returns the ordered deck: every rank 3 through 2 in each of
// the four suits, plus both jokers when enabled.
func NewDeck(useJokers bool) []string {
	deck := make([]string, 0, 54)
	for r := Three; r <= Two; r++ {
		for _, suit := range Suits {
			deck = append(deck, r.String()+string(suit))
		}
	}
	if useJokers {
		deck = append(deck, JokerCards[0], JokerCards[1])
	}
	return deck
}

// Shuffle returns a shuffled copy of the deck using the supplied source,
// so seeded games replay identically.
func Shuffle(deck []string, rng *rand.Rand) []string {
	out := append([]string(nil), deck...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Deal splits the deck into contiguous near-equal shares, one per seat.
// The last seat absorbs the remainder.
func Deal(deck []string, seats int) [][]string {
	if seats <= 0 {
		return nil
	}
	per := len(deck) / seats
	hands := make([][]string, seats)
	for i := 0; i < seats; i++ {
		start := i * per
		end := start + per
		if i == seats-1 {
			end = len(deck)
		}
		hands[i] = append([]string(nil), deck[start:end]...)
	}
	return hands
}

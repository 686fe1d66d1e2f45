package domain

import (
	"fmt"
	"strings"
)

// Rank orders cards the President way: 3 is the lowest rank, 2 beats
// every regular card and jokers beat everything.
type Rank int

const (
	Three Rank = iota
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
	Two
	Joker
)

var rankNames = [...]string{"3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A", "2", "JOKER"}

// Suits in card id order: spades, hearts, diamonds, clubs.
const Suits = "SHDC"

// The two joker card ids. The letter keeps them distinct in a hand.
var JokerCards = [2]string{"JOKERa", "JOKERb"}

// OpeningCard is held by whoever opens the first game of a room.
const OpeningCard = "3D"

func (r Rank) Valid() bool { return r >= Three && r <= Joker }

func (r Rank) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rank(%d)", int(r))
	}
	return rankNames[r]
}

// MarshalText encodes the rank as its card face ("3".."10", "J", "Q",
// "K", "A", "2", "JOKER") so views serialize readably.
func (r Rank) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid rank %d", int(r))
	}
	return []byte(rankNames[r]), nil
}

func (r *Rank) UnmarshalText(b []byte) error {
	parsed, err := ParseRank(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRank maps a face string back to a Rank.
func ParseRank(s string) (Rank, error) {
	for i, name := range rankNames {
		if s == name {
			return Rank(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rank %q", s)
}

// IsJoker reports whether a card id names one of the two jokers.
func IsJoker(cardID string) bool { return strings.HasPrefix(cardID, "JOKER") }

// RankOf extracts the rank from a card id such as "3D", "10H" or "JOKERa".
func RankOf(cardID string) (Rank, error) {
	if IsJoker(cardID) {
		return Joker, nil
	}
	if len(cardID) < 2 {
		return 0, fmt.Errorf("malformed card id %q", cardID)
	}
	face := cardID[:len(cardID)-1]
	suit := cardID[len(cardID)-1]
	if !strings.ContainsRune(Suits, rune(suit)) {
		return 0, fmt.Errorf("unknown suit in card id %q", cardID)
	}
	r, err := ParseRank(face)
	if err != nil || r == Joker {
		return 0, fmt.Errorf("unknown rank in card id %q", cardID)
	}
	return r, nil
}

// mustRank is for cards already validated into a hand or the deck.
func mustRank(cardID string) Rank {
	r, err := RankOf(cardID)
	if err != nil {
		panic(err)
	}
	return r
}

var suitSymbols = map[byte]string{'S': "♠", 'H': "♥", 'D': "♦", 'C': "♣"}

// FormatCard renders a card id with a suit symbol for logs.
func FormatCard(cardID string) string {
	if IsJoker(cardID) {
		return "Joker"
	}
	if len(cardID) < 2 {
		return cardID
	}
	if sym, ok := suitSymbols[cardID[len(cardID)-1]]; ok {
		return cardID[:len(cardID)-1] + sym
	}
	return cardID
}

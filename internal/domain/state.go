package domain

import "sort"

// Phase is the room lifecycle stage.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseDealing  Phase = "dealing"
	PhaseExchange Phase = "exchange"
	PhasePlay     Phase = "play"
	PhaseFinished Phase = "finished"
)

// Player is one seat in a room. Bots are ordinary players driven from
// outside the engine.
type Player struct {
	ID        string
	Name      string
	Seat      int
	Role      Role
	Hand      []string
	Passed    bool
	Connected bool
	IsBot     bool
}

// HasCard reports whether the player holds the card id.
func (p *Player) HasCard(cardID string) bool {
	for _, c := range p.Hand {
		if c == cardID {
			return true
		}
	}
	return false
}

// RemoveCards takes the listed cards out of the hand. It reports false
// and leaves the hand untouched if any card is missing.
func (p *Player) RemoveCards(cardIDs []string) bool {
	kept := append([]string(nil), p.Hand...)
	for _, id := range cardIDs {
		found := -1
		for i, c := range kept {
			if c == id {
				found = i
				break
			}
		}
		if found < 0 {
			return false
		}
		kept = append(kept[:found], kept[found+1:]...)
	}
	p.Hand = kept
	return true
}

// Pattern is the play currently holding the pile: a uniform set of
// cards every follow-up must match in count and beat in rank.
type Pattern struct {
	Rank       Rank
	Count      int
	LastPlayer string
}

// PendingEffect tracks a gift or discard obligation owed by a player
// before the turn may move on.
type PendingEffect struct {
	PlayerID  string
	Original  int
	Remaining int
}

// PlayRecord is one resolved play kept in the round history.
type PlayRecord struct {
	PlayerID   string
	PlayerName string
	Cards      []string
	Rank       Rank
	Count      int
}

// CompletedRound archives a finished round for replay and debugging.
type CompletedRound struct {
	Number  int
	Plays   []PlayRecord
	EndedBy string
	Winner  string
}

// ExchangePair is one automatic give of the rematch exchange: the giver
// has already surrendered Count cards and the receiver owes the same
// count back.
type ExchangePair struct {
	GiverID      string
	ReceiverID   string
	GiverRole    Role
	ReceiverRole Role
	Count        int
}

// ExchangeReturn is the manual half still owed by a receiver.
type ExchangeReturn struct {
	ToID  string
	Count int
}

// PendingExchange holds the rematch exchange until every receiver has
// returned cards.
type PendingExchange struct {
	Pairs   []ExchangePair
	Returns map[string]ExchangeReturn
}

// RoomState is the full authoritative state of one room. It carries no
// locking itself; the engine serializes access.
type RoomState struct {
	ID      string
	Version uint64
	Phase   Phase
	Players map[string]*Player
	Turn    string

	Pattern   *Pattern
	Inversion bool
	Pile      []string
	Discard   []string

	RoundHistory    []PlayRecord
	CompletedRounds []CompletedRound
	FinishedOrder   []string

	PendingGift     *PendingEffect
	PendingDiscard  *PendingEffect
	PendingExchange *PendingExchange

	LastRoundWinner string

	FirstGame     bool
	FirstPlayDone bool

	PreviousAssholeID string
	PreviousRoles     map[string]Role
}

// NewRoomState returns an empty lobby. The first game of a room is the
// only one with the 3 of diamonds opening rule.
func NewRoomState(id string) *RoomState {
	return &RoomState{
		ID:        id,
		Phase:     PhaseLobby,
		Players:   map[string]*Player{},
		FirstGame: true,
	}
}

// SeatOrder returns the players sorted by seat.
func (s *RoomState) SeatOrder() []*Player {
	out := make([]*Player, 0, len(s.Players))
	for _, p := range s.Players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seat < out[j].Seat })
	return out
}

// Finished reports whether the player already shed their whole hand.
func (s *RoomState) Finished(playerID string) bool {
	for _, pid := range s.FinishedOrder {
		if pid == playerID {
			return true
		}
	}
	return false
}

// CountHolders counts players still holding cards.
func (s *RoomState) CountHolders() int {
	n := 0
	for _, p := range s.Players {
		if len(p.Hand) > 0 {
			n++
		}
	}
	return n
}

// ClearPasses resets every passed flag, as happens whenever a play
// lands or a round ends.
func (s *RoomState) ClearPasses() {
	for _, p := range s.Players {
		p.Passed = false
	}
}

// NextAfter walks the seat ring starting after the given player and
// returns the first one still holding cards and, when skipPassed is
// set, not passed this round. It returns "" when nobody qualifies.
func (s *RoomState) NextAfter(playerID string, skipPassed bool) string {
	seats := s.SeatOrder()
	if len(seats) == 0 {
		return ""
	}
	start := 0
	for i, p := range seats {
		if p.ID == playerID {
			start = i
			break
		}
	}
	for step := 1; step <= len(seats); step++ {
		p := seats[(start+step)%len(seats)]
		if len(p.Hand) == 0 {
			continue
		}
		if skipPassed && p.Passed {
			continue
		}
		return p.ID
	}
	return ""
}

// HolderOf returns the id of the player holding the card, or "".
func (s *RoomState) HolderOf(cardID string) string {
	for _, p := range s.SeatOrder() {
		if p.HasCard(cardID) {
			return p.ID
		}
	}
	return ""
}

// PlayerByPreviousRole returns the player who carried the role in the
// previous game's results, or nil.
func (s *RoomState) PlayerByPreviousRole(role Role) *Player {
	for pid, r := range s.PreviousRoles {
		if r == role {
			if p, ok := s.Players[pid]; ok {
				return p
			}
		}
	}
	return nil
}

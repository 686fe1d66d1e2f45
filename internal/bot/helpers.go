package bot

import (
	"sort"

	"president/internal/domain"
	"president/internal/engine"
)

type rankGroup struct {
	rank  domain.Rank
	cards []string
}

// groupHand buckets a hand by rank, weakest group first under the
// normal ordering. Jokers come back separately.
func groupHand(hand []string) ([]rankGroup, []string) {
	byRank := map[domain.Rank][]string{}
	var jokers []string
	for _, id := range hand {
		r, err := domain.RankOf(id)
		if err != nil {
			continue
		}
		if r == domain.Joker {
			jokers = append(jokers, id)
			continue
		}
		byRank[r] = append(byRank[r], id)
	}
	groups := make([]rankGroup, 0, len(byRank))
	for r, cards := range byRank {
		groups = append(groups, rankGroup{rank: r, cards: cards})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].rank < groups[j].rank })
	return groups, jokers
}

// beatsPattern mirrors the table rules a follow-up must clear.
func beatsPattern(v engine.RoomView, rank domain.Rank) bool {
	if !domain.IsHigher(rank, v.Pattern.Rank, v.Inversion) {
		return false
	}
	if v.Inversion && v.Pattern.Rank == domain.Jack && rank > domain.Ten {
		return false
	}
	return true
}

// legalPlays enumerates the candidate plays open to the viewer. Every
// returned selection would be accepted by the engine.
func legalPlays(v engine.RoomView, hand []string) [][]string {
	groups, jokers := groupHand(hand)
	var out [][]string

	if v.Pattern == nil {
		if v.FirstGame && !v.FirstPlayDone {
			for _, g := range groups {
				if g.rank != domain.Three {
					continue
				}
				for n := 1; n <= len(g.cards); n++ {
					out = append(out, g.cards[:n])
				}
			}
			if len(out) == 0 && len(jokers) > 0 {
				out = append(out, jokers[:1])
			}
			return out
		}
		for _, g := range groups {
			for n := 1; n <= len(g.cards); n++ {
				out = append(out, g.cards[:n])
			}
		}
		if len(jokers) > 0 {
			out = append(out, jokers[:1])
		}
		return out
	}

	need := v.Pattern.Count
	for _, g := range groups {
		if !beatsPattern(v, g.rank) {
			continue
		}
		if len(g.cards) >= need {
			out = append(out, g.cards[:need])
		} else if len(g.cards)+len(jokers) >= need {
			mixed := append(append([]string(nil), g.cards...), jokers[:need-len(g.cards)]...)
			out = append(out, mixed)
		}
	}
	// an all-joker set always beats whatever is on the table
	if len(jokers) >= need {
		out = append(out, jokers[:need])
	}
	return out
}

// obligations answers the demands that block a bot regardless of whose
// turn it is. ok is true when something had to be submitted.
func obligations(v engine.RoomView, self *engine.PlayerView) (Action, bool) {
	if v.PendingGift != nil && v.PendingGift.PlayerID == self.ID {
		return Action{Kind: ActionGift, Gifts: distributeWorst(v, self)}, true
	}
	if v.PendingDiscard != nil && v.PendingDiscard.PlayerID == self.ID {
		n := v.PendingDiscard.Remaining
		return Action{Kind: ActionDiscard, Cards: domain.WorstCards(self.Hand, n)}, true
	}
	if v.ExchangeReturn != nil {
		return Action{Kind: ActionExchangeReturn, Cards: domain.WorstCards(self.Hand, v.ExchangeReturn.Count)}, true
	}
	return Action{}, false
}

// distributeWorst spreads the gifted cards round-robin over the seats
// still in the game.
func distributeWorst(v engine.RoomView, self *engine.PlayerView) []engine.GiftAssignment {
	var recipients []string
	for _, p := range v.Players {
		if p.ID != self.ID && p.HandCount > 0 {
			recipients = append(recipients, p.ID)
		}
	}
	cards := domain.WorstCards(self.Hand, v.PendingGift.Remaining)
	byRecipient := map[string][]string{}
	for i, c := range cards {
		to := recipients[i%len(recipients)]
		byRecipient[to] = append(byRecipient[to], c)
	}
	out := make([]engine.GiftAssignment, 0, len(byRecipient))
	for _, to := range recipients {
		if len(byRecipient[to]) > 0 {
			out = append(out, engine.GiftAssignment{To: to, Cards: byRecipient[to]})
		}
	}
	return out
}

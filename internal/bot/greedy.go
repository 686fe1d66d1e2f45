package bot

import (
	"president/internal/domain"
	"president/internal/engine"
)

// Greedy sheds as many cards as it can and spends as little rank as
// possible doing it. Jokers are kept for when nothing else answers.
type Greedy struct{}

func (g *Greedy) ChooseAction(view engine.RoomView) (Action, bool) {
	self := view.Self()
	if self == nil {
		return Action{}, false
	}
	if act, ok := obligations(view, self); ok {
		return act, true
	}
	if view.Phase != string(domain.PhasePlay) || view.Turn != self.ID {
		return Action{}, false
	}

	candidates := legalPlays(view, self.Hand)
	if len(candidates) == 0 {
		if view.Pattern == nil {
			// an open pile with no candidate should not happen; stall
			// rather than submit a guaranteed rejection
			return Action{}, false
		}
		return Action{Kind: ActionPass}, true
	}

	best := candidates[0]
	bestCost := playCost(best, view.Inversion)
	for _, c := range candidates[1:] {
		cost := playCost(c, view.Inversion)
		if view.Pattern == nil {
			// opening: shed the biggest set, cheapest on ties
			if len(c) > len(best) || (len(c) == len(best) && cost < bestCost) {
				best, bestCost = c, cost
			}
			continue
		}
		// following: cheapest answer wins
		if cost < bestCost {
			best, bestCost = c, cost
		}
	}
	return Action{Kind: ActionPlay, Cards: best}, true
}

// playCost prices a selection by the strength it burns. Jokers are
// worth more than any rank so the greedy bot hoards them.
func playCost(cards []string, inverted bool) int {
	cost := 0
	for _, id := range cards {
		r, err := domain.RankOf(id)
		if err != nil {
			continue
		}
		if r == domain.Joker {
			cost += 3 * int(domain.Joker)
			continue
		}
		if inverted {
			cost += int(domain.Joker) - int(r)
		} else {
			cost += int(r)
		}
	}
	return cost
}

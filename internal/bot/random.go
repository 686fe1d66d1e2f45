package bot

import (
	"math/rand"

	"president/internal/domain"
	"president/internal/engine"
)

// Random picks uniformly between its legal plays and passing. It still
// settles obligations with its worst cards, since those allow no
// strategic freedom worth randomizing.
type Random struct {
	rng *rand.Rand
}

func (b *Random) ChooseAction(view engine.RoomView) (Action, bool) {
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
	canPass := view.Pattern != nil
	if len(candidates) == 0 {
		if !canPass {
			return Action{}, false
		}
		return Action{Kind: ActionPass}, true
	}

	options := len(candidates)
	if canPass {
		options++
	}
	pick := b.rng.Intn(options)
	if pick == len(candidates) {
		return Action{Kind: ActionPass}, true
	}
	return Action{Kind: ActionPlay, Cards: candidates[pick]}, true
}

package engine

import "president/internal/domain"

type effectKind int

const (
	effectNone effectKind = iota
	effectGift
	effectReset
	effectDiscard
	effectInversion
)

func effectFor(r domain.Rank) effectKind {
	switch r {
	case domain.Seven:
		return effectGift
	case domain.Eight:
		return effectReset
	case domain.Ten:
		return effectDiscard
	case domain.Jack:
		return effectInversion
	default:
		return effectNone
	}
}

// playSpec is a validated play. Effective is the rank the play counts
// as: the regular cards' rank for mixed plays, a resolved rank for
// all-joker plays.
type playSpec struct {
	Effective domain.Rank
	Count     int
	Jokers    int
	Effect    effectKind
}

// resolveAllJoker picks the rank an all-joker play counts as: the
// weakest rank that beats the table, or the weakest rank overall on a
// fresh pile. State invariants guarantee an active pattern is always
// beatable (top-rank plays clear the pile immediately), so the lookup
// cannot fail mid-round.
func resolveAllJoker(s *domain.RoomState) domain.Rank {
	if s.Pattern == nil {
		if s.Inversion {
			return domain.Joker
		}
		return domain.Three
	}
	r, ok := domain.RankAbove(s.Pattern.Rank, s.Inversion)
	if !ok {
		panic("unbeatable pattern left on an active pile")
	}
	return r
}

func validatePlay(s *domain.RoomState, playerID string, cardIDs []string) (playSpec, error) {
	var spec playSpec
	if s.Phase != domain.PhasePlay {
		return spec, reject(KindActionNotAllowed, "cannot play during %s", s.Phase)
	}
	p, ok := s.Players[playerID]
	if !ok || s.Turn != playerID {
		return spec, reject(KindNotYourTurn, "it is not your turn")
	}
	if s.PendingGift != nil || s.PendingDiscard != nil {
		return spec, reject(KindEffectPending, "an obligation must be settled first")
	}
	if len(cardIDs) == 0 {
		return spec, reject(KindPatternMismatch, "no cards selected")
	}
	seen := map[string]bool{}
	for _, id := range cardIDs {
		if seen[id] {
			return spec, reject(KindPatternMismatch, "card %s selected twice", id)
		}
		seen[id] = true
		if !p.HasCard(id) {
			return spec, reject(KindOwnershipMismatch, "you do not hold %s", id)
		}
	}

	// One uniform regular rank; jokers stand in for anything.
	regular := domain.Rank(-1)
	jokers := 0
	for _, id := range cardIDs {
		r, err := domain.RankOf(id)
		if err != nil {
			return spec, reject(KindOwnershipMismatch, "%v", err)
		}
		if r == domain.Joker {
			jokers++
			continue
		}
		if regular >= 0 && r != regular {
			return spec, reject(KindPatternMismatch, "mixed ranks %s and %s", regular, r)
		}
		regular = r
	}

	spec.Count = len(cardIDs)
	spec.Jokers = jokers

	if s.Pattern == nil {
		if s.FirstGame && !s.FirstPlayDone {
			if regular >= 0 && regular != domain.Three {
				return spec, reject(KindPatternMismatch, "the first play of a room must be 3s")
			}
			spec.Effective = domain.Three
		} else if jokers == spec.Count {
			spec.Effective = resolveAllJoker(s)
		} else {
			spec.Effective = regular
		}
		spec.Effect = effectFor(spec.Effective)
		return spec, nil
	}

	if spec.Count != s.Pattern.Count {
		return spec, reject(KindPatternMismatch, "need %d cards, got %d", s.Pattern.Count, spec.Count)
	}
	if jokers == spec.Count {
		spec.Effective = resolveAllJoker(s)
	} else {
		spec.Effective = regular
	}
	if !domain.IsHigher(spec.Effective, s.Pattern.Rank, s.Inversion) {
		return spec, reject(KindRankTooLow, "%s does not beat %s", spec.Effective, s.Pattern.Rank)
	}
	// Right after a Jack lands under its own inversion, only 3 through
	// 10 may answer it.
	if s.Inversion && s.Pattern.Rank == domain.Jack && spec.Effective > domain.Ten {
		return spec, reject(KindRankTooLow, "only 3 through 10 may follow the inverting Jack")
	}
	spec.Effect = effectFor(spec.Effective)
	return spec, nil
}

func validatePass(s *domain.RoomState, playerID string) error {
	if s.Phase != domain.PhasePlay {
		return reject(KindActionNotAllowed, "cannot pass during %s", s.Phase)
	}
	p, ok := s.Players[playerID]
	if !ok || s.Turn != playerID {
		return reject(KindNotYourTurn, "it is not your turn")
	}
	if s.PendingGift != nil || s.PendingDiscard != nil {
		return reject(KindEffectPending, "an obligation must be settled first")
	}
	if p.Passed {
		return reject(KindAlreadyPassed, "already passed this round")
	}
	if s.Pattern == nil {
		return reject(KindActionNotAllowed, "cannot pass when opening a round")
	}
	return nil
}

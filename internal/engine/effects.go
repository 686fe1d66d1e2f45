package engine

import "president/internal/domain"

// applyPlay commits a validated play: moves the cards to the pile, sets
// the new pattern, then resolves effects, auto-wins, finishes and turn
// order. It must not fail; everything rejectable was checked upfront.
func applyPlay(s *domain.RoomState, playerID string, cardIDs []string, spec playSpec) {
	p := s.Players[playerID]
	if s.FirstGame && !s.FirstPlayDone {
		s.FirstPlayDone = true
	}
	if !p.RemoveCards(cardIDs) {
		panic("validated play references cards outside the hand")
	}
	s.Pile = append(s.Pile, cardIDs...)
	s.RoundHistory = append(s.RoundHistory, domain.PlayRecord{
		PlayerID:   playerID,
		PlayerName: p.Name,
		Cards:      append([]string(nil), cardIDs...),
		Rank:       spec.Effective,
		Count:      spec.Count,
	})
	s.Pattern = &domain.Pattern{Rank: spec.Effective, Count: spec.Count, LastPlayer: playerID}
	s.ClearPasses()

	pending := false
	switch spec.Effect {
	case effectGift:
		if n := min(spec.Count, len(p.Hand)); n > 0 {
			s.PendingGift = &domain.PendingEffect{PlayerID: playerID, Original: n, Remaining: n}
			pending = true
		}
	case effectDiscard:
		if n := min(spec.Count, len(p.Hand)); n > 0 {
			s.PendingDiscard = &domain.PendingEffect{PlayerID: playerID, Original: n, Remaining: n}
			pending = true
		}
	case effectInversion:
		s.Inversion = true
	}

	finished := len(p.Hand) == 0
	if finished {
		markFinished(s, playerID)
	}

	// Any joker and the active top rank take the round on the spot.
	if spec.Jokers > 0 || spec.Effective == domain.TopRank(s.Inversion) {
		endRound(s, endAutoWin, playerID)
		if maybeEndGame(s) {
			return
		}
		if finished {
			advanceTurn(s)
		} else {
			s.Turn = playerID
		}
		return
	}

	if finished {
		if maybeEndGame(s) {
			return
		}
		advanceTurn(s)
		return
	}

	if spec.Effect == effectReset {
		endRound(s, endReset, playerID)
		s.Turn = playerID
		return
	}

	if !pending {
		advanceTurn(s)
	}
}

// applyPass marks the player passed and closes the round once nobody is
// left to answer the pattern.
func applyPass(s *domain.RoomState, playerID string) {
	s.Players[playerID].Passed = true

	contenders := 0
	for _, p := range s.Players {
		if len(p.Hand) > 0 && !p.Passed {
			contenders++
		}
	}
	if contenders > 1 {
		advanceTurn(s)
		return
	}

	winner := s.Pattern.LastPlayer
	lead := winner
	if p, ok := s.Players[winner]; !ok || len(p.Hand) == 0 {
		// the round winner already finished; the last holder still
		// standing against the pattern opens the next round
		lead = ""
		for _, p := range s.SeatOrder() {
			if len(p.Hand) > 0 && !p.Passed {
				lead = p.ID
			}
		}
	}
	endRound(s, endAllPassed, winner)
	if lead != "" {
		s.Turn = lead
		return
	}
	s.Turn = winner
	advanceTurn(s)
}

// afterObligation hands the turn onward once an obligation settles. A
// player whose auto-win cleared the pile keeps the lead.
func afterObligation(s *domain.RoomState, playerID string) {
	p := s.Players[playerID]
	if s.Pattern == nil && s.LastRoundWinner == playerID && len(p.Hand) > 0 {
		s.Turn = playerID
		return
	}
	advanceTurn(s)
}

func submitGift(s *domain.RoomState, playerID string, assignments []GiftAssignment) error {
	if s.PendingGift == nil {
		return reject(KindEffectPending, "no gift is pending")
	}
	if s.PendingGift.PlayerID != playerID {
		return reject(KindNotYourTurn, "the gift is not yours to settle")
	}
	p := s.Players[playerID]

	total := 0
	seen := map[string]bool{}
	for _, a := range assignments {
		recipient, ok := s.Players[a.To]
		if !ok || a.To == playerID {
			return reject(KindInvalidGiftDistribution, "invalid recipient %s", a.To)
		}
		if s.Finished(a.To) {
			return reject(KindInvalidGiftDistribution, "%s has already finished", recipient.Name)
		}
		for _, id := range a.Cards {
			if seen[id] {
				return reject(KindInvalidGiftDistribution, "card %s gifted twice", id)
			}
			seen[id] = true
			if !p.HasCard(id) {
				return reject(KindOwnershipMismatch, "you do not hold %s", id)
			}
		}
		total += len(a.Cards)
	}
	if total != s.PendingGift.Remaining {
		return reject(KindInvalidGiftDistribution, "must gift exactly %d cards, got %d",
			s.PendingGift.Remaining, total)
	}

	for _, a := range assignments {
		p.RemoveCards(a.Cards)
		recipient := s.Players[a.To]
		recipient.Hand = append(recipient.Hand, a.Cards...)
	}
	s.PendingGift = nil

	if len(p.Hand) == 0 {
		markFinished(s, playerID)
		if !maybeEndGame(s) {
			advanceTurn(s)
		}
		return nil
	}
	if !maybeEndGame(s) {
		afterObligation(s, playerID)
	}
	return nil
}

func submitDiscard(s *domain.RoomState, playerID string, cardIDs []string) error {
	if s.PendingDiscard == nil {
		return reject(KindEffectPending, "no discard is pending")
	}
	if s.PendingDiscard.PlayerID != playerID {
		return reject(KindNotYourTurn, "the discard is not yours to settle")
	}
	p := s.Players[playerID]

	if len(cardIDs) == 0 {
		return reject(KindInvalidDiscardSelection, "no cards selected")
	}
	if len(cardIDs) > s.PendingDiscard.Remaining {
		return reject(KindInvalidDiscardSelection, "at most %d cards may be discarded, got %d",
			s.PendingDiscard.Remaining, len(cardIDs))
	}
	seen := map[string]bool{}
	for _, id := range cardIDs {
		if seen[id] {
			return reject(KindInvalidDiscardSelection, "card %s selected twice", id)
		}
		seen[id] = true
		if !p.HasCard(id) {
			return reject(KindOwnershipMismatch, "you do not hold %s", id)
		}
	}

	p.RemoveCards(cardIDs)
	s.Discard = append(s.Discard, cardIDs...)
	s.PendingDiscard.Remaining -= len(cardIDs)

	// An emptied hand drops whatever is still owed.
	if len(p.Hand) == 0 {
		s.PendingDiscard = nil
		markFinished(s, playerID)
		if !maybeEndGame(s) {
			advanceTurn(s)
		}
		return nil
	}
	if s.PendingDiscard.Remaining == 0 {
		s.PendingDiscard = nil
		if !maybeEndGame(s) {
			afterObligation(s, playerID)
		}
	}
	return nil
}

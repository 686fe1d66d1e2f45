package engine

import "president/internal/domain"

// startExchange opens a rematch with the role tax: the Asshole's two
// best cards go to the President and the Scumbag's single best to the
// Vice-President, both automatically. Each receiver then owes the same
// count back, chosen by hand.
func startExchange(s *domain.RoomState) {
	type pairing struct {
		giver    domain.Role
		receiver domain.Role
		count    int
	}
	var pairs []domain.ExchangePair
	returns := map[string]domain.ExchangeReturn{}
	for _, pr := range []pairing{
		{domain.RoleAsshole, domain.RolePresident, 2},
		{domain.RoleScumbag, domain.RoleVicePresident, 1},
	} {
		giver := s.PlayerByPreviousRole(pr.giver)
		receiver := s.PlayerByPreviousRole(pr.receiver)
		if giver == nil || receiver == nil {
			continue
		}
		best := domain.BestCards(giver.Hand, pr.count)
		giver.RemoveCards(best)
		receiver.Hand = append(receiver.Hand, best...)
		pairs = append(pairs, domain.ExchangePair{
			GiverID:      giver.ID,
			ReceiverID:   receiver.ID,
			GiverRole:    pr.giver,
			ReceiverRole: pr.receiver,
			Count:        pr.count,
		})
		returns[receiver.ID] = domain.ExchangeReturn{ToID: giver.ID, Count: pr.count}
	}
	if len(pairs) == 0 {
		completeExchange(s)
		return
	}
	s.Phase = domain.PhaseExchange
	s.PendingExchange = &domain.PendingExchange{Pairs: pairs, Returns: returns}
}

func submitExchangeReturn(s *domain.RoomState, playerID string, cardIDs []string) error {
	if s.Phase != domain.PhaseExchange || s.PendingExchange == nil {
		return reject(KindActionNotAllowed, "no exchange in progress")
	}
	ret, ok := s.PendingExchange.Returns[playerID]
	if !ok {
		return reject(KindActionNotAllowed, "you owe no exchange return")
	}
	if len(cardIDs) != ret.Count {
		return reject(KindActionNotAllowed, "must return exactly %d cards, got %d", ret.Count, len(cardIDs))
	}
	p := s.Players[playerID]
	seen := map[string]bool{}
	for _, id := range cardIDs {
		if seen[id] {
			return reject(KindActionNotAllowed, "card %s returned twice", id)
		}
		seen[id] = true
		if !p.HasCard(id) {
			return reject(KindOwnershipMismatch, "you do not hold %s", id)
		}
	}

	p.RemoveCards(cardIDs)
	giver := s.Players[ret.ToID]
	giver.Hand = append(giver.Hand, cardIDs...)
	delete(s.PendingExchange.Returns, playerID)
	if len(s.PendingExchange.Returns) == 0 {
		completeExchange(s)
	}
	return nil
}

// completeExchange opens play. The previous Asshole leads the rematch.
func completeExchange(s *domain.RoomState) {
	s.PendingExchange = nil
	s.PreviousRoles = nil
	s.Phase = domain.PhasePlay
	s.Turn = openingPlayer(s)
}

package engine

import (
	"math/rand"

	"president/internal/domain"
)

// Round-end reasons kept in the archive.
const (
	endAllPassed = "all-pass"
	endReset     = "reset"
	endAutoWin   = "auto-win"
)

func (e *Engine) startGame(s *domain.RoomState, rng *rand.Rand) error {
	if s.Phase != domain.PhaseLobby && s.Phase != domain.PhaseFinished {
		return reject(KindActionNotAllowed, "cannot start during %s", s.Phase)
	}
	if len(s.Players) < e.cfg.MinPlayers || len(s.Players) > e.cfg.MaxPlayers {
		return reject(KindActionNotAllowed, "need %d to %d players, have %d",
			e.cfg.MinPlayers, e.cfg.MaxPlayers, len(s.Players))
	}

	s.Phase = domain.PhaseDealing
	s.Pattern = nil
	s.Inversion = false
	s.Pile = nil
	s.Discard = nil
	s.RoundHistory = nil
	s.CompletedRounds = nil
	s.FinishedOrder = nil
	s.PendingGift = nil
	s.PendingDiscard = nil
	s.PendingExchange = nil
	s.LastRoundWinner = ""
	s.FirstPlayDone = false
	for _, p := range s.Players {
		p.Passed = false
		p.Role = domain.RoleNone
	}

	deck := domain.Shuffle(domain.NewDeck(e.cfg.UseJokers), rng)
	hands := domain.Deal(deck, len(s.Players))
	for i, p := range s.SeatOrder() {
		p.Hand = hands[i]
	}

	if !s.FirstGame && len(s.PreviousRoles) > 0 {
		startExchange(s)
		return nil
	}
	s.Phase = domain.PhasePlay
	s.Turn = openingPlayer(s)
	return nil
}

// openingPlayer picks who leads: the previous Asshole in a rematch, the
// holder of the 3 of diamonds otherwise.
func openingPlayer(s *domain.RoomState) string {
	if !s.FirstGame && s.PreviousAssholeID != "" {
		if _, ok := s.Players[s.PreviousAssholeID]; ok {
			return s.PreviousAssholeID
		}
	}
	if holder := s.HolderOf(domain.OpeningCard); holder != "" {
		return holder
	}
	seats := s.SeatOrder()
	if len(seats) > 0 {
		return seats[0].ID
	}
	return ""
}

// advanceTurn moves the turn to the next eligible seat after the
// current one.
func advanceTurn(s *domain.RoomState) {
	if next := s.NextAfter(s.Turn, true); next != "" {
		s.Turn = next
	}
}

// endRound archives the round history, sweeps the pile to the discard
// and resets the table for a new round. The winner leads the next round
// if they still hold cards; callers set the turn.
func endRound(s *domain.RoomState, reason, winnerID string) {
	if len(s.RoundHistory) > 0 {
		winnerName := winnerID
		if p, ok := s.Players[winnerID]; ok {
			winnerName = p.Name
		}
		s.CompletedRounds = append(s.CompletedRounds, domain.CompletedRound{
			Number:  len(s.CompletedRounds) + 1,
			Plays:   append([]domain.PlayRecord(nil), s.RoundHistory...),
			EndedBy: reason,
			Winner:  winnerName,
		})
	}
	s.Discard = append(s.Discard, s.Pile...)
	s.Pile = nil
	s.RoundHistory = nil
	s.Pattern = nil
	s.Inversion = false
	s.ClearPasses()
	s.LastRoundWinner = winnerID
}

// markFinished appends a player to the finish order once and keeps the
// role assignments current.
func markFinished(s *domain.RoomState, playerID string) {
	if s.Finished(playerID) {
		return
	}
	s.FinishedOrder = append(s.FinishedOrder, playerID)
	domain.AssignRoles(s)
}

// maybeEndGame finalizes the game when at most one player still holds
// cards. The straggler is appended as the final finisher.
func maybeEndGame(s *domain.RoomState) bool {
	if s.CountHolders() > 1 {
		return false
	}
	for _, p := range s.SeatOrder() {
		if !s.Finished(p.ID) {
			s.FinishedOrder = append(s.FinishedOrder, p.ID)
		}
	}
	domain.AssignRoles(s)

	s.PreviousRoles = map[string]domain.Role{}
	for _, p := range s.Players {
		s.PreviousRoles[p.ID] = p.Role
	}
	if n := len(s.FinishedOrder); n > 0 {
		s.PreviousAssholeID = s.FinishedOrder[n-1]
	}
	s.FirstGame = false
	s.Phase = domain.PhaseFinished
	s.Turn = ""
	s.PendingGift = nil
	s.PendingDiscard = nil
	return true
}

package engine

import "president/internal/domain"

// RoomView is what a single player is allowed to see: their own hand in
// full, everyone else's as a count. Views are detached copies, safe to
// hold after the room lock is released.
type RoomView struct {
	RoomID    string `json:"room_id"`
	ViewerID  string `json:"viewer_id,omitempty"`
	Version   uint64 `json:"version"`
	Phase     string `json:"phase"`
	Turn      string `json:"turn,omitempty"`
	Inversion bool   `json:"inversion"`

	Pattern *PatternView `json:"pattern,omitempty"`
	Pile    []string     `json:"pile,omitempty"`
	Discard int          `json:"discard_count"`

	Players       []PlayerView `json:"players"`
	FinishedOrder []string     `json:"finished_order,omitempty"`

	PendingGift     *ObligationView     `json:"pending_gift,omitempty"`
	PendingDiscard  *ObligationView     `json:"pending_discard,omitempty"`
	ExchangeReturn  *ExchangeReturnView `json:"exchange_return,omitempty"`
	LastRoundWinner string              `json:"last_round_winner,omitempty"`

	RoundHistory []PlayView `json:"round_history,omitempty"`

	FirstGame     bool `json:"first_game"`
	FirstPlayDone bool `json:"first_play_done"`

	// TurnDurationSeconds lets clients render a turn countdown.
	TurnDurationSeconds int `json:"turn_duration_seconds"`
}

type PatternView struct {
	Rank       domain.Rank `json:"rank"`
	Count      int         `json:"count"`
	LastPlayer string      `json:"last_player"`
}

type PlayerView struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Seat      int      `json:"seat"`
	Role      string   `json:"role,omitempty"`
	HandCount int      `json:"hand_count"`
	Hand      []string `json:"hand,omitempty"`
	Passed    bool     `json:"passed"`
	Connected bool     `json:"connected"`
	IsBot     bool     `json:"is_bot"`
}

type ObligationView struct {
	PlayerID  string `json:"player_id"`
	Original  int    `json:"original"`
	Remaining int    `json:"remaining"`
}

type ExchangeReturnView struct {
	To    string `json:"to"`
	Count int    `json:"count"`
}

type PlayView struct {
	PlayerID   string      `json:"player_id"`
	PlayerName string      `json:"player_name"`
	Cards      []string    `json:"cards"`
	Rank       domain.Rank `json:"rank"`
	Count      int         `json:"count"`
}

// Self returns the viewer's own entry, or nil for spectators.
func (v RoomView) Self() *PlayerView {
	for i := range v.Players {
		if v.Players[i].ID == v.ViewerID {
			return &v.Players[i]
		}
	}
	return nil
}

func snapshot(s *domain.RoomState, viewerID string) RoomView {
	out := RoomView{
		RoomID:          s.ID,
		ViewerID:        viewerID,
		Version:         s.Version,
		Phase:           string(s.Phase),
		Turn:            s.Turn,
		Inversion:       s.Inversion,
		Pile:            append([]string(nil), s.Pile...),
		Discard:         len(s.Discard),
		FinishedOrder:   append([]string(nil), s.FinishedOrder...),
		LastRoundWinner: s.LastRoundWinner,
		FirstGame:       s.FirstGame,
		FirstPlayDone:   s.FirstPlayDone,
	}
	if s.Pattern != nil {
		out.Pattern = &PatternView{
			Rank:       s.Pattern.Rank,
			Count:      s.Pattern.Count,
			LastPlayer: s.Pattern.LastPlayer,
		}
	}
	for _, p := range s.SeatOrder() {
		pv := PlayerView{
			ID:        p.ID,
			Name:      p.Name,
			Seat:      p.Seat,
			Role:      string(p.Role),
			HandCount: len(p.Hand),
			Passed:    p.Passed,
			Connected: p.Connected,
			IsBot:     p.IsBot,
		}
		if p.ID == viewerID {
			pv.Hand = domain.SortByRank(p.Hand, false)
		}
		out.Players = append(out.Players, pv)
	}
	if s.PendingGift != nil {
		out.PendingGift = &ObligationView{
			PlayerID:  s.PendingGift.PlayerID,
			Original:  s.PendingGift.Original,
			Remaining: s.PendingGift.Remaining,
		}
	}
	if s.PendingDiscard != nil {
		out.PendingDiscard = &ObligationView{
			PlayerID:  s.PendingDiscard.PlayerID,
			Original:  s.PendingDiscard.Original,
			Remaining: s.PendingDiscard.Remaining,
		}
	}
	if s.PendingExchange != nil {
		if ret, ok := s.PendingExchange.Returns[viewerID]; ok {
			out.ExchangeReturn = &ExchangeReturnView{To: ret.ToID, Count: ret.Count}
		}
	}
	for _, rec := range s.RoundHistory {
		out.RoundHistory = append(out.RoundHistory, PlayView{
			PlayerID:   rec.PlayerID,
			PlayerName: rec.PlayerName,
			Cards:      append([]string(nil), rec.Cards...),
			Rank:       rec.Rank,
			Count:      rec.Count,
		})
	}
	return out
}

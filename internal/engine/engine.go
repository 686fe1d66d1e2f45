// Package engine owns every active President room and serializes all
// reads and writes to room state. Transports and bots go through its
// exported operations only.
package engine

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"president/internal/config"
	"president/internal/domain"
)

type room struct {
	mu    sync.Mutex
	state *domain.RoomState
}

// Engine is the session manager. Every operation locks the target room
// for its whole duration, so room state never needs its own locking.
type Engine struct {
	mu    sync.RWMutex
	rooms map[string]*room
	cfg   *config.Config
}

func New(cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Engine{rooms: map[string]*room{}, cfg: cfg}
}

func (e *Engine) Config() *config.Config { return e.cfg }

// CreateRoom registers an empty lobby under the id.
func (e *Engine) CreateRoom(roomID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.rooms[roomID]; ok {
		return reject(KindActionNotAllowed, "room %s already exists", roomID)
	}
	e.rooms[roomID] = &room{state: domain.NewRoomState(roomID)}
	return nil
}

// RemoveRoom drops a room and all of its state.
func (e *Engine) RemoveRoom(roomID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.rooms, roomID)
}

func (e *Engine) lookup(roomID string) (*room, *Error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	r, ok := e.rooms[roomID]
	if !ok {
		return nil, reject(KindRoomNotFound, "room %s not found", roomID)
	}
	return r, nil
}

// update runs fn under the room lock and bumps the version exactly once
// when fn succeeds. Rejections leave the version untouched.
func (e *Engine) update(roomID string, fn func(*domain.RoomState) error) error {
	r, rerr := e.lookup(roomID)
	if rerr != nil {
		return rerr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := fn(r.state); err != nil {
		return err
	}
	r.state.Version++
	return nil
}

// view runs fn under the room lock without touching the version.
func (e *Engine) view(roomID string, fn func(*domain.RoomState)) error {
	r, rerr := e.lookup(roomID)
	if rerr != nil {
		return rerr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.state)
	return nil
}

// AddPlayer seats a player in the lobby and returns the new player id.
func (e *Engine) AddPlayer(roomID, name string, isBot bool) (string, error) {
	playerID := uuid.NewString()[:8]
	err := e.update(roomID, func(s *domain.RoomState) error {
		if s.Phase != domain.PhaseLobby && s.Phase != domain.PhaseFinished {
			return reject(KindActionNotAllowed, "cannot join during %s", s.Phase)
		}
		if name == "" {
			return reject(KindActionNotAllowed, "player name required")
		}
		if len(s.Players) >= e.cfg.MaxPlayers {
			return reject(KindRoomFull, "room %s is full", roomID)
		}
		seat := 0
		for _, p := range s.Players {
			if p.Seat >= seat {
				seat = p.Seat + 1
			}
		}
		s.Players[playerID] = &domain.Player{
			ID:        playerID,
			Name:      name,
			Seat:      seat,
			Connected: !isBot,
			IsBot:     isBot,
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return playerID, nil
}

// StartGame deals a fresh game with a time-seeded shuffle.
func (e *Engine) StartGame(roomID string) error {
	return e.StartGameWithSeed(roomID, time.Now().UnixNano())
}

// StartGameWithSeed deals a fresh game reproducibly. Rematches go
// through the role exchange before play opens.
func (e *Engine) StartGameWithSeed(roomID string, seed int64) error {
	rng := rand.New(rand.NewSource(seed))
	return e.update(roomID, func(s *domain.RoomState) error {
		return e.startGame(s, rng)
	})
}

// PlayCards plays a uniform set of cards from the player's hand.
func (e *Engine) PlayCards(roomID, playerID string, cardIDs []string) error {
	return e.update(roomID, func(s *domain.RoomState) error {
		spec, err := validatePlay(s, playerID, cardIDs)
		if err != nil {
			return err
		}
		applyPlay(s, playerID, cardIDs, spec)
		return nil
	})
}

// PassTurn marks the player passed for the rest of the round.
func (e *Engine) PassTurn(roomID, playerID string) error {
	return e.update(roomID, func(s *domain.RoomState) error {
		if err := validatePass(s, playerID); err != nil {
			return err
		}
		applyPass(s, playerID)
		return nil
	})
}

// GiftAssignment routes cards of a gift obligation to one recipient.
type GiftAssignment struct {
	To    string   `json:"to"`
	Cards []string `json:"cards"`
}

// SubmitGift settles a pending 7-gift in full.
func (e *Engine) SubmitGift(roomID, playerID string, assignments []GiftAssignment) error {
	return e.update(roomID, func(s *domain.RoomState) error {
		return submitGift(s, playerID, assignments)
	})
}

// SubmitDiscard settles all or part of a pending 10-discard.
func (e *Engine) SubmitDiscard(roomID, playerID string, cardIDs []string) error {
	return e.update(roomID, func(s *domain.RoomState) error {
		return submitDiscard(s, playerID, cardIDs)
	})
}

// SubmitExchangeReturn hands cards back to the giver during the rematch
// exchange.
func (e *Engine) SubmitExchangeReturn(roomID, playerID string, cardIDs []string) error {
	return e.update(roomID, func(s *domain.RoomState) error {
		return submitExchangeReturn(s, playerID, cardIDs)
	})
}

// DisconnectPlayer flags a seat as away. The seat stays in the game.
func (e *Engine) DisconnectPlayer(roomID, playerID string) error {
	return e.update(roomID, func(s *domain.RoomState) error {
		p, ok := s.Players[playerID]
		if !ok {
			return reject(KindActionNotAllowed, "no such player %s", playerID)
		}
		p.Connected = false
		return nil
	})
}

// ReconnectPlayer flags a seat as back.
func (e *Engine) ReconnectPlayer(roomID, playerID string) error {
	return e.update(roomID, func(s *domain.RoomState) error {
		p, ok := s.Players[playerID]
		if !ok {
			return reject(KindActionNotAllowed, "no such player %s", playerID)
		}
		p.Connected = true
		return nil
	})
}

// Snapshot returns the room as seen by viewerID: only the viewer's own
// hand is listed, everyone else shows a card count.
func (e *Engine) Snapshot(roomID, viewerID string) (RoomView, error) {
	var out RoomView
	err := e.view(roomID, func(s *domain.RoomState) {
		out = snapshot(s, viewerID)
		out.TurnDurationSeconds = e.cfg.TurnDurationSeconds
	})
	return out, err
}

// Version returns the room's current state version.
func (e *Engine) Version(roomID string) (uint64, error) {
	var v uint64
	err := e.view(roomID, func(s *domain.RoomState) { v = s.Version })
	return v, err
}

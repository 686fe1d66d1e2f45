// Package nakama adapts the engine to Nakama's authoritative match
// runtime. Each match instance runs its own engine with a single room;
// Nakama user ids are mapped to engine player ids on join.
package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"president/internal/bot"
	"president/internal/config"
	"president/internal/engine"
)

// MatchName is the authoritative match handler name registered with Nakama.
const MatchName = "president_match"

const roomID = "match"

// Match implements runtime.Match.
type Match struct {
	cfg *config.Config
}

func NewMatch(cfg *config.Config) *Match {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Match{cfg: cfg}
}

// matchState is the per-instance state Nakama threads through the
// callbacks.
type matchState struct {
	engine *engine.Engine
	driver *bot.Driver

	presences   map[string]runtime.Presence // userID -> presence
	players     map[string]string           // userID -> engine player id
	ownerUserID string
}

// Label is the match label advertised for quick-match queries.
type Label struct {
	Open  bool   `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

func (m *Match) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	eng := engine.New(m.cfg)
	if err := eng.CreateRoom(roomID); err != nil {
		logger.Error("room bootstrap failed: %v", err)
	}
	s := &matchState{
		engine:    eng,
		driver:    bot.NewDriver(eng, nil),
		presences: map[string]runtime.Presence{},
		players:   map[string]string{},
	}
	if n, ok := params["bots"].(float64); ok && n > 0 {
		level := bot.LevelGreedy
		if name, ok := params["bot_level"].(string); ok {
			if parsed, err := bot.ParseLevel(name); err == nil {
				level = parsed
			}
		}
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		for i := 0; i < int(n); i++ {
			id, err := eng.AddPlayer(roomID, botName(i), true)
			if err != nil {
				logger.Warn("could not seat bot: %v", err)
				break
			}
			brain, _ := bot.NewBrain(level, rng)
			s.driver.Register(id, brain)
		}
	}
	labelBytes, _ := json.Marshal(Label{Open: true, Game: "president", Phase: "lobby"})
	return s, 10, string(labelBytes)
}

func (m *Match) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule,
	dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {

	s := state.(*matchState)

	// Rejoin is always allowed; new seats only in the lobby.
	if _, ok := s.players[presence.GetUserId()]; ok {
		return state, true, ""
	}
	view, err := s.engine.Snapshot(roomID, "")
	if err != nil {
		return state, false, "room_unavailable"
	}
	if view.Phase != "lobby" && view.Phase != "finished" {
		return state, false, "match_in_progress"
	}
	if len(view.Players) >= m.cfg.MaxPlayers {
		return state, false, "match_full"
	}
	return state, true, ""
}

func (m *Match) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule,
	dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {

	s := state.(*matchState)
	for _, p := range presences {
		uid := p.GetUserId()
		s.presences[uid] = p

		if playerID, ok := s.players[uid]; ok {
			_ = s.engine.ReconnectPlayer(roomID, playerID)
			continue
		}
		playerID, err := s.engine.AddPlayer(roomID, p.GetUsername(), false)
		if err != nil {
			logger.Warn("join rejected for %s: %v", uid, err)
			continue
		}
		s.players[uid] = playerID
		if s.ownerUserID == "" {
			s.ownerUserID = uid
		}
		evt, _ := json.Marshal(map[string]any{"user_id": uid, "player_id": playerID})
		_ = dispatcher.BroadcastMessage(OpPlayerJoined, evt, nil, nil, true)
	}
	broadcastViews(s, dispatcher)
	_ = dispatcher.MatchLabelUpdate(buildLabel(m.cfg, s))
	return state
}

func (m *Match) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule,
	dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {

	s := state.(*matchState)
	for _, p := range presences {
		uid := p.GetUserId()
		delete(s.presences, uid)
		if playerID, ok := s.players[uid]; ok {
			_ = s.engine.DisconnectPlayer(roomID, playerID)
			evt, _ := json.Marshal(map[string]any{"user_id": uid})
			_ = dispatcher.BroadcastMessage(OpPlayerLeft, evt, nil, nil, true)
		}
		if s.ownerUserID == uid {
			s.ownerUserID = ""
			for other := range s.presences {
				s.ownerUserID = other
				break
			}
		}
	}
	_ = dispatcher.MatchLabelUpdate(buildLabel(m.cfg, s))
	return state
}

func (m *Match) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule,
	dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {

	s := state.(*matchState)
	before, _ := s.engine.Version(roomID)

	for _, msg := range messages {
		if err := m.handleMessage(s, msg); err != nil {
			sendError(s, dispatcher, msg.GetUserId(), err)
		}
	}

	// one bot action per tick keeps games watchable
	if _, err := s.driver.Step(roomID); err != nil {
		logger.Warn("bot step: %v", err)
	}

	if after, _ := s.engine.Version(roomID); after != before {
		broadcastViews(s, dispatcher)
		_ = dispatcher.MatchLabelUpdate(buildLabel(m.cfg, s))
	}
	return state
}

func (m *Match) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule,
	dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	s := state.(*matchState)
	s.engine.RemoveRoom(roomID)
	return state
}

func (m *Match) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule,
	dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, buildLabel(m.cfg, state.(*matchState))
}

type playPayload struct {
	Cards []string `json:"cards"`
}

type giftPayload struct {
	Assignments []engine.GiftAssignment `json:"assignments"`
}

func (m *Match) handleMessage(s *matchState, msg runtime.MatchData) error {
	uid := msg.GetUserId()
	playerID, seated := s.players[uid]
	if !seated {
		return &engine.Error{Kind: engine.KindActionNotAllowed, Message: "not seated in this match"}
	}

	switch msg.GetOpCode() {
	case OpStartGame:
		if uid != s.ownerUserID {
			return &engine.Error{Kind: engine.KindActionNotAllowed, Message: "only the owner may start"}
		}
		return s.engine.StartGame(roomID)
	case OpPlayCards:
		var p playPayload
		if err := json.Unmarshal(msg.GetData(), &p); err != nil {
			return &engine.Error{Kind: engine.KindActionNotAllowed, Message: "malformed payload"}
		}
		return s.engine.PlayCards(roomID, playerID, p.Cards)
	case OpPassTurn:
		return s.engine.PassTurn(roomID, playerID)
	case OpSubmitGift:
		var p giftPayload
		if err := json.Unmarshal(msg.GetData(), &p); err != nil {
			return &engine.Error{Kind: engine.KindActionNotAllowed, Message: "malformed payload"}
		}
		return s.engine.SubmitGift(roomID, playerID, p.Assignments)
	case OpSubmitDiscard:
		var p playPayload
		if err := json.Unmarshal(msg.GetData(), &p); err != nil {
			return &engine.Error{Kind: engine.KindActionNotAllowed, Message: "malformed payload"}
		}
		return s.engine.SubmitDiscard(roomID, playerID, p.Cards)
	case OpExchangeReturn:
		var p playPayload
		if err := json.Unmarshal(msg.GetData(), &p); err != nil {
			return &engine.Error{Kind: engine.KindActionNotAllowed, Message: "malformed payload"}
		}
		return s.engine.SubmitExchangeReturn(roomID, playerID, p.Cards)
	case OpAddBots:
		if uid != s.ownerUserID {
			return &engine.Error{Kind: engine.KindActionNotAllowed, Message: "only the owner may add bots"}
		}
		id, err := s.engine.AddPlayer(roomID, botName(len(s.players)), true)
		if err != nil {
			return err
		}
		brain, err := bot.NewBrain(bot.LevelGreedy, rand.New(rand.NewSource(time.Now().UnixNano())))
		if err != nil {
			return err
		}
		s.driver.Register(id, brain)
		return nil
	default:
		return nil
	}
}

// broadcastViews sends every seated presence its own sanitized view.
func broadcastViews(s *matchState, dispatcher runtime.MatchDispatcher) {
	for uid, presence := range s.presences {
		playerID := s.players[uid]
		view, err := s.engine.Snapshot(roomID, playerID)
		if err != nil {
			continue
		}
		data, err := json.Marshal(view)
		if err != nil {
			continue
		}
		_ = dispatcher.BroadcastMessage(OpStateUpdate, data, []runtime.Presence{presence}, nil, true)
	}
}

func sendError(s *matchState, dispatcher runtime.MatchDispatcher, uid string, err error) {
	presence, ok := s.presences[uid]
	if !ok {
		return
	}
	data, _ := json.Marshal(map[string]string{
		"kind":    string(engine.KindOf(err)),
		"message": err.Error(),
	})
	_ = dispatcher.BroadcastMessage(OpActionError, data, []runtime.Presence{presence}, nil, true)
}

func buildLabel(cfg *config.Config, s *matchState) string {
	view, err := s.engine.Snapshot(roomID, "")
	if err != nil {
		return ""
	}
	open := (view.Phase == "lobby" || view.Phase == "finished") && len(view.Players) < cfg.MaxPlayers
	b, _ := json.Marshal(Label{Open: open, Game: "president", Phase: view.Phase})
	return string(b)
}

var botNames = []string{"Hugo", "Mara", "Felix", "Ines", "Otto"}

func botName(i int) string {
	return botNames[i%len(botNames)]
}

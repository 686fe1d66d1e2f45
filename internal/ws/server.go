// Package ws exposes the engine over a websocket endpoint. Every
// message from a client maps to one engine operation; every successful
// operation rebroadcasts each subscriber's own view of the room.
package ws

import (
	"context"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"president/internal/bot"
	"president/internal/engine"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

// ClientMessage is the envelope clients send.
type ClientMessage struct {
	Type        string                  `json:"type"`
	RoomID      string                  `json:"room_id,omitempty"`
	Name        string                  `json:"name,omitempty"`
	PlayerID    string                  `json:"player_id,omitempty"`
	Cards       []string                `json:"cards,omitempty"`
	Assignments []engine.GiftAssignment `json:"assignments,omitempty"`
	Bots        int                     `json:"bots,omitempty"`
	BotLevel    string                  `json:"bot_level,omitempty"`
}

// ServerMessage is the envelope the server sends back.
type ServerMessage struct {
	Type     string           `json:"type"`
	RoomID   string           `json:"room_id,omitempty"`
	PlayerID string           `json:"player_id,omitempty"`
	Kind     string           `json:"kind,omitempty"`
	Message  string           `json:"message,omitempty"`
	State    *engine.RoomView `json:"state,omitempty"`
}

type client struct {
	conn     *websocket.Conn
	send     chan ServerMessage
	roomID   string
	playerID string
}

// Server fans room updates out to the connected clients and paces the
// bots seated next to them.
type Server struct {
	eng    *engine.Engine
	driver *bot.Driver
	logger *log.Logger

	upgrader websocket.Upgrader

	mu      sync.Mutex
	rooms   map[string]map[*client]struct{}
	driving map[string]context.CancelFunc
}

func NewServer(eng *engine.Engine, driver *bot.Driver, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		eng:    eng,
		driver: driver,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		rooms:   map[string]map[*client]struct{}{},
		driving: map[string]context.CancelFunc{},
	}
}

// Handler mounts the websocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	return mux
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	c := &client{conn: conn, send: make(chan ServerMessage, 16)}
	go s.writeLoop(c)
	s.readLoop(c)
}

func (s *Server) readLoop(c *client) {
	defer s.drop(c)
	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		s.dispatch(c, msg)
	}
}

func (s *Server) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) dispatch(c *client, msg ClientMessage) {
	var err error
	switch msg.Type {
	case "create_room":
		roomID := msg.RoomID
		if roomID == "" {
			roomID = uuid.NewString()[:8]
		}
		if err = s.eng.CreateRoom(roomID); err == nil {
			c.send <- ServerMessage{Type: "room_created", RoomID: roomID}
		}
	case "join":
		err = s.join(c, msg)
	case "add_bots":
		err = s.addBots(c, msg)
	case "start":
		err = s.eng.StartGame(c.roomID)
	case "play":
		err = s.eng.PlayCards(c.roomID, c.playerID, msg.Cards)
	case "pass":
		err = s.eng.PassTurn(c.roomID, c.playerID)
	case "gift":
		err = s.eng.SubmitGift(c.roomID, c.playerID, msg.Assignments)
	case "discard":
		err = s.eng.SubmitDiscard(c.roomID, c.playerID, msg.Cards)
	case "exchange_return":
		err = s.eng.SubmitExchangeReturn(c.roomID, c.playerID, msg.Cards)
	case "state":
		view, verr := s.eng.Snapshot(c.roomID, c.playerID)
		if verr != nil {
			err = verr
		} else {
			c.send <- ServerMessage{Type: "state", RoomID: c.roomID, State: &view}
		}
		return
	default:
		c.send <- ServerMessage{Type: "error", Kind: "UNKNOWN_MESSAGE", Message: msg.Type}
		return
	}
	if err != nil {
		c.send <- ServerMessage{
			Type:    "error",
			Kind:    string(engine.KindOf(err)),
			Message: err.Error(),
		}
		return
	}
	if c.roomID != "" && msg.Type != "create_room" && msg.Type != "state" {
		s.broadcast(c.roomID)
		s.kickBots(c.roomID)
	}
}

func (s *Server) join(c *client, msg ClientMessage) error {
	if msg.RoomID == "" {
		return &engine.Error{Kind: engine.KindRoomNotFound, Message: "room_id required"}
	}
	// reconnecting clients present their existing player id
	if msg.PlayerID != "" {
		if err := s.eng.ReconnectPlayer(msg.RoomID, msg.PlayerID); err != nil {
			return err
		}
		s.subscribe(c, msg.RoomID, msg.PlayerID)
		c.send <- ServerMessage{Type: "joined", RoomID: msg.RoomID, PlayerID: msg.PlayerID}
		return nil
	}
	playerID, err := s.eng.AddPlayer(msg.RoomID, msg.Name, false)
	if err != nil {
		return err
	}
	s.subscribe(c, msg.RoomID, playerID)
	c.send <- ServerMessage{Type: "joined", RoomID: msg.RoomID, PlayerID: playerID}
	return nil
}

func (s *Server) addBots(c *client, msg ClientMessage) error {
	if s.driver == nil {
		return &engine.Error{Kind: engine.KindActionNotAllowed, Message: "bots are disabled"}
	}
	level := bot.LevelGreedy
	if msg.BotLevel != "" {
		parsed, err := bot.ParseLevel(msg.BotLevel)
		if err != nil {
			return &engine.Error{Kind: engine.KindActionNotAllowed, Message: err.Error()}
		}
		level = parsed
	}
	for i := 0; i < msg.Bots; i++ {
		id, err := s.eng.AddPlayer(c.roomID, "bot-"+uuid.NewString()[:4], true)
		if err != nil {
			return err
		}
		brain, err := bot.NewBrain(level, newBotRNG())
		if err != nil {
			return err
		}
		s.driver.Register(id, brain)
	}
	return nil
}

func (s *Server) subscribe(c *client, roomID, playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.roomID, c.playerID = roomID, playerID
	if s.rooms[roomID] == nil {
		s.rooms[roomID] = map[*client]struct{}{}
	}
	s.rooms[roomID][c] = struct{}{}
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	if c.roomID != "" {
		delete(s.rooms[c.roomID], c)
	}
	s.mu.Unlock()
	close(c.send)
	if c.roomID != "" && c.playerID != "" {
		_ = s.eng.DisconnectPlayer(c.roomID, c.playerID)
		s.broadcast(c.roomID)
	}
}

// broadcast sends every subscriber its own sanitized view.
func (s *Server) broadcast(roomID string) {
	s.mu.Lock()
	subs := make([]*client, 0, len(s.rooms[roomID]))
	for c := range s.rooms[roomID] {
		subs = append(subs, c)
	}
	s.mu.Unlock()
	for _, c := range subs {
		view, err := s.eng.Snapshot(roomID, c.playerID)
		if err != nil {
			continue
		}
		select {
		case c.send <- ServerMessage{Type: "state", RoomID: roomID, State: &view}:
		default:
			s.logger.Warn("dropping update for slow client", "room", roomID, "player", c.playerID)
		}
	}
}

// kickBots runs the room's bots until they have nothing left to do,
// broadcasting after each action.
func (s *Server) kickBots(roomID string) {
	if s.driver == nil {
		return
	}
	s.mu.Lock()
	if _, busy := s.driving[roomID]; busy {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.driving[roomID] = cancel
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.driving, roomID)
			s.mu.Unlock()
			cancel()
		}()
		delay := time.Duration(s.eng.Config().BotStepDelayMs) * time.Millisecond
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			moved, err := s.driver.Step(roomID)
			if err != nil || !moved {
				return
			}
			s.broadcast(roomID)
		}
	}()
}

func newBotRNG() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

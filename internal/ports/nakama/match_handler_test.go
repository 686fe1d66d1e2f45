package nakama

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/heroiclabs/nakama-common/runtime"

	"president/internal/engine"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	broadcastCount int
	labelUpdates   int
	lastOpCode     int64
	lastData       []byte
	lastTargets    []runtime.Presence
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.broadcastCount++
	md.lastOpCode = opCode
	md.lastData = append([]byte(nil), data...)
	md.lastTargets = presences
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	return nil
}

// mockPresence is a bare presence for seating test users.
type mockPresence struct {
	userID   string
	username string
}

func (p mockPresence) GetUserId() string                 { return p.userID }
func (p mockPresence) GetSessionId() string              { return p.userID + "-session" }
func (p mockPresence) GetNodeId() string                 { return "node" }
func (p mockPresence) GetHidden() bool                   { return false }
func (p mockPresence) GetPersistence() bool              { return true }
func (p mockPresence) GetUsername() string               { return p.username }
func (p mockPresence) GetStatus() string                 { return "" }
func (p mockPresence) GetReason() runtime.PresenceReason { return runtime.PresenceReasonJoin }

// mockMatchData wraps a presence with an opcode and payload.
type mockMatchData struct {
	mockPresence
	opCode int64
	data   []byte
}

func (d mockMatchData) GetOpCode() int64      { return d.opCode }
func (d mockMatchData) GetData() []byte       { return d.data }
func (d mockMatchData) GetReliable() bool     { return true }
func (d mockMatchData) GetReceiveTime() int64 { return 0 }

func newMatchWithPlayers(t *testing.T, usernames ...string) (*Match, *matchState, *mockDispatcher, []mockPresence) {
	t.Helper()
	m := NewMatch(nil)
	raw, _, _ := m.MatchInit(context.Background(), noopLogger{}, nil, nil, nil)
	s := raw.(*matchState)
	md := &mockDispatcher{}

	presences := make([]mockPresence, 0, len(usernames))
	for i, name := range usernames {
		p := mockPresence{userID: name + "-uid", username: name}
		if raw, ok, _ := m.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, md, int64(i), s, p, nil); !ok {
			t.Fatalf("join attempt for %s rejected", name)
		} else {
			s = raw.(*matchState)
		}
		m.MatchJoin(context.Background(), noopLogger{}, nil, nil, md, int64(i), s, []runtime.Presence{p})
		presences = append(presences, p)
	}
	return m, s, md, presences
}

func TestMatchJoinSeatsPlayers(t *testing.T) {
	_, s, md, _ := newMatchWithPlayers(t, "ada", "bo", "cy")

	if len(s.players) != 3 {
		t.Fatalf("seated %d players, want 3", len(s.players))
	}
	if s.ownerUserID != "ada-uid" {
		t.Fatalf("owner = %q, want the first joiner", s.ownerUserID)
	}
	if md.labelUpdates == 0 {
		t.Fatal("expected label updates on join")
	}
}

func TestMatchJoinAttemptRejectsMidGame(t *testing.T) {
	m, s, md, _ := newMatchWithPlayers(t, "ada", "bo", "cy")
	loop(t, m, s, md, mockMatchData{
		mockPresence: mockPresence{userID: "ada-uid"},
		opCode:       OpStartGame,
	})

	late := mockPresence{userID: "late-uid", username: "late"}
	if _, ok, reason := m.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, md, 9, s, late, nil); ok || reason != "match_in_progress" {
		t.Fatalf("late join: ok=%v reason=%q", ok, reason)
	}

	// a seated player may always come back
	if _, ok, _ := m.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, md, 9, s, mockPresence{userID: "bo-uid"}, nil); !ok {
		t.Fatal("rejoin rejected")
	}
}

func loop(t *testing.T, m *Match, s *matchState, md *mockDispatcher, msgs ...runtime.MatchData) {
	t.Helper()
	m.MatchLoop(context.Background(), noopLogger{}, nil, nil, md, 1, s, msgs)
}

func TestStartRequiresOwner(t *testing.T) {
	m, s, md, _ := newMatchWithPlayers(t, "ada", "bo", "cy")

	loop(t, m, s, md, mockMatchData{
		mockPresence: mockPresence{userID: "bo-uid"},
		opCode:       OpStartGame,
	})
	if md.lastOpCode != OpActionError {
		t.Fatalf("last opcode = %d, want error event", md.lastOpCode)
	}
	var payload map[string]string
	if err := json.Unmarshal(md.lastData, &payload); err != nil {
		t.Fatalf("error payload: %v", err)
	}
	if payload["kind"] != string(engine.KindActionNotAllowed) {
		t.Fatalf("error kind = %q", payload["kind"])
	}

	loop(t, m, s, md, mockMatchData{
		mockPresence: mockPresence{userID: "ada-uid"},
		opCode:       OpStartGame,
	})
	view, err := s.engine.Snapshot("match", "")
	if err != nil {
		t.Fatal(err)
	}
	if view.Phase != "play" {
		t.Fatalf("phase = %q after owner start", view.Phase)
	}
}

func TestStateUpdatesArePerPresence(t *testing.T) {
	m, s, md, _ := newMatchWithPlayers(t, "ada", "bo", "cy")
	loop(t, m, s, md, mockMatchData{
		mockPresence: mockPresence{userID: "ada-uid"},
		opCode:       OpStartGame,
	})

	if md.lastOpCode != OpStateUpdate {
		t.Fatalf("last opcode = %d, want state update", md.lastOpCode)
	}
	if len(md.lastTargets) != 1 {
		t.Fatalf("state update targeted %d presences, want 1", len(md.lastTargets))
	}
	var view engine.RoomView
	if err := json.Unmarshal(md.lastData, &view); err != nil {
		t.Fatalf("state payload: %v", err)
	}
	self := view.Self()
	if self == nil {
		t.Fatal("state update carries no viewer")
	}
	if len(self.Hand) != 18 {
		t.Fatalf("viewer hand size = %d", len(self.Hand))
	}
	for _, p := range view.Players {
		if p.ID != self.ID && len(p.Hand) != 0 {
			t.Fatalf("another player's hand leaked to %s", self.ID)
		}
	}
}

func TestMatchLoopDrivesBots(t *testing.T) {
	m := NewMatch(nil)
	raw, _, _ := m.MatchInit(context.Background(), noopLogger{}, nil, nil, map[string]interface{}{
		"bots": float64(3), "bot_level": "greedy",
	})
	s := raw.(*matchState)
	md := &mockDispatcher{}

	if err := s.engine.StartGame("match"); err != nil {
		t.Fatalf("start: %v", err)
	}
	for tick := 0; tick < 5000; tick++ {
		m.MatchLoop(context.Background(), noopLogger{}, nil, nil, md, int64(tick), s, nil)
		view, err := s.engine.Snapshot("match", "")
		if err != nil {
			t.Fatal(err)
		}
		if view.Phase == "finished" {
			if len(view.FinishedOrder) != 3 {
				t.Fatalf("finish order %v", view.FinishedOrder)
			}
			return
		}
	}
	t.Fatal("bot match never finished")
}

func TestMatchLeaveKeepsSeat(t *testing.T) {
	m, s, md, presences := newMatchWithPlayers(t, "ada", "bo", "cy")
	m.MatchLeave(context.Background(), noopLogger{}, nil, nil, md, 5, s, []runtime.Presence{presences[1]})

	if _, ok := s.players["bo-uid"]; !ok {
		t.Fatal("leaving should not unseat the player")
	}
	view, err := s.engine.Snapshot("match", s.players["bo-uid"])
	if err != nil {
		t.Fatal(err)
	}
	if view.Self().Connected {
		t.Fatal("left player still flagged connected")
	}
}

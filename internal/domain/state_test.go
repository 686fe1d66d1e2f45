package domain

import "testing"

func seatRoom(hands ...[]string) *RoomState {
	s := NewRoomState("room")
	ids := []string{"p0", "p1", "p2", "p3", "p4"}
	for i, h := range hands {
		s.Players[ids[i]] = &Player{ID: ids[i], Name: ids[i], Seat: i, Hand: h, Connected: true}
	}
	return s
}

func TestNextAfterSkipsEmptyAndPassed(t *testing.T) {
	s := seatRoom([]string{"3S"}, nil, []string{"4S"}, []string{"5S"})
	s.Players["p3"].Passed = true

	if got := s.NextAfter("p0", true); got != "p2" {
		t.Fatalf("NextAfter(p0) = %q, want p2", got)
	}
	if got := s.NextAfter("p2", true); got != "p0" {
		t.Fatalf("NextAfter(p2) = %q, want p0 (p3 passed, p1 empty)", got)
	}
	if got := s.NextAfter("p2", false); got != "p3" {
		t.Fatalf("NextAfter(p2, keep passed) = %q, want p3", got)
	}
}

func TestNextAfterNobodyEligible(t *testing.T) {
	s := seatRoom([]string{"3S"}, nil, nil)
	s.Players["p0"].Passed = true
	if got := s.NextAfter("p0", true); got != "" {
		t.Fatalf("NextAfter with nobody eligible = %q", got)
	}
}

func TestRemoveCards(t *testing.T) {
	p := &Player{Hand: []string{"3S", "3H", "7D"}}
	if !p.RemoveCards([]string{"3H", "7D"}) {
		t.Fatal("RemoveCards refused cards the player holds")
	}
	if len(p.Hand) != 1 || p.Hand[0] != "3S" {
		t.Fatalf("hand after removal = %v", p.Hand)
	}
	if p.RemoveCards([]string{"3S", "3S"}) {
		t.Fatal("RemoveCards accepted a duplicated id")
	}
	if len(p.Hand) != 1 {
		t.Fatalf("failed removal mutated the hand: %v", p.Hand)
	}
}

func TestRolesFor(t *testing.T) {
	cases := []struct {
		players int
		want    []Role
	}{
		{3, []Role{RolePresident, RoleVicePresident, RoleAsshole}},
		{4, []Role{RolePresident, RoleVicePresident, RoleScumbag, RoleAsshole}},
		{5, []Role{RolePresident, RoleVicePresident, RoleCitizen, RoleScumbag, RoleAsshole}},
	}
	for _, c := range cases {
		got, err := RolesFor(c.players)
		if err != nil {
			t.Fatalf("RolesFor(%d): %v", c.players, err)
		}
		for i := range c.want {
			if got[i] != c.want[i] {
				t.Fatalf("RolesFor(%d)[%d] = %v, want %v", c.players, i, got[i], c.want[i])
			}
		}
	}
	if _, err := RolesFor(2); err == nil {
		t.Fatal("RolesFor(2) should fail")
	}
}

func TestAssignRolesIsIdempotent(t *testing.T) {
	s := seatRoom(nil, nil, []string{"3S"})
	s.FinishedOrder = []string{"p1"}
	AssignRoles(s)
	if s.Players["p1"].Role != RolePresident {
		t.Fatalf("first finisher role = %v", s.Players["p1"].Role)
	}

	s.FinishedOrder = append(s.FinishedOrder, "p0", "p2")
	AssignRoles(s)
	AssignRoles(s)
	if s.Players["p1"].Role != RolePresident {
		t.Fatal("re-assignment changed an earlier role")
	}
	if s.Players["p0"].Role != RoleVicePresident || s.Players["p2"].Role != RoleAsshole {
		t.Fatalf("roles = %v %v", s.Players["p0"].Role, s.Players["p2"].Role)
	}
}

package domain

import "fmt"

// Role is a social rank earned by finish position. Roles drive the card
// exchange at the start of a rematch.
type Role string

const (
	RoleNone          Role = ""
	RolePresident     Role = "president"
	RoleVicePresident Role = "vice_president"
	RoleCitizen       Role = "citizen"
	RoleScumbag       Role = "scumbag"
	RoleAsshole       Role = "asshole"
)

var roleTables = map[int][]Role{
	3: {RolePresident, RoleVicePresident, RoleAsshole},
	4: {RolePresident, RoleVicePresident, RoleScumbag, RoleAsshole},
	5: {RolePresident, RoleVicePresident, RoleCitizen, RoleScumbag, RoleAsshole},
}

// RolesFor returns the finish-position role table for a player count.
func RolesFor(playerCount int) ([]Role, error) {
	roles, ok := roleTables[playerCount]
	if !ok {
		return nil, fmt.Errorf("no role table for %d players", playerCount)
	}
	return roles, nil
}

// AssignRoles stamps roles onto every player already in the finish
// order. Assignment is positional, so calling it again after each new
// finisher never changes a role handed out earlier.
func AssignRoles(s *RoomState) {
	roles, err := RolesFor(len(s.Players))
	if err != nil {
		return
	}
	for i, pid := range s.FinishedOrder {
		if i >= len(roles) {
			break
		}
		if p, ok := s.Players[pid]; ok {
			p.Role = roles[i]
		}
	}
}

// Package bot contains the computer players. A Brain turns a sanitized
// room view into the next action; the Driver feeds those actions back
// through the engine's public operations, so bots can never do anything
// a human client could not.
package bot

import (
	"fmt"
	"math/rand"

	"president/internal/engine"
)

type ActionKind int

const (
	ActionPlay ActionKind = iota
	ActionPass
	ActionGift
	ActionDiscard
	ActionExchangeReturn
)

// Action is one decided move.
type Action struct {
	Kind  ActionKind
	Cards []string
	Gifts []engine.GiftAssignment
}

// Brain picks a bot's next action. ok is false when the view demands
// nothing from this bot right now.
type Brain interface {
	ChooseAction(view engine.RoomView) (act Action, ok bool)
}

type Level int

const (
	LevelRandom Level = iota
	LevelGreedy
)

func ParseLevel(s string) (Level, error) {
	switch s {
	case "random":
		return LevelRandom, nil
	case "greedy":
		return LevelGreedy, nil
	default:
		return 0, fmt.Errorf("unknown bot level %q", s)
	}
}

// NewBrain builds a brain for the level. The rng is only consulted by
// levels that randomize.
func NewBrain(level Level, rng *rand.Rand) (Brain, error) {
	switch level {
	case LevelRandom:
		return &Random{rng: rng}, nil
	case LevelGreedy:
		return &Greedy{}, nil
	default:
		return nil, fmt.Errorf("unknown bot level %d", level)
	}
}

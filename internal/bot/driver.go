package bot

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"president/internal/domain"
	"president/internal/engine"
)

// Driver advances the bots of a room through the engine's public
// operations, one action per step.
type Driver struct {
	eng    *engine.Engine
	logger *log.Logger

	mu     sync.Mutex
	brains map[string]Brain
}

func NewDriver(eng *engine.Engine, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.Default()
	}
	return &Driver{eng: eng, logger: logger, brains: map[string]Brain{}}
}

// Register attaches a brain to a seated bot player. Safe to call while
// another goroutine is stepping the room.
func (d *Driver) Register(playerID string, b Brain) {
	d.mu.Lock()
	d.brains[playerID] = b
	d.mu.Unlock()
}

func (d *Driver) brainIDs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := make([]string, 0, len(d.brains))
	for id := range d.brains {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (d *Driver) brain(playerID string) (Brain, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.brains[playerID]
	return b, ok
}

// Step lets at most one bot act and reports whether anything moved.
// A rejected action is logged and answered with a pass when passing is
// possible, so a buggy brain cannot wedge the room.
func (d *Driver) Step(roomID string) (bool, error) {
	for _, id := range d.brainIDs() {
		b, ok := d.brain(id)
		if !ok {
			continue
		}
		view, err := d.eng.Snapshot(roomID, id)
		if err != nil {
			return false, err
		}
		act, ok := b.ChooseAction(view)
		if !ok {
			continue
		}
		if err := d.submit(roomID, id, act); err != nil {
			d.logger.Warn("bot action rejected",
				"room", roomID, "bot", id, "kind", engine.KindOf(err), "err", err)
			if view.Pattern != nil && view.Turn == id {
				if perr := d.eng.PassTurn(roomID, id); perr == nil {
					return true, nil
				}
			}
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (d *Driver) submit(roomID, playerID string, act Action) error {
	switch act.Kind {
	case ActionPlay:
		return d.eng.PlayCards(roomID, playerID, act.Cards)
	case ActionPass:
		return d.eng.PassTurn(roomID, playerID)
	case ActionGift:
		return d.eng.SubmitGift(roomID, playerID, act.Gifts)
	case ActionDiscard:
		return d.eng.SubmitDiscard(roomID, playerID, act.Cards)
	case ActionExchangeReturn:
		return d.eng.SubmitExchangeReturn(roomID, playerID, act.Cards)
	default:
		return fmt.Errorf("unknown action kind %d", act.Kind)
	}
}

// RunToCompletion steps until the game finishes, no bot has anything to
// do, or maxSteps is exhausted.
func (d *Driver) RunToCompletion(roomID string, maxSteps int) error {
	for i := 0; i < maxSteps; i++ {
		view, err := d.eng.Snapshot(roomID, "")
		if err != nil {
			return err
		}
		if view.Phase == string(domain.PhaseFinished) {
			return nil
		}
		moved, err := d.Step(roomID)
		if err != nil {
			return err
		}
		if !moved {
			return nil
		}
	}
	return fmt.Errorf("room %s still running after %d bot steps", roomID, maxSteps)
}

// Run paces bot actions for a live room until the context ends or the
// game finishes.
func (d *Driver) Run(ctx context.Context, roomID string, delay time.Duration) {
	ticker := time.NewTicker(delay)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			view, err := d.eng.Snapshot(roomID, "")
			if err != nil {
				return
			}
			if view.Phase == string(domain.PhaseFinished) {
				return
			}
			if _, err := d.Step(roomID); err != nil {
				d.logger.Error("bot step failed", "room", roomID, "err", err)
			}
		}
	}
}

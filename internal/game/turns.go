package game

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// TurnDirector owns the turn order and the current-index cursor. Turn order
// is the order participants were registered for the round; the automated
// dealer is registered last but follows the same rotation rule. Membership
// is fixed once play begins.
type TurnDirector struct {
	order  []*Participant
	cursor int
	logger *log.Logger
	bus    Bus
}

// NewTurnDirector creates a director over the given bus and logger.
func NewTurnDirector(bus Bus, logger *log.Logger) *TurnDirector {
	return &TurnDirector{
		logger: logger.WithPrefix("turns"),
		bus:    bus,
	}
}

// ResetForRound fixes the turn order for a round and clears all turn flags.
// The cursor returns to index 0.
func (td *TurnDirector) ResetForRound(order []*Participant) {
	td.order = order
	td.cursor = 0
	for _, p := range td.order {
		p.TurnActive = false
	}
}

// Current returns the participant under the cursor, or nil before a round.
func (td *TurnDirector) Current() *Participant {
	if td.cursor < 0 || td.cursor >= len(td.order) {
		return nil
	}
	return td.order[td.cursor]
}

// StartTurn grants the cursor participant the active flag, clearing any
// previously active participant, and announces the turn.
func (td *TurnDirector) StartTurn() {
	current := td.Current()
	if current == nil {
		return
	}
	for _, p := range td.order {
		p.TurnActive = false
	}
	current.TurnActive = true

	td.logger.Debug("turn started", "participant", current.Name, "index", td.cursor)
	td.bus.Publish(NewTurnChangeEvent(current, td.cursor, current.LastAction))
	td.bus.Publish(NewActivityLogEvent(fmt.Sprintf("%s's turn", current.Name), current.ID))
}

// FirstTurn positions the cursor on the first eligible participant and
// starts their turn. Returns nil if nobody can act.
func (td *TurnDirector) FirstTurn() *Participant {
	for i, p := range td.order {
		if p.Eligible() {
			td.cursor = i
			td.StartTurn()
			return p
		}
	}
	return nil
}

// AdvanceToNextActive rotates the cursor circularly, skipping participants
// who are finished or not in status ok. After a full circuit with no
// eligible participant it returns nil, signalling round completion. The
// outgoing participant's active flag is cleared and its turn end announced
// either way, so the last turn of a round still produces a turn-change.
func (td *TurnDirector) AdvanceToNextActive() *Participant {
	if current := td.Current(); current != nil && current.TurnActive {
		current.TurnActive = false
		td.bus.Publish(NewTurnChangeEvent(current, td.cursor, current.LastAction))
	}
	n := len(td.order)
	for i := 1; i <= n; i++ {
		idx := (td.cursor + i) % n
		if td.order[idx].Eligible() {
			td.cursor = idx
			return td.order[idx]
		}
	}
	return nil
}

// AllFinished reports whether every participant is finished or busted.
func (td *TurnDirector) AllFinished() bool {
	for _, p := range td.order {
		if !p.Finished && p.Status != StatusBusted {
			return false
		}
	}
	return true
}

// Index returns the cursor position, for event payloads.
func (td *TurnDirector) Index() int {
	return td.cursor
}

package statistics

import (
	"github.com/cardroom/blackjack/internal/game"
)

// Observer feeds a Tracker from the engine's event bus. It snapshots banks
// when a round enters betting and converts settlement statuses into round
// results at game over.
type Observer struct {
	tracker      *Tracker
	participants map[string]*game.Participant
	banksAtStart map[string]int
}

// NewObserver creates an observer recording into the given tracker.
func NewObserver(tracker *Tracker) *Observer {
	return &Observer{
		tracker:      tracker,
		participants: make(map[string]*game.Participant),
		banksAtStart: make(map[string]int),
	}
}

// OnEvent implements game.Subscriber.
func (o *Observer) OnEvent(event game.Event) {
	switch e := event.(type) {
	case game.ParticipantUpdateEvent:
		if !e.Participant.IsDealer {
			o.participants[e.Participant.ID] = e.Participant
		}

	case game.StateChangeEvent:
		if e.Status == game.LabelBetting {
			for id, p := range o.participants {
				o.banksAtStart[id] = p.Bank
			}
		}

	case game.GameOverEvent:
		for id, p := range o.participants {
			start, ok := o.banksAtStart[id]
			if !ok {
				continue
			}
			o.tracker.Record(RoundResult{
				ParticipantID: id,
				Name:          p.Name,
				Outcome:       outcomeFor(p),
				Net:           p.Bank - start,
			})
		}
		o.tracker.CompleteRound()
	}
}

// outcomeFor derives the outcome from hand and settlement status. Bust is
// read off the hand: settlement records a busted participant as a loser, so
// the status alone cannot distinguish the two.
func outcomeFor(p *game.Participant) Outcome {
	hv := game.Evaluate(p.Hand)
	if hv.IsBusted {
		return OutcomeBust
	}
	switch p.Status {
	case game.StatusWinner:
		if hv.IsBlackjack {
			return OutcomeBlackjack
		}
		return OutcomeWin
	case game.StatusLoser:
		return OutcomeLoss
	default:
		return OutcomePush
	}
}

package server

import (
	"encoding/json"
	"time"

	"github.com/cardroom/blackjack/internal/game"
)

// Message is the JSON envelope pushed to UI clients.
type Message struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Command is the JSON envelope received from UI clients.
type Command struct {
	Action        string `json:"action"` // start, hit, stand, double, bet, add_participant
	ParticipantID string `json:"participant_id,omitempty"`
	Name          string `json:"name,omitempty"`
	Bank          int    `json:"bank,omitempty"`
	Amount        int    `json:"amount,omitempty"`
}

// ParticipantView is the wire form of a participant.
type ParticipantView struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Automated  bool     `json:"automated"`
	Dealer     bool     `json:"dealer"`
	Bank       int      `json:"bank"`
	CurrentBet int      `json:"current_bet"`
	TotalBet   int      `json:"total_bet"`
	Status     string   `json:"status"`
	Finished   bool     `json:"finished"`
	TurnActive bool     `json:"turn_active"`
	Hand       []string `json:"hand"`
	HandValue  int      `json:"hand_value"`
}

func viewOf(p *game.Participant) ParticipantView {
	hand := make([]string, len(p.Hand))
	for i, c := range p.Hand {
		hand[i] = c.String()
	}
	return ParticipantView{
		ID:         p.ID,
		Name:       p.Name,
		Automated:  p.Automated,
		Dealer:     p.IsDealer,
		Bank:       p.Bank,
		CurrentBet: p.CurrentBet,
		TotalBet:   p.TotalBet,
		Status:     string(p.Status),
		Finished:   p.Finished,
		TurnActive: p.TurnActive,
		Hand:       hand,
		HandValue:  game.Evaluate(p.Hand).Best,
	}
}

// encodeEvent converts a bus event into its wire message. Returns false for
// event kinds that have no wire representation.
func encodeEvent(event game.Event) (*Message, bool) {
	var payload any

	switch e := event.(type) {
	case game.StateChangeEvent:
		payload = map[string]any{"status": e.Status, "round": e.Round, "pot": e.Pot}
	case game.TurnChangeEvent:
		payload = map[string]any{"participant": viewOf(e.Participant), "index": e.Index, "action": string(e.Action)}
	case game.GameOverEvent:
		payload = map[string]any{"winners": e.Winners, "losers": e.Losers, "reason": e.Reason}
	case game.ActivityLogEvent:
		payload = map[string]any{"timestamp": e.Timestamp(), "message": e.Message, "participant_id": e.ParticipantID}
	case game.ParticipantUpdateEvent:
		payload = map[string]any{"participant": viewOf(e.Participant), "changed": e.Changed}
	case game.DeckUpdateEvent:
		payload = map[string]any{"remaining": e.Remaining, "action": e.Action}
	default:
		return nil, false
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, false
	}
	return &Message{
		Type:      event.EventType().String(),
		Timestamp: event.Timestamp(),
		Payload:   data,
	}, true
}

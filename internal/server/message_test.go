package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardroom/blackjack/internal/deck"
	"github.com/cardroom/blackjack/internal/game"
)

func TestEncodeStateChangeEvent(t *testing.T) {
	msg, ok := encodeEvent(game.NewStateChangeEvent(game.LabelBetting, 3, 40))
	require.True(t, ok)
	assert.Equal(t, "state_change", msg.Type)
	assert.False(t, msg.Timestamp.IsZero())

	var payload struct {
		Status string `json:"status"`
		Round  int    `json:"round"`
		Pot    int    `json:"pot"`
	}
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, game.LabelBetting, payload.Status)
	assert.Equal(t, 3, payload.Round)
	assert.Equal(t, 40, payload.Pot)
}

func TestEncodeParticipantUpdateEvent(t *testing.T) {
	p := game.NewParticipant("alice", 100, false)
	p.AddCard(deck.NewCard(deck.Spades, deck.Ace))
	p.AddCard(deck.NewCard(deck.Hearts, deck.King))
	p.PlaceBet(20)

	msg, ok := encodeEvent(game.NewParticipantUpdateEvent(p, "hand", "bank"))
	require.True(t, ok)
	assert.Equal(t, "participant_update", msg.Type)

	var payload struct {
		Participant ParticipantView `json:"participant"`
		Changed     []string        `json:"changed"`
	}
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, "alice", payload.Participant.Name)
	assert.Equal(t, 80, payload.Participant.Bank)
	assert.Equal(t, 20, payload.Participant.CurrentBet)
	assert.Equal(t, []string{"A♠", "K♥"}, payload.Participant.Hand)
	assert.Equal(t, 21, payload.Participant.HandValue)
	assert.Equal(t, []string{"hand", "bank"}, payload.Changed)
}

func TestEncodeGameOverEvent(t *testing.T) {
	msg, ok := encodeEvent(game.NewGameOverEvent([]string{"alice"}, []string{"bob"}, "dealer busts"))
	require.True(t, ok)
	assert.Equal(t, "game_over", msg.Type)

	var payload struct {
		Winners []string `json:"winners"`
		Losers  []string `json:"losers"`
		Reason  string   `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, []string{"alice"}, payload.Winners)
	assert.Equal(t, []string{"bob"}, payload.Losers)
	assert.Equal(t, "dealer busts", payload.Reason)
}

func TestEncodeEveryEventKind(t *testing.T) {
	p := game.NewParticipant("alice", 100, false)
	events := []game.Event{
		game.NewStateChangeEvent(game.LabelDealing, 1, 0),
		game.NewTurnChangeEvent(p, 0, game.ActionNone),
		game.NewGameOverEvent(nil, nil, "showdown"),
		game.NewActivityLogEvent("alice joins", p.ID),
		game.NewParticipantUpdateEvent(p, "joined"),
		game.NewDeckUpdateEvent(48, "draw"),
	}
	for _, e := range events {
		msg, ok := encodeEvent(e)
		require.True(t, ok, "event %s not encodable", e.EventType())
		assert.Equal(t, e.EventType().String(), msg.Type)
		assert.True(t, json.Valid(msg.Payload))
	}
}

func TestCommandDecoding(t *testing.T) {
	var cmd Command
	input := `{"action":"bet","participant_id":"id-1","amount":25}`
	require.NoError(t, json.Unmarshal([]byte(input), &cmd))
	assert.Equal(t, "bet", cmd.Action)
	assert.Equal(t, "id-1", cmd.ParticipantID)
	assert.Equal(t, 25, cmd.Amount)
}

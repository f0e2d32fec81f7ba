package statistics

import (
	"testing"

	"github.com/cardroom/blackjack/internal/deck"
	"github.com/cardroom/blackjack/internal/game"
)

func TestObserverRecordsSettledRound(t *testing.T) {
	t.Parallel()

	tracker := NewTracker()
	o := NewObserver(tracker)

	alice := game.NewParticipant("alice", 100, false)
	dealer := game.NewParticipant("dealer", 1000, true)
	dealer.IsDealer = true

	o.OnEvent(game.NewParticipantUpdateEvent(alice, "joined"))
	o.OnEvent(game.NewParticipantUpdateEvent(dealer, "joined"))
	o.OnEvent(game.NewStateChangeEvent(game.LabelBetting, 1, 0))

	// The round plays out: alice antes 10 and wins 25 on a blackjack.
	alice.Bank = 115
	alice.Hand = []deck.Card{
		deck.NewCard(deck.Spades, deck.Ace),
		deck.NewCard(deck.Spades, deck.King),
	}
	alice.RecordWin()
	o.OnEvent(game.NewGameOverEvent([]string{"alice"}, nil, "showdown"))

	if tracker.Rounds() != 1 {
		t.Fatalf("rounds = %d, want 1", tracker.Rounds())
	}
	line, ok := tracker.Line(alice.ID)
	if !ok {
		t.Fatal("alice has no line")
	}
	if line.Blackjacks != 1 || line.Wins != 1 {
		t.Errorf("line = %+v", line)
	}
	if line.Net != 15 {
		t.Errorf("net = %d, want 15", line.Net)
	}

	// The dealer never gets a line.
	if _, ok := tracker.Line(dealer.ID); ok {
		t.Error("dealer should not be tracked")
	}
}

func TestObserverBustOutcome(t *testing.T) {
	t.Parallel()

	tracker := NewTracker()
	o := NewObserver(tracker)

	alice := game.NewParticipant("alice", 100, false)
	o.OnEvent(game.NewParticipantUpdateEvent(alice, "joined"))
	o.OnEvent(game.NewStateChangeEvent(game.LabelBetting, 1, 0))

	alice.Bank = 90
	alice.Hand = []deck.Card{
		deck.NewCard(deck.Spades, deck.Ten),
		deck.NewCard(deck.Hearts, deck.Nine),
		deck.NewCard(deck.Clubs, deck.Five),
	}
	// Settlement records busted participants as losers; the observer
	// still classifies them by their hand.
	alice.RecordBust()
	alice.RecordLoss()
	o.OnEvent(game.NewGameOverEvent(nil, []string{"alice"}, "showdown"))

	line, _ := tracker.Line(alice.ID)
	if line.Busts != 1 {
		t.Errorf("busts = %d, want 1", line.Busts)
	}
	if line.Net != -10 {
		t.Errorf("net = %d, want -10", line.Net)
	}
}

func TestObserverIgnoresRoundsWithoutBettingSnapshot(t *testing.T) {
	t.Parallel()

	tracker := NewTracker()
	o := NewObserver(tracker)

	// A participant seen only after betting closed has no baseline bank,
	// so no result can be derived for them.
	alice := game.NewParticipant("alice", 100, false)
	o.OnEvent(game.NewParticipantUpdateEvent(alice, "joined"))
	o.OnEvent(game.NewGameOverEvent(nil, nil, "showdown"))

	if _, ok := tracker.Line(alice.ID); ok {
		t.Error("result recorded without a betting snapshot")
	}
	if tracker.Rounds() != 1 {
		t.Errorf("rounds = %d, want 1", tracker.Rounds())
	}
}

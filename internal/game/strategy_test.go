package game

import (
	"testing"

	"github.com/cardroom/blackjack/internal/deck"
)

func TestDealerStrategy(t *testing.T) {
	t.Parallel()

	up := deck.NewCard(deck.Spades, deck.Ten)
	tests := []struct {
		hand []deck.Card
		want Action
	}{
		{cards(deck.Ten, deck.Six), ActionHit},
		{cards(deck.Ten, deck.Seven), ActionStand},
		{cards(deck.Ace, deck.Six), ActionStand}, // stands on soft 17
		{cards(deck.Ace, deck.King), ActionStand},
	}
	for _, tt := range tests {
		if got := (DealerStrategy{}).Decide(tt.hand, up); got != tt.want {
			t.Errorf("%s: got %q, want %q", FormatHand(tt.hand), got, tt.want)
		}
	}
}

func TestSoft17Strategy(t *testing.T) {
	t.Parallel()

	up := deck.NewCard(deck.Spades, deck.Ten)
	if got := (Soft17Strategy{}).Decide(cards(deck.Ace, deck.Six), up); got != ActionHit {
		t.Errorf("soft 17: got %q, want hit", got)
	}
	if got := (Soft17Strategy{}).Decide(cards(deck.Ten, deck.Seven), up); got != ActionStand {
		t.Errorf("hard 17: got %q, want stand", got)
	}
}

func TestConservativeStrategy(t *testing.T) {
	t.Parallel()

	weak := deck.NewCard(deck.Spades, deck.Five)
	strong := deck.NewCard(deck.Spades, deck.Ten)

	if got := (ConservativeStrategy{}).Decide(cards(deck.Ten, deck.Two), weak); got != ActionStand {
		t.Errorf("stiff vs weak up card: got %q, want stand", got)
	}
	if got := (ConservativeStrategy{}).Decide(cards(deck.Ten, deck.Two), strong); got != ActionHit {
		t.Errorf("stiff vs strong up card: got %q, want hit", got)
	}
}

func TestAggressiveStrategyDoubles(t *testing.T) {
	t.Parallel()

	up := deck.NewCard(deck.Spades, deck.Six)
	if got := (AggressiveStrategy{}).Decide(cards(deck.Six, deck.Five), up); got != ActionDouble {
		t.Errorf("two-card 11: got %q, want double", got)
	}
	// Three cards totalling 11 no longer qualify for a double.
	if got := (AggressiveStrategy{}).Decide(cards(deck.Three, deck.Four, deck.Four), up); got != ActionHit {
		t.Errorf("three-card 11: got %q, want hit", got)
	}
	if got := (AggressiveStrategy{}).Decide(cards(deck.Ten, deck.Six), up); got != ActionHit {
		t.Errorf("16: got %q, want hit", got)
	}
	if got := (AggressiveStrategy{}).Decide(cards(deck.Ten, deck.Seven), up); got != ActionStand {
		t.Errorf("17: got %q, want stand", got)
	}
}

func TestUpCardStrategy(t *testing.T) {
	t.Parallel()

	weak := deck.NewCard(deck.Spades, deck.Four)
	strong := deck.NewCard(deck.Spades, deck.King)

	if got := (UpCardStrategy{}).Decide(cards(deck.Ten, deck.Nine), strong); got != ActionStand {
		t.Errorf("hard 19: got %q, want stand", got)
	}
	if got := (UpCardStrategy{}).Decide(cards(deck.Six, deck.Five), weak); got != ActionDouble {
		t.Errorf("11 vs weak: got %q, want double", got)
	}
	if got := (UpCardStrategy{}).Decide(cards(deck.Ten, deck.Three), weak); got != ActionStand {
		t.Errorf("13 vs weak: got %q, want stand", got)
	}
	if got := (UpCardStrategy{}).Decide(cards(deck.Ten, deck.Three), strong); got != ActionHit {
		t.Errorf("13 vs strong: got %q, want hit", got)
	}
	if got := (UpCardStrategy{}).Decide(cards(deck.Ace, deck.Seven), strong); got != ActionHit {
		t.Errorf("soft 18 vs strong: got %q, want hit", got)
	}
}

func TestParseStrategy(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"dealer", "basic", "", "soft17", "conservative", "aggressive", "upcard"} {
		if _, err := ParseStrategy(name); err != nil {
			t.Errorf("ParseStrategy(%q) failed: %v", name, err)
		}
	}
	if _, err := ParseStrategy("martingale"); err == nil {
		t.Error("unknown strategy should fail")
	}
}

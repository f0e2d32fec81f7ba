package game

import (
	"testing"

	"github.com/cardroom/blackjack/internal/deck"
)

func cards(ranks ...deck.Rank) []deck.Card {
	out := make([]deck.Card, len(ranks))
	suits := []deck.Suit{deck.Spades, deck.Hearts, deck.Diamonds, deck.Clubs}
	for i, rank := range ranks {
		out[i] = deck.NewCard(suits[i%len(suits)], rank)
	}
	return out
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		hand          []deck.Card
		wantBest      int
		wantAceAsOne  int
		wantEleven    int
		wantBlackjack bool
		wantBusted    bool
	}{
		{
			name:     "empty hand",
			hand:     nil,
			wantBest: 0,
		},
		{
			name:          "ace king is blackjack",
			hand:          cards(deck.Ace, deck.King),
			wantBest:      21,
			wantAceAsOne:  11,
			wantEleven:    21,
			wantBlackjack: true,
		},
		{
			name:         "ten seven ace downgrades once",
			hand:         cards(deck.Ten, deck.Seven, deck.Ace),
			wantBest:     18,
			wantAceAsOne: 18,
			wantEleven:   28,
		},
		{
			name:         "two aces downgrade independently",
			hand:         cards(deck.Ace, deck.Ace, deck.Nine),
			wantBest:     21,
			wantAceAsOne: 11,
			wantEleven:   31,
		},
		{
			name:         "three card twenty one is not blackjack",
			hand:         cards(deck.Seven, deck.Seven, deck.Seven),
			wantBest:     21,
			wantAceAsOne: 21,
			wantEleven:   21,
		},
		{
			name:         "hard bust",
			hand:         cards(deck.Ten, deck.Nine, deck.Five),
			wantBest:     24,
			wantAceAsOne: 24,
			wantEleven:   24,
			wantBusted:   true,
		},
		{
			name:         "soft seventeen",
			hand:         cards(deck.Ace, deck.Six),
			wantBest:     17,
			wantAceAsOne: 7,
			wantEleven:   17,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			hv := Evaluate(tt.hand)
			if hv.Best != tt.wantBest {
				t.Errorf("Best = %d, want %d", hv.Best, tt.wantBest)
			}
			if hv.AceAsOne != tt.wantAceAsOne {
				t.Errorf("AceAsOne = %d, want %d", hv.AceAsOne, tt.wantAceAsOne)
			}
			if hv.AceAsEleven != tt.wantEleven {
				t.Errorf("AceAsEleven = %d, want %d", hv.AceAsEleven, tt.wantEleven)
			}
			if hv.IsBlackjack != tt.wantBlackjack {
				t.Errorf("IsBlackjack = %v, want %v", hv.IsBlackjack, tt.wantBlackjack)
			}
			if hv.IsBusted != tt.wantBusted {
				t.Errorf("IsBusted = %v, want %v", hv.IsBusted, tt.wantBusted)
			}

			if hv.IsBusted && hv.Best <= 21 {
				t.Error("busted hand with best <= 21")
			}
		})
	}
}

func TestHandValueIsSoft(t *testing.T) {
	t.Parallel()

	if !Evaluate(cards(deck.Ace, deck.Six)).IsSoft() {
		t.Error("A6 should be soft")
	}
	if Evaluate(cards(deck.Ten, deck.Seven)).IsSoft() {
		t.Error("ten seven should be hard")
	}
	if Evaluate(cards(deck.Ace, deck.Six, deck.Ten)).IsSoft() {
		t.Error("A6T downgrades to hard seventeen")
	}
}

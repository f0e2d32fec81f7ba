package game

import (
	"strings"

	"github.com/cardroom/blackjack/internal/deck"
)

// HandValue is the dual (hard/soft) total of a hand. It is always computed
// fresh from a hand snapshot and never cached, since hands mutate on every
// draw.
type HandValue struct {
	AceAsOne    int  // Total with every ace counted as 1
	AceAsEleven int  // Total with every ace counted as 11
	Best        int  // Highest total that does not bust, or the hard total
	IsBlackjack bool // Exactly two cards totalling 21
	IsBusted    bool // Best exceeds 21
}

// Evaluate computes the value of a hand. Every ace starts at 11; while the
// total exceeds 21 and an ace remains undowngraded, one ace is re-counted
// as 1. An empty hand evaluates to zero, neither busted nor blackjack.
func Evaluate(hand []deck.Card) HandValue {
	var hv HandValue
	aces := 0
	for _, c := range hand {
		hv.AceAsEleven += c.Value()
		if c.IsAce() {
			hv.AceAsOne += 1
			aces++
		} else {
			hv.AceAsOne += c.Value()
		}
	}

	hv.Best = hv.AceAsEleven
	for hv.Best > 21 && aces > 0 {
		hv.Best -= 10
		aces--
	}

	hv.IsBlackjack = len(hand) == 2 && hv.Best == 21
	hv.IsBusted = hv.Best > 21
	return hv
}

// IsSoft reports whether the hand counts an ace as 11 in its best total.
func (hv HandValue) IsSoft() bool {
	return hv.Best != hv.AceAsOne
}

// FormatHand renders a hand as a space-separated card list (e.g. "A♠ K♥").
func FormatHand(hand []deck.Card) string {
	parts := make([]string, len(hand))
	for i, c := range hand {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

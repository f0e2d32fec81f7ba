package game

import (
	"fmt"

	"github.com/cardroom/blackjack/internal/deck"
)

// Strategy decides an automated participant's next action from its hand and
// the dealer's up card. The engine holds one strategy per automated
// participant; there is no inheritance between variants.
type Strategy interface {
	Name() string
	Decide(hand []deck.Card, dealerUp deck.Card) Action
}

// DealerStrategy is the house rule: hit below 17, stand on any 17,
// soft or hard.
type DealerStrategy struct{}

func (DealerStrategy) Name() string { return "dealer" }

func (DealerStrategy) Decide(hand []deck.Card, dealerUp deck.Card) Action {
	if Evaluate(hand).Best < 17 {
		return ActionHit
	}
	return ActionStand
}

// Soft17Strategy plays like the dealer but also hits a soft 17.
type Soft17Strategy struct{}

func (Soft17Strategy) Name() string { return "soft17" }

func (Soft17Strategy) Decide(hand []deck.Card, dealerUp deck.Card) Action {
	hv := Evaluate(hand)
	if hv.Best < 17 {
		return ActionHit
	}
	if hv.Best == 17 && hv.IsSoft() {
		return ActionHit
	}
	return ActionStand
}

// ConservativeStrategy stands early against a weak dealer up card, betting
// on the dealer busting.
type ConservativeStrategy struct{}

func (ConservativeStrategy) Name() string { return "conservative" }

func (ConservativeStrategy) Decide(hand []deck.Card, dealerUp deck.Card) Action {
	best := Evaluate(hand).Best
	weakUpCard := dealerUp.Value() >= 2 && dealerUp.Value() <= 6
	if weakUpCard && best >= 12 {
		return ActionStand
	}
	if best < 17 {
		return ActionHit
	}
	return ActionStand
}

// AggressiveStrategy doubles any two-card 9 to 11 and hits everything up
// to 16.
type AggressiveStrategy struct{}

func (AggressiveStrategy) Name() string { return "aggressive" }

func (AggressiveStrategy) Decide(hand []deck.Card, dealerUp deck.Card) Action {
	hv := Evaluate(hand)
	if len(hand) == 2 && hv.Best >= 9 && hv.Best <= 11 {
		return ActionDouble
	}
	if hv.Best <= 16 {
		return ActionHit
	}
	return ActionStand
}

// UpCardStrategy approximates basic strategy: stand on made hands, stand
// on stiffs against a weak dealer up card, double two-card 10/11 against a
// weaker up card, otherwise hit.
type UpCardStrategy struct{}

func (UpCardStrategy) Name() string { return "upcard" }

func (UpCardStrategy) Decide(hand []deck.Card, dealerUp deck.Card) Action {
	hv := Evaluate(hand)
	up := dealerUp.Value()

	if hv.Best >= 17 && !hv.IsSoft() {
		return ActionStand
	}
	if len(hand) == 2 && (hv.Best == 10 || hv.Best == 11) && !hv.IsSoft() && hv.Best > up {
		return ActionDouble
	}
	if hv.IsSoft() {
		if hv.Best >= 19 {
			return ActionStand
		}
		return ActionHit
	}
	// Hard 12-16: stand against 2-6, hit against 7+
	if hv.Best >= 12 && up <= 6 {
		return ActionStand
	}
	if hv.Best >= 17 {
		return ActionStand
	}
	return ActionHit
}

// ParseStrategy resolves a strategy by its configured name.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "dealer", "basic", "":
		return DealerStrategy{}, nil
	case "soft17":
		return Soft17Strategy{}, nil
	case "conservative":
		return ConservativeStrategy{}, nil
	case "aggressive":
		return AggressiveStrategy{}, nil
	case "upcard":
		return UpCardStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

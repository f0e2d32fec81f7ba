package deck

import (
	"math/rand/v2"
)

// Shoe is the drawable source of cards for a round: a single standard
// 52-card deck, shuffled on Reset. Multi-deck shoes are not supported.
type Shoe struct {
	cards []Card
	rng   *rand.Rand
}

// NewShoe creates a shoe with a full shuffled deck using the provided RNG.
// The RNG is injected so shuffles can be reproduced in tests.
func NewShoe(rng *rand.Rand) *Shoe {
	s := &Shoe{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}
	s.Reset()
	return s
}

// Reset restores the shoe to a full 52-card deck and shuffles it.
func (s *Shoe) Reset() {
	s.cards = s.cards[:0]
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			s.cards = append(s.cards, NewCard(suit, rank))
		}
	}
	s.shuffle()
}

// shuffle performs a Fisher-Yates shuffle over the remaining cards.
func (s *Shoe) shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Load replaces the shoe contents with the given cards in order, top
// first. Used to stack known deals in tests.
func (s *Shoe) Load(cards []Card) {
	s.cards = append(s.cards[:0], cards...)
}

// Draw removes and returns the top card. The second return value is false
// when the shoe is exhausted; the shoe is left unchanged in that case and
// callers are expected to end the hand rather than treat it as fatal.
func (s *Shoe) Draw() (Card, bool) {
	if len(s.cards) == 0 {
		return Card{}, false
	}
	card := s.cards[0]
	s.cards = s.cards[1:]
	return card, true
}

// Remaining returns the number of cards left in the shoe.
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// IsEmpty returns true if the shoe has no cards left.
func (s *Shoe) IsEmpty() bool {
	return len(s.cards) == 0
}

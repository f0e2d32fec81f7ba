package game

import (
	"github.com/google/uuid"

	"github.com/cardroom/blackjack/internal/deck"
)

// Status represents a participant's standing within the current round.
type Status string

const (
	StatusOK         Status = "ok"
	StatusBusted     Status = "busted"
	StatusWinner     Status = "winner"
	StatusLoser      Status = "loser"
	StatusBlackjack  Status = "blackjack"
	StatusWaiting    Status = "waiting"
	StatusSittingOut Status = "sitting-out"
)

// Action represents a participant action at the table.
type Action string

const (
	ActionNone   Action = ""
	ActionHit    Action = "hit"
	ActionStand  Action = "stand"
	ActionDouble Action = "double"
	ActionBet    Action = "bet"
	ActionAnte   Action = "ante"
)

// Stats tracks a participant's cumulative results across rounds. Stats
// survive round resets and are the only per-participant state persisted
// besides identity and bank.
type Stats struct {
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Busts        int     `json:"busts"`
	Blackjacks   int     `json:"blackjacks"`
	Winnings     int     `json:"winnings"`
	WinLossRatio float64 `json:"win_loss_ratio"`
}

func (s *Stats) recomputeRatio() {
	if s.Losses == 0 {
		s.WinLossRatio = float64(s.Wins)
		return
	}
	s.WinLossRatio = float64(s.Wins) / float64(s.Losses)
}

// Participant is a human or automated actor at the table: hand, bank, bet,
// turn/status flags and cumulative statistics. All mutation happens through
// the engine and ledger during play.
type Participant struct {
	ID         string
	Name       string
	Automated  bool
	IsDealer   bool
	Bank       int
	Hand       []deck.Card
	CurrentBet int
	TotalBet   int // Cumulative this round, including doubles and antes
	TurnActive bool
	Finished   bool
	LastAction Action
	Status     Status
	Stats      Stats
}

// NewParticipant creates a participant with a fresh session-stable id.
func NewParticipant(name string, bank int, automated bool) *Participant {
	return &Participant{
		ID:        uuid.NewString(),
		Name:      name,
		Bank:      bank,
		Automated: automated,
		Status:    StatusWaiting,
	}
}

// AddCard appends a card to the hand.
func (p *Participant) AddCard(c deck.Card) {
	p.Hand = append(p.Hand, c)
}

// ClearHand removes all cards from the hand.
func (p *Participant) ClearHand() {
	p.Hand = p.Hand[:0]
}

// PlaceBet debits the bank and sets the active wager. Returns false with no
// mutation if the amount is non-positive or exceeds the bank.
func (p *Participant) PlaceBet(amount int) bool {
	if amount <= 0 || amount > p.Bank {
		return false
	}
	p.Bank -= amount
	p.CurrentBet = amount
	p.TotalBet += amount
	p.LastAction = ActionBet
	return true
}

// PlaceAnte debits the bank without touching the active wager. The ante is
// separate from the hand's bet but still accumulates into TotalBet.
func (p *Participant) PlaceAnte(amount int) bool {
	if amount <= 0 || amount > p.Bank {
		return false
	}
	p.Bank -= amount
	p.TotalBet += amount
	p.LastAction = ActionAnte
	return true
}

// DoubleBet debits the current bet a second time and doubles it. Returns
// false with no mutation if the bank cannot cover the additional wager.
func (p *Participant) DoubleBet() bool {
	if p.Bank < p.CurrentBet || p.CurrentBet <= 0 {
		return false
	}
	p.Bank -= p.CurrentBet
	p.TotalBet += p.CurrentBet
	p.CurrentBet *= 2
	p.LastAction = ActionDouble
	return true
}

// ReceiveWinnings credits the bank and the lifetime winnings statistic.
// No validation: callers must compute correct amounts.
func (p *Participant) ReceiveWinnings(amount int) {
	p.Bank += amount
	p.Stats.Winnings += amount
}

// Refund credits the bank without touching statistics. Used for pushes,
// where no win or loss is recorded.
func (p *Participant) Refund(amount int) {
	p.Bank += amount
}

// RecordWin marks the participant a winner for the round.
func (p *Participant) RecordWin() {
	p.Stats.Wins++
	p.Stats.recomputeRatio()
	p.Status = StatusWinner
}

// RecordLoss marks the participant a loser for the round.
func (p *Participant) RecordLoss() {
	p.Stats.Losses++
	p.Stats.recomputeRatio()
	p.Status = StatusLoser
}

// RecordBust marks the participant busted and ends their round.
func (p *Participant) RecordBust() {
	p.Stats.Busts++
	p.Status = StatusBusted
	p.Finished = true
}

// RecordBlackjack marks a dealt two-card 21.
func (p *Participant) RecordBlackjack() {
	p.Stats.Blackjacks++
	p.Status = StatusBlackjack
}

// ResetForRound clears hand, betting and round flags. Identity, bank and
// statistics are retained.
func (p *Participant) ResetForRound() {
	p.ClearHand()
	p.CurrentBet = 0
	p.TotalBet = 0
	p.TurnActive = false
	p.Finished = false
	p.LastAction = ActionNone
	p.Status = StatusOK
}

// Eligible reports whether the participant can still act this round.
func (p *Participant) Eligible() bool {
	return !p.Finished && p.Status == StatusOK
}

// View returns a detached copy of the participant with its own hand slice.
// Live *Participant pointers are only safe to read while the engine mutex
// is held; readers on other goroutines take a View instead.
func (p *Participant) View() Participant {
	cp := *p
	cp.Hand = append([]deck.Card(nil), p.Hand...)
	return cp
}

// Snapshot is the persisted form of a participant. Hand and in-round
// betting state are intentionally absent: a new round always starts from an
// empty hand and zero bet.
type Snapshot struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Automated bool   `json:"automated"`
	Bank      int    `json:"bank"`
	Stats     Stats  `json:"stats"`
}

// Snapshot produces the persistable view of the participant.
func (p *Participant) Snapshot() Snapshot {
	return Snapshot{
		ID:        p.ID,
		Name:      p.Name,
		Automated: p.Automated,
		Bank:      p.Bank,
		Stats:     p.Stats,
	}
}

// FromSnapshot restores a participant from its persisted form.
func FromSnapshot(s Snapshot) *Participant {
	return &Participant{
		ID:        s.ID,
		Name:      s.Name,
		Automated: s.Automated,
		Bank:      s.Bank,
		Stats:     s.Stats,
		Status:    StatusWaiting,
	}
}

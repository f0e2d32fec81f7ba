package game

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Ledger owns the pot and the per-round ante. Every bank debit it makes is
// matched by a pot credit, so money is conserved; the one documented
// exception is the floor-division remainder on split payouts, which is
// absorbed rather than reimbursed.
type Ledger struct {
	pot    int
	ante   int
	logger *log.Logger
	bus    Bus
}

// NewLedger creates a ledger with the given per-round ante.
func NewLedger(ante int, bus Bus, logger *log.Logger) *Ledger {
	return &Ledger{
		ante:   ante,
		logger: logger.WithPrefix("ledger"),
		bus:    bus,
	}
}

// Pot returns the current pot.
func (l *Ledger) Pot() int {
	return l.pot
}

// Ante returns the per-round minimum wager.
func (l *Ledger) Ante() int {
	return l.ante
}

// ResetForRound empties the pot.
func (l *Ledger) ResetForRound() {
	l.pot = 0
}

// CollectAntes attempts the ante for every given participant (callers
// exclude the dealer). Participants who cannot afford the ante are skipped
// and keep playing with no wager; there is no forced fold. Returns the
// number of antes collected.
func (l *Ledger) CollectAntes(participants []*Participant) int {
	collected := 0
	for _, p := range participants {
		if !p.PlaceAnte(l.ante) {
			l.logger.Warn("participant cannot cover ante, skipping", "participant", p.Name, "bank", p.Bank, "ante", l.ante)
			l.bus.Publish(NewActivityLogEvent(fmt.Sprintf("%s cannot cover the %d ante and sits on no wager", p.Name, l.ante), p.ID))
			continue
		}
		l.pot += l.ante
		collected++
		l.bus.Publish(NewParticipantUpdateEvent(p, "bank", "bet"))
		l.bus.Publish(NewActivityLogEvent(fmt.Sprintf("%s antes %d", p.Name, l.ante), p.ID))
	}
	return collected
}

// PlaceBet delegates to the participant and adds the amount to the pot on
// success.
func (l *Ledger) PlaceBet(p *Participant, amount int) bool {
	if !p.PlaceBet(amount) {
		l.logger.Debug("bet rejected", "participant", p.Name, "amount", amount, "bank", p.Bank)
		return false
	}
	l.pot += amount
	l.bus.Publish(NewParticipantUpdateEvent(p, "bank", "bet"))
	l.bus.Publish(NewActivityLogEvent(fmt.Sprintf("%s bets %d", p.Name, amount), p.ID))
	return true
}

// DoubleBet delegates to the participant and moves the full additional
// wager into the pot on success.
func (l *Ledger) DoubleBet(p *Participant) bool {
	additional := p.CurrentBet
	if !p.DoubleBet() {
		l.logger.Debug("double rejected", "participant", p.Name, "bank", p.Bank, "currentBet", p.CurrentBet)
		return false
	}
	l.pot += additional
	l.bus.Publish(NewParticipantUpdateEvent(p, "bank", "bet"))
	l.bus.Publish(NewActivityLogEvent(fmt.Sprintf("%s doubles down to %d", p.Name, p.CurrentBet), p.ID))
	return true
}

// AwardPot splits the pot by floor division among the winners and empties
// it. The remainder is absorbed, never distributed; the total paid out is
// never more than was collected.
func (l *Ledger) AwardPot(winners []*Participant) {
	if len(winners) == 0 || l.pot == 0 {
		return
	}
	share := l.pot / len(winners)
	for _, p := range winners {
		p.ReceiveWinnings(share)
		l.bus.Publish(NewParticipantUpdateEvent(p, "bank"))
		l.bus.Publish(NewActivityLogEvent(fmt.Sprintf("%s takes %d from the pot", p.Name, share), p.ID))
	}
	l.pot = 0
}

// Payout credits winnings computed by settlement directly to the
// participant. Settlement amounts (2x, floor 2.5x) are derived from the
// participant's total wager, not from a pot split.
func (l *Ledger) Payout(p *Participant, amount int) {
	p.ReceiveWinnings(amount)
	l.bus.Publish(NewParticipantUpdateEvent(p, "bank"))
	l.bus.Publish(NewActivityLogEvent(fmt.Sprintf("%s wins %d", p.Name, amount), p.ID))
}

// ReturnBet refunds the participant's full wager for a push, taking it back
// out of the pot so the house cannot later claim refunded money. Records no
// statistic.
func (l *Ledger) ReturnBet(p *Participant) {
	if p.TotalBet == 0 {
		return
	}
	p.Refund(p.TotalBet)
	l.pot -= p.TotalBet
	if l.pot < 0 {
		l.pot = 0
	}
	l.bus.Publish(NewParticipantUpdateEvent(p, "bank"))
	l.bus.Publish(NewActivityLogEvent(fmt.Sprintf("%s pushes, %d returned", p.Name, p.TotalBet), p.ID))
}

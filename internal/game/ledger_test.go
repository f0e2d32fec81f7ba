package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestLedger(t *testing.T, ante int) *Ledger {
	t.Helper()
	return NewLedger(ante, NewBus(), log.New(io.Discard))
}

func totalMoney(pot int, participants ...*Participant) int {
	total := pot
	for _, p := range participants {
		total += p.Bank
	}
	return total
}

func TestCollectAntesSkipsShortBanks(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t, 10)
	rich := NewParticipant("rich", 100, false)
	poor := NewParticipant("poor", 5, false)

	collected := l.CollectAntes([]*Participant{rich, poor})
	if collected != 1 {
		t.Fatalf("collected = %d, want 1", collected)
	}
	if l.Pot() != 10 {
		t.Errorf("pot = %d, want 10", l.Pot())
	}
	if rich.Bank != 90 || rich.TotalBet != 10 {
		t.Errorf("rich: bank=%d total=%d", rich.Bank, rich.TotalBet)
	}

	// The short bank keeps playing, untouched and with no wager.
	if poor.Bank != 5 || poor.TotalBet != 0 {
		t.Errorf("poor: bank=%d total=%d", poor.Bank, poor.TotalBet)
	}
	if poor.Finished || poor.Status == StatusSittingOut {
		t.Error("short bank must not be forced out of the round")
	}
}

func TestPlaceBetMovesMoneyToPot(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t, 10)
	p := NewParticipant("alice", 100, false)
	before := totalMoney(l.Pot(), p)

	if !l.PlaceBet(p, 30) {
		t.Fatal("valid bet rejected")
	}
	if l.Pot() != 30 || p.Bank != 70 {
		t.Errorf("pot=%d bank=%d", l.Pot(), p.Bank)
	}
	if got := totalMoney(l.Pot(), p); got != before {
		t.Errorf("money not conserved: %d -> %d", before, got)
	}

	if l.PlaceBet(p, 200) {
		t.Error("bet over bank accepted")
	}
	if l.Pot() != 30 {
		t.Errorf("rejected bet changed pot to %d", l.Pot())
	}
}

func TestDoubleBetMovesFullAdditionalWager(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t, 10)
	p := NewParticipant("bob", 100, false)
	l.PlaceBet(p, 30)

	if !l.DoubleBet(p) {
		t.Fatal("affordable double rejected")
	}
	// The additional 30 lands in the pot in full.
	if l.Pot() != 60 {
		t.Errorf("pot = %d, want 60", l.Pot())
	}
	if p.Bank != 40 || p.CurrentBet != 60 {
		t.Errorf("bank=%d bet=%d", p.Bank, p.CurrentBet)
	}

	// Bank 40 cannot cover another 60.
	if l.DoubleBet(p) {
		t.Error("unaffordable double accepted")
	}
	if l.Pot() != 60 {
		t.Errorf("rejected double changed pot to %d", l.Pot())
	}
}

func TestAwardPotFloorSplit(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t, 10)
	a := NewParticipant("a", 100, false)
	b := NewParticipant("b", 100, false)
	c := NewParticipant("c", 100, false)
	l.PlaceBet(a, 33)
	l.PlaceBet(b, 33)
	l.PlaceBet(c, 34)

	if l.Pot() != 100 {
		t.Fatalf("pot = %d", l.Pot())
	}
	l.AwardPot([]*Participant{a, b, c})

	// 100 / 3 floors to 33; the remainder 1 is absorbed.
	for _, p := range []*Participant{a, b} {
		if p.Bank != 100 {
			t.Errorf("%s bank = %d, want 100", p.Name, p.Bank)
		}
	}
	if c.Bank != 99 {
		t.Errorf("c bank = %d, want 99", c.Bank)
	}
	if l.Pot() != 0 {
		t.Errorf("pot = %d after award, want 0", l.Pot())
	}

	if a.Stats.Winnings != 33 {
		t.Errorf("winnings = %d, want 33", a.Stats.Winnings)
	}
}

func TestAwardPotNoWinnersLeavesPot(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t, 10)
	p := NewParticipant("a", 100, false)
	l.PlaceBet(p, 50)

	l.AwardPot(nil)
	if l.Pot() != 50 {
		t.Errorf("pot = %d, want 50", l.Pot())
	}
}

func TestReturnBetRefundsWithoutStats(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t, 10)
	p := NewParticipant("push", 100, false)
	l.CollectAntes([]*Participant{p})
	l.PlaceBet(p, 20)

	l.ReturnBet(p)
	if p.Bank != 100 {
		t.Errorf("bank = %d, want 100", p.Bank)
	}
	if l.Pot() != 0 {
		t.Errorf("pot = %d after refund, want 0", l.Pot())
	}
	if p.Stats.Wins != 0 || p.Stats.Losses != 0 || p.Stats.Winnings != 0 {
		t.Error("push must not record statistics")
	}

	// No wager, no refund.
	idle := NewParticipant("idle", 50, false)
	l.ReturnBet(idle)
	if idle.Bank != 50 {
		t.Errorf("idle bank = %d, want 50", idle.Bank)
	}
}

func TestPayoutCreditsDirectly(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t, 10)
	p := NewParticipant("win", 100, false)
	l.PlaceBet(p, 20)

	l.Payout(p, 40)
	if p.Bank != 120 {
		t.Errorf("bank = %d, want 120", p.Bank)
	}
	if p.Stats.Winnings != 40 {
		t.Errorf("winnings = %d, want 40", p.Stats.Winnings)
	}
	// Settlement payouts come from the house, not the pot.
	if l.Pot() != 20 {
		t.Errorf("pot = %d, want 20", l.Pot())
	}
}

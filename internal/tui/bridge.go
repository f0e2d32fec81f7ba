package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cardroom/blackjack/internal/deck"
	"github.com/cardroom/blackjack/internal/game"
)

// seatView is an immutable snapshot of a participant for rendering. The
// bridge builds it inside the synchronous bus callback, where the
// participant's fields are stable, and ships it to the TUI goroutine.
type seatView struct {
	ID         string
	Name       string
	Dealer     bool
	Automated  bool
	Bank       int
	TotalBet   int
	Status     string
	TurnActive bool
	Finished   bool
	Cards      []deck.Card
	Best       int
}

type seatMsg struct{ seat seatView }

type stateMsg struct {
	Label string
	Round int
	Pot   int
}

type logMsg struct{ line string }

type gameOverMsg struct {
	Winners []string
	Losers  []string
	Reason  string
}

type deckMsg struct{ remaining int }

// Bridge subscribes to the engine bus and forwards events to a bubbletea
// program as messages. Send is asynchronous, so the bridge never re-enters
// the engine from the bus callback.
type Bridge struct {
	program *tea.Program
}

// NewBridge creates a bridge feeding the given program.
func NewBridge(program *tea.Program) *Bridge {
	return &Bridge{program: program}
}

// OnEvent implements game.Subscriber.
func (b *Bridge) OnEvent(event game.Event) {
	switch e := event.(type) {
	case game.ParticipantUpdateEvent:
		b.program.Send(seatMsg{seat: snapshotSeat(e.Participant)})
	case game.TurnChangeEvent:
		b.program.Send(seatMsg{seat: snapshotSeat(e.Participant)})
	case game.StateChangeEvent:
		b.program.Send(stateMsg{Label: e.Status, Round: e.Round, Pot: e.Pot})
	case game.ActivityLogEvent:
		b.program.Send(logMsg{line: e.Message})
	case game.GameOverEvent:
		b.program.Send(gameOverMsg{Winners: e.Winners, Losers: e.Losers, Reason: e.Reason})
	case game.DeckUpdateEvent:
		b.program.Send(deckMsg{remaining: e.Remaining})
	}
}

func snapshotSeat(p *game.Participant) seatView {
	cards := make([]deck.Card, len(p.Hand))
	copy(cards, p.Hand)
	return seatView{
		ID:         p.ID,
		Name:       p.Name,
		Dealer:     p.IsDealer,
		Automated:  p.Automated,
		Bank:       p.Bank,
		TotalBet:   p.TotalBet,
		Status:     string(p.Status),
		TurnActive: p.TurnActive,
		Finished:   p.Finished,
		Cards:      cards,
		Best:       game.Evaluate(p.Hand).Best,
	}
}

func formatCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return "--"
	}
	out := ""
	for i, c := range cards {
		if i > 0 {
			out += " "
		}
		if c.IsRed() {
			out += redCardStyle.Render(c.String())
		} else {
			out += blackCardStyle.Render(c.String())
		}
	}
	return out
}

func formatSeat(s seatView, hideHole bool) string {
	name := s.Name
	if s.TurnActive {
		name = activeStyle.Render("▶ " + name)
	}

	cards := formatCards(s.Cards)
	value := fmt.Sprintf("(%d)", s.Best)
	if hideHole && len(s.Cards) == 2 {
		cards = formatCards(s.Cards[:1]) + " ??"
		value = ""
	}

	line := fmt.Sprintf("%s  %s %s", name, cards, value)
	if !s.Dealer {
		line += fmt.Sprintf("  bank %d  bet %d", s.Bank, s.TotalBet)
	}
	if style, ok := statusStyles[s.Status]; ok {
		line += "  " + style.Render(s.Status)
	}
	return line
}

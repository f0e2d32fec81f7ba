// Package tui is a terminal table client. It renders engine state from bus
// events and issues actions (start, hit, stand, double) for one human seat.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/cardroom/blackjack/internal/game"
)

// Model is the bubbletea model for the blackjack table.
type Model struct {
	engine *game.Engine
	logger *log.Logger
	youID  string

	logViewport viewport.Model
	gameLog     []string

	seats     map[string]seatView
	seatOrder []string
	dealer    seatView

	label     string
	round     int
	pot       int
	remaining int

	width       int
	height      int
	initialized bool
	quitting    bool
}

// NewModel creates a TUI model playing as the participant with youID.
func NewModel(engine *game.Engine, youID string, logger *log.Logger) *Model {
	vp := viewport.New(40, 8)
	vp.SetContent("")

	return &Model{
		engine:      engine,
		logger:      logger.WithPrefix("tui"),
		youID:       youID,
		logViewport: vp,
		seats:       make(map[string]seatView),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logViewport.Width = msg.Width - 4
		m.logViewport.Height = max(4, msg.Height-16)
		m.initialized = true

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "n":
			m.engine.Start()
		case "h":
			m.engine.Hit(m.youID)
		case "s":
			m.engine.Stand(m.youID)
		case "d":
			m.engine.DoubleDown(m.youID)
		}

	case seatMsg:
		m.applySeat(msg.seat)

	case stateMsg:
		m.label = msg.Label
		m.round = msg.Round
		m.pot = msg.Pot

	case deckMsg:
		m.remaining = msg.remaining

	case logMsg:
		m.appendLog(msg.line)

	case gameOverMsg:
		m.appendLog(fmt.Sprintf("round over (%s): winners %s, losers %s",
			msg.Reason, orNone(msg.Winners), orNone(msg.Losers)))
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

func (m *Model) applySeat(seat seatView) {
	if seat.Dealer {
		m.dealer = seat
		return
	}
	if _, known := m.seats[seat.ID]; !known {
		m.seatOrder = append(m.seatOrder, seat.ID)
	}
	m.seats[seat.ID] = seat
}

func (m *Model) appendLog(line string) {
	m.gameLog = append(m.gameLog, line)
	if len(m.gameLog) > 200 {
		m.gameLog = m.gameLog[len(m.gameLog)-200:]
	}
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.GotoBottom()
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return "Thanks for playing.\n"
	}
	if !m.initialized {
		return "Setting up the table..."
	}

	var b strings.Builder

	header := titleStyle.Render("BLACKJACK") +
		fmt.Sprintf("  round %d  pot %d  shoe %d  %s", m.round, m.pot, m.remaining, m.label)
	b.WriteString(header + "\n\n")

	// Dealer's hole card stays hidden until the round settles.
	hideHole := m.label != game.LabelHumanWins &&
		m.label != game.LabelDealerWins &&
		m.label != game.LabelPush &&
		!m.dealer.TurnActive

	var table strings.Builder
	table.WriteString(formatSeat(m.dealer, hideHole) + "\n")
	for _, id := range m.seatOrder {
		table.WriteString(formatSeat(m.seats[id], false) + "\n")
	}
	b.WriteString(tableStyle.Render(strings.TrimRight(table.String(), "\n")) + "\n\n")

	b.WriteString(logTitleStyle.Render("Activity") + "\n")
	b.WriteString(m.logViewport.View() + "\n")
	b.WriteString(helpStyle.Render("n: new round  h: hit  s: stand  d: double  q: quit"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func orNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

package game

import (
	"fmt"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardroom/blackjack/internal/deck"
	"github.com/cardroom/blackjack/internal/randutil"
	"github.com/cardroom/blackjack/internal/roundid"
)

// State is the engine's lifecycle state. Display labels are layered on top
// of it for UI purposes only; they never gate engine logic.
type State int

const (
	StateInit State = iota
	StateInProgress
	StateGameOver
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateInProgress:
		return "InProgress"
	case StateGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// UI-visible sub-labels carried in state-change events.
const (
	LabelBetting    = "Betting"
	LabelDealing    = "Dealing"
	LabelNextTurn   = "NextTurn"
	LabelHumanWins  = "HumanWins"
	LabelDealerWins = "DealerWins"
	LabelPush       = "Push"
)

const defaultAutoDelay = 400 * time.Millisecond

// Engine orchestrates deal, turn loop and settlement for a blackjack table.
// All mutation happens under the engine mutex; automated decisions are the
// only deferred work and re-validate round identity before acting.
type Engine struct {
	mu sync.Mutex

	shoe     *deck.Shoe
	players  []*Participant
	dealer   *Participant
	director *TurnDirector
	ledger   *Ledger
	bus      Bus
	logger   *log.Logger
	clock    quartz.Clock
	rng      *rand.Rand

	state      State
	label      string
	round      int
	roundID    string
	settled    bool
	autoDelay  time.Duration
	ante       int
	strategies map[string]Strategy
	pending    *quartz.Timer
	stacked    []deck.Card
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock injects the clock used to pace automated decisions. Tests pass
// a *quartz.Mock to drive deferred turns deterministically.
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithAutoDelay sets the pacing delay before an automated participant acts.
func WithAutoDelay(d time.Duration) Option {
	return func(e *Engine) { e.autoDelay = d }
}

// WithRNG injects the RNG used for the shoe shuffle.
func WithRNG(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithAnte sets the per-round minimum wager.
func WithAnte(ante int) Option {
	return func(e *Engine) { e.ante = ante }
}

// WithStackedShoe makes every round deal from the given card order instead
// of a shuffled deck. For deterministic tests.
func WithStackedShoe(cards ...deck.Card) Option {
	return func(e *Engine) { e.stacked = cards }
}

// WithDealer replaces the default house participant and strategy.
func WithDealer(name string, bank int, strat Strategy) Option {
	return func(e *Engine) {
		e.dealer = NewParticipant(name, bank, true)
		e.dealer.IsDealer = true
		e.strategies[e.dealer.ID] = strat
	}
}

// NewEngine creates an engine publishing on the given bus. The bus and
// logger are injected by reference so observers and tests hold isolated
// instances.
func NewEngine(bus Bus, logger *log.Logger, opts ...Option) *Engine {
	e := &Engine{
		bus:        bus,
		logger:     logger.WithPrefix("engine"),
		clock:      quartz.NewReal(),
		autoDelay:  defaultAutoDelay,
		ante:       10,
		strategies: make(map[string]Strategy),
	}
	e.director = NewTurnDirector(bus, logger)
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = randutil.NewFromTime()
	}
	if e.dealer == nil {
		e.dealer = NewParticipant("Dealer", 1_000_000, true)
		e.dealer.IsDealer = true
		e.strategies[e.dealer.ID] = DealerStrategy{}
	}
	e.shoe = deck.NewShoe(e.rng)
	e.ledger = NewLedger(e.ante, bus, logger)
	return e
}

// Bus returns the event bus observers subscribe to.
func (e *Engine) Bus() Bus {
	return e.bus
}

// AddParticipant seats a human participant. Fails between deal and
// settlement: membership is fixed once play begins.
func (e *Engine) AddParticipant(name string, bank int) (*Participant, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateInProgress {
		e.logger.Debug("cannot add participant mid-round", "name", name)
		return nil, false
	}
	p := NewParticipant(name, bank, false)
	e.players = append(e.players, p)
	e.bus.Publish(NewParticipantUpdateEvent(p, "joined"))
	e.bus.Publish(NewActivityLogEvent(fmt.Sprintf("%s joins the table with %d", name, bank), p.ID))
	return p, true
}

// AddAutomated seats an automated participant with a decision strategy.
func (e *Engine) AddAutomated(name string, bank int, strat Strategy) (*Participant, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateInProgress {
		return nil, false
	}
	p := NewParticipant(name, bank, true)
	e.players = append(e.players, p)
	e.strategies[p.ID] = strat
	e.bus.Publish(NewParticipantUpdateEvent(p, "joined"))
	e.bus.Publish(NewActivityLogEvent(fmt.Sprintf("%s (%s) joins the table with %d", name, strat.Name(), bank), p.ID))
	return p, true
}

// RemoveParticipant unseats a participant between rounds.
func (e *Engine) RemoveParticipant(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateInProgress {
		return false
	}
	for i, p := range e.players {
		if p.ID == id {
			e.players = append(e.players[:i], e.players[i+1:]...)
			delete(e.strategies, id)
			e.bus.Publish(NewActivityLogEvent(fmt.Sprintf("%s leaves the table", p.Name), p.ID))
			return true
		}
	}
	return false
}

// RestoreParticipants seats participants from persisted snapshots.
func (e *Engine) RestoreParticipants(snapshots []Snapshot, strat Strategy) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateInProgress {
		return
	}
	for _, s := range snapshots {
		p := FromSnapshot(s)
		e.players = append(e.players, p)
		if p.Automated {
			e.strategies[p.ID] = strat
		}
		e.bus.Publish(NewParticipantUpdateEvent(p, "joined"))
	}
}

// Participants returns the seated players in registration order, excluding
// the dealer.
func (e *Engine) Participants() []*Participant {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Participant, len(e.players))
	copy(out, e.players)
	return out
}

// Dealer returns the house participant.
func (e *Engine) Dealer() *Participant {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dealer
}

// State returns the engine lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Label returns the current display sub-label.
func (e *Engine) Label() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.label
}

// Round returns the round counter.
func (e *Engine) Round() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.round
}

// Pot returns the current pot.
func (e *Engine) Pot() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Pot()
}

// TableState is a point-in-time copy of the roster and round state.
type TableState struct {
	Players []Participant
	Dealer  Participant
	Label   string
	Round   int
	Pot     int
}

// TableState snapshots the table under the engine mutex. Bus events carry
// live participant pointers that are only safe to read inside the
// synchronous callback; readers on other goroutines use this instead.
func (e *Engine) TableState() TableState {
	e.mu.Lock()
	defer e.mu.Unlock()
	players := make([]Participant, len(e.players))
	for i, p := range e.players {
		players[i] = p.View()
	}
	return TableState{
		Players: players,
		Dealer:  e.dealer.View(),
		Label:   e.label,
		Round:   e.round,
		Pot:     e.ledger.Pot(),
	}
}

// Start begins a new round: resets shoe, turns and ledger, collects antes,
// deals two cards to everyone in turn order and starts the first turn.
func (e *Engine) Start() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateInProgress {
		e.logger.Debug("start rejected, round in progress")
		return false
	}
	if len(e.players) == 0 {
		e.logger.Debug("start rejected, no participants")
		return false
	}

	e.stopPending()
	e.round++
	e.roundID = roundid.New()
	e.settled = false
	e.state = StateInProgress
	e.logger.Info("round starting", "round", e.round, "roundID", e.roundID, "participants", len(e.players))

	order := make([]*Participant, 0, len(e.players)+1)
	order = append(order, e.players...)
	order = append(order, e.dealer)
	for _, p := range order {
		p.ResetForRound()
	}

	if e.stacked != nil {
		e.shoe.Load(e.stacked)
	} else {
		e.shoe.Reset()
	}
	e.bus.Publish(NewDeckUpdateEvent(e.shoe.Remaining(), "reset"))
	e.director.ResetForRound(order)
	e.ledger.ResetForRound()

	e.label = LabelBetting
	e.bus.Publish(NewStateChangeEvent(e.label, e.round, e.ledger.Pot()))
	e.ledger.CollectAntes(e.players)

	e.label = LabelDealing
	e.dealInitial(order)
	e.flagBlackjacks(order)

	e.label = LabelNextTurn
	e.bus.Publish(NewStateChangeEvent(e.label, e.round, e.ledger.Pot()))

	first := e.director.FirstTurn()
	if first == nil {
		e.settle()
		return true
	}
	if first.Automated {
		e.scheduleAutomated(first)
	}
	return true
}

func (e *Engine) dealInitial(order []*Participant) {
	for range 2 {
		for _, p := range order {
			card, ok := e.shoe.Draw()
			if !ok {
				e.logger.Warn("shoe exhausted during deal", "participant", p.Name)
				return
			}
			p.AddCard(card)
			e.bus.Publish(NewDeckUpdateEvent(e.shoe.Remaining(), "draw"))
			e.bus.Publish(NewParticipantUpdateEvent(p, "hand"))
		}
	}
}

func (e *Engine) flagBlackjacks(order []*Participant) {
	for _, p := range order {
		if Evaluate(p.Hand).IsBlackjack {
			p.RecordBlackjack()
			p.Finished = true
			e.bus.Publish(NewParticipantUpdateEvent(p, "status"))
			e.bus.Publish(NewActivityLogEvent(fmt.Sprintf("%s has blackjack", p.Name), p.ID))
		}
	}
}

// Hit draws one card for the participant. Rejected (false) if the
// participant is unknown, finished, not on turn, or the engine is not
// mid-round. Shoe exhaustion is a logged no-op leaving the hand unchanged.
func (e *Engine) Hit(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hit(id)
}

func (e *Engine) hit(id string) bool {
	p := e.guard(id)
	if p == nil {
		return false
	}

	card, ok := e.shoe.Draw()
	if !ok {
		e.logger.Warn("shoe exhausted, hit ignored", "participant", p.Name)
		e.bus.Publish(NewActivityLogEvent("shoe exhausted, hand unchanged", p.ID))
		return false
	}
	p.AddCard(card)
	p.LastAction = ActionHit
	e.bus.Publish(NewDeckUpdateEvent(e.shoe.Remaining(), "draw"))
	e.bus.Publish(NewParticipantUpdateEvent(p, "hand"))
	e.bus.Publish(NewActivityLogEvent(fmt.Sprintf("%s hits and draws %s", p.Name, card), p.ID))

	hv := Evaluate(p.Hand)
	if hv.IsBusted {
		p.RecordBust()
		e.bus.Publish(NewParticipantUpdateEvent(p, "status"))
		e.bus.Publish(NewActivityLogEvent(fmt.Sprintf("%s busts with %d", p.Name, hv.Best), p.ID))
		e.advanceTurn()
		return true
	}
	if hv.Best == 21 {
		return e.stand(id)
	}
	return true
}

// Stand ends the participant's turn. Same guard as Hit.
func (e *Engine) Stand(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stand(id)
}

func (e *Engine) stand(id string) bool {
	p := e.guard(id)
	if p == nil {
		return false
	}
	p.Finished = true
	p.LastAction = ActionStand
	hv := Evaluate(p.Hand)
	e.bus.Publish(NewParticipantUpdateEvent(p, "status"))
	e.bus.Publish(NewActivityLogEvent(fmt.Sprintf("%s stands on %d", p.Name, hv.Best), p.ID))
	e.advanceTurn()
	return true
}

// DoubleDown doubles the wager, draws exactly one card and ends the turn
// regardless of outcome. Requires a two-card hand and an affordable double.
func (e *Engine) DoubleDown(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doubleDown(id)
}

func (e *Engine) doubleDown(id string) bool {
	p := e.guard(id)
	if p == nil {
		return false
	}
	if len(p.Hand) != 2 {
		e.logger.Debug("double rejected, hand size", "participant", p.Name, "cards", len(p.Hand))
		return false
	}
	if !e.ledger.DoubleBet(p) {
		return false
	}

	card, ok := e.shoe.Draw()
	if ok {
		p.AddCard(card)
		e.bus.Publish(NewDeckUpdateEvent(e.shoe.Remaining(), "draw"))
		e.bus.Publish(NewParticipantUpdateEvent(p, "hand"))
		e.bus.Publish(NewActivityLogEvent(fmt.Sprintf("%s doubles and draws %s", p.Name, card), p.ID))
	} else {
		e.logger.Warn("shoe exhausted on double, hand unchanged", "participant", p.Name)
	}

	hv := Evaluate(p.Hand)
	if hv.IsBusted {
		p.RecordBust()
		e.bus.Publish(NewActivityLogEvent(fmt.Sprintf("%s busts with %d", p.Name, hv.Best), p.ID))
	} else {
		p.Finished = true
	}
	e.bus.Publish(NewParticipantUpdateEvent(p, "status"))
	e.advanceTurn()
	return true
}

// PlaceBet routes a wager through the ledger. Defense in depth: the UI is
// expected to disable betting out of turn, but the engine tolerates it.
func (e *Engine) PlaceBet(id string, amount int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateInProgress {
		return false
	}
	p := e.find(id)
	if p == nil || p.Finished {
		return false
	}
	return e.ledger.PlaceBet(p, amount)
}

// guard validates the common action preconditions: participant exists, the
// round is in progress, the participant has not finished and owns the turn.
// Deferred callbacks rely on these checks because the state they captured
// may be stale by the time they fire.
func (e *Engine) guard(id string) *Participant {
	if e.state != StateInProgress {
		e.logger.Debug("action rejected, not in progress", "id", id)
		return nil
	}
	p := e.find(id)
	if p == nil {
		e.logger.Debug("action rejected, unknown participant", "id", id)
		return nil
	}
	if p.Finished {
		e.logger.Debug("action rejected, participant finished", "participant", p.Name)
		return nil
	}
	if !p.TurnActive {
		e.logger.Debug("action rejected, not participant's turn", "participant", p.Name)
		return nil
	}
	return p
}

func (e *Engine) find(id string) *Participant {
	if e.dealer.ID == id {
		return e.dealer
	}
	for _, p := range e.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (e *Engine) advanceTurn() {
	next := e.director.AdvanceToNextActive()
	if next == nil {
		e.settle()
		return
	}
	e.director.StartTurn()
	if next.Automated {
		e.scheduleAutomated(next)
	}
}

// scheduleAutomated defers an automated participant's decision by the
// pacing delay. The callback re-checks round identity, engine state and the
// participant's flags before acting: the round may have ended or the turn
// moved on while the timer was pending.
func (e *Engine) scheduleAutomated(p *Participant) {
	captured := e.roundID
	e.pending = e.clock.AfterFunc(e.autoDelay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.roundID != captured || e.state != StateInProgress {
			return
		}
		if p.Finished || !p.TurnActive {
			return
		}
		e.runAutomated(p)
	})
}

func (e *Engine) runAutomated(p *Participant) {
	strat, ok := e.strategies[p.ID]
	if !ok {
		strat = DealerStrategy{}
	}
	action := strat.Decide(p.Hand, e.dealerUpCard())
	e.logger.Debug("automated decision", "participant", p.Name, "strategy", strat.Name(), "action", action)

	switch action {
	case ActionDouble:
		if !e.doubleDown(p.ID) {
			e.hit(p.ID)
		}
	case ActionStand:
		e.stand(p.ID)
	default:
		e.hit(p.ID)
	}

	// A hit that neither busts nor reaches 21 leaves the turn with the
	// automated participant; pace the next decision as well.
	if e.state == StateInProgress && !p.Finished && p.TurnActive {
		e.scheduleAutomated(p)
	}
}

func (e *Engine) dealerUpCard() deck.Card {
	if len(e.dealer.Hand) > 0 {
		return e.dealer.Hand[0]
	}
	return deck.Card{}
}

func (e *Engine) stopPending() {
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
}

// settle compares every player against the dealer and distributes winnings.
// It runs exactly once per round.
func (e *Engine) settle() {
	if e.settled {
		return
	}
	e.settled = true
	e.stopPending()

	dealerHV := Evaluate(e.dealer.Hand)
	var winners, losers []string
	pushes := 0

	for _, p := range e.players {
		phv := Evaluate(p.Hand)
		switch {
		case phv.IsBusted:
			p.RecordLoss()
			losers = append(losers, p.Name)
			e.bus.Publish(NewActivityLogEvent(fmt.Sprintf("%s busted and loses %d", p.Name, p.TotalBet), p.ID))

		case dealerHV.IsBlackjack && !phv.IsBlackjack:
			p.RecordLoss()
			losers = append(losers, p.Name)
			e.bus.Publish(NewActivityLogEvent(fmt.Sprintf("dealer blackjack beats %s", p.Name), p.ID))

		case phv.IsBlackjack && !dealerHV.IsBlackjack:
			payout := p.TotalBet * 5 / 2
			e.ledger.Payout(p, payout)
			p.RecordWin()
			winners = append(winners, p.Name)
			e.bus.Publish(NewActivityLogEvent(fmt.Sprintf("%s wins %d with blackjack", p.Name, payout), p.ID))

		case dealerHV.IsBusted:
			payout := p.TotalBet * 2
			e.ledger.Payout(p, payout)
			p.RecordWin()
			winners = append(winners, p.Name)
			e.bus.Publish(NewActivityLogEvent(fmt.Sprintf("dealer busts, %s wins %d", p.Name, payout), p.ID))

		case phv.Best > dealerHV.Best:
			payout := p.TotalBet * 2
			e.ledger.Payout(p, payout)
			p.RecordWin()
			winners = append(winners, p.Name)
			e.bus.Publish(NewActivityLogEvent(fmt.Sprintf("%s beats dealer %d to %d and wins %d", p.Name, phv.Best, dealerHV.Best, payout), p.ID))

		case phv.Best < dealerHV.Best:
			p.RecordLoss()
			losers = append(losers, p.Name)
			e.bus.Publish(NewActivityLogEvent(fmt.Sprintf("dealer %d beats %s's %d", dealerHV.Best, p.Name, phv.Best), p.ID))

		default:
			e.ledger.ReturnBet(p)
			pushes++
			e.bus.Publish(NewActivityLogEvent(fmt.Sprintf("%s pushes on %d", p.Name, phv.Best), p.ID))
		}
		e.bus.Publish(NewParticipantUpdateEvent(p, "status", "bank"))
	}

	// After payouts and refunds whatever remains in the pot is forfeited
	// wagers. The house sweeps it so settlement always reports an empty
	// pot and no money leaves the economy untracked.
	e.ledger.AwardPot([]*Participant{e.dealer})

	switch {
	case len(winners) > 0:
		e.label = LabelHumanWins
	case pushes > 0 && len(losers) == 0:
		e.label = LabelPush
	default:
		e.label = LabelDealerWins
	}
	e.state = StateGameOver

	reason := "showdown"
	if dealerHV.IsBusted {
		reason = "dealer busts"
	} else if dealerHV.IsBlackjack {
		reason = "dealer blackjack"
	}

	e.logger.Info("round settled", "round", e.round, "label", e.label, "winners", len(winners), "losers", len(losers), "pushes", pushes)
	e.bus.Publish(NewStateChangeEvent(e.label, e.round, e.ledger.Pot()))
	e.bus.Publish(NewGameOverEvent(winners, losers, reason))
}

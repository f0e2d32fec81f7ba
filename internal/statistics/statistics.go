// Package statistics aggregates per-participant results across rounds of a
// session: outcomes, net bank movement and streaks.
package statistics

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Outcome is the settled result of one round for one participant.
type Outcome string

const (
	OutcomeWin       Outcome = "win"
	OutcomeLoss      Outcome = "loss"
	OutcomePush      Outcome = "push"
	OutcomeBust      Outcome = "bust"
	OutcomeBlackjack Outcome = "blackjack"
)

// RoundResult is one participant's line for one settled round.
type RoundResult struct {
	ParticipantID string
	Name          string
	Outcome       Outcome
	Net           int // Bank delta for the round, negative on a loss
}

// Line accumulates a participant's session results.
type Line struct {
	Name          string
	Rounds        int
	Wins          int
	Losses        int
	Pushes        int
	Busts         int
	Blackjacks    int
	Net           int
	CurrentStreak int // Positive counts consecutive wins, negative losses
	BestStreak    int
	WorstStreak   int
}

// Tracker accumulates session statistics across rounds.
type Tracker struct {
	lines   map[string]*Line
	rounds  int
	sumNet  float64
	sumNet2 float64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{lines: make(map[string]*Line)}
}

// Record incorporates one participant's round result.
func (t *Tracker) Record(r RoundResult) {
	line, ok := t.lines[r.ParticipantID]
	if !ok {
		line = &Line{Name: r.Name}
		t.lines[r.ParticipantID] = line
	}
	line.Rounds++
	line.Net += r.Net
	t.sumNet += float64(r.Net)
	t.sumNet2 += float64(r.Net) * float64(r.Net)

	switch r.Outcome {
	case OutcomeWin, OutcomeBlackjack:
		if r.Outcome == OutcomeBlackjack {
			line.Blackjacks++
		}
		line.Wins++
		if line.CurrentStreak < 0 {
			line.CurrentStreak = 0
		}
		line.CurrentStreak++
		if line.CurrentStreak > line.BestStreak {
			line.BestStreak = line.CurrentStreak
		}
	case OutcomeLoss, OutcomeBust:
		if r.Outcome == OutcomeBust {
			line.Busts++
		}
		line.Losses++
		if line.CurrentStreak > 0 {
			line.CurrentStreak = 0
		}
		line.CurrentStreak--
		if line.CurrentStreak < line.WorstStreak {
			line.WorstStreak = line.CurrentStreak
		}
	case OutcomePush:
		line.Pushes++
	}
}

// CompleteRound bumps the session round counter.
func (t *Tracker) CompleteRound() {
	t.rounds++
}

// Rounds returns the number of settled rounds observed.
func (t *Tracker) Rounds() int {
	return t.rounds
}

// Line returns a copy of the participant's session line.
func (t *Tracker) Line(participantID string) (Line, bool) {
	line, ok := t.lines[participantID]
	if !ok {
		return Line{}, false
	}
	return *line, true
}

// results returns the number of participant-round results recorded.
func (t *Tracker) results() int {
	n := 0
	for _, line := range t.lines {
		n += line.Rounds
	}
	return n
}

// MeanNet returns the arithmetic mean net per participant-round.
func (t *Tracker) MeanNet() float64 {
	n := t.results()
	if n == 0 {
		return 0
	}
	return t.sumNet / float64(n)
}

// StdDevNet returns the sample standard deviation of per-round nets.
func (t *Tracker) StdDevNet() float64 {
	n := t.results()
	if n < 2 {
		return 0
	}
	mean := t.MeanNet()
	variance := (t.sumNet2 - float64(n)*mean*mean) / float64(n-1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// Summary renders a sorted per-participant session table.
func (t *Tracker) Summary() string {
	ids := make([]string, 0, len(t.lines))
	for id := range t.lines {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return t.lines[ids[i]].Name < t.lines[ids[j]].Name
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Session: %d rounds\n", t.rounds)
	for _, id := range ids {
		l := t.lines[id]
		fmt.Fprintf(&b, "%s: %dW-%dL-%dP (%d busts, %d blackjacks) net %+d, best streak %d\n",
			l.Name, l.Wins, l.Losses, l.Pushes, l.Busts, l.Blackjacks, l.Net, l.BestStreak)
	}
	return b.String()
}

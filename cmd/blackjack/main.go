// Command blackjack plays an interactive round at a local table against the
// automated dealer, with optional automated seatmates.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/cardroom/blackjack/internal/game"
	"github.com/cardroom/blackjack/internal/randutil"
	"github.com/cardroom/blackjack/internal/tui"
)

type CLI struct {
	Name  string   `help:"Your name at the table" default:"You"`
	Bank  int      `help:"Starting bank" default:"100"`
	Ante  int      `help:"Per-round ante" default:"10"`
	Seed  int64    `help:"RNG seed (0 uses the clock)" default:"0"`
	Bots  []string `help:"Automated seatmates by strategy (dealer, soft17, conservative, aggressive, upcard)"`
	Delay int      `help:"Automated decision delay in milliseconds" default:"400"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Play blackjack in the terminal"),
		kong.UsageOnError(),
	)
	err := run(cli)
	ctx.FatalIfErrorf(err)
}

func run(cli CLI) error {
	// The terminal owns stdout; keep engine logs in a file.
	logFile, err := os.OpenFile("blackjack.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	logger := log.NewWithOptions(logFile, log.Options{ReportTimestamp: true})

	bus := game.NewBus()
	opts := []game.Option{
		game.WithAnte(cli.Ante),
		game.WithAutoDelay(time.Duration(cli.Delay) * time.Millisecond),
	}
	if cli.Seed != 0 {
		opts = append(opts, game.WithRNG(randutil.New(cli.Seed)))
	}
	engine := game.NewEngine(bus, logger, opts...)

	you, ok := engine.AddParticipant(cli.Name, cli.Bank)
	if !ok {
		return fmt.Errorf("failed to seat %q", cli.Name)
	}
	for i, name := range cli.Bots {
		strat, err := game.ParseStrategy(name)
		if err != nil {
			return err
		}
		engine.AddAutomated(fmt.Sprintf("%s-%d", strat.Name(), i+1), cli.Bank, strat)
	}

	model := tui.NewModel(engine, you.ID, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	bus.Subscribe(tui.NewBridge(program))

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}

// Command blackjackd runs the blackjack table daemon: the round engine, the
// sqlite persistence collaborator and the websocket bridge UI clients
// connect to.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/cardroom/blackjack/internal/game"
	"github.com/cardroom/blackjack/internal/randutil"
	"github.com/cardroom/blackjack/internal/server"
	"github.com/cardroom/blackjack/internal/statistics"
	"github.com/cardroom/blackjack/internal/store"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Config  string           `short:"c" help:"Path to HCL config file" default:"blackjackd.hcl"`
	Debug   bool             `help:"Enable debug logging"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjackd"),
		kong.Description("Blackjack table daemon with a websocket UI bridge"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	err := run(cli)
	ctx.FatalIfErrorf(err)
}

func run(cli CLI) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if cli.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := server.LoadConfig(cli.Config)
	if err != nil {
		return err
	}
	if !cli.Debug {
		if level, err := log.ParseLevel(cfg.Server.LogLevel); err == nil {
			logger.SetLevel(level)
		}
	}

	db, err := store.Open(cfg.Server.DBPath, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	bus := game.NewBus()
	opts := []game.Option{
		game.WithAnte(cfg.Table.Ante),
		game.WithAutoDelay(time.Duration(cfg.Table.AutoDelayMS) * time.Millisecond),
		game.WithDealer("Dealer", cfg.Table.DealerBank, game.DealerStrategy{}),
	}
	if cfg.Table.Seed != 0 {
		opts = append(opts, game.WithRNG(randutil.New(cfg.Table.Seed)))
	}
	engine := game.NewEngine(bus, logger, opts...)

	// Returning participants first, then configured seats not yet known.
	restored := db.LoadParticipants()
	engine.RestoreParticipants(restored, game.DealerStrategy{})
	known := make(map[string]bool, len(restored))
	for _, snap := range restored {
		known[snap.Name] = true
	}
	for _, seat := range cfg.Seats {
		if known[seat.Name] {
			continue
		}
		if err := seatParticipant(engine, seat); err != nil {
			return err
		}
	}

	bus.Subscribe(store.NewRecorder(db))
	tracker := statistics.NewTracker()
	bus.Subscribe(statistics.NewObserver(tracker))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	srv := server.New(engine, addr, logger)

	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("blackjackd starting", "version", version, "addr", addr, "participants", len(engine.Participants()))
	err = srv.Run(runCtx)

	if tracker.Rounds() > 0 {
		fmt.Fprint(os.Stderr, tracker.Summary())
	}
	return err
}

func seatParticipant(engine *game.Engine, seat server.SeatConfig) error {
	bank := seat.Bank
	if bank == 0 {
		bank = 100
	}
	if !seat.Automated {
		if _, ok := engine.AddParticipant(seat.Name, bank); !ok {
			return fmt.Errorf("failed to seat %q", seat.Name)
		}
		return nil
	}
	strat, err := game.ParseStrategy(seat.Strategy)
	if err != nil {
		return fmt.Errorf("seat %q: %w", seat.Name, err)
	}
	if _, ok := engine.AddAutomated(seat.Name, bank, strat); !ok {
		return fmt.Errorf("failed to seat %q", seat.Name)
	}
	return nil
}

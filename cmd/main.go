package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Dosada05/rps-country-cup/brackets"
	"github.com/Dosada05/rps-country-cup/config"
	"github.com/Dosada05/rps-country-cup/services"
	"github.com/urfave/cli/v2"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cliApp := &cli.App{
		Name:  "rpscup",
		Usage: "rock paper scissors world cup between countries",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "env-file", Usage: "env files to load before reading the environment"},
			&cli.StringFlag{Name: "strategy", Usage: "pairing strategy, ordered or random (overrides PAIRING_STRATEGY)"},
			&cli.Uint64Flag{Name: "seed", Usage: "seed for pairing and moves, 0 for unpredictable (overrides RANDOM_SEED)"},
		},
		Action: withApp(runAdvance),
		Commands: []*cli.Command{
			{
				Name:   "advance",
				Usage:  "play exactly one match or bye",
				Action: withApp(runAdvance),
			},
			{
				Name:   "round",
				Usage:  "play until the current round rolls over",
				Action: withApp(runRound),
			},
			{
				Name:  "run",
				Usage: "play until a champion is crowned",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "max-steps", Value: 0, Usage: "stop after this many steps, 0 for no limit"},
				},
				Action: withApp(runToCompletion),
			},
			{
				Name:   "reset",
				Usage:  "start a new tournament from the full catalog",
				Action: withApp(runReset),
			},
			{
				Name:   "history",
				Usage:  "print completed tournaments as JSON",
				Action: withApp(runHistory),
			},
			{
				Name:   "serve",
				Usage:  "run the scheduler and the HTTP API",
				Action: withApp(runServe),
			},
			{
				Name:   "scrape",
				Usage:  "rebuild the country catalog and flag images",
				Action: withApp(runScrape),
			},
			{
				Name:      "hash-password",
				Usage:     "print a bcrypt hash for ADMIN_PASSWORD_HASH",
				ArgsUsage: "<password>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("expected exactly one password argument", 2)
					}
					hash, err := services.HashPassword(c.Args().First())
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, hash)
					return nil
				},
			},
		},
	}

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		logger.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

type appAction func(c *cli.Context, a *app) error

// withApp loads configuration, applies the global flag overrides and wires the
// application before running the action.
func withApp(action appAction) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load(c.StringSlice("env-file")...)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if c.IsSet("strategy") {
			cfg.PairingStrategy = c.String("strategy")
		}
		if c.IsSet("seed") {
			cfg.RandomSeed = c.Uint64("seed")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		level, _ := config.ParseLogLevel(cfg.LogLevel)
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		a, err := newApp(c.Context, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()
		return action(c, a)
	}
}

func runAdvance(c *cli.Context, a *app) error {
	report, err := a.tournament.Advance(c.Context)
	if err != nil {
		return err
	}
	logReport(a.logger, report)
	return nil
}

func runRound(c *cli.Context, a *app) error {
	reports, err := a.tournament.PlayRound(c.Context)
	for _, r := range reports {
		logReport(a.logger, r)
	}
	return err
}

func runToCompletion(c *cli.Context, a *app) error {
	report, steps, err := a.tournament.RunToCompletion(c.Context, c.Int("max-steps"))
	if err != nil {
		return err
	}
	if report == nil {
		a.logger.Info("stopped before a champion was crowned", slog.Int("steps", steps))
		return nil
	}
	logReport(a.logger, *report)
	a.logger.Info("tournament finished", slog.Int("steps", steps))
	return nil
}

func runReset(c *cli.Context, a *app) error {
	state, err := a.tournament.Reset(c.Context)
	if err != nil {
		return err
	}
	a.logger.Info("new tournament started", slog.Int("countries", state.TotalEntities))
	return nil
}

func runHistory(c *cli.Context, a *app) error {
	records, err := a.tournament.History(c.Context)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "    ")
	return enc.Encode(records)
}

func runScrape(c *cli.Context, a *app) error {
	countries, err := a.scraper().Run(c.Context)
	if err != nil {
		return err
	}
	a.logger.Info("catalog rebuilt", slog.Int("countries", len(countries)))
	return nil
}

func logReport(logger *slog.Logger, r services.StepReport) {
	attrs := []any{
		slog.String("kind", r.Kind.String()),
		slog.Int("round", r.State.Round),
		slog.Int("in_bracket", r.State.InBracket()),
		slog.Bool("recovered", r.Recovered),
	}
	switch r.Kind {
	case brackets.StepBye:
		attrs = append(attrs, slog.String("bye", r.Bye.Name))
	case brackets.StepMatch:
		attrs = append(attrs,
			slog.String("a", r.Match.A.Name),
			slog.String("b", r.Match.B.Name),
			slog.String("outcome", r.Match.Outcome.String()))
	}
	if r.RolledOver {
		attrs = append(attrs, slog.Bool("rolled_over", true))
	}
	if r.Champion != nil {
		attrs = append(attrs, slog.String("champion", r.Champion.Name), slog.Bool("reset", r.Reset))
	}
	logger.Info("step played", attrs...)
}

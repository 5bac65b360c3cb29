package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	app "github.com/okian/pitchside/internal/app"
	"github.com/okian/pitchside/internal/config"
	"github.com/okian/pitchside/internal/roster"
	"github.com/okian/pitchside/pkg/logger"
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Get().Error(ctx, "team generation failed", logger.Error(err))
		os.Exit(1)
	}
}

// run splits a roster file into two teams and prints the summary to out.
func run(ctx context.Context, args []string, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("teamgen", flag.ContinueOnError)
	fs.SetOutput(out)
	var (
		rosterFile = fs.String("roster", cfg.RosterFile, "YAML roster file")
		strategy   = fs.String("strategy", "", "auto, greedy or exact (default: roster file, then auto)")
		players    = fs.String("players", "", "comma-separated ids or names of attending players (default: everyone)")
		goal       = fs.Float64("goal", cfg.GoalFactor, "goal factor")
		assist     = fs.Float64("assist", cfg.AssistFactor, "assist factor")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	r, err := roster.Load(*rosterFile)
	if err != nil {
		return err
	}
	pool, err := r.Select(roster.ParseIDs(*players))
	if err != nil {
		return err
	}
	if *strategy == "" {
		*strategy = r.Strategy
	}

	cfg.GoalFactor, cfg.AssistFactor = *goal, *assist
	if err := cfg.Weights().Validate(); err != nil {
		return err
	}

	svc := app.New(
		app.WithLogger(logger.Named("teamgen")),
		app.WithWeights(cfg.Weights()),
		app.WithExactLimit(cfg.ExactPartitionLimit),
	)
	sheet, err := svc.SplitPool(ctx, pool, *strategy)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "%s\nStrategy: %s\nImbalance: %.2f\n", sheet.Summary, sheet.Strategy, sheet.Imbalance)
	return err
}

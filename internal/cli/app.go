package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/quillon/mdgate/internal/activity"
	"github.com/quillon/mdgate/internal/config"
	"github.com/quillon/mdgate/internal/guard"
	"github.com/quillon/mdgate/internal/runner"
	"github.com/quillon/mdgate/internal/spotlight"
)

// app wires the facade and its dependencies for one command run.
type app struct {
	cfg      *config.Config
	client   *spotlight.Client
	activity *activity.Log
	journal  *activity.Journal
	log      zerolog.Logger
}

func newApp() (*app, error) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determining working directory: %w", err)
	}
	cfg, err := config.Load(wd)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	act := activity.NewLog(cfg.ActivityEntries())
	var journal *activity.Journal
	if cacheDir, err := os.UserCacheDir(); err == nil {
		journal = activity.OpenJournal(
			filepath.Join(cacheDir, "mdgate", "activity.jsonl"), cfg.ActivityEntries())
		act.Persist(journal)
	}

	r := &runner.Runner{
		Timeout:   cfg.Timeout(),
		MaxOutput: cfg.MaxOutputBytes(),
		Grace:     cfg.Grace(),
		Activity:  act,
		Log:       log,
	}
	client := spotlight.New(cfg, r, guard.NewPolicy(cfg.Protected()...), act, log)

	return &app{cfg: cfg, client: client, activity: act, journal: journal, log: log}, nil
}

// runLive drives a streaming operation: lines go to stdout (stderr
// lines to stderr), and an interrupt cancels cleanly instead of
// reporting an error.
func runLive(start func(ctx context.Context, fn spotlight.LineFunc) (*spotlight.Handle, error)) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	h, err := start(ctx, func(l runner.Line) {
		if l.Source == runner.SourceStderr {
			fmt.Fprintln(os.Stderr, l.Text)
			return
		}
		fmt.Println(l.Text)
	})
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- h.Wait() }()

	select {
	case <-ctx.Done():
		h.Cancel()
		<-done
		return nil
	case err := <-done:
		if kind, ok := spotlight.KindOf(err); ok && kind == spotlight.KindCancelled {
			return nil
		}
		return err
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/cmlabs-hris/presence-backend-go/internal/app"
	"github.com/cmlabs-hris/presence-backend-go/internal/cli"
	"github.com/cmlabs-hris/presence-backend-go/internal/config"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Logs go to stderr so CSV on stdout stays clean.
	logger := app.NewLogger(os.Stderr, cfg)

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	root := cli.NewRootCmd(&cli.App{
		Attendance: a.Attendance,
		Reports:    a.Reports,
		JWT:        a.JWT,
		IsTerminal: func() bool {
			return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		},
	})
	return root.ExecuteContext(ctx)
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seodeck/seodeck/internal/automation"
	"github.com/seodeck/seodeck/internal/conf"
)

// newRunCommand executes a single automation batch and prints its summary.
// This is the transport-free trigger: an OS scheduler (cron, systemd
// timer) can drive the engine without the HTTP server.
func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "run {alerts|recurrence}",
		Short:     "Execute one automation batch and print the run summary",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"alerts", "recurrence"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), args[0])
		},
	}
}

func runBatch(ctx context.Context, which string) error {
	settings, err := conf.Load(configPath)
	if err != nil {
		return err
	}

	log, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	app, err := buildApp(ctx, settings, log)
	if err != nil {
		return err
	}

	if budget := settings.Automation.RunBudget.Std(); budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	var summary *automation.RunSummary
	switch which {
	case "alerts":
		summary, err = app.alertRunner.Run(ctx, time.Now().UTC())
	case "recurrence":
		summary, err = app.recurrenceRunner.Run(ctx, time.Now().UTC())
	default:
		return fmt.Errorf("unknown batch %q (want alerts or recurrence)", which)
	}
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summary)
}

package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/seodeck/seodeck/internal/automation"
	"github.com/seodeck/seodeck/internal/conf"
	"github.com/seodeck/seodeck/internal/datastore"
	"github.com/seodeck/seodeck/internal/datastore/repository"
	"github.com/seodeck/seodeck/internal/monitor"
	"github.com/seodeck/seodeck/internal/notification"
)

// app bundles the wired repositories and runners shared by serve and run.
type app struct {
	ruleRepo      repository.AlertRuleRepository
	recurringRepo repository.RecurringTaskRuleRepository
	taskRepo      repository.ClientTaskRepository

	alertRunner      *automation.AlertRunner
	recurrenceRunner *automation.RecurrenceRunner
}

// buildApp opens the database, migrates, seeds defaults, and wires the
// automation runners.
func buildApp(ctx context.Context, settings *conf.Settings, log *zap.Logger) (*app, error) {
	db, err := datastore.Open(settings.Database)
	if err != nil {
		return nil, err
	}
	if err := datastore.Migrate(db); err != nil {
		return nil, err
	}

	ruleRepo := repository.NewAlertRuleRepository(db)
	recurringRepo := repository.NewRecurringTaskRuleRepository(db)
	taskRepo := repository.NewClientTaskRepository(db)
	clientRepo := repository.NewClientRepository(db)

	if settings.Automation.SeedDefaults {
		if err := automation.SeedDefaultRules(ctx, ruleRepo, log); err != nil {
			return nil, err
		}
	}

	notifier, err := notification.NewService(notification.Config{
		Enabled:     settings.Notification.Enabled,
		URLs:        settings.Notification.URLs,
		MinSeverity: settings.Notification.MinSeverity,
	}, log)
	if err != nil {
		return nil, err
	}

	sources := []automation.SnapshotSource{
		monitor.NewHealthSource(clientRepo),
		monitor.NewScanSource(clientRepo),
	}

	alertRunner := automation.NewAlertRunner(ruleRepo, taskRepo, sources, notifier, log)
	alertRunner.SetEventRetention(settings.Automation.EventRetentionDays)

	return &app{
		ruleRepo:         ruleRepo,
		recurringRepo:    recurringRepo,
		taskRepo:         taskRepo,
		alertRunner:      alertRunner,
		recurrenceRunner: automation.NewRecurrenceRunner(recurringRepo, taskRepo, log),
	}, nil
}

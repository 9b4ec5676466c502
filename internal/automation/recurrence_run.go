package automation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/seodeck/seodeck/internal/datastore/entities"
	"github.com/seodeck/seodeck/internal/datastore/repository"
	"go.uber.org/zap"
)

// RecurrenceRunner executes one batch pass over all due recurring task
// rules. For each due rule it materializes one work item and then advances
// the schedule. The task upsert commits before the advance: if the process
// dies between the two, the rule is still due on the next run and the
// occurrence key dedupes the retry. At-least-once evaluation, at-most-once
// effect.
type RecurrenceRunner struct {
	rules repository.RecurringTaskRuleRepository
	tasks repository.ClientTaskRepository
	log   *zap.Logger
}

// NewRecurrenceRunner creates a RecurrenceRunner.
func NewRecurrenceRunner(
	rules repository.RecurringTaskRuleRepository,
	tasks repository.ClientTaskRepository,
	log *zap.Logger,
) *RecurrenceRunner {
	return &RecurrenceRunner{rules: rules, tasks: tasks, log: log}
}

// Run materializes tasks for all rules with next_run_at <= now (or NULL).
// One rule's failure never blocks the others; a failed rule keeps its
// next_run_at and is retried by the next batch. Only a failure to list due
// rules at all is a run-level error.
func (r *RecurrenceRunner) Run(ctx context.Context, now time.Time) (*RunSummary, error) {
	summary := newRunSummary()
	timer := prometheusTimer(runLabelRecurrence)
	defer timer()

	due, err := r.rules.ListDue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load due recurring task rules: %w", err)
	}

	r.log.Info("recurrence run started",
		zap.String("run_id", summary.RunID),
		zap.Int("due_rules", len(due)))

	for i := range due {
		rule := &due[i]
		if ctx.Err() != nil {
			for j := i; j < len(due); j++ {
				summary.Skipped = append(summary.Skipped, due[j].ID)
			}
			r.log.Warn("recurrence run budget exhausted",
				zap.String("run_id", summary.RunID),
				zap.Int("skipped", len(summary.Skipped)))
			break
		}
		summary.RulesProcessed++
		r.processRule(ctx, rule, now, summary)
	}

	runErrors.WithLabelValues(runLabelRecurrence).Add(float64(len(summary.Errors)))
	r.log.Info("recurrence run finished",
		zap.String("run_id", summary.RunID),
		zap.Int("rules_processed", summary.RulesProcessed),
		zap.Int("tasks", len(summary.Created)),
		zap.Int("errors", len(summary.Errors)))
	return summary.finish(), nil
}

func (r *RecurrenceRunner) processRule(ctx context.Context, rule *entities.RecurringTaskRule, now time.Time, summary *RunSummary) {
	// Materialize the work item first. The occurrence key pins the task to
	// this logical due instant, so a retry that re-observes the rule before
	// the schedule advances resolves to the same row.
	task := &entities.ClientTask{
		ClientID:      rule.TargetClientID,
		Title:         rule.TaskTitle,
		Category:      rule.TaskCategory,
		Description:   rule.TaskDescription,
		Status:        entities.TaskStatusOpen,
		SourceRuleID:  &rule.ID,
		OccurrenceKey: occurrenceKey(rule, now),
	}
	created, err := r.tasks.UpsertTask(ctx, task)
	if err != nil {
		// next_run_at stays put, so the rule is retried on the next batch.
		summary.addError(rule.ID, fmt.Errorf("materialize task: %w", err))
		return
	}
	if created {
		tasksCreated.Inc()
	} else {
		r.log.Debug("occurrence already materialized",
			zap.Uint("rule_id", rule.ID),
			zap.String("occurrence_key", task.OccurrenceKey),
			zap.Uint("task_id", task.ID))
	}

	next, err := NextRun(rule.CronExpression, now)
	if err != nil {
		if errors.Is(err, ErrScheduleUnsatisfiable) {
			// A rule that can never run again must not retry forever.
			if deactivateErr := r.rules.Deactivate(ctx, rule.ID); deactivateErr != nil {
				summary.addError(rule.ID, deactivateErr)
				return
			}
			r.log.Warn("recurring task rule deactivated: schedule unsatisfiable",
				zap.Uint("rule_id", rule.ID),
				zap.String("cron", rule.CronExpression))
		}
		// Unparsable expressions stay active for a human to fix; both cases
		// are reported.
		summary.addError(rule.ID, err)
		return
	}

	if err := r.rules.AdvanceSchedule(ctx, rule.ID, rule.NextRunAt, next); err != nil {
		summary.addError(rule.ID, err)
		return
	}
	summary.Created = append(summary.Created, task.ID)
	r.log.Info("recurring task materialized",
		zap.Uint("rule_id", rule.ID),
		zap.Uint("task_id", task.ID),
		zap.Bool("deduplicated", !created),
		zap.Time("next_run_at", next))
}

// occurrenceKey identifies one due instance of a recurring rule. A NULL
// next_run_at (newly created rule) keys on the evaluation instant.
func occurrenceKey(rule *entities.RecurringTaskRule, now time.Time) string {
	if rule.NextRunAt != nil {
		return rule.NextRunAt.UTC().Format(time.RFC3339)
	}
	return now.UTC().Format(time.RFC3339)
}

package automation

import (
	"context"
	"fmt"
	"time"

	"github.com/seodeck/seodeck/internal/datastore/entities"
	"github.com/seodeck/seodeck/internal/datastore/repository"
	"go.uber.org/zap"
)

// Notifier delivers an alert notification. Failures are logged and
// swallowed by the runner; a broken notification channel must never fail
// the alert itself.
type Notifier interface {
	Notify(ctx context.Context, rule *entities.AlertRule, event *entities.AlertEvent) error
}

// AlertRunner executes one batch pass over all active alert rules.
// It is stateless between runs: cooldown history lives in the event table,
// so overlapping invocations and restarts cannot double-fire a rule.
type AlertRunner struct {
	rules    repository.AlertRuleRepository
	tasks    repository.ClientTaskRepository
	sources  map[string]SnapshotSource
	notifier Notifier
	log      *zap.Logger

	// eventRetentionDays prunes old alert events at the end of each run.
	// Zero disables pruning.
	eventRetentionDays int
}

// NewAlertRunner creates an AlertRunner over the given snapshot sources.
func NewAlertRunner(
	rules repository.AlertRuleRepository,
	tasks repository.ClientTaskRepository,
	sources []SnapshotSource,
	notifier Notifier,
	log *zap.Logger,
) *AlertRunner {
	byType := make(map[string]SnapshotSource, len(sources))
	for _, s := range sources {
		byType[s.SourceType()] = s
	}
	return &AlertRunner{
		rules:    rules,
		tasks:    tasks,
		sources:  byType,
		notifier: notifier,
		log:      log,
	}
}

// SetEventRetention enables pruning of alert events older than the given
// number of days at the end of each run.
func (r *AlertRunner) SetEventRetention(days int) {
	r.eventRetentionDays = days
}

// fireKey dedupes (rule, client) pairs within one run, so a snapshot
// source that yields the same client twice cannot double-fire.
type fireKey struct {
	ruleID   uint
	clientID uint
}

// Run evaluates all active rules against their source snapshots. The
// method is total for per-item failures: they accumulate in the summary
// and never abort the batch. Only a failure to load the rule list at all
// is a run-level error.
func (r *AlertRunner) Run(ctx context.Context, now time.Time) (*RunSummary, error) {
	summary := newRunSummary()
	timer := prometheusTimer(runLabelAlerts)
	defer timer()

	rules, err := r.rules.GetActiveRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alert rules: %w", err)
	}

	r.log.Info("alert evaluation run started",
		zap.String("run_id", summary.RunID),
		zap.Int("active_rules", len(rules)))

	snapshotCache := make(map[string][]EntitySnapshot)
	fired := make(map[fireKey]struct{})

	for i := range rules {
		rule := &rules[i]
		if ctx.Err() != nil {
			for j := i; j < len(rules); j++ {
				summary.Skipped = append(summary.Skipped, rules[j].ID)
			}
			r.log.Warn("alert run budget exhausted",
				zap.String("run_id", summary.RunID),
				zap.Int("skipped", len(summary.Skipped)))
			break
		}
		summary.RulesProcessed++
		r.evaluateRule(ctx, rule, now, snapshotCache, fired, summary)
	}

	r.pruneEvents(ctx, now)

	runErrors.WithLabelValues(runLabelAlerts).Add(float64(len(summary.Errors)))
	r.log.Info("alert evaluation run finished",
		zap.String("run_id", summary.RunID),
		zap.Int("rules_processed", summary.RulesProcessed),
		zap.Int("fired", len(summary.Created)),
		zap.Int("suppressed", len(summary.Suppressed)),
		zap.Int("errors", len(summary.Errors)))
	return summary.finish(), nil
}

// pruneEvents drops alert events past the retention window. A pruning
// failure never fails the run; the events are retried next pass.
func (r *AlertRunner) pruneEvents(ctx context.Context, now time.Time) {
	if r.eventRetentionDays <= 0 {
		return
	}
	cutoff := now.AddDate(0, 0, -r.eventRetentionDays)
	deleted, err := r.rules.DeleteEventsBefore(ctx, cutoff)
	if err != nil {
		r.log.Warn("failed to prune alert events", zap.Error(err))
		return
	}
	if deleted > 0 {
		r.log.Info("pruned alert events",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff))
	}
}

func (r *AlertRunner) evaluateRule(
	ctx context.Context,
	rule *entities.AlertRule,
	now time.Time,
	snapshotCache map[string][]EntitySnapshot,
	fired map[fireKey]struct{},
	summary *RunSummary,
) {
	if err := ValidateRule(rule); err != nil {
		summary.addError(rule.ID, err)
		return
	}

	snapshots, err := r.snapshotsFor(ctx, rule.SourceType, snapshotCache)
	if err != nil {
		summary.addError(rule.ID, err)
		return
	}

	cfg := conditionFromRule(rule)
	for _, snap := range snapshots {
		key := fireKey{ruleID: rule.ID, clientID: snap.ClientID}
		if _, dup := fired[key]; dup {
			continue
		}

		result, err := Evaluate(cfg, snap.Values)
		if err != nil {
			summary.addError(rule.ID, fmt.Errorf("client %d: %w", snap.ClientID, err))
			continue
		}
		if !result.Matched {
			continue
		}

		lastFiredAt, err := r.rules.LastFiredAt(ctx, rule.ID, snap.ClientID)
		if err != nil {
			summary.addError(rule.ID, err)
			continue
		}
		if !MayFire(lastFiredAt, rule.CooldownMinutes, now) {
			summary.Suppressed = append(summary.Suppressed, Suppression{RuleID: rule.ID, ClientID: snap.ClientID})
			alertsSuppressed.Inc()
			r.log.Debug("alert suppressed by cooldown",
				zap.Uint("rule_id", rule.ID),
				zap.Uint("client_id", snap.ClientID))
			continue
		}

		fired[key] = struct{}{}
		r.fireRule(ctx, rule, snap, result, now, summary)
	}
}

// snapshotsFor loads snapshots for a source type once per run.
func (r *AlertRunner) snapshotsFor(ctx context.Context, sourceType string, cache map[string][]EntitySnapshot) ([]EntitySnapshot, error) {
	if snaps, ok := cache[sourceType]; ok {
		return snaps, nil
	}
	source, ok := r.sources[sourceType]
	if !ok {
		return nil, fmt.Errorf("no snapshot source registered for source type %q", sourceType)
	}
	snaps, err := source.LoadSnapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load %q snapshots: %w", sourceType, err)
	}
	cache[sourceType] = snaps
	return snaps, nil
}

func (r *AlertRunner) fireRule(
	ctx context.Context,
	rule *entities.AlertRule,
	snap EntitySnapshot,
	result MatchResult,
	now time.Time,
	summary *RunSummary,
) {
	event := &entities.AlertEvent{
		RuleID:   rule.ID,
		ClientID: snap.ClientID,
		Severity: rule.Severity,
		Message:  fmt.Sprintf("%s: %s %s %s", rule.Name, rule.ConditionField, rule.ConditionOperator, rule.ConditionValue),
		Value:    fmt.Sprintf("%v", result.Actual),
		CreatedAt: now,
	}
	if err := r.rules.CreateEvent(ctx, event); err != nil {
		summary.addError(rule.ID, err)
		return
	}
	summary.Created = append(summary.Created, event.ID)
	alertsFired.Inc()
	r.log.Info("alert fired",
		zap.Uint("rule_id", rule.ID),
		zap.Uint("client_id", snap.ClientID),
		zap.String("severity", rule.Severity),
		zap.String("value", event.Value))

	if rule.AutoCreateTask {
		r.createFollowUpTask(ctx, rule, event, summary)
	}

	if rule.NotifyOnTrigger && r.notifier != nil {
		if err := r.notifier.Notify(ctx, rule, event); err != nil {
			r.log.Warn("alert notification failed",
				zap.Uint("rule_id", rule.ID),
				zap.Uint("event_id", event.ID),
				zap.Error(err))
		}
	}
}

func (r *AlertRunner) createFollowUpTask(ctx context.Context, rule *entities.AlertRule, event *entities.AlertEvent, summary *RunSummary) {
	clientID := event.ClientID
	ruleID := rule.ID
	task := &entities.ClientTask{
		ClientID:      &clientID,
		Title:         rule.TaskTitle,
		Category:      rule.TaskCategory,
		Description:   rule.TaskDescription,
		Status:        entities.TaskStatusOpen,
		SourceRuleID:  &ruleID,
		OccurrenceKey: fmt.Sprintf("alert-%d", event.ID),
	}
	created, err := r.tasks.UpsertTask(ctx, task)
	if err != nil {
		summary.addError(rule.ID, fmt.Errorf("event %d: follow-up task: %w", event.ID, err))
		return
	}
	if created {
		tasksCreated.Inc()
	}
	if err := r.rules.AttachEventTask(ctx, event.ID, task.ID); err != nil {
		summary.addError(rule.ID, err)
	}
}

// prometheusTimer observes the run duration on the shared histogram.
func prometheusTimer(run string) func() {
	start := time.Now()
	return func() {
		runDuration.WithLabelValues(run).Observe(time.Since(start).Seconds())
	}
}

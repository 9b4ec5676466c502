package repository

import (
	"context"
	"errors"
	"time"

	"github.com/seodeck/seodeck/internal/datastore/entities"
)

// ErrRecurringRuleNotFound is returned when a recurring task rule does not exist.
var ErrRecurringRuleNotFound = errors.New("recurring task rule not found")

// RecurringTaskRuleRepository handles recurring task rule CRUD and the
// schedule-advance write used by the recurrence run.
type RecurringTaskRuleRepository interface {
	ListRules(ctx context.Context, filter RecurringRuleFilter) ([]entities.RecurringTaskRule, error)
	GetRule(ctx context.Context, id uint) (*entities.RecurringTaskRule, error)
	CreateRule(ctx context.Context, rule *entities.RecurringTaskRule) error
	UpdateRule(ctx context.Context, rule *entities.RecurringTaskRule) error
	DeleteRule(ctx context.Context, id uint) error

	// ListDue returns active rules whose next_run_at has passed or is NULL
	// (newly created, not yet scheduled).
	ListDue(ctx context.Context, now time.Time) ([]entities.RecurringTaskRule, error)

	// AdvanceSchedule moves next_run_at from its previously observed value
	// to the given instant. The previous value guards the update: if another
	// run already advanced the rule the write affects no rows, which is not
	// an error.
	AdvanceSchedule(ctx context.Context, id uint, from *time.Time, to time.Time) error

	// Deactivate disables a rule whose schedule can never produce a future
	// run time.
	Deactivate(ctx context.Context, id uint) error
}

// RecurringRuleFilter controls recurring rule listing queries.
type RecurringRuleFilter struct {
	IsActive *bool
}

package automation

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrScheduleUnsatisfiable marks a cron expression that parses but can
// never produce a future run time (e.g. "0 0 30 2 *"). Retrying cannot
// help, so the recurrence run deactivates the rule instead.
var ErrScheduleUnsatisfiable = errors.New("schedule cannot produce a future run time")

// cronParser accepts the standard 5-field grammar
// (minute hour day-of-month month day-of-week) with */N steps, lists and
// ranges, and the standard OR combination of restricted dom/dow fields.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ParseCron validates a 5-field cron expression.
func ParseCron(expr string) error {
	if _, err := cronParser.Parse(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}

// NextRun returns the first instant strictly after the given one that
// matches the expression, evaluated in UTC at minute resolution. The
// forward scan is bounded; an expression with no future match returns
// ErrScheduleUnsatisfiable.
func NextRun(expr string, after time.Time) (time.Time, error) {
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	next := schedule.Next(after.UTC().Truncate(time.Minute))
	if next.IsZero() {
		return time.Time{}, fmt.Errorf("%w: %q", ErrScheduleUnsatisfiable, expr)
	}
	return next, nil
}

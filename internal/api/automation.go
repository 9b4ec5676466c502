package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// RunAlerts executes one alert evaluation batch and returns its summary.
// Invoked by the external cron trigger.
func (c *Controller) RunAlerts(ctx echo.Context) error {
	runCtx, cancel := c.runContext(ctx)
	defer cancel()

	summary, err := c.alertRunner.Run(runCtx, time.Now().UTC())
	if err != nil {
		return c.handleError(ctx, err, "Alert evaluation run failed", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, summary)
}

// RunRecurrence executes one recurring task batch and returns its summary.
// Invoked by the external cron trigger.
func (c *Controller) RunRecurrence(ctx echo.Context) error {
	runCtx, cancel := c.runContext(ctx)
	defer cancel()

	summary, err := c.recurrenceRunner.Run(runCtx, time.Now().UTC())
	if err != nil {
		return c.handleError(ctx, err, "Recurrence run failed", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, summary)
}

// runContext bounds a batch with the configured run budget. Batches are
// resumable: work committed before the deadline stays committed and the
// summary reports the remainder as skipped.
func (c *Controller) runContext(ctx echo.Context) (context.Context, context.CancelFunc) {
	reqCtx := ctx.Request().Context()
	if c.runBudget <= 0 {
		return context.WithCancel(reqCtx)
	}
	return context.WithTimeout(reqCtx, c.runBudget)
}

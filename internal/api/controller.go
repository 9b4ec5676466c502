// Package api exposes the SeoDeck HTTP API: the automation trigger
// endpoints, alert rule and event management, and recurring task rules.
package api

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/seodeck/seodeck/internal/automation"
	"github.com/seodeck/seodeck/internal/datastore/repository"
	"go.uber.org/zap"
)

// automationSecretHeader authenticates the external cron trigger.
const automationSecretHeader = "X-Automation-Secret"

// Controller wires the HTTP routes to repositories and runners.
type Controller struct {
	ruleRepo      repository.AlertRuleRepository
	recurringRepo repository.RecurringTaskRuleRepository
	taskRepo      repository.ClientTaskRepository

	alertRunner      *automation.AlertRunner
	recurrenceRunner *automation.RecurrenceRunner

	runBudget time.Duration
	secret    string
	log       *zap.Logger
}

// NewController creates the API controller.
func NewController(
	ruleRepo repository.AlertRuleRepository,
	recurringRepo repository.RecurringTaskRuleRepository,
	taskRepo repository.ClientTaskRepository,
	alertRunner *automation.AlertRunner,
	recurrenceRunner *automation.RecurrenceRunner,
	runBudget time.Duration,
	secret string,
	log *zap.Logger,
) *Controller {
	return &Controller{
		ruleRepo:         ruleRepo,
		recurringRepo:    recurringRepo,
		taskRepo:         taskRepo,
		alertRunner:      alertRunner,
		recurrenceRunner: recurrenceRunner,
		runBudget:        runBudget,
		secret:           secret,
		log:              log,
	}
}

// RegisterRoutes mounts all API routes under the given group.
func (c *Controller) RegisterRoutes(g *echo.Group) {
	// Trigger endpoints, guarded by the shared secret.
	triggers := g.Group("/automation", c.requireSecret)
	triggers.POST("/alerts/run", c.RunAlerts)
	triggers.POST("/recurrence/run", c.RunRecurrence)

	alerts := g.Group("/alerts")
	alerts.GET("/schema", c.GetAlertSchema)
	alerts.GET("/rules", c.ListAlertRules)
	alerts.GET("/rules/:id", c.GetAlertRule)
	alerts.POST("/rules", c.CreateAlertRule)
	alerts.PUT("/rules/:id", c.UpdateAlertRule)
	alerts.PATCH("/rules/:id/toggle", c.ToggleAlertRule)
	alerts.DELETE("/rules/:id", c.DeleteAlertRule)
	alerts.GET("/events", c.ListAlertEvents)
	alerts.POST("/events/:id/ack", c.AcknowledgeAlertEvent)

	recurring := g.Group("/recurring")
	recurring.GET("/rules", c.ListRecurringRules)
	recurring.GET("/rules/:id", c.GetRecurringRule)
	recurring.POST("/rules", c.CreateRecurringRule)
	recurring.PUT("/rules/:id", c.UpdateRecurringRule)
	recurring.DELETE("/rules/:id", c.DeleteRecurringRule)

	g.GET("/tasks", c.ListClientTasks)
}

// requireSecret rejects trigger requests without the configured shared
// secret. An empty configured secret disables the endpoints.
func (c *Controller) requireSecret(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		provided := ctx.Request().Header.Get(automationSecretHeader)
		if c.secret == "" ||
			subtle.ConstantTimeCompare([]byte(provided), []byte(c.secret)) != 1 {
			return ctx.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		return next(ctx)
	}
}

// handleError logs an internal error and returns a generic message.
func (c *Controller) handleError(ctx echo.Context, err error, message string, status int) error {
	c.log.Error(message, zap.Error(err))
	return ctx.JSON(status, map[string]string{"error": message})
}

// parseUintParam parses a numeric path parameter.
func parseUintParam(ctx echo.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

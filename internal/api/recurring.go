package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/seodeck/seodeck/internal/automation"
	"github.com/seodeck/seodeck/internal/datastore/entities"
	"github.com/seodeck/seodeck/internal/datastore/repository"
)

// ListRecurringRules returns all recurring task rules.
func (c *Controller) ListRecurringRules(ctx echo.Context) error {
	filter := repository.RecurringRuleFilter{}
	if activeParam := ctx.QueryParam("is_active"); activeParam != "" {
		v := activeParam == "true"
		filter.IsActive = &v
	}

	rules, err := c.recurringRepo.ListRules(ctx.Request().Context(), filter)
	if err != nil {
		return c.handleError(ctx, err, "Failed to list recurring task rules", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"rules": rules,
		"count": len(rules),
	})
}

// GetRecurringRule returns a single recurring task rule by ID.
func (c *Controller) GetRecurringRule(ctx echo.Context) error {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid rule ID"})
	}

	rule, err := c.recurringRepo.GetRule(ctx.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRecurringRuleNotFound) {
			return ctx.JSON(http.StatusNotFound, map[string]string{"error": "Recurring task rule not found"})
		}
		return c.handleError(ctx, err, "Failed to get recurring task rule", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, rule)
}

// CreateRecurringRule creates a new recurring task rule. The cron
// expression is validated up front; NextRunAt starts NULL so the first
// recurrence run establishes the baseline.
func (c *Controller) CreateRecurringRule(ctx echo.Context) error {
	var rule entities.RecurringTaskRule
	if err := ctx.Bind(&rule); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid rule payload"})
	}
	rule.ID = 0
	rule.NextRunAt = nil

	if err := validateRecurringRule(&rule); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.recurringRepo.CreateRule(ctx.Request().Context(), &rule); err != nil {
		return c.handleError(ctx, err, "Failed to create recurring task rule", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusCreated, rule)
}

// UpdateRecurringRule replaces an existing recurring task rule. The
// schedule position is preserved; edits to the cron expression take effect
// when the rule next becomes due.
func (c *Controller) UpdateRecurringRule(ctx echo.Context) error {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid rule ID"})
	}

	existing, err := c.recurringRepo.GetRule(ctx.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRecurringRuleNotFound) {
			return ctx.JSON(http.StatusNotFound, map[string]string{"error": "Recurring task rule not found"})
		}
		return c.handleError(ctx, err, "Failed to get recurring task rule", http.StatusInternalServerError)
	}

	var rule entities.RecurringTaskRule
	if err := ctx.Bind(&rule); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid rule payload"})
	}
	rule.ID = id
	rule.NextRunAt = existing.NextRunAt
	rule.CreatedAt = existing.CreatedAt

	if err := validateRecurringRule(&rule); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.recurringRepo.UpdateRule(ctx.Request().Context(), &rule); err != nil {
		return c.handleError(ctx, err, "Failed to update recurring task rule", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, rule)
}

// DeleteRecurringRule deletes a recurring task rule.
func (c *Controller) DeleteRecurringRule(ctx echo.Context) error {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid rule ID"})
	}

	if err := c.recurringRepo.DeleteRule(ctx.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrRecurringRuleNotFound) {
			return ctx.JSON(http.StatusNotFound, map[string]string{"error": "Recurring task rule not found"})
		}
		return c.handleError(ctx, err, "Failed to delete recurring task rule", http.StatusInternalServerError)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ListClientTasks returns work items with pagination.
func (c *Controller) ListClientTasks(ctx echo.Context) error {
	filter := repository.ClientTaskFilter{
		Status: ctx.QueryParam("status"),
		Limit:  50,
	}
	if id, err := parseUintQuery(ctx, "client_id"); err == nil {
		filter.ClientID = id
	}
	if id, err := parseUintQuery(ctx, "source_rule_id"); err == nil {
		filter.SourceRuleID = id
	}

	tasks, total, err := c.taskRepo.ListTasks(ctx.Request().Context(), filter)
	if err != nil {
		return c.handleError(ctx, err, "Failed to list client tasks", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"tasks": tasks,
		"total": total,
	})
}

func validateRecurringRule(rule *entities.RecurringTaskRule) error {
	if rule.Name == "" {
		return errors.New("rule name is required")
	}
	if rule.TaskTitle == "" {
		return errors.New("task title is required")
	}
	return automation.ParseCron(rule.CronExpression)
}

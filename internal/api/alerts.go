package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/seodeck/seodeck/internal/automation"
	"github.com/seodeck/seodeck/internal/datastore/entities"
	"github.com/seodeck/seodeck/internal/datastore/repository"
)

const maxEventListLimit = 200

// GetAlertSchema returns the rule-builder catalog.
func (c *Controller) GetAlertSchema(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, automation.GetSchema())
}

// ListAlertRules returns all alert rules, optionally filtered.
func (c *Controller) ListAlertRules(ctx echo.Context) error {
	filter := repository.AlertRuleFilter{
		SourceType: ctx.QueryParam("source_type"),
	}
	if activeParam := ctx.QueryParam("is_active"); activeParam != "" {
		v := activeParam == "true"
		filter.IsActive = &v
	}
	if builtInParam := ctx.QueryParam("built_in"); builtInParam != "" {
		v := builtInParam == "true"
		filter.BuiltIn = &v
	}

	rules, err := c.ruleRepo.ListRules(ctx.Request().Context(), filter)
	if err != nil {
		return c.handleError(ctx, err, "Failed to list alert rules", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"rules": rules,
		"count": len(rules),
	})
}

// GetAlertRule returns a single alert rule by ID.
func (c *Controller) GetAlertRule(ctx echo.Context) error {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid rule ID"})
	}

	rule, err := c.ruleRepo.GetRule(ctx.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAlertRuleNotFound) {
			return ctx.JSON(http.StatusNotFound, map[string]string{"error": "Alert rule not found"})
		}
		return c.handleError(ctx, err, "Failed to get alert rule", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, rule)
}

// CreateAlertRule creates a new alert rule after structural validation.
func (c *Controller) CreateAlertRule(ctx echo.Context) error {
	var rule entities.AlertRule
	if err := ctx.Bind(&rule); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid rule payload"})
	}
	rule.ID = 0
	rule.BuiltIn = false

	if err := automation.ValidateRule(&rule); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.ruleRepo.CreateRule(ctx.Request().Context(), &rule); err != nil {
		return c.handleError(ctx, err, "Failed to create alert rule", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusCreated, rule)
}

// UpdateAlertRule replaces an existing alert rule.
func (c *Controller) UpdateAlertRule(ctx echo.Context) error {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid rule ID"})
	}

	existing, err := c.ruleRepo.GetRule(ctx.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAlertRuleNotFound) {
			return ctx.JSON(http.StatusNotFound, map[string]string{"error": "Alert rule not found"})
		}
		return c.handleError(ctx, err, "Failed to get alert rule", http.StatusInternalServerError)
	}

	var rule entities.AlertRule
	if err := ctx.Bind(&rule); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid rule payload"})
	}
	rule.ID = id
	rule.BuiltIn = existing.BuiltIn
	rule.CreatedAt = existing.CreatedAt

	if err := automation.ValidateRule(&rule); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.ruleRepo.UpdateRule(ctx.Request().Context(), &rule); err != nil {
		return c.handleError(ctx, err, "Failed to update alert rule", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, rule)
}

// ToggleAlertRule activates or deactivates a rule.
func (c *Controller) ToggleAlertRule(ctx echo.Context) error {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid rule ID"})
	}

	var payload struct {
		IsActive bool `json:"is_active"`
	}
	if err := ctx.Bind(&payload); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid toggle payload"})
	}

	if err := c.ruleRepo.ToggleRule(ctx.Request().Context(), id, payload.IsActive); err != nil {
		if errors.Is(err, repository.ErrAlertRuleNotFound) {
			return ctx.JSON(http.StatusNotFound, map[string]string{"error": "Alert rule not found"})
		}
		return c.handleError(ctx, err, "Failed to toggle alert rule", http.StatusInternalServerError)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// DeleteAlertRule deletes an alert rule and its events.
func (c *Controller) DeleteAlertRule(ctx echo.Context) error {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid rule ID"})
	}

	if err := c.ruleRepo.DeleteRule(ctx.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrAlertRuleNotFound) {
			return ctx.JSON(http.StatusNotFound, map[string]string{"error": "Alert rule not found"})
		}
		return c.handleError(ctx, err, "Failed to delete alert rule", http.StatusInternalServerError)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ListAlertEvents returns alert events with pagination.
func (c *Controller) ListAlertEvents(ctx echo.Context) error {
	filter := repository.AlertEventFilter{Limit: 50}
	if id, err := parseUintQuery(ctx, "rule_id"); err == nil {
		filter.RuleID = id
	}
	if id, err := parseUintQuery(ctx, "client_id"); err == nil {
		filter.ClientID = id
	}
	if ackParam := ctx.QueryParam("acknowledged"); ackParam != "" {
		v := ackParam == "true"
		filter.Acknowledged = &v
	}
	if limit, err := parseUintQuery(ctx, "limit"); err == nil && limit > 0 {
		filter.Limit = min(int(limit), maxEventListLimit)
	}
	if offset, err := parseUintQuery(ctx, "offset"); err == nil {
		filter.Offset = int(offset)
	}

	events, total, err := c.ruleRepo.ListEvents(ctx.Request().Context(), filter)
	if err != nil {
		return c.handleError(ctx, err, "Failed to list alert events", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"events": events,
		"total":  total,
	})
}

// AcknowledgeAlertEvent marks an event as acknowledged by an operator.
// This is the only mutation events support.
func (c *Controller) AcknowledgeAlertEvent(ctx echo.Context) error {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid event ID"})
	}

	var payload struct {
		AcknowledgedBy string `json:"acknowledged_by"`
	}
	if err := ctx.Bind(&payload); err != nil || payload.AcknowledgedBy == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "acknowledged_by is required"})
	}

	err = c.ruleRepo.AcknowledgeEvent(ctx.Request().Context(), id, payload.AcknowledgedBy, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrAlertEventNotFound) {
			return ctx.JSON(http.StatusNotFound, map[string]string{"error": "Alert event not found"})
		}
		return c.handleError(ctx, err, "Failed to acknowledge alert event", http.StatusInternalServerError)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func parseUintQuery(ctx echo.Context, name string) (uint, error) {
	param := ctx.QueryParam(name)
	if param == "" {
		return 0, errors.New("missing query parameter")
	}
	value, err := strconv.ParseUint(param, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

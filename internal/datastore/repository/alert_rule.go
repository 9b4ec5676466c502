// Package repository provides data access for the SeoDeck database.
// Each repository pairs a narrow interface with a GORM implementation so
// the automation engine and API layer can be tested against mocks.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/seodeck/seodeck/internal/datastore/entities"
)

// ErrAlertRuleNotFound is returned when an alert rule does not exist.
var ErrAlertRuleNotFound = errors.New("alert rule not found")

// ErrAlertEventNotFound is returned when an alert event does not exist.
var ErrAlertEventNotFound = errors.New("alert event not found")

// AlertRuleRepository handles alert rule CRUD and alert event operations.
type AlertRuleRepository interface {
	// Rule CRUD
	ListRules(ctx context.Context, filter AlertRuleFilter) ([]entities.AlertRule, error)
	GetRule(ctx context.Context, id uint) (*entities.AlertRule, error)
	CreateRule(ctx context.Context, rule *entities.AlertRule) error
	UpdateRule(ctx context.Context, rule *entities.AlertRule) error
	DeleteRule(ctx context.Context, id uint) error
	ToggleRule(ctx context.Context, id uint, active bool) error

	// Bulk operations
	GetActiveRules(ctx context.Context) ([]entities.AlertRule, error)
	CountRulesByName(ctx context.Context, name string) (int64, error)

	// Events
	CreateEvent(ctx context.Context, event *entities.AlertEvent) error
	AttachEventTask(ctx context.Context, eventID, taskID uint) error
	LastFiredAt(ctx context.Context, ruleID, clientID uint) (*time.Time, error)
	ListEvents(ctx context.Context, filter AlertEventFilter) ([]entities.AlertEvent, int64, error)
	AcknowledgeEvent(ctx context.Context, id uint, by string, at time.Time) error
	DeleteEventsBefore(ctx context.Context, before time.Time) (int64, error)
}

// AlertRuleFilter controls rule listing queries.
type AlertRuleFilter struct {
	SourceType string
	IsActive   *bool
	BuiltIn    *bool
}

// AlertEventFilter controls event listing queries.
type AlertEventFilter struct {
	RuleID       uint
	ClientID     uint
	Acknowledged *bool
	Limit        int
	Offset       int
}

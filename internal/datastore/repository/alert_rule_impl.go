package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/seodeck/seodeck/internal/datastore/entities"
	"gorm.io/gorm"
)

// alertRuleRepository implements AlertRuleRepository.
type alertRuleRepository struct {
	db *gorm.DB
}

// NewAlertRuleRepository creates a new AlertRuleRepository.
func NewAlertRuleRepository(db *gorm.DB) AlertRuleRepository {
	return &alertRuleRepository{db: db}
}

// ListRules returns alert rules matching the given filter.
func (r *alertRuleRepository) ListRules(ctx context.Context, filter AlertRuleFilter) ([]entities.AlertRule, error) {
	var rules []entities.AlertRule
	query := r.db.WithContext(ctx)

	if filter.SourceType != "" {
		query = query.Where("source_type = ?", filter.SourceType)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.BuiltIn != nil {
		query = query.Where("built_in = ?", *filter.BuiltIn)
	}

	if err := query.Order("id ASC").Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to list alert rules: %w", err)
	}
	return rules, nil
}

// GetRule returns a single alert rule by ID.
// Returns ErrAlertRuleNotFound if the rule does not exist.
func (r *alertRuleRepository) GetRule(ctx context.Context, id uint) (*entities.AlertRule, error) {
	var rule entities.AlertRule
	if err := r.db.WithContext(ctx).First(&rule, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlertRuleNotFound
		}
		return nil, fmt.Errorf("failed to get alert rule %d: %w", id, err)
	}
	return &rule, nil
}

// CreateRule creates a new alert rule.
func (r *alertRuleRepository) CreateRule(ctx context.Context, rule *entities.AlertRule) error {
	if err := r.db.WithContext(ctx).Create(rule).Error; err != nil {
		return fmt.Errorf("failed to create alert rule: %w", err)
	}
	return nil
}

// UpdateRule saves all fields of an existing alert rule.
func (r *alertRuleRepository) UpdateRule(ctx context.Context, rule *entities.AlertRule) error {
	if rule.ID == 0 {
		return fmt.Errorf("failed to update alert rule: missing rule ID")
	}
	if err := r.db.WithContext(ctx).Save(rule).Error; err != nil {
		return fmt.Errorf("failed to update alert rule %d: %w", rule.ID, err)
	}
	return nil
}

// DeleteRule deletes an alert rule; its events follow via cascade.
func (r *alertRuleRepository) DeleteRule(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.AlertRule{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete alert rule %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAlertRuleNotFound
	}
	return nil
}

// ToggleRule activates or deactivates an alert rule.
func (r *alertRuleRepository) ToggleRule(ctx context.Context, id uint, active bool) error {
	result := r.db.WithContext(ctx).Model(&entities.AlertRule{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return fmt.Errorf("failed to toggle alert rule %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAlertRuleNotFound
	}
	return nil
}

// GetActiveRules returns all active alert rules.
func (r *alertRuleRepository) GetActiveRules(ctx context.Context) ([]entities.AlertRule, error) {
	active := true
	return r.ListRules(ctx, AlertRuleFilter{IsActive: &active})
}

// CountRulesByName returns the number of rules with the given name.
func (r *alertRuleRepository) CountRulesByName(ctx context.Context, name string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.AlertRule{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count rules by name: %w", err)
	}
	return count, nil
}

// CreateEvent persists a new alert event.
func (r *alertRuleRepository) CreateEvent(ctx context.Context, event *entities.AlertEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create alert event: %w", err)
	}
	return nil
}

// AttachEventTask links an auto-created work item to its alert event.
func (r *alertRuleRepository) AttachEventTask(ctx context.Context, eventID, taskID uint) error {
	result := r.db.WithContext(ctx).Model(&entities.AlertEvent{}).Where("id = ?", eventID).Update("task_id", taskID)
	if result.Error != nil {
		return fmt.Errorf("failed to attach task %d to alert event %d: %w", taskID, eventID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAlertEventNotFound
	}
	return nil
}

// LastFiredAt returns the creation time of the most recent event for the
// (rule, client) pair, or nil if the pair has never fired.
func (r *alertRuleRepository) LastFiredAt(ctx context.Context, ruleID, clientID uint) (*time.Time, error) {
	var event entities.AlertEvent
	err := r.db.WithContext(ctx).
		Where("rule_id = ? AND client_id = ?", ruleID, clientID).
		Order("created_at DESC").
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up last fired time for rule %d client %d: %w", ruleID, clientID, err)
	}
	firedAt := event.CreatedAt
	return &firedAt, nil
}

// ListEvents returns alert events matching the filter with pagination.
func (r *alertRuleRepository) ListEvents(ctx context.Context, filter AlertEventFilter) ([]entities.AlertEvent, int64, error) {
	var events []entities.AlertEvent
	var total int64

	countQuery := r.db.WithContext(ctx).Model(&entities.AlertEvent{})
	countQuery = applyEventFilter(countQuery, filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count alert events: %w", err)
	}

	query := applyEventFilter(r.db.WithContext(ctx), filter).Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if err := query.Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list alert events: %w", err)
	}
	return events, total, nil
}

func applyEventFilter(query *gorm.DB, filter AlertEventFilter) *gorm.DB {
	if filter.RuleID > 0 {
		query = query.Where("rule_id = ?", filter.RuleID)
	}
	if filter.ClientID > 0 {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if filter.Acknowledged != nil {
		query = query.Where("acknowledged = ?", *filter.Acknowledged)
	}
	return query
}

// AcknowledgeEvent marks an event as acknowledged by an operator.
func (r *alertRuleRepository) AcknowledgeEvent(ctx context.Context, id uint, by string, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&entities.AlertEvent{}).Where("id = ?", id).Updates(map[string]any{
		"acknowledged":    true,
		"acknowledged_by": by,
		"acknowledged_at": at,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to acknowledge alert event %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAlertEventNotFound
	}
	return nil
}

// DeleteEventsBefore deletes alert events older than the given time.
func (r *alertRuleRepository) DeleteEventsBefore(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", before).Delete(&entities.AlertEvent{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete alert events before %v: %w", before, result.Error)
	}
	return result.RowsAffected, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/seodeck/seodeck/internal/datastore/entities"
	"gorm.io/gorm"
)

// recurringRuleRepository implements RecurringTaskRuleRepository.
type recurringRuleRepository struct {
	db *gorm.DB
}

// NewRecurringTaskRuleRepository creates a new RecurringTaskRuleRepository.
func NewRecurringTaskRuleRepository(db *gorm.DB) RecurringTaskRuleRepository {
	return &recurringRuleRepository{db: db}
}

// ListRules returns recurring task rules matching the given filter.
func (r *recurringRuleRepository) ListRules(ctx context.Context, filter RecurringRuleFilter) ([]entities.RecurringTaskRule, error) {
	var rules []entities.RecurringTaskRule
	query := r.db.WithContext(ctx)
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if err := query.Order("id ASC").Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to list recurring task rules: %w", err)
	}
	return rules, nil
}

// GetRule returns a single recurring task rule by ID.
// Returns ErrRecurringRuleNotFound if the rule does not exist.
func (r *recurringRuleRepository) GetRule(ctx context.Context, id uint) (*entities.RecurringTaskRule, error) {
	var rule entities.RecurringTaskRule
	if err := r.db.WithContext(ctx).First(&rule, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecurringRuleNotFound
		}
		return nil, fmt.Errorf("failed to get recurring task rule %d: %w", id, err)
	}
	return &rule, nil
}

// CreateRule creates a new recurring task rule.
func (r *recurringRuleRepository) CreateRule(ctx context.Context, rule *entities.RecurringTaskRule) error {
	if err := r.db.WithContext(ctx).Create(rule).Error; err != nil {
		return fmt.Errorf("failed to create recurring task rule: %w", err)
	}
	return nil
}

// UpdateRule saves all fields of an existing recurring task rule.
func (r *recurringRuleRepository) UpdateRule(ctx context.Context, rule *entities.RecurringTaskRule) error {
	if rule.ID == 0 {
		return fmt.Errorf("failed to update recurring task rule: missing rule ID")
	}
	if err := r.db.WithContext(ctx).Save(rule).Error; err != nil {
		return fmt.Errorf("failed to update recurring task rule %d: %w", rule.ID, err)
	}
	return nil
}

// DeleteRule deletes a recurring task rule.
func (r *recurringRuleRepository) DeleteRule(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.RecurringTaskRule{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete recurring task rule %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecurringRuleNotFound
	}
	return nil
}

// ListDue returns active rules due at the given instant, oldest first.
func (r *recurringRuleRepository) ListDue(ctx context.Context, now time.Time) ([]entities.RecurringTaskRule, error) {
	var rules []entities.RecurringTaskRule
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("next_run_at IS NULL OR next_run_at <= ?", now).
		Order("next_run_at ASC").
		Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list due recurring task rules: %w", err)
	}
	return rules, nil
}

// AdvanceSchedule moves next_run_at forward, guarded by the previous value.
func (r *recurringRuleRepository) AdvanceSchedule(ctx context.Context, id uint, from *time.Time, to time.Time) error {
	query := r.db.WithContext(ctx).Model(&entities.RecurringTaskRule{}).Where("id = ?", id)
	if from == nil {
		query = query.Where("next_run_at IS NULL")
	} else {
		query = query.Where("next_run_at = ?", *from)
	}
	result := query.Update("next_run_at", to)
	if result.Error != nil {
		return fmt.Errorf("failed to advance schedule for recurring task rule %d: %w", id, result.Error)
	}
	// RowsAffected == 0 means a concurrent run already advanced this rule;
	// the occurrence is deduped by the task upsert, so nothing to do.
	return nil
}

// Deactivate disables a rule.
func (r *recurringRuleRepository) Deactivate(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&entities.RecurringTaskRule{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate recurring task rule %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecurringRuleNotFound
	}
	return nil
}

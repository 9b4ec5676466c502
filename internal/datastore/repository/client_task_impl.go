package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/seodeck/seodeck/internal/datastore/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrClientTaskNotFound is returned when a client task does not exist.
var ErrClientTaskNotFound = errors.New("client task not found")

// clientTaskRepository implements ClientTaskRepository.
type clientTaskRepository struct {
	db *gorm.DB
}

// NewClientTaskRepository creates a new ClientTaskRepository.
func NewClientTaskRepository(db *gorm.DB) ClientTaskRepository {
	return &clientTaskRepository{db: db}
}

// UpsertTask inserts a task unless one already exists for the same
// (source_rule_id, occurrence_key). The uniqueness constraint, not query
// timing, is what makes occurrence materialization idempotent across
// retried and overlapping runs.
func (r *clientTaskRepository) UpsertTask(ctx context.Context, task *entities.ClientTask) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source_rule_id"}, {Name: "occurrence_key"}},
		DoNothing: true,
	}).Create(task)
	if result.Error != nil {
		return false, fmt.Errorf("failed to upsert client task: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	// Conflict: load the existing row so the caller sees the real task ID.
	var existing entities.ClientTask
	err := r.db.WithContext(ctx).
		Where("source_rule_id = ? AND occurrence_key = ?", task.SourceRuleID, task.OccurrenceKey).
		First(&existing).Error
	if err != nil {
		return false, fmt.Errorf("failed to load existing client task: %w", err)
	}
	*task = existing
	return false, nil
}

// ListTasks returns client tasks matching the filter with pagination.
func (r *clientTaskRepository) ListTasks(ctx context.Context, filter ClientTaskFilter) ([]entities.ClientTask, int64, error) {
	var tasks []entities.ClientTask
	var total int64

	countQuery := applyTaskFilter(r.db.WithContext(ctx).Model(&entities.ClientTask{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count client tasks: %w", err)
	}

	query := applyTaskFilter(r.db.WithContext(ctx), filter).Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list client tasks: %w", err)
	}
	return tasks, total, nil
}

func applyTaskFilter(query *gorm.DB, filter ClientTaskFilter) *gorm.DB {
	if filter.ClientID > 0 {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if filter.SourceRuleID > 0 {
		query = query.Where("source_rule_id = ?", filter.SourceRuleID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return query
}

// UpdateStatus moves a task to a new status.
func (r *clientTaskRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).Model(&entities.ClientTask{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update client task %d status: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrClientTaskNotFound
	}
	return nil
}

package repository

import (
	"context"

	"github.com/seodeck/seodeck/internal/datastore/entities"
)

// ClientTaskRepository is the work-item sink consumed by the automation
// engine, plus the listing the dashboard needs.
type ClientTaskRepository interface {
	// UpsertTask creates a work item keyed by (source_rule_id,
	// occurrence_key). If a task for the same occurrence already exists the
	// existing row is loaded into task and created is false.
	UpsertTask(ctx context.Context, task *entities.ClientTask) (created bool, err error)

	ListTasks(ctx context.Context, filter ClientTaskFilter) ([]entities.ClientTask, int64, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

// ClientTaskFilter controls task listing queries.
type ClientTaskFilter struct {
	ClientID     uint
	SourceRuleID uint
	Status       string
	Limit        int
	Offset       int
}

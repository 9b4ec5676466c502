package entities

import "time"

// Client task statuses.
const (
	TaskStatusOpen = "open"
	TaskStatusDone = "done"
)

// ClientTask is a work item for the agency team. Tasks created by the
// automation engine carry a (source_rule_id, occurrence_key) pair; the
// unique index makes materialization an idempotent upsert, so overlapping
// or retried runs cannot create a second task for the same occurrence.
type ClientTask struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ClientID    *uint  `gorm:"index" json:"client_id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Category    string `gorm:"size:100;default:''" json:"category"`
	Description string `gorm:"size:2000;default:''" json:"description"`
	Status      string `gorm:"size:20;not null;default:'open'" json:"status"`

	// Idempotency correlation for automation-created tasks; NULL for tasks
	// created by hand in the dashboard.
	SourceRuleID  *uint  `gorm:"uniqueIndex:idx_client_tasks_rule_occurrence,priority:1" json:"source_rule_id"`
	OccurrenceKey string `gorm:"size:100;default:'';uniqueIndex:idx_client_tasks_rule_occurrence,priority:2" json:"occurrence_key"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for GORM.
func (ClientTask) TableName() string {
	return "client_tasks"
}

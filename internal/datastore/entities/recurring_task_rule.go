package entities

import "time"

// RecurringTaskRule materializes a work item on a cron schedule.
// NextRunAt is NULL for a freshly created rule (due immediately, the first
// run establishes the baseline) and is advanced by the recurrence run only
// after the occurrence's task has been durably created.
type RecurringTaskRule struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Name           string     `gorm:"size:255;not null" json:"name"`
	IsActive       bool       `gorm:"not null;index" json:"is_active"`
	CronExpression string     `gorm:"size:100;not null" json:"cron_expression"`
	NextRunAt      *time.Time `gorm:"index" json:"next_run_at"`

	TaskTitle       string `gorm:"size:255;not null" json:"task_title"`
	TaskCategory    string `gorm:"size:100;default:''" json:"task_category"`
	TaskDescription string `gorm:"size:2000;default:''" json:"task_description"`
	// TargetClientID assigns created tasks to a client; NULL creates an
	// agency-level task.
	TargetClientID *uint `json:"target_client_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for GORM.
func (RecurringTaskRule) TableName() string {
	return "recurring_task_rules"
}

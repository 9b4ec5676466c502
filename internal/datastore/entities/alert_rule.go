package entities

import "time"

// AlertRule defines an operator-configurable alerting rule. A rule watches
// one snapshot source and fires when its condition matches an entity,
// subject to a per-(rule, client) cooldown.
type AlertRule struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"size:1000;default:''" json:"description"`
	IsActive    bool   `gorm:"not null;index" json:"is_active"`
	BuiltIn     bool   `gorm:"not null;default:false" json:"built_in"`
	SourceType  string `gorm:"size:50;not null;index" json:"source_type"`

	// Condition. Only the "threshold" condition type is evaluated today;
	// "delta" and "stale" are reserved enum values.
	ConditionType     string `gorm:"size:20;not null;default:'threshold'" json:"condition_type"`
	ConditionField    string `gorm:"size:100;not null" json:"condition_field"`
	ConditionOperator string `gorm:"size:10;not null" json:"condition_operator"`
	ConditionValue    string `gorm:"size:500;not null" json:"condition_value"`

	Severity        string `gorm:"size:20;not null;default:'warning'" json:"severity"`
	NotifyOnTrigger bool   `gorm:"not null;default:false" json:"notify_on_trigger"`
	CooldownMinutes int    `gorm:"not null;default:0" json:"cooldown_minutes"`

	// Optional follow-up work item created when the rule fires.
	AutoCreateTask  bool   `gorm:"not null;default:false" json:"auto_create_task"`
	TaskTitle       string `gorm:"size:255;default:''" json:"task_title"`
	TaskCategory    string `gorm:"size:100;default:''" json:"task_category"`
	TaskDescription string `gorm:"size:2000;default:''" json:"task_description"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for GORM.
func (AlertRule) TableName() string {
	return "alert_rules"
}

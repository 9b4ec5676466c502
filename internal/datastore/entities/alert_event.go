package entities

import "time"

// AlertEvent records one firing of an alert rule against a client. Events
// are immutable apart from acknowledgement. CreatedAt doubles as the
// lastFiredAt input to the cooldown gate, so the (rule, client, created)
// index backs both history listing and cooldown lookups.
type AlertEvent struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	RuleID   uint `gorm:"not null;index:idx_alert_events_rule_client,priority:1" json:"rule_id"`
	ClientID uint `gorm:"not null;index:idx_alert_events_rule_client,priority:2" json:"client_id"`
	// Severity is copied from the rule at fire time so later rule edits do
	// not rewrite history.
	Severity string `gorm:"size:20;not null" json:"severity"`
	Message  string `gorm:"size:1000;default:''" json:"message"`
	// Value is the diagnostic snapshot value that satisfied the condition.
	Value string `gorm:"size:500;default:''" json:"value"`

	Acknowledged   bool       `gorm:"not null;default:false;index" json:"acknowledged"`
	AcknowledgedBy string     `gorm:"size:255;default:''" json:"acknowledged_by"`
	AcknowledgedAt *time.Time `json:"acknowledged_at"`

	// TaskID links the auto-created work item, when the rule requested one.
	TaskID *uint `json:"task_id"`

	CreatedAt time.Time `gorm:"not null;index:idx_alert_events_rule_client,priority:3" json:"created_at"`
	Rule      AlertRule `gorm:"foreignKey:RuleID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM.
func (AlertEvent) TableName() string {
	return "alert_events"
}

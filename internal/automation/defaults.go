package automation

import (
	"github.com/seodeck/seodeck/internal/datastore/entities"
)

// DefaultRules returns the built-in alert rules that ship with SeoDeck.
// They are seeded on first start and re-created by name if missing.
func DefaultRules() []entities.AlertRule {
	return []entities.AlertRule{
		{
			Name:              "Website may be stale",
			Description:       "Fires when a client site has had no deploy or content update within its staleness window",
			IsActive:          true,
			BuiltIn:           true,
			SourceType:        SourceTypeHealth,
			ConditionType:     ConditionTypeThreshold,
			ConditionField:    FieldIsStale,
			ConditionOperator: OperatorEquals,
			ConditionValue:    "true",
			Severity:          SeverityWarning,
			NotifyOnTrigger:   true,
			CooldownMinutes:   10080, // one week
		},
		{
			Name:              "No deploy in 60 days",
			Description:       "Fires when a client site has not been deployed for 60 days",
			IsActive:          true,
			BuiltIn:           true,
			SourceType:        SourceTypeHealth,
			ConditionType:     ConditionTypeThreshold,
			ConditionField:    FieldDaysSinceDeploy,
			ConditionOperator: OperatorGreaterOrEqual,
			ConditionValue:    "60",
			Severity:          SeverityInfo,
			CooldownMinutes:   10080,
			AutoCreateTask:    true,
			TaskTitle:         "Review deploy cadence",
			TaskCategory:      "maintenance",
			TaskDescription:   "The site has not shipped a deploy in over 60 days. Check whether work is queued or the client has gone quiet.",
		},
		{
			Name:              "Critical crawl issues found",
			Description:       "Fires when the latest site scan reports critical issues",
			IsActive:          true,
			BuiltIn:           true,
			SourceType:        SourceTypeScan,
			ConditionType:     ConditionTypeThreshold,
			ConditionField:    FieldIssuesCritical,
			ConditionOperator: OperatorGreaterThan,
			ConditionValue:    "0",
			Severity:          SeverityCritical,
			NotifyOnTrigger:   true,
			CooldownMinutes:   1440, // daily at most
			AutoCreateTask:    true,
			TaskTitle:         "Fix critical crawl issues",
			TaskCategory:      "technical-seo",
			TaskDescription:   "The latest crawl found critical issues. Triage and fix before the next scan.",
		},
		{
			Name:              "Crawl score dropped below 70",
			Description:       "Fires when the latest site scan scores below 70",
			IsActive:          true,
			BuiltIn:           true,
			SourceType:        SourceTypeScan,
			ConditionType:     ConditionTypeThreshold,
			ConditionField:    FieldScanScore,
			ConditionOperator: OperatorLessThan,
			ConditionValue:    "70",
			Severity:          SeverityWarning,
			CooldownMinutes:   1440,
		},
	}
}

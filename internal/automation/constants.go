// Package automation implements the SeoDeck automation engine: the alert
// evaluation run and the recurring task run. Both are stateless batch
// functions invoked by an external trigger (HTTP cron or CLI) and rely on
// persisted history plus database uniqueness constraints for exactly-once
// effects, so overlapping invocations and process restarts are safe.
package automation

// Source types identify which entity snapshot a rule evaluates.
const (
	SourceTypeHealth = "health"
	SourceTypeScan   = "scan"
)

// Condition types. Only threshold is evaluated today; delta and stale are
// reserved enum values for future variants.
const (
	ConditionTypeThreshold = "threshold"
	ConditionTypeDelta     = "delta"
	ConditionTypeStale     = "stale"
)

// Condition operators compare a snapshot field against the rule value.
const (
	OperatorEquals         = "eq"
	OperatorNotEquals      = "ne"
	OperatorGreaterThan    = "gt"
	OperatorGreaterOrEqual = "gte"
	OperatorLessThan       = "lt"
	OperatorLessOrEqual    = "lte"
)

// Alert severities.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Snapshot fields published by the "health" source.
const (
	FieldIsStale                = "isStale"
	FieldDaysSinceDeploy        = "daysSinceDeploy"
	FieldDaysSinceContentUpdate = "daysSinceContentUpdate"
)

// Snapshot fields published by the "scan" source.
const (
	FieldScanScore      = "score"
	FieldIssuesCritical = "issuesCritical"
	FieldIssuesTotal    = "issuesTotal"
)

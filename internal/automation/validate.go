package automation

import (
	"fmt"
	"strconv"

	"github.com/seodeck/seodeck/internal/datastore/entities"
)

// ValidateRule checks that a rule's condition spec is structurally valid
// for its condition type before evaluation. An invalid rule is skipped and
// reported by the run; it never crashes the batch and stays active for a
// human to fix.
func ValidateRule(rule *entities.AlertRule) error {
	switch rule.ConditionType {
	case ConditionTypeThreshold:
	case ConditionTypeDelta, ConditionTypeStale:
		return fmt.Errorf("%w: condition type %q is not yet supported", ErrConditionConfig, rule.ConditionType)
	default:
		return fmt.Errorf("%w: unknown condition type %q", ErrConditionConfig, rule.ConditionType)
	}

	if rule.ConditionField == "" {
		return fmt.Errorf("%w: condition field is empty", ErrConditionConfig)
	}

	switch rule.ConditionOperator {
	case OperatorEquals, OperatorNotEquals:
	case OperatorGreaterThan, OperatorGreaterOrEqual, OperatorLessThan, OperatorLessOrEqual:
		if _, err := strconv.ParseFloat(rule.ConditionValue, 64); err != nil {
			return fmt.Errorf("%w: value %q is not numeric but operator %q requires ordering",
				ErrConditionConfig, rule.ConditionValue, rule.ConditionOperator)
		}
	default:
		return fmt.Errorf("%w: unknown operator %q", ErrConditionConfig, rule.ConditionOperator)
	}

	if rule.CooldownMinutes < 0 {
		return fmt.Errorf("%w: cooldown must not be negative", ErrConditionConfig)
	}
	if rule.AutoCreateTask && rule.TaskTitle == "" {
		return fmt.Errorf("%w: auto-created task needs a title template", ErrConditionConfig)
	}
	return nil
}

// conditionFromRule builds the evaluator input from the persisted columns.
func conditionFromRule(rule *entities.AlertRule) ConditionConfig {
	return ConditionConfig{
		Field:    rule.ConditionField,
		Operator: rule.ConditionOperator,
		Value:    rule.ConditionValue,
	}
}

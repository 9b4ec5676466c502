package automation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seodeck/seodeck/internal/datastore/entities"
)

func validRule() *entities.AlertRule {
	return &entities.AlertRule{
		Name:              "Crawl score dropped",
		SourceType:        SourceTypeScan,
		ConditionType:     ConditionTypeThreshold,
		ConditionField:    FieldScanScore,
		ConditionOperator: OperatorLessThan,
		ConditionValue:    "70",
		Severity:          SeverityWarning,
		IsActive:          true,
	}
}

func TestValidateRule(t *testing.T) {
	t.Run("valid threshold rule", func(t *testing.T) {
		require.NoError(t, ValidateRule(validRule()))
	})

	t.Run("equality value need not be numeric", func(t *testing.T) {
		rule := validRule()
		rule.ConditionOperator = OperatorEquals
		rule.ConditionValue = "true"
		require.NoError(t, ValidateRule(rule))
	})

	tests := []struct {
		name   string
		mutate func(*entities.AlertRule)
	}{
		{"unknown condition type", func(r *entities.AlertRule) { r.ConditionType = "regex" }},
		{"reserved condition type delta", func(r *entities.AlertRule) { r.ConditionType = ConditionTypeDelta }},
		{"empty field", func(r *entities.AlertRule) { r.ConditionField = "" }},
		{"unknown operator", func(r *entities.AlertRule) { r.ConditionOperator = "between" }},
		{"non-numeric ordering value", func(r *entities.AlertRule) { r.ConditionValue = "low" }},
		{"negative cooldown", func(r *entities.AlertRule) { r.CooldownMinutes = -5 }},
		{"auto task without title", func(r *entities.AlertRule) {
			r.AutoCreateTask = true
			r.TaskTitle = ""
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rule := validRule()
			tc.mutate(rule)
			err := ValidateRule(rule)
			assert.ErrorIs(t, err, ErrConditionConfig)
		})
	}
}

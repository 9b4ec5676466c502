package automation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrConditionConfig marks a configuration error: a rule whose condition
// cannot be evaluated as authored. Callers report these separately from a
// normal non-match so operators can tell "didn't fire" from "can't fire".
var ErrConditionConfig = errors.New("invalid condition configuration")

// Snapshot is a flattened key→value view of an entity's monitored state.
type Snapshot map[string]any

// ConditionConfig is the threshold condition spec evaluated against a
// snapshot: field OPERATOR value.
type ConditionConfig struct {
	Field    string
	Operator string
	Value    string
}

// MatchResult carries the outcome of one condition evaluation together with
// the diagnostic value that produced it.
type MatchResult struct {
	Matched bool
	Actual  any
}

// Evaluate applies the condition to a snapshot. It is a pure predicate:
// no side effects, never panics.
//
// A missing field never matches; partial snapshots must not raise false
// alarms. eq/ne compare stringified values case-insensitively, which covers
// string, boolean, and exact numeric equality. Ordering operators compare
// numerically; a non-numeric operand there is a configuration error.
func Evaluate(cfg ConditionConfig, snapshot Snapshot) (MatchResult, error) {
	actual, ok := snapshot[cfg.Field]
	if !ok {
		return MatchResult{}, nil
	}

	switch cfg.Operator {
	case OperatorEquals:
		return MatchResult{Matched: stringEqual(actual, cfg.Value), Actual: actual}, nil
	case OperatorNotEquals:
		return MatchResult{Matched: !stringEqual(actual, cfg.Value), Actual: actual}, nil
	case OperatorGreaterThan, OperatorGreaterOrEqual, OperatorLessThan, OperatorLessOrEqual:
		return evaluateOrdering(cfg, actual)
	default:
		return MatchResult{Actual: actual}, fmt.Errorf("%w: unknown operator %q", ErrConditionConfig, cfg.Operator)
	}
}

func evaluateOrdering(cfg ConditionConfig, actual any) (MatchResult, error) {
	actualFloat, err := toFloat64(actual)
	if err != nil {
		return MatchResult{Actual: actual}, fmt.Errorf(
			"%w: field %q value %v is not numeric but operator %q requires ordering",
			ErrConditionConfig, cfg.Field, actual, cfg.Operator)
	}
	threshold, err := strconv.ParseFloat(cfg.Value, 64)
	if err != nil {
		return MatchResult{Actual: actual}, fmt.Errorf(
			"%w: condition value %q is not numeric but operator %q requires ordering",
			ErrConditionConfig, cfg.Value, cfg.Operator)
	}

	var matched bool
	switch cfg.Operator {
	case OperatorGreaterThan:
		matched = actualFloat > threshold
	case OperatorGreaterOrEqual:
		matched = actualFloat >= threshold
	case OperatorLessThan:
		matched = actualFloat < threshold
	case OperatorLessOrEqual:
		matched = actualFloat <= threshold
	}
	return MatchResult{Matched: matched, Actual: actual}, nil
}

func stringEqual(actual any, value string) bool {
	return strings.EqualFold(fmt.Sprintf("%v", actual), value)
}

func toFloat64(val any) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", val)
	}
}

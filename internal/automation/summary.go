package automation

import (
	"time"

	"github.com/google/uuid"
)

// RunError records one per-rule failure inside a batch.
type RunError struct {
	RuleID  uint   `json:"rule_id"`
	Message string `json:"message"`
}

// Suppression records a (rule, client) pair that matched its condition but
// was withheld from firing by the cooldown gate. Not an error.
type Suppression struct {
	RuleID   uint `json:"rule_id"`
	ClientID uint `json:"client_id"`
}

// RunSummary is the synchronous result of one evaluation batch. A run
// always returns a summary; per-item failures accumulate in Errors and
// never abort the batch.
type RunSummary struct {
	RunID          string        `json:"run_id"`
	RulesProcessed int           `json:"rules_processed"`
	Created        []uint        `json:"created"`
	Suppressed     []Suppression `json:"suppressed"`
	Errors         []RunError    `json:"errors"`
	// Skipped lists rule IDs not reached before the run budget expired;
	// they are picked up by the next invocation.
	Skipped    []uint    `json:"skipped"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func newRunSummary() *RunSummary {
	return &RunSummary{
		RunID:      uuid.NewString(),
		Created:    []uint{},
		Suppressed: []Suppression{},
		Errors:     []RunError{},
		Skipped:    []uint{},
		StartedAt:  time.Now().UTC(),
	}
}

func (s *RunSummary) addError(ruleID uint, err error) {
	s.Errors = append(s.Errors, RunError{RuleID: ruleID, Message: err.Error()})
}

func (s *RunSummary) finish() *RunSummary {
	s.FinishedAt = time.Now().UTC()
	return s
}

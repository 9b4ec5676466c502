package automation

import (
	"context"

	"github.com/seodeck/seodeck/internal/datastore/repository"
	"go.uber.org/zap"
)

// SeedDefaultRules ensures all built-in default rules exist. It checks by
// name so partial seeds from previous runs self-heal on restart.
func SeedDefaultRules(ctx context.Context, repo repository.AlertRuleRepository, log *zap.Logger) error {
	existing, err := repo.ListRules(ctx, repository.AlertRuleFilter{})
	if err != nil {
		return err
	}

	existingNames := make(map[string]struct{}, len(existing))
	for i := range existing {
		existingNames[existing[i].Name] = struct{}{}
	}

	defaults := DefaultRules()
	var created int
	for i := range defaults {
		if _, exists := existingNames[defaults[i].Name]; exists {
			continue
		}
		if err := repo.CreateRule(ctx, &defaults[i]); err != nil {
			return err
		}
		created++
	}
	if created > 0 {
		log.Info("seeded default alert rules", zap.Int("created", created))
	}
	return nil
}

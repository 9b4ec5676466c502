// Package monitor provides the snapshot sources the automation engine
// evaluates: flattened key→value views of each client's monitored state.
package monitor

import (
	"context"
	"time"

	"github.com/seodeck/seodeck/internal/automation"
	"github.com/seodeck/seodeck/internal/datastore/repository"
)

// DefaultStaleAfterDays applies when a client has no per-client window.
const DefaultStaleAfterDays = 30

// HealthSource publishes staleness and deploy-cadence state per client.
type HealthSource struct {
	clients repository.ClientRepository
	now     func() time.Time
}

// NewHealthSource creates a HealthSource.
func NewHealthSource(clients repository.ClientRepository) *HealthSource {
	return &HealthSource{clients: clients, now: time.Now}
}

// SourceType implements automation.SnapshotSource.
func (s *HealthSource) SourceType() string {
	return automation.SourceTypeHealth
}

// LoadSnapshots flattens each active client into a snapshot. Timestamps
// that were never recorded are omitted rather than zeroed, so conditions
// on them fall back to the evaluator's conservative missing-field default.
func (s *HealthSource) LoadSnapshots(ctx context.Context) ([]automation.EntitySnapshot, error) {
	clients, err := s.clients.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	snapshots := make([]automation.EntitySnapshot, 0, len(clients))
	for i := range clients {
		client := &clients[i]
		values := automation.Snapshot{}

		// The freshest of deploy, content update, and creation anchors the
		// staleness check, so a never-deployed but newly onboarded client
		// is not immediately stale.
		freshest := client.CreatedAt
		if client.LastDeployAt != nil {
			values[automation.FieldDaysSinceDeploy] = daysSince(*client.LastDeployAt, now)
			if client.LastDeployAt.After(freshest) {
				freshest = *client.LastDeployAt
			}
		}
		if client.LastContentUpdateAt != nil {
			values[automation.FieldDaysSinceContentUpdate] = daysSince(*client.LastContentUpdateAt, now)
			if client.LastContentUpdateAt.After(freshest) {
				freshest = *client.LastContentUpdateAt
			}
		}

		staleAfter := client.StaleAfterDays
		if staleAfter <= 0 {
			staleAfter = DefaultStaleAfterDays
		}
		values[automation.FieldIsStale] = daysSince(freshest, now) >= staleAfter

		snapshots = append(snapshots, automation.EntitySnapshot{
			ClientID: client.ID,
			Values:   values,
		})
	}
	return snapshots, nil
}

func daysSince(t, now time.Time) int {
	return int(now.Sub(t).Hours() / 24)
}

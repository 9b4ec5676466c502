package monitor

import (
	"context"

	"github.com/seodeck/seodeck/internal/automation"
	"github.com/seodeck/seodeck/internal/datastore/repository"
)

// ScanSource publishes the latest crawl result per client. Clients that
// have never been scanned produce no snapshot, so scan-based rules cannot
// fire on them.
type ScanSource struct {
	clients repository.ClientRepository
}

// NewScanSource creates a ScanSource.
func NewScanSource(clients repository.ClientRepository) *ScanSource {
	return &ScanSource{clients: clients}
}

// SourceType implements automation.SnapshotSource.
func (s *ScanSource) SourceType() string {
	return automation.SourceTypeScan
}

// LoadSnapshots flattens the most recent SiteScan per client.
func (s *ScanSource) LoadSnapshots(ctx context.Context) ([]automation.EntitySnapshot, error) {
	scans, err := s.clients.LatestScans(ctx)
	if err != nil {
		return nil, err
	}

	snapshots := make([]automation.EntitySnapshot, 0, len(scans))
	for i := range scans {
		scan := &scans[i]
		snapshots = append(snapshots, automation.EntitySnapshot{
			ClientID: scan.ClientID,
			Values: automation.Snapshot{
				automation.FieldScanScore:      scan.Score,
				automation.FieldIssuesCritical: scan.IssuesCritical,
				automation.FieldIssuesTotal:    scan.IssuesTotal,
			},
		})
	}
	return snapshots, nil
}

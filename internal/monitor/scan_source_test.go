package monitor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seodeck/seodeck/internal/automation"
	"github.com/seodeck/seodeck/internal/datastore/entities"
)

func TestScanSource_FlattensLatestScans(t *testing.T) {
	repo := &mockClientRepo{scans: []entities.SiteScan{
		{ID: 5, ClientID: 1, Score: 64, IssuesCritical: 2, IssuesTotal: 17},
		{ID: 6, ClientID: 2, Score: 91, IssuesCritical: 0, IssuesTotal: 3},
	}}
	source := NewScanSource(repo)

	assert.Equal(t, automation.SourceTypeScan, source.SourceType())

	snaps, err := source.LoadSnapshots(context.Background())
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	byClient := snapshotByClient(t, snaps)
	assert.Equal(t, 64, byClient[1][automation.FieldScanScore])
	assert.Equal(t, 2, byClient[1][automation.FieldIssuesCritical])
	assert.Equal(t, 17, byClient[1][automation.FieldIssuesTotal])
	assert.Equal(t, 91, byClient[2][automation.FieldScanScore])
}

func TestScanSource_NoScansNoSnapshots(t *testing.T) {
	source := NewScanSource(&mockClientRepo{})
	snaps, err := source.LoadSnapshots(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

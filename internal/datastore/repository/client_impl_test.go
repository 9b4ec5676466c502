package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seodeck/seodeck/internal/datastore/entities"
)

func createTestClient(t *testing.T, repo ClientRepository, name, domain string, active bool) *entities.Client {
	t.Helper()
	client := &entities.Client{Name: name, Domain: domain, IsActive: active}
	require.NoError(t, repo.CreateClient(context.Background(), client))
	require.NotZero(t, client.ID)
	return client
}

func TestClientRepository_ListActive(t *testing.T) {
	repo := NewClientRepository(setupTestDB(t))
	ctx := context.Background()

	active := createTestClient(t, repo, "Acme", "acme.example", true)
	createTestClient(t, repo, "Gone", "gone.example", false)

	clients, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, active.ID, clients[0].ID)
}

func TestClientRepository_GetClient(t *testing.T) {
	repo := NewClientRepository(setupTestDB(t))
	ctx := context.Background()

	client := createTestClient(t, repo, "Acme", "acme.example", true)

	got, err := repo.GetClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme.example", got.Domain)

	_, err = repo.GetClient(ctx, 9999)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestClientRepository_LatestScans(t *testing.T) {
	repo := NewClientRepository(setupTestDB(t))
	ctx := context.Background()

	one := createTestClient(t, repo, "One", "one.example", true)
	two := createTestClient(t, repo, "Two", "two.example", true)

	require.NoError(t, repo.CreateScan(ctx, &entities.SiteScan{ClientID: one.ID, Score: 80}))
	require.NoError(t, repo.CreateScan(ctx, &entities.SiteScan{ClientID: one.ID, Score: 64, IssuesCritical: 2}))
	require.NoError(t, repo.CreateScan(ctx, &entities.SiteScan{ClientID: two.ID, Score: 91}))

	scans, err := repo.LatestScans(ctx)
	require.NoError(t, err)
	require.Len(t, scans, 2)

	byClient := make(map[uint]entities.SiteScan, len(scans))
	for _, scan := range scans {
		byClient[scan.ClientID] = scan
	}
	assert.Equal(t, 64, byClient[one.ID].Score, "newest scan wins")
	assert.Equal(t, 2, byClient[one.ID].IssuesCritical)
	assert.Equal(t, 91, byClient[two.ID].Score)
}

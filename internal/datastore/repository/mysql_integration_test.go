//go:build integration

package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/seodeck/seodeck/internal/datastore/entities"
	"github.com/seodeck/seodeck/internal/datastore/repository"
	"github.com/seodeck/seodeck/internal/testutil/containers"
)

var (
	mysqlContainer *containers.MySQLContainer
	testDB         *gorm.DB
)

// TestMain starts one MySQL container for the whole package. These tests
// exist to verify the unique-index upsert and the guarded schedule advance
// against the production database engine; SQLite covers everything else.
func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	mysqlContainer, err = containers.NewMySQLContainer(ctx, nil)
	if err != nil {
		panic("failed to create MySQL container: " + err.Error())
	}

	testDB, err = mysqlContainer.Gorm()
	if err != nil {
		_ = mysqlContainer.Terminate(context.Background())
		panic("failed to open gorm session: " + err.Error())
	}
	if err := testDB.AutoMigrate(
		&entities.Client{},
		&entities.SiteScan{},
		&entities.AlertRule{},
		&entities.AlertEvent{},
		&entities.RecurringTaskRule{},
		&entities.ClientTask{},
	); err != nil {
		_ = mysqlContainer.Terminate(context.Background())
		panic("failed to migrate schema: " + err.Error())
	}

	code := m.Run()

	if err := mysqlContainer.Terminate(context.Background()); err != nil {
		panic("failed to terminate MySQL container: " + err.Error())
	}
	os.Exit(code)
}

func resetTables(t *testing.T) {
	t.Helper()
	require.NoError(t, mysqlContainer.Reset(context.Background(), []string{
		"client_tasks", "alert_events", "alert_rules",
		"recurring_task_rules", "site_scans", "clients",
	}))
}

func TestMySQL_UpsertTaskUniqueness(t *testing.T) {
	resetTables(t)
	repo := repository.NewClientTaskRepository(testDB)
	ctx := context.Background()

	ruleID := uint(1)
	task := func() *entities.ClientTask {
		return &entities.ClientTask{
			Title:         "Run content audit",
			Status:        entities.TaskStatusOpen,
			SourceRuleID:  &ruleID,
			OccurrenceKey: "2024-01-08T09:00:00Z",
		}
	}

	first := task()
	created, err := repo.UpsertTask(ctx, first)
	require.NoError(t, err)
	require.True(t, created)

	// The unique index, not query timing, dedupes the retry.
	retry := task()
	created, err = repo.UpsertTask(ctx, retry)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, retry.ID)

	var count int64
	require.NoError(t, testDB.Model(&entities.ClientTask{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMySQL_ConcurrentUpsertsCreateOneTask(t *testing.T) {
	resetTables(t)
	repo := repository.NewClientTaskRepository(testDB)
	ctx := context.Background()

	ruleID := uint(2)
	const workers = 8
	createdCh := make(chan bool, workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			task := &entities.ClientTask{
				Title:         "Run content audit",
				Status:        entities.TaskStatusOpen,
				SourceRuleID:  &ruleID,
				OccurrenceKey: "2024-01-15T09:00:00Z",
			}
			created, err := repo.UpsertTask(ctx, task)
			createdCh <- created
			errCh <- err
		}()
	}

	var createdCount int
	for i := 0; i < workers; i++ {
		require.NoError(t, <-errCh)
		if <-createdCh {
			createdCount++
		}
	}
	assert.Equal(t, 1, createdCount, "exactly one overlapping run wins the insert")

	var count int64
	require.NoError(t, testDB.Model(&entities.ClientTask{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMySQL_AdvanceScheduleGuard(t *testing.T) {
	resetTables(t)
	repo := repository.NewRecurringTaskRuleRepository(testDB)
	ctx := context.Background()

	first := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	second := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	rule := &entities.RecurringTaskRule{
		Name:           "weekly audit",
		IsActive:       true,
		CronExpression: "0 9 * * 1",
		NextRunAt:      &first,
		TaskTitle:      "Run content audit",
	}
	require.NoError(t, repo.CreateRule(ctx, rule))

	// Two runs observed the same rule; only the first advance lands.
	require.NoError(t, repo.AdvanceSchedule(ctx, rule.ID, &first, second))
	require.NoError(t, repo.AdvanceSchedule(ctx, rule.ID, &first, second.Add(7*24*time.Hour)))

	got, err := repo.GetRule(ctx, rule.ID)
	require.NoError(t, err)
	require.NotNil(t, got.NextRunAt)
	assert.True(t, got.NextRunAt.UTC().Equal(second))
}

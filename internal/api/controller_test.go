package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"

	"github.com/seodeck/seodeck/internal/automation"
	"github.com/seodeck/seodeck/internal/datastore/entities"
	"github.com/seodeck/seodeck/internal/datastore/repository"
	"github.com/seodeck/seodeck/internal/monitor"
)

type testServer struct {
	echo       *echo.Echo
	ruleRepo   repository.AlertRuleRepository
	clientRepo repository.ClientRepository
	taskRepo   repository.ClientTaskRepository
	secret     string
}

func newTestServer(t *testing.T, secret string) *testServer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_foreign_keys=ON"), &gorm.Config{
		Logger: gorm_logger.Default.LogMode(gorm_logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entities.Client{},
		&entities.SiteScan{},
		&entities.AlertRule{},
		&entities.AlertEvent{},
		&entities.RecurringTaskRule{},
		&entities.ClientTask{},
	))

	ruleRepo := repository.NewAlertRuleRepository(db)
	recurringRepo := repository.NewRecurringTaskRuleRepository(db)
	taskRepo := repository.NewClientTaskRepository(db)
	clientRepo := repository.NewClientRepository(db)

	log := zap.NewNop()
	sources := []automation.SnapshotSource{
		monitor.NewHealthSource(clientRepo),
		monitor.NewScanSource(clientRepo),
	}
	controller := NewController(
		ruleRepo,
		recurringRepo,
		taskRepo,
		automation.NewAlertRunner(ruleRepo, taskRepo, sources, nil, log),
		automation.NewRecurrenceRunner(recurringRepo, taskRepo, log),
		5*time.Second,
		secret,
		log,
	)

	e := echo.New()
	controller.RegisterRoutes(e.Group("/api/v1"))
	return &testServer{
		echo:       e,
		ruleRepo:   ruleRepo,
		clientRepo: clientRepo,
		taskRepo:   taskRepo,
		secret:     secret,
	}
}

func (s *testServer) request(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func withSecret(secret string) map[string]string {
	return map[string]string{automationSecretHeader: secret}
}

func TestAutomationTrigger_RequiresSecret(t *testing.T) {
	s := newTestServer(t, "hunter2")

	rec := s.request(http.MethodPost, "/api/v1/automation/alerts/run", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.request(http.MethodPost, "/api/v1/automation/alerts/run", "", withSecret("wrong"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.request(http.MethodPost, "/api/v1/automation/alerts/run", "", withSecret("hunter2"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAutomationTrigger_EmptySecretDisablesEndpoints(t *testing.T) {
	s := newTestServer(t, "")
	rec := s.request(http.MethodPost, "/api/v1/automation/recurrence/run", "", withSecret(""))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRunAlerts_EndToEnd(t *testing.T) {
	s := newTestServer(t, "hunter2")
	ctx := context.Background()

	client := &entities.Client{Name: "Acme", Domain: "acme.example", IsActive: true}
	require.NoError(t, s.clientRepo.CreateClient(ctx, client))
	require.NoError(t, s.clientRepo.CreateScan(ctx, &entities.SiteScan{ClientID: client.ID, Score: 64}))

	require.NoError(t, s.ruleRepo.CreateRule(ctx, &entities.AlertRule{
		Name:              "Crawl score dropped below 70",
		IsActive:          true,
		SourceType:        "scan",
		ConditionType:     "threshold",
		ConditionField:    "score",
		ConditionOperator: "lt",
		ConditionValue:    "70",
		Severity:          "warning",
		CooldownMinutes:   60,
	}))

	rec := s.request(http.MethodPost, "/api/v1/automation/alerts/run", "", withSecret("hunter2"))
	require.Equal(t, http.StatusOK, rec.Code)

	var summary automation.RunSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 1, summary.RulesProcessed)
	assert.Len(t, summary.Created, 1)
	assert.Empty(t, summary.Errors)

	// The second trigger inside the cooldown window suppresses.
	rec = s.request(http.MethodPost, "/api/v1/automation/alerts/run", "", withSecret("hunter2"))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Empty(t, summary.Created)
	assert.Len(t, summary.Suppressed, 1)

	rec = s.request(http.MethodGet, "/api/v1/alerts/events", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var events struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	assert.Equal(t, int64(1), events.Total)
}

func TestRunRecurrence_EndToEnd(t *testing.T) {
	s := newTestServer(t, "hunter2")

	rec := s.request(http.MethodPost, "/api/v1/recurring/rules", `{
		"name": "Weekly content audit",
		"is_active": true,
		"cron_expression": "0 9 * * 1",
		"task_title": "Run content audit",
		"task_category": "content"
	}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created entities.RecurringTaskRule
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Nil(t, created.NextRunAt, "new rules start unscheduled")

	rec = s.request(http.MethodPost, "/api/v1/automation/recurrence/run", "", withSecret("hunter2"))
	require.Equal(t, http.StatusOK, rec.Code)
	var summary automation.RunSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Len(t, summary.Created, 1)

	rec = s.request(http.MethodGet, "/api/v1/tasks", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks struct {
		Total int64                 `json:"total"`
		Tasks []entities.ClientTask `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Equal(t, int64(1), tasks.Total)
	assert.Equal(t, "Run content audit", tasks.Tasks[0].Title)

	// Triggering again before the next due instant creates nothing new.
	rec = s.request(http.MethodPost, "/api/v1/automation/recurrence/run", "", withSecret("hunter2"))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Empty(t, summary.Created)

	rec = s.request(http.MethodGet, "/api/v1/tasks", "", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	assert.Equal(t, int64(1), tasks.Total)
}

func TestAlertRuleEndpoints(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.request(http.MethodPost, "/api/v1/alerts/rules", `{
		"name": "Critical issues",
		"is_active": true,
		"source_type": "scan",
		"condition_type": "threshold",
		"condition_field": "issuesCritical",
		"condition_operator": "gt",
		"condition_value": "0",
		"severity": "critical"
	}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var rule entities.AlertRule
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rule))
	require.NotZero(t, rule.ID)
	assert.False(t, rule.BuiltIn, "clients cannot mint built-in rules")

	rec = s.request(http.MethodGet, "/api/v1/alerts/rules/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.request(http.MethodPatch, "/api/v1/alerts/rules/"+itoa(rule.ID)+"/toggle", `{"is_active": false}`, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.request(http.MethodGet, "/api/v1/alerts/rules?is_active=false", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)

	rec = s.request(http.MethodDelete, "/api/v1/alerts/rules/"+itoa(rule.ID), "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCreateAlertRule_RejectsInvalidCondition(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.request(http.MethodPost, "/api/v1/alerts/rules", `{
		"name": "Broken",
		"source_type": "scan",
		"condition_type": "threshold",
		"condition_field": "score",
		"condition_operator": "lt",
		"condition_value": "low"
	}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRecurringRule_RejectsInvalidCron(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.request(http.MethodPost, "/api/v1/recurring/rules", `{
		"name": "Broken",
		"cron_expression": "whenever",
		"task_title": "x"
	}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAlertSchema(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.request(http.MethodGet, "/api/v1/alerts/schema", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var schema automation.Schema
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schema))
	assert.NotEmpty(t, schema.SourceTypes)
	assert.NotEmpty(t, schema.Operators)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

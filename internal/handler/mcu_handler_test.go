package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarga-apparel/employee-portal-api/internal/models"
	"github.com/swarga-apparel/employee-portal-api/internal/service"
	"github.com/swarga-apparel/employee-portal-api/pkg/response"
)

type stubParticipants struct {
	participant *models.Participant
}

func (s *stubParticipants) FindByNIK(context.Context, string) (*models.Participant, error) {
	if s.participant == nil {
		return nil, sql.ErrNoRows
	}
	return s.participant, nil
}

func (s *stubParticipants) GetOrCreate(_ context.Context, nik string) (*models.Participant, error) {
	if s.participant == nil {
		s.participant = &models.Participant{ID: "p1", NIK: nik}
	}
	return s.participant, nil
}

type stubSessions struct {
	session *models.Session
}

func (s *stubSessions) FindByID(context.Context, string) (*models.Session, error) {
	if s.session == nil {
		return nil, sql.ErrNoRows
	}
	return s.session, nil
}

func (s *stubSessions) FindByParticipantAndYear(context.Context, string, int) (*models.Session, error) {
	if s.session == nil {
		return nil, sql.ErrNoRows
	}
	return s.session, nil
}

func (s *stubSessions) GetOrCreate(_ context.Context, participantID string, year int) (*models.Session, error) {
	if s.session == nil {
		s.session = &models.Session{
			ID:            "s1",
			ParticipantID: participantID,
			Year:          year,
			Status:        models.SessionStatusInProgress,
			StartedAt:     time.Now().UTC(),
		}
	}
	return s.session, nil
}

type stubCheckpoints struct {
	active []models.Checkpoint
}

func (s *stubCheckpoints) ListActive(context.Context) ([]models.Checkpoint, error) {
	return s.active, nil
}

func (s *stubCheckpoints) FindByCode(_ context.Context, code string) (*models.Checkpoint, error) {
	for i := range s.active {
		if s.active[i].Code == code {
			return &s.active[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

type stubScanEvents struct {
	stats []models.CheckpointScanStats
}

func (s *stubScanEvents) Create(_ context.Context, event *models.ScanEvent) error {
	event.ID = "e1"
	event.ScannedAt = time.Now().UTC()
	event.Source = "kiosk"
	return nil
}

func (s *stubScanEvents) StatsBySession(context.Context, string) ([]models.CheckpointScanStats, error) {
	return s.stats, nil
}

type stubMonitorRepo struct {
	rows []models.LiveSessionRow
}

func (s *stubMonitorRepo) ListLive(context.Context, models.LiveMonitorFilter) ([]models.LiveSessionRow, error) {
	return s.rows, nil
}

func newTestMCUHandler(checkpoints *stubCheckpoints, monitorRows []models.LiveSessionRow) *MCUHandler {
	mcuSvc := service.NewMCUService(&stubParticipants{}, &stubSessions{}, checkpoints, &stubScanEvents{}, nil, time.Minute, nil, nil)
	monitorSvc := service.NewMonitorService(&stubMonitorRepo{rows: monitorRows}, nil, time.Second, nil, nil)
	return NewMCUHandler(mcuSvc, monitorSvc, service.NewMetricsService())
}

func testCheckpoints() *stubCheckpoints {
	return &stubCheckpoints{active: []models.Checkpoint{
		{ID: "cp1", Code: "REG", Name: "Registration", Sequence: 1, IsActive: true},
	}}
}

func TestMCUHandlerRecordScanCreated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestMCUHandler(testCheckpoints(), nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	body := `{"nik":"1001","checkpointCode":"REG"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/mcu/scan", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.RecordScan(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Nil(t, envelope.Error)
}

func TestMCUHandlerRecordScanMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestMCUHandler(testCheckpoints(), nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/mcu/scan", strings.NewReader("{"))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.RecordScan(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}

func TestMCUHandlerRecordScanUnknownCheckpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestMCUHandler(testCheckpoints(), nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	body := `{"nik":"1001","checkpointCode":"XRAY"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/mcu/scan", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.RecordScan(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
	assert.Equal(t, "unknown checkpoint code", envelope.Error.Message)
}

func TestMCUHandlerStatusSoftMissIsOK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestMCUHandler(testCheckpoints(), nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/mcu/status?nik=9999", nil)

	handler.GetStatus(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			Participant *models.Participant `json:"participant"`
			Session     *models.Session     `json:"session"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "participant not found", envelope.Message)
	assert.Nil(t, envelope.Data.Participant)
	assert.Nil(t, envelope.Data.Session)
}

func TestMCUHandlerStatusMissingNIK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestMCUHandler(testCheckpoints(), nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/mcu/status", nil)

	handler.GetStatus(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMCUHandlerListLiveIncludesCount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rows := []models.LiveSessionRow{
		{SessionID: "s1", NIK: "1001", Year: 2026, Status: models.SessionStatusInProgress},
		{SessionID: "s2", NIK: "2002", Year: 2026, Status: models.SessionStatusInProgress},
	}
	handler := newTestMCUHandler(testCheckpoints(), rows)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/mcu/live?year=2026", nil)

	handler.ListLive(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Success bool                   `json:"success"`
		Data    []models.LiveSessionRow `json:"data"`
		Meta    map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Len(t, envelope.Data, 2)
	assert.EqualValues(t, 2, envelope.Meta["count"])
}

func TestMCUHandlerListLiveRejectsBadStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestMCUHandler(testCheckpoints(), nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/mcu/live?status=paused", nil)

	handler.ListLive(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMCUHandlerListCheckpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestMCUHandler(testCheckpoints(), nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/mcu/checkpoints", nil)

	handler.ListCheckpoints(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data []models.Checkpoint `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "REG", envelope.Data[0].Code)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarga-apparel/employee-portal-api/internal/models"
	appErrors "github.com/swarga-apparel/employee-portal-api/pkg/errors"
)

type fakeParticipants struct {
	byNIK       map[string]*models.Participant
	findErr     error
	createdNIKs []string
}

func (f *fakeParticipants) FindByNIK(_ context.Context, nik string) (*models.Participant, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if p, ok := f.byNIK[nik]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeParticipants) GetOrCreate(ctx context.Context, nik string) (*models.Participant, error) {
	if p, err := f.FindByNIK(ctx, nik); err == nil {
		return p, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	created := &models.Participant{ID: "p-" + nik, NIK: nik}
	if f.byNIK == nil {
		f.byNIK = map[string]*models.Participant{}
	}
	f.byNIK[nik] = created
	f.createdNIKs = append(f.createdNIKs, nik)
	return created, nil
}

type sessionKey struct {
	participantID string
	year          int
}

type fakeSessions struct {
	byKey   map[sessionKey]*models.Session
	created int
}

func (f *fakeSessions) FindByID(_ context.Context, id string) (*models.Session, error) {
	for _, s := range f.byKey {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSessions) FindByParticipantAndYear(_ context.Context, participantID string, year int) (*models.Session, error) {
	if s, ok := f.byKey[sessionKey{participantID, year}]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSessions) GetOrCreate(ctx context.Context, participantID string, year int) (*models.Session, error) {
	if s, err := f.FindByParticipantAndYear(ctx, participantID, year); err == nil {
		return s, nil
	}
	created := &models.Session{
		ID:            "s-" + participantID,
		ParticipantID: participantID,
		Year:          year,
		Status:        models.SessionStatusInProgress,
		StartedAt:     time.Now().UTC(),
	}
	if f.byKey == nil {
		f.byKey = map[sessionKey]*models.Session{}
	}
	f.byKey[sessionKey{participantID, year}] = created
	f.created++
	return created, nil
}

type fakeCheckpoints struct {
	active  []models.Checkpoint
	listErr error
}

func (f *fakeCheckpoints) ListActive(context.Context) ([]models.Checkpoint, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.active, nil
}

func (f *fakeCheckpoints) FindByCode(_ context.Context, code string) (*models.Checkpoint, error) {
	for i := range f.active {
		if f.active[i].Code == code {
			return &f.active[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

type fakeScanEvents struct {
	events   []*models.ScanEvent
	stats    []models.CheckpointScanStats
	createErr error
}

func (f *fakeScanEvents) Create(_ context.Context, event *models.ScanEvent) error {
	if f.createErr != nil {
		return f.createErr
	}
	event.ID = "e1"
	event.ScannedAt = time.Now().UTC()
	event.Source = "kiosk"
	f.events = append(f.events, event)
	return nil
}

func (f *fakeScanEvents) StatsBySession(context.Context, string) ([]models.CheckpointScanStats, error) {
	return f.stats, nil
}

func registryFixture() []models.Checkpoint {
	return []models.Checkpoint{
		{ID: "cp1", Code: "REG", Name: "Registration", Sequence: 1, IsActive: true},
		{ID: "cp2", Code: "LAB", Name: "Laboratory", Sequence: 2, IsActive: true},
		{ID: "cp3", Code: "EKG", Name: "Electrocardiogram", Sequence: 3, IsActive: true},
	}
}

func newMCUServiceForTest(participants *fakeParticipants, sessions *fakeSessions, checkpoints *fakeCheckpoints, events *fakeScanEvents) *MCUService {
	return NewMCUService(participants, sessions, checkpoints, events, nil, time.Minute, nil, nil)
}

func TestRecordScanFirstVisitCreatesEverything(t *testing.T) {
	participants := &fakeParticipants{}
	sessions := &fakeSessions{}
	events := &fakeScanEvents{}
	svc := newMCUServiceForTest(participants, sessions, &fakeCheckpoints{active: registryFixture()}, events)

	result, err := svc.RecordScan(context.Background(), RecordScanRequest{NIK: "1001", CheckpointCode: "REG"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1001"}, participants.createdNIKs)
	assert.Equal(t, 1, sessions.created)
	assert.Equal(t, models.SessionStatusInProgress, result.Session.Status)
	assert.Equal(t, "REG", result.Checkpoint.Code)
	require.Len(t, events.events, 1)
	assert.Equal(t, result.Session.ID, events.events[0].SessionID)
	assert.Equal(t, "cp1", events.events[0].CheckpointID)
}

func TestRecordScanReusesExistingParticipantAndSession(t *testing.T) {
	year := time.Now().UTC().Year()
	participants := &fakeParticipants{byNIK: map[string]*models.Participant{
		"1001": {ID: "p1", NIK: "1001"},
	}}
	sessions := &fakeSessions{byKey: map[sessionKey]*models.Session{
		{"p1", year}: {ID: "s1", ParticipantID: "p1", Year: year, Status: models.SessionStatusInProgress},
	}}
	svc := newMCUServiceForTest(participants, sessions, &fakeCheckpoints{active: registryFixture()}, &fakeScanEvents{})

	result, err := svc.RecordScan(context.Background(), RecordScanRequest{NIK: "1001", CheckpointCode: "LAB"})
	require.NoError(t, err)
	assert.Empty(t, participants.createdNIKs)
	assert.Zero(t, sessions.created)
	assert.Equal(t, "s1", result.Session.ID)
}

func TestRecordScanUnknownCheckpointIsNotFound(t *testing.T) {
	svc := newMCUServiceForTest(&fakeParticipants{}, &fakeSessions{}, &fakeCheckpoints{active: registryFixture()}, &fakeScanEvents{})

	_, err := svc.RecordScan(context.Background(), RecordScanRequest{NIK: "1001", CheckpointCode: "XRAY"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "unknown checkpoint code", appErr.Message)
}

func TestRecordScanValidatesPayload(t *testing.T) {
	svc := newMCUServiceForTest(&fakeParticipants{}, &fakeSessions{}, &fakeCheckpoints{}, &fakeScanEvents{})

	_, err := svc.RecordScan(context.Background(), RecordScanRequest{CheckpointCode: "REG"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.RecordScan(context.Background(), RecordScanRequest{NIK: "1001", CheckpointCode: "REG", Year: 1999})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	require.NotEmpty(t, appErr.Issues)
	assert.Equal(t, "min", appErr.Issues[0].Rule)
}

func TestRecordScanRepeatVisitAppendsEvent(t *testing.T) {
	events := &fakeScanEvents{}
	svc := newMCUServiceForTest(&fakeParticipants{}, &fakeSessions{}, &fakeCheckpoints{active: registryFixture()}, events)

	for i := 0; i < 3; i++ {
		_, err := svc.RecordScan(context.Background(), RecordScanRequest{NIK: "1001", CheckpointCode: "LAB"})
		require.NoError(t, err)
	}
	assert.Len(t, events.events, 3)
}

func TestRecordScanSurfacesStorageError(t *testing.T) {
	storageErr := errors.New(`pq: relation "mcu_scan_events" does not exist`)
	events := &fakeScanEvents{createErr: storageErr}
	svc := newMCUServiceForTest(&fakeParticipants{}, &fakeSessions{}, &fakeCheckpoints{active: registryFixture()}, events)

	_, err := svc.RecordScan(context.Background(), RecordScanRequest{NIK: "1001", CheckpointCode: "REG"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
	assert.Equal(t, storageErr.Error(), appErr.Message)
}

func TestGetStatusUnknownParticipantIsSoftMiss(t *testing.T) {
	svc := newMCUServiceForTest(&fakeParticipants{}, &fakeSessions{}, &fakeCheckpoints{active: registryFixture()}, &fakeScanEvents{})

	status, err := svc.GetStatus(context.Background(), StatusRequest{NIK: "9999"})
	require.NoError(t, err)
	assert.Nil(t, status.Participant)
	assert.Nil(t, status.Session)
	assert.Empty(t, status.Checkpoints)
}

func TestGetStatusNoSessionForYearIsSoftMiss(t *testing.T) {
	participants := &fakeParticipants{byNIK: map[string]*models.Participant{
		"1001": {ID: "p1", NIK: "1001"},
	}}
	svc := newMCUServiceForTest(participants, &fakeSessions{}, &fakeCheckpoints{active: registryFixture()}, &fakeScanEvents{})

	status, err := svc.GetStatus(context.Background(), StatusRequest{NIK: "1001", Year: 2024})
	require.NoError(t, err)
	require.NotNil(t, status.Participant)
	assert.Nil(t, status.Session)
	assert.Empty(t, status.Checkpoints)
}

func TestGetStatusMergesRegistryAgainstScans(t *testing.T) {
	year := time.Now().UTC().Year()
	participants := &fakeParticipants{byNIK: map[string]*models.Participant{
		"1001": {ID: "p1", NIK: "1001"},
	}}
	sessions := &fakeSessions{byKey: map[sessionKey]*models.Session{
		{"p1", year}: {ID: "s1", ParticipantID: "p1", Year: year, Status: models.SessionStatusInProgress},
	}}
	first := time.Date(year, 3, 2, 8, 0, 0, 0, time.UTC)
	last := first.Add(10 * time.Minute)
	events := &fakeScanEvents{stats: []models.CheckpointScanStats{
		// Stats arrive out of registry order on purpose.
		{CheckpointID: "cp2", ScanCount: 2, FirstScannedAt: first, LastScannedAt: last},
	}}
	svc := newMCUServiceForTest(participants, sessions, &fakeCheckpoints{active: registryFixture()}, events)

	status, err := svc.GetStatus(context.Background(), StatusRequest{NIK: "1001"})
	require.NoError(t, err)
	require.Len(t, status.Checkpoints, 3)

	assert.Equal(t, "REG", status.Checkpoints[0].Code)
	assert.Equal(t, models.CheckpointPending, status.Checkpoints[0].Status)
	assert.Zero(t, status.Checkpoints[0].ScanCount)
	assert.Nil(t, status.Checkpoints[0].FirstScannedAt)

	assert.Equal(t, "LAB", status.Checkpoints[1].Code)
	assert.Equal(t, models.CheckpointArrived, status.Checkpoints[1].Status)
	assert.Equal(t, 2, status.Checkpoints[1].ScanCount)
	require.NotNil(t, status.Checkpoints[1].FirstScannedAt)
	assert.Equal(t, first, *status.Checkpoints[1].FirstScannedAt)
	assert.Equal(t, last, *status.Checkpoints[1].LastScannedAt)

	assert.Equal(t, models.CheckpointPending, status.Checkpoints[2].Status)
}

func TestListCheckpointsWithoutCache(t *testing.T) {
	svc := newMCUServiceForTest(&fakeParticipants{}, &fakeSessions{}, &fakeCheckpoints{active: registryFixture()}, &fakeScanEvents{})

	checkpoints, hit, err := svc.ListCheckpoints(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, checkpoints, 3)
	assert.Equal(t, 1, checkpoints[0].Sequence)
}

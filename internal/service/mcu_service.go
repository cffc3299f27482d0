package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/swarga-apparel/employee-portal-api/internal/dto"
	"github.com/swarga-apparel/employee-portal-api/internal/models"
	appErrors "github.com/swarga-apparel/employee-portal-api/pkg/errors"
)

type participantRepository interface {
	FindByNIK(ctx context.Context, nik string) (*models.Participant, error)
	GetOrCreate(ctx context.Context, nik string) (*models.Participant, error)
}

type sessionRepository interface {
	FindByID(ctx context.Context, id string) (*models.Session, error)
	FindByParticipantAndYear(ctx context.Context, participantID string, year int) (*models.Session, error)
	GetOrCreate(ctx context.Context, participantID string, year int) (*models.Session, error)
}

type checkpointRepository interface {
	ListActive(ctx context.Context) ([]models.Checkpoint, error)
	FindByCode(ctx context.Context, code string) (*models.Checkpoint, error)
}

type scanEventRepository interface {
	Create(ctx context.Context, event *models.ScanEvent) error
	StatsBySession(ctx context.Context, sessionID string) ([]models.CheckpointScanStats, error)
}

const checkpointRegistryCacheKey = "mcu:checkpoints:active"

// RecordScanRequest is the scan kiosk payload.
type RecordScanRequest struct {
	NIK            string `json:"nik" validate:"required"`
	CheckpointCode string `json:"checkpointCode" validate:"required"`
	Year           int    `json:"year,omitempty" validate:"omitempty,min=2000,max=2100"`
	DeviceID       string `json:"deviceId,omitempty"`
}

// StatusRequest identifies one participant's yearly progress view.
type StatusRequest struct {
	NIK  string `form:"nik" validate:"required"`
	Year int    `form:"year" validate:"omitempty,min=2000,max=2100"`
}

// MCUService orchestrates the medical-checkup checkpoint flow: participant
// and session resolution, scan recording and the derived status view.
type MCUService struct {
	participants participantRepository
	sessions     sessionRepository
	checkpoints  checkpointRepository
	events       scanEventRepository
	cache        *CacheService
	registryTTL  time.Duration
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewMCUService constructs MCUService.
func NewMCUService(participants participantRepository, sessions sessionRepository, checkpoints checkpointRepository, events scanEventRepository, cache *CacheService, registryTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *MCUService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MCUService{
		participants: participants,
		sessions:     sessions,
		checkpoints:  checkpoints,
		events:       events,
		cache:        cache,
		registryTTL:  registryTTL,
		validator:    validate,
		logger:       logger,
	}
}

// ListCheckpoints returns the active checkpoint registry ordered by sequence.
// The registry changes rarely, so it is served from cache when available.
func (s *MCUService) ListCheckpoints(ctx context.Context) ([]models.Checkpoint, bool, error) {
	var cached []models.Checkpoint
	if hit, err := s.cache.Get(ctx, checkpointRegistryCacheKey, &cached); err == nil && hit {
		return cached, true, nil
	}
	checkpoints, err := s.checkpoints.ListActive(ctx)
	if err != nil {
		return nil, false, err
	}
	_ = s.cache.Set(ctx, checkpointRegistryCacheKey, checkpoints, s.registryTTL)
	return checkpoints, false, nil
}

// RecordScan resolves participant and session, looks up the checkpoint and
// appends a scan event. The steps are strictly sequential and not wrapped in
// a transaction; every step before the final insert is safe to retry, and the
// insert itself is deliberately non-idempotent (re-visits are counted).
func (s *MCUService) RecordScan(ctx context.Context, req RecordScanRequest) (*dto.ScanResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid scan payload")
	}

	year := req.Year
	if year == 0 {
		year = time.Now().UTC().Year()
	}

	participant, err := s.participants.GetOrCreate(ctx, req.NIK)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.GetOrCreate(ctx, participant.ID, year)
	if err != nil {
		return nil, err
	}

	checkpoint, err := s.checkpoints.FindByCode(ctx, req.CheckpointCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown checkpoint code")
		}
		return nil, err
	}

	event := &models.ScanEvent{
		SessionID:    session.ID,
		CheckpointID: checkpoint.ID,
	}
	if req.DeviceID != "" {
		event.DeviceID = &req.DeviceID
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}

	// Re-read so any status set by an external trigger is reflected.
	refreshed, err := s.sessions.FindByID(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("scan recorded",
		zap.String("nik", req.NIK),
		zap.String("checkpoint", checkpoint.Code),
		zap.Int("year", year),
	)

	return &dto.ScanResult{
		Participant: participant,
		Session:     refreshed,
		Checkpoint:  checkpoint,
		ScanEvent:   event,
	}, nil
}

// GetStatus computes the per-checkpoint progress view for one participant and
// year. Unknown participants and missing sessions are soft misses returned as
// successful responses with null payloads, never errors.
func (s *MCUService) GetStatus(ctx context.Context, req StatusRequest) (*dto.StatusResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid status query")
	}

	year := req.Year
	if year == 0 {
		year = time.Now().UTC().Year()
	}

	out := &dto.StatusResponse{Checkpoints: []models.CheckpointStatus{}}

	participant, err := s.participants.FindByNIK(ctx, req.NIK)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return out, nil
		}
		return nil, err
	}
	out.Participant = participant

	session, err := s.sessions.FindByParticipantAndYear(ctx, participant.ID, year)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return out, nil
		}
		return nil, err
	}
	out.Session = session

	checkpoints, _, err := s.ListCheckpoints(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.events.StatsBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	out.Checkpoints = mergeCheckpointStatus(checkpoints, stats)
	return out, nil
}

// mergeCheckpointStatus joins the registry against recorded scans, defaulting
// to pending with zero counts. Output order follows the registry sequence
// regardless of the order the stats rows arrived in.
func mergeCheckpointStatus(checkpoints []models.Checkpoint, stats []models.CheckpointScanStats) []models.CheckpointStatus {
	byCheckpoint := make(map[string]models.CheckpointScanStats, len(stats))
	for _, st := range stats {
		byCheckpoint[st.CheckpointID] = st
	}

	out := make([]models.CheckpointStatus, 0, len(checkpoints))
	for _, cp := range checkpoints {
		row := models.CheckpointStatus{
			Code:     cp.Code,
			Name:     cp.Name,
			Sequence: cp.Sequence,
			Status:   models.CheckpointPending,
		}
		if st, ok := byCheckpoint[cp.ID]; ok && st.ScanCount > 0 {
			first := st.FirstScannedAt
			last := st.LastScannedAt
			row.Status = models.CheckpointArrived
			row.FirstScannedAt = &first
			row.LastScannedAt = &last
			row.ScanCount = st.ScanCount
		}
		out = append(out, row)
	}
	return out
}

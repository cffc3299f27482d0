package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/swarga-apparel/employee-portal-api/internal/models"
	appErrors "github.com/swarga-apparel/employee-portal-api/pkg/errors"
)

type monitorRepository interface {
	ListLive(ctx context.Context, filter models.LiveMonitorFilter) ([]models.LiveSessionRow, error)
}

const (
	monitorDefaultLimit = 200
	monitorMaxLimit     = 500
)

// LiveMonitorRequest captures the dashboard query parameters.
type LiveMonitorRequest struct {
	Year         int    `form:"year" validate:"omitempty,min=2000,max=2100"`
	Status       string `form:"status" validate:"omitempty,oneof=in_progress finished"`
	Limit        int    `form:"limit" validate:"omitempty,min=1,max=500"`
	Entity       string `form:"entity"`
	Facility     string `form:"facility"`
	Department   string `form:"department"`
	Search       string `form:"q"`
	StuckMinutes int    `form:"stuckMinutes" validate:"omitempty,min=1,max=1440"`
}

// MonitorService serves the polled read-only dashboard of live sessions.
type MonitorService struct {
	repo      monitorRepository
	cache     *CacheService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMonitorService constructs MonitorService.
func NewMonitorService(repo monitorRepository, cache *CacheService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *MonitorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MonitorService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// ListLive returns session summaries for the dashboard, newest activity
// first. A stuckMinutes filter without an explicit status implicitly narrows
// to in_progress sessions: a finished session cannot be stuck.
func (s *MonitorService) ListLive(ctx context.Context, req LiveMonitorRequest) ([]models.LiveSessionRow, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Validation(err, "invalid monitor query")
	}

	filter := models.LiveMonitorFilter{
		Year:         req.Year,
		Status:       models.SessionStatus(req.Status),
		Entity:       req.Entity,
		Facility:     req.Facility,
		Department:   req.Department,
		Search:       req.Search,
		StuckMinutes: req.StuckMinutes,
		Limit:        req.Limit,
	}
	if filter.Year == 0 {
		filter.Year = time.Now().UTC().Year()
	}
	if filter.Limit <= 0 {
		filter.Limit = monitorDefaultLimit
	}
	if filter.Limit > monitorMaxLimit {
		filter.Limit = monitorMaxLimit
	}
	if filter.StuckMinutes > 0 && filter.Status == "" {
		filter.Status = models.SessionStatusInProgress
	}

	key := monitorCacheKey(filter)
	var rows []models.LiveSessionRow
	hit, err := s.cache.Get(ctx, key, &rows)
	if err != nil || !hit {
		rows, err = s.repo.ListLive(ctx, filter)
		if err != nil {
			return nil, false, err
		}
		_ = s.cache.Set(ctx, key, rows, s.cacheTTL)
		hit = false
	}

	// Staleness ages are derived at response time so cached rows never
	// report an age computed in the past.
	now := time.Now().UTC()
	for i := range rows {
		if last := rows[i].LastScanAt; last != nil {
			age := int(now.Sub(*last) / time.Minute)
			rows[i].LastScanAgeMinutes = &age
		}
	}
	return rows, hit, nil
}

func monitorCacheKey(filter models.LiveMonitorFilter) string {
	return fmt.Sprintf("mcu:monitor:%d:%s:%s:%s:%s:%s:%d:%d",
		filter.Year, filter.Status, filter.Entity, filter.Facility,
		filter.Department, filter.Search, filter.StuckMinutes, filter.Limit)
}

package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/swarga-apparel/employee-portal-api/internal/middleware"
	"github.com/swarga-apparel/employee-portal-api/internal/service"
	appErrors "github.com/swarga-apparel/employee-portal-api/pkg/errors"
	"github.com/swarga-apparel/employee-portal-api/pkg/response"
)

// MCUHandler exposes the medical-checkup kiosk and dashboard endpoints.
type MCUHandler struct {
	mcu     *service.MCUService
	monitor *service.MonitorService
	metrics *service.MetricsService
}

// NewMCUHandler constructs MCUHandler.
func NewMCUHandler(mcu *service.MCUService, monitor *service.MonitorService, metrics *service.MetricsService) *MCUHandler {
	return &MCUHandler{mcu: mcu, monitor: monitor, metrics: metrics}
}

// ListCheckpoints godoc
// @Summary List active checkpoints
// @Tags MCU
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /mcu/checkpoints [get]
func (h *MCUHandler) ListCheckpoints(c *gin.Context) {
	checkpoints, cacheHit, err := h.mcu.ListCheckpoints(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, checkpoints, middleware.ExtractMeta(c))
}

// RecordScan godoc
// @Summary Record a checkpoint scan
// @Tags MCU
// @Accept json
// @Produce json
// @Param payload body service.RecordScanRequest true "Scan payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /mcu/scan [post]
func (h *MCUHandler) RecordScan(c *gin.Context) {
	var req service.RecordScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid scan payload"))
		return
	}
	result, err := h.mcu.RecordScan(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.ObserveScan(result.Checkpoint.Code)
	response.Created(c, result)
}

// GetStatus godoc
// @Summary Per-checkpoint progress for one participant
// @Tags MCU
// @Produce json
// @Param nik query string true "Participant NIK"
// @Param year query int false "Checkup year (defaults to current)"
// @Success 200 {object} response.Envelope
// @Router /mcu/status [get]
func (h *MCUHandler) GetStatus(c *gin.Context) {
	var req service.StatusRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid status query"))
		return
	}
	status, err := h.mcu.GetStatus(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	message := "ok"
	if status.Participant == nil {
		message = "participant not found"
	} else if status.Session == nil {
		message = "no session for year"
	}
	response.Message(c, http.StatusOK, message, status)
}

// ListLive godoc
// @Summary Live dashboard of checkup sessions
// @Tags MCU
// @Produce json
// @Param year query int false "Checkup year (defaults to current)"
// @Param status query string false "Session status (in_progress|finished)"
// @Param limit query int false "Row cap (1-500, default 200)"
// @Param entity query string false "Entity substring filter"
// @Param facility query string false "Facility substring filter"
// @Param department query string false "Department substring filter"
// @Param q query string false "Free-text search"
// @Param stuckMinutes query int false "Minimum minutes since last scan (1-1440)"
// @Success 200 {object} response.Envelope
// @Router /mcu/live [get]
func (h *MCUHandler) ListLive(c *gin.Context) {
	var req service.LiveMonitorRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid monitor query"))
		return
	}
	start := time.Now()
	rows, cacheHit, err := h.monitor.ListLive(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["count"] = len(rows)
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, rows, meta)
}

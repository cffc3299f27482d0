package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swarga-apparel/employee-portal-api/internal/dto"
	"github.com/swarga-apparel/employee-portal-api/internal/service"
	appErrors "github.com/swarga-apparel/employee-portal-api/pkg/errors"
	"github.com/swarga-apparel/employee-portal-api/pkg/response"
)

// SurveyHandler exposes the employee survey endpoints.
type SurveyHandler struct {
	surveys *service.SurveyService
}

// NewSurveyHandler constructs SurveyHandler.
func NewSurveyHandler(surveys *service.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveys: surveys}
}

// ListOpen godoc
// @Summary List surveys currently accepting responses
// @Tags Surveys
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /surveys [get]
func (h *SurveyHandler) ListOpen(c *gin.Context) {
	surveys, err := h.surveys.ListOpen(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, surveys)
}

// GetBySlug godoc
// @Summary Survey detail with its questions
// @Tags Surveys
// @Produce json
// @Param slug path string true "Survey slug"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /surveys/{slug} [get]
func (h *SurveyHandler) GetBySlug(c *gin.Context) {
	detail, err := h.surveys.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}

// Submit godoc
// @Summary Submit a survey response
// @Tags Surveys
// @Accept json
// @Produce json
// @Param slug path string true "Survey slug"
// @Param payload body dto.SubmitSurveyRequest true "Answers"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /surveys/{slug}/responses [post]
func (h *SurveyHandler) Submit(c *gin.Context) {
	var req dto.SubmitSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid survey submission"))
		return
	}
	resp, err := h.surveys.Submit(c.Request.Context(), c.Param("slug"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// Summary godoc
// @Summary Aggregated answer tallies per question
// @Tags Surveys
// @Produce json
// @Param slug path string true "Survey slug"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/surveys/{slug}/summary [get]
func (h *SurveyHandler) Summary(c *gin.Context) {
	summary, err := h.surveys.Summary(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}

// ExportCSV godoc
// @Summary Download all responses as CSV
// @Tags Surveys
// @Produce text/csv
// @Param slug path string true "Survey slug"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /admin/surveys/{slug}/export [get]
func (h *SurveyHandler) ExportCSV(c *gin.Context) {
	payload, filename, err := h.surveys.ExportCSV(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", payload)
}

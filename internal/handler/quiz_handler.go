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

// QuizHandler exposes the e-training quiz and certificate endpoints.
type QuizHandler struct {
	quizzes *service.QuizService
}

// NewQuizHandler constructs QuizHandler.
func NewQuizHandler(quizzes *service.QuizService) *QuizHandler {
	return &QuizHandler{quizzes: quizzes}
}

// GetBySlug godoc
// @Summary Quiz detail with its questions (answer keys omitted)
// @Tags Training
// @Produce json
// @Param slug path string true "Quiz slug"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /etraining/quizzes/{slug} [get]
func (h *QuizHandler) GetBySlug(c *gin.Context) {
	detail, err := h.quizzes.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}

// Submit godoc
// @Summary Grade a quiz attempt
// @Tags Training
// @Accept json
// @Produce json
// @Param slug path string true "Quiz slug"
// @Param payload body dto.SubmitQuizRequest true "Answers keyed by question ID"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /etraining/quizzes/{slug}/attempts [post]
func (h *QuizHandler) Submit(c *gin.Context) {
	var req dto.SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid quiz submission"))
		return
	}
	result, err := h.quizzes.Submit(c.Request.Context(), c.Param("slug"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// DownloadCertificate godoc
// @Summary Download a certificate PDF by signed token
// @Tags Training
// @Produce application/pdf
// @Param token query string true "Signed download token"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /etraining/certificates/download [get]
func (h *QuizHandler) DownloadCertificate(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "missing token"))
		return
	}
	payload, filename, err := h.quizzes.DownloadCertificate(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", payload)
}

package dto

import (
	"time"

	"github.com/swarga-apparel/employee-portal-api/internal/models"
)

// QuizDetail bundles a quiz with its questions, correct answers stripped.
type QuizDetail struct {
	Quiz      models.Quiz           `json:"quiz"`
	Questions []models.QuizQuestion `json:"questions"`
}

// SubmitQuizRequest is one scored attempt submission.
type SubmitQuizRequest struct {
	NIK      string           `json:"nik" validate:"required"`
	FullName string           `json:"full_name" validate:"required"`
	Answers  map[string]int   `json:"answers" validate:"required,min=1"`
}

// QuizResult reports the score and, on a pass, the issued certificate with a
// signed download URL.
type QuizResult struct {
	Attempt        models.QuizAttempt  `json:"attempt"`
	Certificate    *models.Certificate `json:"certificate,omitempty"`
	CertificateURL string              `json:"certificate_url,omitempty"`
	ExpiresAt      *time.Time          `json:"certificate_url_expires_at,omitempty"`
}

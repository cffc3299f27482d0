package dto

import (
	"time"

	"github.com/swarga-apparel/employee-portal-api/internal/models"
)

// SurveyDetail bundles a survey with its ordered questions.
type SurveyDetail struct {
	Survey    models.Survey           `json:"survey"`
	Questions []models.SurveyQuestion `json:"questions"`
}

// SubmitSurveyRequest is one respondent's submission.
type SubmitSurveyRequest struct {
	RespondentNIK string                `json:"respondent_nik,omitempty"`
	Answers       []SubmitAnswerRequest `json:"answers" validate:"required,min=1,dive"`
}

// SubmitAnswerRequest answers a single question.
type SubmitAnswerRequest struct {
	QuestionID string  `json:"question_id" validate:"required"`
	Choice     *string `json:"choice,omitempty"`
	Rating     *int    `json:"rating,omitempty"`
	FreeText   *string `json:"free_text,omitempty"`
}

// QuestionSummary is the per-question tally used by the admin dashboard.
type QuestionSummary struct {
	QuestionID   string              `json:"question_id"`
	QuestionText string              `json:"question_text"`
	Kind         models.QuestionKind `json:"kind"`
	Position     int                 `json:"position"`
	AnswerCount  int                 `json:"answer_count"`
	ChoiceCounts map[string]int      `json:"choice_counts,omitempty"`
	AverageRate  *float64            `json:"average_rating,omitempty"`
	TextAnswers  []string            `json:"text_answers,omitempty"`
}

// SurveySummary aggregates all question tallies for one survey.
type SurveySummary struct {
	Survey        models.Survey     `json:"survey"`
	ResponseCount int               `json:"response_count"`
	Questions     []QuestionSummary `json:"questions"`
	GeneratedAt   time.Time         `json:"generated_at"`
}

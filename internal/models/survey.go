package models

import (
	"time"

	"github.com/lib/pq"
)

// QuestionKind enumerates the supported survey question types.
type QuestionKind string

const (
	QuestionKindChoice QuestionKind = "choice"
	QuestionKindRating QuestionKind = "rating"
	QuestionKindText   QuestionKind = "text"
)

// Valid returns true when the kind is a supported value.
func (k QuestionKind) Valid() bool {
	switch k {
	case QuestionKindChoice, QuestionKindRating, QuestionKindText:
		return true
	default:
		return false
	}
}

// Survey is an employee survey (canteen facility vote, warehouse toilet
// satisfaction). Surveys and their questions are seeded by administrators.
type Survey struct {
	ID        string    `db:"id" json:"id"`
	Slug      string    `db:"slug" json:"slug"`
	Title     string    `db:"title" json:"title"`
	IsOpen    bool      `db:"is_open" json:"is_open"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SurveyQuestion is one question within a survey, ordered by position.
type SurveyQuestion struct {
	ID       string         `db:"id" json:"id"`
	SurveyID string         `db:"survey_id" json:"survey_id"`
	Text     string         `db:"text" json:"text"`
	Kind     QuestionKind   `db:"kind" json:"kind"`
	Position int            `db:"position" json:"position"`
	Options  pq.StringArray `db:"options" json:"options,omitempty"`
}

// SurveyResponse is one submission, optionally tied to a respondent NIK.
type SurveyResponse struct {
	ID            string    `db:"id" json:"id"`
	SurveyID      string    `db:"survey_id" json:"survey_id"`
	RespondentNIK *string   `db:"respondent_nik" json:"respondent_nik,omitempty"`
	SubmittedAt   time.Time `db:"submitted_at" json:"submitted_at"`
}

// SurveyAnswer is the answer to a single question within a response.
type SurveyAnswer struct {
	ID         string  `db:"id" json:"id"`
	ResponseID string  `db:"response_id" json:"response_id"`
	QuestionID string  `db:"question_id" json:"question_id"`
	Choice     *string `db:"choice" json:"choice,omitempty"`
	Rating     *int    `db:"rating" json:"rating,omitempty"`
	FreeText   *string `db:"free_text" json:"free_text,omitempty"`
}

// SurveyAnswerRow is a flattened answer joined with question and response
// context, used for summaries and CSV export.
type SurveyAnswerRow struct {
	ResponseID    string       `db:"response_id"`
	RespondentNIK *string      `db:"respondent_nik"`
	SubmittedAt   time.Time    `db:"submitted_at"`
	QuestionID    string       `db:"question_id"`
	QuestionText  string       `db:"question_text"`
	Kind          QuestionKind `db:"kind"`
	Position      int          `db:"position"`
	Choice        *string      `db:"choice"`
	Rating        *int         `db:"rating"`
	FreeText      *string      `db:"free_text"`
}

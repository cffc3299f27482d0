package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/swarga-apparel/employee-portal-api/internal/models"
)

// SurveyRepository handles persistence of surveys and their responses.
type SurveyRepository struct {
	db *sqlx.DB
}

// NewSurveyRepository constructs the repository.
func NewSurveyRepository(db *sqlx.DB) *SurveyRepository {
	return &SurveyRepository{db: db}
}

// ListOpen returns surveys currently accepting responses.
func (r *SurveyRepository) ListOpen(ctx context.Context) ([]models.Survey, error) {
	const query = `SELECT id, slug, title, is_open, created_at FROM surveys WHERE is_open = TRUE ORDER BY created_at DESC`
	var surveys []models.Survey
	if err := r.db.SelectContext(ctx, &surveys, query); err != nil {
		return nil, fmt.Errorf("list open surveys: %w", err)
	}
	return surveys, nil
}

// FindBySlug returns the survey with the given slug, or sql.ErrNoRows.
func (r *SurveyRepository) FindBySlug(ctx context.Context, slug string) (*models.Survey, error) {
	const query = `SELECT id, slug, title, is_open, created_at FROM surveys WHERE slug = $1`
	var survey models.Survey
	if err := r.db.GetContext(ctx, &survey, query, slug); err != nil {
		return nil, err
	}
	return &survey, nil
}

// ListQuestions returns a survey's questions ordered by position.
func (r *SurveyRepository) ListQuestions(ctx context.Context, surveyID string) ([]models.SurveyQuestion, error) {
	const query = `SELECT id, survey_id, text, kind, position, options FROM survey_questions WHERE survey_id = $1 ORDER BY position ASC`
	var questions []models.SurveyQuestion
	if err := r.db.SelectContext(ctx, &questions, query, surveyID); err != nil {
		return nil, fmt.Errorf("list survey questions: %w", err)
	}
	return questions, nil
}

// CreateResponse persists a submission with its answers. Each insert is a
// plain sequential row write, matching the rest of the service.
func (r *SurveyRepository) CreateResponse(ctx context.Context, response *models.SurveyResponse, answers []models.SurveyAnswer) error {
	if response.ID == "" {
		response.ID = uuid.NewString()
	}
	if response.SubmittedAt.IsZero() {
		response.SubmittedAt = time.Now().UTC()
	}
	const responseQuery = `INSERT INTO survey_responses (id, survey_id, respondent_nik, submitted_at)
        VALUES (:id, :survey_id, :respondent_nik, :submitted_at)`
	if _, err := r.db.NamedExecContext(ctx, responseQuery, response); err != nil {
		return fmt.Errorf("create survey response: %w", err)
	}

	const answerQuery = `INSERT INTO survey_answers (id, response_id, question_id, choice, rating, free_text)
        VALUES (:id, :response_id, :question_id, :choice, :rating, :free_text)`
	for i := range answers {
		answers[i].ResponseID = response.ID
		if answers[i].ID == "" {
			answers[i].ID = uuid.NewString()
		}
		if _, err := r.db.NamedExecContext(ctx, answerQuery, answers[i]); err != nil {
			return fmt.Errorf("create survey answer: %w", err)
		}
	}
	return nil
}

// CountResponses returns the number of submissions for a survey.
func (r *SurveyRepository) CountResponses(ctx context.Context, surveyID string) (int, error) {
	const query = `SELECT COUNT(*) FROM survey_responses WHERE survey_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, surveyID); err != nil {
		return 0, fmt.Errorf("count survey responses: %w", err)
	}
	return total, nil
}

// ListAnswerRows returns every answer joined with its question and response
// context, ordered for summaries and CSV export.
func (r *SurveyRepository) ListAnswerRows(ctx context.Context, surveyID string) ([]models.SurveyAnswerRow, error) {
	const query = `SELECT a.response_id, resp.respondent_nik, resp.submitted_at,
        q.id AS question_id, q.text AS question_text, q.kind, q.position,
        a.choice, a.rating, a.free_text
        FROM survey_answers a
        JOIN survey_responses resp ON resp.id = a.response_id
        JOIN survey_questions q ON q.id = a.question_id
        WHERE resp.survey_id = $1
        ORDER BY resp.submitted_at ASC, q.position ASC`
	var rows []models.SurveyAnswerRow
	if err := r.db.SelectContext(ctx, &rows, query, surveyID); err != nil {
		return nil, fmt.Errorf("list survey answers: %w", err)
	}
	return rows, nil
}

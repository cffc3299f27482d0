package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/swarga-apparel/employee-portal-api/internal/dto"
	"github.com/swarga-apparel/employee-portal-api/internal/models"
	appErrors "github.com/swarga-apparel/employee-portal-api/pkg/errors"
	"github.com/swarga-apparel/employee-portal-api/pkg/export"
)

type surveyRepository interface {
	ListOpen(ctx context.Context) ([]models.Survey, error)
	FindBySlug(ctx context.Context, slug string) (*models.Survey, error)
	ListQuestions(ctx context.Context, surveyID string) ([]models.SurveyQuestion, error)
	CreateResponse(ctx context.Context, response *models.SurveyResponse, answers []models.SurveyAnswer) error
	CountResponses(ctx context.Context, surveyID string) (int, error)
	ListAnswerRows(ctx context.Context, surveyID string) ([]models.SurveyAnswerRow, error)
}

// SurveyService orchestrates employee survey reads, submissions and the admin
// summary and export views.
type SurveyService struct {
	repo      surveyRepository
	exporter  *export.CSVExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSurveyService constructs SurveyService.
func NewSurveyService(repo surveyRepository, exporter *export.CSVExporter, validate *validator.Validate, logger *zap.Logger) *SurveyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if exporter == nil {
		exporter = export.NewCSVExporter()
	}
	return &SurveyService{repo: repo, exporter: exporter, validator: validate, logger: logger}
}

// ListOpen returns surveys currently accepting responses.
func (s *SurveyService) ListOpen(ctx context.Context) ([]models.Survey, error) {
	return s.repo.ListOpen(ctx)
}

// GetBySlug returns a survey with its ordered questions.
func (s *SurveyService) GetBySlug(ctx context.Context, slug string) (*dto.SurveyDetail, error) {
	survey, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "survey not found")
		}
		return nil, err
	}
	questions, err := s.repo.ListQuestions(ctx, survey.ID)
	if err != nil {
		return nil, err
	}
	return &dto.SurveyDetail{Survey: *survey, Questions: questions}, nil
}

// Submit validates and stores one respondent's answers.
func (s *SurveyService) Submit(ctx context.Context, slug string, req dto.SubmitSurveyRequest) (*models.SurveyResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid survey submission")
	}

	survey, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "survey not found")
		}
		return nil, err
	}
	if !survey.IsOpen {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "survey is closed")
	}

	questions, err := s.repo.ListQuestions(ctx, survey.ID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.SurveyQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	answers := make([]models.SurveyAnswer, 0, len(req.Answers))
	for _, in := range req.Answers {
		question, ok := byID[in.QuestionID]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("question %s does not belong to survey %s", in.QuestionID, slug))
		}
		answer := models.SurveyAnswer{QuestionID: in.QuestionID}
		switch question.Kind {
		case models.QuestionKindChoice:
			if in.Choice == nil || !containsOption(question.Options, *in.Choice) {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("answer for question %q must be one of its options", question.Text))
			}
			answer.Choice = in.Choice
		case models.QuestionKindRating:
			if in.Rating == nil || *in.Rating < 1 || *in.Rating > 5 {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("rating for question %q must be between 1 and 5", question.Text))
			}
			answer.Rating = in.Rating
		case models.QuestionKindText:
			if in.FreeText == nil || *in.FreeText == "" {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("answer for question %q must not be empty", question.Text))
			}
			answer.FreeText = in.FreeText
		}
		answers = append(answers, answer)
	}

	response := &models.SurveyResponse{SurveyID: survey.ID}
	if req.RespondentNIK != "" {
		response.RespondentNIK = &req.RespondentNIK
	}
	if err := s.repo.CreateResponse(ctx, response, answers); err != nil {
		return nil, err
	}

	s.logger.Info("survey response recorded", zap.String("survey", slug), zap.Int("answers", len(answers)))
	return response, nil
}

// Summary computes per-question tallies for the admin dashboard.
func (s *SurveyService) Summary(ctx context.Context, slug string) (*dto.SurveySummary, error) {
	survey, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "survey not found")
		}
		return nil, err
	}

	total, err := s.repo.CountResponses(ctx, survey.ID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListAnswerRows(ctx, survey.ID)
	if err != nil {
		return nil, err
	}

	byQuestion := make(map[string]*dto.QuestionSummary)
	order := make([]string, 0)
	ratingTotals := make(map[string]int)
	for _, row := range rows {
		summary, ok := byQuestion[row.QuestionID]
		if !ok {
			summary = &dto.QuestionSummary{
				QuestionID:   row.QuestionID,
				QuestionText: row.QuestionText,
				Kind:         row.Kind,
				Position:     row.Position,
			}
			if row.Kind == models.QuestionKindChoice {
				summary.ChoiceCounts = make(map[string]int)
			}
			byQuestion[row.QuestionID] = summary
			order = append(order, row.QuestionID)
		}
		summary.AnswerCount++
		switch row.Kind {
		case models.QuestionKindChoice:
			if row.Choice != nil {
				summary.ChoiceCounts[*row.Choice]++
			}
		case models.QuestionKindRating:
			if row.Rating != nil {
				ratingTotals[row.QuestionID] += *row.Rating
			}
		case models.QuestionKindText:
			if row.FreeText != nil {
				summary.TextAnswers = append(summary.TextAnswers, *row.FreeText)
			}
		}
	}

	questions := make([]dto.QuestionSummary, 0, len(order))
	for _, id := range order {
		summary := byQuestion[id]
		if summary.Kind == models.QuestionKindRating && summary.AnswerCount > 0 {
			avg := float64(ratingTotals[id]) / float64(summary.AnswerCount)
			summary.AverageRate = &avg
		}
		questions = append(questions, *summary)
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].Position < questions[j].Position })

	return &dto.SurveySummary{
		Survey:        *survey,
		ResponseCount: total,
		Questions:     questions,
		GeneratedAt:   time.Now().UTC(),
	}, nil
}

// ExportCSV renders the raw responses as CSV for offline analysis.
func (s *SurveyService) ExportCSV(ctx context.Context, slug string) ([]byte, string, error) {
	survey, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "survey not found")
		}
		return nil, "", err
	}
	rows, err := s.repo.ListAnswerRows(ctx, survey.ID)
	if err != nil {
		return nil, "", err
	}

	dataset := export.Dataset{
		Headers: []string{"response_id", "respondent_nik", "submitted_at", "question", "kind", "answer"},
	}
	for _, row := range rows {
		record := map[string]string{
			"response_id":  row.ResponseID,
			"submitted_at": row.SubmittedAt.UTC().Format(time.RFC3339),
			"question":     row.QuestionText,
			"kind":         string(row.Kind),
		}
		if row.RespondentNIK != nil {
			record["respondent_nik"] = *row.RespondentNIK
		}
		switch {
		case row.Choice != nil:
			record["answer"] = *row.Choice
		case row.Rating != nil:
			record["answer"] = fmt.Sprintf("%d", *row.Rating)
		case row.FreeText != nil:
			record["answer"] = *row.FreeText
		}
		dataset.Rows = append(dataset.Rows, record)
	}

	payload, err := s.exporter.Render(dataset)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("survey-%s-%s.csv", survey.Slug, time.Now().UTC().Format("20060102"))
	return payload, filename, nil
}

func containsOption(options []string, candidate string) bool {
	for _, option := range options {
		if option == candidate {
			return true
		}
	}
	return false
}

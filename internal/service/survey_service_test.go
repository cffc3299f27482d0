package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarga-apparel/employee-portal-api/internal/dto"
	"github.com/swarga-apparel/employee-portal-api/internal/models"
	appErrors "github.com/swarga-apparel/employee-portal-api/pkg/errors"
)

type fakeSurveyRepo struct {
	surveys   map[string]*models.Survey
	questions []models.SurveyQuestion
	rows      []models.SurveyAnswerRow
	responses int

	savedResponse *models.SurveyResponse
	savedAnswers  []models.SurveyAnswer
}

func (f *fakeSurveyRepo) ListOpen(context.Context) ([]models.Survey, error) {
	var out []models.Survey
	for _, s := range f.surveys {
		if s.IsOpen {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSurveyRepo) FindBySlug(_ context.Context, slug string) (*models.Survey, error) {
	if s, ok := f.surveys[slug]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSurveyRepo) ListQuestions(context.Context, string) ([]models.SurveyQuestion, error) {
	return f.questions, nil
}

func (f *fakeSurveyRepo) CreateResponse(_ context.Context, response *models.SurveyResponse, answers []models.SurveyAnswer) error {
	response.ID = "r1"
	response.SubmittedAt = time.Now().UTC()
	f.savedResponse = response
	f.savedAnswers = answers
	return nil
}

func (f *fakeSurveyRepo) CountResponses(context.Context, string) (int, error) {
	return f.responses, nil
}

func (f *fakeSurveyRepo) ListAnswerRows(context.Context, string) ([]models.SurveyAnswerRow, error) {
	return f.rows, nil
}

func canteenSurveyRepo() *fakeSurveyRepo {
	return &fakeSurveyRepo{
		surveys: map[string]*models.Survey{
			"canteen-2026": {ID: "sv1", Slug: "canteen-2026", Title: "Canteen Facility Vote", IsOpen: true},
		},
		questions: []models.SurveyQuestion{
			{ID: "q1", SurveyID: "sv1", Text: "Preferred vendor", Kind: models.QuestionKindChoice, Position: 1, Options: []string{"Vendor A", "Vendor B"}},
			{ID: "q2", SurveyID: "sv1", Text: "Cleanliness rating", Kind: models.QuestionKindRating, Position: 2},
			{ID: "q3", SurveyID: "sv1", Text: "Other feedback", Kind: models.QuestionKindText, Position: 3},
		},
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestSurveySubmitStoresValidatedAnswers(t *testing.T) {
	repo := canteenSurveyRepo()
	svc := NewSurveyService(repo, nil, nil, nil)

	resp, err := svc.Submit(context.Background(), "canteen-2026", dto.SubmitSurveyRequest{
		RespondentNIK: "1001",
		Answers: []dto.SubmitAnswerRequest{
			{QuestionID: "q1", Choice: strPtr("Vendor B")},
			{QuestionID: "q2", Rating: intPtr(4)},
			{QuestionID: "q3", FreeText: strPtr("more seating please")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "r1", resp.ID)
	require.NotNil(t, repo.savedResponse.RespondentNIK)
	assert.Equal(t, "1001", *repo.savedResponse.RespondentNIK)
	require.Len(t, repo.savedAnswers, 3)
	assert.Equal(t, "Vendor B", *repo.savedAnswers[0].Choice)
	assert.Equal(t, 4, *repo.savedAnswers[1].Rating)
}

func TestSurveySubmitRejectsBadAnswers(t *testing.T) {
	svc := NewSurveyService(canteenSurveyRepo(), nil, nil, nil)

	cases := []struct {
		name    string
		answers []dto.SubmitAnswerRequest
	}{
		{"choice outside options", []dto.SubmitAnswerRequest{{QuestionID: "q1", Choice: strPtr("Vendor C")}}},
		{"rating out of range", []dto.SubmitAnswerRequest{{QuestionID: "q2", Rating: intPtr(6)}}},
		{"empty text", []dto.SubmitAnswerRequest{{QuestionID: "q3", FreeText: strPtr("")}}},
		{"unknown question", []dto.SubmitAnswerRequest{{QuestionID: "q9", Choice: strPtr("Vendor A")}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), "canteen-2026", dto.SubmitSurveyRequest{Answers: tc.answers})
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestSurveySubmitClosedSurvey(t *testing.T) {
	repo := canteenSurveyRepo()
	repo.surveys["canteen-2026"].IsOpen = false
	svc := NewSurveyService(repo, nil, nil, nil)

	_, err := svc.Submit(context.Background(), "canteen-2026", dto.SubmitSurveyRequest{
		Answers: []dto.SubmitAnswerRequest{{QuestionID: "q1", Choice: strPtr("Vendor A")}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestSurveySubmitUnknownSlug(t *testing.T) {
	svc := NewSurveyService(canteenSurveyRepo(), nil, nil, nil)

	_, err := svc.Submit(context.Background(), "missing", dto.SubmitSurveyRequest{
		Answers: []dto.SubmitAnswerRequest{{QuestionID: "q1", Choice: strPtr("Vendor A")}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSurveySummaryTalliesPerQuestion(t *testing.T) {
	repo := canteenSurveyRepo()
	repo.responses = 2
	now := time.Now().UTC()
	repo.rows = []models.SurveyAnswerRow{
		{ResponseID: "r1", SubmittedAt: now, QuestionID: "q2", QuestionText: "Cleanliness rating", Kind: models.QuestionKindRating, Position: 2, Rating: intPtr(4)},
		{ResponseID: "r1", SubmittedAt: now, QuestionID: "q1", QuestionText: "Preferred vendor", Kind: models.QuestionKindChoice, Position: 1, Choice: strPtr("Vendor A")},
		{ResponseID: "r2", SubmittedAt: now, QuestionID: "q1", QuestionText: "Preferred vendor", Kind: models.QuestionKindChoice, Position: 1, Choice: strPtr("Vendor A")},
		{ResponseID: "r2", SubmittedAt: now, QuestionID: "q2", QuestionText: "Cleanliness rating", Kind: models.QuestionKindRating, Position: 2, Rating: intPtr(5)},
		{ResponseID: "r2", SubmittedAt: now, QuestionID: "q3", QuestionText: "Other feedback", Kind: models.QuestionKindText, Position: 3, FreeText: strPtr("fans are broken")},
	}
	svc := NewSurveyService(repo, nil, nil, nil)

	summary, err := svc.Summary(context.Background(), "canteen-2026")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.ResponseCount)
	require.Len(t, summary.Questions, 3)

	// Ordered by question position regardless of row arrival order.
	assert.Equal(t, "q1", summary.Questions[0].QuestionID)
	assert.Equal(t, map[string]int{"Vendor A": 2}, summary.Questions[0].ChoiceCounts)

	require.NotNil(t, summary.Questions[1].AverageRate)
	assert.InDelta(t, 4.5, *summary.Questions[1].AverageRate, 0.001)

	assert.Equal(t, []string{"fans are broken"}, summary.Questions[2].TextAnswers)
}

func TestSurveyExportCSV(t *testing.T) {
	repo := canteenSurveyRepo()
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	repo.rows = []models.SurveyAnswerRow{
		{ResponseID: "r1", RespondentNIK: strPtr("1001"), SubmittedAt: now, QuestionID: "q1", QuestionText: "Preferred vendor", Kind: models.QuestionKindChoice, Position: 1, Choice: strPtr("Vendor B")},
		{ResponseID: "r1", RespondentNIK: strPtr("1001"), SubmittedAt: now, QuestionID: "q2", QuestionText: "Cleanliness rating", Kind: models.QuestionKindRating, Position: 2, Rating: intPtr(3)},
	}
	svc := NewSurveyService(repo, nil, nil, nil)

	payload, filename, err := svc.ExportCSV(context.Background(), "canteen-2026")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "survey-canteen-2026-"))

	content := string(payload)
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "response_id,respondent_nik,submitted_at,question,kind,answer", strings.TrimSpace(lines[0]))
	assert.Contains(t, content, "Vendor B")
	assert.Contains(t, content, ",3")
}

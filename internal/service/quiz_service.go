package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swarga-apparel/employee-portal-api/internal/dto"
	"github.com/swarga-apparel/employee-portal-api/internal/models"
	"github.com/swarga-apparel/employee-portal-api/internal/repository"
	appErrors "github.com/swarga-apparel/employee-portal-api/pkg/errors"
	"github.com/swarga-apparel/employee-portal-api/pkg/export"
)

type quizRepository interface {
	FindActiveBySlug(ctx context.Context, slug string) (*models.Quiz, error)
	ListQuestions(ctx context.Context, quizID string) ([]models.QuizQuestion, error)
	CreateAttempt(ctx context.Context, attempt *models.QuizAttempt) error
	CreateCertificate(ctx context.Context, certificate *models.Certificate) error
	FindCertificateDetail(ctx context.Context, certificateID string) (*repository.CertificateDetail, error)
}

type certificateStore interface {
	Save(filename string, data []byte) (string, error)
	Read(filename string) ([]byte, error)
	Exists(filename string) bool
}

type certificateSigner interface {
	Generate(certificateID, relPath string) (string, time.Time, error)
	Parse(token string) (string, string, time.Time, error)
}

// QuizService orchestrates e-training quizzes: question delivery, single-pass
// scoring and certificate issuance with signed download links.
type QuizService struct {
	repo      quizRepository
	renderer  *export.CertificatePDF
	store     certificateStore
	signer    certificateSigner
	validator *validator.Validate
	logger    *zap.Logger
}

// NewQuizService constructs QuizService.
func NewQuizService(repo quizRepository, renderer *export.CertificatePDF, store certificateStore, signer certificateSigner, validate *validator.Validate, logger *zap.Logger) *QuizService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderer == nil {
		renderer = export.NewCertificatePDF()
	}
	return &QuizService{repo: repo, renderer: renderer, store: store, signer: signer, validator: validate, logger: logger}
}

// GetBySlug returns the active quiz with its questions. Correct answers are
// stripped by serialization.
func (s *QuizService) GetBySlug(ctx context.Context, slug string) (*dto.QuizDetail, error) {
	quiz, err := s.repo.FindActiveBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "quiz not found")
		}
		return nil, err
	}
	questions, err := s.repo.ListQuestions(ctx, quiz.ID)
	if err != nil {
		return nil, err
	}
	return &dto.QuizDetail{Quiz: *quiz, Questions: questions}, nil
}

// Submit scores an attempt and, when the pass threshold is met, issues a
// certificate and returns a signed download link.
func (s *QuizService) Submit(ctx context.Context, slug string, req dto.SubmitQuizRequest) (*dto.QuizResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid quiz submission")
	}

	quiz, err := s.repo.FindActiveBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "quiz not found")
		}
		return nil, err
	}
	questions, err := s.repo.ListQuestions(ctx, quiz.ID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "quiz has no questions")
	}

	correct := 0
	for _, question := range questions {
		if picked, ok := req.Answers[question.ID]; ok && picked == question.CorrectIndex {
			correct++
		}
	}
	score := correct * 100 / len(questions)

	attempt := &models.QuizAttempt{
		QuizID:   quiz.ID,
		NIK:      req.NIK,
		FullName: req.FullName,
		Score:    score,
		Passed:   score >= quiz.PassScore,
	}
	if err := s.repo.CreateAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	result := &dto.QuizResult{Attempt: *attempt}
	if !attempt.Passed {
		return result, nil
	}

	certificate := &models.Certificate{
		AttemptID: attempt.ID,
		Serial:    newCertificateSerial(quiz.Slug, attempt.TakenAt),
	}
	if err := s.repo.CreateCertificate(ctx, certificate); err != nil {
		return nil, err
	}

	relPath := certificatePath(certificate, attempt.TakenAt)
	payload, err := s.renderer.Render(export.CertificateData{
		Serial:       certificate.Serial,
		FullName:     attempt.FullName,
		NIK:          attempt.NIK,
		TrainingName: quiz.Title,
		Score:        attempt.Score,
		IssuedAt:     certificate.IssuedAt,
	})
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Save(relPath, payload); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(certificate.ID, relPath)
	if err != nil {
		return nil, err
	}

	s.logger.Info("certificate issued",
		zap.String("quiz", quiz.Slug),
		zap.String("serial", certificate.Serial),
		zap.Int("score", attempt.Score),
	)

	result.Certificate = certificate
	result.CertificateURL = fmt.Sprintf("/etraining/certificates/download?token=%s", token)
	result.ExpiresAt = &expiresAt
	return result, nil
}

// DownloadCertificate validates the signed token and returns the PDF bytes.
// Missing files are re-rendered from the stored attempt, since the document
// is a pure function of the certificate row.
func (s *QuizService) DownloadCertificate(ctx context.Context, token string) ([]byte, string, error) {
	certificateID, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid certificate link")
	}

	detail, err := s.repo.FindCertificateDetail(ctx, certificateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "certificate not found")
		}
		return nil, "", err
	}

	filename := fmt.Sprintf("certificate-%s.pdf", detail.Serial)
	if s.store.Exists(relPath) {
		payload, err := s.store.Read(relPath)
		if err != nil {
			return nil, "", err
		}
		return payload, filename, nil
	}

	payload, err := s.renderer.Render(export.CertificateData{
		Serial:       detail.Serial,
		FullName:     detail.FullName,
		NIK:          detail.NIK,
		TrainingName: detail.QuizTitle,
		Score:        detail.Score,
		IssuedAt:     detail.IssuedAt,
	})
	if err != nil {
		return nil, "", err
	}
	if _, err := s.store.Save(relPath, payload); err != nil {
		return nil, "", err
	}
	return payload, filename, nil
}

func newCertificateSerial(slug string, takenAt time.Time) string {
	if takenAt.IsZero() {
		takenAt = time.Now().UTC()
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("SWG-%s-%d-%s", strings.ToUpper(slug), takenAt.Year(), suffix)
}

func certificatePath(certificate *models.Certificate, takenAt time.Time) string {
	year := takenAt.Year()
	if takenAt.IsZero() {
		year = time.Now().UTC().Year()
	}
	return fmt.Sprintf("%d/%s.pdf", year, certificate.Serial)
}

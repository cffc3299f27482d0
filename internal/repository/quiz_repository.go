package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/swarga-apparel/employee-portal-api/internal/models"
)

// QuizRepository handles persistence of e-training quizzes, attempts and
// issued certificates.
type QuizRepository struct {
	db *sqlx.DB
}

// NewQuizRepository constructs the repository.
func NewQuizRepository(db *sqlx.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

// FindActiveBySlug returns the active quiz with the given slug, or sql.ErrNoRows.
func (r *QuizRepository) FindActiveBySlug(ctx context.Context, slug string) (*models.Quiz, error) {
	const query = `SELECT id, slug, title, pass_score, is_active FROM quizzes WHERE slug = $1 AND is_active = TRUE`
	var quiz models.Quiz
	if err := r.db.GetContext(ctx, &quiz, query, slug); err != nil {
		return nil, err
	}
	return &quiz, nil
}

// ListQuestions returns a quiz's questions ordered by position, including the
// correct option index for scoring.
func (r *QuizRepository) ListQuestions(ctx context.Context, quizID string) ([]models.QuizQuestion, error) {
	const query = `SELECT id, quiz_id, text, position, options, correct_index FROM quiz_questions WHERE quiz_id = $1 ORDER BY position ASC`
	var questions []models.QuizQuestion
	if err := r.db.SelectContext(ctx, &questions, query, quizID); err != nil {
		return nil, fmt.Errorf("list quiz questions: %w", err)
	}
	return questions, nil
}

// CreateAttempt persists a scored submission.
func (r *QuizRepository) CreateAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	if attempt.TakenAt.IsZero() {
		attempt.TakenAt = time.Now().UTC()
	}
	const query = `INSERT INTO quiz_attempts (id, quiz_id, nik, full_name, score, passed, taken_at)
        VALUES (:id, :quiz_id, :nik, :full_name, :score, :passed, :taken_at)`
	if _, err := r.db.NamedExecContext(ctx, query, attempt); err != nil {
		return fmt.Errorf("create quiz attempt: %w", err)
	}
	return nil
}

// CreateCertificate persists an issued certificate for a passing attempt.
func (r *QuizRepository) CreateCertificate(ctx context.Context, certificate *models.Certificate) error {
	if certificate.ID == "" {
		certificate.ID = uuid.NewString()
	}
	if certificate.IssuedAt.IsZero() {
		certificate.IssuedAt = time.Now().UTC()
	}
	const query = `INSERT INTO certificates (id, attempt_id, serial, issued_at)
        VALUES (:id, :attempt_id, :serial, :issued_at)`
	if _, err := r.db.NamedExecContext(ctx, query, certificate); err != nil {
		return fmt.Errorf("create certificate: %w", err)
	}
	return nil
}

// CertificateDetail joins a certificate with the attempt and quiz it belongs
// to, carrying everything needed to re-render the document.
type CertificateDetail struct {
	models.Certificate
	NIK       string    `db:"nik"`
	FullName  string    `db:"full_name"`
	Score     int       `db:"score"`
	QuizTitle string    `db:"quiz_title"`
	TakenAt   time.Time `db:"taken_at"`
}

// FindCertificateDetail returns the certificate joined with attempt and quiz
// context, or sql.ErrNoRows.
func (r *QuizRepository) FindCertificateDetail(ctx context.Context, certificateID string) (*CertificateDetail, error) {
	const query = `SELECT c.id, c.attempt_id, c.serial, c.issued_at,
        a.nik, a.full_name, a.score, a.taken_at, q.title AS quiz_title
        FROM certificates c
        JOIN quiz_attempts a ON a.id = c.attempt_id
        JOIN quizzes q ON q.id = a.quiz_id
        WHERE c.id = $1`
	var detail CertificateDetail
	if err := r.db.GetContext(ctx, &detail, query, certificateID); err != nil {
		return nil, err
	}
	return &detail, nil
}

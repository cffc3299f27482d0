package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/swarga-apparel/employee-portal-api/internal/models"
)

// SessionRepository handles persistence of yearly checkup sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// FindByID returns a session by its ID.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	const query = `SELECT id, participant_id, year, status, started_at, finished_at FROM mcu_sessions WHERE id = $1`
	var session models.Session
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// FindByParticipantAndYear returns the unique session for the pair, or
// sql.ErrNoRows when the participant has no session that year.
func (r *SessionRepository) FindByParticipantAndYear(ctx context.Context, participantID string, year int) (*models.Session, error) {
	const query = `SELECT id, participant_id, year, status, started_at, finished_at FROM mcu_sessions WHERE participant_id = $1 AND year = $2`
	var session models.Session
	if err := r.db.GetContext(ctx, &session, query, participantID, year); err != nil {
		return nil, err
	}
	return &session, nil
}

// Create inserts a session with the default in_progress status.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.Status == "" {
		session.Status = models.SessionStatusInProgress
	}
	if session.StartedAt.IsZero() {
		session.StartedAt = time.Now().UTC()
	}
	const query = `INSERT INTO mcu_sessions (id, participant_id, year, status, started_at, finished_at)
        VALUES (:id, :participant_id, :year, :status, :started_at, :finished_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetOrCreate resolves the (participant, year) session, creating it lazily on
// the first scan of the year. The unique constraint on the pair resolves
// concurrent first scans; the loser re-fetches the winner's row.
func (r *SessionRepository) GetOrCreate(ctx context.Context, participantID string, year int) (*models.Session, error) {
	session, err := r.FindByParticipantAndYear(ctx, participantID, year)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	created := &models.Session{ParticipantID: participantID, Year: year}
	if createErr := r.Create(ctx, created); createErr != nil {
		if isUniqueViolation(createErr) {
			return r.FindByParticipantAndYear(ctx, participantID, year)
		}
		return nil, createErr
	}
	return created, nil
}

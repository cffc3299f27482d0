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

// ParticipantRepository handles persistence of checkup participants.
type ParticipantRepository struct {
	db *sqlx.DB
}

// NewParticipantRepository constructs the repository.
func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// FindByNIK returns the participant with the exact national ID, or
// sql.ErrNoRows when absent.
func (r *ParticipantRepository) FindByNIK(ctx context.Context, nik string) (*models.Participant, error) {
	const query = `SELECT id, nik, full_name, entity, facility, department, created_at FROM participants WHERE nik = $1`
	var participant models.Participant
	if err := r.db.GetContext(ctx, &participant, query, nik); err != nil {
		return nil, err
	}
	return &participant, nil
}

// Create inserts a participant row with only the NIK populated.
func (r *ParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	if participant.ID == "" {
		participant.ID = uuid.NewString()
	}
	if participant.CreatedAt.IsZero() {
		participant.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO participants (id, nik, full_name, entity, facility, department, created_at)
        VALUES (:id, :nik, :full_name, :entity, :facility, :department, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, participant); err != nil {
		return fmt.Errorf("create participant: %w", err)
	}
	return nil
}

// GetOrCreate resolves a participant by NIK, inserting a bare row on first
// sight. A unique-violation on insert means a concurrent kiosk won the race;
// the existing row is re-fetched instead of failing.
func (r *ParticipantRepository) GetOrCreate(ctx context.Context, nik string) (*models.Participant, error) {
	participant, err := r.FindByNIK(ctx, nik)
	if err == nil {
		return participant, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	created := &models.Participant{NIK: nik}
	if createErr := r.Create(ctx, created); createErr != nil {
		if isUniqueViolation(createErr) {
			return r.FindByNIK(ctx, nik)
		}
		return nil, createErr
	}
	return created, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/swarga-apparel/employee-portal-api/internal/models"
)

// CheckpointRepository reads the checkpoint registry. Checkpoints are seeded
// out of band; no write path exists here.
type CheckpointRepository struct {
	db *sqlx.DB
}

// NewCheckpointRepository constructs the repository.
func NewCheckpointRepository(db *sqlx.DB) *CheckpointRepository {
	return &CheckpointRepository{db: db}
}

// ListActive returns active checkpoints ordered by visiting sequence.
func (r *CheckpointRepository) ListActive(ctx context.Context) ([]models.Checkpoint, error) {
	const query = `SELECT id, code, name, sequence, is_active FROM mcu_checkpoints WHERE is_active = TRUE ORDER BY sequence ASC`
	var checkpoints []models.Checkpoint
	if err := r.db.SelectContext(ctx, &checkpoints, query); err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	return checkpoints, nil
}

// FindByCode returns the checkpoint with the given code, or sql.ErrNoRows.
func (r *CheckpointRepository) FindByCode(ctx context.Context, code string) (*models.Checkpoint, error) {
	const query = `SELECT id, code, name, sequence, is_active FROM mcu_checkpoints WHERE code = $1`
	var checkpoint models.Checkpoint
	if err := r.db.GetContext(ctx, &checkpoint, query, code); err != nil {
		return nil, err
	}
	return &checkpoint, nil
}

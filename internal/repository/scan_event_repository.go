package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/swarga-apparel/employee-portal-api/internal/models"
)

// ScanEventRepository appends and aggregates checkpoint scan events. Events
// are immutable once written; no update or delete path exists.
type ScanEventRepository struct {
	db *sqlx.DB
}

// NewScanEventRepository constructs the repository.
func NewScanEventRepository(db *sqlx.DB) *ScanEventRepository {
	return &ScanEventRepository{db: db}
}

// Create appends a scan event. Repeat scans for the same (session, checkpoint)
// pair are intentional re-visits, so no dedup is applied.
func (r *ScanEventRepository) Create(ctx context.Context, event *models.ScanEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.ScannedAt.IsZero() {
		event.ScannedAt = time.Now().UTC()
	}
	if event.Source == "" {
		event.Source = "kiosk"
	}
	const query = `INSERT INTO mcu_scan_events (id, session_id, checkpoint_id, scanned_at, source, device_id)
        VALUES (:id, :session_id, :checkpoint_id, :scanned_at, :source, :device_id)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create scan event: %w", err)
	}
	return nil
}

// StatsBySession returns count plus first/last scan timestamps grouped per
// checkpoint for one session.
func (r *ScanEventRepository) StatsBySession(ctx context.Context, sessionID string) ([]models.CheckpointScanStats, error) {
	const query = `SELECT checkpoint_id, COUNT(*) AS scan_count,
        MIN(scanned_at) AS first_scanned_at, MAX(scanned_at) AS last_scanned_at
        FROM mcu_scan_events WHERE session_id = $1 GROUP BY checkpoint_id`
	var stats []models.CheckpointScanStats
	if err := r.db.SelectContext(ctx, &stats, query, sessionID); err != nil {
		return nil, fmt.Errorf("aggregate scan events: %w", err)
	}
	return stats, nil
}

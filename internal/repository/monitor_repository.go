package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/swarga-apparel/employee-portal-api/internal/models"
)

// MonitorRepository serves the read-only live dashboard query.
type MonitorRepository struct {
	db *sqlx.DB
}

// NewMonitorRepository constructs the repository.
func NewMonitorRepository(db *sqlx.DB) *MonitorRepository {
	return &MonitorRepository{db: db}
}

// ListLive returns session summaries matching the filter, most recently
// updated first. The limit is expected to be normalised by the caller.
func (r *MonitorRepository) ListLive(ctx context.Context, filter models.LiveMonitorFilter) ([]models.LiveSessionRow, error) {
	base := `FROM mcu_sessions s
JOIN participants p ON p.id = s.participant_id
LEFT JOIN LATERAL (
    SELECT COUNT(*) AS scan_count, MAX(e.scanned_at) AS last_scan_at
    FROM mcu_scan_events e WHERE e.session_id = s.id
) agg ON TRUE
LEFT JOIN LATERAL (
    SELECT c.name FROM mcu_scan_events e
    JOIN mcu_checkpoints c ON c.id = e.checkpoint_id
    WHERE e.session_id = s.id ORDER BY e.scanned_at DESC LIMIT 1
) last_cp(name) ON TRUE`

	conditions := []string{fmt.Sprintf("s.year = $%d", 1)}
	args := []interface{}{filter.Year}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Entity != "" {
		conditions = append(conditions, fmt.Sprintf("p.entity ILIKE '%%' || $%d || '%%'", len(args)+1))
		args = append(args, filter.Entity)
	}
	if filter.Facility != "" {
		conditions = append(conditions, fmt.Sprintf("p.facility ILIKE '%%' || $%d || '%%'", len(args)+1))
		args = append(args, filter.Facility)
	}
	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("p.department ILIKE '%%' || $%d || '%%'", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.Search != "" {
		n := len(args) + 1
		conditions = append(conditions, fmt.Sprintf(
			"(p.nik ILIKE '%%' || $%d || '%%' OR p.department ILIKE '%%' || $%d || '%%' OR p.facility ILIKE '%%' || $%d || '%%' OR last_cp.name ILIKE '%%' || $%d || '%%')",
			n, n, n, n))
		args = append(args, filter.Search)
	}
	if filter.StuckMinutes > 0 {
		conditions = append(conditions, fmt.Sprintf(
			"agg.last_scan_at IS NOT NULL AND agg.last_scan_at <= NOW() - ($%d * INTERVAL '1 minute')", len(args)+1))
		args = append(args, filter.StuckMinutes)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}

	query := fmt.Sprintf(`SELECT s.id AS session_id, p.nik, p.full_name, p.entity, p.facility, p.department,
        s.year, s.status, s.started_at, agg.last_scan_at, last_cp.name AS last_checkpoint_name,
        COALESCE(agg.scan_count, 0) AS scan_count
        %s WHERE %s
        ORDER BY COALESCE(agg.last_scan_at, s.started_at) DESC
        LIMIT %d`, base, strings.Join(conditions, " AND "), limit)

	var rows []models.LiveSessionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list live sessions: %w", err)
	}
	return rows, nil
}

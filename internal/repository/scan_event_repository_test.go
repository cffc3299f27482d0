package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarga-apparel/employee-portal-api/internal/models"
)

func TestScanEventRepositoryCreateAppliesDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScanEventRepository(db)

	mock.ExpectExec("INSERT INTO mcu_scan_events").
		WillReturnResult(sqlmock.NewResult(1, 1))

	event := &models.ScanEvent{SessionID: "s1", CheckpointID: "cp1"}
	require.NoError(t, repo.Create(context.Background(), event))
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.ScannedAt.IsZero())
	assert.Equal(t, "kiosk", event.Source)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScanEventRepositoryCreateKeepsExplicitSource(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScanEventRepository(db)

	mock.ExpectExec("INSERT INTO mcu_scan_events").
		WillReturnResult(sqlmock.NewResult(1, 1))

	event := &models.ScanEvent{SessionID: "s1", CheckpointID: "cp1", Source: "manual"}
	require.NoError(t, repo.Create(context.Background(), event))
	assert.Equal(t, "manual", event.Source)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScanEventRepositoryStatsBySession(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScanEventRepository(db)

	first := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	last := first.Add(15 * time.Minute)
	rows := sqlmock.NewRows([]string{"checkpoint_id", "scan_count", "first_scanned_at", "last_scanned_at"}).
		AddRow("cp1", 2, first, last).
		AddRow("cp2", 1, last, last)
	mock.ExpectQuery(regexp.QuoteMeta("FROM mcu_scan_events WHERE session_id = $1 GROUP BY checkpoint_id")).
		WithArgs("s1").
		WillReturnRows(rows)

	stats, err := repo.StatsBySession(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, 2, stats[0].ScanCount)
	assert.Equal(t, first, stats[0].FirstScannedAt)
	assert.Equal(t, last, stats[0].LastScannedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

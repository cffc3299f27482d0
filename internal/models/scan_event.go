package models

import "time"

// ScanEvent is a single timestamped record of a participant passing a
// checkpoint. Rows are append-only; repeat scans of the same checkpoint are
// meaningful re-visits, not duplicates.
type ScanEvent struct {
	ID           string    `db:"id" json:"id"`
	SessionID    string    `db:"session_id" json:"session_id"`
	CheckpointID string    `db:"checkpoint_id" json:"checkpoint_id"`
	ScannedAt    time.Time `db:"scanned_at" json:"scanned_at"`
	Source       string    `db:"source" json:"source"`
	DeviceID     *string   `db:"device_id" json:"device_id,omitempty"`
}

// CheckpointScanStats is the per-checkpoint aggregate read back from storage:
// count plus earliest and latest scan timestamps for one session.
type CheckpointScanStats struct {
	CheckpointID   string    `db:"checkpoint_id"`
	ScanCount      int       `db:"scan_count"`
	FirstScannedAt time.Time `db:"first_scanned_at"`
	LastScannedAt  time.Time `db:"last_scanned_at"`
}

// CheckpointArrival values for the derived per-checkpoint status.
const (
	CheckpointPending = "pending"
	CheckpointArrived = "arrived"
)

// CheckpointStatus is the derived per-checkpoint view for a session. It is a
// pure function of the scan events and is never stored.
type CheckpointStatus struct {
	Code           string     `json:"code"`
	Name           string     `json:"name"`
	Sequence       int        `json:"sequence"`
	Status         string     `json:"status"`
	FirstScannedAt *time.Time `json:"first_scanned_at"`
	LastScannedAt  *time.Time `json:"last_scanned_at"`
	ScanCount      int        `json:"scan_count"`
}

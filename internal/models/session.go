package models

import "time"

// SessionStatus is the coarse lifecycle state of a checkup session. The
// transition to finished is applied by an external process; this service only
// ever reads the field back.
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusFinished   SessionStatus = "finished"
)

// Valid returns true when the status is a supported value.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionStatusInProgress, SessionStatusFinished:
		return true
	default:
		return false
	}
}

// Session is one participant's yearly checkup instance. At most one session
// exists per (participant, year), enforced by a unique constraint.
type Session struct {
	ID            string        `db:"id" json:"id"`
	ParticipantID string        `db:"participant_id" json:"participant_id"`
	Year          int           `db:"year" json:"year"`
	Status        SessionStatus `db:"status" json:"status"`
	StartedAt     time.Time     `db:"started_at" json:"started_at"`
	FinishedAt    *time.Time    `db:"finished_at" json:"finished_at,omitempty"`
}

// LiveSessionRow is one row of the live monitoring dashboard: a session
// summary joined with participant demographics and last-scan recency.
type LiveSessionRow struct {
	SessionID          string        `db:"session_id" json:"session_id"`
	NIK                string        `db:"nik" json:"nik"`
	FullName           *string       `db:"full_name" json:"full_name,omitempty"`
	Entity             *string       `db:"entity" json:"entity,omitempty"`
	Facility           *string       `db:"facility" json:"facility,omitempty"`
	Department         *string       `db:"department" json:"department,omitempty"`
	Year               int           `db:"year" json:"year"`
	Status             SessionStatus `db:"status" json:"status"`
	StartedAt          time.Time     `db:"started_at" json:"started_at"`
	LastScanAt         *time.Time    `db:"last_scan_at" json:"last_scan_at,omitempty"`
	LastCheckpointName *string       `db:"last_checkpoint_name" json:"last_checkpoint_name,omitempty"`
	ScanCount          int           `db:"scan_count" json:"scan_count"`
	LastScanAgeMinutes *int          `json:"last_scan_age_minutes,omitempty"`
}

// LiveMonitorFilter captures query criteria for the live dashboard.
type LiveMonitorFilter struct {
	Year         int
	Status       SessionStatus
	Entity       string
	Facility     string
	Department   string
	Search       string
	StuckMinutes int
	Limit        int
}

package dto

import "github.com/swarga-apparel/employee-portal-api/internal/models"

// ScanResult is the composed payload returned after recording a scan.
type ScanResult struct {
	Participant *models.Participant `json:"participant"`
	Session     *models.Session     `json:"session"`
	Checkpoint  *models.Checkpoint  `json:"checkpoint"`
	ScanEvent   *models.ScanEvent   `json:"scan_event"`
}

// StatusResponse is the per-participant checkup progress view. Participant
// and Session are nil on a soft miss; Checkpoints is empty in that case.
type StatusResponse struct {
	Participant *models.Participant       `json:"participant"`
	Session     *models.Session           `json:"session"`
	Checkpoints []models.CheckpointStatus `json:"checkpoints"`
}

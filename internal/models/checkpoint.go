package models

// Checkpoint is a named, ordered physical station a participant passes through
// during a checkup. Rows are seeded out of band and read-only here.
type Checkpoint struct {
	ID       string `db:"id" json:"id"`
	Code     string `db:"code" json:"code"`
	Name     string `db:"name" json:"name"`
	Sequence int    `db:"sequence" json:"sequence"`
	IsActive bool   `db:"is_active" json:"is_active"`
}

package models

import "time"

// Participant represents an employee taking part in the yearly medical checkup.
// The NIK (national ID) is the sole external lookup key; a row is created on
// the first scan referencing an unknown NIK and never deleted afterwards.
// Demographic fields are back-filled by HR imports outside this service.
type Participant struct {
	ID         string    `db:"id" json:"id"`
	NIK        string    `db:"nik" json:"nik"`
	FullName   *string   `db:"full_name" json:"full_name,omitempty"`
	Entity     *string   `db:"entity" json:"entity,omitempty"`
	Facility   *string   `db:"facility" json:"facility,omitempty"`
	Department *string   `db:"department" json:"department,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

package models

import (
	"time"

	"github.com/lib/pq"
)

// Quiz is one e-training module with a passing score threshold in percent.
type Quiz struct {
	ID        string `db:"id" json:"id"`
	Slug      string `db:"slug" json:"slug"`
	Title     string `db:"title" json:"title"`
	PassScore int    `db:"pass_score" json:"pass_score"`
	IsActive  bool   `db:"is_active" json:"is_active"`
}

// QuizQuestion is a multiple-choice question. The correct option index is
// never serialized to clients.
type QuizQuestion struct {
	ID           string         `db:"id" json:"id"`
	QuizID       string         `db:"quiz_id" json:"quiz_id"`
	Text         string         `db:"text" json:"text"`
	Position     int            `db:"position" json:"position"`
	Options      pq.StringArray `db:"options" json:"options"`
	CorrectIndex int            `db:"correct_index" json:"-"`
}

// QuizAttempt records one scored submission.
type QuizAttempt struct {
	ID       string    `db:"id" json:"id"`
	QuizID   string    `db:"quiz_id" json:"quiz_id"`
	NIK      string    `db:"nik" json:"nik"`
	FullName string    `db:"full_name" json:"full_name"`
	Score    int       `db:"score" json:"score"`
	Passed   bool      `db:"passed" json:"passed"`
	TakenAt  time.Time `db:"taken_at" json:"taken_at"`
}

// Certificate is issued for a passing attempt, one per attempt.
type Certificate struct {
	ID        string    `db:"id" json:"id"`
	AttemptID string    `db:"attempt_id" json:"attempt_id"`
	Serial    string    `db:"serial" json:"serial"`
	IssuedAt  time.Time `db:"issued_at" json:"issued_at"`
}

package models

import "time"

// AcademicSession is a school year/term configuration. Exactly one session
// carries the current flag at any time.
type AcademicSession struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	IsCurrent bool      `db:"is_current" json:"is_current"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// GradingSystem defines a named grade scale.
type GradingSystem struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Scale     string    `db:"scale" json:"scale"`
	PassMark  float64   `db:"pass_mark" json:"pass_mark"`
	IsDefault bool      `db:"is_default" json:"is_default"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ExamType categorises examinations (e.g. mid-term, end-term, mock).
type ExamType struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Weight    float64   `db:"weight" json:"weight"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Examination is a scheduled exam instance for a session.
type Examination struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	SessionID  string    `db:"session_id" json:"session_id"`
	ExamTypeID string    `db:"exam_type_id" json:"exam_type_id"`
	StartDate  time.Time `db:"start_date" json:"start_date"`
	EndDate    time.Time `db:"end_date" json:"end_date"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

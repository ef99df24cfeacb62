package models

import "time"

// StudentStatus enumerates the enrolment states a student can hold.
type StudentStatus string

const (
	StudentStatusActive      StudentStatus = "active"
	StudentStatusSuspended   StudentStatus = "suspended"
	StudentStatusOnProbation StudentStatus = "on_probation"
	StudentStatusExpelled    StudentStatus = "expelled"
	StudentStatusInactive    StudentStatus = "inactive"

	// StudentStatusUnknown is the sentinel returned when a student has no
	// status history. It is not a valid domain status.
	StudentStatusUnknown StudentStatus = "Unknown"
)

// Student represents a learner registered in the institution.
type Student struct {
	ID              string        `db:"id" json:"id"`
	AdmissionNumber string        `db:"admission_number" json:"admission_number"`
	FullName        string        `db:"full_name" json:"full_name"`
	Grade           string        `db:"grade" json:"grade"`
	Status          StudentStatus `db:"status" json:"status"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

// StatusHistoryEntry is one immutable record in a student's status log.
// Corrections append a new entry, they never mutate an existing one.
type StatusHistoryEntry struct {
	ID                   string        `db:"id" json:"id"`
	StudentID            string        `db:"student_id" json:"student_id"`
	PreviousStatus       StudentStatus `db:"previous_status" json:"previous_status"`
	NewStatus            StudentStatus `db:"new_status" json:"new_status"`
	EffectiveDate        time.Time     `db:"effective_date" json:"effective_date"`
	EndDate              *time.Time    `db:"end_date" json:"end_date,omitempty"`
	AutoRestore          bool          `db:"auto_restore" json:"auto_restore"`
	ReasonType           string        `db:"reason_type" json:"reason_type"`
	Notes                *string       `db:"notes" json:"notes,omitempty"`
	DisciplinaryActionID *string       `db:"disciplinary_action_id" json:"disciplinary_action_id,omitempty"`
	CreatedAt            time.Time     `db:"created_at" json:"created_at"`
}

// StatusHistory pairs a student's history log with the derived current status.
// Entries are returned in insertion order; the current status is computed
// separately by the resolver.
type StatusHistory struct {
	StudentID     string               `json:"student_id"`
	CurrentStatus StudentStatus        `json:"current_status"`
	Entries       []StatusHistoryEntry `json:"entries"`
}

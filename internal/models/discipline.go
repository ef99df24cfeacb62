package models

import "time"

// IncidentType classifies disciplinary incidents.
type IncidentType string

const (
	IncidentMisconduct IncidentType = "Misconduct"
	IncidentAcademic   IncidentType = "Academic"
	IncidentAttendance IncidentType = "Attendance"
	IncidentOther      IncidentType = "Other"
)

// IncidentSeverity grades an incident.
type IncidentSeverity string

const (
	SeverityMinor    IncidentSeverity = "Minor"
	SeverityModerate IncidentSeverity = "Moderate"
	SeveritySerious  IncidentSeverity = "Serious"
)

// IncidentStatus tracks whether an incident is still open.
type IncidentStatus string

const (
	IncidentPending  IncidentStatus = "Pending"
	IncidentResolved IncidentStatus = "Resolved"
)

// Incident is a disciplinary record against a student. When AffectsStatus is
// set, saving the incident appends a StatusHistoryEntry for the student.
type Incident struct {
	ID              string           `db:"id" json:"id"`
	StudentID       string           `db:"student_id" json:"student_id"`
	StudentName     string           `db:"student_name" json:"student_name"`
	AdmissionNumber string           `db:"admission_number" json:"admission_number"`
	Grade           string           `db:"grade" json:"grade"`
	Date            time.Time        `db:"date" json:"date"`
	Type            IncidentType     `db:"type" json:"type"`
	Severity        IncidentSeverity `db:"severity" json:"severity"`
	Description     string           `db:"description" json:"description"`
	Location        string           `db:"location" json:"location"`
	Witnesses       string           `db:"witnesses" json:"witnesses"`
	Action          string           `db:"action" json:"action"`
	Status          IncidentStatus   `db:"status" json:"status"`
	FollowUpDate    *time.Time       `db:"follow_up_date" json:"follow_up_date,omitempty"`
	AffectsStatus   bool             `db:"affects_status" json:"affects_status"`
	StatusChange    StudentStatus    `db:"status_change" json:"status_change,omitempty"`
	EffectiveDate   *time.Time       `db:"effective_date" json:"effective_date,omitempty"`
	EndDate         *time.Time       `db:"end_date" json:"end_date,omitempty"`
	AutoRestore     bool             `db:"auto_restore" json:"auto_restore"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}

// ActionStatusMapping is read-only reference data linking a disciplinary
// action to the status change it implies.
type ActionStatusMapping struct {
	ID              string        `db:"id" json:"id"`
	ActionType      string        `db:"action_type" json:"action_type"`
	ResultingStatus StudentStatus `db:"resulting_status" json:"resulting_status"`
	DefaultDuration int           `db:"default_duration" json:"default_duration"`
}

// IncidentForm captures the status-change fields an action mapping can
// pre-fill on the incident form.
type IncidentForm struct {
	Action        string        `json:"action"`
	AffectsStatus bool          `json:"affects_status"`
	StatusChange  StudentStatus `json:"status_change"`
	EffectiveDate string        `json:"effective_date"`
	EndDate       string        `json:"end_date"`
}

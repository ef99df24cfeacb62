package models

import "time"

// LeaveStatus tracks the approval workflow. Approved and rejected are
// terminal states.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// LeaveRequest is a teacher's application for leave.
type LeaveRequest struct {
	ID              string      `db:"id" json:"id"`
	TeacherID       string      `db:"teacher_id" json:"teacher_id"`
	TeacherName     string      `db:"teacher_name" json:"teacher_name"`
	LeaveType       string      `db:"leave_type" json:"leave_type"`
	StartDate       time.Time   `db:"start_date" json:"start_date"`
	EndDate         time.Time   `db:"end_date" json:"end_date"`
	Days            int         `db:"days" json:"days"`
	Reason          string      `db:"reason" json:"reason"`
	Status          LeaveStatus `db:"status" json:"status"`
	RejectionReason *string     `db:"rejection_reason" json:"rejection_reason,omitempty"`
	DecidedBy       *string     `db:"decided_by" json:"decided_by,omitempty"`
	DecidedAt       *time.Time  `db:"decided_at" json:"decided_at,omitempty"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`
}

// LeaveBalance summarises remaining leave entitlement per type for a teacher.
type LeaveBalance struct {
	TeacherID string  `db:"teacher_id" json:"teacher_id"`
	LeaveType string  `db:"leave_type" json:"leave_type"`
	Entitled  float64 `db:"entitled" json:"entitled"`
	Used      float64 `db:"used" json:"used"`
	Remaining float64 `db:"remaining" json:"remaining"`
}

package models

import "time"

// PayrollRow is a computed payroll line for a teacher. Rows are produced by
// the payroll engine upstream; this API only lists and exports them.
type PayrollRow struct {
	ID          string    `db:"id" json:"id"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	TeacherName string    `db:"teacher_name" json:"teacher_name"`
	StaffNumber string    `db:"staff_number" json:"staff_number"`
	Period      string    `db:"period" json:"period"`
	GrossPay    float64   `db:"gross_pay" json:"gross_pay"`
	Deductions  float64   `db:"deductions" json:"deductions"`
	NetPay      float64   `db:"net_pay" json:"net_pay"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ReportFormat selects the artifact type for exports.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// ReportKind selects the dataset being exported.
type ReportKind string

const (
	ReportKindIncidents ReportKind = "incidents"
	ReportKindPayroll   ReportKind = "payroll"
)

// ReportJobStatus tracks asynchronous export generation.
type ReportJobStatus string

const (
	ReportJobPending   ReportJobStatus = "pending"
	ReportJobCompleted ReportJobStatus = "completed"
	ReportJobFailed    ReportJobStatus = "failed"
)

// ReportJob is one queued export request and its resulting artifact.
type ReportJob struct {
	ID          string          `db:"id" json:"id"`
	Kind        ReportKind      `db:"kind" json:"kind"`
	Format      ReportFormat    `db:"format" json:"format"`
	Status      ReportJobStatus `db:"status" json:"status"`
	FilePath    string          `db:"file_path" json:"-"`
	Error       *string         `db:"error" json:"error,omitempty"`
	RequestedBy string          `db:"requested_by" json:"requested_by"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	CompletedAt *time.Time      `db:"completed_at" json:"completed_at,omitempty"`
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Ortiz25/sms-api/internal/models"
)

// PayrollRepository reads payroll rows and manages report jobs. Rows are
// produced upstream; this API never mutates them.
type PayrollRepository struct {
	db *sqlx.DB
}

// NewPayrollRepository constructs a PayrollRepository.
func NewPayrollRepository(db *sqlx.DB) *PayrollRepository {
	return &PayrollRepository{db: db}
}

// List returns every payroll row, newest period first.
func (r *PayrollRepository) List(ctx context.Context) ([]models.PayrollRow, error) {
	const query = `SELECT id, teacher_id, teacher_name, staff_number, period, gross_pay, deductions, net_pay, status, created_at
        FROM payroll_rows ORDER BY period DESC, teacher_name ASC`
	var rows []models.PayrollRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list payroll rows: %w", err)
	}
	return rows, nil
}

// FindByID fetches a payroll row.
func (r *PayrollRepository) FindByID(ctx context.Context, id string) (*models.PayrollRow, error) {
	const query = `SELECT id, teacher_id, teacher_name, staff_number, period, gross_pay, deductions, net_pay, status, created_at
        FROM payroll_rows WHERE id = $1`
	var row models.PayrollRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateReportJob persists a queued export request.
func (r *PayrollRepository) CreateReportJob(ctx context.Context, job *models.ReportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO report_jobs (id, kind, format, status, file_path, error, requested_by, created_at, completed_at)
        VALUES (:id, :kind, :format, :status, :file_path, :error, :requested_by, :created_at, :completed_at)`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("create report job: %w", err)
	}
	return nil
}

// FindReportJobByID fetches a report job.
func (r *PayrollRepository) FindReportJobByID(ctx context.Context, id string) (*models.ReportJob, error) {
	const query = `SELECT id, kind, format, status, file_path, error, requested_by, created_at, completed_at
        FROM report_jobs WHERE id = $1`
	var job models.ReportJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateReportJob records the outcome of a generation attempt.
func (r *PayrollRepository) UpdateReportJob(ctx context.Context, job *models.ReportJob) error {
	const query = `UPDATE report_jobs SET status = :status, file_path = :file_path, error = :error, completed_at = :completed_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("update report job: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Ortiz25/sms-api/internal/models"
)

// LeaveRepository manages leave requests and balances.
type LeaveRepository struct {
	db *sqlx.DB
}

// NewLeaveRepository constructs a LeaveRepository.
func NewLeaveRepository(db *sqlx.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

const leaveColumns = `id, teacher_id, teacher_name, leave_type, start_date, end_date, days, reason,
        status, rejection_reason, decided_by, decided_at, created_at, updated_at`

// List returns every leave request, newest first.
func (r *LeaveRepository) List(ctx context.Context) ([]models.LeaveRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM leave_requests ORDER BY created_at DESC`, leaveColumns)
	var leaves []models.LeaveRequest
	if err := r.db.SelectContext(ctx, &leaves, query); err != nil {
		return nil, fmt.Errorf("list leaves: %w", err)
	}
	return leaves, nil
}

// FindByID fetches a leave request.
func (r *LeaveRepository) FindByID(ctx context.Context, id string) (*models.LeaveRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM leave_requests WHERE id = $1`, leaveColumns)
	var leave models.LeaveRequest
	if err := r.db.GetContext(ctx, &leave, query, id); err != nil {
		return nil, err
	}
	return &leave, nil
}

// Create inserts a new leave request.
func (r *LeaveRepository) Create(ctx context.Context, leave *models.LeaveRequest) error {
	if leave.ID == "" {
		leave.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if leave.CreatedAt.IsZero() {
		leave.CreatedAt = now
	}
	leave.UpdatedAt = now
	const query = `INSERT INTO leave_requests (id, teacher_id, teacher_name, leave_type, start_date, end_date, days, reason, status, created_at, updated_at)
        VALUES (:id, :teacher_id, :teacher_name, :leave_type, :start_date, :end_date, :days, :reason, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, leave); err != nil {
		return fmt.Errorf("create leave: %w", err)
	}
	return nil
}

// UpdateStatus records an approval or rejection decision.
func (r *LeaveRepository) UpdateStatus(ctx context.Context, leave *models.LeaveRequest) error {
	leave.UpdatedAt = time.Now().UTC()
	const query = `UPDATE leave_requests SET status = :status, rejection_reason = :rejection_reason,
        decided_by = :decided_by, decided_at = :decided_at, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, leave); err != nil {
		return fmt.Errorf("update leave status: %w", err)
	}
	return nil
}

// Balances returns the remaining entitlement per leave type for a teacher.
func (r *LeaveRepository) Balances(ctx context.Context, teacherID string) ([]models.LeaveBalance, error) {
	const query = `SELECT teacher_id, leave_type, entitled, used, entitled - used AS remaining
        FROM leave_balances WHERE teacher_id = $1 ORDER BY leave_type ASC`
	var balances []models.LeaveBalance
	if err := r.db.SelectContext(ctx, &balances, query, teacherID); err != nil {
		return nil, fmt.Errorf("list leave balances: %w", err)
	}
	return balances, nil
}

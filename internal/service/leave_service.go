package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Ortiz25/sms-api/internal/listing"
	"github.com/Ortiz25/sms-api/internal/models"
	appErrors "github.com/Ortiz25/sms-api/pkg/errors"
)

type leaveRepository interface {
	List(ctx context.Context) ([]models.LeaveRequest, error)
	FindByID(ctx context.Context, id string) (*models.LeaveRequest, error)
	Create(ctx context.Context, leave *models.LeaveRequest) error
	UpdateStatus(ctx context.Context, leave *models.LeaveRequest) error
	Balances(ctx context.Context, teacherID string) ([]models.LeaveBalance, error)
}

// LeaveInput is the write payload for new leave requests.
type LeaveInput struct {
	TeacherID   string `json:"teacher_id" validate:"required"`
	TeacherName string `json:"teacher_name" validate:"required"`
	LeaveType   string `json:"leave_type" validate:"required"`
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date" validate:"required"`
	Reason      string `json:"reason" validate:"required"`
}

// LeaveDecision carries an approve or reject action against a pending
// request. Rejections must carry a reason.
type LeaveDecision struct {
	Status          models.LeaveStatus `json:"status" validate:"required,oneof=approved rejected"`
	RejectionReason string             `json:"rejection_reason"`
}

// LeaveService implements the leave approval workflow.
type LeaveService struct {
	repo      leaveRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLeaveService constructs a LeaveService.
func NewLeaveService(repo leaveRepository, validate *validator.Validate, logger *zap.Logger) *LeaveService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaveService{repo: repo, validator: validate, logger: logger}
}

var leaveListConfig = listing.Config[models.LeaveRequest]{
	SearchFields: func(l models.LeaveRequest) []string {
		return []string{l.TeacherName, l.LeaveType, l.Reason}
	},
	StatusOf: func(l models.LeaveRequest) string { return string(l.Status) },
}

// List returns the visible page of leave requests.
func (s *LeaveService) List(ctx context.Context, q listing.Query) (*listing.Result[models.LeaveRequest], error) {
	leaves, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leave requests")
	}
	result := listing.Derive(leaves, q, leaveListConfig)
	return &result, nil
}

// Get fetches a single leave request.
func (s *LeaveService) Get(ctx context.Context, id string) (*models.LeaveRequest, error) {
	leave, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "leave request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch leave request")
	}
	return leave, nil
}

// Create submits a new leave request in the pending state.
func (s *LeaveService) Create(ctx context.Context, input LeaveInput) (*models.LeaveRequest, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leave payload")
	}

	start, err := time.Parse(DateLayout, input.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must use the 2006-01-02 layout")
	}
	end, err := time.Parse(DateLayout, input.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must use the 2006-01-02 layout")
	}
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date cannot precede start_date")
	}

	leave := &models.LeaveRequest{
		TeacherID:   input.TeacherID,
		TeacherName: input.TeacherName,
		LeaveType:   input.LeaveType,
		StartDate:   start,
		EndDate:     end,
		Days:        int(end.Sub(start).Hours()/24) + 1,
		Reason:      input.Reason,
		Status:      models.LeavePending,
	}
	if err := s.repo.Create(ctx, leave); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create leave request")
	}
	return leave, nil
}

// Decide transitions a pending request to approved or rejected. A rejection
// without a reason is refused before any persistence happens. Approved and
// rejected are terminal, further transitions conflict.
func (s *LeaveService) Decide(ctx context.Context, id string, decision LeaveDecision, decidedBy string) (*models.LeaveRequest, error) {
	if err := s.validator.Struct(decision); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}
	reason := strings.TrimSpace(decision.RejectionReason)
	if decision.Status == models.LeaveRejected && reason == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rejection requires a reason")
	}

	leave, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if leave.Status != models.LeavePending {
		return nil, appErrors.Clone(appErrors.ErrTerminalState, "leave request has already been decided")
	}

	now := time.Now().UTC()
	leave.Status = decision.Status
	leave.DecidedBy = &decidedBy
	leave.DecidedAt = &now
	if decision.Status == models.LeaveRejected {
		leave.RejectionReason = &reason
	}

	if err := s.repo.UpdateStatus(ctx, leave); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update leave request")
	}
	return leave, nil
}

// Balances returns the remaining entitlement per leave type for a teacher.
func (s *LeaveService) Balances(ctx context.Context, teacherID string) ([]models.LeaveBalance, error) {
	balances, err := s.repo.Balances(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch leave balances")
	}
	return balances, nil
}

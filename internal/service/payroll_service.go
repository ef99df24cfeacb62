package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/Ortiz25/sms-api/internal/listing"
	"github.com/Ortiz25/sms-api/internal/models"
	appErrors "github.com/Ortiz25/sms-api/pkg/errors"
)

type payrollRepository interface {
	List(ctx context.Context) ([]models.PayrollRow, error)
	FindByID(ctx context.Context, id string) (*models.PayrollRow, error)
}

// PayrollService serves payroll rows. Rows are produced upstream; this
// service only lists and fetches them.
type PayrollService struct {
	repo   payrollRepository
	logger *zap.Logger
}

// NewPayrollService constructs a PayrollService.
func NewPayrollService(repo payrollRepository, logger *zap.Logger) *PayrollService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PayrollService{repo: repo, logger: logger}
}

var payrollListConfig = listing.Config[models.PayrollRow]{
	SearchFields: func(p models.PayrollRow) []string {
		return []string{p.TeacherName, p.StaffNumber, p.Period}
	},
	StatusOf: func(p models.PayrollRow) string { return p.Status },
}

// List returns the visible page of payroll rows.
func (s *PayrollService) List(ctx context.Context, q listing.Query) (*listing.Result[models.PayrollRow], error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payroll rows")
	}
	result := listing.Derive(rows, q, payrollListConfig)
	return &result, nil
}

// Get fetches a single payroll row.
func (s *PayrollService) Get(ctx context.Context, id string) (*models.PayrollRow, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payroll row not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch payroll row")
	}
	return row, nil
}

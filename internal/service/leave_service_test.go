package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ortiz25/sms-api/internal/listing"
	"github.com/Ortiz25/sms-api/internal/models"
	appErrors "github.com/Ortiz25/sms-api/pkg/errors"
)

type mockLeaveRepo struct {
	leaves        map[string]*models.LeaveRequest
	balances      []models.LeaveBalance
	updateCalls   int
	lastUpdated   *models.LeaveRequest
	failOnUpdate  error
	listOverrides []models.LeaveRequest
}

func newMockLeaveRepo() *mockLeaveRepo {
	return &mockLeaveRepo{leaves: map[string]*models.LeaveRequest{}}
}

func (m *mockLeaveRepo) List(ctx context.Context) ([]models.LeaveRequest, error) {
	if m.listOverrides != nil {
		return m.listOverrides, nil
	}
	out := make([]models.LeaveRequest, 0, len(m.leaves))
	for _, l := range m.leaves {
		out = append(out, *l)
	}
	return out, nil
}

func (m *mockLeaveRepo) FindByID(ctx context.Context, id string) (*models.LeaveRequest, error) {
	l, ok := m.leaves[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *l
	return &copied, nil
}

func (m *mockLeaveRepo) Create(ctx context.Context, leave *models.LeaveRequest) error {
	if leave.ID == "" {
		leave.ID = "leave-1"
	}
	copied := *leave
	m.leaves[leave.ID] = &copied
	return nil
}

func (m *mockLeaveRepo) UpdateStatus(ctx context.Context, leave *models.LeaveRequest) error {
	m.updateCalls++
	if m.failOnUpdate != nil {
		return m.failOnUpdate
	}
	copied := *leave
	m.leaves[leave.ID] = &copied
	m.lastUpdated = &copied
	return nil
}

func (m *mockLeaveRepo) Balances(ctx context.Context, teacherID string) ([]models.LeaveBalance, error) {
	return m.balances, nil
}

func pendingLeave(id string) *models.LeaveRequest {
	return &models.LeaveRequest{
		ID:          id,
		TeacherID:   "t-1",
		TeacherName: "Alice Wanjiku",
		LeaveType:   "annual",
		Days:        3,
		Reason:      "family",
		Status:      models.LeavePending,
	}
}

func TestLeaveServiceCreate(t *testing.T) {
	repo := newMockLeaveRepo()
	svc := NewLeaveService(repo, nil, nil)

	leave, err := svc.Create(context.Background(), LeaveInput{
		TeacherID:   "t-1",
		TeacherName: "Alice Wanjiku",
		LeaveType:   "annual",
		StartDate:   "2026-04-01",
		EndDate:     "2026-04-03",
		Reason:      "family",
	})
	require.NoError(t, err)
	assert.Equal(t, models.LeavePending, leave.Status)
	assert.Equal(t, 3, leave.Days)
}

func TestLeaveServiceCreateRejectsInvertedRange(t *testing.T) {
	svc := NewLeaveService(newMockLeaveRepo(), nil, nil)
	_, err := svc.Create(context.Background(), LeaveInput{
		TeacherID:   "t-1",
		TeacherName: "Alice Wanjiku",
		LeaveType:   "annual",
		StartDate:   "2026-04-03",
		EndDate:     "2026-04-01",
		Reason:      "family",
	})
	require.Error(t, err)
}

func TestLeaveServiceApprove(t *testing.T) {
	repo := newMockLeaveRepo()
	repo.leaves["leave-1"] = pendingLeave("leave-1")
	svc := NewLeaveService(repo, nil, nil)

	leave, err := svc.Decide(context.Background(), "leave-1", LeaveDecision{Status: models.LeaveApproved}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.LeaveApproved, leave.Status)
	require.NotNil(t, leave.DecidedBy)
	assert.Equal(t, "admin-1", *leave.DecidedBy)
	assert.NotNil(t, leave.DecidedAt)
	assert.Nil(t, leave.RejectionReason)
}

func TestLeaveServiceRejectRequiresReason(t *testing.T) {
	repo := newMockLeaveRepo()
	repo.leaves["leave-1"] = pendingLeave("leave-1")
	svc := NewLeaveService(repo, nil, nil)

	for _, reason := range []string{"", "   "} {
		_, err := svc.Decide(context.Background(), "leave-1", LeaveDecision{
			Status:          models.LeaveRejected,
			RejectionReason: reason,
		}, "admin-1")
		require.Error(t, err)

		var appErr *appErrors.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	}

	// The repository is never touched when validation fails.
	assert.Zero(t, repo.updateCalls)
	assert.Equal(t, models.LeavePending, repo.leaves["leave-1"].Status)
}

func TestLeaveServiceRejectWithReason(t *testing.T) {
	repo := newMockLeaveRepo()
	repo.leaves["leave-1"] = pendingLeave("leave-1")
	svc := NewLeaveService(repo, nil, nil)

	leave, err := svc.Decide(context.Background(), "leave-1", LeaveDecision{
		Status:          models.LeaveRejected,
		RejectionReason: "  insufficient cover  ",
	}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.LeaveRejected, leave.Status)
	require.NotNil(t, leave.RejectionReason)
	assert.Equal(t, "insufficient cover", *leave.RejectionReason)
}

func TestLeaveServiceTerminalTransitionsConflict(t *testing.T) {
	repo := newMockLeaveRepo()

	approved := pendingLeave("leave-1")
	approved.Status = models.LeaveApproved
	repo.leaves["leave-1"] = approved

	rejected := pendingLeave("leave-2")
	rejected.Status = models.LeaveRejected
	repo.leaves["leave-2"] = rejected

	svc := NewLeaveService(repo, nil, nil)

	for _, id := range []string{"leave-1", "leave-2"} {
		_, err := svc.Decide(context.Background(), id, LeaveDecision{Status: models.LeaveApproved}, "admin-1")
		require.Error(t, err)

		var appErr *appErrors.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrTerminalState.Code, appErr.Code)
	}
	assert.Zero(t, repo.updateCalls)
}

func TestLeaveServiceDecideUnknownID(t *testing.T) {
	svc := NewLeaveService(newMockLeaveRepo(), nil, nil)
	_, err := svc.Decide(context.Background(), "ghost", LeaveDecision{Status: models.LeaveApproved}, "admin-1")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestLeaveServiceListFilters(t *testing.T) {
	repo := newMockLeaveRepo()
	repo.listOverrides = []models.LeaveRequest{
		{ID: "a", TeacherName: "Alice Wanjiku", Status: models.LeavePending},
		{ID: "b", TeacherName: "Brian Otieno", Status: models.LeaveApproved},
	}
	svc := NewLeaveService(repo, nil, nil)

	result, err := svc.List(context.Background(), listing.Query{Search: "alice"})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "a", result.Rows[0].ID)

	result, err = svc.List(context.Background(), listing.Query{Status: string(models.LeaveApproved)})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "b", result.Rows[0].ID)
}

func TestLeaveServiceBalances(t *testing.T) {
	repo := newMockLeaveRepo()
	repo.balances = []models.LeaveBalance{
		{TeacherID: "t-1", LeaveType: "annual", Entitled: 21, Used: 5, Remaining: 16},
	}
	svc := NewLeaveService(repo, nil, nil)

	balances, err := svc.Balances(context.Background(), "t-1")
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, 16.0, balances[0].Remaining)
}

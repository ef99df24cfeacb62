package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ortiz25/sms-api/internal/middleware"
	"github.com/Ortiz25/sms-api/internal/models"
	"github.com/Ortiz25/sms-api/internal/service"
	"github.com/Ortiz25/sms-api/pkg/response"
)

type leaveRepoStub struct {
	leaves      map[string]*models.LeaveRequest
	updateCalls int
}

func newLeaveRepoStub(seed ...*models.LeaveRequest) *leaveRepoStub {
	r := &leaveRepoStub{leaves: map[string]*models.LeaveRequest{}}
	for _, l := range seed {
		r.leaves[l.ID] = l
	}
	return r
}

func (r *leaveRepoStub) List(ctx context.Context) ([]models.LeaveRequest, error) {
	out := make([]models.LeaveRequest, 0, len(r.leaves))
	for _, l := range r.leaves {
		out = append(out, *l)
	}
	return out, nil
}

func (r *leaveRepoStub) FindByID(ctx context.Context, id string) (*models.LeaveRequest, error) {
	if l, ok := r.leaves[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (r *leaveRepoStub) Create(ctx context.Context, leave *models.LeaveRequest) error {
	r.leaves[leave.ID] = leave
	return nil
}

func (r *leaveRepoStub) UpdateStatus(ctx context.Context, leave *models.LeaveRequest) error {
	r.updateCalls++
	r.leaves[leave.ID] = leave
	return nil
}

func (r *leaveRepoStub) Balances(ctx context.Context, teacherID string) ([]models.LeaveBalance, error) {
	return []models.LeaveBalance{{TeacherID: teacherID, LeaveType: "annual", Entitled: 21, Used: 3, Remaining: 18}}, nil
}

func pendingLeave(id string) *models.LeaveRequest {
	return &models.LeaveRequest{
		ID:          id,
		TeacherID:   "teacher-1",
		TeacherName: "Grace Njeri",
		LeaveType:   "annual",
		StartDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC),
		Days:        3,
		Reason:      "family visit",
		Status:      models.LeavePending,
	}
}

func leaveTestContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, target, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, target, nil)
	}
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})
	return c, w
}

func TestLeaveHandlerCreate(t *testing.T) {
	repo := newLeaveRepoStub()
	h := NewLeaveHandler(service.NewLeaveService(repo, nil, zap.NewNop()))

	body, _ := json.Marshal(service.LeaveInput{
		TeacherID:   "teacher-1",
		TeacherName: "Grace Njeri",
		LeaveType:   "annual",
		StartDate:   "2026-04-01",
		EndDate:     "2026-04-03",
		Reason:      "family visit",
	})
	c, w := leaveTestContext(t, http.MethodPost, "/leaves", body)

	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	data := env.Data.(map[string]interface{})
	assert.Equal(t, float64(3), data["days"])
	assert.Equal(t, "pending", data["status"])
}

func TestLeaveHandlerDecideApprove(t *testing.T) {
	repo := newLeaveRepoStub(pendingLeave("leave-1"))
	h := NewLeaveHandler(service.NewLeaveService(repo, nil, zap.NewNop()))

	c, w := leaveTestContext(t, http.MethodPatch, "/leaves/leave-1/status", []byte(`{"status":"approved"}`))
	c.Params = gin.Params{{Key: "id", Value: "leave-1"}}

	h.Decide(c)
	require.Equal(t, http.StatusOK, w.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	data := env.Data.(map[string]interface{})
	assert.Equal(t, "approved", data["status"])
	assert.Equal(t, "admin-1", data["decided_by"])
}

func TestLeaveHandlerRejectWithoutReason(t *testing.T) {
	repo := newLeaveRepoStub(pendingLeave("leave-1"))
	h := NewLeaveHandler(service.NewLeaveService(repo, nil, zap.NewNop()))

	c, w := leaveTestContext(t, http.MethodPatch, "/leaves/leave-1/status", []byte(`{"status":"rejected"}`))
	c.Params = gin.Params{{Key: "id", Value: "leave-1"}}

	h.Decide(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, repo.updateCalls)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)
}

func TestLeaveHandlerDecideAlreadyDecided(t *testing.T) {
	decided := pendingLeave("leave-1")
	decided.Status = models.LeaveApproved
	repo := newLeaveRepoStub(decided)
	h := NewLeaveHandler(service.NewLeaveService(repo, nil, zap.NewNop()))

	c, w := leaveTestContext(t, http.MethodPatch, "/leaves/leave-1/status", []byte(`{"status":"rejected","rejection_reason":"overlap"}`))
	c.Params = gin.Params{{Key: "id", Value: "leave-1"}}

	h.Decide(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestLeaveHandlerBalances(t *testing.T) {
	h := NewLeaveHandler(service.NewLeaveService(newLeaveRepoStub(), nil, zap.NewNop()))

	c, w := leaveTestContext(t, http.MethodGet, "/leaves/balances/teacher-1", nil)
	c.Params = gin.Params{{Key: "teacherId", Value: "teacher-1"}}

	h.Balances(c)
	require.Equal(t, http.StatusOK, w.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	rows := env.Data.([]interface{})
	require.Len(t, rows, 1)
	assert.Equal(t, float64(18), rows[0].(map[string]interface{})["remaining"])
}

package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Ortiz25/sms-api/internal/models"
)

// Guard resource keys. One key per list endpoint so fetches against
// different resources never invalidate each other.
const (
	resourceIncidents = "incidents"
	resourceLeaves    = "leaves"
	resourcePayroll   = "payroll"
	resourceUsers     = "users"
)

// LoginRequest carries credentials for Login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates and stores the returned access token on the client,
// so subsequent calls are sent with it.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*models.LoginResponse, error) {
	var res models.LoginResponse
	if _, err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &res); err != nil {
		return nil, err
	}
	c.SetToken(res.AccessToken)
	return &res, nil
}

// Refresh exchanges a refresh token for a new pair and adopts the new
// access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*models.RefreshTokenResponse, error) {
	var res models.RefreshTokenResponse
	body := map[string]string{"refresh_token": refreshToken}
	if _, err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, body, &res); err != nil {
		return nil, err
	}
	c.SetToken(res.AccessToken)
	return &res, nil
}

// IncidentRequest is the write payload for incidents. Dates travel as bare
// 2006-01-02 strings, matching the server contract.
type IncidentRequest struct {
	StudentID     string `json:"student_id"`
	Date          string `json:"date"`
	Type          string `json:"type"`
	Severity      string `json:"severity"`
	Description   string `json:"description"`
	Location      string `json:"location,omitempty"`
	Witnesses     string `json:"witnesses,omitempty"`
	Action        string `json:"action"`
	Status        string `json:"status"`
	FollowUpDate  string `json:"follow_up_date,omitempty"`
	AffectsStatus bool   `json:"affects_status"`
	StatusChange  string `json:"status_change,omitempty"`
	EffectiveDate string `json:"effective_date,omitempty"`
	EndDate       string `json:"end_date,omitempty"`
	AutoRestore   bool   `json:"auto_restore"`
	Notes         string `json:"notes,omitempty"`
}

// ListIncidents fetches a page of incidents through the sequence guard.
func (c *Client) ListIncidents(ctx context.Context, opts ListOptions) (*Page[models.Incident], error) {
	return list[models.Incident](ctx, c, resourceIncidents, "/disciplinary/incidents", opts)
}

// GetIncident fetches one incident.
func (c *Client) GetIncident(ctx context.Context, id string) (*models.Incident, error) {
	var incident models.Incident
	if _, err := c.do(ctx, http.MethodGet, "/disciplinary/incidents/"+url.PathEscape(id), nil, nil, &incident); err != nil {
		return nil, err
	}
	return &incident, nil
}

// CreateIncident records a new incident.
func (c *Client) CreateIncident(ctx context.Context, req IncidentRequest) (*models.Incident, error) {
	var incident models.Incident
	if _, err := c.do(ctx, http.MethodPost, "/disciplinary/incidents", nil, req, &incident); err != nil {
		return nil, err
	}
	return &incident, nil
}

// UpdateIncident replaces an incident.
func (c *Client) UpdateIncident(ctx context.Context, id string, req IncidentRequest) (*models.Incident, error) {
	var incident models.Incident
	if _, err := c.do(ctx, http.MethodPut, "/disciplinary/incidents/"+url.PathEscape(id), nil, req, &incident); err != nil {
		return nil, err
	}
	return &incident, nil
}

// DeleteIncident removes an incident and its status history entries.
func (c *Client) DeleteIncident(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/disciplinary/incidents/"+url.PathEscape(id), nil, nil, nil)
	return err
}

// StatusHistory fetches a student's status log with the derived current
// status.
func (c *Client) StatusHistory(ctx context.Context, studentID string) (*models.StatusHistory, error) {
	var history models.StatusHistory
	path := "/disciplinary/students/" + url.PathEscape(studentID) + "/status-history"
	if _, err := c.do(ctx, http.MethodGet, path, nil, nil, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

// ActionMappings fetches the action to status reference data.
func (c *Client) ActionMappings(ctx context.Context) ([]models.ActionStatusMapping, error) {
	var mappings []models.ActionStatusMapping
	if _, err := c.do(ctx, http.MethodGet, "/disciplinary/action-status-mappings", nil, nil, &mappings); err != nil {
		return nil, err
	}
	return mappings, nil
}

// PrefillIncidentForm asks the server to auto-fill status-change fields
// for the chosen action.
func (c *Client) PrefillIncidentForm(ctx context.Context, action string, form models.IncidentForm) (*models.IncidentForm, error) {
	var out models.IncidentForm
	body := struct {
		Action string              `json:"action"`
		Form   models.IncidentForm `json:"form"`
	}{Action: action, Form: form}
	if _, err := c.do(ctx, http.MethodPost, "/disciplinary/incidents/prefill", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LeaveRequest is the write payload for leave applications.
type LeaveRequest struct {
	TeacherID   string `json:"teacher_id"`
	TeacherName string `json:"teacher_name"`
	LeaveType   string `json:"leave_type"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Reason      string `json:"reason"`
}

// LeaveDecisionRequest approves or rejects a pending leave request.
type LeaveDecisionRequest struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// ListLeaves fetches a page of leave requests through the sequence guard.
func (c *Client) ListLeaves(ctx context.Context, opts ListOptions) (*Page[models.LeaveRequest], error) {
	return list[models.LeaveRequest](ctx, c, resourceLeaves, "/leaves", opts)
}

// CreateLeave submits a leave application.
func (c *Client) CreateLeave(ctx context.Context, req LeaveRequest) (*models.LeaveRequest, error) {
	var leave models.LeaveRequest
	if _, err := c.do(ctx, http.MethodPost, "/leaves", nil, req, &leave); err != nil {
		return nil, err
	}
	return &leave, nil
}

// DecideLeave approves or rejects a pending request.
func (c *Client) DecideLeave(ctx context.Context, id string, req LeaveDecisionRequest) (*models.LeaveRequest, error) {
	var leave models.LeaveRequest
	if _, err := c.do(ctx, http.MethodPatch, "/leaves/"+url.PathEscape(id)+"/status", nil, req, &leave); err != nil {
		return nil, err
	}
	return &leave, nil
}

// LeaveBalances fetches the remaining entitlement per leave type.
func (c *Client) LeaveBalances(ctx context.Context, teacherID string) ([]models.LeaveBalance, error) {
	var balances []models.LeaveBalance
	if _, err := c.do(ctx, http.MethodGet, "/leaves/balances/"+url.PathEscape(teacherID), nil, nil, &balances); err != nil {
		return nil, err
	}
	return balances, nil
}

// ListPayroll fetches a page of payroll rows through the sequence guard.
func (c *Client) ListPayroll(ctx context.Context, opts ListOptions) (*Page[models.PayrollRow], error) {
	return list[models.PayrollRow](ctx, c, resourcePayroll, "/payroll", opts)
}

// ListUsers fetches a page of user accounts through the sequence guard.
func (c *Client) ListUsers(ctx context.Context, opts ListOptions) (*Page[models.User], error) {
	return list[models.User](ctx, c, resourceUsers, "/users", opts)
}

// ExportRequest queues a report export.
type ExportRequest struct {
	Kind   string `json:"kind"`
	Format string `json:"format"`
}

// RequestExport queues an export job and returns it in the pending state.
func (c *Client) RequestExport(ctx context.Context, req ExportRequest) (*models.ReportJob, error) {
	var job models.ReportJob
	if _, err := c.do(ctx, http.MethodPost, "/reports/exports", nil, req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetExport fetches the state of a queued export job.
func (c *Client) GetExport(ctx context.Context, id string) (*models.ReportJob, error) {
	var job models.ReportJob
	if _, err := c.do(ctx, http.MethodGet, "/reports/exports/"+url.PathEscape(id), nil, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gin-gonic/gin"

	"github.com/Ortiz25/sms-api/internal/models"
	"github.com/Ortiz25/sms-api/internal/service"
	"github.com/Ortiz25/sms-api/pkg/response"
)

type disciplineRepoStub struct {
	students  map[string]*models.Student
	incidents map[string]*models.Incident
	history   []models.StatusHistoryEntry
	mappings  []models.ActionStatusMapping
}

func newDisciplineRepoStub() *disciplineRepoStub {
	return &disciplineRepoStub{
		students:  map[string]*models.Student{},
		incidents: map[string]*models.Incident{},
		mappings: []models.ActionStatusMapping{
			{ID: "map-1", ActionType: "Suspension", ResultingStatus: models.StudentStatusSuspended, DefaultDuration: 14},
		},
	}
}

func (r *disciplineRepoStub) ListIncidents(ctx context.Context) ([]models.Incident, error) {
	out := make([]models.Incident, 0, len(r.incidents))
	for _, i := range r.incidents {
		out = append(out, *i)
	}
	return out, nil
}

func (r *disciplineRepoStub) FindIncidentByID(ctx context.Context, id string) (*models.Incident, error) {
	if i, ok := r.incidents[id]; ok {
		cp := *i
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (r *disciplineRepoStub) CreateIncident(ctx context.Context, incident *models.Incident) error {
	r.incidents[incident.ID] = incident
	return nil
}

func (r *disciplineRepoStub) UpdateIncident(ctx context.Context, incident *models.Incident) error {
	r.incidents[incident.ID] = incident
	return nil
}

func (r *disciplineRepoStub) DeleteIncident(ctx context.Context, id string) error {
	delete(r.incidents, id)
	return nil
}

func (r *disciplineRepoStub) ListStatusHistory(ctx context.Context, studentID string) ([]models.StatusHistoryEntry, error) {
	var out []models.StatusHistoryEntry
	for _, e := range r.history {
		if e.StudentID == studentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *disciplineRepoStub) AppendStatusHistory(ctx context.Context, entry *models.StatusHistoryEntry) error {
	r.history = append(r.history, *entry)
	return nil
}

func (r *disciplineRepoStub) ListRestoreCandidates(ctx context.Context, asOf time.Time) ([]models.StatusHistoryEntry, error) {
	return nil, nil
}

func (r *disciplineRepoStub) ListActionMappings(ctx context.Context) ([]models.ActionStatusMapping, error) {
	return r.mappings, nil
}

func (r *disciplineRepoStub) FindStudentByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := r.students[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (r *disciplineRepoStub) UpdateStudentStatus(ctx context.Context, studentID string, status models.StudentStatus) error {
	if s, ok := r.students[studentID]; ok {
		s.Status = status
	}
	return nil
}

func newDisciplineHandler(repo *disciplineRepoStub) *DisciplineHandler {
	return NewDisciplineHandler(service.NewDisciplineService(repo, nil, nil, nil, nil))
}

func TestDisciplineHandlerCreateIncident(t *testing.T) {
	repo := newDisciplineRepoStub()
	repo.students["student-1"] = &models.Student{
		ID: "student-1", AdmissionNumber: "ADM-001", FullName: "Brian Otieno",
		Grade: "Form 3", Status: models.StudentStatusActive,
	}
	h := newDisciplineHandler(repo)

	body, _ := json.Marshal(service.IncidentInput{
		StudentID:     "student-1",
		Date:          "2026-03-10",
		Type:          models.IncidentMisconduct,
		Severity:      models.SeveritySerious,
		Description:   "fighting in the dormitory",
		Action:        "Suspension",
		Status:        models.IncidentPending,
		AffectsStatus: true,
		StatusChange:  models.StudentStatusSuspended,
		EffectiveDate: "2026-03-10",
		EndDate:       "2026-03-24",
		AutoRestore:   true,
	})
	c, w := leaveTestContext(t, http.MethodPost, "/disciplinary/incidents", body)

	h.CreateIncident(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.history, 1)
	assert.Equal(t, models.StudentStatusSuspended, repo.students["student-1"].Status)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	data := env.Data.(map[string]interface{})
	assert.Equal(t, "Brian Otieno", data["student_name"])
	assert.Equal(t, "ADM-001", data["admission_number"])
}

func TestDisciplineHandlerCreateIncidentMissingStatusChange(t *testing.T) {
	repo := newDisciplineRepoStub()
	repo.students["student-1"] = &models.Student{ID: "student-1", Status: models.StudentStatusActive}
	h := newDisciplineHandler(repo)

	body := []byte(`{
		"student_id": "student-1",
		"date": "2026-03-10",
		"type": "Misconduct",
		"severity": "Minor",
		"description": "late for prep",
		"action": "Warning",
		"status": "Pending",
		"affects_status": true
	}`)
	c, w := leaveTestContext(t, http.MethodPost, "/disciplinary/incidents", body)

	h.CreateIncident(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.incidents)
}

func TestDisciplineHandlerPrefillForm(t *testing.T) {
	h := newDisciplineHandler(newDisciplineRepoStub())

	body := []byte(`{"action": "Suspension", "form": {"effective_date": "2026-03-10"}}`)
	c, w := leaveTestContext(t, http.MethodPost, "/disciplinary/incidents/prefill", body)

	h.PrefillForm(c)
	require.Equal(t, http.StatusOK, w.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	form := env.Data.(map[string]interface{})
	assert.Equal(t, true, form["affects_status"])
	assert.Equal(t, "suspended", form["status_change"])
	wantEnd := time.Now().UTC().AddDate(0, 0, 14).Format("2006-01-02")
	assert.Equal(t, wantEnd, form["end_date"])
}

func TestDisciplineHandlerStatusHistoryUnknownStudent(t *testing.T) {
	h := newDisciplineHandler(newDisciplineRepoStub())

	c, w := leaveTestContext(t, http.MethodGet, "/disciplinary/students/ghost/status-history", nil)
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}

	h.StatusHistory(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDisciplineHandlerStatusHistoryEmptyLog(t *testing.T) {
	repo := newDisciplineRepoStub()
	repo.students["student-1"] = &models.Student{ID: "student-1", Status: models.StudentStatusActive}
	h := newDisciplineHandler(repo)

	c, w := leaveTestContext(t, http.MethodGet, "/disciplinary/students/student-1/status-history", nil)
	c.Params = gin.Params{{Key: "id", Value: "student-1"}}

	h.StatusHistory(c)
	require.Equal(t, http.StatusOK, w.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	data := env.Data.(map[string]interface{})
	assert.Equal(t, string(models.StudentStatusUnknown), data["current_status"])
}

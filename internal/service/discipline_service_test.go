package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ortiz25/sms-api/internal/listing"
	"github.com/Ortiz25/sms-api/internal/models"
	appErrors "github.com/Ortiz25/sms-api/pkg/errors"
)

type mockDisciplineRepo struct {
	incidents map[string]*models.Incident
	history   map[string][]models.StatusHistoryEntry
	mappings  []models.ActionStatusMapping
	students  map[string]*models.Student
}

func newMockDisciplineRepo() *mockDisciplineRepo {
	return &mockDisciplineRepo{
		incidents: map[string]*models.Incident{},
		history:   map[string][]models.StatusHistoryEntry{},
		students:  map[string]*models.Student{},
	}
}

func (m *mockDisciplineRepo) ListIncidents(ctx context.Context) ([]models.Incident, error) {
	out := make([]models.Incident, 0, len(m.incidents))
	for _, inc := range m.incidents {
		out = append(out, *inc)
	}
	return out, nil
}

func (m *mockDisciplineRepo) FindIncidentByID(ctx context.Context, id string) (*models.Incident, error) {
	inc, ok := m.incidents[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *inc
	return &copied, nil
}

func (m *mockDisciplineRepo) CreateIncident(ctx context.Context, incident *models.Incident) error {
	if incident.ID == "" {
		incident.ID = "inc-" + incident.StudentID
	}
	copied := *incident
	m.incidents[incident.ID] = &copied
	return nil
}

func (m *mockDisciplineRepo) UpdateIncident(ctx context.Context, incident *models.Incident) error {
	copied := *incident
	m.incidents[incident.ID] = &copied
	return nil
}

func (m *mockDisciplineRepo) DeleteIncident(ctx context.Context, id string) error {
	delete(m.incidents, id)
	for studentID, entries := range m.history {
		kept := entries[:0]
		for _, e := range entries {
			if e.DisciplinaryActionID == nil || *e.DisciplinaryActionID != id {
				kept = append(kept, e)
			}
		}
		m.history[studentID] = kept
	}
	return nil
}

func (m *mockDisciplineRepo) ListStatusHistory(ctx context.Context, studentID string) ([]models.StatusHistoryEntry, error) {
	return append([]models.StatusHistoryEntry(nil), m.history[studentID]...), nil
}

func (m *mockDisciplineRepo) AppendStatusHistory(ctx context.Context, entry *models.StatusHistoryEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	m.history[entry.StudentID] = append(m.history[entry.StudentID], *entry)
	return nil
}

func (m *mockDisciplineRepo) ListRestoreCandidates(ctx context.Context, asOf time.Time) ([]models.StatusHistoryEntry, error) {
	var out []models.StatusHistoryEntry
	for _, entries := range m.history {
		for _, e := range entries {
			if e.AutoRestore && e.EndDate != nil && !e.EndDate.After(asOf) {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func (m *mockDisciplineRepo) ListActionMappings(ctx context.Context) ([]models.ActionStatusMapping, error) {
	return m.mappings, nil
}

func (m *mockDisciplineRepo) FindStudentByID(ctx context.Context, id string) (*models.Student, error) {
	student, ok := m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *student
	return &copied, nil
}

func (m *mockDisciplineRepo) UpdateStudentStatus(ctx context.Context, studentID string, status models.StudentStatus) error {
	if student, ok := m.students[studentID]; ok {
		student.Status = status
	}
	return nil
}

func seededStudent() *models.Student {
	return &models.Student{
		ID:              "stu-1",
		AdmissionNumber: "ADM-001",
		FullName:        "Jane Mwangi",
		Grade:           "Form 2",
		Status:          models.StudentStatusActive,
	}
}

func suspensionInput() IncidentInput {
	return IncidentInput{
		StudentID:     "stu-1",
		Date:          "2026-03-10",
		Type:          models.IncidentMisconduct,
		Severity:      models.SeveritySerious,
		Description:   "Fighting in the dormitory",
		Action:        "Suspension",
		Status:        models.IncidentPending,
		AffectsStatus: true,
		StatusChange:  models.StudentStatusSuspended,
		EffectiveDate: "2026-03-10",
		EndDate:       "2026-03-24",
		AutoRestore:   true,
	}
}

func TestDisciplineServiceCreateAppendsHistory(t *testing.T) {
	repo := newMockDisciplineRepo()
	repo.students["stu-1"] = seededStudent()
	svc := NewDisciplineService(repo, nil, nil, nil, nil)

	incident, err := svc.CreateIncident(context.Background(), suspensionInput())
	require.NoError(t, err)
	assert.Equal(t, "Jane Mwangi", incident.StudentName)

	entries := repo.history["stu-1"]
	require.Len(t, entries, 1)
	assert.Equal(t, models.StudentStatusActive, entries[0].PreviousStatus)
	assert.Equal(t, models.StudentStatusSuspended, entries[0].NewStatus)
	assert.True(t, entries[0].AutoRestore)
	require.NotNil(t, entries[0].DisciplinaryActionID)
	assert.Equal(t, incident.ID, *entries[0].DisciplinaryActionID)

	assert.Equal(t, models.StudentStatusSuspended, repo.students["stu-1"].Status)
}

func TestDisciplineServiceCreateWithoutStatusChange(t *testing.T) {
	repo := newMockDisciplineRepo()
	repo.students["stu-1"] = seededStudent()
	svc := NewDisciplineService(repo, nil, nil, nil, nil)

	input := suspensionInput()
	input.AffectsStatus = false
	input.StatusChange = ""
	input.EffectiveDate = ""
	input.EndDate = ""

	_, err := svc.CreateIncident(context.Background(), input)
	require.NoError(t, err)
	assert.Empty(t, repo.history["stu-1"])
	assert.Equal(t, models.StudentStatusActive, repo.students["stu-1"].Status)
}

func TestDisciplineServiceUpdateAppendsNewEntry(t *testing.T) {
	repo := newMockDisciplineRepo()
	repo.students["stu-1"] = seededStudent()
	svc := NewDisciplineService(repo, nil, nil, nil, nil)

	incident, err := svc.CreateIncident(context.Background(), suspensionInput())
	require.NoError(t, err)

	input := suspensionInput()
	input.StatusChange = models.StudentStatusOnProbation
	input.EffectiveDate = "2026-03-25"
	input.EndDate = ""
	_, err = svc.UpdateIncident(context.Background(), incident.ID, input)
	require.NoError(t, err)

	// The edit appends, it never rewrites the original entry.
	entries := repo.history["stu-1"]
	require.Len(t, entries, 2)
	assert.Equal(t, models.StudentStatusSuspended, entries[0].NewStatus)
	assert.Equal(t, models.StudentStatusOnProbation, entries[1].NewStatus)
}

func TestDisciplineServiceDeleteCascadesAndRefreshes(t *testing.T) {
	repo := newMockDisciplineRepo()
	repo.students["stu-1"] = seededStudent()
	svc := NewDisciplineService(repo, nil, nil, nil, nil)

	incident, err := svc.CreateIncident(context.Background(), suspensionInput())
	require.NoError(t, err)
	require.Equal(t, models.StudentStatusSuspended, repo.students["stu-1"].Status)

	require.NoError(t, svc.DeleteIncident(context.Background(), incident.ID))
	assert.Empty(t, repo.history["stu-1"])
	_, err = svc.GetIncident(context.Background(), incident.ID)
	require.Error(t, err)
}

func TestDisciplineServiceValidationFailures(t *testing.T) {
	repo := newMockDisciplineRepo()
	repo.students["stu-1"] = seededStudent()
	svc := NewDisciplineService(repo, nil, nil, nil, nil)

	t.Run("missing status change when affecting status", func(t *testing.T) {
		input := suspensionInput()
		input.StatusChange = ""
		_, err := svc.CreateIncident(context.Background(), input)
		require.Error(t, err)
		var appErr *appErrors.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	})

	t.Run("end date before effective date", func(t *testing.T) {
		input := suspensionInput()
		input.EndDate = "2026-03-01"
		_, err := svc.CreateIncident(context.Background(), input)
		require.Error(t, err)
	})

	t.Run("malformed date", func(t *testing.T) {
		input := suspensionInput()
		input.Date = "10/03/2026"
		_, err := svc.CreateIncident(context.Background(), input)
		require.Error(t, err)
	})

	t.Run("unknown student", func(t *testing.T) {
		input := suspensionInput()
		input.StudentID = "ghost"
		_, err := svc.CreateIncident(context.Background(), input)
		require.Error(t, err)
		var appErr *appErrors.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	})
}

func TestDisciplineServiceStatusHistoryDerivesCurrent(t *testing.T) {
	repo := newMockDisciplineRepo()
	repo.students["stu-1"] = seededStudent()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	repo.history["stu-1"] = []models.StatusHistoryEntry{
		{StudentID: "stu-1", NewStatus: models.StudentStatusSuspended, EffectiveDate: base.AddDate(0, 0, 10), CreatedAt: base.AddDate(0, 0, 10)},
		{StudentID: "stu-1", NewStatus: models.StudentStatusActive, EffectiveDate: base, CreatedAt: base},
	}
	svc := NewDisciplineService(repo, nil, nil, nil, nil)

	history, err := svc.StatusHistory(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, models.StudentStatusSuspended, history.CurrentStatus)
	// Entries come back in insertion order, not resolved order.
	require.Len(t, history.Entries, 2)
	assert.Equal(t, models.StudentStatusSuspended, history.Entries[0].NewStatus)
}

func TestDisciplineServiceStatusHistoryEmptyIsUnknown(t *testing.T) {
	repo := newMockDisciplineRepo()
	repo.students["stu-1"] = seededStudent()
	svc := NewDisciplineService(repo, nil, nil, nil, nil)

	history, err := svc.StatusHistory(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, models.StudentStatusUnknown, history.CurrentStatus)
	assert.Empty(t, history.Entries)
}

func TestDisciplineServicePrefillForm(t *testing.T) {
	repo := newMockDisciplineRepo()
	repo.mappings = []models.ActionStatusMapping{
		{ActionType: "Suspension", ResultingStatus: models.StudentStatusSuspended, DefaultDuration: 14},
	}
	svc := NewDisciplineService(repo, nil, nil, nil, nil)
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	form, err := svc.PrefillForm(context.Background(), models.IncidentForm{}, "Suspension", today)
	require.NoError(t, err)
	assert.True(t, form.AffectsStatus)
	assert.Equal(t, models.StudentStatusSuspended, form.StatusChange)
	assert.Equal(t, "2026-03-10", form.EffectiveDate)
	assert.Equal(t, "2026-03-24", form.EndDate)
}

func TestDisciplineServiceRestoreSweep(t *testing.T) {
	repo := newMockDisciplineRepo()
	student := seededStudent()
	student.Status = models.StudentStatusSuspended
	repo.students["stu-1"] = student

	end := time.Date(2026, 3, 24, 0, 0, 0, 0, time.UTC)
	repo.history["stu-1"] = []models.StatusHistoryEntry{
		{
			StudentID:     "stu-1",
			NewStatus:     models.StudentStatusSuspended,
			EffectiveDate: end.AddDate(0, 0, -14),
			EndDate:       &end,
			AutoRestore:   true,
			CreatedAt:     end.AddDate(0, 0, -14),
		},
	}
	svc := NewDisciplineService(repo, nil, nil, nil, nil)

	restored, err := svc.RestoreSweep(context.Background(), end.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, restored)
	assert.Equal(t, models.StudentStatusActive, repo.students["stu-1"].Status)

	entries := repo.history["stu-1"]
	require.Len(t, entries, 2)
	assert.Equal(t, "auto_restore", entries[1].ReasonType)

	// A second sweep finds the student already restored and does nothing.
	restored, err = svc.RestoreSweep(context.Background(), end.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, 0, restored)
	assert.Len(t, repo.history["stu-1"], 2)
}

func TestDisciplineServiceRestoreSweepSkipsSupersededStatus(t *testing.T) {
	repo := newMockDisciplineRepo()
	repo.students["stu-1"] = seededStudent()

	end := time.Date(2026, 3, 24, 0, 0, 0, 0, time.UTC)
	repo.history["stu-1"] = []models.StatusHistoryEntry{
		{
			StudentID:     "stu-1",
			NewStatus:     models.StudentStatusSuspended,
			EffectiveDate: end.AddDate(0, 0, -14),
			EndDate:       &end,
			AutoRestore:   true,
			CreatedAt:     end.AddDate(0, 0, -14),
		},
		// A later manual change supersedes the suspension, so the lapsed
		// window must not restore the student.
		{
			StudentID:     "stu-1",
			NewStatus:     models.StudentStatusExpelled,
			EffectiveDate: end.AddDate(0, 0, -2),
			CreatedAt:     end.AddDate(0, 0, -2),
		},
	}
	svc := NewDisciplineService(repo, nil, nil, nil, nil)

	restored, err := svc.RestoreSweep(context.Background(), end.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, restored)
	assert.Len(t, repo.history["stu-1"], 2)
}

func TestDisciplineServiceListIncidents(t *testing.T) {
	repo := newMockDisciplineRepo()
	repo.incidents["a"] = &models.Incident{ID: "a", StudentName: "Jane Mwangi", Status: models.IncidentPending, Description: "noise"}
	repo.incidents["b"] = &models.Incident{ID: "b", StudentName: "Brian Otieno", Status: models.IncidentResolved, Description: "late"}
	svc := NewDisciplineService(repo, nil, nil, nil, nil)

	result, err := svc.ListIncidents(context.Background(), listing.Query{Search: "mwangi", Status: listing.StatusAll})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "a", result.Rows[0].ID)

	result, err = svc.ListIncidents(context.Background(), listing.Query{Status: string(models.IncidentResolved)})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "b", result.Rows[0].ID)
}

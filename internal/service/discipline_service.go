package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Ortiz25/sms-api/internal/listing"
	"github.com/Ortiz25/sms-api/internal/models"
	appErrors "github.com/Ortiz25/sms-api/pkg/errors"
)

const actionMappingsCacheKey = "discipline:action-mappings"

type disciplineRepository interface {
	ListIncidents(ctx context.Context) ([]models.Incident, error)
	FindIncidentByID(ctx context.Context, id string) (*models.Incident, error)
	CreateIncident(ctx context.Context, incident *models.Incident) error
	UpdateIncident(ctx context.Context, incident *models.Incident) error
	DeleteIncident(ctx context.Context, id string) error
	ListStatusHistory(ctx context.Context, studentID string) ([]models.StatusHistoryEntry, error)
	AppendStatusHistory(ctx context.Context, entry *models.StatusHistoryEntry) error
	ListRestoreCandidates(ctx context.Context, asOf time.Time) ([]models.StatusHistoryEntry, error)
	ListActionMappings(ctx context.Context) ([]models.ActionStatusMapping, error)
	FindStudentByID(ctx context.Context, id string) (*models.Student, error)
	UpdateStudentStatus(ctx context.Context, studentID string, status models.StudentStatus) error
}

// IncidentInput is the write payload for incidents. Date fields travel as
// bare dates in the 2006-01-02 layout.
type IncidentInput struct {
	StudentID     string                  `json:"student_id" validate:"required"`
	Date          string                  `json:"date" validate:"required"`
	Type          models.IncidentType     `json:"type" validate:"required,oneof=Misconduct Academic Attendance Other"`
	Severity      models.IncidentSeverity `json:"severity" validate:"required,oneof=Minor Moderate Serious"`
	Description   string                  `json:"description" validate:"required"`
	Location      string                  `json:"location"`
	Witnesses     string                  `json:"witnesses"`
	Action        string                  `json:"action" validate:"required"`
	Status        models.IncidentStatus   `json:"status" validate:"required,oneof=Pending Resolved"`
	FollowUpDate  string                  `json:"follow_up_date"`
	AffectsStatus bool                    `json:"affects_status"`
	StatusChange  models.StudentStatus    `json:"status_change" validate:"required_if=AffectsStatus true"`
	EffectiveDate string                  `json:"effective_date" validate:"required_if=AffectsStatus true"`
	EndDate       string                  `json:"end_date"`
	AutoRestore   bool                    `json:"auto_restore"`
	Notes         string                  `json:"notes"`
}

// DisciplineService implements the disciplinary incidents use cases. Every
// incident that affects a student's status appends an immutable history
// entry; the student's current status is always re-derived from the full
// log, never patched in place.
type DisciplineService struct {
	repo      disciplineRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDisciplineService constructs a DisciplineService.
func NewDisciplineService(repo disciplineRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *DisciplineService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DisciplineService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

var incidentListConfig = listing.Config[models.Incident]{
	SearchFields: func(i models.Incident) []string {
		return []string{i.StudentName, i.AdmissionNumber, i.Description, i.Action}
	},
	StatusOf: func(i models.Incident) string { return string(i.Status) },
}

// ListIncidents returns the visible page of incidents for the given query.
func (s *DisciplineService) ListIncidents(ctx context.Context, q listing.Query) (*listing.Result[models.Incident], error) {
	incidents, err := s.repo.ListIncidents(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list incidents")
	}
	result := listing.Derive(incidents, q, incidentListConfig)
	return &result, nil
}

// GetIncident fetches a single incident by ID.
func (s *DisciplineService) GetIncident(ctx context.Context, id string) (*models.Incident, error) {
	incident, err := s.repo.FindIncidentByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "incident not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch incident")
	}
	return incident, nil
}

// CreateIncident records a new incident. When the incident affects the
// student's status a history entry is appended and the student row is
// refreshed from the re-resolved log.
func (s *DisciplineService) CreateIncident(ctx context.Context, input IncidentInput) (*models.Incident, error) {
	incident, student, err := s.prepareIncident(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateIncident(ctx, incident); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create incident")
	}

	if incident.AffectsStatus {
		if err := s.appendHistoryForIncident(ctx, incident, student, input.Notes); err != nil {
			return nil, err
		}
	}
	return incident, nil
}

// UpdateIncident modifies an incident. History stays append-only: an edit
// that affects status appends a fresh entry instead of rewriting the one the
// original save produced.
func (s *DisciplineService) UpdateIncident(ctx context.Context, id string, input IncidentInput) (*models.Incident, error) {
	existing, err := s.GetIncident(ctx, id)
	if err != nil {
		return nil, err
	}

	incident, student, err := s.prepareIncident(ctx, input)
	if err != nil {
		return nil, err
	}
	incident.ID = existing.ID
	incident.CreatedAt = existing.CreatedAt

	if err := s.repo.UpdateIncident(ctx, incident); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update incident")
	}

	if incident.AffectsStatus {
		if err := s.appendHistoryForIncident(ctx, incident, student, input.Notes); err != nil {
			return nil, err
		}
	}
	return incident, nil
}

// DeleteIncident removes an incident and the history entries it produced,
// then re-resolves the student's status from what remains.
func (s *DisciplineService) DeleteIncident(ctx context.Context, id string) error {
	incident, err := s.GetIncident(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteIncident(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete incident")
	}

	if incident.AffectsStatus {
		if err := s.refreshStudentStatus(ctx, incident.StudentID); err != nil {
			s.logger.Warn("failed to refresh student status after delete",
				zap.String("student_id", incident.StudentID), zap.Error(err))
		}
	}
	return nil
}

// StatusHistory returns a student's history in insertion order together with
// the derived current status.
// StatusHistoryView is the status-history payload: the raw log, the derived
// current status, and rendered timeline rows with relative ages.
type StatusHistoryView struct {
	models.StatusHistory
	Timeline []TimelineRow `json:"timeline"`
}

func (s *DisciplineService) StatusHistory(ctx context.Context, studentID string) (*StatusHistoryView, error) {
	if _, err := s.repo.FindStudentByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	entries, err := s.repo.ListStatusHistory(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list status history")
	}

	view := &StatusHistoryView{
		StatusHistory: models.StatusHistory{
			StudentID:     studentID,
			CurrentStatus: ResolveCurrentStatus(entries),
			Entries:       entries,
		},
	}
	timeline := NewTimeline(entries, time.Now().UTC())
	for row, ok := timeline.Next(); ok; row, ok = timeline.Next() {
		view.Timeline = append(view.Timeline, row)
	}
	return view, nil
}

// ActionMappings returns the action to status reference table, served from
// cache when possible.
func (s *DisciplineService) ActionMappings(ctx context.Context) ([]models.ActionStatusMapping, error) {
	var mappings []models.ActionStatusMapping
	if s.cache.Get(ctx, actionMappingsCacheKey, &mappings) {
		return mappings, nil
	}

	mappings, err := s.repo.ListActionMappings(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list action mappings")
	}
	s.cache.Set(ctx, actionMappingsCacheKey, mappings)
	return mappings, nil
}

// PrefillForm applies the action mapping to an incident form, auto-filling
// the status-change fields when the chosen action is mapped.
func (s *DisciplineService) PrefillForm(ctx context.Context, form models.IncidentForm, action string, today time.Time) (*models.IncidentForm, error) {
	mappings, err := s.ActionMappings(ctx)
	if err != nil {
		return nil, err
	}
	ApplyActionMapping(&form, action, mappings, today)
	return &form, nil
}

// RestoreSweep appends restore-to-active entries for students whose status
// change window has lapsed. It returns the number of students restored.
func (s *DisciplineService) RestoreSweep(ctx context.Context, now time.Time) (int, error) {
	candidates, err := s.repo.ListRestoreCandidates(ctx, now)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list restore candidates")
	}

	restored := 0
	seen := make(map[string]bool, len(candidates))
	for _, candidate := range candidates {
		if seen[candidate.StudentID] {
			continue
		}
		seen[candidate.StudentID] = true

		entries, err := s.repo.ListStatusHistory(ctx, candidate.StudentID)
		if err != nil {
			s.logger.Warn("restore sweep: failed to load history",
				zap.String("student_id", candidate.StudentID), zap.Error(err))
			continue
		}

		current := ResolveCurrentStatus(entries)
		if current != candidate.NewStatus || current == models.StudentStatusActive {
			continue
		}

		entry := &models.StatusHistoryEntry{
			StudentID:      candidate.StudentID,
			PreviousStatus: current,
			NewStatus:      models.StudentStatusActive,
			EffectiveDate:  now,
			ReasonType:     "auto_restore",
		}
		if err := s.repo.AppendStatusHistory(ctx, entry); err != nil {
			s.logger.Warn("restore sweep: failed to append entry",
				zap.String("student_id", candidate.StudentID), zap.Error(err))
			continue
		}
		if err := s.repo.UpdateStudentStatus(ctx, candidate.StudentID, models.StudentStatusActive); err != nil {
			s.logger.Warn("restore sweep: failed to update student",
				zap.String("student_id", candidate.StudentID), zap.Error(err))
		}
		restored++
	}

	if s.metrics != nil {
		s.metrics.RecordRestoreSweep(restored)
	}
	return restored, nil
}

func (s *DisciplineService) prepareIncident(ctx context.Context, input IncidentInput) (*models.Incident, *models.Student, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid incident payload")
	}

	date, err := time.Parse(DateLayout, input.Date)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "date must use the 2006-01-02 layout")
	}

	student, err := s.repo.FindStudentByID(ctx, input.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	incident := &models.Incident{
		StudentID:       student.ID,
		StudentName:     student.FullName,
		AdmissionNumber: student.AdmissionNumber,
		Grade:           student.Grade,
		Date:            date,
		Type:            input.Type,
		Severity:        input.Severity,
		Description:     input.Description,
		Location:        input.Location,
		Witnesses:       input.Witnesses,
		Action:          input.Action,
		Status:          input.Status,
		AffectsStatus:   input.AffectsStatus,
		AutoRestore:     input.AutoRestore,
	}

	if input.FollowUpDate != "" {
		followUp, err := time.Parse(DateLayout, input.FollowUpDate)
		if err != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "follow_up_date must use the 2006-01-02 layout")
		}
		incident.FollowUpDate = &followUp
	}

	if input.AffectsStatus {
		effective, err := time.Parse(DateLayout, input.EffectiveDate)
		if err != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "effective_date must use the 2006-01-02 layout")
		}
		incident.StatusChange = input.StatusChange
		incident.EffectiveDate = &effective

		if input.EndDate != "" {
			end, err := time.Parse(DateLayout, input.EndDate)
			if err != nil {
				return nil, nil, appErrors.Clone(appErrors.ErrValidation, "end_date must use the 2006-01-02 layout")
			}
			if end.Before(effective) {
				return nil, nil, appErrors.Clone(appErrors.ErrValidation, "end_date cannot precede effective_date")
			}
			incident.EndDate = &end
		}
	}

	return incident, student, nil
}

func (s *DisciplineService) appendHistoryForIncident(ctx context.Context, incident *models.Incident, student *models.Student, notes string) error {
	entry := &models.StatusHistoryEntry{
		StudentID:            incident.StudentID,
		PreviousStatus:       student.Status,
		NewStatus:            incident.StatusChange,
		EffectiveDate:        *incident.EffectiveDate,
		EndDate:              incident.EndDate,
		AutoRestore:          incident.AutoRestore,
		ReasonType:           "disciplinary",
		DisciplinaryActionID: &incident.ID,
	}
	if notes != "" {
		entry.Notes = &notes
	}

	if err := s.repo.AppendStatusHistory(ctx, entry); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to append status history")
	}
	return s.refreshStudentStatus(ctx, incident.StudentID)
}

func (s *DisciplineService) refreshStudentStatus(ctx context.Context, studentID string) error {
	entries, err := s.repo.ListStatusHistory(ctx, studentID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list status history")
	}

	current := ResolveCurrentStatus(entries)
	if current == models.StudentStatusUnknown {
		// No history left, leave the stored status untouched.
		return nil
	}
	if err := s.repo.UpdateStudentStatus(ctx, studentID, current); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student status")
	}
	return nil
}

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

type academicRepository interface {
	ListSessions(ctx context.Context) ([]models.AcademicSession, error)
	FindSessionByID(ctx context.Context, id string) (*models.AcademicSession, error)
	CreateSession(ctx context.Context, session *models.AcademicSession) error
	SetCurrentSession(ctx context.Context, id string) error
	UpdateSessionStatus(ctx context.Context, id, status string) error
	ListGradingSystems(ctx context.Context) ([]models.GradingSystem, error)
	FindGradingSystemByID(ctx context.Context, id string) (*models.GradingSystem, error)
	CreateGradingSystem(ctx context.Context, system *models.GradingSystem) error
	UpdateGradingSystem(ctx context.Context, system *models.GradingSystem) error
	ListExamTypes(ctx context.Context) ([]models.ExamType, error)
	FindExamTypeByID(ctx context.Context, id string) (*models.ExamType, error)
	CreateExamType(ctx context.Context, examType *models.ExamType) error
	UpdateExamType(ctx context.Context, examType *models.ExamType) error
	ListExaminations(ctx context.Context) ([]models.Examination, error)
	FindExaminationByID(ctx context.Context, id string) (*models.Examination, error)
	CreateExamination(ctx context.Context, exam *models.Examination) error
	UpdateExamination(ctx context.Context, exam *models.Examination) error
	UpdateExaminationStatus(ctx context.Context, id, status string) error
}

// SessionInput is the write payload for academic sessions.
type SessionInput struct {
	Name      string `json:"name" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=upcoming active completed"`
}

// GradingSystemInput is the write payload for grading systems.
type GradingSystemInput struct {
	Name      string  `json:"name" validate:"required"`
	Scale     string  `json:"scale" validate:"required"`
	PassMark  float64 `json:"pass_mark" validate:"gte=0,lte=100"`
	IsDefault bool    `json:"is_default"`
	Status    string  `json:"status" validate:"required,oneof=active inactive"`
}

// ExamTypeInput is the write payload for exam types.
type ExamTypeInput struct {
	Name   string  `json:"name" validate:"required"`
	Weight float64 `json:"weight" validate:"gt=0,lte=100"`
	Status string  `json:"status" validate:"required,oneof=active inactive"`
}

// ExaminationInput is the write payload for examinations.
type ExaminationInput struct {
	Name       string `json:"name" validate:"required"`
	SessionID  string `json:"session_id" validate:"required"`
	ExamTypeID string `json:"exam_type_id" validate:"required"`
	StartDate  string `json:"start_date" validate:"required"`
	EndDate    string `json:"end_date" validate:"required"`
	Status     string `json:"status" validate:"required,oneof=scheduled ongoing completed cancelled"`
}

// AcademicService implements academic settings and examination use cases.
type AcademicService struct {
	repo      academicRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAcademicService constructs an AcademicService.
func NewAcademicService(repo academicRepository, validate *validator.Validate, logger *zap.Logger) *AcademicService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AcademicService{repo: repo, validator: validate, logger: logger}
}

var sessionListConfig = listing.Config[models.AcademicSession]{
	SearchFields: func(s models.AcademicSession) []string { return []string{s.Name} },
	StatusOf:     func(s models.AcademicSession) string { return s.Status },
}

var examinationListConfig = listing.Config[models.Examination]{
	SearchFields: func(e models.Examination) []string { return []string{e.Name} },
	StatusOf:     func(e models.Examination) string { return e.Status },
}

// ListSessions returns the visible page of academic sessions.
func (s *AcademicService) ListSessions(ctx context.Context, q listing.Query) (*listing.Result[models.AcademicSession], error) {
	sessions, err := s.repo.ListSessions(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	result := listing.Derive(sessions, q, sessionListConfig)
	return &result, nil
}

// CreateSession registers a new session. New sessions never start current,
// the caller promotes one explicitly through SetCurrentSession.
func (s *AcademicService) CreateSession(ctx context.Context, input SessionInput) (*models.AcademicSession, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	start, end, err := parseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	session := &models.AcademicSession{
		Name:      input.Name,
		StartDate: start,
		EndDate:   end,
		Status:    input.Status,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}
	return session, nil
}

// SetCurrentSession promotes one session to current, demoting all others.
func (s *AcademicService) SetCurrentSession(ctx context.Context, id string) (*models.AcademicSession, error) {
	session, err := s.findSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetCurrentSession(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set current session")
	}
	session.IsCurrent = true
	return session, nil
}

// UpdateSessionStatus flips the session lifecycle state.
func (s *AcademicService) UpdateSessionStatus(ctx context.Context, id, status string) (*models.AcademicSession, error) {
	if status != "upcoming" && status != "active" && status != "completed" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be upcoming, active or completed")
	}
	session, err := s.findSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSessionStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session status")
	}
	session.Status = status
	return session, nil
}

// ListGradingSystems returns every grading system.
func (s *AcademicService) ListGradingSystems(ctx context.Context) ([]models.GradingSystem, error) {
	systems, err := s.repo.ListGradingSystems(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grading systems")
	}
	return systems, nil
}

// CreateGradingSystem registers a new grading system.
func (s *AcademicService) CreateGradingSystem(ctx context.Context, input GradingSystemInput) (*models.GradingSystem, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grading system payload")
	}
	system := &models.GradingSystem{
		Name:      input.Name,
		Scale:     input.Scale,
		PassMark:  input.PassMark,
		IsDefault: input.IsDefault,
		Status:    input.Status,
	}
	if err := s.repo.CreateGradingSystem(ctx, system); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create grading system")
	}
	return system, nil
}

// UpdateGradingSystem edits an existing grading system.
func (s *AcademicService) UpdateGradingSystem(ctx context.Context, id string, input GradingSystemInput) (*models.GradingSystem, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grading system payload")
	}
	system, err := s.repo.FindGradingSystemByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grading system not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch grading system")
	}
	system.Name = input.Name
	system.Scale = input.Scale
	system.PassMark = input.PassMark
	system.IsDefault = input.IsDefault
	system.Status = input.Status

	if err := s.repo.UpdateGradingSystem(ctx, system); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update grading system")
	}
	return system, nil
}

// ListExamTypes returns every exam type.
func (s *AcademicService) ListExamTypes(ctx context.Context) ([]models.ExamType, error) {
	types, err := s.repo.ListExamTypes(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list exam types")
	}
	return types, nil
}

// CreateExamType registers a new exam type.
func (s *AcademicService) CreateExamType(ctx context.Context, input ExamTypeInput) (*models.ExamType, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam type payload")
	}
	examType := &models.ExamType{
		Name:   input.Name,
		Weight: input.Weight,
		Status: input.Status,
	}
	if err := s.repo.CreateExamType(ctx, examType); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create exam type")
	}
	return examType, nil
}

// UpdateExamType edits an existing exam type.
func (s *AcademicService) UpdateExamType(ctx context.Context, id string, input ExamTypeInput) (*models.ExamType, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam type payload")
	}
	examType, err := s.repo.FindExamTypeByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam type not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch exam type")
	}
	examType.Name = input.Name
	examType.Weight = input.Weight
	examType.Status = input.Status

	if err := s.repo.UpdateExamType(ctx, examType); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update exam type")
	}
	return examType, nil
}

// ListExaminations returns the visible page of examinations.
func (s *AcademicService) ListExaminations(ctx context.Context, q listing.Query) (*listing.Result[models.Examination], error) {
	exams, err := s.repo.ListExaminations(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list examinations")
	}
	result := listing.Derive(exams, q, examinationListConfig)
	return &result, nil
}

// CreateExamination schedules a new examination against a session.
func (s *AcademicService) CreateExamination(ctx context.Context, input ExaminationInput) (*models.Examination, error) {
	exam, err := s.buildExamination(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateExamination(ctx, exam); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create examination")
	}
	return exam, nil
}

// UpdateExamination edits a scheduled examination.
func (s *AcademicService) UpdateExamination(ctx context.Context, id string, input ExaminationInput) (*models.Examination, error) {
	if _, err := s.repo.FindExaminationByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "examination not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch examination")
	}
	exam, err := s.buildExamination(ctx, input)
	if err != nil {
		return nil, err
	}
	exam.ID = id
	if err := s.repo.UpdateExamination(ctx, exam); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update examination")
	}
	return exam, nil
}

// UpdateExaminationStatus flips the examination lifecycle state.
func (s *AcademicService) UpdateExaminationStatus(ctx context.Context, id, status string) (*models.Examination, error) {
	switch status {
	case "scheduled", "ongoing", "completed", "cancelled":
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be scheduled, ongoing, completed or cancelled")
	}
	exam, err := s.repo.FindExaminationByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "examination not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch examination")
	}
	if err := s.repo.UpdateExaminationStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update examination status")
	}
	exam.Status = status
	return exam, nil
}

func (s *AcademicService) findSession(ctx context.Context, id string) (*models.AcademicSession, error) {
	session, err := s.repo.FindSessionByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch session")
	}
	return session, nil
}

func (s *AcademicService) buildExamination(ctx context.Context, input ExaminationInput) (*models.Examination, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid examination payload")
	}
	start, end, err := parseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	if _, err := s.findSession(ctx, input.SessionID); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindExamTypeByID(ctx, input.ExamTypeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam type not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch exam type")
	}
	return &models.Examination{
		Name:       input.Name,
		SessionID:  input.SessionID,
		ExamTypeID: input.ExamTypeID,
		StartDate:  start,
		EndDate:    end,
		Status:     input.Status,
	}, nil
}

func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "start_date must use the 2006-01-02 layout")
	}
	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "end_date must use the 2006-01-02 layout")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "end_date cannot precede start_date")
	}
	return start, end, nil
}

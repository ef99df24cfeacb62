package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Ortiz25/sms-api/internal/models"
)

// AcademicRepository manages sessions, grading systems, exam types and
// examinations.
type AcademicRepository struct {
	db *sqlx.DB
}

// NewAcademicRepository constructs an AcademicRepository.
func NewAcademicRepository(db *sqlx.DB) *AcademicRepository {
	return &AcademicRepository{db: db}
}

// ListSessions returns every academic session, newest first.
func (r *AcademicRepository) ListSessions(ctx context.Context) ([]models.AcademicSession, error) {
	const query = `SELECT id, name, start_date, end_date, is_current, status, created_at, updated_at
        FROM academic_sessions ORDER BY start_date DESC`
	var sessions []models.AcademicSession
	if err := r.db.SelectContext(ctx, &sessions, query); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// FindSessionByID fetches a session.
func (r *AcademicRepository) FindSessionByID(ctx context.Context, id string) (*models.AcademicSession, error) {
	const query = `SELECT id, name, start_date, end_date, is_current, status, created_at, updated_at
        FROM academic_sessions WHERE id = $1`
	var session models.AcademicSession
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// CreateSession inserts a new academic session.
func (r *AcademicRepository) CreateSession(ctx context.Context, session *models.AcademicSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now
	const query = `INSERT INTO academic_sessions (id, name, start_date, end_date, is_current, status, created_at, updated_at)
        VALUES (:id, :name, :start_date, :end_date, :is_current, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// SetCurrentSession flips the current flag to the given session exclusively.
func (r *AcademicRepository) SetCurrentSession(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set current session: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `UPDATE academic_sessions SET is_current = false, updated_at = $1 WHERE is_current = true`, now); err != nil {
		return fmt.Errorf("clear current session: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE academic_sessions SET is_current = true, updated_at = $2 WHERE id = $1`, id, now); err != nil {
		return fmt.Errorf("set current session: %w", err)
	}
	return tx.Commit()
}

// UpdateSessionStatus transitions a session's status.
func (r *AcademicRepository) UpdateSessionStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE academic_sessions SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	return nil
}

// ListGradingSystems returns every grading system.
func (r *AcademicRepository) ListGradingSystems(ctx context.Context) ([]models.GradingSystem, error) {
	const query = `SELECT id, name, scale, pass_mark, is_default, status, created_at, updated_at
        FROM grading_systems ORDER BY name ASC`
	var systems []models.GradingSystem
	if err := r.db.SelectContext(ctx, &systems, query); err != nil {
		return nil, fmt.Errorf("list grading systems: %w", err)
	}
	return systems, nil
}

// FindGradingSystemByID fetches a grading system.
func (r *AcademicRepository) FindGradingSystemByID(ctx context.Context, id string) (*models.GradingSystem, error) {
	const query = `SELECT id, name, scale, pass_mark, is_default, status, created_at, updated_at
        FROM grading_systems WHERE id = $1`
	var system models.GradingSystem
	if err := r.db.GetContext(ctx, &system, query, id); err != nil {
		return nil, err
	}
	return &system, nil
}

// CreateGradingSystem inserts a new grading system.
func (r *AcademicRepository) CreateGradingSystem(ctx context.Context, system *models.GradingSystem) error {
	if system.ID == "" {
		system.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if system.CreatedAt.IsZero() {
		system.CreatedAt = now
	}
	system.UpdatedAt = now
	const query = `INSERT INTO grading_systems (id, name, scale, pass_mark, is_default, status, created_at, updated_at)
        VALUES (:id, :name, :scale, :pass_mark, :is_default, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, system); err != nil {
		return fmt.Errorf("create grading system: %w", err)
	}
	return nil
}

// UpdateGradingSystem modifies an existing grading system.
func (r *AcademicRepository) UpdateGradingSystem(ctx context.Context, system *models.GradingSystem) error {
	system.UpdatedAt = time.Now().UTC()
	const query = `UPDATE grading_systems SET name = :name, scale = :scale, pass_mark = :pass_mark,
        is_default = :is_default, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, system); err != nil {
		return fmt.Errorf("update grading system: %w", err)
	}
	return nil
}

// ListExamTypes returns every exam type.
func (r *AcademicRepository) ListExamTypes(ctx context.Context) ([]models.ExamType, error) {
	const query = `SELECT id, name, weight, status, created_at, updated_at FROM exam_types ORDER BY name ASC`
	var types []models.ExamType
	if err := r.db.SelectContext(ctx, &types, query); err != nil {
		return nil, fmt.Errorf("list exam types: %w", err)
	}
	return types, nil
}

// FindExamTypeByID fetches an exam type.
func (r *AcademicRepository) FindExamTypeByID(ctx context.Context, id string) (*models.ExamType, error) {
	const query = `SELECT id, name, weight, status, created_at, updated_at FROM exam_types WHERE id = $1`
	var examType models.ExamType
	if err := r.db.GetContext(ctx, &examType, query, id); err != nil {
		return nil, err
	}
	return &examType, nil
}

// CreateExamType inserts a new exam type.
func (r *AcademicRepository) CreateExamType(ctx context.Context, examType *models.ExamType) error {
	if examType.ID == "" {
		examType.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if examType.CreatedAt.IsZero() {
		examType.CreatedAt = now
	}
	examType.UpdatedAt = now
	const query = `INSERT INTO exam_types (id, name, weight, status, created_at, updated_at)
        VALUES (:id, :name, :weight, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, examType); err != nil {
		return fmt.Errorf("create exam type: %w", err)
	}
	return nil
}

// UpdateExamType modifies an existing exam type.
func (r *AcademicRepository) UpdateExamType(ctx context.Context, examType *models.ExamType) error {
	examType.UpdatedAt = time.Now().UTC()
	const query = `UPDATE exam_types SET name = :name, weight = :weight, status = :status, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, examType); err != nil {
		return fmt.Errorf("update exam type: %w", err)
	}
	return nil
}

// ListExaminations returns every examination, newest first.
func (r *AcademicRepository) ListExaminations(ctx context.Context) ([]models.Examination, error) {
	const query = `SELECT id, name, session_id, exam_type_id, start_date, end_date, status, created_at, updated_at
        FROM examinations ORDER BY start_date DESC`
	var exams []models.Examination
	if err := r.db.SelectContext(ctx, &exams, query); err != nil {
		return nil, fmt.Errorf("list examinations: %w", err)
	}
	return exams, nil
}

// FindExaminationByID fetches an examination.
func (r *AcademicRepository) FindExaminationByID(ctx context.Context, id string) (*models.Examination, error) {
	const query = `SELECT id, name, session_id, exam_type_id, start_date, end_date, status, created_at, updated_at
        FROM examinations WHERE id = $1`
	var exam models.Examination
	if err := r.db.GetContext(ctx, &exam, query, id); err != nil {
		return nil, err
	}
	return &exam, nil
}

// CreateExamination inserts a new examination.
func (r *AcademicRepository) CreateExamination(ctx context.Context, exam *models.Examination) error {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if exam.CreatedAt.IsZero() {
		exam.CreatedAt = now
	}
	exam.UpdatedAt = now
	const query = `INSERT INTO examinations (id, name, session_id, exam_type_id, start_date, end_date, status, created_at, updated_at)
        VALUES (:id, :name, :session_id, :exam_type_id, :start_date, :end_date, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return fmt.Errorf("create examination: %w", err)
	}
	return nil
}

// UpdateExamination modifies an existing examination.
func (r *AcademicRepository) UpdateExamination(ctx context.Context, exam *models.Examination) error {
	exam.UpdatedAt = time.Now().UTC()
	const query = `UPDATE examinations SET name = :name, session_id = :session_id, exam_type_id = :exam_type_id,
        start_date = :start_date, end_date = :end_date, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return fmt.Errorf("update examination: %w", err)
	}
	return nil
}

// UpdateExaminationStatus transitions an examination's status.
func (r *AcademicRepository) UpdateExaminationStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE examinations SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update examination status: %w", err)
	}
	return nil
}

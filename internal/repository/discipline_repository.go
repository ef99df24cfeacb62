package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Ortiz25/sms-api/internal/models"
)

// DisciplineRepository manages incidents, status history and action mappings.
type DisciplineRepository struct {
	db *sqlx.DB
}

// NewDisciplineRepository constructs a DisciplineRepository.
func NewDisciplineRepository(db *sqlx.DB) *DisciplineRepository {
	return &DisciplineRepository{db: db}
}

const incidentColumns = `id, student_id, student_name, admission_number, grade, date, type, severity,
        description, location, witnesses, action, status, follow_up_date,
        affects_status, status_change, effective_date, end_date, auto_restore, created_at, updated_at`

// ListIncidents returns every incident, newest first.
func (r *DisciplineRepository) ListIncidents(ctx context.Context) ([]models.Incident, error) {
	query := fmt.Sprintf(`SELECT %s FROM disciplinary_incidents ORDER BY date DESC, created_at DESC`, incidentColumns)
	var incidents []models.Incident
	if err := r.db.SelectContext(ctx, &incidents, query); err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	return incidents, nil
}

// FindIncidentByID fetches a single incident.
func (r *DisciplineRepository) FindIncidentByID(ctx context.Context, id string) (*models.Incident, error) {
	query := fmt.Sprintf(`SELECT %s FROM disciplinary_incidents WHERE id = $1`, incidentColumns)
	var incident models.Incident
	if err := r.db.GetContext(ctx, &incident, query, id); err != nil {
		return nil, err
	}
	return &incident, nil
}

// CreateIncident inserts a new incident record.
func (r *DisciplineRepository) CreateIncident(ctx context.Context, incident *models.Incident) error {
	if incident.ID == "" {
		incident.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if incident.CreatedAt.IsZero() {
		incident.CreatedAt = now
	}
	incident.UpdatedAt = now
	const query = `INSERT INTO disciplinary_incidents (id, student_id, student_name, admission_number, grade, date, type, severity,
        description, location, witnesses, action, status, follow_up_date,
        affects_status, status_change, effective_date, end_date, auto_restore, created_at, updated_at)
        VALUES (:id, :student_id, :student_name, :admission_number, :grade, :date, :type, :severity,
        :description, :location, :witnesses, :action, :status, :follow_up_date,
        :affects_status, :status_change, :effective_date, :end_date, :auto_restore, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, incident); err != nil {
		return fmt.Errorf("create incident: %w", err)
	}
	return nil
}

// UpdateIncident modifies an existing incident.
func (r *DisciplineRepository) UpdateIncident(ctx context.Context, incident *models.Incident) error {
	incident.UpdatedAt = time.Now().UTC()
	const query = `UPDATE disciplinary_incidents SET student_id = :student_id, student_name = :student_name,
        admission_number = :admission_number, grade = :grade, date = :date, type = :type, severity = :severity,
        description = :description, location = :location, witnesses = :witnesses, action = :action,
        status = :status, follow_up_date = :follow_up_date, affects_status = :affects_status,
        status_change = :status_change, effective_date = :effective_date, end_date = :end_date,
        auto_restore = :auto_restore, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, incident); err != nil {
		return fmt.Errorf("update incident: %w", err)
	}
	return nil
}

// DeleteIncident removes an incident together with the status history it
// produced. Restoration of the student's status falls out of the resolver
// once the cascading entries are gone.
func (r *DisciplineRepository) DeleteIncident(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete incident: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM status_history WHERE disciplinary_action_id = $1`, id); err != nil {
		return fmt.Errorf("cascade status history: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM disciplinary_incidents WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete incident: %w", err)
	}
	return tx.Commit()
}

const historyColumns = `id, student_id, previous_status, new_status, effective_date, end_date,
        auto_restore, reason_type, notes, disciplinary_action_id, created_at`

// ListStatusHistory returns a student's history in insertion order.
func (r *DisciplineRepository) ListStatusHistory(ctx context.Context, studentID string) ([]models.StatusHistoryEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM status_history WHERE student_id = $1 ORDER BY created_at ASC`, historyColumns)
	var entries []models.StatusHistoryEntry
	if err := r.db.SelectContext(ctx, &entries, query, studentID); err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	return entries, nil
}

// AppendStatusHistory inserts a new immutable history entry.
func (r *DisciplineRepository) AppendStatusHistory(ctx context.Context, entry *models.StatusHistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO status_history (id, student_id, previous_status, new_status, effective_date, end_date,
        auto_restore, reason_type, notes, disciplinary_action_id, created_at)
        VALUES (:id, :student_id, :previous_status, :new_status, :effective_date, :end_date,
        :auto_restore, :reason_type, :notes, :disciplinary_action_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("append status history: %w", err)
	}
	return nil
}

// ListRestoreCandidates returns entries whose auto-restore window has lapsed.
func (r *DisciplineRepository) ListRestoreCandidates(ctx context.Context, asOf time.Time) ([]models.StatusHistoryEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM status_history
        WHERE auto_restore = true AND end_date IS NOT NULL AND end_date <= $1
        ORDER BY created_at ASC`, historyColumns)
	var entries []models.StatusHistoryEntry
	if err := r.db.SelectContext(ctx, &entries, query, asOf); err != nil {
		return nil, fmt.Errorf("list restore candidates: %w", err)
	}
	return entries, nil
}

// ListActionMappings returns the action to status mapping reference table.
func (r *DisciplineRepository) ListActionMappings(ctx context.Context) ([]models.ActionStatusMapping, error) {
	const query = `SELECT id, action_type, resulting_status, default_duration
        FROM action_status_mappings ORDER BY action_type ASC`
	var mappings []models.ActionStatusMapping
	if err := r.db.SelectContext(ctx, &mappings, query); err != nil {
		return nil, fmt.Errorf("list action mappings: %w", err)
	}
	return mappings, nil
}

// FindStudentByID fetches the student an incident refers to.
func (r *DisciplineRepository) FindStudentByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, admission_number, full_name, grade, status, created_at, updated_at
        FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// UpdateStudentStatus writes the derived current status back to the student
// record so the roster reflects the resolver's view.
func (r *DisciplineRepository) UpdateStudentStatus(ctx context.Context, studentID string, status models.StudentStatus) error {
	const query = `UPDATE students SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, studentID, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update student status: %w", err)
	}
	return nil
}

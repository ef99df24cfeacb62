package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Ortiz25/sms-api/internal/models"
)

// HostelRepository manages dormitories, boarders and hostel allocations.
type HostelRepository struct {
	db *sqlx.DB
}

// NewHostelRepository constructs a HostelRepository.
func NewHostelRepository(db *sqlx.DB) *HostelRepository {
	return &HostelRepository{db: db}
}

// ListDormitories returns every dormitory.
func (r *HostelRepository) ListDormitories(ctx context.Context) ([]models.Dormitory, error) {
	const query = `SELECT id, name, gender, capacity, occupied, status, created_at, updated_at
        FROM dormitories ORDER BY name ASC`
	var dorms []models.Dormitory
	if err := r.db.SelectContext(ctx, &dorms, query); err != nil {
		return nil, fmt.Errorf("list dormitories: %w", err)
	}
	return dorms, nil
}

// FindDormitoryByID fetches a dormitory.
func (r *HostelRepository) FindDormitoryByID(ctx context.Context, id string) (*models.Dormitory, error) {
	const query = `SELECT id, name, gender, capacity, occupied, status, created_at, updated_at
        FROM dormitories WHERE id = $1`
	var dorm models.Dormitory
	if err := r.db.GetContext(ctx, &dorm, query, id); err != nil {
		return nil, err
	}
	return &dorm, nil
}

// CreateDormitory inserts a new dormitory.
func (r *HostelRepository) CreateDormitory(ctx context.Context, dorm *models.Dormitory) error {
	if dorm.ID == "" {
		dorm.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if dorm.CreatedAt.IsZero() {
		dorm.CreatedAt = now
	}
	dorm.UpdatedAt = now
	const query = `INSERT INTO dormitories (id, name, gender, capacity, occupied, status, created_at, updated_at)
        VALUES (:id, :name, :gender, :capacity, :occupied, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, dorm); err != nil {
		return fmt.Errorf("create dormitory: %w", err)
	}
	return nil
}

// UpdateDormitory modifies an existing dormitory.
func (r *HostelRepository) UpdateDormitory(ctx context.Context, dorm *models.Dormitory) error {
	dorm.UpdatedAt = time.Now().UTC()
	const query = `UPDATE dormitories SET name = :name, gender = :gender, capacity = :capacity,
        occupied = :occupied, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, dorm); err != nil {
		return fmt.Errorf("update dormitory: %w", err)
	}
	return nil
}

// ListBoarders returns every boarder.
func (r *HostelRepository) ListBoarders(ctx context.Context) ([]models.Boarder, error) {
	const query = `SELECT id, student_id, student_name, admission_number, grade, guardian_phone, status, created_at, updated_at
        FROM boarders ORDER BY student_name ASC`
	var boarders []models.Boarder
	if err := r.db.SelectContext(ctx, &boarders, query); err != nil {
		return nil, fmt.Errorf("list boarders: %w", err)
	}
	return boarders, nil
}

// CreateBoarder registers a student as a boarder.
func (r *HostelRepository) CreateBoarder(ctx context.Context, boarder *models.Boarder) error {
	if boarder.ID == "" {
		boarder.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if boarder.CreatedAt.IsZero() {
		boarder.CreatedAt = now
	}
	boarder.UpdatedAt = now
	const query = `INSERT INTO boarders (id, student_id, student_name, admission_number, grade, guardian_phone, status, created_at, updated_at)
        VALUES (:id, :student_id, :student_name, :admission_number, :grade, :guardian_phone, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, boarder); err != nil {
		return fmt.Errorf("create boarder: %w", err)
	}
	return nil
}

// UpdateBoarder modifies an existing boarder record.
func (r *HostelRepository) UpdateBoarder(ctx context.Context, boarder *models.Boarder) error {
	boarder.UpdatedAt = time.Now().UTC()
	const query = `UPDATE boarders SET student_name = :student_name, admission_number = :admission_number,
        grade = :grade, guardian_phone = :guardian_phone, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, boarder); err != nil {
		return fmt.Errorf("update boarder: %w", err)
	}
	return nil
}

const hostelAllocationColumns = `id, student_id, student_name, admission_number, dormitory_id, dormitory_name,
        room_number, bed_number, status, allocated_at, created_at, updated_at`

// ListAllocations returns every hostel allocation.
func (r *HostelRepository) ListAllocations(ctx context.Context) ([]models.HostelAllocation, error) {
	query := fmt.Sprintf(`SELECT %s FROM hostel_allocations ORDER BY allocated_at DESC`, hostelAllocationColumns)
	var allocations []models.HostelAllocation
	if err := r.db.SelectContext(ctx, &allocations, query); err != nil {
		return nil, fmt.Errorf("list hostel allocations: %w", err)
	}
	return allocations, nil
}

// FindAllocationByID fetches a hostel allocation.
func (r *HostelRepository) FindAllocationByID(ctx context.Context, id string) (*models.HostelAllocation, error) {
	query := fmt.Sprintf(`SELECT %s FROM hostel_allocations WHERE id = $1`, hostelAllocationColumns)
	var allocation models.HostelAllocation
	if err := r.db.GetContext(ctx, &allocation, query, id); err != nil {
		return nil, err
	}
	return &allocation, nil
}

// CreateAllocation assigns a boarder to a dormitory bed.
func (r *HostelRepository) CreateAllocation(ctx context.Context, allocation *models.HostelAllocation) error {
	if allocation.ID == "" {
		allocation.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if allocation.CreatedAt.IsZero() {
		allocation.CreatedAt = now
	}
	if allocation.AllocatedAt.IsZero() {
		allocation.AllocatedAt = now
	}
	allocation.UpdatedAt = now
	const query = `INSERT INTO hostel_allocations (id, student_id, student_name, admission_number, dormitory_id, dormitory_name,
        room_number, bed_number, status, allocated_at, created_at, updated_at)
        VALUES (:id, :student_id, :student_name, :admission_number, :dormitory_id, :dormitory_name,
        :room_number, :bed_number, :status, :allocated_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, allocation); err != nil {
		return fmt.Errorf("create hostel allocation: %w", err)
	}
	return nil
}

// UpdateAllocation modifies an existing hostel allocation.
func (r *HostelRepository) UpdateAllocation(ctx context.Context, allocation *models.HostelAllocation) error {
	allocation.UpdatedAt = time.Now().UTC()
	const query = `UPDATE hostel_allocations SET dormitory_id = :dormitory_id, dormitory_name = :dormitory_name,
        room_number = :room_number, bed_number = :bed_number, status = :status, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, allocation); err != nil {
		return fmt.Errorf("update hostel allocation: %w", err)
	}
	return nil
}

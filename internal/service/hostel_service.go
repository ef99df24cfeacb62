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

type hostelRepository interface {
	ListDormitories(ctx context.Context) ([]models.Dormitory, error)
	FindDormitoryByID(ctx context.Context, id string) (*models.Dormitory, error)
	CreateDormitory(ctx context.Context, dorm *models.Dormitory) error
	UpdateDormitory(ctx context.Context, dorm *models.Dormitory) error
	ListBoarders(ctx context.Context) ([]models.Boarder, error)
	CreateBoarder(ctx context.Context, boarder *models.Boarder) error
	UpdateBoarder(ctx context.Context, boarder *models.Boarder) error
	ListAllocations(ctx context.Context) ([]models.HostelAllocation, error)
	FindAllocationByID(ctx context.Context, id string) (*models.HostelAllocation, error)
	CreateAllocation(ctx context.Context, allocation *models.HostelAllocation) error
	UpdateAllocation(ctx context.Context, allocation *models.HostelAllocation) error
}

// DormitoryInput is the write payload for dormitories.
type DormitoryInput struct {
	Name     string `json:"name" validate:"required"`
	Gender   string `json:"gender" validate:"required,oneof=boys girls mixed"`
	Capacity int    `json:"capacity" validate:"required,gt=0"`
	Status   string `json:"status" validate:"required,oneof=active maintenance closed"`
}

// BoarderInput is the write payload for boarders.
type BoarderInput struct {
	StudentID       string `json:"student_id" validate:"required"`
	StudentName     string `json:"student_name" validate:"required"`
	AdmissionNumber string `json:"admission_number" validate:"required"`
	Grade           string `json:"grade" validate:"required"`
	GuardianPhone   string `json:"guardian_phone"`
	Status          string `json:"status" validate:"required,oneof=active inactive"`
}

// HostelAllocationInput is the write payload for hostel allocations.
type HostelAllocationInput struct {
	StudentID       string `json:"student_id" validate:"required"`
	StudentName     string `json:"student_name" validate:"required"`
	AdmissionNumber string `json:"admission_number" validate:"required"`
	DormitoryID     string `json:"dormitory_id" validate:"required"`
	RoomNumber      string `json:"room_number" validate:"required"`
	BedNumber       string `json:"bed_number" validate:"required"`
	Status          string `json:"status" validate:"required,oneof=active vacated"`
}

// HostelService implements dormitory, boarder and hostel allocation use cases.
type HostelService struct {
	repo      hostelRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewHostelService constructs a HostelService.
func NewHostelService(repo hostelRepository, validate *validator.Validate, logger *zap.Logger) *HostelService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HostelService{repo: repo, validator: validate, logger: logger}
}

var dormitoryListConfig = listing.Config[models.Dormitory]{
	SearchFields: func(d models.Dormitory) []string { return []string{d.Name, d.Gender} },
	StatusOf:     func(d models.Dormitory) string { return d.Status },
}

var boarderListConfig = listing.Config[models.Boarder]{
	SearchFields: func(b models.Boarder) []string { return []string{b.StudentName, b.AdmissionNumber, b.Grade} },
	StatusOf:     func(b models.Boarder) string { return b.Status },
}

var hostelAllocationListConfig = listing.Config[models.HostelAllocation]{
	SearchFields: func(a models.HostelAllocation) []string {
		return []string{a.StudentName, a.AdmissionNumber, a.DormitoryName, a.RoomNumber}
	},
	StatusOf: func(a models.HostelAllocation) string { return a.Status },
}

// ListDormitories returns the visible page of dormitories.
func (s *HostelService) ListDormitories(ctx context.Context, q listing.Query) (*listing.Result[models.Dormitory], error) {
	dorms, err := s.repo.ListDormitories(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list dormitories")
	}
	result := listing.Derive(dorms, q, dormitoryListConfig)
	return &result, nil
}

// CreateDormitory registers a new dormitory.
func (s *HostelService) CreateDormitory(ctx context.Context, input DormitoryInput) (*models.Dormitory, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid dormitory payload")
	}
	dorm := &models.Dormitory{
		Name:     input.Name,
		Gender:   input.Gender,
		Capacity: input.Capacity,
		Status:   input.Status,
	}
	if err := s.repo.CreateDormitory(ctx, dorm); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create dormitory")
	}
	return dorm, nil
}

// UpdateDormitory edits an existing dormitory.
func (s *HostelService) UpdateDormitory(ctx context.Context, id string, input DormitoryInput) (*models.Dormitory, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid dormitory payload")
	}
	dorm, err := s.repo.FindDormitoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "dormitory not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch dormitory")
	}
	if input.Capacity < dorm.Occupied {
		return nil, appErrors.Clone(appErrors.ErrValidation, "capacity cannot drop below current occupancy")
	}
	dorm.Name = input.Name
	dorm.Gender = input.Gender
	dorm.Capacity = input.Capacity
	dorm.Status = input.Status

	if err := s.repo.UpdateDormitory(ctx, dorm); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update dormitory")
	}
	return dorm, nil
}

// ListBoarders returns the visible page of boarders.
func (s *HostelService) ListBoarders(ctx context.Context, q listing.Query) (*listing.Result[models.Boarder], error) {
	boarders, err := s.repo.ListBoarders(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list boarders")
	}
	result := listing.Derive(boarders, q, boarderListConfig)
	return &result, nil
}

// CreateBoarder registers a student into the boarding programme.
func (s *HostelService) CreateBoarder(ctx context.Context, input BoarderInput) (*models.Boarder, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid boarder payload")
	}
	boarder := &models.Boarder{
		StudentID:       input.StudentID,
		StudentName:     input.StudentName,
		AdmissionNumber: input.AdmissionNumber,
		Grade:           input.Grade,
		GuardianPhone:   input.GuardianPhone,
		Status:          input.Status,
	}
	if err := s.repo.CreateBoarder(ctx, boarder); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create boarder")
	}
	return boarder, nil
}

// UpdateBoarder edits an existing boarder record.
func (s *HostelService) UpdateBoarder(ctx context.Context, id string, input BoarderInput) (*models.Boarder, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid boarder payload")
	}
	boarder := &models.Boarder{
		ID:              id,
		StudentID:       input.StudentID,
		StudentName:     input.StudentName,
		AdmissionNumber: input.AdmissionNumber,
		Grade:           input.Grade,
		GuardianPhone:   input.GuardianPhone,
		Status:          input.Status,
	}
	if err := s.repo.UpdateBoarder(ctx, boarder); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "boarder not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update boarder")
	}
	return boarder, nil
}

// ListAllocations returns the visible page of hostel allocations.
func (s *HostelService) ListAllocations(ctx context.Context, q listing.Query) (*listing.Result[models.HostelAllocation], error) {
	allocations, err := s.repo.ListAllocations(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list hostel allocations")
	}
	result := listing.Derive(allocations, q, hostelAllocationListConfig)
	return &result, nil
}

// CreateAllocation assigns a boarder to a dormitory bed.
func (s *HostelService) CreateAllocation(ctx context.Context, input HostelAllocationInput) (*models.HostelAllocation, error) {
	allocation, err := s.buildAllocation(ctx, input)
	if err != nil {
		return nil, err
	}
	allocation.AllocatedAt = time.Now().UTC()
	if err := s.repo.CreateAllocation(ctx, allocation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create hostel allocation")
	}
	return allocation, nil
}

// UpdateAllocation edits a hostel allocation.
func (s *HostelService) UpdateAllocation(ctx context.Context, id string, input HostelAllocationInput) (*models.HostelAllocation, error) {
	existing, err := s.repo.FindAllocationByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "hostel allocation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch hostel allocation")
	}

	allocation, err := s.buildAllocation(ctx, input)
	if err != nil {
		return nil, err
	}
	allocation.ID = existing.ID
	allocation.AllocatedAt = existing.AllocatedAt
	allocation.CreatedAt = existing.CreatedAt

	if err := s.repo.UpdateAllocation(ctx, allocation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update hostel allocation")
	}
	return allocation, nil
}

func (s *HostelService) buildAllocation(ctx context.Context, input HostelAllocationInput) (*models.HostelAllocation, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid hostel allocation payload")
	}
	dorm, err := s.repo.FindDormitoryByID(ctx, input.DormitoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "dormitory not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch dormitory")
	}
	return &models.HostelAllocation{
		StudentID:       input.StudentID,
		StudentName:     input.StudentName,
		AdmissionNumber: input.AdmissionNumber,
		DormitoryID:     dorm.ID,
		DormitoryName:   dorm.Name,
		RoomNumber:      input.RoomNumber,
		BedNumber:       input.BedNumber,
		Status:          input.Status,
	}, nil
}

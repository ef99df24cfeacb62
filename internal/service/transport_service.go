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

type transportRepository interface {
	ListRoutes(ctx context.Context) ([]models.TransportRoute, error)
	FindRouteByID(ctx context.Context, id string) (*models.TransportRoute, error)
	CreateRoute(ctx context.Context, route *models.TransportRoute) error
	UpdateRoute(ctx context.Context, route *models.TransportRoute) error
	ListStops(ctx context.Context) ([]models.RouteStop, error)
	CreateStop(ctx context.Context, stop *models.RouteStop) error
	UpdateStop(ctx context.Context, stop *models.RouteStop) error
	ListAllocations(ctx context.Context) ([]models.TransportAllocation, error)
	FindAllocationByID(ctx context.Context, id string) (*models.TransportAllocation, error)
	CreateAllocation(ctx context.Context, allocation *models.TransportAllocation) error
	UpdateAllocation(ctx context.Context, allocation *models.TransportAllocation) error
}

// RouteInput is the write payload for transport routes.
type RouteInput struct {
	Name     string `json:"name" validate:"required"`
	Driver   string `json:"driver" validate:"required"`
	Vehicle  string `json:"vehicle" validate:"required"`
	Capacity int    `json:"capacity" validate:"required,gt=0"`
	Status   string `json:"status" validate:"required,oneof=active suspended"`
}

// StopInput is the write payload for route stops.
type StopInput struct {
	RouteID    string `json:"route_id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	PickupTime string `json:"pickup_time" validate:"required"`
	DropTime   string `json:"drop_time" validate:"required"`
	Sequence   int    `json:"sequence" validate:"gte=0"`
}

// TransportAllocationInput is the write payload for transport allocations.
type TransportAllocationInput struct {
	StudentID       string `json:"student_id" validate:"required"`
	StudentName     string `json:"student_name" validate:"required"`
	AdmissionNumber string `json:"admission_number" validate:"required"`
	RouteID         string `json:"route_id" validate:"required"`
	StopID          string `json:"stop_id" validate:"required"`
	Status          string `json:"status" validate:"required,oneof=active inactive"`
}

// TransportService implements route, stop and transport allocation use cases.
type TransportService struct {
	repo      transportRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTransportService constructs a TransportService.
func NewTransportService(repo transportRepository, validate *validator.Validate, logger *zap.Logger) *TransportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransportService{repo: repo, validator: validate, logger: logger}
}

var routeListConfig = listing.Config[models.TransportRoute]{
	SearchFields: func(r models.TransportRoute) []string { return []string{r.Name, r.Driver, r.Vehicle} },
	StatusOf:     func(r models.TransportRoute) string { return r.Status },
}

var stopListConfig = listing.Config[models.RouteStop]{
	SearchFields: func(s models.RouteStop) []string { return []string{s.Name, s.RouteName} },
}

var transportAllocationListConfig = listing.Config[models.TransportAllocation]{
	SearchFields: func(a models.TransportAllocation) []string {
		return []string{a.StudentName, a.AdmissionNumber, a.RouteName, a.StopName}
	},
	StatusOf: func(a models.TransportAllocation) string { return a.Status },
}

// ListRoutes returns the visible page of routes.
func (s *TransportService) ListRoutes(ctx context.Context, q listing.Query) (*listing.Result[models.TransportRoute], error) {
	routes, err := s.repo.ListRoutes(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list routes")
	}
	result := listing.Derive(routes, q, routeListConfig)
	return &result, nil
}

// CreateRoute registers a new route.
func (s *TransportService) CreateRoute(ctx context.Context, input RouteInput) (*models.TransportRoute, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid route payload")
	}
	route := &models.TransportRoute{
		Name:     input.Name,
		Driver:   input.Driver,
		Vehicle:  input.Vehicle,
		Capacity: input.Capacity,
		Status:   input.Status,
	}
	if err := s.repo.CreateRoute(ctx, route); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create route")
	}
	return route, nil
}

// UpdateRoute edits an existing route.
func (s *TransportService) UpdateRoute(ctx context.Context, id string, input RouteInput) (*models.TransportRoute, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid route payload")
	}
	route, err := s.repo.FindRouteByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "route not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch route")
	}
	if input.Capacity < route.Occupied {
		return nil, appErrors.Clone(appErrors.ErrValidation, "capacity cannot drop below current occupancy")
	}
	route.Name = input.Name
	route.Driver = input.Driver
	route.Vehicle = input.Vehicle
	route.Capacity = input.Capacity
	route.Status = input.Status

	if err := s.repo.UpdateRoute(ctx, route); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update route")
	}
	return route, nil
}

// ListStops returns the visible page of stops.
func (s *TransportService) ListStops(ctx context.Context, q listing.Query) (*listing.Result[models.RouteStop], error) {
	stops, err := s.repo.ListStops(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list stops")
	}
	result := listing.Derive(stops, q, stopListConfig)
	return &result, nil
}

// CreateStop adds a stop to a route.
func (s *TransportService) CreateStop(ctx context.Context, input StopInput) (*models.RouteStop, error) {
	stop, err := s.buildStop(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateStop(ctx, stop); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create stop")
	}
	return stop, nil
}

// UpdateStop edits an existing stop.
func (s *TransportService) UpdateStop(ctx context.Context, id string, input StopInput) (*models.RouteStop, error) {
	stop, err := s.buildStop(ctx, input)
	if err != nil {
		return nil, err
	}
	stop.ID = id
	if err := s.repo.UpdateStop(ctx, stop); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "stop not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update stop")
	}
	return stop, nil
}

// ListAllocations returns the visible page of transport allocations.
func (s *TransportService) ListAllocations(ctx context.Context, q listing.Query) (*listing.Result[models.TransportAllocation], error) {
	allocations, err := s.repo.ListAllocations(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list transport allocations")
	}
	result := listing.Derive(allocations, q, transportAllocationListConfig)
	return &result, nil
}

// CreateAllocation assigns a student to a route and stop.
func (s *TransportService) CreateAllocation(ctx context.Context, input TransportAllocationInput) (*models.TransportAllocation, error) {
	allocation, err := s.buildTransportAllocation(ctx, input)
	if err != nil {
		return nil, err
	}
	allocation.AllocatedAt = time.Now().UTC()
	if err := s.repo.CreateAllocation(ctx, allocation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create transport allocation")
	}
	return allocation, nil
}

// UpdateAllocation edits a transport allocation.
func (s *TransportService) UpdateAllocation(ctx context.Context, id string, input TransportAllocationInput) (*models.TransportAllocation, error) {
	existing, err := s.repo.FindAllocationByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "transport allocation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch transport allocation")
	}

	allocation, err := s.buildTransportAllocation(ctx, input)
	if err != nil {
		return nil, err
	}
	allocation.ID = existing.ID
	allocation.AllocatedAt = existing.AllocatedAt
	allocation.CreatedAt = existing.CreatedAt

	if err := s.repo.UpdateAllocation(ctx, allocation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update transport allocation")
	}
	return allocation, nil
}

func (s *TransportService) buildStop(ctx context.Context, input StopInput) (*models.RouteStop, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid stop payload")
	}
	route, err := s.repo.FindRouteByID(ctx, input.RouteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "route not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch route")
	}
	return &models.RouteStop{
		RouteID:    route.ID,
		RouteName:  route.Name,
		Name:       input.Name,
		PickupTime: input.PickupTime,
		DropTime:   input.DropTime,
		Sequence:   input.Sequence,
	}, nil
}

func (s *TransportService) buildTransportAllocation(ctx context.Context, input TransportAllocationInput) (*models.TransportAllocation, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid transport allocation payload")
	}
	route, err := s.repo.FindRouteByID(ctx, input.RouteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "route not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch route")
	}

	stopName := ""
	stops, err := s.repo.ListStops(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list stops")
	}
	for _, stop := range stops {
		if stop.ID == input.StopID {
			if stop.RouteID != route.ID {
				return nil, appErrors.Clone(appErrors.ErrValidation, "stop does not belong to the chosen route")
			}
			stopName = stop.Name
			break
		}
	}
	if stopName == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "stop not found")
	}

	return &models.TransportAllocation{
		StudentID:       input.StudentID,
		StudentName:     input.StudentName,
		AdmissionNumber: input.AdmissionNumber,
		RouteID:         route.ID,
		RouteName:       route.Name,
		StopID:          input.StopID,
		StopName:        stopName,
		Status:          input.Status,
	}, nil
}

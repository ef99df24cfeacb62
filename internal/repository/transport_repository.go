package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Ortiz25/sms-api/internal/models"
)

// TransportRepository manages routes, stops and transport allocations.
type TransportRepository struct {
	db *sqlx.DB
}

// NewTransportRepository constructs a TransportRepository.
func NewTransportRepository(db *sqlx.DB) *TransportRepository {
	return &TransportRepository{db: db}
}

// ListRoutes returns every transport route.
func (r *TransportRepository) ListRoutes(ctx context.Context) ([]models.TransportRoute, error) {
	const query = `SELECT id, name, driver, vehicle, capacity, occupied, status, created_at, updated_at
        FROM transport_routes ORDER BY name ASC`
	var routes []models.TransportRoute
	if err := r.db.SelectContext(ctx, &routes, query); err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	return routes, nil
}

// FindRouteByID fetches a route.
func (r *TransportRepository) FindRouteByID(ctx context.Context, id string) (*models.TransportRoute, error) {
	const query = `SELECT id, name, driver, vehicle, capacity, occupied, status, created_at, updated_at
        FROM transport_routes WHERE id = $1`
	var route models.TransportRoute
	if err := r.db.GetContext(ctx, &route, query, id); err != nil {
		return nil, err
	}
	return &route, nil
}

// CreateRoute inserts a new route.
func (r *TransportRepository) CreateRoute(ctx context.Context, route *models.TransportRoute) error {
	if route.ID == "" {
		route.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if route.CreatedAt.IsZero() {
		route.CreatedAt = now
	}
	route.UpdatedAt = now
	const query = `INSERT INTO transport_routes (id, name, driver, vehicle, capacity, occupied, status, created_at, updated_at)
        VALUES (:id, :name, :driver, :vehicle, :capacity, :occupied, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, route); err != nil {
		return fmt.Errorf("create route: %w", err)
	}
	return nil
}

// UpdateRoute modifies an existing route.
func (r *TransportRepository) UpdateRoute(ctx context.Context, route *models.TransportRoute) error {
	route.UpdatedAt = time.Now().UTC()
	const query = `UPDATE transport_routes SET name = :name, driver = :driver, vehicle = :vehicle,
        capacity = :capacity, occupied = :occupied, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, route); err != nil {
		return fmt.Errorf("update route: %w", err)
	}
	return nil
}

// ListStops returns every stop ordered by route and sequence.
func (r *TransportRepository) ListStops(ctx context.Context) ([]models.RouteStop, error) {
	const query = `SELECT s.id, s.route_id, r.name AS route_name, s.name, s.pickup_time, s.drop_time, s.sequence, s.created_at, s.updated_at
        FROM route_stops s JOIN transport_routes r ON r.id = s.route_id
        ORDER BY r.name ASC, s.sequence ASC`
	var stops []models.RouteStop
	if err := r.db.SelectContext(ctx, &stops, query); err != nil {
		return nil, fmt.Errorf("list stops: %w", err)
	}
	return stops, nil
}

// CreateStop inserts a new route stop.
func (r *TransportRepository) CreateStop(ctx context.Context, stop *models.RouteStop) error {
	if stop.ID == "" {
		stop.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if stop.CreatedAt.IsZero() {
		stop.CreatedAt = now
	}
	stop.UpdatedAt = now
	const query = `INSERT INTO route_stops (id, route_id, name, pickup_time, drop_time, sequence, created_at, updated_at)
        VALUES (:id, :route_id, :name, :pickup_time, :drop_time, :sequence, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, stop); err != nil {
		return fmt.Errorf("create stop: %w", err)
	}
	return nil
}

// UpdateStop modifies an existing stop.
func (r *TransportRepository) UpdateStop(ctx context.Context, stop *models.RouteStop) error {
	stop.UpdatedAt = time.Now().UTC()
	const query = `UPDATE route_stops SET route_id = :route_id, name = :name, pickup_time = :pickup_time,
        drop_time = :drop_time, sequence = :sequence, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, stop); err != nil {
		return fmt.Errorf("update stop: %w", err)
	}
	return nil
}

const transportAllocationColumns = `id, student_id, student_name, admission_number, route_id, route_name,
        stop_id, stop_name, status, allocated_at, created_at, updated_at`

// ListAllocations returns every transport allocation.
func (r *TransportRepository) ListAllocations(ctx context.Context) ([]models.TransportAllocation, error) {
	query := fmt.Sprintf(`SELECT %s FROM transport_allocations ORDER BY allocated_at DESC`, transportAllocationColumns)
	var allocations []models.TransportAllocation
	if err := r.db.SelectContext(ctx, &allocations, query); err != nil {
		return nil, fmt.Errorf("list transport allocations: %w", err)
	}
	return allocations, nil
}

// FindAllocationByID fetches a transport allocation.
func (r *TransportRepository) FindAllocationByID(ctx context.Context, id string) (*models.TransportAllocation, error) {
	query := fmt.Sprintf(`SELECT %s FROM transport_allocations WHERE id = $1`, transportAllocationColumns)
	var allocation models.TransportAllocation
	if err := r.db.GetContext(ctx, &allocation, query, id); err != nil {
		return nil, err
	}
	return &allocation, nil
}

// CreateAllocation assigns a student to a route and stop.
func (r *TransportRepository) CreateAllocation(ctx context.Context, allocation *models.TransportAllocation) error {
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
	const query = `INSERT INTO transport_allocations (id, student_id, student_name, admission_number, route_id, route_name,
        stop_id, stop_name, status, allocated_at, created_at, updated_at)
        VALUES (:id, :student_id, :student_name, :admission_number, :route_id, :route_name,
        :stop_id, :stop_name, :status, :allocated_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, allocation); err != nil {
		return fmt.Errorf("create transport allocation: %w", err)
	}
	return nil
}

// UpdateAllocation modifies an existing transport allocation.
func (r *TransportRepository) UpdateAllocation(ctx context.Context, allocation *models.TransportAllocation) error {
	allocation.UpdatedAt = time.Now().UTC()
	const query = `UPDATE transport_allocations SET route_id = :route_id, route_name = :route_name,
        stop_id = :stop_id, stop_name = :stop_name, status = :status, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, allocation); err != nil {
		return fmt.Errorf("update transport allocation: %w", err)
	}
	return nil
}

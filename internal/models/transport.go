package models

import "time"

// AllocationKind is the explicit discriminator for allocation edits. Callers
// must state which allocation family a payload belongs to; the sub-type is
// never inferred from which optional fields happen to be present.
type AllocationKind string

const (
	AllocationKindHostel    AllocationKind = "hostel-allocation"
	AllocationKindTransport AllocationKind = "transport-allocation"
)

// TransportRoute is a bus route served by the school fleet.
type TransportRoute struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Driver    string    `db:"driver" json:"driver"`
	Vehicle   string    `db:"vehicle" json:"vehicle"`
	Capacity  int       `db:"capacity" json:"capacity"`
	Occupied  int       `db:"occupied" json:"occupied"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RouteStop is a pickup/drop-off point along a route.
type RouteStop struct {
	ID         string    `db:"id" json:"id"`
	RouteID    string    `db:"route_id" json:"route_id"`
	RouteName  string    `db:"route_name" json:"route_name"`
	Name       string    `db:"name" json:"name"`
	PickupTime string    `db:"pickup_time" json:"pickup_time"`
	DropTime   string    `db:"drop_time" json:"drop_time"`
	Sequence   int       `db:"sequence" json:"sequence"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// TransportAllocation assigns a student to a route and stop.
type TransportAllocation struct {
	ID              string    `db:"id" json:"id"`
	StudentID       string    `db:"student_id" json:"student_id"`
	StudentName     string    `db:"student_name" json:"student_name"`
	AdmissionNumber string    `db:"admission_number" json:"admission_number"`
	RouteID         string    `db:"route_id" json:"route_id"`
	RouteName       string    `db:"route_name" json:"route_name"`
	StopID          string    `db:"stop_id" json:"stop_id"`
	StopName        string    `db:"stop_name" json:"stop_name"`
	Status          string    `db:"status" json:"status"`
	AllocatedAt     time.Time `db:"allocated_at" json:"allocated_at"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

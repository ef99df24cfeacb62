package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ortiz25/sms-api/internal/models"
	appErrors "github.com/Ortiz25/sms-api/pkg/errors"
)

type mockTransportRepo struct {
	routes      map[string]*models.TransportRoute
	stops       map[string]*models.RouteStop
	allocations map[string]*models.TransportAllocation
}

func newMockTransportRepo() *mockTransportRepo {
	return &mockTransportRepo{
		routes:      map[string]*models.TransportRoute{},
		stops:       map[string]*models.RouteStop{},
		allocations: map[string]*models.TransportAllocation{},
	}
}

func (m *mockTransportRepo) ListRoutes(ctx context.Context) ([]models.TransportRoute, error) {
	out := make([]models.TransportRoute, 0, len(m.routes))
	for _, r := range m.routes {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockTransportRepo) FindRouteByID(ctx context.Context, id string) (*models.TransportRoute, error) {
	r, ok := m.routes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *r
	return &copied, nil
}

func (m *mockTransportRepo) CreateRoute(ctx context.Context, route *models.TransportRoute) error {
	if route.ID == "" {
		route.ID = "route-" + route.Name
	}
	copied := *route
	m.routes[route.ID] = &copied
	return nil
}

func (m *mockTransportRepo) UpdateRoute(ctx context.Context, route *models.TransportRoute) error {
	copied := *route
	m.routes[route.ID] = &copied
	return nil
}

func (m *mockTransportRepo) ListStops(ctx context.Context) ([]models.RouteStop, error) {
	out := make([]models.RouteStop, 0, len(m.stops))
	for _, s := range m.stops {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockTransportRepo) CreateStop(ctx context.Context, stop *models.RouteStop) error {
	if stop.ID == "" {
		stop.ID = "stop-" + stop.Name
	}
	copied := *stop
	m.stops[stop.ID] = &copied
	return nil
}

func (m *mockTransportRepo) UpdateStop(ctx context.Context, stop *models.RouteStop) error {
	if _, ok := m.stops[stop.ID]; !ok {
		return sql.ErrNoRows
	}
	copied := *stop
	m.stops[stop.ID] = &copied
	return nil
}

func (m *mockTransportRepo) ListAllocations(ctx context.Context) ([]models.TransportAllocation, error) {
	out := make([]models.TransportAllocation, 0, len(m.allocations))
	for _, a := range m.allocations {
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockTransportRepo) FindAllocationByID(ctx context.Context, id string) (*models.TransportAllocation, error) {
	a, ok := m.allocations[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *a
	return &copied, nil
}

func (m *mockTransportRepo) CreateAllocation(ctx context.Context, allocation *models.TransportAllocation) error {
	if allocation.ID == "" {
		allocation.ID = "talloc-" + allocation.StudentID
	}
	copied := *allocation
	m.allocations[allocation.ID] = &copied
	return nil
}

func (m *mockTransportRepo) UpdateAllocation(ctx context.Context, allocation *models.TransportAllocation) error {
	copied := *allocation
	m.allocations[allocation.ID] = &copied
	return nil
}

func transportRepoWithRoute() *mockTransportRepo {
	repo := newMockTransportRepo()
	repo.routes["route-1"] = &models.TransportRoute{
		ID: "route-1", Name: "Westlands Express", Driver: "Paul Kamau",
		Vehicle: "KDA 123X", Capacity: 40, Status: "active",
	}
	repo.stops["stop-1"] = &models.RouteStop{
		ID: "stop-1", RouteID: "route-1", RouteName: "Westlands Express",
		Name: "Sarit Centre", PickupTime: "06:40", DropTime: "16:50", Sequence: 1,
	}
	return repo
}

func allocationFixture(t *testing.T) (*AllocationService, *mockHostelRepo, *mockTransportRepo) {
	t.Helper()
	hostelRepo := hostelRepoWithDorm()
	transportRepo := transportRepoWithRoute()
	hostel := NewHostelService(hostelRepo, nil, nil)
	transport := NewTransportService(transportRepo, nil, nil)
	return NewAllocationService(hostel, transport), hostelRepo, transportRepo
}

func hostelEditInput() *HostelAllocationInput {
	return &HostelAllocationInput{
		StudentID: "stu-1", StudentName: "Jane Mwangi", AdmissionNumber: "ADM-001",
		DormitoryID: "dorm-1", RoomNumber: "12", BedNumber: "3", Status: "active",
	}
}

func transportEditInput() *TransportAllocationInput {
	return &TransportAllocationInput{
		StudentID: "stu-1", StudentName: "Jane Mwangi", AdmissionNumber: "ADM-001",
		RouteID: "route-1", StopID: "stop-1", Status: "active",
	}
}

func TestAllocationServiceDispatchesOnKind(t *testing.T) {
	svc, _, _ := allocationFixture(t)

	hostelResult, err := svc.Create(context.Background(), AllocationEdit{
		Kind:   models.AllocationKindHostel,
		Hostel: hostelEditInput(),
	})
	require.NoError(t, err)
	require.NotNil(t, hostelResult.Hostel)
	assert.Nil(t, hostelResult.Transport)

	transportResult, err := svc.Create(context.Background(), AllocationEdit{
		Kind:      models.AllocationKindTransport,
		Transport: transportEditInput(),
	})
	require.NoError(t, err)
	require.NotNil(t, transportResult.Transport)
	assert.Equal(t, "Westlands Express", transportResult.Transport.RouteName)
	assert.Equal(t, "Sarit Centre", transportResult.Transport.StopName)
}

func TestAllocationServiceRejectsBothShapes(t *testing.T) {
	svc, _, _ := allocationFixture(t)

	_, err := svc.Create(context.Background(), AllocationEdit{
		Kind:      models.AllocationKindHostel,
		Hostel:    hostelEditInput(),
		Transport: transportEditInput(),
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAllocationServiceRejectsUnknownKind(t *testing.T) {
	svc, _, _ := allocationFixture(t)

	_, err := svc.Create(context.Background(), AllocationEdit{
		Kind:   models.AllocationKind("boarding"),
		Hostel: hostelEditInput(),
	})
	require.Error(t, err)
}

func TestAllocationServiceRejectsKindWithoutPayload(t *testing.T) {
	svc, _, _ := allocationFixture(t)

	_, err := svc.Update(context.Background(), "alloc-1", AllocationEdit{
		Kind: models.AllocationKindHostel,
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestTransportServiceStopMustBelongToRoute(t *testing.T) {
	repo := transportRepoWithRoute()
	repo.routes["route-2"] = &models.TransportRoute{
		ID: "route-2", Name: "Karen Shuttle", Driver: "Mary Njeri",
		Vehicle: "KDB 456Y", Capacity: 30, Status: "active",
	}
	svc := NewTransportService(repo, nil, nil)

	input := *transportEditInput()
	input.RouteID = "route-2"
	_, err := svc.CreateAllocation(context.Background(), input)
	require.Error(t, err)
}

func TestTransportServiceCreateStopDenormalizesRoute(t *testing.T) {
	svc := NewTransportService(transportRepoWithRoute(), nil, nil)

	stop, err := svc.CreateStop(context.Background(), StopInput{
		RouteID: "route-1", Name: "ABC Place", PickupTime: "06:55", DropTime: "16:35", Sequence: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "Westlands Express", stop.RouteName)
}

func TestTransportServiceUpdateRouteCapacityFloor(t *testing.T) {
	repo := transportRepoWithRoute()
	repo.routes["route-1"].Occupied = 35
	svc := NewTransportService(repo, nil, nil)

	_, err := svc.UpdateRoute(context.Background(), "route-1", RouteInput{
		Name: "Westlands Express", Driver: "Paul Kamau", Vehicle: "KDA 123X",
		Capacity: 30, Status: "active",
	})
	require.Error(t, err)
}

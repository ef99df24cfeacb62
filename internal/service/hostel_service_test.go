package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ortiz25/sms-api/internal/listing"
	"github.com/Ortiz25/sms-api/internal/models"
)

type mockHostelRepo struct {
	dorms       map[string]*models.Dormitory
	boarders    map[string]*models.Boarder
	allocations map[string]*models.HostelAllocation
}

func newMockHostelRepo() *mockHostelRepo {
	return &mockHostelRepo{
		dorms:       map[string]*models.Dormitory{},
		boarders:    map[string]*models.Boarder{},
		allocations: map[string]*models.HostelAllocation{},
	}
}

func (m *mockHostelRepo) ListDormitories(ctx context.Context) ([]models.Dormitory, error) {
	out := make([]models.Dormitory, 0, len(m.dorms))
	for _, d := range m.dorms {
		out = append(out, *d)
	}
	return out, nil
}

func (m *mockHostelRepo) FindDormitoryByID(ctx context.Context, id string) (*models.Dormitory, error) {
	d, ok := m.dorms[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *d
	return &copied, nil
}

func (m *mockHostelRepo) CreateDormitory(ctx context.Context, dorm *models.Dormitory) error {
	if dorm.ID == "" {
		dorm.ID = "dorm-" + dorm.Name
	}
	copied := *dorm
	m.dorms[dorm.ID] = &copied
	return nil
}

func (m *mockHostelRepo) UpdateDormitory(ctx context.Context, dorm *models.Dormitory) error {
	copied := *dorm
	m.dorms[dorm.ID] = &copied
	return nil
}

func (m *mockHostelRepo) ListBoarders(ctx context.Context) ([]models.Boarder, error) {
	out := make([]models.Boarder, 0, len(m.boarders))
	for _, b := range m.boarders {
		out = append(out, *b)
	}
	return out, nil
}

func (m *mockHostelRepo) CreateBoarder(ctx context.Context, boarder *models.Boarder) error {
	if boarder.ID == "" {
		boarder.ID = "boarder-" + boarder.StudentID
	}
	copied := *boarder
	m.boarders[boarder.ID] = &copied
	return nil
}

func (m *mockHostelRepo) UpdateBoarder(ctx context.Context, boarder *models.Boarder) error {
	if _, ok := m.boarders[boarder.ID]; !ok {
		return sql.ErrNoRows
	}
	copied := *boarder
	m.boarders[boarder.ID] = &copied
	return nil
}

func (m *mockHostelRepo) ListAllocations(ctx context.Context) ([]models.HostelAllocation, error) {
	out := make([]models.HostelAllocation, 0, len(m.allocations))
	for _, a := range m.allocations {
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockHostelRepo) FindAllocationByID(ctx context.Context, id string) (*models.HostelAllocation, error) {
	a, ok := m.allocations[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *a
	return &copied, nil
}

func (m *mockHostelRepo) CreateAllocation(ctx context.Context, allocation *models.HostelAllocation) error {
	if allocation.ID == "" {
		allocation.ID = "alloc-" + allocation.StudentID
	}
	copied := *allocation
	m.allocations[allocation.ID] = &copied
	return nil
}

func (m *mockHostelRepo) UpdateAllocation(ctx context.Context, allocation *models.HostelAllocation) error {
	copied := *allocation
	m.allocations[allocation.ID] = &copied
	return nil
}

func hostelRepoWithDorm() *mockHostelRepo {
	repo := newMockHostelRepo()
	repo.dorms["dorm-1"] = &models.Dormitory{
		ID: "dorm-1", Name: "Kilimanjaro House", Gender: "boys",
		Capacity: 80, Occupied: 40, Status: "active",
	}
	return repo
}

func TestHostelServiceCreateDormitory(t *testing.T) {
	svc := NewHostelService(newMockHostelRepo(), nil, nil)
	dorm, err := svc.CreateDormitory(context.Background(), DormitoryInput{
		Name: "Elgon House", Gender: "girls", Capacity: 60, Status: "active",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, dorm.ID)
	assert.Zero(t, dorm.Occupied)
}

func TestHostelServiceUpdateDormitoryCapacityFloor(t *testing.T) {
	svc := NewHostelService(hostelRepoWithDorm(), nil, nil)
	_, err := svc.UpdateDormitory(context.Background(), "dorm-1", DormitoryInput{
		Name: "Kilimanjaro House", Gender: "boys", Capacity: 30, Status: "active",
	})
	require.Error(t, err)
}

func TestHostelServiceCreateAllocationDenormalizesDorm(t *testing.T) {
	svc := NewHostelService(hostelRepoWithDorm(), nil, nil)
	allocation, err := svc.CreateAllocation(context.Background(), HostelAllocationInput{
		StudentID: "stu-1", StudentName: "Jane Mwangi", AdmissionNumber: "ADM-001",
		DormitoryID: "dorm-1", RoomNumber: "12", BedNumber: "3", Status: "active",
	})
	require.NoError(t, err)
	assert.Equal(t, "Kilimanjaro House", allocation.DormitoryName)
	assert.False(t, allocation.AllocatedAt.IsZero())
}

func TestHostelServiceCreateAllocationUnknownDorm(t *testing.T) {
	svc := NewHostelService(newMockHostelRepo(), nil, nil)
	_, err := svc.CreateAllocation(context.Background(), HostelAllocationInput{
		StudentID: "stu-1", StudentName: "Jane Mwangi", AdmissionNumber: "ADM-001",
		DormitoryID: "ghost", RoomNumber: "12", BedNumber: "3", Status: "active",
	})
	require.Error(t, err)
}

func TestHostelServiceUpdateAllocationKeepsAllocatedAt(t *testing.T) {
	repo := hostelRepoWithDorm()
	svc := NewHostelService(repo, nil, nil)

	created, err := svc.CreateAllocation(context.Background(), HostelAllocationInput{
		StudentID: "stu-1", StudentName: "Jane Mwangi", AdmissionNumber: "ADM-001",
		DormitoryID: "dorm-1", RoomNumber: "12", BedNumber: "3", Status: "active",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateAllocation(context.Background(), created.ID, HostelAllocationInput{
		StudentID: "stu-1", StudentName: "Jane Mwangi", AdmissionNumber: "ADM-001",
		DormitoryID: "dorm-1", RoomNumber: "14", BedNumber: "1", Status: "active",
	})
	require.NoError(t, err)
	assert.Equal(t, created.AllocatedAt, updated.AllocatedAt)
	assert.Equal(t, "14", updated.RoomNumber)
}

func TestHostelServiceListBoardersFilters(t *testing.T) {
	repo := newMockHostelRepo()
	repo.boarders["b1"] = &models.Boarder{ID: "b1", StudentName: "Jane Mwangi", AdmissionNumber: "ADM-001", Status: "active"}
	repo.boarders["b2"] = &models.Boarder{ID: "b2", StudentName: "Brian Otieno", AdmissionNumber: "ADM-002", Status: "inactive"}
	svc := NewHostelService(repo, nil, nil)

	result, err := svc.ListBoarders(context.Background(), listing.Query{Search: "adm-002"})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "b2", result.Rows[0].ID)

	result, err = svc.ListBoarders(context.Background(), listing.Query{Status: "active"})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "b1", result.Rows[0].ID)
}

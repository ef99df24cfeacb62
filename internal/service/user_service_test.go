package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ortiz25/sms-api/internal/listing"
	"github.com/Ortiz25/sms-api/internal/models"
	appErrors "github.com/Ortiz25/sms-api/pkg/errors"
)

type mockUserRepo struct {
	users        map[string]*models.User
	createErr    error
	deletedIDs   []string
	statusCalls  int
	updateCalled bool
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[string]*models.User{}}
}

func (m *mockUserRepo) List(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if user.ID == "" {
		user.ID = "user-" + user.Email
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	m.updateCalled = true
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepo) UpdateStatus(ctx context.Context, id string, status models.UserStatus) error {
	m.statusCalls++
	if u, ok := m.users[id]; ok {
		u.Status = status
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	m.deletedIDs = append(m.deletedIDs, id)
	delete(m.users, id)
	return nil
}

func TestUserServiceCreateHashesPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, nil, nil)

	user, err := svc.Create(context.Background(), CreateUserRequest{
		Email:    "teacher@school.test",
		Password: "secret123",
		FullName: "Alice Wanjiku",
		Role:     models.RoleTeacher,
	})
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusActive, user.Status)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
}

func TestUserServiceCreateDuplicateEmailConflicts(t *testing.T) {
	repo := newMockUserRepo()
	repo.createErr = &pq.Error{Code: "23505"}
	svc := NewUserService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Email:    "teacher@school.test",
		Password: "secret123",
		FullName: "Alice Wanjiku",
		Role:     models.RoleTeacher,
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestUserServiceCreateValidation(t *testing.T) {
	svc := NewUserService(newMockUserRepo(), nil, nil)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Email: "not-an-email", Password: "secret123", FullName: "X", Role: models.RoleStaff,
	})
	require.Error(t, err)

	_, err = svc.Create(context.Background(), CreateUserRequest{
		Email: "a@b.test", Password: "short", FullName: "X", Role: "SUPERUSER",
	})
	require.Error(t, err)
}

func TestUserServiceUpdateStatus(t *testing.T) {
	repo := newMockUserRepo()
	repo.users["u1"] = &models.User{ID: "u1", Email: "a@b.test", FullName: "A", Role: models.RoleStaff, Status: models.UserStatusActive}
	svc := NewUserService(repo, nil, nil)

	user, err := svc.UpdateStatus(context.Background(), "u1", UpdateUserStatusRequest{Status: models.UserStatusSuspended})
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusSuspended, user.Status)
	assert.Equal(t, 1, repo.statusCalls)

	_, err = svc.UpdateStatus(context.Background(), "u1", UpdateUserStatusRequest{Status: "banned"})
	require.Error(t, err)
}

func TestUserServiceDeleteUnknownUser(t *testing.T) {
	svc := NewUserService(newMockUserRepo(), nil, nil)
	err := svc.Delete(context.Background(), "ghost")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestUserServiceListFilters(t *testing.T) {
	repo := newMockUserRepo()
	repo.users["u1"] = &models.User{ID: "u1", Email: "alice@school.test", FullName: "Alice Wanjiku", Status: models.UserStatusActive}
	repo.users["u2"] = &models.User{ID: "u2", Email: "brian@school.test", FullName: "Brian Otieno", Status: models.UserStatusInactive}
	svc := NewUserService(repo, nil, nil)

	result, err := svc.List(context.Background(), listing.Query{Search: "ALICE"})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "u1", result.Rows[0].ID)

	result, err = svc.List(context.Background(), listing.Query{Status: string(models.UserStatusInactive)})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "u2", result.Rows[0].ID)
}

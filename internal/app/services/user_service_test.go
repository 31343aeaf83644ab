package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/churchmanager/scheduler/internal/app/models"
	"github.com/churchmanager/scheduler/internal/app/models/dto"
	"github.com/churchmanager/scheduler/internal/app/repositories"
	"github.com/churchmanager/scheduler/internal/pkg/apperrors"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func testUser(active, available bool) *models.User {
	return &models.User{
		Base:        models.Base{ID: uuid.New()},
		Username:    "jdoe",
		Email:       "jdoe@example.com",
		PhoneNumber: "+1 555 123 4567",
		FirstName:   "John",
		LastName:    "Doe",
		IsActive:    active,
		IsAvailable: available,
	}
}

func newTestUserService() (UserService, *mockUserStore, *mockAssignmentStore) {
	users := &mockUserStore{}
	assignments := &mockAssignmentStore{}
	return NewUserService(users, assignments, zerolog.Nop()), users, assignments
}

// expectFreeIdentity makes every uniqueness lookup miss
func expectFreeIdentity(users *mockUserStore) {
	users.On("GetByUsername", mock.Anything, mock.Anything).Return(nil, nil)
	users.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, nil)
	users.On("GetByPhone", mock.Anything, mock.Anything).Return(nil, nil)
}

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newTestUserService()

	users.On("GetByUsername", ctx, "jdoe").Return(nil, nil).Once()
	users.On("GetByEmail", ctx, "jdoe@example.com").Return(nil, nil).Once()
	users.On("GetByPhone", ctx, "+1 555 123 4567").Return(nil, nil).Once()
	users.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "jdoe" && u.IsActive && !u.IsAvailable && u.FirstName == "John"
	})).Return(testUser(true, false), nil).Once()

	user, err := svc.CreateUser(ctx, &dto.CreateUserRequest{
		Username:    " jdoe ",
		Email:       "jdoe@example.com",
		PhoneNumber: "+1 555 123 4567",
		FirstName:   "John",
		LastName:    "Doe",
		IsAvailable: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "jdoe", user.Username)
	users.AssertExpectations(t)
}

func TestUserService_CreateUser_Duplicate(t *testing.T) {
	ctx := context.Background()
	req := &dto.CreateUserRequest{Username: "jdoe", Email: "jdoe@example.com", PhoneNumber: "+1 555 123 4567"}

	t.Run("taken username", func(t *testing.T) {
		svc, users, _ := newTestUserService()
		users.On("GetByUsername", ctx, "jdoe").Return(testUser(true, true), nil).Once()

		_, err := svc.CreateUser(ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrUniquenessViolation)
		assert.Equal(t, "username", apperrors.FieldOf(err))
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("taken phone number", func(t *testing.T) {
		svc, users, _ := newTestUserService()
		users.On("GetByUsername", ctx, "jdoe").Return(nil, nil).Once()
		users.On("GetByEmail", ctx, "jdoe@example.com").Return(nil, nil).Once()
		users.On("GetByPhone", ctx, "+1 555 123 4567").Return(testUser(true, true), nil).Once()

		_, err := svc.CreateUser(ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrUniquenessViolation)
		assert.Equal(t, "phoneNumber", apperrors.FieldOf(err))
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("lost race to a concurrent insert", func(t *testing.T) {
		svc, users, _ := newTestUserService()
		expectFreeIdentity(users)
		users.On("Create", ctx, mock.Anything).Return(nil, apperrors.ErrUniquenessViolation).Once()

		_, err := svc.CreateUser(ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrUniquenessViolation)
	})
}

func TestUserService_GetUser(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newTestUserService()
	u := testUser(true, true)
	missing := uuid.New()

	users.On("Get", ctx, u.ID, true).Return(u, nil).Once()
	users.On("Get", ctx, missing, true).Return(nil, nil).Once()

	got, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Same(t, u, got)

	_, err = svc.GetUser(ctx, missing)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestUserService_ListUsers(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newTestUserService()

	users.On("List", ctx, repositories.ListOptions{
		Skip:    10,
		Limit:   100,
		OrderBy: "-last_name",
		Filters: repositories.Filters{repositories.UserIsActive: true},
	}).Return([]*models.User{testUser(true, true)}, nil).Once()

	list, err := svc.ListUsers(ctx, &dto.UserFilterRequest{
		ListQuery: dto.ListQuery{Skip: 10, OrderBy: "-last_name"},
		IsActive:  boolPtr(true),
	})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	users.AssertExpectations(t)
}

func TestUserService_UpdateUser(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newTestUserService()
	u := testUser(true, true)

	users.On("Update", ctx, u.ID, repositories.Changes{
		repositories.UserFirstName:   "Johnny",
		repositories.UserIsAvailable: false,
	}).Return(u, nil).Once()

	_, err := svc.UpdateUser(ctx, u.ID, &dto.UpdateUserRequest{FirstName: strPtr(" Johnny "), IsAvailable: boolPtr(false)})
	require.NoError(t, err)

	t.Run("empty update reads the user", func(t *testing.T) {
		users.On("Get", ctx, u.ID, true).Return(u, nil).Once()
		got, err := svc.UpdateUser(ctx, u.ID, &dto.UpdateUserRequest{})
		require.NoError(t, err)
		assert.Same(t, u, got)
	})

	t.Run("missing user", func(t *testing.T) {
		missing := uuid.New()
		users.On("Update", ctx, missing, mock.Anything).Return(nil, nil).Once()
		_, err := svc.UpdateUser(ctx, missing, &dto.UpdateUserRequest{LastName: strPtr("Roe")})
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})
	users.AssertExpectations(t)
}

func TestUserService_DeleteUser(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newTestUserService()
	id := uuid.New()

	users.On("Delete", ctx, id).Return(true, nil).Once()
	require.NoError(t, svc.DeleteUser(ctx, id))

	users.On("Delete", ctx, id).Return(false, nil).Once()
	assert.ErrorIs(t, svc.DeleteUser(ctx, id), apperrors.ErrResourceNotFound)
}

func TestUserService_SearchDefaultsToActive(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newTestUserService()

	users.On("SearchUsers", ctx, "doe", uint64(5), true).Return([]*models.User{}, nil).Once()
	users.On("SearchUsers", ctx, "doe", uint64(0), false).Return([]*models.User{}, nil).Once()

	_, err := svc.SearchUsers(ctx, &dto.UserSearchRequest{Query: "doe", Limit: 5})
	require.NoError(t, err)
	_, err = svc.SearchUsers(ctx, &dto.UserSearchRequest{Query: "doe", OnlyActive: boolPtr(false)})
	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestUserService_AvailabilityAndDeactivation(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newTestUserService()
	u := testUser(false, false)
	missing := uuid.New()

	users.On("UpdateAvailability", ctx, u.ID, false).Return(u, nil).Once()
	users.On("UpdateAvailability", ctx, missing, true).Return(nil, nil).Once()
	users.On("DeactivateUser", ctx, u.ID).Return(u, nil).Once()
	users.On("DeactivateUser", ctx, missing).Return(nil, nil).Once()

	got, err := svc.SetAvailability(ctx, u.ID, false)
	require.NoError(t, err)
	assert.False(t, got.IsAvailable)

	_, err = svc.SetAvailability(ctx, missing, true)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	got, err = svc.DeactivateUser(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.CanBeScheduled())

	_, err = svc.DeactivateUser(ctx, missing)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestUserService_GetUserAssignments(t *testing.T) {
	ctx := context.Background()
	svc, users, assignments := newTestUserService()
	u := testUser(true, true)
	start := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	statuses := []models.StatusCode{models.StatusConfirmed}

	users.On("Get", ctx, u.ID, false).Return(u, nil).Once()
	assignments.On("GetUserAssignments", ctx, u.ID, &start, (*time.Time)(nil), statuses).
		Return([]*models.ScheduleAssignment{{UserID: u.ID}}, nil).Once()

	list, err := svc.GetUserAssignments(ctx, u.ID, &start, nil, statuses)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	missing := uuid.New()
	users.On("Get", ctx, missing, false).Return(nil, nil).Once()
	_, err = svc.GetUserAssignments(ctx, missing, nil, nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assignments.AssertExpectations(t)

	t.Run("without statuses reads the full schedule", func(t *testing.T) {
		users.On("Get", ctx, u.ID, false).Return(u, nil).Once()
		users.On("GetUserSchedule", ctx, u.ID, &start, (*time.Time)(nil)).
			Return([]*models.ScheduleAssignment{{UserID: u.ID}, {UserID: u.ID}}, nil).Once()

		list, err := svc.GetUserAssignments(ctx, u.ID, &start, nil, nil)
		require.NoError(t, err)
		assert.Len(t, list, 2)
		assignments.AssertNumberOfCalls(t, "GetUserAssignments", 1)
	})
}

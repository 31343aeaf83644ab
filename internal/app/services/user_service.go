package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/churchmanager/scheduler/internal/app/models"
	"github.com/churchmanager/scheduler/internal/app/models/dto"
	"github.com/churchmanager/scheduler/internal/app/repositories"
	"github.com/churchmanager/scheduler/internal/pkg/apperrors"
	"github.com/churchmanager/scheduler/internal/pkg/helpers"
)

// UserService defines the interface for member operations
type UserService interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context, filter *dto.UserFilterRequest) ([]*models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	SearchUsers(ctx context.Context, req *dto.UserSearchRequest) ([]*models.User, error)
	GetAvailableUsers(ctx context.Context, date time.Time, ministryID *uuid.UUID) ([]*models.User, error)
	SetAvailability(ctx context.Context, id uuid.UUID, isAvailable bool) (*models.User, error)
	DeactivateUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserAssignments(ctx context.Context, id uuid.UUID, start, end *time.Time, statuses []models.StatusCode) ([]*models.ScheduleAssignment, error)
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	userRepo       userStore
	assignmentRepo assignmentStore
	logger         zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo userStore, assignmentRepo assignmentStore, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		userRepo:       userRepo,
		assignmentRepo: assignmentRepo,
		logger:         logger,
	}
}

func userNotFound(id uuid.UUID) error {
	return apperrors.NewResourceNotFoundError(fmt.Sprintf("user %s not found", id))
}

// CreateUser registers a member; new members are active and available unless stated otherwise
func (s *userServiceImpl) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	user := &models.User{
		Username:    strings.TrimSpace(req.Username),
		Email:       strings.TrimSpace(req.Email),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		IsActive:    helpers.BoolOr(req.IsActive, true),
		IsAvailable: helpers.BoolOr(req.IsAvailable, true),
	}

	if err := s.checkUnique(ctx, user); err != nil {
		return nil, err
	}

	// the unique constraints still decide concurrent inserts
	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		s.logger.Warn().Err(err).Str("username", user.Username).Msg("Failed to create user")
		return nil, err
	}

	s.logger.Info().Str("userID", created.ID.String()).Str("username", created.Username).Msg("User created")
	return created, nil
}

// checkUnique reports which unique field of user another member already holds
func (s *userServiceImpl) checkUnique(ctx context.Context, user *models.User) error {
	checks := []struct {
		field  string
		value  string
		lookup func(context.Context, string) (*models.User, error)
	}{
		{"username", user.Username, s.userRepo.GetByUsername},
		{"email", user.Email, s.userRepo.GetByEmail},
		{"phoneNumber", user.PhoneNumber, s.userRepo.GetByPhone},
	}
	for _, c := range checks {
		existing, err := c.lookup(ctx, c.value)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.NewDuplicateError(c.field, fmt.Sprintf("%s %q is already taken", c.field, c.value))
		}
	}
	return nil
}

// GetUser retrieves a user with memberships, led ministries and assignments
func (s *userServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.Get(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, userNotFound(id)
	}
	return user, nil
}

// ListUsers lists users page by page
func (s *userServiceImpl) ListUsers(ctx context.Context, filter *dto.UserFilterRequest) ([]*models.User, error) {
	filters := repositories.Filters{}
	if filter.IsActive != nil {
		filters[repositories.UserIsActive] = *filter.IsActive
	}
	if filter.IsAvailable != nil {
		filters[repositories.UserIsAvailable] = *filter.IsAvailable
	}

	return s.userRepo.List(ctx, repositories.ListOptions{
		Skip:    filter.Skip,
		Limit:   helpers.NormalizeLimit(filter.Limit),
		OrderBy: filter.OrderBy,
		Filters: filters,
	})
}

// UpdateUser applies the fields present in req
func (s *userServiceImpl) UpdateUser(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*models.User, error) {
	changes := repositories.Changes{}
	setString := func(f repositories.Field, v *string) {
		if v != nil {
			changes[f] = strings.TrimSpace(*v)
		}
	}
	setString(repositories.UserUsername, req.Username)
	setString(repositories.UserEmail, req.Email)
	setString(repositories.UserPhoneNumber, req.PhoneNumber)
	setString(repositories.UserFirstName, req.FirstName)
	setString(repositories.UserLastName, req.LastName)
	if req.IsActive != nil {
		changes[repositories.UserIsActive] = *req.IsActive
	}
	if req.IsAvailable != nil {
		changes[repositories.UserIsAvailable] = *req.IsAvailable
	}

	if len(changes) == 0 {
		return s.GetUser(ctx, id)
	}

	user, err := s.userRepo.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, userNotFound(id)
	}
	return user, nil
}

// DeleteUser removes a user with their memberships and assignments
func (s *userServiceImpl) DeleteUser(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return userNotFound(id)
	}
	s.logger.Info().Str("userID", id.String()).Msg("User deleted")
	return nil
}

// SearchUsers matches names, username, email and phone number
func (s *userServiceImpl) SearchUsers(ctx context.Context, req *dto.UserSearchRequest) ([]*models.User, error) {
	return s.userRepo.SearchUsers(ctx, req.Query, req.Limit, helpers.BoolOr(req.OnlyActive, true))
}

// GetAvailableUsers lists schedulable users without an open assignment on date
func (s *userServiceImpl) GetAvailableUsers(ctx context.Context, date time.Time, ministryID *uuid.UUID) ([]*models.User, error) {
	return s.userRepo.GetAvailableUsers(ctx, date, ministryID)
}

func (s *userServiceImpl) SetAvailability(ctx context.Context, id uuid.UUID, isAvailable bool) (*models.User, error) {
	user, err := s.userRepo.UpdateAvailability(ctx, id, isAvailable)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, userNotFound(id)
	}
	return user, nil
}

// DeactivateUser makes a user neither active nor available
func (s *userServiceImpl) DeactivateUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.DeactivateUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, userNotFound(id)
	}
	s.logger.Info().Str("userID", id.String()).Msg("User deactivated")
	return user, nil
}

// GetUserAssignments lists the assignments of an existing user. Without a
// status filter this is the user's full schedule.
func (s *userServiceImpl) GetUserAssignments(ctx context.Context, id uuid.UUID, start, end *time.Time, statuses []models.StatusCode) ([]*models.ScheduleAssignment, error) {
	user, err := s.userRepo.Get(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, userNotFound(id)
	}
	if len(statuses) == 0 {
		return s.userRepo.GetUserSchedule(ctx, id, start, end)
	}
	return s.assignmentRepo.GetUserAssignments(ctx, id, start, end, statuses)
}

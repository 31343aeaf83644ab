package controllers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/churchmanager/scheduler/internal/app/models"
	"github.com/churchmanager/scheduler/internal/app/models/dto"
)

func ret[T any](args mock.Arguments, i int) T {
	v, _ := args.Get(i).(T)
	return v
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	return ret[*models.User](args, 0), args.Error(1)
}

func (m *mockUserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	return ret[*models.User](args, 0), args.Error(1)
}

func (m *mockUserService) ListUsers(ctx context.Context, filter *dto.UserFilterRequest) ([]*models.User, error) {
	args := m.Called(ctx, filter)
	return ret[[]*models.User](args, 0), args.Error(1)
}

func (m *mockUserService) UpdateUser(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*models.User, error) {
	args := m.Called(ctx, id, req)
	return ret[*models.User](args, 0), args.Error(1)
}

func (m *mockUserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserService) SearchUsers(ctx context.Context, req *dto.UserSearchRequest) ([]*models.User, error) {
	args := m.Called(ctx, req)
	return ret[[]*models.User](args, 0), args.Error(1)
}

func (m *mockUserService) GetAvailableUsers(ctx context.Context, date time.Time, ministryID *uuid.UUID) ([]*models.User, error) {
	args := m.Called(ctx, date, ministryID)
	return ret[[]*models.User](args, 0), args.Error(1)
}

func (m *mockUserService) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*models.User, error) {
	args := m.Called(ctx, id, available)
	return ret[*models.User](args, 0), args.Error(1)
}

func (m *mockUserService) DeactivateUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	return ret[*models.User](args, 0), args.Error(1)
}

func (m *mockUserService) GetUserAssignments(ctx context.Context, id uuid.UUID, start, end *time.Time, statuses []models.StatusCode) ([]*models.ScheduleAssignment, error) {
	args := m.Called(ctx, id, start, end, statuses)
	return ret[[]*models.ScheduleAssignment](args, 0), args.Error(1)
}

type mockMinistryService struct{ mock.Mock }

func (m *mockMinistryService) CreateMinistry(ctx context.Context, req *dto.CreateMinistryRequest) (*models.Ministry, error) {
	args := m.Called(ctx, req)
	return ret[*models.Ministry](args, 0), args.Error(1)
}

func (m *mockMinistryService) GetMinistry(ctx context.Context, id uuid.UUID) (*models.Ministry, error) {
	args := m.Called(ctx, id)
	return ret[*models.Ministry](args, 0), args.Error(1)
}

func (m *mockMinistryService) ListMinistries(ctx context.Context, filter *dto.MinistryFilterRequest) ([]*models.Ministry, error) {
	args := m.Called(ctx, filter)
	return ret[[]*models.Ministry](args, 0), args.Error(1)
}

func (m *mockMinistryService) UpdateMinistry(ctx context.Context, id uuid.UUID, req *dto.UpdateMinistryRequest) (*models.Ministry, error) {
	args := m.Called(ctx, id, req)
	return ret[*models.Ministry](args, 0), args.Error(1)
}

func (m *mockMinistryService) DeleteMinistry(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockMinistryService) SearchMinistries(ctx context.Context, req *dto.MinistrySearchRequest) ([]*models.Ministry, error) {
	args := m.Called(ctx, req)
	return ret[[]*models.Ministry](args, 0), args.Error(1)
}

func (m *mockMinistryService) GetActiveMinistries(ctx context.Context) ([]*models.Ministry, error) {
	args := m.Called(ctx)
	return ret[[]*models.Ministry](args, 0), args.Error(1)
}

func (m *mockMinistryService) SetLeader(ctx context.Context, id uuid.UUID, leaderID *uuid.UUID) (*models.Ministry, error) {
	args := m.Called(ctx, id, leaderID)
	return ret[*models.Ministry](args, 0), args.Error(1)
}

func (m *mockMinistryService) AddMember(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockMinistryService) RemoveMember(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockMinistryService) GetMembers(ctx context.Context, id uuid.UUID, onlyActive bool) ([]*models.User, error) {
	args := m.Called(ctx, id, onlyActive)
	return ret[[]*models.User](args, 0), args.Error(1)
}

func (m *mockMinistryService) GetMemberCount(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return ret[int64](args, 0), args.Error(1)
}

func (m *mockMinistryService) GetSchedules(ctx context.Context, id uuid.UUID, activeOnly bool, limit uint64) ([]*models.Schedule, error) {
	args := m.Called(ctx, id, activeOnly, limit)
	return ret[[]*models.Schedule](args, 0), args.Error(1)
}

func (m *mockMinistryService) GetUserMinistries(ctx context.Context, userID uuid.UUID, onlyActive bool) (*dto.UserMinistriesResponse, error) {
	args := m.Called(ctx, userID, onlyActive)
	return ret[*dto.UserMinistriesResponse](args, 0), args.Error(1)
}

func (m *mockMinistryService) DeactivateMinistry(ctx context.Context, id uuid.UUID) (*models.Ministry, error) {
	args := m.Called(ctx, id)
	return ret[*models.Ministry](args, 0), args.Error(1)
}

func (m *mockMinistryService) ReactivateMinistry(ctx context.Context, id uuid.UUID) (*models.Ministry, error) {
	args := m.Called(ctx, id)
	return ret[*models.Ministry](args, 0), args.Error(1)
}

type mockScheduleService struct{ mock.Mock }

func (m *mockScheduleService) CreateSchedule(ctx context.Context, req *dto.CreateScheduleRequest) (*models.Schedule, error) {
	args := m.Called(ctx, req)
	return ret[*models.Schedule](args, 0), args.Error(1)
}

func (m *mockScheduleService) GetSchedule(ctx context.Context, id uuid.UUID) (*models.Schedule, error) {
	args := m.Called(ctx, id)
	return ret[*models.Schedule](args, 0), args.Error(1)
}

func (m *mockScheduleService) GetSchedulesInRange(ctx context.Context, start, end time.Time, ministryID *uuid.UUID) ([]*models.Schedule, error) {
	args := m.Called(ctx, start, end, ministryID)
	return ret[[]*models.Schedule](args, 0), args.Error(1)
}

func (m *mockScheduleService) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockScheduleService) AddOccurrence(ctx context.Context, scheduleID uuid.UUID, date time.Time, notes *string) (*models.ScheduleOccurrence, error) {
	args := m.Called(ctx, scheduleID, date, notes)
	return ret[*models.ScheduleOccurrence](args, 0), args.Error(1)
}

func (m *mockScheduleService) GetOccurrence(ctx context.Context, id uuid.UUID) (*models.ScheduleOccurrence, error) {
	args := m.Called(ctx, id)
	return ret[*models.ScheduleOccurrence](args, 0), args.Error(1)
}

func (m *mockScheduleService) RescheduleOccurrence(ctx context.Context, id uuid.UUID, date time.Time) (*models.ScheduleOccurrence, error) {
	args := m.Called(ctx, id, date)
	return ret[*models.ScheduleOccurrence](args, 0), args.Error(1)
}

func (m *mockScheduleService) DeleteOccurrence(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockScheduleService) GetOccurrencesByDate(ctx context.Context, date time.Time, ministryID *uuid.UUID) ([]*models.ScheduleOccurrence, error) {
	args := m.Called(ctx, date, ministryID)
	return ret[[]*models.ScheduleOccurrence](args, 0), args.Error(1)
}

func (m *mockScheduleService) GetOccurrencesInRange(ctx context.Context, start, end time.Time, ministryID *uuid.UUID) ([]*models.ScheduleOccurrence, error) {
	args := m.Called(ctx, start, end, ministryID)
	return ret[[]*models.ScheduleOccurrence](args, 0), args.Error(1)
}

func (m *mockScheduleService) GetUpcomingOccurrences(ctx context.Context, daysAhead int, ministryID *uuid.UUID) ([]*models.ScheduleOccurrence, error) {
	args := m.Called(ctx, daysAhead, ministryID)
	return ret[[]*models.ScheduleOccurrence](args, 0), args.Error(1)
}

func (m *mockScheduleService) AssignUser(ctx context.Context, occurrenceID uuid.UUID, req *dto.CreateAssignmentRequest) (*models.ScheduleAssignment, error) {
	args := m.Called(ctx, occurrenceID, req)
	return ret[*models.ScheduleAssignment](args, 0), args.Error(1)
}

func (m *mockScheduleService) BulkAssign(ctx context.Context, occurrenceID uuid.UUID, items []dto.BulkAssignItem) ([]*models.ScheduleAssignment, error) {
	args := m.Called(ctx, occurrenceID, items)
	return ret[[]*models.ScheduleAssignment](args, 0), args.Error(1)
}

func (m *mockScheduleService) GetOccurrenceAssignments(ctx context.Context, occurrenceID uuid.UUID, role models.RoleCode) ([]*models.ScheduleAssignment, error) {
	args := m.Called(ctx, occurrenceID, role)
	return ret[[]*models.ScheduleAssignment](args, 0), args.Error(1)
}

func (m *mockScheduleService) UpdateAssignmentStatus(ctx context.Context, id uuid.UUID, status models.StatusCode, notes *string) (*models.ScheduleAssignment, error) {
	args := m.Called(ctx, id, status, notes)
	return ret[*models.ScheduleAssignment](args, 0), args.Error(1)
}

func (m *mockScheduleService) GetStatistics(ctx context.Context, start, end time.Time, ministryID *uuid.UUID) (models.AssignmentStatistics, error) {
	args := m.Called(ctx, start, end, ministryID)
	return ret[models.AssignmentStatistics](args, 0), args.Error(1)
}

func (m *mockScheduleService) NotifyAssignee(ctx context.Context, id uuid.UUID, req *dto.NotifyRequest) (*dto.NotifyResponse, error) {
	args := m.Called(ctx, id, req)
	return ret[*dto.NotifyResponse](args, 0), args.Error(1)
}

type mockWebhookService struct{ mock.Mock }

func (m *mockWebhookService) Dispatch(payload *dto.WebhookPayload) {
	m.Called(payload)
}

func (m *mockWebhookService) Wait(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

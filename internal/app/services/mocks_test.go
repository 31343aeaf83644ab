package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/churchmanager/scheduler/internal/app/models"
	"github.com/churchmanager/scheduler/internal/app/repositories"
)

// ret returns the i-th mocked value as T, or the zero value for nil
func ret[T any](args mock.Arguments, i int) T {
	v, _ := args.Get(i).(T)
	return v
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	return ret[*models.User](args, 0), args.Error(1)
}

func (m *mockUserStore) Get(ctx context.Context, id uuid.UUID, loadRelated bool) (*models.User, error) {
	args := m.Called(ctx, id, loadRelated)
	return ret[*models.User](args, 0), args.Error(1)
}

func (m *mockUserStore) List(ctx context.Context, opts repositories.ListOptions) ([]*models.User, error) {
	args := m.Called(ctx, opts)
	return ret[[]*models.User](args, 0), args.Error(1)
}

func (m *mockUserStore) Update(ctx context.Context, id uuid.UUID, changes repositories.Changes) (*models.User, error) {
	args := m.Called(ctx, id, changes)
	return ret[*models.User](args, 0), args.Error(1)
}

func (m *mockUserStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	return ret[*models.User](args, 0), args.Error(1)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	return ret[*models.User](args, 0), args.Error(1)
}

func (m *mockUserStore) GetByPhone(ctx context.Context, phoneNumber string) (*models.User, error) {
	args := m.Called(ctx, phoneNumber)
	return ret[*models.User](args, 0), args.Error(1)
}

func (m *mockUserStore) SearchUsers(ctx context.Context, query string, limit uint64, onlyActive bool) ([]*models.User, error) {
	args := m.Called(ctx, query, limit, onlyActive)
	return ret[[]*models.User](args, 0), args.Error(1)
}

func (m *mockUserStore) GetAvailableUsers(ctx context.Context, date time.Time, ministryID *uuid.UUID) ([]*models.User, error) {
	args := m.Called(ctx, date, ministryID)
	return ret[[]*models.User](args, 0), args.Error(1)
}

func (m *mockUserStore) GetMinistryMembers(ctx context.Context, ministryID uuid.UUID, onlyActive bool) ([]*models.User, error) {
	args := m.Called(ctx, ministryID, onlyActive)
	return ret[[]*models.User](args, 0), args.Error(1)
}

func (m *mockUserStore) UpdateAvailability(ctx context.Context, userID uuid.UUID, isAvailable bool) (*models.User, error) {
	args := m.Called(ctx, userID, isAvailable)
	return ret[*models.User](args, 0), args.Error(1)
}

func (m *mockUserStore) DeactivateUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, userID)
	return ret[*models.User](args, 0), args.Error(1)
}

func (m *mockUserStore) GetUserSchedule(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]*models.ScheduleAssignment, error) {
	args := m.Called(ctx, userID, start, end)
	return ret[[]*models.ScheduleAssignment](args, 0), args.Error(1)
}

type mockMinistryStore struct{ mock.Mock }

func (m *mockMinistryStore) Create(ctx context.Context, ministry *models.Ministry) (*models.Ministry, error) {
	args := m.Called(ctx, ministry)
	return ret[*models.Ministry](args, 0), args.Error(1)
}

func (m *mockMinistryStore) CreateWithLeader(ctx context.Context, ministry *models.Ministry, leaderID *uuid.UUID) (*models.Ministry, error) {
	args := m.Called(ctx, ministry, leaderID)
	return ret[*models.Ministry](args, 0), args.Error(1)
}

func (m *mockMinistryStore) Get(ctx context.Context, id uuid.UUID, loadRelated bool) (*models.Ministry, error) {
	args := m.Called(ctx, id, loadRelated)
	return ret[*models.Ministry](args, 0), args.Error(1)
}

func (m *mockMinistryStore) List(ctx context.Context, opts repositories.ListOptions) ([]*models.Ministry, error) {
	args := m.Called(ctx, opts)
	return ret[[]*models.Ministry](args, 0), args.Error(1)
}

func (m *mockMinistryStore) Update(ctx context.Context, id uuid.UUID, changes repositories.Changes) (*models.Ministry, error) {
	args := m.Called(ctx, id, changes)
	return ret[*models.Ministry](args, 0), args.Error(1)
}

func (m *mockMinistryStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockMinistryStore) GetActiveMinistries(ctx context.Context) ([]*models.Ministry, error) {
	args := m.Called(ctx)
	return ret[[]*models.Ministry](args, 0), args.Error(1)
}

func (m *mockMinistryStore) SearchMinistries(ctx context.Context, query string, onlyActive bool) ([]*models.Ministry, error) {
	args := m.Called(ctx, query, onlyActive)
	return ret[[]*models.Ministry](args, 0), args.Error(1)
}

func (m *mockMinistryStore) SetLeader(ctx context.Context, ministryID uuid.UUID, leaderID *uuid.UUID) (*models.Ministry, error) {
	args := m.Called(ctx, ministryID, leaderID)
	return ret[*models.Ministry](args, 0), args.Error(1)
}

func (m *mockMinistryStore) AddMember(ctx context.Context, ministryID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, ministryID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockMinistryStore) RemoveMember(ctx context.Context, ministryID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, ministryID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockMinistryStore) GetUserMinistries(ctx context.Context, userID uuid.UUID, onlyActive bool) ([]*models.Ministry, error) {
	args := m.Called(ctx, userID, onlyActive)
	return ret[[]*models.Ministry](args, 0), args.Error(1)
}

func (m *mockMinistryStore) GetLedMinistries(ctx context.Context, leaderID uuid.UUID, onlyActive bool) ([]*models.Ministry, error) {
	args := m.Called(ctx, leaderID, onlyActive)
	return ret[[]*models.Ministry](args, 0), args.Error(1)
}

func (m *mockMinistryStore) GetMemberCount(ctx context.Context, ministryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ministryID)
	return ret[int64](args, 0), args.Error(1)
}

func (m *mockMinistryStore) DeactivateMinistry(ctx context.Context, ministryID uuid.UUID) (*models.Ministry, error) {
	args := m.Called(ctx, ministryID)
	return ret[*models.Ministry](args, 0), args.Error(1)
}

func (m *mockMinistryStore) ReactivateMinistry(ctx context.Context, ministryID uuid.UUID) (*models.Ministry, error) {
	args := m.Called(ctx, ministryID)
	return ret[*models.Ministry](args, 0), args.Error(1)
}

type mockScheduleStore struct{ mock.Mock }

func (m *mockScheduleStore) Create(ctx context.Context, schedule *models.Schedule) (*models.Schedule, error) {
	args := m.Called(ctx, schedule)
	return ret[*models.Schedule](args, 0), args.Error(1)
}

func (m *mockScheduleStore) Get(ctx context.Context, id uuid.UUID, loadRelated bool) (*models.Schedule, error) {
	args := m.Called(ctx, id, loadRelated)
	return ret[*models.Schedule](args, 0), args.Error(1)
}

func (m *mockScheduleStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockScheduleStore) GetSchedulesInRange(ctx context.Context, start, end time.Time, ministryID *uuid.UUID) ([]*models.Schedule, error) {
	args := m.Called(ctx, start, end, ministryID)
	return ret[[]*models.Schedule](args, 0), args.Error(1)
}

func (m *mockScheduleStore) GetMinistrySchedules(ctx context.Context, ministryID uuid.UUID, activeOnly bool, limit uint64) ([]*models.Schedule, error) {
	args := m.Called(ctx, ministryID, activeOnly, limit)
	return ret[[]*models.Schedule](args, 0), args.Error(1)
}

func (m *mockScheduleStore) CreateScheduleWithOccurrences(ctx context.Context, schedule *models.Schedule, dates []time.Time) (*models.Schedule, error) {
	args := m.Called(ctx, schedule, dates)
	return ret[*models.Schedule](args, 0), args.Error(1)
}

type mockOccurrenceStore struct{ mock.Mock }

func (m *mockOccurrenceStore) Get(ctx context.Context, id uuid.UUID, loadRelated bool) (*models.ScheduleOccurrence, error) {
	args := m.Called(ctx, id, loadRelated)
	return ret[*models.ScheduleOccurrence](args, 0), args.Error(1)
}

func (m *mockOccurrenceStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockOccurrenceStore) CreateOccurrence(ctx context.Context, scheduleID uuid.UUID, date time.Time, notes *string) (*models.ScheduleOccurrence, error) {
	args := m.Called(ctx, scheduleID, date, notes)
	return ret[*models.ScheduleOccurrence](args, 0), args.Error(1)
}

func (m *mockOccurrenceStore) Reschedule(ctx context.Context, id uuid.UUID, date time.Time) (*models.ScheduleOccurrence, error) {
	args := m.Called(ctx, id, date)
	return ret[*models.ScheduleOccurrence](args, 0), args.Error(1)
}

func (m *mockOccurrenceStore) GetOccurrencesByDate(ctx context.Context, date time.Time, ministryID *uuid.UUID) ([]*models.ScheduleOccurrence, error) {
	args := m.Called(ctx, date, ministryID)
	return ret[[]*models.ScheduleOccurrence](args, 0), args.Error(1)
}

func (m *mockOccurrenceStore) GetOccurrencesInRange(ctx context.Context, start, end time.Time, ministryID *uuid.UUID) ([]*models.ScheduleOccurrence, error) {
	args := m.Called(ctx, start, end, ministryID)
	return ret[[]*models.ScheduleOccurrence](args, 0), args.Error(1)
}

func (m *mockOccurrenceStore) GetUpcomingOccurrences(ctx context.Context, daysAhead int, ministryID *uuid.UUID) ([]*models.ScheduleOccurrence, error) {
	args := m.Called(ctx, daysAhead, ministryID)
	return ret[[]*models.ScheduleOccurrence](args, 0), args.Error(1)
}

type mockAssignmentStore struct{ mock.Mock }

func (m *mockAssignmentStore) Get(ctx context.Context, id uuid.UUID, loadRelated bool) (*models.ScheduleAssignment, error) {
	args := m.Called(ctx, id, loadRelated)
	return ret[*models.ScheduleAssignment](args, 0), args.Error(1)
}

func (m *mockAssignmentStore) CreateAssignment(ctx context.Context, occurrenceID, userID uuid.UUID, roleCode, statusCode string, notes *string) (*models.ScheduleAssignment, error) {
	args := m.Called(ctx, occurrenceID, userID, roleCode, statusCode, notes)
	return ret[*models.ScheduleAssignment](args, 0), args.Error(1)
}

func (m *mockAssignmentStore) GetUserAssignments(ctx context.Context, userID uuid.UUID, start, end *time.Time, statuses []models.StatusCode) ([]*models.ScheduleAssignment, error) {
	args := m.Called(ctx, userID, start, end, statuses)
	return ret[[]*models.ScheduleAssignment](args, 0), args.Error(1)
}

func (m *mockAssignmentStore) GetOccurrenceAssignments(ctx context.Context, occurrenceID uuid.UUID, role models.RoleCode) ([]*models.ScheduleAssignment, error) {
	args := m.Called(ctx, occurrenceID, role)
	return ret[[]*models.ScheduleAssignment](args, 0), args.Error(1)
}

func (m *mockAssignmentStore) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus models.StatusCode, notes *string) (*models.ScheduleAssignment, error) {
	args := m.Called(ctx, id, newStatus, notes)
	return ret[*models.ScheduleAssignment](args, 0), args.Error(1)
}

func (m *mockAssignmentStore) BulkAssignOccurrence(ctx context.Context, occurrenceID uuid.UUID, items []repositories.AssignmentInput) ([]*models.ScheduleAssignment, error) {
	args := m.Called(ctx, occurrenceID, items)
	return ret[[]*models.ScheduleAssignment](args, 0), args.Error(1)
}

func (m *mockAssignmentStore) GetAssignmentStatistics(ctx context.Context, start, end time.Time, ministryID *uuid.UUID) (models.AssignmentStatistics, error) {
	args := m.Called(ctx, start, end, ministryID)
	return ret[models.AssignmentStatistics](args, 0), args.Error(1)
}

type mockMessenger struct{ mock.Mock }

func (m *mockMessenger) SendMessage(ctx context.Context, chatID, text, session string) bool {
	return m.Called(ctx, chatID, text, session).Bool(0)
}

// fakeRecorder counts events in memory
type fakeRecorder struct {
	mu          sync.Mutex
	webhooks    []string
	sent        []bool
	transitions [][2]string
}

func (r *fakeRecorder) WebhookReceived(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.webhooks = append(r.webhooks, event)
}

func (r *fakeRecorder) MessageSent(ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, ok)
}

func (r *fakeRecorder) AssignmentTransition(from, to string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, [2]string{from, to})
}

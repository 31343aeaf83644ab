package services

import (
	"context"
	"errors"
	"fmt"
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

type scheduleFixture struct {
	svc         ScheduleService
	ministries  *mockMinistryStore
	users       *mockUserStore
	schedules   *mockScheduleStore
	occurrences *mockOccurrenceStore
	assignments *mockAssignmentStore
	messenger   *mockMessenger
	recorder    *fakeRecorder
}

func newScheduleFixture() *scheduleFixture {
	f := &scheduleFixture{
		ministries:  &mockMinistryStore{},
		users:       &mockUserStore{},
		schedules:   &mockScheduleStore{},
		occurrences: &mockOccurrenceStore{},
		assignments: &mockAssignmentStore{},
		messenger:   &mockMessenger{},
		recorder:    &fakeRecorder{},
	}
	f.svc = NewScheduleService(ScheduleStores{
		Ministries:  f.ministries,
		Users:       f.users,
		Schedules:   f.schedules,
		Occurrences: f.occurrences,
		Assignments: f.assignments,
	}, f.messenger, f.recorder, zerolog.Nop())
	return f
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestScheduleService_CreateSchedule(t *testing.T) {
	ctx := context.Background()
	worship := testMinistry("Worship", true)

	req := &dto.CreateScheduleRequest{
		MinistryID: worship.ID,
		Title:      "December Services",
		StartDate:  "2024-12-01",
		EndDate:    "2024-12-31",
	}

	t.Run("plain schedule", func(t *testing.T) {
		f := newScheduleFixture()
		f.ministries.On("Get", ctx, worship.ID, false).Return(worship, nil).Once()
		f.schedules.On("Create", ctx, mock.MatchedBy(func(s *models.Schedule) bool {
			return s.MinistryID == worship.ID && s.StartDate.Equal(date(2024, 12, 1)) && s.EndDate.Equal(date(2024, 12, 31))
		})).Return(&models.Schedule{Base: models.Base{ID: uuid.New()}, Title: req.Title}, nil).Once()

		got, err := f.svc.CreateSchedule(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "December Services", got.Title)
		f.schedules.AssertExpectations(t)
	})

	t.Run("with occurrences", func(t *testing.T) {
		f := newScheduleFixture()
		withDates := *req
		withDates.OccurrenceDates = []string{"2024-12-08", "2024-12-15"}
		f.ministries.On("Get", ctx, worship.ID, false).Return(worship, nil).Once()
		f.schedules.On("CreateScheduleWithOccurrences", ctx, mock.Anything,
			[]time.Time{date(2024, 12, 8), date(2024, 12, 15)}).
			Return(&models.Schedule{Base: models.Base{ID: uuid.New()}}, nil).Once()

		_, err := f.svc.CreateSchedule(ctx, &withDates)
		require.NoError(t, err)
		f.schedules.AssertExpectations(t)
	})

	t.Run("inactive ministry", func(t *testing.T) {
		f := newScheduleFixture()
		inactive := testMinistry("Kids", false)
		inactiveReq := *req
		inactiveReq.MinistryID = inactive.ID
		f.ministries.On("Get", ctx, inactive.ID, false).Return(inactive, nil).Once()

		_, err := f.svc.CreateSchedule(ctx, &inactiveReq)
		assert.ErrorIs(t, err, apperrors.ErrMinistryInactive)
		f.schedules.AssertNumberOfCalls(t, "Create", 0)
	})

	t.Run("unknown ministry", func(t *testing.T) {
		f := newScheduleFixture()
		f.ministries.On("Get", ctx, worship.ID, false).Return(nil, nil).Once()
		_, err := f.svc.CreateSchedule(ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})

	t.Run("end before start", func(t *testing.T) {
		f := newScheduleFixture()
		reversed := *req
		reversed.StartDate, reversed.EndDate = "2024-12-31", "2024-12-01"
		f.ministries.On("Get", ctx, worship.ID, false).Return(worship, nil).Once()

		_, err := f.svc.CreateSchedule(ctx, &reversed)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("bad occurrence date", func(t *testing.T) {
		f := newScheduleFixture()
		bad := *req
		bad.OccurrenceDates = []string{"December 8th"}
		_, err := f.svc.CreateSchedule(ctx, &bad)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestScheduleService_NotFoundMapping(t *testing.T) {
	ctx := context.Background()
	f := newScheduleFixture()
	id := uuid.New()
	day := date(2024, 12, 8)

	f.schedules.On("Get", ctx, id, true).Return(nil, nil).Once()
	f.schedules.On("Delete", ctx, id).Return(false, nil).Once()
	f.occurrences.On("CreateOccurrence", ctx, id, day, (*string)(nil)).Return(nil, nil).Once()
	f.occurrences.On("Get", ctx, id, true).Return(nil, nil).Once()
	f.occurrences.On("Reschedule", ctx, id, day).Return(nil, nil).Once()
	f.occurrences.On("Delete", ctx, id).Return(false, nil).Once()

	_, err := f.svc.GetSchedule(ctx, id)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.ErrorIs(t, f.svc.DeleteSchedule(ctx, id), apperrors.ErrResourceNotFound)
	_, err = f.svc.AddOccurrence(ctx, id, day, nil)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	_, err = f.svc.GetOccurrence(ctx, id)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	_, err = f.svc.RescheduleOccurrence(ctx, id, day)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.ErrorIs(t, f.svc.DeleteOccurrence(ctx, id), apperrors.ErrResourceNotFound)
}

func TestScheduleService_GetOccurrencesByDate(t *testing.T) {
	ctx := context.Background()
	f := newScheduleFixture()
	worship := testMinistry("Worship", true)
	sunday := date(2024, 12, 8)
	f.occurrences.On("GetOccurrencesByDate", ctx, sunday, &worship.ID).
		Return([]*models.ScheduleOccurrence{{OccurrenceDate: sunday, DayOfWeek: "Sunday"}}, nil).Once()

	list, err := f.svc.GetOccurrencesByDate(ctx, sunday, &worship.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Sunday", list[0].DayOfWeek)
	f.occurrences.AssertExpectations(t)
}

func TestScheduleService_AssignUser(t *testing.T) {
	ctx := context.Background()
	occurrence := &models.ScheduleOccurrence{Base: models.Base{ID: uuid.New()}, OccurrenceDate: date(2024, 12, 8)}

	t.Run("schedulable user", func(t *testing.T) {
		f := newScheduleFixture()
		u := testUser(true, true)
		f.occurrences.On("Get", ctx, occurrence.ID, false).Return(occurrence, nil).Once()
		f.users.On("Get", ctx, u.ID, false).Return(u, nil).Once()
		f.assignments.On("CreateAssignment", ctx, occurrence.ID, u.ID, "SOUND_TECH", "", (*string)(nil)).
			Return(&models.ScheduleAssignment{RoleCode: models.RoleSoundTech, StatusCode: models.StatusAssigned}, nil).Once()

		a, err := f.svc.AssignUser(ctx, occurrence.ID, &dto.CreateAssignmentRequest{UserID: u.ID, RoleCode: "SOUND_TECH"})
		require.NoError(t, err)
		assert.Equal(t, models.StatusAssigned, a.StatusCode)
	})

	t.Run("unavailable user", func(t *testing.T) {
		f := newScheduleFixture()
		u := testUser(true, false)
		f.occurrences.On("Get", ctx, occurrence.ID, false).Return(occurrence, nil).Once()
		f.users.On("Get", ctx, u.ID, false).Return(u, nil).Once()

		_, err := f.svc.AssignUser(ctx, occurrence.ID, &dto.CreateAssignmentRequest{UserID: u.ID, RoleCode: "SOUND_TECH"})
		assert.ErrorIs(t, err, apperrors.ErrUserNotSchedulable)
		f.assignments.AssertNumberOfCalls(t, "CreateAssignment", 0)
	})

	t.Run("unknown occurrence", func(t *testing.T) {
		f := newScheduleFixture()
		f.occurrences.On("Get", ctx, occurrence.ID, false).Return(nil, nil).Once()
		_, err := f.svc.AssignUser(ctx, occurrence.ID, &dto.CreateAssignmentRequest{UserID: uuid.New(), RoleCode: "MEDIA"})
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})
}

func TestScheduleService_BulkAssign(t *testing.T) {
	ctx := context.Background()
	occurrence := &models.ScheduleOccurrence{Base: models.Base{ID: uuid.New()}}
	first, second := testUser(true, true), testUser(true, true)
	items := []dto.BulkAssignItem{
		{UserID: first.ID, RoleCode: "GREETER"},
		{UserID: second.ID, RoleCode: "OFFERING"},
	}

	f := newScheduleFixture()
	f.occurrences.On("Get", ctx, occurrence.ID, false).Return(occurrence, nil).Once()
	f.users.On("Get", ctx, first.ID, false).Return(first, nil).Once()
	f.users.On("Get", ctx, second.ID, false).Return(second, nil).Once()

	created := []*models.ScheduleAssignment{{UserID: first.ID, RoleCode: models.RoleGreeter}}
	batchErr := fmt.Errorf("assignment 2 of 2: %w", apperrors.ErrValidationFailed)
	f.assignments.On("BulkAssignOccurrence", ctx, occurrence.ID, []repositories.AssignmentInput{
		{UserID: first.ID, RoleCode: "GREETER"},
		{UserID: second.ID, RoleCode: "OFFERING"},
	}).Return(created, batchErr).Once()

	got, err := f.svc.BulkAssign(ctx, occurrence.ID, items)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Len(t, got, 1)

	t.Run("unschedulable user stops before creating", func(t *testing.T) {
		f := newScheduleFixture()
		away := testUser(true, false)
		f.occurrences.On("Get", ctx, occurrence.ID, false).Return(occurrence, nil).Once()
		f.users.On("Get", ctx, away.ID, false).Return(away, nil).Once()

		got, err := f.svc.BulkAssign(ctx, occurrence.ID, []dto.BulkAssignItem{{UserID: away.ID, RoleCode: "PRAYER"}})
		assert.ErrorIs(t, err, apperrors.ErrUserNotSchedulable)
		assert.Empty(t, got)
		f.assignments.AssertNumberOfCalls(t, "BulkAssignOccurrence", 0)
	})
}

func TestScheduleService_UpdateAssignmentStatus(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	assigned := &models.ScheduleAssignment{Base: models.Base{ID: id}, StatusCode: models.StatusAssigned}
	confirmed := &models.ScheduleAssignment{Base: models.Base{ID: id}, StatusCode: models.StatusConfirmed}

	f := newScheduleFixture()
	f.assignments.On("Get", ctx, id, false).Return(assigned, nil).Once()
	f.assignments.On("UpdateStatus", ctx, id, models.StatusConfirmed, (*string)(nil)).Return(confirmed, nil).Once()

	got, err := f.svc.UpdateAssignmentStatus(ctx, id, models.StatusConfirmed, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.StatusCode)
	assert.Equal(t, [][2]string{{"ASSIGNED", "CONFIRMED"}}, f.recorder.transitions)

	t.Run("illegal transition is not counted", func(t *testing.T) {
		f := newScheduleFixture()
		f.assignments.On("Get", ctx, id, false).Return(confirmed, nil).Once()
		f.assignments.On("UpdateStatus", ctx, id, models.StatusAssigned, (*string)(nil)).
			Return(nil, &apperrors.TransitionError{From: "CONFIRMED", To: "ASSIGNED"}).Once()

		_, err := f.svc.UpdateAssignmentStatus(ctx, id, models.StatusAssigned, nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
		var te *apperrors.TransitionError
		assert.True(t, errors.As(err, &te))
		assert.Empty(t, f.recorder.transitions)
	})

	t.Run("missing assignment", func(t *testing.T) {
		f := newScheduleFixture()
		f.assignments.On("Get", ctx, id, false).Return(nil, nil).Once()
		_, err := f.svc.UpdateAssignmentStatus(ctx, id, models.StatusConfirmed, nil)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})
}

func TestScheduleService_GetStatistics(t *testing.T) {
	ctx := context.Background()
	f := newScheduleFixture()
	stats := models.AssignmentStatistics{TotalAssignments: 10, ConfirmationRate: 30}
	f.assignments.On("GetAssignmentStatistics", ctx, date(2024, 12, 1), date(2024, 12, 31), (*uuid.UUID)(nil)).Return(stats, nil).Once()

	got, err := f.svc.GetStatistics(ctx, date(2024, 12, 1), date(2024, 12, 31), nil)
	require.NoError(t, err)
	assert.Equal(t, 30.0, got.ConfirmationRate)
}

func TestScheduleService_NotifyAssignee(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	u := testUser(true, true)
	assignment := &models.ScheduleAssignment{Base: models.Base{ID: id}, UserID: u.ID, User: u}

	t.Run("sent", func(t *testing.T) {
		f := newScheduleFixture()
		f.assignments.On("Get", ctx, id, true).Return(assignment, nil).Once()
		f.messenger.On("SendMessage", ctx, "15551234567@c.us", "See you Sunday", "").Return(true).Once()

		resp, err := f.svc.NotifyAssignee(ctx, id, &dto.NotifyRequest{Message: "See you Sunday"})
		require.NoError(t, err)
		assert.True(t, resp.Sent)
		assert.Equal(t, "15551234567@c.us", resp.ChatID)
		assert.Equal(t, []bool{true}, f.recorder.sent)
	})

	t.Run("gateway refused", func(t *testing.T) {
		f := newScheduleFixture()
		f.assignments.On("Get", ctx, id, true).Return(assignment, nil).Once()
		f.messenger.On("SendMessage", ctx, "15551234567@c.us", "See you Sunday", "church").Return(false).Once()

		_, err := f.svc.NotifyAssignee(ctx, id, &dto.NotifyRequest{Message: "See you Sunday", Session: "church"})
		assert.ErrorIs(t, err, apperrors.ErrNotificationFailed)
		assert.Equal(t, []bool{false}, f.recorder.sent)
	})

	t.Run("missing assignment", func(t *testing.T) {
		f := newScheduleFixture()
		f.assignments.On("Get", ctx, id, true).Return(nil, nil).Once()
		_, err := f.svc.NotifyAssignee(ctx, id, &dto.NotifyRequest{Message: "hi"})
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
		f.messenger.AssertNumberOfCalls(t, "SendMessage", 0)
	})
}

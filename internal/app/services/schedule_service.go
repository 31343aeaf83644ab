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
	"github.com/churchmanager/scheduler/internal/pkg/waha"
)

// ScheduleService defines the interface for schedule, occurrence and assignment operations
type ScheduleService interface {
	CreateSchedule(ctx context.Context, req *dto.CreateScheduleRequest) (*models.Schedule, error)
	GetSchedule(ctx context.Context, id uuid.UUID) (*models.Schedule, error)
	GetSchedulesInRange(ctx context.Context, start, end time.Time, ministryID *uuid.UUID) ([]*models.Schedule, error)
	DeleteSchedule(ctx context.Context, id uuid.UUID) error

	AddOccurrence(ctx context.Context, scheduleID uuid.UUID, date time.Time, notes *string) (*models.ScheduleOccurrence, error)
	GetOccurrence(ctx context.Context, id uuid.UUID) (*models.ScheduleOccurrence, error)
	RescheduleOccurrence(ctx context.Context, id uuid.UUID, date time.Time) (*models.ScheduleOccurrence, error)
	DeleteOccurrence(ctx context.Context, id uuid.UUID) error
	GetOccurrencesByDate(ctx context.Context, date time.Time, ministryID *uuid.UUID) ([]*models.ScheduleOccurrence, error)
	GetOccurrencesInRange(ctx context.Context, start, end time.Time, ministryID *uuid.UUID) ([]*models.ScheduleOccurrence, error)
	GetUpcomingOccurrences(ctx context.Context, daysAhead int, ministryID *uuid.UUID) ([]*models.ScheduleOccurrence, error)

	AssignUser(ctx context.Context, occurrenceID uuid.UUID, req *dto.CreateAssignmentRequest) (*models.ScheduleAssignment, error)
	BulkAssign(ctx context.Context, occurrenceID uuid.UUID, items []dto.BulkAssignItem) ([]*models.ScheduleAssignment, error)
	GetOccurrenceAssignments(ctx context.Context, occurrenceID uuid.UUID, role models.RoleCode) ([]*models.ScheduleAssignment, error)
	UpdateAssignmentStatus(ctx context.Context, id uuid.UUID, status models.StatusCode, notes *string) (*models.ScheduleAssignment, error)
	GetStatistics(ctx context.Context, start, end time.Time, ministryID *uuid.UUID) (models.AssignmentStatistics, error)
	NotifyAssignee(ctx context.Context, id uuid.UUID, req *dto.NotifyRequest) (*dto.NotifyResponse, error)
}

// ScheduleStores groups the repositories used by ScheduleService
type ScheduleStores struct {
	Ministries  ministryStore
	Users       userStore
	Schedules   scheduleStore
	Occurrences occurrenceStore
	Assignments assignmentStore
}

// scheduleServiceImpl implements ScheduleService
type scheduleServiceImpl struct {
	stores    ScheduleStores
	messenger Messenger
	recorder  Recorder
	logger    zerolog.Logger
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(stores ScheduleStores, messenger Messenger, recorder Recorder, logger zerolog.Logger) ScheduleService {
	return &scheduleServiceImpl{
		stores:    stores,
		messenger: messenger,
		recorder:  recorder,
		logger:    logger,
	}
}

func scheduleNotFound(id uuid.UUID) error {
	return apperrors.NewResourceNotFoundError(fmt.Sprintf("schedule %s not found", id))
}

func occurrenceNotFound(id uuid.UUID) error {
	return apperrors.NewResourceNotFoundError(fmt.Sprintf("occurrence %s not found", id))
}

func assignmentNotFound(id uuid.UUID) error {
	return apperrors.NewResourceNotFoundError(fmt.Sprintf("assignment %s not found", id))
}

// CreateSchedule creates a schedule for an active ministry, with its
// occurrences when dates are given. Dates outside the range are skipped.
func (s *scheduleServiceImpl) CreateSchedule(ctx context.Context, req *dto.CreateScheduleRequest) (*models.Schedule, error) {
	start, err := helpers.ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := helpers.ParseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	dates, err := helpers.ParseDates(req.OccurrenceDates)
	if err != nil {
		return nil, err
	}

	ministry, err := s.stores.Ministries.Get(ctx, req.MinistryID, false)
	if err != nil {
		return nil, err
	}
	if ministry == nil {
		return nil, ministryNotFound(req.MinistryID)
	}
	if !ministry.CanCreateSchedule() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrMinistryInactive, ministry.Name)
	}

	schedule, err := models.NewSchedule(ministry.ID, strings.TrimSpace(req.Title), start, end, req.Notes)
	if err != nil {
		return nil, err
	}

	var created *models.Schedule
	if len(dates) > 0 {
		created, err = s.stores.Schedules.CreateScheduleWithOccurrences(ctx, schedule, dates)
	} else {
		created, err = s.stores.Schedules.Create(ctx, schedule)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("scheduleID", created.ID.String()).
		Str("ministry", ministry.Name).
		Int("occurrences", len(created.Occurrences)).
		Msg("Schedule created")
	return created, nil
}

// GetSchedule retrieves a schedule with its ministry and occurrences
func (s *scheduleServiceImpl) GetSchedule(ctx context.Context, id uuid.UUID) (*models.Schedule, error) {
	schedule, err := s.stores.Schedules.Get(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, scheduleNotFound(id)
	}
	return schedule, nil
}

func (s *scheduleServiceImpl) GetSchedulesInRange(ctx context.Context, start, end time.Time, ministryID *uuid.UUID) ([]*models.Schedule, error) {
	return s.stores.Schedules.GetSchedulesInRange(ctx, start, end, ministryID)
}

// DeleteSchedule removes a schedule with its occurrences and assignments
func (s *scheduleServiceImpl) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.stores.Schedules.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return scheduleNotFound(id)
	}
	return nil
}

func (s *scheduleServiceImpl) AddOccurrence(ctx context.Context, scheduleID uuid.UUID, date time.Time, notes *string) (*models.ScheduleOccurrence, error) {
	occurrence, err := s.stores.Occurrences.CreateOccurrence(ctx, scheduleID, date, notes)
	if err != nil {
		return nil, err
	}
	if occurrence == nil {
		return nil, scheduleNotFound(scheduleID)
	}
	return occurrence, nil
}

// GetOccurrence retrieves an occurrence with its schedule and assignments
func (s *scheduleServiceImpl) GetOccurrence(ctx context.Context, id uuid.UUID) (*models.ScheduleOccurrence, error) {
	occurrence, err := s.stores.Occurrences.Get(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if occurrence == nil {
		return nil, occurrenceNotFound(id)
	}
	return occurrence, nil
}

func (s *scheduleServiceImpl) RescheduleOccurrence(ctx context.Context, id uuid.UUID, date time.Time) (*models.ScheduleOccurrence, error) {
	occurrence, err := s.stores.Occurrences.Reschedule(ctx, id, date)
	if err != nil {
		return nil, err
	}
	if occurrence == nil {
		return nil, occurrenceNotFound(id)
	}
	return occurrence, nil
}

func (s *scheduleServiceImpl) DeleteOccurrence(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.stores.Occurrences.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return occurrenceNotFound(id)
	}
	return nil
}

func (s *scheduleServiceImpl) GetOccurrencesByDate(ctx context.Context, date time.Time, ministryID *uuid.UUID) ([]*models.ScheduleOccurrence, error) {
	return s.stores.Occurrences.GetOccurrencesByDate(ctx, date, ministryID)
}

func (s *scheduleServiceImpl) GetOccurrencesInRange(ctx context.Context, start, end time.Time, ministryID *uuid.UUID) ([]*models.ScheduleOccurrence, error) {
	return s.stores.Occurrences.GetOccurrencesInRange(ctx, start, end, ministryID)
}

func (s *scheduleServiceImpl) GetUpcomingOccurrences(ctx context.Context, daysAhead int, ministryID *uuid.UUID) ([]*models.ScheduleOccurrence, error) {
	return s.stores.Occurrences.GetUpcomingOccurrences(ctx, daysAhead, ministryID)
}

func (s *scheduleServiceImpl) requireOccurrence(ctx context.Context, id uuid.UUID) error {
	occurrence, err := s.stores.Occurrences.Get(ctx, id, false)
	if err != nil {
		return err
	}
	if occurrence == nil {
		return occurrenceNotFound(id)
	}
	return nil
}

// requireSchedulable fails unless the user exists, is active and is available
func (s *scheduleServiceImpl) requireSchedulable(ctx context.Context, userID uuid.UUID) error {
	user, err := s.stores.Users.Get(ctx, userID, false)
	if err != nil {
		return err
	}
	if user == nil {
		return userNotFound(userID)
	}
	if !user.CanBeScheduled() {
		return fmt.Errorf("%w: %s is inactive or unavailable", apperrors.ErrUserNotSchedulable, user.FullName())
	}
	return nil
}

// AssignUser assigns a schedulable user to an occurrence
func (s *scheduleServiceImpl) AssignUser(ctx context.Context, occurrenceID uuid.UUID, req *dto.CreateAssignmentRequest) (*models.ScheduleAssignment, error) {
	if err := s.requireOccurrence(ctx, occurrenceID); err != nil {
		return nil, err
	}
	if err := s.requireSchedulable(ctx, req.UserID); err != nil {
		return nil, err
	}

	assignment, err := s.stores.Assignments.CreateAssignment(ctx, occurrenceID, req.UserID, req.RoleCode, req.StatusCode, req.Notes)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("occurrenceID", occurrenceID.String()).
		Str("userID", req.UserID.String()).
		Str("role", string(assignment.RoleCode)).
		Msg("User assigned")
	return assignment, nil
}

// BulkAssign checks every user before creating anything, then creates the
// assignments in order. Creation is not atomic: on failure the assignments
// created so far are returned together with the error.
func (s *scheduleServiceImpl) BulkAssign(ctx context.Context, occurrenceID uuid.UUID, items []dto.BulkAssignItem) ([]*models.ScheduleAssignment, error) {
	if err := s.requireOccurrence(ctx, occurrenceID); err != nil {
		return nil, err
	}

	inputs := make([]repositories.AssignmentInput, 0, len(items))
	for _, item := range items {
		if err := s.requireSchedulable(ctx, item.UserID); err != nil {
			return nil, err
		}
		inputs = append(inputs, repositories.AssignmentInput{UserID: item.UserID, RoleCode: item.RoleCode, Notes: item.Notes})
	}

	created, err := s.stores.Assignments.BulkAssignOccurrence(ctx, occurrenceID, inputs)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("occurrenceID", occurrenceID.String()).
			Int("created", len(created)).
			Int("requested", len(items)).
			Msg("Bulk assignment stopped early")
	}
	return created, err
}

func (s *scheduleServiceImpl) GetOccurrenceAssignments(ctx context.Context, occurrenceID uuid.UUID, role models.RoleCode) ([]*models.ScheduleAssignment, error) {
	if err := s.requireOccurrence(ctx, occurrenceID); err != nil {
		return nil, err
	}
	return s.stores.Assignments.GetOccurrenceAssignments(ctx, occurrenceID, role)
}

// UpdateAssignmentStatus moves an assignment along its lifecycle
func (s *scheduleServiceImpl) UpdateAssignmentStatus(ctx context.Context, id uuid.UUID, status models.StatusCode, notes *string) (*models.ScheduleAssignment, error) {
	current, err := s.stores.Assignments.Get(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, assignmentNotFound(id)
	}

	updated, err := s.stores.Assignments.UpdateStatus(ctx, id, status, notes)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, assignmentNotFound(id)
	}

	s.recorder.AssignmentTransition(string(current.StatusCode), string(updated.StatusCode))
	s.logger.Info().
		Str("assignmentID", id.String()).
		Str("from", string(current.StatusCode)).
		Str("to", string(updated.StatusCode)).
		Msg("Assignment status updated")
	return updated, nil
}

func (s *scheduleServiceImpl) GetStatistics(ctx context.Context, start, end time.Time, ministryID *uuid.UUID) (models.AssignmentStatistics, error) {
	return s.stores.Assignments.GetAssignmentStatistics(ctx, start, end, ministryID)
}

// NotifyAssignee sends the assigned user a WhatsApp message. The gateway is
// called once; a refusal is reported as ErrNotificationFailed.
func (s *scheduleServiceImpl) NotifyAssignee(ctx context.Context, id uuid.UUID, req *dto.NotifyRequest) (*dto.NotifyResponse, error) {
	assignment, err := s.stores.Assignments.Get(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, assignmentNotFound(id)
	}
	if assignment.User == nil {
		return nil, fmt.Errorf("%w: user %s of assignment %s not loaded", apperrors.ErrStorage, assignment.UserID, id)
	}

	chatID, err := waha.ChatID(assignment.User.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}

	sent := s.messenger.SendMessage(ctx, chatID, req.Message, req.Session)
	s.recorder.MessageSent(sent)
	if !sent {
		return nil, fmt.Errorf("%w: message to %s was not accepted", apperrors.ErrNotificationFailed, chatID)
	}
	return &dto.NotifyResponse{Sent: true, ChatID: chatID}, nil
}

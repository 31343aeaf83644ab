package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/churchmanager/scheduler/internal/app/models"
	"github.com/churchmanager/scheduler/internal/app/repositories"
)

// Services defined in this package:
// - UserService: members, availability and their assignments
// - MinistryService: ministries, memberships and leaders
// - ScheduleService: schedules, occurrences, assignments and notifications
// - WebhookService: background handling of WAHA webhook events

// The stores below are the repository methods each service relies on.
// The repositories package satisfies them.

type userStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Get(ctx context.Context, id uuid.UUID, loadRelated bool) (*models.User, error)
	List(ctx context.Context, opts repositories.ListOptions) ([]*models.User, error)
	Update(ctx context.Context, id uuid.UUID, changes repositories.Changes) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPhone(ctx context.Context, phoneNumber string) (*models.User, error)
	SearchUsers(ctx context.Context, query string, limit uint64, onlyActive bool) ([]*models.User, error)
	GetAvailableUsers(ctx context.Context, date time.Time, ministryID *uuid.UUID) ([]*models.User, error)
	GetMinistryMembers(ctx context.Context, ministryID uuid.UUID, onlyActive bool) ([]*models.User, error)
	UpdateAvailability(ctx context.Context, userID uuid.UUID, isAvailable bool) (*models.User, error)
	DeactivateUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GetUserSchedule(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]*models.ScheduleAssignment, error)
}

type ministryStore interface {
	Create(ctx context.Context, ministry *models.Ministry) (*models.Ministry, error)
	CreateWithLeader(ctx context.Context, ministry *models.Ministry, leaderID *uuid.UUID) (*models.Ministry, error)
	Get(ctx context.Context, id uuid.UUID, loadRelated bool) (*models.Ministry, error)
	List(ctx context.Context, opts repositories.ListOptions) ([]*models.Ministry, error)
	Update(ctx context.Context, id uuid.UUID, changes repositories.Changes) (*models.Ministry, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	GetActiveMinistries(ctx context.Context) ([]*models.Ministry, error)
	SearchMinistries(ctx context.Context, query string, onlyActive bool) ([]*models.Ministry, error)
	SetLeader(ctx context.Context, ministryID uuid.UUID, leaderID *uuid.UUID) (*models.Ministry, error)
	AddMember(ctx context.Context, ministryID, userID uuid.UUID) (bool, error)
	RemoveMember(ctx context.Context, ministryID, userID uuid.UUID) (bool, error)
	GetUserMinistries(ctx context.Context, userID uuid.UUID, onlyActive bool) ([]*models.Ministry, error)
	GetLedMinistries(ctx context.Context, leaderID uuid.UUID, onlyActive bool) ([]*models.Ministry, error)
	GetMemberCount(ctx context.Context, ministryID uuid.UUID) (int64, error)
	DeactivateMinistry(ctx context.Context, ministryID uuid.UUID) (*models.Ministry, error)
	ReactivateMinistry(ctx context.Context, ministryID uuid.UUID) (*models.Ministry, error)
}

type scheduleStore interface {
	Create(ctx context.Context, schedule *models.Schedule) (*models.Schedule, error)
	Get(ctx context.Context, id uuid.UUID, loadRelated bool) (*models.Schedule, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	GetSchedulesInRange(ctx context.Context, start, end time.Time, ministryID *uuid.UUID) ([]*models.Schedule, error)
	GetMinistrySchedules(ctx context.Context, ministryID uuid.UUID, activeOnly bool, limit uint64) ([]*models.Schedule, error)
	CreateScheduleWithOccurrences(ctx context.Context, schedule *models.Schedule, dates []time.Time) (*models.Schedule, error)
}

type occurrenceStore interface {
	Get(ctx context.Context, id uuid.UUID, loadRelated bool) (*models.ScheduleOccurrence, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	CreateOccurrence(ctx context.Context, scheduleID uuid.UUID, date time.Time, notes *string) (*models.ScheduleOccurrence, error)
	Reschedule(ctx context.Context, id uuid.UUID, date time.Time) (*models.ScheduleOccurrence, error)
	GetOccurrencesByDate(ctx context.Context, date time.Time, ministryID *uuid.UUID) ([]*models.ScheduleOccurrence, error)
	GetOccurrencesInRange(ctx context.Context, start, end time.Time, ministryID *uuid.UUID) ([]*models.ScheduleOccurrence, error)
	GetUpcomingOccurrences(ctx context.Context, daysAhead int, ministryID *uuid.UUID) ([]*models.ScheduleOccurrence, error)
}

type assignmentStore interface {
	Get(ctx context.Context, id uuid.UUID, loadRelated bool) (*models.ScheduleAssignment, error)
	CreateAssignment(ctx context.Context, occurrenceID, userID uuid.UUID, roleCode, statusCode string, notes *string) (*models.ScheduleAssignment, error)
	GetUserAssignments(ctx context.Context, userID uuid.UUID, start, end *time.Time, statuses []models.StatusCode) ([]*models.ScheduleAssignment, error)
	GetOccurrenceAssignments(ctx context.Context, occurrenceID uuid.UUID, role models.RoleCode) ([]*models.ScheduleAssignment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus models.StatusCode, notes *string) (*models.ScheduleAssignment, error)
	BulkAssignOccurrence(ctx context.Context, occurrenceID uuid.UUID, items []repositories.AssignmentInput) ([]*models.ScheduleAssignment, error)
	GetAssignmentStatistics(ctx context.Context, start, end time.Time, ministryID *uuid.UUID) (models.AssignmentStatistics, error)
}

// Messenger delivers WhatsApp text messages
type Messenger interface {
	SendMessage(ctx context.Context, chatID, text, session string) bool
}

// Recorder receives domain events for metrics
type Recorder interface {
	WebhookReceived(event string)
	MessageSent(ok bool)
	AssignmentTransition(from, to string)
}

// Services bundles every service of the application
type Services struct {
	UserService     UserService
	MinistryService MinistryService
	ScheduleService ScheduleService
	WebhookService  WebhookService
}

// NewServices wires the services on top of the repositories
func NewServices(repos *repositories.Repositories, messenger Messenger, recorder Recorder, logger zerolog.Logger) *Services {
	return &Services{
		UserService: NewUserService(repos.UserRepository, repos.AssignmentRepository,
			logger.With().Str("service", "user").Logger()),
		MinistryService: NewMinistryService(repos.MinistryRepository, repos.UserRepository, repos.ScheduleRepository,
			logger.With().Str("service", "ministry").Logger()),
		ScheduleService: NewScheduleService(ScheduleStores{
			Ministries:  repos.MinistryRepository,
			Users:       repos.UserRepository,
			Schedules:   repos.ScheduleRepository,
			Occurrences: repos.OccurrenceRepository,
			Assignments: repos.AssignmentRepository,
		}, messenger, recorder, logger.With().Str("service", "schedule").Logger()),
		WebhookService: NewWebhookService(recorder, logger.With().Str("service", "webhook").Logger()),
	}
}

package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/churchmanager/scheduler/internal/app/models"
	"github.com/churchmanager/scheduler/internal/db"
)

// DefaultSearchLimit caps SearchUsers when no limit is given
const DefaultSearchLimit = 10

// UserRepository handles database operations for members
type UserRepository struct {
	*Repository[models.User]
	memberships *MembershipRepository
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(conn db.DBTX, memberships *MembershipRepository) *UserRepository {
	return &UserRepository{
		Repository:  NewRepository(conn, userTable),
		memberships: memberships,
	}
}

// GetByPhone finds a user by WhatsApp number, without relations
func (r *UserRepository) GetByPhone(ctx context.Context, phoneNumber string) (*models.User, error) {
	return r.GetBy(ctx, Filters{UserPhoneNumber: phoneNumber}, false)
}

// GetByUsername finds a user by username, without relations
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.GetBy(ctx, Filters{UserUsername: username}, false)
}

// GetByEmail finds a user by email, without relations
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.GetBy(ctx, Filters{UserEmail: email}, false)
}

// SearchUsers matches query case-insensitively against username, email,
// phone number, first name, last name and full name
func (r *UserRepository) SearchUsers(ctx context.Context, query string, limit uint64, onlyActive bool) ([]*models.User, error) {
	if limit == 0 {
		limit = DefaultSearchLimit
	}
	pattern := "%" + strings.TrimSpace(query) + "%"
	col := func(c string) string { return userTableName + "." + c }

	q := r.selectQuery().
		Where(squirrel.Or{
			squirrel.ILike{col("username"): pattern},
			squirrel.ILike{col("email"): pattern},
			squirrel.ILike{col("phone_number"): pattern},
			squirrel.ILike{col("first_name"): pattern},
			squirrel.ILike{col("last_name"): pattern},
			squirrel.Expr(col("first_name")+" || ' ' || "+col("last_name")+" ILIKE ?", pattern),
		}).
		OrderBy(col("last_name"), col("first_name")).
		Limit(limit)
	if onlyActive {
		q = q.Where(squirrel.Eq{col("is_active"): true})
	}

	return r.queryMany(ctx, q, false)
}

// GetAvailableUsers returns active and available users without a
// non-declined assignment on date, optionally restricted to one ministry
func (r *UserRepository) GetAvailableUsers(ctx context.Context, date time.Time, ministryID *uuid.UUID) ([]*models.User, error) {
	col := func(c string) string { return userTableName + "." + c }

	busy := squirrel.Select(assignmentTableName+".user_id").
		From(assignmentTableName).
		Join(occurrenceTableName+" ON "+occurrenceTableName+".id = "+assignmentTableName+".occurrence_id").
		Where(squirrel.Eq{occurrenceTableName + ".occurrence_date": models.DateOf(date)}).
		Where(squirrel.NotEq{assignmentTableName + ".status_code": string(models.StatusDeclined)})
	busySQL, busyArgs, err := busy.ToSql()
	if err != nil {
		return nil, err
	}

	q := r.selectQuery().
		Where(squirrel.Eq{col("is_active"): true, col("is_available"): true}).
		Where(squirrel.Expr(col("id")+" NOT IN ("+busySQL+")", busyArgs...)).
		OrderBy(col("last_name"), col("first_name"))
	if ministryID != nil {
		q = q.Join(membershipTableName+" ON "+membershipTableName+".user_id = "+col("id")).
			Where(squirrel.Eq{membershipTableName + ".ministry_id": *ministryID})
	}

	return r.queryMany(ctx, q, false)
}

// GetMinistryMembers returns the members of a ministry with their memberships loaded
func (r *UserRepository) GetMinistryMembers(ctx context.Context, ministryID uuid.UUID, onlyActive bool) ([]*models.User, error) {
	q := r.selectQuery().
		Join(membershipTableName+" ON "+membershipTableName+".user_id = "+userTableName+".id").
		Where(squirrel.Eq{membershipTableName + ".ministry_id": ministryID}).
		OrderBy(membershipTableName + ".joined_at")
	if onlyActive {
		q = q.Where(squirrel.Eq{userTableName + ".is_active": true})
	}
	return r.queryMany(ctx, q, true)
}

// AddToMinistry returns false when the user is already a member
func (r *UserRepository) AddToMinistry(ctx context.Context, userID, ministryID uuid.UUID) (bool, error) {
	return r.memberships.Add(ctx, userID, ministryID)
}

// RemoveFromMinistry returns false when the user was not a member.
// Leadership of the ministry is dropped along with the membership.
func (r *UserRepository) RemoveFromMinistry(ctx context.Context, userID, ministryID uuid.UUID) (bool, error) {
	return r.memberships.Remove(ctx, userID, ministryID)
}

// GetUserSchedule returns the user's assignments ordered by occurrence date,
// each with occurrence, schedule and ministry loaded
func (r *UserRepository) GetUserSchedule(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]*models.ScheduleAssignment, error) {
	return findUserAssignments(ctx, r.db, userID, start, end, nil)
}

// UpdateAvailability sets the general availability flag
func (r *UserRepository) UpdateAvailability(ctx context.Context, userID uuid.UUID, isAvailable bool) (*models.User, error) {
	return r.Update(ctx, userID, Changes{UserIsAvailable: isAvailable})
}

// DeactivateUser clears both the active and the available flag
func (r *UserRepository) DeactivateUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return r.Update(ctx, userID, Changes{UserIsActive: false, UserIsAvailable: false})
}

// findUserAssignments is shared by the user and assignment repositories
func findUserAssignments(ctx context.Context, conn db.DBTX, userID uuid.UUID, start, end *time.Time, statuses []models.StatusCode) ([]*models.ScheduleAssignment, error) {
	q := squirrel.Select(assignmentTable.SelectColumns()...).
		From(assignmentTableName).
		Join(occurrenceTableName + " ON " + occurrenceTableName + ".id = " + assignmentTableName + ".occurrence_id").
		Where(squirrel.Eq{assignmentTableName + ".user_id": userID}).
		OrderBy(occurrenceTableName+".occurrence_date", assignmentTableName+".role_code").
		PlaceholderFormat(squirrel.Dollar)
	if start != nil {
		q = q.Where(squirrel.GtOrEq{occurrenceTableName + ".occurrence_date": models.DateOf(*start)})
	}
	if end != nil {
		q = q.Where(squirrel.LtOrEq{occurrenceTableName + ".occurrence_date": models.DateOf(*end)})
	}
	if len(statuses) > 0 {
		codes := make([]string, len(statuses))
		for i, s := range statuses {
			codes[i] = string(s)
		}
		q = q.Where(squirrel.Eq{assignmentTableName + ".status_code": codes})
	}

	assignments, err := scanAll(ctx, conn, q, assignmentTable.Scan)
	if err != nil {
		return nil, classifyError("list user assignments", err)
	}
	if err := loadAssignmentContext(ctx, conn, assignments); err != nil {
		return nil, classifyError("load assignment context", err)
	}
	return assignments, nil
}

// loadAssignmentContext loads occurrence, its schedule and the schedule's ministry
func loadAssignmentContext(ctx context.Context, conn db.DBTX, assignments []*models.ScheduleAssignment) error {
	if err := loadAssignmentOccurrences(ctx, conn, assignments); err != nil {
		return err
	}
	occurrences := make([]*models.ScheduleOccurrence, 0, len(assignments))
	for _, a := range assignments {
		if a.Occurrence != nil {
			occurrences = append(occurrences, a.Occurrence)
		}
	}
	return loadOccurrenceContext(ctx, conn, occurrences, false)
}

// loadOccurrenceContext loads schedule and ministry, and with withAssignments
// also the assignments and their users
func loadOccurrenceContext(ctx context.Context, conn db.DBTX, occurrences []*models.ScheduleOccurrence, withAssignments bool) error {
	if len(occurrences) == 0 {
		return nil
	}
	if err := loadOccurrenceSchedules(ctx, conn, occurrences); err != nil {
		return err
	}
	schedules := make([]*models.Schedule, 0, len(occurrences))
	for _, o := range occurrences {
		if o.Schedule != nil {
			schedules = append(schedules, o.Schedule)
		}
	}
	if err := loadScheduleMinistries(ctx, conn, schedules); err != nil {
		return err
	}
	if !withAssignments {
		return nil
	}

	if err := loadOccurrenceAssignments(ctx, conn, occurrences); err != nil {
		return err
	}
	var assignments []*models.ScheduleAssignment
	for _, o := range occurrences {
		assignments = append(assignments, o.Assignments...)
	}
	return loadAssignmentUsers(ctx, conn, assignments)
}

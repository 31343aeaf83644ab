package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/churchmanager/scheduler/internal/app/models"
	"github.com/churchmanager/scheduler/internal/db"
	"github.com/churchmanager/scheduler/internal/pkg/apperrors"
)

// AssignmentInput is one item of BulkAssignOccurrence
type AssignmentInput struct {
	UserID   uuid.UUID
	RoleCode string
	Notes    *string
}

// AssignmentRepository handles database operations for schedule assignments
type AssignmentRepository struct {
	*Repository[models.ScheduleAssignment]
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(conn db.DBTX) *AssignmentRepository {
	return &AssignmentRepository{Repository: NewRepository(conn, assignmentTable)}
}

// CreateAssignment validates both codes and stores the assignment. An empty
// status defaults to ASSIGNED.
func (r *AssignmentRepository) CreateAssignment(ctx context.Context, occurrenceID, userID uuid.UUID, roleCode, statusCode string, notes *string) (*models.ScheduleAssignment, error) {
	a, err := models.NewScheduleAssignment(occurrenceID, userID, roleCode, statusCode, notes)
	if err != nil {
		return nil, err
	}
	return r.Create(ctx, a)
}

// GetUserAssignments lists a user's assignments ordered by occurrence date,
// optionally bounded by dates and restricted to statuses
func (r *AssignmentRepository) GetUserAssignments(ctx context.Context, userID uuid.UUID, start, end *time.Time, statuses []models.StatusCode) ([]*models.ScheduleAssignment, error) {
	return findUserAssignments(ctx, r.db, userID, start, end, statuses)
}

// GetOccurrenceAssignments lists the assignments of an occurrence by role,
// with users loaded. An empty role matches every role.
func (r *AssignmentRepository) GetOccurrenceAssignments(ctx context.Context, occurrenceID uuid.UUID, role models.RoleCode) ([]*models.ScheduleAssignment, error) {
	q := r.selectQuery().
		Where(squirrel.Eq{assignmentTableName + ".occurrence_id": occurrenceID}).
		OrderBy(assignmentTableName + ".role_code")
	if role != "" {
		q = q.Where(squirrel.Eq{assignmentTableName + ".role_code": string(role)})
	}

	assignments, err := r.queryMany(ctx, q, false)
	if err != nil {
		return nil, err
	}
	if err := loadAssignmentUsers(ctx, r.db, assignments); err != nil {
		return nil, classifyError("load assignment users", err)
	}
	return assignments, nil
}

// UpdateStatus moves an assignment along the status lifecycle. It returns
// nil when the assignment does not exist and a *apperrors.TransitionError
// when the move is not allowed. Notes are written only when non-empty.
// The write is conditional on the status that was read, so a concurrent
// change is reported as an invalid transition instead of being overwritten.
func (r *AssignmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus models.StatusCode, notes *string) (*models.ScheduleAssignment, error) {
	if !newStatus.IsValid() {
		_, err := models.ParseStatusCode(string(newStatus))
		return nil, err
	}

	current, err := r.Get(ctx, id, false)
	if err != nil || current == nil {
		return nil, err
	}

	if !current.CanTransitionTo(newStatus) {
		return nil, &apperrors.TransitionError{From: string(current.StatusCode), To: string(newStatus)}
	}

	set := map[string]any{"status_code": string(newStatus)}
	if notes != nil && *notes != "" {
		set["notes"] = *notes
	}

	updated, err := r.updateColumns(ctx, id, set, Filters{AssignmentStatusCode: string(current.StatusCode)})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: assignment %s changed status concurrently",
			&apperrors.TransitionError{From: string(current.StatusCode), To: string(newStatus)}, id)
	}
	return updated, nil
}

// BulkAssignOccurrence creates the assignments one by one. It is not atomic:
// when an item fails, the assignments created before it are kept and
// returned together with the error.
func (r *AssignmentRepository) BulkAssignOccurrence(ctx context.Context, occurrenceID uuid.UUID, items []AssignmentInput) ([]*models.ScheduleAssignment, error) {
	created := make([]*models.ScheduleAssignment, 0, len(items))
	for i, item := range items {
		a, err := r.CreateAssignment(ctx, occurrenceID, item.UserID, item.RoleCode, "", item.Notes)
		if err != nil {
			return created, fmt.Errorf("assignment %d of %d: %w", i+1, len(items), err)
		}
		created = append(created, a)
	}
	return created, nil
}

// GetAssignmentStatistics counts assignments by status for occurrences in [start, end]
func (r *AssignmentRepository) GetAssignmentStatistics(ctx context.Context, start, end time.Time, ministryID *uuid.UUID) (models.AssignmentStatistics, error) {
	occDate := occurrenceTableName + ".occurrence_date"
	q := r.qb.Select(assignmentTableName+".status_code", "COUNT("+assignmentTableName+".id)").
		From(assignmentTableName).
		Join(occurrenceTableName + " ON " + occurrenceTableName + ".id = " + assignmentTableName + ".occurrence_id").
		Where(squirrel.GtOrEq{occDate: models.DateOf(start)}).
		Where(squirrel.LtOrEq{occDate: models.DateOf(end)}).
		GroupBy(assignmentTableName + ".status_code")
	if ministryID != nil {
		q = q.Join(scheduleTableName+" ON "+scheduleTableName+".id = "+occurrenceTableName+".schedule_id").
			Where(squirrel.Eq{scheduleTableName + ".ministry_id": *ministryID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return models.AssignmentStatistics{}, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return models.AssignmentStatistics{}, classifyError("assignment statistics", err)
	}
	defer rows.Close()

	byStatus := make(map[models.StatusCode]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return models.AssignmentStatistics{}, classifyError("assignment statistics", err)
		}
		byStatus[models.StatusCode(status)] = count
	}
	if err := rows.Err(); err != nil {
		return models.AssignmentStatistics{}, classifyError("assignment statistics", err)
	}

	return models.NewAssignmentStatistics(byStatus), nil
}

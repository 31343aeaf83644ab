package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/churchmanager/scheduler/internal/app/models"
	"github.com/churchmanager/scheduler/internal/db"
	"github.com/churchmanager/scheduler/internal/pkg/apperrors"
)

// DefaultDaysAhead is the window of GetUpcomingOccurrences when none is given
const DefaultDaysAhead = 30

// DefaultMinistryScheduleLimit caps GetMinistrySchedules when no limit is given
const DefaultMinistryScheduleLimit = 10

// ScheduleRepository handles database operations for schedules
type ScheduleRepository struct {
	*Repository[models.Schedule]
	now func() time.Time
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(conn db.DBTX) *ScheduleRepository {
	return &ScheduleRepository{Repository: NewRepository(conn, scheduleTable), now: time.Now}
}

// GetMinistrySchedules lists a ministry's latest schedules, newest start
// first, with occurrences and assignments. activeOnly keeps schedules that
// have not ended before today.
func (r *ScheduleRepository) GetMinistrySchedules(ctx context.Context, ministryID uuid.UUID, activeOnly bool, limit uint64) ([]*models.Schedule, error) {
	if limit == 0 {
		limit = DefaultMinistryScheduleLimit
	}
	q := r.selectQuery().
		Where(squirrel.Eq{scheduleTableName + ".ministry_id": ministryID}).
		OrderBy(scheduleTableName + ".start_date DESC").
		Limit(limit)
	if activeOnly {
		q = q.Where(squirrel.GtOrEq{scheduleTableName + ".end_date": models.DateOf(r.now())})
	}

	schedules, err := r.queryMany(ctx, q, false)
	if err != nil {
		return nil, err
	}
	if err := r.loadWithOccurrences(ctx, schedules, true); err != nil {
		return nil, err
	}
	return schedules, nil
}

// GetSchedulesInRange returns schedules overlapping [start, end]
func (r *ScheduleRepository) GetSchedulesInRange(ctx context.Context, start, end time.Time, ministryID *uuid.UUID) ([]*models.Schedule, error) {
	q := r.selectQuery().
		Where(squirrel.LtOrEq{scheduleTableName + ".start_date": models.DateOf(end)}).
		Where(squirrel.GtOrEq{scheduleTableName + ".end_date": models.DateOf(start)}).
		OrderBy(scheduleTableName + ".start_date")
	if ministryID != nil {
		q = q.Where(squirrel.Eq{scheduleTableName + ".ministry_id": *ministryID})
	}

	schedules, err := r.queryMany(ctx, q, false)
	if err != nil {
		return nil, err
	}
	if err := r.loadWithOccurrences(ctx, schedules, false); err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *ScheduleRepository) loadWithOccurrences(ctx context.Context, schedules []*models.Schedule, withAssignments bool) error {
	if err := loadScheduleMinistries(ctx, r.db, schedules); err != nil {
		return classifyError("load schedule ministries", err)
	}
	if err := loadScheduleOccurrences(ctx, r.db, schedules); err != nil {
		return classifyError("load schedule occurrences", err)
	}
	if !withAssignments {
		return nil
	}
	var occurrences []*models.ScheduleOccurrence
	for _, s := range schedules {
		occurrences = append(occurrences, s.Occurrences...)
	}
	if err := loadOccurrenceAssignments(ctx, r.db, occurrences); err != nil {
		return classifyError("load occurrence assignments", err)
	}
	return nil
}

// CreateScheduleWithOccurrences stores the schedule and one occurrence per
// date inside its range, in one transaction. Dates outside the range are skipped.
func (r *ScheduleRepository) CreateScheduleWithOccurrences(ctx context.Context, schedule *models.Schedule, dates []time.Time) (*models.Schedule, error) {
	var created *models.Schedule
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		created, err = r.WithTx(tx).Create(ctx, schedule)
		if err != nil {
			return err
		}

		occurrences := NewRepository(tx, occurrenceTable)
		for _, d := range dates {
			if !created.Contains(d) {
				continue
			}

			o, err := models.NewScheduleOccurrence(created, d, nil)
			if err != nil {
				return err
			}
			stored, err := occurrences.Create(ctx, o)
			if err != nil {
				return err
			}
			created.Occurrences = append(created.Occurrences, stored)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// OccurrenceRepository handles database operations for schedule occurrences
type OccurrenceRepository struct {
	*Repository[models.ScheduleOccurrence]
	schedules *ScheduleRepository
	now       func() time.Time
}

// NewOccurrenceRepository creates a new OccurrenceRepository
func NewOccurrenceRepository(conn db.DBTX, schedules *ScheduleRepository) *OccurrenceRepository {
	return &OccurrenceRepository{
		Repository: NewRepository(conn, occurrenceTable),
		schedules:  schedules,
		now:        time.Now,
	}
}

// CreateOccurrence adds a date to an existing schedule. Returns nil when the
// schedule does not exist; a date outside its range is a validation error.
func (r *OccurrenceRepository) CreateOccurrence(ctx context.Context, scheduleID uuid.UUID, date time.Time, notes *string) (*models.ScheduleOccurrence, error) {
	schedule, err := r.schedules.Get(ctx, scheduleID, false)
	if err != nil || schedule == nil {
		return nil, err
	}

	o, err := models.NewScheduleOccurrence(schedule, date, notes)
	if err != nil {
		return nil, err
	}
	created, err := r.Create(ctx, o)
	if err != nil {
		return nil, err
	}
	created.Schedule = schedule
	return created, nil
}

// Reschedule moves an occurrence to another date of its schedule and
// recomputes the weekday. Returns nil when the occurrence does not exist.
func (r *OccurrenceRepository) Reschedule(ctx context.Context, id uuid.UUID, date time.Time) (*models.ScheduleOccurrence, error) {
	o, err := r.Get(ctx, id, false)
	if err != nil || o == nil {
		return nil, err
	}
	schedule, err := r.schedules.Get(ctx, o.ScheduleID, false)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, fmt.Errorf("%w: schedule %s of occurrence %s not found", apperrors.ErrStorage, o.ScheduleID, id)
	}

	o.SetSchedule(schedule)
	if err := o.SetOccurrenceDate(date); err != nil {
		return nil, err
	}

	return r.updateColumns(ctx, id, map[string]any{
		"occurrence_date": o.OccurrenceDate,
		"day_of_week":     o.DayOfWeek,
	}, nil)
}

func (r *OccurrenceRepository) inRangeQuery(start, end time.Time, ministryID *uuid.UUID) squirrel.SelectBuilder {
	col := occurrenceTableName + ".occurrence_date"
	q := r.selectQuery().
		Where(squirrel.GtOrEq{col: models.DateOf(start)}).
		Where(squirrel.LtOrEq{col: models.DateOf(end)}).
		OrderBy(col)
	if ministryID != nil {
		q = q.Join(scheduleTableName+" ON "+scheduleTableName+".id = "+occurrenceTableName+".schedule_id").
			Where(squirrel.Eq{scheduleTableName + ".ministry_id": *ministryID})
	}
	return q
}

func (r *OccurrenceRepository) withContext(ctx context.Context, q squirrel.SelectBuilder) ([]*models.ScheduleOccurrence, error) {
	occurrences, err := r.queryMany(ctx, q, false)
	if err != nil {
		return nil, err
	}
	if err := loadOccurrenceContext(ctx, r.db, occurrences, true); err != nil {
		return nil, classifyError("load occurrence context", err)
	}
	return occurrences, nil
}

// GetOccurrencesByDate returns the occurrences on date with schedule,
// ministry and assigned users loaded
func (r *OccurrenceRepository) GetOccurrencesByDate(ctx context.Context, date time.Time, ministryID *uuid.UUID) ([]*models.ScheduleOccurrence, error) {
	return r.withContext(ctx, r.inRangeQuery(date, date, ministryID))
}

// GetOccurrencesInRange returns occurrences with start <= date <= end ordered by date
func (r *OccurrenceRepository) GetOccurrencesInRange(ctx context.Context, start, end time.Time, ministryID *uuid.UUID) ([]*models.ScheduleOccurrence, error) {
	return r.withContext(ctx, r.inRangeQuery(start, end, ministryID))
}

// GetUpcomingOccurrences covers today through today+daysAhead
func (r *OccurrenceRepository) GetUpcomingOccurrences(ctx context.Context, daysAhead int, ministryID *uuid.UUID) ([]*models.ScheduleOccurrence, error) {
	if daysAhead < 0 {
		return nil, fmt.Errorf("%w: days ahead must not be negative", apperrors.ErrValidationFailed)
	}
	today := models.DateOf(r.now())
	return r.GetOccurrencesInRange(ctx, today, today.AddDate(0, 0, daysAhead), ministryID)
}

package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/churchmanager/scheduler/internal/pkg/apperrors"
)

// Schedule is a date-bounded plan of a ministry. EndDate is never before StartDate.
type Schedule struct {
	Base
	MinistryID uuid.UUID `json:"ministryId" db:"ministry_id"`
	Title      string    `json:"title" db:"title"`
	Notes      *string   `json:"notes,omitempty" db:"notes"`
	StartDate  time.Time `json:"startDate" db:"start_date"`
	EndDate    time.Time `json:"endDate" db:"end_date"`

	Ministry    *Ministry             `json:"ministry,omitempty"`
	Occurrences []*ScheduleOccurrence `json:"occurrences,omitempty"`
}

// NewSchedule builds a schedule, assigning the start date before the end date
// so the range check in SetEndDate applies.
func NewSchedule(ministryID uuid.UUID, title string, start, end time.Time, notes *string) (*Schedule, error) {
	s := &Schedule{MinistryID: ministryID, Title: title, Notes: notes}
	s.SetStartDate(start)
	if err := s.SetEndDate(end); err != nil {
		return nil, err
	}
	return s, nil
}

// SetStartDate stores the start date without checking it
func (s *Schedule) SetStartDate(d time.Time) {
	s.StartDate = DateOf(d)
}

// SetEndDate stores the end date. When the start date is already known the
// end date must not precede it; otherwise the value is accepted as is.
func (s *Schedule) SetEndDate(d time.Time) error {
	d = DateOf(d)
	if !s.StartDate.IsZero() && d.Before(s.StartDate) {
		return fmt.Errorf("%w: end date must be after or equal to start date", apperrors.ErrValidationFailed)
	}
	s.EndDate = d
	return nil
}

// Validate checks the full date range
func (s *Schedule) Validate() error {
	if s.Title == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrValidationFailed)
	}
	if s.StartDate.IsZero() || s.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", apperrors.ErrValidationFailed)
	}
	if s.EndDate.Before(s.StartDate) {
		return fmt.Errorf("%w: end date must be after or equal to start date", apperrors.ErrValidationFailed)
	}
	return nil
}

// Contains reports whether d falls within [StartDate, EndDate]
func (s *Schedule) Contains(d time.Time) bool {
	d = DateOf(d)
	return !d.Before(s.StartDate) && !d.After(s.EndDate)
}

// OccurrenceCount is the number of loaded occurrences
func (s *Schedule) OccurrenceCount() int {
	return len(s.Occurrences)
}

// ScheduleOccurrence is one concrete service date of a schedule
type ScheduleOccurrence struct {
	Base
	ScheduleID     uuid.UUID `json:"scheduleId" db:"schedule_id"`
	OccurrenceDate time.Time `json:"occurrenceDate" db:"occurrence_date"`
	DayOfWeek      string    `json:"dayOfWeek" db:"day_of_week"`
	Notes          *string   `json:"notes,omitempty" db:"notes"`

	Schedule    *Schedule             `json:"schedule,omitempty"`
	Assignments []*ScheduleAssignment `json:"assignments,omitempty"`
}

// NewScheduleOccurrence attaches the parent schedule first so the date is range checked
func NewScheduleOccurrence(schedule *Schedule, date time.Time, notes *string) (*ScheduleOccurrence, error) {
	o := &ScheduleOccurrence{Notes: notes}
	o.SetSchedule(schedule)
	if err := o.SetOccurrenceDate(date); err != nil {
		return nil, err
	}
	return o, nil
}

// SetSchedule sets the parent schedule and its id
func (o *ScheduleOccurrence) SetSchedule(s *Schedule) {
	o.Schedule = s
	if s != nil {
		o.ScheduleID = s.ID
	}
}

// SetOccurrenceDate validates d against the parent schedule when it is known,
// then stores it and derives DayOfWeek.
func (o *ScheduleOccurrence) SetOccurrenceDate(d time.Time) error {
	d = DateOf(d)
	if o.Schedule != nil && !o.Schedule.Contains(d) {
		return fmt.Errorf("%w: occurrence date %s must be within schedule range %s to %s",
			apperrors.ErrValidationFailed, d.Format(DateLayout),
			o.Schedule.StartDate.Format(DateLayout), o.Schedule.EndDate.Format(DateLayout))
	}
	o.OccurrenceDate = d
	o.DayOfWeek = d.Weekday().String()
	return nil
}

// AssignmentCount is the number of loaded assignments
func (o *ScheduleOccurrence) AssignmentCount() int {
	return len(o.Assignments)
}

// AssignmentsByStatus filters the loaded assignments
func (o *ScheduleOccurrence) AssignmentsByStatus(status StatusCode) []*ScheduleAssignment {
	var out []*ScheduleAssignment
	for _, a := range o.Assignments {
		if a.StatusCode == status {
			out = append(out, a)
		}
	}
	return out
}

// SortAssignments orders the loaded assignments by role code
func (o *ScheduleOccurrence) SortAssignments() {
	sort.SliceStable(o.Assignments, func(i, j int) bool {
		return o.Assignments[i].RoleCode < o.Assignments[j].RoleCode
	})
}

// DateLayout is the wire and log format of calendar dates
const DateLayout = "2006-01-02"

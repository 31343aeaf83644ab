package models

import (
	"math"

	"github.com/google/uuid"
)

// ScheduleAssignment places a user in a role for one occurrence.
// A user holds a given role at most once per occurrence.
type ScheduleAssignment struct {
	Base
	OccurrenceID uuid.UUID  `json:"occurrenceId" db:"occurrence_id"`
	UserID       uuid.UUID  `json:"userId" db:"user_id"`
	RoleCode     RoleCode   `json:"roleCode" db:"role_code"`
	StatusCode   StatusCode `json:"statusCode" db:"status_code"`
	Notes        *string    `json:"notes,omitempty" db:"notes"`

	Occurrence *ScheduleOccurrence `json:"occurrence,omitempty"`
	User       *User               `json:"user,omitempty"`
}

// NewScheduleAssignment validates both codes. An empty status defaults to ASSIGNED.
func NewScheduleAssignment(occurrenceID, userID uuid.UUID, role, status string, notes *string) (*ScheduleAssignment, error) {
	a := &ScheduleAssignment{OccurrenceID: occurrenceID, UserID: userID, Notes: notes}
	if err := a.SetRoleCode(role); err != nil {
		return nil, err
	}
	if status == "" {
		status = string(StatusAssigned)
	}
	if err := a.SetStatusCode(status); err != nil {
		return nil, err
	}
	return a, nil
}

// SetRoleCode rejects values outside the role enumeration
func (a *ScheduleAssignment) SetRoleCode(value string) error {
	r, err := ParseRoleCode(value)
	if err != nil {
		return err
	}
	a.RoleCode = r
	return nil
}

// SetStatusCode rejects values outside the status enumeration
func (a *ScheduleAssignment) SetStatusCode(value string) error {
	s, err := ParseStatusCode(value)
	if err != nil {
		return err
	}
	a.StatusCode = s
	return nil
}

// CanTransitionTo reports whether the current status may move to next
func (a *ScheduleAssignment) CanTransitionTo(next StatusCode) bool {
	return CanTransition(a.StatusCode, next)
}

// AssignmentStatistics summarizes assignments by status
type AssignmentStatistics struct {
	TotalAssignments int64                `json:"totalAssignments"`
	ByStatus         map[StatusCode]int64 `json:"byStatus"`
	ConfirmationRate float64              `json:"confirmationRate"`
}

// NewAssignmentStatistics derives the totals and the confirmation rate,
// CONFIRMED over total as a percentage rounded to two decimals.
func NewAssignmentStatistics(byStatus map[StatusCode]int64) AssignmentStatistics {
	stats := AssignmentStatistics{ByStatus: make(map[StatusCode]int64, len(byStatus))}
	for status, count := range byStatus {
		stats.ByStatus[status] = count
		stats.TotalAssignments += count
	}
	if stats.TotalAssignments > 0 {
		rate := float64(stats.ByStatus[StatusConfirmed]) / float64(stats.TotalAssignments) * 100
		stats.ConfirmationRate = math.Round(rate*100) / 100
	}
	return stats
}

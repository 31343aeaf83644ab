package models

import (
	"fmt"
	"strings"

	"github.com/churchmanager/scheduler/internal/pkg/apperrors"
)

// RoleCode is the role a member fills in a service occurrence
type RoleCode string

const (
	RoleWorshipLead RoleCode = "WORSHIP_LEAD"
	RoleSoundTech   RoleCode = "SOUND_TECH"
	RoleMedia       RoleCode = "MEDIA"
	RoleKidsTeacher RoleCode = "KIDS_TEACHER"
	RoleGreeter     RoleCode = "GREETER"
	RolePrayer      RoleCode = "PRAYER"
	RoleCommunion   RoleCode = "COMMUNION"
	RoleOffering    RoleCode = "OFFERING"
	RoleSecurity    RoleCode = "SECURITY"
	RoleCleaning    RoleCode = "CLEANING"
	RoleOther       RoleCode = "OTHER"
)

// RoleCodes lists every valid role in declaration order
var RoleCodes = []RoleCode{
	RoleWorshipLead, RoleSoundTech, RoleMedia, RoleKidsTeacher, RoleGreeter, RolePrayer,
	RoleCommunion, RoleOffering, RoleSecurity, RoleCleaning, RoleOther,
}

// IsValid reports whether r belongs to the role enumeration
func (r RoleCode) IsValid() bool {
	for _, v := range RoleCodes {
		if v == r {
			return true
		}
	}
	return false
}

// ParseRoleCode validates s against the role enumeration
func ParseRoleCode(s string) (RoleCode, error) {
	r := RoleCode(s)
	if !r.IsValid() {
		return "", fmt.Errorf("%w: invalid role code: %s. Must be one of %s",
			apperrors.ErrValidationFailed, s, joinCodes(RoleCodes))
	}
	return r, nil
}

// StatusCode is the lifecycle state of an assignment
type StatusCode string

const (
	StatusAssigned  StatusCode = "ASSIGNED"
	StatusConfirmed StatusCode = "CONFIRMED"
	StatusDeclined  StatusCode = "DECLINED"
	StatusCompleted StatusCode = "COMPLETED"
	StatusNoShow    StatusCode = "NO_SHOW"
)

// StatusCodes lists every valid status in declaration order
var StatusCodes = []StatusCode{StatusAssigned, StatusConfirmed, StatusDeclined, StatusCompleted, StatusNoShow}

// statusTransitions is the complete edge set of the assignment lifecycle.
// COMPLETED and NO_SHOW are terminal.
var statusTransitions = map[StatusCode][]StatusCode{
	StatusAssigned:  {StatusConfirmed, StatusDeclined},
	StatusConfirmed: {StatusCompleted, StatusNoShow},
	StatusDeclined:  {StatusAssigned},
	StatusCompleted: {},
	StatusNoShow:    {},
}

// IsValid reports whether s belongs to the status enumeration
func (s StatusCode) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// ParseStatusCode validates s against the status enumeration
func ParseStatusCode(s string) (StatusCode, error) {
	st := StatusCode(s)
	if !st.IsValid() {
		return "", fmt.Errorf("%w: invalid status code: %s. Must be one of %s",
			apperrors.ErrValidationFailed, s, joinCodes(StatusCodes))
	}
	return st, nil
}

// CanTransition reports whether the lifecycle allows moving from one status to another
func CanTransition(from, to StatusCode) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s
func (s StatusCode) IsTerminal() bool {
	return s.IsValid() && len(statusTransitions[s]) == 0
}

func joinCodes[T ~string](codes []T) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = string(c)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

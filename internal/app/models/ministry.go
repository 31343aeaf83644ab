package models

import "github.com/google/uuid"

// Ministry represents a service team of the church (worship, sound, kids...)
type Ministry struct {
	Base
	Name     string     `json:"name" db:"name"`
	LeaderID *uuid.UUID `json:"leaderId,omitempty" db:"leader_id"` // nil until a leader is appointed
	IsActive bool       `json:"isActive" db:"is_active"`

	// Related entities
	Leader      *User           `json:"leader,omitempty"`
	Memberships []*UserMinistry `json:"memberships,omitempty"`
	Schedules   []*Schedule     `json:"schedules,omitempty"`
}

// Members returns the users of the loaded memberships
func (m *Ministry) Members() []*User {
	members := make([]*User, 0, len(m.Memberships))
	for _, um := range m.Memberships {
		if um.User != nil {
			members = append(members, um.User)
		}
	}
	return members
}

// MemberCount is the number of loaded memberships
func (m *Ministry) MemberCount() int {
	return len(m.Memberships)
}

// HasMember reports whether userID appears among the loaded memberships
func (m *Ministry) HasMember(userID uuid.UUID) bool {
	for _, um := range m.Memberships {
		if um.UserID == userID {
			return true
		}
	}
	return false
}

// CanCreateSchedule is true for active ministries
func (m *Ministry) CanCreateSchedule() bool {
	return m.IsActive
}

// IsLedBy reports whether userID is the current leader
func (m *Ministry) IsLedBy(userID uuid.UUID) bool {
	return m.LeaderID != nil && *m.LeaderID == userID
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a church member or volunteer. PhoneNumber is the WhatsApp number
// used to reach the member and is unique like Username and Email.
type User struct {
	Base
	Username    string    `json:"username" db:"username"`
	Email       string    `json:"email" db:"email"`
	PhoneNumber string    `json:"phoneNumber" db:"phone_number"`
	FirstName   string    `json:"firstName" db:"first_name"`
	LastName    string    `json:"lastName" db:"last_name"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	IsAvailable bool      `json:"isAvailable" db:"is_available"`
	DateJoined  time.Time `json:"dateJoined" db:"date_joined"`

	// Relations, populated only when loaded
	Memberships   []*UserMinistry       `json:"memberships,omitempty"`
	LedMinistries []*Ministry           `json:"ledMinistries,omitempty"`
	Assignments   []*ScheduleAssignment `json:"assignments,omitempty"`
}

// FullName joins first and last name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Ministries returns the ministries of the loaded memberships
func (u *User) Ministries() []*Ministry {
	ministries := make([]*Ministry, 0, len(u.Memberships))
	for _, m := range u.Memberships {
		if m.Ministry != nil {
			ministries = append(ministries, m.Ministry)
		}
	}
	return ministries
}

// CanBeScheduled is true when the member is both active and available
func (u *User) CanBeScheduled() bool {
	return u.IsActive && u.IsAvailable
}

// UserMinistry links a user to a ministry
type UserMinistry struct {
	Base
	UserID     uuid.UUID `json:"userId" db:"user_id"`
	MinistryID uuid.UUID `json:"ministryId" db:"ministry_id"`
	JoinedAt   time.Time `json:"joinedAt" db:"joined_at"`

	User     *User     `json:"user,omitempty"`
	Ministry *Ministry `json:"ministry,omitempty"`
}

package repositories

import (
	"github.com/churchmanager/scheduler/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	MinistryRepository   *MinistryRepository
	MembershipRepository *MembershipRepository
	ScheduleRepository   *ScheduleRepository
	OccurrenceRepository *OccurrenceRepository
	AssignmentRepository *AssignmentRepository
}

// NewRepositories initializes all repositories on one connection pool
func NewRepositories(conn db.DBTX) *Repositories {
	memberships := NewMembershipRepository(conn)
	schedules := NewScheduleRepository(conn)
	return &Repositories{
		UserRepository:       NewUserRepository(conn, memberships),
		MinistryRepository:   NewMinistryRepository(conn, memberships),
		MembershipRepository: memberships,
		ScheduleRepository:   schedules,
		OccurrenceRepository: NewOccurrenceRepository(conn, schedules),
		AssignmentRepository: NewAssignmentRepository(conn),
	}
}

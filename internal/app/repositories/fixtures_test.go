package repositories

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/churchmanager/scheduler/internal/app/models"
)

var testNow = time.Date(2024, 11, 20, 9, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func text(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func strPtr(s string) *string { return &s }

func base() models.Base {
	return models.Base{ID: uuid.New(), CreatedAt: testNow, UpdatedAt: testNow}
}

func newUser(username string) *models.User {
	return &models.User{
		Base:        base(),
		Username:    username,
		Email:       username + "@church.test",
		PhoneNumber: "+1555" + username,
		FirstName:   "First",
		LastName:    "Last",
		IsActive:    true,
		IsAvailable: true,
		DateJoined:  testNow,
	}
}

func userRows(users ...*models.User) *pgxmock.Rows {
	rows := pgxmock.NewRows(userTable.Columns)
	for _, u := range users {
		rows.AddRow(u.ID, u.Username, u.Email, u.PhoneNumber, u.FirstName, u.LastName,
			u.IsActive, u.IsAvailable, u.DateJoined, u.CreatedAt, u.UpdatedAt)
	}
	return rows
}

func ministryRows(ministries ...*models.Ministry) *pgxmock.Rows {
	rows := pgxmock.NewRows(ministryTable.Columns)
	for _, m := range ministries {
		leader := uuid.NullUUID{}
		if m.LeaderID != nil {
			leader = uuid.NullUUID{UUID: *m.LeaderID, Valid: true}
		}
		rows.AddRow(m.ID, m.Name, leader, m.IsActive, m.CreatedAt, m.UpdatedAt)
	}
	return rows
}

func scheduleRows(schedules ...*models.Schedule) *pgxmock.Rows {
	rows := pgxmock.NewRows(scheduleTable.Columns)
	for _, s := range schedules {
		rows.AddRow(s.ID, s.MinistryID, s.Title, text(s.Notes), s.StartDate, s.EndDate, s.CreatedAt, s.UpdatedAt)
	}
	return rows
}

func occurrenceRows(occurrences ...*models.ScheduleOccurrence) *pgxmock.Rows {
	rows := pgxmock.NewRows(occurrenceTable.Columns)
	for _, o := range occurrences {
		rows.AddRow(o.ID, o.ScheduleID, o.OccurrenceDate, o.DayOfWeek, text(o.Notes), o.CreatedAt, o.UpdatedAt)
	}
	return rows
}

func assignmentRows(assignments ...*models.ScheduleAssignment) *pgxmock.Rows {
	rows := pgxmock.NewRows(assignmentTable.Columns)
	for _, a := range assignments {
		rows.AddRow(a.ID, a.OccurrenceID, a.UserID, string(a.RoleCode), string(a.StatusCode),
			text(a.Notes), a.CreatedAt, a.UpdatedAt)
	}
	return rows
}

func membershipRows(memberships ...*models.UserMinistry) *pgxmock.Rows {
	rows := pgxmock.NewRows(membershipTable.Columns)
	for _, m := range memberships {
		rows.AddRow(m.ID, m.UserID, m.MinistryID, m.JoinedAt, m.CreatedAt, m.UpdatedAt)
	}
	return rows
}

func newSchedule(start, end time.Time) *models.Schedule {
	return &models.Schedule{Base: base(), MinistryID: uuid.New(), Title: "December Services", StartDate: start, EndDate: end}
}

func newAssignment(status models.StatusCode) *models.ScheduleAssignment {
	return &models.ScheduleAssignment{
		Base:         base(),
		OccurrenceID: uuid.New(),
		UserID:       uuid.New(),
		RoleCode:     models.RoleSoundTech,
		StatusCode:   status,
	}
}

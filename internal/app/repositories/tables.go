package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/churchmanager/scheduler/internal/app/models"
	"github.com/churchmanager/scheduler/internal/db"
	"github.com/churchmanager/scheduler/internal/pkg/apperrors"
)

// User fields
const (
	UserUsername    Field = "username"
	UserEmail       Field = "email"
	UserPhoneNumber Field = "phone_number"
	UserFirstName   Field = "first_name"
	UserLastName    Field = "last_name"
	UserIsActive    Field = "is_active"
	UserIsAvailable Field = "is_available"
	UserDateJoined  Field = "date_joined"
)

// Ministry fields
const (
	MinistryName     Field = "name"
	MinistryLeaderID Field = "leader_id"
	MinistryIsActive Field = "is_active"
)

// Membership fields
const (
	MembershipUserID     Field = "user_id"
	MembershipMinistryID Field = "ministry_id"
	MembershipJoinedAt   Field = "joined_at"
)

// Schedule fields
const (
	ScheduleMinistryID Field = "ministry_id"
	ScheduleTitle      Field = "title"
	ScheduleNotes      Field = "notes"
	ScheduleStartDate  Field = "start_date"
	ScheduleEndDate    Field = "end_date"
)

// Occurrence fields
const (
	OccurrenceScheduleID Field = "schedule_id"
	OccurrenceDate       Field = "occurrence_date"
	OccurrenceDayOfWeek  Field = "day_of_week"
	OccurrenceNotes      Field = "notes"
)

// Assignment fields
const (
	AssignmentOccurrenceID Field = "occurrence_id"
	AssignmentUserID       Field = "user_id"
	AssignmentRoleCode     Field = "role_code"
	AssignmentStatusCode   Field = "status_code"
	AssignmentNotes        Field = "notes"
)

const (
	userTableName       = `"user"`
	ministryTableName   = "ministry"
	membershipTableName = "user_ministry"
	scheduleTableName   = "schedule"
	occurrenceTableName = "schedule_occurrence"
	assignmentTableName = "schedule_assignment"
)

var userTable = &Table[models.User]{
	Name: userTableName,
	Columns: []string{"id", "username", "email", "phone_number", "first_name", "last_name",
		"is_active", "is_available", "date_joined", "created_at", "updated_at"},
	Fields: baseFields(map[Field]Column{
		UserUsername:    {Name: "username", Validate: notBlank("username")},
		UserEmail:       {Name: "email", Validate: notBlank("email")},
		UserPhoneNumber: {Name: "phone_number", Validate: notBlank("phone_number")},
		UserFirstName:   {Name: "first_name", Validate: notBlank("first_name")},
		UserLastName:    {Name: "last_name", Validate: notBlank("last_name")},
		UserIsActive:    {Name: "is_active"},
		UserIsAvailable: {Name: "is_available"},
		UserDateJoined:  {Name: "date_joined", ReadOnly: true},
	}),
	Scan: scanUser,
	Values: func(u *models.User) map[string]any {
		v := map[string]any{
			"username":     u.Username,
			"email":        u.Email,
			"phone_number": u.PhoneNumber,
			"first_name":   u.FirstName,
			"last_name":    u.LastName,
			"is_active":    u.IsActive,
			"is_available": u.IsAvailable,
		}
		if !u.DateJoined.IsZero() {
			v["date_joined"] = u.DateJoined
		}
		return v
	},
	Base: func(u *models.User) *models.Base { return &u.Base },
	Validate: func(u *models.User) error {
		for name, value := range map[string]string{
			"username": u.Username, "email": u.Email, "phone_number": u.PhoneNumber,
			"first_name": u.FirstName, "last_name": u.LastName,
		} {
			if err := notBlank(name)(value); err != nil {
				return err
			}
		}
		return nil
	},
}

var ministryTable = &Table[models.Ministry]{
	Name:    ministryTableName,
	Columns: []string{"id", "name", "leader_id", "is_active", "created_at", "updated_at"},
	Fields: baseFields(map[Field]Column{
		MinistryName:     {Name: "name", Validate: notBlank("name")},
		MinistryLeaderID: {Name: "leader_id"},
		MinistryIsActive: {Name: "is_active"},
	}),
	Scan: scanMinistry,
	Values: func(m *models.Ministry) map[string]any {
		return map[string]any{"name": m.Name, "leader_id": m.LeaderID, "is_active": m.IsActive}
	},
	Base: func(m *models.Ministry) *models.Base { return &m.Base },
	Validate: func(m *models.Ministry) error {
		return notBlank("name")(m.Name)
	},
}

var membershipTable = &Table[models.UserMinistry]{
	Name:    membershipTableName,
	Columns: []string{"id", "user_id", "ministry_id", "joined_at", "created_at", "updated_at"},
	Fields: baseFields(map[Field]Column{
		MembershipUserID:     {Name: "user_id", ReadOnly: true},
		MembershipMinistryID: {Name: "ministry_id", ReadOnly: true},
		MembershipJoinedAt:   {Name: "joined_at", ReadOnly: true},
	}),
	Scan: scanMembership,
	Values: func(m *models.UserMinistry) map[string]any {
		v := map[string]any{"user_id": m.UserID, "ministry_id": m.MinistryID}
		if !m.JoinedAt.IsZero() {
			v["joined_at"] = m.JoinedAt
		}
		return v
	},
	Base: func(m *models.UserMinistry) *models.Base { return &m.Base },
}

var scheduleTable = &Table[models.Schedule]{
	Name:    scheduleTableName,
	Columns: []string{"id", "ministry_id", "title", "notes", "start_date", "end_date", "created_at", "updated_at"},
	Fields: baseFields(map[Field]Column{
		ScheduleMinistryID: {Name: "ministry_id", ReadOnly: true},
		ScheduleTitle:      {Name: "title", Validate: notBlank("title")},
		ScheduleNotes:      {Name: "notes"},
		ScheduleStartDate:  {Name: "start_date"},
		ScheduleEndDate:    {Name: "end_date"},
	}),
	Scan: scanSchedule,
	Values: func(s *models.Schedule) map[string]any {
		return map[string]any{
			"ministry_id": s.MinistryID,
			"title":       s.Title,
			"notes":       s.Notes,
			"start_date":  s.StartDate,
			"end_date":    s.EndDate,
		}
	},
	Base:     func(s *models.Schedule) *models.Base { return &s.Base },
	Validate: func(s *models.Schedule) error { return s.Validate() },
}

// occurrence_date is written only through OccurrenceRepository so that
// day_of_week is always derived from it
var occurrenceTable = &Table[models.ScheduleOccurrence]{
	Name:    occurrenceTableName,
	Columns: []string{"id", "schedule_id", "occurrence_date", "day_of_week", "notes", "created_at", "updated_at"},
	Fields: baseFields(map[Field]Column{
		OccurrenceScheduleID: {Name: "schedule_id", ReadOnly: true},
		OccurrenceDate:       {Name: "occurrence_date", ReadOnly: true},
		OccurrenceDayOfWeek:  {Name: "day_of_week", ReadOnly: true},
		OccurrenceNotes:      {Name: "notes"},
	}),
	Scan: scanOccurrence,
	Values: func(o *models.ScheduleOccurrence) map[string]any {
		date := models.DateOf(o.OccurrenceDate)
		return map[string]any{
			"schedule_id":     o.ScheduleID,
			"occurrence_date": date,
			"day_of_week":     date.Weekday().String(),
			"notes":           o.Notes,
		}
	},
	Base: func(o *models.ScheduleOccurrence) *models.Base { return &o.Base },
	Validate: func(o *models.ScheduleOccurrence) error {
		if o.OccurrenceDate.IsZero() {
			return fmt.Errorf("%w: occurrence date is required", apperrors.ErrValidationFailed)
		}
		return nil
	},
}

// status_code is written only through AssignmentRepository.UpdateStatus
var assignmentTable = &Table[models.ScheduleAssignment]{
	Name:    assignmentTableName,
	Columns: []string{"id", "occurrence_id", "user_id", "role_code", "status_code", "notes", "created_at", "updated_at"},
	Fields: baseFields(map[Field]Column{
		AssignmentOccurrenceID: {Name: "occurrence_id", ReadOnly: true},
		AssignmentUserID:       {Name: "user_id", ReadOnly: true},
		AssignmentRoleCode:     {Name: "role_code", Validate: validRoleCode},
		AssignmentStatusCode:   {Name: "status_code", ReadOnly: true},
		AssignmentNotes:        {Name: "notes"},
	}),
	Scan: scanAssignment,
	Values: func(a *models.ScheduleAssignment) map[string]any {
		return map[string]any{
			"occurrence_id": a.OccurrenceID,
			"user_id":       a.UserID,
			"role_code":     string(a.RoleCode),
			"status_code":   string(a.StatusCode),
			"notes":         a.Notes,
		}
	},
	Base: func(a *models.ScheduleAssignment) *models.Base { return &a.Base },
	Validate: func(a *models.ScheduleAssignment) error {
		if a.StatusCode == "" {
			a.StatusCode = models.StatusAssigned
		}
		if err := a.SetRoleCode(string(a.RoleCode)); err != nil {
			return err
		}
		return a.SetStatusCode(string(a.StatusCode))
	},
}

func init() {
	userTable.Relations = map[string]RelationLoader[models.User]{
		"memberships":    loadUserMemberships,
		"led_ministries": loadLedMinistries,
		"assignments":    loadUserAssignments,
	}
	ministryTable.Relations = map[string]RelationLoader[models.Ministry]{
		"leader":      loadMinistryLeaders,
		"memberships": loadMinistryMemberships,
		"schedules":   loadMinistrySchedules,
	}
	membershipTable.Relations = map[string]RelationLoader[models.UserMinistry]{
		"parties": loadMembershipParties,
	}
	scheduleTable.Relations = map[string]RelationLoader[models.Schedule]{
		"ministry":    loadScheduleMinistries,
		"occurrences": loadScheduleOccurrences,
	}
	occurrenceTable.Relations = map[string]RelationLoader[models.ScheduleOccurrence]{
		"schedule":    loadOccurrenceSchedules,
		"assignments": loadOccurrenceAssignments,
	}
	assignmentTable.Relations = map[string]RelationLoader[models.ScheduleAssignment]{
		"occurrence": loadAssignmentOccurrences,
		"user":       loadAssignmentUsers,
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PhoneNumber, &u.FirstName, &u.LastName,
		&u.IsActive, &u.IsAvailable, &u.DateJoined, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func scanMinistry(row pgx.Row) (*models.Ministry, error) {
	var m models.Ministry
	var leader uuid.NullUUID
	if err := row.Scan(&m.ID, &m.Name, &leader, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if leader.Valid {
		m.LeaderID = &leader.UUID
	}
	return &m, nil
}

func scanMembership(row pgx.Row) (*models.UserMinistry, error) {
	var m models.UserMinistry
	if err := row.Scan(&m.ID, &m.UserID, &m.MinistryID, &m.JoinedAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func scanSchedule(row pgx.Row) (*models.Schedule, error) {
	var s models.Schedule
	var notes pgtype.Text
	err := row.Scan(&s.ID, &s.MinistryID, &s.Title, &notes, &s.StartDate, &s.EndDate, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Notes = textPtr(notes)
	return &s, nil
}

func scanOccurrence(row pgx.Row) (*models.ScheduleOccurrence, error) {
	var o models.ScheduleOccurrence
	var notes pgtype.Text
	err := row.Scan(&o.ID, &o.ScheduleID, &o.OccurrenceDate, &o.DayOfWeek, &notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Notes = textPtr(notes)
	return &o, nil
}

func scanAssignment(row pgx.Row) (*models.ScheduleAssignment, error) {
	var a models.ScheduleAssignment
	var role, status string
	var notes pgtype.Text
	err := row.Scan(&a.ID, &a.OccurrenceID, &a.UserID, &role, &status, &notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.RoleCode = models.RoleCode(role)
	a.StatusCode = models.StatusCode(status)
	a.Notes = textPtr(notes)
	return &a, nil
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func notBlank(name string) func(any) error {
	return func(v any) error {
		s, ok := v.(string)
		if !ok || s == "" {
			return fmt.Errorf("%w: %s must be a non-empty string", apperrors.ErrValidationFailed, name)
		}
		return nil
	}
}

func validRoleCode(v any) error {
	switch r := v.(type) {
	case models.RoleCode:
		_, err := models.ParseRoleCode(string(r))
		return err
	case string:
		_, err := models.ParseRoleCode(r)
		return err
	}
	return fmt.Errorf("%w: role code must be a string", apperrors.ErrValidationFailed)
}

// selectIn loads rows of table whose column is one of ids
func selectIn[C any](ctx context.Context, conn db.DBTX, table *Table[C], column string, ids []uuid.UUID, orderBy string) ([]*C, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := squirrel.Select(table.SelectColumns()...).
		From(table.Name).
		Where(squirrel.Eq{table.Name + "." + column: ids}).
		PlaceholderFormat(squirrel.Dollar)
	if orderBy != "" {
		query = query.OrderBy(table.Name + "." + orderBy)
	}
	return scanAll(ctx, conn, query, table.Scan)
}

// collectIDs returns the distinct keys of items in first-seen order
func collectIDs[T any](items []*T, key func(*T) (uuid.UUID, bool)) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(items))
	out := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		id, ok := key(it)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func userKey(u *models.User) (uuid.UUID, bool)         { return u.ID, true }
func ministryKey(m *models.Ministry) (uuid.UUID, bool) { return m.ID, true }
func scheduleKey(s *models.Schedule) (uuid.UUID, bool) { return s.ID, true }
func occurrenceKey(o *models.ScheduleOccurrence) (uuid.UUID, bool) {
	return o.ID, true
}

func byID[T any](items []*T, base func(*T) *models.Base) map[uuid.UUID]*T {
	out := make(map[uuid.UUID]*T, len(items))
	for _, it := range items {
		out[base(it).ID] = it
	}
	return out
}

// attachMembershipParties fills User and Ministry of each membership
func attachMembershipParties(ctx context.Context, conn db.DBTX, memberships []*models.UserMinistry) error {
	users, err := selectIn(ctx, conn, userTable, "id",
		collectIDs(memberships, func(m *models.UserMinistry) (uuid.UUID, bool) { return m.UserID, true }), "")
	if err != nil {
		return err
	}
	ministries, err := selectIn(ctx, conn, ministryTable, "id",
		collectIDs(memberships, func(m *models.UserMinistry) (uuid.UUID, bool) { return m.MinistryID, true }), "")
	if err != nil {
		return err
	}
	userByID := byID(users, userTable.Base)
	ministryByID := byID(ministries, ministryTable.Base)
	for _, m := range memberships {
		m.User = userByID[m.UserID]
		m.Ministry = ministryByID[m.MinistryID]
	}
	return nil
}

func loadMembershipParties(ctx context.Context, conn db.DBTX, items []*models.UserMinistry) error {
	return attachMembershipParties(ctx, conn, items)
}

func loadUserMemberships(ctx context.Context, conn db.DBTX, users []*models.User) error {
	memberships, err := selectIn(ctx, conn, membershipTable, "user_id", collectIDs(users, userKey), "joined_at")
	if err != nil {
		return err
	}
	if err := attachMembershipParties(ctx, conn, memberships); err != nil {
		return err
	}
	byUser := make(map[uuid.UUID][]*models.UserMinistry)
	for _, m := range memberships {
		byUser[m.UserID] = append(byUser[m.UserID], m)
	}
	for _, u := range users {
		u.Memberships = byUser[u.ID]
	}
	return nil
}

func loadLedMinistries(ctx context.Context, conn db.DBTX, users []*models.User) error {
	ministries, err := selectIn(ctx, conn, ministryTable, "leader_id", collectIDs(users, userKey), "name")
	if err != nil {
		return err
	}
	byLeader := make(map[uuid.UUID][]*models.Ministry)
	for _, m := range ministries {
		if m.LeaderID != nil {
			byLeader[*m.LeaderID] = append(byLeader[*m.LeaderID], m)
		}
	}
	for _, u := range users {
		u.LedMinistries = byLeader[u.ID]
	}
	return nil
}

func loadUserAssignments(ctx context.Context, conn db.DBTX, users []*models.User) error {
	assignments, err := selectIn(ctx, conn, assignmentTable, "user_id", collectIDs(users, userKey), "created_at")
	if err != nil {
		return err
	}
	byUser := make(map[uuid.UUID][]*models.ScheduleAssignment)
	for _, a := range assignments {
		byUser[a.UserID] = append(byUser[a.UserID], a)
	}
	for _, u := range users {
		u.Assignments = byUser[u.ID]
	}
	return nil
}

func loadMinistryLeaders(ctx context.Context, conn db.DBTX, ministries []*models.Ministry) error {
	leaderIDs := collectIDs(ministries, func(m *models.Ministry) (uuid.UUID, bool) {
		if m.LeaderID == nil {
			return uuid.Nil, false
		}
		return *m.LeaderID, true
	})
	leaders, err := selectIn(ctx, conn, userTable, "id", leaderIDs, "")
	if err != nil {
		return err
	}
	leaderByID := byID(leaders, userTable.Base)
	for _, m := range ministries {
		if m.LeaderID != nil {
			m.Leader = leaderByID[*m.LeaderID]
		}
	}
	return nil
}

func loadMinistryMemberships(ctx context.Context, conn db.DBTX, ministries []*models.Ministry) error {
	memberships, err := selectIn(ctx, conn, membershipTable, "ministry_id", collectIDs(ministries, ministryKey), "joined_at")
	if err != nil {
		return err
	}
	if err := attachMembershipParties(ctx, conn, memberships); err != nil {
		return err
	}
	byMinistry := make(map[uuid.UUID][]*models.UserMinistry)
	for _, m := range memberships {
		byMinistry[m.MinistryID] = append(byMinistry[m.MinistryID], m)
	}
	for _, m := range ministries {
		m.Memberships = byMinistry[m.ID]
	}
	return nil
}

func loadMinistrySchedules(ctx context.Context, conn db.DBTX, ministries []*models.Ministry) error {
	schedules, err := selectIn(ctx, conn, scheduleTable, "ministry_id", collectIDs(ministries, ministryKey), "start_date")
	if err != nil {
		return err
	}
	byMinistry := make(map[uuid.UUID][]*models.Schedule)
	for _, s := range schedules {
		byMinistry[s.MinistryID] = append(byMinistry[s.MinistryID], s)
	}
	for _, m := range ministries {
		m.Schedules = byMinistry[m.ID]
	}
	return nil
}

func loadScheduleMinistries(ctx context.Context, conn db.DBTX, schedules []*models.Schedule) error {
	ministries, err := selectIn(ctx, conn, ministryTable, "id",
		collectIDs(schedules, func(s *models.Schedule) (uuid.UUID, bool) { return s.MinistryID, true }), "")
	if err != nil {
		return err
	}
	ministryByID := byID(ministries, ministryTable.Base)
	for _, s := range schedules {
		s.Ministry = ministryByID[s.MinistryID]
	}
	return nil
}

func loadScheduleOccurrences(ctx context.Context, conn db.DBTX, schedules []*models.Schedule) error {
	occurrences, err := selectIn(ctx, conn, occurrenceTable, "schedule_id", collectIDs(schedules, scheduleKey), "occurrence_date")
	if err != nil {
		return err
	}
	bySchedule := make(map[uuid.UUID][]*models.ScheduleOccurrence)
	for _, o := range occurrences {
		bySchedule[o.ScheduleID] = append(bySchedule[o.ScheduleID], o)
	}
	for _, s := range schedules {
		s.Occurrences = bySchedule[s.ID]
	}
	return nil
}

func loadOccurrenceSchedules(ctx context.Context, conn db.DBTX, occurrences []*models.ScheduleOccurrence) error {
	schedules, err := selectIn(ctx, conn, scheduleTable, "id",
		collectIDs(occurrences, func(o *models.ScheduleOccurrence) (uuid.UUID, bool) { return o.ScheduleID, true }), "")
	if err != nil {
		return err
	}
	scheduleByID := byID(schedules, scheduleTable.Base)
	for _, o := range occurrences {
		o.Schedule = scheduleByID[o.ScheduleID]
	}
	return nil
}

func loadOccurrenceAssignments(ctx context.Context, conn db.DBTX, occurrences []*models.ScheduleOccurrence) error {
	assignments, err := selectIn(ctx, conn, assignmentTable, "occurrence_id", collectIDs(occurrences, occurrenceKey), "role_code")
	if err != nil {
		return err
	}
	byOccurrence := make(map[uuid.UUID][]*models.ScheduleAssignment)
	for _, a := range assignments {
		byOccurrence[a.OccurrenceID] = append(byOccurrence[a.OccurrenceID], a)
	}
	for _, o := range occurrences {
		o.Assignments = byOccurrence[o.ID]
	}
	return nil
}

func loadAssignmentOccurrences(ctx context.Context, conn db.DBTX, assignments []*models.ScheduleAssignment) error {
	occurrences, err := selectIn(ctx, conn, occurrenceTable, "id",
		collectIDs(assignments, func(a *models.ScheduleAssignment) (uuid.UUID, bool) { return a.OccurrenceID, true }), "")
	if err != nil {
		return err
	}
	occurrenceByID := byID(occurrences, occurrenceTable.Base)
	for _, a := range assignments {
		a.Occurrence = occurrenceByID[a.OccurrenceID]
	}
	return nil
}

func loadAssignmentUsers(ctx context.Context, conn db.DBTX, assignments []*models.ScheduleAssignment) error {
	users, err := selectIn(ctx, conn, userTable, "id",
		collectIDs(assignments, func(a *models.ScheduleAssignment) (uuid.UUID, bool) { return a.UserID, true }), "")
	if err != nil {
		return err
	}
	userByID := byID(users, userTable.Base)
	for _, a := range assignments {
		a.User = userByID[a.UserID]
	}
	return nil
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/churchmanager/scheduler/internal/app/models"
	"github.com/churchmanager/scheduler/internal/db"
	"github.com/churchmanager/scheduler/internal/pkg/apperrors"
	"github.com/churchmanager/scheduler/internal/pkg/dberrors"
)

// DefaultListLimit is applied when ListOptions.Limit is not positive
const DefaultListLimit = 100

// Field names an entity attribute usable in filters, ordering and updates
type Field string

// Fields shared by every table
const (
	FieldID        Field = "id"
	FieldCreatedAt Field = "created_at"
	FieldUpdatedAt Field = "updated_at"
)

// Filters are equality conditions; a slice value matches any element and nil matches NULL
type Filters map[Field]any

// Changes are the new values of an update
type Changes map[Field]any

// Column maps a Field to its SQL column
type Column struct {
	Name     string
	ReadOnly bool
	// Validate checks a value before it is written, when set
	Validate func(value any) error
}

// RelationLoader populates related entities on a batch of already loaded rows
type RelationLoader[T any] func(ctx context.Context, conn db.DBTX, items []*T) error

// Table describes how an entity type is stored
type Table[T any] struct {
	Name    string
	Columns []string // select order, matched by Scan
	Fields  map[Field]Column
	Scan    func(row pgx.Row) (*T, error)
	// Values returns the insertable columns except id and the timestamps
	Values func(entity *T) map[string]any
	Base   func(entity *T) *models.Base
	// Validate runs before inserts, when set
	Validate  func(entity *T) error
	Relations map[string]RelationLoader[T]
}

// Column returns the table-qualified column of f
func (t *Table[T]) Column(f Field) (string, Column, error) {
	col, ok := t.Fields[f]
	if !ok {
		return "", Column{}, apperrors.NewUnknownFieldError(t.Name, string(f))
	}
	return t.Name + "." + col.Name, col, nil
}

// SelectColumns returns the table-qualified select list
func (t *Table[T]) SelectColumns() []string {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = t.Name + "." + c
	}
	return cols
}

// Where converts filters into an equality condition
func (t *Table[T]) Where(filters Filters) (squirrel.Eq, error) {
	eq := squirrel.Eq{}
	for f, v := range filters {
		col, _, err := t.Column(f)
		if err != nil {
			return nil, err
		}
		eq[col] = v
	}
	return eq, nil
}

// OrderBy parses "field" or "-field" (descending)
func (t *Table[T]) OrderBy(spec string) (string, error) {
	dir := "ASC"
	if strings.HasPrefix(spec, "-") {
		dir = "DESC"
		spec = strings.TrimPrefix(spec, "-")
	}
	col, _, err := t.Column(Field(spec))
	if err != nil {
		return "", err
	}
	return col + " " + dir, nil
}

func baseFields(extra map[Field]Column) map[Field]Column {
	fields := map[Field]Column{
		FieldID:        {Name: "id", ReadOnly: true},
		FieldCreatedAt: {Name: "created_at", ReadOnly: true},
		FieldUpdatedAt: {Name: "updated_at", ReadOnly: true},
	}
	for f, c := range extra {
		fields[f] = c
	}
	return fields
}

// ListOptions controls paging, ordering and filtering of List
type ListOptions struct {
	Skip        uint64
	Limit       uint64
	LoadRelated bool
	OrderBy     string
	Filters     Filters
}

// BulkUpdate is one item of Repository.BulkUpdate
type BulkUpdate struct {
	ID      uuid.UUID
	Changes Changes
}

// Repository implements CRUD for one table. Reads return nil, nil when
// nothing matches; write failures are mapped to apperrors sentinels.
type Repository[T any] struct {
	db    db.DBTX
	table *Table[T]
	qb    squirrel.StatementBuilderType
}

// NewRepository creates a repository for table on conn
func NewRepository[T any](conn db.DBTX, table *Table[T]) *Repository[T] {
	return &Repository[T]{
		db:    conn,
		table: table,
		qb:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a copy bound to tx
func (r *Repository[T]) WithTx(tx db.DBTX) *Repository[T] {
	cp := *r
	cp.db = tx
	return &cp
}

// Table exposes the metadata
func (r *Repository[T]) Table() *Table[T] {
	return r.table
}

func (r *Repository[T]) selectQuery() squirrel.SelectBuilder {
	return r.qb.Select(r.table.SelectColumns()...).From(r.table.Name)
}

// Create inserts entity and returns the stored row. A missing id is
// generated for the row only; entity itself is left unchanged.
func (r *Repository[T]) Create(ctx context.Context, entity *T) (*T, error) {
	if r.table.Validate != nil {
		if err := r.table.Validate(entity); err != nil {
			return nil, err
		}
	}

	id := r.table.Base(entity).ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	values := r.table.Values(entity)
	values["id"] = id

	query := r.qb.Insert(r.table.Name).
		SetMap(values).
		Suffix("RETURNING " + strings.Join(r.table.Columns, ", "))

	created, err := r.queryOne(ctx, query)
	if err != nil {
		return nil, classifyError("create "+r.table.Name, err)
	}
	if created == nil {
		return nil, fmt.Errorf("%w: insert into %s returned no row", apperrors.ErrStorage, r.table.Name)
	}
	return created, nil
}

// Get returns the entity with id, or nil when it does not exist
func (r *Repository[T]) Get(ctx context.Context, id uuid.UUID, loadRelated bool) (*T, error) {
	return r.GetBy(ctx, Filters{FieldID: id}, loadRelated)
}

// GetBy returns the first entity matching filters, or nil
func (r *Repository[T]) GetBy(ctx context.Context, filters Filters, loadRelated bool) (*T, error) {
	where, err := r.table.Where(filters)
	if err != nil {
		return nil, err
	}

	entity, err := r.queryOne(ctx, r.selectQuery().Where(where).Limit(1))
	if err != nil {
		return nil, classifyError("get "+r.table.Name, err)
	}
	if entity == nil || !loadRelated {
		return entity, nil
	}

	if err := r.LoadRelations(ctx, []*T{entity}); err != nil {
		return nil, err
	}
	return entity, nil
}

// List pages through the table, newest first unless OrderBy says otherwise
func (r *Repository[T]) List(ctx context.Context, opts ListOptions) ([]*T, error) {
	where, err := r.table.Where(opts.Filters)
	if err != nil {
		return nil, err
	}

	order := r.table.Name + ".created_at DESC"
	if opts.OrderBy != "" {
		if order, err = r.table.OrderBy(opts.OrderBy); err != nil {
			return nil, err
		}
	}

	limit := opts.Limit
	if limit == 0 {
		limit = DefaultListLimit
	}

	query := r.selectQuery().OrderBy(order).Offset(opts.Skip).Limit(limit)
	if len(where) > 0 {
		query = query.Where(where)
	}

	return r.queryMany(ctx, query, opts.LoadRelated)
}

// Update applies changes to the entity with id and returns the stored result,
// or nil when the entity does not exist
func (r *Repository[T]) Update(ctx context.Context, id uuid.UUID, changes Changes) (*T, error) {
	return r.UpdateWhere(ctx, id, changes, nil)
}

// UpdateWhere is Update restricted by extra guard conditions; nil is returned
// when no row matches the id and the guard
func (r *Repository[T]) UpdateWhere(ctx context.Context, id uuid.UUID, changes Changes, guard Filters) (*T, error) {
	set := make(map[string]any, len(changes))
	for f, v := range changes {
		_, meta, err := r.table.Column(f)
		if err != nil {
			return nil, err
		}
		if meta.ReadOnly {
			return nil, fmt.Errorf("%w: field %q is read-only", apperrors.ErrValidationFailed, f)
		}
		if meta.Validate != nil {
			if err := meta.Validate(v); err != nil {
				return nil, err
			}
		}
		set[meta.Name] = v
	}
	return r.updateColumns(ctx, id, set, guard)
}

// updateColumns writes raw column values, bypassing the read-only markers.
// updated_at is always refreshed.
func (r *Repository[T]) updateColumns(ctx context.Context, id uuid.UUID, set map[string]any, guard Filters) (*T, error) {
	filters := Filters{FieldID: id}
	for f, v := range guard {
		filters[f] = v
	}
	where, err := r.table.Where(filters)
	if err != nil {
		return nil, err
	}

	values := make(map[string]any, len(set)+1)
	for k, v := range set {
		values[k] = v
	}
	values["updated_at"] = squirrel.Expr("now()")

	query := r.qb.Update(r.table.Name).
		SetMap(values).
		Where(where).
		Suffix("RETURNING " + strings.Join(r.table.Columns, ", "))

	updated, err := r.queryOne(ctx, query)
	if err != nil {
		return nil, classifyError("update "+r.table.Name, err)
	}
	return updated, nil
}

// Delete removes the entity with id; dependent rows follow the schema's cascades
func (r *Repository[T]) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.DeleteWhere(ctx, Filters{FieldID: id})
}

// DeleteWhere removes every row matching filters and reports whether any existed
func (r *Repository[T]) DeleteWhere(ctx context.Context, filters Filters) (bool, error) {
	where, err := r.table.Where(filters)
	if err != nil {
		return false, err
	}

	sql, args, err := r.qb.Delete(r.table.Name).Where(where).ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, classifyError("delete "+r.table.Name, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Count returns the number of rows matching filters
func (r *Repository[T]) Count(ctx context.Context, filters Filters) (int64, error) {
	where, err := r.table.Where(filters)
	if err != nil {
		return 0, err
	}

	query := r.qb.Select("COUNT(*)").From(r.table.Name)
	if len(where) > 0 {
		query = query.Where(where)
	}
	return r.count(ctx, query)
}

// Exists reports whether any row matches filters
func (r *Repository[T]) Exists(ctx context.Context, filters Filters) (bool, error) {
	n, err := r.Count(ctx, filters)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// BulkCreate inserts all entities in one transaction; nothing is kept when one fails
func (r *Repository[T]) BulkCreate(ctx context.Context, entities []*T) ([]*T, error) {
	created := make([]*T, 0, len(entities))
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		txRepo := r.WithTx(tx)
		for _, e := range entities {
			c, err := txRepo.Create(ctx, e)
			if err != nil {
				return err
			}
			created = append(created, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// BulkUpdate applies each item as its own statement. Items without an id or
// whose entity no longer exists are skipped. There is no enclosing
// transaction: on error the updates already applied stay, and the count
// of those is returned with the error.
func (r *Repository[T]) BulkUpdate(ctx context.Context, items []BulkUpdate) (int, error) {
	updated := 0
	for _, item := range items {
		if item.ID == uuid.Nil {
			continue
		}
		res, err := r.Update(ctx, item.ID, item.Changes)
		if err != nil {
			return updated, err
		}
		if res != nil {
			updated++
		}
	}
	return updated, nil
}

// LoadRelations runs every relation loader of the table on items
func (r *Repository[T]) LoadRelations(ctx context.Context, items []*T) error {
	if len(items) == 0 || len(r.table.Relations) == 0 {
		return nil
	}

	names := make([]string, 0, len(r.table.Relations))
	for name := range r.table.Relations {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := r.table.Relations[name](ctx, r.db, items); err != nil {
			return fmt.Errorf("%w: loading %s of %s: %w", apperrors.ErrStorage, name, r.table.Name, err)
		}
	}
	return nil
}

func (r *Repository[T]) queryOne(ctx context.Context, query squirrel.Sqlizer) (*T, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	entity, err := r.table.Scan(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *Repository[T]) queryMany(ctx context.Context, query squirrel.Sqlizer, loadRelated bool) ([]*T, error) {
	items, err := scanAll(ctx, r.db, query, r.table.Scan)
	if err != nil {
		return nil, classifyError("list "+r.table.Name, err)
	}
	if loadRelated {
		if err := r.LoadRelations(ctx, items); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (r *Repository[T]) count(ctx context.Context, query squirrel.Sqlizer) (int64, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, classifyError("count "+r.table.Name, err)
	}
	return n, nil
}

// scanAll runs query and scans every row with scan
func scanAll[T any](ctx context.Context, conn db.DBTX, query squirrel.Sqlizer, scan func(pgx.Row) (*T, error)) ([]*T, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	items := make([]*T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return items, nil
}

// classifyError maps a database failure onto the application error sentinels
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	// already classified, e.g. unknown field
	if errors.Is(err, apperrors.ErrValidationFailed) || errors.Is(err, apperrors.ErrStorage) ||
		errors.Is(err, apperrors.ErrUniquenessViolation) {
		return err
	}

	switch {
	case dberrors.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s violates %s", apperrors.ErrUniquenessViolation, op, dberrors.ConstraintName(err))
	case dberrors.IsCheckViolation(err):
		return fmt.Errorf("%w: %s violates %s", apperrors.ErrValidationFailed, op, dberrors.ConstraintName(err))
	case dberrors.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %s references a missing record (%s)", apperrors.ErrValidationFailed, op, dberrors.ConstraintName(err))
	default:
		return fmt.Errorf("%w: %s: %w", apperrors.ErrStorage, op, err)
	}
}

package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/churchmanager/scheduler/internal/app/models"
	"github.com/churchmanager/scheduler/internal/db"
	"github.com/churchmanager/scheduler/internal/pkg/apperrors"
)

// MinistryRepository handles database operations for ministries
type MinistryRepository struct {
	*Repository[models.Ministry]
	memberships *MembershipRepository
}

// NewMinistryRepository creates a new MinistryRepository
func NewMinistryRepository(conn db.DBTX, memberships *MembershipRepository) *MinistryRepository {
	return &MinistryRepository{
		Repository:  NewRepository(conn, ministryTable),
		memberships: memberships,
	}
}

func (r *MinistryRepository) byName() squirrel.SelectBuilder {
	return r.selectQuery().OrderBy(ministryTableName + ".name")
}

// GetByName finds a ministry by its unique name
func (r *MinistryRepository) GetByName(ctx context.Context, name string) (*models.Ministry, error) {
	return r.GetBy(ctx, Filters{MinistryName: name}, true)
}

// GetActiveMinistries lists active ministries by name with leader and members loaded
func (r *MinistryRepository) GetActiveMinistries(ctx context.Context) ([]*models.Ministry, error) {
	q := r.byName().Where(squirrel.Eq{ministryTableName + ".is_active": true})
	return r.queryMany(ctx, q, true)
}

// GetUserMinistries lists the ministries userID belongs to
func (r *MinistryRepository) GetUserMinistries(ctx context.Context, userID uuid.UUID, onlyActive bool) ([]*models.Ministry, error) {
	q := r.byName().
		Join(membershipTableName+" ON "+membershipTableName+".ministry_id = "+ministryTableName+".id").
		Where(squirrel.Eq{membershipTableName + ".user_id": userID})
	if onlyActive {
		q = q.Where(squirrel.Eq{ministryTableName + ".is_active": true})
	}
	return r.queryMany(ctx, q, true)
}

// GetLedMinistries lists the ministries led by leaderID
func (r *MinistryRepository) GetLedMinistries(ctx context.Context, leaderID uuid.UUID, onlyActive bool) ([]*models.Ministry, error) {
	q := r.byName().Where(squirrel.Eq{ministryTableName + ".leader_id": leaderID})
	if onlyActive {
		q = q.Where(squirrel.Eq{ministryTableName + ".is_active": true})
	}
	return r.queryMany(ctx, q, true)
}

// SetLeader appoints leaderID, making them a member if needed. A nil
// leaderID clears the leader. Returns nil when the ministry does not exist;
// an unknown user is a validation error.
func (r *MinistryRepository) SetLeader(ctx context.Context, ministryID uuid.UUID, leaderID *uuid.UUID) (*models.Ministry, error) {
	if leaderID == nil {
		return r.Update(ctx, ministryID, Changes{MinistryLeaderID: nil})
	}

	var updated *models.Ministry
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		exists, err := r.WithTx(tx).Exists(ctx, Filters{FieldID: ministryID})
		if err != nil || !exists {
			return err
		}
		updated, err = r.appointLeader(ctx, tx, ministryID, *leaderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CreateWithLeader stores ministry and appoints leaderID in one transaction.
// Nothing is stored when the leader does not exist.
func (r *MinistryRepository) CreateWithLeader(ctx context.Context, ministry *models.Ministry, leaderID *uuid.UUID) (*models.Ministry, error) {
	if leaderID == nil {
		return r.Create(ctx, ministry)
	}

	var created *models.Ministry
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		stored, err := r.WithTx(tx).Create(ctx, ministry)
		if err != nil {
			return err
		}
		created, err = r.appointLeader(ctx, tx, stored.ID, *leaderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *MinistryRepository) appointLeader(ctx context.Context, tx pgx.Tx, ministryID, leaderID uuid.UUID) (*models.Ministry, error) {
	userExists, err := NewRepository(tx, userTable).Exists(ctx, Filters{FieldID: leaderID})
	if err != nil {
		return nil, err
	}
	if !userExists {
		return nil, fmt.Errorf("%w: user with ID %s not found", apperrors.ErrValidationFailed, leaderID)
	}

	if _, err := (&MembershipRepository{Repository: r.memberships.WithTx(tx)}).Ensure(ctx, leaderID, ministryID); err != nil {
		return nil, err
	}
	return r.WithTx(tx).Update(ctx, ministryID, Changes{MinistryLeaderID: leaderID})
}

// AddMember returns false when the user is already a member
func (r *MinistryRepository) AddMember(ctx context.Context, ministryID, userID uuid.UUID) (bool, error) {
	return r.memberships.Add(ctx, userID, ministryID)
}

// RemoveMember clears the leader when userID leads the ministry, then drops
// the membership. Returns false when the user was not a member.
func (r *MinistryRepository) RemoveMember(ctx context.Context, ministryID, userID uuid.UUID) (bool, error) {
	return r.memberships.Remove(ctx, userID, ministryID)
}

// GetMemberCount counts the memberships of a ministry
func (r *MinistryRepository) GetMemberCount(ctx context.Context, ministryID uuid.UUID) (int64, error) {
	return r.memberships.Count(ctx, Filters{MembershipMinistryID: ministryID})
}

// DeactivateMinistry marks the ministry inactive
func (r *MinistryRepository) DeactivateMinistry(ctx context.Context, ministryID uuid.UUID) (*models.Ministry, error) {
	return r.Update(ctx, ministryID, Changes{MinistryIsActive: false})
}

// ReactivateMinistry marks the ministry active again
func (r *MinistryRepository) ReactivateMinistry(ctx context.Context, ministryID uuid.UUID) (*models.Ministry, error) {
	return r.Update(ctx, ministryID, Changes{MinistryIsActive: true})
}

// SearchMinistries matches name case-insensitively
func (r *MinistryRepository) SearchMinistries(ctx context.Context, query string, onlyActive bool) ([]*models.Ministry, error) {
	q := r.byName().Where(squirrel.ILike{ministryTableName + ".name": "%" + strings.TrimSpace(query) + "%"})
	if onlyActive {
		q = q.Where(squirrel.Eq{ministryTableName + ".is_active": true})
	}
	return r.queryMany(ctx, q, true)
}

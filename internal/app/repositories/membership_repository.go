package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/churchmanager/scheduler/internal/app/models"
	"github.com/churchmanager/scheduler/internal/db"
	"github.com/churchmanager/scheduler/internal/pkg/apperrors"
)

// MembershipRepository manages user_ministry rows. Users and ministries
// both go through it so the leader rule lives in one place.
type MembershipRepository struct {
	*Repository[models.UserMinistry]
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(conn db.DBTX) *MembershipRepository {
	return &MembershipRepository{Repository: NewRepository(conn, membershipTable)}
}

// Add makes userID a member of ministryID. It returns false when the
// membership already exists, including when a concurrent insert won the race.
func (r *MembershipRepository) Add(ctx context.Context, userID, ministryID uuid.UUID) (bool, error) {
	exists, err := r.Exists(ctx, Filters{MembershipUserID: userID, MembershipMinistryID: ministryID})
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	_, err = r.Create(ctx, &models.UserMinistry{UserID: userID, MinistryID: ministryID})
	if errors.Is(err, apperrors.ErrUniquenessViolation) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Ensure inserts the membership unless it already exists and reports
// whether a row was added. An existing membership is not an error, so the
// surrounding transaction stays usable.
func (r *MembershipRepository) Ensure(ctx context.Context, userID, ministryID uuid.UUID) (bool, error) {
	sql, args, err := r.qb.Insert(membershipTableName).
		Columns("user_id", "ministry_id").
		Values(userID, ministryID).
		Suffix("ON CONFLICT (user_id, ministry_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, classifyError("add membership", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Remove deletes the membership. When userID leads the ministry the leader
// is cleared first, in the same transaction. Returns false when there was
// no membership.
func (r *MembershipRepository) Remove(ctx context.Context, userID, ministryID uuid.UUID) (bool, error) {
	var removed bool
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.qb.Update(ministryTableName).
			Set("leader_id", nil).
			Set("updated_at", squirrel.Expr("now()")).
			Where(squirrel.Eq{"id": ministryID, "leader_id": userID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return classifyError("clear ministry leader", err)
		}

		removed, err = r.WithTx(tx).DeleteWhere(ctx, Filters{
			MembershipUserID:     userID,
			MembershipMinistryID: ministryID,
		})
		return err
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// IsMember reports whether the membership exists
func (r *MembershipRepository) IsMember(ctx context.Context, userID, ministryID uuid.UUID) (bool, error) {
	return r.Exists(ctx, Filters{MembershipUserID: userID, MembershipMinistryID: ministryID})
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/churchmanager/scheduler/internal/app/models"
	"github.com/churchmanager/scheduler/internal/app/models/dto"
	"github.com/churchmanager/scheduler/internal/app/repositories"
	"github.com/churchmanager/scheduler/internal/pkg/apperrors"
	"github.com/churchmanager/scheduler/internal/pkg/helpers"
)

// MinistryService defines the interface for ministry operations
type MinistryService interface {
	CreateMinistry(ctx context.Context, req *dto.CreateMinistryRequest) (*models.Ministry, error)
	GetMinistry(ctx context.Context, id uuid.UUID) (*models.Ministry, error)
	ListMinistries(ctx context.Context, filter *dto.MinistryFilterRequest) ([]*models.Ministry, error)
	UpdateMinistry(ctx context.Context, id uuid.UUID, req *dto.UpdateMinistryRequest) (*models.Ministry, error)
	DeleteMinistry(ctx context.Context, id uuid.UUID) error
	SearchMinistries(ctx context.Context, req *dto.MinistrySearchRequest) ([]*models.Ministry, error)
	GetActiveMinistries(ctx context.Context) ([]*models.Ministry, error)
	SetLeader(ctx context.Context, id uuid.UUID, leaderID *uuid.UUID) (*models.Ministry, error)
	AddMember(ctx context.Context, id, userID uuid.UUID) (bool, error)
	RemoveMember(ctx context.Context, id, userID uuid.UUID) (bool, error)
	GetMembers(ctx context.Context, id uuid.UUID, onlyActive bool) ([]*models.User, error)
	GetMemberCount(ctx context.Context, id uuid.UUID) (int64, error)
	GetSchedules(ctx context.Context, id uuid.UUID, activeOnly bool, limit uint64) ([]*models.Schedule, error)
	GetUserMinistries(ctx context.Context, userID uuid.UUID, onlyActive bool) (*dto.UserMinistriesResponse, error)
	DeactivateMinistry(ctx context.Context, id uuid.UUID) (*models.Ministry, error)
	ReactivateMinistry(ctx context.Context, id uuid.UUID) (*models.Ministry, error)
}

// ministryServiceImpl implements MinistryService
type ministryServiceImpl struct {
	ministryRepo ministryStore
	userRepo     userStore
	scheduleRepo scheduleStore
	logger       zerolog.Logger
}

// NewMinistryService creates a new MinistryService
func NewMinistryService(ministryRepo ministryStore, userRepo userStore, scheduleRepo scheduleStore, logger zerolog.Logger) MinistryService {
	return &ministryServiceImpl{
		ministryRepo: ministryRepo,
		userRepo:     userRepo,
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

func ministryNotFound(id uuid.UUID) error {
	return apperrors.NewResourceNotFoundError(fmt.Sprintf("ministry %s not found", id))
}

func (s *ministryServiceImpl) requireMinistry(ctx context.Context, id uuid.UUID) (*models.Ministry, error) {
	ministry, err := s.ministryRepo.Get(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if ministry == nil {
		return nil, ministryNotFound(id)
	}
	return ministry, nil
}

func (s *ministryServiceImpl) requireUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.Get(ctx, id, false)
	if err != nil {
		return err
	}
	if user == nil {
		return userNotFound(id)
	}
	return nil
}

// CreateMinistry creates a ministry and appoints its leader when one is
// given. Both happen in one transaction; an unknown leader stores nothing.
func (s *ministryServiceImpl) CreateMinistry(ctx context.Context, req *dto.CreateMinistryRequest) (*models.Ministry, error) {
	ministry, err := s.ministryRepo.CreateWithLeader(ctx, &models.Ministry{
		Name:     strings.TrimSpace(req.Name),
		IsActive: helpers.BoolOr(req.IsActive, true),
	}, req.LeaderID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("ministryID", ministry.ID.String()).Str("name", ministry.Name).Msg("Ministry created")
	return ministry, nil
}

// GetMinistry retrieves a ministry with leader, members and schedules
func (s *ministryServiceImpl) GetMinistry(ctx context.Context, id uuid.UUID) (*models.Ministry, error) {
	ministry, err := s.ministryRepo.Get(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if ministry == nil {
		return nil, ministryNotFound(id)
	}
	return ministry, nil
}

func (s *ministryServiceImpl) ListMinistries(ctx context.Context, filter *dto.MinistryFilterRequest) ([]*models.Ministry, error) {
	filters := repositories.Filters{}
	if filter.IsActive != nil {
		filters[repositories.MinistryIsActive] = *filter.IsActive
	}
	return s.ministryRepo.List(ctx, repositories.ListOptions{
		Skip:    filter.Skip,
		Limit:   helpers.NormalizeLimit(filter.Limit),
		OrderBy: filter.OrderBy,
		Filters: filters,
	})
}

// UpdateMinistry applies the fields present in req
func (s *ministryServiceImpl) UpdateMinistry(ctx context.Context, id uuid.UUID, req *dto.UpdateMinistryRequest) (*models.Ministry, error) {
	changes := repositories.Changes{}
	if req.Name != nil {
		changes[repositories.MinistryName] = strings.TrimSpace(*req.Name)
	}
	if req.IsActive != nil {
		changes[repositories.MinistryIsActive] = *req.IsActive
	}
	if len(changes) == 0 {
		return s.GetMinistry(ctx, id)
	}

	ministry, err := s.ministryRepo.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	if ministry == nil {
		return nil, ministryNotFound(id)
	}
	return ministry, nil
}

// DeleteMinistry removes a ministry together with its memberships and schedules
func (s *ministryServiceImpl) DeleteMinistry(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.ministryRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ministryNotFound(id)
	}
	s.logger.Info().Str("ministryID", id.String()).Msg("Ministry deleted")
	return nil
}

func (s *ministryServiceImpl) SearchMinistries(ctx context.Context, req *dto.MinistrySearchRequest) ([]*models.Ministry, error) {
	return s.ministryRepo.SearchMinistries(ctx, req.Query, helpers.BoolOr(req.OnlyActive, true))
}

func (s *ministryServiceImpl) GetActiveMinistries(ctx context.Context) ([]*models.Ministry, error) {
	return s.ministryRepo.GetActiveMinistries(ctx)
}

// SetLeader appoints leaderID, or clears the leader when it is nil
func (s *ministryServiceImpl) SetLeader(ctx context.Context, id uuid.UUID, leaderID *uuid.UUID) (*models.Ministry, error) {
	ministry, err := s.ministryRepo.SetLeader(ctx, id, leaderID)
	if err != nil {
		return nil, err
	}
	if ministry == nil {
		return nil, ministryNotFound(id)
	}

	event := s.logger.Info().Str("ministryID", id.String())
	if leaderID != nil {
		event.Str("leaderID", leaderID.String()).Msg("Ministry leader appointed")
	} else {
		event.Msg("Ministry leader cleared")
	}
	return ministry, nil
}

// AddMember reports false when the user already belongs to the ministry
func (s *ministryServiceImpl) AddMember(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	if _, err := s.requireMinistry(ctx, id); err != nil {
		return false, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return false, err
	}
	return s.ministryRepo.AddMember(ctx, id, userID)
}

// RemoveMember reports false when the user was not a member. Removing the
// leader also clears the ministry's leader.
func (s *ministryServiceImpl) RemoveMember(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	if _, err := s.requireMinistry(ctx, id); err != nil {
		return false, err
	}
	return s.ministryRepo.RemoveMember(ctx, id, userID)
}

func (s *ministryServiceImpl) GetMembers(ctx context.Context, id uuid.UUID, onlyActive bool) ([]*models.User, error) {
	if _, err := s.requireMinistry(ctx, id); err != nil {
		return nil, err
	}
	return s.userRepo.GetMinistryMembers(ctx, id, onlyActive)
}

func (s *ministryServiceImpl) GetMemberCount(ctx context.Context, id uuid.UUID) (int64, error) {
	if _, err := s.requireMinistry(ctx, id); err != nil {
		return 0, err
	}
	return s.ministryRepo.GetMemberCount(ctx, id)
}

// GetSchedules lists the latest schedules of a ministry; activeOnly drops
// schedules that already ended
func (s *ministryServiceImpl) GetSchedules(ctx context.Context, id uuid.UUID, activeOnly bool, limit uint64) ([]*models.Schedule, error) {
	if _, err := s.requireMinistry(ctx, id); err != nil {
		return nil, err
	}
	return s.scheduleRepo.GetMinistrySchedules(ctx, id, activeOnly, limit)
}

// GetUserMinistries lists the ministries a user belongs to and the ones they lead
func (s *ministryServiceImpl) GetUserMinistries(ctx context.Context, userID uuid.UUID, onlyActive bool) (*dto.UserMinistriesResponse, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	memberOf, err := s.ministryRepo.GetUserMinistries(ctx, userID, onlyActive)
	if err != nil {
		return nil, err
	}
	leads, err := s.ministryRepo.GetLedMinistries(ctx, userID, onlyActive)
	if err != nil {
		return nil, err
	}
	return &dto.UserMinistriesResponse{MemberOf: memberOf, Leads: leads}, nil
}

func (s *ministryServiceImpl) DeactivateMinistry(ctx context.Context, id uuid.UUID) (*models.Ministry, error) {
	ministry, err := s.ministryRepo.DeactivateMinistry(ctx, id)
	if err != nil {
		return nil, err
	}
	if ministry == nil {
		return nil, ministryNotFound(id)
	}
	return ministry, nil
}

func (s *ministryServiceImpl) ReactivateMinistry(ctx context.Context, id uuid.UUID) (*models.Ministry, error) {
	ministry, err := s.ministryRepo.ReactivateMinistry(ctx, id)
	if err != nil {
		return nil, err
	}
	if ministry == nil {
		return nil, ministryNotFound(id)
	}
	return ministry, nil
}

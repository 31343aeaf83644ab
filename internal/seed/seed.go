package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	appModels "github.com/churchmanager/scheduler/internal/app/models"
	"github.com/churchmanager/scheduler/internal/pkg/apperrors"
)

// MinistryStore is the part of the ministry repository the seeder needs
type MinistryStore interface {
	GetByName(ctx context.Context, name string) (*appModels.Ministry, error)
	Create(ctx context.Context, ministry *appModels.Ministry) (*appModels.Ministry, error)
}

// CreateDefaultData creates the named ministries that do not exist yet.
// Failures are collected so one bad name does not stop the others.
func CreateDefaultData(ctx context.Context, ministries MinistryStore, names []string, lgr zerolog.Logger) error {
	lgr.Info().Int("count", len(names)).Msg("Checking/Creating default ministries...")
	var finalErr error
	created := 0

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		existing, err := ministries.GetByName(ctx, name)
		if err != nil {
			lgr.Error().Err(err).Str("ministry", name).Msg("Error checking default ministry")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if existing != nil {
			lgr.Debug().Str("ministry", name).Msg("Default ministry already exists, skipping")
			continue
		}

		_, err = ministries.Create(ctx, &appModels.Ministry{Name: name, IsActive: true})
		switch {
		case errors.Is(err, apperrors.ErrUniquenessViolation):
			// created concurrently by another instance
			lgr.Debug().Str("ministry", name).Msg("Default ministry already exists, skipping")
		case err != nil:
			lgr.Error().Err(err).Str("ministry", name).Msg("Error creating default ministry")
			finalErr = errors.Join(finalErr, err)
		default:
			created++
		}
	}

	lgr.Info().Int("created", created).Msg("Default data check/creation finished.")
	return finalErr
}

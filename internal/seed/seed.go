package seed

import (
	"context"
	"errors"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/edunova/academia/internal/app/models"
	appRepos "github.com/edunova/academia/internal/app/repositories"
	"github.com/edunova/academia/internal/pkg/apperrors"
	"github.com/edunova/academia/internal/pkg/auth"
)

const defaultAdminEmail = "admin@academia.local"

// CreateDefaultAdmin ensures an administrative account exists so that
// role-gated endpoints are reachable on a fresh database. The password
// comes from ADMIN_PASSWORD; without it the seed is skipped.
func CreateDefaultAdmin(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		lgr.Warn().Msg("ADMIN_PASSWORD not set, skipping default admin seed")
		return nil
	}

	userRepo := appRepos.NewUserRepository(dbPool)

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = userRepo.CreateUser(ctx, &appModels.User{
		Email:        defaultAdminEmail,
		PasswordHash: hash,
		FirstName:    "System",
		LastName:     "Administrator",
		RoleType:     appModels.RoleAdmin,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			lgr.Debug().Str("email", defaultAdminEmail).Msg("Default admin already present")
			return nil
		}
		return err
	}

	lgr.Info().Str("email", defaultAdminEmail).Msg("Default admin account created")
	return nil
}

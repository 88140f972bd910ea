// Package bootstrap handles one-time initialization tasks for the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jokads/JokaTech/internal/auth"
	"github.com/jokads/JokaTech/internal/repository"
)

// AdminConfig contains configuration for the initial admin user.
type AdminConfig struct {
	Email    string
	Password string
}

// Validate checks that the admin configuration is valid.
func (c *AdminConfig) Validate() error {
	if c.Email == "" {
		return errors.New("admin email is required")
	}
	if len(c.Password) < auth.MinPasswordLength {
		return fmt.Errorf("admin password must be at least %d characters", auth.MinPasswordLength)
	}
	return nil
}

// AdminStore is the subset of queries used by EnsureMasterAdmin.
type AdminStore interface {
	GetAdminByEmail(ctx context.Context, email string) (repository.AdminUser, error)
	CreateAdminUser(ctx context.Context, arg repository.CreateAdminUserParams) (repository.AdminUser, error)
}

// EnsureMasterAdmin creates the initial admin user if it doesn't exist.
// Safe to call on every startup.
//
// A nil config or one with empty credentials logs a warning and skips.
func EnsureMasterAdmin(ctx context.Context, repo AdminStore, cfg *AdminConfig, logger *slog.Logger) error {
	if cfg == nil || cfg.Email == "" || cfg.Password == "" {
		logger.Warn("bootstrap: skipping admin creation - JOKATECH_ADMIN_EMAIL or JOKATECH_ADMIN_PASSWORD not set",
			"hint", "Set these environment variables to create an admin user on first startup",
		)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid admin configuration: %w", err)
	}

	existing, err := repo.GetAdminByEmail(ctx, cfg.Email)
	if err == nil && existing.ID.Valid {
		logger.Info("bootstrap: admin user already exists", "email", cfg.Email)
		return nil
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}

	passwordHash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	user, err := repo.CreateAdminUser(ctx, repository.CreateAdminUserParams{
		Email:        cfg.Email,
		PasswordHash: passwordHash,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		// another instance won the insert
		logger.Info("bootstrap: admin user already exists (concurrent creation)", "email", cfg.Email)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("bootstrap: admin user created successfully",
		"email", cfg.Email,
		"admin_id", repository.FromUUID(user.ID).String(),
	)

	return nil
}

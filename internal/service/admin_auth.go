package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jokads/JokaTech/internal/auth"
	"github.com/jokads/JokaTech/internal/clientstore"
	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/events"
	"github.com/jokads/JokaTech/internal/repository"
)

// AdminSessionDuration is how long an admin login stays valid.
const AdminSessionDuration = 12 * time.Hour

// AdminAuthService signs admins in and resolves their session tokens.
type AdminAuthService interface {
	// Login checks the credentials and opens an admin session. session is
	// the caller's client session, used only to announce the change.
	Login(ctx context.Context, session, email, password string) (*AdminSession, error)

	// Logout ends the admin session. Unknown tokens are not an error.
	Logout(ctx context.Context, session, token string) error

	// Authenticate resolves a token to its admin. Unknown and expired
	// tokens return an EUNAUTHORIZED error.
	Authenticate(ctx context.Context, token string) (*domain.AdminUser, error)
}

// AdminSession is a freshly issued admin login.
type AdminSession struct {
	Token     string           `json:"-"`
	Admin     domain.AdminUser `json:"admin"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// adminSessionDoc is stored in the client-state store keyed by token.
type adminSessionDoc struct {
	AdminID   uuid.UUID `json:"admin_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

type adminAuthService struct {
	repo   repository.Querier
	store  clientstore.Store
	bus    events.Bus
	logger *slog.Logger
	now    func() time.Time
}

// NewAdminAuthService creates an AdminAuthService.
func NewAdminAuthService(repo repository.Querier, store clientstore.Store, bus events.Bus, logger *slog.Logger) AdminAuthService {
	return &adminAuthService{
		repo:   repo,
		store:  store,
		bus:    bus,
		logger: logger,
		now:    time.Now,
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// equalizeTiming spends a bcrypt comparison when the email is unknown, so
// response time does not reveal which admin emails exist.
func equalizeTiming(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = auth.HashPassword("jokatech-timing-equalizer")
	})
	_ = auth.VerifyPassword(password, dummyHash)
}

func (s *adminAuthService) Login(ctx context.Context, session, email, password string) (*AdminSession, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidLogin
	}

	row, err := s.repo.GetAdminByEmail(ctx, email)
	if err != nil {
		if isNoRows(err) {
			equalizeTiming(password)
			s.logger.Warn("admin login failed", "reason", "unknown_email")
			return nil, domain.ErrInvalidLogin
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	admin := adminFromRow(row)

	if err := auth.VerifyPassword(password, admin.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn("admin login failed", "reason", "password_mismatch", "admin_id", admin.ID)
			return nil, domain.ErrInvalidLogin
		}
		return nil, err
	}

	token, err := auth.NewToken()
	if err != nil {
		return nil, err
	}
	expires := s.now().Add(AdminSessionDuration).UTC()
	if err := clientstore.Save(ctx, s.store, token, clientstore.KeyAdmin, adminSessionDoc{
		AdminID:   admin.ID,
		Email:     admin.Email,
		ExpiresAt: expires,
	}); err != nil {
		return nil, fmt.Errorf("failed to save admin session: %w", err)
	}

	s.logger.Info("admin logged in", "admin_id", admin.ID)
	if session != "" {
		publish(ctx, s.bus, s.logger, events.NewAuthChanged(session, true))
	}
	return &AdminSession{Token: token, Admin: admin, ExpiresAt: expires}, nil
}

func (s *adminAuthService) Logout(ctx context.Context, session, token string) error {
	if auth.ValidToken(token) {
		if err := s.store.Delete(ctx, token, clientstore.KeyAdmin); err != nil {
			return fmt.Errorf("failed to delete admin session: %w", err)
		}
	}
	if session != "" {
		publish(ctx, s.bus, s.logger, events.NewAuthChanged(session, false))
	}
	return nil
}

func (s *adminAuthService) Authenticate(ctx context.Context, token string) (*domain.AdminUser, error) {
	if !auth.ValidToken(token) {
		return nil, ErrAdminSessionExpired
	}

	doc, err := clientstore.Load[adminSessionDoc](ctx, s.store, s.logger, token, clientstore.KeyAdmin)
	if err != nil {
		return nil, err
	}
	if doc.AdminID == uuid.Nil {
		return nil, ErrAdminSessionExpired
	}
	if !s.now().Before(doc.ExpiresAt) {
		if err := s.store.Delete(ctx, token, clientstore.KeyAdmin); err != nil {
			s.logger.Warn("failed to delete expired admin session", "error", err)
		}
		return nil, ErrAdminSessionExpired
	}

	return &domain.AdminUser{ID: doc.AdminID, Email: doc.Email}, nil
}

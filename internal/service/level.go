package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/loyalty"
	"github.com/jokads/JokaTech/internal/repository"
	"github.com/jokads/JokaTech/internal/telemetry"
	"github.com/shopspring/decimal"
)

// LevelService tracks loyalty progress per customer email.
type LevelService interface {
	List(ctx context.Context) ([]domain.CustomerLevel, error)
	Get(ctx context.Context, email string) (*domain.CustomerLevel, error)

	// AwardXP adds xp and rolls the level forward. A customer without a
	// row starts at level 1. Negative xp is rejected.
	AwardXP(ctx context.Context, email string, xp int) (*domain.CustomerLevel, error)

	// RecordPurchase counts one paid order: one XP per whole euro, plus the
	// purchase and spend counters.
	RecordPurchase(ctx context.Context, email string, total decimal.Decimal) (*domain.CustomerLevel, error)
}

type levelService struct {
	repo   repository.Querier
	logger *slog.Logger
}

// NewLevelService creates a LevelService.
func NewLevelService(repo repository.Querier, logger *slog.Logger) LevelService {
	return &levelService{repo: repo, logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// List serves every stored level. A row that breaks the level invariants
// is reported and still listed with Inconsistent set.
func (s *levelService) List(ctx context.Context) ([]domain.CustomerLevel, error) {
	rows, err := s.repo.ListCustomerLevels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer levels: %w", err)
	}
	levels := make([]domain.CustomerLevel, 0, len(rows))
	for _, r := range rows {
		l := levelFromRow(r)
		if err := describe(&l); err != nil {
			s.reportInconsistent(ctx, l, err)
			l.Inconsistent = true
		}
		levels = append(levels, l)
	}
	return levels, nil
}

func (s *levelService) Get(ctx context.Context, email string) (*domain.CustomerLevel, error) {
	row, err := s.repo.GetCustomerLevel(ctx, normalizeEmail(email))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrLevelNotFound
		}
		return nil, fmt.Errorf("failed to get customer level: %w", err)
	}
	l := levelFromRow(row)
	if err := describe(&l); err != nil {
		s.reportInconsistent(ctx, l, err)
		return nil, domain.Internal(err, "level.get", "stored customer level is inconsistent")
	}
	return &l, nil
}

// describe fills the derived display fields and checks the stored row:
// level within bounds, discount matching the level, XP no greater than
// the rollover threshold.
func describe(l *domain.CustomerLevel) error {
	discount, err := loyalty.DiscountForLevel(l.Level)
	if err != nil {
		return err
	}
	if discount != l.DiscountPercentage {
		return domain.Errorf(domain.EINTERNAL, "level.describe",
			"stored discount %d%% does not match level %d (%d%%)", l.DiscountPercentage, l.Level, discount)
	}
	progress, err := loyalty.XPProgress(l.CurrentXP, l.XPToNextLevel)
	if err != nil {
		return err
	}
	l.XPProgress = progress
	l.XPRemaining = l.XPToNextLevel - l.CurrentXP
	l.Color = loyalty.LevelColor(l.Level)
	l.NextDiscountLevel = loyalty.NextDiscountLevel(l.Level)
	return nil
}

func (s *levelService) reportInconsistent(ctx context.Context, l domain.CustomerLevel, err error) {
	s.logger.Error("customer level violates invariants",
		"customer_email", l.CustomerEmail,
		"level", l.Level,
		"current_xp", l.CurrentXP,
		"xp_to_next_level", l.XPToNextLevel,
		"discount_percentage", l.DiscountPercentage,
		"error", err,
	)
	telemetry.CaptureErrorFromContext(ctx, err, map[string]interface{}{
		"customer_email": l.CustomerEmail,
		"level":          l.Level,
	})
}

// current returns the stored level or a fresh level-1 record.
func (s *levelService) current(ctx context.Context, email string) (domain.CustomerLevel, error) {
	row, err := s.repo.GetCustomerLevel(ctx, email)
	if err == nil {
		return levelFromRow(row), nil
	}
	if !isNoRows(err) {
		return domain.CustomerLevel{}, fmt.Errorf("failed to get customer level: %w", err)
	}
	return domain.CustomerLevel{
		CustomerEmail: email,
		Level:         loyalty.MinLevel,
		XPToNextLevel: loyalty.XPForLevel(loyalty.MinLevel),
		TotalSpent:    decimal.Zero,
	}, nil
}

func (s *levelService) AwardXP(ctx context.Context, email string, xp int) (*domain.CustomerLevel, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, domain.NewValidationError("level.award_xp", "email", "is required")
	}
	l, err := s.current(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := advance(&l, xp); err != nil {
		return nil, err
	}
	return s.save(ctx, l)
}

func (s *levelService) RecordPurchase(ctx context.Context, email string, total decimal.Decimal) (*domain.CustomerLevel, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, domain.NewValidationError("level.record_purchase", "email", "is required")
	}
	if total.IsNegative() {
		return nil, domain.ErrLevelRegression
	}
	l, err := s.current(ctx, email)
	if err != nil {
		return nil, err
	}

	before := l.Level
	if err := advance(&l, int(total.IntPart())); err != nil {
		return nil, err
	}
	l.TotalPurchases++
	l.TotalSpent = l.TotalSpent.Add(total)

	saved, err := s.save(ctx, l)
	if err != nil {
		return nil, err
	}
	if saved.Level > before {
		s.logger.Info("customer leveled up",
			"customer_email", email,
			"level", saved.Level,
			"discount_percentage", saved.DiscountPercentage,
		)
	}
	return saved, nil
}

// advance applies gained XP and recomputes the discount tier.
func advance(l *domain.CustomerLevel, gained int) error {
	p, err := loyalty.AwardXP(loyalty.Progress{
		Level:         l.Level,
		CurrentXP:     l.CurrentXP,
		XPToNextLevel: l.XPToNextLevel,
	}, gained)
	if err != nil {
		return err
	}
	discount, err := loyalty.DiscountForLevel(p.Level)
	if err != nil {
		return err
	}
	l.Level = p.Level
	l.CurrentXP = p.CurrentXP
	l.XPToNextLevel = p.XPToNextLevel
	l.DiscountPercentage = discount
	return nil
}

func (s *levelService) save(ctx context.Context, l domain.CustomerLevel) (*domain.CustomerLevel, error) {
	row, err := s.repo.UpsertCustomerLevel(ctx, repository.UpsertCustomerLevelParams{
		CustomerEmail:      l.CustomerEmail,
		Level:              int32(l.Level),
		CurrentXp:          int32(l.CurrentXP),
		XpToNextLevel:      int32(l.XPToNextLevel),
		TotalPurchases:     int32(l.TotalPurchases),
		TotalSpent:         repository.Numeric(l.TotalSpent),
		PositiveReviews:    int32(l.PositiveReviews),
		DiscountPercentage: int32(l.DiscountPercentage),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save customer level: %w", err)
	}
	saved := levelFromRow(row)
	if err := describe(&saved); err != nil {
		s.reportInconsistent(ctx, saved, err)
		return nil, domain.Internal(err, "level.save", "saved customer level is inconsistent")
	}
	return &saved, nil
}

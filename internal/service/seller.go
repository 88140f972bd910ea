package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/repository"
	"github.com/shopspring/decimal"
)

// SellerService handles marketplace seller applications.
type SellerService interface {
	Apply(ctx context.Context, input SellerInput) (*domain.SellerApplication, error)
	List(ctx context.Context) ([]domain.SellerApplication, error)

	// Approve accepts the application with a commission rate in percent,
	// 0..100.
	Approve(ctx context.Context, id uuid.UUID, commission decimal.Decimal) (*domain.SellerApplication, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SellerInput is the seller application form.
type SellerInput struct {
	BusinessName string `json:"business_name" validate:"required,max=200"`
	ContactEmail string `json:"contact_email" validate:"required,email,max=255"`
	Description  string `json:"description" validate:"max=2000"`
}

var maxCommission = decimal.NewFromInt(100)

type sellerService struct {
	repo   repository.Querier
	logger *slog.Logger
}

// NewSellerService creates a SellerService.
func NewSellerService(repo repository.Querier, logger *slog.Logger) SellerService {
	return &sellerService{repo: repo, logger: logger}
}

func (s *sellerService) Apply(ctx context.Context, input SellerInput) (*domain.SellerApplication, error) {
	input.BusinessName = strings.TrimSpace(input.BusinessName)
	input.ContactEmail = normalizeEmail(input.ContactEmail)
	input.Description = strings.TrimSpace(input.Description)
	if err := validateStruct("seller.apply", input); err != nil {
		return nil, err
	}

	row, err := s.repo.CreateSeller(ctx, repository.CreateSellerParams{
		BusinessName: input.BusinessName,
		ContactEmail: input.ContactEmail,
		Description:  input.Description,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrSellerDuplicated
		}
		return nil, fmt.Errorf("failed to create seller application: %w", err)
	}

	seller := sellerFromRow(row)
	s.logger.Info("seller application received", "seller_id", seller.ID)
	return &seller, nil
}

func (s *sellerService) List(ctx context.Context) ([]domain.SellerApplication, error) {
	rows, err := s.repo.ListSellers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sellers: %w", err)
	}
	sellers := make([]domain.SellerApplication, 0, len(rows))
	for _, r := range rows {
		sellers = append(sellers, sellerFromRow(r))
	}
	return sellers, nil
}

func (s *sellerService) Approve(ctx context.Context, id uuid.UUID, commission decimal.Decimal) (*domain.SellerApplication, error) {
	if commission.IsNegative() || commission.GreaterThan(maxCommission) {
		return nil, domain.NewValidationError("seller.approve", "commission_rate", "must be between 0 and 100")
	}

	row, err := s.repo.ApproveSeller(ctx, repository.ApproveSellerParams{
		ID:             repository.UUID(id),
		CommissionRate: repository.Numeric(commission),
	})
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrSellerNotFound
		}
		return nil, fmt.Errorf("failed to approve seller: %w", err)
	}

	seller := sellerFromRow(row)
	s.logger.Info("seller approved", "seller_id", id, "commission_rate", commission.String())
	return &seller, nil
}

func (s *sellerService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.repo.DeleteSeller(ctx, repository.UUID(id))
	if err != nil {
		return fmt.Errorf("failed to delete seller: %w", err)
	}
	if n == 0 {
		return domain.ErrSellerNotFound
	}
	return nil
}

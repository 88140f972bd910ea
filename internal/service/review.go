package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/repository"
)

// ReviewService records product ratings.
type ReviewService interface {
	// Create stores a review and recomputes the product's rating and
	// review count.
	Create(ctx context.Context, productID uuid.UUID, input ReviewInput) (*domain.Review, error)
	List(ctx context.Context, productID uuid.UUID) ([]domain.Review, error)
}

// ReviewInput is the review form.
type ReviewInput struct {
	AuthorName string `json:"author_name" validate:"required,max=100"`
	Rating     int    `json:"rating" validate:"gte=1,lte=5"`
	Comment    string `json:"comment" validate:"max=2000"`
}

type reviewService struct {
	repo    repository.Querier
	catalog ProductCatalog
	logger  *slog.Logger
}

// NewReviewService creates a ReviewService. The catalog is invalidated
// after each review so listings pick up the new rating.
func NewReviewService(repo repository.Querier, cat ProductCatalog, logger *slog.Logger) ReviewService {
	return &reviewService{repo: repo, catalog: cat, logger: logger}
}

func (s *reviewService) Create(ctx context.Context, productID uuid.UUID, input ReviewInput) (*domain.Review, error) {
	input.AuthorName = strings.TrimSpace(input.AuthorName)
	input.Comment = strings.TrimSpace(input.Comment)
	if err := validateStruct("review.create", input); err != nil {
		return nil, err
	}

	pid := repository.UUID(productID)
	if _, err := s.repo.GetProduct(ctx, pid); err != nil {
		if isNoRows(err) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	row, err := s.repo.CreateReview(ctx, repository.CreateReviewParams{
		ProductID:  pid,
		AuthorName: input.AuthorName,
		Rating:     int32(input.Rating),
		Comment:    input.Comment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	if err := s.repo.RefreshProductRating(ctx, pid); err != nil {
		return nil, fmt.Errorf("failed to refresh product rating: %w", err)
	}
	if s.catalog != nil {
		s.catalog.Invalidate(ctx)
	}

	review := reviewFromRow(row)
	s.logger.Info("review created", "product_id", productID, "rating", review.Rating)
	return &review, nil
}

func (s *reviewService) List(ctx context.Context, productID uuid.UUID) ([]domain.Review, error) {
	rows, err := s.repo.ListReviewsByProduct(ctx, repository.UUID(productID))
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	reviews := make([]domain.Review, 0, len(rows))
	for _, r := range rows {
		reviews = append(reviews, reviewFromRow(r))
	}
	return reviews, nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jokads/JokaTech/internal/clientstore"
	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/repository"
)

// FavoritesService keeps a per-session list of product snapshots.
type FavoritesService interface {
	List(ctx context.Context, session string) ([]domain.Product, error)

	// Add is a no-op for a product that is already a favorite.
	Add(ctx context.Context, session string, productID uuid.UUID) ([]domain.Product, error)
	Remove(ctx context.Context, session string, productID uuid.UUID) ([]domain.Product, error)
}

type favoritesService struct {
	repo   repository.Querier
	store  clientstore.Store
	logger *slog.Logger
}

// NewFavoritesService creates a FavoritesService.
func NewFavoritesService(repo repository.Querier, store clientstore.Store, logger *slog.Logger) FavoritesService {
	return &favoritesService{repo: repo, store: store, logger: logger}
}

func (s *favoritesService) load(ctx context.Context, session string) ([]domain.Product, error) {
	if session == "" {
		return nil, domain.ErrSessionRequired
	}
	favs, err := clientstore.Load[[]domain.Product](ctx, s.store, s.logger, session, clientstore.KeyFavorites)
	if err != nil {
		return nil, err
	}
	if favs == nil {
		favs = []domain.Product{}
	}
	return favs, nil
}

func (s *favoritesService) List(ctx context.Context, session string) ([]domain.Product, error) {
	return s.load(ctx, session)
}

func (s *favoritesService) Add(ctx context.Context, session string, productID uuid.UUID) ([]domain.Product, error) {
	favs, err := s.load(ctx, session)
	if err != nil {
		return nil, err
	}
	if indexOfProduct(favs, productID) >= 0 {
		return favs, nil
	}

	row, err := s.repo.GetProduct(ctx, repository.UUID(productID))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	p, err := productFromRow(row)
	if err != nil {
		return nil, err
	}

	favs = append(favs, p)
	if err := clientstore.Save(ctx, s.store, session, clientstore.KeyFavorites, favs); err != nil {
		return nil, fmt.Errorf("failed to save favorites: %w", err)
	}
	return favs, nil
}

func (s *favoritesService) Remove(ctx context.Context, session string, productID uuid.UUID) ([]domain.Product, error) {
	favs, err := s.load(ctx, session)
	if err != nil {
		return nil, err
	}
	i := indexOfProduct(favs, productID)
	if i < 0 {
		return favs, nil
	}
	favs = append(favs[:i], favs[i+1:]...)
	if err := clientstore.Save(ctx, s.store, session, clientstore.KeyFavorites, favs); err != nil {
		return nil, fmt.Errorf("failed to save favorites: %w", err)
	}
	return favs, nil
}

func indexOfProduct(ps []domain.Product, id uuid.UUID) int {
	for i, p := range ps {
		if p.ID == id {
			return i
		}
	}
	return -1
}

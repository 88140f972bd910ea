package service

import (
	"context"
	"fmt"

	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/repository"
)

// DashboardService aggregates the admin overview.
type DashboardService interface {
	Stats(ctx context.Context) (*domain.DashboardStats, error)

	// Customers groups orders by customer email, highest spend first.
	Customers(ctx context.Context) ([]domain.CustomerSummary, error)
}

type dashboardService struct {
	repo repository.Querier
}

func NewDashboardService(repo repository.Querier) DashboardService {
	return &dashboardService{repo: repo}
}

func (s *dashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	orders, err := s.repo.GetOrderStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get order stats: %w", err)
	}
	products, err := s.repo.CountProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	return &domain.DashboardStats{
		TotalOrders:    int(orders.TotalOrders),
		TotalRevenue:   repository.Decimal(orders.TotalRevenue),
		TotalProducts:  int(products),
		TotalCustomers: int(orders.TotalCustomers),
	}, nil
}

func (s *dashboardService) Customers(ctx context.Context) ([]domain.CustomerSummary, error) {
	rows, err := s.repo.ListCustomerSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	out := make([]domain.CustomerSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.CustomerSummary{
			Email:       r.Email,
			Name:        r.Name,
			TotalOrders: int(r.TotalOrders),
			TotalSpent:  repository.Decimal(r.TotalSpent),
		})
	}
	return out, nil
}

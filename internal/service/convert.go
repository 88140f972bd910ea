package service

import (
	"encoding/json"
	"fmt"

	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/repository"
)

// Row-to-domain mapping for the repository's pgtype models.

func productFromRow(row repository.Product) (domain.Product, error) {
	p := domain.Product{
		ID:           repository.FromUUID(row.ID),
		Name:         row.Name,
		Description:  row.Description,
		Price:        repository.Decimal(row.Price),
		Category:     row.Category,
		Brand:        row.Brand,
		Stock:        int(row.Stock),
		ImageURL:     row.ImageUrl,
		Rating:       repository.Float(row.Rating),
		ReviewsCount: int(row.ReviewsCount),
		Featured:     row.Featured,
		CreatedAt:    repository.Time(row.CreatedAt),
		UpdatedAt:    repository.Time(row.UpdatedAt),
	}
	if len(row.Specifications) > 0 {
		if err := json.Unmarshal(row.Specifications, &p.Specifications); err != nil {
			return p, fmt.Errorf("failed to decode specifications for %s: %w", p.ID, err)
		}
	}
	return p, nil
}

func productsFromRows(rows []repository.Product) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		p, err := productFromRow(row)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func reviewFromRow(row repository.Review) domain.Review {
	return domain.Review{
		ID:         repository.FromUUID(row.ID),
		ProductID:  repository.FromUUID(row.ProductID),
		AuthorName: row.AuthorName,
		Rating:     int(row.Rating),
		Comment:    row.Comment,
		CreatedAt:  repository.Time(row.CreatedAt),
	}
}

func orderFromRow(row repository.Order) (domain.Order, error) {
	o := domain.Order{
		ID:              repository.FromUUID(row.ID),
		CustomerName:    row.CustomerName,
		CustomerEmail:   row.CustomerEmail,
		CustomerPhone:   row.CustomerPhone,
		ShippingAddress: row.ShippingAddress,
		TotalAmount:     repository.Decimal(row.TotalAmount),
		Status:          domain.OrderStatus(row.Status),
		PaymentStatus:   domain.PaymentStatus(row.PaymentStatus),
		StripeSessionID: row.StripeSessionID,
		CreatedAt:       repository.Time(row.CreatedAt),
		UpdatedAt:       repository.Time(row.UpdatedAt),
	}
	o.Items = []domain.OrderItem{}
	if len(row.Items) > 0 {
		if err := json.Unmarshal(row.Items, &o.Items); err != nil {
			return o, fmt.Errorf("failed to decode items for order %s: %w", o.ID, err)
		}
	}
	return o, nil
}

func customPCFromRow(row repository.CustomPcRequest) domain.CustomPCRequest {
	return domain.CustomPCRequest{
		ID:              repository.FromUUID(row.ID),
		CustomerName:    row.CustomerName,
		CustomerEmail:   row.CustomerEmail,
		CustomerPhone:   row.CustomerPhone,
		CPU:             row.Cpu,
		GPU:             row.Gpu,
		RAM:             row.Ram,
		RAMIncluded:     row.RamIncluded,
		Motherboard:     row.Motherboard,
		Storage:         row.Storage,
		CaseType:        row.CaseType,
		PowerSupply:     row.PowerSupply,
		Cooling:         row.Cooling,
		AdditionalNotes: row.AdditionalNotes,
		EstimatedPrice:  repository.Decimal(row.EstimatedPrice),
		AssemblyFee:     repository.Decimal(row.AssemblyFee),
		Status:          domain.CustomPCStatus(row.Status),
		AdminNotes:      row.AdminNotes,
		CreatedAt:       repository.Time(row.CreatedAt),
		ApprovedAt:      repository.TimePtr(row.ApprovedAt),
		CompletedAt:     repository.TimePtr(row.CompletedAt),
	}
}

func levelFromRow(row repository.CustomerLevel) domain.CustomerLevel {
	return domain.CustomerLevel{
		CustomerEmail:      row.CustomerEmail,
		Level:              int(row.Level),
		CurrentXP:          int(row.CurrentXp),
		XPToNextLevel:      int(row.XpToNextLevel),
		TotalPurchases:     int(row.TotalPurchases),
		TotalSpent:         repository.Decimal(row.TotalSpent),
		PositiveReviews:    int(row.PositiveReviews),
		DiscountPercentage: int(row.DiscountPercentage),
		CreatedAt:          repository.Time(row.CreatedAt),
		UpdatedAt:          repository.Time(row.UpdatedAt),
	}
}

func sellerFromRow(row repository.Seller) domain.SellerApplication {
	return domain.SellerApplication{
		ID:             repository.FromUUID(row.ID),
		BusinessName:   row.BusinessName,
		ContactEmail:   row.ContactEmail,
		Description:    row.Description,
		Approved:       row.Approved,
		CommissionRate: repository.Decimal(row.CommissionRate),
		CreatedAt:      repository.Time(row.CreatedAt),
	}
}

func adminFromRow(row repository.AdminUser) domain.AdminUser {
	return domain.AdminUser{
		ID:           repository.FromUUID(row.ID),
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    repository.Time(row.CreatedAt),
	}
}

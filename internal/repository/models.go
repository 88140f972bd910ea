package repository

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Product struct {
	ID             pgtype.UUID
	Name           string
	Description    string
	Price          pgtype.Numeric
	Category       string
	Brand          string
	Stock          int32
	ImageUrl       string
	Specifications []byte
	Rating         pgtype.Numeric
	ReviewsCount   int32
	Featured       bool
	CreatedAt      pgtype.Timestamptz
	UpdatedAt      pgtype.Timestamptz
}

type Review struct {
	ID         pgtype.UUID
	ProductID  pgtype.UUID
	AuthorName string
	Rating     int32
	Comment    string
	CreatedAt  pgtype.Timestamptz
}

type Order struct {
	ID              pgtype.UUID
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
	Items           []byte
	TotalAmount     pgtype.Numeric
	Status          string
	PaymentStatus   string
	StripeSessionID string
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
}

type CustomPcRequest struct {
	ID              pgtype.UUID
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	Cpu             string
	Gpu             string
	Ram             string
	RamIncluded     bool
	Motherboard     string
	Storage         string
	CaseType        string
	PowerSupply     string
	Cooling         string
	AdditionalNotes string
	EstimatedPrice  pgtype.Numeric
	AssemblyFee     pgtype.Numeric
	Status          string
	AdminNotes      string
	CreatedAt       pgtype.Timestamptz
	ApprovedAt      pgtype.Timestamptz
	CompletedAt     pgtype.Timestamptz
}

type CustomerLevel struct {
	CustomerEmail      string
	Level              int32
	CurrentXp          int32
	XpToNextLevel      int32
	TotalPurchases     int32
	TotalSpent         pgtype.Numeric
	PositiveReviews    int32
	DiscountPercentage int32
	CreatedAt          pgtype.Timestamptz
	UpdatedAt          pgtype.Timestamptz
}

type Seller struct {
	ID             pgtype.UUID
	BusinessName   string
	ContactEmail   string
	Description    string
	Approved       bool
	CommissionRate pgtype.Numeric
	CreatedAt      pgtype.Timestamptz
}

type AdminUser struct {
	ID           pgtype.UUID
	Email        string
	PasswordHash string
	CreatedAt    pgtype.Timestamptz
}

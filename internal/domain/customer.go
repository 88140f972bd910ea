package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrLevelNotFound    = &Error{Code: ENOTFOUND, Message: "Customer level not found"}
	ErrSellerNotFound   = &Error{Code: ENOTFOUND, Message: "Seller application not found"}
	ErrInvalidLogin     = &Error{Code: EUNAUTHORIZED, Message: "Invalid email or password"}
	ErrLevelRegression  = &Error{Code: EINVALID, Message: "Level and XP cannot decrease"}
	ErrSellerDuplicated = &Error{Code: ECONFLICT, Message: "A seller application already exists for this email"}
)

// CustomerLevel tracks loyalty progress for one customer email.
type CustomerLevel struct {
	CustomerEmail      string          `json:"customer_email"`
	Level              int             `json:"level"`
	CurrentXP          int             `json:"current_xp"`
	XPToNextLevel      int             `json:"xp_to_next_level"`
	TotalPurchases     int             `json:"total_purchases"`
	TotalSpent         decimal.Decimal `json:"total_spent"`
	PositiveReviews    int             `json:"positive_reviews"`
	DiscountPercentage int             `json:"discount_percentage"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`

	// Derived from the stored fields when the level is read.
	XPProgress        float64 `json:"xp_progress"`
	XPRemaining       int     `json:"xp_remaining"`
	Color             string  `json:"color"`
	NextDiscountLevel int     `json:"next_discount_level"`

	// Inconsistent is set on a listed row whose stored values break the
	// level invariants. The values are served as stored.
	Inconsistent bool `json:"inconsistent,omitempty"`
}

// Review is a customer rating on a product.
type Review struct {
	ID         uuid.UUID `json:"id"`
	ProductID  uuid.UUID `json:"product_id"`
	AuthorName string    `json:"author_name"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// SellerApplication is a marketplace seller request.
type SellerApplication struct {
	ID             uuid.UUID       `json:"id"`
	BusinessName   string          `json:"business_name"`
	ContactEmail   string          `json:"contact_email"`
	Description    string          `json:"description"`
	Approved       bool            `json:"approved"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	CreatedAt      time.Time       `json:"created_at"`
}

// AdminUser can sign in to the dashboard.
type AdminUser struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrInvalidPrice    = &Error{Code: EINVALID, Message: "Price must not be negative"}
)

// Product is a PC component or prebuilt offered in the catalog.
// Category is free text as entered by admins; filtering normalizes it.
type Product struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Price          decimal.Decimal   `json:"price"`
	Category       string            `json:"category"`
	Brand          string            `json:"brand"`
	Stock          int               `json:"stock"`
	ImageURL       string            `json:"image_url"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Rating         float64           `json:"rating"`
	ReviewsCount   int               `json:"reviews_count"`
	Featured       bool              `json:"featured"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ProductInput carries admin-editable product fields.
type ProductInput struct {
	Name           string            `json:"name" validate:"required,max=200"`
	Description    string            `json:"description" validate:"max=5000"`
	Price          decimal.Decimal   `json:"price"`
	Category       string            `json:"category" validate:"required"`
	Brand          string            `json:"brand" validate:"required"`
	Stock          int               `json:"stock" validate:"gte=0"`
	ImageURL       string            `json:"image_url"`
	Specifications map[string]string `json:"specifications"`
	Featured       bool              `json:"featured"`
}

// ProductDetail is a product with its reviews, newest first.
type ProductDetail struct {
	Product Product  `json:"product"`
	Reviews []Review `json:"reviews"`
}

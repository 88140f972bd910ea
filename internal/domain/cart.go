package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// CART DOMAIN ERRORS
// =============================================================================

var (
	ErrCartItemNotFound = &Error{Code: ENOTFOUND, Message: "Cart item not found"}
	ErrSessionRequired  = &Error{Code: EUNAUTHORIZED, Message: "Client session required"}
	ErrInvalidQuantity  = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
)

// UnknownStockLimit caps quantities when a product reports no stock figure.
const UnknownStockLimit = 999

// CartItem is a product snapshot plus the quantity the shopper wants.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal is price times quantity at full precision.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// MaxQuantity is the upper clamp for this item.
func (i CartItem) MaxQuantity() int {
	if i.Product.Stock <= 0 {
		return UnknownStockLimit
	}
	return i.Product.Stock
}

// ClampQuantity bounds q to [1, max] for the given product.
func ClampQuantity(p Product, q int) int {
	limit := CartItem{Product: p}.MaxQuantity()
	if q > limit {
		q = limit
	}
	if q < 1 {
		q = 1
	}
	return q
}

// Cart is the ordered list of items owned by one client session.
type Cart []CartItem

// Count is the sum of quantities.
func (c Cart) Count() int {
	n := 0
	for _, it := range c {
		n += it.Quantity
	}
	return n
}

// Find returns the index of productID or -1.
func (c Cart) Find(productID uuid.UUID) int {
	for i, it := range c {
		if it.Product.ID == productID {
			return i
		}
	}
	return -1
}

// CartSummary is the cart plus its computed totals.
type CartSummary struct {
	Items    Cart            `json:"items"`
	Count    int             `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// PendingOrder is the checkout snapshot held across the payment redirect.
type PendingOrder struct {
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerPhone   string          `json:"customer_phone"`
	ShippingAddress string          `json:"shipping_address"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Items           Cart            `json:"items"`
	CheckoutSession string          `json:"checkout_session,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

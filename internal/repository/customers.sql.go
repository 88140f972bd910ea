package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const levelColumns = `customer_email, level, current_xp, xp_to_next_level, total_purchases,
    total_spent, positive_reviews, discount_percentage, created_at, updated_at`

func scanLevel(row scanner) (CustomerLevel, error) {
	var i CustomerLevel
	err := row.Scan(
		&i.CustomerEmail,
		&i.Level,
		&i.CurrentXp,
		&i.XpToNextLevel,
		&i.TotalPurchases,
		&i.TotalSpent,
		&i.PositiveReviews,
		&i.DiscountPercentage,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getCustomerLevel = `-- name: GetCustomerLevel :one
SELECT ` + levelColumns + ` FROM customer_levels WHERE customer_email = LOWER($1)
`

func (q *Queries) GetCustomerLevel(ctx context.Context, customerEmail string) (CustomerLevel, error) {
	return scanLevel(q.db.QueryRow(ctx, getCustomerLevel, customerEmail))
}

const listCustomerLevels = `-- name: ListCustomerLevels :many
SELECT ` + levelColumns + ` FROM customer_levels ORDER BY level DESC, current_xp DESC
`

func (q *Queries) ListCustomerLevels(ctx context.Context) ([]CustomerLevel, error) {
	rows, err := q.db.Query(ctx, listCustomerLevels)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CustomerLevel{}
	for rows.Next() {
		i, err := scanLevel(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertCustomerLevel = `-- name: UpsertCustomerLevel :one
INSERT INTO customer_levels (
    customer_email, level, current_xp, xp_to_next_level, total_purchases,
    total_spent, positive_reviews, discount_percentage
) VALUES (
    LOWER($1), $2, $3, $4, $5, $6, $7, $8
)
ON CONFLICT (customer_email) DO UPDATE SET
    level = EXCLUDED.level,
    current_xp = EXCLUDED.current_xp,
    xp_to_next_level = EXCLUDED.xp_to_next_level,
    total_purchases = EXCLUDED.total_purchases,
    total_spent = EXCLUDED.total_spent,
    positive_reviews = EXCLUDED.positive_reviews,
    discount_percentage = EXCLUDED.discount_percentage,
    updated_at = NOW()
RETURNING ` + levelColumns

type UpsertCustomerLevelParams struct {
	CustomerEmail      string
	Level              int32
	CurrentXp          int32
	XpToNextLevel      int32
	TotalPurchases     int32
	TotalSpent         pgtype.Numeric
	PositiveReviews    int32
	DiscountPercentage int32
}

func (q *Queries) UpsertCustomerLevel(ctx context.Context, arg UpsertCustomerLevelParams) (CustomerLevel, error) {
	row := q.db.QueryRow(ctx, upsertCustomerLevel,
		arg.CustomerEmail,
		arg.Level,
		arg.CurrentXp,
		arg.XpToNextLevel,
		arg.TotalPurchases,
		arg.TotalSpent,
		arg.PositiveReviews,
		arg.DiscountPercentage,
	)
	return scanLevel(row)
}

const sellerColumns = `id, business_name, contact_email, description, approved, commission_rate, created_at`

func scanSeller(row scanner) (Seller, error) {
	var i Seller
	err := row.Scan(
		&i.ID,
		&i.BusinessName,
		&i.ContactEmail,
		&i.Description,
		&i.Approved,
		&i.CommissionRate,
		&i.CreatedAt,
	)
	return i, err
}

const createSeller = `-- name: CreateSeller :one
INSERT INTO sellers (business_name, contact_email, description, approved)
VALUES ($1, LOWER($2), $3, FALSE)
RETURNING ` + sellerColumns

type CreateSellerParams struct {
	BusinessName string
	ContactEmail string
	Description  string
}

func (q *Queries) CreateSeller(ctx context.Context, arg CreateSellerParams) (Seller, error) {
	return scanSeller(q.db.QueryRow(ctx, createSeller, arg.BusinessName, arg.ContactEmail, arg.Description))
}

const listSellers = `-- name: ListSellers :many
SELECT ` + sellerColumns + ` FROM sellers ORDER BY created_at DESC
`

func (q *Queries) ListSellers(ctx context.Context) ([]Seller, error) {
	rows, err := q.db.Query(ctx, listSellers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Seller{}
	for rows.Next() {
		i, err := scanSeller(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const approveSeller = `-- name: ApproveSeller :one
UPDATE sellers SET approved = TRUE, commission_rate = $2
WHERE id = $1
RETURNING ` + sellerColumns

type ApproveSellerParams struct {
	ID             pgtype.UUID
	CommissionRate pgtype.Numeric
}

func (q *Queries) ApproveSeller(ctx context.Context, arg ApproveSellerParams) (Seller, error) {
	return scanSeller(q.db.QueryRow(ctx, approveSeller, arg.ID, arg.CommissionRate))
}

const deleteSeller = `-- name: DeleteSeller :execrows
DELETE FROM sellers WHERE id = $1
`

func (q *Queries) DeleteSeller(ctx context.Context, id pgtype.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteSeller, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getAdminByEmail = `-- name: GetAdminByEmail :one
SELECT id, email, password_hash, created_at FROM admin_users WHERE email = LOWER($1)
`

func (q *Queries) GetAdminByEmail(ctx context.Context, email string) (AdminUser, error) {
	var i AdminUser
	err := q.db.QueryRow(ctx, getAdminByEmail, email).Scan(&i.ID, &i.Email, &i.PasswordHash, &i.CreatedAt)
	return i, err
}

const createAdminUser = `-- name: CreateAdminUser :one
INSERT INTO admin_users (email, password_hash)
VALUES (LOWER($1), $2)
ON CONFLICT (email) DO NOTHING
RETURNING id, email, password_hash, created_at
`

type CreateAdminUserParams struct {
	Email        string
	PasswordHash string
}

// CreateAdminUser returns pgx.ErrNoRows when the email is already taken.
func (q *Queries) CreateAdminUser(ctx context.Context, arg CreateAdminUserParams) (AdminUser, error) {
	var i AdminUser
	err := q.db.QueryRow(ctx, createAdminUser, arg.Email, arg.PasswordHash).Scan(&i.ID, &i.Email, &i.PasswordHash, &i.CreatedAt)
	return i, err
}

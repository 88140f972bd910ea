package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, customer_name, customer_email, customer_phone, shipping_address, items,
    total_amount, status, payment_status, stripe_session_id, created_at, updated_at`

func scanOrder(row scanner) (Order, error) {
	var i Order
	err := row.Scan(
		&i.ID,
		&i.CustomerName,
		&i.CustomerEmail,
		&i.CustomerPhone,
		&i.ShippingAddress,
		&i.Items,
		&i.TotalAmount,
		&i.Status,
		&i.PaymentStatus,
		&i.StripeSessionID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createOrderIfAbsent = `-- name: CreateOrderIfAbsent :one
INSERT INTO orders (
    customer_name, customer_email, customer_phone, shipping_address, items,
    total_amount, status, payment_status, stripe_session_id
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9
)
ON CONFLICT (stripe_session_id) DO NOTHING
RETURNING ` + orderColumns

type CreateOrderParams struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
	Items           []byte
	TotalAmount     pgtype.Numeric
	Status          string
	PaymentStatus   string
	StripeSessionID string
}

// CreateOrderIfAbsent returns pgx.ErrNoRows when an order with the same
// stripe_session_id already exists.
func (q *Queries) CreateOrderIfAbsent(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrderIfAbsent,
		arg.CustomerName,
		arg.CustomerEmail,
		arg.CustomerPhone,
		arg.ShippingAddress,
		arg.Items,
		arg.TotalAmount,
		arg.Status,
		arg.PaymentStatus,
		arg.StripeSessionID,
	)
	return scanOrder(row)
}

const getOrder = `-- name: GetOrder :one
SELECT ` + orderColumns + ` FROM orders WHERE id = $1
`

func (q *Queries) GetOrder(ctx context.Context, id pgtype.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrder, id))
}

const getOrderBySessionID = `-- name: GetOrderBySessionID :one
SELECT ` + orderColumns + ` FROM orders WHERE stripe_session_id = $1
`

func (q *Queries) GetOrderBySessionID(ctx context.Context, stripeSessionID string) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderBySessionID, stripeSessionID))
}

const listOrders = `-- name: ListOrders :many
SELECT ` + orderColumns + `
FROM orders
WHERE ($1::text IS NULL OR status = $1::text)
ORDER BY created_at DESC
`

func (q *Queries) ListOrders(ctx context.Context, status pgtype.Text) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrders, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Order{}
	for rows.Next() {
		i, err := scanOrder(rows)
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

const updateOrderStatus = `-- name: UpdateOrderStatus :one
UPDATE orders SET status = $2, updated_at = NOW()
WHERE id = $1 AND status = $3
RETURNING ` + orderColumns

type UpdateOrderStatusParams struct {
	ID         pgtype.UUID
	Status     string
	FromStatus string
}

// UpdateOrderStatus only applies when the row is still in FromStatus.
func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderStatus, arg.ID, arg.Status, arg.FromStatus))
}

const setOrderPaymentStatus = `-- name: SetOrderPaymentStatus :execrows
UPDATE orders SET payment_status = $2, updated_at = NOW()
WHERE stripe_session_id = $1
`

type SetOrderPaymentStatusParams struct {
	StripeSessionID string
	PaymentStatus   string
}

func (q *Queries) SetOrderPaymentStatus(ctx context.Context, arg SetOrderPaymentStatusParams) (int64, error) {
	result, err := q.db.Exec(ctx, setOrderPaymentStatus, arg.StripeSessionID, arg.PaymentStatus)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getOrderStats = `-- name: GetOrderStats :one
SELECT
    COUNT(*)::bigint AS total_orders,
    COALESCE(SUM(total_amount), 0)::numeric AS total_revenue,
    COUNT(DISTINCT LOWER(customer_email))::bigint AS total_customers
FROM orders
`

type GetOrderStatsRow struct {
	TotalOrders    int64
	TotalRevenue   pgtype.Numeric
	TotalCustomers int64
}

func (q *Queries) GetOrderStats(ctx context.Context) (GetOrderStatsRow, error) {
	var i GetOrderStatsRow
	err := q.db.QueryRow(ctx, getOrderStats).Scan(&i.TotalOrders, &i.TotalRevenue, &i.TotalCustomers)
	return i, err
}

const listCustomerSummaries = `-- name: ListCustomerSummaries :many
SELECT
    LOWER(customer_email) AS email,
    MAX(customer_name)::text AS name,
    COUNT(*)::bigint AS total_orders,
    COALESCE(SUM(total_amount), 0)::numeric AS total_spent
FROM orders
GROUP BY LOWER(customer_email)
ORDER BY total_spent DESC
`

type ListCustomerSummariesRow struct {
	Email       string
	Name        string
	TotalOrders int64
	TotalSpent  pgtype.Numeric
}

func (q *Queries) ListCustomerSummaries(ctx context.Context) ([]ListCustomerSummariesRow, error) {
	rows, err := q.db.Query(ctx, listCustomerSummaries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListCustomerSummariesRow{}
	for rows.Next() {
		var i ListCustomerSummariesRow
		if err := rows.Scan(&i.Email, &i.Name, &i.TotalOrders, &i.TotalSpent); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

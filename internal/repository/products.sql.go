package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

const productColumns = `id, name, description, price, category, brand, stock, image_url,
    specifications, rating, reviews_count, featured, created_at, updated_at`

func scanProduct(row scanner) (Product, error) {
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Price,
		&i.Category,
		&i.Brand,
		&i.Stock,
		&i.ImageUrl,
		&i.Specifications,
		&i.Rating,
		&i.ReviewsCount,
		&i.Featured,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) queryProducts(ctx context.Context, sql string, args ...interface{}) ([]Product, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Product{}
	for rows.Next() {
		i, err := scanProduct(rows)
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

const listProducts = `-- name: ListProducts :many
SELECT ` + productColumns + `
FROM products
ORDER BY created_at DESC
`

func (q *Queries) ListProducts(ctx context.Context) ([]Product, error) {
	return q.queryProducts(ctx, listProducts)
}

const getProduct = `-- name: GetProduct :one
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`

func (q *Queries) GetProduct(ctx context.Context, id pgtype.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProduct, id))
}

const getProductsByIDs = `-- name: GetProductsByIDs :many
SELECT ` + productColumns + `
FROM products
WHERE id = ANY($1::uuid[])
`

func (q *Queries) GetProductsByIDs(ctx context.Context, ids []pgtype.UUID) ([]Product, error) {
	return q.queryProducts(ctx, getProductsByIDs, ids)
}

const createProduct = `-- name: CreateProduct :one
INSERT INTO products (
    name, description, price, category, brand, stock, image_url, specifications, featured
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9
)
RETURNING ` + productColumns

type CreateProductParams struct {
	Name           string
	Description    string
	Price          pgtype.Numeric
	Category       string
	Brand          string
	Stock          int32
	ImageUrl       string
	Specifications []byte
	Featured       bool
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, createProduct,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.Category,
		arg.Brand,
		arg.Stock,
		arg.ImageUrl,
		arg.Specifications,
		arg.Featured,
	)
	return scanProduct(row)
}

const updateProduct = `-- name: UpdateProduct :one
UPDATE products SET
    name = $2,
    description = $3,
    price = $4,
    category = $5,
    brand = $6,
    stock = $7,
    image_url = $8,
    specifications = $9,
    featured = $10,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + productColumns

type UpdateProductParams struct {
	ID             pgtype.UUID
	Name           string
	Description    string
	Price          pgtype.Numeric
	Category       string
	Brand          string
	Stock          int32
	ImageUrl       string
	Specifications []byte
	Featured       bool
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, updateProduct,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.Category,
		arg.Brand,
		arg.Stock,
		arg.ImageUrl,
		arg.Specifications,
		arg.Featured,
	)
	return scanProduct(row)
}

const updateProductPrice = `-- name: UpdateProductPrice :one
UPDATE products SET price = $2, updated_at = NOW()
WHERE id = $1
RETURNING ` + productColumns

type UpdateProductPriceParams struct {
	ID    pgtype.UUID
	Price pgtype.Numeric
}

func (q *Queries) UpdateProductPrice(ctx context.Context, arg UpdateProductPriceParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, updateProductPrice, arg.ID, arg.Price))
}

const updateProductImage = `-- name: UpdateProductImage :one
UPDATE products SET image_url = $2, updated_at = NOW()
WHERE id = $1
RETURNING ` + productColumns

type UpdateProductImageParams struct {
	ID       pgtype.UUID
	ImageUrl string
}

func (q *Queries) UpdateProductImage(ctx context.Context, arg UpdateProductImageParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, updateProductImage, arg.ID, arg.ImageUrl))
}

const deleteProduct = `-- name: DeleteProduct :execrows
DELETE FROM products WHERE id = $1
`

func (q *Queries) DeleteProduct(ctx context.Context, id pgtype.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteProduct, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const countProducts = `-- name: CountProducts :one
SELECT COUNT(*) FROM products
`

func (q *Queries) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countProducts).Scan(&count)
	return count, err
}

const refreshProductRating = `-- name: RefreshProductRating :exec
UPDATE products SET
    rating = COALESCE((SELECT ROUND(AVG(r.rating)::numeric, 2) FROM reviews r WHERE r.product_id = $1), 0),
    reviews_count = (SELECT COUNT(*) FROM reviews r WHERE r.product_id = $1),
    updated_at = NOW()
WHERE id = $1
`

func (q *Queries) RefreshProductRating(ctx context.Context, productID pgtype.UUID) error {
	_, err := q.db.Exec(ctx, refreshProductRating, productID)
	return err
}

const createReview = `-- name: CreateReview :one
INSERT INTO reviews (product_id, author_name, rating, comment)
VALUES ($1, $2, $3, $4)
RETURNING id, product_id, author_name, rating, comment, created_at
`

type CreateReviewParams struct {
	ProductID  pgtype.UUID
	AuthorName string
	Rating     int32
	Comment    string
}

func (q *Queries) CreateReview(ctx context.Context, arg CreateReviewParams) (Review, error) {
	row := q.db.QueryRow(ctx, createReview, arg.ProductID, arg.AuthorName, arg.Rating, arg.Comment)
	var i Review
	err := row.Scan(&i.ID, &i.ProductID, &i.AuthorName, &i.Rating, &i.Comment, &i.CreatedAt)
	return i, err
}

const listReviewsByProduct = `-- name: ListReviewsByProduct :many
SELECT id, product_id, author_name, rating, comment, created_at
FROM reviews
WHERE product_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListReviewsByProduct(ctx context.Context, productID pgtype.UUID) ([]Review, error) {
	rows, err := q.db.Query(ctx, listReviewsByProduct, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Review{}
	for rows.Next() {
		var i Review
		if err := rows.Scan(&i.ID, &i.ProductID, &i.AuthorName, &i.Rating, &i.Comment, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

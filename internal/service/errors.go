package service

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jokads/JokaTech/internal/domain"
)

// Checkout and payment errors
var (
	ErrPaymentNotCompleted = domain.Errorf(domain.EPAYMENT, "", "Payment has not been completed")
	ErrSessionMismatch     = domain.Errorf(domain.EINVALID, "", "Payment session does not belong to this checkout")
)

// Admin errors
var (
	ErrAdminSessionExpired = domain.Errorf(domain.EUNAUTHORIZED, "", "Admin session expired")
	ErrInvalidImage        = domain.Errorf(domain.EINVALID, "", "Image must be a JPEG, PNG, WebP or GIF file")
)

// Custom PC errors
var (
	ErrComponentNotFound = domain.Errorf(domain.ENOTFOUND, "", "Selected component not found")
	ErrComponentCategory = domain.Errorf(domain.EINVALID, "", "Component does not belong to the selected slot")
)

const pgUniqueViolation = "23505"

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

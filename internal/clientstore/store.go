// Package clientstore keeps small JSON documents per client session: the
// cart, the pending order held across the payment redirect, and favorites.
// Each Set replaces the whole document, so a reader never sees a partial
// update.
package clientstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Well-known document keys.
const (
	KeyCart         = "cart"
	KeyPendingOrder = "pendingOrder"
	KeyLastOrder    = "lastOrder"
	KeyFavorites    = "favorites"
	KeyAdmin        = "admin"
)

// ErrNotFound is returned when a session has no document under a key.
var ErrNotFound = errors.New("clientstore: not found")

// Store persists raw documents for a session.
type Store interface {
	Get(ctx context.Context, session, key string) ([]byte, error)
	Set(ctx context.Context, session, key string, value []byte) error
	Delete(ctx context.Context, session, key string) error
}

// Load decodes the document at key into a T. A missing document yields the
// zero T. A document that fails to decode is deleted and the zero T is
// returned so that a corrupt value cannot wedge the session.
func Load[T any](ctx context.Context, s Store, logger *slog.Logger, session, key string) (T, error) {
	var zero T

	raw, err := s.Get(ctx, session, key)
	if errors.Is(err, ErrNotFound) {
		return zero, nil
	}
	if err != nil {
		return zero, fmt.Errorf("failed to read %s: %w", key, err)
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		if logger != nil {
			logger.Warn("resetting malformed client document",
				"session", session,
				"key", key,
				"error", err,
			)
		}
		if delErr := s.Delete(ctx, session, key); delErr != nil {
			return zero, fmt.Errorf("failed to reset %s: %w", key, delErr)
		}
		return zero, nil
	}
	return v, nil
}

// Exists reports whether a document is stored at key.
func Exists(ctx context.Context, s Store, session, key string) (bool, error) {
	_, err := s.Get(ctx, session, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Save encodes v and stores it at key.
func Save[T any](ctx context.Context, s Store, session, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.Set(ctx, session, key, raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

package cart

import (
	"context"
	"errors"

	"github.com/emiliohtp1/tienda-backend/internal/domain"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrLineNotFound    = errors.New("item not found in cart")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Repository persists one cart aggregate per user. No multi-document
// guarantees are assumed beyond single-document atomicity; consistency
// between carts and the catalog is handled above this interface.
type Repository interface {
	// Get returns the user's cart or ErrCartNotFound.
	Get(ctx context.Context, userID string) (*domain.Cart, error)

	// Save upserts the whole cart document keyed by UserID.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the user's cart, returning ErrCartNotFound when absent.
	Delete(ctx context.Context, userID string) error
}
